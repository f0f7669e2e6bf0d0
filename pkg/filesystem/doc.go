// Package filesystem provides the filesystem abstraction used across
// deskforge, plus the scoped creation primitives that apply ownership
// normalization after every mutation.
//
// Two FS implementations exist: one backed by the real OS filesystem and one
// backed by afero for in-memory tests. Higher layers never call os.* file
// functions directly; they go through Ops so that the privilege-dependent
// ownership post-condition holds on every created file, directory and
// symlink.
package filesystem

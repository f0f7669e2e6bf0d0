package feature

import (
	"strings"

	"github.com/deskforge/deskforge/pkg/errors"
)

// Tuple attributes arrive as semicolon-delimited strings. The parsers below
// are strict about arity so malformed table entries fail at load time, not
// mid-install.

// Keybinding maps a command to a key combination under a display name
type Keybinding struct {
	Command string
	Binding string
	Name    string
}

// String renders the registry line form
func (k Keybinding) String() string {
	return k.Command + ";" + k.Binding + ";" + k.Name
}

// ParseKeybinding parses "command;binding;name"
func ParseKeybinding(s string) (Keybinding, error) {
	parts := strings.Split(s, ";")
	if len(parts) != 3 {
		return Keybinding{}, errors.Newf(errors.ErrAttributeParse,
			"keybinding %q: want command;binding;name", s)
	}
	return Keybinding{Command: parts[0], Binding: parts[1], Name: parts[2]}, nil
}

// Download names a URL and the artifact filename it is stored under
type Download struct {
	URL      string
	Filename string
}

// ParseDownload parses "url;filename"
func ParseDownload(s string) (Download, error) {
	parts := strings.Split(s, ";")
	if len(parts) != 2 {
		return Download{}, errors.Newf(errors.ErrAttributeParse,
			"download %q: want url;filename", s)
	}
	return Download{URL: parts[0], Filename: parts[1]}, nil
}

// BinaryPath exposes a feature binary on the execution path
type BinaryPath struct {
	// Path is absolute, or relative to the feature's artifacts directory
	Path string
	// ExposedName is the link name placed in the path-exposure directory
	ExposedName string
}

// ParseBinaryPath parses "path;exposedName"
func ParseBinaryPath(s string) (BinaryPath, error) {
	parts := strings.Split(s, ";")
	if len(parts) != 2 {
		return BinaryPath{}, errors.Newf(errors.ErrAttributeParse,
			"binary path %q: want path;exposedName", s)
	}
	return BinaryPath{Path: parts[0], ExposedName: parts[1]}, nil
}

// MoveFile relocates files out of the feature's artifacts directory
type MoveFile struct {
	// Pattern is an exact filename, or a *-suffix wildcard matched against
	// the artifacts directory listing
	Pattern     string
	Destination string
}

// ParseMoveFile parses "pattern;destination"
func ParseMoveFile(s string) (MoveFile, error) {
	parts := strings.Split(s, ";")
	if len(parts) != 2 {
		return MoveFile{}, errors.Newf(errors.ErrAttributeParse,
			"movefiles %q: want pattern;destination", s)
	}
	return MoveFile{Pattern: parts[0], Destination: parts[1]}, nil
}

// Association binds a MIME type to a launcher
type Association struct {
	MimeType string
	// Launcher overrides the feature key when non-empty
	Launcher string
}

// ParseAssociation parses "mimeType" or "mimeType;launcher"
func ParseAssociation(s string) (Association, error) {
	parts := strings.Split(s, ";")
	switch len(parts) {
	case 1:
		return Association{MimeType: parts[0]}, nil
	case 2:
		return Association{MimeType: parts[0], Launcher: parts[1]}, nil
	}
	return Association{}, errors.Newf(errors.ErrAttributeParse,
		"file association %q: want mimeType[;launcher]", s)
}

// FileSpec materializes arbitrary content at a path. Relative paths are
// anchored at the feature's artifacts directory.
type FileSpec struct {
	Key     string
	Content string
	Path    string
}

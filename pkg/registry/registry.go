// Package registry implements the durable cross-feature state files:
// line-oriented, append-only, deduplicated lists that session-start
// reconciliation consumes. Four registries exist: favorites, keybindings,
// shell-function imports and shell-initialization imports.
//
// Registries are accessed without locking. Concurrent engine runs can race
// on appends; the contract is last-writer-wins with no cross-process safety.
package registry

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/deskforge/deskforge/pkg/errors"
	"github.com/deskforge/deskforge/pkg/filesystem"
	"github.com/deskforge/deskforge/pkg/logging"
)

// Registry is one file-backed, deduplicated line list
type Registry struct {
	ops    *filesystem.Ops
	path   string
	logger zerolog.Logger
}

// New creates a registry backed by the file at path. The file is created
// lazily on first append.
func New(ops *filesystem.Ops, path string) *Registry {
	return &Registry{
		ops:    ops,
		path:   path,
		logger: logging.GetLogger("registry"),
	}
}

// Path returns the backing file location
func (r *Registry) Path() string {
	return r.path
}

// Entries returns every non-empty line in file order. A missing file reads
// as an empty registry.
func (r *Registry) Entries() ([]string, error) {
	content, err := r.ops.FS().ReadFile(r.path)
	if err != nil {
		if !r.ops.Exists(r.path) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrRegistryRead, "failed reading registry %s", r.path)
	}

	var entries []string
	for _, line := range strings.Split(string(content), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			entries = append(entries, trimmed)
		}
	}
	return entries, nil
}

// Has reports whether an identical entry is already present
func (r *Registry) Has(entry string) (bool, error) {
	entries, err := r.Entries()
	if err != nil {
		return false, err
	}
	for _, existing := range entries {
		if existing == entry {
			return true, nil
		}
	}
	return false, nil
}

// Append adds an entry unless an identical one exists. Re-running with the
// same input leaves exactly one entry.
func (r *Registry) Append(entry string) error {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return errors.New(errors.ErrInvalidInput, "registry entry cannot be empty")
	}

	present, err := r.Has(entry)
	if err != nil {
		return err
	}
	if present {
		r.logger.Debug().Str("entry", entry).Str("registry", r.path).Msg("Entry already registered")
		return nil
	}

	entries, err := r.Entries()
	if err != nil {
		return err
	}
	entries = append(entries, entry)

	content := strings.Join(entries, "\n") + "\n"
	if err := r.ops.CreateFile(r.path, []byte(content), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrRegistryWrite, "failed appending to registry %s", r.path)
	}

	r.logger.Debug().Str("entry", entry).Str("registry", r.path).Msg("Entry registered")
	return nil
}

// Ensure creates an empty registry file if none exists yet
func (r *Registry) Ensure() error {
	if r.ops.Exists(r.path) {
		return nil
	}
	if err := r.ops.CreateFile(r.path, nil, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrRegistryWrite, "failed creating registry %s", r.path)
	}
	return nil
}

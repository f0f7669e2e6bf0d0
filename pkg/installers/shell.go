package installers

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/deskforge/deskforge/pkg/feature"
)

// sourceLine renders the import statement a shell registry carries for a
// materialized script
func sourceLine(path string) string {
	return fmt.Sprintf("source %q", path)
}

// shellFunctions materializes one script per entry under the function-scripts
// directory and registers an import line in the per-terminal registry. The
// registry append is idempotent, so repeated installs stay single-sourced.
type shellFunctions struct {
	deps *Deps
}

func (s *shellFunctions) Name() string { return "shell-functions" }

func (s *shellFunctions) AppliesTo(desc *feature.Descriptor) bool {
	return len(desc.BashFunctions) > 0
}

func (s *shellFunctions) Apply(ctx context.Context, desc *feature.Descriptor) error {
	for i, body := range desc.BashFunctions {
		path := filepath.Join(s.deps.Paths.FunctionsDir(), scriptName(desc.Key, i))
		if err := s.deps.Ops.CreateFile(path, []byte(body), 0755); err != nil {
			return err
		}
		if err := s.deps.Registries.Functions.Append(sourceLine(path)); err != nil {
			return err
		}
	}
	return nil
}

// shellInits is the once-per-login sibling of shellFunctions: scripts land in
// the init-scripts directory and the import goes into the login registry.
type shellInits struct {
	deps *Deps
}

func (s *shellInits) Name() string { return "shell-inits" }

func (s *shellInits) AppliesTo(desc *feature.Descriptor) bool {
	return len(desc.BashInitializations) > 0
}

func (s *shellInits) Apply(ctx context.Context, desc *feature.Descriptor) error {
	for i, body := range desc.BashInitializations {
		path := filepath.Join(s.deps.Paths.InitsDir(), scriptName(desc.Key, i))
		if err := s.deps.Ops.CreateFile(path, []byte(body), 0755); err != nil {
			return err
		}
		if err := s.deps.Registries.Inits.Append(sourceLine(path)); err != nil {
			return err
		}
	}
	return nil
}

func scriptName(key string, index int) string {
	return fmt.Sprintf("%s_%d.sh", key, index)
}

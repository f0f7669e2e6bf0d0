package installers

import (
	"context"

	"github.com/deskforge/deskforge/pkg/desktop"
	"github.com/deskforge/deskforge/pkg/feature"
)

// fileAssociations edits the desktop's MIME-association file, binding each
// declared type to the feature's launcher. A missing association file is a
// warning, not a failure.
type fileAssociations struct {
	deps *Deps
}

func (s *fileAssociations) Name() string { return "associations" }

func (s *fileAssociations) AppliesTo(desc *feature.Descriptor) bool {
	return len(desc.AssociatedFileTypes) > 0
}

func (s *fileAssociations) Apply(ctx context.Context, desc *feature.Descriptor) error {
	logger := stepLogger(s.Name())

	path := s.deps.Paths.MimeAppsPath()
	if !s.deps.Ops.Exists(path) {
		logger.Warn().Str("file", path).
			Msg("MIME association file missing, skipping file associations")
		return nil
	}

	raw, err := s.deps.Ops.FS().ReadFile(path)
	if err != nil {
		return err
	}

	content := string(raw)
	for _, assoc := range desc.AssociatedFileTypes {
		launcher := assoc.Launcher
		if launcher == "" {
			launcher = desc.Key
		}
		content = desktop.AddAssociation(content, assoc.MimeType, launcher)
	}

	if content == string(raw) {
		return nil
	}
	return s.deps.Ops.CreateFile(path, []byte(content), 0644)
}

// keybindings records the feature's command;binding;name triplets in the
// keybinding registry. The live settings slots are written later by the
// session-start reconciliation, not here.
type keybindings struct {
	deps *Deps
}

func (s *keybindings) Name() string { return "keybindings" }

func (s *keybindings) AppliesTo(desc *feature.Descriptor) bool {
	return len(desc.Keybindings) > 0
}

func (s *keybindings) Apply(ctx context.Context, desc *feature.Descriptor) error {
	for _, kb := range desc.Keybindings {
		if err := s.deps.Registries.Keybindings.Append(kb.String()); err != nil {
			return err
		}
	}
	return nil
}

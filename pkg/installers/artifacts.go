package installers

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/deskforge/deskforge/pkg/feature"
	"github.com/deskforge/deskforge/pkg/paths"
)

// downloads fetches each url;filename tuple into the feature's artifacts
// directory. It runs before every step that consumes downloaded files.
type downloads struct {
	deps *Deps
}

func (s *downloads) Name() string { return "downloads" }

func (s *downloads) AppliesTo(desc *feature.Descriptor) bool {
	return len(desc.Downloads) > 0
}

func (s *downloads) Apply(ctx context.Context, desc *feature.Descriptor) error {
	dir := s.deps.Paths.FeatureDir(desc.Key)
	if err := s.deps.Ops.CreateDir(dir); err != nil {
		return err
	}
	for _, dl := range desc.Downloads {
		if err := s.deps.Fetch.Download(ctx, dl.URL, filepath.Join(dir, dl.Filename)); err != nil {
			return err
		}
	}
	return nil
}

// arbitraryFiles materializes the filekeys content. An absolute path is taken
// as-is; anything else lands under the feature's artifacts directory.
type arbitraryFiles struct {
	deps *Deps
}

func (s *arbitraryFiles) Name() string { return "files" }

func (s *arbitraryFiles) AppliesTo(desc *feature.Descriptor) bool {
	return len(desc.Files) > 0
}

func (s *arbitraryFiles) Apply(ctx context.Context, desc *feature.Descriptor) error {
	for _, spec := range desc.Files {
		path := spec.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(s.deps.Paths.FeatureDir(desc.Key), path)
		}
		if err := s.deps.Ops.CreateFile(path, []byte(spec.Content), 0644); err != nil {
			return err
		}
	}
	return nil
}

// fileMoves relocates files out of the feature's artifacts directory. A
// pattern containing '*' is a suffix match against the directory listing;
// anything else is an exact filename move.
type fileMoves struct {
	deps *Deps
}

func (s *fileMoves) Name() string { return "file-moves" }

func (s *fileMoves) AppliesTo(desc *feature.Descriptor) bool {
	return len(desc.MoveFiles) > 0
}

func (s *fileMoves) Apply(ctx context.Context, desc *feature.Descriptor) error {
	logger := stepLogger(s.Name())
	featureDir := s.deps.Paths.FeatureDir(desc.Key)

	for _, mv := range desc.MoveFiles {
		destination := paths.ExpandHome(mv.Destination)
		if err := s.deps.Ops.CreateDir(destination); err != nil {
			return err
		}

		if strings.Contains(mv.Pattern, "*") {
			suffix := mv.Pattern[strings.LastIndex(mv.Pattern, "*")+1:]
			entries, err := s.deps.Ops.FS().ReadDir(featureDir)
			if err != nil {
				logger.Warn().Str("dir", featureDir).
					Msg("Artifacts directory unreadable, skipping move")
				continue
			}
			moved := 0
			for _, entry := range entries {
				if !strings.HasSuffix(entry.Name(), suffix) {
					continue
				}
				src := filepath.Join(featureDir, entry.Name())
				if err := s.deps.Ops.MoveFile(src, filepath.Join(destination, entry.Name())); err != nil {
					return err
				}
				moved++
			}
			if moved == 0 {
				logger.Warn().Str("pattern", mv.Pattern).Msg("Pattern matched no files")
			}
			continue
		}

		src := filepath.Join(featureDir, mv.Pattern)
		if !s.deps.Ops.Exists(src) {
			logger.Warn().Str("file", src).Msg("Move source missing, skipping")
			continue
		}
		if err := s.deps.Ops.MoveFile(src, filepath.Join(destination, mv.Pattern)); err != nil {
			return err
		}
	}
	return nil
}

// pathBinaries exposes feature binaries on the execution path by symlinking
// them into the system-wide bin directory when running elevated, the personal
// one otherwise.
type pathBinaries struct {
	deps *Deps
}

func (s *pathBinaries) Name() string { return "binaries" }

func (s *pathBinaries) AppliesTo(desc *feature.Descriptor) bool {
	return len(desc.BinariesInstalledPaths) > 0
}

func (s *pathBinaries) Apply(ctx context.Context, desc *feature.Descriptor) error {
	binDir := s.deps.Paths.PersonalBinDir()
	if s.deps.Ops.Privilege().Elevated {
		binDir = s.deps.Paths.SystemBinDir()
	}

	for _, bin := range desc.BinariesInstalledPaths {
		target := bin.Path
		if !filepath.IsAbs(target) {
			target = filepath.Join(s.deps.Paths.FeatureDir(desc.Key), target)
		}
		if err := s.deps.Ops.CreateSymlink(target, filepath.Join(binDir, bin.ExposedName)); err != nil {
			return err
		}
	}
	return nil
}

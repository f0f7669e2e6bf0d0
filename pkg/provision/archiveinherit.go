package provision

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/deskforge/deskforge/pkg/archive"
	"github.com/deskforge/deskforge/pkg/feature"
	"github.com/deskforge/deskforge/pkg/paths"
)

// archiveInherit downloads an archive and decompresses it at the target
// directory. Unless the feature opts out, the extracted top-level directory
// is normalized to the feature key so every later installer finds the
// feature's files at a predictable path.
type archiveInherit struct {
	deps   *Deps
	logger zerolog.Logger
}

func (s *archiveInherit) Type() feature.InstallType { return feature.ArchiveInherit }

func (s *archiveInherit) Provision(ctx context.Context, desc *feature.Descriptor) error {
	destination := paths.ExpandHome(desc.CompressedFilePathOverride)

	if err := s.deps.Fetch.Download(ctx, desc.CompressedFileURL, destination); err != nil {
		return err
	}

	rename := desc.Key
	if desc.DoNotInherit {
		rename = ""
	}

	kind := archive.ParseKind(desc.CompressedFileType)
	s.logger.Debug().
		Str("feature", desc.Key).
		Str("kind", string(kind)).
		Bool("inherit", !desc.DoNotInherit).
		Msg("Decompressing archive")
	return s.deps.Archive.Decompress(ctx, kind, destination, rename)
}

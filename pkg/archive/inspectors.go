package archive

import (
	"context"
	"strings"

	"github.com/deskforge/deskforge/pkg/errors"
	"github.com/deskforge/deskforge/pkg/executor"
)

// zipInspector probes zip archives through the unzip tool
type zipInspector struct {
	runner executor.Runner
}

// RootName parses the fourth line of the flat `unzip -l` listing: the first
// real entry after the header. A trailing path separator is stripped; a line
// without a name field means the archive exposes no top-level directory.
func (z *zipInspector) RootName(ctx context.Context, archivePath string) (string, error) {
	result, err := z.runner.Run(ctx, "unzip", "-l", archivePath)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrArchiveInspect, "failed listing %s", archivePath)
	}

	lines := strings.Split(result.Stdout, "\n")
	if len(lines) < 4 {
		return "", nil
	}
	fields := strings.Fields(lines[3])
	if len(fields) < 4 {
		return "", nil
	}
	// The name is taken verbatim: a nested first entry yields a name that
	// never materializes as a directory, which the engine then treats as
	// "no top-level directory found".
	return strings.TrimSuffix(fields[3], "/"), nil
}

func (z *zipInspector) Extract(ctx context.Context, archivePath, destDir string) error {
	if _, err := z.runner.RunInDir(ctx, destDir, "unzip", "-o", "-q", archivePath); err != nil {
		return errors.Wrapf(err, errors.ErrArchiveExtract, "failed extracting %s", archivePath)
	}
	return nil
}

// tarInspector probes tar archives, compressed per its kind flag
type tarInspector struct {
	runner executor.Runner
	kind   Kind
}

// RootName takes the first path segment of the first entry in the `tar -tf`
// listing. Archives whose first entry is a root-level file yield that file's
// name; the engine treats a root that never materializes as "no top-level
// directory found".
func (t *tarInspector) RootName(ctx context.Context, archivePath string) (string, error) {
	result, err := t.runner.Run(ctx, "tar", "-t"+string(t.kind)+"f", archivePath)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrArchiveInspect, "failed listing %s", archivePath)
	}

	first := result.Stdout
	if i := strings.IndexByte(first, '\n'); i >= 0 {
		first = first[:i]
	}
	first = strings.TrimSpace(first)
	if first == "" {
		return "", nil
	}
	return strings.SplitN(first, "/", 2)[0], nil
}

func (t *tarInspector) Extract(ctx context.Context, archivePath, destDir string) error {
	if _, err := t.runner.RunInDir(ctx, destDir, "tar", "-x"+string(t.kind)+"f", archivePath); err != nil {
		return errors.Wrapf(err, errors.ErrArchiveExtract, "failed extracting %s", archivePath)
	}
	return nil
}

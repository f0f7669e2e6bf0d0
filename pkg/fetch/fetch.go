// Package fetch is the download and cache engine. Artifacts are fetched over
// HTTP into a temporary location, optionally promoted into a filename-keyed
// cache, and materialized at a resolved destination. A cache hit substitutes
// for the network byte for byte; the cache is never invalidated.
package fetch

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/deskforge/deskforge/pkg/errors"
	"github.com/deskforge/deskforge/pkg/filesystem"
	"github.com/deskforge/deskforge/pkg/logging"
	"github.com/deskforge/deskforge/pkg/paths"
)

// Engine downloads artifacts with optional caching
type Engine struct {
	ops     *filesystem.Ops
	paths   paths.Paths
	caching bool
	client  *http.Client
	logger  zerolog.Logger
}

// New creates a download engine. When caching is false the cache directory is
// never consulted or written.
func New(ops *filesystem.Ops, p paths.Paths, caching bool) *Engine {
	return &Engine{
		ops:     ops,
		paths:   p,
		caching: caching,
		client:  http.DefaultClient,
		logger:  logging.GetLogger("fetch"),
	}
}

// WithClient overrides the HTTP client, mainly for tests
func (e *Engine) WithClient(client *http.Client) *Engine {
	e.client = client
	return e
}

// Resolve maps a destination hint to a (directory, filename) pair.
//
// Precedence:
//   - empty destination: default artifacts directory, placeholder filename
//   - absolute path naming an existing directory: that directory, placeholder
//   - absolute path to a non-existent entry: parent (which must exist) + base
//   - relative path containing a separator: the same split anchored at the
//     default artifacts directory
//   - bare name: default artifacts directory + that name
func (e *Engine) Resolve(destination string) (string, string, error) {
	defaultDir := e.paths.ArtifactsDir()

	if destination == "" {
		return defaultDir, paths.DownloadPlaceholderName, nil
	}

	if filepath.IsAbs(destination) {
		if info, err := e.ops.FS().Stat(destination); err == nil && info.IsDir() {
			return destination, paths.DownloadPlaceholderName, nil
		}
		parent := filepath.Dir(destination)
		info, err := e.ops.FS().Stat(parent)
		if err != nil || !info.IsDir() {
			return "", "", errors.Newf(errors.ErrDestinationPath,
				"destination parent %s does not exist", parent)
		}
		return parent, filepath.Base(destination), nil
	}

	if strings.ContainsRune(destination, filepath.Separator) {
		parent := filepath.Join(defaultDir, filepath.Dir(destination))
		info, err := e.ops.FS().Stat(parent)
		if err != nil || !info.IsDir() {
			return "", "", errors.Newf(errors.ErrDestinationPath,
				"destination parent %s does not exist", parent)
		}
		return parent, filepath.Base(destination), nil
	}

	return defaultDir, destination, nil
}

// Download fetches url into the destination resolved from the hint. With
// caching enabled, an existing cache entry for the resolved filename is
// copied out instead of touching the network.
//
// A failed network fetch is reported as a warning and swallowed: the engine
// keeps going and a missing artifact surfaces later at the step that needs
// it. This mirrors the installer's best-effort contract.
func (e *Engine) Download(ctx context.Context, url, destination string) error {
	dir, filename, err := e.Resolve(destination)
	if err != nil {
		return err
	}
	if err := e.ops.CreateDir(dir); err != nil {
		return err
	}

	target := filepath.Join(dir, filename)
	cachePath := filepath.Join(e.paths.CacheDir(), filename)

	if e.caching && e.ops.Exists(cachePath) {
		e.logger.Debug().Str("filename", filename).Msg("Cache hit, skipping network fetch")
		return e.ops.CopyFile(cachePath, target)
	}

	tempPath := filepath.Join(e.paths.TempDir(), filename)
	if err := e.fetch(ctx, url, tempPath); err != nil {
		e.logger.Warn().Err(err).Str("url", url).Msg("Download failed, continuing")
		return nil
	}

	if e.caching {
		if err := e.ops.MoveFile(tempPath, cachePath); err != nil {
			return errors.Wrap(err, errors.ErrCacheAccess, "failed to promote artifact into cache")
		}
		return e.ops.CopyFile(cachePath, target)
	}
	return e.ops.MoveFile(tempPath, target)
}

// fetch performs the HTTP request and stores the body at tempPath
func (e *Engine) fetch(ctx context.Context, url, tempPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrapf(err, errors.ErrDownloadFailed, "invalid url %s", url)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return errors.Wrapf(err, errors.ErrDownloadFailed, "failed to fetch %s", url)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return errors.Newf(errors.ErrDownloadFailed, "fetching %s returned status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, errors.ErrDownloadFailed, "failed reading response for %s", url)
	}

	return e.ops.CreateFile(tempPath, body, 0644)
}

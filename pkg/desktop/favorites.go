package desktop

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/deskforge/deskforge/pkg/errors"
	"github.com/deskforge/deskforge/pkg/executor"
	"github.com/deskforge/deskforge/pkg/logging"
)

const (
	shellSchema     = "org.gnome.shell"
	favoriteAppsKey = "favorite-apps"
)

// Client talks to the desktop settings service through gsettings
type Client struct {
	runner executor.Runner
	logger zerolog.Logger
}

// NewClient creates a settings-service client
func NewClient(runner executor.Runner) *Client {
	return &Client{
		runner: runner,
		logger: logging.GetLogger("desktop"),
	}
}

// FavoritesList returns the raw favorite-apps value, e.g.
// "['firefox.desktop', 'code.desktop']"
func (c *Client) FavoritesList(ctx context.Context) (string, error) {
	result, err := c.runner.Run(ctx, "gsettings", "get", shellSchema, favoriteAppsKey)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCommandFailed, "failed reading favorites list")
	}
	return strings.TrimSpace(result.Stdout), nil
}

// SetFavoritesList writes the raw favorite-apps value back
func (c *Client) SetFavoritesList(ctx context.Context, raw string) error {
	if _, err := c.runner.Run(ctx, "gsettings", "set", shellSchema, favoriteAppsKey, raw); err != nil {
		return errors.Wrap(err, errors.ErrCommandFailed, "failed writing favorites list")
	}
	return nil
}

// ContainsFavorite performs the textual containment test the reconciliation
// relies on
func ContainsFavorite(raw, launcher string) bool {
	return strings.Contains(raw, launcher)
}

// AppendFavorite appends a launcher to a raw favorites list. An empty list
// becomes a fresh single-element list; a populated list has its closing
// bracket stripped and the new element appended.
func AppendFavorite(raw, launcher string) string {
	if isEmptyList(raw) {
		return "['" + launcher + "']"
	}
	trimmed := strings.TrimSuffix(strings.TrimSpace(raw), "]")
	return trimmed + ", '" + launcher + "']"
}

// isEmptyList recognizes the settings service's spellings of "no favorites"
func isEmptyList(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	return trimmed == "" || trimmed == "[]" || trimmed == "@as []"
}

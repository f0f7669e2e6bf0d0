// Package paths provides centralized path handling for deskforge.
// It implements XDG Base Directory specification compliance and
// provides a consistent API for all path operations in the codebase.
package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/deskforge/deskforge/pkg/errors"
)

// Environment variable names
const (
	// EnvDataDir overrides the XDG data directory for deskforge
	EnvDataDir = "DESKFORGE_DATA_DIR"

	// EnvCacheDir overrides the XDG cache directory for deskforge
	EnvCacheDir = "DESKFORGE_CACHE_DIR"

	// EnvArtifactsDir overrides the artifacts directory
	EnvArtifactsDir = "DESKFORGE_ARTIFACTS_DIR"

	// EnvDesktopDir overrides the desktop directory
	EnvDesktopDir = "XDG_DESKTOP_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directories and files
// IMPORTANT: These constants define deskforge's internal layout and are NOT
// user-configurable. They must remain consistent across installations so that
// registries written by one run are found by the next.
const (
	// AppDirName is the directory name for deskforge-specific files
	AppDirName = "deskforge"

	// ArtifactsDirName is the subdirectory holding per-feature content
	ArtifactsDirName = "artifacts"

	// FunctionsDirName holds generated per-terminal shell function scripts
	FunctionsDirName = "functions"

	// InitsDirName holds generated once-per-login initialization scripts
	InitsDirName = "inits"

	// FavoritesRegistryName is the favorites registry file
	FavoritesRegistryName = "favorites.txt"

	// KeybindingsRegistryName is the keybinding registry file
	KeybindingsRegistryName = "keybindings.txt"

	// FunctionRegistryName is the file sourced by every interactive shell
	FunctionRegistryName = "functions.sh"

	// InitRegistryName is the file sourced once per login session
	InitRegistryName = "inits.sh"

	// DownloadPlaceholderName is the filename used when a download gives
	// no destination hint at all
	DownloadPlaceholderName = "downloading_program"
)

// Paths provides centralized path management for deskforge
type Paths interface {
	HomeDir() string
	DataDir() string
	CacheDir() string
	TempDir() string

	ArtifactsDir() string
	FeatureDir(featureKey string) string

	FunctionsDir() string
	InitsDir() string
	FavoritesRegistryPath() string
	KeybindingsRegistryPath() string
	FunctionRegistryPath() string
	InitRegistryPath() string

	PersonalLauncherDir() string
	SystemLauncherDir() string
	DesktopDir() string
	AutostartDir() string
	PersonalBinDir() string
	SystemBinDir() string
	MimeAppsPath() string

	BashrcPath() string
	ProfilePath() string
}

// paths is the concrete implementation of Paths
type paths struct {
	home      string
	data      string
	cache     string
	temp      string
	artifacts string
}

// New creates a new Paths instance rooted at the given home directory.
// If home is empty, it is determined from the environment.
func New(home string) (Paths, error) {
	p := &paths{}

	if home == "" {
		resolved, err := homeDir()
		if err != nil {
			return nil, err
		}
		home = resolved
	}
	p.home = home

	if dir := os.Getenv(EnvDataDir); dir != "" {
		p.data = dir
	} else {
		p.data = filepath.Join(xdg.DataHome, AppDirName)
	}

	if dir := os.Getenv(EnvCacheDir); dir != "" {
		p.cache = dir
	} else {
		p.cache = filepath.Join(xdg.CacheHome, AppDirName)
	}

	if dir := os.Getenv(EnvArtifactsDir); dir != "" {
		p.artifacts = dir
	} else {
		p.artifacts = filepath.Join(p.data, ArtifactsDirName)
	}

	p.temp = filepath.Join(os.TempDir(), AppDirName)

	return p, nil
}

func (p *paths) HomeDir() string  { return p.home }
func (p *paths) DataDir() string  { return p.data }
func (p *paths) CacheDir() string { return p.cache }
func (p *paths) TempDir() string  { return p.temp }

func (p *paths) ArtifactsDir() string { return p.artifacts }

// FeatureDir returns the per-feature content directory. Every installer that
// needs a predictable location for a feature's files uses this path.
func (p *paths) FeatureDir(featureKey string) string {
	return filepath.Join(p.artifacts, featureKey)
}

func (p *paths) FunctionsDir() string {
	return filepath.Join(p.data, FunctionsDirName)
}

func (p *paths) InitsDir() string {
	return filepath.Join(p.data, InitsDirName)
}

func (p *paths) FavoritesRegistryPath() string {
	return filepath.Join(p.data, FavoritesRegistryName)
}

func (p *paths) KeybindingsRegistryPath() string {
	return filepath.Join(p.data, KeybindingsRegistryName)
}

func (p *paths) FunctionRegistryPath() string {
	return filepath.Join(p.data, FunctionRegistryName)
}

func (p *paths) InitRegistryPath() string {
	return filepath.Join(p.data, InitRegistryName)
}

func (p *paths) PersonalLauncherDir() string {
	return filepath.Join(p.home, ".local", "share", "applications")
}

func (p *paths) SystemLauncherDir() string {
	return "/usr/share/applications"
}

func (p *paths) DesktopDir() string {
	if dir := os.Getenv(EnvDesktopDir); dir != "" {
		return dir
	}
	return filepath.Join(p.home, "Desktop")
}

func (p *paths) AutostartDir() string {
	return filepath.Join(p.home, ".config", "autostart")
}

func (p *paths) PersonalBinDir() string {
	return filepath.Join(p.home, ".local", "bin")
}

func (p *paths) SystemBinDir() string {
	return "/usr/local/bin"
}

func (p *paths) MimeAppsPath() string {
	return filepath.Join(p.home, ".config", "mimeapps.list")
}

func (p *paths) BashrcPath() string {
	return filepath.Join(p.home, ".bashrc")
}

func (p *paths) ProfilePath() string {
	return filepath.Join(p.home, ".profile")
}

// homeDir returns the user's home directory, preferring os.UserHomeDir and
// falling back to the HOME environment variable.
func homeDir() (string, error) {
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return home, nil
	}
	if home := os.Getenv(EnvHome); home != "" {
		return home, nil
	}
	return "", errors.New(errors.ErrFileAccess, "unable to determine home directory")
}

// ExpandHome expands a leading ~ to the user's home directory
func ExpandHome(path string) string {
	if path == "~" {
		home, err := homeDir()
		if err != nil {
			return path
		}
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, err := homeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Package config loads deskforge settings: feature-enable flags, the package
// manager command strings and the feature table location. Loading is layered
// with koanf: embedded defaults first, then an optional user configuration
// file. The engine treats the result as plain input; it never parses
// command-line arguments itself.
package config

import (
	_ "embed"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/deskforge/deskforge/pkg/errors"
)

//go:embed defaults.toml
var defaultConfig []byte

// Flags are the feature-enable switches consumed from the surrounding CLI
type Flags struct {
	// Favorites enables the favorites installer
	Favorites bool
	// Autostart enables the autostart installer
	Autostart bool
	// Caching enables the artifact cache
	Caching bool
	// Quiet is the quietness level (0 = passthrough command output)
	Quiet int
	// Upgrade is the upgrade level (0 none, 1 update, 2 update+upgrade)
	Upgrade int
}

// PackageManager holds the resolved command strings for the system package
// manager. Each is a full command line; Argv splits one for execution.
type PackageManager struct {
	Install     string
	InstallFile string
	InstallMany string
	FixBroken   string
	Update      string
	Upgrade     string
}

// Argv splits a command string into an executable and its arguments
func Argv(command string) (string, []string) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return "", nil
	}
	return fields[0], fields[1:]
}

// Settings is the full configuration surface the engine consumes
type Settings struct {
	Flags          Flags
	PackageManager PackageManager
	// PythonCommand names the interpreter used for isolated environments
	PythonCommand string
	// TablePath locates the external feature table; empty means the
	// caller must supply one explicitly
	TablePath string
}

// Load builds Settings from the embedded defaults plus an optional user
// configuration file. A missing user file is not an error.
func Load(userConfigPath string) (*Settings, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	if userConfigPath != "" {
		if _, err := os.Stat(userConfigPath); err == nil {
			if err := k.Load(file.Provider(userConfigPath), toml.Parser()); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigParse,
					"failed to load configuration from %s", userConfigPath)
			}
		}
	}

	return &Settings{
		Flags: Flags{
			Favorites: k.Bool("flags.favorites"),
			Autostart: k.Bool("flags.autostart"),
			Caching:   k.Bool("flags.caching"),
			Quiet:     k.Int("flags.quiet"),
			Upgrade:   k.Int("flags.upgrade"),
		},
		PackageManager: PackageManager{
			Install:     k.String("packagemanager.install"),
			InstallFile: k.String("packagemanager.installfile"),
			InstallMany: k.String("packagemanager.installmany"),
			FixBroken:   k.String("packagemanager.fixbroken"),
			Update:      k.String("packagemanager.update"),
			Upgrade:     k.String("packagemanager.upgrade"),
		},
		PythonCommand: k.String("interpreter.python"),
		TablePath:     k.String("table.path"),
	}, nil
}

// rawBytesProvider feeds embedded bytes into koanf
type rawBytesProvider struct {
	bytes []byte
}

func (r *rawBytesProvider) ReadBytes() ([]byte, error) {
	return r.bytes, nil
}

func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New(errors.ErrNotImplemented, "rawBytesProvider does not support Read")
}

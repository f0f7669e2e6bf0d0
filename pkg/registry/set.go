package registry

import (
	"github.com/deskforge/deskforge/pkg/filesystem"
	"github.com/deskforge/deskforge/pkg/paths"
)

// Set bundles the four standing registries of an installation
type Set struct {
	// Favorites holds one "<launcher-name>.desktop" per line
	Favorites *Registry

	// Keybindings holds one "command;binding;name" triplet per line
	Keybindings *Registry

	// Functions holds one source-import statement per line, re-evaluated
	// by every new interactive shell
	Functions *Registry

	// Inits holds one source-import statement per line, evaluated once
	// per login session
	Inits *Registry
}

// NewSet creates the standing registries at their canonical paths
func NewSet(ops *filesystem.Ops, p paths.Paths) *Set {
	return &Set{
		Favorites:   New(ops, p.FavoritesRegistryPath()),
		Keybindings: New(ops, p.KeybindingsRegistryPath()),
		Functions:   New(ops, p.FunctionRegistryPath()),
		Inits:       New(ops, p.InitRegistryPath()),
	}
}

// EnsureAll creates any registry files that do not exist yet
func (s *Set) EnsureAll() error {
	for _, r := range []*Registry{s.Favorites, s.Keybindings, s.Functions, s.Inits} {
		if err := r.Ensure(); err != nil {
			return err
		}
	}
	return nil
}

// Package reconcile applies the durable registries to the live desktop
// session. The favorites and keybinding registries are the inputs; the
// desktop settings service is the target. Reconciliation is invoked at
// session start through the shell hooks that bootstrap installs, and is safe
// to re-run: it converges instead of duplicating.
package reconcile

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/deskforge/deskforge/pkg/desktop"
	"github.com/deskforge/deskforge/pkg/feature"
	"github.com/deskforge/deskforge/pkg/logging"
	"github.com/deskforge/deskforge/pkg/registry"
)

// Favorites reconciles the favorites registry into the desktop shell's
// favorites list
type Favorites struct {
	registry *registry.Registry
	client   *desktop.Client
	logger   zerolog.Logger
}

// NewFavorites creates a favorites reconciler
func NewFavorites(reg *registry.Registry, client *desktop.Client) *Favorites {
	return &Favorites{
		registry: reg,
		client:   client,
		logger:   logging.GetLogger("reconcile"),
	}
}

// Reconcile appends every registry entry missing from the current favorites
// list. Entries already present are left where they are.
func (f *Favorites) Reconcile(ctx context.Context) error {
	entries, err := f.registry.Entries()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	raw, err := f.client.FavoritesList(ctx)
	if err != nil {
		return err
	}

	changed := false
	for _, entry := range entries {
		if desktop.ContainsFavorite(raw, entry) {
			continue
		}
		raw = desktop.AppendFavorite(raw, entry)
		changed = true
	}

	if !changed {
		return nil
	}
	f.logger.Info().Int("entries", len(entries)).Msg("Updating desktop favorites")
	return f.client.SetFavoritesList(ctx, raw)
}

// Keybindings reconciles the keybinding registry into the settings service's
// custom-keybinding slots
type Keybindings struct {
	registry *registry.Registry
	client   *desktop.Client
	logger   zerolog.Logger
}

// NewKeybindings creates a keybinding reconciler
func NewKeybindings(reg *registry.Registry, client *desktop.Client) *Keybindings {
	return &Keybindings{
		registry: reg,
		client:   client,
		logger:   logging.GetLogger("reconcile"),
	}
}

// Reconcile walks the registry triplets against the sequential slot list.
// The triplet name is the tie-break key: a slot whose name matches is
// updated in place, otherwise the first unoccupied slot takes the binding.
// Afterward the deduplicated set of occupied slots is written back as the
// authoritative list of enabled custom keybindings.
func (k *Keybindings) Reconcile(ctx context.Context) error {
	entries, err := k.registry.Entries()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	slots, err := k.client.OccupiedSlots(ctx)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		kb, err := feature.ParseKeybinding(entry)
		if err != nil {
			k.logger.Warn().Str("entry", entry).Msg("Skipping malformed keybinding registry entry")
			continue
		}

		index := -1
		for i, slot := range slots {
			if slot.Name == kb.Name {
				index = i
				break
			}
		}

		if index >= 0 {
			slot := desktop.SlotFor(slots[index].Index, kb)
			if err := k.client.WriteSlot(ctx, slot); err != nil {
				return err
			}
			slots[index] = slot
		} else {
			slot := desktop.SlotFor(len(slots), kb)
			if err := k.client.WriteSlot(ctx, slot); err != nil {
				return err
			}
			slots = append(slots, slot)
		}
	}

	indices := make([]int, len(slots))
	for i, slot := range slots {
		indices[i] = slot.Index
	}
	return k.client.SetActiveSlots(ctx, indices)
}

package desktop

import (
	"context"
	"fmt"
	"strings"

	"github.com/deskforge/deskforge/pkg/errors"
	"github.com/deskforge/deskforge/pkg/feature"
)

const (
	mediaKeysSchema  = "org.gnome.settings-daemon.plugins.media-keys"
	customKeysKey    = "custom-keybindings"
	customKeySchema  = "org.gnome.settings-daemon.plugins.media-keys.custom-keybinding"
	customKeyPathFmt = "/org/gnome/settings-daemon/plugins/media-keys/custom-keybindings/custom%d/"
)

// maxKeybindingSlots bounds the sequential slot scan
const maxKeybindingSlots = 64

// Slot is one custom-keybinding slot in the settings service
type Slot struct {
	Index   int
	Command string
	Binding string
	Name    string
}

// Path returns the slot's settings path
func (s Slot) Path() string {
	return fmt.Sprintf(customKeyPathFmt, s.Index)
}

// Occupied reports whether the slot holds a binding
func (s Slot) Occupied() bool {
	return s.Name != ""
}

// ReadSlot fetches one custom-keybinding slot
func (c *Client) ReadSlot(ctx context.Context, index int) (Slot, error) {
	slot := Slot{Index: index}
	schemaPath := customKeySchema + ":" + slot.Path()

	name, err := c.getString(ctx, schemaPath, "name")
	if err != nil {
		return slot, err
	}
	slot.Name = name
	if !slot.Occupied() {
		return slot, nil
	}

	if slot.Command, err = c.getString(ctx, schemaPath, "command"); err != nil {
		return slot, err
	}
	if slot.Binding, err = c.getString(ctx, schemaPath, "binding"); err != nil {
		return slot, err
	}
	return slot, nil
}

// WriteSlot stores a keybinding into a slot
func (c *Client) WriteSlot(ctx context.Context, slot Slot) error {
	schemaPath := customKeySchema + ":" + slot.Path()
	for key, value := range map[string]string{
		"name":    slot.Name,
		"command": slot.Command,
		"binding": slot.Binding,
	} {
		if _, err := c.runner.Run(ctx, "gsettings", "set", schemaPath, key, value); err != nil {
			return errors.Wrapf(err, errors.ErrCommandFailed, "failed writing slot %d %s", slot.Index, key)
		}
	}
	return nil
}

// OccupiedSlots scans sequential slots from zero and returns the occupied
// ones. The first unoccupied slot ends the scan; its index equals the length
// of the returned list.
func (c *Client) OccupiedSlots(ctx context.Context) ([]Slot, error) {
	var slots []Slot
	for i := 0; i < maxKeybindingSlots; i++ {
		slot, err := c.ReadSlot(ctx, i)
		if err != nil {
			return nil, err
		}
		if !slot.Occupied() {
			break
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

// SetActiveSlots writes the authoritative set of enabled custom keybindings
func (c *Client) SetActiveSlots(ctx context.Context, indices []int) error {
	paths := make([]string, 0, len(indices))
	seen := make(map[int]bool)
	for _, index := range indices {
		if seen[index] {
			continue
		}
		seen[index] = true
		paths = append(paths, "'"+Slot{Index: index}.Path()+"'")
	}

	raw := "[" + strings.Join(paths, ", ") + "]"
	if _, err := c.runner.Run(ctx, "gsettings", "set", mediaKeysSchema, customKeysKey, raw); err != nil {
		return errors.Wrap(err, errors.ErrCommandFailed, "failed writing active keybinding list")
	}
	return nil
}

// SlotFor converts a keybinding triplet into slot form
func SlotFor(index int, kb feature.Keybinding) Slot {
	return Slot{Index: index, Command: kb.Command, Binding: kb.Binding, Name: kb.Name}
}

// getString reads one gsettings key, unquoting the returned value. An error
// from the settings service reads as "unset".
func (c *Client) getString(ctx context.Context, schemaPath, key string) (string, error) {
	result, err := c.runner.Run(ctx, "gsettings", "get", schemaPath, key)
	if err != nil {
		return "", nil
	}
	return unquote(result.Stdout), nil
}

// unquote strips the single quotes gsettings wraps string values in
func unquote(raw string) string {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "'")
	return strings.TrimSuffix(trimmed, "'")
}

package input

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// Keymap binds key chords to action names.
type Keymap struct {
	bindings map[Key]string
}

// NewKeymap creates an empty keymap.
func NewKeymap() *Keymap {
	return &Keymap{bindings: make(map[Key]string)}
}

// Bind binds the chord spec to action, replacing any earlier binding.
func (k *Keymap) Bind(spec, action string) error {
	key, err := ParseKey(spec)
	if err != nil {
		return err
	}
	k.bindings[key] = action
	return nil
}

// BindAll binds every spec in bindings and returns all parse errors
// joined.
func (k *Keymap) BindAll(bindings map[string]string) error {
	var errs []error
	for _, spec := range slices.Sorted(maps.Keys(bindings)) {
		if err := k.Bind(spec, bindings[spec]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Lookup returns the action bound to key.
func (k *Keymap) Lookup(key Key) (string, bool) {
	action, ok := k.bindings[key]
	return action, ok
}

// Bindings returns "chord action" lines sorted by chord.
func (k *Keymap) Bindings() []string {
	out := make([]string, 0, len(k.bindings))
	for key, action := range k.bindings {
		out = append(out, fmt.Sprintf("%-10s %s", key, action))
	}
	slices.Sort(out)
	return out
}

// DefaultBindings maps chords to the built-in actions.
var DefaultBindings = map[string]string{
	"Left":      ActionCursorLeft,
	"Right":     ActionCursorRight,
	"Up":        ActionCursorUp,
	"Down":      ActionCursorDown,
	"Home":      ActionCursorHome,
	"End":       ActionCursorEnd,
	"S-Left":    ActionSelectLeft,
	"S-Right":   ActionSelectRight,
	"C-a":       ActionSelectAll,
	"Enter":     ActionNewline,
	"Tab":       ActionTab,
	"Backspace": ActionDeleteBackward,
	"Delete":    ActionDeleteForward,
	"C-z":       ActionUndo,
	"C-y":       ActionRedo,
	"PageUp":    ActionPageUp,
	"PageDown":  ActionPageDown,
	"C-w":       ActionToggleWrap,
	"C-s":       ActionSave,
	"C-q":       ActionQuit,
}

// DefaultKeymap returns a keymap holding DefaultBindings.
func DefaultKeymap() *Keymap {
	k := NewKeymap()
	if err := k.BindAll(DefaultBindings); err != nil {
		panic(err)
	}
	return k
}

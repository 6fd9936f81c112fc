package input

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dshills/inkwell/internal/renderer/backend"
)

// Key is a key chord.
type Key struct {
	Code backend.Key
	Rune rune
	Mod  backend.ModMask
}

var keyNames = map[string]backend.Key{
	"Escape":    backend.KeyEscape,
	"Enter":     backend.KeyEnter,
	"Tab":       backend.KeyTab,
	"Backspace": backend.KeyBackspace,
	"Delete":    backend.KeyDelete,
	"Home":      backend.KeyHome,
	"End":       backend.KeyEnd,
	"PageUp":    backend.KeyPageUp,
	"PageDown":  backend.KeyPageDown,
	"Up":        backend.KeyUp,
	"Down":      backend.KeyDown,
	"Left":      backend.KeyLeft,
	"Right":     backend.KeyRight,
}

// ParseKey parses a chord such as "C-s", "S-Left", "M-x" or "Enter".
// "C-" with a letter is a control chord; other prefixes add modifiers.
// Shift is implied by printable runes and dropped from them.
func ParseKey(spec string) (Key, error) {
	var mod backend.ModMask
	rest := spec
	for len(rest) > 2 && rest[1] == '-' {
		switch rest[0] {
		case 'C':
			mod |= backend.ModCtrl
		case 'S':
			mod |= backend.ModShift
		case 'M', 'A':
			mod |= backend.ModAlt
		default:
			return Key{}, fmt.Errorf("key %q: unknown modifier %q", spec, rest[:2])
		}
		rest = rest[2:]
	}
	if code, ok := keyNames[rest]; ok {
		return Key{Code: code, Mod: mod}, nil
	}
	r, size := utf8.DecodeRuneInString(rest)
	if size != len(rest) || r == utf8.RuneError {
		return Key{}, fmt.Errorf("key %q: unknown key %q", spec, rest)
	}
	if mod.Has(backend.ModCtrl) {
		r = []rune(strings.ToLower(string(r)))[0]
		if r < 'a' || r > 'z' {
			return Key{}, fmt.Errorf("key %q: control chords take a letter", spec)
		}
		return Key{Code: backend.KeyCtrl, Rune: r, Mod: mod &^ backend.ModCtrl}, nil
	}
	return Key{Code: backend.KeyRune, Rune: r, Mod: mod &^ backend.ModShift}, nil
}

// KeyOf returns the chord of a key event. Control chords and printable
// runes drop the modifiers already implied by the key.
func KeyOf(ev backend.Event) Key {
	k := Key{Code: ev.Key, Rune: ev.Rune, Mod: ev.Mod}
	switch ev.Key {
	case backend.KeyCtrl:
		k.Mod &^= backend.ModCtrl
	case backend.KeyRune:
		k.Mod &^= backend.ModShift
	default:
		k.Rune = 0
	}
	return k
}

// String formats k the way ParseKey reads it.
func (k Key) String() string {
	var b strings.Builder
	if k.Code == backend.KeyCtrl {
		b.WriteString("C-")
	}
	if k.Mod.Has(backend.ModShift) {
		b.WriteString("S-")
	}
	if k.Mod.Has(backend.ModAlt) {
		b.WriteString("M-")
	}
	for name, code := range keyNames {
		if code == k.Code {
			b.WriteString(name)
			return b.String()
		}
	}
	b.WriteRune(k.Rune)
	return b.String()
}

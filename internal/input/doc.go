// Package input maps screen events to editor operations.
//
// A Keymap binds chords written as "C-s", "S-Left" or "Enter" to action
// names. A Handler resolves key, mouse and paste events through the
// keymap and runs the command registered for the action against an
// engine. Printable runes without a binding are inserted at the caret,
// and a bracketed paste runs as one batch edit.
package input

// Package history provides undo/redo for the engine.
//
// Every buffer mutation is recorded as an Operation. Mutations made
// inside a group (a batch edit) form a single Entry and undo together:
//
//	h := history.New(1000)
//	h.BeginGroup("reindent")
//	// ... edits, each recorded with h.Record ...
//	h.EndGroup()
//
//	entry, err := h.Undo(buf)
//
// Undo and Redo replay through an Editor, normally the buffer itself, so
// the replayed mutations travel the same listener path as user edits.
// Mutations recorded while a replay is in progress are ignored.
package history

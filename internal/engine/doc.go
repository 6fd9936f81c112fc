// Package engine is the editor facade for inkwell.
//
// An Engine owns a line buffer and everything derived from it: the
// character indexer, the cursor, the annotation stores, the row layout,
// the measurement cache, the dirty-line tracker, the viewport and the undo
// history. Every buffer mutation, whether it comes from an edit call, an
// IME commit or an undo replay, runs through one coordinator that updates
// the derived state in a fixed order:
//
//  1. resolve the edit to character indexes using the pre-edit index
//  2. update the index for the edited lines
//  3. shift every annotation store, then the cursor
//  4. rebreak the edited rows
//  5. advance the render timestamp and mark the touched cache lines stale
//  6. re-resolve cursor and anchor, keep the caret visible, notify
//
// A failing store is logged and skipped; the sequence always completes.
//
// # Batch edits
//
// BeginBatchEdit and EndBatchEdit nest. Steps 1 to 5 run for every
// mutation inside a batch, but the visibility update and the listener
// notification run once, when the outermost batch ends. A batch is also
// one undo entry.
//
// # Analysis results
//
// Snapshot returns a request for a background analyzer. ApplyAnalysis
// installs its result. A result computed for an older generation is
// brought forward by replaying the recorded edits on scratch stores; one
// from another session or epoch, or older than the edit journal, is
// rejected with analysis.ErrStaleGeneration.
//
// # Thread Safety
//
// Engine methods are safe to call from multiple goroutines, but the
// component is cooperative: edits are expected from one goroutine, with
// analyzers and background reflow handing results back through the
// engine. Store and tracker accessors return live objects that must only
// be used on the editing goroutine.
//
// # Basic Usage
//
//	e := engine.New(engine.WithContent("hello"), engine.WithWordWrap(true), engine.WithWidth(40))
//	e.AddListener(func(n engine.Notice) { repaint(n.Dirty) })
//
//	e.SetCursor(0, 5)
//	e.InsertAtCursor(", world")
//	e.Undo()
package engine

package engine

import (
	"time"

	"go.uber.org/zap"

	"github.com/dshills/inkwell/internal/engine/history"
)

// Undo reverts the newest history entry. The replayed edits run through
// the coordinator like any other edit; the caret returns to where it was
// before the entry and the affected range is remembered.
func (e *Engine) Undo() error {
	return e.replay("undo", e.history.Undo, (*history.Entry).CursorBefore)
}

// Redo re-applies the newest undone entry.
func (e *Engine) Redo() error {
	return e.replay("redo", e.history.Redo, (*history.Entry).CursorAfter)
}

// CanUndo reports whether there is anything to undo.
func (e *Engine) CanUndo() bool {
	return e.history.CanUndo()
}

// CanRedo reports whether there is anything to redo.
func (e *Engine) CanRedo() bool {
	return e.history.CanRedo()
}

// SetHistoryLimits changes the undo entry limit and merge window, trimming
// the oldest entries when the limit shrinks. A non-positive limit keeps
// the current one; a negative window keeps the current window.
func (e *Engine) SetHistoryLimits(maxEntries int, mergeWindow time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if maxEntries > 0 && maxEntries != e.maxUndoEntries {
		e.maxUndoEntries = maxEntries
		e.history.SetMaxEntries(maxEntries)
	}
	if mergeWindow >= 0 {
		e.mergeWindow = mergeWindow
		e.history.SetMergeWindow(mergeWindow)
	}
}

func (e *Engine) replay(name string, run func(history.Editor) (*history.Entry, error), caret func(*history.Entry) int) error {
	e.mu.Lock()
	defer e.unlock()

	e.beginBatchLocked(name)
	defer e.endBatchLocked()

	entry, err := run(e.buf)
	if err != nil {
		return err
	}
	if idx := min(caret(entry), e.index.Len()); e.cursor.SetIndexes(idx, idx) == nil {
		e.anchor.Set(idx)
	}
	start, err := e.index.OffsetOf(entry.Affected.Start.Line, entry.Affected.Start.Column)
	if err == nil {
		end, err := e.index.OffsetOf(entry.Affected.End.Line, entry.Affected.End.Column)
		if err == nil {
			e.undoMemory.Remember(start, end)
		}
	}
	e.logger.Debug(name, zap.String("entry", entry.Name), zap.Int("operations", len(entry.Operations)))
	e.notify(0)
	return nil
}

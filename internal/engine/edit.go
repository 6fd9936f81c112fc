package engine

import (
	"fmt"

	"github.com/dshills/inkwell/internal/engine/buffer"
	"github.com/dshills/inkwell/internal/engine/cursor"
)

// Insert inserts text at pos and returns the end of the inserted text.
func (e *Engine) Insert(pos buffer.Position, text string) (buffer.Position, error) {
	e.mu.Lock()
	defer e.unlock()
	return e.buf.Insert(pos, text)
}

// Delete removes [start, end) and returns the removed text.
func (e *Engine) Delete(start, end buffer.Position) (string, error) {
	e.mu.Lock()
	defer e.unlock()
	return e.buf.Delete(start, end)
}

// Replace replaces [start, end) with text as one undo step and one notice.
func (e *Engine) Replace(start, end buffer.Position, text string) (buffer.Position, error) {
	e.mu.Lock()
	defer e.unlock()
	return e.replaceLocked(start, end, text)
}

func (e *Engine) replaceLocked(start, end buffer.Position, text string) (buffer.Position, error) {
	if end.Before(start) {
		start, end = end, start
	}
	if err := e.buf.Validate(start); err != nil {
		return start, err
	}
	if err := e.buf.Validate(end); err != nil {
		return start, err
	}
	e.beginBatchLocked("replace")
	defer e.endBatchLocked()
	if _, err := e.buf.Delete(start, end); err != nil {
		return start, err
	}
	return e.buf.Insert(start, text)
}

// SetText replaces the whole document. Annotations, history and the
// cursor are reset and the analysis epoch advances.
func (e *Engine) SetText(text string) {
	e.mu.Lock()
	defer e.unlock()
	e.buf.Replace(text)
}

// InsertAtCursor replaces the selection, if any, with text and leaves the
// caret after it.
func (e *Engine) InsertAtCursor(text string) error {
	e.mu.Lock()
	defer e.unlock()
	r := e.cursor.Range()
	_, err := e.replaceLocked(r.Start, r.End, text)
	e.anchor.Reset(0)
	return err
}

// DeleteSelection removes the selected text and returns it. It does
// nothing for an insertion point.
func (e *Engine) DeleteSelection() (string, error) {
	e.mu.Lock()
	defer e.unlock()
	if !e.cursor.IsSelected() {
		return "", nil
	}
	r := e.cursor.Range()
	e.anchor.Reset(0)
	return e.buf.Delete(r.Start, r.End)
}

// DeleteBackward deletes the selection, or the grapheme cluster or line
// break before the caret.
func (e *Engine) DeleteBackward() error {
	e.mu.Lock()
	defer e.unlock()
	start, end, ok := e.backwardRange()
	if !ok {
		return nil
	}
	e.anchor.Reset(0)
	_, err := e.buf.Delete(start, end)
	return err
}

// DeleteForward deletes the selection, or the grapheme cluster or line
// break after the caret.
func (e *Engine) DeleteForward() error {
	e.mu.Lock()
	defer e.unlock()
	start, end, ok := e.forwardRange()
	if !ok {
		return nil
	}
	e.anchor.Reset(0)
	_, err := e.buf.Delete(start, end)
	return err
}

func (e *Engine) backwardRange() (buffer.Position, buffer.Position, bool) {
	if e.cursor.IsSelected() {
		r := e.cursor.Range()
		return r.Start, r.End, true
	}
	p := e.cursor.Left().Position()
	switch {
	case p.Column > 0:
		col := cursor.PrevBoundary(e.buf.Runes(p.Line), p.Column)
		return buffer.Position{Line: p.Line, Column: col}, p, true
	case p.Line > 0:
		return buffer.Position{Line: p.Line - 1, Column: e.buf.LineLen(p.Line - 1)}, p, true
	}
	return p, p, false
}

func (e *Engine) forwardRange() (buffer.Position, buffer.Position, bool) {
	if e.cursor.IsSelected() {
		r := e.cursor.Range()
		return r.Start, r.End, true
	}
	p := e.cursor.Left().Position()
	switch {
	case p.Column < e.buf.LineLen(p.Line):
		col := cursor.NextBoundary(e.buf.Runes(p.Line), p.Column)
		return p, buffer.Position{Line: p.Line, Column: col}, true
	case p.Line+1 < e.buf.LineCount():
		return p, buffer.Position{Line: p.Line + 1}, true
	}
	return p, p, false
}

// BeginBatchEdit starts a batch. Batches nest; notices and visibility
// updates are deferred until the outermost batch ends, and the batch is
// recorded as one undo entry.
func (e *Engine) BeginBatchEdit() {
	e.mu.Lock()
	defer e.unlock()
	e.beginBatchLocked("batch")
}

// EndBatchEdit ends the innermost batch.
func (e *Engine) EndBatchEdit() error {
	e.mu.Lock()
	defer e.unlock()
	if e.depth == 0 {
		return ErrNoBatch
	}
	e.endBatchLocked()
	return nil
}

// BatchDepth returns the number of open batches.
func (e *Engine) BatchDepth() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.depth
}

func (e *Engine) beginBatchLocked(name string) {
	if e.depth == 0 {
		e.batchEdits, e.pendingNotice, e.pendingFollow = 0, false, false
	}
	e.depth++
	e.history.BeginGroup(name)
}

func (e *Engine) endBatchLocked() {
	e.depth--
	e.history.EndGroup()
	if e.depth == 0 && e.pendingNotice {
		edits, follow := e.batchEdits, e.pendingFollow
		e.batchEdits, e.pendingNotice, e.pendingFollow = 0, false, false
		e.queueNotice(edits, follow)
	}
}

// SetComposingRegion marks [start, end) as the IME composing region.
func (e *Engine) SetComposingRegion(start, end int) error {
	e.mu.Lock()
	defer e.unlock()
	if start > end {
		start, end = end, start
	}
	if start < 0 || end > e.index.Len() {
		return fmt.Errorf("composing region [%d,%d): %w", start, end, buffer.ErrPositionOutOfBounds)
	}
	e.composing.Set(start, end)
	e.notify(0)
	return nil
}

// CommitText replaces the composing region with text and ends
// composition. Without a composing region it inserts at the cursor.
func (e *Engine) CommitText(text string) error {
	e.mu.Lock()
	defer e.unlock()

	r := e.cursor.Range()
	if start, end, active := e.composing.Region(); active {
		s, err := e.index.PositionOf(start)
		if err != nil {
			return err
		}
		en, err := e.index.PositionOf(end)
		if err != nil {
			return err
		}
		r = buffer.NewRange(s, en)
	}
	e.beginBatchLocked("commit")
	defer e.endBatchLocked()
	end, err := e.replaceLocked(r.Start, r.End, text)
	if err != nil {
		return err
	}
	e.composing.Clear()
	e.anchor.Reset(0)
	if err := e.cursor.Set(end.Line, end.Column); err != nil {
		return err
	}
	e.notify(0)
	return nil
}

// FinishComposing ends composition and keeps the composed text.
func (e *Engine) FinishComposing() error {
	e.mu.Lock()
	defer e.unlock()
	if _, _, active := e.composing.Region(); !active {
		return ErrNoComposition
	}
	e.composing.Clear()
	e.notify(0)
	return nil
}

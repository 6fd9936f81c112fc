package engine

import (
	"github.com/dshills/inkwell/internal/engine/buffer"
	"github.com/dshills/inkwell/internal/engine/cursor"
	"github.com/dshills/inkwell/internal/renderer/layout"
)

// caretLocked returns the moving end of the selection: the boundary
// opposite the anchor, or the left boundary when no anchor is set.
func (e *Engine) caretLocked() buffer.CharPosition {
	left, right := e.cursor.Left(), e.cursor.Right()
	if idx, ok := e.anchor.Get(); ok && idx == left.Index {
		return right
	}
	return left
}

func (e *Engine) selectionLocked() Selection {
	return Selection{Left: e.cursor.Left(), Right: e.cursor.Right(), Caret: e.caretLocked()}
}

// Selection returns the current cursor state.
func (e *Engine) Selection() Selection {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selectionLocked()
}

// Caret returns the moving end of the selection.
func (e *Engine) Caret() buffer.CharPosition {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.caretLocked()
}

// SetCursor collapses the cursor to (line, column), snapped forward to a
// grapheme cluster boundary, and anchors it there.
func (e *Engine) SetCursor(line, column int) error {
	e.mu.Lock()
	defer e.unlock()
	if err := e.cursor.SetSnapped(line, column); err != nil {
		return err
	}
	e.anchor.Set(e.cursor.Left().Index)
	e.history.Seal()
	e.notify(0)
	return nil
}

// SetSelection selects from start to end. start becomes the anchor and
// end the caret.
func (e *Engine) SetSelection(start, end buffer.Position) error {
	e.mu.Lock()
	defer e.unlock()
	s, err := e.index.OffsetOf(start.Line, start.Column)
	if err != nil {
		return err
	}
	en, err := e.index.OffsetOf(end.Line, end.Column)
	if err != nil {
		return err
	}
	return e.selectLocked(s, en)
}

// SelectIndexes selects [anchor, caret) by CharIndex.
func (e *Engine) SelectIndexes(anchor, caret int) error {
	e.mu.Lock()
	defer e.unlock()
	return e.selectLocked(anchor, caret)
}

func (e *Engine) selectLocked(anchor, caret int) error {
	if err := e.cursor.SetIndexes(anchor, caret); err != nil {
		return err
	}
	e.anchor.Set(anchor)
	e.history.Seal()
	e.notify(0)
	return nil
}

// ExtendSelection moves the caret to (line, column), snapped forward to a
// grapheme cluster boundary, keeping the anchor fixed. Without an anchor
// the current caret becomes one.
func (e *Engine) ExtendSelection(line, column int) error {
	e.mu.Lock()
	defer e.unlock()
	if _, err := e.index.OffsetOf(line, column); err != nil {
		return err
	}
	return e.extendLocked(line, cursor.SnapForward(e.buf.Runes(line), column))
}

// ExtendLeft moves the caret one grapheme cluster back, crossing line
// breaks, keeping the anchor fixed.
func (e *Engine) ExtendLeft() error {
	return e.extendBy(-1)
}

// ExtendRight moves the caret one grapheme cluster forward.
func (e *Engine) ExtendRight() error {
	return e.extendBy(1)
}

func (e *Engine) extendBy(dir int) error {
	e.mu.Lock()
	defer e.unlock()
	caret := e.caretLocked()
	line, col := caret.Line, caret.Column
	runes := e.buf.Runes(line)
	switch {
	case dir < 0 && col > 0:
		col = cursor.PrevBoundary(runes, col)
	case dir < 0 && line > 0:
		line--
		col = len(e.buf.Runes(line))
	case dir > 0 && col < len(runes):
		col = cursor.NextBoundary(runes, col)
	case dir > 0 && line+1 < e.buf.LineCount():
		line, col = line+1, 0
	default:
		return nil
	}
	return e.extendLocked(line, col)
}

func (e *Engine) extendLocked(line, column int) error {
	caret, err := e.index.OffsetOf(line, column)
	if err != nil {
		return err
	}
	anchor, ok := e.anchor.Get()
	if !ok {
		anchor = e.caretLocked().Index
	}
	return e.selectLocked(anchor, caret)
}

// MoveLeft collapses a selection to its start or moves one grapheme
// cluster back.
func (e *Engine) MoveLeft() error {
	return e.move(func() error { return e.cursor.MoveLeft() })
}

// MoveRight collapses a selection to its end or moves one grapheme
// cluster forward.
func (e *Engine) MoveRight() error {
	return e.move(func() error { return e.cursor.MoveRight() })
}

// MoveUp moves the caret one row up, following soft line breaks.
func (e *Engine) MoveUp() error {
	return e.move(func() error { return e.moveRow(layout.Up) })
}

// MoveDown moves the caret one row down, following soft line breaks.
func (e *Engine) MoveDown() error {
	return e.move(func() error { return e.moveRow(layout.Down) })
}

func (e *Engine) moveRow(step func(layout.Layout, int, int) (int, int, error)) error {
	caret := e.caretLocked()
	line, col, err := step(e.layout, caret.Line, caret.Column)
	if err != nil {
		return err
	}
	return e.cursor.SetSnapped(line, col)
}

func (e *Engine) move(fn func() error) error {
	e.mu.Lock()
	defer e.unlock()
	if err := fn(); err != nil {
		return err
	}
	e.anchor.Set(e.cursor.Left().Index)
	e.history.Seal()
	e.notify(0)
	return nil
}

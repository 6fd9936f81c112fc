package cursor

import (
	"fmt"

	"github.com/dshills/inkwell/internal/engine/buffer"
)

// Indexer resolves positions for the cursor.
type Indexer interface {
	CharPosition(line, column int) (buffer.CharPosition, error)
	CharPositionOf(index int) (buffer.CharPosition, error)
}

// Lines gives the cursor read access to line text.
type Lines interface {
	LineCount() int
	Runes(line int) []rune
}

// Cursor is an insertion point or selection. The two boundaries are
// stored as set; Left and Right order them by CharIndex.
type Cursor struct {
	index Indexer
	lines Lines

	left  buffer.CharPosition
	right buffer.CharPosition
}

// New creates a cursor at (0,0).
func New(lines Lines, index Indexer) *Cursor {
	return &Cursor{index: index, lines: lines}
}

// Set collapses the cursor to (line, column).
func (c *Cursor) Set(line, column int) error {
	p, err := c.resolve(line, column)
	if err != nil {
		return err
	}
	c.left, c.right = p, p
	return nil
}

// SetSnapped collapses the cursor to (line, column), first advancing a
// column that lands inside a grapheme cluster to the cluster end.
func (c *Cursor) SetSnapped(line, column int) error {
	if line < 0 || line >= c.lines.LineCount() {
		return fmt.Errorf("%w: line %d", buffer.ErrPositionOutOfBounds, line)
	}
	runes := c.lines.Runes(line)
	if column < 0 || column > len(runes) {
		return fmt.Errorf("%w: (%d:%d)", buffer.ErrPositionOutOfBounds, line, column)
	}
	return c.Set(line, SnapForward(runes, column))
}

// SetLeft sets the left boundary, keeping the right one.
func (c *Cursor) SetLeft(line, column int) error {
	p, err := c.resolve(line, column)
	if err != nil {
		return err
	}
	c.left = p
	return nil
}

// SetRight sets the right boundary, keeping the left one.
func (c *Cursor) SetRight(line, column int) error {
	p, err := c.resolve(line, column)
	if err != nil {
		return err
	}
	c.right = p
	return nil
}

// SetIndexes sets both boundaries from CharIndex values.
func (c *Cursor) SetIndexes(left, right int) error {
	l, err := c.resolveIndex(left)
	if err != nil {
		return err
	}
	r, err := c.resolveIndex(right)
	if err != nil {
		return err
	}
	c.left, c.right = l, r
	return nil
}

// Left returns the boundary that comes first in the document.
func (c *Cursor) Left() buffer.CharPosition {
	if c.right.Index < c.left.Index {
		return c.right
	}
	return c.left
}

// Right returns the boundary that comes last in the document.
func (c *Cursor) Right() buffer.CharPosition {
	if c.right.Index < c.left.Index {
		return c.left
	}
	return c.right
}

// IsSelected returns true if the cursor covers a non-empty range.
func (c *Cursor) IsSelected() bool {
	return c.left.Index != c.right.Index
}

// Range returns the cursor as a line/column range.
func (c *Cursor) Range() buffer.Range {
	return buffer.Range{Start: c.Left().Position(), End: c.Right().Position()}
}

// ShiftOnInsert moves both boundaries after text was inserted at
// [start, end). Line and column are stale until Resolve is called.
func (c *Cursor) ShiftOnInsert(start, end int) {
	c.left.Index = ShiftOnInsert(c.left.Index, start, end)
	c.right.Index = ShiftOnInsert(c.right.Index, start, end)
}

// ShiftOnDelete moves both boundaries after [start, end) was deleted.
// Line and column are stale until Resolve is called.
func (c *Cursor) ShiftOnDelete(start, end int) {
	c.left.Index = ShiftOnDelete(c.left.Index, start, end)
	c.right.Index = ShiftOnDelete(c.right.Index, start, end)
}

// Resolve re-derives line and column of both boundaries from their
// CharIndex using the current index.
func (c *Cursor) Resolve() error {
	l, err := c.resolveIndex(c.left.Index)
	if err != nil {
		return err
	}
	r, err := c.resolveIndex(c.right.Index)
	if err != nil {
		return err
	}
	c.left, c.right = l, r
	return nil
}

// MoveLeft collapses a selection to its left boundary, or moves an
// insertion point one grapheme cluster back, crossing line breaks.
func (c *Cursor) MoveLeft() error {
	if c.IsSelected() {
		l := c.Left()
		return c.Set(l.Line, l.Column)
	}
	p := c.left
	if p.Column > 0 {
		return c.Set(p.Line, PrevBoundary(c.lines.Runes(p.Line), p.Column))
	}
	if p.Line == 0 {
		return nil
	}
	return c.Set(p.Line-1, len(c.lines.Runes(p.Line-1)))
}

// MoveRight collapses a selection to its right boundary, or moves an
// insertion point one grapheme cluster forward, crossing line breaks.
func (c *Cursor) MoveRight() error {
	if c.IsSelected() {
		r := c.Right()
		return c.Set(r.Line, r.Column)
	}
	p := c.left
	runes := c.lines.Runes(p.Line)
	if p.Column < len(runes) {
		return c.Set(p.Line, NextBoundary(runes, p.Column))
	}
	if p.Line+1 >= c.lines.LineCount() {
		return nil
	}
	return c.Set(p.Line+1, 0)
}

func (c *Cursor) resolve(line, column int) (buffer.CharPosition, error) {
	p, err := c.index.CharPosition(line, column)
	if err != nil {
		return buffer.CharPosition{}, fmt.Errorf("cursor: %w", err)
	}
	return p, nil
}

func (c *Cursor) resolveIndex(index int) (buffer.CharPosition, error) {
	p, err := c.index.CharPositionOf(index)
	if err != nil {
		return buffer.CharPosition{}, fmt.Errorf("cursor: %w", err)
	}
	return p, nil
}

package engine

import (
	"github.com/dshills/inkwell/internal/engine/buffer"
	"github.com/dshills/inkwell/internal/renderer/dirty"
)

// Notice is delivered to listeners once per top-level edit, batch, cursor
// move or mode switch.
type Notice struct {
	// Edits is the number of buffer mutations since the last notice.
	Edits int

	Generation uint64
	Selection  Selection

	// Composing is the IME composing region as CharIndex values, valid
	// when ComposingActive is set.
	Composing       [2]int
	ComposingActive bool

	// Caret is the caret's text area point, for IME candidate windows.
	CaretX, CaretY float64

	// Dirty lists the lines that need repainting. FullRedraw means every
	// visible line does.
	Dirty      []dirty.Region
	FullRedraw bool

	// Scrolled reports that the viewport moved to keep the caret visible.
	Scrolled bool
}

// Selection is the cursor state. Left and Right are ordered by CharIndex;
// Caret is the boundary that moves when the selection is extended.
type Selection struct {
	Left  buffer.CharPosition
	Right buffer.CharPosition
	Caret buffer.CharPosition
}

// IsEmpty reports whether the selection is an insertion point.
func (s Selection) IsEmpty() bool {
	return s.Left.Index == s.Right.Index
}

// Listener receives notices after the engine lock is released.
type Listener func(Notice)

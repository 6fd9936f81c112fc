package annotate

import "github.com/dshills/inkwell/internal/engine/cursor"

// Anchor remembers the selection boundary that stays fixed while a
// selection is extended. It holds a value, not a reference to the cursor.
type Anchor struct {
	index int
	set   bool
}

// NewAnchor returns an unset anchor.
func NewAnchor() *Anchor {
	return &Anchor{}
}

// Name implements Store.
func (a *Anchor) Name() string { return "selection-anchor" }

// Reset unsets the anchor.
func (a *Anchor) Reset(int) {
	a.index, a.set = 0, false
}

// Set fixes the anchor at a CharIndex.
func (a *Anchor) Set(index int) {
	a.index, a.set = index, true
}

// Get returns the anchor and whether it is set.
func (a *Anchor) Get() (int, bool) {
	return a.index, a.set
}

// ShiftOnInsert implements Store.
func (a *Anchor) ShiftOnInsert(c Change) error {
	if a.set {
		a.index = cursor.ShiftOnInsert(a.index, c.StartIndex, c.EndIndex)
	}
	return nil
}

// ShiftOnDelete implements Store.
func (a *Anchor) ShiftOnDelete(c Change) error {
	if a.set {
		a.index = cursor.ShiftOnDelete(a.index, c.StartIndex, c.EndIndex)
	}
	return nil
}

package annotate

// UndoMemory keeps the range touched by the last undo or redo so the
// editor can reselect it.
type UndoMemory struct {
	start, end int
	valid      bool
}

// NewUndoMemory returns an empty memory.
func NewUndoMemory() *UndoMemory {
	return &UndoMemory{}
}

// Name implements Store.
func (u *UndoMemory) Name() string { return "undo-range" }

// Reset forgets the range.
func (u *UndoMemory) Reset(int) {
	u.start, u.end, u.valid = 0, 0, false
}

// Remember stores the range [start, end).
func (u *UndoMemory) Remember(start, end int) {
	if end < start {
		start, end = end, start
	}
	u.start, u.end, u.valid = start, end, true
}

// Range returns the remembered range and whether one is stored.
func (u *UndoMemory) Range() (start, end int, ok bool) {
	return u.start, u.end, u.valid
}

// ShiftOnInsert implements Store.
func (u *UndoMemory) ShiftOnInsert(c Change) error {
	if u.valid {
		u.start, u.end = shiftRangeInsert(u.start, u.end, c.StartIndex, c.EndIndex)
	}
	return nil
}

// ShiftOnDelete implements Store. A range emptied by the delete is forgotten.
func (u *UndoMemory) ShiftOnDelete(c Change) error {
	if !u.valid {
		return nil
	}
	wasEmpty := u.start == u.end
	u.start, u.end = shiftRangeDelete(u.start, u.end, c.StartIndex, c.EndIndex)
	if u.start == u.end && !wasEmpty {
		u.Reset(0)
	}
	return nil
}

package history

import (
	"time"

	"github.com/dshills/inkwell/internal/engine/buffer"
)

// Editor applies replayed mutations.
type Editor interface {
	Insert(pos buffer.Position, text string) (buffer.Position, error)
	Delete(start, end buffer.Position) (string, error)
}

// Operation is a single undoable mutation with the cursor index before and
// after it was applied.
type Operation struct {
	Mutation     buffer.Mutation
	CursorBefore int
	CursorAfter  int
	Timestamp    time.Time
}

// NewOperation creates an operation for m.
func NewOperation(m buffer.Mutation, cursorBefore, cursorAfter int) Operation {
	return Operation{
		Mutation:     m,
		CursorBefore: cursorBefore,
		CursorAfter:  cursorAfter,
		Timestamp:    time.Now(),
	}
}

// IsInsert reports whether the operation inserted text.
func (op Operation) IsInsert() bool {
	return op.Mutation.Kind == buffer.MutationInsert
}

// Undo applies the inverse of the operation and returns the range it
// affected in the resulting buffer.
func (op Operation) Undo(ed Editor) (buffer.Range, error) {
	m := op.Mutation
	if m.Kind == buffer.MutationInsert {
		if _, err := ed.Delete(m.Start, m.End); err != nil {
			return buffer.Range{}, err
		}
		return buffer.NewRange(m.Start, m.Start), nil
	}
	end, err := ed.Insert(m.Start, m.Text)
	if err != nil {
		return buffer.Range{}, err
	}
	return buffer.NewRange(m.Start, end), nil
}

// Redo applies the operation again and returns the range it affected.
func (op Operation) Redo(ed Editor) (buffer.Range, error) {
	m := op.Mutation
	if m.Kind == buffer.MutationInsert {
		end, err := ed.Insert(m.Start, m.Text)
		if err != nil {
			return buffer.Range{}, err
		}
		return buffer.NewRange(m.Start, end), nil
	}
	if _, err := ed.Delete(m.Start, m.End); err != nil {
		return buffer.Range{}, err
	}
	return buffer.NewRange(m.Start, m.Start), nil
}

// Entry is one undo unit.
type Entry struct {
	Name       string
	Operations []Operation
	Timestamp  time.Time

	// Affected is the range touched by the most recent Undo or Redo of
	// this entry.
	Affected buffer.Range
}

// CursorBefore returns the cursor index before the first operation.
func (e *Entry) CursorBefore() int {
	if len(e.Operations) == 0 {
		return 0
	}
	return e.Operations[0].CursorBefore
}

// CursorAfter returns the cursor index after the last operation.
func (e *Entry) CursorAfter() int {
	if len(e.Operations) == 0 {
		return 0
	}
	return e.Operations[len(e.Operations)-1].CursorAfter
}

// undo reverts operations newest first. On failure the operations already
// reverted are re-applied so the buffer is left unchanged.
func (e *Entry) undo(ed Editor) error {
	for i := len(e.Operations) - 1; i >= 0; i-- {
		r, err := e.Operations[i].Undo(ed)
		if err != nil {
			for j := i + 1; j < len(e.Operations); j++ {
				_, _ = e.Operations[j].Redo(ed)
			}
			return err
		}
		e.Affected = r
	}
	return nil
}

func (e *Entry) redo(ed Editor) error {
	for i, op := range e.Operations {
		r, err := op.Redo(ed)
		if err != nil {
			for j := i - 1; j >= 0; j-- {
				_, _ = e.Operations[j].Undo(ed)
			}
			return err
		}
		e.Affected = r
	}
	return nil
}

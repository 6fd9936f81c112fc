package annotate

import (
	"errors"
	"fmt"

	"github.com/dshills/inkwell/internal/engine/buffer"
)

// ErrMalformedRange indicates an entry with start after end or a negative
// offset. Such entries are dropped during a shift.
var ErrMalformedRange = errors.New("malformed annotation range")

// MalformedRangeError reports entries dropped by one store during a shift.
type MalformedRangeError struct {
	Store   string
	Dropped int
}

func (e *MalformedRangeError) Error() string {
	return fmt.Sprintf("%s: dropped %d malformed entries", e.Store, e.Dropped)
}

func (e *MalformedRangeError) Unwrap() error {
	return ErrMalformedRange
}

func malformed(store string, dropped int) error {
	if dropped == 0 {
		return nil
	}
	return &MalformedRangeError{Store: store, Dropped: dropped}
}

// Change is one atomic edit as seen by a Store. It carries both the
// line/column and CharIndex form so per-line and absolute stores share
// one notification.
//
// For an insert, End is the end of the inserted text after the edit.
// For a delete, End is the end of the removed text before the edit.
type Change struct {
	Start      buffer.Position
	End        buffer.Position
	StartIndex int
	EndIndex   int
}

// Len returns the number of characters inserted or deleted.
func (c Change) Len() int {
	return c.EndIndex - c.StartIndex
}

// LineDelta returns the number of line separators in the edited text.
func (c Change) LineDelta() int {
	return c.End.Line - c.Start.Line
}

// Store is a derived position store.
type Store interface {
	// Name identifies the store in logs and errors.
	Name() string

	// ShiftOnInsert repositions entries after text was inserted.
	ShiftOnInsert(c Change) error

	// ShiftOnDelete repositions entries after text was deleted.
	ShiftOnDelete(c Change) error
}

// Resetter is implemented by stores that can be cleared when the whole
// buffer text is replaced.
type Resetter interface {
	Reset(lineCount int)
}

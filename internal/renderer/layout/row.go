package layout

import (
	"errors"
	"fmt"

	"github.com/dshills/inkwell/internal/engine/buffer"
)

// ErrRowIndexOutOfBounds indicates a row index at or past the row count.
var ErrRowIndexOutOfBounds = errors.New("row index out of bounds")

// Kind identifies a layout strategy.
type Kind uint8

const (
	KindFixed Kind = iota
	KindReflow
)

// String returns the strategy name.
func (k Kind) String() string {
	switch k {
	case KindFixed:
		return "fixed"
	case KindReflow:
		return "reflow"
	default:
		return "unknown"
	}
}

// Row is a contiguous column range [StartColumn, EndColumn) of one line as
// it appears on one visual line.
type Row struct {
	Line        int
	StartColumn int
	EndColumn   int

	// Leading marks the first row of a line, Trailing the last.
	Leading  bool
	Trailing bool

	// RTL marks rows of a right-to-left paragraph, whose origin is the
	// right edge.
	RTL bool
}

// Len returns the number of columns in the row.
func (r Row) Len() int {
	return r.EndColumn - r.StartColumn
}

// LineRange is an inclusive range of lines.
type LineRange struct {
	Start int
	End   int
}

// Lines is read access to the buffer text.
type Lines interface {
	LineCount() int
	Runes(line int) []rune
}

// Layout maps lines to rows.
type Layout interface {
	// Kind reports the strategy.
	Kind() Kind

	// RowCount returns the total number of rows.
	RowCount() int

	// RowAt returns row i. It fails with ErrRowIndexOutOfBounds and
	// never clamps.
	RowAt(i int) (Row, error)

	// RowForPosition returns the index of the row displaying (line, column).
	RowForPosition(line, column int) (int, error)

	// RowCountForLine returns how many rows line occupies, or 0 if the
	// line does not exist.
	RowCountForLine(line int) int

	// AfterInsert updates rows after text was inserted spanning lines
	// [startLine, endLine] of the new buffer, and returns the lines whose
	// rows were rebuilt.
	AfterInsert(startLine, endLine int) LineRange

	// AfterDelete updates rows after text spanning lines [startLine,
	// endLine] of the old buffer was deleted, and returns the lines whose
	// rows were rebuilt.
	AfterDelete(startLine, endLine int) LineRange

	// Rebuild rebreaks the lines in [startLine, endLine] without a change
	// in line count. Lines that no longer exist are ignored.
	Rebuild(startLine, endLine int) LineRange

	// Iterator returns a restartable iterator starting at row start.
	Iterator(start int) *RowIterator
}

func rowError(i, count int) error {
	return fmt.Errorf("%w: %d not in [0,%d)", ErrRowIndexOutOfBounds, i, count)
}

func lineError(line, column int) error {
	return fmt.Errorf("layout: %w: (%d:%d)", buffer.ErrPositionOutOfBounds, line, column)
}

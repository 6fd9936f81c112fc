package layout

import (
	"slices"

	"github.com/dshills/inkwell/internal/engine/index"
)

// Reflow wraps lines into rows that fit a width.
type Reflow struct {
	lines    Lines
	measurer Measurer
	opts     Options

	table []lineRows

	// rows indexes row counts: line i has "length" len(table[i].starts)-1,
	// so CharIndex arithmetic on it yields row indexes.
	rows *index.Indexer

	// seq changes on every table mutation. Background rebuilds started at
	// an older seq are discarded by Install.
	seq uint64
}

// NewReflow creates a reflow layout and breaks every line.
func NewReflow(lines Lines, measurer Measurer, opts Options) *Reflow {
	r := &Reflow{lines: lines, measurer: measurer, opts: opts}
	r.install(computeRows(lines, measurer, opts))
	return r
}

// Kind implements Layout.
func (r *Reflow) Kind() Kind { return KindReflow }

// Options returns the breaking options.
func (r *Reflow) Options() Options {
	return r.opts
}

// RowCount implements Layout.
func (r *Reflow) RowCount() int {
	return r.rows.Len() + 1
}

// RowAt implements Layout.
func (r *Reflow) RowAt(i int) (Row, error) {
	if i < 0 || i >= r.RowCount() {
		return Row{}, rowError(i, r.RowCount())
	}
	p, err := r.rows.PositionOf(i)
	if err != nil {
		return Row{}, rowError(i, r.RowCount())
	}
	return r.row(p.Line, p.Column), nil
}

// RowForPosition implements Layout.
func (r *Reflow) RowForPosition(line, column int) (int, error) {
	if line < 0 || line >= len(r.table) {
		return 0, lineError(line, column)
	}
	lr := r.table[line]
	if column < 0 || column > lr.end {
		return 0, lineError(line, column)
	}
	return r.rows.OffsetOf(line, lr.rowFor(column))
}

// RowCountForLine implements Layout.
func (r *Reflow) RowCountForLine(line int) int {
	if line < 0 || line >= len(r.table) {
		return 0
	}
	return len(r.table[line].starts)
}

// Breaks returns the soft break columns of line: the start column of every
// row after the first.
func (r *Reflow) Breaks(line int) []int {
	if line < 0 || line >= len(r.table) {
		return nil
	}
	return slices.Clone(r.table[line].starts[1:])
}

// AfterInsert implements Layout.
func (r *Reflow) AfterInsert(startLine, endLine int) LineRange {
	if added := endLine - startLine; added > 0 {
		blank := make([]lineRows, added)
		zeros := make([]int, added)
		for i := range blank {
			blank[i] = lineRows{starts: []int{0}}
		}
		r.table = slices.Insert(r.table, startLine+1, blank...)
		_ = r.rows.InsertLines(startLine+1, zeros)
	}
	return r.rebreak(startLine, endLine)
}

// AfterDelete implements Layout.
func (r *Reflow) AfterDelete(startLine, endLine int) LineRange {
	if removed := endLine - startLine; removed > 0 && endLine < len(r.table) {
		r.table = slices.Delete(r.table, startLine+1, endLine+1)
		_ = r.rows.RemoveLines(startLine+1, removed)
	}
	return r.rebreak(startLine, startLine)
}

// Rebuild implements Layout.
func (r *Reflow) Rebuild(startLine, endLine int) LineRange {
	endLine = min(endLine, len(r.table)-1, r.lines.LineCount()-1)
	if startLine < 0 || startLine > endLine {
		return LineRange{Start: startLine, End: startLine - 1}
	}
	return r.rebreak(startLine, endLine)
}

// Iterator implements Layout.
func (r *Reflow) Iterator(start int) *RowIterator {
	return newRowIterator(r, start)
}

// rebreak rebreaks [startLine, endLine] and then every following line
// whose row count or end column changed, stopping at the first line whose
// shape is unchanged.
func (r *Reflow) rebreak(startLine, endLine int) LineRange {
	r.seq++
	count := min(len(r.table), r.lines.LineCount())
	endLine = min(endLine, count-1)
	for line := startLine; line <= endLine; line++ {
		r.set(line, r.breakAt(line))
	}
	last := endLine
	for line := endLine + 1; line < count; line++ {
		lr := r.breakAt(line)
		if lr.sameShape(r.table[line]) {
			break
		}
		r.set(line, lr)
		last = line
	}
	return LineRange{Start: startLine, End: last}
}

func (r *Reflow) breakAt(line int) lineRows {
	text := r.lines.Runes(line)
	return breakLine(text, r.measurer.Measure(line, text), r.opts)
}

func (r *Reflow) set(line int, lr lineRows) {
	r.table[line] = lr
	_ = r.rows.SetLineLen(line, len(lr.starts)-1)
}

func (r *Reflow) row(line, k int) Row {
	lr := r.table[line]
	end := lr.end
	if k+1 < len(lr.starts) {
		end = lr.starts[k+1]
	}
	return Row{
		Line:        line,
		StartColumn: lr.starts[k],
		EndColumn:   end,
		Leading:     k == 0,
		Trailing:    k == len(lr.starts)-1,
		RTL:         lr.rtl,
	}
}

func (r *Reflow) install(t Table) {
	r.table = t.lines
	lengths := make([]int, len(t.lines))
	for i, lr := range t.lines {
		lengths[i] = len(lr.starts) - 1
	}
	if r.rows == nil {
		r.rows = index.New(lengths)
	} else {
		r.rows.Reset(lengths)
	}
	r.seq++
}

package annotate

import "github.com/dshills/inkwell/internal/engine/buffer"

// shiftRangeInsert applies the insertion policy to an absolute range.
func shiftRangeInsert(start, end, is, ie int) (int, int) {
	n := ie - is
	if start >= is {
		return start + n, end + n
	}
	if end > is {
		return start, end + n
	}
	return start, end
}

// shiftRangeDelete intersects an absolute range with a deleted range.
func shiftRangeDelete(start, end, ds, de int) (int, int) {
	return shiftOffsetDelete(start, ds, de), shiftOffsetDelete(end, ds, de)
}

func shiftOffsetDelete(off, ds, de int) int {
	return off - max(0, min(off-ds, de-ds))
}

// shiftPointInsert moves a line/column point at or after the insertion
// start to follow the inserted text.
func shiftPointInsert(p buffer.Position, c Change) buffer.Position {
	if p.Before(c.Start) {
		return p
	}
	if p.Line == c.Start.Line {
		return buffer.Position{Line: c.End.Line, Column: p.Column - c.Start.Column + c.End.Column}
	}
	return buffer.Position{Line: p.Line + c.LineDelta(), Column: p.Column}
}

// shiftPointDelete collapses a point inside the deleted range onto its
// start and moves points after it back.
func shiftPointDelete(p buffer.Position, c Change) buffer.Position {
	if !p.After(c.Start) {
		return p
	}
	if p.Before(c.End) {
		return c.Start
	}
	if p.Line == c.End.Line {
		return buffer.Position{Line: c.Start.Line, Column: p.Column - c.End.Column + c.Start.Column}
	}
	return buffer.Position{Line: p.Line - c.LineDelta(), Column: p.Column}
}

// shiftPointRangeInsert applies the insertion policy to a line/column range.
func shiftPointRangeInsert(start, end buffer.Position, c Change) (buffer.Position, buffer.Position) {
	if !start.Before(c.Start) {
		return shiftPointInsert(start, c), shiftPointInsert(end, c)
	}
	if end.After(c.Start) {
		return start, shiftPointInsert(end, c)
	}
	return start, end
}

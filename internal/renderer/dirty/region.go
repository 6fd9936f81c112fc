// Package dirty tracks which document lines need to be redrawn after an
// edit. Adjacent and overlapping regions are coalesced so the renderer
// repaints each line at most once per frame.
package dirty

import (
	"fmt"
	"math"
)

// ToEnd marks a region that extends to the last line of the document.
const ToEnd = -1

// Region is an inclusive range of document lines.
type Region struct {
	// StartLine is the first dirty line.
	StartLine int

	// EndLine is the last dirty line, or ToEnd.
	EndLine int
}

// NewRegion creates a region covering [startLine, endLine]. The bounds are
// swapped if given in reverse order.
func NewRegion(startLine, endLine int) Region {
	if endLine != ToEnd && endLine < startLine {
		startLine, endLine = endLine, startLine
	}
	return Region{StartLine: max(startLine, 0), EndLine: endLine}
}

// IsOpen reports whether the region extends to the end of the document.
func (r Region) IsOpen() bool {
	return r.EndLine == ToEnd
}

// IsEmpty reports whether the region covers no lines.
func (r Region) IsEmpty() bool {
	return r.StartLine < 0 || (!r.IsOpen() && r.EndLine < r.StartLine)
}

// ContainsLine reports whether line is inside the region.
func (r Region) ContainsLine(line int) bool {
	return line >= r.StartLine && (r.IsOpen() || line <= r.EndLine)
}

// end returns the last line for comparisons, treating ToEnd as infinity.
func (r Region) end() int {
	if r.IsOpen() {
		return math.MaxInt
	}
	return r.EndLine
}

// Merge combines r with other if they overlap or touch.
func (r Region) Merge(other Region) (Region, bool) {
	if r.IsEmpty() {
		return other, true
	}
	if other.IsEmpty() {
		return r, true
	}
	if other.StartLine-1 > r.end() || r.StartLine-1 > other.end() {
		return r, false
	}
	merged := Region{StartLine: min(r.StartLine, other.StartLine)}
	if r.IsOpen() || other.IsOpen() {
		merged.EndLine = ToEnd
	} else {
		merged.EndLine = max(r.EndLine, other.EndLine)
	}
	return merged, true
}

// Clamp limits the region to a document of lineCount lines.
func (r Region) Clamp(lineCount int) Region {
	if lineCount <= 0 {
		return Region{StartLine: 0, EndLine: -2}
	}
	last := lineCount - 1
	if r.IsOpen() || r.EndLine > last {
		r.EndLine = last
	}
	r.StartLine = min(r.StartLine, last)
	return r
}

// String returns a debug representation.
func (r Region) String() string {
	if r.IsOpen() {
		return fmt.Sprintf("[%d..end]", r.StartLine)
	}
	return fmt.Sprintf("[%d..%d]", r.StartLine, r.EndLine)
}

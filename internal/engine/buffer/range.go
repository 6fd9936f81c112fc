package buffer

import "fmt"

// Range is a half-open span [Start, End) of line/column positions.
type Range struct {
	Start Position
	End   Position
}

// NewRange creates a range, swapping the endpoints if they are reversed.
func NewRange(start, end Position) Range {
	if end.Before(start) {
		start, end = end, start
	}
	return Range{Start: start, End: end}
}

// IsEmpty returns true if the range covers no text.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// IsMultiLine returns true if the range spans more than one line.
func (r Range) IsMultiLine() bool {
	return r.End.Line > r.Start.Line
}

// Contains returns true if p lies within [Start, End).
func (r Range) Contains(p Position) bool {
	return !p.Before(r.Start) && p.Before(r.End)
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("[%s-%s)", r.Start, r.End)
}

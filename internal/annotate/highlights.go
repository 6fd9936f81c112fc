package annotate

import (
	"sort"

	"github.com/dshills/inkwell/internal/engine/buffer"
)

// HighlightKind names the purpose of a highlighted range.
type HighlightKind uint8

const (
	HighlightSearch HighlightKind = iota
	HighlightReference
	HighlightWrite
	HighlightBracket
)

// HighlightRange is a line/column range painted with a background.
type HighlightRange struct {
	Start buffer.Position
	End   buffer.Position
	Kind  HighlightKind
}

// IsEmpty returns true if the range covers nothing.
func (h HighlightRange) IsEmpty() bool {
	return !h.Start.Before(h.End)
}

// Highlights stores highlighted ranges ordered by start.
type Highlights struct {
	items []HighlightRange

	// maxLineSpan bounds End.Line-Start.Line over all items so straddling
	// ranges can be found without scanning from the beginning.
	maxLineSpan int
}

// NewHighlights creates a store holding ranges.
func NewHighlights(ranges []HighlightRange) *Highlights {
	h := &Highlights{}
	h.Set(ranges)
	return h
}

// Name implements Store.
func (h *Highlights) Name() string { return "highlights" }

// Reset removes all ranges.
func (h *Highlights) Reset(int) {
	h.items, h.maxLineSpan = nil, 0
}

// Set replaces all ranges. Empty ranges are ignored.
func (h *Highlights) Set(ranges []HighlightRange) {
	h.items = h.items[:0]
	h.maxLineSpan = 0
	for _, r := range ranges {
		if r.IsEmpty() {
			continue
		}
		h.items = append(h.items, r)
		h.maxLineSpan = max(h.maxLineSpan, r.End.Line-r.Start.Line)
	}
	sort.SliceStable(h.items, func(i, j int) bool { return h.items[i].Start.Before(h.items[j].Start) })
}

// Add inserts one range, keeping start order.
func (h *Highlights) Add(r HighlightRange) {
	if r.IsEmpty() {
		return
	}
	i := sort.Search(len(h.items), func(i int) bool { return r.Start.Before(h.items[i].Start) })
	h.items = append(h.items, HighlightRange{})
	copy(h.items[i+1:], h.items[i:])
	h.items[i] = r
	h.maxLineSpan = max(h.maxLineSpan, r.End.Line-r.Start.Line)
}

// Len returns the number of ranges.
func (h *Highlights) Len() int {
	return len(h.items)
}

// All returns a copy of all ranges in start order.
func (h *Highlights) All() []HighlightRange {
	return append([]HighlightRange(nil), h.items...)
}

// ForLine returns the ranges that cover part of line.
func (h *Highlights) ForLine(line int) []HighlightRange {
	var out []HighlightRange
	for i := h.searchLine(line); i < len(h.items) && h.items[i].Start.Line <= line; i++ {
		if h.items[i].End.Line >= line {
			out = append(out, h.items[i])
		}
	}
	return out
}

// Lines returns the distinct lines any range covers, ascending. A line
// is covered under the same rule ForLine uses.
func (h *Highlights) Lines() []int {
	var out []int
	next := 0
	for _, r := range h.items {
		for l := max(r.Start.Line, next); l <= r.End.Line; l++ {
			out = append(out, l)
		}
		next = max(next, r.End.Line+1)
	}
	return out
}

// ShiftOnInsert implements Store.
func (h *Highlights) ShiftOnInsert(c Change) error {
	dropped := 0
	out := h.items[:h.searchLine(c.Start.Line)]
	for _, r := range h.items[len(out):] {
		if r.End.Before(r.Start) || r.Start.Line < 0 || r.Start.Column < 0 {
			dropped++
			continue
		}
		r.Start, r.End = shiftPointRangeInsert(r.Start, r.End, c)
		h.maxLineSpan = max(h.maxLineSpan, r.End.Line-r.Start.Line)
		out = append(out, r)
	}
	h.items = out
	return malformed(h.Name(), dropped)
}

// ShiftOnDelete implements Store. Ranges emptied by the delete are removed.
func (h *Highlights) ShiftOnDelete(c Change) error {
	dropped := 0
	out := h.items[:h.searchLine(c.Start.Line)]
	for _, r := range h.items[len(out):] {
		if r.End.Before(r.Start) || r.Start.Line < 0 || r.Start.Column < 0 {
			dropped++
			continue
		}
		r.Start = shiftPointDelete(r.Start, c)
		r.End = shiftPointDelete(r.End, c)
		if r.IsEmpty() {
			continue
		}
		out = append(out, r)
	}
	h.items = out
	return malformed(h.Name(), dropped)
}

// searchLine returns the first index whose range may reach line.
func (h *Highlights) searchLine(line int) int {
	lo := line - h.maxLineSpan
	return sort.Search(len(h.items), func(i int) bool { return h.items[i].Start.Line >= lo })
}

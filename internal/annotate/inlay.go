package annotate

import (
	"sort"

	"github.com/dshills/inkwell/internal/engine/buffer"
)

// HintKind classifies an inlay hint.
type HintKind uint8

const (
	HintText HintKind = iota
	HintType
	HintParameter
	HintColor
)

// InlayHint is virtual text displayed at (Line, Column).
type InlayHint struct {
	Line   int
	Column int
	Label  string
	Kind   HintKind
}

func (h InlayHint) position() buffer.Position {
	return buffer.Position{Line: h.Line, Column: h.Column}
}

// InlayHints stores hints ordered by position.
type InlayHints struct {
	items []InlayHint

	// updated collects lines whose hints changed since the last
	// TakeUpdatedLines, so the layout can re-measure them.
	updated map[int]struct{}
}

// NewInlayHints creates a store holding hints.
func NewInlayHints(hints []InlayHint) *InlayHints {
	s := &InlayHints{updated: make(map[int]struct{})}
	s.Set(hints)
	return s
}

// Name implements Store.
func (s *InlayHints) Name() string { return "inlay-hints" }

// Reset removes all hints.
func (s *InlayHints) Reset(int) {
	for _, h := range s.items {
		s.updated[h.Line] = struct{}{}
	}
	s.items = nil
}

// Set replaces all hints.
func (s *InlayHints) Set(hints []InlayHint) {
	s.Reset(0)
	s.items = append([]InlayHint(nil), hints...)
	sort.SliceStable(s.items, func(i, j int) bool {
		return s.items[i].position().Before(s.items[j].position())
	})
	for _, h := range s.items {
		s.updated[h.Line] = struct{}{}
	}
}

// Len returns the number of hints.
func (s *InlayHints) Len() int {
	return len(s.items)
}

// All returns a copy of all hints in position order.
func (s *InlayHints) All() []InlayHint {
	return append([]InlayHint(nil), s.items...)
}

// ForLine returns the hints on line in column order.
func (s *InlayHints) ForLine(line int) []InlayHint {
	lo := sort.Search(len(s.items), func(i int) bool { return s.items[i].Line >= line })
	hi := lo
	for hi < len(s.items) && s.items[hi].Line == line {
		hi++
	}
	return append([]InlayHint(nil), s.items[lo:hi]...)
}

// TakeUpdatedLines returns and clears the set of lines whose hints changed.
func (s *InlayHints) TakeUpdatedLines() []int {
	out := make([]int, 0, len(s.updated))
	for l := range s.updated {
		out = append(out, l)
	}
	sort.Ints(out)
	clear(s.updated)
	return out
}

// ShiftOnInsert implements Store. Hints at or after the insertion point
// move with the text; a multi-line insert relocates the hints on the
// start line to the new end line.
func (s *InlayHints) ShiftOnInsert(c Change) error {
	i := s.searchFrom(c.Start)
	for k := i; k < len(s.items); k++ {
		h := &s.items[k]
		if h.Line == c.Start.Line && c.LineDelta() == 0 {
			s.updated[h.Line] = struct{}{}
		}
		p := shiftPointInsert(h.position(), c)
		h.Line, h.Column = p.Line, p.Column
	}
	if c.LineDelta() > 0 && i < len(s.items) {
		s.updated[c.Start.Line] = struct{}{}
		s.updated[c.End.Line] = struct{}{}
	}
	return nil
}

// ShiftOnDelete implements Store. Hints strictly inside the deleted range
// are removed; a hint at the end of the range collapses onto its start.
func (s *InlayHints) ShiftOnDelete(c Change) error {
	i := s.searchFrom(c.Start)
	out := s.items[:i]
	for _, h := range s.items[i:] {
		p := h.position()
		if p.After(c.Start) && p.Before(c.End) {
			s.updated[c.Start.Line] = struct{}{}
			continue
		}
		if p.Line <= c.End.Line {
			s.updated[c.Start.Line] = struct{}{}
		}
		p = shiftPointDelete(p, c)
		h.Line, h.Column = p.Line, p.Column
		out = append(out, h)
	}
	s.items = out
	return nil
}

func (s *InlayHints) searchFrom(p buffer.Position) int {
	return sort.Search(len(s.items), func(i int) bool {
		return !s.items[i].position().Before(p)
	})
}

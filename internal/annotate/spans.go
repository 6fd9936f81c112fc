package annotate

import (
	"encoding/binary"
	"hash/fnv"
	"sort"
)

// Style is an opaque style identifier assigned by the analyzer.
type Style int64

// StyleNormal is the style of text no analyzer has classified.
const StyleNormal Style = 0

// Span starts a style run at Column. The run covers the line up to the
// next span's column, or to the end of the line.
type Span struct {
	Column int
	Style  Style
}

// Spans stores style runs per line. Every line always has a span at
// column 0.
type Spans struct {
	lines [][]Span
}

// NewSpans creates a store with lineCount unstyled lines.
func NewSpans(lineCount int) *Spans {
	s := &Spans{}
	s.Reset(lineCount)
	return s
}

// Name implements Store.
func (s *Spans) Name() string { return "spans" }

// Reset clears all styling.
func (s *Spans) Reset(lineCount int) {
	s.lines = make([][]Span, max(lineCount, 1))
	for i := range s.lines {
		s.lines[i] = defaultRun()
	}
}

// LineCount returns the number of lines tracked.
func (s *Spans) LineCount() int {
	return len(s.lines)
}

// SetLine replaces the runs of one line. Runs are sorted by column and a
// leading unstyled run is added when none starts at column 0.
func (s *Spans) SetLine(line int, runs []Span) {
	s.ensure(line)
	runs = append([]Span(nil), runs...)
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Column < runs[j].Column })
	s.lines[line] = normalizeRuns(runs)
}

// Line returns the runs of line. The slice must not be modified.
func (s *Spans) Line(line int) []Span {
	if line < 0 || line >= len(s.lines) {
		return defaultRun()
	}
	return s.lines[line]
}

// StyleAt returns the style of the character at (line, column).
func (s *Spans) StyleAt(line, column int) Style {
	runs := s.Line(line)
	i := sort.Search(len(runs), func(i int) bool { return runs[i].Column > column })
	if i == 0 {
		return StyleNormal
	}
	return runs[i-1].Style
}

// StyleHash hashes the runs of line for measurement cache keys.
func (s *Spans) StyleHash(line int) uint64 {
	h := fnv.New64a()
	var buf [16]byte
	for _, sp := range s.Line(line) {
		binary.LittleEndian.PutUint64(buf[:8], uint64(sp.Column))
		binary.LittleEndian.PutUint64(buf[8:], uint64(sp.Style))
		_, _ = h.Write(buf[:])
	}
	return h.Sum64()
}

// ShiftOnInsert implements Store.
func (s *Spans) ShiftOnInsert(c Change) error {
	if c.Start.Line >= len(s.lines) {
		s.ensure(c.Start.Line)
	}
	if c.LineDelta() == 0 {
		s.insertSingleLine(c.Start.Line, c.Start.Column, c.End.Column)
	} else {
		s.insertMultiLine(c)
	}
	return nil
}

// ShiftOnDelete implements Store.
func (s *Spans) ShiftOnDelete(c Change) error {
	if c.End.Line >= len(s.lines) {
		s.ensure(c.End.Line)
	}
	if c.LineDelta() == 0 {
		s.deleteSingleLine(c.Start.Line, c.Start.Column, c.End.Column)
	} else {
		s.deleteMultiLine(c)
	}
	return nil
}

func (s *Spans) insertSingleLine(line, startCol, endCol int) {
	runs := s.lines[line]
	i := firstAtOrAfter(runs, startCol)
	if i == len(runs) {
		return
	}
	delta := endCol - startCol
	for j := i; j < len(runs); j++ {
		runs[j].Column += delta
	}
	if i == 0 {
		// Text inserted at line start gets its own unstyled run.
		runs = append(defaultRun(), runs...)
	}
	s.lines[line] = normalizeRuns(runs)
}

func (s *Spans) insertMultiLine(c Change) {
	runs := s.lines[c.Start.Line]
	startCol, endCol := c.Start.Column, c.End.Column

	// As on a single line, inserted text takes the style of the character
	// before the insertion point, or no style at line start.
	before := firstAtOrAfter(runs, startCol) - 1
	style := StyleNormal
	if before >= 0 {
		style = runs[before].Style
	}

	added := make([][]Span, c.LineDelta())
	for i := range added {
		added[i] = []Span{{Column: 0, Style: style}}
	}
	last := added[len(added)-1]
	for _, sp := range runs[max(before, 0):] {
		last = append(last, Span{Column: max(0, sp.Column-startCol) + endCol, Style: sp.Style})
	}
	added[len(added)-1] = normalizeRuns(last)

	if keep := before + 1; keep == 0 {
		s.lines[c.Start.Line] = defaultRun()
	} else {
		s.lines[c.Start.Line] = runs[:keep:keep]
	}
	s.lines = insertLines(s.lines, c.Start.Line+1, added)
}

func (s *Spans) deleteSingleLine(line, startCol, endCol int) {
	runs := s.lines[line]
	i := firstAtOrAfter(runs, startCol)
	if i == len(runs) {
		return
	}
	j := firstAtOrAfter(runs[i:], endCol) + i
	if j > i && (j == len(runs) || runs[j].Column > endCol) {
		// The last run starting inside the deleted text still styles the
		// text after it.
		j--
		runs[j].Column = endCol
	}
	runs = append(runs[:i], runs[j:]...)
	delta := endCol - startCol
	for k := i; k < len(runs); k++ {
		runs[k].Column -= delta
	}
	s.lines[line] = normalizeRuns(runs)
}

func (s *Spans) deleteMultiLine(c Change) {
	startRuns := s.lines[c.Start.Line]
	endRuns := s.lines[c.End.Line]
	startCol, endCol := c.Start.Column, c.End.Column

	keep := max(firstAtOrAfter(startRuns, startCol), 1)
	merged := append([]Span(nil), startRuns[:keep]...)

	// Drop runs of the end line that lie entirely inside the deleted text.
	k := 0
	for k+1 < len(endRuns) && endRuns[k+1].Column <= endCol {
		k++
	}
	for _, sp := range endRuns[k:] {
		merged = append(merged, Span{Column: max(sp.Column-endCol, 0) + startCol, Style: sp.Style})
	}

	s.lines[c.Start.Line] = normalizeRuns(merged)
	s.lines = append(s.lines[:c.Start.Line+1], s.lines[c.End.Line+1:]...)
}

func (s *Spans) ensure(line int) {
	for len(s.lines) <= line {
		s.lines = append(s.lines, defaultRun())
	}
}

func defaultRun() []Span {
	return []Span{{Column: 0, Style: StyleNormal}}
}

// firstAtOrAfter returns the index of the first run starting at or after col.
func firstAtOrAfter(runs []Span, col int) int {
	return sort.Search(len(runs), func(i int) bool { return runs[i].Column >= col })
}

// normalizeRuns guarantees a run at column 0, removes runs covering no
// text and merges neighbours with the same style. When two runs share a
// column the later one wins.
func normalizeRuns(runs []Span) []Span {
	if len(runs) == 0 || runs[0].Column != 0 {
		if len(runs) > 0 && runs[0].Column < 0 {
			runs[0].Column = 0
		} else {
			runs = append(defaultRun(), runs...)
		}
	}
	out := runs[:0]
	for i, sp := range runs {
		if i+1 < len(runs) && runs[i+1].Column <= sp.Column {
			continue
		}
		if len(out) > 0 && out[len(out)-1].Style == sp.Style {
			continue
		}
		out = append(out, sp)
	}
	return out
}

func insertLines(lines [][]Span, at int, added [][]Span) [][]Span {
	out := make([][]Span, 0, len(lines)+len(added))
	out = append(out, lines[:at]...)
	out = append(out, added...)
	return append(out, lines[at:]...)
}

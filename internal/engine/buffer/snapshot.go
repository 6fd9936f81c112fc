package buffer

import "strings"

// Snapshot is a read-only copy of the buffer at one generation.
// It is safe to hand to other goroutines.
type Snapshot struct {
	lines      []string
	generation uint64
}

// NewSnapshot creates a snapshot from already split lines.
func NewSnapshot(lines []string, generation uint64) Snapshot {
	return Snapshot{lines: lines, generation: generation}
}

// Generation returns the buffer generation the snapshot was taken at.
func (s Snapshot) Generation() uint64 {
	return s.generation
}

// LineCount returns the number of lines.
func (s Snapshot) LineCount() int {
	return len(s.lines)
}

// Line returns the text of line, or "" if it does not exist.
func (s Snapshot) Line(line int) string {
	if line < 0 || line >= len(s.lines) {
		return ""
	}
	return s.lines[line]
}

// Text returns the full text.
func (s Snapshot) Text() string {
	return strings.Join(s.lines, "\n")
}

// Runes returns the runes of line.
func (s Snapshot) Runes(line int) []rune {
	return []rune(s.Line(line))
}

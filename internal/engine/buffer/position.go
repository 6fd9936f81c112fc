package buffer

import "fmt"

// Position is a line and column location in the buffer.
// Both fields are 0-indexed; Column counts runes from the start of the line.
type Position struct {
	Line   int
	Column int
}

// String returns a human-readable representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("(%d:%d)", p.Line, p.Column)
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p Position) Compare(other Position) int {
	switch {
	case p.Line < other.Line:
		return -1
	case p.Line > other.Line:
		return 1
	case p.Column < other.Column:
		return -1
	case p.Column > other.Column:
		return 1
	}
	return 0
}

// Before returns true if p comes before other.
func (p Position) Before(other Position) bool {
	return p.Compare(other) < 0
}

// After returns true if p comes after other.
func (p Position) After(other Position) bool {
	return p.Compare(other) > 0
}

// CharPosition is a Position together with its absolute character index
// (CharIndex) from the start of the document.
type CharPosition struct {
	Line   int
	Column int
	Index  int
}

// Position returns the line/column part of c.
func (c CharPosition) Position() Position {
	return Position{Line: c.Line, Column: c.Column}
}

// String returns a human-readable representation of the char position.
func (c CharPosition) String() string {
	return fmt.Sprintf("(%d:%d@%d)", c.Line, c.Column, c.Index)
}

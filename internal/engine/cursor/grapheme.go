package cursor

import "github.com/rivo/uniseg"

// Boundaries returns the rune offsets of grapheme cluster boundaries in
// runes, always starting with 0 and ending with len(runes).
func Boundaries(runes []rune) []int {
	out := []int{0}
	if len(runes) == 0 {
		return out
	}
	g := uniseg.NewGraphemes(string(runes))
	pos := 0
	for g.Next() {
		pos += len(g.Runes())
		out = append(out, pos)
	}
	return out
}

// SnapForward moves col to the end of the grapheme cluster it falls
// strictly inside. Columns already on a boundary are returned unchanged.
// The result is clamped to the line length.
func SnapForward(runes []rune, col int) int {
	if col <= 0 {
		return 0
	}
	if col >= len(runes) {
		return len(runes)
	}
	for _, b := range Boundaries(runes) {
		if b >= col {
			return b
		}
	}
	return len(runes)
}

// NextBoundary returns the first cluster boundary after col, or
// len(runes) if col is at the end of the line.
func NextBoundary(runes []rune, col int) int {
	for _, b := range Boundaries(runes) {
		if b > col {
			return b
		}
	}
	return len(runes)
}

// PrevBoundary returns the last cluster boundary before col, or 0.
func PrevBoundary(runes []rune, col int) int {
	prev := 0
	for _, b := range Boundaries(runes) {
		if b >= col {
			break
		}
		prev = b
	}
	return prev
}

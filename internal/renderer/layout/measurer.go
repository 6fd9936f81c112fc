package layout

import "github.com/rivo/uniseg"

// Measurer reports the advance width of every rune in a line.
// Implementations used by ComputeRows must be safe for concurrent use.
type Measurer interface {
	// Measure returns one advance per rune of text. The result may be
	// shared and must not be modified.
	Measure(line int, text []rune) []float64
}

// Monospace measures text in terminal cells: wide runes take two cells,
// combining marks none, and tabs advance to the next tab stop.
type Monospace struct {
	TabWidth int
}

// Measure implements Measurer.
func (m Monospace) Measure(_ int, text []rune) []float64 {
	tab := m.TabWidth
	if tab < 1 {
		tab = 4
	}
	out := make([]float64, len(text))
	col := 0
	for i, r := range text {
		w := 1
		switch {
		case r == '\t':
			w = tab - col%tab
		case r < 0x80:
		default:
			w = uniseg.StringWidth(string(r))
		}
		out[i] = float64(w)
		col += w
	}
	return out
}

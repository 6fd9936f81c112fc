package layout

import (
	"sort"
	"unicode"

	"github.com/dshills/inkwell/internal/engine/cursor"
)

// Options configures line breaking.
type Options struct {
	// Width is the available row width in measurer units. A width of
	// zero or less disables wrapping.
	Width float64

	// AntiWordBreak moves a break that would split a word to the start
	// of that word, unless the word alone exceeds the width.
	AntiWordBreak bool

	// RTLAware anchors rows of right-to-left paragraphs to the right edge.
	RTLAware bool
}

// lineRows records how one line was broken.
type lineRows struct {
	// starts holds the start column of every row; starts[0] is 0.
	starts []int

	// end is the line length when it was broken.
	end int
	rtl bool
}

func (lr lineRows) sameShape(other lineRows) bool {
	return len(lr.starts) == len(other.starts) && lr.end == other.end
}

// rowFor returns the row of the line containing column. A column on a
// row boundary belongs to the later row.
func (lr lineRows) rowFor(column int) int {
	return sort.Search(len(lr.starts), func(i int) bool { return lr.starts[i] > column }) - 1
}

// breakLine greedily packs text into rows no wider than opts.Width.
// Every row holds at least one grapheme cluster.
func breakLine(text []rune, advances []float64, opts Options) lineRows {
	lr := lineRows{starts: []int{0}, end: len(text)}
	if opts.RTLAware {
		lr.rtl = IsRTL(text)
	}
	if opts.Width <= 0 || len(text) == 0 {
		return lr
	}

	bounds := cursor.Boundaries(text)
	bi := 0
	start := 0
	for {
		acc := 0.0
		next := bounds[bi+1]
		k := bi + 1
		for ; k < len(bounds); k++ {
			for c := bounds[k-1]; c < bounds[k]; c++ {
				acc += advances[c]
			}
			if acc > opts.Width {
				break
			}
			next = bounds[k]
		}
		if next >= len(text) {
			break
		}
		if opts.AntiWordBreak && isWordRune(text[next-1]) && (isWordRune(text[next]) || text[next] == '-') {
			ws := next - 1
			for ws > start && isWordRune(text[ws-1]) {
				ws--
			}
			if ws > start {
				next = ws
			}
		}
		lr.starts = append(lr.starts, next)
		start = next
		bi = sort.SearchInts(bounds, start)
	}
	return lr
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

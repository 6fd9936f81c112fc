package renderer

import (
	"strconv"

	"github.com/dshills/inkwell/internal/renderer/core"
	"github.com/dshills/inkwell/internal/renderer/layout"
)

// minNumberWidth is the narrowest line number column.
const minNumberWidth = 3

// gutterWidth returns the gutter width for lineCount lines: the digits of
// the largest line number plus one separator column.
func (r *Renderer) gutterWidth(lineCount int) int {
	if !r.opts.LineNumbers {
		return 0
	}
	return max(len(strconv.Itoa(lineCount)), minNumberWidth) + 1
}

// drawGutter writes the line number on the first row of a line and blanks
// on wrapped continuation rows.
func (r *Renderer) drawGutter(f *frame, y int, row layout.Row) {
	width := f.area.X
	if width == 0 {
		return
	}
	style := f.theme.Text.Merge(f.theme.Gutter)
	if row.Line == f.cur.sel.Caret.Line {
		style = f.theme.Text.Merge(f.theme.GutterCurrent)
	}
	label := ""
	if row.Leading {
		label = strconv.Itoa(row.Line + 1)
	}
	pad := width - 1 - len(label)
	for x := 0; x < width; x++ {
		ch := ' '
		if i := x - pad; x < width-1 && i >= 0 && i < len(label) {
			ch = rune(label[i])
		}
		r.backend.SetCell(x, y, core.NewCell(ch, style))
	}
}

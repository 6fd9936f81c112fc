package renderer

import (
	"fmt"
	"path/filepath"

	"github.com/rivo/uniseg"

	"github.com/dshills/inkwell/internal/annotate"
	"github.com/dshills/inkwell/internal/renderer/core"
)

// drawStatus writes the status line on screen row y: the file name and
// message on the left, the caret position and document state on the
// right.
func (r *Renderer) drawStatus(doc Document, y int) {
	t := &r.opts.Theme
	style := t.Text.Merge(t.Status)

	name := "[scratch]"
	if p := doc.Path(); p != "" {
		name = filepath.Base(p)
	}
	left := " " + name
	if r.message != "" {
		left += "  " + r.message
	}
	right := statusRight(doc) + " "

	x := 0
	x = r.drawText(x, y, left, style)
	pad := r.width - x - uniseg.StringWidth(right)
	for ; pad > 0; pad-- {
		r.backend.SetCell(x, y, core.NewCell(' ', style))
		x++
	}
	x = r.drawText(x, y, right, style)
	for ; x < r.width; x++ {
		r.backend.SetCell(x, y, core.NewCell(' ', style))
	}
}

func statusRight(doc Document) string {
	caret := doc.Selection().Caret
	var errs, warns int
	for _, d := range doc.Diagnostics().All() {
		switch d.Severity {
		case annotate.SeverityError:
			errs++
		case annotate.SeverityWarning:
			warns++
		}
	}
	s := fmt.Sprintf("Ln %d, Col %d  gen %d", caret.Line+1, caret.Column+1, doc.Generation())
	if errs+warns > 0 {
		s += fmt.Sprintf("  E:%d W:%d", errs, warns)
	}
	if doc.WordWrap() {
		s += "  wrap"
	}
	return s
}

// drawText writes s from column x by grapheme cluster and returns the
// next free column. Text past the screen edge is dropped.
func (r *Renderer) drawText(x, y int, s string, style core.Style) int {
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		runes := g.Runes()
		w := g.Width()
		if w == 0 {
			continue
		}
		if x+w > r.width {
			break
		}
		r.backend.SetCell(x, y, core.Cell{Rune: runes[0], Combining: runes[1:], Width: w, Style: style})
		for i := 1; i < w; i++ {
			r.backend.SetCell(x+i, y, core.Cell{Width: 0, Style: style})
		}
		x += w
	}
	return x
}

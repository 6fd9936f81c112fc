package renderer

import (
	"math"

	"github.com/dshills/inkwell/internal/annotate"
	"github.com/dshills/inkwell/internal/engine"
	"github.com/dshills/inkwell/internal/engine/buffer"
	"github.com/dshills/inkwell/internal/renderer/backend"
	"github.com/dshills/inkwell/internal/renderer/core"
	"github.com/dshills/inkwell/internal/renderer/dirty"
	"github.com/dshills/inkwell/internal/renderer/layout"
	"github.com/dshills/inkwell/internal/renderer/linecache"
)

// Document is the editor state a Renderer draws. *engine.Engine
// implements it.
type Document interface {
	Path() string
	Generation() uint64
	LineCount() int
	Line(line int) string
	OffsetOf(line, column int) (int, error)
	PositionOf(index int) (buffer.Position, error)
	VisibleRows() []layout.Row
	Advances(line int) *linecache.Entry
	Selection() engine.Selection
	Composing() (start, end int, active bool)
	WordWrap() bool
	Dirty() *dirty.Tracker
	Spans() *annotate.Spans
	Diagnostics() *annotate.Diagnostics
	Highlights() *annotate.Highlights
	InlayHints() *annotate.InlayHints
}

var _ Document = (*engine.Engine)(nil)

// Options configures a Renderer.
type Options struct {
	LineNumbers bool
	StatusLine  bool
	Theme       Theme
}

// DefaultOptions returns options with line numbers, a status line and
// the default theme.
func DefaultOptions() Options {
	return Options{LineNumbers: true, StatusLine: true, Theme: DefaultTheme()}
}

// Renderer paints a Document on a backend. Only lines reported dirty by
// the document, and lines whose selection or caret state changed, are
// repainted. Draw must run on the goroutine that edits the document.
type Renderer struct {
	backend backend.Backend
	opts    Options

	width, height int
	gutter        int
	drawn         bool
	last          cursorState
	message       string
	frames        uint64
}

// cursorState is what a frame painted for the caret, selection and
// composing region.
type cursorState struct {
	sel       engine.Selection
	composing [2]int
	active    bool
}

// New creates a renderer drawing on b.
func New(b backend.Backend, opts Options) *Renderer {
	return &Renderer{backend: b, opts: opts}
}

// SetMessage sets the status line message.
func (r *Renderer) SetMessage(msg string) {
	r.message = msg
}

// SetTheme replaces the theme and repaints everything on the next frame.
func (r *Renderer) SetTheme(t Theme) {
	r.opts.Theme = t
	r.drawn = false
}

// Frames returns the number of frames drawn.
func (r *Renderer) Frames() uint64 {
	return r.frames
}

// TextArea returns the screen rectangle holding document text.
func (r *Renderer) TextArea(doc Document) core.Rect {
	width, height := r.backend.Size()
	gutter := r.gutterWidth(doc.LineCount())
	if r.opts.StatusLine {
		height--
	}
	return core.Rect{X: gutter, Width: max(width-gutter, 0), Height: max(height, 0)}
}

// Draw paints one frame and flushes it to the screen.
func (r *Renderer) Draw(doc Document) {
	width, height := r.backend.Size()
	area := r.TextArea(doc)
	regions, full := doc.Dirty().Flush()
	if !r.drawn || width != r.width || height != r.height || area.X != r.gutter {
		full = true
		r.backend.Clear()
	}
	r.width, r.height, r.gutter = width, height, area.X

	cur := cursorState{sel: doc.Selection()}
	if start, end, active := doc.Composing(); active {
		cur.composing, cur.active = [2]int{start, end}, true
	}
	f := &frame{
		doc:   doc,
		theme: &r.opts.Theme,
		area:  area,
		cur:   cur,
		lines: make(map[int]*lineData),
	}
	changed := r.cursorLines(f, cur)

	rows := doc.VisibleRows()
	caretX, caretY := -1, -1
	for y := 0; y < area.Height; y++ {
		if y >= len(rows) {
			if full {
				r.drawFiller(f, y)
			}
			continue
		}
		row := rows[y]
		if x, ok := f.caretColumn(row); ok {
			caretX, caretY = x, y
		}
		if full || changed(row.Line) || dirtyLine(regions, row.Line) {
			r.drawRow(f, y, row)
		}
	}

	if r.opts.StatusLine && height > 0 {
		r.drawStatus(doc, height-1)
	}
	if caretX >= 0 && caretX < width {
		r.backend.ShowCursor(caretX, caretY)
	} else {
		r.backend.HideCursor()
	}
	r.backend.Show()
	r.last = cur
	r.drawn = true
	r.frames++
}

// cursorLines returns a predicate for lines whose caret, selection or
// composing state differs from the last frame.
func (r *Renderer) cursorLines(f *frame, cur cursorState) func(int) bool {
	if cur == r.last {
		return func(int) bool { return false }
	}
	var ranges [][2]int
	add := func(a, b int) {
		ranges = append(ranges, [2]int{min(a, b), max(a, b)})
	}
	for _, s := range []engine.Selection{r.last.sel, cur.sel} {
		add(s.Left.Line, s.Right.Line)
		add(s.Caret.Line, s.Caret.Line)
	}
	for _, c := range []cursorState{r.last, cur} {
		if !c.active {
			continue
		}
		start, err1 := f.doc.PositionOf(c.composing[0])
		end, err2 := f.doc.PositionOf(c.composing[1])
		if err1 == nil && err2 == nil {
			add(start.Line, end.Line)
		}
	}
	return func(line int) bool {
		for _, rg := range ranges {
			if line >= rg[0] && line <= rg[1] {
				return true
			}
		}
		return false
	}
}

func dirtyLine(regions []dirty.Region, line int) bool {
	for _, rg := range regions {
		if rg.ContainsLine(line) {
			return true
		}
	}
	return false
}

// glyph is one user-visible character: its cells in visual order.
type glyph []core.Cell

func (r *Renderer) drawRow(f *frame, y int, row layout.Row) {
	t := f.theme
	ld := f.line(row.Line)
	r.drawGutter(f, y, row)

	glyphs := make([]glyph, 0, row.Len()+1)
	for col := row.StartColumn; col < row.EndColumn && col < len(ld.runes); col++ {
		ch := ld.runes[col]
		adv := 1
		if col < len(ld.entry.Advances) {
			adv = int(math.Round(ld.entry.Advances[col]))
		}
		style := f.decorate(ld, col, t.StyleFor(f.doc.Spans().StyleAt(row.Line, col)))

		switch {
		case adv == 0 && len(glyphs) > 0:
			last := glyphs[len(glyphs)-1]
			last[0].Combining = append(last[0].Combining, ch)
		case ch == '\t':
			g := make(glyph, max(adv, 1))
			for i := range g {
				g[i] = core.NewCell(' ', style)
			}
			glyphs = append(glyphs, g)
		case adv >= 2:
			glyphs = append(glyphs, glyph{
				{Rune: ch, Width: 2, Style: style},
				{Width: 0, Style: style},
			})
		default:
			glyphs = append(glyphs, glyph{core.NewCell(ch, style)})
		}
	}
	if row.Trailing && f.selected(ld.start+len(ld.runes)) && row.Line < f.doc.LineCount()-1 {
		// The line break is part of the selection.
		glyphs = append(glyphs, glyph{core.NewCell(' ', t.Text.Merge(t.Selection))})
	}

	rowWidth := 0
	for _, g := range glyphs {
		rowWidth += len(g)
	}
	x := f.area.X
	if row.RTL {
		for i, j := 0, len(glyphs)-1; i < j; i, j = i+1, j-1 {
			glyphs[i], glyphs[j] = glyphs[j], glyphs[i]
		}
		x += max(f.area.Width-rowWidth, 0)
	}
	end := f.area.X + f.area.Width

	blank := core.NewCell(' ', t.Text)
	for px := f.area.X; px < x; px++ {
		r.backend.SetCell(px, y, blank)
	}
	for _, g := range glyphs {
		if x+len(g) > end {
			break
		}
		for _, c := range g {
			r.backend.SetCell(x, y, c)
			x++
		}
	}
	if row.Trailing && !row.RTL {
		x = r.drawHints(f, y, x, end, row.Line)
	}
	for ; x < end; x++ {
		r.backend.SetCell(x, y, blank)
	}
}

// drawHints writes the inlay hints of line after its text and returns
// the next free column.
func (r *Renderer) drawHints(f *frame, y, x, end, line int) int {
	for _, h := range f.doc.InlayHints().ForLine(line) {
		for _, ch := range " " + h.Label {
			if x >= end {
				return x
			}
			r.backend.SetCell(x, y, core.NewCell(ch, f.theme.Text.Merge(f.theme.Hint)))
			x++
		}
	}
	return x
}

func (r *Renderer) drawFiller(f *frame, y int) {
	blank := core.NewCell(' ', f.theme.Text)
	end := f.area.X + f.area.Width
	for x := 0; x < end; x++ {
		c := blank
		if x == 0 && f.area.X > 0 {
			c = core.NewCell('~', f.theme.Text.Merge(f.theme.Gutter))
		}
		r.backend.SetCell(x, y, c)
	}
}

// frame holds per-frame state shared by the rows of one Draw.
type frame struct {
	doc   Document
	theme *Theme
	area  core.Rect
	cur   cursorState
	lines map[int]*lineData
}

type lineData struct {
	line       int
	runes      []rune
	entry      *linecache.Entry
	start      int
	highlights []annotate.HighlightRange
}

func (f *frame) line(line int) *lineData {
	if ld, ok := f.lines[line]; ok {
		return ld
	}
	start, _ := f.doc.OffsetOf(line, 0)
	ld := &lineData{
		line:       line,
		runes:      []rune(f.doc.Line(line)),
		entry:      f.doc.Advances(line),
		start:      start,
		highlights: f.doc.Highlights().ForLine(line),
	}
	f.lines[line] = ld
	return ld
}

func (f *frame) selected(index int) bool {
	s := f.cur.sel
	return !s.IsEmpty() && index >= s.Left.Index && index < s.Right.Index
}

// decorate layers selection, highlight, diagnostic and composing styles
// over the style of the character at col.
func (f *frame) decorate(ld *lineData, col int, style core.Style) core.Style {
	t := f.theme
	index := ld.start + col
	for _, h := range ld.highlights {
		if covers(h, ld.line, col) {
			style = style.Merge(t.Highlight)
			break
		}
	}
	worst, found := annotate.Severity(0), false
	for _, d := range f.doc.Diagnostics().At(index) {
		if !found || d.Severity > worst {
			worst, found = d.Severity, true
		}
	}
	if found {
		style = style.Merge(t.Severity[worst])
	}
	if f.cur.active && index >= f.cur.composing[0] && index < f.cur.composing[1] {
		style = style.Merge(t.Composing)
	}
	if f.selected(index) {
		style = style.Merge(t.Selection)
	}
	return style
}

func covers(h annotate.HighlightRange, line, col int) bool {
	switch {
	case line < h.Start.Line || line > h.End.Line:
		return false
	case line == h.Start.Line && col < h.Start.Column:
		return false
	case line == h.End.Line && col >= h.End.Column:
		return false
	}
	return true
}

// caretColumn returns the screen column of the caret if it sits on row.
func (f *frame) caretColumn(row layout.Row) (int, bool) {
	c := f.cur.sel.Caret
	if c.Line != row.Line || c.Column < row.StartColumn || c.Column > row.EndColumn {
		return 0, false
	}
	if c.Column == row.EndColumn && !row.Trailing {
		return 0, false
	}
	ld := f.line(row.Line)
	offset := int(math.Round(ld.entry.Width(row.StartColumn, c.Column)))
	if row.RTL {
		return f.area.X + f.area.Width - 1 - offset, true
	}
	return f.area.X + offset, true
}

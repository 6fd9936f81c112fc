package renderer

import (
	"strings"
	"testing"

	"github.com/dshills/inkwell/internal/analysis/treesitter"
	"github.com/dshills/inkwell/internal/annotate"
	"github.com/dshills/inkwell/internal/config"
	"github.com/dshills/inkwell/internal/engine"
	"github.com/dshills/inkwell/internal/engine/buffer"
	"github.com/dshills/inkwell/internal/renderer/backend"
	"github.com/dshills/inkwell/internal/renderer/core"
)

// newScreen returns an engine showing four text rows above a status line
// on a 40x5 memory screen.
func newScreen(t *testing.T, opts ...engine.Option) (*engine.Engine, *backend.Memory, *Renderer) {
	t.Helper()
	opts = append([]engine.Option{engine.WithViewport(4, 0)}, opts...)
	e := engine.New(opts...)
	mem := backend.NewMemory(40, 5)
	return e, mem, New(mem, DefaultOptions())
}

func TestDrawText(t *testing.T) {
	e, mem, r := newScreen(t, engine.WithContent("hello\nworld"))
	r.Draw(e)

	tests := []struct {
		row  int
		want string
	}{
		{0, "  1 hello"},
		{1, "  2 world"},
		{2, "~"},
		{3, "~"},
		{4, " [scratch]"},
	}
	for _, tt := range tests {
		if got := mem.Row(tt.row); !strings.HasPrefix(got, tt.want) {
			t.Errorf("Row(%d) = %q, want prefix %q", tt.row, got, tt.want)
		}
	}
	if status := mem.Row(4); !strings.Contains(status, "Ln 1, Col 1") {
		t.Errorf("status = %q", status)
	}
	if x, y, shown := mem.Cursor(); x != 4 || y != 0 || !shown {
		t.Errorf("cursor = %d,%d,%v; want 4,0,true", x, y, shown)
	}
	if mem.Shows() != 1 || r.Frames() != 1 {
		t.Errorf("Shows, Frames = %d, %d; want 1, 1", mem.Shows(), r.Frames())
	}
}

func TestDrawRepaintsOnlyDirtyLines(t *testing.T) {
	e, mem, r := newScreen(t, engine.WithContent("hello\nworld"))
	r.Draw(e)
	mem.Writes()

	r.Draw(e)
	if got := mem.Writes(); got != 40 {
		t.Errorf("idle frame wrote %d cells, want 40 (status line)", got)
	}

	if _, err := e.Insert(buffer.Position{Line: 1, Column: 0}, "x"); err != nil {
		t.Fatal(err)
	}
	r.Draw(e)
	if got := mem.Writes(); got != 80 {
		t.Errorf("edit frame wrote %d cells, want 80 (one row and status)", got)
	}
	if got := mem.Row(1); !strings.HasPrefix(got, "  2 xworld") {
		t.Errorf("Row(1) = %q", got)
	}
}

func TestDrawRepaintsCaretLines(t *testing.T) {
	e, mem, r := newScreen(t, engine.WithContent("a\nb\nc"))
	r.Draw(e)
	mem.Writes()

	if err := e.SetCursor(2, 0); err != nil {
		t.Fatal(err)
	}
	r.Draw(e)
	// Old and new caret lines change gutter style.
	if got := mem.Writes(); got != 120 {
		t.Errorf("caret move wrote %d cells, want 120", got)
	}
	if x, y, _ := mem.Cursor(); x != 4 || y != 2 {
		t.Errorf("cursor = %d,%d; want 4,2", x, y)
	}
}

func TestDrawStyles(t *testing.T) {
	e, mem, r := newScreen(t, engine.WithContent("func main\nworld"))
	e.Spans().SetLine(0, []annotate.Span{
		{Column: 0, Style: treesitter.StyleKeyword},
		{Column: 4, Style: annotate.StyleNormal},
	})
	e.Diagnostics().Set([]annotate.Diagnostic{{Start: 10, End: 15, Severity: annotate.SeverityError}})
	if err := e.SetSelection(buffer.Position{Line: 0, Column: 5}, buffer.Position{Line: 0, Column: 7}); err != nil {
		t.Fatal(err)
	}
	r.Draw(e)

	theme := DefaultTheme()
	keyword := mem.Cell(4, 0).Style
	if keyword.Foreground != theme.Syntax[treesitter.StyleKeyword].Foreground || !keyword.Attributes.Has(core.AttrBold) {
		t.Errorf("keyword style = %+v", keyword)
	}
	if got := mem.Cell(8, 0).Style.Foreground; !got.IsDefault() {
		t.Errorf("plain text foreground = %v", got)
	}
	if got := mem.Cell(9, 0).Style.Background; got != theme.Selection.Background {
		t.Errorf("selected background = %v, want %v", got, theme.Selection.Background)
	}
	if got := mem.Cell(11, 0).Style.Background; !got.IsDefault() {
		t.Errorf("unselected background = %v", got)
	}
	diag := mem.Cell(4, 1).Style
	if !diag.Attributes.Has(core.AttrUnderline) || diag.Foreground != theme.Severity[annotate.SeverityError].Foreground {
		t.Errorf("diagnostic style = %+v", diag)
	}
	if status := mem.Row(4); !strings.Contains(status, "E:1") {
		t.Errorf("status = %q, want error count", status)
	}
}

func TestDrawWideAndCombining(t *testing.T) {
	e, mem, r := newScreen(t, engine.WithContent("\u4f60e\u0301x"))
	if err := e.SetCursor(0, 3); err != nil {
		t.Fatal(err)
	}
	r.Draw(e)

	if c := mem.Cell(4, 0); c.Rune != '\u4f60' || c.Width != 2 {
		t.Errorf("wide cell = %+v", c)
	}
	if c := mem.Cell(5, 0); c.Width != 0 {
		t.Errorf("continuation cell = %+v", c)
	}
	if c := mem.Cell(6, 0); c.Text() != "e\u0301" {
		t.Errorf("combined cell = %q", c.Text())
	}
	if c := mem.Cell(7, 0); c.Rune != 'x' {
		t.Errorf("cell after cluster = %+v", c)
	}
	if x, _, _ := mem.Cursor(); x != 7 {
		t.Errorf("cursor x = %d, want 7", x)
	}
}

func TestDrawWrappedRows(t *testing.T) {
	e, mem, r := newScreen(t, engine.WithContent("aaaa bbbb"), engine.WithWordWrap(true), engine.WithWidth(6))
	r.Draw(e)

	if got := mem.Row(0); !strings.HasPrefix(got, "  1 aaaa") {
		t.Errorf("Row(0) = %q", got)
	}
	if got := mem.Row(1); !strings.HasPrefix(got, "    bbbb") {
		t.Errorf("Row(1) = %q, want blank gutter", got)
	}
	if status := mem.Row(4); !strings.Contains(status, "wrap") {
		t.Errorf("status = %q", status)
	}
}

func TestDrawInlayHints(t *testing.T) {
	e, mem, r := newScreen(t, engine.WithContent("x := 1"))
	e.InlayHints().Set([]annotate.InlayHint{{Line: 0, Column: 1, Label: ": int"}})
	r.Draw(e)

	if got := mem.Row(0); !strings.HasPrefix(got, "  1 x := 1 : int") {
		t.Errorf("Row(0) = %q", got)
	}
	if c := mem.Cell(15, 0); !c.Style.Attributes.Has(core.AttrItalic) {
		t.Errorf("hint style = %+v", c.Style)
	}
}

func TestStatusMessage(t *testing.T) {
	e, mem, r := newScreen(t, engine.WithPath("/tmp/notes.txt"))
	r.SetMessage("saved")
	r.Draw(e)
	if status := mem.Row(4); !strings.HasPrefix(status, " notes.txt  saved") {
		t.Errorf("status = %q", status)
	}
}

func TestThemeFromConfig(t *testing.T) {
	theme, err := ThemeFromConfig(config.Default().Theme)
	if err != nil {
		t.Fatal(err)
	}
	want, _ := core.ColorFromHex(config.Default().Theme.String)
	if got := theme.StyleFor(treesitter.StyleString).Foreground; got != want {
		t.Errorf("string color = %v, want %v", got, want)
	}
	if got := theme.StyleFor(annotate.Style(999)); got != theme.Text {
		t.Errorf("unknown style = %+v, want text style", got)
	}

	bad := config.Default().Theme
	bad.Keyword = "purple"
	if _, err := ThemeFromConfig(bad); err == nil || !strings.Contains(err.Error(), "theme.keyword") {
		t.Errorf("ThemeFromConfig(bad) error = %v", err)
	}
}

// Package treesitter analyzes source files with tree-sitter. Highlight
// captures become style runs and parse errors become diagnostics.
package treesitter

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/dshills/inkwell/internal/analysis"
	"github.com/dshills/inkwell/internal/annotate"
)

// Source identifies diagnostics produced by the analyzer.
const Source = "tree-sitter"

// Analyzer implements analysis.Analyzer for one language.
type Analyzer struct {
	mu       sync.Mutex
	language string
	parser   *sitter.Parser
	query    *sitter.Query
}

// New creates a Go analyzer.
func New() (*Analyzer, error) {
	return NewLanguage("go")
}

// NewLanguage creates an analyzer for a language returned by LanguageFor.
func NewLanguage(name string) (*Analyzer, error) {
	l, ok := findLanguage(name)
	if !ok {
		return nil, fmt.Errorf("treesitter: %w: %s", ErrUnknownLanguage, name)
	}
	lang := l.grammar()
	query, err := sitter.NewQuery([]byte(l.query), lang)
	if err != nil {
		return nil, fmt.Errorf("treesitter: %s highlight query: %w", name, err)
	}
	p := sitter.NewParser()
	p.SetLanguage(lang)
	return &Analyzer{language: name, parser: p, query: query}, nil
}

// Language returns the name of the analyzed language.
func (a *Analyzer) Language() string { return a.language }

// Name implements analysis.Analyzer.
func (a *Analyzer) Name() string { return Source }

// Analyze implements analysis.Analyzer.
func (a *Analyzer) Analyze(ctx context.Context, req analysis.Request) (analysis.Result, error) {
	text := req.Snapshot.Text()
	src := []byte(text)

	a.mu.Lock()
	tree, err := a.parser.ParseCtx(ctx, nil, src)
	a.mu.Unlock()
	if err != nil {
		return analysis.Result{}, fmt.Errorf("treesitter: parse: %w", err)
	}
	defer tree.Close()
	if err := ctx.Err(); err != nil {
		return analysis.Result{}, err
	}

	lines := newLineTable(text)
	res := analysis.ResultFor(req, Source)
	res.Provides = analysis.KindSpans | analysis.KindDiagnostics
	res.Spans = a.spans(tree.RootNode(), src, lines)
	res.Diagnostics = diagnostics(tree.RootNode(), lines)
	return res, nil
}

// spans paints every capture onto a per-rune style grid and compresses
// each line into runs.
func (a *Analyzer) spans(root *sitter.Node, src []byte, lines *lineTable) [][]annotate.Span {
	grid := make([][]annotate.Style, lines.count())
	prio := make([][]int, lines.count())
	for i := range grid {
		n := lines.runeLen(i)
		grid[i] = make([]annotate.Style, n)
		prio[i] = make([]int, n)
		for c := range prio[i] {
			prio[i][c] = -1
		}
	}

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(a.query, root)
	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		m = qc.FilterPredicates(m, src)
		if m == nil {
			continue
		}
		for _, c := range m.Captures {
			style, ok := captureStyles[a.query.CaptureNameForId(c.Index)]
			if !ok {
				continue
			}
			paint(grid, prio, lines, c.Node.StartPoint(), c.Node.EndPoint(), style, int(m.PatternIndex))
		}
	}

	out := make([][]annotate.Span, len(grid))
	for i, styles := range grid {
		out[i] = runs(styles)
	}
	return out
}

func paint(grid [][]annotate.Style, prio [][]int, lines *lineTable, start, end sitter.Point, style annotate.Style, pattern int) {
	for row := int(start.Row); row <= int(end.Row) && row < len(grid); row++ {
		from, to := 0, len(grid[row])
		if row == int(start.Row) {
			from = lines.runeColumn(row, int(start.Column))
		}
		if row == int(end.Row) {
			to = lines.runeColumn(row, int(end.Column))
		}
		for c := from; c < to; c++ {
			if p := prio[row][c]; p == -1 || pattern < p {
				grid[row][c] = style
				prio[row][c] = pattern
			}
		}
	}
}

func runs(styles []annotate.Style) []annotate.Span {
	if len(styles) == 0 {
		return []annotate.Span{{Column: 0, Style: annotate.StyleNormal}}
	}
	out := []annotate.Span{{Column: 0, Style: styles[0]}}
	for c := 1; c < len(styles); c++ {
		if styles[c] != styles[c-1] {
			out = append(out, annotate.Span{Column: c, Style: styles[c]})
		}
	}
	return out
}

// diagnostics reports ERROR and MISSING nodes. Subtrees without errors are
// skipped.
func diagnostics(root *sitter.Node, lines *lineTable) []annotate.Diagnostic {
	var out []annotate.Diagnostic
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		switch {
		case n.IsMissing():
			at := lines.index(n.StartPoint())
			out = append(out, annotate.Diagnostic{
				Start:    at,
				End:      at,
				Severity: annotate.SeverityError,
				Message:  "missing " + n.Type(),
				Source:   Source,
				Code:     "missing",
			})
			return
		case n.Type() == "ERROR":
			out = append(out, annotate.Diagnostic{
				Start:    lines.index(n.StartPoint()),
				End:      lines.index(n.EndPoint()),
				Severity: annotate.SeverityError,
				Message:  "syntax error",
				Source:   Source,
				Code:     "syntax",
			})
			return
		}
		if !n.HasError() {
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			if child := n.Child(i); child != nil {
				walk(child)
			}
		}
	}
	walk(root)
	return out
}

// lineTable converts tree-sitter byte points into rune columns and
// CharIndex values.
type lineTable struct {
	lines []string

	// starts[i] is the CharIndex of the first character of line i.
	starts []int
}

func newLineTable(text string) *lineTable {
	lines := strings.Split(text, "\n")
	starts := make([]int, len(lines))
	off := 0
	for i, l := range lines {
		starts[i] = off
		off += utf8.RuneCountInString(l) + 1
	}
	return &lineTable{lines: lines, starts: starts}
}

func (t *lineTable) count() int { return len(t.lines) }

func (t *lineTable) runeLen(line int) int {
	return utf8.RuneCountInString(t.lines[line])
}

func (t *lineTable) runeColumn(line, byteCol int) int {
	if line >= len(t.lines) {
		return 0
	}
	l := t.lines[line]
	return utf8.RuneCountInString(l[:min(byteCol, len(l))])
}

func (t *lineTable) index(p sitter.Point) int {
	row := int(p.Row)
	if row >= len(t.lines) {
		last := len(t.lines) - 1
		return t.starts[last] + t.runeLen(last)
	}
	return t.starts[row] + t.runeColumn(row, int(p.Column))
}

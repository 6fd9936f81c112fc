// Package lspjson converts Language Server Protocol payloads into
// annotation store entries and dumps stores back to JSON.
//
// LSP positions count UTF-16 code units; they are converted to rune
// columns against the buffer snapshot the server saw.
package lspjson

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/dshills/inkwell/internal/annotate"
)

// ErrInvalidPayload indicates JSON that is malformed or lacks the
// expected fields.
var ErrInvalidPayload = errors.New("lspjson: invalid payload")

// Lines is read access to the text positions refer to.
type Lines interface {
	LineCount() int
	Runes(line int) []rune
}

// positions maps LSP positions onto a snapshot.
type positions struct {
	lines  Lines
	starts []int
}

func newPositions(lines Lines) *positions {
	n := lines.LineCount()
	starts := make([]int, n+1)
	for i := 0; i < n; i++ {
		starts[i+1] = starts[i] + len(lines.Runes(i)) + 1
	}
	return &positions{lines: lines, starts: starts}
}

// column converts a UTF-16 offset on line into a rune column, clamped to
// the line. The line must exist.
func (p *positions) column(line, utf16 int) int {
	runes := p.lines.Runes(line)
	units := 0
	for i, r := range runes {
		if units >= utf16 {
			return i
		}
		units++
		if r >= 0x10000 {
			units++
		}
	}
	return len(runes)
}

// resolve converts an LSP position into line, rune column and CharIndex.
// Lines past the end clamp to the end of the document.
func (p *positions) resolve(pos gjson.Result) (line, col, index int) {
	n := p.lines.LineCount()
	if n == 0 {
		return 0, 0, 0
	}
	line = int(pos.Get("line").Int())
	if line < 0 {
		line = 0
	}
	if line >= n {
		line = n - 1
		col = len(p.lines.Runes(line))
		return line, col, p.starts[line] + col
	}
	col = p.column(line, max(0, int(pos.Get("character").Int())))
	return line, col, p.starts[line] + col
}

func parse(payload []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(payload) {
		return gjson.Result{}, fmt.Errorf("%w: malformed JSON", ErrInvalidPayload)
	}
	return gjson.ParseBytes(payload), nil
}

// severity maps LSP DiagnosticSeverity values. A missing severity is an
// error per the protocol's usual client behaviour.
func severity(v gjson.Result) annotate.Severity {
	switch v.Int() {
	case 2:
		return annotate.SeverityWarning
	case 3:
		return annotate.SeverityInfo
	case 4:
		return annotate.SeverityHint
	default:
		return annotate.SeverityError
	}
}

// DecodeDiagnostics decodes a textDocument/publishDiagnostics notification,
// or just its params object.
func DecodeDiagnostics(payload []byte, lines Lines) (uri string, diags []annotate.Diagnostic, err error) {
	doc, err := parse(payload)
	if err != nil {
		return "", nil, err
	}
	if params := doc.Get("params"); params.Exists() {
		doc = params
	}
	list := doc.Get("diagnostics")
	if !list.IsArray() {
		return "", nil, fmt.Errorf("%w: no diagnostics array", ErrInvalidPayload)
	}

	pos := newPositions(lines)
	list.ForEach(func(_, d gjson.Result) bool {
		_, _, start := pos.resolve(d.Get("range.start"))
		_, _, end := pos.resolve(d.Get("range.end"))
		if end < start {
			start, end = end, start
		}
		diags = append(diags, annotate.Diagnostic{
			Start:    start,
			End:      end,
			Severity: severity(d.Get("severity")),
			Message:  d.Get("message").String(),
			Source:   d.Get("source").String(),
			Code:     d.Get("code").String(),
		})
		return true
	})
	return doc.Get("uri").String(), diags, nil
}

// DecodeInlayHints decodes a textDocument/inlayHint response: either the
// result array or the whole response object.
func DecodeInlayHints(payload []byte, lines Lines) ([]annotate.InlayHint, error) {
	doc, err := parse(payload)
	if err != nil {
		return nil, err
	}
	if res := doc.Get("result"); res.Exists() {
		doc = res
	}
	if !doc.IsArray() {
		return nil, fmt.Errorf("%w: inlay hints must be an array", ErrInvalidPayload)
	}

	pos := newPositions(lines)
	var hints []annotate.InlayHint
	doc.ForEach(func(_, h gjson.Result) bool {
		line, col, _ := pos.resolve(h.Get("position"))
		hints = append(hints, annotate.InlayHint{
			Line:   line,
			Column: col,
			Label:  label(h.Get("label")),
			Kind:   hintKind(h.Get("kind")),
		})
		return true
	})
	return hints, nil
}

// label flattens a string label or an array of InlayHintLabelPart.
func label(v gjson.Result) string {
	if !v.IsArray() {
		return v.String()
	}
	var out string
	for _, part := range v.Array() {
		out += part.Get("value").String()
	}
	return out
}

func hintKind(v gjson.Result) annotate.HintKind {
	switch v.Int() {
	case 1:
		return annotate.HintType
	case 2:
		return annotate.HintParameter
	default:
		return annotate.HintText
	}
}

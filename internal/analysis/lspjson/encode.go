package lspjson

import (
	"fmt"

	"github.com/tidwall/sjson"

	"github.com/dshills/inkwell/internal/annotate"
)

// Annotations is a snapshot of the annotation stores.
type Annotations struct {
	Generation  uint64
	Diagnostics []annotate.Diagnostic
	InlayHints  []annotate.InlayHint
	Highlights  []annotate.HighlightRange

	// StyleName names span styles. Spans are omitted when nil.
	StyleName func(annotate.Style) string
	Spans     [][]annotate.Span
}

// Dump encodes a as a JSON document.
func Dump(a Annotations) (string, error) {
	doc := `{}`
	set := func(path string, v any) {
		if doc == "" {
			return
		}
		var err error
		if doc, err = sjson.Set(doc, path, v); err != nil {
			doc = ""
		}
	}

	set("generation", a.Generation)
	set("diagnostics", []any{})
	for i, d := range a.Diagnostics {
		p := fmt.Sprintf("diagnostics.%d.", i)
		set(p+"start", d.Start)
		set(p+"end", d.End)
		set(p+"severity", d.Severity.String())
		set(p+"message", d.Message)
		if d.Source != "" {
			set(p+"source", d.Source)
		}
		if d.Code != "" {
			set(p+"code", d.Code)
		}
	}
	set("inlayHints", []any{})
	for i, h := range a.InlayHints {
		p := fmt.Sprintf("inlayHints.%d.", i)
		set(p+"line", h.Line)
		set(p+"column", h.Column)
		set(p+"label", h.Label)
	}
	set("highlights", []any{})
	for i, h := range a.Highlights {
		p := fmt.Sprintf("highlights.%d.", i)
		set(p+"start", []int{h.Start.Line, h.Start.Column})
		set(p+"end", []int{h.End.Line, h.End.Column})
		set(p+"kind", int(h.Kind))
	}
	if a.Spans != nil {
		name := a.StyleName
		if name == nil {
			name = func(s annotate.Style) string { return fmt.Sprint(int64(s)) }
		}
		for line, runs := range a.Spans {
			for i, s := range runs {
				p := fmt.Sprintf("spans.%d.%d.", line, i)
				set(p+"column", s.Column)
				set(p+"style", name(s.Style))
			}
		}
	}
	if doc == "" {
		return "", fmt.Errorf("lspjson: encoding annotations failed")
	}
	return doc, nil
}

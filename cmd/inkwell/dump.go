package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dshills/inkwell/internal/analysis"
	"github.com/dshills/inkwell/internal/analysis/lspjson"
	"github.com/dshills/inkwell/internal/analysis/treesitter"
	"github.com/dshills/inkwell/internal/annotate"
	"github.com/dshills/inkwell/internal/engine"
)

// LSPSource names results decoded from language server payloads.
const LSPSource = "lsp"

// dump analyzes the document once and writes its annotations as JSON.
func dump(ctx context.Context, w io.Writer, e *engine.Engine, a analysis.Analyzer, diagnostics string) error {
	if a != nil {
		res, err := a.Analyze(ctx, e.Snapshot())
		if err != nil {
			return err
		}
		if err := e.ApplyAnalysis(res); err != nil {
			return err
		}
	}
	if diagnostics != "" {
		if err := importDiagnostics(e, diagnostics); err != nil {
			return err
		}
	}

	spans := make([][]annotate.Span, e.Spans().LineCount())
	for line := range spans {
		spans[line] = e.Spans().Line(line)
	}
	doc, err := lspjson.Dump(lspjson.Annotations{
		Generation:  e.Generation(),
		Diagnostics: e.Diagnostics().All(),
		InlayHints:  e.InlayHints().All(),
		Highlights:  e.Highlights().All(),
		StyleName:   styleName,
		Spans:       spans,
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, doc)
	return err
}

func styleName(s annotate.Style) string {
	if name := treesitter.StyleName(s); name != "" {
		return name
	}
	return "normal"
}

// importDiagnostics replaces the diagnostics of e with those of the
// publishDiagnostics payload in path.
func importDiagnostics(e *engine.Engine, path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	req := e.Snapshot()
	_, diags, err := lspjson.DecodeDiagnostics(payload, req.Snapshot)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	res := analysis.ResultFor(req, LSPSource)
	res.Provides = analysis.KindDiagnostics
	res.Diagnostics = diags
	return e.ApplyAnalysis(res)
}

package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/dshills/inkwell/internal/analysis"
	"github.com/dshills/inkwell/internal/annotate"
	"github.com/dshills/inkwell/internal/engine/tracking"
)

// Snapshot returns an analysis request for the current text.
func (e *Engine) Snapshot() analysis.Request {
	e.mu.Lock()
	defer e.mu.Unlock()
	return analysis.Request{
		Session:    e.session,
		Epoch:      e.epoch,
		Generation: e.buf.Generation(),
		Path:       e.path,
		Snapshot:   e.buf.Snapshot(),
	}
}

// ApplyAnalysis installs the stores res provides. A result for an older
// generation is first brought forward through the edits made since. It
// returns an error wrapping analysis.ErrStaleGeneration, and changes
// nothing, when that is not possible.
func (e *Engine) ApplyAnalysis(res analysis.Result) error {
	e.mu.Lock()
	defer e.unlock()

	gen := e.buf.Generation()
	if res.Session != e.session || res.Epoch != e.epoch {
		return e.stale(res, gen, "foreign session or epoch")
	}

	var changes []tracking.Change
	switch {
	case res.Generation == gen:
	case res.Generation < gen:
		var ok bool
		if changes, ok = e.journal.Since(res.Generation); !ok {
			return e.stale(res, gen, "older than journal")
		}
	default:
		return e.stale(res, gen, "newer than buffer")
	}

	scratch := newScratch(res)
	for _, c := range changes {
		for _, s := range scratch.stores() {
			if err := shiftStore(s, c); err != nil {
				e.logger.Warn("analysis replay", zap.String("store", s.Name()), zap.Error(err))
			}
		}
	}
	e.install(res.Provides, scratch)

	e.logger.Debug("analysis applied",
		zap.String("source", res.Source),
		zap.Uint64("generation", res.Generation),
		zap.Int("replayed", len(changes)))
	e.queueNotice(0, false)
	return nil
}

func (e *Engine) stale(res analysis.Result, gen uint64, reason string) error {
	e.logger.Debug("stale analysis result",
		zap.String("source", res.Source),
		zap.String("reason", reason),
		zap.Uint64("result", res.Generation),
		zap.Uint64("current", gen))
	return fmt.Errorf("%s at generation %d (current %d): %w", res.Source, res.Generation, gen, analysis.ErrStaleGeneration)
}

// scratch holds a result's annotations while the journal is replayed on
// them, so a failed replay never touches the live stores.
type scratch struct {
	spans       *annotate.Spans
	diagnostics *annotate.Diagnostics
	hints       *annotate.InlayHints
	highlights  *annotate.Highlights
}

func newScratch(res analysis.Result) *scratch {
	s := &scratch{
		spans:       annotate.NewSpans(len(res.Spans)),
		diagnostics: annotate.NewDiagnostics(res.Diagnostics),
		hints:       annotate.NewInlayHints(res.InlayHints),
		highlights:  annotate.NewHighlights(res.Highlights),
	}
	for line, runs := range res.Spans {
		s.spans.SetLine(line, runs)
	}
	return s
}

func (s *scratch) stores() []annotate.Store {
	return []annotate.Store{s.spans, s.diagnostics, s.hints, s.highlights}
}

func (e *Engine) install(kinds analysis.Kind, s *scratch) {
	lines := e.buf.LineCount()
	if kinds.Has(analysis.KindSpans) {
		before := make([]uint64, lines)
		for line := range before {
			before[line] = e.spans.StyleHash(line)
		}
		e.spans.Reset(lines)
		for line := 0; line < min(lines, s.spans.LineCount()); line++ {
			e.spans.SetLine(line, s.spans.Line(line))
		}
		// Entries of restyled lines can never hit again.
		for line, h := range before {
			if e.spans.StyleHash(line) != h {
				e.cache.Invalidate(line, line)
				e.dirty.MarkLine(line)
			}
		}
	}
	if kinds.Has(analysis.KindDiagnostics) {
		e.diagnostics.Set(s.diagnostics.All())
		e.dirty.MarkAll()
	}
	if kinds.Has(analysis.KindInlayHints) {
		e.hints.Set(s.hints.All())
		for _, line := range e.hints.TakeUpdatedLines() {
			e.dirty.MarkLine(line)
		}
	}
	if kinds.Has(analysis.KindHighlights) {
		// Only lines covered before or after the swap repaint.
		old := e.highlights.Lines()
		e.highlights.Set(s.highlights.All())
		for _, line := range append(old, e.highlights.Lines()...) {
			e.dirty.MarkLine(line)
		}
	}
}

package analysis

import (
	"errors"

	"github.com/google/uuid"

	"github.com/dshills/inkwell/internal/annotate"
	"github.com/dshills/inkwell/internal/engine/buffer"
)

// ErrStaleGeneration indicates a result that cannot be brought forward to
// the current buffer: it comes from another session or epoch, or from a
// generation the edit journal no longer covers.
var ErrStaleGeneration = errors.New("stale analysis result")

// Kind flags the stores a Result provides.
type Kind uint8

const (
	KindSpans Kind = 1 << iota
	KindDiagnostics
	KindInlayHints
	KindHighlights
)

// Has reports whether k includes every flag in other.
func (k Kind) Has(other Kind) bool {
	return k&other == other
}

// Request describes one buffer state to analyze.
type Request struct {
	Session    uuid.UUID
	Epoch      uint64
	Generation uint64
	Path       string
	Snapshot   buffer.Snapshot
}

// Result carries annotations computed for one Request. Positions refer
// to the buffer at Generation.
type Result struct {
	Session    uuid.UUID
	Epoch      uint64
	Generation uint64
	Source     string

	Provides Kind

	// Spans holds the style runs of every line.
	Spans       [][]annotate.Span
	Diagnostics []annotate.Diagnostic
	InlayHints  []annotate.InlayHint
	Highlights  []annotate.HighlightRange
}

// ResultFor returns an empty result addressed to req.
func ResultFor(req Request, source string) Result {
	return Result{
		Session:    req.Session,
		Epoch:      req.Epoch,
		Generation: req.Generation,
		Source:     source,
	}
}

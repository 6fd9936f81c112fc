package engine

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dshills/inkwell/internal/annotate"
	"github.com/dshills/inkwell/internal/engine/buffer"
	"github.com/dshills/inkwell/internal/engine/cursor"
	"github.com/dshills/inkwell/internal/engine/history"
	"github.com/dshills/inkwell/internal/engine/index"
	"github.com/dshills/inkwell/internal/engine/tracking"
	"github.com/dshills/inkwell/internal/renderer/dirty"
	"github.com/dshills/inkwell/internal/renderer/layout"
	"github.com/dshills/inkwell/internal/renderer/linecache"
	"github.com/dshills/inkwell/internal/renderer/viewport"
)

// Engine is the main facade of the editing core.
type Engine struct {
	mu sync.Mutex

	logger  *zap.Logger
	session uuid.UUID
	epoch   uint64
	path    string

	// Core components
	buf     *buffer.Buffer
	index   *index.Indexer
	cursor  *cursor.Cursor
	history *history.History
	journal *tracking.Journal

	// Derived position stores, shifted in slice order.
	spans       *annotate.Spans
	diagnostics *annotate.Diagnostics
	hints       *annotate.InlayHints
	highlights  *annotate.Highlights
	composing   *annotate.Composing
	anchor      *annotate.Anchor
	undoMemory  *annotate.UndoMemory
	stores      []annotate.Store

	// Rendering state
	base     layout.Measurer
	cache    *linecache.Cache
	measurer *linecache.Measurer
	layout   layout.Layout
	stamp    uint64
	dirty    *dirty.Tracker
	view     *viewport.Viewport

	// Batch state
	depth         int
	batchEdits    int
	pendingNotice bool
	pendingFollow bool

	listeners []Listener
	notices   []Notice

	// Configuration
	initContent    string
	lineEnding     *buffer.LineEnding
	tabWidth       int
	wordWrap       bool
	antiWordBreak  bool
	rtlAware       bool
	width          int
	rowHeight      float64
	customMeasurer layout.Measurer
	maxUndoEntries int
	mergeWindow    time.Duration
	journalSize    int
	cacheConfig    linecache.Config
	viewportHeight int
	scrollMargin   int
}

// New creates a new Engine with the given options.
func New(opts ...Option) *Engine {
	e := &Engine{
		logger:         zap.NewNop(),
		session:        uuid.New(),
		tabWidth:       DefaultTabWidth,
		width:          DefaultWidth,
		rowHeight:      DefaultRowHeight,
		maxUndoEntries: DefaultMaxUndoEntries,
		mergeWindow:    DefaultMergeWindow,
		journalSize:    DefaultJournalSize,
		cacheConfig:    defaultCacheConfig(),
		viewportHeight: DefaultViewportHeight,
		scrollMargin:   DefaultScrollMargin,
		antiWordBreak:  true,
		rtlAware:       true,
	}
	for _, opt := range opts {
		opt(e)
	}

	var bufOpts []buffer.Option
	if e.lineEnding != nil {
		bufOpts = append(bufOpts, buffer.WithLineEnding(*e.lineEnding))
	}
	e.buf = buffer.NewBufferFromString(e.initContent, bufOpts...)
	e.index = index.New(e.lineLengths())
	e.cursor = cursor.New(e.buf, e.index)
	e.history = history.New(e.maxUndoEntries)
	e.history.SetMergeWindow(e.mergeWindow)
	e.journal = tracking.New(e.buf.Generation(), e.journalSize)

	e.spans = annotate.NewSpans(e.buf.LineCount())
	e.diagnostics = annotate.NewDiagnostics(nil)
	e.hints = annotate.NewInlayHints(nil)
	e.highlights = annotate.NewHighlights(nil)
	e.composing = annotate.NewComposing()
	e.anchor = annotate.NewAnchor()
	e.undoMemory = annotate.NewUndoMemory()
	e.stores = []annotate.Store{
		e.spans,
		e.diagnostics,
		e.hints,
		e.highlights,
		e.composing,
		e.anchor,
		e.undoMemory,
	}

	e.cache = linecache.New(e.cacheConfig)
	e.setMeasurer()
	e.layout = e.newLayout()
	e.dirty = dirty.NewTracker()
	e.view = viewport.New(e.viewportHeight, e.scrollMargin)
	e.view.SetRowCount(e.layout.RowCount())

	e.buf.SetListener(&coordinator{e: e})
	e.logger.Debug("engine created",
		zap.Stringer("session", e.session),
		zap.Int("lines", e.buf.LineCount()),
		zap.Stringer("layout", e.layout.Kind()))
	return e
}

func (e *Engine) lineLengths() []int {
	lengths := make([]int, e.buf.LineCount())
	for i := range lengths {
		lengths[i] = e.buf.LineLen(i)
	}
	return lengths
}

// setMeasurer rebuilds the measurer chain after a tab width change.
func (e *Engine) setMeasurer() {
	e.base = e.customMeasurer
	if e.base == nil {
		e.base = layout.Monospace{TabWidth: e.tabWidth}
	}
	e.measurer = linecache.NewMeasurer(e.cache, e.base, e.spans.StyleHash)
}

// newLayout builds the active strategy from scratch. Reflow breaks lines
// with the uncached measurer so rebreaking during an edit never sees
// advances computed for the previous text.
func (e *Engine) newLayout() layout.Layout {
	if !e.wordWrap {
		return layout.NewFixed(e.buf, e.rtlAware)
	}
	return layout.NewReflow(e.buf, e.base, e.layoutOptions())
}

func (e *Engine) layoutOptions() layout.Options {
	return layout.Options{
		Width:         float64(e.width),
		AntiWordBreak: e.antiWordBreak,
		RTLAware:      e.rtlAware,
	}
}

// AddListener registers fn to receive notices. Listeners run on the
// goroutine that made the change, after the engine lock is released, so
// they may call back into the engine.
func (e *Engine) AddListener(fn Listener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, fn)
}

// unlock releases the engine lock and delivers queued notices.
func (e *Engine) unlock() {
	notices := e.notices
	e.notices = nil
	var listeners []Listener
	if len(notices) > 0 {
		listeners = slices.Clone(e.listeners)
	}
	e.mu.Unlock()

	for _, n := range notices {
		for _, fn := range listeners {
			fn(n)
		}
	}
}

// notify queues a notice for edits mutations, or defers it to the end of
// the current batch. The viewport is scrolled to keep the caret visible.
func (e *Engine) notify(edits int) {
	e.queueNotice(edits, true)
}

func (e *Engine) queueNotice(edits int, follow bool) {
	if e.depth > 0 {
		e.batchEdits += edits
		e.pendingNotice = true
		e.pendingFollow = e.pendingFollow || follow
		return
	}
	e.view.SetRowCount(e.layout.RowCount())
	scrolled := false
	caret := e.caretLocked()
	if row, err := e.layout.RowForPosition(caret.Line, caret.Column); err == nil && follow {
		scrolled = e.view.EnsureVisible(row)
	}
	if scrolled {
		e.dirty.MarkAll()
	}

	n := Notice{
		Edits:      edits,
		Generation: e.buf.Generation(),
		Selection:  e.selectionLocked(),
		Dirty:      e.dirty.Regions(),
		FullRedraw: e.dirty.NeedsFullRedraw(),
		Scrolled:   scrolled,
	}
	if start, end, active := e.composing.Region(); active {
		n.Composing, n.ComposingActive = [2]int{start, end}, true
	}
	// Measured without the cache: entries are only built on draw.
	g := e.geometry()
	g.Measurer = e.base
	if x, y, err := g.PositionToPoint(caret.Line, caret.Column); err == nil {
		n.CaretX, n.CaretY = x, y
	}
	e.notices = append(e.notices, n)
}

// Session identifies this engine instance in analysis requests.
func (e *Engine) Session() uuid.UUID {
	return e.session
}

// Path returns the file path the document was opened from.
func (e *Engine) Path() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.path
}

// RowHeight returns the height of one visual row.
func (e *Engine) RowHeight() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rowHeight
}

// LineEnding returns the separator style Text emits.
func (e *Engine) LineEnding() buffer.LineEnding {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buf.LineEnding()
}

// SetLineEnding changes the separator style Text emits. The document
// itself is unchanged.
func (e *Engine) SetLineEnding(le buffer.LineEnding) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.buf.SetLineEnding(le)
}

// Text returns the full buffer content.
func (e *Engine) Text() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buf.Text()
}

// Line returns the text of line without its separator.
func (e *Engine) Line(line int) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buf.Line(line)
}

// LineCount returns the number of lines.
func (e *Engine) LineCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buf.LineCount()
}

// Len returns the number of characters, counting one per line separator.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.index.Len()
}

// Generation returns the buffer generation.
func (e *Engine) Generation() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buf.Generation()
}

// Epoch returns the number of whole-text replacements.
func (e *Engine) Epoch() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.epoch
}

// OffsetOf converts a position to a CharIndex.
func (e *Engine) OffsetOf(line, column int) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.index.OffsetOf(line, column)
}

// PositionOf converts a CharIndex to a position.
func (e *Engine) PositionOf(index int) (buffer.Position, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.index.PositionOf(index)
}

// Spans returns the style run store.
func (e *Engine) Spans() *annotate.Spans { return e.spans }

// Diagnostics returns the diagnostic store.
func (e *Engine) Diagnostics() *annotate.Diagnostics { return e.diagnostics }

// InlayHints returns the inlay hint store.
func (e *Engine) InlayHints() *annotate.InlayHints { return e.hints }

// Highlights returns the highlight store.
func (e *Engine) Highlights() *annotate.Highlights { return e.highlights }

// Dirty returns the tracker of lines awaiting repaint. The renderer
// flushes it after drawing.
func (e *Engine) Dirty() *dirty.Tracker { return e.dirty }

// Viewport returns the scroll state.
func (e *Engine) Viewport() *viewport.Viewport { return e.view }

// Layout returns the active row layout.
func (e *Engine) Layout() layout.Layout {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.layout
}

// CacheStats reports measurement cache effectiveness.
func (e *Engine) CacheStats() linecache.Stats {
	return e.cache.Stats()
}

// Stamp returns the render timestamp of line.
func (e *Engine) Stamp(line int) uint64 {
	return e.cache.Stamp(line)
}

// Advances returns the measurement of line, from the cache when valid.
func (e *Engine) Advances(line int) *linecache.Entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.measurer.Entry(line, e.buf.Runes(line))
}

// UndoRange returns the range touched by the last undo or redo.
func (e *Engine) UndoRange() (start, end int, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.undoMemory.Range()
}

// Composing returns the IME composing region.
func (e *Engine) Composing() (start, end int, active bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.composing.Region()
}

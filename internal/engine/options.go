package engine

import (
	"time"

	"go.uber.org/zap"

	"github.com/dshills/inkwell/internal/config"
	"github.com/dshills/inkwell/internal/engine/buffer"
	"github.com/dshills/inkwell/internal/engine/history"
	"github.com/dshills/inkwell/internal/engine/tracking"
	"github.com/dshills/inkwell/internal/renderer/layout"
	"github.com/dshills/inkwell/internal/renderer/linecache"
)

// Default configuration values.
const (
	DefaultTabWidth       = 4
	DefaultWidth          = 80
	DefaultRowHeight      = 1.0
	DefaultViewportHeight = 24
	DefaultScrollMargin   = 3
	DefaultMaxUndoEntries = history.DefaultMaxEntries
	DefaultJournalSize    = tracking.DefaultMaxChanges
	DefaultMergeWindow    = history.DefaultMergeWindow
)

// Option configures an Engine during creation.
type Option func(*Engine)

// WithContent sets the initial content of the engine.
func WithContent(content string) Option {
	return func(e *Engine) {
		e.initContent = content
	}
}

// WithLineEnding fixes the separator style Text emits. Without it the
// style is detected from the content.
func WithLineEnding(le buffer.LineEnding) Option {
	return func(e *Engine) {
		e.lineEnding = &le
	}
}

// WithPath names the document in analysis requests.
func WithPath(path string) Option {
	return func(e *Engine) {
		e.path = path
	}
}

// WithTabWidth sets the tab width used by the default measurer.
func WithTabWidth(width int) Option {
	return func(e *Engine) {
		if width > 0 {
			e.tabWidth = width
		}
	}
}

// WithWordWrap selects the reflow layout instead of one row per line.
func WithWordWrap(enabled bool) Option {
	return func(e *Engine) {
		e.wordWrap = enabled
	}
}

// WithAntiWordBreak makes reflow break before words rather than inside them.
func WithAntiWordBreak(enabled bool) Option {
	return func(e *Engine) {
		e.antiWordBreak = enabled
	}
}

// WithRTL anchors rows of right-to-left paragraphs to the right edge.
func WithRTL(enabled bool) Option {
	return func(e *Engine) {
		e.rtlAware = enabled
	}
}

// WithWidth sets the text area width in measurer units.
func WithWidth(width int) Option {
	return func(e *Engine) {
		if width > 0 {
			e.width = width
		}
	}
}

// WithRowHeight sets the height of one row for point conversions.
func WithRowHeight(height float64) Option {
	return func(e *Engine) {
		if height > 0 {
			e.rowHeight = height
		}
	}
}

// WithMeasurer replaces the monospace measurer. m must be safe for
// concurrent use when ReflowInBackground is used.
func WithMeasurer(m layout.Measurer) Option {
	return func(e *Engine) {
		e.customMeasurer = m
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMaxUndoEntries sets the maximum number of undo history entries.
func WithMaxUndoEntries(limit int) Option {
	return func(e *Engine) {
		if limit > 0 {
			e.maxUndoEntries = limit
		}
	}
}

// WithUndoMergeWindow sets how long consecutive typing or deleting is
// folded into one undo entry. Zero disables merging.
func WithUndoMergeWindow(d time.Duration) Option {
	return func(e *Engine) {
		if d >= 0 {
			e.mergeWindow = d
		}
	}
}

// WithJournalSize sets how many recent edits are kept for bringing
// analysis results forward.
func WithJournalSize(size int) Option {
	return func(e *Engine) {
		if size > 0 {
			e.journalSize = size
		}
	}
}

// WithCacheSize sets the measurement cache capacity in lines and the
// number of entries evicted at once.
func WithCacheSize(maxLines, evictionBatch int) Option {
	return func(e *Engine) {
		if maxLines > 0 {
			e.cacheConfig.MaxLines = maxLines
		}
		if evictionBatch > 0 {
			e.cacheConfig.EvictionBatchSize = evictionBatch
		}
	}
}

// WithViewport sets the visible row count and the scroll margin kept
// around the caret.
func WithViewport(height, margin int) Option {
	return func(e *Engine) {
		if height > 0 {
			e.viewportHeight = height
		}
		if margin >= 0 {
			e.scrollMargin = margin
		}
	}
}

// WithConfig applies every editor, cache and history setting of cfg.
func WithConfig(cfg config.Config) Option {
	return func(e *Engine) {
		for _, opt := range []Option{
			WithTabWidth(cfg.Editor.TabWidth),
			WithWordWrap(cfg.Editor.WordWrap),
			WithAntiWordBreak(cfg.Editor.AntiWordBreak),
			WithRTL(cfg.Editor.RTLAware),
			WithWidth(cfg.Editor.Width),
			WithRowHeight(cfg.Editor.RowHeight),
			WithViewport(0, cfg.Editor.ScrollMargin),
			WithCacheSize(cfg.Cache.MaxLines, cfg.Cache.EvictionBatch),
			WithMaxUndoEntries(cfg.History.MaxEntries),
			WithJournalSize(cfg.History.JournalSize),
			WithUndoMergeWindow(time.Duration(cfg.History.MergeWindow) * time.Millisecond),
		} {
			opt(e)
		}
		if le, err := buffer.ParseLineEnding(cfg.Editor.LineEnding); err == nil {
			WithLineEnding(le)(e)
		}
	}
}

func defaultCacheConfig() linecache.Config {
	return linecache.DefaultConfig()
}

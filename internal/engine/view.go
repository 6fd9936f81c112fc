package engine

import (
	"context"

	"go.uber.org/zap"

	"github.com/dshills/inkwell/internal/engine/buffer"
	"github.com/dshills/inkwell/internal/renderer/layout"
)

func (e *Engine) geometry() layout.Geometry {
	return layout.Geometry{
		Layout:    e.layout,
		Lines:     e.buf,
		Measurer:  e.measurer,
		RowHeight: e.rowHeight,
		Width:     float64(e.width),
	}
}

// PositionToPoint returns the text area point of (line, column), with the
// first row at y = 0.
func (e *Engine) PositionToPoint(line, column int) (x, y float64, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.geometry().PositionToPoint(line, column)
}

// PointToPosition returns the position nearest to a text area point.
func (e *Engine) PointToPosition(x, y float64) buffer.CharPosition {
	e.mu.Lock()
	defer e.mu.Unlock()
	line, col := e.geometry().PointToPosition(x, y)
	p, err := e.index.CharPosition(line, col)
	if err != nil {
		return buffer.CharPosition{}
	}
	return p
}

// VisibleRows returns the rows inside the viewport.
func (e *Engine) VisibleRows() []layout.Row {
	e.mu.Lock()
	defer e.mu.Unlock()
	top, bottom := e.view.VisibleRange()
	return e.rowsLocked(top, bottom-top)
}

// Rows returns up to n rows starting at row start.
func (e *Engine) Rows(start, n int) []layout.Row {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rowsLocked(start, n)
}

func (e *Engine) rowsLocked(start, n int) []layout.Row {
	if n <= 0 || start < 0 || start >= e.layout.RowCount() {
		return nil
	}
	rows := make([]layout.Row, 0, n)
	it := e.layout.Iterator(start)
	for len(rows) < n {
		row, ok := it.Next()
		if !ok {
			break
		}
		rows = append(rows, row)
	}
	return rows
}

// Resize changes the viewport height and the text area width.
func (e *Engine) Resize(width, height int) {
	e.view.Resize(height)
	e.SetWidth(width)
}

// ScrollBy scrolls the viewport by delta rows without moving the caret.
func (e *Engine) ScrollBy(delta int) {
	e.mu.Lock()
	defer e.unlock()
	e.view.SetRowCount(e.layout.RowCount())
	if e.view.ScrollBy(delta) {
		e.dirty.MarkAll()
		e.queueNotice(0, false)
	}
}

// SetWordWrap switches between one row per line and reflow. The layout
// is rebuilt from scratch.
func (e *Engine) SetWordWrap(enabled bool) {
	e.mu.Lock()
	defer e.unlock()
	if e.wordWrap == enabled {
		return
	}
	e.wordWrap = enabled
	e.layout = e.newLayout()
	e.dirty.MarkAll()
	e.logger.Info("layout switched", zap.Stringer("layout", e.layout.Kind()))
	e.notify(0)
}

// WordWrap reports whether reflow is active.
func (e *Engine) WordWrap() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.wordWrap
}

// SetTabWidth changes the tab width. Every cached measurement becomes
// stale and reflowed rows are rebuilt.
func (e *Engine) SetTabWidth(width int) {
	e.mu.Lock()
	defer e.unlock()
	if width < 1 || width == e.tabWidth {
		return
	}
	e.tabWidth = width
	e.setMeasurer()
	e.invalidateMeasurements("tab width", width)
}

// SetWidth changes the text area width and rebuilds reflowed rows.
func (e *Engine) SetWidth(width int) {
	e.mu.Lock()
	defer e.unlock()
	if width < 1 || width == e.width {
		return
	}
	e.width = width
	e.invalidateMeasurements("width", width)
}

func (e *Engine) invalidateMeasurements(what string, value int) {
	e.stamp++
	e.cache.BumpGlobal(e.stamp)
	if e.wordWrap {
		e.layout = e.newLayout()
	}
	e.dirty.MarkAll()
	e.logger.Info("measurements invalidated", zap.String("setting", what), zap.Int("value", value))
	e.notify(0)
}

// ReflowInBackground rebreaks every line on another goroutine and
// installs the result unless the document or layout changed meanwhile.
// The returned channel reports whether the result was installed. Without
// word wrap it reports false at once.
func (e *Engine) ReflowInBackground(ctx context.Context) <-chan bool {
	done := make(chan bool, 1)

	e.mu.Lock()
	r, ok := e.layout.(*layout.Reflow)
	if !ok {
		e.mu.Unlock()
		done <- false
		return done
	}
	job := r.Prepare()
	snap := e.buf.Snapshot()
	e.mu.Unlock()

	go func() {
		table := job.Run(snap)
		if ctx.Err() != nil {
			done <- false
			return
		}
		e.mu.Lock()
		installed := e.layout == layout.Layout(r) && snap.Generation() == e.buf.Generation() && r.Install(table)
		if installed {
			e.dirty.MarkAll()
			e.queueNotice(0, false)
		} else {
			e.logger.Debug("background reflow discarded", zap.Uint64("generation", snap.Generation()))
		}
		e.unlock()
		done <- installed
	}()
	return done
}

package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/dshills/inkwell/internal/annotate"
	"github.com/dshills/inkwell/internal/engine/buffer"
	"github.com/dshills/inkwell/internal/engine/history"
	"github.com/dshills/inkwell/internal/engine/tracking"
	"github.com/dshills/inkwell/internal/renderer/layout"
)

// coordinator receives buffer mutations and brings every derived
// structure up to date. It runs with the engine lock held.
type coordinator struct {
	e *Engine
}

// AfterInsert implements buffer.Listener.
func (c *coordinator) AfterInsert(m buffer.Mutation) {
	c.apply(tracking.KindInsert, m)
}

// AfterDelete implements buffer.Listener.
func (c *coordinator) AfterDelete(m buffer.Mutation) {
	c.apply(tracking.KindDelete, m)
}

// AfterReplace implements buffer.Listener.
func (c *coordinator) AfterReplace(gen uint64) {
	c.e.rebuildAll(gen)
}

func (c *coordinator) apply(kind tracking.Kind, m buffer.Mutation) {
	e := c.e
	caretBefore := e.caretLocked().Index
	rowsBefore := e.layout.RowCount()

	// 1. The index still describes the old text.
	ch, err := e.resolveChange(kind, m)
	if err != nil {
		e.logger.Error("edit does not match index", zap.Stringer("start", m.Start), zap.Error(err))
		e.rebuildAll(m.Generation)
		return
	}

	// 2.
	lineLen := e.buf.LineLen
	if kind == tracking.KindInsert {
		err = e.index.ApplyInsert(m, lineLen)
	} else {
		err = e.index.ApplyDelete(m, lineLen)
	}
	if err != nil {
		e.logger.Error("index update failed", zap.Error(err))
		e.index.Reset(e.lineLengths())
	}

	// 3.
	jc := tracking.Change{Kind: kind, Change: ch, Generation: m.Generation}
	for _, s := range e.stores {
		if err := shiftStore(s, jc); err != nil {
			e.logger.Warn("store shift", zap.String("store", s.Name()), zap.Stringer("kind", kind), zap.Error(err))
		}
	}
	if kind == tracking.KindInsert {
		e.cursor.ShiftOnInsert(ch.StartIndex, ch.EndIndex)
	} else {
		e.cursor.ShiftOnDelete(ch.StartIndex, ch.EndIndex)
	}
	e.journal.Record(jc)

	// 4.
	rebuilt := e.updateLayout(kind, m)

	// 5.
	delta := m.LineDelta()
	last := m.Start.Line
	if kind == tracking.KindInsert {
		last = m.End.Line
	} else {
		delta = -delta
	}
	last = max(last, rebuilt.End)
	e.stamp++
	e.cache.ShiftLines(m.Start.Line+1, delta)
	e.cache.Touch(m.Start.Line, last, e.stamp)
	if delta != 0 || e.layout.RowCount() != rowsBefore {
		e.dirty.MarkFrom(m.Start.Line)
	} else {
		e.dirty.MarkLines(m.Start.Line, last)
	}

	// 6.
	if err := e.cursor.Resolve(); err != nil {
		e.logger.Error("cursor resolve", zap.Error(err))
		_ = e.cursor.Set(0, 0)
	}
	if idx, ok := e.anchor.Get(); ok && idx > e.index.Len() {
		e.anchor.Reset(0)
	}
	e.history.Record(history.NewOperation(m, caretBefore, e.caretLocked().Index))
	e.notify(1)
}

// updateLayout rebuilds the rows of the edited lines. A layout that
// panics is replaced by a fresh one built from the current text.
func (e *Engine) updateLayout(kind tracking.Kind, m buffer.Mutation) (rebuilt layout.LineRange) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("layout update", zap.Stringer("kind", kind), zap.Stringer("start", m.Start), zap.Any("panic", r))
			e.layout = e.newLayout()
			e.dirty.MarkAll()
			rebuilt = layout.LineRange{Start: m.Start.Line, End: m.Start.Line}
		}
	}()
	if kind == tracking.KindInsert {
		return e.layout.AfterInsert(m.Start.Line, m.End.Line)
	}
	return e.layout.AfterDelete(m.Start.Line, m.End.Line)
}

// resolveChange converts m to CharIndex form. For an insert the end index
// follows from the inserted length, since the old index has no position
// for the new text.
func (e *Engine) resolveChange(kind tracking.Kind, m buffer.Mutation) (annotate.Change, error) {
	start, err := e.index.OffsetOf(m.Start.Line, m.Start.Column)
	if err != nil {
		return annotate.Change{}, err
	}
	end := start + m.Len()
	if kind == tracking.KindDelete {
		if end, err = e.index.OffsetOf(m.End.Line, m.End.Column); err != nil {
			return annotate.Change{}, err
		}
	}
	return annotate.Change{Start: m.Start, End: m.End, StartIndex: start, EndIndex: end}, nil
}

// shiftStore applies c to s, turning a panic into an error so one broken
// store does not stop the sequence.
func shiftStore(s annotate.Store, c tracking.Change) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", ErrStoreShift, s.Name(), r)
		}
	}()
	return c.Apply(s)
}

// rebuildAll resets every derived structure after the whole text was
// replaced. Annotations describe the old text and are dropped.
func (e *Engine) rebuildAll(gen uint64) {
	e.epoch++
	e.index.Reset(e.lineLengths())
	for _, s := range e.stores {
		if r, ok := s.(annotate.Resetter); ok {
			r.Reset(e.buf.LineCount())
		}
	}
	_ = e.cursor.Set(0, 0)
	e.history.Clear()
	e.journal.Reset(gen)

	e.stamp++
	e.cache.Clear()
	e.cache.ResetStats()
	e.cache.BumpGlobal(e.stamp)
	e.layout = e.newLayout()
	e.dirty.MarkAll()
	e.view.SetRowCount(e.layout.RowCount())
	e.view.ScrollTo(0)

	e.logger.Debug("text replaced", zap.Uint64("epoch", e.epoch), zap.Int("lines", e.buf.LineCount()))
	e.notify(1)
}

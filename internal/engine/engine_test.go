package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dshills/inkwell/internal/analysis"
	"github.com/dshills/inkwell/internal/annotate"
	"github.com/dshills/inkwell/internal/engine/buffer"
	"github.com/dshills/inkwell/internal/renderer/layout"
	"github.com/dshills/inkwell/internal/renderer/linecache"
)

func pos(line, col int) buffer.Position {
	return buffer.Position{Line: line, Column: col}
}

type noticeLog struct {
	notices []Notice
}

func (l *noticeLog) listen(n Notice) { l.notices = append(l.notices, n) }

func newWatched(t *testing.T, opts ...Option) (*Engine, *noticeLog) {
	t.Helper()
	e := New(opts...)
	log := &noticeLog{}
	e.AddListener(log.listen)
	return e, log
}

func TestNewWithContent(t *testing.T) {
	e := New(WithContent("hello\nworld"))
	if e.Text() != "hello\nworld" {
		t.Errorf("Text() = %q", e.Text())
	}
	if e.LineCount() != 2 || e.Len() != 11 {
		t.Errorf("LineCount, Len = %d, %d; want 2, 11", e.LineCount(), e.Len())
	}
	if e.Layout().Kind() != layout.KindFixed {
		t.Errorf("default layout = %v, want fixed", e.Layout().Kind())
	}
}

func TestLineEndingRoundTrip(t *testing.T) {
	e := New(WithContent("a\r\nb\r\n"))
	if e.Text() != "a\r\nb\r\n" || e.LineEnding() != buffer.LineEndingCRLF {
		t.Errorf("Text() = %q with %v, want CRLF kept", e.Text(), e.LineEnding())
	}
	// Separators count once in CharIndex space.
	if e.LineCount() != 3 || e.Len() != 4 {
		t.Errorf("LineCount, Len = %d, %d; want 3, 4", e.LineCount(), e.Len())
	}
	if err := e.SetCursor(1, 1); err != nil {
		t.Fatal(err)
	}
	if err := e.InsertAtCursor("\nc"); err != nil {
		t.Fatal(err)
	}
	if e.Text() != "a\r\nb\r\nc\r\n" {
		t.Errorf("after insert Text() = %q", e.Text())
	}
	if got := e.Snapshot().Snapshot.Text(); got != "a\nb\nc\n" {
		t.Errorf("analysis snapshot = %q, want LF", got)
	}

	forced := New(WithContent("a\r\nb"), WithLineEnding(buffer.LineEndingLF))
	if forced.Text() != "a\nb" {
		t.Errorf("forced LF Text() = %q", forced.Text())
	}
	forced.SetLineEnding(buffer.LineEndingCR)
	if forced.Text() != "a\rb" {
		t.Errorf("after SetLineEnding Text() = %q", forced.Text())
	}
}

func TestCursorSurvivesEditBefore(t *testing.T) {
	e := New(WithContent("hello"))
	if err := e.SetCursor(0, 5); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Insert(pos(0, 0), "ab"); err != nil {
		t.Fatal(err)
	}
	caret := e.Caret()
	if caret.Line != 0 || caret.Column != 7 || caret.Index != 7 {
		t.Errorf("caret = %v, want (0:7@7)", caret)
	}
}

func TestDeleteSelectionCollapses(t *testing.T) {
	e := New(WithContent("hello world"))
	if err := e.SelectIndexes(2, 8); err != nil {
		t.Fatal(err)
	}
	got, err := e.DeleteSelection()
	if err != nil {
		t.Fatal(err)
	}
	if got != "llo wo" {
		t.Errorf("deleted %q, want %q", got, "llo wo")
	}
	if e.Text() != "herld" {
		t.Errorf("Text() = %q, want herld", e.Text())
	}
	sel := e.Selection()
	if !sel.IsEmpty() || sel.Left.Index != 2 {
		t.Errorf("selection = %+v, want insertion point at 2", sel)
	}
}

func TestBatchNotifiesOnce(t *testing.T) {
	e, log := newWatched(t)
	e.BeginBatchEdit()
	const n = 5
	for i := 0; i < n; i++ {
		if err := e.InsertAtCursor("x"); err != nil {
			t.Fatal(err)
		}
		if got := e.Caret().Index; got != i+1 {
			t.Fatalf("after insert %d caret = %d, want %d", i, got, i+1)
		}
	}
	if len(log.notices) != 0 {
		t.Fatalf("%d notices inside batch, want 0", len(log.notices))
	}
	if err := e.EndBatchEdit(); err != nil {
		t.Fatal(err)
	}
	if len(log.notices) != 1 {
		t.Fatalf("%d notices after batch, want 1", len(log.notices))
	}
	if log.notices[0].Edits != n {
		t.Errorf("notice edits = %d, want %d", log.notices[0].Edits, n)
	}

	if err := e.Undo(); err != nil {
		t.Fatal(err)
	}
	if e.Text() != "" || e.CanUndo() {
		t.Errorf("after undo text = %q, CanUndo = %v; want one undo step", e.Text(), e.CanUndo())
	}
}

func TestNestedBatch(t *testing.T) {
	e, log := newWatched(t)
	e.BeginBatchEdit()
	e.BeginBatchEdit()
	_, _ = e.Insert(pos(0, 0), "a")
	_ = e.EndBatchEdit()
	if len(log.notices) != 0 {
		t.Errorf("inner EndBatchEdit delivered %d notices", len(log.notices))
	}
	_, _ = e.Insert(pos(0, 1), "b")
	_ = e.EndBatchEdit()
	if len(log.notices) != 1 || log.notices[0].Edits != 2 {
		t.Errorf("notices = %+v, want one with 2 edits", log.notices)
	}
	if err := e.EndBatchEdit(); !errors.Is(err, ErrNoBatch) {
		t.Errorf("unmatched EndBatchEdit = %v, want ErrNoBatch", err)
	}
}

func TestTopLevelEditNotifies(t *testing.T) {
	e, log := newWatched(t, WithContent("abc"))
	if _, err := e.Replace(pos(0, 1), pos(0, 2), "XY"); err != nil {
		t.Fatal(err)
	}
	if e.Text() != "aXYc" {
		t.Errorf("Text() = %q, want aXYc", e.Text())
	}
	if len(log.notices) != 1 || log.notices[0].Edits != 2 {
		t.Fatalf("notices = %+v, want one with 2 edits", log.notices)
	}
	if !log.notices[0].Dirty[0].ContainsLine(0) {
		t.Errorf("dirty regions %v do not cover line 0", log.notices[0].Dirty)
	}
}

func currentResult(e *Engine) analysis.Result {
	return analysis.ResultFor(e.Snapshot(), "test")
}

func TestDiagnosticGrowsOnInsertInside(t *testing.T) {
	e := New(WithContent("0123456789abcdef"))
	res := currentResult(e)
	res.Provides = analysis.KindDiagnostics
	res.Diagnostics = []annotate.Diagnostic{{Start: 4, End: 10, Message: "x"}}
	if err := e.ApplyAnalysis(res); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Insert(pos(0, 6), "xyz"); err != nil {
		t.Fatal(err)
	}
	all := e.Diagnostics().All()
	if len(all) != 1 || all[0].Start != 4 || all[0].End != 13 {
		t.Errorf("diagnostics = %+v, want [4,13)", all)
	}
}

func TestNoStaleCacheHit(t *testing.T) {
	e := New(WithContent("hello\nworld"))
	e.Advances(0)
	e.Advances(1)
	if _, ok := e.cache.Lookup(0, e.spans.StyleHash(0)); !ok {
		t.Fatal("line 0 not cached after measuring")
	}
	if _, err := e.Insert(pos(0, 5), "!"); err != nil {
		t.Fatal(err)
	}
	if _, ok := e.cache.Lookup(0, e.spans.StyleHash(0)); ok {
		t.Error("cache hit for edited line 0")
	}
	if _, ok := e.cache.Lookup(1, e.spans.StyleHash(1)); !ok {
		t.Error("untouched line 1 lost its entry")
	}
	if got := len(e.Advances(0).Advances); got != 6 {
		t.Errorf("remeasured line 0 has %d advances, want 6", got)
	}
}

func TestCacheFollowsLineShift(t *testing.T) {
	e := New(WithContent("a\nbb\nccc"))
	e.Advances(2)
	if _, err := e.Insert(pos(0, 1), "\n"); err != nil {
		t.Fatal(err)
	}
	entry, ok := e.cache.Lookup(3, e.spans.StyleHash(3))
	if !ok {
		t.Fatal("entry for old line 2 not moved to line 3")
	}
	if len(entry.Advances) != 3 {
		t.Errorf("moved entry has %d advances, want 3", len(entry.Advances))
	}
}

func TestWordWrapRows(t *testing.T) {
	tests := []struct {
		name string
		text string
		opts []Option
		want [][2]int
	}{
		{
			name: "mid word",
			text: "abcdefghij",
			opts: []Option{WithWidth(5), WithAntiWordBreak(false)},
			want: [][2]int{{0, 5}, {5, 10}},
		},
		{
			name: "long word still breaks",
			text: "abcdefghij",
			opts: []Option{WithWidth(5), WithAntiWordBreak(true)},
			want: [][2]int{{0, 5}, {5, 10}},
		},
		{
			name: "break at space",
			text: "abcde fghij",
			opts: []Option{WithWidth(6), WithAntiWordBreak(true)},
			want: [][2]int{{0, 6}, {6, 11}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := append([]Option{WithContent(tt.text), WithWordWrap(true)}, tt.opts...)
			e := New(opts...)
			rows := e.Rows(0, 10)
			if len(rows) != len(tt.want) {
				t.Fatalf("got %d rows %+v, want %v", len(rows), rows, tt.want)
			}
			for i, r := range rows {
				if r.StartColumn != tt.want[i][0] || r.EndColumn != tt.want[i][1] {
					t.Errorf("row %d = [%d,%d), want %v", i, r.StartColumn, r.EndColumn, tt.want[i])
				}
			}
		})
	}
}

func TestSetWordWrapRebuilds(t *testing.T) {
	e, log := newWatched(t, WithContent("abcdefghij\nxy"), WithWidth(4))
	if got := e.Layout().RowCount(); got != 2 {
		t.Fatalf("fixed rows = %d, want 2", got)
	}
	e.SetWordWrap(true)
	if got := e.Layout().RowCount(); got != 4 {
		t.Errorf("reflow rows = %d, want 4", got)
	}
	if len(log.notices) != 1 || !log.notices[0].FullRedraw {
		t.Errorf("notices = %+v, want one full redraw", log.notices)
	}
	e.SetWidth(5)
	if got := e.Layout().RowCount(); got != 3 {
		t.Errorf("reflow rows at width 5 = %d, want 3", got)
	}
	e.SetWordWrap(false)
	if got := e.Layout().RowCount(); got != 2 {
		t.Errorf("rows after disabling wrap = %d, want 2", got)
	}
}

func TestReflowFollowsEdits(t *testing.T) {
	e := New(WithContent("abcd\nef"), WithWordWrap(true), WithWidth(4))
	if _, err := e.Insert(pos(0, 4), "xyz"); err != nil {
		t.Fatal(err)
	}
	if got := e.Layout().RowCountForLine(0); got != 2 {
		t.Errorf("line 0 rows = %d, want 2", got)
	}
	if got := e.Layout().RowCount(); got != 3 {
		t.Errorf("total rows = %d, want 3", got)
	}
	if err := e.SetCursor(1, 1); err != nil {
		t.Fatal(err)
	}
	if err := e.MoveUp(); err != nil {
		t.Fatal(err)
	}
	if c := e.Caret(); c.Line != 0 || c.Column != 5 {
		t.Errorf("caret after MoveUp = %v, want (0:5)", c)
	}
}

func TestSetTabWidthBumpsCache(t *testing.T) {
	e := New(WithContent("\tx"))
	if got := e.Advances(0).Width(0, 2); got != 5 {
		t.Fatalf("width with tab 4 = %v, want 5", got)
	}
	e.SetTabWidth(8)
	if _, ok := e.cache.Lookup(0, e.spans.StyleHash(0)); ok {
		t.Error("entry still valid after tab width change")
	}
	if got := e.Advances(0).Width(0, 2); got != 9 {
		t.Errorf("width with tab 8 = %v, want 9", got)
	}
}

func TestUndoRedoRestoresCaret(t *testing.T) {
	e := New(WithContent("hello"))
	_ = e.SetCursor(0, 5)
	if err := e.InsertAtCursor(" world"); err != nil {
		t.Fatal(err)
	}
	if err := e.Undo(); err != nil {
		t.Fatal(err)
	}
	if e.Text() != "hello" || e.Caret().Index != 5 {
		t.Errorf("after undo text %q caret %d, want hello at 5", e.Text(), e.Caret().Index)
	}
	if err := e.Redo(); err != nil {
		t.Fatal(err)
	}
	if e.Text() != "hello world" || e.Caret().Index != 11 {
		t.Errorf("after redo text %q caret %d, want hello world at 11", e.Text(), e.Caret().Index)
	}
	start, end, ok := e.UndoRange()
	if !ok || start != 5 || end != 11 {
		t.Errorf("UndoRange = %d, %d, %v; want 5, 11, true", start, end, ok)
	}
	if err := e.Redo(); err == nil {
		t.Error("second Redo succeeded")
	}
}

func TestUndoMergesTyping(t *testing.T) {
	tests := []struct {
		name   string
		opts   []Option
		undone string
	}{
		{"merged", nil, ""},
		{"disabled", []Option{WithUndoMergeWindow(0)}, "hell"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(tt.opts...)
			for _, s := range []string{"h", "e", "l", "l", "o"} {
				if err := e.InsertAtCursor(s); err != nil {
					t.Fatal(err)
				}
			}
			if err := e.Undo(); err != nil {
				t.Fatal(err)
			}
			if e.Text() != tt.undone {
				t.Errorf("after one undo text = %q, want %q", e.Text(), tt.undone)
			}
		})
	}
}

func TestUndoAfterCaretMove(t *testing.T) {
	e := New()
	_ = e.InsertAtCursor("a")
	_ = e.InsertAtCursor("b")
	_ = e.MoveLeft()
	_ = e.InsertAtCursor("c")
	if err := e.Undo(); err != nil {
		t.Fatal(err)
	}
	if e.Text() != "ab" {
		t.Errorf("after undo text = %q, want ab", e.Text())
	}
	e.SetHistoryLimits(1, 0)
	_ = e.InsertAtCursor("x")
	_ = e.InsertAtCursor("y")
	if err := e.Undo(); err != nil {
		t.Fatal(err)
	}
	if e.CanUndo() {
		t.Error("history kept more than one entry after the limit shrank")
	}
}

func TestUndoKeepsAnnotationsShifted(t *testing.T) {
	e := New(WithContent("abc def"))
	res := currentResult(e)
	res.Provides = analysis.KindDiagnostics
	res.Diagnostics = []annotate.Diagnostic{{Start: 4, End: 7}}
	_ = e.ApplyAnalysis(res)

	_, _ = e.Insert(pos(0, 0), "12")
	if err := e.Undo(); err != nil {
		t.Fatal(err)
	}
	all := e.Diagnostics().All()
	if len(all) != 1 || all[0].Start != 4 || all[0].End != 7 {
		t.Errorf("diagnostics after undo = %+v, want [4,7)", all)
	}
}

func TestHighlightsRepaintCoveredLines(t *testing.T) {
	e := New(WithContent("a\nb\nc\nd\ne"))
	res := currentResult(e)
	res.Provides = analysis.KindHighlights
	res.Highlights = []annotate.HighlightRange{{Start: pos(1, 0), End: pos(2, 1)}}
	e.dirty.Clear()
	if err := e.ApplyAnalysis(res); err != nil {
		t.Fatal(err)
	}
	if e.dirty.NeedsFullRedraw() || !e.dirty.IsLineDirty(1) || !e.dirty.IsLineDirty(2) || e.dirty.IsLineDirty(4) {
		t.Errorf("dirty regions after highlights = %+v", e.dirty.Regions())
	}

	res = currentResult(e)
	res.Provides = analysis.KindHighlights
	res.Highlights = []annotate.HighlightRange{{Start: pos(4, 0), End: pos(4, 1)}}
	e.dirty.Clear()
	if err := e.ApplyAnalysis(res); err != nil {
		t.Fatal(err)
	}
	for _, line := range []int{1, 2, 4} {
		if !e.dirty.IsLineDirty(line) {
			t.Errorf("line %d not repainted after the highlights moved", line)
		}
	}
	if e.dirty.IsLineDirty(0) || e.dirty.IsLineDirty(3) {
		t.Errorf("untouched lines marked: %+v", e.dirty.Regions())
	}
}

func TestSpansInvalidateRestyledLines(t *testing.T) {
	e := New(WithContent("aa\nbb\ncc"))
	for line := range 3 {
		e.Advances(line)
	}
	if s := e.CacheStats(); s.Size != 3 || s.Misses == 0 {
		t.Fatalf("cache stats = %+v, want 3 measured entries", s)
	}

	res := currentResult(e)
	res.Provides = analysis.KindSpans
	res.Spans = [][]annotate.Span{{{Column: 0}}, {{Column: 0, Style: 3}}, {{Column: 0}}}
	e.dirty.Clear()
	if err := e.ApplyAnalysis(res); err != nil {
		t.Fatal(err)
	}
	if s := e.CacheStats(); s.Size != 2 {
		t.Errorf("cache size = %d, want the restyled line dropped", s.Size)
	}
	if e.dirty.NeedsFullRedraw() || !e.dirty.IsLineDirty(1) || e.dirty.IsLineDirty(0) || e.dirty.IsLineDirty(2) {
		t.Errorf("dirty regions after restyle = %+v", e.dirty.Regions())
	}

	e.SetText("new")
	if s := e.CacheStats(); s != (linecache.Stats{}) {
		t.Errorf("cache stats after SetText = %+v, want zero", s)
	}
}

func TestStaleAnalysisRejected(t *testing.T) {
	e := New(WithContent("hello"))
	other := New(WithContent("hello"))

	foreign := currentResult(other)
	if err := e.ApplyAnalysis(foreign); !errors.Is(err, analysis.ErrStaleGeneration) {
		t.Errorf("foreign session: %v, want ErrStaleGeneration", err)
	}

	old := currentResult(e)
	e.SetText("goodbye")
	if err := e.ApplyAnalysis(old); !errors.Is(err, analysis.ErrStaleGeneration) {
		t.Errorf("old epoch: %v, want ErrStaleGeneration", err)
	}

	future := currentResult(e)
	future.Generation += 3
	if err := e.ApplyAnalysis(future); !errors.Is(err, analysis.ErrStaleGeneration) {
		t.Errorf("future generation: %v, want ErrStaleGeneration", err)
	}
}

func TestAnalysisOutsideJournalRejected(t *testing.T) {
	e := New(WithContent("x"), WithJournalSize(2))
	res := currentResult(e)
	res.Provides = analysis.KindDiagnostics
	res.Diagnostics = []annotate.Diagnostic{{Start: 0, End: 1}}
	for i := 0; i < 3; i++ {
		_, _ = e.Insert(pos(0, 0), "a")
	}
	if err := e.ApplyAnalysis(res); !errors.Is(err, analysis.ErrStaleGeneration) {
		t.Errorf("ApplyAnalysis = %v, want ErrStaleGeneration", err)
	}
	if e.Diagnostics().Len() != 0 {
		t.Error("stale result was installed")
	}
}

func TestAnalysisBroughtForward(t *testing.T) {
	e := New(WithContent("hello world"))
	res := currentResult(e)
	res.Provides = analysis.KindDiagnostics | analysis.KindSpans
	res.Diagnostics = []annotate.Diagnostic{{Start: 6, End: 11, Message: "world"}}
	res.Spans = [][]annotate.Span{{{Column: 0, Style: 0}, {Column: 6, Style: 5}}}

	if _, err := e.Insert(pos(0, 0), "XX"); err != nil {
		t.Fatal(err)
	}
	if err := e.ApplyAnalysis(res); err != nil {
		t.Fatalf("ApplyAnalysis: %v", err)
	}
	all := e.Diagnostics().All()
	if len(all) != 1 || all[0].Start != 8 || all[0].End != 13 {
		t.Errorf("diagnostics = %+v, want [8,13)", all)
	}
	if got := e.Spans().StyleAt(0, 9); got != 5 {
		t.Errorf("style at (0,9) = %d, want 5", got)
	}
	if got := e.Spans().StyleAt(0, 7); got != annotate.StyleNormal {
		t.Errorf("style at (0,7) = %d, want normal", got)
	}
}

func TestCommitText(t *testing.T) {
	e, log := newWatched(t, WithContent("ab"))
	_ = e.SetCursor(0, 2)
	_ = e.InsertAtCursor("ni")
	if err := e.SetComposingRegion(2, 4); err != nil {
		t.Fatal(err)
	}
	if _, _, active := e.Composing(); !active {
		t.Fatal("composing region not active")
	}
	log.notices = nil
	if err := e.CommitText("\u4f60"); err != nil {
		t.Fatal(err)
	}
	if e.Text() != "ab\u4f60" {
		t.Errorf("Text() = %q", e.Text())
	}
	if _, _, active := e.Composing(); active {
		t.Error("composition still active after commit")
	}
	if e.Caret().Index != 3 {
		t.Errorf("caret = %d, want 3", e.Caret().Index)
	}
	if len(log.notices) != 1 || log.notices[0].ComposingActive {
		t.Errorf("notices = %+v, want one without composition", log.notices)
	}
	if err := e.FinishComposing(); !errors.Is(err, ErrNoComposition) {
		t.Errorf("FinishComposing = %v, want ErrNoComposition", err)
	}
	if err := e.SetComposingRegion(0, 99); !errors.Is(err, buffer.ErrPositionOutOfBounds) {
		t.Errorf("SetComposingRegion out of range = %v", err)
	}
}

func TestComposingShiftsWithEdits(t *testing.T) {
	e := New(WithContent("abcdef"))
	_ = e.SetComposingRegion(2, 4)
	_, _ = e.Insert(pos(0, 0), "zz")
	if s, en, _ := e.Composing(); s != 4 || en != 6 {
		t.Errorf("composing = [%d,%d), want [4,6)", s, en)
	}
	_, _ = e.Delete(pos(0, 4), pos(0, 6))
	if _, _, active := e.Composing(); active {
		t.Error("emptied composing region still active")
	}
}

func TestExtendSelection(t *testing.T) {
	e := New(WithContent("hello world"))
	_ = e.SetCursor(0, 6)
	if err := e.ExtendSelection(0, 11); err != nil {
		t.Fatal(err)
	}
	if err := e.ExtendSelection(0, 2); err != nil {
		t.Fatal(err)
	}
	sel := e.Selection()
	if sel.Left.Index != 2 || sel.Right.Index != 6 || sel.Caret.Index != 2 {
		t.Errorf("selection = %+v, want [2,6) with caret 2", sel)
	}
}

func TestExtendByGrapheme(t *testing.T) {
	// e + combining acute on the first line.
	e := New(WithContent("e\u0301x\ny"))
	steps := []struct {
		extend func() error
		caret  int
	}{
		{e.ExtendRight, 2},
		{e.ExtendRight, 3},
		{e.ExtendRight, 4},
		{e.ExtendRight, 5},
		{e.ExtendRight, 5},
		{e.ExtendLeft, 4},
		{e.ExtendLeft, 3},
		{e.ExtendLeft, 2},
		{e.ExtendLeft, 0},
		{e.ExtendLeft, 0},
	}
	for i, s := range steps {
		if err := s.extend(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		sel := e.Selection()
		if sel.Caret.Index != s.caret {
			t.Errorf("step %d: caret = %d, want %d", i, sel.Caret.Index, s.caret)
		}
	}
	if err := e.ExtendSelection(0, 1); err != nil {
		t.Fatal(err)
	}
	if c := e.Selection().Caret.Index; c != 2 {
		t.Errorf("ExtendSelection inside a cluster put the caret at %d, want 2", c)
	}
}

func TestDeleteBackwardForward(t *testing.T) {
	e := New(WithContent("ab\ne\u0301x"))
	_ = e.SetCursor(1, 2)
	if err := e.DeleteBackward(); err != nil {
		t.Fatal(err)
	}
	if e.Text() != "ab\nx" {
		t.Errorf("after backward grapheme delete: %q", e.Text())
	}
	if err := e.DeleteBackward(); err != nil {
		t.Fatal(err)
	}
	if e.Text() != "abx" {
		t.Errorf("after line join: %q", e.Text())
	}
	if err := e.DeleteForward(); err != nil {
		t.Fatal(err)
	}
	if e.Text() != "ab" {
		t.Errorf("after forward delete: %q", e.Text())
	}
	if err := e.DeleteForward(); err != nil {
		t.Fatal(err)
	}
	if e.Text() != "ab" {
		t.Errorf("delete at end changed text: %q", e.Text())
	}
}

func TestMultiLineEditsKeepIndex(t *testing.T) {
	e := New(WithContent("one\ntwo\nthree"))
	if _, err := e.Insert(pos(1, 1), "X\nY\nZ"); err != nil {
		t.Fatal(err)
	}
	if e.LineCount() != 5 {
		t.Fatalf("LineCount = %d, want 5", e.LineCount())
	}
	idx, err := e.OffsetOf(4, 2)
	if err != nil || idx != 15 {
		t.Errorf("OffsetOf(4,2) = %d, %v; want 15", idx, err)
	}
	if _, err := e.Delete(pos(0, 2), pos(3, 1)); err != nil {
		t.Fatal(err)
	}
	if e.Text() != "onwo\nthree" {
		t.Errorf("Text() = %q", e.Text())
	}
	if p, err := e.PositionOf(6); err != nil || p != pos(1, 1) {
		t.Errorf("PositionOf(6) = %v, %v; want (1:1)", p, err)
	}
}

type panicStore struct{}

func (panicStore) Name() string { return "panicky" }
func (panicStore) ShiftOnInsert(annotate.Change) error { panic("boom") }
func (panicStore) ShiftOnDelete(annotate.Change) error { return annotate.ErrMalformedRange }

func TestStoreFailureIsIsolated(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	e := New(WithContent("abcdef"), WithLogger(zap.New(core)))
	res := currentResult(e)
	res.Provides = analysis.KindDiagnostics
	res.Diagnostics = []annotate.Diagnostic{{Start: 3, End: 5}}
	_ = e.ApplyAnalysis(res)
	e.stores = append([]annotate.Store{panicStore{}}, e.stores...)

	_ = e.SetCursor(0, 4)
	if _, err := e.Insert(pos(0, 0), "zz"); err != nil {
		t.Fatal(err)
	}
	if all := e.Diagnostics().All(); all[0].Start != 5 {
		t.Errorf("diagnostic start = %d, want 5", all[0].Start)
	}
	if e.Caret().Index != 6 {
		t.Errorf("caret = %d, want 6", e.Caret().Index)
	}
	_, _ = e.Delete(pos(0, 0), pos(0, 1))

	warns := logs.FilterMessage("store shift").All()
	if len(warns) != 2 {
		t.Fatalf("%d store shift warnings, want 2", len(warns))
	}
	if err, ok := warns[0].ContextMap()["error"].(string); !ok || err == "" {
		t.Errorf("warning without error field: %v", warns[0].ContextMap())
	}
}

type panicLayout struct{ layout.Layout }

func (panicLayout) AfterInsert(int, int) layout.LineRange { panic("broken rows") }

func TestLayoutFailureRebuilds(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	e := New(WithContent("one\ntwo"), WithLogger(zap.New(core)))
	e.layout = panicLayout{e.layout}

	if _, err := e.Insert(pos(0, 3), "\nmid"); err != nil {
		t.Fatal(err)
	}
	if _, broken := e.layout.(panicLayout); broken {
		t.Fatal("failed layout was kept")
	}
	if e.Layout().RowCount() != 3 || e.Text() != "one\nmid\ntwo" {
		t.Errorf("rows = %d, text %q after rebuild", e.Layout().RowCount(), e.Text())
	}
	if got := logs.FilterMessage("layout update").Len(); got != 1 {
		t.Errorf("%d layout update errors logged, want 1", got)
	}
	if c := e.Caret(); c.Index != 0 {
		t.Errorf("caret = %d, want 0", c.Index)
	}
}

func TestSetTextResets(t *testing.T) {
	e := New(WithContent("abc"))
	_ = e.SetCursor(0, 3)
	_, _ = e.Insert(pos(0, 3), "d")
	epoch := e.Epoch()
	e.SetText("x\ny")
	if e.Epoch() != epoch+1 {
		t.Errorf("epoch = %d, want %d", e.Epoch(), epoch+1)
	}
	if e.CanUndo() {
		t.Error("history survived SetText")
	}
	if c := e.Caret(); c.Index != 0 {
		t.Errorf("caret = %v, want origin", c)
	}
	if e.Len() != 3 || e.Layout().RowCount() != 2 {
		t.Errorf("Len, rows = %d, %d; want 3, 2", e.Len(), e.Layout().RowCount())
	}
}

func TestGeometryRoundTrip(t *testing.T) {
	e := New(WithContent("abcdefgh\nij"), WithWordWrap(true), WithWidth(4), WithRowHeight(2))
	x, y, err := e.PositionToPoint(0, 5)
	if err != nil {
		t.Fatal(err)
	}
	if x != 1 || y != 2 {
		t.Errorf("PositionToPoint(0,5) = %v, %v; want 1, 2", x, y)
	}
	p := e.PointToPosition(x, y)
	if p.Line != 0 || p.Column != 5 || p.Index != 5 {
		t.Errorf("PointToPosition = %v, want (0:5@5)", p)
	}
}

func TestCaretKeptVisible(t *testing.T) {
	e, log := newWatched(t, WithContent("0\n1\n2\n3\n4\n5\n6\n7\n8\n9"), WithViewport(3, 0))
	if err := e.SetCursor(8, 0); err != nil {
		t.Fatal(err)
	}
	if top := e.Viewport().Top(); top != 6 {
		t.Errorf("viewport top = %d, want 6", top)
	}
	if len(log.notices) != 1 || !log.notices[0].Scrolled {
		t.Errorf("notices = %+v, want one scrolled notice", log.notices)
	}
	rows := e.VisibleRows()
	if len(rows) != 3 || rows[0].Line != 6 {
		t.Errorf("visible rows = %+v, want lines 6..8", rows)
	}
}

func TestReflowInBackground(t *testing.T) {
	e := New(WithContent("abcdefgh\nxy"), WithWordWrap(true), WithWidth(4))
	select {
	case ok := <-e.ReflowInBackground(context.Background()):
		if !ok {
			t.Error("background reflow of unchanged document was discarded")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("background reflow did not finish")
	}
	if got := e.Layout().RowCount(); got != 3 {
		t.Errorf("rows = %d, want 3", got)
	}

	fixed := New(WithContent("abc"))
	if ok := <-fixed.ReflowInBackground(context.Background()); ok {
		t.Error("fixed layout reported a background reflow")
	}
}

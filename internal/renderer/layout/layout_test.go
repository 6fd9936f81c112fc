package layout

import (
	"errors"
	"testing"

	"github.com/dshills/inkwell/internal/engine/buffer"
)

func collectRows(t *testing.T, l Layout) []Row {
	t.Helper()
	var rows []Row
	it := l.Iterator(0)
	for {
		r, ok := it.Next()
		if !ok {
			break
		}
		rows = append(rows, r)
	}
	if len(rows) != l.RowCount() {
		t.Fatalf("iterator yielded %d rows, RowCount is %d", len(rows), l.RowCount())
	}
	return rows
}

func spans(rows []Row) [][2]int {
	out := make([][2]int, len(rows))
	for i, r := range rows {
		out[i] = [2]int{r.StartColumn, r.EndColumn}
	}
	return out
}

func equalSpans(a, b [][2]int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalRows(a, b []Row) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFixedOneRowPerLine(t *testing.T) {
	buf := buffer.NewBufferFromString("one\n\nthree")
	f := NewFixed(buf, false)

	rows := collectRows(t, f)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	for i, r := range rows {
		if r.Line != i || !r.Leading || !r.Trailing || r.StartColumn != 0 || r.EndColumn != buf.LineLen(i) {
			t.Errorf("row %d: unexpected %+v", i, r)
		}
	}
	if _, err := f.RowAt(3); !errors.Is(err, ErrRowIndexOutOfBounds) {
		t.Errorf("expected ErrRowIndexOutOfBounds, got %v", err)
	}
}

func TestReflowWrapsAtWidth(t *testing.T) {
	buf := buffer.NewBufferFromString("abcdefghij")
	r := NewReflow(buf, Monospace{}, Options{Width: 5})

	got := spans(collectRows(t, r))
	want := [][2]int{{0, 5}, {5, 10}}
	if !equalSpans(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestReflowAntiWordBreak(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width float64
		anti  bool
		want  [][2]int
	}{
		{"single long word still breaks", "abcdefghij", 5, true, [][2]int{{0, 5}, {5, 10}}},
		{"break at space", "abcde fghij", 6, true, [][2]int{{0, 6}, {6, 11}}},
		{"moves break to word start", "abc defghij", 6, true, [][2]int{{0, 4}, {4, 10}, {10, 11}}},
		{"mid word without anti", "abc defghij", 6, false, [][2]int{{0, 6}, {6, 11}}},
		{"hyphen continues a word", "ab cd-efgh", 5, true, [][2]int{{0, 3}, {3, 6}, {6, 10}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := buffer.NewBufferFromString(tt.text)
			r := NewReflow(buf, Monospace{}, Options{Width: tt.width, AntiWordBreak: tt.anti})
			if got := spans(collectRows(t, r)); !equalSpans(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReflowWideRunes(t *testing.T) {
	// Each CJK rune is two cells wide.
	buf := buffer.NewBufferFromString("一丁丂")
	r := NewReflow(buf, Monospace{}, Options{Width: 4})

	got := spans(collectRows(t, r))
	want := [][2]int{{0, 2}, {2, 3}}
	if !equalSpans(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestReflowLeadingTrailingFlags(t *testing.T) {
	buf := buffer.NewBufferFromString("aaaaaaa\nbb")
	r := NewReflow(buf, Monospace{}, Options{Width: 3})

	rows := collectRows(t, r)
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}
	flags := [][2]bool{{true, false}, {false, false}, {false, true}, {true, true}}
	for i, r := range rows {
		if r.Leading != flags[i][0] || r.Trailing != flags[i][1] {
			t.Errorf("row %d: leading=%v trailing=%v", i, r.Leading, r.Trailing)
		}
	}
	if r.RowCountForLine(0) != 3 || r.RowCountForLine(1) != 1 || r.RowCountForLine(2) != 0 {
		t.Error("unexpected per-line row counts")
	}
	if got := r.Breaks(0); len(got) != 2 || got[0] != 3 || got[1] != 6 {
		t.Errorf("unexpected breaks %v", got)
	}
}

func TestReflowRebuildIsIdempotent(t *testing.T) {
	buf := buffer.NewBufferFromString("the quick brown fox\njumps over\nthe lazy dog")
	r := NewReflow(buf, Monospace{}, Options{Width: 7, AntiWordBreak: true})

	before := collectRows(t, r)
	r.Rebuild(0, 2)
	first := collectRows(t, r)
	r.Rebuild(0, 2)
	second := collectRows(t, r)
	if !equalRows(before, first) || !equalRows(first, second) {
		t.Error("rebuilding without edits changed the rows")
	}
	if got := r.Rebuild(5, 9); got.End >= got.Start {
		t.Errorf("rebuild of missing lines should be a no-op, got %+v", got)
	}
}

func TestReflowIncrementalMatchesFull(t *testing.T) {
	buf := buffer.NewBufferFromString("short\na much longer line of words\nend")
	opts := Options{Width: 8, AntiWordBreak: true}
	r := NewReflow(buf, Monospace{}, opts)

	end, err := buf.Insert(buffer.Position{Line: 1, Column: 6}, "wrapped\ntext and more ")
	if err != nil {
		t.Fatal(err)
	}
	rng := r.AfterInsert(1, end.Line)
	if rng.Start != 1 || rng.End < end.Line {
		t.Errorf("unexpected rebuilt range %+v", rng)
	}
	if !equalRows(collectRows(t, r), collectRows(t, NewReflow(buf, Monospace{}, opts))) {
		t.Fatal("rows after insert differ from a full rebuild")
	}

	if _, err := buf.Delete(buffer.Position{Line: 0, Column: 2}, buffer.Position{Line: 2, Column: 3}); err != nil {
		t.Fatal(err)
	}
	r.AfterDelete(0, 2)
	if !equalRows(collectRows(t, r), collectRows(t, NewReflow(buf, Monospace{}, opts))) {
		t.Fatal("rows after delete differ from a full rebuild")
	}
}

func TestReflowRowForPosition(t *testing.T) {
	buf := buffer.NewBufferFromString("abcdefghij\nxy")
	r := NewReflow(buf, Monospace{}, Options{Width: 4})

	tests := []struct {
		line, col, want int
	}{
		{0, 0, 0},
		{0, 3, 0},
		{0, 4, 1},
		{0, 9, 2},
		{0, 10, 2},
		{1, 1, 3},
	}
	for _, tt := range tests {
		got, err := r.RowForPosition(tt.line, tt.col)
		if err != nil {
			t.Fatalf("RowForPosition(%d,%d): %v", tt.line, tt.col, err)
		}
		if got != tt.want {
			t.Errorf("RowForPosition(%d,%d) = %d, want %d", tt.line, tt.col, got, tt.want)
		}
	}
	if _, err := r.RowForPosition(2, 0); !errors.Is(err, buffer.ErrPositionOutOfBounds) {
		t.Errorf("expected ErrPositionOutOfBounds, got %v", err)
	}
	if _, err := r.RowAt(-1); !errors.Is(err, ErrRowIndexOutOfBounds) {
		t.Errorf("expected ErrRowIndexOutOfBounds, got %v", err)
	}
}

func TestRowIteratorRestart(t *testing.T) {
	buf := buffer.NewBufferFromString("a\nb\nc\nd")
	it := NewFixed(buf, false).Iterator(2)

	var first []int
	for r, ok := it.Next(); ok; r, ok = it.Next() {
		first = append(first, r.Line)
	}
	it.Reset()
	var second []int
	for r, ok := it.Next(); ok; r, ok = it.Next() {
		second = append(second, r.Line)
	}
	if len(first) != 2 || first[0] != 2 || len(second) != 2 || second[1] != 3 {
		t.Errorf("unexpected iteration %v then %v", first, second)
	}
}

func TestReflowRTL(t *testing.T) {
	buf := buffer.NewBufferFromString("שלום abc\nhello")
	r := NewReflow(buf, Monospace{}, Options{Width: 40, RTLAware: true})

	rows := collectRows(t, r)
	if !rows[0].RTL || rows[1].RTL {
		t.Errorf("expected only the first line to be RTL, got %v %v", rows[0].RTL, rows[1].RTL)
	}
}

func TestInstallDiscardsStaleJob(t *testing.T) {
	buf := buffer.NewBufferFromString("one two three\nfour")
	r := NewReflow(buf, Monospace{}, Options{Width: 4})

	job := r.Prepare()
	snap := buf.Snapshot()
	if _, err := buf.Insert(buffer.Position{Line: 1, Column: 0}, "x"); err != nil {
		t.Fatal(err)
	}
	r.AfterInsert(1, 1)
	if r.Install(job.Run(snap)) {
		t.Error("expected stale table to be rejected")
	}

	fresh := r.Prepare()
	if !r.Install(fresh.Run(buf.Snapshot())) {
		t.Error("expected current table to be installed")
	}
}

func TestUpDown(t *testing.T) {
	buf := buffer.NewBufferFromString("abcdefgh\nxy")
	r := NewReflow(buf, Monospace{}, Options{Width: 4})

	line, col, err := Down(r, 0, 2)
	if err != nil || line != 0 || col != 6 {
		t.Errorf("Down(0,2) = (%d,%d) %v, want (0,6)", line, col, err)
	}
	line, col, _ = Down(r, 0, 7)
	if line != 1 || col != 2 {
		t.Errorf("Down(0,7) = (%d,%d), want (1,2)", line, col)
	}
	line, col, _ = Up(r, 1, 1)
	if line != 0 || col != 5 {
		t.Errorf("Up(1,1) = (%d,%d), want (0,5)", line, col)
	}
	line, col, _ = Up(r, 0, 3)
	if line != 0 || col != 0 {
		t.Errorf("Up(0,3) = (%d,%d), want (0,0)", line, col)
	}
}

func TestGeometryRoundTrip(t *testing.T) {
	buf := buffer.NewBufferFromString("abcdefgh\nxy")
	r := NewReflow(buf, Monospace{}, Options{Width: 4})
	g := Geometry{Layout: r, Lines: buf, Measurer: Monospace{}, RowHeight: 2, Width: 4}

	x, y, err := g.PositionToPoint(0, 5)
	if err != nil {
		t.Fatal(err)
	}
	if x != 1 || y != 2 {
		t.Errorf("PositionToPoint(0,5) = (%v,%v), want (1,2)", x, y)
	}
	if line, col := g.PointToPosition(x, y); line != 0 || col != 5 {
		t.Errorf("PointToPosition(%v,%v) = (%d,%d), want (0,5)", x, y, line, col)
	}
	if line, col := g.PointToPosition(100, 100); line != 1 || col != 2 {
		t.Errorf("far point should clamp to end, got (%d,%d)", line, col)
	}
	if line, col := g.PointToPosition(10, 0); line != 0 || col != 3 {
		t.Errorf("point past a wrapped row should stay on that row, got (%d,%d)", line, col)
	}
}

func TestMonospaceTabs(t *testing.T) {
	got := Monospace{TabWidth: 4}.Measure(0, []rune("a\tb\t"))
	want := []float64{1, 3, 1, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Measure = %v, want %v", got, want)
		}
	}
}

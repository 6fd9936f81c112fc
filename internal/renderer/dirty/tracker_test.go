package dirty

import (
	"sync"
	"testing"
)

func TestRegionMerge(t *testing.T) {
	tests := []struct {
		name string
		a, b Region
		want Region
		ok   bool
	}{
		{"overlap", NewRegion(1, 4), NewRegion(3, 6), NewRegion(1, 6), true},
		{"adjacent", NewRegion(1, 2), NewRegion(3, 3), NewRegion(1, 3), true},
		{"disjoint", NewRegion(1, 2), NewRegion(4, 5), NewRegion(1, 2), false},
		{"open", NewRegion(5, ToEnd), NewRegion(2, 4), NewRegion(2, ToEnd), true},
		{"open contains", NewRegion(2, ToEnd), NewRegion(9, 12), NewRegion(2, ToEnd), true},
		{"before open", NewRegion(0, 1), NewRegion(5, ToEnd), NewRegion(0, 1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.a.Merge(tt.b)
			if ok != tt.ok || got != tt.want {
				t.Errorf("Merge = %v, %v; want %v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestRegionClamp(t *testing.T) {
	r := NewRegion(3, ToEnd).Clamp(10)
	if r.StartLine != 3 || r.EndLine != 9 {
		t.Errorf("Clamp = %v, want [3..9]", r)
	}
	if !NewRegion(0, 5).Clamp(0).IsEmpty() {
		t.Error("clamping to an empty document should give an empty region")
	}
	if got := NewRegion(7, 2); got.StartLine != 2 || got.EndLine != 7 {
		t.Errorf("reversed bounds not swapped: %v", got)
	}
}

func TestTrackerCoalesces(t *testing.T) {
	tr := NewTracker()
	tr.MarkLine(2)
	tr.MarkLine(8)
	tr.MarkLines(3, 7)

	regions, full := tr.Flush()
	if full {
		t.Fatal("unexpected full redraw")
	}
	if len(regions) != 1 || regions[0] != NewRegion(2, 8) {
		t.Errorf("expected one region [2..8], got %v", regions)
	}
	if tr.IsDirty() {
		t.Error("tracker should be clean after Flush")
	}
}

func TestTrackerMarkFrom(t *testing.T) {
	tr := NewTracker()
	tr.MarkLine(1)
	tr.MarkFrom(4)
	tr.MarkLine(20)

	if !tr.IsLineDirty(100) {
		t.Error("line after an open region should be dirty")
	}
	if tr.IsLineDirty(2) {
		t.Error("line 2 should be clean")
	}
	if got := tr.Regions(); len(got) != 2 || got[0] != NewRegion(1, 1) || !got[1].IsOpen() {
		t.Errorf("unexpected regions %v", got)
	}

	tr.MarkFrom(0)
	if _, full := tr.Flush(); !full {
		t.Error("marking from line 0 should request a full redraw")
	}
}

func TestTrackerMaxRegions(t *testing.T) {
	tr := NewTracker()
	tr.SetMaxRegions(2)
	tr.MarkLine(0)
	tr.MarkLine(2)
	tr.MarkLine(4)

	if !tr.NeedsFullRedraw() {
		t.Error("exceeding max regions should force a full redraw")
	}
	if !tr.IsLineDirty(99) {
		t.Error("every line is dirty during a full redraw")
	}
	tr.Clear()
	if tr.IsDirty() {
		t.Error("Clear should reset the tracker")
	}
}

func TestTrackerConcurrentMarks(t *testing.T) {
	tr := NewTracker()
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func(line int) {
			defer wg.Done()
			tr.MarkLine(line)
		}(i)
	}
	wg.Wait()

	regions, full := tr.Flush()
	if full || len(regions) != 1 || regions[0] != NewRegion(0, 7) {
		t.Errorf("expected [0..7], got %v full=%v", regions, full)
	}
}

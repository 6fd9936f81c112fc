package linecache

import (
	"testing"

	"github.com/dshills/inkwell/internal/renderer/layout"
)

func fill(c *Cache, line int, hash uint64, adv ...float64) {
	c.Commit(c.Begin(line, hash), adv)
}

func TestLookupAfterCommit(t *testing.T) {
	c := New(DefaultConfig())
	fill(c, 3, 7, 1, 2, 3)

	e, ok := c.Lookup(3, 7)
	if !ok {
		t.Fatal("expected hit")
	}
	if e.Width(0, 3) != 6 || e.Width(1, 2) != 2 || e.Width(-5, 99) != 6 {
		t.Errorf("unexpected widths %v %v %v", e.Width(0, 3), e.Width(1, 2), e.Width(-5, 99))
	}
	if _, ok := c.Lookup(3, 8); ok {
		t.Error("expected miss for a different style hash")
	}
}

func TestNoStaleHitAfterTouch(t *testing.T) {
	c := New(DefaultConfig())
	fill(c, 0, 1, 1)
	fill(c, 1, 1, 1)

	c.Touch(1, 1, 5)
	if _, ok := c.Lookup(1, 1); ok {
		t.Error("touched line must miss")
	}
	if _, ok := c.Lookup(0, 1); !ok {
		t.Error("untouched line should still hit")
	}

	fill(c, 1, 1, 2)
	if e, ok := c.Lookup(1, 1); !ok || e.Timestamp != 5 {
		t.Errorf("expected fresh entry at timestamp 5, got %+v %v", e, ok)
	}
}

func TestBumpGlobalInvalidatesAll(t *testing.T) {
	c := New(DefaultConfig())
	for line := 0; line < 10; line++ {
		fill(c, line, 0, 1)
	}

	c.BumpGlobal(3)
	for line := 0; line < 10; line++ {
		if _, ok := c.Lookup(line, 0); ok {
			t.Fatalf("line %d should miss after a global bump", line)
		}
	}
	if c.Stamp(4) != 3 {
		t.Errorf("expected effective stamp 3, got %d", c.Stamp(4))
	}
}

func TestCommitDiscardedWhenTouchedMidway(t *testing.T) {
	c := New(DefaultConfig())

	ticket := c.Begin(2, 0)
	c.Touch(2, 2, 9)
	if c.Commit(ticket, []float64{1}) {
		t.Error("commit after touch should be discarded")
	}
	if _, ok := c.Lookup(2, 0); ok {
		t.Error("discarded result must not be cached")
	}

	older := c.Begin(2, 0)
	newer := c.Begin(2, 0)
	if c.Commit(older, []float64{1}) {
		t.Error("superseded ticket should be discarded")
	}
	if !c.Commit(newer, []float64{1}) {
		t.Error("newest ticket should commit")
	}
	if c.Stats().Discarded != 2 {
		t.Errorf("expected 2 discards, got %d", c.Stats().Discarded)
	}
}

func TestShiftLines(t *testing.T) {
	c := New(DefaultConfig())
	for line := 0; line < 5; line++ {
		fill(c, line, 0, float64(line))
	}

	c.ShiftLines(2, 3)
	if e, ok := c.Lookup(5, 0); !ok || e.Advances[0] != 2 || e.Line != 5 {
		t.Errorf("line 2 should have moved to 5, got %+v %v", e, ok)
	}
	if _, ok := c.Lookup(2, 0); ok {
		t.Error("line 2 should now be empty")
	}

	c.ShiftLines(1, -4)
	if e, ok := c.Lookup(1, 0); !ok || e.Advances[0] != 2 {
		t.Errorf("expected old line 2 at line 1, got %+v %v", e, ok)
	}
	if e, ok := c.Lookup(0, 0); !ok || e.Advances[0] != 0 {
		t.Errorf("line 0 should be unchanged, got %+v %v", e, ok)
	}
	if c.Size() != 4 {
		t.Errorf("expected 4 entries, got %d", c.Size())
	}
}

func TestEviction(t *testing.T) {
	c := New(Config{MaxLines: 4, EvictionBatchSize: 2})
	for line := 0; line < 4; line++ {
		fill(c, line, 0, 1)
	}
	c.Lookup(0, 0)
	fill(c, 4, 0, 1)

	if c.Size() != 3 {
		t.Errorf("expected 3 entries after batch eviction, got %d", c.Size())
	}
	if _, ok := c.Lookup(0, 0); !ok {
		t.Error("recently used line should survive eviction")
	}
	if c.Stats().Evictions != 2 {
		t.Errorf("expected 2 evictions, got %d", c.Stats().Evictions)
	}
}

func TestInvalidateAndResetStats(t *testing.T) {
	c := New(DefaultConfig())
	for line := 0; line < 6; line++ {
		fill(c, line, 0, 1)
	}
	c.Invalidate(1, 2)
	c.Invalidate(4, 1000)
	for line, want := range []bool{true, false, false, true, false, false} {
		if _, ok := c.Lookup(line, 0); ok != want {
			t.Errorf("line %d cached = %v, want %v", line, ok, want)
		}
	}
	if c.Size() != 2 {
		t.Errorf("expected 2 entries, got %d", c.Size())
	}

	if s := c.Stats(); s.Hits == 0 || s.Misses == 0 {
		t.Fatalf("expected hits and misses before reset, got %+v", s)
	}
	c.ResetStats()
	if s := c.Stats(); s != (Stats{Size: 2}) {
		t.Errorf("stats after reset = %+v", s)
	}
}

func TestMeasurerUsesCache(t *testing.T) {
	c := New(DefaultConfig())
	style := uint64(1)
	m := NewMeasurer(c, layout.Monospace{}, func(int) uint64 { return style })
	text := []rune("abc")

	m.Measure(0, text)
	m.Measure(0, text)
	if s := c.Stats(); s.Hits != 1 {
		t.Errorf("expected one hit, got %+v", s)
	}

	style = 2
	m.Measure(0, text)
	if s := c.Stats(); s.Hits != 1 {
		t.Errorf("style change should miss, got %+v", s)
	}
	if e := m.Entry(0, text); e.Width(0, 3) != 3 {
		t.Errorf("expected width 3, got %v", e.Width(0, 3))
	}
}

package dirty

import (
	"slices"
	"sync"
)

// Tracker collects dirty line regions between frames.
type Tracker struct {
	mu sync.RWMutex

	regions []Region

	// full indicates the whole document needs redrawing.
	full bool

	// maxRegions is the region count above which the tracker falls back
	// to a full redraw.
	maxRegions int
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		regions:    make([]Region, 0, 16),
		maxRegions: 32,
	}
}

// SetMaxRegions sets the maximum number of regions before forcing a full
// redraw. Values less than 1 are clamped to 1.
func (t *Tracker) SetMaxRegions(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.maxRegions = max(n, 1)
}

// MarkLine marks a single line dirty.
func (t *Tracker) MarkLine(line int) {
	t.MarkLines(line, line)
}

// MarkLines marks lines [startLine, endLine] dirty.
func (t *Tracker) MarkLines(startLine, endLine int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.addLocked(NewRegion(startLine, endLine))
}

// MarkFrom marks startLine and every line after it dirty. Used when an
// edit changes the line count.
func (t *Tracker) MarkFrom(startLine int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.addLocked(NewRegion(startLine, ToEnd))
}

// MarkAll requests a full redraw.
func (t *Tracker) MarkAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.full = true
	t.regions = t.regions[:0]
}

func (t *Tracker) addLocked(r Region) {
	if t.full || r.IsEmpty() {
		return
	}
	if r.StartLine == 0 && r.IsOpen() {
		t.full = true
		t.regions = t.regions[:0]
		return
	}
	for i := range t.regions {
		if merged, ok := t.regions[i].Merge(r); ok {
			t.regions[i] = merged
			t.coalesceLocked()
			return
		}
	}
	t.regions = append(t.regions, r)
	if len(t.regions) > t.maxRegions {
		t.full = true
		t.regions = t.regions[:0]
	}
}

// coalesceLocked merges regions that overlap after a merge grew one of them.
func (t *Tracker) coalesceLocked() {
	if len(t.regions) <= 1 {
		return
	}
	slices.SortFunc(t.regions, func(a, b Region) int { return a.StartLine - b.StartLine })
	out := t.regions[:1]
	for _, r := range t.regions[1:] {
		last := &out[len(out)-1]
		if merged, ok := last.Merge(r); ok {
			*last = merged
			continue
		}
		out = append(out, r)
	}
	t.regions = out
}

// IsDirty reports whether anything needs redrawing.
func (t *Tracker) IsDirty() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.full || len(t.regions) > 0
}

// NeedsFullRedraw reports whether a full redraw was requested.
func (t *Tracker) NeedsFullRedraw() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.full
}

// IsLineDirty reports whether line needs redrawing.
func (t *Tracker) IsLineDirty(line int) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.full {
		return true
	}
	for _, r := range t.regions {
		if r.ContainsLine(line) {
			return true
		}
	}
	return false
}

// Regions returns a sorted copy of the pending regions.
func (t *Tracker) Regions() []Region {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.sortedLocked()
}

func (t *Tracker) sortedLocked() []Region {
	out := slices.Clone(t.regions)
	slices.SortFunc(out, func(a, b Region) int { return a.StartLine - b.StartLine })
	return out
}

// Flush returns the pending regions and whether a full redraw is needed,
// then clears the tracker.
func (t *Tracker) Flush() ([]Region, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	regions, full := t.sortedLocked(), t.full
	if full {
		regions = nil
	}
	t.regions = t.regions[:0]
	t.full = false
	return regions, full
}

// Clear drops all pending regions.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.regions = t.regions[:0]
	t.full = false
}

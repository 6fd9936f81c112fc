package linecache

import "github.com/dshills/inkwell/internal/renderer/layout"

// StyleHasher returns the style hash of a line.
type StyleHasher func(line int) uint64

// Measurer is a layout.Measurer backed by the cache.
type Measurer struct {
	cache *Cache
	base  layout.Measurer
	hash  StyleHasher
}

// NewMeasurer wraps base with cache. hash may be nil when no styling
// affects measurement.
func NewMeasurer(cache *Cache, base layout.Measurer, hash StyleHasher) *Measurer {
	if hash == nil {
		hash = func(int) uint64 { return 0 }
	}
	return &Measurer{cache: cache, base: base, hash: hash}
}

// Base returns the wrapped measurer.
func (m *Measurer) Base() layout.Measurer {
	return m.base
}

// Measure implements layout.Measurer.
func (m *Measurer) Measure(line int, text []rune) []float64 {
	h := m.hash(line)
	if e, ok := m.cache.Lookup(line, h); ok && len(e.Advances) == len(text) {
		return e.Advances
	}
	t := m.cache.Begin(line, h)
	adv := m.base.Measure(line, text)
	m.cache.Commit(t, adv)
	return adv
}

// Entry returns the valid cache entry for line, measuring text on a miss.
func (m *Measurer) Entry(line int, text []rune) *Entry {
	h := m.hash(line)
	if e, ok := m.cache.Lookup(line, h); ok && len(e.Advances) == len(text) {
		return e
	}
	t := m.cache.Begin(line, h)
	adv := m.base.Measure(line, text)
	if m.cache.Commit(t, adv) {
		if e, ok := m.cache.Lookup(line, h); ok {
			return e
		}
	}
	return newEntry(line, t.Timestamp, h, adv)
}

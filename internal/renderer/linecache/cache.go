package linecache

import (
	"sort"
	"sync"
	"sync/atomic"
)

// Config configures the cache.
type Config struct {
	// MaxLines is the maximum number of cached lines.
	MaxLines int

	// EvictionBatchSize is the number of entries evicted at once.
	EvictionBatchSize int
}

// DefaultConfig returns the default cache configuration.
func DefaultConfig() Config {
	return Config{
		MaxLines:          2000,
		EvictionBatchSize: 50,
	}
}

// Ticket identifies one in-flight measurement started with Begin.
type Ticket struct {
	Line      int
	Timestamp uint64
	StyleHash uint64
	seq       uint64
}

// Stats reports cache effectiveness.
type Stats struct {
	Size      int
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Discarded uint64
}

// Cache is a per-line measurement cache. It is safe for concurrent use.
type Cache struct {
	mu     sync.Mutex
	config Config

	entries map[int]*Entry

	// stamps holds per-line timestamps for lines that have an entry or a
	// pending ticket. Other lines use the global stamp.
	stamps map[int]uint64
	global uint64

	// pending maps a line to the seq of its newest Begin.
	pending map[int]uint64
	seq     uint64
	tick    uint64

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
	discarded atomic.Uint64
}

// New creates a cache.
func New(config Config) *Cache {
	if config.MaxLines <= 0 {
		config.MaxLines = DefaultConfig().MaxLines
	}
	if config.EvictionBatchSize <= 0 {
		config.EvictionBatchSize = DefaultConfig().EvictionBatchSize
	}
	return &Cache{
		config:  config,
		entries: make(map[int]*Entry),
		stamps:  make(map[int]uint64),
		pending: make(map[int]uint64),
	}
}

// Stamp returns the effective timestamp of line.
func (c *Cache) Stamp(line int) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stampLocked(line)
}

func (c *Cache) stampLocked(line int) uint64 {
	return max(c.stamps[line], c.global)
}

// Touch marks lines [startLine, endLine] as changed at timestamp ts.
// Entries for those lines become stale and in-flight measurements of them
// will be discarded.
func (c *Cache) Touch(startLine, endLine int, ts uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if endLine-startLine+1 > len(c.entries)+len(c.pending) {
		for line := range c.entries {
			if line >= startLine && line <= endLine {
				c.stamps[line] = ts
			}
		}
		for line := range c.pending {
			if line >= startLine && line <= endLine {
				c.stamps[line] = ts
			}
		}
		return
	}
	for line := startLine; line <= endLine; line++ {
		if _, ok := c.entries[line]; ok {
			c.stamps[line] = ts
		} else if _, ok := c.pending[line]; ok {
			c.stamps[line] = ts
		}
	}
}

// BumpGlobal invalidates every entry at once by raising the global stamp.
func (c *Cache) BumpGlobal(ts uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ts <= c.global {
		return
	}
	c.global = ts
	clear(c.stamps)
}

// Lookup returns the entry for line if it is valid for the current
// timestamp and styleHash.
func (c *Cache) Lookup(line int, styleHash uint64) (*Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[line]
	if !ok || e.Timestamp != c.stampLocked(line) || e.StyleHash != styleHash {
		c.misses.Add(1)
		return nil, false
	}
	c.tick++
	e.lastAccess = c.tick
	c.hits.Add(1)
	return e, true
}

// Begin starts measuring line for styleHash.
func (c *Cache) Begin(line int, styleHash uint64) Ticket {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	c.pending[line] = c.seq
	return Ticket{Line: line, Timestamp: c.stampLocked(line), StyleHash: styleHash, seq: c.seq}
}

// Commit stores the measurement for t. It returns false and discards the
// result if the line was touched or measured again since Begin.
func (c *Cache) Commit(t Ticket, advances []float64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending[t.Line] != t.seq {
		c.discarded.Add(1)
		return false
	}
	delete(c.pending, t.Line)
	if c.stampLocked(t.Line) != t.Timestamp {
		c.discarded.Add(1)
		c.dropStampLocked(t.Line)
		return false
	}
	e := newEntry(t.Line, t.Timestamp, t.StyleHash, advances)
	c.tick++
	e.lastAccess = c.tick
	c.entries[t.Line] = e
	if t.Timestamp > c.global {
		c.stamps[t.Line] = t.Timestamp
	}
	c.evictIfNeeded()
	return true
}

// Invalidate drops the entries for lines [startLine, endLine].
func (c *Cache) Invalidate(startLine, endLine int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if endLine-startLine < len(c.entries) {
		for line := startLine; line <= endLine; line++ {
			c.dropLocked(line)
		}
		return
	}
	for line := range c.entries {
		if line >= startLine && line <= endLine {
			c.dropLocked(line)
		}
	}
}

func (c *Cache) dropLocked(line int) {
	if _, ok := c.entries[line]; !ok {
		return
	}
	delete(c.entries, line)
	c.dropStampLocked(line)
}

// ShiftLines renumbers entries after a line-count change. For delta > 0,
// lines at or after fromLine move down by delta. For delta < 0, lines
// [fromLine, fromLine-delta) are dropped and later lines move up.
func (c *Cache) ShiftLines(fromLine, delta int) {
	if delta == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	removedEnd := fromLine
	if delta < 0 {
		removedEnd = fromLine - delta
	}
	move := func(line int) (int, bool) {
		switch {
		case line < fromLine:
			return line, true
		case line < removedEnd:
			return 0, false
		default:
			return line + delta, true
		}
	}

	entries := make(map[int]*Entry, len(c.entries))
	for line, e := range c.entries {
		if nl, ok := move(line); ok {
			e.Line = nl
			entries[nl] = e
		}
	}
	stamps := make(map[int]uint64, len(c.stamps))
	for line, ts := range c.stamps {
		if nl, ok := move(line); ok {
			stamps[nl] = ts
		}
	}
	pending := make(map[int]uint64, len(c.pending))
	for line, seq := range c.pending {
		if nl, ok := move(line); ok {
			pending[nl] = seq
		}
	}
	c.entries, c.stamps, c.pending = entries, stamps, pending
}

// Clear removes all entries. Pending tickets are discarded on commit.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
	clear(c.stamps)
	clear(c.pending)
}

// Size returns the number of cached lines.
func (c *Cache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns cache statistics.
func (c *Cache) Stats() Stats {
	return Stats{
		Size:      c.Size(),
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Discarded: c.discarded.Load(),
	}
}

// ResetStats clears the counters.
func (c *Cache) ResetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.evictions.Store(0)
	c.discarded.Store(0)
}

func (c *Cache) dropStampLocked(line int) {
	if _, ok := c.entries[line]; ok {
		return
	}
	if _, ok := c.pending[line]; ok {
		return
	}
	delete(c.stamps, line)
}

// evictIfNeeded removes the least recently used entries in a batch once
// the cache is over capacity. Must be called with mu held.
func (c *Cache) evictIfNeeded() {
	if len(c.entries) <= c.config.MaxLines {
		return
	}
	type aged struct {
		line int
		tick uint64
	}
	all := make([]aged, 0, len(c.entries))
	for line, e := range c.entries {
		all = append(all, aged{line, e.lastAccess})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].tick < all[j].tick })

	n := len(c.entries) - c.config.MaxLines + c.config.EvictionBatchSize - 1
	n = min(n, len(all))
	for _, a := range all[:n] {
		delete(c.entries, a.line)
		c.dropStampLocked(a.line)
		c.evictions.Add(1)
	}
}

package tracking

import (
	"sync"

	"github.com/dshills/inkwell/internal/annotate"
)

// DefaultMaxChanges is the default journal capacity.
const DefaultMaxChanges = 1024

// Kind categorizes a journaled change.
type Kind uint8

const (
	// KindInsert indicates text was inserted.
	KindInsert Kind = iota

	// KindDelete indicates text was deleted.
	KindDelete
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindInsert:
		return "insert"
	case KindDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Change is one journaled edit.
type Change struct {
	Kind       Kind
	Change     annotate.Change
	Generation uint64
}

// Apply replays the change on store.
func (c Change) Apply(store annotate.Store) error {
	if c.Kind == KindInsert {
		return store.ShiftOnInsert(c.Change)
	}
	return store.ShiftOnDelete(c.Change)
}

// Journal records recent changes. All operations are thread-safe.
type Journal struct {
	mu sync.RWMutex

	changes    []Change
	head       int // index of oldest entry
	count      int
	maxChanges int

	// base is the generation the window starts from. Changes after base
	// are all present.
	base uint64
}

// New creates a journal whose window starts at generation base.
func New(base uint64, maxChanges int) *Journal {
	if maxChanges <= 0 {
		maxChanges = DefaultMaxChanges
	}
	return &Journal{
		changes:    make([]Change, maxChanges),
		maxChanges: maxChanges,
		base:       base,
	}
}

// Record appends a change, evicting the oldest one when full.
func (j *Journal) Record(c Change) {
	j.mu.Lock()
	defer j.mu.Unlock()

	idx := (j.head + j.count) % j.maxChanges
	if j.count < j.maxChanges {
		j.count++
	} else {
		j.base = j.changes[j.head].Generation
		j.head = (j.head + 1) % j.maxChanges
	}
	j.changes[idx] = c
}

// Since returns the changes made after generation gen in chronological
// order. It returns false if gen is older than the window start or newer
// than the latest recorded change.
func (j *Journal) Since(gen uint64) ([]Change, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if gen < j.base || gen > j.latestLocked() {
		return nil, false
	}
	var result []Change
	for i := 0; i < j.count; i++ {
		c := j.changes[(j.head+i)%j.maxChanges]
		if c.Generation > gen {
			result = append(result, c)
		}
	}
	return result, true
}

// Covers reports whether Since(gen) would succeed.
func (j *Journal) Covers(gen uint64) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return gen >= j.base && gen <= j.latestLocked()
}

// Latest returns the generation of the newest change, or the window start
// if the journal is empty.
func (j *Journal) Latest() uint64 {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.latestLocked()
}

func (j *Journal) latestLocked() uint64 {
	if j.count == 0 {
		return j.base
	}
	return j.changes[(j.head+j.count-1)%j.maxChanges].Generation
}

// Len returns the number of recorded changes.
func (j *Journal) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.count
}

// Reset empties the journal and starts a new window at base.
func (j *Journal) Reset(base uint64) {
	j.mu.Lock()
	defer j.mu.Unlock()
	clear(j.changes)
	j.head = 0
	j.count = 0
	j.base = base
}

package analysis

import "sync"

// Mailbox is a single-slot, latest-wins handoff between one writer and
// one reader. Put never blocks.
type Mailbox[T any] struct {
	mu    sync.Mutex
	val   T
	full  bool
	ready chan struct{}
}

// NewMailbox creates an empty mailbox.
func NewMailbox[T any]() *Mailbox[T] {
	return &Mailbox[T]{ready: make(chan struct{}, 1)}
}

// Put stores v, replacing any value not yet taken. It reports whether a
// value was replaced.
func (m *Mailbox[T]) Put(v T) bool {
	m.mu.Lock()
	replaced := m.full
	m.val = v
	m.full = true
	m.mu.Unlock()

	select {
	case m.ready <- struct{}{}:
	default:
	}
	return replaced
}

// Take removes and returns the stored value.
func (m *Mailbox[T]) Take() (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var zero T
	if !m.full {
		return zero, false
	}
	v := m.val
	m.val = zero
	m.full = false
	return v, true
}

// Ready is signalled after Put. A signal may be stale if the value was
// already taken, so readers must check Take's second result.
func (m *Mailbox[T]) Ready() <-chan struct{} {
	return m.ready
}

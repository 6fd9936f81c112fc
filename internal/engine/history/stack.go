package history

import (
	"errors"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dshills/inkwell/internal/engine/buffer"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
	ErrReplaying     = errors.New("history replay in progress")
)

// DefaultMaxEntries is used when New is given a non-positive limit.
const DefaultMaxEntries = 1000

// DefaultMergeWindow is how long consecutive typing joins one entry.
const DefaultMergeWindow = 8 * time.Second

// maxMergeRunes bounds the text a merged entry may hold.
const maxMergeRunes = 10000

// History manages undo/redo state for a buffer.
type History struct {
	mu sync.Mutex

	undoStack []*Entry
	redoStack []*Entry

	// Grouping state. depth counts nested BeginGroup calls.
	depth     int
	groupName string
	groupOps  []Operation

	replaying bool

	maxEntries int

	// The top entry accepts continuing operations while mergeable is set
	// and the entry is younger than mergeWindow. Zero disables merging.
	mergeWindow time.Duration
	mergeable   bool
}

// New creates a history holding at most maxEntries undo units.
func New(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &History{maxEntries: maxEntries}
}

// Record adds an operation. Inside a group it joins the group's entry;
// otherwise it extends the top entry when it continues it, or becomes its
// own entry. The redo stack is cleared. Operations recorded during Undo
// or Redo are ignored.
func (h *History) Record(op Operation) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.replaying {
		return
	}
	if h.depth > 0 {
		h.groupOps = append(h.groupOps, op)
		return
	}
	h.recordLocked("", op)
}

func (h *History) recordLocked(name string, op Operation) {
	if h.canMergeLocked(op) {
		top := &h.undoStack[len(h.undoStack)-1].Operations[0]
		*top = coalesce(*top, op)
		h.redoStack = nil
		return
	}
	h.pushLocked(&Entry{Name: name, Operations: []Operation{op}, Timestamp: op.Timestamp})
	h.mergeable = true
}

// canMergeLocked reports whether op continues the top entry: an insert
// starting where the previous insert ended, or a delete ending where the
// previous delete started (backspace) or starting at the same place
// (forward delete).
func (h *History) canMergeLocked(op Operation) bool {
	if !h.mergeable || h.mergeWindow <= 0 || len(h.undoStack) == 0 {
		return false
	}
	top := h.undoStack[len(h.undoStack)-1]
	if len(top.Operations) != 1 {
		return false
	}
	last := top.Operations[0].Mutation
	m := op.Mutation
	if m.Kind != last.Kind || op.Timestamp.Sub(top.Timestamp) >= h.mergeWindow {
		return false
	}
	if utf8.RuneCountInString(last.Text)+utf8.RuneCountInString(m.Text) >= maxMergeRunes {
		return false
	}
	if m.Kind == buffer.MutationInsert {
		return m.Start == last.End
	}
	return m.End == last.Start || m.Start == last.Start
}

// coalesce folds next into prev, which canMergeLocked has accepted.
func coalesce(prev, next Operation) Operation {
	a, b := prev.Mutation, next.Mutation
	merged := buffer.Mutation{Kind: a.Kind, Generation: b.Generation}
	switch {
	case a.Kind == buffer.MutationInsert:
		merged.Start, merged.Text = a.Start, a.Text+b.Text
	case b.End == a.Start && b.Start != a.Start:
		merged.Start, merged.Text = b.Start, b.Text+a.Text
	default:
		merged.Start, merged.Text = a.Start, a.Text+b.Text
	}
	merged.End = advance(merged.Start, merged.Text)
	return Operation{
		Mutation:     merged,
		CursorBefore: prev.CursorBefore,
		CursorAfter:  next.CursorAfter,
		Timestamp:    prev.Timestamp,
	}
}

// advance returns the position just past text inserted at p.
func advance(p buffer.Position, text string) buffer.Position {
	for _, r := range text {
		if r == '\n' {
			p.Line++
			p.Column = 0
			continue
		}
		p.Column++
	}
	return p
}

func (h *History) pushLocked(e *Entry) {
	h.mergeable = false
	h.undoStack = append(h.undoStack, e)
	h.redoStack = nil
	if len(h.undoStack) > h.maxEntries {
		excess := len(h.undoStack) - h.maxEntries
		clear(h.undoStack[:excess])
		h.undoStack = h.undoStack[excess:]
	}
}

// Undo reverts the newest entry through ed and moves it to the redo stack.
func (h *History) Undo(ed Editor) (*Entry, error) {
	h.mu.Lock()
	if h.replaying {
		h.mu.Unlock()
		return nil, ErrReplaying
	}
	if len(h.undoStack) == 0 {
		h.mu.Unlock()
		return nil, ErrNothingToUndo
	}
	entry := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.replaying = true
	h.mergeable = false
	h.mu.Unlock()

	err := entry.undo(ed)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.replaying = false
	if err != nil {
		h.undoStack = append(h.undoStack, entry)
		return nil, err
	}
	h.redoStack = append(h.redoStack, entry)
	return entry, nil
}

// Redo re-applies the newest undone entry.
func (h *History) Redo(ed Editor) (*Entry, error) {
	h.mu.Lock()
	if h.replaying {
		h.mu.Unlock()
		return nil, ErrReplaying
	}
	if len(h.redoStack) == 0 {
		h.mu.Unlock()
		return nil, ErrNothingToRedo
	}
	entry := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.replaying = true
	h.mergeable = false
	h.mu.Unlock()

	err := entry.redo(ed)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.replaying = false
	if err != nil {
		h.redoStack = append(h.redoStack, entry)
		return nil, err
	}
	h.undoStack = append(h.undoStack, entry)
	return entry, nil
}

// CanUndo reports whether there is anything to undo.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack) > 0
}

// CanRedo reports whether there is anything to redo.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack) > 0
}

// UndoCount returns the number of undo entries.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack)
}

// RedoCount returns the number of redo entries.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack)
}

// IsReplaying reports whether Undo or Redo is applying an entry.
func (h *History) IsReplaying() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.replaying
}

// Clear drops all history, including an open group.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.undoStack = nil
	h.redoStack = nil
	h.mergeable = false
	h.depth = 0
	h.groupName = ""
	h.groupOps = nil
}

// SetMaxEntries changes the entry limit, trimming the oldest entries.
func (h *History) SetMaxEntries(n int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if n <= 0 {
		n = DefaultMaxEntries
	}
	h.maxEntries = n
	if len(h.undoStack) > n {
		h.undoStack = h.undoStack[len(h.undoStack)-n:]
	}
}

// SetMergeWindow sets how long an entry keeps absorbing continuing
// operations. Zero or less disables merging.
func (h *History) SetMergeWindow(d time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.mergeWindow = d
}

// Seal stops the top entry from absorbing further operations, for example
// after the caret moves.
func (h *History) Seal() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.mergeable = false
}

// BeginGroup starts grouping operations into one entry. Groups nest; only
// the outermost name is kept.
func (h *History) BeginGroup(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.depth == 0 {
		h.groupName = name
		h.groupOps = nil
	}
	h.depth++
}

// EndGroup closes the innermost group. When the outermost group closes,
// its operations are pushed as a single entry. A group holding one
// operation is recorded like an ungrouped one and may merge.
func (h *History) EndGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.depth == 0 {
		return
	}
	h.depth--
	if h.depth > 0 {
		return
	}
	switch len(h.groupOps) {
	case 0:
	case 1:
		h.recordLocked(h.groupName, h.groupOps[0])
	default:
		h.pushLocked(&Entry{
			Name:       h.groupName,
			Operations: h.groupOps,
			Timestamp:  time.Now(),
		})
	}
	h.groupName = ""
	h.groupOps = nil
}

// CancelGroup discards the open group without creating an entry. The
// edits already applied stay in the buffer.
func (h *History) CancelGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.depth = 0
	h.groupName = ""
	h.groupOps = nil
}

// IsGrouping reports whether a group is open.
func (h *History) IsGrouping() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.depth > 0
}

package index

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/dshills/inkwell/internal/engine/buffer"
)

// ErrOutOfRange is returned for a line, column or character index outside
// the indexed extents. It matches buffer.ErrPositionOutOfBounds.
var ErrOutOfRange = fmt.Errorf("index: %w", buffer.ErrPositionOutOfBounds)

// Indexer maps CharIndex to line/column and back.
type Indexer struct {
	root *node
	rng  *rand.Rand
}

// New creates an indexer for the given line lengths.
func New(lengths []int) *Indexer {
	ix := &Indexer{rng: rand.New(rand.NewPCG(0x1d3b, 0x5eed))}
	ix.Reset(lengths)
	return ix
}

// Reset discards the current state and indexes lengths.
// An empty slice is treated as a single empty line.
func (ix *Indexer) Reset(lengths []int) {
	if len(lengths) == 0 {
		lengths = []int{0}
	}
	ix.root = ix.build(lengths)
}

// LineCount returns the number of indexed lines.
func (ix *Indexer) LineCount() int {
	return count(ix.root)
}

// Len returns the total number of characters, separators included.
func (ix *Indexer) Len() int {
	return span(ix.root) - 1
}

// LineLen returns the indexed length of line.
func (ix *Indexer) LineLen(line int) (int, error) {
	if line < 0 || line >= count(ix.root) {
		return 0, fmt.Errorf("%w: line %d", ErrOutOfRange, line)
	}
	n := ix.root
	for {
		lc := count(n.left)
		switch {
		case line < lc:
			n = n.left
		case line > lc:
			line -= lc + 1
			n = n.right
		default:
			return n.length, nil
		}
	}
}

// OffsetOf returns the CharIndex of (line, column).
func (ix *Indexer) OffsetOf(line, column int) (int, error) {
	if line < 0 || line >= count(ix.root) || column < 0 {
		return 0, fmt.Errorf("%w: (%d:%d)", ErrOutOfRange, line, column)
	}
	acc := 0
	n := ix.root
	for {
		lc := count(n.left)
		switch {
		case line < lc:
			n = n.left
		case line > lc:
			acc += span(n.left) + n.length + 1
			line -= lc + 1
			n = n.right
		default:
			if column > n.length {
				return 0, fmt.Errorf("%w: column %d beyond length %d", ErrOutOfRange, column, n.length)
			}
			return acc + span(n.left) + column, nil
		}
	}
}

// PositionOf returns the line/column of a CharIndex in [0, Len()].
func (ix *Indexer) PositionOf(index int) (buffer.Position, error) {
	if index < 0 || index > ix.Len() {
		return buffer.Position{}, fmt.Errorf("%w: index %d", ErrOutOfRange, index)
	}
	line := 0
	n := ix.root
	for {
		ls := span(n.left)
		if index < ls {
			n = n.left
			continue
		}
		index -= ls
		if index <= n.length {
			return buffer.Position{Line: line + count(n.left), Column: index}, nil
		}
		index -= n.length + 1
		line += count(n.left) + 1
		n = n.right
	}
}

// CharPosition resolves (line, column) into a full CharPosition.
func (ix *Indexer) CharPosition(line, column int) (buffer.CharPosition, error) {
	idx, err := ix.OffsetOf(line, column)
	if err != nil {
		return buffer.CharPosition{}, err
	}
	return buffer.CharPosition{Line: line, Column: column, Index: idx}, nil
}

// CharPositionOf resolves a CharIndex into a full CharPosition.
func (ix *Indexer) CharPositionOf(index int) (buffer.CharPosition, error) {
	p, err := ix.PositionOf(index)
	if err != nil {
		return buffer.CharPosition{}, err
	}
	return buffer.CharPosition{Line: p.Line, Column: p.Column, Index: index}, nil
}

// SetLineLen updates the length of one line.
func (ix *Indexer) SetLineLen(line, length int) error {
	if line < 0 || line >= count(ix.root) {
		return fmt.Errorf("%w: line %d", ErrOutOfRange, line)
	}
	setLength(ix.root, line, length)
	return nil
}

// InsertLines inserts lines with the given lengths before line at.
func (ix *Indexer) InsertLines(at int, lengths []int) error {
	if at < 0 || at > count(ix.root) {
		return fmt.Errorf("%w: line %d", ErrOutOfRange, at)
	}
	if len(lengths) == 0 {
		return nil
	}
	l, r := split(ix.root, at)
	ix.root = merge(merge(l, ix.build(lengths)), r)
	return nil
}

// RemoveLines removes n lines starting at line at.
func (ix *Indexer) RemoveLines(at, n int) error {
	if n == 0 {
		return nil
	}
	if at < 0 || n < 0 || at+n > count(ix.root) {
		return fmt.Errorf("%w: lines [%d,%d)", ErrOutOfRange, at, at+n)
	}
	l, rest := split(ix.root, at)
	_, r := split(rest, n)
	ix.root = merge(l, r)
	return nil
}

// ApplyInsert updates the index after m was inserted. lineLen reports
// post-edit line lengths.
func (ix *Indexer) ApplyInsert(m buffer.Mutation, lineLen func(int) int) error {
	if err := ix.SetLineLen(m.Start.Line, lineLen(m.Start.Line)); err != nil {
		return err
	}
	added := m.End.Line - m.Start.Line
	if added == 0 {
		return nil
	}
	lengths := make([]int, added)
	for i := range lengths {
		lengths[i] = lineLen(m.Start.Line + 1 + i)
	}
	return ix.InsertLines(m.Start.Line+1, lengths)
}

// ApplyDelete updates the index after m was deleted. lineLen reports
// post-edit line lengths.
func (ix *Indexer) ApplyDelete(m buffer.Mutation, lineLen func(int) int) error {
	if err := ix.RemoveLines(m.Start.Line+1, m.End.Line-m.Start.Line); err != nil {
		return err
	}
	return ix.SetLineLen(m.Start.Line, lineLen(m.Start.Line))
}

// build creates a balanced subtree for lengths whose priorities satisfy
// the heap order, so it can be merged like any other treap.
func (ix *Indexer) build(lengths []int) *node {
	nodes := make([]node, len(lengths))
	var rec func(lo, hi int) *node
	rec = func(lo, hi int) *node {
		if lo >= hi {
			return nil
		}
		mid := (lo + hi) / 2
		n := &nodes[mid]
		n.length = lengths[mid]
		n.left = rec(lo, mid)
		n.right = rec(mid+1, hi)
		n.update()
		return n
	}
	root := rec(0, len(lengths))

	prios := make([]uint32, len(lengths))
	for i := range prios {
		prios[i] = ix.rng.Uint32()
	}
	slices.Sort(prios)
	slices.Reverse(prios)

	queue := []*node{root}
	for i := 0; len(queue) > 0; i++ {
		n := queue[0]
		queue = queue[1:]
		n.priority = prios[i]
		if n.left != nil {
			queue = append(queue, n.left)
		}
		if n.right != nil {
			queue = append(queue, n.right)
		}
	}
	return root
}

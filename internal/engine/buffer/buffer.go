package buffer

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Errors returned by buffer operations.
var (
	// ErrPositionOutOfBounds indicates a line, column or character index
	// outside the current buffer extents.
	ErrPositionOutOfBounds = errors.New("position out of bounds")

	// ErrRangeInvalid indicates a range whose end precedes its start.
	ErrRangeInvalid = errors.New("invalid range")
)

// Buffer is a mutable sequence of lines of runes.
type Buffer struct {
	lines      [][]rune
	generation uint64
	listener   Listener

	// lineEnding is used by Text. Unless fixedEnding is set it follows
	// the text the buffer was loaded from.
	lineEnding  LineEnding
	fixedEnding bool
}

// NewBuffer creates a new buffer holding a single empty line.
func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{lines: [][]rune{{}}}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewBufferFromString creates a buffer initialized with text.
func NewBufferFromString(text string, opts ...Option) *Buffer {
	b := NewBuffer(opts...)
	b.load(text)
	return b
}

func (b *Buffer) load(text string) {
	if !b.fixedEnding {
		b.lineEnding = DetectLineEnding(text)
	}
	b.lines = splitLines(NormalizeLineEndings(text))
}

// SetListener sets the mutation listener. Pass nil to remove it.
func (b *Buffer) SetListener(l Listener) {
	b.listener = l
}

// Generation returns the mutation counter. It increases on every edit.
func (b *Buffer) Generation() uint64 {
	return b.generation
}

// LineCount returns the number of lines. An empty buffer has one line.
func (b *Buffer) LineCount() int {
	return len(b.lines)
}

// LineLen returns the length of line in runes, or 0 if line does not exist.
func (b *Buffer) LineLen(line int) int {
	if line < 0 || line >= len(b.lines) {
		return 0
	}
	return len(b.lines[line])
}

// Runes returns the runes of line. The slice must not be modified and is
// only valid until the next mutation.
func (b *Buffer) Runes(line int) []rune {
	if line < 0 || line >= len(b.lines) {
		return nil
	}
	return b.lines[line]
}

// Line returns the text of line without its separator.
func (b *Buffer) Line(line int) string {
	return string(b.Runes(line))
}

// Len returns the total number of characters, counting one per separator.
func (b *Buffer) Len() int {
	n := len(b.lines) - 1
	for _, l := range b.lines {
		n += len(l)
	}
	return n
}

// LineEnding returns the buffer's line ending style.
func (b *Buffer) LineEnding() LineEnding {
	return b.lineEnding
}

// SetLineEnding sets the style Text uses and keeps it across Replace.
func (b *Buffer) SetLineEnding(le LineEnding) {
	b.lineEnding = le
	b.fixedEnding = true
}

// Text returns the full buffer text joined with the buffer's line ending.
func (b *Buffer) Text() string {
	sep := b.lineEnding.Sequence()
	var sb strings.Builder
	for i, l := range b.lines {
		if i > 0 {
			sb.WriteString(sep)
		}
		sb.WriteString(string(l))
	}
	return sb.String()
}

// Validate returns an error if p is not a valid position in the buffer.
func (b *Buffer) Validate(p Position) error {
	if p.Line < 0 || p.Line >= len(b.lines) || p.Column < 0 || p.Column > len(b.lines[p.Line]) {
		return fmt.Errorf("%w: %s", ErrPositionOutOfBounds, p)
	}
	return nil
}

// Slice returns the text in [start, end).
func (b *Buffer) Slice(start, end Position) (string, error) {
	if err := b.checkRange(start, end); err != nil {
		return "", err
	}
	if start.Line == end.Line {
		return string(b.lines[start.Line][start.Column:end.Column]), nil
	}
	var sb strings.Builder
	sb.WriteString(string(b.lines[start.Line][start.Column:]))
	for l := start.Line + 1; l < end.Line; l++ {
		sb.WriteByte('\n')
		sb.WriteString(string(b.lines[l]))
	}
	sb.WriteByte('\n')
	sb.WriteString(string(b.lines[end.Line][:end.Column]))
	return sb.String(), nil
}

// Insert inserts text at pos and returns the end of the inserted text.
func (b *Buffer) Insert(pos Position, text string) (Position, error) {
	if err := b.Validate(pos); err != nil {
		return pos, err
	}
	text = NormalizeLineEndings(text)
	if text == "" {
		return pos, nil
	}

	cur := b.lines[pos.Line]
	parts := splitLines(text)
	var end Position
	if len(parts) == 1 {
		line := make([]rune, 0, len(cur)+len(parts[0]))
		line = append(line, cur[:pos.Column]...)
		line = append(line, parts[0]...)
		line = append(line, cur[pos.Column:]...)
		b.lines[pos.Line] = line
		end = Position{Line: pos.Line, Column: pos.Column + len(parts[0])}
	} else {
		last := len(parts) - 1
		first := append(cur[:pos.Column:pos.Column], parts[0]...)
		tail := append(parts[last], cur[pos.Column:]...)
		end = Position{Line: pos.Line + last, Column: len(parts[last])}
		parts[0] = first
		parts[last] = tail
		b.lines = slices.Replace(b.lines, pos.Line, pos.Line+1, parts...)
	}

	b.generation++
	if b.listener != nil {
		b.listener.AfterInsert(Mutation{
			Kind:       MutationInsert,
			Start:      pos,
			End:        end,
			Text:       text,
			Generation: b.generation,
		})
	}
	return end, nil
}

// Delete removes the text in [start, end) and returns it.
func (b *Buffer) Delete(start, end Position) (string, error) {
	deleted, err := b.Slice(start, end)
	if err != nil {
		return "", err
	}
	if start == end {
		return "", nil
	}

	head := b.lines[start.Line][:start.Column]
	tail := b.lines[end.Line][end.Column:]
	line := make([]rune, 0, len(head)+len(tail))
	line = append(line, head...)
	line = append(line, tail...)
	b.lines = slices.Replace(b.lines, start.Line, end.Line+1, line)

	b.generation++
	if b.listener != nil {
		b.listener.AfterDelete(Mutation{
			Kind:       MutationDelete,
			Start:      start,
			End:        end,
			Text:       deleted,
			Generation: b.generation,
		})
	}
	return deleted, nil
}

// Replace replaces the whole text. Listeners receive AfterReplace rather
// than a delete/insert pair, since every derived structure must be rebuilt.
func (b *Buffer) Replace(text string) {
	b.load(text)
	b.generation++
	if b.listener != nil {
		b.listener.AfterReplace(b.generation)
	}
}

// Snapshot returns an immutable copy of the buffer contents.
func (b *Buffer) Snapshot() Snapshot {
	lines := make([]string, len(b.lines))
	for i, l := range b.lines {
		lines[i] = string(l)
	}
	return Snapshot{lines: lines, generation: b.generation}
}

func (b *Buffer) checkRange(start, end Position) error {
	if err := b.Validate(start); err != nil {
		return err
	}
	if err := b.Validate(end); err != nil {
		return err
	}
	if end.Before(start) {
		return fmt.Errorf("%w: %s after %s", ErrRangeInvalid, start, end)
	}
	return nil
}

func splitLines(text string) [][]rune {
	parts := strings.Split(text, "\n")
	lines := make([][]rune, len(parts))
	for i, p := range parts {
		lines[i] = []rune(p)
	}
	return lines
}

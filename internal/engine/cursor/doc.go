// Package cursor provides the editor cursor: an ordered pair of boundary
// positions that is either an insertion point or a selection.
//
// A Cursor stores both boundaries as CharPositions. Edits shift the
// CharIndex of each boundary first (ShiftOnInsert, ShiftOnDelete) and
// Resolve then re-derives line and column from the rebuilt index, so a
// boundary is never read at a stale offset.
//
// Columns never land strictly inside a grapheme cluster when set through
// SetSnapped; Set rejects positions outside the buffer instead of clamping.
package cursor

package cursor

// ShiftOnInsert returns offset after inserting [start, end).
//
// Offsets at or after start move right by the inserted length, so a cursor
// sitting at the insertion point ends up after the new text.
func ShiftOnInsert(offset, start, end int) int {
	if offset >= start {
		return offset + (end - start)
	}
	return offset
}

// ShiftOnDelete returns offset after deleting [start, end).
//
// Offsets inside the deleted range collapse onto start; offsets after it
// move left by the deleted length.
func ShiftOnDelete(offset, start, end int) int {
	return offset - max(0, min(offset-start, end-start))
}

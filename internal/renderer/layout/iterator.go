package layout

// RowIterator walks rows lazily from a start row. It yields at most
// RowCount rows and can be restarted with Reset. The layout must not be
// mutated while iterating.
type RowIterator struct {
	layout Layout
	start  int
	next   int
}

func newRowIterator(l Layout, start int) *RowIterator {
	start = max(start, 0)
	return &RowIterator{layout: l, start: start, next: start}
}

// Next returns the next row, or false when the rows are exhausted.
func (it *RowIterator) Next() (Row, bool) {
	if it.next >= it.layout.RowCount() {
		return Row{}, false
	}
	r, err := it.layout.RowAt(it.next)
	if err != nil {
		return Row{}, false
	}
	it.next++
	return r, true
}

// Index returns the index of the row the next call to Next returns.
func (it *RowIterator) Index() int {
	return it.next
}

// Reset restarts iteration at the original start row.
func (it *RowIterator) Reset() {
	it.next = it.start
}

package layout

// Fixed lays out one row per line.
type Fixed struct {
	lines    Lines
	rtlAware bool
}

// NewFixed creates a fixed layout over lines.
func NewFixed(lines Lines, rtlAware bool) *Fixed {
	return &Fixed{lines: lines, rtlAware: rtlAware}
}

// Kind implements Layout.
func (f *Fixed) Kind() Kind { return KindFixed }

// RowCount implements Layout.
func (f *Fixed) RowCount() int {
	return f.lines.LineCount()
}

// RowAt implements Layout.
func (f *Fixed) RowAt(i int) (Row, error) {
	if i < 0 || i >= f.lines.LineCount() {
		return Row{}, rowError(i, f.lines.LineCount())
	}
	runes := f.lines.Runes(i)
	return Row{
		Line:      i,
		EndColumn: len(runes),
		Leading:   true,
		Trailing:  true,
		RTL:       f.rtlAware && IsRTL(runes),
	}, nil
}

// RowForPosition implements Layout.
func (f *Fixed) RowForPosition(line, column int) (int, error) {
	if line < 0 || line >= f.lines.LineCount() || column < 0 || column > len(f.lines.Runes(line)) {
		return 0, lineError(line, column)
	}
	return line, nil
}

// RowCountForLine implements Layout.
func (f *Fixed) RowCountForLine(line int) int {
	if line < 0 || line >= f.lines.LineCount() {
		return 0
	}
	return 1
}

// AfterInsert implements Layout.
func (f *Fixed) AfterInsert(startLine, endLine int) LineRange {
	return LineRange{Start: startLine, End: endLine}
}

// AfterDelete implements Layout.
func (f *Fixed) AfterDelete(startLine, _ int) LineRange {
	return LineRange{Start: startLine, End: startLine}
}

// Rebuild implements Layout.
func (f *Fixed) Rebuild(startLine, endLine int) LineRange {
	return LineRange{Start: startLine, End: min(endLine, f.lines.LineCount()-1)}
}

// Iterator implements Layout.
func (f *Fixed) Iterator(start int) *RowIterator {
	return newRowIterator(f, start)
}

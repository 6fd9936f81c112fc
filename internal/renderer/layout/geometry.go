package layout

import "math"

// Geometry converts between buffer positions and points in the text area.
// X grows to the right from the left edge and Y grows downwards from the
// first row.
type Geometry struct {
	Layout    Layout
	Lines     Lines
	Measurer  Measurer
	RowHeight float64

	// Width is the text area width. RTL rows are anchored to it.
	Width float64
}

// PositionToPoint returns the top-left point of the character at
// (line, column). For RTL rows the point is its right edge.
func (g Geometry) PositionToPoint(line, column int) (x, y float64, err error) {
	ri, err := g.Layout.RowForPosition(line, column)
	if err != nil {
		return 0, 0, err
	}
	row, err := g.Layout.RowAt(ri)
	if err != nil {
		return 0, 0, err
	}
	text := g.Lines.Runes(line)
	adv := g.Measurer.Measure(line, text)
	offset := 0.0
	for c := row.StartColumn; c < column && c < len(adv); c++ {
		offset += adv[c]
	}
	y = float64(ri) * g.RowHeight
	if row.RTL {
		return g.Width - offset, y, nil
	}
	return offset, y, nil
}

// PointToPosition returns the position nearest to (x, y). Points outside
// the text area are clamped to the first or last row.
func (g Geometry) PointToPosition(x, y float64) (line, column int) {
	count := g.Layout.RowCount()
	if count == 0 || g.RowHeight <= 0 {
		return 0, 0
	}
	ri := int(math.Floor(y / g.RowHeight))
	ri = max(0, min(ri, count-1))
	row, err := g.Layout.RowAt(ri)
	if err != nil {
		return 0, 0
	}
	if row.RTL {
		x = g.Width - x
	}
	text := g.Lines.Runes(row.Line)
	adv := g.Measurer.Measure(row.Line, text)
	acc := 0.0
	for c := row.StartColumn; c < row.EndColumn && c < len(adv); c++ {
		if x < acc+adv[c]/2 {
			return row.Line, c
		}
		acc += adv[c]
	}
	end := row.EndColumn
	if !row.Trailing && end > row.StartColumn {
		// The row boundary column belongs to the next row.
		end--
	}
	return row.Line, end
}

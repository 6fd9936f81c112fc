package layout

// Up returns the position one row above (line, column), keeping the
// column offset within the row where possible. At the first row it
// returns (0, 0).
func Up(l Layout, line, column int) (int, int, error) {
	ri, err := l.RowForPosition(line, column)
	if err != nil {
		return line, column, err
	}
	if ri == 0 {
		return 0, 0, nil
	}
	return moveRow(l, ri, ri-1, column)
}

// Down returns the position one row below (line, column). At the last row
// it returns the end of the line.
func Down(l Layout, line, column int) (int, int, error) {
	ri, err := l.RowForPosition(line, column)
	if err != nil {
		return line, column, err
	}
	if ri+1 >= l.RowCount() {
		cur, err := l.RowAt(ri)
		if err != nil {
			return line, column, err
		}
		return line, cur.EndColumn, nil
	}
	return moveRow(l, ri, ri+1, column)
}

func moveRow(l Layout, from, to, column int) (int, int, error) {
	cur, err := l.RowAt(from)
	if err != nil {
		return 0, 0, err
	}
	target, err := l.RowAt(to)
	if err != nil {
		return 0, 0, err
	}
	limit := target.Len()
	if !target.Trailing && limit > 0 {
		limit--
	}
	offset := min(column-cur.StartColumn, limit)
	return target.Line, target.StartColumn + offset, nil
}

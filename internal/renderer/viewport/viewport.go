// Package viewport tracks the window of layout rows that is visible on
// screen and scrolls it to keep the cursor row in view.
package viewport

import "sync"

// Viewport is a vertical window over layout rows.
type Viewport struct {
	mu sync.RWMutex

	// top is the first visible row.
	top int

	// height is the number of visible rows.
	height int

	// margin is the number of rows kept between the cursor and the edges.
	margin int

	// rowCount is the total row count of the layout.
	rowCount int
}

// New creates a viewport showing height rows. Height is clamped to 1.
func New(height, margin int) *Viewport {
	v := &Viewport{height: max(height, 1)}
	v.margin = v.clampMargin(margin)
	return v
}

// Top returns the first visible row.
func (v *Viewport) Top() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.top
}

// Height returns the number of visible rows.
func (v *Viewport) Height() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.height
}

// Margin returns the effective scroll margin.
func (v *Viewport) Margin() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.margin
}

// VisibleRange returns the visible rows as [start, end).
func (v *Viewport) VisibleRange() (start, end int) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.top, min(v.top+v.height, max(v.rowCount, v.top))
}

// IsRowVisible reports whether row is on screen.
func (v *Viewport) IsRowVisible(row int) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return row >= v.top && row < v.top+v.height
}

// ScreenRow converts a layout row into a screen row. The result may be
// outside [0, Height) for rows that are not visible.
func (v *Viewport) ScreenRow(row int) int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return row - v.top
}

// Resize changes the visible height.
func (v *Viewport) Resize(height int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.height = max(height, 1)
	v.margin = v.clampMargin(v.margin)
	v.top = v.clampTop(v.top)
}

// SetMargin sets the scroll margin. The margin is limited so the cursor
// always has at least one row to move in.
func (v *Viewport) SetMargin(margin int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.margin = v.clampMargin(margin)
}

// SetRowCount updates the total number of layout rows.
func (v *Viewport) SetRowCount(n int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.rowCount = max(n, 0)
	v.top = v.clampTop(v.top)
}

// ScrollTo makes row the first visible row. It reports whether the
// viewport moved.
func (v *Viewport) ScrollTo(row int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.setTop(row)
}

// ScrollBy scrolls by delta rows.
func (v *Viewport) ScrollBy(delta int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.setTop(v.top + delta)
}

// PageDown scrolls forward by one screen.
func (v *Viewport) PageDown() bool {
	return v.ScrollBy(v.Height())
}

// PageUp scrolls back by one screen.
func (v *Viewport) PageUp() bool {
	return v.ScrollBy(-v.Height())
}

// EnsureVisible scrolls the minimum amount needed to show row with the
// configured margin. It reports whether the viewport moved.
func (v *Viewport) EnsureVisible(row int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	top := v.top
	if row < top+v.margin {
		top = row - v.margin
	} else if row > top+v.height-1-v.margin {
		top = row - v.height + 1 + v.margin
	}
	return v.setTop(top)
}

// CenterOn scrolls so that row is in the middle of the screen.
func (v *Viewport) CenterOn(row int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.setTop(row - v.height/2)
}

func (v *Viewport) setTop(top int) bool {
	top = v.clampTop(top)
	if top == v.top {
		return false
	}
	v.top = top
	return true
}

// clampTop keeps the last row on screen once the document is scrolled
// past its end.
func (v *Viewport) clampTop(top int) int {
	limit := max(v.rowCount-v.height, 0)
	return max(0, min(top, limit))
}

func (v *Viewport) clampMargin(margin int) int {
	return max(0, min(margin, (v.height-1)/2))
}

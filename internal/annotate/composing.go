package annotate

// Composing tracks the IME composing region as absolute offsets.
type Composing struct {
	start, end int
	active     bool
}

// NewComposing returns an inactive composing region.
func NewComposing() *Composing {
	return &Composing{}
}

// Name implements Store.
func (c *Composing) Name() string { return "composing" }

// Reset clears the region.
func (c *Composing) Reset(int) {
	c.Clear()
}

// Set starts or updates the composing region.
func (c *Composing) Set(start, end int) {
	if end < start {
		start, end = end, start
	}
	c.start, c.end, c.active = start, end, true
}

// Clear ends composition.
func (c *Composing) Clear() {
	c.start, c.end, c.active = 0, 0, false
}

// Region returns the composing region and whether composition is active.
func (c *Composing) Region() (start, end int, active bool) {
	return c.start, c.end, c.active
}

// ShiftOnInsert implements Store.
func (c *Composing) ShiftOnInsert(ch Change) error {
	if !c.active {
		return nil
	}
	if c.start > c.end || c.start < 0 {
		c.Clear()
		return malformed(c.Name(), 1)
	}
	c.start, c.end = shiftRangeInsert(c.start, c.end, ch.StartIndex, ch.EndIndex)
	return nil
}

// ShiftOnDelete implements Store. A region emptied by the delete is cleared.
func (c *Composing) ShiftOnDelete(ch Change) error {
	if !c.active {
		return nil
	}
	if c.start > c.end || c.start < 0 {
		c.Clear()
		return malformed(c.Name(), 1)
	}
	wasEmpty := c.start == c.end
	c.start, c.end = shiftRangeDelete(c.start, c.end, ch.StartIndex, ch.EndIndex)
	if c.start == c.end && !wasEmpty {
		c.Clear()
	}
	return nil
}

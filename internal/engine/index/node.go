package index

// node is one line in the implicit treap.
type node struct {
	left, right *node
	priority    uint32

	// length is the line length in runes, excluding the separator.
	length int

	// count is the number of lines in the subtree.
	count int

	// span is sum(length+1) over the subtree.
	span int
}

func count(n *node) int {
	if n == nil {
		return 0
	}
	return n.count
}

func span(n *node) int {
	if n == nil {
		return 0
	}
	return n.span
}

func (n *node) update() {
	n.count = count(n.left) + count(n.right) + 1
	n.span = span(n.left) + span(n.right) + n.length + 1
}

// split divides t into the first k lines and the rest.
func split(t *node, k int) (*node, *node) {
	if t == nil {
		return nil, nil
	}
	if count(t.left) >= k {
		l, r := split(t.left, k)
		t.left = r
		t.update()
		return l, t
	}
	l, r := split(t.right, k-count(t.left)-1)
	t.right = l
	t.update()
	return t, r
}

// merge concatenates a and b, keeping every line of a before b.
func merge(a, b *node) *node {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if a.priority > b.priority {
		a.right = merge(a.right, b)
		a.update()
		return a
	}
	b.left = merge(a, b.left)
	b.update()
	return b
}

// setLength updates the length of the line at position k.
func setLength(t *node, k, length int) {
	lc := count(t.left)
	switch {
	case k < lc:
		setLength(t.left, k, length)
	case k > lc:
		setLength(t.right, k-lc-1, length)
	default:
		t.length = length
	}
	t.update()
}

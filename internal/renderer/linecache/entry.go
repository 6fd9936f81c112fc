package linecache

// Entry is the cached measurement of one line.
type Entry struct {
	Line      int
	Timestamp uint64
	StyleHash uint64

	// Advances holds one advance per rune.
	Advances []float64

	// prefix[i] is the sum of Advances[:i].
	prefix     []float64
	lastAccess uint64
}

func newEntry(line int, ts, hash uint64, advances []float64) *Entry {
	prefix := make([]float64, len(advances)+1)
	for i, a := range advances {
		prefix[i+1] = prefix[i] + a
	}
	return &Entry{
		Line:      line,
		Timestamp: ts,
		StyleHash: hash,
		Advances:  advances,
		prefix:    prefix,
	}
}

// Width returns the total advance of columns [start, end).
// The range is clamped to the measured line.
func (e *Entry) Width(start, end int) float64 {
	n := len(e.Advances)
	start = max(0, min(start, n))
	end = max(start, min(end, n))
	return e.prefix[end] - e.prefix[start]
}

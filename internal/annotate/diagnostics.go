package annotate

import "sort"

// Severity ranks a diagnostic.
type Severity uint8

const (
	SeverityHint Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
)

// String returns the severity name.
func (s Severity) String() string {
	switch s {
	case SeverityHint:
		return "hint"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Diagnostic is a message attached to the absolute range [Start, End).
type Diagnostic struct {
	Start    int
	End      int
	Severity Severity
	Message  string
	Source   string
	Code     string
}

// Diagnostics stores diagnostics ordered by start offset.
type Diagnostics struct {
	items []Diagnostic

	// maxLen bounds End-Start over all items. It may overestimate after
	// deletes and is recomputed by Set.
	maxLen int
}

// NewDiagnostics creates a store holding items.
func NewDiagnostics(items []Diagnostic) *Diagnostics {
	d := &Diagnostics{}
	d.Set(items)
	return d
}

// Name implements Store.
func (d *Diagnostics) Name() string { return "diagnostics" }

// Reset removes all diagnostics.
func (d *Diagnostics) Reset(int) {
	d.items, d.maxLen = nil, 0
}

// Set replaces all diagnostics.
func (d *Diagnostics) Set(items []Diagnostic) {
	d.items = append([]Diagnostic(nil), items...)
	sort.SliceStable(d.items, func(i, j int) bool { return d.items[i].Start < d.items[j].Start })
	d.maxLen = 0
	for _, it := range d.items {
		d.maxLen = max(d.maxLen, it.End-it.Start)
	}
}

// Len returns the number of diagnostics.
func (d *Diagnostics) Len() int {
	return len(d.items)
}

// All returns a copy of all diagnostics in start order.
func (d *Diagnostics) All() []Diagnostic {
	return append([]Diagnostic(nil), d.items...)
}

// Overlapping returns diagnostics intersecting [start, end). Zero-length
// diagnostics match when they sit inside or at the edges of the range.
func (d *Diagnostics) Overlapping(start, end int) []Diagnostic {
	var out []Diagnostic
	for i := d.searchFrom(start); i < len(d.items) && d.items[i].Start <= end; i++ {
		it := d.items[i]
		if it.Start == it.End {
			if it.Start >= start {
				out = append(out, it)
			}
			continue
		}
		if it.End > start && it.Start < end {
			out = append(out, it)
		}
	}
	return out
}

// At returns diagnostics covering the character at index.
func (d *Diagnostics) At(index int) []Diagnostic {
	var out []Diagnostic
	for _, it := range d.Overlapping(index, index+1) {
		if it.Start <= index && (it.End > index || it.Start == it.End) {
			out = append(out, it)
		}
	}
	return out
}

// ShiftOnInsert implements Store.
func (d *Diagnostics) ShiftOnInsert(c Change) error {
	dropped := 0
	out := d.items[:d.searchFrom(c.StartIndex)]
	for _, it := range d.items[len(out):] {
		if it.Start > it.End || it.Start < 0 {
			dropped++
			continue
		}
		it.Start, it.End = shiftRangeInsert(it.Start, it.End, c.StartIndex, c.EndIndex)
		d.maxLen = max(d.maxLen, it.End-it.Start)
		out = append(out, it)
	}
	d.items = out
	return malformed(d.Name(), dropped)
}

// ShiftOnDelete implements Store.
func (d *Diagnostics) ShiftOnDelete(c Change) error {
	dropped := 0
	out := d.items[:d.searchFrom(c.StartIndex)]
	for _, it := range d.items[len(out):] {
		if it.Start > it.End || it.Start < 0 {
			dropped++
			continue
		}
		it.Start, it.End = shiftRangeDelete(it.Start, it.End, c.StartIndex, c.EndIndex)
		out = append(out, it)
	}
	d.items = out
	return malformed(d.Name(), dropped)
}

// searchFrom returns the first index that may overlap or follow offset.
// Items before it start more than maxLen before offset and end at or
// before it.
func (d *Diagnostics) searchFrom(offset int) int {
	lo := offset - d.maxLen
	return sort.Search(len(d.items), func(i int) bool { return d.items[i].Start >= lo })
}

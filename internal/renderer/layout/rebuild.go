package layout

// Table is the result of breaking every line of a document.
type Table struct {
	lines []lineRows
	seq   uint64
}

// Job is a full reflow captured at one layout state. Run may execute on
// any goroutine; the result is applied with Reflow.Install.
type Job struct {
	measurer Measurer
	opts     Options
	seq      uint64
}

// Prepare captures a full rebuild job. Any mutation of the layout after
// Prepare makes the job's result stale.
func (r *Reflow) Prepare() Job {
	return Job{measurer: r.measurer, opts: r.opts, seq: r.seq}
}

// Run breaks every line of lines, typically a buffer snapshot.
func (j Job) Run(lines Lines) Table {
	t := computeRows(lines, j.measurer, j.opts)
	t.seq = j.seq
	return t
}

// Install replaces the row table with t. It returns false and leaves the
// layout untouched if the layout changed since the job was prepared.
func (r *Reflow) Install(t Table) bool {
	if t.seq != r.seq || len(t.lines) != r.lines.LineCount() {
		return false
	}
	r.install(t)
	return true
}

func computeRows(lines Lines, measurer Measurer, opts Options) Table {
	n := max(lines.LineCount(), 1)
	t := Table{lines: make([]lineRows, n)}
	for line := 0; line < n; line++ {
		text := lines.Runes(line)
		t.lines[line] = breakLine(text, measurer.Measure(line, text), opts)
	}
	return t
}

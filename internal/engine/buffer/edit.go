package buffer

// MutationKind categorizes a buffer mutation.
type MutationKind uint8

const (
	// MutationInsert indicates text was inserted.
	MutationInsert MutationKind = iota

	// MutationDelete indicates text was deleted.
	MutationDelete
)

// String returns the string representation of the mutation kind.
func (k MutationKind) String() string {
	switch k {
	case MutationInsert:
		return "insert"
	case MutationDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Mutation describes one atomic change to the line array.
//
// For an insert, Start is the insertion point and End is the end of the
// inserted text in the post-edit buffer. For a delete, Start and End bound
// the removed text in the pre-edit buffer. Text is the inserted or deleted
// text with line endings normalized.
type Mutation struct {
	Kind       MutationKind
	Start      Position
	End        Position
	Text       string
	Generation uint64
}

// Len returns the number of characters inserted or deleted.
func (m Mutation) Len() int {
	return runeCount(m.Text)
}

// LineDelta returns how many lines the mutation added (insert) or removed (delete).
func (m Mutation) LineDelta() int {
	return m.End.Line - m.Start.Line
}

// Listener receives buffer mutations after they are applied.
type Listener interface {
	// AfterInsert is called once per successful Insert.
	AfterInsert(m Mutation)

	// AfterDelete is called once per successful Delete.
	AfterDelete(m Mutation)

	// AfterReplace is called after the whole text was replaced.
	AfterReplace(generation uint64)
}

func runeCount(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}

// Package annotate holds the position-indexed annotation stores that must
// stay consistent with the buffer as it is edited.
//
// Every store implements Store: a name and two shift hooks. The edit
// coordinator calls ShiftOnInsert or ShiftOnDelete on each store exactly
// once per atomic mutation, in registration order. Stores keep entries
// ordered by start position so a shift touches only entries that overlap
// or follow the edit point.
//
// Insertion policy is shared: entries starting at or after the insertion
// point move right, entries straddling it grow, and an entry ending exactly
// at the insertion point is unchanged. Deletion intersects each entry with
// the deleted range. Entries emptied by a delete are removed, except
// diagnostics, which stay anchored at the collapse point.
package annotate

// Package layout maps buffer lines to visual rows.
//
// Two strategies implement Layout. Fixed produces exactly one row per
// line. Reflow wraps each line into as many rows as its measured width
// needs, optionally preferring breaks before the start of a word and
// anchoring right-to-left paragraphs to the right edge.
//
// A layout is switched by constructing the other strategy, which is always
// a full rebuild. Within one strategy, AfterInsert and AfterDelete rebreak
// only the edited lines plus any following line whose rows changed.
//
// Reflow keeps its row counts in an index.Indexer, using each line's row
// count minus one as the line "length". Row lookups in both directions
// are therefore O(log lineCount) and a line-count change never renumbers
// the rows of later lines.
package layout

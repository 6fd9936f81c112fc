// Package tracking keeps a bounded journal of recent edits.
//
// Each buffer mutation is recorded with the generation it produced. A
// consumer holding results computed against an older generation asks for
// the edits made since then and replays them to bring the results
// forward:
//
//	changes, ok := j.Since(result.Generation)
//	if !ok {
//	    // too old; the journal no longer covers that generation
//	}
//
// The journal is a ring buffer; once it is full the oldest edit is
// overwritten and the window start advances.
package tracking

// Package linecache caches per-line measurement results for the renderer.
//
// An entry holds the advance table of one line together with the render
// timestamp and style hash it was computed for. The timestamp is supplied
// by the edit coordinator, which owns a monotonic counter and passes its
// value into every call; the cache never reads a clock of its own.
//
// A line's effective timestamp is the larger of its own stamp, set by
// Touch when the line is edited, and the global stamp, set by BumpGlobal
// when a property affecting every line changes. An entry is valid only
// while its timestamp equals the effective timestamp and its style hash
// matches, so a touched line always misses on its next lookup.
//
// Measurements that may race with edits use Begin and Commit: Commit
// discards the result when the line was touched, or measured again, after
// Begin.
package linecache

// Package index converts between absolute character offsets (CharIndex)
// and line/column positions.
//
// The Indexer keeps an implicit treap keyed by line number. Every node
// stores one line length plus aggregates for its subtree: the number of
// lines and the number of characters including one separator per line.
// Lookups in both directions descend the tree once, and the edit hooks
// touch only the lines an edit changed, so all operations are
// O(log lineCount).
package index

// Package buffer provides the line-array text store that is the source of
// truth for every offset in the editor engine.
//
// Text is held as a slice of lines, each a slice of runes, so that columns
// count Unicode code points. The only stored line separator is "\n"; inserted
// text has "\r\n" and "\r" normalized before it reaches the line array.
//
// Every successful mutation bumps the buffer generation and is reported to
// the registered Listener after the line array has changed:
//
//	buf := buffer.NewBufferFromString("hello")
//	buf.SetListener(coordinator)
//	end, err := buf.Insert(buffer.Position{Line: 0, Column: 5}, " world")
//
// A Buffer is not safe for concurrent use. The engine serializes access and
// hands immutable Snapshots to background workers.
package buffer

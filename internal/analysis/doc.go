// Package analysis hands work between the editing goroutine and
// background producers such as syntax analyzers and language servers.
//
// The engine publishes a Request describing one buffer generation. A
// Worker runs an Analyzer on the newest request only and publishes the
// Result through a Mailbox. Both handoffs keep the latest value and drop
// older ones. The engine then applies the result on its own goroutine,
// bringing it forward over any edits made in the meantime.
package analysis

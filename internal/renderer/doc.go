// Package renderer paints an editor document on a cell screen.
//
// The packages below it hold the layout machinery the engine drives:
//
//	┌─────────────────────────────────────────┐
//	│     Renderer (gutter, text, status)     │
//	├─────────────────────────────────────────┤
//	│  layout   │ linecache │ dirty │viewport │
//	├─────────────────────────────────────────┤
//	│          core (cells, styles)           │
//	├─────────────────────────────────────────┤
//	│  backend: Terminal (tcell) │ Memory     │
//	└─────────────────────────────────────────┘
//
// A Renderer reads rows and measurements from the document, layers span,
// diagnostic, highlight, composing and selection styles from its Theme,
// and repaints only dirty lines plus the lines whose caret or selection
// state changed since the previous frame.
//
// Usage:
//
//	term, _ := backend.NewTerminal()
//	r := renderer.New(term, renderer.DefaultOptions())
//	r.Draw(doc)
package renderer

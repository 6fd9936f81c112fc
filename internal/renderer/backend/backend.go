// Package backend draws cells on a screen and reports input events.
package backend

import "github.com/dshills/inkwell/internal/renderer/core"

// EventType identifies the kind of an Event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventMouse
	EventResize
	// EventPaste marks the start (Start true) or end of a bracketed paste.
	// The pasted text arrives as key events in between.
	EventPaste
	// EventWake is posted by other goroutines to wake the event loop.
	EventWake
)

// Event is a screen input event.
type Event struct {
	Type EventType

	Key  Key
	Rune rune
	Mod  ModMask

	MouseX, MouseY int
	Button         MouseButton

	Width, Height int

	Start bool
}

// Key is a keyboard key.
type Key int

const (
	KeyNone Key = iota
	// KeyRune is a printable character held in Event.Rune.
	KeyRune
	// KeyCtrl is a control chord whose letter is held in Event.Rune.
	KeyCtrl
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
)

// ModMask is a set of modifier keys.
type ModMask int

const (
	ModNone  ModMask = 0
	ModShift ModMask = 1 << iota
	ModCtrl
	ModAlt
)

// Has reports whether m contains mod.
func (m ModMask) Has(mod ModMask) bool {
	return m&mod != 0
}

// MouseButton identifies the button of a mouse event.
type MouseButton int

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseRight
	MouseWheelUp
	MouseWheelDown
)

// Backend is a drawing surface with an input queue.
type Backend interface {
	// Init prepares the screen. It must be called first.
	Init() error

	// Shutdown restores the screen.
	Shutdown()

	// Size returns the screen size in cells.
	Size() (width, height int)

	// SetCell draws cell at (x, y). Positions off screen are ignored.
	SetCell(x, y int, cell core.Cell)

	// Clear blanks the screen.
	Clear()

	// Show flushes drawn cells to the display.
	Show()

	ShowCursor(x, y int)
	HideCursor()

	// PollEvent blocks until the next event.
	PollEvent() Event

	// PostEvent queues a synthetic event. It may drop the event when the
	// queue is full.
	PostEvent(ev Event)
}

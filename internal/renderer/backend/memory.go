package backend

import (
	"strings"
	"sync"

	"github.com/dshills/inkwell/internal/renderer/core"
)

// Memory is an in-memory Backend for tests and headless use.
type Memory struct {
	mu            sync.Mutex
	width, height int
	cells         [][]core.Cell
	writes        int
	shows         int
	cursorX       int
	cursorY       int
	cursorShown   bool
	events        chan Event
}

// NewMemory creates a blank memory screen.
func NewMemory(width, height int) *Memory {
	m := &Memory{events: make(chan Event, 64)}
	m.Resize(width, height)
	return m
}

func (m *Memory) Init() error { return nil }

func (m *Memory) Shutdown() {}

func (m *Memory) Size() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.width, m.height
}

func (m *Memory) SetCell(x, y int, cell core.Cell) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if x < 0 || y < 0 || x >= m.width || y >= m.height {
		return
	}
	m.cells[y][x] = cell
	m.writes++
}

func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.cells {
		for x := range row {
			row[x] = core.EmptyCell()
		}
	}
}

func (m *Memory) Show() {
	m.mu.Lock()
	m.shows++
	m.mu.Unlock()
}

func (m *Memory) ShowCursor(x, y int) {
	m.mu.Lock()
	m.cursorX, m.cursorY, m.cursorShown = x, y, true
	m.mu.Unlock()
}

func (m *Memory) HideCursor() {
	m.mu.Lock()
	m.cursorShown = false
	m.mu.Unlock()
}

func (m *Memory) PollEvent() Event {
	return <-m.events
}

func (m *Memory) PostEvent(ev Event) {
	select {
	case m.events <- ev:
	default:
	}
}

// Resize changes the screen size and blanks it.
func (m *Memory) Resize(width, height int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.width, m.height = width, height
	m.cells = make([][]core.Cell, height)
	for y := range m.cells {
		m.cells[y] = make([]core.Cell, width)
		for x := range m.cells[y] {
			m.cells[y][x] = core.EmptyCell()
		}
	}
}

// Cell returns the cell at (x, y), or an empty cell off screen.
func (m *Memory) Cell(x, y int) core.Cell {
	m.mu.Lock()
	defer m.mu.Unlock()
	if x < 0 || y < 0 || x >= m.width || y >= m.height {
		return core.EmptyCell()
	}
	return m.cells[y][x]
}

// Row returns the text of screen row y. Continuation cells of wide runes
// are skipped.
func (m *Memory) Row(y int) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if y < 0 || y >= m.height {
		return ""
	}
	var b strings.Builder
	for _, c := range m.cells[y] {
		if c.Width == 0 {
			continue
		}
		b.WriteString(c.Text())
	}
	return b.String()
}

// Writes returns the number of SetCell calls that hit the screen and
// resets the counter.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := m.writes
	m.writes = 0
	return n
}

// Cursor returns the cursor position and whether it is shown.
func (m *Memory) Cursor() (x, y int, shown bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursorX, m.cursorY, m.cursorShown
}

// Shows returns how many times Show was called.
func (m *Memory) Shows() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shows
}

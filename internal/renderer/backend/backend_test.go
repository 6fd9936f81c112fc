package backend

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/inkwell/internal/renderer/core"
)

func TestMemorySetCell(t *testing.T) {
	m := NewMemory(4, 2)
	cell := core.NewCell('x', core.NewStyle(core.ColorFromRGB(255, 0, 0)))
	m.SetCell(1, 1, cell)
	m.SetCell(-1, 0, cell)
	m.SetCell(4, 0, cell)

	if got := m.Cell(1, 1); !got.Equals(cell) {
		t.Errorf("Cell(1,1) = %+v, want %+v", got, cell)
	}
	if got := m.Writes(); got != 1 {
		t.Errorf("Writes() = %d, want 1", got)
	}
	if got := m.Writes(); got != 0 {
		t.Errorf("Writes() after reset = %d, want 0", got)
	}
	if got := m.Row(1); got != " x  " {
		t.Errorf("Row(1) = %q", got)
	}
}

func TestMemoryRowSkipsContinuation(t *testing.T) {
	m := NewMemory(3, 1)
	m.SetCell(0, 0, core.Cell{Rune: '你', Width: 2, Style: core.DefaultStyle()})
	m.SetCell(1, 0, core.Cell{Width: 0, Style: core.DefaultStyle()})
	if got := m.Row(0); got != "你 " {
		t.Errorf("Row(0) = %q", got)
	}
}

func TestMemoryCursorAndEvents(t *testing.T) {
	m := NewMemory(10, 5)
	m.ShowCursor(3, 2)
	if x, y, shown := m.Cursor(); x != 3 || y != 2 || !shown {
		t.Errorf("Cursor() = %d,%d,%v", x, y, shown)
	}
	m.HideCursor()
	if _, _, shown := m.Cursor(); shown {
		t.Error("cursor still shown")
	}

	m.PostEvent(Event{Type: EventWake})
	if ev := m.PollEvent(); ev.Type != EventWake {
		t.Errorf("PollEvent() = %+v", ev)
	}
}

func simulated(t *testing.T) (*Terminal, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	term := NewTerminalScreen(screen)
	if err := term.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(term.Shutdown)
	screen.SetSize(10, 3)
	return term, screen
}

func TestTerminalDrawsCells(t *testing.T) {
	term, screen := simulated(t)

	style := core.NewStyle(core.ColorFromRGB(10, 20, 30)).With(core.AttrBold)
	term.SetCell(2, 1, core.Cell{Rune: 'e', Combining: []rune{'\u0301'}, Width: 1, Style: style})
	term.Show()

	mainc, combc, got, _ := screen.GetContent(2, 1)
	if mainc != 'e' || len(combc) != 1 || combc[0] != '\u0301' {
		t.Errorf("content = %q %q", mainc, combc)
	}
	fg, _, attrs := got.Decompose()
	if fg != tcell.NewRGBColor(10, 20, 30) {
		t.Errorf("foreground = %v", fg)
	}
	if attrs&tcell.AttrBold == 0 {
		t.Error("bold not set")
	}
}

func TestTerminalEvents(t *testing.T) {
	tests := []struct {
		name string
		key  tcell.Key
		r    rune
		want Event
	}{
		{"rune", tcell.KeyRune, 'q', Event{Type: EventKey, Key: KeyRune, Rune: 'q'}},
		{"ctrl", tcell.KeyCtrlS, 0, Event{Type: EventKey, Key: KeyCtrl, Rune: 's'}},
		{"backspace", tcell.KeyBackspace2, 0, Event{Type: EventKey, Key: KeyBackspace}},
		{"enter", tcell.KeyEnter, 0, Event{Type: EventKey, Key: KeyEnter}},
		{"arrow", tcell.KeyLeft, 0, Event{Type: EventKey, Key: KeyLeft}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term, screen := simulated(t)
			screen.InjectKey(tt.key, tt.r, tcell.ModNone)
			got := term.PollEvent()
			for got.Type == EventResize {
				got = term.PollEvent()
			}
			got.Mod = 0
			if got != tt.want {
				t.Errorf("PollEvent() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTerminalWake(t *testing.T) {
	term, _ := simulated(t)
	term.PostEvent(Event{Type: EventWake})
	for {
		ev := term.PollEvent()
		if ev.Type == EventResize {
			continue
		}
		if ev.Type != EventWake {
			t.Fatalf("PollEvent() = %+v, want wake", ev)
		}
		return
	}
}

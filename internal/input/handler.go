package input

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/dshills/inkwell/internal/engine"
	"github.com/dshills/inkwell/internal/engine/history"
	"github.com/dshills/inkwell/internal/renderer/backend"
	"github.com/dshills/inkwell/internal/renderer/core"
)

// Built-in action names.
const (
	ActionInsert         = "edit.insert"
	ActionNewline        = "edit.newline"
	ActionTab            = "edit.tab"
	ActionDeleteBackward = "edit.deleteBackward"
	ActionDeleteForward  = "edit.deleteForward"
	ActionUndo           = "edit.undo"
	ActionRedo           = "edit.redo"
	ActionCursorLeft     = "cursor.left"
	ActionCursorRight    = "cursor.right"
	ActionCursorUp       = "cursor.up"
	ActionCursorDown     = "cursor.down"
	ActionCursorHome     = "cursor.home"
	ActionCursorEnd      = "cursor.end"
	ActionCursorClick    = "cursor.click"
	ActionSelectLeft     = "select.left"
	ActionSelectRight    = "select.right"
	ActionSelectAll      = "select.all"
	ActionPageUp         = "view.pageUp"
	ActionPageDown       = "view.pageDown"
	ActionScroll         = "view.scroll"
	ActionToggleWrap     = "view.toggleWrap"
	ActionPaste          = "edit.paste"

	// Actions the host application runs.
	ActionSave = "file.save"
	ActionQuit = "app.quit"
)

// ErrUnboundKey indicates a key event with no binding.
var ErrUnboundKey = errors.New("unbound key")

// WheelStep is the number of rows one wheel notch scrolls.
const WheelStep = 3

// Command runs an action against the document.
type Command func(e *engine.Engine) error

// Handler turns screen events into engine operations.
type Handler struct {
	keymap   *Keymap
	commands map[string]Command
	logger   *zap.Logger
}

// NewHandler creates a handler with the built-in commands. A nil logger
// disables logging.
func NewHandler(k *Keymap, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{keymap: k, logger: logger.Named("input"), commands: make(map[string]Command)}
	h.registerBuiltins()
	return h
}

// Register binds action to cmd, replacing any earlier command.
func (h *Handler) Register(action string, cmd Command) {
	h.commands[action] = cmd
}

// Handle applies ev to e and returns the action it resolved to. Actions
// without a registered command, such as ActionSave and ActionQuit, are
// returned for the caller to run. area is the screen rectangle holding
// the text, used for mouse events.
func (h *Handler) Handle(e *engine.Engine, ev backend.Event, area core.Rect) (string, error) {
	switch ev.Type {
	case backend.EventKey:
		return h.key(e, ev)
	case backend.EventMouse:
		return h.mouse(e, ev, area)
	case backend.EventPaste:
		if ev.Start {
			e.BeginBatchEdit()
			return ActionPaste, nil
		}
		return ActionPaste, e.EndBatchEdit()
	}
	return "", nil
}

func (h *Handler) key(e *engine.Engine, ev backend.Event) (string, error) {
	k := KeyOf(ev)
	if action, ok := h.keymap.Lookup(k); ok {
		return action, h.run(e, action)
	}
	if k.Code == backend.KeyRune && !k.Mod.Has(backend.ModAlt) {
		return ActionInsert, e.InsertAtCursor(string(k.Rune))
	}
	return "", fmt.Errorf("%w: %s", ErrUnboundKey, k)
}

func (h *Handler) run(e *engine.Engine, action string) error {
	cmd, ok := h.commands[action]
	if !ok {
		return nil
	}
	if err := cmd(e); err != nil {
		h.logger.Debug("command failed", zap.String("action", action), zap.Error(err))
		return fmt.Errorf("%s: %w", action, err)
	}
	return nil
}

func (h *Handler) mouse(e *engine.Engine, ev backend.Event, area core.Rect) (string, error) {
	switch ev.Button {
	case backend.MouseWheelUp:
		e.ScrollBy(-WheelStep)
		return ActionScroll, nil
	case backend.MouseWheelDown:
		e.ScrollBy(WheelStep)
		return ActionScroll, nil
	case backend.MouseLeft:
		if !area.Contains(ev.MouseX, ev.MouseY) {
			return "", nil
		}
		rh := e.RowHeight()
		row := e.Viewport().Top() + ev.MouseY - area.Y
		p := e.PointToPosition(float64(ev.MouseX-area.X), (float64(row)+0.5)*rh)
		return ActionCursorClick, e.SetCursor(p.Line, p.Column)
	}
	return "", nil
}

func (h *Handler) registerBuiltins() {
	h.Register(ActionNewline, func(e *engine.Engine) error { return e.InsertAtCursor("\n") })
	h.Register(ActionTab, func(e *engine.Engine) error { return e.InsertAtCursor("\t") })
	h.Register(ActionDeleteBackward, (*engine.Engine).DeleteBackward)
	h.Register(ActionDeleteForward, (*engine.Engine).DeleteForward)
	h.Register(ActionUndo, ignore(history.ErrNothingToUndo, (*engine.Engine).Undo))
	h.Register(ActionRedo, ignore(history.ErrNothingToRedo, (*engine.Engine).Redo))
	h.Register(ActionCursorLeft, (*engine.Engine).MoveLeft)
	h.Register(ActionCursorRight, (*engine.Engine).MoveRight)
	h.Register(ActionCursorUp, (*engine.Engine).MoveUp)
	h.Register(ActionCursorDown, (*engine.Engine).MoveDown)
	h.Register(ActionCursorHome, func(e *engine.Engine) error {
		return e.SetCursor(e.Caret().Line, 0)
	})
	h.Register(ActionCursorEnd, func(e *engine.Engine) error {
		line := e.Caret().Line
		return e.SetCursor(line, len([]rune(e.Line(line))))
	})
	h.Register(ActionSelectLeft, (*engine.Engine).ExtendLeft)
	h.Register(ActionSelectRight, (*engine.Engine).ExtendRight)
	h.Register(ActionSelectAll, func(e *engine.Engine) error { return e.SelectIndexes(0, e.Len()) })
	h.Register(ActionPageUp, func(e *engine.Engine) error { return page(e, -1) })
	h.Register(ActionPageDown, func(e *engine.Engine) error { return page(e, 1) })
	h.Register(ActionToggleWrap, func(e *engine.Engine) error {
		e.SetWordWrap(!e.WordWrap())
		return nil
	})
}

// page scrolls by one screen in dir.
func page(e *engine.Engine, dir int) error {
	e.ScrollBy(dir * max(e.Viewport().Height()-1, 1))
	return nil
}

func ignore(target error, cmd Command) Command {
	return func(e *engine.Engine) error {
		if err := cmd(e); err != nil && !errors.Is(err, target) {
			return err
		}
		return nil
	}
}

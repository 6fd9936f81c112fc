package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tidwall/gjson"

	"github.com/dshills/inkwell/internal/config"
	"github.com/dshills/inkwell/internal/engine"
	"github.com/dshills/inkwell/internal/engine/buffer"
	"github.com/dshills/inkwell/internal/logger"
	"github.com/dshills/inkwell/internal/renderer/backend"
)

func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunDump(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "main.go", "package main\n\nfunc main() {}\n")
	diags := writeFile(t, dir, "diags.json", `{"uri": "file:///main.go", "diagnostics": [
		{"range": {"start": {"line": 2, "character": 5}, "end": {"line": 2, "character": 9}},
		 "severity": 2, "message": "unused", "source": "vet"}
	]}`)

	var stdout, stderr bytes.Buffer
	code := run([]string{
		"-config", filepath.Join(dir, "missing.toml"),
		"-dump", "-diagnostics", diags, src,
	}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run = %d, stderr %q", code, stderr.String())
	}

	doc := stdout.String()
	checks := map[string]string{
		"spans.0.0.style":        "keyword",
		"diagnostics.#":          "1",
		"diagnostics.0.start":    "19",
		"diagnostics.0.end":      "23",
		"diagnostics.0.severity": "warning",
		"diagnostics.0.source":   "vet",
	}
	for path, want := range checks {
		if got := gjson.Get(doc, path).String(); got != want {
			t.Errorf("%s = %q, want %q", path, got, want)
		}
	}
}

func TestRunFlags(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.toml")
	tests := []struct {
		name string
		args []string
		code int
		want string
	}{
		{name: "version", args: []string{"-version"}, want: "inkwell dev"},
		{name: "keys", args: []string{"-keys"}, want: "file.save"},
		{name: "print config", args: []string{"-config", missing, "-wrap", "-print-config"}, want: "word-wrap = true"},
		{name: "too many files", args: []string{"a", "b"}, code: 2},
		{name: "bad flag", args: []string{"-nope"}, code: 2},
		{name: "bad level", args: []string{"-config", missing, "-log-level", "loud", "-dump"}, code: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if code := run(tt.args, &stdout, &stderr); code != tt.code {
				t.Fatalf("run = %d, want %d (stderr %q)", code, tt.code, stderr.String())
			}
			if !strings.Contains(stdout.String(), tt.want) {
				t.Errorf("stdout = %q, want %q", stdout.String(), tt.want)
			}
		})
	}
}

func TestReadDocumentMissing(t *testing.T) {
	text, err := readDocument(filepath.Join(t.TempDir(), "new.txt"))
	if err != nil || text != "" {
		t.Errorf("readDocument = %q, %v; want empty document", text, err)
	}
}

func key(r rune) backend.Event {
	return backend.Event{Type: backend.EventKey, Key: backend.KeyRune, Rune: r}
}

func ctrl(r rune) backend.Event {
	return backend.Event{Type: backend.EventKey, Key: backend.KeyCtrl, Rune: r}
}

func TestLoopEditSaveQuit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	a := &app{
		engine: engine.New(engine.WithPath(path)),
		cfg:    config.Default(),
		logger: logger.Nop(),
	}
	mem := backend.NewMemory(40, 6)
	for _, ev := range []backend.Event{key('h'), key('i'), ctrl('s'), ctrl('q')} {
		mem.PostEvent(ev)
	}

	done := make(chan error, 1)
	go func() { done <- a.loop(context.Background(), mem) }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("loop: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not quit")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hi" {
		t.Errorf("saved %q, want %q", data, "hi")
	}
	if a.area.Width != 36 || a.area.Height != 5 {
		t.Errorf("text area = %+v", a.area)
	}
}

func TestSaveKeepsLineEnding(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dos.txt")
	a := &app{
		engine: engine.New(engine.WithPath(path), engine.WithContent("x\r\ny\r\n")),
		cfg:    config.Default(),
		logger: logger.Nop(),
	}
	mem := backend.NewMemory(40, 6)
	for _, ev := range []backend.Event{key('z'), ctrl('s'), ctrl('q')} {
		mem.PostEvent(ev)
	}
	if err := a.loop(context.Background(), mem); err != nil {
		t.Fatalf("loop: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "zx\r\ny\r\n" {
		t.Errorf("saved %q, want CRLF separators", data)
	}
}

func TestLoopStopsOnCancel(t *testing.T) {
	a := &app{engine: engine.New(), cfg: config.Default(), logger: logger.Nop()}
	mem := backend.NewMemory(20, 4)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- a.loop(ctx, mem) }()
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("loop: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("loop ignored cancellation")
	}
}

func TestApplyConfig(t *testing.T) {
	a := &app{engine: engine.New(engine.WithContent("x")), cfg: config.Default(), logger: logger.Nop()}
	mem := backend.NewMemory(20, 4)
	// Build the renderer without entering the event loop.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := a.loop(ctx, mem); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Editor.WordWrap = true
	cfg.Editor.TabWidth = 8
	a.applyConfig(cfg, nil)
	if !a.engine.WordWrap() || a.cfg.Editor.TabWidth != 8 {
		t.Errorf("config not applied: wrap %v, tab %d", a.engine.WordWrap(), a.cfg.Editor.TabWidth)
	}

	cfg.History.MaxEntries = 1
	cfg.History.MergeWindow = 0
	cfg.Editor.LineEnding = "crlf"
	a.applyConfig(cfg, nil)
	if a.engine.LineEnding() != buffer.LineEndingCRLF {
		t.Errorf("line ending = %v, want crlf", a.engine.LineEnding())
	}
	for _, s := range []string{"a", "b"} {
		if err := a.engine.InsertAtCursor(s); err != nil {
			t.Fatal(err)
		}
	}
	if err := a.engine.Undo(); err != nil {
		t.Fatal(err)
	}
	if a.engine.CanUndo() {
		t.Error("history kept more entries than max-entries allows")
	}

	bad := cfg
	bad.Editor.TabWidth = 2
	a.applyConfig(bad, os.ErrInvalid)
	if a.cfg.Editor.TabWidth != 8 {
		t.Error("failed reload replaced the configuration")
	}
}

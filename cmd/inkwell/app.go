package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/inkwell/internal/analysis"
	"github.com/dshills/inkwell/internal/config"
	"github.com/dshills/inkwell/internal/engine"
	"github.com/dshills/inkwell/internal/engine/buffer"
	"github.com/dshills/inkwell/internal/input"
	"github.com/dshills/inkwell/internal/renderer"
	"github.com/dshills/inkwell/internal/renderer/backend"
	"github.com/dshills/inkwell/internal/renderer/core"
)

// app runs the interactive editor. All engine access happens on the
// goroutine running loop; background work reaches it through mailboxes
// and wake events.
type app struct {
	engine      *engine.Engine
	cfg         config.Config
	configPath  string
	diagnostics string
	analyzer    analysis.Analyzer
	logger      *zap.Logger

	renderer *renderer.Renderer
	handler  *input.Handler
	worker   *analysis.Worker
	configs  *analysis.Mailbox[reload]
	area     core.Rect
}

type reload struct {
	cfg config.Config
	err error
}

// run takes over the terminal until the user quits or ctx is done.
func (a *app) run(ctx context.Context) error {
	term, err := backend.NewTerminal()
	if err != nil {
		return err
	}
	if err := term.Init(); err != nil {
		return err
	}
	defer term.Shutdown()
	return a.loop(ctx, term)
}

func (a *app) loop(ctx context.Context, b backend.Backend) error {
	theme, err := renderer.ThemeFromConfig(a.cfg.Theme)
	if err != nil {
		return err
	}
	opts := renderer.DefaultOptions()
	opts.Theme = theme
	a.renderer = renderer.New(b, opts)
	a.handler = input.NewHandler(input.DefaultKeymap(), a.logger)
	a.configs = analysis.NewMailbox[reload]()

	var wg sync.WaitGroup
	defer wg.Wait()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	spawn := func(fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn()
		}()
	}

	if a.analyzer != nil {
		a.worker = analysis.NewWorker(a.analyzer, a.logger)
		spawn(func() { _ = a.worker.Run(ctx) })
		spawn(func() { wake(ctx, b, a.worker.Results().Ready()) })
		a.engine.AddListener(func(n engine.Notice) {
			if n.Edits > 0 {
				a.worker.Submit(a.engine.Snapshot())
			}
		})
		a.worker.Submit(a.engine.Snapshot())
	}
	if a.configPath != "" {
		spawn(func() {
			err := config.Watch(ctx, a.configPath, config.DefaultDebounce, func(cfg config.Config, err error) {
				a.configs.Put(reload{cfg: cfg, err: err})
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				a.logger.Warn("config watch stopped", zap.Error(err))
			}
		})
		spawn(func() { wake(ctx, b, a.configs.Ready()) })
	}
	spawn(func() {
		<-ctx.Done()
		b.PostEvent(backend.Event{Type: backend.EventWake})
	})

	if a.diagnostics != "" {
		if err := importDiagnostics(a.engine, a.diagnostics); err != nil {
			a.renderer.SetMessage(err.Error())
		}
	}

	for {
		a.sync()
		a.renderer.Draw(a.engine)

		ev := b.PollEvent()
		if ctx.Err() != nil {
			return nil
		}
		switch ev.Type {
		case backend.EventNone, backend.EventResize:
			continue
		case backend.EventWake:
			a.drain()
			continue
		}

		action, err := a.handler.Handle(a.engine, ev, a.area)
		switch {
		case errors.Is(err, input.ErrUnboundKey):
			a.renderer.SetMessage(err.Error())
		case err != nil:
			a.logger.Debug("event failed", zap.String("action", action), zap.Error(err))
			a.renderer.SetMessage(err.Error())
		}
		switch action {
		case input.ActionSave:
			a.save()
		case input.ActionQuit:
			s := a.engine.CacheStats()
			a.logger.Debug("measurement cache",
				zap.Int("size", s.Size),
				zap.Uint64("hits", s.Hits),
				zap.Uint64("misses", s.Misses),
				zap.Uint64("evictions", s.Evictions))
			return nil
		}
	}
}

// wake posts a wake event each time ready is signalled.
func wake(ctx context.Context, b backend.Backend, ready <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-ready:
			b.PostEvent(backend.Event{Type: backend.EventWake})
		}
	}
}

// sync resizes the document when the text area changed.
func (a *app) sync() {
	area := a.renderer.TextArea(a.engine)
	if area != a.area {
		a.engine.Resize(area.Width, area.Height)
		a.area = area
	}
}

// drain applies pending analysis results and configuration reloads.
func (a *app) drain() {
	if a.worker != nil {
		if res, ok := a.worker.Results().Take(); ok {
			if err := a.engine.ApplyAnalysis(res); err != nil && !errors.Is(err, analysis.ErrStaleGeneration) {
				a.logger.Warn("apply analysis", zap.Error(err))
			}
		}
	}
	if r, ok := a.configs.Take(); ok {
		a.applyConfig(r.cfg, r.err)
	}
}

// applyConfig installs a reloaded configuration. A failed reload keeps
// the current settings.
func (a *app) applyConfig(cfg config.Config, err error) {
	if err != nil {
		a.logger.Warn("config reload failed", zap.Error(err))
		a.renderer.SetMessage(err.Error())
		return
	}
	theme, err := renderer.ThemeFromConfig(cfg.Theme)
	if err != nil {
		a.renderer.SetMessage(err.Error())
		return
	}
	a.engine.SetTabWidth(cfg.Editor.TabWidth)
	a.engine.SetWordWrap(cfg.Editor.WordWrap)
	if le, err := buffer.ParseLineEnding(cfg.Editor.LineEnding); err == nil {
		a.engine.SetLineEnding(le)
	}
	a.engine.SetHistoryLimits(cfg.History.MaxEntries, time.Duration(cfg.History.MergeWindow)*time.Millisecond)
	a.renderer.SetTheme(theme)
	a.cfg = cfg
	a.logger.Info("config reloaded", zap.String("path", a.configPath))
	a.renderer.SetMessage("config reloaded")
}

func (a *app) save() {
	path := a.engine.Path()
	if path == "" {
		a.renderer.SetMessage("no file name")
		return
	}
	text := a.engine.Text()
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		a.logger.Error("save failed", zap.String("path", path), zap.Error(err))
		a.renderer.SetMessage(err.Error())
		return
	}
	a.logger.Info("saved", zap.String("path", path), zap.Int("bytes", len(text)))
	a.renderer.SetMessage(fmt.Sprintf("wrote %s", filepath.Base(path)))
}

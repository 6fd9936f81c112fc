// Package main is the entry point for the inkwell editor.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"github.com/dshills/inkwell/internal/analysis"
	"github.com/dshills/inkwell/internal/analysis/treesitter"
	"github.com/dshills/inkwell/internal/config"
	"github.com/dshills/inkwell/internal/engine"
	"github.com/dshills/inkwell/internal/input"
	"github.com/dshills/inkwell/internal/logger"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

type options struct {
	configPath  string
	logLevel    string
	logFile     string
	wrap        bool
	dump        bool
	diagnostics string
	printConfig bool
	printKeys   bool
	showVersion bool
	file        string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	switch {
	case opts.showVersion:
		fmt.Fprintf(stdout, "inkwell %s (%s)\n", version, commit)
		return 0
	case opts.printKeys:
		for _, line := range input.DefaultKeymap().Bindings() {
			fmt.Fprintln(stdout, line)
		}
		return 0
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if opts.printConfig {
		if err := config.Encode(stdout, cfg); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	logOpts := logger.Options{Level: cfg.Log.Level, File: cfg.Log.File}
	if logOpts.File == "" && !opts.dump {
		// The terminal belongs to the editor.
		logOpts.Output = io.Discard
	}
	log, closeLog, err := logger.New(logOpts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer closeLog()

	text, err := readDocument(opts.file)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	e := engine.New(
		engine.WithConfig(cfg),
		engine.WithContent(text),
		engine.WithPath(opts.file),
		engine.WithLogger(log),
	)
	analyzer := analyzerFor(opts.file, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if opts.dump {
		if err := dump(ctx, stdout, e, analyzer, opts.diagnostics); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	a := &app{
		engine:      e,
		cfg:         cfg,
		configPath:  opts.configPath,
		diagnostics: opts.diagnostics,
		analyzer:    analyzer,
		logger:      log,
	}
	if err := a.run(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	flags := flag.NewFlagSet("inkwell", flag.ContinueOnError)
	flags.SetOutput(stderr)

	flags.StringVar(&opts.configPath, "config", defaultConfigPath(), "Path to configuration file")
	flags.StringVar(&opts.configPath, "c", defaultConfigPath(), "Path to configuration file (shorthand)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&opts.logFile, "log-file", "", "Write the log to this file")
	flags.BoolVar(&opts.wrap, "wrap", false, "Enable word wrap")
	flags.BoolVar(&opts.dump, "dump", false, "Print the document annotations as JSON and exit")
	flags.StringVar(&opts.diagnostics, "diagnostics", "", "Load an LSP publishDiagnostics payload from this file")
	flags.BoolVar(&opts.printConfig, "print-config", false, "Print the effective configuration and exit")
	flags.BoolVar(&opts.printKeys, "keys", false, "Print the key bindings and exit")
	flags.BoolVar(&opts.showVersion, "version", false, "Show version information")

	flags.Usage = func() {
		fmt.Fprintf(stderr, "inkwell - a small text editor\n\n")
		fmt.Fprintf(stderr, "Usage: inkwell [options] [file]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return opts, err
	}
	if flags.NArg() > 1 {
		fmt.Fprintln(stderr, "inkwell: at most one file")
		return opts, errors.New("too many files")
	}
	opts.file = flags.Arg(0)
	return opts, nil
}

// defaultConfigPath returns $XDG_CONFIG_HOME/inkwell/config.toml, falling
// back to ~/.config.
func defaultConfigPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "inkwell", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "inkwell", "config.toml")
}

// loadConfig reads the configuration file and applies flag overrides.
func loadConfig(opts options) (config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.LoadOrDefault(opts.configPath); err != nil {
			return cfg, err
		}
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.logFile != "" {
		cfg.Log.File = opts.logFile
	}
	if opts.wrap {
		cfg.Editor.WordWrap = true
	}
	return cfg, cfg.Validate()
}

// readDocument returns the contents of path. A missing file opens as an
// empty document that is created on save.
func readDocument(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// analyzerFor returns the analyzer for the file type of path, or nil.
func analyzerFor(path string, log *zap.Logger) analysis.Analyzer {
	lang, ok := treesitter.LanguageFor(path)
	if !ok {
		return nil
	}
	a, err := treesitter.NewLanguage(lang)
	if err != nil {
		log.Warn("analyzer unavailable", zap.String("path", path), zap.Error(err))
		return nil
	}
	return a
}

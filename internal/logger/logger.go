// Package logger builds the zap loggers used throughout inkwell.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects where and how much to log.
type Options struct {
	// Level is one of debug, info, warn, error. Empty means info.
	Level string
	// File receives the log. Empty means Output, or stderr when Output is nil.
	File string
	// Output is used when File is empty.
	Output io.Writer
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

// New returns a console-encoded logger and a function that flushes it and
// closes any file it opened.
func New(opts Options) (*zap.Logger, func(), error) {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
			return nil, nil, fmt.Errorf("log level %q: %w", opts.Level, err)
		}
	}

	var (
		sink  zapcore.WriteSyncer
		file  *os.File
		logTo = "stderr"
	)
	switch {
	case opts.File != "":
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, nil, err
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			return nil, nil, err
		}
		file, sink, logTo = f, zapcore.AddSync(f), opts.File
	case opts.Output != nil:
		sink, logTo = zapcore.AddSync(opts.Output), "writer"
	default:
		sink = zapcore.Lock(os.Stderr)
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig()), sink, level)
	l := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	l.Debug("logger initialized", zap.String("output", logTo), zap.Stringer("level", level))

	closeFn := func() {
		_ = l.Sync()
		if file != nil {
			_ = file.Close()
		}
	}
	return l, closeFn, nil
}

// Nop returns a logger that discards everything. Components use it when
// no logger is supplied.
func Nop() *zap.Logger {
	return zap.NewNop()
}

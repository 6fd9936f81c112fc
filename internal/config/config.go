package config

import (
	"errors"
	"maps"
	"slices"
	"strings"
)

// Config is the complete inkwell configuration.
type Config struct {
	Editor  Editor  `toml:"editor"`
	Cache   Cache   `toml:"cache"`
	History History `toml:"history"`
	Log     Log     `toml:"log"`
	Theme   Theme   `toml:"theme"`
}

// Editor holds layout and editing settings.
type Editor struct {
	TabWidth      int     `toml:"tab-width"`
	WordWrap      bool    `toml:"word-wrap"`
	AntiWordBreak bool    `toml:"anti-word-break"`
	RTLAware      bool    `toml:"rtl-aware"`
	Width         int     `toml:"width"`
	RowHeight     float64 `toml:"row-height"`
	ScrollMargin  int     `toml:"scroll-margin"`
	// LineEnding forces "lf", "crlf" or "cr" on save. Empty keeps the
	// style of the opened file.
	LineEnding    string  `toml:"line-ending"`
}

// Cache holds measurement cache settings.
type Cache struct {
	MaxLines      int `toml:"max-lines"`
	EvictionBatch int `toml:"eviction-batch"`
}

// History holds undo and edit journal settings.
type History struct {
	MaxEntries  int `toml:"max-entries"`
	JournalSize int `toml:"journal-size"`
	// MergeWindow is in milliseconds. Zero keeps every keystroke as its
	// own undo entry.
	MergeWindow int `toml:"merge-window"`
}

// Log holds logger settings. An empty File logs to stderr.
type Log struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Theme holds hex colors ("#rrggbb" or "#rgb") for the terminal view.
// Syntax colors are keyed by highlight capture name.
type Theme struct {
	Comment   string `toml:"comment"`
	String    string `toml:"string"`
	Number    string `toml:"number"`
	Keyword   string `toml:"keyword"`
	Constant  string `toml:"constant"`
	Type      string `toml:"type"`
	Builtin   string `toml:"builtin"`
	Function  string `toml:"function"`
	Field     string `toml:"field"`
	Parameter string `toml:"parameter"`
	Operator  string `toml:"operator"`

	Gutter    string `toml:"gutter"`
	Selection string `toml:"selection"`
	Highlight string `toml:"highlight"`
	Hint      string `toml:"hint"`
	Error     string `toml:"error"`
	Warning   string `toml:"warning"`
	Status    string `toml:"status"`
}

// Colors returns the theme colors keyed by their toml name.
func (t Theme) Colors() map[string]string {
	return map[string]string{
		"comment":   t.Comment,
		"string":    t.String,
		"number":    t.Number,
		"keyword":   t.Keyword,
		"constant":  t.Constant,
		"type":      t.Type,
		"builtin":   t.Builtin,
		"function":  t.Function,
		"field":     t.Field,
		"parameter": t.Parameter,
		"operator":  t.Operator,
		"gutter":    t.Gutter,
		"selection": t.Selection,
		"highlight": t.Highlight,
		"hint":      t.Hint,
		"error":     t.Error,
		"warning":   t.Warning,
		"status":    t.Status,
	}
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Editor: Editor{
			TabWidth:      4,
			WordWrap:      false,
			AntiWordBreak: true,
			RTLAware:      true,
			Width:         80,
			RowHeight:     1,
			ScrollMargin:  3,
		},
		Cache: Cache{
			MaxLines:      2000,
			EvictionBatch: 50,
		},
		History: History{
			MaxEntries:  1000,
			JournalSize: 1024,
			MergeWindow: 8000,
		},
		Log: Log{
			Level: "info",
		},
		Theme: Theme{
			Comment:   "#7f848e",
			String:    "#98c379",
			Number:    "#d19a66",
			Keyword:   "#c678dd",
			Constant:  "#d19a66",
			Type:      "#e5c07b",
			Builtin:   "#56b6c2",
			Function:  "#61afef",
			Field:     "#e06c75",
			Parameter: "#abb2bf",
			Operator:  "#56b6c2",
			Gutter:    "#5c6370",
			Selection: "#3e4451",
			Highlight: "#4b5263",
			Hint:      "#5c6370",
			Error:     "#e06c75",
			Warning:   "#e5c07b",
			Status:    "#21252b",
		},
	}
}

var (
	logLevels   = []string{"debug", "info", "warn", "error"}
	lineEndings = []string{"", "lf", "crlf", "cr"}
)

// Validate checks every setting and returns all problems joined.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, key string, value any, reason string) {
		if !ok {
			errs = append(errs, &ValidationError{Key: key, Value: value, Reason: reason})
		}
	}

	check(c.Editor.TabWidth >= 1 && c.Editor.TabWidth <= 16, "editor.tab-width", c.Editor.TabWidth, "must be between 1 and 16")
	check(c.Editor.Width >= 1, "editor.width", c.Editor.Width, "must be positive")
	check(c.Editor.RowHeight > 0, "editor.row-height", c.Editor.RowHeight, "must be positive")
	check(c.Editor.ScrollMargin >= 0, "editor.scroll-margin", c.Editor.ScrollMargin, "must not be negative")
	check(slices.Contains(lineEndings, strings.ToLower(c.Editor.LineEnding)), "editor.line-ending", c.Editor.LineEnding, "must be empty or one of lf, crlf, cr")
	check(c.Cache.MaxLines >= 1, "cache.max-lines", c.Cache.MaxLines, "must be positive")
	check(c.Cache.EvictionBatch >= 1, "cache.eviction-batch", c.Cache.EvictionBatch, "must be positive")
	check(c.History.MaxEntries >= 1, "history.max-entries", c.History.MaxEntries, "must be positive")
	check(c.History.JournalSize >= 1, "history.journal-size", c.History.JournalSize, "must be positive")
	check(c.History.MergeWindow >= 0, "history.merge-window", c.History.MergeWindow, "must not be negative")
	level := strings.ToLower(c.Log.Level)
	valid := false
	for _, l := range logLevels {
		valid = valid || l == level
	}
	check(valid, "log.level", c.Log.Level, "must be one of "+strings.Join(logLevels, ", "))

	colors := c.Theme.Colors()
	for _, name := range slices.Sorted(maps.Keys(colors)) {
		check(isHexColor(colors[name]), "theme."+name, colors[name], "must be a hex color")
	}

	return errors.Join(errs...)
}

func isHexColor(s string) bool {
	s, ok := strings.CutPrefix(s, "#")
	if !ok || (len(s) != 3 && len(s) != 6) {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}

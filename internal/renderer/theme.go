package renderer

import (
	"fmt"

	"github.com/dshills/inkwell/internal/analysis/treesitter"
	"github.com/dshills/inkwell/internal/annotate"
	"github.com/dshills/inkwell/internal/config"
	"github.com/dshills/inkwell/internal/renderer/core"
)

// Theme maps document annotations to cell styles.
type Theme struct {
	// Text is used for unstyled text and empty cells.
	Text core.Style

	// Syntax maps span styles to text styles.
	Syntax map[annotate.Style]core.Style

	// Severity styles are layered over text covered by a diagnostic.
	Severity map[annotate.Severity]core.Style

	Gutter        core.Style
	GutterCurrent core.Style
	Selection     core.Style
	Highlight     core.Style
	Composing     core.Style
	Hint          core.Style
	Status        core.Style
}

// StyleFor returns the text style of span style s.
func (t *Theme) StyleFor(s annotate.Style) core.Style {
	if style, ok := t.Syntax[s]; ok {
		return t.Text.Merge(style)
	}
	return t.Text
}

// DefaultTheme returns the theme built from the default configuration.
func DefaultTheme() Theme {
	theme, err := ThemeFromConfig(config.Default().Theme)
	if err != nil {
		panic(err)
	}
	return theme
}

// ThemeFromConfig builds a theme from configured hex colors. Syntax colors
// are matched to span styles by highlight capture name.
func ThemeFromConfig(c config.Theme) (Theme, error) {
	colors := c.Colors()
	parsed := make(map[string]core.Color, len(colors))
	for name, hex := range colors {
		color, err := core.ColorFromHex(hex)
		if err != nil {
			return Theme{}, fmt.Errorf("theme.%s: %w", name, err)
		}
		parsed[name] = color
	}

	t := Theme{
		Text:   core.DefaultStyle(),
		Syntax: make(map[annotate.Style]core.Style),
		Severity: map[annotate.Severity]core.Style{
			annotate.SeverityHint:    core.DefaultStyle().With(core.AttrUnderline),
			annotate.SeverityInfo:    core.DefaultStyle().With(core.AttrUnderline),
			annotate.SeverityWarning: core.NewStyle(parsed["warning"]).With(core.AttrUnderline),
			annotate.SeverityError:   core.NewStyle(parsed["error"]).With(core.AttrUnderline),
		},
		Gutter:        core.NewStyle(parsed["gutter"]),
		GutterCurrent: core.DefaultStyle().With(core.AttrBold),
		Selection:     core.DefaultStyle().WithBackground(parsed["selection"]),
		Highlight:     core.DefaultStyle().WithBackground(parsed["highlight"]),
		Composing:     core.DefaultStyle().With(core.AttrUnderline),
		Hint:          core.NewStyle(parsed["hint"]).With(core.AttrItalic),
		Status:        core.DefaultStyle().WithBackground(parsed["status"]),
	}
	for s := annotate.Style(1); treesitter.StyleName(s) != ""; s++ {
		if color, ok := parsed[treesitter.StyleName(s)]; ok {
			t.Syntax[s] = core.NewStyle(color)
		}
	}
	t.Syntax[treesitter.StyleKeyword] = t.Syntax[treesitter.StyleKeyword].With(core.AttrBold)
	t.Syntax[treesitter.StyleComment] = t.Syntax[treesitter.StyleComment].With(core.AttrItalic)
	return t, nil
}

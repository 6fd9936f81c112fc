// Package core provides the cell and style types shared by the painter
// and the screen backends.
package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Attribute is a set of text attribute flags.
type Attribute uint16

// Text attribute flags.
const (
	AttrNone      Attribute = 0
	AttrBold      Attribute = 1 << iota
	AttrDim                 // faint text
	AttrItalic              // italic text
	AttrUnderline           // underlined text
	AttrReverse             // swap foreground and background
	AttrStrikethrough
)

// Has reports whether a contains attr.
func (a Attribute) Has(attr Attribute) bool {
	return a&attr != 0
}

// Color is a true color, a palette index, or the terminal default.
type Color struct {
	R, G, B uint8
	// Indexed colors keep the palette index in R.
	Indexed bool
	Default bool
}

// ColorDefault is the terminal's default color.
var ColorDefault = Color{Default: true}

// ColorFromRGB creates a true color.
func ColorFromRGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// ColorFromIndex creates a palette color.
func ColorFromIndex(index uint8) Color {
	return Color{R: index, Indexed: true}
}

// ColorFromHex parses "#rrggbb" or "#rgb". The leading '#' is optional.
func ColorFromHex(hex string) (Color, error) {
	digits := strings.TrimPrefix(hex, "#")
	if len(digits) == 3 {
		digits = string([]byte{digits[0], digits[0], digits[1], digits[1], digits[2], digits[2]})
	}
	if len(digits) != 6 {
		return Color{}, fmt.Errorf("invalid hex color %q", hex)
	}
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q", hex)
	}
	return ColorFromRGB(uint8(v>>16), uint8(v>>8), uint8(v)), nil
}

// IsDefault reports whether c is the terminal default.
func (c Color) IsDefault() bool {
	return c.Default
}

// String returns "default", "index(n)" or "#rrggbb".
func (c Color) String() string {
	switch {
	case c.Default:
		return "default"
	case c.Indexed:
		return fmt.Sprintf("index(%d)", c.R)
	default:
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
}

// Style is the look of one cell.
type Style struct {
	Foreground Color
	Background Color
	Attributes Attribute
}

// DefaultStyle returns the terminal's default style.
func DefaultStyle() Style {
	return Style{Foreground: ColorDefault, Background: ColorDefault}
}

// NewStyle returns a style with foreground fg.
func NewStyle(fg Color) Style {
	return Style{Foreground: fg, Background: ColorDefault}
}

// WithForeground returns s with foreground fg.
func (s Style) WithForeground(fg Color) Style {
	s.Foreground = fg
	return s
}

// WithBackground returns s with background bg.
func (s Style) WithBackground(bg Color) Style {
	s.Background = bg
	return s
}

// With returns s with attrs added.
func (s Style) With(attrs Attribute) Style {
	s.Attributes |= attrs
	return s
}

// Merge layers other over s. Default colors in other keep the colors of
// s and attributes are combined.
func (s Style) Merge(other Style) Style {
	if !other.Foreground.IsDefault() {
		s.Foreground = other.Foreground
	}
	if !other.Background.IsDefault() {
		s.Background = other.Background
	}
	s.Attributes |= other.Attributes
	return s
}

// Cell is one screen cell. Combining holds zero-width runes drawn on top
// of Rune. A Width of 0 marks the right half of a wide rune.
type Cell struct {
	Rune      rune
	Combining []rune
	Width     int
	Style     Style
}

// EmptyCell returns a blank cell with the default style.
func EmptyCell() Cell {
	return Cell{Rune: ' ', Width: 1, Style: DefaultStyle()}
}

// NewCell returns a one-column cell.
func NewCell(r rune, style Style) Cell {
	return Cell{Rune: r, Width: 1, Style: style}
}

// Equals reports whether two cells look the same.
func (c Cell) Equals(other Cell) bool {
	if c.Rune != other.Rune || c.Width != other.Width || c.Style != other.Style {
		return false
	}
	if len(c.Combining) != len(other.Combining) {
		return false
	}
	for i, r := range c.Combining {
		if other.Combining[i] != r {
			return false
		}
	}
	return true
}

// Text returns the rune and its combining marks.
func (c Cell) Text() string {
	return string(c.Rune) + string(c.Combining)
}

// Rect is a screen rectangle with exclusive right and bottom edges.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

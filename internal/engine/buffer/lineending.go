package buffer

import (
	"fmt"
	"strings"
)

// LineEnding specifies the line ending style. Lines are always held
// without separators; the style only applies when text leaves the buffer.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
	LineEndingCR                     // Old Mac: \r
)

// String returns the string representation of the line ending.
func (le LineEnding) String() string {
	switch le {
	case LineEndingCRLF:
		return "crlf"
	case LineEndingCR:
		return "cr"
	default:
		return "lf"
	}
}

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// ParseLineEnding parses "lf", "crlf" or "cr", ignoring case.
func ParseLineEnding(s string) (LineEnding, error) {
	switch strings.ToLower(s) {
	case "lf":
		return LineEndingLF, nil
	case "crlf":
		return LineEndingCRLF, nil
	case "cr":
		return LineEndingCR, nil
	}
	return LineEndingLF, fmt.Errorf("unknown line ending %q", s)
}

// DetectLineEnding returns the style of the first separator in text, or
// LF if there is none.
func DetectLineEnding(text string) LineEnding {
	i := strings.IndexAny(text, "\r\n")
	switch {
	case i < 0 || text[i] == '\n':
		return LineEndingLF
	case strings.HasPrefix(text[i:], "\r\n"):
		return LineEndingCRLF
	default:
		return LineEndingCR
	}
}

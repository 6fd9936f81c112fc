package layout

import "golang.org/x/text/unicode/bidi"

// IsRTL reports whether the paragraph direction of text is right-to-left,
// decided by its first strong character.
func IsRTL(text []rune) bool {
	for _, r := range text {
		if r < 0x80 {
			if ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') {
				return false
			}
			continue
		}
		p, _ := bidi.LookupRune(r)
		switch p.Class() {
		case bidi.R, bidi.AL:
			return true
		case bidi.L:
			return false
		}
	}
	return false
}

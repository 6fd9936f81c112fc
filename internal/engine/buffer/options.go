package buffer

import "strings"

// Option is a functional option for configuring a Buffer.
type Option func(*Buffer)

// WithListener registers the mutation listener at construction time.
func WithListener(l Listener) Option {
	return func(b *Buffer) {
		b.listener = l
	}
}

// WithGeneration sets the starting generation, so a reloaded buffer
// never reuses generation numbers of a previous one.
func WithGeneration(gen uint64) Option {
	return func(b *Buffer) {
		b.generation = gen
	}
}

// WithLineEnding fixes the line ending style instead of detecting it
// from the loaded text.
func WithLineEnding(le LineEnding) Option {
	return func(b *Buffer) {
		b.SetLineEnding(le)
	}
}

// NormalizeLineEndings converts "\r\n" and lone "\r" separators to "\n".
func NormalizeLineEndings(text string) string {
	if !strings.ContainsRune(text, '\r') {
		return text
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

package render

import (
	"bytes"
	"io"
	"unicode/utf8"
)

// Transcript renders into an in-memory buffer instead of a live terminal.
// Frontends that redraw the whole screen, like the bubbletea view, show
// String() on each frame. Erase drops the last rune from the buffer rather
// than emitting cursor movement.
type Transcript struct {
	*Terminal
	buf *bytes.Buffer
}

// NewTranscript returns an empty transcript. The color profile is detected
// from profileFrom, typically the program's output.
func NewTranscript(profileFrom io.Writer, opts Options) *Transcript {
	buf := &bytes.Buffer{}
	opts.CRLF = false
	return &Transcript{
		Terminal: newTerminal(buf, profileFrom, opts),
		buf:      buf,
	}
}

// Erase removes the last rendered rune.
func (t *Transcript) Erase(removed rune) error {
	b := t.buf.Bytes()
	if len(b) == 0 {
		return nil
	}
	_, size := utf8.DecodeLastRune(b)
	t.buf.Truncate(len(b) - size)
	return nil
}

// String returns everything rendered so far.
func (t *Transcript) String() string {
	return t.buf.String()
}

// Reset discards the transcript.
func (t *Transcript) Reset() {
	t.buf.Reset()
}

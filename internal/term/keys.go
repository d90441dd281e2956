package term

import (
	"bufio"
	"io"
	"unicode"
	"unicode/utf8"

	"github.com/nibzard/taskflow/internal/session"
)

const (
	keyEsc       = 0x1b
	keyDel       = 0x7f
	keyCtrlH     = 0x08
	keyCR        = '\r'
	keyLF        = '\n'
	csiIntro     = '['
	ss3Intro     = 'O'
	csiFinalLow  = 0x40
	csiFinalHigh = 0x7e
)

// KeyReader decodes raw terminal input into session keys.
//
// A lone ESC byte is the escape key. ESC followed by bytes already read in
// the same burst is an escape sequence (arrows, function keys, alt
// combinations) and decodes to a single session.KeyOther.
type KeyReader struct {
	r *bufio.Reader
}

// NewKeyReader returns a KeyReader over r, usually os.Stdin in raw mode.
func NewKeyReader(r io.Reader) *KeyReader {
	return &KeyReader{r: bufio.NewReader(r)}
}

// ReadKey blocks until a full key is available.
func (k *KeyReader) ReadKey() (session.Key, error) {
	r, size, err := k.r.ReadRune()
	if err != nil {
		return session.Key{}, err
	}

	switch {
	case r == keyCR:
		k.skipByte(keyLF)
		return session.SpecialKey(session.KeyEnter), nil
	case r == keyLF:
		return session.SpecialKey(session.KeyEnter), nil
	case r == keyDel || r == keyCtrlH:
		return session.SpecialKey(session.KeyBackspace), nil
	case r == keyEsc:
		if k.r.Buffered() == 0 {
			return session.SpecialKey(session.KeyEscape), nil
		}
		k.skipSequence()
		return session.SpecialKey(session.KeyOther), nil
	case r == utf8.RuneError && size == 1:
		return session.SpecialKey(session.KeyOther), nil
	case unicode.IsControl(r):
		return session.SpecialKey(session.KeyOther), nil
	default:
		return session.RuneKey(r), nil
	}
}

// skipByte consumes the next byte if it is already buffered and equals b.
func (k *KeyReader) skipByte(b byte) {
	if k.r.Buffered() == 0 {
		return
	}
	next, err := k.r.Peek(1)
	if err == nil && next[0] == b {
		_, _ = k.r.ReadByte()
	}
}

// skipSequence discards the remainder of an escape sequence without
// blocking for more input.
func (k *KeyReader) skipSequence() {
	intro, err := k.r.ReadByte()
	if err != nil {
		return
	}
	switch intro {
	case csiIntro:
		for k.r.Buffered() > 0 {
			b, err := k.r.ReadByte()
			if err != nil || (b >= csiFinalLow && b <= csiFinalHigh) {
				return
			}
		}
	case ss3Intro:
		if k.r.Buffered() > 0 {
			_, _ = k.r.ReadByte()
		}
	default:
		// alt+key: the byte after ESC may start a multi-byte rune
		if intro >= utf8.RuneSelf {
			_ = k.r.UnreadByte()
			_, _, _ = k.r.ReadRune()
		}
	}
}

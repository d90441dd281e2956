package session

import "fmt"

// KeyKind classifies a key event.
type KeyKind int

const (
	KeyOther KeyKind = iota
	KeyRune
	KeyEnter
	KeyBackspace
	KeyEscape
)

func (k KeyKind) String() string {
	switch k {
	case KeyRune:
		return "rune"
	case KeyEnter:
		return "enter"
	case KeyBackspace:
		return "backspace"
	case KeyEscape:
		return "escape"
	default:
		return "other"
	}
}

// KeyAction distinguishes press from release and repeat events on
// terminals that report them. Only presses drive the controller.
type KeyAction int

const (
	Press KeyAction = iota
	Release
	Repeat
)

// Key is a single key event.
type Key struct {
	Kind   KeyKind
	Rune   rune // set when Kind is KeyRune
	Action KeyAction
}

// RuneKey returns a press event for r.
func RuneKey(r rune) Key {
	return Key{Kind: KeyRune, Rune: r}
}

// SpecialKey returns a press event for a non-rune key.
func SpecialKey(kind KeyKind) Key {
	return Key{Kind: kind}
}

func (k Key) String() string {
	if k.Kind == KeyRune {
		return fmt.Sprintf("%q", k.Rune)
	}
	return k.Kind.String()
}

// KeyReader yields key events. ReadKey blocks until one is available.
type KeyReader interface {
	ReadKey() (Key, error)
}

// Package term puts the terminal into raw mode and decodes keystrokes.
package term

import (
	"errors"
	"fmt"

	xterm "github.com/charmbracelet/x/term"
)

// ErrNotTerminal is returned when raw mode is requested on something that
// is not a terminal.
var ErrNotTerminal = errors.New("input is not a terminal")

// File is the part of *os.File needed to toggle raw mode.
type File interface {
	Fd() uintptr
}

// terminal ops, replaced in tests.
var (
	isTerminal = xterm.IsTerminal
	makeRaw    = xterm.MakeRaw
	restore    = xterm.Restore
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f File) bool {
	return isTerminal(f.Fd())
}

// WithRawMode switches f into raw mode, runs fn, and restores the previous
// terminal state on every exit path, including a panic in fn. A restore
// failure is reported only when fn itself succeeded.
func WithRawMode(f File, fn func() error) (err error) {
	fd := f.Fd()
	if !isTerminal(fd) {
		return ErrNotTerminal
	}
	state, err := makeRaw(fd)
	if err != nil {
		return fmt.Errorf("enable raw mode: %w", err)
	}
	defer func() {
		if rerr := restore(fd, state); rerr != nil && err == nil {
			err = fmt.Errorf("disable raw mode: %w", rerr)
		}
	}()
	return fn()
}

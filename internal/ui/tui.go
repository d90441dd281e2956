// Package ui provides the full-screen bubbletea frontend.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nibzard/taskflow/internal/config"
	"github.com/nibzard/taskflow/internal/render"
	"github.com/nibzard/taskflow/internal/session"
	"github.com/nibzard/taskflow/internal/task"
	"github.com/nibzard/taskflow/internal/term"
)

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiConfig)

type tuiConfig struct {
	in     io.Reader
	out    io.Writer
	logger *log.Logger
}

// WithInput reads keys from r instead of stdin. The TTY check is skipped.
func WithInput(r io.Reader) TUIOption {
	return func(c *tuiConfig) {
		c.in = r
	}
}

// WithOutput draws to w instead of stdout. The TTY check is skipped.
func WithOutput(w io.Writer) TUIOption {
	return func(c *tuiConfig) {
		c.out = w
	}
}

// WithLogger sets the session logger.
func WithLogger(l *log.Logger) TUIOption {
	return func(c *tuiConfig) {
		c.logger = l
	}
}

// RunTUI drives a session against store until the user quits.
func RunTUI(ctx context.Context, cfg *config.Config, store *task.Store, opts ...TUIOption) error {
	c := &tuiConfig{
		in:     os.Stdin,
		out:    os.Stdout,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.in == os.Stdin && !IsTTY(os.Stdin) {
		return term.ErrNotTerminal
	}
	if c.out == os.Stdout && !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	m, err := newTUIModel(store, c.out, render.Options{Color: cfg.Color}, c.logger)
	if err != nil {
		return err
	}
	_, err = runProgram(ctx, m, c)
	return err
}

func runProgram(ctx context.Context, m *tuiModel, c *tuiConfig) (*tuiModel, error) {
	// A terminal input stays unwrapped so bubbletea can put it in raw mode.
	input := c.in
	var eof *eofReader
	if !IsTTY(c.in) {
		eof = &eofReader{r: c.in}
		input = eof
	}
	program := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(input),
		tea.WithOutput(c.out),
	)
	if eof != nil {
		eof.onEOF = func() { program.Send(inputClosedMsg{}) }
	}
	finalModel, err := program.Run()
	if err != nil {
		return nil, err
	}
	final, ok := finalModel.(*tuiModel)
	if !ok {
		return nil, fmt.Errorf("unexpected model %T", finalModel)
	}
	return final, final.err
}

// inputClosedMsg reports that the key input reached EOF.
type inputClosedMsg struct{}

// eofReader calls onEOF once when r reports io.EOF. bubbletea stops reading
// quietly at EOF, so the model would otherwise wait forever.
type eofReader struct {
	r     io.Reader
	onEOF func()
	once  sync.Once
}

func (e *eofReader) Read(p []byte) (int, error) {
	n, err := e.r.Read(p)
	if errors.Is(err, io.EOF) && e.onEOF != nil {
		e.once.Do(e.onEOF)
	}
	return n, err
}

// tuiModel adapts a session.Controller to the bubbletea update loop. The
// controller renders into a transcript and the view shows the transcript.
type tuiModel struct {
	ctrl   *session.Controller
	screen *render.Transcript
	err    error
}

func newTUIModel(store *task.Store, profileFrom io.Writer, opts render.Options, logger *log.Logger) (*tuiModel, error) {
	screen := render.NewTranscript(profileFrom, opts)
	ctrl := session.New(store, screen, session.WithLogger(logger))
	if err := ctrl.Start(); err != nil {
		return nil, err
	}
	return &tuiModel{ctrl: ctrl, screen: screen}, nil
}

func (m *tuiModel) Init() tea.Cmd {
	return nil
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var keyMsg tea.KeyMsg
	switch msg := msg.(type) {
	case tea.KeyMsg:
		keyMsg = msg
	case inputClosedMsg:
		if m.ctrl.Done() {
			return m, nil
		}
		m.err = session.ErrInputClosed
		return m, tea.Quit
	default:
		return m, nil
	}
	for _, k := range keysFromMsg(keyMsg) {
		if err := m.ctrl.Handle(k); err != nil {
			m.err = err
			return m, tea.Quit
		}
		if m.ctrl.Done() {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *tuiModel) View() string {
	return m.screen.String()
}

// keysFromMsg converts a bubbletea key message into session keys. A burst of
// typed or pasted runes arrives as one message and becomes one key per rune.
// Alt-modified keys and everything without a session meaning, ctrl+c
// included, become KeyOther.
func keysFromMsg(msg tea.KeyMsg) []session.Key {
	if msg.Alt {
		return []session.Key{session.SpecialKey(session.KeyOther)}
	}
	switch msg.Type {
	case tea.KeyRunes:
		keys := make([]session.Key, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			keys = append(keys, session.RuneKey(r))
		}
		return keys
	case tea.KeySpace:
		return []session.Key{session.RuneKey(' ')}
	case tea.KeyEnter:
		return []session.Key{session.SpecialKey(session.KeyEnter)}
	case tea.KeyBackspace, tea.KeyCtrlH:
		return []session.Key{session.SpecialKey(session.KeyBackspace)}
	case tea.KeyEsc:
		return []session.Key{session.SpecialKey(session.KeyEscape)}
	default:
		return []session.Key{session.SpecialKey(session.KeyOther)}
	}
}

// IsTTY returns true if v has a file descriptor attached to a terminal.
func IsTTY(v any) bool {
	f, ok := v.(term.File)
	return ok && term.IsTerminal(f)
}

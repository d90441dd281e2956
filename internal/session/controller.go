// Package session drives the interactive add/list/quit state machine.
package session

import (
	"errors"
	"fmt"
	"io"
	"unicode"

	"github.com/charmbracelet/log"

	"github.com/nibzard/taskflow/internal/task"
)

// ErrInputClosed is returned by Run when the key source reaches EOF
// before the user quits.
var ErrInputClosed = errors.New("input closed before quit")

// State is the controller state.
type State int

const (
	StateAwaitingCommand State = iota
	StateEditingTitle
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateAwaitingCommand:
		return "awaiting_command"
	case StateEditingTitle:
		return "editing_title"
	case StateTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Renderer displays everything the controller produces.
// Styling and layout are entirely up to the implementation.
type Renderer interface {
	Menu() error
	CommandPrompt() error
	CommandEcho(cmd rune) error
	InvalidCommand() error
	TitlePrompt() error
	Echo(r rune) error
	Erase(removed rune) error
	TaskAdded(id int) error
	TaskRejected(err error) error
	Cancelled() error
	TaskList(tasks []task.Task) error
	Goodbye() error
}

// Command keys.
const (
	CmdAdd  = 'a'
	CmdList = 'l'
	CmdQuit = 'q'
)

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for transition and task events.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// Controller is the interactive state machine. It is driven one key at a
// time through Handle and is not safe for concurrent use.
type Controller struct {
	store    *task.Store
	renderer Renderer
	logger   *log.Logger
	state    State
	buf      []rune
}

// New returns a controller in StateAwaitingCommand.
func New(store *task.Store, r Renderer, opts ...Option) *Controller {
	c := &Controller{
		store:    store,
		renderer: r,
		logger:   log.New(io.Discard),
		state:    StateAwaitingCommand,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Buffer returns the title being edited. It is empty outside
// StateEditingTitle.
func (c *Controller) Buffer() string {
	return string(c.buf)
}

// Done reports whether the controller has terminated.
func (c *Controller) Done() bool {
	return c.state == StateTerminated
}

// Start renders the command menu and the first command prompt.
func (c *Controller) Start() error {
	if err := c.renderer.Menu(); err != nil {
		return err
	}
	return c.renderer.CommandPrompt()
}

// Run renders the menu and feeds keys from kr into Handle until the user
// quits. Reader and renderer errors end the session.
func (c *Controller) Run(kr KeyReader) error {
	if err := c.Start(); err != nil {
		return err
	}
	for !c.Done() {
		key, err := kr.ReadKey()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return ErrInputClosed
			}
			return fmt.Errorf("read key: %w", err)
		}
		if err := c.Handle(key); err != nil {
			return err
		}
	}
	return nil
}

// Handle applies one key event. Non-press events are ignored. The command
// prompt is rendered again whenever a handled key leaves the controller in
// StateAwaitingCommand.
func (c *Controller) Handle(k Key) error {
	if k.Action != Press {
		return nil
	}

	switch c.state {
	case StateAwaitingCommand:
		if err := c.handleCommand(k); err != nil {
			return err
		}
		if c.state == StateAwaitingCommand {
			return c.renderer.CommandPrompt()
		}
		return nil
	case StateEditingTitle:
		if err := c.handleEdit(k); err != nil {
			return err
		}
		if c.state == StateAwaitingCommand {
			return c.renderer.CommandPrompt()
		}
		return nil
	default:
		return nil
	}
}

func (c *Controller) handleCommand(k Key) error {
	if k.Kind != KeyRune {
		return c.renderer.InvalidCommand()
	}

	switch k.Rune {
	case CmdAdd:
		if err := c.renderer.CommandEcho(k.Rune); err != nil {
			return err
		}
		c.buf = c.buf[:0]
		c.transition(StateEditingTitle)
		return c.renderer.TitlePrompt()
	case CmdList:
		if err := c.renderer.CommandEcho(k.Rune); err != nil {
			return err
		}
		tasks := c.store.List()
		c.logger.Debug("listing tasks", "count", len(tasks))
		return c.renderer.TaskList(tasks)
	case CmdQuit:
		if err := c.renderer.CommandEcho(k.Rune); err != nil {
			return err
		}
		if err := c.renderer.Goodbye(); err != nil {
			return err
		}
		c.transition(StateTerminated)
		return nil
	default:
		c.logger.Debug("invalid command", "key", k.String())
		return c.renderer.InvalidCommand()
	}
}

func (c *Controller) handleEdit(k Key) error {
	switch k.Kind {
	case KeyRune:
		if !unicode.IsPrint(k.Rune) {
			return nil
		}
		c.buf = append(c.buf, k.Rune)
		return c.renderer.Echo(k.Rune)
	case KeyBackspace:
		if len(c.buf) == 0 {
			return nil
		}
		removed := c.buf[len(c.buf)-1]
		c.buf = c.buf[:len(c.buf)-1]
		return c.renderer.Erase(removed)
	case KeyEnter:
		return c.submit()
	case KeyEscape:
		c.buf = c.buf[:0]
		if err := c.renderer.Cancelled(); err != nil {
			return err
		}
		c.transition(StateAwaitingCommand)
		return nil
	default:
		return nil
	}
}

// submit hands the buffer to the store. A rejected title keeps the
// controller editing with a cleared buffer.
func (c *Controller) submit() error {
	raw := string(c.buf)
	c.buf = c.buf[:0]

	id, err := c.store.Add(raw)
	if err != nil {
		c.logger.Warn("task rejected", "title", raw, "err", err)
		if rerr := c.renderer.TaskRejected(err); rerr != nil {
			return rerr
		}
		return c.renderer.TitlePrompt()
	}

	c.logger.Info("task added", "id", id, "tasks", c.store.Len())
	if err := c.renderer.TaskAdded(id); err != nil {
		return err
	}
	c.transition(StateAwaitingCommand)
	return nil
}

func (c *Controller) transition(next State) {
	if next == c.state {
		return
	}
	c.logger.Debug("state change", "from", c.state.String(), "to", next.String())
	c.state = next
}

// Package render draws session output on a terminal.
package render

import (
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/nibzard/taskflow/internal/task"
)

// Messages shown to the user.
const (
	MenuTitle      = "Task Manager Commands:"
	CommandPrompt  = "Enter command (a/l/q): "
	TitlePrompt    = "Enter task title: "
	InvalidCommand = "Invalid command. Use a/l/q"
	Cancelled      = "Task creation cancelled."
	ListTitle      = "Task List:"
	EmptyList      = "No tasks found. Press 'a' to add your first task."
	Goodbye        = "Goodbye! Thanks for using TaskFlow!"
)

var menuItems = []string{
	"  [a] Add task",
	"  [l] List tasks",
	"  [q] Quit",
}

const banner = `  _____         _    _____ _
 |_   _|_ _ ___| | _|  ___| | _____      __
   | |/ _' / __| |/ / |_  | |/ _ \ \ /\ / /
   | | (_| \__ \   <|  _| | | (_) \ V  V /
   |_|\__,_|___/_|\_\_|   |_|\___/ \_/\_/`

// Options configures a Terminal.
type Options struct {
	// Color enables styling when the output supports it.
	Color bool
	// CRLF ends lines with "\r\n". Terminals in raw mode do not translate
	// "\n" into a carriage return.
	CRLF bool
}

type styles struct {
	menu    lipgloss.Style
	prompt  lipgloss.Style
	title   lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	muted   lipgloss.Style
	label   lipgloss.Style
	accent  lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		menu:    r.NewStyle().Foreground(lipgloss.Color("6")),
		prompt:  r.NewStyle().Foreground(lipgloss.Color("7")),
		title:   r.NewStyle().Foreground(lipgloss.Color("3")),
		success: r.NewStyle().Foreground(lipgloss.Color("2")),
		failure: r.NewStyle().Foreground(lipgloss.Color("1")),
		muted:   r.NewStyle().Foreground(lipgloss.Color("8")),
		label:   r.NewStyle().Foreground(lipgloss.Color("4")),
		accent:  r.NewStyle().Foreground(lipgloss.Color("5")),
	}
}

// Terminal implements session.Renderer by writing styled text and ANSI
// control sequences to an io.Writer. Each call issues a single Write.
type Terminal struct {
	out   io.Writer
	nl    string
	style styles
}

// NewTerminal returns a Terminal writing to w. The color profile is
// detected from w unless opts.Color is false.
func NewTerminal(w io.Writer, opts Options) *Terminal {
	return newTerminal(w, w, opts)
}

func newTerminal(w, profileFrom io.Writer, opts Options) *Terminal {
	lr := lipgloss.NewRenderer(profileFrom)
	if !opts.Color {
		lr.SetColorProfile(termenv.Ascii)
	}
	nl := "\n"
	if opts.CRLF {
		nl = "\r\n"
	}
	return &Terminal{out: w, nl: nl, style: newStyles(lr)}
}

func (t *Terminal) write(s string) error {
	if _, err := io.WriteString(t.out, s); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func (t *Terminal) line(b *strings.Builder, s string) {
	b.WriteString(s)
	b.WriteString(t.nl)
}

// Intro clears the screen and prints the banner and tool information.
func (t *Terminal) Intro(version string, clear, showBanner bool) error {
	var b strings.Builder
	if clear {
		b.WriteString(ansi.EraseEntireScreen)
		b.WriteString(ansi.CursorHomePosition)
	}
	if showBanner {
		b.WriteString(t.nl)
		for _, l := range strings.Split(banner, "\n") {
			t.line(&b, t.style.menu.Render(l))
		}
		b.WriteString(t.nl)
		t.line(&b, t.style.success.Render("TaskFlow - Terminal Task Manager"))
		t.line(&b, strings.Repeat("=", 35))
		t.line(&b, t.style.title.Render("Tool Information:"))
		t.line(&b, "   Name: TaskFlow")
		t.line(&b, "   Version: "+version)
		t.line(&b, "   Description: A simple task manager with validation")
		t.line(&b, "   Language: "+t.style.accent.Render("Go"))
		t.line(&b, t.style.label.Render("Features: ")+"Add tasks, List tasks, Input validation")
		t.line(&b, t.style.label.Render("Validation: ")+"Prevents empty titles and whitespace-only titles")
	}
	if b.Len() == 0 {
		return nil
	}
	return t.write(b.String())
}

// Menu prints the command menu.
func (t *Terminal) Menu() error {
	var b strings.Builder
	b.WriteString(t.nl)
	t.line(&b, t.style.menu.Render(MenuTitle))
	for _, item := range menuItems {
		t.line(&b, t.style.menu.Render(item))
	}
	return t.write(b.String())
}

// CommandPrompt prints the command prompt without a newline.
func (t *Terminal) CommandPrompt() error {
	return t.write(t.style.prompt.Render(CommandPrompt))
}

// CommandEcho echoes an accepted command key and ends the line.
func (t *Terminal) CommandEcho(cmd rune) error {
	return t.write(string(cmd) + t.nl)
}

// InvalidCommand reports a key that is not a command.
func (t *Terminal) InvalidCommand() error {
	return t.write(t.nl + t.style.failure.Render(InvalidCommand) + t.nl + t.nl)
}

// TitlePrompt prints the title prompt without a newline.
func (t *Terminal) TitlePrompt() error {
	return t.write(t.style.title.Render(TitlePrompt))
}

// Echo prints a typed rune.
func (t *Terminal) Echo(r rune) error {
	return t.write(string(r))
}

// Erase moves the cursor back over the removed rune and clears to the end
// of the line. Wide runes take two cells.
func (t *Terminal) Erase(removed rune) error {
	w := ansi.StringWidth(string(removed))
	if w < 1 {
		w = 1
	}
	return t.write(ansi.CursorBackward(w) + ansi.EraseLineRight)
}

// TaskAdded confirms a stored task.
func (t *Terminal) TaskAdded(id int) error {
	msg := fmt.Sprintf("Task #%d added successfully!", id)
	return t.write(t.nl + t.style.success.Render(msg) + t.nl)
}

// TaskRejected prints a validation error as a sentence.
func (t *Terminal) TaskRejected(err error) error {
	msg := "Error: " + sentence(err.Error())
	return t.write(t.nl + t.style.failure.Render(msg) + t.nl)
}

// Cancelled reports that title entry was abandoned.
func (t *Terminal) Cancelled() error {
	return t.write(t.nl + t.style.muted.Render(Cancelled) + t.nl)
}

// TaskList prints tasks as "#id: title", or the empty state.
func (t *Terminal) TaskList(tasks []task.Task) error {
	var b strings.Builder
	t.line(&b, t.style.menu.Render(ListTitle))
	t.line(&b, t.style.menu.Render(strings.Repeat("─", 12)))
	if len(tasks) == 0 {
		t.line(&b, t.style.muted.Render(EmptyList))
		return t.write(b.String())
	}
	for _, tk := range tasks {
		t.line(&b, t.style.success.Render(fmt.Sprintf("#%d: ", tk.ID))+tk.Title)
	}
	return t.write(b.String())
}

// Goodbye prints the farewell line.
func (t *Terminal) Goodbye() error {
	return t.write(t.style.success.Render(Goodbye) + t.nl)
}

// sentence upper-cases the first rune of an error message for display.
func sentence(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

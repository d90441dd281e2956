// Package cmd implements the CLI command structure for taskflow.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/muesli/cancelreader"

	"github.com/nibzard/taskflow/internal/config"
	"github.com/nibzard/taskflow/internal/logging"
	"github.com/nibzard/taskflow/internal/render"
	"github.com/nibzard/taskflow/internal/session"
	"github.com/nibzard/taskflow/internal/task"
	"github.com/nibzard/taskflow/internal/term"
	"github.com/nibzard/taskflow/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// inputFile is the terminal input: readable and able to enter raw mode.
type inputFile interface {
	io.Reader
	term.File
}

// Standard streams, replaced in tests.
var (
	stdin  inputFile = os.Stdin
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Run executes the taskflow CLI.
func Run(ctx context.Context, args []string) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("taskflow", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cfg, err := config.Load(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	// No args, or a flag first, means "run"
	subcommand := "run"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "run":
		return runCommand(ctx, cfg, remainingArgs)
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs)
	case "version":
		if len(remainingArgs) > 0 {
			return fmt.Errorf("unexpected arguments: %v", remainingArgs)
		}
		return versionCommand()
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// parseCommandFlags applies options given after the command name.
func parseCommandFlags(cfg *config.Config, name string, args []string) error {
	fs := flag.NewFlagSet("taskflow "+name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := cfg.ApplyFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return nil
}

// ignoreHelp drops flag.ErrHelp; the flag set already printed its usage.
func ignoreHelp(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	return err
}

// runCommand runs a session on the raw terminal, or in the TUI when the
// ui setting asks for it.
func runCommand(ctx context.Context, cfg *config.Config, args []string) error {
	if err := parseCommandFlags(cfg, "run", args); err != nil {
		return ignoreHelp(err)
	}
	if cfg.UI == config.UITUI {
		return tuiSession(ctx, cfg)
	}
	return rawSession(ctx, cfg)
}

// tuiCommand runs a session in the bubbletea frontend.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	if err := parseCommandFlags(cfg, "tui", args); err != nil {
		return ignoreHelp(err)
	}
	return tuiSession(ctx, cfg)
}

// withRawMode guards the raw session, replaced in tests.
var withRawMode = term.WithRawMode

func rawSession(ctx context.Context, cfg *config.Config) error {
	logger, sessionLog, err := openLogger(cfg)
	if err != nil {
		return err
	}
	defer sessionLog.Close()

	out := render.NewTerminal(stdout, render.Options{Color: cfg.Color, CRLF: true})
	if err := out.Intro(Version, cfg.ClearScreen, cfg.Banner); err != nil {
		return err
	}

	ctrl := session.New(task.NewStore(), out, session.WithLogger(logger))
	logger.Info("session started", "ui", config.UIRaw)

	err = withRawMode(stdin, func() error {
		cr, err := cancelreader.NewReader(stdin)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer cr.Close()

		stop := context.AfterFunc(ctx, func() { cr.Cancel() })
		defer stop()

		return ctrl.Run(term.NewKeyReader(cr))
	})
	if errors.Is(err, cancelreader.ErrCanceled) && ctx.Err() != nil {
		err = ctx.Err()
	}
	if err != nil {
		logger.Error("session ended", "err", err)
		return err
	}
	logger.Info("session ended")
	return nil
}

func tuiSession(ctx context.Context, cfg *config.Config) error {
	logger, sessionLog, err := openLogger(cfg)
	if err != nil {
		return err
	}
	defer sessionLog.Close()

	logger.Info("session started", "ui", config.UITUI)
	err = ui.RunTUI(ctx, cfg, task.NewStore(),
		ui.WithInput(stdin),
		ui.WithOutput(stdout),
		ui.WithLogger(logger),
	)
	if err != nil {
		logger.Error("session ended", "err", err)
		return err
	}
	logger.Info("session ended")
	return nil
}

// openLogger opens the session log configured in cfg. The returned
// SessionLog is nil when file logging is disabled; Close is still safe.
func openLogger(cfg *config.Config) (*log.Logger, *logging.SessionLog, error) {
	sessionLog, err := logging.OpenSessionLog(cfg.LogDir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening session log: %w", err)
	}
	logger := logging.New(sessionLog.Writer(), logging.Options{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		Timestamps: cfg.LogTimestamps,
		Caller:     cfg.LogCaller,
	})
	return logger, sessionLog, nil
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Fprintf(stdout, "taskflow version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "TaskFlow - A simple terminal task manager")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  taskflow [options] [command] [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run       Start a session on the raw terminal (default command)")
	fmt.Fprintln(w, "  tui       Start a session in the full-screen UI")
	fmt.Fprintln(w, "  version   Show version information")
	fmt.Fprintln(w, "  help      Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Session keys:")
	fmt.Fprintln(w, "  a         Add a task (enter submits, esc cancels)")
	fmt.Fprintln(w, "  l         List tasks")
	fmt.Fprintln(w, "  q         Quit")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  TASKFLOW_CONFIG        Path to a TOML config file")
	fmt.Fprintln(w, "  TASKFLOW_UI            UI mode (raw, tui)")
	fmt.Fprintln(w, "  TASKFLOW_COLOR         Colorize output")
	fmt.Fprintln(w, "  TASKFLOW_LOG_DIR       Session log directory")
	fmt.Fprintln(w, "  TASKFLOW_LOG_LEVEL     Log level")
	fmt.Fprintln(w, "  NO_COLOR               Disable color unless TASKFLOW_COLOR is set")
}

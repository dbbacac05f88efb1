// Package cmd implements the CLI command structure for todotui.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"todotui/internal/app"
	"todotui/internal/config"
	"todotui/internal/store"
	"todotui/internal/ui"
	"todotui/internal/view"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Run executes the todotui CLI.
func Run(ctx context.Context, args []string) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("todotui", flag.ContinueOnError)
	fs.Usage = func() {
		printUsage(fs, os.Stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cfg, err := config.Load(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, os.Stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	// Determine the subcommand. No args means the interactive UI.
	subcommand := "tui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs)
	case "add":
		return addCommand(cfg, remainingArgs)
	case "list", "ls":
		return listCommand(cfg, remainingArgs)
	case "toggle", "done":
		return toggleCommand(cfg, remainingArgs)
	case "edit":
		return editCommand(cfg, remainingArgs)
	case "rm", "delete":
		return rmCommand(cfg, remainingArgs)
	case "version", "--version", "-v":
		return versionCommand()
	case "help", "--help", "-h":
		printUsage(fs, os.Stdout)
		return nil
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, os.Stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// newApp builds the logger and app for a command. The returned cleanup
// closes the log file, if one was opened.
//
// The TUI owns the terminal, so without an explicit log file its logger
// writes nowhere; CLI commands log to stderr.
func newApp(cfg *config.Config, forTUI bool) (*app.App, func(), error) {
	var w io.Writer
	cleanup := func() {}

	switch {
	case cfg.LogFile != "":
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		w = f
		cleanup = func() { f.Close() }
	case forTUI:
		w = io.Discard
	default:
		w = os.Stderr
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	logger := log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
	})
	if cfg.LogFormat == "json" {
		logger.SetFormatter(log.JSONFormatter)
	}

	return app.New(store.New(cfg.DataFile), logger), cleanup, nil
}

// tuiCommand launches the interactive task list.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todotui tui", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	remaining := fs.Args()
	if len(remaining) > 1 {
		return fmt.Errorf("unexpected arguments: %v", remaining[1:])
	}
	if len(remaining) == 1 {
		cfg.DataFile = remaining[0]
	}

	filter, err := view.ParseFilter(cfg.DefaultFilter)
	if err != nil {
		return err
	}

	a, cleanup, err := newApp(cfg, true)
	if err != nil {
		return err
	}
	defer cleanup()

	return ui.Run(ctx, a, filter)
}

// addCommand appends a new task from the command line.
func addCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todotui add", flag.ContinueOnError)
	due := fs.String("due", "", "Due date (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	text := strings.Join(fs.Args(), " ")

	a, cleanup, err := newApp(cfg, false)
	if err != nil {
		return err
	}
	defer cleanup()

	t, err := a.AddTask(text, *due)
	if err != nil {
		return err
	}
	if t.Due != "" {
		fmt.Printf("Added #%d: %s (due %s)\n", t.ID, t.Text, t.Due)
	} else {
		fmt.Printf("Added #%d: %s\n", t.ID, t.Text)
	}
	return nil
}

// listCommand prints the task list, sorted and filtered.
func listCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todotui list", flag.ContinueOnError)
	filterName := fs.String("filter", "", "Filter (all, active, done)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	remaining := fs.Args()
	if len(remaining) > 1 {
		return fmt.Errorf("unexpected arguments: %v", remaining[1:])
	}
	// "list done" works without the flag, like the original shortcuts.
	name := cfg.DefaultFilter
	if len(remaining) == 1 {
		name = remaining[0]
	}
	if *filterName != "" {
		name = *filterName
	}
	filter, err := view.ParseFilter(name)
	if err != nil {
		return err
	}

	a, cleanup, err := newApp(cfg, false)
	if err != nil {
		return err
	}
	defer cleanup()

	printRows(os.Stdout, a, filter)
	return nil
}

func printRows(w io.Writer, a *app.App, filter view.Filter) {
	rows := a.VisibleRows(filter)
	if len(rows) == 0 {
		fmt.Fprintln(w, "No tasks.")
		return
	}
	for _, row := range rows {
		mark := " "
		if row.Status == view.StatusDone {
			mark = "x"
		}
		if row.Due != "" {
			fmt.Fprintf(w, "  [%s] #%-3d %s (due %s)\n", mark, row.ID, row.Text, row.Due)
		} else {
			fmt.Fprintf(w, "  [%s] #%-3d %s\n", mark, row.ID, row.Text)
		}
	}
	total, remaining := a.SummaryCounts()
	fmt.Fprintf(w, "\n%d tasks, %d remaining\n", total, remaining)
}

// toggleCommand flips a task's completion flag.
func toggleCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todotui toggle", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	id, err := idArg(fs.Args())
	if err != nil {
		return err
	}

	a, cleanup, err := newApp(cfg, false)
	if err != nil {
		return err
	}
	defer cleanup()

	t, err := a.ToggleCompleted(id)
	if err != nil {
		return err
	}
	if t.Completed {
		fmt.Printf("Completed #%d: %s\n", t.ID, t.Text)
	} else {
		fmt.Printf("Reopened #%d: %s\n", t.ID, t.Text)
	}
	return nil
}

// editCommand rewrites a task's text and/or due date. Fields without a
// flag keep their current value; -due "" clears the date.
func editCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todotui edit", flag.ContinueOnError)
	text := fs.String("text", "", "New task text")
	due := fs.String("due", "", "New due date (YYYY-MM-DD, empty clears)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	id, err := idArg(fs.Args())
	if err != nil {
		return err
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if !set["text"] && !set["due"] {
		return fmt.Errorf("nothing to change: pass -text and/or -due")
	}

	a, cleanup, err := newApp(cfg, false)
	if err != nil {
		return err
	}
	defer cleanup()

	current, ok := a.Find(id)
	if !ok {
		return fmt.Errorf("task %d not found", id)
	}
	newText, newDue := current.Text, current.Due
	if set["text"] {
		newText = *text
	}
	if set["due"] {
		newDue = *due
	}

	t, err := a.UpdateTask(id, newText, newDue)
	if err != nil {
		return err
	}
	fmt.Printf("Updated #%d: %s\n", t.ID, t.Text)
	return nil
}

// rmCommand deletes a task by id.
func rmCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todotui rm", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	id, err := idArg(fs.Args())
	if err != nil {
		return err
	}

	a, cleanup, err := newApp(cfg, false)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := a.DeleteTask(id); err != nil {
		return err
	}
	fmt.Printf("Deleted #%d\n", id)
	return nil
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Printf("todotui version %s\n", Version)
	return nil
}

// idArg parses the single positional task id a command expects.
func idArg(args []string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("missing task id")
	}
	if len(args) > 1 {
		return 0, fmt.Errorf("unexpected arguments: %v", args[1:])
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q", args[0])
	}
	return id, nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Todotui - A to-do list for your terminal")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  todotui [command] [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui [file]        Launch the interactive task list (default command)")
	fmt.Fprintln(w, "  add [text...]     Add a task")
	fmt.Fprintln(w, "  list [filter]     Print tasks (filter: all, active, done)")
	fmt.Fprintln(w, "  toggle <id>       Toggle a task's completion")
	fmt.Fprintln(w, "  edit <id>         Change a task's text or due date")
	fmt.Fprintln(w, "  rm <id>           Delete a task")
	fmt.Fprintln(w, "  version           Show version information")
	fmt.Fprintln(w, "  help              Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Add Options (use with 'add'):")
	fmt.Fprintln(w, "  -due string")
	fmt.Fprintln(w, "        Due date (YYYY-MM-DD)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Edit Options (use with 'edit'):")
	fmt.Fprintln(w, "  -text string")
	fmt.Fprintln(w, "        New task text")
	fmt.Fprintln(w, "  -due string")
	fmt.Fprintln(w, "        New due date (YYYY-MM-DD, empty clears)")
}

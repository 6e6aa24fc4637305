// Package main is the entry point for the todo application.
// It resolves the todo file and configuration, then either runs a one-shot
// command or starts the TUI.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"todo/internal/config"
	"todo/internal/logging"
	"todo/internal/output"
	"todo/internal/priority"
	"todo/internal/storage"
	"todo/internal/theme"
	"todo/internal/todotxt"
	"todo/internal/ui"
	"todo/internal/watch"
)

// Version information - set by GoReleaser during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// defaultLogName is used when --log-file is given without a path.
const defaultLogName = "todo.log"

// cli carries the process surroundings and the state resolved once the
// persistent flags are parsed.
type cli struct {
	fs         afero.Fs
	env        config.Env
	in         io.Reader
	out        io.Writer
	errOut     io.Writer
	now        func() time.Time
	isTerminal func() bool
	runTUI     func(ui.Options) error

	v *viper.Viper

	paths     config.Paths
	cfg       *config.Config
	logger    *log.Logger
	files     *storage.FileStore
	formatter output.Formatter
}

func main() {
	c := &cli{
		fs:     afero.NewOsFs(),
		env:    config.OSEnv(),
		in:     os.Stdin,
		out:    os.Stdout,
		errOut: os.Stderr,
		now:    time.Now,
		isTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
		},
		runTUI: ui.Run,
	}

	if err := newRootCmd(c).Execute(); err != nil {
		c.printError(err)
		os.Exit(1)
	}
}

func newRootCmd(c *cli) *cobra.Command {
	c.v = viper.New()

	rootCmd := &cobra.Command{
		Use:   "todo",
		Short: "A todo.txt task manager for the terminal",
		Long: `todo manages a plain-text todo.txt file.

Run without arguments in a terminal to open the interactive view, or use
one of the commands below for one-shot edits. The file defaults to
$TODO_FILE, then ~/todo.txt.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return c.setup()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !c.isTerminal() {
				return cmd.Help()
			}
			return c.runInteractive()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringP("file", "f", "", "todo.txt file (default $TODO_FILE or ~/todo.txt)")
	flags.StringP("config", "c", "", "config file (default $TODO_CONFIG or ~/.config/todo-tui/config.toml)")
	flags.String("priority-mode", "", "priority notation for this run: letter or number")
	flags.String("theme", "", "color theme for this run")
	flags.Bool("json", false, "output in JSON format")
	flags.BoolP("verbose", "v", false, "enable debug logging")
	flags.String("log-file", "", "write TUI logs to this file")
	flags.Lookup("log-file").NoOptDefVal = defaultLogName

	_ = bindEnv(c.v, flags)

	rootCmd.AddCommand(
		addCmd(c),
		listCmd(c),
		doCmd(c),
		priCmd(c),
		depriCmd(c),
		editCmd(c),
		delCmd(c),
		reportCmd(c),
		backupCmd(c),
		importCmd(c),
		versionCmd(),
	)

	return rootCmd
}

// bindEnv lets TODO_* environment variables fill in flags that were not
// given; --priority-mode reads TODO_PRIORITY_MODE.
func bindEnv(v *viper.Viper, flags *pflag.FlagSet) error {
	v.SetEnvPrefix("todo")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v.BindPFlags(flags)
}

// setup resolves paths, configuration, logging and output for one run.
func (c *cli) setup() error {
	c.logger = logging.New(c.errOut, logging.Options{Verbose: c.v.GetBool("verbose")})
	c.paths = config.ResolvePaths(c.env, c.v.GetString("file"), c.v.GetString("config"))
	c.cfg = config.Load(c.fs, c.paths.ConfigFile, c.logger)

	if v := c.v.GetString("priority-mode"); v != "" {
		mode, err := priority.ParseMode(v)
		if err != nil {
			return err
		}
		c.cfg.PriorityMode = mode
	}
	if v := c.v.GetString("theme"); v != "" {
		if !theme.Exists(v) {
			return fmt.Errorf("unknown theme %q (available: %s)", v, strings.Join(theme.Names(), ", "))
		}
		c.cfg.Theme = v
	}

	c.files = storage.New(c.fs, c.paths.TodoFile)
	c.files.SetOnSave(func(ev storage.SaveEvent) {
		c.logger.Debug("Saved todo file", "op", ev.Operation, "task", ev.TaskID, "count", ev.Count, "path", ev.Path)
	})

	if c.v.GetBool("json") {
		c.formatter = output.NewJSONFormatter()
	} else {
		c.formatter = output.NewHumanFormatter(c.out, theme.Lookup(c.cfg.Theme))
	}

	c.logger.Debug("Resolved paths", "file", c.paths.TodoFile, "config", c.paths.ConfigFile)
	return nil
}

// runInteractive starts the TUI with a watcher on the todo file. While the
// TUI owns the terminal, logs only go to --log-file.
func (c *cli) runInteractive() error {
	logger := logging.Discard()
	if path := c.v.GetString("log-file"); path != "" {
		if path == defaultLogName {
			path = filepath.Join(c.paths.Dir(), defaultLogName)
		}
		fileLogger, closer, err := logging.OpenFile(path, c.v.GetBool("verbose"))
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer closer.Close()
		logger = fileLogger
	}

	opts := ui.Options{
		Files:      c.files,
		Fs:         c.fs,
		Config:     c.cfg,
		ConfigPath: c.paths.ConfigFile,
		Logger:     logger,
		Now:        c.now,
	}

	w, err := watch.New(watch.Config{Fs: c.fs, Path: c.paths.TodoFile, Logger: logger})
	if err != nil {
		logger.Warn("File watching disabled", "err", err)
	} else if err := w.Start(); err != nil {
		logger.Warn("File watching disabled", "err", err)
		_ = w.Close()
	} else {
		defer w.Close()
		opts.Watcher = w
	}

	return c.runTUI(opts)
}

func (c *cli) today() string {
	return c.now().Format(todotxt.DateLayout)
}

func (c *cli) jsonOutput() bool {
	return c.v.GetBool("json")
}

func (c *cli) printOutput(s string) {
	_, _ = io.WriteString(c.out, s)
}

// printError writes err in the selected format. Errors raised before the
// formatter exists fall back to plain text on stderr.
func (c *cli) printError(err error) {
	if c.formatter == nil {
		fmt.Fprintf(c.errOut, "Error: %v\n", err)
		return
	}
	if c.jsonOutput() {
		c.printOutput(c.formatter.FormatError(err))
		return
	}
	_, _ = io.WriteString(c.errOut, c.formatter.FormatError(err))
}

// versionCmd implements 'todo version'.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "todo %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}

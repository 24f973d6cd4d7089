// Package cli wires the items command tree: the interactive client by
// default, one-shot CRUD subcommands, and the development API server.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/idilsaglam/items/internal/api"
	"github.com/idilsaglam/items/internal/config"
	"github.com/idilsaglam/items/internal/effects"
	"github.com/idilsaglam/items/internal/logging"
	"github.com/idilsaglam/items/internal/store"
	"github.com/idilsaglam/items/internal/tui"
	"github.com/idilsaglam/items/internal/ui"
)

// Exit codes: 0 ok, 1 error, 2 usage.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// ExitError carries a process exit code. Its message has already been
// reported to the user.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string { return fmt.Sprintf("exit status %d", e.Code) }

// Options are for embedding and tests; the zero value is the real program.
type Options struct {
	// BaseURL overrides api.DefaultBaseURL. It is not exposed as a flag.
	BaseURL string

	Stdin    io.Reader
	Out, Err io.Writer
}

type app struct {
	opt Options

	configPath string
	theme      string
	verbose    bool
	noColor    bool

	cfg *config.Config
	log *zap.Logger
}

// NewRootCommand builds the command tree.
func NewRootCommand(opt Options) *cobra.Command {
	if opt.BaseURL == "" {
		opt.BaseURL = api.DefaultBaseURL
	}
	if opt.Stdin == nil {
		opt.Stdin = os.Stdin
	}
	a := &app{opt: opt, log: zap.NewNop()}

	root := &cobra.Command{
		Use:   "items",
		Short: "items - a CRUD client for the items API",
		Long: `items manages the records of the items REST API at ` + api.DefaultBaseURL + `.

Run without arguments to start the interactive client. The subcommands
run a single request and print the outcome.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
		RunE: a.runInteractive,
	}
	if opt.Out != nil {
		root.SetOut(opt.Out)
	}
	if opt.Err != nil {
		root.SetErr(opt.Err)
	}
	root.SetIn(opt.Stdin)

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ~/.items/config.yaml)")
	root.PersistentFlags().StringVar(&a.theme, "theme", "", "output theme: classic, neon or mono")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colored output (also NO_COLOR)")

	root.AddCommand(
		a.lsCommand(),
		a.addCommand(),
		a.editCommand(),
		a.rmCommand(),
		a.serveCommand(),
	)
	return root
}

// setup loads configuration and builds the logger before any command runs.
func (a *app) setup(cmd *cobra.Command) error {
	ui.SetOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())
	ui.SetColorForcing(false, a.noColor || os.Getenv("NO_COLOR") != "")

	path := a.configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			ui.Fail("config: " + err.Error())
			return &ExitError{Code: exitError}
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		ui.Fail(err.Error())
		return &ExitError{Code: exitError}
	}
	if a.theme != "" {
		cfg.Theme = a.theme
	}
	if err := cfg.Validate(); err != nil {
		ui.Fail("config: " + err.Error())
		return &ExitError{Code: exitUsage}
	}
	ui.SetTheme(cfg.Theme)

	// the dev server has no UI of its own, so it logs to the console
	console := cmd.Name() == "serve"
	log, err := logging.New(cfg.Log, console, a.verbose)
	if err != nil {
		ui.Fail(err.Error())
		return &ExitError{Code: exitError}
	}
	a.cfg = cfg
	a.log = log
	a.log.Debug("config loaded", zap.String("path", path), zap.String("theme", cfg.Theme))
	return nil
}

func (a *app) client() *api.Client {
	return api.NewClient(api.WithBaseURL(a.opt.BaseURL), api.WithLogger(a.log.Named("api")))
}

func (a *app) runner() *effects.Runner {
	return effects.NewRunner(a.client(), effects.WithLogger(a.log.Named("effects")))
}

func (a *app) runInteractive(cmd *cobra.Command, args []string) error {
	st := store.New(store.WithLogger(a.log.Named("store")))
	err := tui.Run(cmd.Context(), st, a.runner(),
		tui.WithAPIBase(a.opt.BaseURL),
		tui.WithLogger(a.log.Named("tui")),
	)
	if err != nil && !errors.Is(err, context.Canceled) {
		ui.Fail("tui: " + err.Error())
		return &ExitError{Code: exitError}
	}
	return nil
}

// Execute runs the program and returns its exit code.
func Execute(ctx context.Context, args []string, opt Options) int {
	root := NewRootCommand(opt)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	// cobra argument and flag errors
	ui.SetOutput(root.OutOrStdout(), root.ErrOrStderr())
	ui.Fail(err.Error())
	ui.Hint("Hint: run `items --help` for usage")
	return exitUsage
}

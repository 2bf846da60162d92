package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"wac/common"
	"wac/config"
	"wac/css"
	"wac/misc"
	"wac/render"
	"wac/session"
	"wac/state"
	"wac/theme"
)

// initializeAppContext prepares application context before command execution but
// after command line has been parsed
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	var err error

	if cmd.NArg() == 0 {
		// nothing to do, just return
		return ctx, nil
	}

	env := state.EnvFromContext(ctx)

	configFile := cmd.String("config")
	if env.Cfg, err = config.LoadConfiguration(configFile); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if cmd.Bool("debug") {
		if env.Rpt, err = env.Cfg.Reporting.Prepare(); err != nil {
			return ctx, fmt.Errorf("unable to prepare debug reporter: %w", err)
		}
		// save complete processed configuration if external configuration was provided
		if len(configFile) > 0 {
			if data, err := config.Dump(env.Cfg); err == nil {
				env.Rpt.StoreData(fmt.Sprintf("config/%s", filepath.Base(configFile)), data)
			}
		}
	}
	if env.Log, err = env.Cfg.Logging.Prepare(env.Rpt); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.RedirectStdLog()

	env.Log.Debug("Program started", zap.Strings("args", os.Args), zap.String("ver", misc.GetVersion()), zap.String("runtime", runtime.Version()), zap.String("hash", misc.GetGitHash()))

	if env.Rpt != nil {
		env.Log.Info("Creating debug report", zap.String("location", env.Rpt.Name()))
	}
	if len(configFile) == 0 && env.Log != nil {
		env.Log.Info("Using defaults (no configuration file)")
	}

	sessionPath := env.Cfg.Session.Path
	if cmd.IsSet("session") {
		sessionPath = cmd.String("session")
	}
	env.Session = session.Open(sessionPath, env.Log)
	env.Themes = theme.NewStore(env.Session, session.KeyCustomThemes, css.NewParser(env.Log), env.Log)

	if env.Rpt != nil && sessionPath != "" {
		env.Rpt.Store("session.db", sessionPath)
	}
	return ctx, nil
}

func destroyAppContext(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)

	if env.Session != nil {
		if er := env.Session.Close(); er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to close session store: %w", er))
		}
	}

	if env.Log != nil {
		env.Log.Debug("Program ended", zap.Duration("elapsed", env.Uptime()), zap.Strings("parsed args", cmd.Args().Slice()))
	}

	// close logging
	env.RestoreStdLog()

	// log is synced now and result can be used in report if necessary, errors
	// must be reported directly to stderr from now on
	if env.Rpt != nil {
		if er := env.Rpt.Close(); er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to close debug report: %w", er))
		}
	}
	// reporting is closed now - remove empty panic file if any
	if env.Cfg != nil && len(env.Cfg.Logging.FileLogger.Destination) > 0 {
		debug.SetCrashOutput(nil, debug.CrashOptions{})
		fname := filepath.Join(filepath.Dir(env.Cfg.Logging.FileLogger.Destination), misc.GetAppName()+"-panic.log")
		if fi, er := os.Stat(fname); er == nil && fi.Size() == 0 {
			if er := os.Remove(fname); er != nil {
				err = multierr.Append(err, fmt.Errorf("unable to remove empty panic log file '%s': %w", fname, er))
			}
		}
	}
	return
}

// Ignore urfave/cli default error handling - for me cli.Exit() looks
// non-transparent and unnesessary. I will return regular errors from
// subcommands.
var errWasHandled bool

// this is called before appContext is destroyed, so we have a chance to
// properly log any error from subcommand
func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {

	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Error("Program ended with error", zap.Error(err))
		errWasHandled = true
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	// do nothing special, error is reported either by exitErrHandler or on
	// exit directly to stderr.
	return err
}

func subcommandNotFoundHandler(ctx context.Context, _ *cli.Command, name string) {
	state.EnvFromContext(ctx).Log.Warn("Unknown command, nothing to do", zap.String("command", name))
}

func main() {

	// allow graceful shutdown on interrupt.
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            misc.GetAppName(),
		Usage:           "composer for WeChat official account articles",
		Version:         misc.GetVersion() + " (" + runtime.Version() + ") : " + misc.GetGitHash(),
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		CommandNotFound: subcommandNotFoundHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, DefaultText: "", Usage: "load configuration from `FILE` (YAML)"},
			&cli.StringFlag{Name: "session", Aliases: []string{"s"}, DefaultText: "", Usage: "keep editor state in `FILE` instead of the configured location"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "changes program behavior to help troubleshooting, produces report archive"},
		},
		Commands: []*cli.Command{
			{
				Name:         "render",
				Usage:        "Renders article HTML in the requested export shape",
				OnUsageError: usageErrorHandler,
				Action:       render.Run,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "to", Value: common.ExportFmtFull.String(),
						Usage: "export output `TYPE` (supported types: " + strings.Join(common.ExportFmtNames(), ", ") + ")"},
					&cli.StringFlag{Name: "theme", Aliases: []string{"t"}, Usage: "theme `SELECTION` (built-in id or custom:<id>); overrides saved session selection"},
					&cli.StringFlag{Name: "title", Usage: "document `TITLE` for full page export"},
					&cli.BoolFlag{Name: "smart", Usage: "run smart layout pass before rendering"},
					&cli.BoolFlag{Name: "standalone", Usage: "wrap inline export in a full HTML document"},
					&cli.BoolFlag{Name: "save", Usage: "store article and theme selection in the session"},
					&cli.BoolFlag{Name: "overwrite", Aliases: []string{"ow"}, Usage: "continue even if destination exists, overwrite files"},
					&cli.StringFlag{Name: "force-cp",
						Usage: "Force `ENCODING` for input not in UTF-8 (see IANA.org for character set names)"},
				},
				ArgsUsage: "SOURCE [DESTINATION]",
				CustomHelpTemplate: fmt.Sprintf(`%s
SOURCE:
    path to HTML file with article body, "-" reads from STDIN,
    if absent - saved session draft is used

DESTINATION:
    output file, or a directory in which case the file name is built from
    the configured template; "-" or absent - STDOUT
`, cli.CommandHelpTemplate),
			},
			{
				Name:         "classify",
				Usage:        "Applies smart layout heuristics to article HTML",
				OnUsageError: usageErrorHandler,
				Action:       render.Classify,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "save", Usage: "store result as the session draft"},
				},
				ArgsUsage: "SOURCE",
				CustomHelpTemplate: fmt.Sprintf(`%s
SOURCE:
    path to HTML file with article body, "-" reads from STDIN,
    if absent - saved session draft is used
`, cli.CommandHelpTemplate),
			},
			{
				Name:            "theme",
				Usage:           "Manages built-in and custom themes",
				HideHelpCommand: true,
				OnUsageError:    usageErrorHandler,
				Commands: []*cli.Command{
					{
						Name:         "list",
						Usage:        "Lists available themes",
						OnUsageError: usageErrorHandler,
						Action:       render.ThemeList,
					},
					{
						Name:         "show",
						Usage:        "Prints synthesized stylesheet for a theme",
						OnUsageError: usageErrorHandler,
						Action:       render.ThemeShow,
						ArgsUsage:    "THEME",
					},
					{
						Name:         "import",
						Usage:        "Imports custom theme from JSON definition",
						OnUsageError: usageErrorHandler,
						Action:       render.ThemeImport,
						ArgsUsage:    "SOURCE",
					},
					{
						Name:         "import-css",
						Usage:        "Imports custom theme from stylesheet text",
						OnUsageError: usageErrorHandler,
						Action:       render.ThemeImportCSS,
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "`NAME` for the imported theme", Required: true},
						},
						ArgsUsage: "SOURCE",
					},
					{
						Name:         "delete",
						Usage:        "Deletes a custom theme",
						OnUsageError: usageErrorHandler,
						Action:       render.ThemeDelete,
						ArgsUsage:    "THEME",
					},
				},
			},
			{
				Name:            "session",
				Usage:           "Inspects and updates persisted editor state",
				HideHelpCommand: true,
				OnUsageError:    usageErrorHandler,
				Commands: []*cli.Command{
					{
						Name:         "show",
						Usage:        "Prints persisted editor state",
						OnUsageError: usageErrorHandler,
						Action:       render.SessionShow,
					},
					{
						Name:         "set-theme",
						Usage:        "Persists active theme selection",
						OnUsageError: usageErrorHandler,
						Action:       render.SessionSetTheme,
						ArgsUsage:    "THEME",
					},
					{
						Name:         "set-view",
						Usage:        "Persists editor view mode (" + strings.Join(common.ViewModeNames(), ", ") + ")",
						OnUsageError: usageErrorHandler,
						Action:       render.SessionSetView,
						ArgsUsage:    "MODE",
					},
					{
						Name:         "set-html",
						Usage:        "Stores article HTML as the session draft",
						OnUsageError: usageErrorHandler,
						Action:       render.SessionSetHTML,
						ArgsUsage:    "SOURCE",
					},
					{
						Name:         "clear",
						Usage:        "Drops all persisted editor state",
						OnUsageError: usageErrorHandler,
						Action:       render.SessionClear,
					},
				},
			},
			{
				Name:  "dumpconfig",
				Usage: "Dumps either default or actual configuration (YAML)",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
				},
				OnUsageError: usageErrorHandler,
				Action:       outputConfiguration,
				ArgsUsage:    "DESTINATION",
				CustomHelpTemplate: fmt.Sprintf(`%s

DESTINATION:
    file name to write configuration to, if absent - STDOUT

Produces file with actual "active" configuration values wich is composition of
default values and values specified in configuration file. To see default
configuration embedded into the program use --default flag.
`, cli.CommandHelpTemplate),
			},
		},
	}

	var err error
	// NOTE: os.Exit is called at the end of main to set exit code, make sure
	// there are no other deffered functions after that
	defer func() {
		stop()
		if err != nil {
			// It may happen that log is either not set yet (argument parsing) or already closed,
			// report errors to stderr directly
			if !errWasHandled {
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = app.Run(ctx, os.Args)
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) error {

	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	fname := cmd.Args().Get(0)

	var (
		err   error
		data  []byte
		state string
	)

	out := os.Stdout
	if len(fname) > 0 {
		out, err = os.Create(fname)
		if err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", fname, err)
		}
		defer out.Close()

	}

	if cmd.Bool("default") {
		state = "default"
		data, err = config.Prepare()
	} else {
		state = "actual"
		data, err = config.Dump(env.Cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	if len(fname) == 0 {
		fname = "STDOUT"
	}
	env.Log.Info("Outputing configuration", zap.String("state", state), zap.String("file", fname))

	_, err = out.Write(data)
	if err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}

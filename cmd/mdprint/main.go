package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"mdprint/config"
	"mdprint/convert"
	"mdprint/misc"
	"mdprint/state"
)

// initializeAppContext prepares application context before command execution but
// after command line has been parsed
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.NArg() == 0 {
		// help or version only
		return ctx, nil
	}

	var err error
	env := state.EnvFromContext(ctx)

	configFile := cmd.String("config")
	if env.Cfg, err = config.LoadConfiguration(configFile); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if cmd.Bool("debug") {
		if env.Rpt, err = env.Cfg.Reporting.Prepare(); err != nil {
			return ctx, fmt.Errorf("unable to prepare debug reporter: %w", err)
		}
		// active configuration is stored even when it is all defaults
		name := "default.yaml"
		if len(configFile) > 0 {
			name = filepath.Base(configFile)
		}
		if data, err := config.Dump(env.Cfg); err == nil {
			env.Rpt.StoreData("config/"+name, data)
		}
	}
	if env.Log, err = env.Cfg.Logging.Prepare(env.Rpt); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.RedirectStdLog()

	env.Log.Debug("Program started",
		zap.Strings("args", os.Args),
		zap.String("ver", misc.GetVersion()),
		zap.String("runtime", runtime.Version()),
		zap.String("hash", misc.GetGitHash()),
		zap.String("default theme", env.DefaultTheme()),
		zap.Strings("theme dirs", env.Cfg.Document.ThemeDirs))

	if env.Rpt != nil {
		env.Log.Info("Creating debug report", zap.String("location", env.Rpt.Name()))
	}
	if len(configFile) == 0 {
		env.Log.Debug("Using defaults (no configuration file)")
	}
	return ctx, nil
}

func destroyAppContext(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Debug("Program ended", zap.Duration("elapsed", env.Uptime()), zap.Strings("parsed args", cmd.Args().Slice()))
	}
	env.RestoreStdLog()

	// log is synced now, from here on errors go to stderr directly
	var err error
	if er := env.Rpt.Close(); er != nil {
		err = multierr.Append(err, fmt.Errorf("unable to close debug report: %w", er))
	}
	if env.Cfg != nil {
		err = multierr.Append(err, env.Cfg.Logging.Close())
	}
	return err
}

// Subcommands return regular errors, cli.Exit is never used.
var errWasHandled bool

// called before application context is destroyed so error still could be
// logged
func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {
	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Error("Program ended with error", zap.Error(err))
		errWasHandled = true
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return err
}

func subcommandNotFoundHandler(ctx context.Context, _ *cli.Command, name string) {
	if log := state.EnvFromContext(ctx).Log; log != nil {
		log.Warn("Unknown command, nothing to do", zap.String("command", name))
	}
}

func documentFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "theme", Aliases: []string{"t"}, Usage: "use theme `NAME` (or path to .toml file) for every document, wins over front matter"},
		&cli.StringFlag{Name: "paper", Usage: "page size `SIZE` (" + strings.Join(config.PaperNames(), ", ") + ")"},
		&cli.BoolFlag{Name: "toc", Usage: "always generate table of contents"},
		&cli.BoolFlag{Name: "no-toc", Usage: "never generate table of contents"},
		&cli.IntFlag{Name: "toc-depth", Usage: "maximum heading `LEVEL` listed in table of contents"},
		&cli.BoolFlag{Name: "title-page", Usage: "generate title page from front matter"},
		&cli.BoolFlag{Name: "no-title-page", Usage: "never generate title page"},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            misc.GetAppName(),
		Usage:           "converts Markdown documents to themed Typst markup",
		Version:         misc.GetVersion() + " (" + runtime.Version() + ") : " + misc.GetGitHash(),
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		CommandNotFound: subcommandNotFoundHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, DefaultText: "", Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "changes program behavior to help troubleshooting, produces report archive"},
		},
		Commands: []*cli.Command{
			{
				Name:         "convert",
				Usage:        "Converts markdown file(s) to Typst markup",
				OnUsageError: usageErrorHandler,
				Action:       convert.Run,
				Flags: append(documentFlags(),
					&cli.BoolFlag{Name: "nodirs", Aliases: []string{"nd"}, Usage: "when producing output do not keep input directory structure"},
					&cli.BoolFlag{Name: "overwrite", Aliases: []string{"ow"}, Usage: "continue even if destination exits, overwrite files"},
					&cli.BoolFlag{Name: "stdout", Usage: "write markup to standard output instead of files"},
				),
				ArgsUsage: "SOURCE [DESTINATION]",
				CustomHelpTemplate: fmt.Sprintf(`%s
SOURCE:
    path to markdown file or to a directory, directories are processed
    recursively (".md" and ".markdown" files, hidden directories skipped)

DESTINATION:
    always a path, output file name(s) are derived from source name or
    output_name_template configuration; if absent - current working directory

Syntax highlighting theme "__mdprint_theme.tmTheme" is written next to the
output, markup expects to find it at the project root.
`, cli.CommandHelpTemplate),
			},
			{
				Name:         "check",
				Usage:        "Runs full conversion without writing anything, reports problems",
				OnUsageError: usageErrorHandler,
				Action:       convert.Check,
				Flags:        documentFlags(),
				ArgsUsage:    "SOURCE",
			},
			{
				Name:         "themes",
				Usage:        "Lists built-in themes",
				OnUsageError: usageErrorHandler,
				Action:       convert.Themes,
			},
			{
				Name:         "theme",
				Usage:        "Outputs resolved theme (YAML) or its generated syntax theme",
				OnUsageError: usageErrorHandler,
				Action:       convert.ShowTheme,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "tmtheme", Usage: "output generated syntax highlighting theme instead"},
				},
				ArgsUsage: "NAME",
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

Produces file with actual "active" configuration values which is composition of
default values and values specified in configuration file. To see default
configuration embedded into the program use --default flag.
`, cli.CommandHelpTemplate),
			},
		},
	}

	var err error
	// NOTE: os.Exit is called at the end of main to set exit code, make sure
	// there are no other deferred functions after that
	defer func() {
		stop()
		if err != nil {
			// log is either not set yet or already closed
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
		err  error
		data []byte
		kind string
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
		kind = "default"
		data, err = config.Prepare()
	} else {
		kind = "actual"
		data, err = config.Dump(env.Cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	if len(fname) == 0 {
		fname = "STDOUT"
	}
	env.Log.Debug("Outputting configuration", zap.String("state", kind), zap.String("file", fname))

	if _, err = out.Write(data); err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}

// Package cli provides the command-line interface for redditmigrate.
package cli

import (
	"context"
	"errors"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/klauern/redditmigrate/internal/logging"
	"github.com/klauern/redditmigrate/internal/store"
	"github.com/klauern/redditmigrate/internal/ui"
)

var (
	// Version is the current version of the application.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// BuildDate is the date and time of the build.
	BuildDate = "unknown"
)

// ErrAborted is returned when the user chose to stop. It is not a failure.
var ErrAborted = ui.ErrAborted

// IsCleanExit reports whether err ends a run without it being a failure: the
// user stopped at a prompt, or an upload found no snapshot to read.
func IsCleanExit(err error) bool {
	return errors.Is(err, ErrAborted) || errors.Is(err, store.ErrMissingFile)
}

// Run executes the CLI application with the given context and arguments.
func Run(ctx context.Context, args []string) error {
	app := &cli.Command{
		Name:  "redditmigrate",
		Usage: "Copy subscriptions, custom feeds, blocks and saved items between Reddit accounts",
		UsageText: `redditmigrate --download [options]
   redditmigrate --upload [options]
   redditmigrate --download --upload [options]`,
		Description: `Downloads account data from one Reddit account into JSON files in the
   data directory, and uploads it from those files to another account.

   Subreddits, multireddits and blocked users are included unless skipped.
   Saved resources and RemindMeBot reminders must be included explicitly.`,
		Version: Version,
		Flags:   append(globalFlags(), migrationFlags()...),
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			configureColors(cmd)
			return ctx, configureLogging(cmd)
		},
		Action: migrateAction,
		Commands: []*cli.Command{
			versionCommand(),
			configCommand(),
		},
	}
	return app.Run(ctx, args)
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "Path to a YAML or TOML config file (default ~/.config/redditmigrate/config.yaml)",
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "Enable verbose output (info level logging)",
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Enable debug output (debug level logging, implies verbose)",
		},
		&cli.BoolFlag{
			Name:  "log-json",
			Usage: "Write logs as JSON",
		},
		&cli.BoolFlag{
			Name:  "no-color",
			Usage: "Disable colored output",
		},
	}
}

// configureColors sets up color output based on CLI flags.
func configureColors(cmd *cli.Command) {
	if cmd.Bool("no-color") {
		ui.DisableColors()
	}
}

// configureLogging sets up the logging level based on CLI flags.
func configureLogging(cmd *cli.Command) error {
	opts := logging.DefaultOptions()
	opts.Level = slog.LevelWarn
	opts.JSON = cmd.Bool("log-json")
	opts.Output = logOutput

	if cmd.Bool("debug") {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	} else if cmd.Bool("verbose") {
		opts.Level = slog.LevelInfo
	}

	logger := logging.New(opts)
	logging.SetDefault(logger)

	logging.Debug("logging configured", slog.String("level", opts.Level.String()))

	return nil
}

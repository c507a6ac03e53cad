package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/klauern/redditmigrate/internal/config"
	"github.com/klauern/redditmigrate/internal/credentials"
	"github.com/klauern/redditmigrate/internal/logging"
	"github.com/klauern/redditmigrate/internal/migrate"
	"github.com/klauern/redditmigrate/internal/model"
	"github.com/klauern/redditmigrate/internal/reddit"
	"github.com/klauern/redditmigrate/internal/session"
	"github.com/klauern/redditmigrate/internal/store"
	"github.com/klauern/redditmigrate/internal/ui"
)

// Console and API seams, replaced in tests.
var (
	newPrompter             = ui.Stdio
	stdout        io.Writer = os.Stdout
	logOutput     io.Writer = os.Stderr
	redditOptions reddit.Options
)

func migrationFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "download",
			Aliases: []string{"d"},
			Usage:   "Download resources from Reddit and save them to files in the data directory",
		},
		&cli.BoolFlag{
			Name:    "upload",
			Aliases: []string{"u"},
			Usage:   "Upload resources from the files in the data directory to Reddit",
		},
		&cli.BoolFlag{
			Name:    "overwrite",
			Aliases: []string{"o"},
			Usage:   "Overwrite data (local files or Reddit account data) without confirming",
		},
		&cli.BoolFlag{
			Name:    "skip-blocked-users",
			Aliases: []string{"sb"},
			Usage:   "Skip blocked user operations",
		},
		&cli.BoolFlag{
			Name:    "skip-multireddits",
			Aliases: []string{"sm"},
			Usage:   "Skip multireddit operations",
		},
		&cli.BoolFlag{
			Name:    "skip-subreddits",
			Aliases: []string{"ss"},
			Usage:   "Skip subreddit operations",
		},
		&cli.BoolFlag{
			Name:    "include-remindmebot-reminders",
			Aliases: []string{"ir"},
			Usage:   "Include RemindMeBot reminder operations",
		},
		&cli.BoolFlag{
			Name:    "include-saved-resources",
			Aliases: []string{"is"},
			Usage:   "Include saved resource operations",
		},
		&cli.StringFlag{
			Name:  "data-dir",
			Usage: "Directory holding the JSON files (overrides data_dir from config)",
		},
	}
}

// selectedKinds returns the resource kinds picked by the skip and include flags.
func selectedKinds(cmd *cli.Command) []model.Kind {
	var kinds []model.Kind
	if cmd.Bool("include-remindmebot-reminders") {
		kinds = append(kinds, model.KindReminders)
	}
	if cmd.Bool("include-saved-resources") {
		kinds = append(kinds, model.KindSavedResources)
	}
	if !cmd.Bool("skip-blocked-users") {
		kinds = append(kinds, model.KindBlockedUsers)
	}
	if !cmd.Bool("skip-multireddits") {
		kinds = append(kinds, model.KindMultireddits)
	}
	if !cmd.Bool("skip-subreddits") {
		kinds = append(kinds, model.KindSubreddits)
	}
	return kinds
}

// loadConfig loads --config when given, otherwise the default config file.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	if path := cmd.String("config"); path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}

func migrateAction(ctx context.Context, cmd *cli.Command) error {
	opts := migrate.Options{
		Download: cmd.Bool("download"),
		Upload:   cmd.Bool("upload"),
		Kinds:    selectedKinds(cmd),
	}
	if !opts.Download && !opts.Upload {
		return errors.New("nothing to do: pass --download, --upload or both (see --help)")
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if dir := cmd.String("data-dir"); dir != "" {
		cfg.DataDir = dir
	}
	if !cmd.Bool("no-color") {
		ui.ApplyColorMode(cfg.Output.Color)
	}

	ctx, logger := logging.ForRun(ctx, uuid.NewString())
	logger.Info("starting run", "download", opts.Download, "upload", opts.Upload, logging.Path(cfg.DataDir))

	prompter := newPrompter()
	overwrite := cmd.Bool("overwrite")

	var confirmer ui.Confirmer = prompter
	if overwrite {
		confirmer = ui.AlwaysYes
	}

	apiOpts := redditOptions
	if apiOpts.UserAgent == "" {
		apiOpts.UserAgent = cfg.UserAgent
	}
	factory := session.NewFactory(credentials.NewProvider(prompter, cfg), prompter, apiOpts)
	open := func(ctx context.Context, role string) (migrate.API, string, error) {
		s, err := factory.Open(ctx, role)
		if err != nil {
			return nil, "", err
		}
		return s.Client, s.Account, nil
	}

	runner := migrate.NewRunner(open, store.New(cfg.DataDir, prompter, overwrite), confirmer, stdout)
	runner.BatchSize = cfg.Upload.SubscribeBatchSize
	runner.SubscribeDelay = cfg.Upload.SubscribeDelay
	runner.PollInterval = cfg.Reminders.PollInterval

	report, err := runner.Run(ctx, opts)
	if errors.Is(err, store.ErrMissingFile) {
		_, _ = fmt.Fprintln(stdout, ui.StatusError(err.Error()))
	}
	if IsCleanExit(err) {
		_, _ = fmt.Fprintln(stdout, "Exiting")
		return err
	}
	if err != nil {
		logger.Debug("run failed", logging.Err(err))
		return err
	}

	_, _ = fmt.Fprintln(stdout)
	_, _ = fmt.Fprintln(stdout, ui.RenderSummary(report.Rows(opts.Kinds)))
	return nil
}

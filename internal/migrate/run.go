package migrate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/klauern/redditmigrate/internal/logging"
	"github.com/klauern/redditmigrate/internal/model"
	"github.com/klauern/redditmigrate/internal/store"
	"github.com/klauern/redditmigrate/internal/ui"
)

// Account roles.
const (
	RoleDownload = "download"
	RoleUpload   = "upload"
)

// Opener connects to the account for role and returns the API bound to it
// together with the account name.
type Opener func(ctx context.Context, role string) (API, string, error)

// Options selects what a run does.
type Options struct {
	Download bool
	Upload   bool
	// Kinds are the resource kinds to move. They are processed in
	// model.AllKinds order whatever their order here.
	Kinds []model.Kind
}

// DefaultKinds returns the kinds moved when no include or skip flag is
// given: everything except saved resources and reminders.
func DefaultKinds() []model.Kind {
	return []model.Kind{model.KindBlockedUsers, model.KindMultireddits, model.KindSubreddits}
}

// Enabled reports whether kind is selected.
func (o Options) Enabled(kind model.Kind) bool {
	for _, k := range o.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Report summarizes a run.
type Report struct {
	Downloaded map[model.Kind]int
	Uploaded   map[model.Kind]int
	Ledger     *model.SkipLedger
	// LedgerPath is set when the skipped resources file was written.
	LedgerPath string
}

// Rows returns one summary row per selected kind.
func (r *Report) Rows(kinds []model.Kind) []ui.SummaryRow {
	rows := make([]ui.SummaryRow, 0, len(kinds))
	for _, k := range model.AllKinds() {
		if !(Options{Kinds: kinds}).Enabled(k) {
			continue
		}
		row := ui.SummaryRow{Kind: k.Label(), Downloaded: r.Downloaded[k], Uploaded: r.Uploaded[k]}
		if r.Ledger != nil {
			row.Skipped = r.Ledger.Count(k)
		}
		rows = append(rows, row)
	}
	return rows
}

// Runner performs download and upload runs.
type Runner struct {
	open      Opener
	store     *store.Store
	confirmer ui.Confirmer
	out       io.Writer

	// Progress is where running counters are drawn. Defaults to stderr.
	Progress io.Writer
	// BatchSize, SubscribeDelay and PollInterval tune the uploader and
	// downloader; zero values keep their defaults.
	BatchSize      int
	SubscribeDelay time.Duration
	PollInterval   time.Duration
	// Sleep and Now are replaceable for tests.
	Sleep SleepFunc
	Now   func() time.Time
}

// NewRunner creates a runner. confirmer gates each upload step and is
// typically ui.AlwaysYes when the user asked to overwrite without asking.
func NewRunner(open Opener, st *store.Store, confirmer ui.Confirmer, out io.Writer) *Runner {
	return &Runner{
		open:           open,
		store:          st,
		confirmer:      confirmer,
		out:            out,
		SubscribeDelay: DefaultSubscribeDelay,
		PollInterval:   DefaultPollInterval,
		Sleep:          Sleep,
		Now:            time.Now,
	}
}

// Run downloads and then uploads, as selected by opts.
func (r *Runner) Run(ctx context.Context, opts Options) (*Report, error) {
	report := &Report{
		Downloaded: map[model.Kind]int{},
		Uploaded:   map[model.Kind]int{},
	}
	p := printer{out: r.out}

	if opts.Download {
		p.println(ui.Bold("Downloading data from Reddit"))
		if err := r.download(ctx, opts, report); err != nil {
			return report, err
		}
	}

	if opts.Upload {
		if opts.Download {
			p.println()
		}
		p.println(ui.Bold("Uploading data to Reddit"))
		if err := r.upload(ctx, opts, report); err != nil {
			return report, err
		}
	}
	return report, nil
}

func (r *Runner) download(ctx context.Context, opts Options, report *Report) error {
	api, account, err := r.open(ctx, RoleDownload)
	if err != nil {
		return err
	}
	logging.WithContext(ctx).Info("downloading", logging.Account(account))

	d := NewDownloader(api, account, r.out)
	d.Progress = r.Progress
	d.Sleep = r.Sleep
	d.Now = r.Now
	if r.PollInterval > 0 {
		d.PollInterval = r.PollInterval
	}

	for _, kind := range model.AllKinds() {
		if !opts.Enabled(kind) {
			continue
		}
		n, err := r.downloadKind(ctx, d, kind)
		if err != nil {
			return err
		}
		report.Downloaded[kind] = n
	}
	return nil
}

func (r *Runner) downloadKind(ctx context.Context, d *Downloader, kind model.Kind) (int, error) {
	switch kind {
	case model.KindReminders:
		return fetchAndSave(ctx, r.store, kind, d.Reminders)
	case model.KindSavedResources:
		return fetchAndSave(ctx, r.store, kind, d.SavedResources)
	case model.KindBlockedUsers:
		return fetchAndSave(ctx, r.store, kind, d.BlockedUsers)
	case model.KindMultireddits:
		return fetchAndSave(ctx, r.store, kind, d.Multireddits)
	case model.KindSubreddits:
		return fetchAndSave(ctx, r.store, kind, d.Subreddits)
	default:
		return 0, fmt.Errorf("unknown resource kind %q", kind)
	}
}

func fetchAndSave[T any](ctx context.Context, st *store.Store, kind model.Kind, fetch func(context.Context) ([]T, error)) (int, error) {
	records, err := fetch(ctx)
	if err != nil {
		return 0, err
	}
	if _, err := store.Save(st, kind, records); err != nil {
		return len(records), err
	}
	return len(records), nil
}

// snapshots holds the loaded data for an upload run.
type snapshots struct {
	reminders    []model.Reminder
	saved        []model.SavedResource
	blocked      []string
	multireddits []model.Multireddit
	subreddits   []model.Subreddit
}

// load reads every selected snapshot before anything is sent to Reddit, so
// a missing file ends the run without touching the upload account.
func (r *Runner) load(opts Options) (*snapshots, error) {
	s := &snapshots{}
	var err error
	for _, kind := range model.AllKinds() {
		if !opts.Enabled(kind) {
			continue
		}
		switch kind {
		case model.KindReminders:
			s.reminders, err = store.Load[model.Reminder](r.store, kind)
		case model.KindSavedResources:
			s.saved, err = store.Load[model.SavedResource](r.store, kind)
		case model.KindBlockedUsers:
			s.blocked, err = store.Load[string](r.store, kind)
		case model.KindMultireddits:
			s.multireddits, err = store.Load[model.Multireddit](r.store, kind)
		case model.KindSubreddits:
			s.subreddits, err = store.Load[model.Subreddit](r.store, kind)
		}
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (r *Runner) upload(ctx context.Context, opts Options, report *Report) (err error) {
	data, err := r.load(opts)
	if err != nil {
		return err
	}

	api, account, err := r.open(ctx, RoleUpload)
	if err != nil {
		return err
	}
	logging.WithContext(ctx).Info("uploading", logging.Account(account))

	report.Ledger = model.NewSkipLedger()
	defer func() {
		if ledgerErr := r.writeLedger(report); ledgerErr != nil {
			err = errors.Join(err, ledgerErr)
		}
	}()

	u := NewUploader(api, account, r.confirmer, report.Ledger, r.out)
	u.Progress = r.Progress
	u.Sleep = r.Sleep
	if r.SubscribeDelay > 0 {
		u.SubscribeDelay = r.SubscribeDelay
	}
	if r.BatchSize > 0 {
		u.BatchSize = r.BatchSize
	}

	for _, kind := range model.AllKinds() {
		if !opts.Enabled(kind) {
			continue
		}
		var n int
		switch kind {
		case model.KindReminders:
			n, err = u.Reminders(ctx, data.reminders)
		case model.KindSavedResources:
			n, err = u.SavedResources(ctx, data.saved)
		case model.KindBlockedUsers:
			n, err = u.BlockedUsers(ctx, data.blocked)
		case model.KindMultireddits:
			n, err = u.Multireddits(ctx, data.multireddits)
		case model.KindSubreddits:
			n, err = u.Subreddits(ctx, data.subreddits)
		}
		report.Uploaded[kind] = n
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) writeLedger(report *Report) error {
	path, written, err := r.store.WriteLedger(report.Ledger)
	if err != nil {
		return fmt.Errorf("failed to write skipped resources: %w", err)
	}
	if written {
		report.LedgerPath = path
		printer{out: r.out}.printf("Skipped resources were written to %s\n", ui.Bold(path))
	}
	return nil
}

package migrate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/klauern/redditmigrate/internal/logging"
	"github.com/klauern/redditmigrate/internal/model"
	"github.com/klauern/redditmigrate/internal/progress"
	"github.com/klauern/redditmigrate/internal/reddit"
	"github.com/klauern/redditmigrate/internal/remindme"
	"github.com/klauern/redditmigrate/internal/ui"
)

const (
	// MaxSubscribeBatch is the most communities one subscribe call accepts.
	MaxSubscribeBatch = 1000
	// DefaultSubscribeDelay is the pause between subscribe calls.
	DefaultSubscribeDelay = 10 * time.Second
)

// UploadQuestion gates every mutating upload step.
const UploadQuestion = "Do you want to upload this data to your Reddit account?"

// RestrictedToPM is the error type Reddit returns when the account may not
// send private messages yet.
const RestrictedToPM = "RESTRICTED_TO_PM"

// RestrictedHint follows a RestrictedToPM rejection of a reminder message.
const RestrictedHint = "If the error above is about RESTRICTED_TO_PM, it's possible your Reddit account is too new " +
	"to send messages to other users. Please try this function again when your Reddit account has higher karma."

// Uploader replays resources on the upload account. Items it decides not to
// replay are recorded in its ledger.
type Uploader struct {
	api       API
	account   string
	confirmer ui.Confirmer
	ledger    *model.SkipLedger
	printer   printer

	// Progress is where running counters are drawn. Defaults to stderr.
	Progress io.Writer
	// BatchSize is the number of communities per subscribe call.
	BatchSize int
	// SubscribeDelay is the pause between subscribe calls.
	SubscribeDelay time.Duration
	// Sleep is replaceable for tests.
	Sleep SleepFunc
}

// NewUploader creates an uploader acting as account. Each kind is only
// uploaded after confirmer agrees; skipped items go to ledger.
func NewUploader(api API, account string, confirmer ui.Confirmer, ledger *model.SkipLedger, out io.Writer) *Uploader {
	return &Uploader{
		api:            api,
		account:        account,
		confirmer:      confirmer,
		ledger:         ledger,
		printer:        printer{out: out},
		BatchSize:      MaxSubscribeBatch,
		SubscribeDelay: DefaultSubscribeDelay,
		Sleep:          Sleep,
	}
}

// Ledger returns the ledger skipped items are recorded in.
func (u *Uploader) Ledger() *model.SkipLedger {
	return u.ledger
}

func (u *Uploader) counter(kind model.Kind, total int) *progress.Counter {
	return progress.New(progress.Options{
		Max:         int64(total),
		Description: ui.Title(kind.Label()) + " uploaded",
		Writer:      u.Progress,
	})
}

func (u *Uploader) start(kind model.Kind) {
	u.printer.println()
	u.printer.println(ui.Info(fmt.Sprintf("Uploading %s to Reddit", kind.Label())))
}

func (u *Uploader) done(kind model.Kind, n int) {
	u.printer.println(ui.StatusSuccess(fmt.Sprintf("Total %s uploaded: %d", kind.Label(), n)))
}

func (u *Uploader) skip(ctx context.Context, kind model.Kind, msg string) {
	logging.WithContext(ctx).Info("skipping item", logging.Kind(kind.String()), logging.Reason(msg))
	u.printer.println(ui.StatusSkipped(msg))
}

// confirm asks whether to write to the upload account, naming it.
func (u *Uploader) confirm(kind model.Kind) (bool, error) {
	ok, err := u.confirmer.Confirm(fmt.Sprintf("%s\nReddit account: %s", UploadQuestion, u.account))
	if err != nil {
		return false, err
	}
	if !ok {
		u.printer.println(ui.StatusSkipped(fmt.Sprintf("Not uploading %s", kind.Label())))
	}
	return ok, nil
}

// Multireddits creates every multireddit whose display name is not already
// taken on the upload account. Taken names, and feeds without communities,
// go to the ledger.
func (u *Uploader) Multireddits(ctx context.Context, multis []model.Multireddit) (int, error) {
	u.start(model.KindMultireddits)

	u.printer.println("Downloading existing multireddits to prevent collisions")
	existing, err := fetchMultireddits(ctx, u.api, progress.New(progress.Options{
		Description: "Existing multireddits downloaded",
		Writer:      u.Progress,
	}))
	if err != nil {
		return 0, err
	}
	taken := make(map[string]bool, len(existing))
	for _, m := range existing {
		taken[m.DisplayName] = true
	}

	if ok, err := u.confirm(model.KindMultireddits); err != nil || !ok {
		return 0, err
	}

	c := u.counter(model.KindMultireddits, len(multis))
	defer c.Finish()

	for _, m := range multis {
		if taken[m.DisplayName] {
			u.skip(ctx, model.KindMultireddits, fmt.Sprintf("Skipping multireddit %s as it already exists", m.DisplayName))
			u.ledger.SkipMultireddit(m)
			continue
		}
		if len(m.Subreddits) == 0 {
			u.skip(ctx, model.KindMultireddits, fmt.Sprintf("Skipping multireddit %s as it has no subreddits", m.DisplayName))
			u.ledger.SkipMultireddit(m)
			continue
		}

		err := u.api.CreateMultireddit(ctx, u.account, reddit.Multireddit{
			DisplayName: m.DisplayName,
			Subreddits:  m.Subreddits,
			Visibility:  m.Visibility,
		})
		if err != nil {
			return c.Count(), fmt.Errorf("failed to create multireddit %s: %w", m.DisplayName, err)
		}
		taken[m.DisplayName] = true
		c.Add(1)
	}

	u.done(model.KindMultireddits, c.Count())
	return c.Count(), nil
}

// SubscribableSubreddits splits subreddits into the ones that can be
// subscribed to and the ones that cannot. Quarantined communities are
// rejected first, then private ones. Order is kept on both sides.
func SubscribableSubreddits(subreddits []model.Subreddit) (keep []model.Subreddit, rejected []Rejection) {
	for _, s := range subreddits {
		switch {
		case s.IsQuarantined:
			rejected = append(rejected, Rejection{Subreddit: s, Reason: "quarantined"})
		case s.IsPrivate():
			rejected = append(rejected, Rejection{Subreddit: s, Reason: "private"})
		default:
			keep = append(keep, s)
		}
	}
	return keep, rejected
}

// Rejection is a subreddit left out of subscribing, with the reason.
type Rejection struct {
	Subreddit model.Subreddit
	Reason    string
}

// Subreddits subscribes to every public community in batches, pausing
// between subscribe calls. Quarantined and private communities go to the
// ledger.
func (u *Uploader) Subreddits(ctx context.Context, subreddits []model.Subreddit) (int, error) {
	u.start(model.KindSubreddits)

	if ok, err := u.confirm(model.KindSubreddits); err != nil || !ok {
		return 0, err
	}

	keep, rejected := SubscribableSubreddits(subreddits)
	for _, r := range rejected {
		u.skip(ctx, model.KindSubreddits, fmt.Sprintf("Skipping subreddit %s as it's %s", r.Subreddit.DisplayName, r.Reason))
		u.ledger.SkipSubreddit(r.Subreddit)
	}

	names := make([]string, 0, len(keep))
	for _, s := range keep {
		names = append(names, s.DisplayName)
	}

	size := min(max(u.BatchSize, 1), MaxSubscribeBatch)
	c := u.counter(model.KindSubreddits, len(names))
	defer c.Finish()

	delay := u.SubscribeDelay
	if delay <= 0 {
		delay = DefaultSubscribeDelay
	}
	for i, batch := range Batch(names, size) {
		if i > 0 {
			logging.WithContext(ctx).Debug("pausing between subscribe calls", logging.Duration(delay))
			if err := u.Sleep(ctx, delay); err != nil {
				return c.Count(), err
			}
		}
		if err := u.api.Subscribe(ctx, batch); err != nil {
			return c.Count(), fmt.Errorf("failed to subscribe to %d subreddits: %w", len(batch), err)
		}
		c.Add(len(batch))
	}

	u.done(model.KindSubreddits, c.Count())
	return c.Count(), nil
}

// BlockedUsers blocks every listed account.
func (u *Uploader) BlockedUsers(ctx context.Context, names []string) (int, error) {
	u.start(model.KindBlockedUsers)

	if ok, err := u.confirm(model.KindBlockedUsers); err != nil || !ok {
		return 0, err
	}

	c := u.counter(model.KindBlockedUsers, len(names))
	defer c.Finish()

	for _, name := range names {
		if err := u.api.BlockUser(ctx, name); err != nil {
			return c.Count(), fmt.Errorf("failed to block %s: %w", name, err)
		}
		c.Add(1)
	}

	u.done(model.KindBlockedUsers, c.Count())
	return c.Count(), nil
}

// SavedResources saves every item, oldest first, so the upload account's
// saved list ends up in the same order as the download account's.
// Items with an unknown type or an unreadable permalink are skipped.
func (u *Uploader) SavedResources(ctx context.Context, saved []model.SavedResource) (int, error) {
	u.start(model.KindSavedResources)

	if ok, err := u.confirm(model.KindSavedResources); err != nil || !ok {
		return 0, err
	}

	replay := slices.Clone(saved)
	slices.Reverse(replay)

	c := u.counter(model.KindSavedResources, len(replay))
	defer c.Finish()

	for _, r := range replay {
		fullname, err := savedFullname(r)
		if err != nil {
			logging.WithContext(ctx).Warn("skipping saved resource", logging.Path(r.Permalink), logging.Err(err))
			u.printer.println(ui.StatusWarning(fmt.Sprintf("Skipping saved resource %s: %v", r.Permalink, err)))
			continue
		}
		if err := u.api.Save(ctx, fullname); err != nil {
			return c.Count(), fmt.Errorf("failed to save %s: %w", r.Permalink, err)
		}
		c.Add(1)
	}

	u.done(model.KindSavedResources, c.Count())
	return c.Count(), nil
}

func savedFullname(r model.SavedResource) (string, error) {
	t, err := model.ParseSavedResourceType(string(r.SavedResourceType))
	if err != nil {
		return "", err
	}
	if t == model.SavedComment {
		return reddit.CommentFullname(r.Permalink)
	}
	return reddit.SubmissionFullname(r.Permalink)
}

// Reminders asks RemindMeBot to recreate the first reminder only; the rest
// are recorded in the ledger for the user to recreate by hand. A message
// Reddit rejects is recorded in the ledger and does not end the run.
func (u *Uploader) Reminders(ctx context.Context, reminders []model.Reminder) (int, error) {
	u.start(model.KindReminders)

	if len(reminders) == 0 {
		u.done(model.KindReminders, 0)
		return 0, nil
	}
	if ok, err := u.confirm(model.KindReminders); err != nil || !ok {
		return 0, err
	}

	first, rest := reminders[0], reminders[1:]
	uploaded := 0

	err := u.api.SendMessage(ctx, remindme.BotUsername, remindme.ListSubject, remindme.ReplayBody(first))
	var apiErr *reddit.APIError
	switch {
	case errors.As(err, &apiErr):
		logging.WithContext(ctx).Warn("reminder rejected", logging.Err(err))
		u.ledger.SkipReminder(first)
		for _, item := range apiErr.Items {
			u.printer.println(ui.StatusError(fmt.Sprintf("Reddit rejected the message: %s", item.Type)))
		}
		if apiErr.Has(RestrictedToPM) {
			u.printer.println(ui.Warning(RestrictedHint))
		}
	case err != nil:
		return 0, fmt.Errorf("failed to message %s: %w", remindme.BotUsername, err)
	default:
		uploaded = 1
	}

	for _, r := range rest {
		u.ledger.SkipReminder(r)
	}
	if len(rest) > 0 {
		u.skip(ctx, model.KindReminders, fmt.Sprintf("Left %d more reminders for manual follow-up", len(rest)))
	}

	u.done(model.KindReminders, uploaded)
	return uploaded, nil
}

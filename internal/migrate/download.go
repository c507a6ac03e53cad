package migrate

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/klauern/redditmigrate/internal/logging"
	"github.com/klauern/redditmigrate/internal/model"
	"github.com/klauern/redditmigrate/internal/progress"
	"github.com/klauern/redditmigrate/internal/reddit"
	"github.com/klauern/redditmigrate/internal/remindme"
	"github.com/klauern/redditmigrate/internal/ui"
)

// DefaultPollInterval is how long to wait between inbox checks for the
// RemindMeBot reply.
const DefaultPollInterval = 10 * time.Second

// Downloader pulls resources from the download account.
type Downloader struct {
	api     API
	account string
	printer printer

	// Progress is where running counters are drawn. Defaults to stderr.
	Progress io.Writer
	// PollInterval is the pause before each inbox check for the bot reply.
	PollInterval time.Duration
	// Sleep and Now are replaceable for tests.
	Sleep SleepFunc
	Now   func() time.Time
}

// NewDownloader creates a downloader acting as account. The transcript is
// written to out.
func NewDownloader(api API, account string, out io.Writer) *Downloader {
	return &Downloader{
		api:          api,
		account:      account,
		printer:      printer{out: out},
		PollInterval: DefaultPollInterval,
		Sleep:        Sleep,
		Now:          time.Now,
	}
}

func (d *Downloader) counter(kind model.Kind) *progress.Counter {
	return progress.New(progress.Options{
		Description: ui.Title(kind.Label()) + " downloaded",
		Writer:      d.Progress,
	})
}

func (d *Downloader) start(kind model.Kind) {
	d.printer.println()
	d.printer.println(ui.Info(fmt.Sprintf("Downloading %s from Reddit", kind.Label())))
}

func (d *Downloader) done(kind model.Kind, n int) {
	d.printer.println(ui.StatusSuccess(fmt.Sprintf("Total %s downloaded: %d", kind.Label(), n)))
}

// Subreddits returns every community the account is subscribed to.
func (d *Downloader) Subreddits(ctx context.Context) ([]model.Subreddit, error) {
	d.start(model.KindSubreddits)
	c := d.counter(model.KindSubreddits)

	subreddits := []model.Subreddit{}
	err := d.api.Subscriptions(ctx, func(s reddit.Subreddit) bool {
		subreddits = append(subreddits, model.Subreddit{
			DisplayName:   s.DisplayName,
			IsQuarantined: s.Quarantine,
			SubredditType: s.SubredditType,
		})
		c.Add(1)
		return true
	})
	c.Finish()
	if err != nil {
		return nil, fmt.Errorf("failed to download subreddits: %w", err)
	}

	d.done(model.KindSubreddits, len(subreddits))
	return subreddits, nil
}

// Multireddits returns the account's custom feeds with their member
// communities flattened to names.
func (d *Downloader) Multireddits(ctx context.Context) ([]model.Multireddit, error) {
	d.start(model.KindMultireddits)

	multis, err := fetchMultireddits(ctx, d.api, d.counter(model.KindMultireddits))
	if err != nil {
		return nil, err
	}

	d.done(model.KindMultireddits, len(multis))
	return multis, nil
}

func fetchMultireddits(ctx context.Context, api API, c *progress.Counter) ([]model.Multireddit, error) {
	remote, err := api.Multireddits(ctx)
	if err != nil {
		c.Finish()
		return nil, fmt.Errorf("failed to download multireddits: %w", err)
	}

	multis := make([]model.Multireddit, 0, len(remote))
	for _, m := range remote {
		subreddits := make([]string, len(m.Subreddits))
		copy(subreddits, m.Subreddits)
		multis = append(multis, model.Multireddit{
			DisplayName: m.DisplayName,
			Subreddits:  subreddits,
			Visibility:  m.Visibility,
		})
		c.Add(1)
	}
	c.Finish()
	return multis, nil
}

// BlockedUsers returns the names of the accounts the user has blocked.
func (d *Downloader) BlockedUsers(ctx context.Context) ([]string, error) {
	d.start(model.KindBlockedUsers)

	names, err := d.api.BlockedUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to download blocked users: %w", err)
	}
	if names == nil {
		names = []string{}
	}

	d.done(model.KindBlockedUsers, len(names))
	return names, nil
}

// SavedResources returns the account's saved submissions and comments,
// newest first. Items of any other kind are logged and left out.
func (d *Downloader) SavedResources(ctx context.Context) ([]model.SavedResource, error) {
	d.start(model.KindSavedResources)
	c := d.counter(model.KindSavedResources)

	saved := []model.SavedResource{}
	err := d.api.Saved(ctx, d.account, func(item reddit.SavedItem) bool {
		r, err := savedResourceFrom(item)
		if err != nil {
			logging.WithContext(ctx).Warn("skipping saved item", logging.Path(item.Permalink), logging.Err(err))
			d.printer.println(ui.StatusWarning(fmt.Sprintf("Skipping saved item %s: %v", item.Fullname, err)))
			return true
		}
		saved = append(saved, r)
		c.Add(1)
		return true
	})
	c.Finish()
	if err != nil {
		return nil, fmt.Errorf("failed to download saved resources: %w", err)
	}

	d.done(model.KindSavedResources, len(saved))
	return saved, nil
}

func savedResourceFrom(item reddit.SavedItem) (model.SavedResource, error) {
	var t model.SavedResourceType
	switch item.Kind {
	case reddit.KindComment:
		t = model.SavedComment
	case reddit.KindLink:
		t = model.SavedSubmission
	default:
		return model.SavedResource{}, fmt.Errorf("%w: %q", model.ErrUnsupportedKind, item.Kind)
	}

	r := model.SavedResource{
		Permalink:         item.Permalink,
		SavedResourceType: t,
		Title:             item.Title,
	}
	if !item.AuthorDeleted() {
		author := item.Author
		r.AuthorName = &author
	}
	return r, nil
}

// Reminders asks RemindMeBot for the account's reminders, waits for the
// reply and scrapes the reminders out of it. It polls until the reply
// arrives or ctx is done.
func (d *Downloader) Reminders(ctx context.Context) ([]model.Reminder, error) {
	d.start(model.KindReminders)
	log := logging.WithContext(ctx)

	sentAt := d.Now()
	d.printer.println("Messaging RemindMeBot to get current reminders")
	if err := d.api.SendMessage(ctx, remindme.BotUsername, remindme.ListSubject, remindme.ListBody); err != nil {
		return nil, fmt.Errorf("failed to message %s: %w", remindme.BotUsername, err)
	}

	var reply string
	for attempt := 1; ; attempt++ {
		d.printer.println(fmt.Sprintf("Waiting %s to check Reddit inbox", d.PollInterval))
		if err := d.Sleep(ctx, d.PollInterval); err != nil {
			return nil, err
		}

		d.printer.println("Checking Reddit inbox for reply from RemindMeBot")
		body, found, err := d.findReply(ctx, sentAt)
		if err != nil {
			return nil, err
		}
		if found {
			reply = body
			break
		}
		log.Debug("reply not found yet", logging.Count(attempt))
		d.printer.println(ui.Dim("Didn't find reply from RemindMeBot"))
	}

	reminders, unparsed := remindme.ParseReply(reply)
	if unparsed > 0 {
		log.Warn("some reminder rows could not be read", logging.Count(unparsed))
		d.printer.println(ui.StatusWarning(fmt.Sprintf("%d reminder rows could not be read", unparsed)))
	}

	d.done(model.KindReminders, len(reminders))
	return reminders, nil
}

// findReply scans the inbox newest first and returns the bot's answer to
// the list request, if it has arrived. The scan stops at the first message
// older than the request.
func (d *Downloader) findReply(ctx context.Context, sentAt time.Time) (string, bool, error) {
	reply, found := "", false
	err := d.api.InboxMessages(ctx, func(m reddit.Message) bool {
		if remindme.IsListReply(m, d.account, sentAt) {
			reply, found = m.Replies[0], true
			return false
		}
		return !m.Created.Before(sentAt.Truncate(time.Second))
	})
	if err != nil {
		return "", false, fmt.Errorf("failed to read inbox: %w", err)
	}
	return reply, found, nil
}

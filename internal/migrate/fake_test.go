package migrate

import (
	"context"
	"time"

	"github.com/klauern/redditmigrate/internal/reddit"
)

// fakeAPI is an in-memory Reddit account.
type fakeAPI struct {
	subscriptions []reddit.Subreddit
	multis        []reddit.Multireddit
	blocked       []string
	saved         []reddit.SavedItem
	// inbox returns the inbox contents for the nth check (1-based).
	inbox func(check int) []reddit.Message

	// sendErr is returned by SendMessage when set.
	sendErr error

	inboxChecks int
	sent        []sentMessage
	created     []reddit.Multireddit
	subscribed  [][]string
	blockedNow  []string
	savedNow    []string
	calls       int
}

type sentMessage struct {
	to, subject, text string
}

var _ API = (*fakeAPI)(nil)

func (f *fakeAPI) Subscriptions(_ context.Context, fn func(reddit.Subreddit) bool) error {
	f.calls++
	for _, s := range f.subscriptions {
		if !fn(s) {
			break
		}
	}
	return nil
}

func (f *fakeAPI) Multireddits(context.Context) ([]reddit.Multireddit, error) {
	f.calls++
	return f.multis, nil
}

func (f *fakeAPI) BlockedUsers(context.Context) ([]string, error) {
	f.calls++
	return f.blocked, nil
}

func (f *fakeAPI) Saved(_ context.Context, _ string, fn func(reddit.SavedItem) bool) error {
	f.calls++
	for _, s := range f.saved {
		if !fn(s) {
			break
		}
	}
	return nil
}

func (f *fakeAPI) InboxMessages(_ context.Context, fn func(reddit.Message) bool) error {
	f.calls++
	f.inboxChecks++
	if f.inbox == nil {
		return nil
	}
	for _, m := range f.inbox(f.inboxChecks) {
		if !fn(m) {
			break
		}
	}
	return nil
}

func (f *fakeAPI) SendMessage(_ context.Context, to, subject, text string) error {
	f.calls++
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, sentMessage{to: to, subject: subject, text: text})
	return nil
}

func (f *fakeAPI) CreateMultireddit(_ context.Context, _ string, m reddit.Multireddit) error {
	f.calls++
	f.created = append(f.created, m)
	return nil
}

func (f *fakeAPI) Subscribe(_ context.Context, names []string) error {
	f.calls++
	f.subscribed = append(f.subscribed, append([]string(nil), names...))
	return nil
}

func (f *fakeAPI) BlockUser(_ context.Context, name string) error {
	f.calls++
	f.blockedNow = append(f.blockedNow, name)
	return nil
}

func (f *fakeAPI) Save(_ context.Context, fullname string) error {
	f.calls++
	f.savedNow = append(f.savedNow, fullname)
	return nil
}

// recordSleep returns a SleepFunc that records durations without waiting.
func recordSleep(slept *[]time.Duration) SleepFunc {
	return func(ctx context.Context, d time.Duration) error {
		*slept = append(*slept, d)
		return ctx.Err()
	}
}

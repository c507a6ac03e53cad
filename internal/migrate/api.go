// Package migrate moves account resources between Reddit accounts: it pulls
// them from the download account, replays them on the upload account, and
// keeps track of what could not be replayed.
package migrate

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/klauern/redditmigrate/internal/reddit"
)

// API is the part of the Reddit client used by migrations. *reddit.Client
// implements it.
type API interface {
	Subscriptions(ctx context.Context, fn func(reddit.Subreddit) bool) error
	Multireddits(ctx context.Context) ([]reddit.Multireddit, error)
	BlockedUsers(ctx context.Context) ([]string, error)
	Saved(ctx context.Context, username string, fn func(reddit.SavedItem) bool) error
	InboxMessages(ctx context.Context, fn func(reddit.Message) bool) error

	SendMessage(ctx context.Context, to, subject, text string) error
	CreateMultireddit(ctx context.Context, owner string, m reddit.Multireddit) error
	Subscribe(ctx context.Context, names []string) error
	BlockUser(ctx context.Context, name string) error
	Save(ctx context.Context, fullname string) error
}

var _ API = (*reddit.Client)(nil)

// SleepFunc pauses for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the real SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// printer writes the human readable run transcript.
type printer struct {
	out io.Writer
}

func (p printer) println(a ...any) {
	if p.out == nil {
		return
	}
	_, _ = fmt.Fprintln(p.out, a...)
}

func (p printer) printf(format string, a ...any) {
	if p.out == nil {
		return
	}
	_, _ = fmt.Fprintf(p.out, format, a...)
}

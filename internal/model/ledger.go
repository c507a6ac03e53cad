package model

// SkipLedger collects the items an upload run deliberately did not migrate,
// so they can be handled by hand afterwards.
type SkipLedger struct {
	Multireddits []Multireddit `json:"multireddits"`
	Subreddits   []Subreddit   `json:"subreddits"`
	Reminders    []Reminder    `json:"remindmebotReminders"`
}

// NewSkipLedger returns a ledger whose lists are empty but non-nil, so an
// unused ledger still serializes every key.
func NewSkipLedger() *SkipLedger {
	return &SkipLedger{
		Multireddits: []Multireddit{},
		Subreddits:   []Subreddit{},
		Reminders:    []Reminder{},
	}
}

// SkipMultireddit records a multireddit that was not created.
func (l *SkipLedger) SkipMultireddit(m Multireddit) {
	l.Multireddits = append(l.Multireddits, m)
}

// SkipSubreddit records a subreddit that was not subscribed to.
func (l *SkipLedger) SkipSubreddit(s Subreddit) {
	l.Subreddits = append(l.Subreddits, s)
}

// SkipReminder records a reminder that could not be replayed.
func (l *SkipLedger) SkipReminder(r Reminder) {
	l.Reminders = append(l.Reminders, r)
}

// Count returns the number of skipped items of kind k.
func (l *SkipLedger) Count(k Kind) int {
	switch k {
	case KindMultireddits:
		return len(l.Multireddits)
	case KindSubreddits:
		return len(l.Subreddits)
	case KindReminders:
		return len(l.Reminders)
	default:
		return 0
	}
}

// Package model defines the account resources redditmigrate moves between
// Reddit accounts, as they are stored in the data directory.
package model

import "strings"

// Kind identifies one type of account resource.
type Kind string

const (
	// KindSubreddits are the communities the account is subscribed to.
	KindSubreddits Kind = "subreddits"
	// KindMultireddits are the account's custom feeds.
	KindMultireddits Kind = "multireddits"
	// KindBlockedUsers are the accounts the user has blocked.
	KindBlockedUsers Kind = "blocked-users"
	// KindSavedResources are saved submissions and comments.
	KindSavedResources Kind = "saved-resources"
	// KindReminders are reminders held by RemindMeBot for the account.
	KindReminders Kind = "remindmebot-reminders"
)

// SkippedResourcesFile is the file name of the skip ledger.
const SkippedResourcesFile = "skipped-resources.json"

// AllKinds returns every resource kind in the order they are processed.
func AllKinds() []Kind {
	return []Kind{KindReminders, KindSavedResources, KindBlockedUsers, KindMultireddits, KindSubreddits}
}

// String returns the string representation of the kind.
func (k Kind) String() string {
	return string(k)
}

// Key returns the top-level JSON key the kind's list is stored under.
func (k Kind) Key() string {
	switch k {
	case KindBlockedUsers:
		return "blockedUsers"
	case KindSavedResources:
		return "savedResources"
	case KindReminders:
		return "remindmebotReminders"
	default:
		return string(k)
	}
}

// FileName returns the name of the kind's document in the data directory.
func (k Kind) FileName() string {
	return string(k) + ".json"
}

// Label returns a lower-case human readable name ("saved resources").
func (k Kind) Label() string {
	return strings.ReplaceAll(string(k), "-", " ")
}

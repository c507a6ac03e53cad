package model

import (
	"errors"
	"fmt"
)

// ErrUnsupportedKind is returned for remote items that are neither a
// comment nor a submission.
var ErrUnsupportedKind = errors.New("unsupported saved resource kind")

// Subreddit types that affect uploading.
const (
	SubredditTypePublic     = "public"
	SubredditTypePrivate    = "private"
	SubredditTypeRestricted = "restricted"
)

// Subreddit is a subscribed community.
type Subreddit struct {
	DisplayName   string `json:"displayName"`
	IsQuarantined bool   `json:"isQuarantined"`
	SubredditType string `json:"subredditType"`
}

// IsPrivate reports whether the community is private.
func (s Subreddit) IsPrivate() bool {
	return s.SubredditType == SubredditTypePrivate
}

// Multireddit is a custom feed. Subreddits must be non-empty for Reddit to
// accept its creation.
type Multireddit struct {
	DisplayName string   `json:"displayName"`
	Subreddits  []string `json:"subreddits"`
	Visibility  string   `json:"visibility"`
}

// SavedResourceType distinguishes saved comments from saved submissions.
type SavedResourceType string

const (
	SavedComment    SavedResourceType = "comment"
	SavedSubmission SavedResourceType = "submission"
)

// IsValid returns true if the type is a comment or a submission.
func (t SavedResourceType) IsValid() bool {
	return t == SavedComment || t == SavedSubmission
}

// ParseSavedResourceType converts a string to a SavedResourceType.
func ParseSavedResourceType(s string) (SavedResourceType, error) {
	t := SavedResourceType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedKind, s)
	}
	return t, nil
}

// SavedResource is a saved submission or comment. AuthorName is nil when
// the author account was deleted. For comments, Title is the title of the
// parent submission.
type SavedResource struct {
	AuthorName        *string           `json:"authorName"`
	Permalink         string            `json:"permalink"`
	SavedResourceType SavedResourceType `json:"savedResourceType"`
	Title             string            `json:"title"`
}

// Reminder is one RemindMeBot reminder. Datetime is kept exactly as the bot
// displayed it.
type Reminder struct {
	Datetime string `json:"datetime"`
	Source   string `json:"source"`
}

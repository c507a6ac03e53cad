package reddit

import (
	"time"

	"github.com/tidwall/gjson"
)

// Fullname prefixes for the saved thing kinds.
const (
	KindComment = "t1"
	KindLink    = "t3"
)

// Account is the authenticated user.
type Account struct {
	Name string
}

// Subreddit is a community from the subscription listing.
type Subreddit struct {
	DisplayName   string
	Quarantine    bool
	SubredditType string
}

// Multireddit is a custom feed owned by the account.
type Multireddit struct {
	Name        string
	DisplayName string
	Visibility  string
	Subreddits  []string
}

// SavedItem is one entry of the saved listing. Kind is KindComment or
// KindLink for the two supported shapes; any other kind is passed through
// so the caller can decide what to do with it.
type SavedItem struct {
	Kind      string
	Fullname  string
	Author    string
	Permalink string
	// Title is the submission title; for comments it is the parent
	// submission's title.
	Title string
}

// AuthorDeleted reports whether the author account no longer exists.
func (s SavedItem) AuthorDeleted() bool {
	return s.Author == "" || s.Author == "[deleted]"
}

// Message is a private message thread from the inbox.
type Message struct {
	Fullname string
	Author   string
	Subject  string
	Body     string
	Created  time.Time
	// Replies holds the bodies of the replies in thread order.
	Replies []string
}

func subredditFrom(data gjson.Result) Subreddit {
	return Subreddit{
		DisplayName:   data.Get("display_name").String(),
		Quarantine:    data.Get("quarantine").Bool(),
		SubredditType: data.Get("subreddit_type").String(),
	}
}

func multiredditFrom(data gjson.Result) Multireddit {
	m := Multireddit{
		Name:        data.Get("name").String(),
		DisplayName: data.Get("display_name").String(),
		Visibility:  data.Get("visibility").String(),
		Subreddits:  []string{},
	}
	for _, sr := range data.Get("subreddits").Array() {
		m.Subreddits = append(m.Subreddits, sr.Get("name").String())
	}
	return m
}

func savedItemFrom(thing gjson.Result) SavedItem {
	data := thing.Get("data")
	item := SavedItem{
		Kind:      thing.Get("kind").String(),
		Fullname:  data.Get("name").String(),
		Author:    data.Get("author").String(),
		Permalink: data.Get("permalink").String(),
		Title:     data.Get("title").String(),
	}
	if item.Kind == KindComment {
		item.Title = data.Get("link_title").String()
	}
	return item
}

func messageFrom(data gjson.Result) Message {
	m := Message{
		Fullname: data.Get("name").String(),
		Author:   data.Get("author").String(),
		Subject:  data.Get("subject").String(),
		Body:     data.Get("body").String(),
		Created:  time.Unix(data.Get("created_utc").Int(), 0).UTC(),
	}
	// replies is "" when the thread has none, otherwise a Listing.
	for _, reply := range data.Get("replies.data.children").Array() {
		m.Replies = append(m.Replies, reply.Get("data.body").String())
	}
	return m
}

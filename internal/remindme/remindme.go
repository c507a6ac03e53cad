// Package remindme talks to RemindMeBot: it builds the messages the bot
// understands and scrapes reminders out of its replies.
//
// The bot's reply format is not a documented interface. Rows the parser does
// not recognize are counted and dropped, so a format change produces a short
// or empty list rather than an error.
package remindme

import (
	"fmt"
	"strings"
	"time"

	"github.com/klauern/redditmigrate/internal/model"
	"github.com/klauern/redditmigrate/internal/reddit"
)

const (
	// BotUsername is the account that owns the reminders.
	BotUsername = "RemindMeBot"
	// ListSubject is the subject of the message asking for the reminder list.
	ListSubject = "RemindMe"
	// ListBody is the body of the message asking for the reminder list.
	ListBody = "MyReminders!"
)

// rowPrefix marks a reminder row in the bot's markdown table.
const rowPrefix = "|[Source](https://"

// ParseReply extracts reminders from the body of a RemindMeBot reply.
// It returns the reminders in table order and the number of reminder rows
// that could not be parsed.
func ParseReply(body string) ([]model.Reminder, int) {
	reminders := []model.Reminder{}
	unparsed := 0

	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimRight(line, "\r")
		if !strings.HasPrefix(line, rowPrefix) {
			continue
		}
		r, ok := parseRow(line)
		if !ok {
			unparsed++
			continue
		}
		reminders = append(reminders, r)
	}
	return reminders, unparsed
}

// parseRow reads a row shaped like
//
//	|[Source](https://link)|explicit source|**2030-01-01 00:00:00 UTC**|...
//
// The explicit source column wins over the link target when present.
func parseRow(line string) (model.Reminder, bool) {
	segments := strings.Split(line, "|")
	if len(segments) < 4 {
		return model.Reminder{}, false
	}

	source := strings.TrimSpace(segments[2])
	if source == "" {
		link := segments[1]
		i := strings.LastIndex(link, "(")
		if i < 0 {
			return model.Reminder{}, false
		}
		source = strings.ReplaceAll(link[i+1:], ")", "")
	}

	bold := strings.Split(segments[3], "**")
	if len(bold) < 3 || source == "" {
		return model.Reminder{}, false
	}

	return model.Reminder{Datetime: bold[1], Source: source}, true
}

// IsListReply reports whether m is the list request sent by self at or after
// sentAt, and the bot has answered it. Reddit timestamps have one second
// resolution, so sentAt is truncated before comparing.
func IsListReply(m reddit.Message, self string, sentAt time.Time) bool {
	return m.Author != "" &&
		m.Author == self &&
		m.Body == ListBody &&
		m.Subject == ListSubject &&
		!m.Created.Before(sentAt.Truncate(time.Second)) &&
		len(m.Replies) > 0
}

// ReplayBody returns the message that asks the bot to recreate r.
func ReplayBody(r model.Reminder) string {
	return fmt.Sprintf("RemindMe! %s \"%s\"", r.Datetime, r.Source)
}

package reddit

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/goccy/go-json"
)

const maxMultiNameLength = 21

var separators = regexp.MustCompile(`[\W_]+`)

// MultiName derives the URL name Reddit uses for a multireddit from its
// display name: each run of separators becomes one underscore, leading and
// trailing underscores are dropped, the result is lowercased and cut to 21
// characters at a word boundary when possible.
//
// \W is ASCII-only in Go regexps, so letters outside ASCII count as
// separators too ("Café" becomes "caf"), where Reddit would keep them.
func MultiName(displayName string) string {
	name := separators.ReplaceAllString(displayName, "_")
	name = strings.ToLower(strings.Trim(name, "_"))
	if len(name) > maxMultiNameLength {
		name = name[:maxMultiNameLength]
		if i := strings.LastIndex(name, "_"); i > 0 {
			name = name[:i]
		}
	}
	if name == "" {
		return "_"
	}
	return name
}

type multiModel struct {
	DisplayName string          `json:"display_name"`
	Subreddits  []multiMemberSR `json:"subreddits"`
	Visibility  string          `json:"visibility"`
}

type multiMemberSR struct {
	Name string `json:"name"`
}

// CreateMultireddit creates a custom feed owned by owner.
func (c *Client) CreateMultireddit(ctx context.Context, owner string, m Multireddit) error {
	payload := multiModel{
		DisplayName: m.DisplayName,
		Subreddits:  make([]multiMemberSR, 0, len(m.Subreddits)),
		Visibility:  m.Visibility,
	}
	for _, sr := range m.Subreddits {
		payload.Subreddits = append(payload.Subreddits, multiMemberSR{Name: sr})
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode multireddit %s: %w", m.DisplayName, err)
	}

	name := m.Name
	if name == "" {
		name = MultiName(m.DisplayName)
	}
	path := "/api/multi/user/" + url.PathEscape(owner) + "/m/" + url.PathEscape(name)
	_, err = c.post(ctx, path, url.Values{"model": {string(encoded)}})
	return err
}

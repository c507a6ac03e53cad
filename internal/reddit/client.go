// Package reddit is a small client for the parts of the Reddit API that
// redditmigrate reads from and writes to. It authenticates with the OAuth2
// password grant used by Reddit "script" applications.
package reddit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"

	"github.com/klauern/redditmigrate/internal/logging"
)

const (
	// DefaultBaseURL is the host serving OAuth-authenticated API calls.
	DefaultBaseURL = "https://oauth.reddit.com"
	// DefaultTokenURL is Reddit's OAuth2 token endpoint.
	DefaultTokenURL = "https://www.reddit.com/api/v1/access_token"
	// DefaultUserAgent identifies the tool to Reddit.
	DefaultUserAgent = "reddit-account-migration"

	pageLimit      = 100
	requestTimeout = 30 * time.Second
)

// Credentials identify a Reddit script application and the account it acts for.
type Credentials struct {
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
}

// Options overrides the endpoints and transport. Zero values use the defaults.
type Options struct {
	BaseURL    string
	TokenURL   string
	UserAgent  string
	HTTPClient *http.Client
}

// Client performs authenticated Reddit API calls.
type Client struct {
	http    *http.Client
	baseURL string
}

// Authenticate obtains an access token for creds. Rejected credentials are
// reported as ErrAuthentication; anything else (network, server errors) is
// returned as is.
func Authenticate(ctx context.Context, creds Credentials, opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.TokenURL == "" {
		opts.TokenURL = DefaultTokenURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}

	base := opts.HTTPClient
	if base == nil {
		base = &http.Client{Timeout: requestTimeout}
	}
	transport := base.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	uaClient := &http.Client{
		Timeout:   base.Timeout,
		Transport: &userAgentTransport{userAgent: opts.UserAgent, next: transport},
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, uaClient)

	conf := &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  opts.TokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}
	src := &passwordTokenSource{ctx: ctx, conf: conf, username: creds.Username, password: creds.Password}

	tok, err := src.Token()
	if err != nil {
		return nil, err
	}

	logging.Debug("obtained reddit access token", logging.Account(creds.Username))

	return &Client{
		http:    oauth2.NewClient(ctx, oauth2.ReuseTokenSource(tok, src)),
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
	}, nil
}

// passwordTokenSource repeats the password grant whenever the token expires,
// because Reddit issues no refresh token for script applications.
type passwordTokenSource struct {
	ctx      context.Context
	conf     *oauth2.Config
	username string
	password string
}

func (s *passwordTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.conf.PasswordCredentialsToken(s.ctx, s.username, s.password)
	if err != nil {
		return nil, classifyTokenError(err)
	}
	return tok, nil
}

// classifyTokenError maps credential rejections to ErrAuthentication.
// Reddit answers a wrong password with HTTP 200 and {"error": "invalid_grant"},
// which surfaces either as a RetrieveError with an error code or as a
// response without an access token depending on the oauth2 version.
func classifyTokenError(err error) error {
	var rErr *oauth2.RetrieveError
	if errors.As(err, &rErr) {
		if rErr.ErrorCode != "" {
			return fmt.Errorf("%w: %s", ErrAuthentication, rErr.ErrorCode)
		}
		if rErr.Response != nil {
			switch rErr.Response.StatusCode {
			case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
				return fmt.Errorf("%w: status %d", ErrAuthentication, rErr.Response.StatusCode)
			}
		}
		return err
	}
	if strings.Contains(err.Error(), "missing access_token") {
		return fmt.Errorf("%w: %v", ErrAuthentication, err)
	}
	return err
}

type userAgentTransport struct {
	userAgent string
	next      http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)
	return t.next.RoundTrip(req)
}

// Me returns the authenticated account.
func (c *Client) Me(ctx context.Context) (Account, error) {
	body, err := c.get(ctx, "/api/v1/me", nil)
	var status *StatusError
	if errors.As(err, &status) && status.StatusCode == http.StatusForbidden {
		return Account{}, fmt.Errorf("%w: %s", ErrAuthentication, err)
	}
	if err != nil {
		return Account{}, err
	}
	name := body.Get("name").String()
	if name == "" {
		return Account{}, fmt.Errorf("%w: identity response has no account name", ErrAuthentication)
	}
	return Account{Name: name}, nil
}

// Subscriptions calls fn for every subscribed community until fn returns false.
func (c *Client) Subscriptions(ctx context.Context, fn func(Subreddit) bool) error {
	return c.paginate(ctx, "/subreddits/mine/subscriber", nil, func(thing gjson.Result) bool {
		return fn(subredditFrom(thing.Get("data")))
	})
}

// Multireddits returns the account's custom feeds.
func (c *Client) Multireddits(ctx context.Context) ([]Multireddit, error) {
	body, err := c.get(ctx, "/api/multi/mine", url.Values{"expand_srs": {"false"}})
	if err != nil {
		return nil, err
	}
	multis := []Multireddit{}
	for _, thing := range body.Array() {
		multis = append(multis, multiredditFrom(thing.Get("data")))
	}
	return multis, nil
}

// BlockedUsers returns the names of the accounts the user has blocked.
func (c *Client) BlockedUsers(ctx context.Context) ([]string, error) {
	body, err := c.get(ctx, "/prefs/blocked", nil)
	if err != nil {
		return nil, err
	}
	names := []string{}
	for _, user := range body.Get("data.children").Array() {
		names = append(names, user.Get("name").String())
	}
	return names, nil
}

// Saved calls fn for every saved submission and comment of username, newest
// first, until fn returns false.
func (c *Client) Saved(ctx context.Context, username string, fn func(SavedItem) bool) error {
	path := "/user/" + url.PathEscape(username) + "/saved"
	return c.paginate(ctx, path, nil, func(thing gjson.Result) bool {
		return fn(savedItemFrom(thing))
	})
}

// InboxMessages calls fn for every private message thread, newest first,
// until fn returns false.
func (c *Client) InboxMessages(ctx context.Context, fn func(Message) bool) error {
	return c.paginate(ctx, "/message/messages", nil, func(thing gjson.Result) bool {
		return fn(messageFrom(thing.Get("data")))
	})
}

// SendMessage sends a private message.
func (c *Client) SendMessage(ctx context.Context, to, subject, text string) error {
	_, err := c.post(ctx, "/api/compose", url.Values{
		"api_type": {"json"},
		"to":       {to},
		"subject":  {subject},
		"text":     {text},
	})
	return err
}

// Subscribe subscribes the account to every named community in one call.
func (c *Client) Subscribe(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}
	_, err := c.post(ctx, "/api/subscribe", url.Values{
		"action":                {"sub"},
		"sr_name":               {strings.Join(names, ",")},
		"skip_initial_defaults": {"true"},
	})
	return err
}

// BlockUser blocks the named account.
func (c *Client) BlockUser(ctx context.Context, name string) error {
	_, err := c.post(ctx, "/api/block_user", url.Values{"name": {name}})
	return err
}

// Save saves the submission or comment with the given fullname.
func (c *Client) Save(ctx context.Context, fullname string) error {
	_, err := c.post(ctx, "/api/save", url.Values{"id": {fullname}})
	return err
}

// paginate walks a Listing endpoint with the after cursor. It stops when the
// cursor runs out, fn returns false, or a page starts with an item that was
// already seen (some listings wrap around instead of ending).
func (c *Client) paginate(ctx context.Context, path string, query url.Values, fn func(gjson.Result) bool) error {
	seen := make(map[string]bool)
	after := ""

	for {
		q := url.Values{}
		for k, v := range query {
			q[k] = v
		}
		q.Set("limit", strconv.Itoa(pageLimit))
		if after != "" {
			q.Set("after", after)
		}

		page, err := c.get(ctx, path, q)
		if err != nil {
			return err
		}

		children := page.Get("data.children").Array()
		if len(children) == 0 {
			return nil
		}

		first := children[0].Get("data.name").String()
		if first != "" {
			if seen[first] {
				logging.Debug("listing repeated a page", logging.Path(path))
				return nil
			}
			seen[first] = true
		}

		for _, child := range children {
			if !fn(child) {
				return nil
			}
		}

		after = page.Get("data.after").String()
		if after == "" {
			return nil
		}
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (gjson.Result, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("raw_json", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return gjson.Result{}, err
	}
	return c.do(req, path)
}

func (c *Client) post(ctx context.Context, path string, form url.Values) (gjson.Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path+"?raw_json=1", strings.NewReader(form.Encode()))
	if err != nil {
		return gjson.Result{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, path)
}

func (c *Client) do(req *http.Request, path string) (gjson.Result, error) {
	logging.Debug("reddit request", logging.Operation(req.Method), logging.Path(path))

	resp, err := c.http.Do(req)
	if err != nil {
		// Token refresh failures arrive here wrapped, so ErrAuthentication
		// stays matchable with errors.Is.
		return gjson.Result{}, fmt.Errorf("%s %s: %w", req.Method, path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("%s %s: failed to read response: %w", req.Method, path, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return gjson.Result{}, fmt.Errorf("%w: %s %s returned 401", ErrAuthentication, req.Method, path)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return gjson.Result{}, &StatusError{Method: req.Method, Path: path, StatusCode: resp.StatusCode, Body: string(data)}
	}

	if len(data) == 0 {
		return gjson.Result{}, nil
	}
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, fmt.Errorf("%s %s: response is not valid JSON", req.Method, path)
	}

	body := gjson.ParseBytes(data)
	if apiErr := apiErrorFrom(body); apiErr != nil {
		return gjson.Result{}, apiErr
	}
	return body, nil
}

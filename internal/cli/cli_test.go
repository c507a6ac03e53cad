package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/urfave/cli/v3"

	"github.com/klauern/redditmigrate/internal/logging"
	"github.com/klauern/redditmigrate/internal/model"
	"github.com/klauern/redditmigrate/internal/reddit"
	"github.com/klauern/redditmigrate/internal/ui"
	"github.com/klauern/redditmigrate/internal/util"
)

// console replaces stdout and the prompter with in-memory buffers for one test.
func console(t *testing.T, input string) *bytes.Buffer {
	t.Helper()
	var out bytes.Buffer
	oldStdout, oldPrompter := stdout, newPrompter
	stdout = &out
	newPrompter = func() *ui.Prompter {
		return ui.NewPrompter(strings.NewReader(input), &out)
	}
	t.Cleanup(func() {
		stdout, newPrompter = oldStdout, oldPrompter
	})
	return &out
}

// fakeReddit serves the token, identity and listing endpoints used by a
// download. The password "hunter2" is the only one accepted.
func fakeReddit(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/v1/access_token":
			_ = r.ParseForm()
			if r.PostForm.Get("password") != "hunter2" {
				_, _ = fmt.Fprint(w, `{"error": "invalid_grant"}`)
				return
			}
			_, _ = fmt.Fprint(w, `{"access_token": "tok", "token_type": "bearer", "expires_in": 3600}`)
		case "/api/v1/me":
			_, _ = fmt.Fprint(w, `{"name": "old_account"}`)
		case "/subreddits/mine/subscriber":
			_, _ = fmt.Fprint(w, `{"kind": "Listing", "data": {"after": null, "children": [
				{"kind": "t5", "data": {"name": "t5_1", "display_name": "golang", "quarantine": false, "subreddit_type": "public"}},
				{"kind": "t5", "data": {"name": "t5_2", "display_name": "edgy", "quarantine": true, "subreddit_type": "public"}}
			]}}`)
		case "/api/multi/mine":
			_, _ = fmt.Fprint(w, `[{"kind": "LabeledMulti", "data": {"name": "games", "display_name": "Games",
				"visibility": "private", "subreddits": [{"name": "pics"}, {"name": "funny"}]}}]`)
		case "/prefs/blocked":
			_, _ = fmt.Fprint(w, `{"kind": "UserList", "data": {"children": [{"name": "troll", "id": "t2_x"}]}}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	old := redditOptions
	redditOptions = reddit.Options{
		BaseURL:  srv.URL,
		TokenURL: srv.URL + "/api/v1/access_token",
	}
	t.Cleanup(func() { redditOptions = old })

	return srv, &requests
}

// writeConfig writes a config file with preset download credentials.
func writeConfig(t *testing.T, password string) string {
	t.Helper()
	path := filepath.Join(util.CreateTempDir(t), "config.yaml")
	util.WriteFile(t, path, `accounts:
  download:
    client_id: app-id
    client_secret: app-secret
    username: old_account
    password: `+password+`
`)
	return path
}

func TestVersionVariables(t *testing.T) {
	// Version should be set (even if to "dev")
	if Version == "" {
		t.Error("Version should not be empty")
	}

	// Commit and BuildDate should have defaults
	if Commit == "" {
		t.Error("Commit should not be empty")
	}
	if BuildDate == "" {
		t.Error("BuildDate should not be empty")
	}
}

func TestVersionCommand(t *testing.T) {
	out := console(t, "")

	if err := Run(context.Background(), []string{"redditmigrate", "version"}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	for _, want := range []string{"redditmigrate version", "commit:", "built:", "go:"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output = %q, want substring %q", out.String(), want)
		}
	}
}

func TestConfigureLogging(t *testing.T) {
	tests := map[string]struct {
		args      []string
		wantInfo  bool
		wantDebug bool
	}{
		"no flags only logs warnings": {
			args: []string{"redditmigrate", "version"},
		},
		"verbose flag enables info level": {
			args:     []string{"redditmigrate", "--verbose", "version"},
			wantInfo: true,
		},
		"debug flag enables debug level": {
			args:      []string{"redditmigrate", "--debug", "version"},
			wantInfo:  true,
			wantDebug: true,
		},
		"json output keeps the level": {
			args:     []string{"redditmigrate", "--verbose", "--log-json", "version"},
			wantInfo: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			console(t, "")
			logging.SetDefault(logging.New(logging.DefaultOptions()))

			if err := Run(context.Background(), tt.args); err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			logger := slog.Default()
			if got := logger.Enabled(context.Background(), slog.LevelInfo); got != tt.wantInfo {
				t.Errorf("info enabled = %v, want %v", got, tt.wantInfo)
			}
			if got := logger.Enabled(context.Background(), slog.LevelDebug); got != tt.wantDebug {
				t.Errorf("debug enabled = %v, want %v", got, tt.wantDebug)
			}
		})
	}
}

func TestSelectedKinds(t *testing.T) {
	tests := map[string]struct {
		args []string
		want []model.Kind
	}{
		"defaults": {
			want: []model.Kind{model.KindBlockedUsers, model.KindMultireddits, model.KindSubreddits},
		},
		"skip everything": {
			args: []string{"--sb", "--sm", "--ss"},
		},
		"include optional kinds": {
			args: []string{"--include-remindmebot-reminders", "--is", "--skip-subreddits"},
			want: []model.Kind{model.KindReminders, model.KindSavedResources, model.KindBlockedUsers, model.KindMultireddits},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var got []model.Kind
			cmd := &cli.Command{
				Name:  "redditmigrate",
				Flags: migrationFlags(),
				Action: func(_ context.Context, cmd *cli.Command) error {
					got = selectedKinds(cmd)
					return nil
				},
			}
			if err := cmd.Run(context.Background(), append([]string{"redditmigrate"}, tt.args...)); err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("selectedKinds() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRun_NothingToDo(t *testing.T) {
	console(t, "")

	err := Run(context.Background(), []string{"redditmigrate"})
	if err == nil || !strings.Contains(err.Error(), "--download") {
		t.Errorf("Run() error = %v, want hint about --download", err)
	}
}

func TestRun_Download(t *testing.T) {
	fakeReddit(t)
	out := console(t, "")
	dataDir := util.CreateTempDir(t)

	err := Run(context.Background(), []string{
		"redditmigrate", "--config", writeConfig(t, "hunter2"), "--data-dir", dataDir, "--download",
	})
	if err != nil {
		t.Fatalf("Run() error = %v\noutput:\n%s", err, out.String())
	}

	util.AssertJSONEqual(t, util.ReadFile(t, filepath.Join(dataDir, "subreddits.json")), `{"subreddits": [
		{"displayName": "golang", "isQuarantined": false, "subredditType": "public"},
		{"displayName": "edgy", "isQuarantined": true, "subredditType": "public"}
	]}`)
	util.AssertJSONEqual(t, util.ReadFile(t, filepath.Join(dataDir, "multireddits.json")),
		`{"multireddits": [{"displayName": "Games", "subreddits": ["pics", "funny"], "visibility": "private"}]}`)
	util.AssertJSONEqual(t, util.ReadFile(t, filepath.Join(dataDir, "blocked-users.json")),
		`{"blockedUsers": ["troll"]}`)

	for _, want := range []string{
		"Found Reddit account credentials from configuration",
		"Downloading data from Reddit",
		"Total subreddits downloaded: 2",
		"Subreddits",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestRun_UploadMissingFile(t *testing.T) {
	_, requests := fakeReddit(t)
	out := console(t, "")

	err := Run(context.Background(), []string{
		"redditmigrate", "--config", writeConfig(t, "hunter2"),
		"--data-dir", util.CreateTempDir(t), "--upload", "--sb", "--sm",
	})
	if err == nil || !strings.Contains(err.Error(), "subreddits.json doesn't exist") {
		t.Fatalf("Run() error = %v, want missing file", err)
	}
	if !IsCleanExit(err) {
		t.Errorf("IsCleanExit(%v) = false", err)
	}
	if !strings.Contains(out.String(), "subreddits.json doesn't exist") || !strings.Contains(out.String(), "Exiting") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
	if n := requests.Load(); n != 0 {
		t.Errorf("made %d requests before failing", n)
	}
}

func TestRun_FailureNotLogged(t *testing.T) {
	fakeReddit(t)
	console(t, "")
	var logs bytes.Buffer
	old := logOutput
	logOutput = &logs
	t.Cleanup(func() { logOutput = old })

	// A file where the data directory should be makes the save fail.
	dataDir := filepath.Join(util.CreateTempDir(t), "data")
	util.WriteFile(t, dataDir, "not a directory")

	err := Run(context.Background(), []string{
		"redditmigrate", "--verbose", "--config", writeConfig(t, "hunter2"), "--data-dir", dataDir, "--download",
	})
	if err == nil || IsCleanExit(err) {
		t.Fatalf("Run() error = %v, want a failure", err)
	}
	if strings.Contains(logs.String(), "run failed") {
		t.Errorf("failure logged as well as returned:\n%s", logs.String())
	}
	if !strings.Contains(logs.String(), "starting run") {
		t.Errorf("run logger not writing to the log output:\n%s", logs.String())
	}
}

func TestRun_DeclineRetryAborts(t *testing.T) {
	fakeReddit(t)
	out := console(t, "n\n")

	err := Run(context.Background(), []string{
		"redditmigrate", "--config", writeConfig(t, "wrong"),
		"--data-dir", util.CreateTempDir(t), "--download",
	})
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("Run() error = %v, want ErrAborted", err)
	}
	if !strings.Contains(out.String(), "Authentication failed") || !strings.Contains(out.String(), "Exiting") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestConfigCommand(t *testing.T) {
	out := console(t, "")
	path := writeConfig(t, "hunter2")

	if err := Run(context.Background(), []string{"redditmigrate", "--config", path, "config"}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "Config file: "+path) {
		t.Errorf("config path not printed:\n%s", got)
	}
	if !strings.Contains(got, "client_id: app-id") || !strings.Contains(got, "username: old_account") {
		t.Errorf("account not printed:\n%s", got)
	}
	if strings.Contains(got, "hunter2") || strings.Contains(got, "app-secret") {
		t.Errorf("secrets leaked:\n%s", got)
	}
}

package reddit

import (
	"strings"
	"testing"
)

func TestFullnames(t *testing.T) {
	tests := map[string]struct {
		permalink      string
		wantSubmission string
		wantComment    string
	}{
		"submission": {
			permalink:      "/r/golang/comments/abc123/generics_are_here/",
			wantSubmission: "t3_abc123",
		},
		"comment": {
			permalink:      "/r/golang/comments/abc123/generics_are_here/def456/",
			wantSubmission: "t3_abc123",
			wantComment:    "t1_def456",
		},
		"full url": {
			permalink:      "https://reddit.com/r/golang/comments/abc123/x/def456/",
			wantSubmission: "t3_abc123",
			wantComment:    "t1_def456",
		},
		"no trailing slash": {
			permalink:      "/r/golang/comments/abc123/x/def456",
			wantSubmission: "t3_abc123",
			wantComment:    "t1_def456",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := SubmissionFullname(tt.permalink)
			if err != nil {
				t.Fatalf("SubmissionFullname() error = %v", err)
			}
			if got != tt.wantSubmission {
				t.Errorf("SubmissionFullname() = %q, want %q", got, tt.wantSubmission)
			}

			got, err = CommentFullname(tt.permalink)
			if tt.wantComment == "" {
				if err == nil {
					t.Errorf("CommentFullname() = %q, want error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("CommentFullname() error = %v", err)
			}
			if got != tt.wantComment {
				t.Errorf("CommentFullname() = %q, want %q", got, tt.wantComment)
			}
		})
	}
}

func TestFullnames_Invalid(t *testing.T) {
	for _, p := range []string{"", "/r/golang/", "/r/golang/comments/"} {
		if _, err := SubmissionFullname(p); err == nil {
			t.Errorf("SubmissionFullname(%q) expected error", p)
		}
	}
}

func TestMultiName(t *testing.T) {
	tests := map[string]struct {
		in   string
		want string
	}{
		"plain":             {in: "Games", want: "games"},
		"spaces":            {in: "My Games", want: "my_games"},
		"edge symbols":      {in: "  !Games! ", want: "games"},
		"only symbols":      {in: "!!!", want: "_"},
		"separator runs":    {in: "Cats & Dogs", want: "cats_dogs"},
		"underscore runs":   {in: "__my__games__", want: "my_games"},
		"non-ASCII letters": {in: "Café Crowd", want: "caf_crowd"},
		"long cut":          {in: "the quick brown fox jumps over", want: "the_quick_brown_fox"},
		"long one word":     {in: strings.Repeat("a", 30), want: strings.Repeat("a", 21)},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := MultiName(tt.in); got != tt.want {
				t.Errorf("MultiName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestAPIError(t *testing.T) {
	err := &APIError{Items: []APIErrorItem{
		{Type: "RESTRICTED_TO_PM", Message: "no messages", Field: "to"},
		{Type: "RATELIMIT"},
	}}

	want := "reddit rejected the request: RESTRICTED_TO_PM: no messages (to); RATELIMIT"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !err.Has("RATELIMIT") || err.Has("BAD_SR_NAME") {
		t.Error("Has() mismatch")
	}
}

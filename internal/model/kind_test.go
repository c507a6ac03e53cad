package model

import (
	"testing"
)

func TestKindFiles(t *testing.T) {
	tests := []struct {
		kind     Kind
		key      string
		fileName string
		label    string
	}{
		{KindSubreddits, "subreddits", "subreddits.json", "subreddits"},
		{KindMultireddits, "multireddits", "multireddits.json", "multireddits"},
		{KindBlockedUsers, "blockedUsers", "blocked-users.json", "blocked users"},
		{KindSavedResources, "savedResources", "saved-resources.json", "saved resources"},
		{KindReminders, "remindmebotReminders", "remindmebot-reminders.json", "remindmebot reminders"},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := tt.kind.Key(); got != tt.key {
				t.Errorf("Key() = %q, want %q", got, tt.key)
			}
			if got := tt.kind.FileName(); got != tt.fileName {
				t.Errorf("FileName() = %q, want %q", got, tt.fileName)
			}
			if got := tt.kind.Label(); got != tt.label {
				t.Errorf("Label() = %q, want %q", got, tt.label)
			}
		})
	}
}

func TestAllKinds(t *testing.T) {
	kinds := AllKinds()
	if len(kinds) != 5 {
		t.Fatalf("AllKinds() returned %d kinds, want 5", len(kinds))
	}
	seen := map[Kind]bool{}
	for _, k := range kinds {
		if seen[k] {
			t.Errorf("AllKinds() repeats %s", k)
		}
		seen[k] = true
	}
}

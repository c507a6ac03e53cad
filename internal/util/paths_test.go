package util

import (
	"path/filepath"
	"testing"
)

func TestHomeDir(t *testing.T) {
	home := HomeDir()
	if home == "" {
		t.Error("HomeDir() returned empty string")
	}

	// Verify it's an absolute path
	if !filepath.IsAbs(home) {
		t.Errorf("HomeDir() returned relative path: %s", home)
	}
}

func TestConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	want := filepath.Join(HomeDir(), ".config", "redditmigrate")
	if got := ConfigDir(); got != want {
		t.Errorf("ConfigDir() = %q, want %q", got, want)
	}

	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := ConfigDir(); got != "/tmp/xdg/redditmigrate" {
		t.Errorf("ConfigDir() with XDG_CONFIG_HOME = %q", got)
	}
}

func TestExpandPath(t *testing.T) {
	tests := map[string]struct {
		in   string
		want string
	}{
		"tilde alone":     {in: "~", want: HomeDir()},
		"tilde prefix":    {in: "~/data", want: filepath.Join(HomeDir(), "data")},
		"relative path":   {in: "data", want: "data"},
		"absolute path":   {in: "/var/data", want: "/var/data"},
		"tilde in middle": {in: "a/~/b", want: "a/~/b"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := ExpandPath(tt.in); got != tt.want {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

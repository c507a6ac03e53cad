package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestMain(m *testing.M) {
	tempHome, err := os.MkdirTemp("", "redditmigrate-home-")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create temp HOME: %v\n", err)
		os.Exit(1)
	}

	restore := map[string]string{}
	for key, value := range map[string]string{
		"HOME":            tempHome,
		"XDG_CONFIG_HOME": filepath.Join(tempHome, ".config"),
	} {
		if old, ok := os.LookupEnv(key); ok {
			restore[key] = old
		}
		if err := os.Setenv(key, value); err != nil {
			fmt.Fprintf(os.Stderr, "failed to set %s: %v\n", key, err)
			_ = os.RemoveAll(tempHome)
			os.Exit(1)
		}
	}

	code := m.Run()

	for _, key := range []string{"HOME", "XDG_CONFIG_HOME"} {
		if old, ok := restore[key]; ok {
			_ = os.Setenv(key, old)
		} else {
			_ = os.Unsetenv(key)
		}
	}
	_ = os.RemoveAll(tempHome)

	os.Exit(code)
}

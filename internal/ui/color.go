// Package ui provides terminal output and input helpers for redditmigrate.
package ui

import (
	"github.com/fatih/color"
)

// Color function types for styled output.
var (
	// Success is used for completed uploads and downloads (green).
	Success = color.New(color.FgGreen).SprintFunc()
	// Error is used for errors and failures (red).
	Error = color.New(color.FgRed).SprintFunc()
	// Warning is used for skipped items and rejections (yellow).
	Warning = color.New(color.FgYellow).SprintFunc()
	// Info is used for phase headings (cyan).
	Info = color.New(color.FgCyan).SprintFunc()
	// Bold is used for account names and file paths.
	Bold = color.New(color.Bold).SprintFunc()
	// Dim is used for running counters.
	Dim = color.New(color.Faint).SprintFunc()
)

// Status symbols.
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "⚠"
	SymbolSkipped = "-"
)

func status(symbol func(a ...any) string, mark, msg string) string {
	if msg == "" {
		return symbol(mark)
	}
	return symbol(mark) + " " + msg
}

// StatusSuccess returns a green checkmark with optional message.
func StatusSuccess(msg string) string { return status(Success, SymbolSuccess, msg) }

// StatusError returns a red X with optional message.
func StatusError(msg string) string { return status(Error, SymbolError, msg) }

// StatusWarning returns a yellow warning with optional message.
func StatusWarning(msg string) string { return status(Warning, SymbolWarning, msg) }

// StatusSkipped returns a dimmed skip symbol with optional message.
func StatusSkipped(msg string) string { return status(Dim, SymbolSkipped, msg) }

// DisableColors disables all color output.
func DisableColors() {
	color.NoColor = true
}

// EnableColors enables color output.
func EnableColors() {
	color.NoColor = false
}

// IsColorEnabled returns whether colors are currently enabled.
func IsColorEnabled() bool {
	return !color.NoColor
}

// ApplyColorMode applies an "auto", "always" or "never" color setting.
// "auto" leaves fatih/color's terminal detection in place.
func ApplyColorMode(mode string) {
	switch mode {
	case "always":
		EnableColors()
	case "never":
		DisableColors()
	}
}

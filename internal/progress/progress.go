// Package progress reports running counts for long paginated pulls and uploads.
package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/klauern/redditmigrate/internal/logging"
	"github.com/klauern/redditmigrate/internal/ui"
)

// Counter counts processed items. On a terminal it renders a spinner with
// the running count; elsewhere every increment is logged instead.
type Counter struct {
	bar   *progressbar.ProgressBar
	desc  string
	count int
}

// Options configures a Counter.
type Options struct {
	// Max is the expected total, or -1 when unknown (paginated pulls).
	Max int64
	// Description is the prefix text, e.g. "Subreddits downloaded".
	Description string
	// Writer is the output destination. Defaults to os.Stderr.
	Writer io.Writer
}

// New creates a counter with the given options.
func New(opts Options) *Counter {
	if opts.Writer == nil {
		opts.Writer = os.Stderr
	}
	if opts.Max == 0 {
		opts.Max = -1
	}

	c := &Counter{desc: opts.Description}
	if !shouldShowProgress(opts.Writer) {
		return c
	}

	c.bar = progressbar.NewOptions64(
		opts.Max,
		progressbar.OptionSetDescription(opts.Description),
		progressbar.OptionSetWriter(opts.Writer),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(15),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(opts.Writer, "\n")
		}),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionEnableColorCodes(ui.IsColorEnabled()),
	)
	return c
}

// Unbounded creates a counter for a pull whose total is not known up front.
func Unbounded(description string) *Counter {
	return New(Options{Max: -1, Description: description})
}

// Add increments the count by n.
func (c *Counter) Add(n int) {
	c.count += n
	if c.bar == nil {
		logging.Info(c.desc, logging.Count(c.count))
		return
	}
	_ = c.bar.Add(n)
}

// Count returns the number of items counted so far.
func (c *Counter) Count() int {
	return c.count
}

// Finish stops rendering and returns the final count.
func (c *Counter) Finish() int {
	if c.bar != nil {
		_ = c.bar.Finish()
	}
	return c.count
}

// shouldShowProgress reports whether a live spinner should be drawn on w.
// It is disabled without colors, when w is not a terminal, and at debug level.
func shouldShowProgress(w io.Writer) bool {
	if !ui.IsColorEnabled() {
		return false
	}

	if f, ok := w.(*os.File); ok {
		stat, err := f.Stat()
		if err != nil {
			return false
		}
		if (stat.Mode() & os.ModeCharDevice) == 0 {
			return false
		}
	}

	return !logging.Default().Enabled(context.Background(), logging.LevelDebug)
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/klauern/redditmigrate/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	err := cli.Run(ctx, args)
	if err != nil && !cli.IsCleanExit(err) {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return exitCode(err)
}

// exitCode maps a run result to the process status. Stopping at a prompt or
// finding no snapshot to upload is a normal exit.
func exitCode(err error) int {
	if err == nil || cli.IsCleanExit(err) {
		return 0
	}
	return 1
}

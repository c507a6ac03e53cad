package cli

import (
	"context"
	"fmt"
	"runtime"

	"github.com/urfave/cli/v3"
)

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Display version and build information",
		Action: func(_ context.Context, _ *cli.Command) error {
			_, _ = fmt.Fprintf(stdout, "redditmigrate version %s\n", Version)
			_, _ = fmt.Fprintf(stdout, "  commit: %s\n", Commit)
			_, _ = fmt.Fprintf(stdout, "  built: %s\n", BuildDate)
			_, _ = fmt.Fprintf(stdout, "  go: %s\n", runtime.Version())
			return nil
		},
	}
}

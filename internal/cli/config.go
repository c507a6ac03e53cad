package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/klauern/redditmigrate/internal/config"
)

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Display the effective configuration with secrets masked",
		Action: func(_ context.Context, cmd *cli.Command) error {
			path := cmd.String("config")
			if path == "" {
				path = config.FilePath()
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if dir := cmd.String("data-dir"); dir != "" {
				cfg.DataDir = dir
			}

			out, err := cfg.Masked().YAML()
			if err != nil {
				return fmt.Errorf("failed to render configuration: %w", err)
			}
			_, _ = fmt.Fprintf(stdout, "Config file: %s\n\n", path)
			_, _ = fmt.Fprint(stdout, out)
			return nil
		},
	}
}

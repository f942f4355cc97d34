// Package cli — serve.go implements the "worklog serve" command.
//
// Serve runs the tracker natively as an HTTP server, replacing the
// Python app that "up" launches. The REST API covers the same
// operations: logging hours, goals, tasks, and the dashboard.
package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/worklog/internal/model"
	"github.com/mmr-tortoise/worklog/internal/server"
)

// NewServeCommand creates the "serve" cobra command.
func NewServeCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the work tracker HTTP server",
		Long: `Serve the work-hours tracker REST API. Data is stored in the same
work_data.json file the Python app uses, so the two can be used
interchangeably on one project.

Examples:
  worklog serve
  worklog serve --config config/worklog.toml`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			if err := server.Run(configPath); err != nil {
				// Errors that already carry an exit code (port in use)
				// pass through unchanged.
				var cliErr *model.CLIError
				if errors.As(err, &cliErr) {
					return err
				}
				return model.WrapCLIError(model.ExitGeneralError, "server failed", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to the server config file (default \"config/worklog.toml\")")

	return cmd
}

// Package cli — status.go implements the "worklog status" command.
//
// Status lists every container worklog started, reconstructed entirely
// from Docker labels. Output is a text table by default or JSON with
// the --json global flag.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/worklog/internal/docker"
	"github.com/mmr-tortoise/worklog/internal/model"
)

// NewStatusCommand creates the "status" cobra command.
func NewStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "List containers managed by worklog",
		Long: `List all application containers started with "worklog up --container",
including stopped ones.

Examples:
  worklog status
  worklog status --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd.Context())
		},
	}
}

func runStatus(ctx context.Context) error {
	cli, err := docker.NewClient()
	if err != nil {
		return err
	}
	defer func() { _ = cli.Close() }()

	containers, err := docker.ListManagedContainers(ctx, cli)
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		return printStatusJSON(containers)
	}
	printStatusText(containers)
	return nil
}

func printStatusJSON(containers []*model.AppContainer) error {
	data, err := json.MarshalIndent(containers, "", "  ")
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to encode status", err)
	}
	fmt.Println(string(data))
	return nil
}

func printStatusText(containers []*model.AppContainer) {
	if len(containers) == 0 {
		fmt.Println("No managed containers found")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSTATUS\tPORT\tPROJECT\tSTARTED")
	for _, c := range containers {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			c.ContainerName, c.Status, c.Port, c.Project,
			c.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	_ = w.Flush()
}

// Package cli — stop.go implements the "worklog stop" command.
//
// Stop gracefully stops managed app containers. With no argument it
// stops every managed container; with a project directory argument it
// stops only the container launched from that project.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/worklog/internal/docker"
	"github.com/mmr-tortoise/worklog/internal/model"
)

// NewStopCommand creates the "stop" cobra command.
func NewStopCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stop [project-dir]",
		Short: "Stop managed application containers",
		Long: `Stop containers started with "worklog up --container". Containers are
stopped but not removed; a later "up" reuses the same compose file.

With no argument every managed container is stopped. With a project
directory only that project's container is stopped.

Examples:
  worklog stop
  worklog stop ~/projects/tracker`,

		Args: cobra.MaximumNArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			projectDir := ""
			if len(args) == 1 {
				projectDir = args[0]
			}
			return runStop(cmd.Context(), projectDir)
		},
	}
}

func runStop(ctx context.Context, projectDir string) error {
	cli, err := docker.NewClient()
	if err != nil {
		return err
	}
	defer func() { _ = cli.Close() }()

	containers, err := docker.ListManagedContainers(ctx, cli)
	if err != nil {
		return err
	}

	if projectDir != "" {
		absDir, err := filepath.Abs(projectDir)
		if err != nil {
			return model.WrapCLIError(model.ExitGeneralError,
				fmt.Sprintf("failed to resolve project directory %q", projectDir), err)
		}
		containers = filterByProject(containers, absDir)
		if len(containers) == 0 {
			return model.NewCLIError(model.ExitGeneralError,
				fmt.Sprintf("no managed container found for project %s", absDir))
		}
	}

	stopped := 0
	for _, c := range containers {
		if c.Status != "running" {
			VerboseLog("Skipping %s (already %s)", c.ContainerName, c.Status)
			continue
		}
		VerboseLog("Stopping container %s...", c.ContainerName)
		if err := docker.StopContainer(ctx, cli, c.ContainerID); err != nil {
			return err
		}
		stopped++
	}

	printStopResult(stopped)
	return nil
}

func filterByProject(containers []*model.AppContainer, project string) []*model.AppContainer {
	var matched []*model.AppContainer
	for _, c := range containers {
		if c.Project == project {
			matched = append(matched, c)
		}
	}
	return matched
}

func printStopResult(stopped int) {
	if IsJSONOutput() {
		data, _ := json.MarshalIndent(map[string]interface{}{
			"action":  "stopped",
			"stopped": stopped,
		}, "", "  ")
		fmt.Println(string(data))
		return
	}

	if stopped == 0 {
		fmt.Println("No running managed containers to stop")
		return
	}
	fmt.Printf("Stopped %d container(s)\n", stopped)
}

// container.go implements discovery and lifecycle operations for the
// managed app container: label-filtered listing via the Docker SDK and
// compose up/stop via the docker CLI.
package docker

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"

	"github.com/mmr-tortoise/worklog/internal/model"
)

// ListManagedContainers returns every container carrying the
// "worklog.managed-by=worklog" label, including stopped ones. Filtering
// happens daemon-side via the label filter.
func ListManagedContainers(ctx context.Context, cli *Client) ([]*model.AppContainer, error) {
	filterArgs := filters.NewArgs(
		filters.Arg("label", LabelManagedBy+"="+ManagedByValue),
	)

	containers, err := cli.Inner().ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filterArgs,
	})
	if err != nil {
		return nil, model.WrapCLIError(
			model.ExitDockerNotRunning,
			"failed to list Docker containers",
			err,
		)
	}

	result := make([]*model.AppContainer, 0, len(containers))
	for _, c := range containers {
		app, err := ParseLabels(c.Labels)
		if err != nil {
			// A container with our managed-by label but broken metadata
			// labels should not break the listing of healthy ones.
			continue
		}
		app.ContainerID = c.ID
		app.ContainerName = containerName(c)
		app.Status = c.State
		result = append(result, app)
	}

	return result, nil
}

// containerName extracts a display name from the Docker listing entry.
// The API reports names with a leading "/" that means nothing to users.
func containerName(c types.Container) string {
	if len(c.Names) == 0 {
		return ""
	}
	return strings.TrimPrefix(c.Names[0], "/")
}

// StopContainer gracefully stops a container by ID. Docker escalates to
// SIGKILL after its default timeout if the app ignores SIGTERM.
func StopContainer(ctx context.Context, cli *Client, containerID string) error {
	if err := cli.Inner().ContainerStop(ctx, containerID, container.StopOptions{}); err != nil {
		return model.WrapCLIError(
			model.ExitDockerNotRunning,
			fmt.Sprintf("failed to stop container %q", containerID),
			err,
		)
	}
	return nil
}

// ComposeUp starts the app with "docker compose -f <file> up -d" in the
// project directory, capturing combined output for the error message.
// The compose plugin is invoked through the docker binary; the
// standalone docker-compose binary is long deprecated. Compose failures
// almost always mean the daemon is unreachable, hence the exit-code
// mapping.
func ComposeUp(ctx context.Context, projectDir, composeFile string) error {
	cmd := exec.CommandContext(ctx, "docker", "compose", "-f", composeFile, "up", "-d")
	cmd.Dir = projectDir
	cmd.Env = os.Environ()

	output, err := cmd.CombinedOutput()
	if err != nil {
		return model.WrapCLIError(
			model.ExitDockerNotRunning,
			fmt.Sprintf("docker compose failed: %s", strings.TrimSpace(string(output))),
			err,
		)
	}
	return nil
}

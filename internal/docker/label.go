package docker

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mmr-tortoise/worklog/internal/model"
)

// Label keys persisted on managed app containers. The labels are the
// only record of what worklog started; status and stop rebuild their
// view of the world from them.
const (
	// LabelPrefix namespaces all worklog labels away from labels set by
	// Compose, IDEs, and other tooling.
	LabelPrefix = "worklog."

	// LabelManagedBy marks a container as started by worklog.
	LabelManagedBy = LabelPrefix + "managed-by"

	// LabelProject holds the absolute project directory path.
	LabelProject = LabelPrefix + "project"

	// LabelEntrypoint holds the app entry point script, relative to the
	// project directory.
	LabelEntrypoint = LabelPrefix + "entrypoint"

	// LabelPort holds the published host port as a decimal string.
	LabelPort = LabelPrefix + "port"

	// LabelCreatedAt holds the launch timestamp in RFC3339 form.
	LabelCreatedAt = LabelPrefix + "created-at"
)

// ManagedByValue is the fixed value of LabelManagedBy on containers
// this CLI creates.
const ManagedByValue = "worklog"

// BuildLabels constructs the label map applied to the app container.
func BuildLabels(project, entrypoint string, port int, createdAt time.Time) map[string]string {
	return map[string]string{
		LabelManagedBy:  ManagedByValue,
		LabelProject:    project,
		LabelEntrypoint: entrypoint,
		LabelPort:       strconv.Itoa(port),
		LabelCreatedAt:  createdAt.UTC().Format(time.RFC3339),
	}
}

// ParseLabels reconstructs an AppContainer's metadata from a label map.
// ContainerID, ContainerName, and Status are runtime facts filled in by
// the caller from the Docker listing, not from labels.
func ParseLabels(labels map[string]string) (*model.AppContainer, error) {
	required := []string{LabelManagedBy, LabelProject, LabelEntrypoint, LabelPort, LabelCreatedAt}

	var missing []string
	for _, key := range required {
		if _, ok := labels[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required labels: %s", strings.Join(missing, ", "))
	}

	if labels[LabelManagedBy] != ManagedByValue {
		return nil, fmt.Errorf("label %s has unexpected value %q (expected %q)",
			LabelManagedBy, labels[LabelManagedBy], ManagedByValue)
	}

	port, err := strconv.Atoi(labels[LabelPort])
	if err != nil {
		return nil, fmt.Errorf("invalid label %s=%q: %w", LabelPort, labels[LabelPort], err)
	}

	createdAt, err := time.Parse(time.RFC3339, labels[LabelCreatedAt])
	if err != nil {
		return nil, fmt.Errorf("invalid label %s: %w", LabelCreatedAt, err)
	}

	return &model.AppContainer{
		Project:    labels[LabelProject],
		Entrypoint: labels[LabelEntrypoint],
		Port:       port,
		CreatedAt:  createdAt,
	}, nil
}

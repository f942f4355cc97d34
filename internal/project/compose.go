// compose.go generates the Docker Compose file used by container mode.
//
// Instead of driving ContainerCreate with hand-built Config/HostConfig
// structs, container mode writes a small Compose file next to the
// project and delegates to `docker compose up -d`. Compose then owns
// naming, networking, and restart behavior, and the file doubles as
// documentation of exactly how the app container was started.
package project

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ComposeFileName is the generated file's name. The worklog infix keeps
// it from colliding with a docker-compose.yml the project may already
// have.
const ComposeFileName = "docker-compose.worklog.yml"

// composeFile is the YAML document structure handed to yaml.v3.
type composeFile struct {
	// Name sets the Compose project name, which prefixes container and
	// network names. Derived from the project directory name.
	Name string `yaml:"name"`

	Services map[string]composeService `yaml:"services"`
}

// composeService describes the single app service.
type composeService struct {
	Image      string            `yaml:"image"`
	WorkingDir string            `yaml:"working_dir"`
	Command    []string          `yaml:"command"`
	Volumes    []string          `yaml:"volumes"`
	Ports      []string          `yaml:"ports"`
	Labels     map[string]string `yaml:"labels"`
}

// GenerateCompose builds the Compose YAML for running the project's
// entry point in a container. The project directory is bind-mounted at
// /app so the container always runs the checked-out sources, and the
// app port is published 1:1 on the host.
//
// The labels parameter carries the worklog management labels that make
// the container discoverable by `worklog status` and `worklog stop`.
func GenerateCompose(projectDir string, cfg *Config, labels map[string]string) ([]byte, error) {
	absProject, err := filepath.Abs(projectDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project dir: %w", err)
	}

	// The base image is a bare Python; the manifest has to be installed
	// inside the container before the app can import anything. Container
	// filesystems are per-container, so this install never touches the
	// host or the project's venv.
	launch := fmt.Sprintf("pip install -r %s && python %s", cfg.Requirements, cfg.Entrypoint)

	doc := composeFile{
		Name: filepath.Base(absProject),
		Services: map[string]composeService{
			"app": {
				Image:      cfg.Image,
				WorkingDir: "/app",
				Command:    []string{"sh", "-c", launch},
				Volumes:    []string{absProject + ":/app"},
				Ports:      []string{fmt.Sprintf("%d:%d", cfg.Port, cfg.Port)},
				Labels:     labels,
			},
		},
	}

	yamlBytes, err := yaml.Marshal(&doc)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize compose file: %w", err)
	}

	// The file is regenerated on every `worklog up --container`, so
	// warn against hand edits.
	header := "# Auto-generated by worklog\n# DO NOT EDIT - regenerated on each `worklog up --container`\n"
	return append([]byte(header), yamlBytes...), nil
}

// WriteCompose writes the generated YAML into the project directory and
// returns the file path.
func WriteCompose(projectDir string, data []byte) (string, error) {
	path := filepath.Join(projectDir, ComposeFileName)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

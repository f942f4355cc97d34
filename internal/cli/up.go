// Package cli — up.go implements the "worklog up" command.
//
// Up is the setup-and-launch pipeline: activate the project's virtual
// environment, install dependencies from the manifest, and run the app.
// With --container, the app runs inside Docker via a generated compose
// file instead of the local virtual environment.
package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/worklog/internal/docker"
	"github.com/mmr-tortoise/worklog/internal/launcher"
	"github.com/mmr-tortoise/worklog/internal/model"
	"github.com/mmr-tortoise/worklog/internal/port"
	"github.com/mmr-tortoise/worklog/internal/project"
)

// upFlags holds the flag values for the up command. Flags beat the
// project config file, which beats the built-in defaults.
type upFlags struct {
	venv         string
	requirements string
	entrypoint   string
	skipInstall  bool
	container    bool
	port         int
}

// NewUpCommand creates the "up" cobra command.
func NewUpCommand() *cobra.Command {
	flags := &upFlags{}

	cmd := &cobra.Command{
		Use:   "up [project-dir]",
		Short: "Set up and launch the application",
		Long: `Activate the project's virtual environment, install dependencies from
the manifest, and launch the application. The command blocks for the
lifetime of the app and exits with the app's own exit code.

The virtual environment directory and the manifest must already exist;
each missing precondition aborts with its own exit code before any
subprocess runs.

Examples:
  worklog up
  worklog up ~/projects/tracker
  worklog up --skip-install
  worklog up --container --port 8000`,

		Args: cobra.MaximumNArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			projectDir := "."
			if len(args) == 1 {
				projectDir = args[0]
			}
			return runUp(cmd.Context(), projectDir, flags)
		},
	}

	cmd.Flags().StringVar(&flags.venv, "venv", "", "Virtual environment directory (default \"venv\")")
	cmd.Flags().StringVar(&flags.requirements, "requirements", "", "Dependency manifest file (default \"requirements.txt\")")
	cmd.Flags().StringVar(&flags.entrypoint, "entrypoint", "", "Application entry point (default \"module/main.py\")")
	cmd.Flags().BoolVar(&flags.skipInstall, "skip-install", false, "Skip dependency installation (manifest must still exist)")
	cmd.Flags().BoolVar(&flags.container, "container", false, "Run the app in Docker instead of the local virtual environment")
	cmd.Flags().IntVar(&flags.port, "port", 0, "Host port for container mode (default 5000)")

	return cmd
}

// runUp resolves the effective configuration and dispatches to the
// native or container launch path.
func runUp(ctx context.Context, projectDir string, flags *upFlags) error {
	absDir, err := filepath.Abs(projectDir)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to resolve project directory %q", projectDir), err)
	}

	cfg, err := project.LoadOrDefault(absDir)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to load project config", err)
	}
	applyUpFlags(cfg, flags)

	VerboseLog("Project directory: %s", absDir)
	VerboseLog("Entry point: %s", cfg.Entrypoint)

	if flags.container {
		return runUpContainer(ctx, absDir, cfg)
	}
	return runUpNative(ctx, absDir, cfg, flags.skipInstall)
}

// applyUpFlags overlays non-empty flag values onto the loaded config.
func applyUpFlags(cfg *project.Config, flags *upFlags) {
	if flags.venv != "" {
		cfg.Venv = flags.venv
	}
	if flags.requirements != "" {
		cfg.Requirements = flags.requirements
	}
	if flags.entrypoint != "" {
		cfg.Entrypoint = flags.entrypoint
	}
	if flags.port != 0 {
		cfg.Port = flags.port
	}
}

// runUpNative executes the local pipeline and maps launcher errors to
// exit codes. A subprocess failure exits with the subprocess's own code
// and no extra message — pip and the app already reported on stderr.
func runUpNative(ctx context.Context, absDir string, cfg *project.Config, skipInstall bool) error {
	l := launcher.New(launcher.Options{
		ProjectDir:  absDir,
		VenvDir:     cfg.Venv,
		Manifest:    cfg.Requirements,
		Entrypoint:  cfg.Entrypoint,
		SkipInstall: skipInstall,
	})

	err := l.Run(ctx)
	if err == nil {
		return nil
	}

	var exitErr *launcher.ExitStatusError
	switch {
	case errors.Is(err, launcher.ErrEnvMissing):
		return model.WrapCLIError(model.ExitEnvMissing, "cannot launch", err)
	case errors.Is(err, launcher.ErrManifestMissing):
		return model.WrapCLIError(model.ExitManifestMissing, "cannot launch", err)
	case errors.As(err, &exitErr):
		return model.PropagateExit(exitErr.Code, exitErr)
	default:
		return model.WrapCLIError(model.ExitGeneralError, "launch failed", err)
	}
}

// runUpContainer generates a compose file and starts the app in Docker.
// The host port is checked first so a clash surfaces as a clear error
// rather than a compose failure mid-launch.
func runUpContainer(ctx context.Context, absDir string, cfg *project.Config) error {
	if !port.NewScanner().IsAvailable(cfg.Port) {
		return model.NewCLIError(model.ExitPortInUse,
			fmt.Sprintf("port %d is already in use", cfg.Port))
	}

	cli, err := docker.NewClient()
	if err != nil {
		return err
	}
	defer func() { _ = cli.Close() }()

	if err := cli.Ping(ctx); err != nil {
		return err
	}
	VerboseLog("Connected to Docker daemon")

	labels := docker.BuildLabels(absDir, cfg.Entrypoint, cfg.Port, time.Now())
	data, err := project.GenerateCompose(absDir, cfg, labels)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to generate compose file", err)
	}

	composePath, err := project.WriteCompose(absDir, data)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to write compose file", err)
	}
	VerboseLog("Wrote %s", composePath)

	if err := docker.ComposeUp(ctx, absDir, project.ComposeFileName); err != nil {
		return err
	}

	fmt.Printf("Started application in container (port %d)\n", cfg.Port)
	return nil
}

package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
)

// Command describes a single subprocess invocation: the resolved binary
// path, its arguments, the working directory, and the full environment.
type Command struct {
	Path   string
	Args   []string
	Dir    string
	Env    []string
	Stdout io.Writer
	Stderr io.Writer
}

// Runner executes subprocesses. The launcher only ever talks to this
// interface, which is what makes the pipeline testable without a real
// Python installation.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// ExitStatusError reports a subprocess that ran and exited non-zero.
// The code is the child's own exit status, preserved so the CLI can
// terminate with exactly the same value.
type ExitStatusError struct {
	Code int
	Err  error
}

func (e *ExitStatusError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitStatusError) Unwrap() error {
	return e.Err
}

// ExecRunner runs commands with os/exec, streaming output to the
// writers in the Command. This is the only Runner used outside tests.
type ExecRunner struct{}

// Run executes the command in the foreground and blocks until it exits.
// A non-zero exit becomes an *ExitStatusError; failures to start the
// process at all (binary missing, permission denied) are returned as-is.
func (ExecRunner) Run(ctx context.Context, c Command) error {
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Dir = c.Dir
	cmd.Env = c.Env
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitStatusError{Code: exitErr.ExitCode(), Err: err}
		}
		return fmt.Errorf("failed to run %s: %w", c.Path, err)
	}
	return nil
}

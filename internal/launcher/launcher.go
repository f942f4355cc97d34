package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Defaults for the three filesystem inputs, matching the layout the
// tracker project has always shipped with.
const (
	DefaultVenvDir    = "venv"
	DefaultManifest   = "requirements.txt"
	DefaultEntrypoint = "module/main.py"
)

// Sentinel errors for the two guarded preconditions. Callers use
// errors.Is on these to map each to its own exit code.
var (
	ErrEnvMissing      = errors.New("virtual environment not found")
	ErrManifestMissing = errors.New("dependency manifest not found")
)

// Options configures a launch. Zero values fall back to the defaults
// above; only ProjectDir is required.
type Options struct {
	// ProjectDir is the project root all other paths are relative to.
	ProjectDir string

	// VenvDir is the virtual environment directory name.
	VenvDir string

	// Manifest is the dependency manifest file name.
	Manifest string

	// Entrypoint is the application script passed to the venv's python.
	Entrypoint string

	// SkipInstall bypasses the dependency installation step. The
	// manifest existence check still runs, so a missing manifest fails
	// the same way with or without this flag.
	SkipInstall bool

	// Stdout receives status lines and subprocess output.
	// Defaults to os.Stdout.
	Stdout io.Writer

	// Stderr receives subprocess error output. Defaults to os.Stderr.
	Stderr io.Writer

	// Runner executes the pip and python subprocesses.
	// Defaults to ExecRunner.
	Runner Runner
}

// Launcher runs the setup-and-launch pipeline for one project.
type Launcher struct {
	opts Options
}

// New creates a Launcher, filling unset options with defaults.
func New(opts Options) *Launcher {
	if opts.VenvDir == "" {
		opts.VenvDir = DefaultVenvDir
	}
	if opts.Manifest == "" {
		opts.Manifest = DefaultManifest
	}
	if opts.Entrypoint == "" {
		opts.Entrypoint = DefaultEntrypoint
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Runner == nil {
		opts.Runner = ExecRunner{}
	}
	return &Launcher{opts: opts}
}

// Run executes the full pipeline: activate, install, launch. It blocks
// for the lifetime of the application process and returns its error, if
// any. Each precondition failure aborts before any subprocess runs for
// the remaining steps.
func (l *Launcher) Run(ctx context.Context) error {
	env, err := l.Activate()
	if err != nil {
		return err
	}

	if err := l.Install(ctx, env); err != nil {
		return err
	}

	return l.Launch(ctx, env)
}

// Activate verifies the virtual environment exists and builds the
// activated environment for subsequent subprocesses: VIRTUAL_ENV set,
// the venv bin directory prepended to PATH, PYTHONHOME dropped.
//
// Returns ErrEnvMissing (wrapped with the expected path and remediation)
// when the directory is absent.
func (l *Launcher) Activate() ([]string, error) {
	venvPath := filepath.Join(l.opts.ProjectDir, l.opts.VenvDir)

	info, err := os.Stat(venvPath)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w at %s (create it with: python3 -m venv %s)",
			ErrEnvMissing, venvPath, l.opts.VenvDir)
	}

	// A bare directory is not a virtual environment: the bin dir is
	// where pip and python get resolved from, so its absence must fail
	// here, not later as an unexplained exec error.
	binInfo, err := os.Stat(filepath.Join(venvPath, binDirName()))
	if err != nil || !binInfo.IsDir() {
		return nil, fmt.Errorf("%w: %s has no %s directory (create it with: python3 -m venv %s)",
			ErrEnvMissing, venvPath, binDirName(), l.opts.VenvDir)
	}

	absVenv, err := filepath.Abs(venvPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve venv path: %w", err)
	}

	env := activatedEnv(absVenv)
	fmt.Fprintf(l.opts.Stdout, "Activated virtual environment: %s\n", venvPath)
	return env, nil
}

// Install verifies the manifest exists and runs the venv's pip against
// it. Installer failures are passed through untranslated; pip has
// already written its diagnostics to stderr.
//
// Returns ErrManifestMissing (wrapped) when the manifest is absent.
func (l *Launcher) Install(ctx context.Context, env []string) error {
	manifestPath := filepath.Join(l.opts.ProjectDir, l.opts.Manifest)

	if _, err := os.Stat(manifestPath); err != nil {
		return fmt.Errorf("%w at %s", ErrManifestMissing, manifestPath)
	}

	if l.opts.SkipInstall {
		fmt.Fprintln(l.opts.Stdout, "Skipping dependency installation")
		return nil
	}

	fmt.Fprintf(l.opts.Stdout, "Installing dependencies from %s...\n", l.opts.Manifest)

	err := l.opts.Runner.Run(ctx, Command{
		Path:   l.venvBinary(env, "pip"),
		Args:   []string{"install", "-r", l.opts.Manifest},
		Dir:    l.opts.ProjectDir,
		Env:    env,
		Stdout: l.opts.Stdout,
		Stderr: l.opts.Stderr,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(l.opts.Stdout, "Dependencies installed")
	return nil
}

// Launch starts the application entry point in the foreground with the
// activated environment and blocks until it exits.
func (l *Launcher) Launch(ctx context.Context, env []string) error {
	fmt.Fprintf(l.opts.Stdout, "Starting application: %s\n", l.opts.Entrypoint)

	return l.opts.Runner.Run(ctx, Command{
		Path:   l.venvBinary(env, "python"),
		Args:   []string{l.opts.Entrypoint},
		Dir:    l.opts.ProjectDir,
		Env:    env,
		Stdout: l.opts.Stdout,
		Stderr: l.opts.Stderr,
	})
}

// binDirName is the venv's executable directory per platform.
func binDirName() string {
	if runtime.GOOS == "windows" {
		return "Scripts"
	}
	return "bin"
}

// venvBinary resolves a tool name to its absolute path inside the
// activated venv's bin directory.
func (l *Launcher) venvBinary(env []string, name string) string {
	venv := ""
	for _, kv := range env {
		if v, ok := strings.CutPrefix(kv, "VIRTUAL_ENV="); ok {
			venv = v
			break
		}
	}
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return filepath.Join(venv, binDirName(), name)
}

// activatedEnv reproduces what `source venv/bin/activate` does to a
// shell's environment, applied to a fresh copy of this process's
// environment.
func activatedEnv(absVenv string) []string {
	binDir := filepath.Join(absVenv, binDirName())

	base := os.Environ()
	env := make([]string, 0, len(base)+2)
	for _, kv := range base {
		key, _, _ := strings.Cut(kv, "=")
		switch key {
		case "VIRTUAL_ENV", "PYTHONHOME":
			// Replaced below / dropped, as the activate script does.
			continue
		case "PATH":
			env = append(env, "PATH="+binDir+string(os.PathListSeparator)+kv[len("PATH="):])
		default:
			env = append(env, kv)
		}
	}
	env = append(env, "VIRTUAL_ENV="+absVenv)
	return env
}

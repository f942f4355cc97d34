package launcher

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner records every command instead of executing it, and can be
// told to fail a specific binary with a specific exit status.
type fakeRunner struct {
	commands []Command
	failBin  string
	failCode int
}

func (f *fakeRunner) Run(_ context.Context, c Command) error {
	f.commands = append(f.commands, c)
	if f.failBin != "" && filepath.Base(c.Path) == f.failBin {
		return &ExitStatusError{Code: f.failCode}
	}
	return nil
}

// newProject lays out a temp project directory. Flags control which of
// the two checked inputs exist.
func newProject(t *testing.T, withVenv, withManifest bool) string {
	t.Helper()
	dir := t.TempDir()
	if withVenv {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "venv", "bin"), 0o755))
	}
	if withManifest {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "requirements.txt"), []byte("flask\n"), 0o644))
	}
	return dir
}

func newLauncher(dir string, runner Runner) (*Launcher, *bytes.Buffer) {
	out := &bytes.Buffer{}
	l := New(Options{
		ProjectDir: dir,
		Stdout:     out,
		Stderr:     out,
		Runner:     runner,
	})
	return l, out
}

// TestRun_EnvMissing covers scenario 1: no venv directory means the
// pipeline stops before any subprocess runs.
func TestRun_EnvMissing(t *testing.T) {
	runner := &fakeRunner{}
	l, _ := newLauncher(newProject(t, false, true), runner)

	err := l.Run(context.Background())
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrEnvMissing)
	assert.Contains(t, err.Error(), "python3 -m venv venv", "error should name the remediation command")
	assert.Empty(t, runner.commands, "neither pip nor the app may run")
}

// TestRun_ManifestMissing covers scenario 2: venv present, manifest
// absent. Activation happens, then the pipeline stops; the app is never
// invoked.
func TestRun_ManifestMissing(t *testing.T) {
	runner := &fakeRunner{}
	l, out := newLauncher(newProject(t, true, false), runner)

	err := l.Run(context.Background())
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrManifestMissing)
	assert.NotErrorIs(t, err, ErrEnvMissing, "the two preconditions must be distinguishable")
	assert.Contains(t, out.String(), "Activated virtual environment")
	assert.Empty(t, runner.commands)
}

// TestRun_FullPipeline covers scenario 3: both inputs present. The
// installer runs exactly once with the manifest, then the app runs
// exactly once with no extra arguments.
func TestRun_FullPipeline(t *testing.T) {
	runner := &fakeRunner{}
	dir := newProject(t, true, true)
	l, out := newLauncher(dir, runner)

	require.NoError(t, l.Run(context.Background()))
	require.Len(t, runner.commands, 2)

	install := runner.commands[0]
	assert.Equal(t, "pip", filepath.Base(install.Path))
	assert.True(t, strings.HasPrefix(install.Path, dir), "pip must come from the project's venv")
	assert.Equal(t, []string{"install", "-r", "requirements.txt"}, install.Args)
	assert.Equal(t, dir, install.Dir)

	launch := runner.commands[1]
	assert.Equal(t, "python", filepath.Base(launch.Path))
	assert.Equal(t, []string{"module/main.py"}, launch.Args)

	assert.Contains(t, out.String(), "Dependencies installed")
	assert.Contains(t, out.String(), "Starting application")
}

// TestRun_Order covers scenario 4, the ordering invariant: activation
// strictly precedes the install, which strictly precedes the launch.
// Activation is observable through the env handed to the subprocesses.
func TestRun_Order(t *testing.T) {
	runner := &fakeRunner{}
	dir := newProject(t, true, true)
	l, _ := newLauncher(dir, runner)

	require.NoError(t, l.Run(context.Background()))
	require.Len(t, runner.commands, 2)

	for _, cmd := range runner.commands {
		env := strings.Join(cmd.Env, "\n")
		assert.Contains(t, env, "VIRTUAL_ENV=", "every subprocess runs in the activated environment")
	}
	assert.Equal(t, "pip", filepath.Base(runner.commands[0].Path))
	assert.Equal(t, "python", filepath.Base(runner.commands[1].Path))
}

// TestRun_InstallFailureStopsPipeline verifies a failing installer
// prevents the app launch and surfaces pip's own exit status.
func TestRun_InstallFailureStopsPipeline(t *testing.T) {
	runner := &fakeRunner{failBin: "pip", failCode: 2}
	l, _ := newLauncher(newProject(t, true, true), runner)

	err := l.Run(context.Background())
	require.Error(t, err)

	var exitErr *ExitStatusError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code, "pip's exit status must pass through unchanged")
	require.Len(t, runner.commands, 1, "the app must not launch after a failed install")
}

// TestRun_AppExitPropagates verifies the application's exit status is
// the pipeline's result.
func TestRun_AppExitPropagates(t *testing.T) {
	runner := &fakeRunner{failBin: "python", failCode: 3}
	l, _ := newLauncher(newProject(t, true, true), runner)

	err := l.Run(context.Background())

	var exitErr *ExitStatusError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 3, exitErr.Code)
}

// TestRun_SkipInstall verifies --skip-install bypasses pip but still
// requires the manifest to exist.
func TestRun_SkipInstall(t *testing.T) {
	runner := &fakeRunner{}
	dir := newProject(t, true, true)
	out := &bytes.Buffer{}
	l := New(Options{ProjectDir: dir, SkipInstall: true, Stdout: out, Stderr: out, Runner: runner})

	require.NoError(t, l.Run(context.Background()))
	require.Len(t, runner.commands, 1)
	assert.Equal(t, "python", filepath.Base(runner.commands[0].Path))

	// Manifest gone: the check still fires even with SkipInstall.
	require.NoError(t, os.Remove(filepath.Join(dir, "requirements.txt")))
	err := l.Run(context.Background())
	assert.ErrorIs(t, err, ErrManifestMissing)
}

// TestRun_VenvIsFile verifies a plain file where the venv directory
// should be counts as missing, not as a valid environment.
func TestRun_VenvIsFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "venv"), []byte("not a dir"), 0o644))

	runner := &fakeRunner{}
	l, _ := newLauncher(dir, runner)

	err := l.Run(context.Background())
	assert.ErrorIs(t, err, ErrEnvMissing)
}

// TestRun_VenvWithoutBin verifies a venv directory lacking its bin dir
// fails the environment check up front instead of surfacing later as an
// exec error on a nonexistent pip path.
func TestRun_VenvWithoutBin(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "venv"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "requirements.txt"), []byte("flask\n"), 0o644))

	runner := &fakeRunner{}
	l, _ := newLauncher(dir, runner)

	err := l.Run(context.Background())
	assert.ErrorIs(t, err, ErrEnvMissing)
	assert.Empty(t, runner.commands, "no subprocess may run against a broken venv")
}

// TestActivate_Environment verifies the activation side effects:
// VIRTUAL_ENV set to the absolute venv path, bin dir first on PATH,
// PYTHONHOME dropped.
func TestActivate_Environment(t *testing.T) {
	t.Setenv("PYTHONHOME", "/somewhere/else")

	dir := newProject(t, true, true)
	l, _ := newLauncher(dir, &fakeRunner{})

	env, err := l.Activate()
	require.NoError(t, err)

	joined := strings.Join(env, "\n")
	assert.Contains(t, joined, "VIRTUAL_ENV="+filepath.Join(dir, "venv"))
	assert.NotContains(t, joined, "PYTHONHOME=", "activation must clear PYTHONHOME")

	for _, kv := range env {
		if path, ok := strings.CutPrefix(kv, "PATH="); ok {
			first := strings.Split(path, string(os.PathListSeparator))[0]
			assert.Equal(t, filepath.Join(dir, "venv", "bin"), first, "venv bin dir must lead PATH")
		}
	}
}

// TestRun_Rerun verifies re-running with the same filesystem state
// reproduces the same subprocess sequence (install always reruns).
func TestRun_Rerun(t *testing.T) {
	runner := &fakeRunner{}
	l, _ := newLauncher(newProject(t, true, true), runner)

	require.NoError(t, l.Run(context.Background()))
	require.NoError(t, l.Run(context.Background()))

	require.Len(t, runner.commands, 4)
	assert.Equal(t, filepath.Base(runner.commands[0].Path), filepath.Base(runner.commands[2].Path))
	assert.Equal(t, filepath.Base(runner.commands[1].Path), filepath.Base(runner.commands[3].Path))
}

// Package launcher implements the setup-and-launch pipeline for a
// Python project: activate its virtual environment, install the
// dependency manifest, and start the application entry point.
//
// The pipeline is three guarded steps in strict sequence. Each of the
// two precondition checks fails with its own sentinel error
// (ErrEnvMissing, ErrManifestMissing) so callers can tell a missing
// environment from a missing manifest. Failures inside the installer or
// the application itself are not interpreted: their exit status is
// surfaced unchanged via ExitStatusError.
//
// "Activation" never sources a shell script. It is reproduced directly:
// VIRTUAL_ENV is set, the venv's bin directory is prepended to PATH for
// child processes, and the pip/python binaries are resolved to absolute
// paths inside the venv (exec looks binaries up with the parent's PATH,
// not the child's, so PATH alone would not be enough).
package launcher

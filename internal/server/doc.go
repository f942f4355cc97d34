// Package server exposes the work tracker over HTTP: a JSON REST API
// for logging hours, managing goals and tasks, and reading the
// dashboard. It is the native replacement for running the Python app
// through `worklog up`.
package server

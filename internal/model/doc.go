// Package model defines the domain types shared across the worklog CLI
// and server: the work-tracking entities persisted in the data file,
// the CLIError type that carries process exit codes, and the metadata
// attached to managed app containers.
package model

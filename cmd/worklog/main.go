// Package main is the entry point for the worklog CLI.
//
// The binary launches the Python work-hours tracker from a project
// directory, or serves the tracker natively over HTTP. All
// functionality lives in the internal/cli package, which defines the
// cobra commands.
package main

import (
	"github.com/mmr-tortoise/worklog/internal/cli"
)

// version, commit, and date are set by GoReleaser at build time via
// ldflags (see .goreleaser.yml). They back the --version flag output.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	rootCmd := cli.NewRootCommand()
	cli.Execute(rootCmd)
}

// Package project handles the optional per-project configuration file
// and the generated Docker Compose file used by container mode.
//
// The config file is JSONC (JSON with comments), parsed by stripping
// comments with github.com/tidwall/jsonc before handing the result to
// encoding/json. Hand-maintained config files accumulate comments, so
// plain JSON would be too strict.
package project

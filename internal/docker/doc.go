// Package docker wraps the Docker Engine SDK for worklog's container
// mode: starting the app via docker compose, and discovering/stopping
// the containers worklog manages.
//
// Managed containers are identified purely by their "worklog.*" labels.
// There is no state file: `worklog status` and `worklog stop` rebuild
// everything they need from label queries against the daemon.
package docker

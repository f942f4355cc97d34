package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// WorkData is the root of the persisted document. Keys are company names,
// exactly as they appear in the data file. The map form (rather than a
// slice with a name field) preserves byte-level compatibility with data
// files written by earlier versions of the tracker.
type WorkData map[string]*Company

// Company aggregates everything tracked for a single client: the hour
// goal, the per-date work log, and the task list.
type Company struct {
	// Goal is the total number of hours committed for this company.
	// Zero means no goal has been set yet.
	Goal float64 `json:"goal"`

	// Deadline is the target completion date in Persian-calendar
	// "YYYY-MM-DD" form. Empty means "end of the current month" for
	// scheduling purposes.
	Deadline string `json:"deadline,omitempty"`

	// WorkdaysCount is how many days per week are worked for this
	// company (0-7). Both 0 and 7 mean "every day counts".
	WorkdaysCount int `json:"workdays_count"`

	// Log maps a Persian date string to the hours worked that day.
	Log map[string]*LogEntry `json:"log"`

	// Tasks is the open/completed task list for this company.
	Tasks []Task `json:"tasks"`
}

// Empty reports whether the company carries no information at all:
// no goal, no log entries, and no tasks. Empty companies are pruned
// from the data file after delete operations.
func (c *Company) Empty() bool {
	return c.Goal == 0 && len(c.Log) == 0 && len(c.Tasks) == 0
}

// LogEntry is the hours worked on a single date, with an optional
// free-text description.
type LogEntry struct {
	Hours       float64 `json:"hours"`
	Description string  `json:"description"`
}

// UnmarshalJSON accepts both the current object form
// {"hours": 2.5, "description": "..."} and the legacy form where the
// entry is a bare number of hours. Old data files contain both shapes,
// so read-side leniency is required; writes always produce the object
// form.
func (e *LogEntry) UnmarshalJSON(data []byte) error {
	// Try the legacy bare-number form first; it is cheap to detect.
	var hours float64
	if err := json.Unmarshal(data, &hours); err == nil {
		e.Hours = hours
		e.Description = ""
		return nil
	}

	// Object form. An alias type prevents infinite recursion into
	// this UnmarshalJSON method.
	type plain LogEntry
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("invalid log entry: %w", err)
	}
	*e = LogEntry(p)
	return nil
}

// Task is a single TODO item attached to a company.
type Task struct {
	// ID is a numeric string allocated as max+1 across ALL companies,
	// so IDs are unique file-wide, not just per company.
	ID        string `json:"id"`
	Title     string `json:"title"`
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
}

// CompanyReport is the derived, display-oriented view of a Company
// produced for the dashboard. All numeric fields are computed from the
// raw log at request time; nothing here is persisted.
type CompanyReport struct {
	Name          string `json:"name"`
	Goal          float64 `json:"goal"`
	Deadline      string  `json:"deadline,omitempty"`
	WorkdaysCount int     `json:"workdaysCount"`

	// TotalHours is the sum of all logged hours, rounded to one decimal.
	TotalHours float64 `json:"totalHours"`

	// RemainingHours is goal minus total, floored at zero.
	RemainingHours float64 `json:"remainingHours"`

	// Progress is the percentage of the goal reached, one decimal.
	// Zero when no goal is set.
	Progress float64 `json:"progress"`

	// RemainingDays is the number of workable days left before the
	// deadline, given the weekly schedule.
	RemainingDays int `json:"remainingDays"`

	// RecommendedHours is RemainingHours spread over RemainingDays,
	// one decimal. Nil when no workable days remain.
	RecommendedHours *float64 `json:"recommendedHours"`

	// Log holds the entries sorted newest-first for display.
	Log []DatedEntry `json:"log"`

	Tasks []Task `json:"tasks"`
}

// DatedEntry pairs a log entry with its date for ordered output.
// The underlying storage is a map, which has no order to preserve.
type DatedEntry struct {
	Date        string  `json:"date"`
	Hours       float64 `json:"hours"`
	Description string  `json:"description,omitempty"`
}

// ValidateHours rejects non-positive hour values for log entries.
func ValidateHours(hours float64) error {
	if hours <= 0 {
		return fmt.Errorf("hours must be a positive number, got %v", hours)
	}
	return nil
}

// ValidateGoal rejects negative goals. Zero is allowed and means
// "no goal set".
func ValidateGoal(goal float64) error {
	if goal < 0 {
		return fmt.Errorf("goal must be a non-negative number, got %v", goal)
	}
	return nil
}

// ValidateWorkdays checks the days-per-week value is within 0-7.
func ValidateWorkdays(count int) error {
	if count < 0 || count > 7 {
		return fmt.Errorf("workdays per week must be between 0 and 7, got %d", count)
	}
	return nil
}

// ValidateCompanyName rejects empty or whitespace-only company names,
// which would otherwise become invisible keys in the data file.
func ValidateCompanyName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("company name must not be empty")
	}
	return nil
}

// AppContainer describes a managed application container reconstructed
// from Docker labels. All state lives on the container itself; there is
// no separate state file to fall out of sync.
type AppContainer struct {
	// ContainerID is the Docker container identifier.
	ContainerID string `json:"containerId"`

	// ContainerName is the human-readable Docker container name.
	ContainerName string `json:"containerName"`

	// Project is the absolute path of the project directory the
	// container was launched from.
	Project string `json:"project"`

	// Entrypoint is the application entry point script, relative to
	// the project directory.
	Entrypoint string `json:"entrypoint"`

	// Port is the published host port for the application.
	Port int `json:"port"`

	// Status is the Docker container state ("running", "exited", ...).
	Status string `json:"status"`

	// CreatedAt is when the container was launched by worklog.
	CreatedAt time.Time `json:"createdAt"`
}

// ExitCode defines the CLI exit codes. Scripts wrapping worklog rely on
// these to distinguish the two setup precondition failures from each
// other and from everything else.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitEnvMissing indicates the virtual environment directory was
	// not found in the project directory.
	ExitEnvMissing ExitCode = 2

	// ExitManifestMissing indicates the dependency manifest file was
	// not found in the project directory.
	ExitManifestMissing ExitCode = 3

	// ExitDockerNotRunning indicates the Docker daemon is not
	// accessible (container mode only).
	ExitDockerNotRunning ExitCode = 4

	// ExitPortInUse indicates the application port is already bound
	// by another process on the host.
	ExitPortInUse ExitCode = 5
)

// CLIError is a custom error type that carries an exit code.
// The CLI layer translates these into process exit codes in Execute.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error

	// Quiet suppresses the CLI's own error line. Used when a child
	// process has already written its failure to stderr and the
	// launcher only needs to propagate the status, with no extra
	// output of its own.
	Quiet bool
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}

// PropagateExit creates a quiet CLIError whose code mirrors a child
// process exit status. No message is printed by the CLI layer; the child
// already reported its own failure.
func PropagateExit(code int, err error) *CLIError {
	return &CLIError{Code: ExitCode(code), Err: err, Quiet: true}
}

package docker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBuildLabels verifies the full label schema is emitted.
func TestBuildLabels(t *testing.T) {
	createdAt := time.Date(2026, 8, 25, 10, 30, 0, 0, time.UTC)

	labels := BuildLabels("/home/user/tracker", "module/main.py", 5000, createdAt)

	assert.Equal(t, "worklog", labels[LabelManagedBy])
	assert.Equal(t, "/home/user/tracker", labels[LabelProject])
	assert.Equal(t, "module/main.py", labels[LabelEntrypoint])
	assert.Equal(t, "5000", labels[LabelPort])
	assert.Equal(t, "2026-08-25T10:30:00Z", labels[LabelCreatedAt])
}

// TestParseLabels_RoundTrip verifies BuildLabels output parses back into
// the same metadata.
func TestParseLabels_RoundTrip(t *testing.T) {
	createdAt := time.Date(2026, 8, 25, 10, 30, 0, 0, time.UTC)
	labels := BuildLabels("/home/user/tracker", "module/main.py", 5000, createdAt)

	app, err := ParseLabels(labels)
	require.NoError(t, err)

	assert.Equal(t, "/home/user/tracker", app.Project)
	assert.Equal(t, "module/main.py", app.Entrypoint)
	assert.Equal(t, 5000, app.Port)
	assert.True(t, app.CreatedAt.Equal(createdAt))
}

// TestParseLabels_MissingLabels verifies the error names every missing
// label, not just the first one found.
func TestParseLabels_MissingLabels(t *testing.T) {
	labels := map[string]string{
		LabelManagedBy: ManagedByValue,
		LabelProject:   "/home/user/tracker",
	}

	_, err := ParseLabels(labels)
	require.Error(t, err)
	assert.Contains(t, err.Error(), LabelEntrypoint)
	assert.Contains(t, err.Error(), LabelPort)
	assert.Contains(t, err.Error(), LabelCreatedAt)
}

// TestParseLabels_WrongManagedBy verifies containers labeled by some
// other tool are rejected even when the schema otherwise matches.
func TestParseLabels_WrongManagedBy(t *testing.T) {
	labels := BuildLabels("/home/user/tracker", "module/main.py", 5000, time.Now())
	labels[LabelManagedBy] = "other-tool"

	_, err := ParseLabels(labels)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "other-tool")
}

// TestParseLabels_InvalidPort verifies a non-numeric port label fails
// parsing instead of silently becoming zero.
func TestParseLabels_InvalidPort(t *testing.T) {
	labels := BuildLabels("/home/user/tracker", "module/main.py", 5000, time.Now())
	labels[LabelPort] = "not-a-port"

	_, err := ParseLabels(labels)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not-a-port")
}

// TestParseLabels_InvalidTimestamp verifies a malformed created-at label
// fails parsing.
func TestParseLabels_InvalidTimestamp(t *testing.T) {
	labels := BuildLabels("/home/user/tracker", "module/main.py", 5000, time.Now())
	labels[LabelCreatedAt] = "yesterday"

	_, err := ParseLabels(labels)
	require.Error(t, err)
	assert.Contains(t, err.Error(), LabelCreatedAt)
}

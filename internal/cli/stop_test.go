package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mmr-tortoise/worklog/internal/model"
)

// TestFilterByProject verifies only containers launched from the given
// project directory are kept.
func TestFilterByProject(t *testing.T) {
	containers := []*model.AppContainer{
		{ContainerName: "tracker-app-1", Project: "/home/user/tracker"},
		{ContainerName: "other-app-1", Project: "/home/user/other"},
		{ContainerName: "tracker-app-2", Project: "/home/user/tracker"},
	}

	matched := filterByProject(containers, "/home/user/tracker")
	assert.Len(t, matched, 2)
	for _, c := range matched {
		assert.Equal(t, "/home/user/tracker", c.Project)
	}
}

// TestFilterByProject_NoMatch verifies an unknown project yields an
// empty result rather than the full list.
func TestFilterByProject_NoMatch(t *testing.T) {
	containers := []*model.AppContainer{
		{ContainerName: "tracker-app-1", Project: "/home/user/tracker"},
	}

	assert.Empty(t, filterByProject(containers, "/home/user/elsewhere"))
}

package port

import (
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// occupyPort grabs an ephemeral TCP port and keeps it bound for the
// duration of the test, returning the port number.
func occupyPort(t *testing.T) int {
	t.Helper()

	listener, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = listener.Close() })

	return listener.Addr().(*net.TCPAddr).Port
}

// TestIsAvailable_BoundPort verifies a port held by another listener is
// reported as unavailable.
func TestIsAvailable_BoundPort(t *testing.T) {
	s := NewScanner()
	bound := occupyPort(t)

	assert.False(t, s.IsAvailable(bound))
}

// TestIsAvailable_FreePort verifies a just-released port is reported as
// available.
func TestIsAvailable_FreePort(t *testing.T) {
	s := NewScanner()

	listener, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	free := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	assert.True(t, s.IsAvailable(free))
}

// TestFindAvailable verifies the scan skips a bound port and settles on
// the next free one.
func TestFindAvailable(t *testing.T) {
	s := NewScanner()
	bound := occupyPort(t)

	found, err := s.FindAvailable(bound, bound+10)
	require.NoError(t, err)
	assert.Greater(t, found, bound)
	assert.True(t, s.IsAvailable(found))
}

// TestFindAvailable_Exhausted verifies an error when the whole range is
// occupied.
func TestFindAvailable_Exhausted(t *testing.T) {
	s := NewScanner()
	bound := occupyPort(t)

	_, err := s.FindAvailable(bound, bound)
	require.Error(t, err)
	assert.Contains(t, err.Error(), fmt.Sprintf("%d-%d", bound, bound))
}

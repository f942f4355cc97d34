// Package port implements host port availability checks for container
// mode. Before generating a compose file the CLI verifies the app port
// is actually free, so a clash surfaces as a clear exit code instead of
// a cryptic compose failure mid-launch.
package port

import (
	"fmt"
	"net"
)

// Scanner checks whether ports are available on the host machine.
//
// It asks the operating system directly via net.Listen rather than
// parsing /proc/net/* or shelling out to `lsof`/`ss`, which may need
// elevated permissions. Stateless today; a struct so a bind address or
// timeout can be added later without breaking callers.
type Scanner struct{}

// NewScanner creates a new Scanner instance.
func NewScanner() *Scanner {
	return &Scanner{}
}

// IsAvailable reports whether a TCP port is free on the host.
//
// It binds to all interfaces (":port" rather than "127.0.0.1:port")
// because Docker publishes ports on 0.0.0.0, so the check must cover
// the same address space to avoid false positives.
func (s *Scanner) IsAvailable(port int) bool {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return false
	}
	// The listener only existed to test availability.
	_ = listener.Close()
	return true
}

// FindAvailable scans [startPort, endPort] inclusive and returns the
// first free TCP port. The sequential order means the same port is
// chosen consistently across runs.
func (s *Scanner) FindAvailable(startPort, endPort int) (int, error) {
	for port := startPort; port <= endPort; port++ {
		if s.IsAvailable(port) {
			return port, nil
		}
	}
	return 0, fmt.Errorf("no available port found in range %d-%d", startPort, endPort)
}

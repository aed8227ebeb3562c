package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/gocql/gocql"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/cassandra"
)

// CassandraContainer wraps a Cassandra test container.
type CassandraContainer struct {
	Container *cassandra.CassandraContainer
	Host      string
	Session   *gocql.Session
}

// CassandraOptions configures the Cassandra container.
type CassandraOptions struct {
	// Image is the Cassandra image to use. Defaults to "cassandra:4.1".
	Image string
	// Keyspace is the keyspace to create. Defaults to "scan_test".
	Keyspace string
}

// DefaultCassandraOptions returns default options for the Cassandra container.
func DefaultCassandraOptions() CassandraOptions {
	return CassandraOptions{
		Image:    "cassandra:4.1",
		Keyspace: "scan_test",
	}
}

// StartCassandra starts a Cassandra container for testing.
//
// Usable from TestMain; the caller is responsible for calling Terminate.
// This is preferred over ScyllaDB for environments with limited AIO
// resources.
//
// Parameters:
//   - ctx: Context for container operations
//   - opts: Optional configuration (nil uses defaults)
//
// Returns:
//   - *CassandraContainer: Container with connection details and session
//   - error: Error if the container fails to start
func StartCassandra(ctx context.Context, opts *CassandraOptions) (*CassandraContainer, error) {
	if opts == nil {
		defaultOpts := DefaultCassandraOptions()
		opts = &defaultOpts
	}

	container, err := cassandra.Run(ctx, opts.Image,
		testcontainers.WithEnv(map[string]string{
			"HEAP_NEWSIZE":     "128M",
			"MAX_HEAP_SIZE":    "512M",
			"CASSANDRA_SNITCH": "SimpleSnitch",
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start Cassandra container: %w", err)
	}

	host, err := container.ConnectionHost(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection host: %w", err)
	}

	session, err := createCQLSession(host, opts.Keyspace, 60*time.Second)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &CassandraContainer{
		Container: container,
		Host:      host,
		Session:   session,
	}, nil
}

// Terminate closes the session and terminates the container.
func (c *CassandraContainer) Terminate(ctx context.Context) error {
	if c.Session != nil {
		c.Session.Close()
		c.Session = nil
	}
	if c.Container != nil {
		return c.Container.Terminate(ctx)
	}

	return nil
}

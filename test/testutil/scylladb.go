package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/gocql/gocql"
	"github.com/testcontainers/testcontainers-go/modules/scylladb"
)

// ScyllaDBContainer wraps a ScyllaDB test container.
type ScyllaDBContainer struct {
	Container *scylladb.Container
	Host      string
	Session   *gocql.Session
}

// ScyllaDBOptions configures the ScyllaDB container.
type ScyllaDBOptions struct {
	// Image is the ScyllaDB image to use. Defaults to "scylladb/scylla:6.2".
	Image string
	// Keyspace is the keyspace to create. Defaults to "scan_test".
	Keyspace string
	// Memory is the memory limit for ScyllaDB. Defaults to "512M".
	Memory string
	// SMP is the number of CPU cores for ScyllaDB. Defaults to 1.
	SMP int
}

// DefaultScyllaDBOptions returns default options for the ScyllaDB container.
func DefaultScyllaDBOptions() ScyllaDBOptions {
	return ScyllaDBOptions{
		Image:    "scylladb/scylla:6.2",
		Keyspace: "scan_test",
		Memory:   "512M",
		SMP:      1,
	}
}

// StartScyllaDB starts a ScyllaDB container for testing.
//
// Usable from TestMain; the caller is responsible for calling Terminate.
// Uses --reactor-backend=epoll to avoid Linux AIO requirements.
//
// Parameters:
//   - ctx: Context for container operations
//   - opts: Optional configuration (nil uses defaults)
//
// Returns:
//   - *ScyllaDBContainer: Container with connection details and session
//   - error: Error if the container fails to start
//
// Note: ScyllaDB requires Linux AIO (aio-max-nr kernel limit). If your
// system's /proc/sys/fs/aio-nr equals /proc/sys/fs/aio-max-nr, ScyllaDB
// will fail to start. In that case either increase aio-max-nr or use
// Cassandra instead.
func StartScyllaDB(ctx context.Context, opts *ScyllaDBOptions) (*ScyllaDBContainer, error) {
	if opts == nil {
		defaultOpts := DefaultScyllaDBOptions()
		opts = &defaultOpts
	}

	container, err := scylladb.Run(ctx, opts.Image,
		scylladb.WithShardAwareness(),
		scylladb.WithCustomCommands(
			fmt.Sprintf("--memory=%s", opts.Memory),
			fmt.Sprintf("--smp=%d", opts.SMP),
			"--developer-mode=1",
			"--overprovisioned=1",
			"--reactor-backend=epoll",
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start ScyllaDB container: %w", err)
	}

	host, err := container.NonShardAwareConnectionHost(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection host: %w", err)
	}

	session, err := createCQLSession(host, opts.Keyspace, 30*time.Second)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &ScyllaDBContainer{
		Container: container,
		Host:      host,
		Session:   session,
	}, nil
}

// Terminate closes the session and terminates the container.
func (c *ScyllaDBContainer) Terminate(ctx context.Context) error {
	if c.Session != nil {
		c.Session.Close()
		c.Session = nil
	}
	if c.Container != nil {
		return c.Container.Terminate(ctx)
	}

	return nil
}

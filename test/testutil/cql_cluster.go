package testutil

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gocql/gocql"
)

// CQLClusterType identifies the database backend.
type CQLClusterType int

const (
	// CQLClusterTypeNone indicates no cluster is running.
	CQLClusterTypeNone CQLClusterType = iota
	// CQLClusterTypeScyllaDB indicates ScyllaDB is being used.
	CQLClusterTypeScyllaDB
	// CQLClusterTypeCassandra indicates Cassandra is being used.
	CQLClusterTypeCassandra
)

// String returns the string representation of the cluster type.
func (t CQLClusterType) String() string {
	switch t {
	case CQLClusterTypeScyllaDB:
		return "ScyllaDB"
	case CQLClusterTypeCassandra:
		return "Cassandra"
	case CQLClusterTypeNone:
		return "None"
	}

	return "Unknown"
}

// CQLCluster represents a CQL-compatible database cluster for testing.
// It abstracts over ScyllaDB and Cassandra containers.
type CQLCluster struct {
	Type    CQLClusterType
	Host    string
	Session *gocql.Session

	// Internal container references for cleanup
	scylla    *ScyllaDBContainer
	cassandra *CassandraContainer
}

// Close closes the session (does not terminate the container).
func (c *CQLCluster) Close() {
	if c.Session != nil {
		c.Session.Close()
		c.Session = nil
	}
}

// Terminate terminates the container.
func (c *CQLCluster) Terminate(ctx context.Context) error {
	c.Close()

	switch c.Type {
	case CQLClusterTypeScyllaDB:
		if c.scylla != nil {
			return c.scylla.Terminate(ctx)
		}
	case CQLClusterTypeCassandra:
		if c.cassandra != nil {
			return c.cassandra.Terminate(ctx)
		}
	case CQLClusterTypeNone:
		// Nothing to terminate
	}

	return nil
}

// CQLClusterOptions configures the CQL cluster container.
type CQLClusterOptions struct {
	// Keyspace is the keyspace to create. Required.
	Keyspace string
	// PreferScyllaDB attempts to use ScyllaDB first, falls back to Cassandra.
	// Default: true
	PreferScyllaDB bool
	// ScyllaDBImage is the ScyllaDB image. Default: "scylladb/scylla:6.2"
	ScyllaDBImage string
	// CassandraImage is the Cassandra image. Default: "cassandra:4.1"
	CassandraImage string
	// Memory for ScyllaDB. Default: "512M"
	ScyllaDBMemory string
	// SMP (CPU cores) for ScyllaDB. Default: 1
	ScyllaDBSMP int
}

// DefaultCQLClusterOptions returns default options.
func DefaultCQLClusterOptions(keyspace string) CQLClusterOptions {
	return CQLClusterOptions{
		Keyspace:       keyspace,
		PreferScyllaDB: true,
		ScyllaDBImage:  "scylladb/scylla:6.2",
		CassandraImage: "cassandra:4.1",
		ScyllaDBMemory: "512M",
		ScyllaDBSMP:    1,
	}
}

// IsAIOAvailable checks if the system has available AIO slots for ScyllaDB.
func IsAIOAvailable() bool {
	aioNrData, err := os.ReadFile("/proc/sys/fs/aio-nr")
	if err != nil {
		return false // Not on Linux or can't read
	}

	aioMaxNrData, err := os.ReadFile("/proc/sys/fs/aio-max-nr")
	if err != nil {
		return false
	}

	aioNr, _ := strconv.ParseInt(strings.TrimSpace(string(aioNrData)), 10, 64)
	aioMaxNr, _ := strconv.ParseInt(strings.TrimSpace(string(aioMaxNrData)), 10, 64)

	// ScyllaDB needs at least some AIO slots available
	return aioNr < aioMaxNr
}

// StartCQLCluster starts a CQL-compatible database cluster for testing.
// Prefers ScyllaDB (faster), falls back to Cassandra if AIO is unavailable.
//
// This function is designed for use in TestMain where *testing.T is not
// available. Caller is responsible for calling cluster.Terminate(ctx) for
// cleanup.
//
// Parameters:
//   - ctx: Context for container operations
//   - opts: Configuration options
//
// Returns:
//   - *CQLCluster: Cluster with connection details and session
//   - error: Error if cluster fails to start
func StartCQLCluster(ctx context.Context, opts CQLClusterOptions) (*CQLCluster, error) {
	if opts.PreferScyllaDB && IsAIOAvailable() {
		scylla, err := StartScyllaDB(ctx, &ScyllaDBOptions{
			Image:    opts.ScyllaDBImage,
			Keyspace: opts.Keyspace,
			Memory:   opts.ScyllaDBMemory,
			SMP:      opts.ScyllaDBSMP,
		})
		if err == nil {
			return &CQLCluster{
				Type:    CQLClusterTypeScyllaDB,
				Host:    scylla.Host,
				Session: scylla.Session,
				scylla:  scylla,
			}, nil
		}
		// Fall back to Cassandra on ScyllaDB failure
		fmt.Printf("ScyllaDB failed: %v, falling back to Cassandra...\n", err)
	}

	box, err := StartCassandra(ctx, &CassandraOptions{
		Image:    opts.CassandraImage,
		Keyspace: opts.Keyspace,
	})
	if err != nil {
		return nil, err
	}

	return &CQLCluster{
		Type:      CQLClusterTypeCassandra,
		Host:      box.Host,
		Session:   box.Session,
		cassandra: box,
	}, nil
}

func createCQLSession(host, keyspace string, timeout time.Duration) (*gocql.Session, error) {
	cluster := gocql.NewCluster(host)
	cluster.Consistency = gocql.Quorum
	cluster.Timeout = timeout
	cluster.ConnectTimeout = timeout
	cluster.Keyspace = "system"

	// Connect to system keyspace first
	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to system keyspace: %w", err)
	}

	// Create test keyspace
	createKeyspaceQuery := fmt.Sprintf(`
		CREATE KEYSPACE IF NOT EXISTS %s
		WITH replication = {'class': 'SimpleStrategy', 'replication_factor': 1}
	`, keyspace)

	if err := session.Query(createKeyspaceQuery).Exec(); err != nil {
		session.Close()
		return nil, fmt.Errorf("failed to create keyspace: %w", err)
	}
	session.Close()

	// Reconnect to test keyspace
	cluster.Keyspace = keyspace

	return cluster.CreateSession()
}

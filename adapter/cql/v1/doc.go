// Package v1 provides an adapter for gocql v1.x to work with the scanner.
//
// This adapter wraps gocql sessions, queries, and iterators to implement
// the cql read-path interfaces, and bridges the scanner's retry policies
// into gocql's RetryPolicy extension point.
//
// # Usage
//
// Create a gocql session and wrap it with the v1 adapter:
//
//	cluster := gocql.NewCluster("127.0.0.1", "127.0.0.2")
//	cluster.Keyspace = "local_group_default_T_parsoid_html"
//	cluster.Consistency = gocql.One
//	cluster.RetryPolicy = v1.WrapRetryPolicy(policy.NewReconnectRetry())
//
//	gocqlSession, err := cluster.CreateSession()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	session := v1.NewSession(gocqlSession)
//
// # Type Conversions
//
// The adapter provides helper functions for converting between scanner
// and gocql types:
//
//   - [ToGocqlConsistency]: Converts cql.Consistency to gocql.Consistency
//   - [FromGocqlConsistency]: Converts gocql.Consistency to cql.Consistency
//   - [ClassifyError]: Maps a gocql error onto a types.FailureKind
//   - [UnwrapSession]: Returns the underlying gocql.Session
//
// # Thread Safety
//
// All adapter types are safe for concurrent use, matching gocql's thread
// safety guarantees.
package v1

// Package cql provides adapter interfaces and implementations for CQL
// (Cassandra Query Language) database drivers.
//
// This package defines the common read-path interfaces that CQL driver
// adapters must implement, allowing the scanner to work with different
// versions of gocql or other CQL drivers.
//
// # Interfaces
//
// The package defines interfaces that mirror the gocql API:
//
//   - Session: Wraps a database session for executing queries
//   - Query: Represents a CQL query with bind parameters
//   - Iter: Iterates over query results one page at a time
//   - SessionFactory: Rebuilds a session after a connection reset
//
// # Adapters
//
// Driver-specific adapters are provided in subpackages:
//
//   - [github.com/wikimedia/restbase-cassandra/adapter/cql/v1]: Adapter for gocql v1.x
//   - [github.com/wikimedia/restbase-cassandra/adapter/cql/v2]: Adapter for apache/cassandra-gocql-driver v2.x
//
// # Usage
//
// Import the appropriate adapter for your gocql version:
//
//	import (
//	    cassandra "github.com/wikimedia/restbase-cassandra"
//	    v1 "github.com/wikimedia/restbase-cassandra/adapter/cql/v1"
//	    "github.com/gocql/gocql"
//	)
//
//	// Create gocql cluster and session
//	cluster := gocql.NewCluster("127.0.0.1")
//	gocqlSession, _ := cluster.CreateSession()
//
//	// Wrap with the adapter
//	session := v1.NewSession(gocqlSession)
//
//	// Use with the scanner
//	scanner, _ := cassandra.NewScanner(cassandra.StaticSession(session))
package cql

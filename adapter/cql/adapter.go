// Package cql provides CQL-specific adapter interfaces for different gocql versions.
package cql

import (
	"context"

	"github.com/wikimedia/restbase-cassandra/types"
)

// Type aliases for convenience - re-export from types package.
type (
	Consistency = types.Consistency
	FailureKind = types.FailureKind
	RetryPolicy = types.RetryPolicy
)

// Re-export consistency level constants for convenience.
const (
	Any         = types.Any
	One         = types.One
	Two         = types.Two
	Three       = types.Three
	Quorum      = types.Quorum
	All         = types.All
	LocalQuorum = types.LocalQuorum
	EachQuorum  = types.EachQuorum
	Serial      = types.Serial
	LocalSerial = types.LocalSerial
	LocalOne    = types.LocalOne
)

// Session represents a raw CQL session from the underlying driver.
//
// This interface is implemented by adapters for gocql v1 and v2. It is
// deliberately restricted to the read path the scanner needs; the scanner
// never writes.
type Session interface {
	// Query creates a new query for the given statement.
	//
	// Parameters:
	//   - stmt: CQL statement with ? placeholders
	//   - values: Values to bind to placeholders
	//
	// Returns:
	//   - Query: A query builder
	Query(stmt string, values ...any) Query

	// Close terminates the session.
	Close()
}

// Query represents a raw CQL read query from the underlying driver.
type Query interface {
	// Consistency sets the consistency level.
	Consistency(c Consistency) Query

	// PageSize sets the number of rows requested per page.
	PageSize(n int) Query

	// PageState sets the opaque pagination state to continue from.
	PageState(state []byte) Query

	// Iter executes the query and returns an iterator for results.
	Iter() Iter

	// IterContext executes the query with context and returns an iterator.
	IterContext(ctx context.Context) Iter

	// Statement returns the CQL statement.
	Statement() string

	// Values returns the bound values.
	Values() []any

	// Release returns the query to a pool (if applicable).
	Release()
}

// Iter represents a raw CQL iterator from the underlying driver.
//
// Reading more rows than NumRows reports triggers the driver's automatic
// paging; the page fetcher reads exactly NumRows rows per call to keep
// paging under its own control.
type Iter interface {
	// Scan reads the next row.
	Scan(dest ...any) bool

	// MapScan reads the next row into a map.
	MapScan(m map[string]any) bool

	// SliceMap reads all rows into a slice of maps.
	SliceMap() ([]map[string]any, error)

	// PageState returns the pagination token for the following page.
	PageState() []byte

	// NumRows returns the number of rows in the current page.
	NumRows() int

	// Warnings returns any warnings from the Cassandra server.
	Warnings() []string

	// Close closes the iterator and returns any error seen during the read.
	Close() error
}

// SessionFactory creates a fresh driver session.
//
// It is invoked once at startup and again after every connection reset, so
// it must carry the contact points, credentials, and connection-timeout
// configuration needed to build a session from scratch.
type SessionFactory func() (Session, error)

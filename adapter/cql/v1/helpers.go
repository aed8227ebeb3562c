package v1

import (
	"github.com/gocql/gocql"

	"github.com/wikimedia/restbase-cassandra/adapter/cql"
)

// ToGocqlConsistency converts a cql.Consistency to gocql.Consistency.
//
// This is useful when you need to interact with the underlying gocql
// driver directly while using this module's consistency constants.
//
// Parameters:
//   - c: Consistency level
//
// Returns:
//   - gocql.Consistency: The equivalent gocql consistency level
//
// Example:
//
//	cluster := gocql.NewCluster("127.0.0.1")
//	cluster.Consistency = v1.ToGocqlConsistency(cql.One)
func ToGocqlConsistency(c cql.Consistency) gocql.Consistency {
	return gocql.Consistency(c)
}

// FromGocqlConsistency converts a gocql.Consistency to cql.Consistency.
//
// Parameters:
//   - c: gocql consistency level
//
// Returns:
//   - cql.Consistency: The equivalent consistency level
func FromGocqlConsistency(c gocql.Consistency) cql.Consistency {
	return cql.Consistency(c)
}

// UnwrapSession returns the underlying gocql.Session from an adapter.
//
// Returns nil if the session is not a v1 adapter.
//
// Parameters:
//   - session: A cql.Session created by this package
//
// Returns:
//   - *gocql.Session: The wrapped gocql session, or nil
func UnwrapSession(session cql.Session) *gocql.Session {
	if s, ok := session.(*Session); ok {
		return s.session
	}

	return nil
}

package v2

import (
	gocql "github.com/apache/cassandra-gocql-driver/v2"

	"github.com/wikimedia/restbase-cassandra/adapter/cql"
)

// ToGocqlConsistency converts a cql.Consistency to gocql.Consistency.
//
// Parameters:
//   - c: Consistency level
//
// Returns:
//   - gocql.Consistency: The equivalent gocql consistency level
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
// Returns nil if the session is not a v2 adapter.
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

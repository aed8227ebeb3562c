// Package v1 provides an adapter for gocql v1 (github.com/gocql/gocql).
package v1

import (
	"context"

	"github.com/gocql/gocql"

	"github.com/wikimedia/restbase-cassandra/adapter/cql"
)

// Session wraps a gocql v1 session.
type Session struct {
	session *gocql.Session
}

// NewSession creates a new v1 adapter from a gocql session.
//
// Parameters:
//   - session: A gocql.Session instance
//
// Returns:
//   - *Session: An adapter implementing cql.Session
func NewSession(session *gocql.Session) *Session {
	return &Session{session: session}
}

// WrapSession is an alias for NewSession that wraps a gocql v1 session.
//
// This is useful for handing existing gocql sessions to the scanner.
//
// Example:
//
//	cluster := gocql.NewCluster("127.0.0.1")
//	session, _ := cluster.CreateSession()
//	scanner, _ := cassandra.NewScanner(cassandra.StaticSession(v1.WrapSession(session)))
//
// Parameters:
//   - session: A gocql.Session instance
//
// Returns:
//   - cql.Session: An adapter implementing cql.Session interface
func WrapSession(session *gocql.Session) cql.Session {
	return NewSession(session)
}

// Query creates a new query for the given statement.
//
// Parameters:
//   - stmt: CQL statement with ? placeholders
//   - values: Values to bind to placeholders
//
// Returns:
//   - cql.Query: A query builder
func (s *Session) Query(stmt string, values ...any) cql.Query {
	return &Query{
		query:     s.session.Query(stmt, values...),
		statement: stmt,
		values:    values,
	}
}

// Close terminates the session.
func (s *Session) Close() {
	s.session.Close()
}

// Query wraps a gocql v1 query.
type Query struct {
	query     *gocql.Query
	statement string
	values    []any
}

// Consistency sets the consistency level.
func (q *Query) Consistency(c cql.Consistency) cql.Query {
	q.query = q.query.Consistency(gocql.Consistency(c))
	return q
}

// PageSize sets the page size.
func (q *Query) PageSize(n int) cql.Query {
	q.query = q.query.PageSize(n)
	return q
}

// PageState sets the pagination state.
func (q *Query) PageState(state []byte) cql.Query {
	q.query = q.query.PageState(state)
	return q
}

// Iter returns an iterator for results.
func (q *Query) Iter() cql.Iter {
	return &Iter{iter: q.query.Iter()}
}

// IterContext returns an iterator for results with context.
func (q *Query) IterContext(ctx context.Context) cql.Iter {
	return &Iter{iter: q.query.WithContext(ctx).Iter()}
}

// Statement returns the CQL statement.
func (q *Query) Statement() string {
	return q.statement
}

// Values returns the bound values.
func (q *Query) Values() []any {
	return q.values
}

// Release returns the query to the pool.
func (q *Query) Release() {
	q.query.Release()
}

// Iter wraps a gocql v1 iterator.
type Iter struct {
	iter *gocql.Iter
}

// Scan reads the next row.
func (i *Iter) Scan(dest ...any) bool {
	if i.iter == nil {
		return false
	}

	return i.iter.Scan(dest...)
}

// MapScan reads the next row into a map.
func (i *Iter) MapScan(m map[string]any) bool {
	if i.iter == nil {
		return false
	}

	return i.iter.MapScan(m)
}

// SliceMap reads all rows into a slice of maps.
func (i *Iter) SliceMap() ([]map[string]any, error) {
	if i.iter == nil {
		return nil, nil
	}

	return i.iter.SliceMap()
}

// PageState returns the pagination token.
func (i *Iter) PageState() []byte {
	if i.iter == nil {
		return nil
	}

	return i.iter.PageState()
}

// NumRows returns the number of rows in the current page.
func (i *Iter) NumRows() int {
	if i.iter == nil {
		return 0
	}

	return i.iter.NumRows()
}

// Warnings returns any warnings from the Cassandra server.
func (i *Iter) Warnings() []string {
	if i.iter == nil {
		return nil
	}

	return i.iter.Warnings()
}

// Close closes the iterator.
func (i *Iter) Close() error {
	if i.iter == nil {
		return nil
	}

	return i.iter.Close()
}

// Package testutil provides test utilities and mock implementations for
// scanner testing.
//
// # Mock Implementations
//
// The package provides mocks for the cql read-path interfaces:
//
//   - [MockSession]: Serves scripted pages in order and records every
//     query it receives
//   - [MockQuery]: Records the consistency, page size, and page state set
//     on it
//   - [MockIter]: Replays one scripted page
//
// # Usage
//
// Script a session page by page, including failures:
//
//	session := testutil.NewMockSession(
//	    testutil.Page{Rows: testutil.TokenRows(0, 50), PageState: []byte{1}},
//	    testutil.Page{Err: errors.New("read timeout")},
//	    testutil.Page{Rows: testutil.TokenRows(50, 70)},
//	)
//
//	scanner, _ := cassandra.NewScanner(cassandra.StaticSession(session))
//
// # Integration Test Helpers
//
// For integration tests, helper functions are provided:
//
//   - StartEmbeddedNATS: Starts an embedded NATS server for checkpoint testing
//   - StartCassandra: Starts a Cassandra test container (requires Docker)
//   - StartScyllaDB: Starts a ScyllaDB test container (requires Docker)
package testutil

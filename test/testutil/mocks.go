package testutil

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/wikimedia/restbase-cassandra/adapter/cql"
)

// Page is one scripted page fetch outcome.
type Page struct {
	// Rows returned by the page, delivered in order.
	Rows []map[string]any

	// PageState returned alongside the rows; empty signals exhaustion.
	PageState []byte

	// Err, when set, makes the fetch fail from Iter.Close instead of
	// returning rows.
	Err error
}

// QueryCall records one query execution against a MockSession.
type QueryCall struct {
	Statement   string
	Values      []any
	Consistency cql.Consistency
	PageSize    int
	PageState   []byte
}

// MockSession is a mock implementation of cql.Session that serves scripted
// pages in order.
//
// Every executed query consumes the next page of the script and is
// recorded, letting tests assert statements, bound parameters, page sizes,
// and page states in execution order. A session past the end of its script
// serves empty exhausted pages.
type MockSession struct {
	// ErrHook, when set, is invoked with every scripted page error before
	// the failing iterator is returned. Tests use it to stand in for a
	// driver-level retry policy observing the failure.
	ErrHook func(err error)

	mu        sync.Mutex
	script    []Page
	next      int
	routes    map[string][]Page
	routeNext map[string]int
	calls     []QueryCall
	closed    bool
}

// Compile-time assertion that MockSession implements cql.Session.
var _ cql.Session = (*MockSession)(nil)

// NewMockSession creates a mock session serving the given pages in order.
func NewMockSession(script ...Page) *MockSession {
	return &MockSession{script: script}
}

// NewRoutedMockSession creates a mock session with one page script per
// table, selected by the FROM clause of each statement. This keeps
// concurrent multi-table fetches deterministic.
func NewRoutedMockSession(routes map[string][]Page) *MockSession {
	return &MockSession{
		routes:    routes,
		routeNext: make(map[string]int),
	}
}

// Append adds pages to the end of the script.
func (m *MockSession) Append(pages ...Page) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.script = append(m.script, pages...)
}

// Query returns a mock query bound to this session's script.
func (m *MockSession) Query(stmt string, values ...any) cql.Query {
	return &MockQuery{session: m, statement: stmt, values: values}
}

// Close marks the session as closed.
func (m *MockSession) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
}

// IsClosed reports whether Close was called.
func (m *MockSession) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.closed
}

// Calls returns the recorded query executions in order.
func (m *MockSession) Calls() []QueryCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]QueryCall, len(m.calls))
	copy(out, m.calls)

	return out
}

// take records the call and consumes the next scripted page.
func (m *MockSession) take(call QueryCall) Page {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, call)

	if m.routes != nil {
		for table, script := range m.routes {
			// Pad the statement so a trailing FROM clause still matches the
			// delimited table name.
			if !strings.Contains(call.Statement+" ", " FROM "+table+" ") {
				continue
			}
			if m.routeNext[table] >= len(script) {
				return Page{}
			}

			page := script[m.routeNext[table]]
			m.routeNext[table]++

			return page
		}

		return Page{}
	}

	if m.next >= len(m.script) {
		return Page{}
	}

	page := m.script[m.next]
	m.next++

	return page
}

// MockQuery is a mock implementation of cql.Query.
type MockQuery struct {
	session     *MockSession
	statement   string
	values      []any
	consistency cql.Consistency
	pageSize    int
	pageState   []byte
	released    bool
}

// Compile-time assertion that MockQuery implements cql.Query.
var _ cql.Query = (*MockQuery)(nil)

// Consistency records the consistency level.
func (q *MockQuery) Consistency(c cql.Consistency) cql.Query {
	q.consistency = c
	return q
}

// PageSize records the page size.
func (q *MockQuery) PageSize(n int) cql.Query {
	q.pageSize = n
	return q
}

// PageState records the page state.
func (q *MockQuery) PageState(state []byte) cql.Query {
	q.pageState = state
	return q
}

// Iter executes the query against the session script.
func (q *MockQuery) Iter() cql.Iter {
	return q.IterContext(context.Background())
}

// IterContext executes the query against the session script.
func (q *MockQuery) IterContext(_ context.Context) cql.Iter {
	page := q.session.take(QueryCall{
		Statement:   q.statement,
		Values:      q.values,
		Consistency: q.consistency,
		PageSize:    q.pageSize,
		PageState:   q.pageState,
	})

	if page.Err != nil {
		if q.session.ErrHook != nil {
			q.session.ErrHook(page.Err)
		}

		return &MockIter{closeErr: page.Err}
	}

	return &MockIter{rows: page.Rows, pageState: page.PageState}
}

// Statement returns the statement text.
func (q *MockQuery) Statement() string {
	return q.statement
}

// Values returns the bound values.
func (q *MockQuery) Values() []any {
	return q.values
}

// Release marks the query as released.
func (q *MockQuery) Release() {
	q.released = true
}

// MockIter is a mock implementation of cql.Iter replaying one page.
type MockIter struct {
	rows      []map[string]any
	pageState []byte
	closeErr  error
	pos       int
}

// Compile-time assertion that MockIter implements cql.Iter.
var _ cql.Iter = (*MockIter)(nil)

// Scan is unsupported by the mock; page reads use MapScan.
func (i *MockIter) Scan(_ ...any) bool {
	return false
}

// MapScan copies the next row into m.
func (i *MockIter) MapScan(m map[string]any) bool {
	if i.pos >= len(i.rows) {
		return false
	}

	for k, v := range i.rows[i.pos] {
		m[k] = v
	}
	i.pos++

	return true
}

// SliceMap returns all remaining rows.
func (i *MockIter) SliceMap() ([]map[string]any, error) {
	if i.closeErr != nil {
		return nil, i.closeErr
	}

	rows := i.rows[i.pos:]
	i.pos = len(i.rows)

	return rows, nil
}

// PageState returns the scripted page state.
func (i *MockIter) PageState() []byte {
	return i.pageState
}

// NumRows returns the scripted row count.
func (i *MockIter) NumRows() int {
	return len(i.rows)
}

// Warnings returns nil.
func (i *MockIter) Warnings() []string {
	return nil
}

// Close returns the scripted error, if any.
func (i *MockIter) Close() error {
	return i.closeErr
}

// TokenRows builds rows for tokens [from, to), each carrying the token
// alias column the scanner strips plus a synthetic key column.
//
// Parameters:
//   - from: First token, inclusive
//   - to: Last token, exclusive
//
// Returns:
//   - []map[string]any: One row per token
func TokenRows(from, to int64) []map[string]any {
	rows := make([]map[string]any, 0, to-from)
	for token := from; token < to; token++ {
		rows = append(rows, map[string]any{
			"key":          "row-" + strconv.FormatInt(token, 10),
			"cursor_token": token,
		})
	}

	return rows
}

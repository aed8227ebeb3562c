package cassandra

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wikimedia/restbase-cassandra/test/testutil"
	"github.com/wikimedia/restbase-cassandra/types"
)

// newTestScanner builds a scanner over a mock session with fast backoff so
// saturation happens within a test run.
func newTestScanner(t *testing.T, session *testutil.MockSession, opts ...Option) *Scanner {
	t.Helper()

	base := []Option{
		WithBackoffUnit(time.Millisecond),
		WithBackoffCeiling(8 * time.Millisecond),
		WithRand(rand.New(rand.NewSource(1))),
	}

	scanner, err := NewScanner(StaticSession(session), append(base, opts...)...)
	require.NoError(t, err)

	return scanner
}

func TestBackoffMonotonicUntilCeiling(t *testing.T) {
	bo := newBackoff(100*time.Millisecond, 20*time.Second, &jitterSource{rand: rand.New(rand.NewSource(42))})

	var delays []time.Duration
	for !bo.saturated() {
		delays = append(delays, bo.next())
	}

	require.Greater(t, len(delays), 2)
	for i := 1; i < len(delays); i++ {
		if delays[i] == bo.ceiling {
			// Delays cap at the ceiling once the doubling overshoots it.
			continue
		}
		assert.Greater(t, delays[i], delays[i-1], "delay %d", i)
	}
}

func TestBackoffReset(t *testing.T) {
	bo := newBackoff(time.Millisecond, 4*time.Millisecond, &jitterSource{rand: rand.New(rand.NewSource(1))})

	for !bo.saturated() {
		bo.next()
	}
	bo.reset()

	assert.False(t, bo.saturated())
	assert.Zero(t, bo.attempt)
	assert.Zero(t, bo.total)
}

func TestFetchPageStripsTokenColumn(t *testing.T) {
	session := testutil.NewMockSession(
		testutil.Page{Rows: testutil.TokenRows(100, 103)},
	)
	scanner := newTestScanner(t, session)

	cur := types.NewCursor()
	page, err := scanner.fetcher.fetchPage(context.Background(), "data", cur, "key")
	require.NoError(t, err)

	require.Len(t, page.rows, 3)
	for _, row := range page.rows {
		assert.NotContains(t, row, tokenColumn)
		assert.Contains(t, row, "key")
	}
	require.NotNil(t, page.lastToken)
	assert.Equal(t, int64(102), *page.lastToken)
}

func TestFetchPageRetryDropsPageSize(t *testing.T) {
	session := testutil.NewMockSession(
		testutil.Page{Err: errors.New("read timeout")},
		testutil.Page{Rows: testutil.TokenRows(0, 1)},
	)
	scanner := newTestScanner(t, session)

	_, err := scanner.fetcher.fetchPage(context.Background(), "data", types.NewCursor(), "key")
	require.NoError(t, err)

	calls := session.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, 50, calls[0].PageSize)
	assert.Equal(t, 1, calls[1].PageSize)
	assert.Equal(t, types.One, calls[0].Consistency)
}

func TestFetchPageSkipForward(t *testing.T) {
	// With a one-unit ceiling the first slept delay saturates the budget,
	// so the second failure triggers the skip deterministically.
	failure := testutil.Page{Err: errors.New("unavailable")}
	session := testutil.NewMockSession(failure, failure)
	session.Append(testutil.Page{Rows: testutil.TokenRows(1500000000, 1500000001)})

	var skipped []types.SkipRangeEvent
	scanner := newTestScanner(t, session,
		WithBackoffCeiling(time.Millisecond),
		WithOnRangeSkipped(func(event types.SkipRangeEvent) {
			skipped = append(skipped, event)
		}),
	)

	cur := types.NewTokenCursor(1000000000)
	cur.PageState = []byte{0xff}

	page, err := scanner.fetcher.fetchPage(context.Background(), "data", cur, "key")
	require.NoError(t, err)
	require.Len(t, page.rows, 1)

	require.NotNil(t, cur.Token)
	assert.Equal(t, int64(1500000000), *cur.Token)

	require.Len(t, skipped, 1)
	assert.Equal(t, "data", skipped[0].Table)
	assert.Equal(t, int64(1000000000), skipped[0].FromToken)
	assert.Equal(t, int64(1500000000), skipped[0].ToToken)
	assert.GreaterOrEqual(t, skipped[0].Elapsed, scanner.cfg.BackoffCeiling)

	// The attempt after the skip must carry the advanced token, a cleared
	// page state, and the normal page size again.
	calls := session.Calls()
	last := calls[len(calls)-1]
	assert.Equal(t, []any{int64(1500000000)}, last.Values)
	assert.Empty(t, last.PageState)
	assert.Equal(t, 50, last.PageSize)
}

func TestFetchPageNoTokenKeepsRetrying(t *testing.T) {
	// Without a token there is no skip target; the fetcher must keep
	// retrying until the backend recovers, well past the ceiling.
	failure := testutil.Page{Err: errors.New("unavailable")}
	session := testutil.NewMockSession(
		failure, failure, failure, failure, failure, failure, failure, failure,
		testutil.Page{Rows: testutil.TokenRows(0, 1)},
	)
	scanner := newTestScanner(t, session)

	cur := types.NewCursor()
	page, err := scanner.fetcher.fetchPage(context.Background(), "data", cur, "key")
	require.NoError(t, err)
	require.Len(t, page.rows, 1)

	assert.Len(t, session.Calls(), 9)
	// The cursor itself is never mutated on this path.
	assert.Nil(t, cur.Token)
}

func TestFetchPageContextCancel(t *testing.T) {
	failure := testutil.Page{Err: errors.New("unavailable")}
	session := testutil.NewMockSession(failure, failure, failure, failure)
	scanner := newTestScanner(t, session)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	_, err := scanner.fetcher.fetchPage(ctx, "data", types.NewCursor(), "key")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

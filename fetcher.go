package cassandra

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/wikimedia/restbase-cassandra/types"
)

// pageResult is one fetched page.
type pageResult struct {
	rows      []types.Row
	pageState []byte

	// lastToken is the partition token of the final row, nil for an empty
	// page. The scanner adopts it so skip-forward always has a position to
	// advance from once any row has been seen.
	lastToken *int64
}

// jitterSource serializes draws from one random source. A *rand.Rand is
// not safe for concurrent use, and the fan-out fetches of a multi-table
// scan take jitter concurrently.
type jitterSource struct {
	mu   sync.Mutex
	rand *rand.Rand
}

func (j *jitterSource) float64() float64 {
	j.mu.Lock()
	defer j.mu.Unlock()

	return j.rand.Float64()
}

// backoff tracks exponential delay with jitter for one logical page.
//
// The k-th consecutive failure sleeps unit*2^k plus a uniform jitter in
// [0, unit). Once the cumulative slept time reaches the ceiling the
// backoff is saturated and the fetcher escalates instead of sleeping
// further.
type backoff struct {
	unit    time.Duration
	ceiling time.Duration
	jitter  *jitterSource

	attempt int
	total   time.Duration
}

func newBackoff(unit, ceiling time.Duration, jitter *jitterSource) *backoff {
	return &backoff{unit: unit, ceiling: ceiling, jitter: jitter}
}

// next returns the delay for the current attempt and advances the state.
func (b *backoff) next() time.Duration {
	delay := b.unit<<uint(b.attempt) + time.Duration(b.jitter.float64()*float64(b.unit))
	if delay > b.ceiling {
		delay = b.ceiling
	}

	b.attempt++
	b.total += delay

	return delay
}

// saturated reports whether the cumulative delay has reached the ceiling.
func (b *backoff) saturated() bool {
	return b.total >= b.ceiling
}

// reset starts a fresh budget, used after a success or a token skip.
func (b *backoff) reset() {
	b.attempt = 0
	b.total = 0
}

// fetcher issues single-page reads with retry, backoff, and skip-forward.
type fetcher struct {
	provider SessionProvider
	cfg      *ScanConfig
	jitter   *jitterSource
}

// fetchPage fetches exactly one page for the cursor, absorbing transient
// failures.
//
// The loop retries the same page with exponential backoff, dropping to the
// retry page size after the first failure. When the cumulative backoff
// reaches the ceiling and the cursor has a token, the token range is
// treated as stuck: the cursor skips forward by the configured stride, the
// skip is reported, and fetching resumes at the new position with a fresh
// backoff budget. Without a token there is nothing safe to skip, so the
// loop keeps retrying at the ceiling delay until the backend recovers or
// the context is canceled.
//
// fetchPage mutates the cursor only on skip-forward.
//
// Parameters:
//   - ctx: Context for cancellation
//   - table: Table to scan
//   - cur: Scan position, skip-forward mutates it in place
//   - projection: Columns to fetch
//
// Returns:
//   - *pageResult: Rows, new page state, and last-seen token
//   - error: Context cancellation only; backend failures never surface
func (f *fetcher) fetchPage(ctx context.Context, table string, cur *types.Cursor, projection string) (*pageResult, error) {
	bo := newBackoff(f.cfg.BackoffUnit, f.cfg.BackoffCeiling, f.jitter)
	retrying := false

	for {
		page, err := f.fetchOnce(ctx, table, cur, projection, retrying)
		if err == nil {
			f.cfg.Metrics.IncPageTotal(table)

			return page, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		f.cfg.Metrics.IncPageError(table)

		if bo.saturated() {
			if cur.HasToken() {
				f.skipForward(table, cur, bo.total)
				bo.reset()
				retrying = false

				continue
			}

			// No token means no skip target. Keep waiting for the backend
			// to recover, loudly.
			f.cfg.Logger.Warn("backoff saturated with no token to skip from, retrying until recovery",
				"table", table,
				"cursor", cur.String(),
				"error", err,
			)
		}

		retrying = true
		delay := bo.next()
		f.cfg.Metrics.IncRetryTotal(table)
		f.cfg.Metrics.ObserveBackoffDelay(table, delay.Seconds())
		f.cfg.Logger.Debug("page fetch failed, backing off",
			"table", table,
			"cursor", cur.String(),
			"delay", delay,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
}

// skipForward abandons the cursor's current token range.
func (f *fetcher) skipForward(table string, cur *types.Cursor, elapsed time.Duration) {
	from := *cur.Token
	cur.SkipForward(f.cfg.TokenStride)

	f.cfg.Metrics.IncTokenSkip(table)
	f.cfg.Logger.Warn("skipping stuck token range, rows in range are lost from this scan",
		"table", table,
		"fromToken", from,
		"toToken", *cur.Token,
		"elapsed", elapsed,
	)

	if f.cfg.OnRangeSkipped != nil {
		f.cfg.OnRangeSkipped(types.SkipRangeEvent{
			Table:     table,
			FromToken: from,
			ToToken:   *cur.Token,
			Elapsed:   elapsed,
		})
	}
}

// fetchOnce issues a single page read attempt.
//
// It reads exactly the rows of the current page; reading past NumRows
// would trigger the driver's automatic fetch of the next page, which must
// stay under the scanner's control.
func (f *fetcher) fetchOnce(ctx context.Context, table string, cur *types.Cursor, projection string, retrying bool) (*pageResult, error) {
	session := f.provider.Session()
	if session == nil {
		return nil, types.ErrNilSession
	}

	stmt, params := buildScanQuery(table, projection, f.cfg.PartitionKeys, cur)

	size := f.cfg.PageSize
	if retrying {
		size = f.cfg.RetryPageSize
	}

	query := session.Query(stmt, params...).
		Consistency(f.cfg.Consistency).
		PageSize(size).
		PageState(cur.PageState)
	defer query.Release()

	started := time.Now()
	iter := query.IterContext(ctx)

	n := iter.NumRows()
	rows := make([]types.Row, 0, n)
	var lastToken *int64
	for i := 0; i < n; i++ {
		row := make(types.Row)
		if !iter.MapScan(row) {
			break
		}
		if raw, ok := row[tokenColumn]; ok {
			if token, ok := raw.(int64); ok {
				t := token
				lastToken = &t
			}
			delete(row, tokenColumn)
		}
		rows = append(rows, row)
	}

	state := append([]byte(nil), iter.PageState()...)
	if err := iter.Close(); err != nil {
		return nil, err
	}

	f.cfg.Metrics.ObservePageDuration(table, time.Since(started).Seconds())

	return &pageResult{rows: rows, pageState: state, lastToken: lastToken}, nil
}

package cassandra

import (
	"context"
	"math/rand"
	"time"

	"github.com/wikimedia/restbase-cassandra/types"
)

// Scanner drives resumable full-table scans over a token-ring partitioned
// store.
//
// A Scanner is stateless across scans and safe for concurrent use; each
// Scan or ScanMany call owns its cursor exclusively for the duration of
// the call.
type Scanner struct {
	provider SessionProvider
	cfg      *ScanConfig
	fetcher  *fetcher
}

// NewScanner creates a scanner reading through the given session provider.
//
// Parameters:
//   - provider: Source of the backend session, e.g. StaticSession or a
//     SessionManager
//   - opts: Optional configuration
//
// Returns:
//   - *Scanner: The scanner
//   - error: types.ErrNilSession if the provider is nil
//
// Example:
//
//	scanner, err := cassandra.NewScanner(
//	    cassandra.StaticSession(session),
//	    cassandra.WithConsistency(cassandra.One),
//	    cassandra.WithPageSize(50),
//	)
func NewScanner(provider SessionProvider, opts ...Option) (*Scanner, error) {
	if provider == nil {
		return nil, types.ErrNilSession
	}

	cfg := DefaultScanConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &Scanner{
		provider: provider,
		cfg:      cfg,
		fetcher: &fetcher{
			provider: provider,
			cfg:      cfg,
			jitter:   &jitterSource{rand: cfg.Rand},
		},
	}, nil
}

// Scan traverses a table page by page, delivering every row to the
// consumer in backend-returned order.
//
// The cursor is mutated in place after every page so the caller can
// persist it (or rely on a configured Checkpointer) and resume later from
// the same position. Rows of a page are delivered sequentially and the
// next page is not fetched until the current page is fully consumed.
//
// The scan ends when the backend reports an exhausted page state, when
// the consumer returns an error, or when the context is canceled. Backend
// failures never end the scan; they are absorbed by backoff and token
// skip-forward inside the fetcher.
//
// Parameters:
//   - ctx: Context for cancellation
//   - table: Table to scan
//   - cur: Scan position, owned by this call until it returns; nil starts
//     from the beginning
//   - projection: Columns to fetch, empty selects the partition keys
//   - consumer: Receives each row; a non-nil return halts the scan
//
// Returns:
//   - error: nil on natural exhaustion, otherwise a *types.ScanError
//     carrying the last-known token and page state for resumption
func (s *Scanner) Scan(ctx context.Context, table string, cur *Cursor, projection string, consumer RowConsumer) error {
	if cur == nil {
		cur = NewCursor()
	}

	for {
		page, err := s.fetcher.fetchPage(ctx, table, cur, projection)
		if err != nil {
			s.cfg.Logger.Error("scan halted",
				"table", table,
				"cursor", cur.String(),
				"error", err,
			)

			return newScanError(table, cur, err)
		}

		delivered := 0
		for _, row := range page.rows {
			if err := consumer(ctx, row); err != nil {
				s.cfg.Metrics.AddRowsDelivered(table, delivered)
				s.cfg.Logger.Error("consumer halted scan",
					"table", table,
					"cursor", cur.String(),
					"error", err,
				)

				return newScanError(table, cur, err)
			}
			delivered++
		}
		s.cfg.Metrics.AddRowsDelivered(table, delivered)

		cur.PageState = page.pageState
		if page.lastToken != nil {
			cur.Token = page.lastToken
		}

		s.checkpoint(ctx, table, cur)

		if len(page.pageState) == 0 {
			return nil
		}
	}
}

// checkpoint persists the cursor after a page. Failures are observable
// but never halt the scan.
func (s *Scanner) checkpoint(ctx context.Context, name string, cur *Cursor) {
	if s.cfg.Checkpointer == nil {
		return
	}
	if s.cfg.CheckpointKey != "" {
		name = s.cfg.CheckpointKey
	}

	if err := s.cfg.Checkpointer.Save(ctx, name, cur.Clone()); err != nil {
		s.cfg.Metrics.IncCheckpointError(name)
		s.cfg.Logger.Warn("checkpoint save failed",
			"name", name,
			"cursor", cur.String(),
			"error", err,
		)

		return
	}

	s.cfg.Metrics.IncCheckpointSave(name)
}

// newScanError wraps a fatal scan failure with the cursor state needed
// for exact resumption.
func newScanError(table string, cur *types.Cursor, cause error) error {
	e := &types.ScanError{
		Table:     table,
		PageState: append([]byte(nil), cur.PageState...),
		Cause:     cause,
	}
	if cur.Token != nil {
		token := *cur.Token
		e.Token = &token
	}

	return e
}

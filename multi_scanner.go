package cassandra

import (
	"context"
	"strings"
	"sync"

	"github.com/wikimedia/restbase-cassandra/types"
)

// ScanMany traverses several tables in lockstep under one shared cursor,
// delivering positionally paired row tuples to the consumer.
//
// All tables are fetched concurrently from the same cursor position, so
// they must share partitioning, row order, and page-state semantics. By
// default the per-table pages must return the same number of rows; a
// divergence fails the scan with types.ErrPageMismatch because positional
// pairing would silently misalign data from that point on.
// WithLenientPageAlignment relaxes this to pairing up to the shortest
// page, for callers that accept the misalignment risk.
//
// The shared cursor advances using the first table's page state and last
// token. The other tables' page states are trusted to stay in step; this
// is part of the identical-partitioning precondition.
//
// Parameters:
//   - ctx: Context for cancellation
//   - tables: Tables to scan, at least one; tuple order follows this order
//   - cur: Shared scan position, owned by this call until it returns; nil
//     starts from the beginning
//   - projection: Columns to fetch from every table
//   - consumer: Receives each tuple; a non-nil return halts the scan
//
// Returns:
//   - error: nil on natural exhaustion, types.ErrNoTables for an empty
//     table list, otherwise a *types.ScanError
func (s *Scanner) ScanMany(ctx context.Context, tables []string, cur *Cursor, projection string, consumer TupleConsumer) error {
	if len(tables) == 0 {
		return types.ErrNoTables
	}
	if cur == nil {
		cur = NewCursor()
	}

	joined := strings.Join(tables, ",")

	for {
		// Each fetch gets its own cursor clone so skip-forward mutations
		// stay single-goroutine. The shared cursor is only touched after
		// the join.
		copies := make([]types.Cursor, len(tables))
		pages := make([]*pageResult, len(tables))
		errs := make([]error, len(tables))

		var wg sync.WaitGroup
		for i, table := range tables {
			copies[i] = cur.Clone()

			wg.Add(1)
			go func(i int, table string) {
				defer wg.Done()
				pages[i], errs[i] = s.fetcher.fetchPage(ctx, table, &copies[i], projection)
			}(i, table)
		}
		wg.Wait()

		for i, err := range errs {
			if err != nil {
				s.logTupleFailure(tables, copies, pages, err)

				return newScanError(tables[i], &copies[i], err)
			}
		}

		n := len(pages[0].rows)
		for i := 1; i < len(pages); i++ {
			if len(pages[i].rows) == n {
				continue
			}
			if !s.cfg.LenientTuples {
				s.logTupleFailure(tables, copies, pages, types.ErrPageMismatch)

				return newScanError(joined, cur, types.ErrPageMismatch)
			}
			if len(pages[i].rows) < n {
				n = len(pages[i].rows)
			}
		}
		if s.cfg.LenientTuples && n < len(pages[0].rows) {
			s.cfg.Logger.Warn("page row counts diverged, pairing up to shortest page",
				"tables", joined,
				"rows", n,
			)
		}

		delivered := 0
		for i := 0; i < n; i++ {
			tuple := make(types.RowTuple, len(tables))
			for t := range tables {
				tuple[t] = pages[t].rows[i]
			}

			if err := consumer(ctx, tuple); err != nil {
				s.addTupleRows(tables, delivered)
				s.cfg.Logger.Error("consumer halted scan",
					"tables", joined,
					"cursor", cur.String(),
					"error", err,
				)

				return newScanError(joined, cur, err)
			}
			delivered++
		}
		s.addTupleRows(tables, delivered)

		// Skip-forward may have advanced any clone; adopt the first
		// table's view as the shared position.
		*cur = copies[0]
		cur.PageState = pages[0].pageState
		if pages[0].lastToken != nil {
			cur.Token = pages[0].lastToken
		}

		s.checkpoint(ctx, joined, cur)

		if len(pages[0].pageState) == 0 {
			return nil
		}
	}
}

func (s *Scanner) addTupleRows(tables []string, n int) {
	if n == 0 {
		return
	}
	for _, table := range tables {
		s.cfg.Metrics.AddRowsDelivered(table, n)
	}
}

// logTupleFailure reports every table's last-known page state so any of
// them can serve as a resumption point.
func (s *Scanner) logTupleFailure(tables []string, copies []types.Cursor, pages []*pageResult, cause error) {
	for i, table := range tables {
		state := copies[i].String()
		if pages[i] != nil {
			state = state + " fetchedPageState=" + cursorStateHex(pages[i].pageState)
		}
		s.cfg.Logger.Error("multi-table scan halted",
			"table", table,
			"state", state,
			"error", cause,
		)
	}
}

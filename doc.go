// Package cassandra provides a resilient cursor-based table scanner for
// token-ring partitioned stores such as Cassandra and ScyllaDB.
//
// The scanner pages through a potentially unbounded table, tracking its
// position as a partition-token / page-state cursor, absorbing transient
// backend failures with exponential backoff and connection reset, and
// escaping persistently failing partition ranges by skipping the token
// cursor forward rather than stalling forever.
//
// # Key Features
//
//   - Resumable Cursors: Serializable token/page-state position, restorable
//     from a checkpoint store after interruption
//   - Unbounded Resilience: Exponential backoff with jitter against
//     transient unavailability and timeouts
//   - Bounded Patience: After 20 seconds of cumulative backoff against one
//     page, the stuck token range is skipped by a fixed stride and the
//     skip is reported
//   - Connection Reset: Fire-and-forget session replacement on unavailable
//     and read-timeout failures, decided by a pluggable retry policy
//   - Synchronized Multi-Table Scans: N identically partitioned tables
//     scanned in lockstep, rows paired positionally into tuples
//
// # Basic Usage
//
//	session := v1.NewSession(gocqlSession)
//
//	scanner, err := cassandra.NewScanner(cassandra.StaticSession(session))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	cur := cassandra.NewCursor()
//	err = scanner.Scan(ctx, "data", cur, `"_domain", key, rev, tid`,
//	    func(ctx context.Context, row cassandra.Row) error {
//	        return process(row)
//	    },
//	)
//
// After every page the cursor holds the latest position; persist it (or
// configure a Checkpointer) and hand it back to Scan later to resume.
//
// # Connection Resets
//
// To get the automatic reset behavior, wire a SessionManager into both the
// scanner and the retry policy installed on the driver:
//
//	manager, err := cassandra.NewSessionManager(factory)
//	cluster.RetryPolicy = v1.WrapRetryPolicy(
//	    policy.NewReconnectRetry(policy.WithResetter(manager)),
//	)
//	scanner, err := cassandra.NewScanner(manager)
//
// Resets are asynchronous and best-effort: a retry may race the reopening
// session and fail once more, which the backoff layer absorbs.
//
// # Error Handling
//
// Backend failures never end a scan. The only errors Scan and ScanMany
// return are consumer failures, context cancellation, and structural
// problems such as diverging multi-table pages; all of them arrive as a
// *types.ScanError carrying the last-known token and page state for exact
// resumption.
//
// # Data Loss
//
// A token skip-forward permanently loses the rows of the skipped range
// from that scan. Every skip is counted, logged, and delivered to the
// WithOnRangeSkipped handler so operators can re-scan the range later.
package cassandra

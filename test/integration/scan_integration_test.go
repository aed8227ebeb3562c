package integration_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/gocql/gocql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cassandra "github.com/wikimedia/restbase-cassandra"
	v1 "github.com/wikimedia/restbase-cassandra/adapter/cql/v1" //nolint:revive // goimports requires explicit alias
	"github.com/wikimedia/restbase-cassandra/checkpoint"
	"github.com/wikimedia/restbase-cassandra/types"
)

const scanProjection = `"_domain", key, rev, tid`

// seedTestRows inserts n rows into distinct partitions of table.
func seedTestRows(t *testing.T, session *gocql.Session, table string, n int) {
	t.Helper()

	for i := 0; i < n; i++ {
		err := session.Query(
			`INSERT INTO `+table+` ("_domain", key, rev, tid) VALUES (?, ?, ?, ?)`,
			"en.wikipedia.org", fmt.Sprintf("item-%03d", i), 1, uuid.New().String(),
		).Exec()
		require.NoError(t, err)
	}
}

func TestScanIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := t.Context()
	session := getSharedSession(t)

	table := createTestTable(t, "revisions", revisionsTableSchema)
	seedTestRows(t, session, table, 120)

	scanner, err := cassandra.NewScanner(
		cassandra.StaticSession(v1.NewSession(session)),
		cassandra.WithPageSize(25),
	)
	require.NoError(t, err)

	cur := cassandra.NewCursor()
	var keys []string
	err = scanner.Scan(ctx, table, cur, scanProjection,
		func(_ context.Context, row cassandra.Row) error {
			keys = append(keys, row["key"].(string))
			// The token column is internal and must not leak to consumers.
			_, leaked := row["cursor_token"]
			assert.False(t, leaked)
			assert.NotNil(t, row["tid"])

			return nil
		},
	)
	require.NoError(t, err)

	require.Len(t, keys, 120)
	assert.Len(t, uniqueStrings(keys), 120)

	// An exhausted scan leaves the cursor at the end of the ring.
	assert.Empty(t, cur.PageState)
	assert.NotNil(t, cur.Token)
}

func TestScanResumeIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := t.Context()
	session := getSharedSession(t)

	table := createTestTable(t, "resume", revisionsTableSchema)
	seedTestRows(t, session, table, 120)

	scanner, err := cassandra.NewScanner(
		cassandra.StaticSession(v1.NewSession(session)),
		cassandra.WithPageSize(25),
	)
	require.NoError(t, err)

	// First pass aborts mid-scan, as a crashed consumer would.
	haltErr := errors.New("consumer restarted")
	cur := cassandra.NewCursor()
	seen := map[string]struct{}{}
	delivered := 0
	err = scanner.Scan(ctx, table, cur, scanProjection,
		func(_ context.Context, row cassandra.Row) error {
			if delivered == 60 {
				return haltErr
			}
			delivered++
			seen[row["key"].(string)] = struct{}{}

			return nil
		},
	)
	require.Error(t, err)
	require.ErrorIs(t, err, haltErr)

	var scanErr *types.ScanError
	require.ErrorAs(t, err, &scanErr)
	assert.Equal(t, table, scanErr.Table)

	// Second pass resumes from the cursor the first pass left behind. The
	// page the consumer died on is re-delivered, so duplicates are expected
	// but gaps are not.
	err = scanner.Scan(ctx, table, cur, scanProjection,
		func(_ context.Context, row cassandra.Row) error {
			seen[row["key"].(string)] = struct{}{}

			return nil
		},
	)
	require.NoError(t, err)

	assert.Len(t, seen, 120)
}

func TestScanCheckpointIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := t.Context()
	session := getSharedSession(t)

	table := createTestTable(t, "checkpointed", revisionsTableSchema)
	seedTestRows(t, session, table, 60)

	store := checkpoint.NewMemory()
	scanner, err := cassandra.NewScanner(
		cassandra.StaticSession(v1.NewSession(session)),
		cassandra.WithPageSize(20),
		cassandra.WithCheckpointer(store),
	)
	require.NoError(t, err)

	err = scanner.Scan(ctx, table, cassandra.NewCursor(), scanProjection, discardRows)
	require.NoError(t, err)

	saved, err := store.Load(ctx, table)
	require.NoError(t, err)
	require.NotNil(t, saved.Token)
	assert.Empty(t, saved.PageState)
}

func TestScanSeedCursorIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := t.Context()
	session := getSharedSession(t)

	table := createTestTable(t, "seeded", revisionsTableSchema)
	seedTestRows(t, session, table, 60)

	scanner, err := cassandra.NewScanner(
		cassandra.StaticSession(v1.NewSession(session)),
		cassandra.WithPageSize(20),
	)
	require.NoError(t, err)

	// A seeded scan starts at the seed row's ring position and covers the
	// remainder of the ring, never more than the full table.
	var keys []string
	err = scanner.Scan(ctx, table, cassandra.NewSeedCursor("en.wikipedia.org", "item-030"), scanProjection,
		func(_ context.Context, row cassandra.Row) error {
			keys = append(keys, row["key"].(string))

			return nil
		},
	)
	require.NoError(t, err)

	require.NotEmpty(t, keys)
	assert.LessOrEqual(t, len(keys), 60)
	assert.Equal(t, "item-030", keys[0])
}

func TestScanManyIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := t.Context()
	session := getSharedSession(t)

	// Two tables with identical partition keys share a token order, which is
	// what makes positional pairing across them meaningful.
	alpha := createTestTable(t, "alpha", revisionsTableSchema)
	beta := createTestTable(t, "beta", revisionsTableSchema)
	seedTestRows(t, session, alpha, 40)
	seedTestRows(t, session, beta, 40)

	scanner, err := cassandra.NewScanner(
		cassandra.StaticSession(v1.NewSession(session)),
		cassandra.WithPageSize(10),
	)
	require.NoError(t, err)

	tuples := 0
	err = scanner.ScanMany(ctx, []string{alpha, beta}, cassandra.NewCursor(), scanProjection,
		func(_ context.Context, tuple cassandra.RowTuple) error {
			tuples++
			require.Len(t, tuple, 2)
			assert.Equal(t, tuple[0]["key"], tuple[1]["key"])

			return nil
		},
	)
	require.NoError(t, err)
	assert.Equal(t, 40, tuples)
}

func uniqueStrings(in []string) map[string]struct{} {
	out := make(map[string]struct{}, len(in))
	for _, s := range in {
		out[s] = struct{}{}
	}

	return out
}

func discardRows(_ context.Context, _ cassandra.Row) error {
	return nil
}

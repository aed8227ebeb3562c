package cassandra

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wikimedia/restbase-cassandra/test/testutil"
	"github.com/wikimedia/restbase-cassandra/types"
)

func TestScanManyNoTables(t *testing.T) {
	scanner := newTestScanner(t, testutil.NewMockSession())

	err := scanner.ScanMany(context.Background(), nil, NewCursor(), "key", discardTuples)
	require.ErrorIs(t, err, types.ErrNoTables)
}

func TestScanManyPairsRowsPositionally(t *testing.T) {
	session := testutil.NewRoutedMockSession(map[string][]testutil.Page{
		"alpha": {
			{Rows: testutil.TokenRows(0, 3), PageState: []byte{1}},
			{Rows: testutil.TokenRows(3, 5)},
		},
		"beta": {
			{Rows: testutil.TokenRows(100, 103), PageState: []byte{9}},
			{Rows: testutil.TokenRows(103, 105)},
		},
	})
	scanner := newTestScanner(t, session)

	var tuples []RowTuple
	err := scanner.ScanMany(context.Background(), []string{"alpha", "beta"}, NewCursor(), "key",
		func(_ context.Context, tuple RowTuple) error {
			tuples = append(tuples, tuple)
			return nil
		},
	)
	require.NoError(t, err)

	// Row i of alpha pairs with row i of beta, page by page.
	require.Len(t, tuples, 5)
	assert.Equal(t, "row-0", tuples[0][0]["key"])
	assert.Equal(t, "row-100", tuples[0][1]["key"])
	assert.Equal(t, "row-2", tuples[2][0]["key"])
	assert.Equal(t, "row-102", tuples[2][1]["key"])
	assert.Equal(t, "row-4", tuples[4][0]["key"])
	assert.Equal(t, "row-104", tuples[4][1]["key"])
}

func TestScanManySharesCursorAcrossTables(t *testing.T) {
	session := testutil.NewRoutedMockSession(map[string][]testutil.Page{
		"alpha": {
			{Rows: testutil.TokenRows(0, 2), PageState: []byte{1}},
			{Rows: testutil.TokenRows(2, 4)},
		},
		"beta": {
			{Rows: testutil.TokenRows(0, 2), PageState: []byte{2}},
			{Rows: testutil.TokenRows(2, 4)},
		},
	})
	scanner := newTestScanner(t, session)

	err := scanner.ScanMany(context.Background(), []string{"alpha", "beta"}, NewCursor(), "key", discardTuples)
	require.NoError(t, err)

	// The second round uses the first table's page state for both tables.
	for _, call := range session.Calls() {
		if len(call.PageState) > 0 {
			assert.Equal(t, []byte{1}, call.PageState)
		}
	}
}

func TestScanManyPageMismatchFailsLoudly(t *testing.T) {
	session := testutil.NewRoutedMockSession(map[string][]testutil.Page{
		"alpha": {{Rows: testutil.TokenRows(0, 3), PageState: []byte{1}}},
		"beta":  {{Rows: testutil.TokenRows(100, 102), PageState: []byte{9}}},
	})
	scanner := newTestScanner(t, session)

	tuples := 0
	err := scanner.ScanMany(context.Background(), []string{"alpha", "beta"}, NewCursor(), "key",
		func(_ context.Context, _ RowTuple) error {
			tuples++
			return nil
		},
	)

	require.Error(t, err)
	require.ErrorIs(t, err, types.ErrPageMismatch)
	assert.Zero(t, tuples, "no tuple may be delivered from misaligned pages")
}

func TestScanManyLenientAlignment(t *testing.T) {
	session := testutil.NewRoutedMockSession(map[string][]testutil.Page{
		"alpha": {{Rows: testutil.TokenRows(0, 3)}},
		"beta":  {{Rows: testutil.TokenRows(100, 102)}},
	})
	scanner := newTestScanner(t, session, WithLenientPageAlignment())

	tuples := 0
	err := scanner.ScanMany(context.Background(), []string{"alpha", "beta"}, NewCursor(), "key",
		func(_ context.Context, _ RowTuple) error {
			tuples++
			return nil
		},
	)
	require.NoError(t, err)
	assert.Equal(t, 2, tuples)
}

func TestScanManyConsumerErrorStops(t *testing.T) {
	session := testutil.NewRoutedMockSession(map[string][]testutil.Page{
		"alpha": {
			{Rows: testutil.TokenRows(0, 3), PageState: []byte{1}},
			{Rows: testutil.TokenRows(3, 6)},
		},
		"beta": {
			{Rows: testutil.TokenRows(0, 3), PageState: []byte{1}},
			{Rows: testutil.TokenRows(3, 6)},
		},
	})
	scanner := newTestScanner(t, session)

	wantErr := errors.New("sink failed")
	tuples := 0
	err := scanner.ScanMany(context.Background(), []string{"alpha", "beta"}, NewCursor(), "key",
		func(_ context.Context, _ RowTuple) error {
			tuples++
			if tuples == 2 {
				return wantErr
			}
			return nil
		},
	)

	require.Error(t, err)
	require.ErrorIs(t, err, wantErr)
	assert.Equal(t, 2, tuples)

	// Only the first round of fetches happened, one per table.
	assert.Len(t, session.Calls(), 2)
}

func TestScanManyBackoffAcrossTables(t *testing.T) {
	// Both tables fail their first fetches, so their backoff loops draw
	// jitter from the shared source concurrently. Run under the race
	// detector this covers the serialization of that source.
	failure := testutil.Page{Err: errors.New("unavailable")}
	session := testutil.NewRoutedMockSession(map[string][]testutil.Page{
		"alpha": {failure, failure, {Rows: testutil.TokenRows(0, 2)}},
		"beta":  {failure, failure, {Rows: testutil.TokenRows(50, 52)}},
	})
	scanner := newTestScanner(t, session)

	tuples := 0
	err := scanner.ScanMany(context.Background(), []string{"alpha", "beta"}, NewCursor(), "key",
		func(_ context.Context, _ RowTuple) error {
			tuples++
			return nil
		},
	)
	require.NoError(t, err)
	assert.Equal(t, 2, tuples)
}

func TestScanManyAdvancesSharedToken(t *testing.T) {
	session := testutil.NewRoutedMockSession(map[string][]testutil.Page{
		"alpha": {
			{Rows: testutil.TokenRows(0, 2), PageState: []byte{1}},
			{Rows: testutil.TokenRows(2, 4)},
		},
		"beta": {
			{Rows: testutil.TokenRows(50, 52), PageState: []byte{2}},
			{Rows: testutil.TokenRows(52, 54)},
		},
	})
	scanner := newTestScanner(t, session)

	cur := NewCursor()
	err := scanner.ScanMany(context.Background(), []string{"alpha", "beta"}, cur, "key", discardTuples)
	require.NoError(t, err)

	// The shared cursor tracks the first table's tokens, not the second's.
	require.NotNil(t, cur.Token)
	assert.Equal(t, int64(3), *cur.Token)
}

func discardTuples(_ context.Context, _ RowTuple) error {
	return nil
}

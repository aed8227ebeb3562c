package v2_test

import (
	"context"
	"errors"
	"testing"

	gocql "github.com/apache/cassandra-gocql-driver/v2"
	"github.com/stretchr/testify/require"

	"github.com/wikimedia/restbase-cassandra/adapter/cql"
	v2 "github.com/wikimedia/restbase-cassandra/adapter/cql/v2" //nolint:revive // required for v2_test package
	"github.com/wikimedia/restbase-cassandra/types"
)

// TestSessionImplementsInterface verifies that v2.Session implements cql.Session.
func TestSessionImplementsInterface(t *testing.T) {
	// This is a compile-time check
	var _ cql.Session = (*v2.Session)(nil)
}

// TestQueryImplementsInterface verifies that v2.Query implements cql.Query.
func TestQueryImplementsInterface(t *testing.T) {
	// This is a compile-time check
	var _ cql.Query = (*v2.Query)(nil)
}

// TestIterImplementsInterface verifies that v2.Iter implements cql.Iter.
func TestIterImplementsInterface(t *testing.T) {
	// This is a compile-time check
	var _ cql.Iter = (*v2.Iter)(nil)
}

// TestNewSessionNil tests that NewSession handles nil gracefully.
func TestNewSessionNil(t *testing.T) {
	session := v2.NewSession(nil)
	require.NotNil(t, session)
}

// TestQueryRelease verifies Release is safe on a query without a driver
// query behind it; the v2 driver has no query pool to return to.
func TestQueryRelease(t *testing.T) {
	var q v2.Query
	require.NotPanics(t, q.Release)
}

// TestConsistencyConstants verifies consistency constants match gocql.
func TestConsistencyConstants(t *testing.T) {
	require.Equal(t, gocql.One, v2.ToGocqlConsistency(cql.One))
	require.Equal(t, gocql.Quorum, v2.ToGocqlConsistency(cql.Quorum))
	require.Equal(t, cql.LocalOne, v2.FromGocqlConsistency(gocql.LocalOne))
}

func TestClassifyError(t *testing.T) {
	require.Equal(t, types.FailureUnavailable, v2.ClassifyError(&gocql.RequestErrUnavailable{}))
	require.Equal(t, types.FailureReadTimeout, v2.ClassifyError(&gocql.RequestErrReadTimeout{}))
	require.Equal(t, types.FailureWriteTimeout, v2.ClassifyError(&gocql.RequestErrWriteTimeout{}))
	require.Equal(t, types.FailureUnknown, v2.ClassifyError(errors.New("connection refused")))
	require.Equal(t, types.FailureUnknown, v2.ClassifyError(nil))
}

// decisionPolicy returns a fixed decision and records the attempts it saw.
type decisionPolicy struct {
	decision types.RetryDecision
	attempts []types.RetryAttempt
}

func (p *decisionPolicy) Decide(attempt types.RetryAttempt) types.RetryDecision {
	p.attempts = append(p.attempts, attempt)
	return p.decision
}

// fakeRetryableQuery implements gocql.RetryableQuery for bridge tests.
type fakeRetryableQuery struct {
	attempts    int
	consistency gocql.Consistency
}

func (q *fakeRetryableQuery) Attempts() int                      { return q.attempts }
func (q *fakeRetryableQuery) SetConsistency(c gocql.Consistency) { q.consistency = c }
func (q *fakeRetryableQuery) GetConsistency() gocql.Consistency  { return q.consistency }
func (q *fakeRetryableQuery) Context() context.Context           { return context.Background() }

func TestWrapRetryPolicyAttempt(t *testing.T) {
	p := &decisionPolicy{decision: types.Retry}
	wrapped := v2.WrapRetryPolicy(p)

	require.True(t, wrapped.Attempt(&fakeRetryableQuery{attempts: 2}))

	require.Len(t, p.attempts, 1)
	require.Equal(t, types.FailureUnknown, p.attempts[0].Kind)
	require.Equal(t, 2, p.attempts[0].Attempts)
	require.NoError(t, p.attempts[0].Err)
}

func TestWrapRetryPolicyAttemptRethrow(t *testing.T) {
	p := &decisionPolicy{decision: types.Rethrow}
	wrapped := v2.WrapRetryPolicy(p)

	require.False(t, wrapped.Attempt(&fakeRetryableQuery{}))
}

func TestWrapRetryPolicyGetRetryType(t *testing.T) {
	tests := []struct {
		name     string
		decision types.RetryDecision
		want     gocql.RetryType
	}{
		{name: "retry", decision: types.Retry, want: gocql.Retry},
		{name: "next replica", decision: types.RetryNextReplica, want: gocql.RetryNextHost},
		{name: "rethrow", decision: types.Rethrow, want: gocql.Rethrow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &decisionPolicy{decision: tt.decision}
			wrapped := v2.WrapRetryPolicy(p)

			got := wrapped.GetRetryType(&gocql.RequestErrUnavailable{})
			require.Equal(t, tt.want, got)

			require.Len(t, p.attempts, 1)
			require.Equal(t, types.FailureUnavailable, p.attempts[0].Kind)
		})
	}
}

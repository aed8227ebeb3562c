package policy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wikimedia/restbase-cassandra/types"
)

type countingResetter struct {
	resets int
}

func (r *countingResetter) Reset() {
	r.resets++
}

func TestReconnectRetryUnavailable(t *testing.T) {
	resetter := &countingResetter{}
	p := NewReconnectRetry(WithResetter(resetter))

	decision := p.Decide(types.RetryAttempt{
		Kind: types.FailureUnavailable,
		Err:  errors.New("not enough replicas"),
	})

	require.Equal(t, types.RetryNextReplica, decision)
	require.Equal(t, 1, resetter.resets)
}

func TestReconnectRetryReadTimeout(t *testing.T) {
	resetter := &countingResetter{}
	p := NewReconnectRetry(WithResetter(resetter))

	decision := p.Decide(types.RetryAttempt{
		Kind: types.FailureReadTimeout,
		Err:  errors.New("read timeout"),
	})

	require.Equal(t, types.Retry, decision)
	require.Equal(t, 1, resetter.resets)
}

func TestReconnectRetryWriteTimeoutNoReset(t *testing.T) {
	resetter := &countingResetter{}
	p := NewReconnectRetry(WithResetter(resetter))

	decision := p.Decide(types.RetryAttempt{
		Kind: types.FailureWriteTimeout,
		Err:  errors.New("write timeout"),
	})

	require.Equal(t, types.Retry, decision)
	require.Zero(t, resetter.resets)
}

func TestReconnectRetryProbeHasNoSideEffects(t *testing.T) {
	resetter := &countingResetter{}
	p := NewReconnectRetry(WithResetter(resetter))

	// Retry-budget probes carry FailureUnknown and no error.
	decision := p.Decide(types.RetryAttempt{
		Kind:     types.FailureUnknown,
		Attempts: 3,
	})

	require.Equal(t, types.Retry, decision)
	require.Zero(t, resetter.resets)
}

func TestReconnectRetryNeverRethrows(t *testing.T) {
	p := NewReconnectRetry()

	kinds := []types.FailureKind{
		types.FailureUnknown,
		types.FailureUnavailable,
		types.FailureReadTimeout,
		types.FailureWriteTimeout,
	}
	for _, kind := range kinds {
		decision := p.Decide(types.RetryAttempt{Kind: kind, Attempts: 1000})
		require.NotEqual(t, types.Rethrow, decision, "kind %v", kind)
	}
}

func TestReconnectRetryWithoutResetter(t *testing.T) {
	p := NewReconnectRetry()

	require.NotPanics(t, func() {
		p.Decide(types.RetryAttempt{Kind: types.FailureUnavailable})
	})
}

func TestBoundedRetry(t *testing.T) {
	p := NewBoundedRetry(3)

	require.Equal(t, types.Retry, p.Decide(types.RetryAttempt{Attempts: 0}))
	require.Equal(t, types.Retry, p.Decide(types.RetryAttempt{Attempts: 2}))
	require.Equal(t, types.Rethrow, p.Decide(types.RetryAttempt{Attempts: 3}))
	require.Equal(t, types.Rethrow, p.Decide(types.RetryAttempt{Attempts: 10}))
}

func TestBoundedRetryMinimumBudget(t *testing.T) {
	p := NewBoundedRetry(0)

	require.Equal(t, types.Retry, p.Decide(types.RetryAttempt{Attempts: 0}))
	require.Equal(t, types.Rethrow, p.Decide(types.RetryAttempt{Attempts: 1}))
}

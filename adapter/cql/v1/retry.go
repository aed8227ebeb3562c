package v1

import (
	"errors"

	"github.com/gocql/gocql"

	"github.com/wikimedia/restbase-cassandra/types"
)

// retryPolicy bridges a types.RetryPolicy into gocql's RetryPolicy
// extension point.
//
// gocql splits the decision across two calls: Attempt asks whether the
// request may be retried at all (no error is available yet, so the policy
// is probed with FailureUnknown), and GetRetryType classifies the concrete
// error into a routing decision. Connection-reset side effects belong to
// the wrapped policy and fire from GetRetryType, where the failure class
// is known.
type retryPolicy struct {
	policy types.RetryPolicy
}

// Compile-time assertion that retryPolicy implements gocql.RetryPolicy.
var _ gocql.RetryPolicy = (*retryPolicy)(nil)

// WrapRetryPolicy adapts a types.RetryPolicy for use as a gocql v1 retry
// policy.
//
// Example:
//
//	cluster := gocql.NewCluster("127.0.0.1")
//	cluster.RetryPolicy = v1.WrapRetryPolicy(policy.NewReconnectRetry(
//	    policy.WithResetter(sessions),
//	))
//
// Parameters:
//   - p: The retry policy to wrap
//
// Returns:
//   - gocql.RetryPolicy: A gocql-compatible retry policy
func WrapRetryPolicy(p types.RetryPolicy) gocql.RetryPolicy {
	return &retryPolicy{policy: p}
}

// Attempt reports whether the query may be retried.
//
// The probe carries FailureUnknown; policies must not run side effects
// for it.
func (r *retryPolicy) Attempt(q gocql.RetryableQuery) bool {
	decision := r.policy.Decide(types.RetryAttempt{
		Kind:     types.FailureUnknown,
		Attempts: q.Attempts(),
	})

	return decision != types.Rethrow
}

// GetRetryType classifies the error and maps the policy decision onto
// gocql's retry routing.
func (r *retryPolicy) GetRetryType(err error) gocql.RetryType {
	decision := r.policy.Decide(types.RetryAttempt{
		Kind: ClassifyError(err),
		Err:  err,
	})

	switch decision {
	case types.RetryNextReplica:
		return gocql.RetryNextHost
	case types.Rethrow:
		return gocql.Rethrow
	case types.Retry:
		return gocql.Retry
	}

	return gocql.Retry
}

// ClassifyError maps a gocql v1 error onto a types.FailureKind.
//
// Parameters:
//   - err: The driver error to classify
//
// Returns:
//   - types.FailureKind: The failure class, FailureUnknown if unrecognized
func ClassifyError(err error) types.FailureKind {
	var unavailable *gocql.RequestErrUnavailable
	if errors.As(err, &unavailable) {
		return types.FailureUnavailable
	}

	var readTimeout *gocql.RequestErrReadTimeout
	if errors.As(err, &readTimeout) {
		return types.FailureReadTimeout
	}

	var writeTimeout *gocql.RequestErrWriteTimeout
	if errors.As(err, &writeTimeout) {
		return types.FailureWriteTimeout
	}

	return types.FailureUnknown
}

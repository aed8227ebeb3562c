package v2

import (
	"errors"

	gocql "github.com/apache/cassandra-gocql-driver/v2"

	"github.com/wikimedia/restbase-cassandra/types"
)

// retryPolicy bridges a types.RetryPolicy into the v2 driver's RetryPolicy
// extension point. See the v1 adapter for the split between the Attempt
// probe and the GetRetryType classification.
type retryPolicy struct {
	policy types.RetryPolicy
}

// Compile-time assertion that retryPolicy implements gocql.RetryPolicy.
var _ gocql.RetryPolicy = (*retryPolicy)(nil)

// WrapRetryPolicy adapts a types.RetryPolicy for use as a gocql v2 retry
// policy.
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
func (r *retryPolicy) Attempt(q gocql.RetryableQuery) bool {
	decision := r.policy.Decide(types.RetryAttempt{
		Kind:     types.FailureUnknown,
		Attempts: q.Attempts(),
	})

	return decision != types.Rethrow
}

// GetRetryType classifies the error and maps the policy decision onto the
// driver's retry routing.
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

// ClassifyError maps a gocql v2 error onto a types.FailureKind.
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

// Package policy provides retry policies for scans against token-ring
// partitioned stores.
//
// All policies implement the types.RetryPolicy interface:
//
//	type RetryPolicy interface {
//	    Decide(attempt types.RetryAttempt) types.RetryDecision
//	}
//
// Available policies:
//
//   - [ReconnectRetry]: Never gives up; resets the connection on
//     unavailable and read-timeout failures before retrying
//   - [BoundedRetry]: Retries a fixed number of attempts, then rethrows
//
// Policies plug into the backend driver through the adapter packages:
//
//	manager, _ := cassandra.NewSessionManager(factory)
//	cluster.RetryPolicy = v1.WrapRetryPolicy(
//	    policy.NewReconnectRetry(policy.WithResetter(manager)),
//	)
//
// The driver invokes the policy synchronously at the point of failure, so
// implementations must be safe for concurrent use and must return without
// waiting on the side effects they trigger. In particular ReconnectRetry's
// connection reset is unordered with respect to the retry it precedes; a
// retry racing the still-reopening connection is expected and absorbed by
// the page fetcher's backoff.
package policy

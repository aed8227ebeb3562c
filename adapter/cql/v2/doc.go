// Package v2 provides an adapter for the Apache-donated gocql v2 driver
// (github.com/apache/cassandra-gocql-driver) to work with the scanner.
//
// The v2 driver deprecates query.WithContext in favor of context-taking
// execution methods; this adapter routes everything through IterContext.
//
// Usage mirrors the v1 adapter:
//
//	cluster := gocql.NewCluster("127.0.0.1")
//	cluster.RetryPolicy = v2.WrapRetryPolicy(policy.NewReconnectRetry())
//	gocqlSession, _ := cluster.CreateSession()
//	session := v2.NewSession(gocqlSession)
package v2

// Package types holds the shared value objects of the scanner: cursors,
// rows, failure classification, retry decisions, logging and metrics
// interfaces, and sentinel errors.
//
// It intentionally has no dependencies on other packages in this module
// so that adapters, policies, and storage backends can all import it
// without cycles.
package types

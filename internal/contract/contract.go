// Package contract provides interfaces and shared utilities for the
// Sinphasé CLI's internal architecture.
package contract

import (
	"context"

	"github.com/obinexus/sinphase/schema"
)

// MetricsClient defines the operations needed to collect repository metrics
// from a hosting provider. The core analysis logic depends on this interface
// so it can be tested without network access.
type MetricsClient interface {
	// ListRepositories returns the names of all repositories in the
	// organization, in the order the provider returns them.
	ListRepositories(ctx context.Context, org string) ([]string, error)

	// GetRepositoryMetrics collects the raw metrics for one repository,
	// including the commit count over the last 30 days.
	GetRepositoryMetrics(ctx context.Context, org, repo string) (*schema.RepositoryMetrics, error)

	// GetRepositoryPolicy fetches the repository's own governance policy
	// file when present. A nil policy with nil error means the repository
	// carries no policy file.
	GetRepositoryPolicy(ctx context.Context, org, repo string) (*RepoPolicyRaw, error)
}

// StoreManager defines the interface for managing persistence stores.
// This allows the storage layer to be mocked for testing.
type StoreManager interface {
	GetMetricsStore() MetricsStore
	GetHistoryStore() HistoryStore
}

// MetricsStore defines the interface for cached repository metrics.
type MetricsStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Clear() error
	Close() error
}

// HistoryStore defines the interface for persisted analysis runs.
type HistoryStore interface {
	// BeginRun registers a new analysis run.
	BeginRun(runID, org string) error

	// RecordResults stores the scored rows of a run.
	RecordResults(records []schema.HistoryRecord) error

	// EndRun finalizes a run with its aggregate outcome.
	EndRun(runID string, repositories int, complianceRate float64) error

	// ListRuns returns the most recent runs for an organization, newest
	// first. A non-positive limit returns all runs.
	ListRuns(org string, limit int) ([]schema.HistoryRun, error)

	// GetRunRecords returns the scored rows of one run.
	GetRunRecords(runID string) ([]schema.HistoryRecord, error)

	// GetStatus returns status information about the history store.
	GetStatus() (schema.HistoryStatus, error)

	// Close closes the underlying connection.
	Close() error
}

package schema

import "time"

// MetricsCacheEntry is one cached fetch of repository metrics, keyed by the
// repository full name. FetchedAt drives TTL expiry at read time.
type MetricsCacheEntry struct {
	FullName  string             `json:"full_name"`
	Metrics   *RepositoryMetrics `json:"metrics"`
	FetchedAt time.Time          `json:"fetched_at"`
}

// Expired reports whether the entry is older than the given TTL relative
// to now. A non-positive TTL never expires.
func (e MetricsCacheEntry) Expired(ttl time.Duration, now time.Time) bool {
	if ttl <= 0 {
		return false
	}
	return now.Sub(e.FetchedAt) > ttl
}

// HistoryRecord is one scored repository in a persisted analysis run. Runs
// are grouped by RunID so trend queries can compare snapshots over time.
type HistoryRecord struct {
	RunID             string        `json:"run_id"`
	Organization      string        `json:"organization"`
	Repository        string        `json:"repository"`
	Division          Division      `json:"division"`
	Status            ProjectStatus `json:"status"`
	CalculatedScore   float64       `json:"calculated_score"`
	NormalizedScore   float64       `json:"normalized_score"`
	RequiresIsolation bool          `json:"requires_isolation"`
	ViolationCount    int           `json:"violation_count"`
	RecordedAt        time.Time     `json:"recorded_at"`
}

// HistoryRun summarizes one persisted analysis run.
type HistoryRun struct {
	RunID          string    `json:"run_id"`
	Organization   string    `json:"organization"`
	Repositories   int       `json:"repositories"`
	ComplianceRate float64   `json:"compliance_rate"`
	RecordedAt     time.Time `json:"recorded_at"`
}

// CacheStatus describes the state of a metrics cache backend.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	OldestEntryTime time.Time `json:"oldest_entry_time,omitzero"`
	LastEntryTime   time.Time `json:"last_entry_time,omitzero"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// HistoryStatus describes the state of a history backend.
type HistoryStatus struct {
	Backend      string    `json:"backend"`
	Connected    bool      `json:"connected"`
	TotalRuns    int       `json:"total_runs"`
	TotalRecords int       `json:"total_records"`
	LastRunTime  time.Time `json:"last_run_time,omitzero"`
}

// HistoryRecordsFromReport flattens a report into history rows sharing one
// run id and timestamp.
func HistoryRecordsFromReport(runID string, report *OrganizationCostReport) []HistoryRecord {
	recordedAt := time.Now().UTC()
	records := make([]HistoryRecord, 0, len(report.RepositoryScores))
	for _, r := range report.RepositoryScores {
		records = append(records, HistoryRecord{
			RunID:             runID,
			Organization:      report.Organization,
			Repository:        r.Repository,
			Division:          r.Division,
			Status:            r.Status,
			CalculatedScore:   r.CalculatedScore,
			NormalizedScore:   r.NormalizedScore,
			RequiresIsolation: r.RequiresIsolation,
			ViolationCount:    len(r.SinphaseViolations),
			RecordedAt:        recordedAt,
		})
	}
	return records
}

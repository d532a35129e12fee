package iocache

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/obinexus/sinphase/internal/contract"
	"github.com/obinexus/sinphase/schema"
)

// Table names for history tracking.
const (
	historyRunsTable   = "sinphase_runs"
	historyScoresTable = "sinphase_scores"
)

// HistoryStoreImpl implements the HistoryStore interface.
type HistoryStoreImpl struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore creates a new HistoryStore with the specified backend.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	var db *sql.DB
	var err error
	var driverName string

	switch backend {
	case schema.SQLiteBackend:
		driverName = "sqlite"
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetHistoryDBFilePath()
		}
		db, err = sql.Open(driverName, dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		driverName = "mysql"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		driverName = "pgx"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}

	case schema.NoneBackend:
		// Return a no-op store for disabled tracking
		return &HistoryStoreImpl{
			db:      nil,
			backend: backend,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}

	// Ping to verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s history database: %w", backend, err)
	}

	if err := createHistoryTables(db, backend); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &HistoryStoreImpl{
		db:         db,
		backend:    backend,
		driverName: driverName,
	}, nil
}

// createHistoryTables creates the history tracking tables.
func createHistoryTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{historyRunsTable, getCreateRunsQuery(backend)},
		{historyScoresTable, getCreateScoresQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}

	return nil
}

// getCreateRunsQuery returns the CREATE TABLE query for sinphase_runs.
func getCreateRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(historyRunsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id VARCHAR(128) PRIMARY KEY,
				organization VARCHAR(255) NOT NULL,
				started_at BIGINT NOT NULL,
				finished_at BIGINT,
				repositories INT NOT NULL DEFAULT 0,
				compliance_rate DOUBLE NOT NULL DEFAULT 0
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id TEXT PRIMARY KEY,
				organization TEXT NOT NULL,
				started_at BIGINT NOT NULL,
				finished_at BIGINT,
				repositories INT NOT NULL DEFAULT 0,
				compliance_rate DOUBLE PRECISION NOT NULL DEFAULT 0
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id TEXT PRIMARY KEY,
				organization TEXT NOT NULL,
				started_at INTEGER NOT NULL,
				finished_at INTEGER,
				repositories INTEGER NOT NULL DEFAULT 0,
				compliance_rate REAL NOT NULL DEFAULT 0
			);
		`, quotedTableName)
	}
}

// getCreateScoresQuery returns the CREATE TABLE query for sinphase_scores.
func getCreateScoresQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(historyScoresTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id VARCHAR(128) NOT NULL,
				repository VARCHAR(255) NOT NULL,
				division VARCHAR(64) NOT NULL,
				status VARCHAR(32) NOT NULL,
				calculated_score DOUBLE NOT NULL,
				normalized_score DOUBLE NOT NULL,
				requires_isolation BOOLEAN NOT NULL,
				violation_count INT NOT NULL,
				recorded_at BIGINT NOT NULL,
				PRIMARY KEY (run_id, repository)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id TEXT NOT NULL,
				repository TEXT NOT NULL,
				division TEXT NOT NULL,
				status TEXT NOT NULL,
				calculated_score DOUBLE PRECISION NOT NULL,
				normalized_score DOUBLE PRECISION NOT NULL,
				requires_isolation BOOLEAN NOT NULL,
				violation_count INT NOT NULL,
				recorded_at BIGINT NOT NULL,
				PRIMARY KEY (run_id, repository)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id TEXT NOT NULL,
				repository TEXT NOT NULL,
				division TEXT NOT NULL,
				status TEXT NOT NULL,
				calculated_score REAL NOT NULL,
				normalized_score REAL NOT NULL,
				requires_isolation INTEGER NOT NULL,
				violation_count INTEGER NOT NULL,
				recorded_at INTEGER NOT NULL,
				PRIMARY KEY (run_id, repository)
			);
		`, quotedTableName)
	}
}

// getPlaceholders returns n parameter placeholders for the backend.
func (hs *HistoryStoreImpl) getPlaceholders(n int) []string {
	out := make([]string, n)
	for i := range n {
		if hs.backend == schema.PostgreSQLBackend {
			out[i] = fmt.Sprintf("$%d", i+1)
		} else {
			out[i] = "?"
		}
	}
	return out
}

// BeginRun registers a new analysis run.
func (hs *HistoryStoreImpl) BeginRun(runID, org string) error {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil
	}

	p := hs.getPlaceholders(3)
	query := fmt.Sprintf(`INSERT INTO %s (run_id, organization, started_at) VALUES (%s, %s, %s)`,
		quoteTableName(historyRunsTable, hs.backend), p[0], p[1], p[2])
	_, err := hs.db.Exec(query, runID, org, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to begin run %s: %w", runID, err)
	}
	return nil
}

// RecordResults stores the scored rows of a run.
func (hs *HistoryStoreImpl) RecordResults(records []schema.HistoryRecord) error {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil
	}

	tx, err := hs.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	p := hs.getPlaceholders(9)
	query := fmt.Sprintf(`INSERT INTO %s
		(run_id, repository, division, status, calculated_score, normalized_score, requires_isolation, violation_count, recorded_at)
		VALUES (%s, %s, %s, %s, %s, %s, %s, %s, %s)`,
		quoteTableName(historyScoresTable, hs.backend),
		p[0], p[1], p[2], p[3], p[4], p[5], p[6], p[7], p[8])

	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare score insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range records {
		if _, err := stmt.Exec(r.RunID, r.Repository, string(r.Division), string(r.Status),
			r.CalculatedScore, r.NormalizedScore, r.RequiresIsolation, r.ViolationCount,
			r.RecordedAt.Unix()); err != nil {
			return fmt.Errorf("failed to record score for %s: %w", r.Repository, err)
		}
	}

	return tx.Commit()
}

// EndRun finalizes a run with its aggregate outcome.
func (hs *HistoryStoreImpl) EndRun(runID string, repositories int, complianceRate float64) error {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil
	}

	p := hs.getPlaceholders(4)
	query := fmt.Sprintf(`UPDATE %s SET finished_at = %s, repositories = %s, compliance_rate = %s WHERE run_id = %s`,
		quoteTableName(historyRunsTable, hs.backend), p[0], p[1], p[2], p[3])
	_, err := hs.db.Exec(query, time.Now().Unix(), repositories, complianceRate, runID)
	if err != nil {
		return fmt.Errorf("failed to end run %s: %w", runID, err)
	}
	return nil
}

// ListRuns returns the most recent runs for an organization, newest first.
func (hs *HistoryStoreImpl) ListRuns(org string, limit int) ([]schema.HistoryRun, error) {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	p := hs.getPlaceholders(1)
	query := fmt.Sprintf(`SELECT run_id, organization, repositories, compliance_rate, started_at
		FROM %s WHERE organization = %s ORDER BY started_at DESC`,
		quoteTableName(historyRunsTable, hs.backend), p[0])
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := hs.db.Query(query, org)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []schema.HistoryRun
	for rows.Next() {
		var run schema.HistoryRun
		var startedAt int64
		if err := rows.Scan(&run.RunID, &run.Organization, &run.Repositories, &run.ComplianceRate, &startedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		run.RecordedAt = time.Unix(startedAt, 0)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRunRecords returns the scored rows of one run.
func (hs *HistoryStoreImpl) GetRunRecords(runID string) ([]schema.HistoryRecord, error) {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	p := hs.getPlaceholders(1)
	query := fmt.Sprintf(`SELECT run_id, repository, division, status, calculated_score, normalized_score, requires_isolation, violation_count, recorded_at
		FROM %s WHERE run_id = %s ORDER BY normalized_score DESC`,
		quoteTableName(historyScoresTable, hs.backend), p[0])

	rows, err := hs.db.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []schema.HistoryRecord
	for rows.Next() {
		var r schema.HistoryRecord
		var division, status string
		var recordedAt int64
		if err := rows.Scan(&r.RunID, &r.Repository, &division, &status,
			&r.CalculatedScore, &r.NormalizedScore, &r.RequiresIsolation, &r.ViolationCount, &recordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan score row: %w", err)
		}
		r.Division = schema.Division(division)
		r.Status = schema.ProjectStatus(status)
		r.RecordedAt = time.Unix(recordedAt, 0)
		records = append(records, r)
	}
	return records, rows.Err()
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:   string(hs.backend),
		Connected: hs.db != nil,
	}

	if hs.backend == schema.NoneBackend || hs.db == nil {
		return status, nil
	}

	runsQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(historyRunsTable, hs.backend))
	if err := hs.db.QueryRow(runsQuery).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to count runs: %w", err)
	}

	recordsQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(historyScoresTable, hs.backend))
	if err := hs.db.QueryRow(recordsQuery).Scan(&status.TotalRecords); err != nil {
		return status, fmt.Errorf("failed to count records: %w", err)
	}

	if status.TotalRuns > 0 {
		lastQuery := fmt.Sprintf("SELECT MAX(started_at) FROM %s", quoteTableName(historyRunsTable, hs.backend))
		var lastTs int64
		if err := hs.db.QueryRow(lastQuery).Scan(&lastTs); err != nil {
			return status, fmt.Errorf("failed to get last run time: %w", err)
		}
		status.LastRunTime = time.Unix(lastTs, 0)
	}

	return status, nil
}

// Close closes the underlying DB connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// GetAllRuns returns every run in the store, oldest first, for export.
func (hs *HistoryStoreImpl) GetAllRuns() ([]schema.HistoryRun, error) {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, organization, repositories, compliance_rate, started_at
		FROM %s ORDER BY started_at ASC`, quoteTableName(historyRunsTable, hs.backend))
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list all runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []schema.HistoryRun
	for rows.Next() {
		var run schema.HistoryRun
		var startedAt int64
		if err := rows.Scan(&run.RunID, &run.Organization, &run.Repositories, &run.ComplianceRate, &startedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		run.RecordedAt = time.Unix(startedAt, 0)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetAllRecords returns every score row in the store for export.
func (hs *HistoryStoreImpl) GetAllRecords() ([]schema.HistoryRecord, error) {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, repository, division, status, calculated_score, normalized_score, requires_isolation, violation_count, recorded_at
		FROM %s ORDER BY run_id, normalized_score DESC`, quoteTableName(historyScoresTable, hs.backend))
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list all records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []schema.HistoryRecord
	for rows.Next() {
		var r schema.HistoryRecord
		var division, status string
		var recordedAt int64
		if err := rows.Scan(&r.RunID, &r.Repository, &division, &status,
			&r.CalculatedScore, &r.NormalizedScore, &r.RequiresIsolation, &r.ViolationCount, &recordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan score row: %w", err)
		}
		r.Division = schema.Division(division)
		r.Status = schema.ProjectStatus(status)
		r.RecordedAt = time.Unix(recordedAt, 0)
		records = append(records, r)
	}
	return records, rows.Err()
}

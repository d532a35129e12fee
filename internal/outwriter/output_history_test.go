package outwriter

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/obinexus/sinphase/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRuns() []schema.HistoryRun {
	return []schema.HistoryRun{
		{
			RunID:          "obinexus-20260801T120000Z",
			Organization:   "obinexus",
			Repositories:   12,
			ComplianceRate: 0.75,
			RecordedAt:     time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			RunID:          "obinexus-20260701T090000Z",
			Organization:   "obinexus",
			Repositories:   10,
			ComplianceRate: 0.9,
			RecordedAt:     time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC),
		},
	}
}

func sampleHistoryRecords() []schema.HistoryRecord {
	return []schema.HistoryRecord{
		{
			RunID:             "obinexus-20260801T120000Z",
			Organization:      "obinexus",
			Repository:        "libpolycall",
			Division:          schema.ComputingDivision,
			Status:            schema.CoreStatus,
			CalculatedScore:   0.92,
			NormalizedScore:   92.0,
			RequiresIsolation: true,
			ViolationCount:    2,
			RecordedAt:        time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			RunID:           "obinexus-20260801T120000Z",
			Organization:    "obinexus",
			Repository:      "docs",
			Division:        schema.PublishingDivision,
			Status:          schema.LegacyStatus,
			CalculatedScore: 0.21,
			NormalizedScore: 21.0,
			RecordedAt:      time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		},
	}
}

func TestWriteHistoryRunsTable(t *testing.T) {
	cfg := testConfig(schema.TextOut)

	var buf bytes.Buffer
	require.NoError(t, writeHistoryRunsTable(sampleRuns(), cfg, &buf))

	output := buf.String()
	assert.Contains(t, output, "Analysis Runs")
	assert.Contains(t, output, "obinexus-20260801T120000Z")
	assert.Contains(t, output, "75.0%")
	assert.Contains(t, output, "90.0%")
	assert.Contains(t, output, "Showing 2 runs")
}

func TestWriteHistoryRunsTableEmpty(t *testing.T) {
	cfg := testConfig(schema.TextOut)

	var buf bytes.Buffer
	require.NoError(t, writeHistoryRunsTable(nil, cfg, &buf))
	assert.Contains(t, buf.String(), "No analysis runs recorded.")
}

func TestPrintHistoryRunsJSON(t *testing.T) {
	cfg := testConfig(schema.JSONOut)
	cfg.OutputFile = filepath.Join(t.TempDir(), "runs.json")

	require.NoError(t, PrintHistoryRuns(sampleRuns(), cfg))

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)

	var decoded []schema.HistoryRun
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "obinexus-20260801T120000Z", decoded[0].RunID)
}

func TestPrintHistoryRunsCSV(t *testing.T) {
	cfg := testConfig(schema.CSVOut)
	cfg.OutputFile = filepath.Join(t.TempDir(), "runs.csv")

	require.NoError(t, PrintHistoryRuns(sampleRuns(), cfg))

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "run_id,organization,repositories,compliance_rate,recorded_at", lines[0])
	assert.Contains(t, lines[1], "0.75")
	assert.Contains(t, lines[1], "2026-08-01 12:00:00")
}

func TestWriteRunRecordsTable(t *testing.T) {
	cfg := testConfig(schema.TextOut)
	fmtFloat, _ := createFormatters(scorePrecision)

	var buf bytes.Buffer
	err := writeRunRecordsTable("obinexus-20260801T120000Z", sampleHistoryRecords(), cfg, fmtFloat, &buf)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Run obinexus-20260801T120000Z")
	assert.Contains(t, output, "libpolycall")
	assert.Contains(t, output, "92.00")
	assert.Contains(t, output, "Isolate")
	assert.Contains(t, output, "docs")
	assert.Contains(t, output, "Compliant")
	assert.Contains(t, output, "Showing 2 repositories")
}

func TestWriteRunRecordsTableEmpty(t *testing.T) {
	cfg := testConfig(schema.TextOut)
	fmtFloat, _ := createFormatters(scorePrecision)

	var buf bytes.Buffer
	require.NoError(t, writeRunRecordsTable("missing-run", nil, cfg, fmtFloat, &buf))
	assert.Contains(t, buf.String(), "No records found for run.")
}

func TestPrintRunRecordsCSV(t *testing.T) {
	cfg := testConfig(schema.CSVOut)
	cfg.OutputFile = filepath.Join(t.TempDir(), "records.csv")

	require.NoError(t, PrintRunRecords("obinexus-20260801T120000Z", sampleHistoryRecords(), cfg))

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "libpolycall")
	assert.Contains(t, lines[1], "Isolate")
	assert.Contains(t, lines[2], "docs")
	assert.Contains(t, lines[2], "false")
}

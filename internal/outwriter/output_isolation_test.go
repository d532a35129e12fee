package outwriter

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/obinexus/sinphase/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteIsolationTable(t *testing.T) {
	report := sampleReport(t)
	cfg := testConfig(schema.TextOut)
	fmtFloat, _ := createFormatters(scorePrecision)

	var buf bytes.Buffer
	err := writeIsolationTable(report.GetIsolationCandidates(), cfg, fmtFloat, &buf)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Isolation Candidates")
	assert.Contains(t, output, "libpolycall")
	assert.Contains(t, output, "92.00")
	assert.Contains(t, output, "Isolation threshold exceeded")
	assert.Contains(t, output, "1 repositories require isolation")
	assert.NotContains(t, output, "docs")
}

func TestWriteIsolationTableEmpty(t *testing.T) {
	cfg := testConfig(schema.TextOut)
	fmtFloat, _ := createFormatters(scorePrecision)

	var buf bytes.Buffer
	require.NoError(t, writeIsolationTable(nil, cfg, fmtFloat, &buf))
	assert.Contains(t, buf.String(), "No repositories require isolation.")
}

func TestPrintIsolationCandidatesJSON(t *testing.T) {
	report := sampleReport(t)
	cfg := testConfig(schema.JSONOut)
	cfg.OutputFile = filepath.Join(t.TempDir(), "isolation.json")

	require.NoError(t, PrintIsolationCandidates(report, cfg))

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)

	var decoded []*schema.CostCalculationResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "libpolycall", decoded[0].Repository)
	assert.True(t, decoded[0].RequiresIsolation)
}

// TestPrintIsolationCandidatesRanked verifies the display ranks candidates
// by score even when the report lists a lower-scored repository first.
func TestPrintIsolationCandidatesRanked(t *testing.T) {
	results := make([]*schema.CostCalculationResult, 0, 2)
	for _, s := range []struct {
		repo  string
		score float64
	}{
		{"bastion", 0.85},
		{"citadel", 0.95},
	} {
		r := schema.NewCostCalculationResult(s.repo, schema.ComputingDivision, schema.ActiveStatus)
		require.NoError(t, r.SetCalculationResult(s.score, nil, schema.DefaultCostFactors()))
		results = append(results, r)
	}
	report := schema.NewOrganizationCostReport("obinexus", 2, results)

	cfg := testConfig(schema.CSVOut)
	cfg.OutputFile = filepath.Join(t.TempDir(), "isolation.csv")
	require.NoError(t, PrintIsolationCandidates(report, cfg))

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "citadel")
	assert.Contains(t, lines[2], "bastion")
}

func TestPrintIsolationCandidatesCSV(t *testing.T) {
	report := sampleReport(t)
	cfg := testConfig(schema.CSVOut)
	cfg.OutputFile = filepath.Join(t.TempDir(), "isolation.csv")

	require.NoError(t, PrintIsolationCandidates(report, cfg))

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "rank,repository,division,normalized_score,violations", lines[0])
	assert.Contains(t, lines[1], "libpolycall")
}

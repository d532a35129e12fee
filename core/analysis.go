package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/obinexus/sinphase/internal/contract"
	"github.com/obinexus/sinphase/schema"
)

// RunOrganizationAnalysis executes the full analysis pipeline for an
// organization: repository discovery, concurrent metrics collection and
// scoring, report aggregation and history persistence.
func RunOrganizationAnalysis(ctx context.Context, cfg *contract.Config, client contract.MetricsClient, mgr contract.StoreManager) (*schema.OrganizationCostReport, error) {
	if !shouldSuppressHeader(ctx) {
		printAnalysisHeader(cfg)
	}

	// --- 1. Repository Discovery ---
	repos, err := client.ListRepositories(ctx, cfg.Organization)
	if err != nil {
		return nil, fmt.Errorf("repository discovery failed for %s: %w", cfg.Organization, err)
	}
	if len(repos) == 0 {
		return nil, errors.New("no repositories found")
	}
	if len(repos) > cfg.ResultLimit {
		repos = repos[:cfg.ResultLimit]
	}

	// --- 2. Concurrent Scoring ---
	results := scoreOrganization(ctx, cfg, client, mgr, repos)

	// --- 3. Report Aggregation ---
	report := schema.NewOrganizationCostReport(cfg.Organization, len(repos), results)

	// --- 4. History Persistence ---
	if history := mgr.GetHistoryStore(); history != nil {
		if err := persistRun(history, report); err != nil {
			contract.LogWarn("history persistence failed", err)
		}
	}

	return report, nil
}

// scoreOrganization processes all repositories in parallel using a worker
// pool. It spawns cfg.Workers goroutines to score repositories concurrently
// and aggregates their results, sorted by repository name for deterministic
// output.
func scoreOrganization(ctx context.Context, cfg *contract.Config, client contract.MetricsClient, mgr contract.StoreManager, repos []string) []*schema.CostCalculationResult {
	repoCh := make(chan string, len(repos))
	resultCh := make(chan *schema.CostCalculationResult, len(repos))
	var wg sync.WaitGroup

	// Start worker pool
	for range cfg.Workers {
		wg.Go(func() {
			for repo := range repoCh {
				resultCh <- scoreRepository(ctx, cfg, client, mgr, repo)
			}
		})
	}

	// Send repositories to worker channel
	for _, repo := range repos {
		repoCh <- repo
	}
	close(repoCh)

	// Wait for all workers to finish processing
	wg.Wait()
	close(resultCh)

	results := make([]*schema.CostCalculationResult, 0, len(repos))
	for r := range resultCh {
		if r != nil { // skipped repositories yield nil
			results = append(results, r)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Repository < results[j].Repository
	})
	return results
}

// persistRun stores one analysis run in the history store.
func persistRun(history contract.HistoryStore, report *schema.OrganizationCostReport) error {
	runID := newRunID(report.Organization)
	if err := history.BeginRun(runID, report.Organization); err != nil {
		return err
	}
	if err := history.RecordResults(schema.HistoryRecordsFromReport(runID, report)); err != nil {
		return err
	}
	return history.EndRun(runID, report.AnalyzedRepositories, report.SinphaseComplianceRate)
}

// newRunID builds a sortable run identifier from the organization and the
// current time.
func newRunID(org string) string {
	return fmt.Sprintf("%s-%s", org, time.Now().UTC().Format("20060102T150405Z"))
}

// printAnalysisHeader announces the run parameters on stdout.
func printAnalysisHeader(cfg *contract.Config) {
	if cfg.UseEmojis {
		fmt.Printf("🔍 Analyzing organization %s with %d workers...\n", cfg.Organization, cfg.Workers)
		return
	}
	fmt.Printf("Analyzing organization %s with %d workers...\n", cfg.Organization, cfg.Workers)
}

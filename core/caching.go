package core

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/obinexus/sinphase/internal/contract"
	"github.com/obinexus/sinphase/schema"
)

// currentCacheVersion defines the version of the cache payload format.
const currentCacheVersion = 1

// cachedRepositoryMetrics fetches repository metrics through the cache when
// a metrics store is configured, falling back to a direct fetch otherwise.
func cachedRepositoryMetrics(ctx context.Context, cfg *contract.Config, client contract.MetricsClient, mgr contract.StoreManager, repo string) (*schema.RepositoryMetrics, error) {
	store := mgr.GetMetricsStore()
	if store == nil {
		return client.GetRepositoryMetrics(ctx, cfg.Organization, repo)
	}

	key := generateCacheKey(cfg.Organization, repo)

	if metrics := checkCacheHit(store, key, cfg.CacheTTL); metrics != nil {
		return metrics, nil
	}

	return fetchAndStore(ctx, cfg, client, store, key, repo)
}

// checkCacheHit attempts to retrieve and validate a cached fetch.
func checkCacheHit(store contract.MetricsStore, key string, ttl time.Duration) *schema.RepositoryMetrics {
	data, version, ts, err := store.Get(key)
	if err != nil {
		return nil // Cache miss
	}

	if version == currentCacheVersion {
		entryTimestamp := time.Unix(ts, 0)
		if ttl <= 0 || time.Since(entryTimestamp) <= ttl {
			var metrics schema.RepositoryMetrics
			if err := json.Unmarshal(data, &metrics); err == nil {
				return &metrics // Cache hit
			}
		}
	}

	return nil // Cache miss (stale or version mismatch)
}

// fetchAndStore fetches fresh metrics and stores them in cache.
func fetchAndStore(ctx context.Context, cfg *contract.Config, client contract.MetricsClient, store contract.MetricsStore, key, repo string) (*schema.RepositoryMetrics, error) {
	metrics, err := client.GetRepositoryMetrics(ctx, cfg.Organization, repo)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(metrics); err == nil {
		_ = store.Set(key, data, currentCacheVersion, time.Now().Unix())
	}

	return metrics, nil
}

// generateCacheKey creates a unique key for one repository's metrics.
func generateCacheKey(org, repo string) string {
	key := fmt.Sprintf("%s/%s:v%d", org, repo, currentCacheVersion)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}

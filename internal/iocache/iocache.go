// Package iocache is for caching provider calls and persisting analysis
// runs.
package iocache

import (
	"sync"

	"github.com/obinexus/sinphase/internal/contract"
)

// StoreManagerImpl manages the metrics cache and history stores.
type StoreManagerImpl struct {
	sync.RWMutex // Protects the store pointers during initialization
	metrics      contract.MetricsStore
	history      contract.HistoryStore
}

var _ contract.StoreManager = &StoreManagerImpl{} // Compile-time check

// GetMetricsStore returns the metrics MetricsStore.
func (mgr *StoreManagerImpl) GetMetricsStore() contract.MetricsStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.metrics
}

// GetHistoryStore returns the history HistoryStore.
func (mgr *StoreManagerImpl) GetHistoryStore() contract.HistoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.history
}

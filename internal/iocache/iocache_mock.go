package iocache

import (
	"github.com/obinexus/sinphase/internal/contract"
	"github.com/obinexus/sinphase/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetMetricsStore implements the StoreManager interface.
func (m *MockStoreManager) GetMetricsStore() contract.MetricsStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.MetricsStore)
	return store
}

// GetHistoryStore implements the StoreManager interface.
func (m *MockStoreManager) GetHistoryStore() contract.HistoryStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.HistoryStore)
	return store
}

// MockMetricsStore is a mock implementation of MetricsStore for testing.
type MockMetricsStore struct {
	mock.Mock
}

var _ contract.MetricsStore = &MockMetricsStore{} // Compile-time check

// Get implements the MetricsStore interface.
func (m *MockMetricsStore) Get(key string) ([]byte, int, int64, error) {
	args := m.Called(key)
	return args.Get(0).([]byte), args.Int(1), args.Get(2).(int64), args.Error(3)
}

// Set implements the MetricsStore interface.
func (m *MockMetricsStore) Set(key string, value []byte, version int, timestamp int64) error {
	args := m.Called(key, value, version, timestamp)
	return args.Error(0)
}

// GetStatus implements the MetricsStore interface.
func (m *MockMetricsStore) GetStatus() (schema.CacheStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.CacheStatus), args.Error(1)
}

// Clear implements the MetricsStore interface.
func (m *MockMetricsStore) Clear() error {
	args := m.Called()
	return args.Error(0)
}

// Close implements the MetricsStore interface.
func (m *MockMetricsStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockHistoryStore is a mock implementation of HistoryStore for testing.
type MockHistoryStore struct {
	mock.Mock
}

var _ contract.HistoryStore = &MockHistoryStore{} // Compile-time check

// BeginRun implements the HistoryStore interface.
func (m *MockHistoryStore) BeginRun(runID, org string) error {
	args := m.Called(runID, org)
	return args.Error(0)
}

// RecordResults implements the HistoryStore interface.
func (m *MockHistoryStore) RecordResults(records []schema.HistoryRecord) error {
	args := m.Called(records)
	return args.Error(0)
}

// EndRun implements the HistoryStore interface.
func (m *MockHistoryStore) EndRun(runID string, repositories int, complianceRate float64) error {
	args := m.Called(runID, repositories, complianceRate)
	return args.Error(0)
}

// ListRuns implements the HistoryStore interface.
func (m *MockHistoryStore) ListRuns(org string, limit int) ([]schema.HistoryRun, error) {
	args := m.Called(org, limit)
	runs, _ := args.Get(0).([]schema.HistoryRun)
	return runs, args.Error(1)
}

// GetRunRecords implements the HistoryStore interface.
func (m *MockHistoryStore) GetRunRecords(runID string) ([]schema.HistoryRecord, error) {
	args := m.Called(runID)
	records, _ := args.Get(0).([]schema.HistoryRecord)
	return records, args.Error(1)
}

// GetStatus implements the HistoryStore interface.
func (m *MockHistoryStore) GetStatus() (schema.HistoryStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.HistoryStatus), args.Error(1)
}

// Close implements the HistoryStore interface.
func (m *MockHistoryStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

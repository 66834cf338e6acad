package storage

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// MockRepository is an in-memory implementation of Repository for testing.
// It stores all data in maps, making tests fast and isolated.
type MockRepository struct {
	mu       sync.Mutex
	boundary map[string]BoundaryAccount
	order    []string
	runs     map[string]*AnalysisRun

	// Hooks for test assertions
	StartRunCalled    bool
	CompleteRunCalled bool
	LastStartedRun    *AnalysisRun

	// Error injection for testing error paths
	AddBoundaryErr error
	StartRunErr    error
	CompleteRunErr error
	ListErr        error
}

// NewMockRepository creates a new mock repository for testing
func NewMockRepository() *MockRepository {
	return &MockRepository{
		boundary: make(map[string]BoundaryAccount),
		runs:     make(map[string]*AnalysisRun),
	}
}

// Compile-time check that MockRepository implements Repository
var _ Repository = (*MockRepository)(nil)

// Close does nothing for mock
func (m *MockRepository) Close() error { return nil }

// AddBoundaryAccount stores a boundary member in memory.
func (m *MockRepository) AddBoundaryAccount(accountID, alias string) error {
	if m.AddBoundaryErr != nil {
		return m.AddBoundaryErr
	}
	if accountID == "" {
		return fmt.Errorf("account id must not be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.boundary[accountID]; !exists {
		m.order = append(m.order, accountID)
	}
	m.boundary[accountID] = BoundaryAccount{
		AccountID: accountID,
		Alias:     alias,
		AddedAt:   time.Now().UTC(),
	}
	return nil
}

// RemoveBoundaryAccount deletes a boundary member.
func (m *MockRepository) RemoveBoundaryAccount(accountID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.boundary, accountID)
	for i, id := range m.order {
		if id == accountID {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// ListBoundaryAccounts returns members in insertion order.
func (m *MockRepository) ListBoundaryAccounts() ([]BoundaryAccount, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	accounts := make([]BoundaryAccount, 0, len(m.order))
	for _, id := range m.order {
		accounts = append(accounts, m.boundary[id])
	}
	return accounts, nil
}

// StartAnalysisRun records a run start.
func (m *MockRepository) StartAnalysisRun(run *AnalysisRun) error {
	if m.StartRunErr != nil {
		return m.StartRunErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StartRunCalled = true
	stored := *run
	if stored.StartedAt.IsZero() {
		stored.StartedAt = time.Now().UTC()
	}
	if stored.Status == "" {
		stored.Status = RunStatusRunning
	}
	m.runs[stored.ID] = &stored
	m.LastStartedRun = &stored
	return nil
}

// CompleteAnalysisRun records a run outcome.
func (m *MockRepository) CompleteAnalysisRun(runID string, outcome RunOutcome) error {
	if m.CompleteRunErr != nil {
		return m.CompleteRunErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CompleteRunCalled = true
	run, ok := m.runs[runID]
	if !ok {
		return fmt.Errorf("analysis run %s not found", runID)
	}
	now := time.Now().UTC()
	run.CompletedAt = &now
	run.MatchedCount = outcome.MatchedCount
	run.UncertainCount = outcome.UncertainCount
	run.CollisionCount = outcome.CollisionCount
	run.ExcludedMinor = outcome.ExcludedMinor
	run.Status = outcome.Status
	if run.Status == "" {
		run.Status = RunStatusCompleted
	}
	return nil
}

// GetAnalysisRun retrieves a run by id.
func (m *MockRepository) GetAnalysisRun(runID string) (*AnalysisRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[runID]
	if !ok {
		return nil, fmt.Errorf("analysis run %s not found", runID)
	}
	copied := *run
	return &copied, nil
}

// ListAnalysisRuns returns runs newest first.
func (m *MockRepository) ListAnalysisRuns(limit int) ([]AnalysisRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	runs := make([]AnalysisRun, 0, len(m.runs))
	for _, run := range m.runs {
		runs = append(runs, *run)
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// GetStats aggregates counters across recorded runs.
func (m *MockRepository) GetStats() (*Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &Stats{}
	for _, run := range m.runs {
		stats.TotalRuns++
		stats.TotalTransactions += run.TransactionCount
		stats.TotalMatched += run.MatchedCount
		stats.TotalUncertain += run.UncertainCount
		stats.TotalCollisions += run.CollisionCount
		stats.TotalExcluded += run.ExcludedMinor
	}
	return stats, nil
}

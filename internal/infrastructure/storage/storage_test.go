package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := NewStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestNewStorage_RunsMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := NewStorage(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Reopening reuses the schema without re-applying migrations.
	s, err = NewStorage(path)
	require.NoError(t, err)
	defer s.Close()

	accounts, err := s.ListBoundaryAccounts()
	require.NoError(t, err)
	assert.Empty(t, accounts)
}

func TestBoundaryAccounts_AddListRemove(t *testing.T) {
	s := newTestStorage(t)

	require.NoError(t, s.AddBoundaryAccount("acc-a", "Everyday"))
	require.NoError(t, s.AddBoundaryAccount("acc-b", ""))

	accounts, err := s.ListBoundaryAccounts()
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "acc-a", accounts[0].AccountID)
	assert.Equal(t, "Everyday", accounts[0].Alias)
	assert.False(t, accounts[0].AddedAt.IsZero())

	require.NoError(t, s.RemoveBoundaryAccount("acc-a"))
	accounts, err = s.ListBoundaryAccounts()
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "acc-b", accounts[0].AccountID)
}

func TestAddBoundaryAccount_UpsertsAlias(t *testing.T) {
	s := newTestStorage(t)

	require.NoError(t, s.AddBoundaryAccount("acc-a", "Old Name"))
	require.NoError(t, s.AddBoundaryAccount("acc-a", "New Name"))

	accounts, err := s.ListBoundaryAccounts()
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "New Name", accounts[0].Alias)
}

func TestAddBoundaryAccount_RejectsEmptyID(t *testing.T) {
	s := newTestStorage(t)

	err := s.AddBoundaryAccount("", "alias")

	assert.Error(t, err)
}

func TestRemoveBoundaryAccount_MissingIsNoop(t *testing.T) {
	s := newTestStorage(t)

	assert.NoError(t, s.RemoveBoundaryAccount("never-added"))
}

func TestAnalysisRun_Lifecycle(t *testing.T) {
	s := newTestStorage(t)

	require.NoError(t, s.StartAnalysisRun(&AnalysisRun{
		ID:               "run-1",
		TransactionCount: 42,
	}))

	run, err := s.GetAnalysisRun("run-1")
	require.NoError(t, err)
	assert.Equal(t, RunStatusRunning, run.Status)
	assert.Equal(t, 42, run.TransactionCount)
	assert.Nil(t, run.CompletedAt)

	require.NoError(t, s.CompleteAnalysisRun("run-1", RunOutcome{
		MatchedCount:   5,
		UncertainCount: 2,
		CollisionCount: 1,
		ExcludedMinor:  12345,
		Status:         RunStatusCompleted,
	}))

	run, err = s.GetAnalysisRun("run-1")
	require.NoError(t, err)
	assert.Equal(t, RunStatusCompleted, run.Status)
	assert.Equal(t, 5, run.MatchedCount)
	assert.Equal(t, 2, run.UncertainCount)
	assert.Equal(t, 1, run.CollisionCount)
	assert.Equal(t, int64(12345), run.ExcludedMinor)
	assert.NotNil(t, run.CompletedAt)
}

func TestCompleteAnalysisRun_UnknownRunFails(t *testing.T) {
	s := newTestStorage(t)

	err := s.CompleteAnalysisRun("ghost", RunOutcome{Status: RunStatusCompleted})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestGetAnalysisRun_UnknownRunFails(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.GetAnalysisRun("ghost")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestListAnalysisRuns_NewestFirstWithLimit(t *testing.T) {
	s := newTestStorage(t)

	base := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"run-1", "run-2", "run-3"} {
		require.NoError(t, s.StartAnalysisRun(&AnalysisRun{
			ID:        id,
			StartedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	runs, err := s.ListAnalysisRuns(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-3", runs[0].ID)
	assert.Equal(t, "run-2", runs[1].ID)
}

func TestGetStats_AggregatesAcrossRuns(t *testing.T) {
	s := newTestStorage(t)

	require.NoError(t, s.StartAnalysisRun(&AnalysisRun{ID: "run-1", TransactionCount: 10}))
	require.NoError(t, s.CompleteAnalysisRun("run-1", RunOutcome{
		MatchedCount: 3, UncertainCount: 1, CollisionCount: 1,
		ExcludedMinor: 5000, Status: RunStatusCompleted,
	}))
	require.NoError(t, s.StartAnalysisRun(&AnalysisRun{ID: "run-2", TransactionCount: 20}))
	require.NoError(t, s.CompleteAnalysisRun("run-2", RunOutcome{
		MatchedCount: 7, ExcludedMinor: 2500, Status: RunStatusCompleted,
	}))

	stats, err := s.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalRuns)
	assert.Equal(t, 30, stats.TotalTransactions)
	assert.Equal(t, 10, stats.TotalMatched)
	assert.Equal(t, 1, stats.TotalUncertain)
	assert.Equal(t, 2, stats.TotalCollisions)
	assert.Equal(t, int64(7500), stats.TotalExcluded)
}

func TestGetStats_EmptyDatabase(t *testing.T) {
	s := newTestStorage(t)

	stats, err := s.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalRuns)
	assert.Equal(t, int64(0), stats.TotalExcluded)
}

package storage

// Repository defines the complete storage interface.
// This interface allows swapping implementations (SQLite, PostgreSQL, etc.)
// and makes testing with mocks straightforward.
type Repository interface {
	BoundaryRepository
	RunRepository
	Close() error
}

// BoundaryRepository manages the persisted boundary account set.
type BoundaryRepository interface {
	// AddBoundaryAccount inserts or updates a boundary member.
	AddBoundaryAccount(accountID, alias string) error

	// RemoveBoundaryAccount deletes a boundary member. Removing an absent
	// account is not an error.
	RemoveBoundaryAccount(accountID string) error

	// ListBoundaryAccounts returns all members in insertion order.
	ListBoundaryAccounts() ([]BoundaryAccount, error)
}

// RunRepository tracks analysis run history.
type RunRepository interface {
	// StartAnalysisRun records the start of an analysis run.
	StartAnalysisRun(run *AnalysisRun) error

	// CompleteAnalysisRun records the outcome of a run.
	CompleteAnalysisRun(runID string, outcome RunOutcome) error

	// GetAnalysisRun retrieves a run by id.
	GetAnalysisRun(runID string) (*AnalysisRun, error)

	// ListAnalysisRuns returns the most recent runs, newest first.
	ListAnalysisRuns(limit int) ([]AnalysisRun, error)

	// GetStats returns aggregate statistics across all runs.
	GetStats() (*Stats, error)
}

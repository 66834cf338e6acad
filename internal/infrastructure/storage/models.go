package storage

import "time"

// BoundaryAccount is one persisted member of the boundary set.
type BoundaryAccount struct {
	AccountID string    `json:"account_id"`
	Alias     string    `json:"alias,omitempty"`
	AddedAt   time.Time `json:"added_at"`
}

// RunStatus is the lifecycle state of an analysis run.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// AnalysisRun is the persisted record of one engine invocation.
type AnalysisRun struct {
	ID               string     `json:"id"`
	StartedAt        time.Time  `json:"started_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	TransactionCount int        `json:"transaction_count"`
	MatchedCount     int        `json:"matched_count"`
	UncertainCount   int        `json:"uncertain_count"`
	CollisionCount   int        `json:"collision_count"`
	ExcludedMinor    int64      `json:"excluded_minor"`
	Status           string     `json:"status"`
}

// RunOutcome carries the final counters written when a run completes.
type RunOutcome struct {
	MatchedCount   int
	UncertainCount int
	CollisionCount int
	ExcludedMinor  int64
	Status         string
}

// Stats are aggregate counters across all recorded runs.
type Stats struct {
	TotalRuns         int   `json:"total_runs"`
	TotalTransactions int   `json:"total_transactions"`
	TotalMatched      int   `json:"total_matched"`
	TotalUncertain    int   `json:"total_uncertain"`
	TotalCollisions   int   `json:"total_collisions"`
	TotalExcluded     int64 `json:"total_excluded_minor"`
}

package dto

import (
	"github.com/ledgerlens/statement-backend/internal/application/analysis"
	"github.com/ledgerlens/statement-backend/internal/domain/matcher"
	"github.com/ledgerlens/statement-backend/internal/infrastructure/storage"
)

// AnalyzeResponse is the full annotated report for one analysis scope.
type AnalyzeResponse struct {
	RunID      string                    `json:"run_id"`
	Matches    []analysis.Annotation     `json:"matches"`
	Collisions []matcher.CollisionBucket `json:"collisions"`
	Summary    analysis.Summary          `json:"summary"`
}

// FromReport converts an analysis report into the API response shape.
// The per-transaction annotation index is host-side plumbing and is not
// serialized; callers re-key matches by leg transaction ids.
func FromReport(r *analysis.Report) AnalyzeResponse {
	matches := r.Matches
	if matches == nil {
		matches = []analysis.Annotation{}
	}
	collisions := r.Collisions
	if collisions == nil {
		collisions = []matcher.CollisionBucket{}
	}
	return AnalyzeResponse{
		RunID:      r.RunID,
		Matches:    matches,
		Collisions: collisions,
		Summary:    r.Summary,
	}
}

// BoundaryListResponse lists the stored boundary set.
type BoundaryListResponse struct {
	Accounts []storage.BoundaryAccount `json:"accounts"`
	Count    int                       `json:"count"`
}

// RunListResponse lists recent analysis runs.
type RunListResponse struct {
	Runs  []storage.AnalysisRun `json:"runs"`
	Count int                   `json:"count"`
}

// StatsResponse carries aggregate counters across runs.
type StatsResponse struct {
	TotalRuns         int   `json:"total_runs"`
	TotalTransactions int   `json:"total_transactions"`
	TotalMatched      int   `json:"total_matched"`
	TotalUncertain    int   `json:"total_uncertain"`
	TotalCollisions   int   `json:"total_collisions"`
	TotalExcluded     int64 `json:"total_excluded_minor"`
}

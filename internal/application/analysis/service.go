// Package analysis orchestrates the transfer-matching pipeline: evidence
// extraction, candidate generation, scoring, assignment and boundary
// classification over one analysis scope. The engine itself is pure; this
// service adds run identity, logging and run-history persistence around it.
package analysis

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ledgerlens/statement-backend/internal/domain/boundary"
	"github.com/ledgerlens/statement-backend/internal/domain/evidence"
	"github.com/ledgerlens/statement-backend/internal/domain/matcher"
	"github.com/ledgerlens/statement-backend/internal/infrastructure/storage"
)

// Service runs analyses. Concurrent Analyze calls are safe: each invocation
// only reads its own input and allocates its own output.
type Service struct {
	defaults matcher.Config
	repo     storage.Repository
	logger   *slog.Logger
}

// NewService creates an analysis service. repo may be nil for one-shot use
// (CLI runs without a database); run history is then not recorded.
func NewService(defaults matcher.Config, repo storage.Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		defaults: defaults.Clamped(),
		repo:     repo,
		logger:   logger,
	}
}

// Analyze runs the full pipeline over one scope and returns the annotated
// report. The input transactions are never mutated.
func (s *Service) Analyze(ctx context.Context, req Request) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	cfg := s.defaults
	if req.Config != nil {
		cfg = req.Config.Clamped()
	}

	boundarySet, aliases, err := s.resolveBoundary(req)
	if err != nil {
		return nil, fmt.Errorf("resolving boundary set: %w", err)
	}

	if s.repo != nil {
		err := s.repo.StartAnalysisRun(&storage.AnalysisRun{
			ID:               runID,
			TransactionCount: len(req.Transactions),
		})
		if err != nil {
			return nil, fmt.Errorf("recording analysis run: %w", err)
		}
	}

	s.logger.Info("starting analysis",
		"run_id", runID,
		"transactions", len(req.Transactions),
		"boundary_accounts", boundarySet.Len(),
		"window_days", cfg.WindowDays)

	dir := evidence.NewDirectory(req.Accounts)
	bundles := make(map[string]evidence.Bundle, len(req.Transactions))
	for _, tx := range req.Transactions {
		bundles[tx.ID] = evidence.Extract(tx, dir)
	}

	pairs := matcher.GenerateCandidates(req.Transactions, bundles, cfg)
	resolved := matcher.Resolve(pairs, cfg)

	classifier := boundary.NewClassifier(boundarySet, aliases)

	report := &Report{
		RunID:       runID,
		Collisions:  resolved.Collisions,
		Annotations: make(map[string]*Annotation),
		Summary: Summary{
			TransactionCount: len(req.Transactions),
			CandidateCount:   len(pairs),
			CollisionCount:   len(resolved.Collisions),
		},
	}

	for _, m := range resolved.Matches {
		outcome := classifier.Classify(m)
		ann := &Annotation{Match: m, Outcome: outcome}
		report.Matches = append(report.Matches, *ann)
		report.Annotations[m.Out.TransactionID] = ann
		report.Annotations[m.In.TransactionID] = ann

		switch m.State {
		case matcher.StateMatched:
			report.Summary.MatchedCount++
		case matcher.StateUncertain:
			report.Summary.UncertainCount++
		}
		switch outcome.Decision {
		case boundary.DecisionInternalOffset:
			report.Summary.InternalOffsetCount++
			report.Summary.ExcludedMinor += m.AmountMinor
		case boundary.DecisionBoundaryFlow:
			report.Summary.BoundaryFlowCount++
		}
	}

	if s.repo != nil {
		err := s.repo.CompleteAnalysisRun(runID, storage.RunOutcome{
			MatchedCount:   report.Summary.MatchedCount,
			UncertainCount: report.Summary.UncertainCount,
			CollisionCount: report.Summary.CollisionCount,
			ExcludedMinor:  report.Summary.ExcludedMinor,
			Status:         storage.RunStatusCompleted,
		})
		if err != nil {
			return nil, fmt.Errorf("completing analysis run: %w", err)
		}
	}

	s.logger.Info("analysis complete",
		"run_id", runID,
		"matched", report.Summary.MatchedCount,
		"uncertain", report.Summary.UncertainCount,
		"collisions", report.Summary.CollisionCount,
		"excluded_minor", report.Summary.ExcludedMinor)

	return report, nil
}

// resolveBoundary picks the boundary set for this request: an inline set
// wins over the stored one. Aliases from storage merge under inline aliases.
func (s *Service) resolveBoundary(req Request) (boundary.Set, map[string]string, error) {
	aliases := make(map[string]string)

	if req.BoundaryAccounts != nil {
		for k, v := range req.Aliases {
			aliases[k] = v
		}
		return boundary.NewSet(req.BoundaryAccounts...), aliases, nil
	}

	if s.repo == nil {
		return boundary.NewSet(), req.Aliases, nil
	}

	stored, err := s.repo.ListBoundaryAccounts()
	if err != nil {
		return boundary.Set{}, nil, err
	}
	ids := make([]string, 0, len(stored))
	for _, a := range stored {
		ids = append(ids, a.AccountID)
		if a.Alias != "" {
			aliases[a.AccountID] = a.Alias
		}
	}
	for k, v := range req.Aliases {
		aliases[k] = v
	}
	return boundary.NewSet(ids...), aliases, nil
}

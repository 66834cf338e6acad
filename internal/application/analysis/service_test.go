package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerlens/statement-backend/internal/domain/boundary"
	"github.com/ledgerlens/statement-backend/internal/domain/ledger"
	"github.com/ledgerlens/statement-backend/internal/domain/matcher"
	"github.com/ledgerlens/statement-backend/internal/infrastructure/storage"
)

func makeTx(id, accountID string, amountMinor int64, day int, description string) *ledger.Transaction {
	return &ledger.Transaction{
		ID:          id,
		AccountID:   accountID,
		BankID:      "bank-1",
		FileID:      "file-1",
		Date:        ledger.NewDate(2024, time.March, day),
		AmountMinor: amountMinor,
		Description: description,
	}
}

// -$50.00 leaving account A and +$50.00 landing in account B a day later,
// both descriptions carrying transfer phrasing.
func transferPair() []*ledger.Transaction {
	return []*ledger.Transaction{
		makeTx("t1", "acc-a", -5000, 1, "transfer to savings"),
		makeTx("t2", "acc-b", 5000, 2, "transfer from everyday"),
	}
}

func TestAnalyze_InternalOffsetWhenBothAccountsInsideBoundary(t *testing.T) {
	svc := NewService(matcher.DefaultConfig(), nil, nil)

	report, err := svc.Analyze(context.Background(), Request{
		Transactions:     transferPair(),
		BoundaryAccounts: []string{"acc-a", "acc-b"},
	})

	require.NoError(t, err)
	require.Len(t, report.Matches, 1)

	ann := report.Matches[0]
	assert.Equal(t, matcher.StateMatched, ann.Match.State)
	assert.Equal(t, boundary.DecisionInternalOffset, ann.Outcome.Decision)
	assert.Equal(t, boundary.KPIExcluded, ann.Outcome.KPIEffect)

	assert.Equal(t, 1, report.Summary.MatchedCount)
	assert.Equal(t, 1, report.Summary.InternalOffsetCount)
	// Excluded once per pair, not once per leg.
	assert.Equal(t, int64(5000), report.Summary.ExcludedMinor)
}

func TestAnalyze_BoundaryFlowWhenOneAccountOutside(t *testing.T) {
	svc := NewService(matcher.DefaultConfig(), nil, nil)

	report, err := svc.Analyze(context.Background(), Request{
		Transactions:     transferPair(),
		BoundaryAccounts: []string{"acc-a"},
	})

	require.NoError(t, err)
	require.Len(t, report.Matches, 1)
	assert.Equal(t, boundary.DecisionBoundaryFlow, report.Matches[0].Outcome.Decision)
	assert.Equal(t, boundary.KPIIncluded, report.Matches[0].Outcome.KPIEffect)
	assert.Equal(t, int64(0), report.Summary.ExcludedMinor)
	assert.Equal(t, 1, report.Summary.BoundaryFlowCount)
}

func TestAnalyze_EmptyBoundarySetNeverExcludes(t *testing.T) {
	svc := NewService(matcher.DefaultConfig(), nil, nil)

	report, err := svc.Analyze(context.Background(), Request{
		Transactions:     transferPair(),
		BoundaryAccounts: []string{},
	})

	require.NoError(t, err)
	require.Len(t, report.Matches, 1)
	assert.Equal(t, boundary.DecisionBoundaryFlow, report.Matches[0].Outcome.Decision)
	assert.Equal(t, int64(0), report.Summary.ExcludedMinor)
}

func TestAnalyze_AnnotationsKeyedByBothLegs(t *testing.T) {
	svc := NewService(matcher.DefaultConfig(), nil, nil)

	report, err := svc.Analyze(context.Background(), Request{
		Transactions:     transferPair(),
		BoundaryAccounts: []string{"acc-a", "acc-b"},
	})

	require.NoError(t, err)
	outAnn, ok := report.AnnotationFor("t1")
	require.True(t, ok)
	inAnn, ok := report.AnnotationFor("t2")
	require.True(t, ok)
	assert.Same(t, outAnn, inAnn)

	_, ok = report.AnnotationFor("t-unknown")
	assert.False(t, ok)
}

func TestAnalyze_UsesStoredBoundaryWhenRequestOmitsIt(t *testing.T) {
	repo := storage.NewMockRepository()
	require.NoError(t, repo.AddBoundaryAccount("acc-a", "Everyday"))
	require.NoError(t, repo.AddBoundaryAccount("acc-b", "Savings"))
	svc := NewService(matcher.DefaultConfig(), repo, nil)

	report, err := svc.Analyze(context.Background(), Request{
		Transactions: transferPair(),
	})

	require.NoError(t, err)
	require.Len(t, report.Matches, 1)
	assert.Equal(t, boundary.DecisionInternalOffset, report.Matches[0].Outcome.Decision)
	assert.Contains(t, report.Matches[0].Outcome.WhySentence, "Everyday")
	assert.Contains(t, report.Matches[0].Outcome.WhySentence, "Savings")
}

func TestAnalyze_InlineBoundaryOverridesStored(t *testing.T) {
	repo := storage.NewMockRepository()
	require.NoError(t, repo.AddBoundaryAccount("acc-a", ""))
	require.NoError(t, repo.AddBoundaryAccount("acc-b", ""))
	svc := NewService(matcher.DefaultConfig(), repo, nil)

	// Inline empty set wins over the stored members.
	report, err := svc.Analyze(context.Background(), Request{
		Transactions:     transferPair(),
		BoundaryAccounts: []string{},
	})

	require.NoError(t, err)
	require.Len(t, report.Matches, 1)
	assert.Equal(t, boundary.DecisionBoundaryFlow, report.Matches[0].Outcome.Decision)
}

func TestAnalyze_RecordsRunLifecycle(t *testing.T) {
	repo := storage.NewMockRepository()
	svc := NewService(matcher.DefaultConfig(), repo, nil)

	report, err := svc.Analyze(context.Background(), Request{
		Transactions:     transferPair(),
		BoundaryAccounts: []string{"acc-a", "acc-b"},
	})

	require.NoError(t, err)
	assert.True(t, repo.StartRunCalled)
	assert.True(t, repo.CompleteRunCalled)
	assert.NotEmpty(t, report.RunID)

	run, err := repo.GetAnalysisRun(report.RunID)
	require.NoError(t, err)
	assert.Equal(t, storage.RunStatusCompleted, run.Status)
	assert.Equal(t, 2, run.TransactionCount)
	assert.Equal(t, 1, run.MatchedCount)
	assert.Equal(t, int64(5000), run.ExcludedMinor)
	assert.NotNil(t, run.CompletedAt)
}

func TestAnalyze_DistinctRunIDsPerInvocation(t *testing.T) {
	svc := NewService(matcher.DefaultConfig(), nil, nil)

	r1, err := svc.Analyze(context.Background(), Request{Transactions: transferPair()})
	require.NoError(t, err)
	r2, err := svc.Analyze(context.Background(), Request{Transactions: transferPair()})
	require.NoError(t, err)

	assert.NotEqual(t, r1.RunID, r2.RunID)
}

func TestAnalyze_ConfigOverridePerRequest(t *testing.T) {
	svc := NewService(matcher.DefaultConfig(), nil, nil)

	// A zero-day window rejects the one-day-apart pair.
	report, err := svc.Analyze(context.Background(), Request{
		Transactions: transferPair(),
		Config:       &matcher.Config{WindowDays: 0, MinMatched: 0.70, MinUncertain: 0.45},
	})

	require.NoError(t, err)
	assert.Empty(t, report.Matches)
	assert.Equal(t, 0, report.Summary.CandidateCount)
}

func TestAnalyze_StartRunErrorAborts(t *testing.T) {
	repo := storage.NewMockRepository()
	repo.StartRunErr = errors.New("disk full")
	svc := NewService(matcher.DefaultConfig(), repo, nil)

	_, err := svc.Analyze(context.Background(), Request{Transactions: transferPair()})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "recording analysis run")
}

func TestAnalyze_StoredBoundaryListErrorAborts(t *testing.T) {
	repo := storage.NewMockRepository()
	repo.ListErr = errors.New("db closed")
	svc := NewService(matcher.DefaultConfig(), repo, nil)

	_, err := svc.Analyze(context.Background(), Request{Transactions: transferPair()})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "resolving boundary set")
}

func TestAnalyze_CancelledContext(t *testing.T) {
	svc := NewService(matcher.DefaultConfig(), nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Analyze(ctx, Request{Transactions: transferPair()})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalyze_NoTransactionsYieldsEmptyReport(t *testing.T) {
	svc := NewService(matcher.DefaultConfig(), nil, nil)

	report, err := svc.Analyze(context.Background(), Request{})

	require.NoError(t, err)
	assert.Empty(t, report.Matches)
	assert.Empty(t, report.Collisions)
	assert.Equal(t, 0, report.Summary.TransactionCount)
}

package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerlens/statement-backend/internal/domain/ledger"
)

func resolveTxs(t *testing.T, txs []*ledger.Transaction, cfg Config) ResolveResult {
	t.Helper()
	return Resolve(GenerateCandidates(txs, extractAll(txs), cfg), cfg)
}

func TestResolve_SingleCandidateMatches(t *testing.T) {
	txs := []*ledger.Transaction{
		makeTransaction("t1", "acc-a", -5000, 1, "transfer to savings"),
		makeTransaction("t2", "acc-b", 5000, 2, "transfer from everyday"),
	}

	result := resolveTxs(t, txs, DefaultConfig())

	require.Len(t, result.Matches, 1)
	m := result.Matches[0]
	assert.Equal(t, StateMatched, m.State)
	assert.Equal(t, MatchID("t1", "t2"), m.MatchID)
	assert.Equal(t, "t1", m.Out.TransactionID)
	assert.Equal(t, RoleOut, m.Out.Role)
	assert.Equal(t, "t2", m.In.TransactionID)
	assert.Equal(t, RoleIn, m.In.Role)
	assert.True(t, m.SameFile)
	assert.InDelta(t, 0.736, m.Confidence, 1e-9)
	assert.Empty(t, result.Collisions)
}

func TestResolve_BelowUncertainThresholdIsDropped(t *testing.T) {
	// No transfer hints and a 3-day gap: 0.60 - 0.12 - 0.20 = 0.28.
	txs := []*ledger.Transaction{
		makeTransaction("t1", "acc-a", -5000, 1, "coffee run"),
		makeTransaction("t2", "acc-b", 5000, 4, "weekly settlement"),
	}

	result := resolveTxs(t, txs, DefaultConfig())

	assert.Empty(t, result.Matches)
	assert.Empty(t, result.Collisions)
}

func TestResolve_ContendedLegProducesCollisionBucket(t *testing.T) {
	debit := makeTransaction("d1", "acc-a", -5000, 1, "transfer to savings")
	credit1 := makeTransaction("c1", "acc-b", 5000, 2, "transfer from everyday")
	credit2 := makeTransaction("c2", "acc-c", 5000, 2, "transfer from everyday")

	// Shared reference id disambiguates d1/c1 as the intended pairing.
	debit.Payment = &ledger.PaymentEvidence{ReferenceID: "REF-777"}
	credit1.Payment = &ledger.PaymentEvidence{ReferenceID: "REF-777"}

	result := resolveTxs(t, []*ledger.Transaction{debit, credit1, credit2}, DefaultConfig())

	require.Len(t, result.Matches, 1)
	m := result.Matches[0]
	assert.Equal(t, MatchID("d1", "c1"), m.MatchID)
	assert.Equal(t, StateMatched, m.State)
	assert.Contains(t, m.Explanation.Penalties, PenaltyAmbiguous)
	assert.InDelta(t, 0.8704, m.Confidence, 1e-9)

	require.Len(t, result.Collisions, 1)
	b := result.Collisions[0]
	assert.Equal(t, int64(5000), b.AmountMinor)
	assert.Equal(t, "2024-03-01", b.Date.String())
	assert.Equal(t, []string{"c1", "c2", "d1"}, b.TransactionIDs)

	require.Len(t, b.Suggestions, 1)
	s := b.Suggestions[0]
	assert.Equal(t, "d1", s.OutID)
	assert.Equal(t, "c1", s.InID)
	assert.InDelta(t, 0.8704, s.BestScore, 1e-9)
	require.NotNil(t, s.SecondBestScore)
	assert.InDelta(t, 0.676, *s.SecondBestScore, 1e-9)
}

func TestResolve_EachTransactionAssignedAtMostOnce(t *testing.T) {
	txs := []*ledger.Transaction{
		makeTransaction("o1", "acc-a", -5000, 1, "transfer to savings"),
		makeTransaction("o2", "acc-b", -5000, 2, "transfer to savings"),
		makeTransaction("i1", "acc-c", 5000, 1, "transfer from everyday"),
		makeTransaction("i2", "acc-d", 5000, 2, "transfer from everyday"),
	}

	result := resolveTxs(t, txs, DefaultConfig())

	assert.Len(t, result.Matches, 2)
	seen := make(map[string]int)
	for _, m := range result.Matches {
		seen[m.Out.TransactionID]++
		seen[m.In.TransactionID]++
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, "transaction %s assigned %d times", id, n)
	}
}

func TestResolve_DeterministicUnderInputReordering(t *testing.T) {
	build := func(reversed bool) []*ledger.Transaction {
		txs := []*ledger.Transaction{
			makeTransaction("o1", "acc-a", -5000, 1, "transfer to savings"),
			makeTransaction("o2", "acc-b", -5000, 2, "transfer to savings"),
			makeTransaction("i1", "acc-c", 5000, 1, "transfer from everyday"),
			makeTransaction("i2", "acc-d", 5000, 2, "transfer from everyday"),
			makeTransaction("x1", "acc-e", -1234, 3, "transfer"),
			makeTransaction("x2", "acc-f", 1234, 3, "transfer"),
		}
		if reversed {
			for i, j := 0, len(txs)-1; i < j; i, j = i+1, j-1 {
				txs[i], txs[j] = txs[j], txs[i]
			}
		}
		return txs
	}

	forward := resolveTxs(t, build(false), DefaultConfig())
	backward := resolveTxs(t, build(true), DefaultConfig())

	require.Equal(t, len(forward.Matches), len(backward.Matches))
	for i := range forward.Matches {
		assert.Equal(t, forward.Matches[i].MatchID, backward.Matches[i].MatchID)
		assert.Equal(t, forward.Matches[i].State, backward.Matches[i].State)
		assert.Equal(t, forward.Matches[i].Confidence, backward.Matches[i].Confidence)
	}
	assert.Equal(t, forward.Collisions, backward.Collisions)
}

func TestResolve_RaisingMinMatchedOnlyDemotes(t *testing.T) {
	debit := makeTransaction("d1", "acc-a", -5000, 1, "transfer to savings")
	credit := makeTransaction("c1", "acc-b", 5000, 2, "transfer from everyday")
	debit.Payment = &ledger.PaymentEvidence{ReferenceID: "REF-1"}
	credit.Payment = &ledger.PaymentEvidence{ReferenceID: "REF-1"}
	txs := []*ledger.Transaction{debit, credit}

	loose := resolveTxs(t, txs, Config{WindowDays: 3, MinMatched: 0.70, MinUncertain: 0.45})
	strict := resolveTxs(t, txs, Config{WindowDays: 3, MinMatched: 0.95, MinUncertain: 0.45})

	require.Len(t, loose.Matches, 1)
	require.Len(t, strict.Matches, 1)
	assert.Equal(t, StateMatched, loose.Matches[0].State)
	assert.Equal(t, StateUncertain, strict.Matches[0].State)
	assert.Equal(t, loose.Matches[0].Confidence, strict.Matches[0].Confidence)
}

func TestResolve_SameFileFlagReflectsSourceFiles(t *testing.T) {
	out := makeTransaction("t1", "acc-a", -5000, 1, "transfer to savings")
	in := makeTransaction("t2", "acc-b", 5000, 1, "transfer from everyday")
	in.FileID = "file-2"

	result := resolveTxs(t, []*ledger.Transaction{out, in}, DefaultConfig())

	require.Len(t, result.Matches, 1)
	assert.False(t, result.Matches[0].SameFile)
}

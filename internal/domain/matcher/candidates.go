// Package matcher pairs opposite-sign statement transactions that plausibly
// form the two legs of one money movement, scores each candidate with a
// structured explanation, and resolves a deterministic one-to-one assignment
// with collision reporting for near-ties.
package matcher

import (
	"github.com/ledgerlens/statement-backend/internal/domain/evidence"
	"github.com/ledgerlens/statement-backend/internal/domain/ledger"
)

// GenerateCandidates buckets transactions by absolute minor-unit amount and
// emits one CandidatePair per outgoing/incoming pairing whose date gap is
// within the configured window. Amount matching is exact integer equality;
// zero-amount rows never pair. Cost is O(n²) within an amount bucket, which
// real statements keep small.
func GenerateCandidates(
	txs []*ledger.Transaction,
	bundles map[string]evidence.Bundle,
	cfg Config,
) []*CandidatePair {
	cfg = cfg.Clamped()

	type bucket struct {
		outs []*ledger.Transaction
		ins  []*ledger.Transaction
	}

	buckets := make(map[int64]*bucket)
	// Preserve first-seen order so output is stable for identical input.
	var amounts []int64

	for _, tx := range txs {
		abs := tx.AbsAmountMinor()
		if abs == 0 {
			continue
		}
		b, ok := buckets[abs]
		if !ok {
			b = &bucket{}
			buckets[abs] = b
			amounts = append(amounts, abs)
		}
		if tx.IsOutgoing() {
			b.outs = append(b.outs, tx)
		} else {
			b.ins = append(b.ins, tx)
		}
	}

	var pairs []*CandidatePair
	for _, amount := range amounts {
		b := buckets[amount]
		for _, out := range b.outs {
			for _, in := range b.ins {
				if out.ID == in.ID {
					continue
				}
				dateDiff := ledger.DaysBetween(out.Date, in.Date)
				if dateDiff > cfg.WindowDays {
					continue
				}
				pairs = append(pairs, &CandidatePair{
					Out:          out,
					In:           in,
					OutEvidence:  bundles[out.ID],
					InEvidence:   bundles[in.ID],
					AmountMinor:  amount,
					DateDiffDays: dateDiff,
					SameAccount:  out.AccountID == in.AccountID && out.BankID == in.BankID,
				})
			}
		}
	}

	return pairs
}

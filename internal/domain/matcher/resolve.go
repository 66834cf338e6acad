package matcher

import (
	"sort"

	"github.com/ledgerlens/statement-backend/internal/domain/ledger"
)

// ResolveResult is the engine's assignment output: one-to-one match results
// plus the collision report for contended amount/date keys.
type ResolveResult struct {
	Matches    []*MatchResult
	Collisions []CollisionBucket
}

// Resolve scores every candidate pair, applies the ambiguity penalty to legs
// with more than one viable candidate, then assigns pairs greedily by
// descending score with a deterministic tie-break chain (smaller date gap,
// then lexicographically smaller match id). Pairs scoring below MinUncertain
// are dropped and produce no annotation at all.
func Resolve(pairs []*CandidatePair, cfg Config) ResolveResult {
	cfg = cfg.Clamped()

	for _, p := range pairs {
		Score(p)
	}

	// A leg with more than one viable candidate makes all of its
	// candidates ambiguous. The penalty can push a pair below the
	// uncertain threshold, so viability is rebuilt afterwards.
	byOut, byIn := viableByLeg(pairs, cfg.MinUncertain)
	for _, list := range byOut {
		if len(list) > 1 {
			for _, p := range list {
				markAmbiguous(p)
			}
		}
	}
	for _, list := range byIn {
		if len(list) > 1 {
			for _, p := range list {
				markAmbiguous(p)
			}
		}
	}
	byOut, byIn = viableByLeg(pairs, cfg.MinUncertain)

	ordered := make([]*CandidatePair, len(pairs))
	copy(ordered, pairs)
	sortPairs(ordered)

	usedOut := make(map[string]bool)
	usedIn := make(map[string]bool)

	var matches []*MatchResult
	for _, p := range ordered {
		if p.Explanation.Score < cfg.MinUncertain {
			continue
		}
		if usedOut[p.Out.ID] || usedIn[p.In.ID] {
			continue
		}
		usedOut[p.Out.ID] = true
		usedIn[p.In.ID] = true

		state := StateUncertain
		if p.Explanation.Score >= cfg.MinMatched {
			state = StateMatched
		}
		matches = append(matches, &MatchResult{
			MatchID:     p.MatchID(),
			State:       state,
			Out:         legRef(p.Out, RoleOut),
			In:          legRef(p.In, RoleIn),
			Confidence:  p.Explanation.Score,
			AmountMinor: p.AmountMinor,
			SameFile:    p.Out.FileID == p.In.FileID,
			Explanation: p.Explanation,
		})
	}

	return ResolveResult{
		Matches:    matches,
		Collisions: collectCollisions(byOut, byIn),
	}
}

func legRef(tx *ledger.Transaction, role LegRole) LegRef {
	return LegRef{
		TransactionID: tx.ID,
		AccountID:     tx.AccountID,
		BankID:        tx.BankID,
		FileID:        tx.FileID,
		Role:          role,
	}
}

// viableByLeg indexes candidates with score >= minUncertain by each leg's
// transaction id.
func viableByLeg(pairs []*CandidatePair, minUncertain float64) (byOut, byIn map[string][]*CandidatePair) {
	byOut = make(map[string][]*CandidatePair)
	byIn = make(map[string][]*CandidatePair)
	for _, p := range pairs {
		if p.Explanation.Score < minUncertain {
			continue
		}
		byOut[p.Out.ID] = append(byOut[p.Out.ID], p)
		byIn[p.In.ID] = append(byIn[p.In.ID], p)
	}
	return byOut, byIn
}

// sortPairs orders candidates for assignment: best score first, then smaller
// date gap, then lexicographically smaller match id. The chain is total, so
// the assignment is reproducible regardless of input ordering.
func sortPairs(pairs []*CandidatePair) {
	sort.Slice(pairs, func(i, j int) bool {
		a, b := pairs[i], pairs[j]
		if a.Explanation.Score != b.Explanation.Score {
			return a.Explanation.Score > b.Explanation.Score
		}
		if a.DateDiffDays != b.DateDiffDays {
			return a.DateDiffDays < b.DateDiffDays
		}
		return a.MatchID() < b.MatchID()
	})
}

type collisionKey struct {
	amount int64
	date   string
}

// collectCollisions builds one bucket per (absolute amount, earlier leg
// date) key for every leg that had more than one viable candidate. Assigned
// winners still appear here so near-ties stay reviewable.
func collectCollisions(byOut, byIn map[string][]*CandidatePair) []CollisionBucket {
	buckets := make(map[collisionKey]*CollisionBucket)
	seenTx := make(map[collisionKey]map[string]bool)
	seenSuggestion := make(map[collisionKey]map[string]bool)

	addLeg := func(list []*CandidatePair) {
		if len(list) < 2 {
			return
		}
		sorted := make([]*CandidatePair, len(list))
		copy(sorted, list)
		sortPairs(sorted)

		best, second := sorted[0], sorted[1]
		date := earlierDate(best)
		key := collisionKey{amount: best.AmountMinor, date: date.String()}

		b, ok := buckets[key]
		if !ok {
			b = &CollisionBucket{AmountMinor: best.AmountMinor, Date: date}
			buckets[key] = b
			seenTx[key] = make(map[string]bool)
			seenSuggestion[key] = make(map[string]bool)
		}
		for _, p := range sorted {
			for _, id := range []string{p.Out.ID, p.In.ID} {
				if !seenTx[key][id] {
					seenTx[key][id] = true
					b.TransactionIDs = append(b.TransactionIDs, id)
				}
			}
		}
		if !seenSuggestion[key][best.MatchID()] {
			seenSuggestion[key][best.MatchID()] = true
			secondScore := second.Explanation.Score
			b.Suggestions = append(b.Suggestions, CollisionSuggestion{
				OutID:           best.Out.ID,
				InID:            best.In.ID,
				MatchID:         best.MatchID(),
				BestScore:       best.Explanation.Score,
				SecondBestScore: &secondScore,
			})
		}
	}

	// Iterate legs in sorted id order so bucket contents are stable.
	for _, id := range sortedKeys(byOut) {
		addLeg(byOut[id])
	}
	for _, id := range sortedKeys(byIn) {
		addLeg(byIn[id])
	}

	out := make([]CollisionBucket, 0, len(buckets))
	for _, b := range buckets {
		sort.Strings(b.TransactionIDs)
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.Before(out[j].Date.Time)
		}
		return out[i].AmountMinor < out[j].AmountMinor
	})
	return out
}

func earlierDate(p *CandidatePair) ledger.Date {
	if p.In.Date.Before(p.Out.Date.Time) {
		return p.In.Date
	}
	return p.Out.Date
}

func sortedKeys(m map[string][]*CandidatePair) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

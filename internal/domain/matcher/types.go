package matcher

import (
	"strings"

	"github.com/ledgerlens/statement-backend/internal/domain/evidence"
	"github.com/ledgerlens/statement-backend/internal/domain/ledger"
)

// Config holds the engine tunables. Values arriving out of range are
// clamped defensively rather than rejected; see Clamped.
type Config struct {
	WindowDays   int     // Max whole-day gap between legs, [0,7]
	MinMatched   float64 // Score threshold for state=matched, [0,1]
	MinUncertain float64 // Score threshold for state=uncertain, [0,1]
}

// DefaultConfig returns the host application defaults.
func DefaultConfig() Config {
	return Config{
		WindowDays:   3,
		MinMatched:   0.70,
		MinUncertain: 0.45,
	}
}

// Clamped returns a copy with every field forced into its valid range.
// MinUncertain is additionally capped at MinMatched so the uncertain band
// can never sit above the matched band.
func (c Config) Clamped() Config {
	if c.WindowDays < 0 {
		c.WindowDays = 0
	}
	if c.WindowDays > 7 {
		c.WindowDays = 7
	}
	c.MinMatched = clamp01(c.MinMatched)
	c.MinUncertain = clamp01(c.MinUncertain)
	if c.MinUncertain > c.MinMatched {
		c.MinUncertain = c.MinMatched
	}
	return c
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// CandidatePair references one outgoing and one incoming transaction with
// equal absolute amounts inside the day window.
type CandidatePair struct {
	Out *ledger.Transaction
	In  *ledger.Transaction

	OutEvidence evidence.Bundle
	InEvidence  evidence.Bundle

	AmountMinor  int64
	DateDiffDays int
	SameAccount  bool

	Explanation ScoreExplanation
}

// MatchID returns the pair's canonical match id.
func (p *CandidatePair) MatchID() string {
	return MatchID(p.Out.ID, p.In.ID)
}

// ScoreExplanation is the structured scoring record attached to every
// candidate: which hints raised the score, which penalties lowered it, and
// the resulting confidence.
type ScoreExplanation struct {
	AmountMinor  int64    `json:"amount_minor"`
	DateDiffDays int      `json:"date_diff_days"`
	SameAccount  bool     `json:"same_account"`
	Hints        []string `json:"hints,omitempty"`
	Penalties    []string `json:"penalties,omitempty"`
	Score        float64  `json:"score"`
}

// MatchState is the resolved confidence band of a pair. Pairs scoring below
// the uncertain threshold are dropped entirely and never carry a state.
type MatchState string

const (
	StateMatched   MatchState = "matched"
	StateUncertain MatchState = "uncertain"
)

// LegRole identifies which side of the movement a leg is.
type LegRole string

const (
	RoleOut LegRole = "out"
	RoleIn  LegRole = "in"
)

// LegRef points back at one source transaction.
type LegRef struct {
	TransactionID string  `json:"transaction_id"`
	AccountID     string  `json:"account_id"`
	BankID        string  `json:"bank_id"`
	FileID        string  `json:"file_id"`
	Role          LegRole `json:"role"`
}

// MatchResult is one resolved pairing. Boundary classification is layered on
// top by the boundary package; the matcher only decides state and confidence.
type MatchResult struct {
	MatchID     string           `json:"match_id"`
	State       MatchState       `json:"state"`
	Out         LegRef           `json:"out"`
	In          LegRef           `json:"in"`
	Confidence  float64          `json:"confidence"`
	AmountMinor int64            `json:"amount_minor"`
	SameFile    bool             `json:"same_file"`
	Explanation ScoreExplanation `json:"explanation"`
}

// CollisionBucket groups the transactions sharing one (absolute amount,
// date) key where more than one viable pairing existed, so near-ties stay
// visible to a human reviewer even after greedy assignment picked a winner.
type CollisionBucket struct {
	AmountMinor    int64                 `json:"amount_minor"`
	Date           ledger.Date           `json:"date"`
	TransactionIDs []string              `json:"transaction_ids"`
	Suggestions    []CollisionSuggestion `json:"suggestions"`
}

// CollisionSuggestion is the best pairing for one contended leg plus the
// runner-up score that made it ambiguous.
type CollisionSuggestion struct {
	OutID           string   `json:"out_id"`
	InID            string   `json:"in_id"`
	MatchID         string   `json:"match_id"`
	BestScore       float64  `json:"best_score"`
	SecondBestScore *float64 `json:"second_best_score,omitempty"`
}

// MatchID derives a stable pair id from the two transaction ids in canonical
// order. MatchID(a, b) == MatchID(b, a), so re-computation across runs is
// idempotent for identical input.
func MatchID(a, b string) string {
	if strings.Compare(a, b) > 0 {
		a, b = b, a
	}
	return a + "::" + b
}

package analysis

import (
	"github.com/ledgerlens/statement-backend/internal/domain/boundary"
	"github.com/ledgerlens/statement-backend/internal/domain/evidence"
	"github.com/ledgerlens/statement-backend/internal/domain/ledger"
	"github.com/ledgerlens/statement-backend/internal/domain/matcher"
)

// Request describes one analysis scope: the transactions to analyze plus the
// boundary configuration and tunables for this invocation.
type Request struct {
	Transactions []*ledger.Transaction  `json:"transactions"`
	Accounts     []evidence.AccountMeta `json:"accounts,omitempty"`

	// BoundaryAccounts overrides the stored boundary set when non-nil.
	// An explicit empty slice means "empty boundary set", which is valid.
	BoundaryAccounts []string `json:"boundary_accounts,omitempty"`

	// Aliases map account ids to display names for rationale sentences.
	Aliases map[string]string `json:"aliases,omitempty"`

	// Config overrides the application engine tunables when non-nil.
	Config *matcher.Config `json:"config,omitempty"`
}

// Annotation is one resolved pair with its boundary verdict attached. It is
// keyed back onto both source transactions by id.
type Annotation struct {
	Match   *matcher.MatchResult `json:"match"`
	Outcome boundary.Outcome     `json:"outcome"`
}

// Summary aggregates the run for dashboard consumption.
type Summary struct {
	TransactionCount    int   `json:"transaction_count"`
	CandidateCount      int   `json:"candidate_count"`
	MatchedCount        int   `json:"matched_count"`
	UncertainCount      int   `json:"uncertain_count"`
	InternalOffsetCount int   `json:"internal_offset_count"`
	BoundaryFlowCount   int   `json:"boundary_flow_count"`
	CollisionCount      int   `json:"collision_count"`
	// ExcludedMinor counts each internal offset's absolute amount once
	// per pair, not once per leg.
	ExcludedMinor int64 `json:"excluded_minor"`
}

// Report is the full annotated output of one analysis invocation.
type Report struct {
	RunID       string                    `json:"run_id"`
	Matches     []Annotation              `json:"matches"`
	Collisions  []matcher.CollisionBucket `json:"collisions"`
	Annotations map[string]*Annotation    `json:"annotations"`
	Summary     Summary                   `json:"summary"`
}

// AnnotationFor returns the annotation attached to a transaction id, if any.
// Transactions that never formed a match have none.
func (r *Report) AnnotationFor(transactionID string) (*Annotation, bool) {
	a, ok := r.Annotations[transactionID]
	return a, ok
}

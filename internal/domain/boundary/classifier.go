// Package boundary decides what a resolved transfer pair means for reported
// totals: an internal offset between accounts inside the user-defined
// boundary set is excluded from income/spend KPIs, a transfer crossing the
// boundary keeps counting, and uncertain pairs always keep counting.
package boundary

import (
	"fmt"

	"github.com/ledgerlens/statement-backend/internal/domain/ledger"
	"github.com/ledgerlens/statement-backend/internal/domain/matcher"
)

// Decision is the boundary classification of a resolved pair.
type Decision string

const (
	DecisionInternalOffset    Decision = "INTERNAL_OFFSET"
	DecisionBoundaryFlow      Decision = "BOUNDARY_FLOW"
	DecisionUncertainNoOffset Decision = "UNCERTAIN_NO_OFFSET"
)

// KPIEffect states whether the pair's legs count toward income/spend totals.
type KPIEffect string

const (
	KPIExcluded KPIEffect = "EXCLUDED"
	KPIIncluded KPIEffect = "INCLUDED"
)

// Outcome is the classifier's verdict for one match result.
type Outcome struct {
	Decision    Decision  `json:"decision"`
	KPIEffect   KPIEffect `json:"kpi_effect"`
	WhySentence string    `json:"why"`
}

// Set is the ordered collection of account ids treated as "inside".
// An empty set is a valid configuration: nothing is ever excluded.
type Set struct {
	ids     []string
	members map[string]bool
}

// NewSet builds a boundary set, dropping duplicates while preserving order.
func NewSet(ids ...string) Set {
	s := Set{members: make(map[string]bool, len(ids))}
	for _, id := range ids {
		if id == "" || s.members[id] {
			continue
		}
		s.members[id] = true
		s.ids = append(s.ids, id)
	}
	return s
}

// Contains reports boundary membership of an account id.
func (s Set) Contains(accountID string) bool { return s.members[accountID] }

// IDs returns the member ids in insertion order.
func (s Set) IDs() []string { return append([]string(nil), s.ids...) }

// Len returns the member count.
func (s Set) Len() int { return len(s.ids) }

// Classifier applies boundary decisions to resolved matches. Aliases are
// display names used only in the rationale sentence, never for scoring.
type Classifier struct {
	set     Set
	aliases map[string]string
}

// NewClassifier builds a classifier over a boundary set. aliases may be nil.
func NewClassifier(set Set, aliases map[string]string) *Classifier {
	return &Classifier{set: set, aliases: aliases}
}

// Classify maps a resolved match to its decision and KPI effect. The mapping
// is a pure function of (state, boundary membership of both legs):
//
//	uncertain                      -> UNCERTAIN_NO_OFFSET, INCLUDED
//	matched, both legs inside      -> INTERNAL_OFFSET, EXCLUDED
//	matched, otherwise             -> BOUNDARY_FLOW, INCLUDED
//
// It never fails on a valid MatchResult.
func (c *Classifier) Classify(m *matcher.MatchResult) Outcome {
	amount := ledger.FormatMinor(m.AmountMinor)
	outName := c.displayName(m.Out.AccountID)
	inName := c.displayName(m.In.AccountID)

	if m.State == matcher.StateUncertain {
		return Outcome{
			Decision:  DecisionUncertainNoOffset,
			KPIEffect: KPIIncluded,
			WhySentence: fmt.Sprintf(
				"A %s movement from %s to %s looked like a transfer, but confidence %.2f was below the match threshold, so both legs keep counting toward totals.",
				amount, outName, inName, m.Confidence),
		}
	}

	bothInside := c.set.Contains(m.Out.AccountID) && c.set.Contains(m.In.AccountID)
	if bothInside {
		return Outcome{
			Decision:  DecisionInternalOffset,
			KPIEffect: KPIExcluded,
			WhySentence: fmt.Sprintf(
				"Matched a %s transfer from %s to %s; both accounts are inside the boundary, so the pair offsets internally and is excluded from totals.",
				amount, outName, inName),
		}
	}

	return Outcome{
		Decision:  DecisionBoundaryFlow,
		KPIEffect: KPIIncluded,
		WhySentence: fmt.Sprintf(
			"Matched a %s transfer from %s to %s; the movement crosses the boundary, so both legs keep counting toward totals.",
			amount, outName, inName),
	}
}

func (c *Classifier) displayName(accountID string) string {
	if alias, ok := c.aliases[accountID]; ok && alias != "" {
		return alias
	}
	return accountID
}

package cli

import (
	"fmt"
	"strings"

	"github.com/ledgerlens/statement-backend/internal/application/analysis"
	"github.com/ledgerlens/statement-backend/internal/domain/ledger"
)

// PrintHeader prints the command header.
func PrintHeader(input string, boundarySize int) {
	fmt.Printf("statement-analyze: %s (boundary accounts: %d)\n\n", input, boundarySize)
}

// PrintSummary prints the aggregate result of one analysis.
func PrintSummary(report *analysis.Report) {
	s := report.Summary
	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("Run %s\n", report.RunID)
	fmt.Printf("Transactions=%d Candidates=%d Matched=%d Uncertain=%d\n",
		s.TransactionCount, s.CandidateCount, s.MatchedCount, s.UncertainCount)
	fmt.Printf("Internal offsets=%d Boundary flows=%d Excluded=%s\n",
		s.InternalOffsetCount, s.BoundaryFlowCount, ledger.FormatMinor(s.ExcludedMinor))
}

// PrintMatches prints each resolved pair with its rationale.
func PrintMatches(report *analysis.Report) {
	if len(report.Matches) == 0 {
		fmt.Println("\nNo transfer pairs found.")
		return
	}
	fmt.Printf("\nPairs (%d):\n", len(report.Matches))
	for _, ann := range report.Matches {
		m := ann.Match
		fmt.Printf("  [%s] %s %s -> %s score=%.2f %s\n",
			m.State,
			ledger.FormatMinor(m.AmountMinor),
			m.Out.TransactionID,
			m.In.TransactionID,
			m.Confidence,
			ann.Outcome.Decision)
		fmt.Printf("      %s\n", ann.Outcome.WhySentence)
	}
}

// PrintCollisions prints the ambiguity report for manual review.
func PrintCollisions(report *analysis.Report) {
	if len(report.Collisions) == 0 {
		return
	}
	fmt.Printf("\nCollisions needing review (%d):\n", len(report.Collisions))
	for _, b := range report.Collisions {
		fmt.Printf("  %s on %s: %d transactions\n",
			ledger.FormatMinor(b.AmountMinor), b.Date, len(b.TransactionIDs))
		for _, sug := range b.Suggestions {
			second := "n/a"
			if sug.SecondBestScore != nil {
				second = fmt.Sprintf("%.2f", *sug.SecondBestScore)
			}
			fmt.Printf("    suggest %s -> %s best=%.2f second=%s\n",
				sug.OutID, sug.InID, sug.BestScore, second)
		}
	}
}

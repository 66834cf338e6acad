// Command analyze runs the transfer-matching engine once over a JSON file of
// normalized transactions and prints the annotated report.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ledgerlens/statement-backend/internal/application/analysis"
	"github.com/ledgerlens/statement-backend/internal/cli"
	"github.com/ledgerlens/statement-backend/internal/domain/evidence"
	"github.com/ledgerlens/statement-backend/internal/domain/ledger"
	"github.com/ledgerlens/statement-backend/internal/infrastructure/config"
	"github.com/ledgerlens/statement-backend/internal/infrastructure/logging"
	"github.com/ledgerlens/statement-backend/internal/infrastructure/storage"
)

// inputFile is the on-disk shape of one analysis scope.
type inputFile struct {
	Transactions []*ledger.Transaction  `json:"transactions"`
	Accounts     []evidence.AccountMeta `json:"accounts,omitempty"`
	Aliases      map[string]string      `json:"aliases,omitempty"`
}

func main() {
	flags := cli.ParseAnalyzeFlags()
	if flags.Input == "" {
		fmt.Fprintln(os.Stderr, "usage: analyze -input transactions.json [-boundary acc1,acc2] [-db path]")
		os.Exit(2)
	}

	cfg := config.LoadOrEnv()
	if flags.Verbose {
		cfg.Observability.Logging.Level = "debug"
	}
	logger := logging.NewLoggerWithSystem(cfg.Observability.Logging, "analyze")

	data, err := os.ReadFile(flags.Input)
	if err != nil {
		logger.Error("failed to read input", "error", err)
		os.Exit(1)
	}

	var input inputFile
	if err := json.Unmarshal(data, &input); err != nil {
		logger.Error("failed to parse input", "error", err)
		os.Exit(1)
	}

	// Run history and the stored boundary set need a database; without
	// one the command is a pure one-shot computation.
	var repo storage.Repository
	if flags.DBPath != "" {
		store, err := storage.NewStorage(flags.DBPath)
		if err != nil {
			logger.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer store.Close()
		repo = store
	}

	req := analysis.Request{
		Transactions: input.Transactions,
		Accounts:     input.Accounts,
		Aliases:      input.Aliases,
	}
	if flags.Boundary != "" {
		for _, id := range strings.Split(flags.Boundary, ",") {
			if id = strings.TrimSpace(id); id != "" {
				req.BoundaryAccounts = append(req.BoundaryAccounts, id)
			}
		}
	}

	service := analysis.NewService(flags.ToMatcherConfig(), repo, logger)
	report, err := service.Analyze(context.Background(), req)
	if err != nil {
		logger.Error("analysis failed", "error", err)
		os.Exit(1)
	}

	if flags.JSONOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			logger.Error("failed to encode report", "error", err)
			os.Exit(1)
		}
		return
	}

	cli.PrintHeader(flags.Input, len(req.BoundaryAccounts))
	PrintReport(report)
}

// PrintReport prints the human-readable report sections.
func PrintReport(report *analysis.Report) {
	cli.PrintSummary(report)
	cli.PrintMatches(report)
	cli.PrintCollisions(report)
}

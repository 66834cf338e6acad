package dto

import (
	"github.com/ledgerlens/statement-backend/internal/application/analysis"
	"github.com/ledgerlens/statement-backend/internal/domain/evidence"
	"github.com/ledgerlens/statement-backend/internal/domain/ledger"
	"github.com/ledgerlens/statement-backend/internal/domain/matcher"
)

// AnalyzeRequest is the POST /api/analyze body: one analysis scope.
type AnalyzeRequest struct {
	Transactions []*ledger.Transaction  `json:"transactions" binding:"required"`
	Accounts     []evidence.AccountMeta `json:"accounts,omitempty"`

	// BoundaryAccounts, when present, overrides the stored boundary set
	// for this request only. An empty array is a valid (empty) set.
	BoundaryAccounts []string          `json:"boundary_accounts,omitempty"`
	Aliases          map[string]string `json:"aliases,omitempty"`

	Config *EngineOverrides `json:"config,omitempty"`
}

// EngineOverrides are per-request engine tunables; omitted fields keep the
// server defaults. Values are clamped server-side.
type EngineOverrides struct {
	WindowDays   *int     `json:"window_days,omitempty"`
	MinMatched   *float64 `json:"min_matched,omitempty"`
	MinUncertain *float64 `json:"min_uncertain,omitempty"`
}

// ToAnalysisRequest converts the DTO into the application-layer request.
func (r *AnalyzeRequest) ToAnalysisRequest(defaults matcher.Config) analysis.Request {
	req := analysis.Request{
		Transactions:     r.Transactions,
		Accounts:         r.Accounts,
		BoundaryAccounts: r.BoundaryAccounts,
		Aliases:          r.Aliases,
	}
	if r.Config != nil {
		cfg := defaults
		if r.Config.WindowDays != nil {
			cfg.WindowDays = *r.Config.WindowDays
		}
		if r.Config.MinMatched != nil {
			cfg.MinMatched = *r.Config.MinMatched
		}
		if r.Config.MinUncertain != nil {
			cfg.MinUncertain = *r.Config.MinUncertain
		}
		cfg = cfg.Clamped()
		req.Config = &cfg
	}
	return req
}

// BoundaryAccountRequest is the PUT /api/boundary-accounts body.
type BoundaryAccountRequest struct {
	AccountID string `json:"account_id" binding:"required"`
	Alias     string `json:"alias,omitempty"`
}

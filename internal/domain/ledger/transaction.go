// Package ledger defines the normalized transaction record produced by the
// statement parsing layer. The matching engine treats these records as
// immutable input; all analysis output lives in a separate annotation layer
// keyed by transaction id.
package ledger

import (
	"fmt"
	"time"
)

// Transaction is one normalized bank-statement row.
// Amounts are signed minor currency units (cents): negative = outgoing.
type Transaction struct {
	ID          string `json:"id"`
	AccountID   string `json:"account_id"`
	BankID      string `json:"bank_id"`
	FileID      string `json:"file_id"`
	Date        Date   `json:"date"`
	AmountMinor int64  `json:"amount_minor"`
	Description string `json:"description"`
	Normalized  string `json:"normalized,omitempty"`

	// BalanceMinor is the running balance after this row, when the
	// statement provides one.
	BalanceMinor *int64 `json:"balance_minor,omitempty"`

	// Payment carries structured evidence extracted by the parser
	// (Osko/PayID style metadata). Nil when the statement had none.
	Payment *PaymentEvidence `json:"payment,omitempty"`
}

// PaymentEvidence is the optional structured payment metadata attached to a
// transaction. Every field may be empty; absence simply yields no evidence.
type PaymentEvidence struct {
	TransferType           string   `json:"transfer_type,omitempty"`
	ReferenceID            string   `json:"reference_id,omitempty"`
	CounterpartyAccountKey string   `json:"counterparty_account_key,omitempty"`
	CounterpartyName       string   `json:"counterparty_name,omitempty"`
	PayID                  string   `json:"pay_id,omitempty"`
	Hints                  []string `json:"hints,omitempty"`
}

// AbsAmountMinor returns the unsigned amount in minor units.
func (t *Transaction) AbsAmountMinor() int64 {
	if t.AmountMinor < 0 {
		return -t.AmountMinor
	}
	return t.AmountMinor
}

// IsOutgoing reports whether this is a debit leg.
func (t *Transaction) IsOutgoing() bool { return t.AmountMinor < 0 }

// IsIncoming reports whether this is a credit leg.
func (t *Transaction) IsIncoming() bool { return t.AmountMinor > 0 }

// FormatMinor renders a minor-unit amount as dollars, e.g. 5000 -> "$50.00".
func FormatMinor(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s$%d.%02d", sign, minor/100, minor%100)
}

// Date is a calendar date (no time component) that marshals as "2006-01-02".
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// NewDate builds a Date at midnight UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO "2006-01-02" date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t}, nil
}

// DaysBetween returns the absolute whole-day difference between two dates.
func DaysBetween(a, b Date) int {
	d := a.Sub(b.Time)
	if d < 0 {
		d = -d
	}
	return int(d.Hours() / 24)
}

// MarshalJSON renders the date as a quoted ISO string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

// UnmarshalJSON parses a quoted ISO date string.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date literal: %s", s)
	}
	parsed, err := ParseDate(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// String returns the ISO form.
func (d Date) String() string { return d.Format(dateLayout) }

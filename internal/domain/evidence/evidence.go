// Package evidence derives comparable matching signals from a transaction
// record: normalized description tokens, transfer hint detection, and the
// structured payment metadata lifted into an explicit bundle.
//
// Extraction is a pure function. Missing fields yield empty evidence, never
// an error.
package evidence

import (
	"regexp"
	"strings"

	"github.com/ledgerlens/statement-backend/internal/domain/ledger"
)

// transferVocabulary is the fixed set of transfer-indicating words and
// phrases checked against the normalized description. Longer phrases are
// listed first so the recorded hint is the most specific one.
var transferVocabulary = []string{
	"internal transfer",
	"transfer to",
	"transfer from",
	"transfer",
	"xfer",
	"trf",
	"osko",
	"payid",
	"fast payment",
	"netbank transfer",
}

// merchantMarkers flag descriptions that look like card purchases or bill
// payments rather than account-to-account transfers.
var merchantMarkers = []string{
	"eftpos",
	"visa",
	"mastercard",
	"card purchase",
	"direct debit",
	"bpay",
	"paypal",
	"pos purchase",
	"atm withdrawal",
}

// directionalHint matches "to <name>" / "from <name>" phrasing, which banks
// commonly use on the transfer legs themselves.
var directionalHint = regexp.MustCompile(`\b(to|from)\s+[a-z]`)

var whitespace = regexp.MustCompile(`\s+`)

// AccountMeta is the statement-declared identity of one account, supplied by
// the parsing layer per bank+account.
type AccountMeta struct {
	BankID     string `json:"bank_id"`
	AccountID  string `json:"account_id"`
	Name       string `json:"name,omitempty"`
	AccountKey string `json:"account_key,omitempty"`
}

// Directory looks up declared account metadata by bank and account id.
type Directory struct {
	byAccount map[string]AccountMeta
}

// NewDirectory builds a Directory from parsed statement metadata.
func NewDirectory(metas []AccountMeta) *Directory {
	d := &Directory{byAccount: make(map[string]AccountMeta, len(metas))}
	for _, m := range metas {
		d.byAccount[directoryKey(m.BankID, m.AccountID)] = m
	}
	return d
}

// Lookup returns the declared metadata for an account, if any.
func (d *Directory) Lookup(bankID, accountID string) (AccountMeta, bool) {
	if d == nil {
		return AccountMeta{}, false
	}
	m, ok := d.byAccount[directoryKey(bankID, accountID)]
	return m, ok
}

func directoryKey(bankID, accountID string) string {
	return bankID + "/" + accountID
}

// Bundle is the normalized evidence extracted from one transaction.
// Empty strings mean the signal is absent.
type Bundle struct {
	Tokens []string `json:"tokens,omitempty"`
	Hints  []string `json:"hints,omitempty"`

	TransferType           string `json:"transfer_type,omitempty"`
	ReferenceID            string `json:"reference_id,omitempty"`
	PayID                  string `json:"pay_id,omitempty"`
	CounterpartyAccountKey string `json:"counterparty_account_key,omitempty"`
	CounterpartyName       string `json:"counterparty_name,omitempty"`

	// Self identity from statement metadata, used for closure checks
	// against the other leg's counterparty evidence.
	SelfAccountKey  string `json:"self_account_key,omitempty"`
	SelfAccountName string `json:"self_account_name,omitempty"`

	// MerchantLike is set when the description carries card-purchase or
	// bill-payment markers.
	MerchantLike bool `json:"merchant_like,omitempty"`
}

// HasTransferHint reports whether any transfer-indicating signal was found.
func (b Bundle) HasTransferHint() bool {
	return len(b.Hints) > 0 || b.TransferType != "" || b.PayID != "" ||
		b.CounterpartyAccountKey != "" || b.CounterpartyName != ""
}

// Extract derives the evidence bundle for one transaction. The directory may
// be nil when no statement metadata is available.
func Extract(tx *ledger.Transaction, dir *Directory) Bundle {
	desc := Normalize(tx.Description)
	if tx.Normalized != "" {
		desc = Normalize(tx.Normalized)
	}

	b := Bundle{}
	if desc != "" {
		b.Tokens = strings.Fields(desc)
	}

	for _, phrase := range transferVocabulary {
		if strings.Contains(desc, phrase) {
			b.Hints = append(b.Hints, phrase)
		}
	}
	if len(b.Hints) == 0 && directionalHint.MatchString(desc) {
		b.Hints = append(b.Hints, "to/from phrasing")
	}

	for _, marker := range merchantMarkers {
		if strings.Contains(desc, marker) {
			b.MerchantLike = true
			break
		}
	}

	if p := tx.Payment; p != nil {
		b.TransferType = strings.ToLower(strings.TrimSpace(p.TransferType))
		b.ReferenceID = strings.TrimSpace(p.ReferenceID)
		b.PayID = Normalize(p.PayID)
		b.CounterpartyAccountKey = strings.TrimSpace(p.CounterpartyAccountKey)
		b.CounterpartyName = Normalize(p.CounterpartyName)
		for _, h := range p.Hints {
			if n := Normalize(h); n != "" {
				b.Hints = append(b.Hints, n)
			}
		}
	}

	if meta, ok := dir.Lookup(tx.BankID, tx.AccountID); ok {
		b.SelfAccountKey = strings.TrimSpace(meta.AccountKey)
		b.SelfAccountName = Normalize(meta.Name)
	}

	return b
}

// Normalize lower-cases and collapses whitespace.
func Normalize(s string) string {
	return whitespace.ReplaceAllString(strings.TrimSpace(strings.ToLower(s)), " ")
}

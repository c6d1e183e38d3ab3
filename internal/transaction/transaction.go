// =============================================================================
// Finance Reports - Transaction Types
// =============================================================================
//
// This package contains the transaction record shared by every other module:
//   - source     (produces transactions from spreadsheets)
//   - aggregate  (totals, rollups, filters)
//   - search     (keyword matching)
//   - report     (JSON output)
//
// =============================================================================

package transaction

import (
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// MaskPrefix marks a card number where only the trailing digits are exposed,
// e.g. "*7197".
const MaskPrefix = "*"

// =============================================================================
// TRANSACTION
// =============================================================================

// Transaction is a single row of the bank export.
type Transaction struct {
	// Category is the bank-assigned spending category.
	Category string `json:"category"`

	// PaymentDate is nil when the cell was empty or unparseable.
	PaymentDate *civil.Date `json:"payment_date,omitempty"`

	// Amount is signed; negative values are expenses.
	Amount decimal.Decimal `json:"amount"`

	// CardNumber is usually masked ("*1234"), may be empty.
	CardNumber string `json:"card_number,omitempty"`

	// Cashback is the bonus credited for this operation, zero when absent.
	Cashback decimal.Decimal `json:"cashback"`

	// Description is the free-text merchant description.
	Description string `json:"description"`

	// Extra keeps every other column of the source row, keyed by header.
	Extra map[string]string `json:"extra,omitempty"`

	// Row is the 1-based source row number.
	Row int `json:"-"`
}

// IsExpense reports whether the amount is negative.
func (t Transaction) IsExpense() bool {
	return t.Amount.IsNegative()
}

// MaskedCardDigits returns the last four characters of a masked card number.
// ok is false for empty or unmasked card numbers.
func (t Transaction) MaskedCardDigits() (digits string, ok bool) {
	if !strings.HasPrefix(t.CardNumber, MaskPrefix) {
		return "", false
	}
	r := []rune(t.CardNumber)
	if len(r) > 4 {
		r = r[len(r)-4:]
	}
	return string(r), true
}

// HasDate reports whether a valid payment date is present.
func (t Transaction) HasDate() bool {
	return t.PaymentDate != nil && t.PaymentDate.IsValid()
}

// =============================================================================
// SET
// =============================================================================

// Set is an ordered sequence of transactions as loaded from the source.
type Set []Transaction

// Clone returns a shallow copy of the set so callers may reorder it freely.
func (s Set) Clone() Set {
	if s == nil {
		return nil
	}
	out := make(Set, len(s))
	copy(out, s)
	return out
}

// =============================================================================
// Finance Reports - Aggregator
// =============================================================================
//
// Pure functions over a transaction set. None of them mutate their input;
// each call rebuilds its result from scratch.
//
//   TotalExpenses                 sum of expenses as a positive magnitude
//   CardRollup                    spend and cashback per masked card
//   TopN                          largest transactions by signed amount
//   FilterByCategoryAndDateRange  category + [start, start+window) filter
//   CategoryExpenseOverPeriod     category sum over the months before a date
//
// =============================================================================

package aggregate

import (
	"sort"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/finreport/internal/transaction"
)

const (
	// DefaultTopN is the size of the "top transactions" list.
	DefaultTopN = 5

	// DefaultWindowDays is the length of the category report window.
	DefaultWindowDays = 90

	// DefaultPeriodMonths is the look-back of the category expense total.
	DefaultPeriodMonths = 3
)

// =============================================================================
// RESULT TYPES
// =============================================================================

// CardSummary is the rollup for one card, keyed by its last four digits.
type CardSummary struct {
	LastDigits string          `json:"last_digits"`
	TotalSpent decimal.Decimal `json:"total_spent"`
	Cashback   decimal.Decimal `json:"cashback"`
}

// CategoryExpense is the total of one category over a look-back period.
type CategoryExpense struct {
	Category      string          `json:"category"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	ReportDate    civil.Date      `json:"report_date"`
}

// =============================================================================
// TOTALS
// =============================================================================

// TotalExpenses sums the negative amounts and returns the magnitude.
// The result is zero when there are no expenses.
func TotalExpenses(set transaction.Set) decimal.Decimal {
	total := decimal.Zero
	for _, t := range set {
		if t.IsExpense() {
			total = total.Add(t.Amount)
		}
	}
	return total.Abs()
}

// CardRollup groups transactions by the last four digits of masked card
// numbers. Unmasked or empty card numbers are ignored. Each expense adds its
// magnitude rounded to one decimal place; cashback is added for every
// transaction of the card. Cards appear in first-seen order.
func CardRollup(set transaction.Set) []CardSummary {
	index := make(map[string]int)
	cards := make([]CardSummary, 0)

	for _, t := range set {
		digits, ok := t.MaskedCardDigits()
		if !ok {
			continue
		}

		i, seen := index[digits]
		if !seen {
			i = len(cards)
			index[digits] = i
			cards = append(cards, CardSummary{
				LastDigits: digits,
				TotalSpent: decimal.Zero,
				Cashback:   decimal.Zero,
			})
		}

		if t.IsExpense() {
			cards[i].TotalSpent = cards[i].TotalSpent.Add(t.Amount.Abs().Round(1))
		}
		cards[i].Cashback = cards[i].Cashback.Add(t.Cashback)
	}

	return cards
}

// TopN returns the n transactions with the largest signed amount, in
// descending order. Ties keep their original relative order. The input set
// is not reordered.
func TopN(set transaction.Set, n int) []transaction.Transaction {
	if n <= 0 {
		return []transaction.Transaction{}
	}

	sorted := set.Clone()
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Amount.GreaterThan(sorted[j].Amount)
	})

	if len(sorted) > n {
		sorted = sorted[:n]
	}
	if sorted == nil {
		return []transaction.Transaction{}
	}
	return sorted
}

// =============================================================================
// FILTERS
// =============================================================================

// FilterByCategoryAndDateRange returns the transactions of exactly the given
// category whose payment date lies in [start, start+windowDays).
// Transactions without a payment date never match.
func FilterByCategoryAndDateRange(set transaction.Set, category string, start civil.Date, windowDays int) []transaction.Transaction {
	end := start.AddDays(windowDays)

	out := make([]transaction.Transaction, 0)
	for _, t := range set {
		if t.Category != category || !t.HasDate() {
			continue
		}
		d := *t.PaymentDate
		if d.Before(start) || !d.Before(end) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// CategoryExpenseOverPeriod sums the amounts (signs kept) of the given
// category over [asOf - months, asOf], both ends inclusive. A zero asOf
// means today.
func CategoryExpenseOverPeriod(set transaction.Set, category string, asOf civil.Date, months int) CategoryExpense {
	if !asOf.IsValid() {
		asOf = civil.DateOf(time.Now())
	}
	from := SubMonths(asOf, months)

	total := decimal.Zero
	for _, t := range set {
		if t.Category != category || !t.HasDate() {
			continue
		}
		d := *t.PaymentDate
		if d.Before(from) || d.After(asOf) {
			continue
		}
		total = total.Add(t.Amount)
	}

	return CategoryExpense{
		Category:      category,
		TotalExpenses: total,
		ReportDate:    asOf,
	}
}

// SubMonths moves d back by the given number of calendar months. When the
// target month is shorter, the day is clamped to its last day
// (31 May - 3 months = 28/29 February).
func SubMonths(d civil.Date, months int) civil.Date {
	first := time.Date(d.Year, d.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -months, 0)
	lastDay := first.AddDate(0, 1, -1).Day()

	day := d.Day
	if day > lastDay {
		day = lastDay
	}
	return civil.Date{Year: first.Year(), Month: first.Month(), Day: day}
}

// =============================================================================
// Finance Reports - Row Decoder
// =============================================================================
//
// Decode converts a header row plus data rows (as produced by the XLSX, CSV
// and Google Sheets readers) into a Set. Columns are located by header name
// using configurable aliases, so the same decoder accepts both the bank's
// Russian export headers and snake_case exports.
//
// ERROR POLICY:
//   A malformed cell never aborts decoding. The affected field falls back to
//   its zero value (amount/cashback = 0, date = absent) and a warning is
//   returned for the caller to log.
//
// =============================================================================

package transaction

import (
	"strings"

	"github.com/ginjaninja78/finreport/internal/validation"
)

// =============================================================================
// COLUMN CONFIGURATION
// =============================================================================

// Columns lists, per logical field, the header names that may carry it.
// Matching is case-insensitive and ignores surrounding whitespace.
type Columns struct {
	Category    []string `yaml:"category"`
	PaymentDate []string `yaml:"payment_date"`
	Amount      []string `yaml:"amount"`
	CardNumber  []string `yaml:"card_number"`
	Cashback    []string `yaml:"cashback"`
	Description []string `yaml:"description"`
}

// DefaultColumns returns aliases for the bank's XLS export and for the
// snake_case column names used by hand-made spreadsheets.
func DefaultColumns() Columns {
	return Columns{
		Category:    []string{"category", "Категория"},
		PaymentDate: []string{"data_payment", "payment_date", "Дата платежа"},
		Amount:      []string{"transaction_amount", "payment_amount", "amount", "Сумма операции", "Сумма платежа"},
		CardNumber:  []string{"card_number", "Номер карты"},
		Cashback:    []string{"bonuses_including_cashback", "cashback", "Бонусы (включая кэшбэк)", "Кэшбэк"},
		Description: []string{"description", "Описание"},
	}
}

// columnIndex maps logical fields to header positions (-1 = absent).
type columnIndex struct {
	category, date, amount, card, cashback, description int
	known                                              map[int]bool
}

func locate(headers []string, cols Columns) columnIndex {
	normalized := make(map[string]int, len(headers))
	for i, h := range headers {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, seen := normalized[key]; !seen {
			normalized[key] = i
		}
	}

	idx := columnIndex{known: make(map[int]bool)}
	find := func(aliases []string) int {
		for _, a := range aliases {
			if i, ok := normalized[strings.ToLower(strings.TrimSpace(a))]; ok {
				idx.known[i] = true
				return i
			}
		}
		return -1
	}

	idx.category = find(cols.Category)
	idx.date = find(cols.PaymentDate)
	idx.amount = find(cols.Amount)
	idx.card = find(cols.CardNumber)
	idx.cashback = find(cols.Cashback)
	idx.description = find(cols.Description)
	return idx
}

// =============================================================================
// DECODER
// =============================================================================

// Decode converts rows into transactions. rows[0] is the header row; fully
// empty rows are skipped.
//
// RETURNS:
//   - The decoded set, in row order.
//   - Warnings for cells that could not be parsed.
func Decode(rows [][]string, cols Columns) (Set, []*validation.ValidationError) {
	if len(rows) == 0 {
		return Set{}, nil
	}

	headers := rows[0]
	idx := locate(headers, cols)

	set := make(Set, 0, len(rows)-1)
	var warnings []*validation.ValidationError

	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if isRowEmpty(row) {
			continue
		}
		rowNumber := i + 1

		cell := func(index int) string {
			if index >= 0 && index < len(row) {
				return strings.TrimSpace(row[index])
			}
			return ""
		}

		t := Transaction{
			Category:    cell(idx.category),
			CardNumber:  cell(idx.card),
			Description: cell(idx.description),
			Row:         rowNumber,
		}

		if raw := cell(idx.date); raw != "" {
			d, verr := validation.ParseDate("payment_date", raw)
			if verr != nil {
				warnings = append(warnings, verr.AsWarning(rowNumber))
			} else {
				t.PaymentDate = &d
			}
		}

		amount, verr := validation.ParseDecimal("amount", cell(idx.amount))
		if verr != nil {
			warnings = append(warnings, verr.AsWarning(rowNumber))
		}
		t.Amount = amount

		cashback, verr := validation.ParseDecimal("cashback", cell(idx.cashback))
		if verr != nil {
			warnings = append(warnings, verr.AsWarning(rowNumber))
		}
		t.Cashback = cashback

		for c, header := range headers {
			if idx.known[c] || c >= len(row) {
				continue
			}
			value := strings.TrimSpace(row[c])
			header = strings.TrimSpace(header)
			if value == "" || header == "" {
				continue
			}
			if t.Extra == nil {
				t.Extra = make(map[string]string)
			}
			t.Extra[header] = value
		}

		set = append(set, t)
	}

	return set, warnings
}

// isRowEmpty checks if a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

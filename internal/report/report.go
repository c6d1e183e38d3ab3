// =============================================================================
// Finance Reports - Report Writer
// =============================================================================
//
// JSON output for every flow. Files are written as UTF-8 with a four space
// indent; non-ASCII text (category names, greetings) is kept literally and
// HTML characters are not escaped. Decimal amounts are emitted as JSON
// numbers.
//
// PROCESS-WIDE SETTING:
//   Importing this package sets decimal.MarshalJSONWithoutQuotes, which
//   shopspring/decimal only offers as a package variable. Every
//   decimal.Decimal marshalled by the process is then written unquoted,
//   including values outside the report types.
//
// =============================================================================

package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/finreport/internal/aggregate"
	"github.com/ginjaninja78/finreport/internal/transaction"
)

// Indent is the indentation used for every report file.
const Indent = "    "

// init switches decimal JSON encoding to bare numbers for the whole process.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// =============================================================================
// DOCUMENTS
// =============================================================================

// CurrencyRate is one entry of the views report currency list.
type CurrencyRate struct {
	Currency string          `json:"currency"`
	Rate     decimal.Decimal `json:"rate"`
}

// StockPrice is one entry of the views report stock list.
type StockPrice struct {
	Stock string          `json:"stock"`
	Price decimal.Decimal `json:"price"`
}

// Document is the views report.
type Document struct {
	Greeting        string                    `json:"greeting"`
	TotalExpenses   decimal.Decimal           `json:"total_expenses"`
	CardData        []aggregate.CardSummary   `json:"card_data"`
	TopTransactions []transaction.Transaction `json:"top_transactions"`
	CurrencyRates   []CurrencyRate            `json:"currency_rates"`
	StockPrices     []StockPrice              `json:"stock_prices"`
}

// =============================================================================
// FILE I/O
// =============================================================================

// WriteJSON serializes data to path, creating the parent directory and
// truncating any existing file.
//
// PARAMETERS:
//   - path: destination file
//   - data: any JSON-serializable value
//
// RETURNS:
//   - error: if the directory, the file or the encoding fails
func WriteJSON(path string, data interface{}) error {
	buf, err := Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode report %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	if err := os.WriteFile(path, buf, 0644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return nil
}

// ReadJSON decodes the file at path into v.
func ReadJSON(path string, v interface{}) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open report file: %w", err)
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(v); err != nil {
		return fmt.Errorf("failed to decode report %s: %w", path, err)
	}
	return nil
}

// Marshal renders data exactly as WriteJSON stores it. The output ends with
// a newline.
func Marshal(data interface{}) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", Indent)

	if err := encoder.Encode(data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

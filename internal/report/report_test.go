package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/finreport/internal/aggregate"
	"github.com/ginjaninja78/finreport/internal/transaction"
)

func sampleDocument() Document {
	paid := civil.Date{Year: 2021, Month: 12, Day: 31}
	return Document{
		Greeting:      "Добрый день!",
		TotalExpenses: decimal.RequireFromString("1262.00"),
		CardData: []aggregate.CardSummary{
			{LastDigits: "5814", TotalSpent: decimal.RequireFromString("1262"), Cashback: decimal.RequireFromString("12.62")},
		},
		TopTransactions: []transaction.Transaction{
			{
				Category:    "Переводы",
				PaymentDate: &paid,
				Amount:      decimal.RequireFromString("20000"),
				Description: "Перевод <Константин Л.> & Co",
			},
		},
		CurrencyRates: []CurrencyRate{{Currency: "USD", Rate: decimal.RequireFromString("73.21")}},
		StockPrices:   []StockPrice{{Stock: "AAPL", Price: decimal.RequireFromString("150.12")}},
	}
}

func TestWriteReadRoundTripDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "operations_data.json")
	doc := sampleDocument()

	require.NoError(t, WriteJSON(path, doc))

	var got Document
	require.NoError(t, ReadJSON(path, &got))

	want, err := Marshal(doc)
	require.NoError(t, err)
	again, err := Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, string(want), string(again))
	assert.Equal(t, doc.Greeting, got.Greeting)
	assert.True(t, doc.TotalExpenses.Equal(got.TotalExpenses))
	require.NotNil(t, got.TopTransactions[0].PaymentDate)
	assert.Equal(t, *doc.TopTransactions[0].PaymentDate, *got.TopTransactions[0].PaymentDate)
}

func TestWriteReadRoundTripGeneric(t *testing.T) {
	path := filepath.Join(t.TempDir(), "services.json")
	data := []interface{}{
		map[string]interface{}{"message": "Слово не найдено ни где"},
		map[string]interface{}{"amount": -160.89, "tags": []interface{}{"a", "b"}},
	}

	require.NoError(t, WriteJSON(path, data))

	var got []interface{}
	require.NoError(t, ReadJSON(path, &got))
	assert.Equal(t, data, got)
}

func TestWriteJSONFormatting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports.json")
	require.NoError(t, WriteJSON(path, sampleDocument()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(raw)

	assert.Contains(t, text, "Добрый день!")
	assert.Contains(t, text, "<Константин Л.> & Co")
	assert.Contains(t, text, "\n    \"greeting\"")
	assert.Contains(t, text, `"total_expenses": 1262`)
	assert.Contains(t, text, `"payment_date": "2021-12-31"`)
	assert.False(t, strings.Contains(text, `\u`))
}

func TestDecimalsMarshalAsNumbers(t *testing.T) {
	assert.True(t, decimal.MarshalJSONWithoutQuotes)

	raw, err := json.Marshal(struct {
		Amount decimal.Decimal `json:"amount"`
	}{decimal.RequireFromString("-160.89")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount": -160.89}`, string(raw))
}

func TestWriteJSONTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports.json")
	require.NoError(t, WriteJSON(path, []string{strings.Repeat("x", 200)}))
	require.NoError(t, WriteJSON(path, []string{}))

	var got []string
	require.NoError(t, ReadJSON(path, &got))
	assert.Empty(t, got)
}

func TestReadJSONMissingFile(t *testing.T) {
	var v interface{}
	err := ReadJSON(filepath.Join(t.TempDir(), "absent.json"), &v)
	assert.Error(t, err)
}

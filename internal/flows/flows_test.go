package flows

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/finreport/internal/report"
	"github.com/ginjaninja78/finreport/internal/search"
	"github.com/ginjaninja78/finreport/internal/transaction"
	"github.com/ginjaninja78/finreport/pkg/utils"
)

// =============================================================================
// FAKES
// =============================================================================

type fakeLoader struct {
	set transaction.Set
	err error
}

func (f fakeLoader) Load(context.Context) (transaction.Set, error) { return f.set, f.err }

type fakeRates map[string]string

func (f fakeRates) Rate(_ context.Context, code string) (decimal.Decimal, error) {
	v, ok := f[code]
	if !ok {
		return decimal.Zero, errors.New("no rate for " + code)
	}
	return decimal.RequireFromString(v), nil
}

type fakePrices map[string]string

func (f fakePrices) High(_ context.Context, symbol string) (decimal.Decimal, error) {
	v, ok := f[symbol]
	if !ok {
		return decimal.Zero, errors.New("no price for " + symbol)
	}
	return decimal.RequireFromString(v), nil
}

func day(y, m, d int) *civil.Date {
	return &civil.Date{Year: y, Month: time.Month(m), Day: d}
}

func statement() transaction.Set {
	return transaction.Set{
		{Category: "Супермаркеты", PaymentDate: day(2021, 12, 31), Amount: decimal.RequireFromString("-160.89"), CardNumber: "*7197", Cashback: decimal.RequireFromString("3"), Description: "Колхоз"},
		{Category: "Переводы", PaymentDate: day(2021, 12, 30), Amount: decimal.RequireFromString("20000"), Description: "Константин Л."},
		{Category: "Кафе", PaymentDate: day(2021, 11, 10), Amount: decimal.RequireFromString("-250"), CardNumber: "*5091", Description: "Visited a CAFE"},
	}
}

type fixture struct {
	runner *Runner
	out    *bytes.Buffer
	dir    string
}

func newFixture(t *testing.T, loader Loader, rates RateProvider, prices PriceProvider) fixture {
	t.Helper()
	dir := t.TempDir()
	out := &bytes.Buffer{}
	files := utils.NewFileManager(dir, "")
	names := OutputNames{Views: "operations_data.json", Reports: "reports.json", Services: "services.json"}

	runner := New(Options{
		Loader:   loader,
		Searcher: search.NewSearcher(staticReader{loader}, "operations.xlsx", files.ReportPath(names.Services), zerolog.Nop()),
		Rates:    rates,
		Prices:   prices,
		Files:    files,
		Names:    names,
		Settings: Settings{
			TopN:          5,
			WindowDays:    90,
			PeriodMonths:  3,
			CurrencyCodes: []string{"USD", "EUR"},
			StockSymbols:  []string{"AAPL", "MSFT"},
		},
		Out: out,
		Log: zerolog.Nop(),
		Now: func() time.Time { return time.Date(2021, 12, 31, 9, 0, 0, 0, time.UTC) },
	})
	return fixture{runner: runner, out: out, dir: dir}
}

// staticReader adapts a Loader to the strict reader used by search.
type staticReader struct{ loader Loader }

func (s staticReader) Read(ctx context.Context) (transaction.Set, error) { return s.loader.Load(ctx) }

// =============================================================================
// GREETING
// =============================================================================

func TestGreetingBoundaries(t *testing.T) {
	tests := []struct {
		hour int
		want string
	}{
		{4, GreetingNight},
		{5, GreetingMorning},
		{11, GreetingMorning},
		{12, GreetingAfternoon},
		{17, GreetingAfternoon},
		{18, GreetingEvening},
		{22, GreetingEvening},
		{23, GreetingNight},
		{0, GreetingNight},
	}

	for _, tt := range tests {
		at := time.Date(2024, 5, 1, tt.hour, 30, 0, 0, time.UTC)
		assert.Equal(t, tt.want, Greeting(at), "hour %d", tt.hour)
	}
}

// =============================================================================
// VIEWS
// =============================================================================

func TestViewsWritesAndPrintsReport(t *testing.T) {
	f := newFixture(t,
		fakeLoader{set: statement()},
		fakeRates{"USD": "73.21", "EUR": "82.87"},
		fakePrices{"AAPL": "150.12", "MSFT": "310.5"},
	)

	doc, err := f.runner.Views(context.Background(), ViewsParams{At: time.Date(2021, 12, 31, 16, 44, 0, 0, time.UTC)})
	require.NoError(t, err)

	assert.Equal(t, GreetingAfternoon, doc.Greeting)
	assert.True(t, doc.TotalExpenses.Equal(decimal.RequireFromString("410.89")))
	require.Len(t, doc.CardData, 2)
	assert.Equal(t, "7197", doc.CardData[0].LastDigits)
	require.Len(t, doc.TopTransactions, 3)
	assert.Equal(t, "Константин Л.", doc.TopTransactions[0].Description)
	require.Len(t, doc.CurrencyRates, 2)
	assert.Equal(t, "EUR", doc.CurrencyRates[1].Currency)
	require.Len(t, doc.StockPrices, 2)
	assert.True(t, doc.StockPrices[1].Price.Equal(decimal.RequireFromString("310.5")))

	var stored report.Document
	require.NoError(t, report.ReadJSON(filepath.Join(f.dir, "operations_data.json"), &stored))
	assert.Equal(t, doc.Greeting, stored.Greeting)

	assert.Contains(t, f.out.String(), `"greeting": "Добрый день!"`)
	assert.Contains(t, f.out.String(), `"stock": "MSFT"`)
}

func TestViewsDefaultsToNow(t *testing.T) {
	f := newFixture(t, fakeLoader{}, fakeRates{"USD": "1", "EUR": "1"}, fakePrices{"AAPL": "1", "MSFT": "1"})

	doc, err := f.runner.Views(context.Background(), ViewsParams{})
	require.NoError(t, err)
	assert.Equal(t, GreetingMorning, doc.Greeting)
	assert.True(t, doc.TotalExpenses.IsZero())
	assert.Empty(t, doc.CardData)
	assert.Empty(t, doc.TopTransactions)
}

func TestViewsAbortsOnLookupFailure(t *testing.T) {
	f := newFixture(t, fakeLoader{set: statement()}, fakeRates{"USD": "73.21"}, fakePrices{})

	_, err := f.runner.Views(context.Background(), ViewsParams{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EUR")
	assert.NoFileExists(t, filepath.Join(f.dir, "operations_data.json"))
}

// =============================================================================
// REPORTS
// =============================================================================

func TestReportsFiltersAndWrites(t *testing.T) {
	f := newFixture(t, fakeLoader{set: statement()}, fakeRates{}, fakePrices{})

	got, err := f.runner.Reports(context.Background(), ReportsParams{
		Category: "Кафе",
		Start:    civil.Date{Year: 2021, Month: 11, Day: 1},
	})
	require.NoError(t, err)
	require.Len(t, got, 1)

	var stored []transaction.Transaction
	require.NoError(t, report.ReadJSON(filepath.Join(f.dir, "reports.json"), &stored))
	require.Len(t, stored, 1)
	assert.Equal(t, "Visited a CAFE", stored[0].Description)
}

func TestReportsRejectsZeroDate(t *testing.T) {
	f := newFixture(t, fakeLoader{set: statement()}, fakeRates{}, fakePrices{})

	_, err := f.runner.Reports(context.Background(), ReportsParams{Category: "Кафе"})
	assert.Error(t, err)
}

// =============================================================================
// SERVICES
// =============================================================================

func TestServicesSearchAndExpense(t *testing.T) {
	f := newFixture(t, fakeLoader{set: statement()}, fakeRates{}, fakePrices{})

	res, err := f.runner.Services(context.Background(), ServicesParams{Term: "cafe", Category: "Кафе"})
	require.NoError(t, err)

	assert.Equal(t, search.Found, res.Search.Outcome)
	require.Len(t, res.Search.Matches, 1)
	assert.Equal(t, civil.Date{Year: 2021, Month: 12, Day: 31}, res.Expense.ReportDate)
	assert.True(t, res.Expense.TotalExpenses.Equal(decimal.RequireFromString("-250")))

	assert.FileExists(t, filepath.Join(f.dir, "services.json"))
	assert.Contains(t, f.out.String(), `"category": "Кафе"`)
	assert.Contains(t, f.out.String(), `"total_expenses": -250`)
}

func TestServicesNotFoundSentinel(t *testing.T) {
	f := newFixture(t, fakeLoader{set: statement()}, fakeRates{}, fakePrices{})

	res, err := f.runner.Services(context.Background(), ServicesParams{
		Term:       "airline",
		Category:   "Кафе",
		ReportDate: civil.Date{Year: 2021, Month: 10, Day: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, search.NotFound, res.Search.Outcome)
	assert.True(t, res.Expense.TotalExpenses.IsZero())
	assert.Contains(t, f.out.String(), search.NotFoundMessage)
}

// =============================================================================
// RUN
// =============================================================================

func TestRunAllContinuesAfterFailure(t *testing.T) {
	f := newFixture(t, fakeLoader{set: statement()}, fakeRates{}, fakePrices{})

	err := f.runner.RunAll(context.Background(), RunParams{
		Reports:  ReportsParams{Category: "Кафе", Start: civil.Date{Year: 2021, Month: 11, Day: 1}},
		Services: ServicesParams{Term: "cafe", Category: "Кафе"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "views")

	assert.FileExists(t, filepath.Join(f.dir, "reports.json"))
	assert.FileExists(t, filepath.Join(f.dir, "services.json"))
}

func TestLoadFailureAbortsFlow(t *testing.T) {
	f := newFixture(t, fakeLoader{err: errors.New("corrupt workbook")}, fakeRates{}, fakePrices{})

	_, err := f.runner.Reports(context.Background(), ReportsParams{Category: "Кафе", Start: civil.Date{Year: 2021, Month: 1, Day: 1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corrupt workbook")
}

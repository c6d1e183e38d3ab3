// =============================================================================
// Finance Reports - Flows
// =============================================================================
//
// This module composes the other packages into the three user-facing flows:
//
//   FLOW      INPUT                          OUTPUT FILE
//   views     optional timestamp             operations_data.json
//   reports   category, start date           reports.json
//   services  search term, category, date    services.json
//
// PIPELINE (views):
//   1. Pick the greeting for the requested time
//   2. Load the statement (a missing file yields an empty set)
//   3. Total expenses, card rollup, top transactions
//   4. Currency rates and stock prices (first failure aborts the flow)
//   5. Write the report, read it back and print it
//
// Every run gets its own run_id in the log. Flows run one at a time; an
// error aborts the current flow only.
//
// =============================================================================

package flows

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/finreport/internal/report"
	"github.com/ginjaninja78/finreport/internal/search"
	"github.com/ginjaninja78/finreport/internal/transaction"
	"github.com/ginjaninja78/finreport/pkg/utils"
)

// =============================================================================
// COLLABORATORS
// =============================================================================

// Loader provides the transaction set.
type Loader interface {
	Load(ctx context.Context) (transaction.Set, error)
}

// Searcher runs a keyword search and stores its result.
type Searcher interface {
	Run(ctx context.Context, term string) search.Result
}

// RateProvider returns the conversion rate of a currency.
type RateProvider interface {
	Rate(ctx context.Context, code string) (decimal.Decimal, error)
}

// PriceProvider returns the daily high of a stock.
type PriceProvider interface {
	High(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// =============================================================================
// RUNNER
// =============================================================================

// Settings tunes the calculations and lookups.
type Settings struct {
	TopN          int
	WindowDays    int
	PeriodMonths  int
	CurrencyCodes []string
	StockSymbols  []string
}

// OutputNames are the report file names inside the output directory.
type OutputNames struct {
	Views    string
	Reports  string
	Services string
}

// Options wires a Runner.
type Options struct {
	Loader   Loader
	Searcher Searcher
	Rates    RateProvider
	Prices   PriceProvider
	Files    *utils.FileManager
	Names    OutputNames
	Settings Settings

	// Out receives the printed results, os.Stdout when nil.
	Out io.Writer
	Log zerolog.Logger

	// Now is the clock used for defaults, time.Now when nil.
	Now func() time.Time
}

// Runner executes the flows.
type Runner struct {
	loader   Loader
	searcher Searcher
	rates    RateProvider
	prices   PriceProvider
	files    *utils.FileManager
	names    OutputNames
	settings Settings
	out      io.Writer
	log      zerolog.Logger
	now      func() time.Time
}

// New creates a Runner from opts.
func New(opts Options) *Runner {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Runner{
		loader:   opts.Loader,
		searcher: opts.Searcher,
		rates:    opts.Rates,
		prices:   opts.Prices,
		files:    opts.Files,
		names:    opts.Names,
		settings: opts.Settings,
		out:      out,
		log:      opts.Log,
		now:      now,
	}
}

// startRun returns a logger tagged with a fresh run id for flow.
func (r *Runner) startRun(flow string) zerolog.Logger {
	log := r.log.With().
		Str("flow", flow).
		Str("run_id", uuid.NewString()).
		Logger()
	log.Info().Msg("flow started")
	return log
}

// writeReport archives the previous report and writes data in its place.
func (r *Runner) writeReport(log zerolog.Logger, name string, data interface{}) (string, error) {
	archived, err := r.files.ArchivePrevious(name)
	if err != nil {
		return "", err
	}
	if archived != "" {
		log.Debug().Str("archive", archived).Msg("previous report archived")
	}

	path := r.files.ReportPath(name)
	if err := report.WriteJSON(path, data); err != nil {
		return "", err
	}
	log.Info().Str("output", path).Msg("report written")
	return path, nil
}

// print writes data to the console in report format.
func (r *Runner) print(data interface{}) error {
	buf, err := report.Marshal(data)
	if err != nil {
		return err
	}
	_, err = r.out.Write(buf)
	return err
}

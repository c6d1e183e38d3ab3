package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/ginjaninja78/finreport/internal/config"
	"github.com/ginjaninja78/finreport/internal/flows"
	"github.com/ginjaninja78/finreport/internal/rates"
	"github.com/ginjaninja78/finreport/internal/search"
	"github.com/ginjaninja78/finreport/internal/sheets/google"
	"github.com/ginjaninja78/finreport/internal/source"
	"github.com/ginjaninja78/finreport/pkg/utils"
)

// application holds everything a flow command needs.
type application struct {
	cfg    *config.Config
	log    zerolog.Logger
	closer io.Closer
	runner *flows.Runner
}

// newApplication wires the flows from cfg.
func newApplication(ctx context.Context, cfg *config.Config, log zerolog.Logger, closer io.Closer, out io.Writer) (*application, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	rows, err := rowReader(ctx, cfg)
	if err != nil {
		return nil, err
	}

	files := utils.NewFileManager(cfg.Output.Dir, cfg.Output.ArchiveDir)
	files.UseTimestampSubdirs = cfg.Output.ArchiveByDate
	if err := files.EnsureDirectories(); err != nil {
		return nil, err
	}

	statement := cfg.StatementName()
	loader := source.New(rows, cfg.Columns, statement, log)
	httpClient := &http.Client{}

	runner := flows.New(flows.Options{
		Loader:   loader,
		Searcher: search.NewSearcher(loader, statement, files.ReportPath(cfg.Output.Services), log),
		Rates: &rates.CurrencyClient{
			BaseURL: cfg.Currency.BaseURL,
			APIKey:  cfg.Currency.APIKey,
			Target:  cfg.Currency.Target,
			Timeout: cfg.Currency.Timeout,
			HTTP:    httpClient,
		},
		Prices: &rates.StockClient{
			BaseURL: cfg.Stocks.BaseURL,
			Timeout: cfg.Stocks.Timeout,
			HTTP:    httpClient,
		},
		Files: files,
		Names: flows.OutputNames{
			Views:    cfg.Output.Views,
			Reports:  cfg.Output.Reports,
			Services: cfg.Output.Services,
		},
		Settings: flows.Settings{
			TopN:          cfg.Aggregation.TopN,
			WindowDays:    cfg.Aggregation.WindowDays,
			PeriodMonths:  cfg.Aggregation.PeriodMonths,
			CurrencyCodes: cfg.Currency.Codes,
			StockSymbols:  cfg.Stocks.Symbols,
		},
		Out: out,
		Log: log,
	})

	log.Debug().
		Str("input", cfg.Input.Path).
		Str("kind", cfg.Input.Kind).
		Str("output_dir", cfg.Output.Dir).
		Msg("application configured")

	return &application{cfg: cfg, log: log, closer: closer, runner: runner}, nil
}

// rowReader selects the statement backend.
func rowReader(ctx context.Context, cfg *config.Config) (source.RowReader, error) {
	switch cfg.Input.Kind {
	case config.KindSheets:
		client, err := google.New(ctx, cfg.Sheets)
		if err != nil {
			return nil, fmt.Errorf("failed to create sheets client: %w", err)
		}
		return client, nil
	default:
		return source.FileRows{
			Path:  cfg.Input.Path,
			Sheet: cfg.Input.Sheet,
			CSV:   cfg.Input.CSV,
		}, nil
	}
}

// Close flushes and closes the log file.
func (a *application) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// =============================================================================
// Finance Reports - Transaction Source
// =============================================================================
//
// This module loads the transaction set from the configured statement:
//
//   SOURCE KIND         BACKEND
//   file (.xlsx/.xlsm)  excelize (internal/xlsxparser)
//   file (.csv)         encoding/csv (internal/csvparser)
//   sheets              Google Sheets API (internal/sheets/google)
//
// Two entry points are offered:
//   - Read: strict, a missing statement is reported as ErrNotFound
//   - Load: soft, a missing statement yields an empty set and a log entry
//
// =============================================================================

package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ginjaninja78/finreport/internal/csvparser"
	"github.com/ginjaninja78/finreport/internal/transaction"
	"github.com/ginjaninja78/finreport/internal/validation"
	"github.com/ginjaninja78/finreport/internal/xlsxparser"
)

// ErrNotFound is returned by Read when the statement file does not exist.
var ErrNotFound = errors.New("statement not found")

// RowReader produces the raw rows of a statement, header row first.
type RowReader interface {
	Rows(ctx context.Context) ([][]string, error)
}

// =============================================================================
// FILE ROW READER
// =============================================================================

// FileRows reads a statement from disk, choosing the parser by extension.
type FileRows struct {
	Path  string
	Sheet string
	CSV   csvparser.Settings
}

// Rows implements RowReader.
func (f FileRows) Rows(_ context.Context) ([][]string, error) {
	var (
		rows [][]string
		err  error
	)

	switch strings.ToLower(filepath.Ext(f.Path)) {
	case ".csv", ".txt":
		rows, err = csvparser.Parse(f.Path, f.CSV)
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		rows, err = xlsxparser.Parse(f.Path, f.Sheet)
	default:
		return nil, fmt.Errorf("unsupported statement format: %s", f.Path)
	}

	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, f.Path)
	}
	return rows, err
}

// =============================================================================
// LOADER
// =============================================================================

// Loader turns raw rows into a transaction set.
type Loader struct {
	rows    RowReader
	columns transaction.Columns
	name    string
	log     zerolog.Logger
}

// New creates a Loader. name identifies the statement in log entries.
func New(rows RowReader, columns transaction.Columns, name string, log zerolog.Logger) *Loader {
	return &Loader{
		rows:    rows,
		columns: columns,
		name:    name,
		log:     log.With().Str("component", "source").Str("statement", name).Logger(),
	}
}

// Read loads the statement. A missing file is reported as ErrNotFound;
// malformed cells are logged as warnings and do not fail the read.
func (l *Loader) Read(ctx context.Context) (transaction.Set, error) {
	l.log.Info().Msg("reading statement")

	rows, err := l.rows.Rows(ctx)
	if err != nil {
		return nil, err
	}

	set, warnings := transaction.Decode(rows, l.columns)
	logWarnings(l.log, warnings)

	l.log.Info().Int("transactions", len(set)).Msg("statement loaded")
	return set, nil
}

// Load is the soft variant of Read: when the statement is missing it logs
// the condition and returns an empty set. Other failures are returned.
func (l *Loader) Load(ctx context.Context) (transaction.Set, error) {
	set, err := l.Read(ctx)
	if errors.Is(err, ErrNotFound) {
		l.log.Error().Err(err).Msg("statement file not found, continuing with no transactions")
		return transaction.Set{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load statement: %w", err)
	}
	return set, nil
}

func logWarnings(log zerolog.Logger, warnings []*validation.ValidationError) {
	for _, w := range warnings {
		log.Warn().
			Int("row", w.RowNumber).
			Str("field", w.Field).
			Str("value", w.Value).
			Msg(w.Message)
	}
}

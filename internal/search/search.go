// =============================================================================
// Finance Reports - Keyword Search
// =============================================================================
//
// Case-insensitive keyword search over the description and category of
// every transaction.
//
//   OUTCOME    PAYLOAD                                  WRITTEN TO FILE
//   Found      matching transactions                    yes
//   NotFound   [{"message": "Слово не найдено ни где"}] yes
//   Failed     {"error": "..."}                         no
//
// =============================================================================

package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ginjaninja78/finreport/internal/report"
	"github.com/ginjaninja78/finreport/internal/source"
	"github.com/ginjaninja78/finreport/internal/transaction"
)

const (
	// NotFoundMessage is the sentinel text returned when nothing matches.
	NotFoundMessage = "Слово не найдено ни где"

	fileNotFoundFormat = "Файл %s не найден."
	failurePrefix      = "Произошла ошибка: "
)

// Outcome distinguishes the three kinds of search result.
type Outcome int

const (
	Found Outcome = iota
	NotFound
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Found:
		return "found"
	case NotFound:
		return "not_found"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Message is the single element of the "not found" sentinel.
type Message struct {
	Message string `json:"message"`
}

// Failure is the structured error payload.
type Failure struct {
	Error string `json:"error"`
}

// Result is the outcome of one search.
type Result struct {
	Outcome Outcome
	Matches []transaction.Transaction
	Error   string
}

// Payload returns the JSON-serializable form of the result.
func (r Result) Payload() interface{} {
	switch r.Outcome {
	case Found:
		return r.Matches
	case NotFound:
		return []Message{{Message: NotFoundMessage}}
	default:
		return Failure{Error: r.Error}
	}
}

// Match returns the transactions whose description or category contains
// term, ignoring case. An empty term matches everything.
func Match(set transaction.Set, term string) []transaction.Transaction {
	needle := strings.ToLower(term)

	out := make([]transaction.Transaction, 0)
	for _, t := range set {
		if strings.Contains(strings.ToLower(t.Description), needle) ||
			strings.Contains(strings.ToLower(t.Category), needle) {
			out = append(out, t)
		}
	}
	return out
}

// =============================================================================
// SEARCHER
// =============================================================================

// Reader is the strict transaction source used by the searcher.
type Reader interface {
	Read(ctx context.Context) (transaction.Set, error)
}

// Searcher runs a keyword search against a statement and stores the result.
type Searcher struct {
	reader    Reader
	statement string
	output    string
	log       zerolog.Logger
}

// NewSearcher creates a Searcher. statement is the file name quoted in the
// "file not found" message; output is the JSON file receiving the result.
func NewSearcher(reader Reader, statement, output string, log zerolog.Logger) *Searcher {
	return &Searcher{
		reader:    reader,
		statement: statement,
		output:    output,
		log:       log.With().Str("component", "search").Logger(),
	}
}

// Run searches for term. It never returns an error: failures are reported
// through a Failed result.
func (s *Searcher) Run(ctx context.Context, term string) Result {
	s.log.Info().Str("term", term).Msg("keyword search started")

	set, err := s.reader.Read(ctx)
	if errors.Is(err, source.ErrNotFound) {
		msg := fmt.Sprintf(fileNotFoundFormat, s.statement)
		s.log.Error().Err(err).Msg(msg)
		return Result{Outcome: Failed, Error: msg}
	}
	if err != nil {
		return s.fail(err)
	}

	result := Result{Outcome: NotFound}
	if matches := Match(set, term); len(matches) > 0 {
		result = Result{Outcome: Found, Matches: matches}
	}

	if err := report.WriteJSON(s.output, result.Payload()); err != nil {
		return s.fail(err)
	}

	s.log.Info().
		Stringer("outcome", result.Outcome).
		Int("matches", len(result.Matches)).
		Str("output", s.output).
		Msg("keyword search finished")
	return result
}

func (s *Searcher) fail(err error) Result {
	msg := failurePrefix + err.Error()
	s.log.Error().Err(err).Msg(msg)
	return Result{Outcome: Failed, Error: msg}
}

package flows

import (
	"context"
	"fmt"

	"cloud.google.com/go/civil"

	"github.com/ginjaninja78/finreport/internal/aggregate"
	"github.com/ginjaninja78/finreport/internal/transaction"
)

// ReportsParams are the inputs of the reports flow.
type ReportsParams struct {
	Category string
	Start    civil.Date
}

// Reports writes the transactions of one category inside the window that
// starts at p.Start.
func (r *Runner) Reports(ctx context.Context, p ReportsParams) ([]transaction.Transaction, error) {
	log := r.startRun("reports")

	if !p.Start.IsValid() {
		return nil, fmt.Errorf("reports: invalid start date %s", p.Start)
	}

	set, err := r.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("reports: %w", err)
	}

	filtered := aggregate.FilterByCategoryAndDateRange(set, p.Category, p.Start, r.settings.WindowDays)
	log.Info().
		Str("category", p.Category).
		Stringer("start", p.Start).
		Int("matches", len(filtered)).
		Msg("transactions filtered")

	if _, err := r.writeReport(log, r.names.Reports, filtered); err != nil {
		return nil, fmt.Errorf("reports: %w", err)
	}

	log.Info().Msg("flow finished")
	return filtered, nil
}

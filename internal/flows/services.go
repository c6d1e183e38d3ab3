package flows

import (
	"context"
	"fmt"

	"cloud.google.com/go/civil"

	"github.com/ginjaninja78/finreport/internal/aggregate"
	"github.com/ginjaninja78/finreport/internal/search"
)

// ServicesParams are the inputs of the services flow.
type ServicesParams struct {
	Term     string
	Category string

	// ReportDate ends the look-back period; zero means today.
	ReportDate civil.Date
}

// ServicesResult holds both halves of the services flow.
type ServicesResult struct {
	Search  search.Result
	Expense aggregate.CategoryExpense
}

// Services runs the keyword search and the category expense total,
// printing each result.
func (r *Runner) Services(ctx context.Context, p ServicesParams) (ServicesResult, error) {
	log := r.startRun("services")

	if _, err := r.files.ArchivePrevious(r.names.Services); err != nil {
		return ServicesResult{}, fmt.Errorf("services: %w", err)
	}

	found := r.searcher.Run(ctx, p.Term)
	if err := r.print(found.Payload()); err != nil {
		return ServicesResult{}, fmt.Errorf("services: %w", err)
	}

	set, err := r.loader.Load(ctx)
	if err != nil {
		return ServicesResult{}, fmt.Errorf("services: %w", err)
	}

	reportDate := p.ReportDate
	if !reportDate.IsValid() {
		reportDate = civil.DateOf(r.now())
	}
	expense := aggregate.CategoryExpenseOverPeriod(set, p.Category, reportDate, r.settings.PeriodMonths)
	if err := r.print(expense); err != nil {
		return ServicesResult{}, fmt.Errorf("services: %w", err)
	}

	log.Info().
		Stringer("search", found.Outcome).
		Str("category", p.Category).
		Stringer("total_expenses", expense.TotalExpenses).
		Msg("flow finished")
	return ServicesResult{Search: found, Expense: expense}, nil
}

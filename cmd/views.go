// =============================================================================
// Finance Reports - Flow Commands
// =============================================================================
//
// COMMAND USAGE:
//   finreport views    [--time "YYYY-MM-DD HH:MM:SS"]
//   finreport reports  [--category NAME] [--start DATE]
//   finreport services [--term TEXT] [--category NAME] [--date DATE]
//
// DATE accepts YYYY-MM-DD or DD.MM.YYYY. Missing flags are prompted for;
// an empty answer to an optional question means "now" or "today".
//
// =============================================================================

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/finreport/internal/flows"
)

const (
	questionTime     = "Enter date and time (YYYY-MM-DD HH:MM:SS), empty for now:"
	questionCategory = "Enter category:"
	questionStart    = "Enter start date (YYYY-MM-DD or DD.MM.YYYY):"
	questionTerm     = "Enter search term:"
	questionDate     = "Enter report date (YYYY-MM-DD or DD.MM.YYYY), empty for today:"
)

// =============================================================================
// VIEWS
// =============================================================================

var viewsCmd = &cobra.Command{
	Use:         "views",
	Short:       "Write the main report: greeting, expenses, cards, top transactions, rates",
	Annotations: flowAnnotations,
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := readViewsParams(cmd, newPrompter(cmd), "time")
		if err != nil {
			return err
		}
		_, err = app.runner.Views(cmd.Context(), params)
		return err
	},
}

func readViewsParams(cmd *cobra.Command, p *prompter, timeFlag string) (flows.ViewsParams, error) {
	raw, err := p.value(cmd, timeFlag, questionTime)
	if err != nil {
		return flows.ViewsParams{}, err
	}

	var problems inputErrors
	at := problems.optionalTimestamp(timeFlag, raw)
	return flows.ViewsParams{At: at}, problems.err()
}

// =============================================================================
// REPORTS
// =============================================================================

var reportsCmd = &cobra.Command{
	Use:         "reports",
	Short:       "Write the transactions of a category over the window after a start date",
	Annotations: flowAnnotations,
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := readReportsParams(cmd, newPrompter(cmd), "category", "start")
		if err != nil {
			return err
		}
		_, err = app.runner.Reports(cmd.Context(), params)
		return err
	},
}

func readReportsParams(cmd *cobra.Command, p *prompter, categoryFlag, startFlag string) (flows.ReportsParams, error) {
	category, err := p.value(cmd, categoryFlag, questionCategory)
	if err != nil {
		return flows.ReportsParams{}, err
	}
	start, err := p.value(cmd, startFlag, questionStart)
	if err != nil {
		return flows.ReportsParams{}, err
	}

	var problems inputErrors
	params := flows.ReportsParams{
		Category: problems.text(categoryFlag, category),
		Start:    problems.date(startFlag, start),
	}
	return params, problems.err()
}

// =============================================================================
// SERVICES
// =============================================================================

var servicesCmd = &cobra.Command{
	Use:         "services",
	Short:       "Search transactions by keyword and total a category over the last months",
	Annotations: flowAnnotations,
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := readServicesParams(cmd, newPrompter(cmd), "term", "category", "date")
		if err != nil {
			return err
		}
		_, err = app.runner.Services(cmd.Context(), params)
		return err
	},
}

func readServicesParams(cmd *cobra.Command, p *prompter, termFlag, categoryFlag, dateFlag string) (flows.ServicesParams, error) {
	term, err := p.value(cmd, termFlag, questionTerm)
	if err != nil {
		return flows.ServicesParams{}, err
	}
	category, err := p.value(cmd, categoryFlag, questionCategory)
	if err != nil {
		return flows.ServicesParams{}, err
	}
	date, err := p.value(cmd, dateFlag, questionDate)
	if err != nil {
		return flows.ServicesParams{}, err
	}

	var problems inputErrors
	params := flows.ServicesParams{
		Term:       problems.text(termFlag, term),
		Category:   problems.text(categoryFlag, category),
		ReportDate: problems.optionalDate(dateFlag, date),
	}
	return params, problems.err()
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	viewsCmd.Flags().String("time", "", "Timestamp used for the greeting (YYYY-MM-DD HH:MM:SS)")

	reportsCmd.Flags().String("category", "", "Category to report on")
	reportsCmd.Flags().String("start", "", "First day of the report window")

	servicesCmd.Flags().String("term", "", "Keyword to search in descriptions and categories")
	servicesCmd.Flags().String("category", "", "Category to total")
	servicesCmd.Flags().String("date", "", "Last day of the period to total")

	rootCmd.AddCommand(viewsCmd, reportsCmd, servicesCmd)
}

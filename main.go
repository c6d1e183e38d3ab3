// =============================================================================
// Finance Reports - Main Entry Point
// =============================================================================
//
// USAGE:
//   finreport views     - Greeting, expenses, cards, top transactions, rates
//   finreport reports   - Transactions of a category over a date window
//   finreport services  - Keyword search and category expense total
//   finreport run       - All three flows in sequence
//   finreport version   - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Statement loading, aggregation, search, lookups, reports
//   - pkg/       : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/finreport/cmd"
)

func main() {
	cmd.Execute()
}

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/finreport/internal/flows"
)

// runCmd runs every flow in sequence, asking for all inputs up front.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run views, reports and services in sequence",
	Long: `Run asks for the inputs of all three flows, then runs views, reports and
services one after another. A failing flow does not stop the next one; the
command exits with an error if any flow failed.`,
	Annotations: flowAnnotations,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := newPrompter(cmd)

		views, err := readViewsParams(cmd, p, "time")
		if err != nil {
			return err
		}
		reports, err := readReportsParams(cmd, p, "category", "start")
		if err != nil {
			return err
		}
		services, err := readServicesParams(cmd, p, "term", "services-category", "date")
		if err != nil {
			return err
		}

		return app.runner.RunAll(cmd.Context(), flows.RunParams{
			Views:    views,
			Reports:  reports,
			Services: services,
		})
	},
}

func init() {
	runCmd.Flags().String("time", "", "Timestamp used for the greeting (YYYY-MM-DD HH:MM:SS)")
	runCmd.Flags().String("category", "", "Category for the reports flow")
	runCmd.Flags().String("start", "", "First day of the reports window")
	runCmd.Flags().String("term", "", "Keyword for the services search")
	runCmd.Flags().String("services-category", "", "Category totalled by the services flow")
	runCmd.Flags().String("date", "", "Last day of the services period")

	rootCmd.AddCommand(runCmd)
}

// =============================================================================
// Finance Reports - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Every flow is a
// subcommand of it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (finreport)
//   ├── viewsCmd    (finreport views)
//   ├── reportsCmd  (finreport reports)
//   ├── servicesCmd (finreport services)
//   ├── runCmd      (finreport run)
//   └── versionCmd  (finreport version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Loading .env and the configuration file
//   3. Opening the log file and wiring the flows
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/finreport/internal/config"
	"github.com/ginjaninja78/finreport/internal/logging"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
var cfgFile string

// verbose mirrors the log to stderr and lowers the level to debug.
var verbose bool

// app is built by the root PersistentPreRunE and used by every flow command.
var app *application

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "finreport",
	Short: "Finance Reports - summaries, searches and reports over a bank statement",
	Long: `Finance Reports reads a bank statement export (XLSX, CSV or a Google Sheet)
and writes JSON reports:

  views     greeting, total expenses, per-card spend, top transactions,
            currency rates and stock prices
  reports   transactions of one category over a 90 day window
  services  keyword search and the category expense of the last 3 months

Values not given as flags are asked for on standard input.

Example Usage:
  finreport views --time "2021-12-31 16:44:00"
  finreport reports --category Супермаркеты --start 2021-10-01
  finreport services --term кафе --category Кафе
  finreport run --config ./config.yaml`,

	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !needsApplication(cmd) {
			return nil
		}

		// A missing .env is fine.
		_ = godotenv.Load()

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		level := cfg.Log.Level
		if verbose {
			level = "debug"
		}
		log, closer, err := logging.New(logging.Options{
			File:    cfg.Log.File,
			Level:   level,
			Verbose: verbose,
			Console: cmd.ErrOrStderr(),
		})
		if err != nil {
			return err
		}

		app, err = newApplication(cmd.Context(), cfg, log, closer, cmd.OutOrStdout())
		if err != nil {
			closer.Close()
			return err
		}
		return nil
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// needsApplication reports whether cmd runs a flow.
func needsApplication(cmd *cobra.Command) bool {
	return cmd.Annotations["flow"] == "true"
}

// flowAnnotations marks a command as a flow command.
var flowAnnotations = map[string]string{"flow": "true"}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := execute(rootCmd); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// execute runs root and releases the application afterwards, whether the
// flow succeeded or not.
func execute(root *cobra.Command) error {
	err := root.Execute()
	if app != nil {
		if cerr := app.Close(); err == nil {
			err = cerr
		}
		app = nil
	}
	return err
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		config.DefaultPath,
		"Path to the configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Log at debug level and mirror the log to stderr",
	)
}

// Package cmd provides the CLI commands for finopsguard.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/finopsguard/finopsguard/internal/config"
	"github.com/finopsguard/finopsguard/pkg/finops"
)

var verbose bool

// core is the process-wide engine every subcommand drives. It is built once
// in initCore, after flag parsing, so --verbose can reach the logging
// config before anything logs.
var core *finops.Core

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "finopsguard",
	Short: "Pre-deployment cost and policy gate for Infrastructure-as-Code",
	Long: `finopsguard parses a Terraform configuration, prices its resources,
estimates monthly and first-week cost, and evaluates the result against
named policies or an implicit monthly budget before the change ever
reaches the cloud.

Examples:
  finopsguard check main.tf
  finopsguard check --budget 500 --environment production main.tf
  finopsguard policy create --id no_large_instances_in_dev --budget 100
  finopsguard history --limit 20`,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initCore)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(policyCmd)
	rootCmd.AddCommand(historyCmd)
}

func initCore() {
	cfg := config.Load()
	if verbose {
		cfg.Logging.Level = "debug"
	}
	config.Set(cfg)

	built, err := finops.NewCore(context.Background(), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize finopsguard core: %v\n", err)
		os.Exit(1)
	}
	core = built
}

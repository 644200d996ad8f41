package cmd

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/finopsguard/finopsguard/pkg/finops"
)

var (
	checkEnvironment string
	checkBudget      float64
	checkPolicyIDs   []string
	checkRequestID   string
	checkFormat      string
)

// checkCmd represents the check command.
var checkCmd = &cobra.Command{
	Use:   "check [path]",
	Short: "Price a Terraform file and evaluate it against policy",
	Long: `check reads a single Terraform file, prices every resource it
declares, and evaluates the result against the named policies (--policy) or
an implicit monthly budget (--budget) when no policies are given.

Examples:
  finopsguard check main.tf
  finopsguard check --budget 500 --environment production main.tf
  finopsguard check --policy no_large_instances_in_dev main.tf`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVarP(&checkEnvironment, "environment", "e", "dev", "environment label (dev, staging, production)")
	checkCmd.Flags().Float64VarP(&checkBudget, "budget", "b", 0, "implicit monthly budget; ignored when --policy is given")
	checkCmd.Flags().StringSliceVarP(&checkPolicyIDs, "policy", "p", nil, "policy id to evaluate against (repeatable)")
	checkCmd.Flags().StringVar(&checkRequestID, "request-id", "", "request id to use instead of a generated one")
	checkCmd.Flags().StringVarP(&checkFormat, "format", "f", "cli", "output format (cli, json)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	source, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	req := finops.CheckRequest{
		IACType:     "terraform",
		IACPayload:  base64.StdEncoding.EncodeToString(source),
		Environment: checkEnvironment,
		PolicyIDs:   checkPolicyIDs,
		RequestID:   checkRequestID,
	}
	if checkBudget > 0 {
		req.BudgetRules = &finops.BudgetRules{MonthlyBudget: checkBudget}
	}

	resp, err := core.CheckCostImpact(context.Background(), req)
	if err != nil {
		return err
	}

	if checkFormat == "json" {
		encoded, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(encoded))
	} else {
		printCheckResult(resp)
	}

	if resp.PolicyBlocked {
		return fmt.Errorf("blocked by policy")
	}
	return nil
}

func printCheckResult(resp *finops.CheckResponse) {
	fmt.Println("┌─────────────────────────────────────────────────────────────┐")
	fmt.Println("│                     COST IMPACT SUMMARY                      │")
	fmt.Println("├─────────────────────────────────────────────────────────────┤")
	fmt.Printf("│ Request ID:        %-42s │\n", resp.RequestID)
	fmt.Printf("│ Resources priced:  %-42d │\n", resp.ResourceCount)
	fmt.Printf("│ Monthly cost:      %-42s │\n", resp.EstimatedMonthlyCost)
	fmt.Printf("│ First week cost:   %-42s │\n", resp.EstimatedFirstWeekCost)
	fmt.Printf("│ Pricing confidence:%-42s │\n", resp.PricingConfidence)
	fmt.Printf("│ Duration:          %-39dms │\n", resp.DurationMS)
	fmt.Println("└─────────────────────────────────────────────────────────────┘")

	if len(resp.RiskFlags) > 0 {
		fmt.Println("\nRisk flags:")
		for _, flag := range resp.RiskFlags {
			fmt.Printf("  - %s\n", flag)
		}
	}

	if len(resp.PolicyEvaluations) > 0 {
		fmt.Println("\nPolicy evaluations:")
		for _, eval := range resp.PolicyEvaluations {
			fmt.Printf("  [%s] %-30s %s\n", eval.Status, eval.PolicyID, eval.Reason)
		}
	}

	if len(resp.Recommendations) > 0 {
		fmt.Println("\nRecommendations:")
		for _, rec := range resp.Recommendations {
			fmt.Printf("  - %s\n", rec)
		}
	}

	if resp.PolicyBlocked {
		fmt.Println("\nBLOCKED: a blocking policy failed.")
	}
}

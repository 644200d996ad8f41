package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/finopsguard/finopsguard/internal/types"
)

var (
	policyID          string
	policyName        string
	policyDescription string
	policyBudget      float64
	policyMode        string
	policyFile        string
)

// policyCmd is the parent for the policy registry subcommands.
var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Manage the in-memory policy registry",
}

var policyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every registered policy",
	RunE: func(cmd *cobra.Command, args []string) error {
		policies := core.ListPolicies()
		if len(policies) == 0 {
			fmt.Println("No policies registered.")
			return nil
		}
		for _, p := range policies {
			fmt.Printf("%-30s mode=%-10s enabled=%-5v %s\n", p.ID, p.OnViolation, p.Enabled, p.Description)
		}
		return nil
	},
}

var policyGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Print a single policy as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := core.GetPolicy(args[0])
		if err != nil {
			return err
		}
		encoded, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(encoded))
		return nil
	},
}

var policyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a policy from the registry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := core.DeletePolicy(args[0]); err != nil {
			return err
		}
		fmt.Printf("deleted policy %s\n", args[0])
		return nil
	},
}

// policyCreateCmd registers a policy either from a JSON file (--file, for
// expression policies) or from --budget (for the common budget-cap case).
var policyCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Register a new policy",
	Long: `create registers a new policy. Pass --file to load a full policy
document (needed for expression-based policies), or pass --budget for the
common case of a flat monthly budget cap.

Examples:
  finopsguard policy create --id monthly-cap --budget 500
  finopsguard policy create --file no_large_instances.json`,
	RunE: runPolicyCreate,
}

func init() {
	policyCmd.AddCommand(policyListCmd)
	policyCmd.AddCommand(policyGetCmd)
	policyCmd.AddCommand(policyDeleteCmd)
	policyCmd.AddCommand(policyCreateCmd)

	policyCreateCmd.Flags().StringVar(&policyID, "id", "", "policy id")
	policyCreateCmd.Flags().StringVar(&policyName, "name", "", "policy name (defaults to id)")
	policyCreateCmd.Flags().StringVar(&policyDescription, "description", "", "policy description")
	policyCreateCmd.Flags().Float64Var(&policyBudget, "budget", 0, "flat monthly budget cap")
	policyCreateCmd.Flags().StringVar(&policyMode, "mode", string(types.ModeBlocking), "blocking or advisory")
	policyCreateCmd.Flags().StringVar(&policyFile, "file", "", "path to a JSON policy document")
}

func runPolicyCreate(cmd *cobra.Command, args []string) error {
	var policy types.Policy

	if policyFile != "" {
		data, err := os.ReadFile(policyFile)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", policyFile, err)
		}
		if err := json.Unmarshal(data, &policy); err != nil {
			return fmt.Errorf("failed to parse %s: %w", policyFile, err)
		}
	} else {
		if policyID == "" {
			return fmt.Errorf("--id is required unless --file is given")
		}
		if policyBudget <= 0 {
			return fmt.Errorf("--budget must be positive unless --file is given")
		}
		budget := policyBudget
		policy = types.Policy{
			ID:          policyID,
			Name:        policyName,
			Description: policyDescription,
			Budget:      &budget,
			OnViolation: types.PolicyMode(policyMode),
			Enabled:     true,
		}
	}

	if policy.Name == "" {
		policy.Name = policy.ID
	}
	if policy.OnViolation == "" {
		policy.OnViolation = types.ModeBlocking
	}
	now := time.Now().UTC()
	policy.CreatedAt = now
	policy.UpdatedAt = now

	if err := core.CreatePolicy(&policy); err != nil {
		return err
	}
	fmt.Printf("created policy %s\n", policy.ID)
	return nil
}

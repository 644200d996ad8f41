package costestimate

import (
	"fmt"
	"strings"

	"github.com/finopsguard/finopsguard/internal/types"
)

// oversizedDevFamilies are EC2/RDS instance family prefixes considered
// oversized for a non-production environment.
var oversizedDevFamilies = []string{"m5.", "m5a.", "m6i.", "c5.", "c6i.", "r5.", "r6i.", "db.m5.", "db.r5."}

// Recommend produces the closed set of advisory recommendation strings for
// model+cost in environment. Recommendations never affect cost or policy
// status; they are surfaced to the caller alongside the CostResult.
func Recommend(model *types.CanonicalResourceModel, cost *types.CostResult, environment string) []string {
	var out []string
	for _, r := range model.Resources {
		if rec := oversizedDevInstance(r, environment); rec != "" {
			out = append(out, rec)
		}
		if rec := unencryptedStorage(r); rec != "" {
			out = append(out, rec)
		}
		if rec := publicExposure(r); rec != "" {
			out = append(out, rec)
		}
		if rec := idleNATGateway(r); rec != "" {
			out = append(out, rec)
		}
	}
	return out
}

// oversizedDevInstance flags an EC2/RDS-family resource sized at m5.large or
// larger (by family prefix) running in a non-production environment.
func oversizedDevInstance(r types.CanonicalResource, environment string) string {
	if !isDevLikeEnvironment(environment) {
		return ""
	}
	if r.Type != "aws_instance" && r.Type != "aws_db_instance" {
		return ""
	}
	for _, family := range oversizedDevFamilies {
		if strings.HasPrefix(r.Size, family) {
			return fmt.Sprintf("%s %q is sized %s in environment %q; consider a smaller instance family for non-production workloads", r.Type, r.Name, r.Size, environment)
		}
	}
	return ""
}

func isDevLikeEnvironment(environment string) bool {
	switch strings.ToLower(environment) {
	case "dev", "development", "test", "staging", "sandbox":
		return true
	default:
		return false
	}
}

// unencryptedStorage flags an EBS volume or RDS instance whose extractor
// captured an explicit encryption flag set to false.
func unencryptedStorage(r types.CanonicalResource) string {
	switch r.Type {
	case "aws_ebs_volume":
		if encrypted, ok := r.Metadata["encrypted"].(bool); ok && !encrypted {
			return fmt.Sprintf("aws_ebs_volume %q is not encrypted; enable encryption at rest", r.Name)
		}
	case "aws_db_instance":
		if encrypted, ok := r.Metadata["storage_encrypted"].(bool); ok && !encrypted {
			return fmt.Sprintf("aws_db_instance %q has storage_encrypted=false; enable encryption at rest", r.Name)
		}
	}
	return ""
}

// publicExposure flags a resource the parser surfaced as internet-reachable
// (an RDS instance with publicly_accessible=true).
func publicExposure(r types.CanonicalResource) string {
	if r.Type == "aws_db_instance" {
		if public, ok := r.Metadata["publicly_accessible"].(bool); ok && public {
			return fmt.Sprintf("aws_db_instance %q is publicly_accessible; restrict network access", r.Name)
		}
	}
	return ""
}

// idleNATGateway flags a NAT gateway the parser could not associate with a
// subnet, a common sign of an orphaned, still-billing resource.
func idleNATGateway(r types.CanonicalResource) string {
	if r.Type != "aws_nat_gateway" {
		return ""
	}
	if hasSubnet, ok := r.Metadata["has_subnet"].(bool); ok && !hasSubnet {
		return fmt.Sprintf("aws_nat_gateway %q has no resolvable subnet; verify it is still in use", r.Name)
	}
	return ""
}

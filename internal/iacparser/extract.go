package iacparser

import (
	"fmt"
	"strings"

	"github.com/finopsguard/finopsguard/internal/types"
)

// Extractor turns one syntactically-scanned block into a CanonicalResource.
// Extractors never fail: a block this extractor can't fully interpret
// degrades confidence via metadata rather than returning an error, matching
// the parser's "never fails on unknown shape" contract.
type Extractor func(block RawBlock, providerDefaults map[string]string) types.CanonicalResource

// registry is the closed, table-driven set of per-resource-type extractors.
// New resource types are added by appending an entry; there is no
// interface hierarchy to implement.
var registry = map[string]Extractor{}

func register(resourceType string, fn Extractor) {
	if _, exists := registry[resourceType]; exists {
		panic("iacparser: extractor already registered: " + resourceType)
	}
	registry[resourceType] = fn
}

// alias points additionalNames at an already-registered extractor, for
// resource types Terraform providers spell more than one way
// (gcp_compute_disk / google_compute_disk).
func alias(existing string, additionalNames ...string) {
	fn, ok := registry[existing]
	if !ok {
		panic("iacparser: alias target not registered: " + existing)
	}
	for _, name := range additionalNames {
		register(name, fn)
	}
}

// Extract runs the semantic pass over a ScanResult, producing the
// CanonicalResourceModel the rest of the core consumes.
func Extract(scan *ScanResult, sourceIACType string) *types.CanonicalResourceModel {
	model := &types.CanonicalResourceModel{
		SourceIACType:    sourceIACType,
		ProviderDefaults: scan.ProviderDefaults,
	}

	seen := make(map[string]int)
	for _, block := range scan.Blocks {
		if block.IsDataSource {
			continue
		}

		id := uniqueID(block.Address(), seen)

		extractor, ok := registry[block.ResourceType]
		if !ok {
			model.Resources = append(model.Resources, unknownResource(id, block))
			continue
		}

		resource := extractor(block, scan.ProviderDefaults)
		resource.ID = id
		resource.Type = canonicalType(resource.Type)
		if resource.Region == "" {
			resource.Region = defaultRegion(block.ResourceType, scan.ProviderDefaults)
		}
		if resource.Count < 1 {
			resource.Count = 1
		}
		if replicas := block.Attributes.Int("count", 1); replicas > 1 {
			resource.Count *= replicas
		}
		if resource.Tags == nil {
			resource.Tags = literalTags(block.Attributes)
		}
		model.Resources = append(model.Resources, resource)
	}

	return model
}

func uniqueID(address string, seen map[string]int) string {
	n := seen[address]
	seen[address] = n + 1
	if n == 0 {
		return address
	}
	return fmt.Sprintf("%s#%d", address, n)
}

// unknownResource records an unrecognized resource type: priced at zero
// and flagged, never dropped and never a parse failure.
func unknownResource(id string, block RawBlock) types.CanonicalResource {
	return types.CanonicalResource{
		ID:     id,
		Type:   block.ResourceType,
		Name:   block.ResourceName,
		Region: "global",
		Size:   "unknown",
		Count:  1,
		Metadata: map[string]any{
			"risk_flag":   "unpriced_resource:" + block.ResourceType,
			"source_file": block.SourceFile,
			"source_line": block.SourceLine,
		},
	}
}

func defaultRegion(resourceType string, providerDefaults map[string]string) string {
	provider := providerPrefix(resourceType)
	if region, ok := providerDefaults[provider]; ok && region != "" {
		return region
	}
	switch provider {
	case "aws":
		return "us-east-1"
	case "azurerm":
		return "eastus"
	case "google":
		return "us-central1"
	default:
		return "global"
	}
}

// canonicalType maps Terraform's "google_" resource namespace onto the
// model's "gcp_" namespace, so a google_spanner_instance and a
// gcp_spanner_instance produce the same canonical type (and the same
// pricing identity). Unknown types are never rewritten; they stay as-seen.
func canonicalType(resourceType string) string {
	if rest, ok := strings.CutPrefix(resourceType, "google_"); ok {
		return "gcp_" + rest
	}
	return resourceType
}

// literalTags reads a resource block's literal `tags` map, dropping
// non-string values and any tags map the author built from expressions.
func literalTags(attrs Attributes) map[string]string {
	attr, ok := attrs["tags"]
	if !ok || !attr.IsLiteral() {
		return nil
	}
	raw, ok := attr.Value.(map[string]interface{})
	if !ok || len(raw) == 0 {
		return nil
	}
	tags := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			tags[k] = s
		}
	}
	if len(tags) == 0 {
		return nil
	}
	return tags
}

func providerPrefix(resourceType string) string {
	switch {
	case strings.HasPrefix(resourceType, "aws_"):
		return "aws"
	case strings.HasPrefix(resourceType, "azurerm_"):
		return "azurerm"
	case strings.HasPrefix(resourceType, "google_"), strings.HasPrefix(resourceType, "gcp_"):
		return "google"
	default:
		return ""
	}
}

// confidenceNotes folds per-attribute ConfidenceImpact scores referenced by
// an extractor into the resource's metadata, so the pricing resolver and
// cost estimator can see why a resource's shape might be uncertain.
func confidenceNotes(attrs Attributes, names ...string) (impact float64, refs []string) {
	for _, name := range names {
		attr, ok := attrs[name]
		if !ok || attr.IsLiteral() {
			continue
		}
		impact += attr.ConfidenceImpact
		refs = append(refs, attr.References...)
	}
	if impact > MaxConfidenceImpact {
		impact = MaxConfidenceImpact
	}
	return impact, refs
}

func withDeferredMetadata(meta map[string]any, impact float64, refs []string) map[string]any {
	if impact == 0 && len(refs) == 0 {
		return meta
	}
	if meta == nil {
		meta = make(map[string]any)
	}
	meta["confidence_impact"] = impact
	if len(refs) > 0 {
		meta["unresolved_references"] = refs
	}
	return meta
}

// Package iacparser turns Terraform HCL source into a CanonicalResourceModel
// without resolving interpolations. It runs in two passes: scan.go captures
// the raw syntax (block labels plus literal-vs-deferred attributes) and
// extract.go/extractors_*.go turn each captured block into a
// types.CanonicalResource.
package iacparser

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"

	apperrors "github.com/finopsguard/finopsguard/internal/errors"
)

// Attribute is one HCL attribute, either resolved to a literal Go value or
// preserved as an opaque expression when it references a variable, local,
// resource, data source, count, or each.
type Attribute struct {
	// Value holds the literal value when Expression is empty.
	Value any

	// Expression is the unresolved source text, set only when the
	// attribute's expression isn't a pure literal.
	Expression string

	// ExpressionKind classifies Expression: "variable", "local",
	// "resource_reference", "data_source", "count_reference",
	// "for_each_reference", "function", "conditional".
	ExpressionKind string

	// References lists the traversal roots the expression touches, e.g.
	// "var.instance_type".
	References []string

	// ConfidenceImpact is how much this attribute should reduce the
	// containing resource's pricing confidence, in [0, 0.5].
	ConfidenceImpact float64
}

// IsLiteral reports whether Value can be used directly.
func (a Attribute) IsLiteral() bool { return a.Expression == "" }

// Attributes is a resource block's attribute set, keyed by attribute name.
type Attributes map[string]Attribute

// String returns the literal string value of name, or "" if it isn't a
// literal string.
func (a Attributes) String(name string) string {
	attr, ok := a[name]
	if !ok || !attr.IsLiteral() {
		return ""
	}
	s, _ := attr.Value.(string)
	return s
}

// Float returns the literal numeric value of name, or def if absent or not
// a literal number.
func (a Attributes) Float(name string, def float64) float64 {
	attr, ok := a[name]
	if !ok || !attr.IsLiteral() {
		return def
	}
	switch v := attr.Value.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return def
}

// Int returns the literal integer value of name, or def if absent or not a
// literal number.
func (a Attributes) Int(name string, def int) int {
	return int(a.Float(name, float64(def)))
}

// Bool returns the literal boolean value of name, or def if absent or not a
// literal bool.
func (a Attributes) Bool(name string, def bool) bool {
	attr, ok := a[name]
	if !ok || !attr.IsLiteral() {
		return def
	}
	b, ok := attr.Value.(bool)
	if !ok {
		return def
	}
	return b
}

// MaxConfidenceImpact is the largest ConfidenceImpact any single attribute
// can contribute, matching the deferred-evaluation scanner's cap.
const MaxConfidenceImpact = 0.5

// RawBlock is a syntactically parsed `resource` or `data` block, before
// semantic extraction.
type RawBlock struct {
	ResourceType string
	ResourceName string
	IsDataSource bool
	Attributes   Attributes
	SourceFile   string
	SourceLine   int
}

// Address is the Terraform-style "type.name" or "data.type.name" address.
func (b RawBlock) Address() string {
	if b.IsDataSource {
		return fmt.Sprintf("data.%s.%s", b.ResourceType, b.ResourceName)
	}
	return fmt.Sprintf("%s.%s", b.ResourceType, b.ResourceName)
}

// ScanResult is the syntactic pass's output.
type ScanResult struct {
	Blocks []RawBlock

	// ProviderDefaults maps provider name ("aws", "azurerm", "google") to
	// the region given in its `provider` block, when literal.
	ProviderDefaults map[string]string
}

// Scan parses Terraform HCL source into a ScanResult without resolving any
// interpolated expression.
func Scan(source []byte, filename string) (*ScanResult, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(source, filename)
	if diags.HasErrors() {
		return nil, apperrors.Parsing(diagSummary(diags), diags)
	}

	content, _, _ := hclFile.Body.PartialContent(&hcl.BodySchema{
		Blocks: []hcl.BlockHeaderSchema{
			{Type: "resource", LabelNames: []string{"type", "name"}},
			{Type: "data", LabelNames: []string{"type", "name"}},
			{Type: "provider", LabelNames: []string{"name"}},
		},
	})

	result := &ScanResult{ProviderDefaults: make(map[string]string)}

	for _, block := range content.Blocks {
		switch block.Type {
		case "resource", "data":
			if len(block.Labels) < 2 {
				continue
			}
			line := 0
			if block.DefRange.Start.Line > 0 {
				line = block.DefRange.Start.Line
			}
			result.Blocks = append(result.Blocks, RawBlock{
				ResourceType: block.Labels[0],
				ResourceName: block.Labels[1],
				IsDataSource: block.Type == "data",
				Attributes:   extractAttributes(block.Body),
				SourceFile:   filename,
				SourceLine:   line,
			})
		case "provider":
			if len(block.Labels) < 1 {
				continue
			}
			attrs := extractAttributes(block.Body)
			if region := attrs.String("region"); region != "" {
				result.ProviderDefaults[block.Labels[0]] = region
			}
		}
	}

	return result, nil
}

// extractAttributes evaluates literal attributes eagerly and preserves
// referencing expressions as opaque, scored strings. It never calls
// attr.Expr.Value on an expression with variable references, since that
// would require a context this parser deliberately does not build.
// Attributes of nested blocks are flattened under dotted keys
// ("instance_configuration.cpu", "cluster_config.worker_config.num_instances")
// so extractors can reach billing-salient settings wherever the provider
// schema nests them; the first block of a given type wins.
func extractAttributes(body hcl.Body) Attributes {
	attrs := make(Attributes)
	collectAttributes(body, "", attrs)
	return attrs
}

// collectAttributes walks body (and, for native syntax, its nested blocks)
// recording each attribute under prefix+name. PartialContent only hands
// back attributes its schema names, and the attribute set of a resource
// body is open-ended, so the native syntax body is walked directly;
// JustAttributes covers the non-native case, ignoring its complaint about
// nested blocks.
func collectAttributes(body hcl.Body, prefix string, attrs Attributes) {
	if syntaxBody, ok := body.(*hclsyntax.Body); ok {
		for name, attr := range syntaxBody.Attributes {
			recordAttribute(attrs, prefix+name, attr.Expr)
		}
		for _, block := range syntaxBody.Blocks {
			collectAttributes(block.Body, prefix+block.Type+".", attrs)
		}
		return
	}

	just, _ := body.JustAttributes()
	for name, attr := range just {
		recordAttribute(attrs, prefix+name, attr.Expr)
	}
}

func recordAttribute(attrs Attributes, name string, expr hcl.Expression) {
	if _, exists := attrs[name]; exists {
		return
	}

	kind, refs, impact, isLiteral := classifyExpression(expr)

	if isLiteral {
		val, diags := expr.Value(nil)
		if !diags.HasErrors() {
			attrs[name] = Attribute{Value: ctyToGo(val)}
			return
		}
	}

	attrs[name] = Attribute{
		Expression:       exprRangeText(expr),
		ExpressionKind:   kind,
		References:       refs,
		ConfidenceImpact: impact,
	}
}

func classifyExpression(expr hcl.Expression) (kind string, refs []string, impact float64, isLiteral bool) {
	kind = "literal"
	isLiteral = true

	traversals := expr.Variables()
	if len(traversals) > 0 {
		isLiteral = false
		impact = 0.1
		for _, t := range traversals {
			refs = append(refs, formatTraversal(t))
			if len(t) == 0 {
				continue
			}
			switch t.RootName() {
			case "var":
				kind = "variable"
				impact += 0.1
			case "local":
				kind = "local"
			case "count":
				kind = "count_reference"
				impact += 0.2
			case "each":
				kind = "for_each_reference"
				impact += 0.2
			case "data":
				kind = "data_source"
				impact += 0.3
			default:
				kind = "resource_reference"
				impact += 0.3
			}
		}
	}

	if _, ok := expr.(*hclsyntax.FunctionCallExpr); ok {
		isLiteral = false
		kind = "function"
		impact += 0.1
	}
	if _, ok := expr.(*hclsyntax.ConditionalExpr); ok {
		isLiteral = false
		kind = "conditional"
		impact += 0.15
	}

	if impact > MaxConfidenceImpact {
		impact = MaxConfidenceImpact
	}
	return kind, refs, impact, isLiteral
}

func formatTraversal(t hcl.Traversal) string {
	var b strings.Builder
	for _, step := range t {
		switch s := step.(type) {
		case hcl.TraverseRoot:
			b.WriteString(s.Name)
		case hcl.TraverseAttr:
			b.WriteString(".")
			b.WriteString(s.Name)
		case hcl.TraverseIndex:
			b.WriteString("[*]")
		}
	}
	return b.String()
}

func exprRangeText(expr hcl.Expression) string {
	rng := expr.Range()
	return fmt.Sprintf("<%s:%d-%d>", rng.Filename, rng.Start.Line, rng.End.Line)
}

func ctyToGo(val interface{}) interface{} {
	return hclValueToGo(val)
}

// diagSummary renders the first diagnostic, with its line/column when the
// parser attached a source range.
func diagSummary(diags hcl.Diagnostics) string {
	if len(diags) == 0 {
		return "hcl parse error"
	}
	d := diags[0]
	msg := d.Summary + ": " + d.Detail
	if d.Subject != nil {
		msg = fmt.Sprintf("%s:%d,%d: %s", d.Subject.Filename, d.Subject.Start.Line, d.Subject.Start.Column, msg)
	}
	return msg
}

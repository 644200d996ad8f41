package iacparser

import "github.com/finopsguard/finopsguard/internal/types"

// Parse runs the full two-pass pipeline (syntactic scan, then semantic
// extraction) over a single Terraform HCL source file and returns the
// resulting CanonicalResourceModel. It never fails on an unrecognized
// resource type; it fails only on a genuine HCL syntax error.
func Parse(source []byte, filename string) (*types.CanonicalResourceModel, error) {
	scan, err := Scan(source, filename)
	if err != nil {
		return nil, err
	}
	return Extract(scan, "terraform"), nil
}

package iacparser

import "github.com/finopsguard/finopsguard/internal/types"

func init() {
	register("azurerm_linux_virtual_machine", extractAzureVM)
	register("azurerm_windows_virtual_machine", extractAzureVM)
}

func extractAzureVM(block RawBlock, _ map[string]string) types.CanonicalResource {
	size := defaultString(block.Attributes.String("size"), "Standard_B1s")
	impact, refs := confidenceNotes(block.Attributes, "size", "admin_username")

	return types.CanonicalResource{
		Type: block.ResourceType,
		Name: block.ResourceName,
		Size: size,
		Metadata: withDeferredMetadata(map[string]any{
			"os": azureOSFromType(block.ResourceType),
		}, impact, refs),
	}
}

func azureOSFromType(resourceType string) string {
	if resourceType == "azurerm_windows_virtual_machine" {
		return "windows"
	}
	return "linux"
}

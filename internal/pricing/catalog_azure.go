package pricing

import "github.com/finopsguard/finopsguard/internal/types"

func registerAzureCatalog(c *Catalog) {
	vmSizes := map[string]string{
		"Standard_B1s":   "0.0104",
		"Standard_B2s":   "0.0416",
		"Standard_D2s_v3": "0.096",
	}
	for size, price := range vmSizes {
		c.register("azurerm", "azurerm_linux_virtual_machine:"+size, "eastus", types.UnitHour, price, "eastus")
		c.register("azurerm", "azurerm_windows_virtual_machine:"+size, "eastus", types.UnitHour, price, "eastus")
	}
}

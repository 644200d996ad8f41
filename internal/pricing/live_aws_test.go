package pricing

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/finopsguard/finopsguard/internal/errors"
)

func TestAWSPricingSourceUnconfiguredReturnsPricingUnavailable(t *testing.T) {
	src := &AWSPricingSource{}
	_, err := src.FetchRate(context.Background(), RateKey{Provider: "aws", SKU: "aws_instance:t3.medium", Region: "us-east-1"})
	require.Error(t, err)
	require.Equal(t, apperrors.TypePricing, apperrors.TypeOf(err))
}

func TestGCPBillingCatalogSourceUnconfiguredReturnsPricingUnavailable(t *testing.T) {
	src := &GCPBillingCatalogSource{}
	_, err := src.FetchRate(context.Background(), RateKey{Provider: "google", SKU: "gcp_compute_instance:n1-standard-1", Region: "us-central1"})
	require.Error(t, err)
	require.Equal(t, apperrors.TypePricing, apperrors.TypeOf(err))
}

func TestAzurePricingSourceUnconfiguredReturnsPricingUnavailable(t *testing.T) {
	src := &AzurePricingSource{}
	_, err := src.FetchRate(context.Background(), RateKey{Provider: "azurerm", SKU: "azurerm_linux_virtual_machine:Standard_D2s_v3", Region: "eastus"})
	require.Error(t, err)
	require.Equal(t, apperrors.TypePricing, apperrors.TypeOf(err))
}

func TestAzurePricingSourceUnmappedRegion(t *testing.T) {
	src := &AzurePricingSource{Client: &http.Client{}}
	_, err := src.FetchRate(context.Background(), RateKey{Provider: "azurerm", SKU: "azurerm_linux_virtual_machine:Standard_B1s", Region: "antarctica-south1"})
	require.Error(t, err)
	require.Equal(t, apperrors.TypePricing, apperrors.TypeOf(err))
}

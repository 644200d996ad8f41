package types

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestMinConfidenceIsLowestRank(t *testing.T) {
	require.Equal(t, ConfidenceLow, MinConfidence(ConfidenceHigh, ConfidenceLow, ConfidenceMedium))
	require.Equal(t, ConfidenceMedium, MinConfidence(ConfidenceHigh, ConfidenceMedium))
	require.Equal(t, ConfidenceHigh, MinConfidence(ConfidenceHigh))
}

func TestMinConfidenceOfNothingIsLow(t *testing.T) {
	require.Equal(t, ConfidenceLow, MinConfidence())
}

func TestPriceRecordJSONRoundTrip(t *testing.T) {
	original := PriceRecord{
		Unit:       UnitHour,
		Amount:     decimal.RequireFromString("0.0416"),
		Currency:   "USD",
		Confidence: ConfidenceMedium,
		Source:     SourceStatic,
		SKU:        "aws_instance:t3.medium",
		Region:     "us-east-1",
	}

	encoded, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded PriceRecord
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	require.True(t, decoded.Amount.Equal(original.Amount))
	decoded.Amount = original.Amount
	require.Equal(t, original, decoded)
}

func TestProviderForResourceType(t *testing.T) {
	require.Equal(t, "aws", ProviderForResourceType("aws_instance"))
	require.Equal(t, "google", ProviderForResourceType("gcp_spanner_instance"))
	require.Equal(t, "google", ProviderForResourceType("google_compute_disk"))
	require.Equal(t, "azurerm", ProviderForResourceType("azurerm_linux_virtual_machine"))
	require.Equal(t, "unknown", ProviderForResourceType("datadog_monitor"))
}

func TestUnpricedRecordShape(t *testing.T) {
	r := UnpricedRecord("us-east-1")
	require.Equal(t, "unknown", r.SKU)
	require.Equal(t, ConfidenceLow, r.Confidence)
	require.True(t, r.Amount.IsZero())
}

package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/finopsguard/finopsguard/internal/types"
)

func testFactory() *Factory {
	return NewFactory(NewCatalog(), NewLiveSourceRegistry(), Options{
		LiveEnabled:      false,
		FallbackToStatic: true,
		RequestTimeout:   time.Second,
		MaxRetries:       0,
		RetryBaseDelay:   time.Millisecond,
	})
}

func TestPriceForResolvesKnownStaticSKU(t *testing.T) {
	f := testFactory()
	record, err := f.PriceFor(context.Background(), types.CanonicalResource{
		Type: "aws_instance", Size: "t3.medium", Region: "us-east-1", Count: 1,
	}, "aws")
	require.NoError(t, err)
	require.Equal(t, types.SourceStatic, record.Source)
	require.Equal(t, types.ConfidenceMedium, record.Confidence)
	require.True(t, record.Amount.IsPositive())
}

func TestPriceForUnknownSKUReturnsUnpriced(t *testing.T) {
	f := testFactory()
	record, err := f.PriceFor(context.Background(), types.CanonicalResource{
		Type: "aws_quantum_widget", Size: "nonexistent", Region: "us-east-1", Count: 1,
	}, "aws")
	require.NoError(t, err)
	require.Equal(t, "unknown", record.SKU)
	require.Equal(t, types.ConfidenceLow, record.Confidence)
}

func TestPriceForUsesMetadataSKUOverQuantitySize(t *testing.T) {
	f := testFactory()
	record, err := f.PriceFor(context.Background(), types.CanonicalResource{
		Type: "gcp_spanner_instance", Size: "2nodes", Region: "us-central1", Count: 2,
		Metadata: map[string]any{"sku": "node"},
	}, "google")
	require.NoError(t, err)
	require.Equal(t, "gcp_spanner_instance:node", record.SKU)
	require.True(t, record.Amount.IsPositive())
}

func TestPriceForCoversExtendedCatalogTypes(t *testing.T) {
	f := testFactory()
	resources := []types.CanonicalResource{
		{Type: "aws_neptune_cluster", Size: "db.r5.large", Region: "us-east-1", Count: 1},
		{Type: "aws_msk_cluster", Size: "kafka.m5.large", Region: "us-east-1", Count: 3},
		{Type: "aws_glue", Size: "job", Region: "us-east-1", Count: 1},
		{Type: "aws_apprunner_service", Size: "2vCPU/4GB", Region: "us-east-1", Count: 1},
		{Type: "gcp_filestore_instance", Size: "PREMIUM/2560GB", Region: "us-central1", Count: 1,
			Metadata: map[string]any{"sku": "PREMIUM"}},
		{Type: "gcp_cloud_armor", Size: "policy", Region: "global", Count: 1},
	}
	for _, r := range resources {
		record, err := f.PriceFor(context.Background(), r, types.ProviderForResourceType(r.Type))
		require.NoError(t, err)
		require.NotEqual(t, "unknown", record.SKU, "no catalog entry for %s:%s", r.Type, r.Size)
		require.True(t, record.Amount.IsPositive(), "zero rate for %s:%s", r.Type, r.Size)
	}
}

func TestPriceForRegionMissDowngradesConfidence(t *testing.T) {
	f := testFactory()
	record, err := f.PriceFor(context.Background(), types.CanonicalResource{
		Type: "aws_instance", Size: "m5.large", Region: "eu-west-1", Count: 1,
	}, "aws")
	require.NoError(t, err)
	require.Equal(t, types.ConfidenceLow, record.Confidence)
}

func TestResolveAllPricesEveryResourceInOrder(t *testing.T) {
	f := testFactory()
	resources := []types.CanonicalResource{
		{ID: "a", Type: "aws_instance", Size: "t3.medium", Region: "us-east-1", Count: 1},
		{ID: "b", Type: "aws_instance", Size: "m5.large", Region: "us-east-1", Count: 1},
		{ID: "c", Type: "aws_s3_bucket", Size: "standard", Region: "us-east-1", Count: 1},
	}

	prices, err := f.ResolveAll(context.Background(), resources, 2)
	require.NoError(t, err)
	require.Len(t, prices, 3)
	for _, p := range prices {
		require.True(t, p.Amount.IsPositive())
	}
}

func TestResolveAllUnpricedDoesNotError(t *testing.T) {
	f := testFactory()
	resources := []types.CanonicalResource{
		{ID: "x", Type: "aws_quantum_widget", Size: "unknown", Region: "us-east-1", Count: 1},
	}
	prices, err := f.ResolveAll(context.Background(), resources, 4)
	require.NoError(t, err)
	require.Equal(t, "unknown", prices[0].SKU)
}

package analysisstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/finopsguard/finopsguard/internal/types"
)

func record(id string, startedAt time.Time) *types.AnalysisRecord {
	return &types.AnalysisRecord{
		RequestID:   id,
		StartedAt:   startedAt,
		IACType:     "terraform",
		Environment: "dev",
		ResultJSON:  []byte(`{}`),
	}
}

func TestMemoryStorePutIsIdempotent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	base := time.Now()

	first := record("req-1", base)
	require.NoError(t, store.Put(ctx, first))

	second := record("req-1", base.Add(time.Hour))
	second.Environment = "production"
	require.NoError(t, store.Put(ctx, second))

	got, err := store.Get(ctx, "req-1")
	require.NoError(t, err)
	require.Equal(t, "dev", got.Environment)
}

func TestMemoryStoreGetNotFound(t *testing.T) {
	store := NewMemoryStore()
	_, err := store.Get(context.Background(), "missing")
	require.Error(t, err)
}

func TestMemoryStoreListOrdersNewestFirstAndPaginates(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	base := time.Now().Truncate(time.Second)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Put(ctx, record(
			string(rune('a'+i)),
			base.Add(time.Duration(i)*time.Minute),
		)))
	}

	since := base.Add(-time.Hour)
	until := base.Add(time.Hour)

	page1, cursor1, err := store.List(ctx, since, until, 2, "")
	require.NoError(t, err)
	require.Len(t, page1, 2)
	require.NotEmpty(t, cursor1)
	require.True(t, page1[0].StartedAt.After(page1[1].StartedAt))

	page2, cursor2, err := store.List(ctx, since, until, 2, cursor1)
	require.NoError(t, err)
	require.Len(t, page2, 2)
	require.NotEmpty(t, cursor2)

	page3, cursor3, err := store.List(ctx, since, until, 2, cursor2)
	require.NoError(t, err)
	require.Len(t, page3, 1)
	require.Empty(t, cursor3)
}

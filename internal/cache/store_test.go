package cache

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFingerprintIsOrderInsensitiveToIDLists(t *testing.T) {
	a := Fingerprint("terraform", "payload", "dev", []string{"p1", "p2"}, nil)
	b := Fingerprint("terraform", "payload", "dev", []string{"p2", "p1"}, nil)
	require.Equal(t, a, b)
}

func TestFingerprintDiffersOnEnvironment(t *testing.T) {
	a := Fingerprint("terraform", "payload", "dev", nil, nil)
	b := Fingerprint("terraform", "payload", "production", nil, nil)
	require.NotEqual(t, a, b)
}

func TestSetAndGet(t *testing.T) {
	store := New(time.Minute)
	store.Set("k1", 42)
	v, ok := store.Get("k1")
	require.True(t, ok)
	require.Equal(t, 42, v)
}

func TestGetExpiredEntryIsMiss(t *testing.T) {
	store := New(time.Millisecond)
	store.Set("k1", 42)
	time.Sleep(5 * time.Millisecond)
	_, ok := store.Get("k1")
	require.False(t, ok)
}

func TestGetOrBuildRunsBuilderOnceUnderConcurrency(t *testing.T) {
	store := New(time.Minute)
	var calls int64

	build := func(ctx context.Context) (any, error) {
		atomic.AddInt64(&calls, 1)
		time.Sleep(20 * time.Millisecond)
		return "built", nil
	}

	results := make(chan any, 10)
	for i := 0; i < 10; i++ {
		go func() {
			v, err := store.GetOrBuild(context.Background(), "shared-key", build)
			require.NoError(t, err)
			results <- v
		}()
	}

	for i := 0; i < 10; i++ {
		require.Equal(t, "built", <-results)
	}
	require.Equal(t, int64(1), atomic.LoadInt64(&calls))
}

func TestSweepEvictsExpiredEntries(t *testing.T) {
	store := New(time.Millisecond)
	store.Set("k1", 1)
	time.Sleep(5 * time.Millisecond)

	evicted := store.Sweep()
	require.Equal(t, 1, evicted)
	require.Empty(t, store.Stats())
}

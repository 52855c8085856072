package cachetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStoreExpiresWithClock(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v"), time.Minute))
	require.Equal(t, time.Minute, store.TTL("k"))

	store.Advance(59 * time.Second)
	_, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)

	store.Advance(time.Second)
	_, ok, err = store.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, 2, store.Calls(OpGet))
}

func TestStoreBuckets(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.SetField(ctx, "b", "1", []byte("one"), time.Minute))
	store.Advance(30 * time.Second)
	require.NoError(t, store.SetField(ctx, "b", "2", []byte("two"), time.Minute))
	store.Advance(45 * time.Second)

	value, ok, err := store.HGet(ctx, "b", "1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "one", string(value))
	require.ElementsMatch(t, []string{"1", "2"}, store.Fields("b"))

	_, ok, err = store.Get(ctx, "b")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestStoreFailureInjection(t *testing.T) {
	store := New()
	ctx := context.Background()

	store.FailAll()
	_, _, err := store.Get(ctx, "k")
	require.ErrorIs(t, err, ErrUnavailable)
	require.ErrorIs(t, store.SetField(ctx, "b", "1", nil, time.Minute), ErrUnavailable)
	require.False(t, store.Exists("b"))

	store.Recover()
	require.NoError(t, store.Ping(ctx))
	require.Equal(t, 2, store.Calls(OpPing)+store.Calls(OpGet))
}

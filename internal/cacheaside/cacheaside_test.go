package cacheaside

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ehomehq/ehome/internal/cache/cachetest"
)

type area struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

var areasResource = Resource{Name: "areas", TTL: 2 * time.Hour}

func newTestCache(t *testing.T) (*Cache, *cachetest.Store, *observer.ObservedLogs) {
	t.Helper()

	store := cachetest.New()
	core, logs := observer.New(zap.DebugLevel)
	c, err := New(store, zap.New(core))
	require.NoError(t, err)
	return c, store, logs
}

func countingLoader(calls *int, value []area, err error) Loader[[]area] {
	return func(context.Context) ([]area, error) {
		*calls++
		return value, err
	}
}

func TestNewRequiresStore(t *testing.T) {
	_, err := New(nil, nil)
	require.Error(t, err)
}

func TestFetchMissThenHit(t *testing.T) {
	c, store, _ := newTestCache(t)
	ctx := context.Background()
	calls := 0
	load := countingLoader(&calls, []area{{ID: 1, Name: "Downtown"}}, nil)

	first, err := Fetch(ctx, c, areasResource, "area_info", load)
	require.NoError(t, err)
	require.Equal(t, OutcomeMiss, first.Outcome)
	require.JSONEq(t, `[{"id":1,"name":"Downtown"}]`, string(first.Payload))
	require.Equal(t, 2*time.Hour, store.TTL("area_info"))

	second, err := Fetch(ctx, c, areasResource, "area_info", load)
	require.NoError(t, err)
	require.Equal(t, OutcomeHit, second.Outcome)
	require.Equal(t, string(first.Payload), string(second.Payload))
	require.Equal(t, 1, calls)
}

func TestFetchReloadsAfterTTL(t *testing.T) {
	c, store, _ := newTestCache(t)
	ctx := context.Background()
	calls := 0
	load := countingLoader(&calls, []area{{ID: 1, Name: "Downtown"}}, nil)

	_, err := Fetch(ctx, c, areasResource, "area_info", load)
	require.NoError(t, err)

	store.Advance(2 * time.Hour)
	result, err := Fetch(ctx, c, areasResource, "area_info", load)
	require.NoError(t, err)
	require.Equal(t, OutcomeMiss, result.Outcome)
	require.Equal(t, 2, calls)
}

func TestFetchDegradesWhenCacheUnavailable(t *testing.T) {
	c, store, logs := newTestCache(t)
	ctx := context.Background()
	calls := 0
	load := countingLoader(&calls, []area{{ID: 1, Name: "Downtown"}}, nil)

	store.FailAll()

	result, err := Fetch(ctx, c, areasResource, "area_info", load)
	require.NoError(t, err)
	require.Equal(t, OutcomeUnavailable, result.Outcome)
	require.JSONEq(t, `[{"id":1,"name":"Downtown"}]`, string(result.Payload))
	require.Equal(t, 1, calls)
	require.Equal(t, 1, store.Calls(cachetest.OpSet))
	require.Equal(t, 2, logs.FilterLevelExact(zap.WarnLevel).Len())
}

func TestFetchSwallowsWriteFailure(t *testing.T) {
	c, store, logs := newTestCache(t)
	ctx := context.Background()
	calls := 0
	load := countingLoader(&calls, []area{{ID: 2, Name: "Harbor"}}, nil)

	store.Fail(cachetest.OpSet, nil)

	result, err := Fetch(ctx, c, areasResource, "area_info", load)
	require.NoError(t, err)
	require.Equal(t, OutcomeMiss, result.Outcome)
	require.False(t, store.Exists("area_info"))
	require.Equal(t, 1, logs.FilterMessage("cache write failed").Len())
}

func TestFetchEmptyIsNotCached(t *testing.T) {
	c, store, _ := newTestCache(t)
	calls := 0
	load := countingLoader(&calls, nil, ErrEmpty)

	_, err := Fetch(context.Background(), c, areasResource, "area_info", load)
	require.ErrorIs(t, err, ErrEmpty)

	var storeErr *StoreError
	require.False(t, errors.As(err, &storeErr))
	require.Zero(t, store.Calls(cachetest.OpSet))
}

func TestFetchWrapsStoreErrors(t *testing.T) {
	c, store, _ := newTestCache(t)
	cause := errors.New("connection reset")
	calls := 0
	load := countingLoader(&calls, nil, cause)

	_, err := Fetch(context.Background(), c, areasResource, "area_info", load)

	var storeErr *StoreError
	require.True(t, errors.As(err, &storeErr))
	require.Equal(t, "areas", storeErr.Resource)
	require.ErrorIs(t, err, cause)
	require.Zero(t, store.Calls(cachetest.OpSet))
}

func TestFetchLogsHitsAtDebug(t *testing.T) {
	c, store, logs := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "area_info", []byte(`[]`), time.Hour))

	calls := 0
	result, err := Fetch(ctx, c, areasResource, "area_info", countingLoader(&calls, nil, nil))
	require.NoError(t, err)
	require.Equal(t, "[]", string(result.Payload))
	require.Zero(t, calls)
	require.Equal(t, 1, logs.FilterMessage("hit areas cache").Len())
}

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ehomehq/ehome/internal/database/testutil"
	"github.com/ehomehq/ehome/internal/models"
)

type manualClock struct {
	now time.Time
}

func (c *manualClock) Now() time.Time {
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestDatabaseStore(t *testing.T) (*DatabaseStore, *manualClock) {
	t.Helper()

	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	clock := &manualClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	return NewDatabaseStore(db, WithDatabaseClock(clock.Now)), clock
}

func TestDatabaseStoreSetGetDelete(t *testing.T) {
	store, clock := newTestDatabaseStore(t)
	ctx := context.Background()

	_, ok, err := store.Get(ctx, AreasKey())
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Set(ctx, AreasKey(), []byte("[1]"), time.Hour))
	require.NoError(t, store.Set(ctx, AreasKey(), []byte("[2]"), time.Hour))

	value, ok, err := store.Get(ctx, AreasKey())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "[2]", string(value))

	clock.Advance(time.Hour)
	_, ok, err = store.Get(ctx, AreasKey())
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Set(ctx, HomeFeedKey(), []byte("[]"), 0))
	clock.Advance(24 * time.Hour)
	_, ok, err = store.Get(ctx, HomeFeedKey())
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, store.Delete(ctx, HomeFeedKey()))
	_, ok, err = store.Get(ctx, HomeFeedKey())
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDatabaseStoreBucketSharesExpiry(t *testing.T) {
	store, clock := newTestDatabaseStore(t)
	ctx := context.Background()
	bucket := SearchBucketKey(nil, "2024-03-01", "", "new")

	require.NoError(t, store.SetField(ctx, bucket, PageField(1), []byte("one"), time.Hour))
	clock.Advance(40 * time.Minute)
	require.NoError(t, store.SetField(ctx, bucket, PageField(2), []byte("two"), time.Hour))
	clock.Advance(40 * time.Minute)

	value, ok, err := store.HGet(ctx, bucket, PageField(1))
	require.NoError(t, err)
	require.True(t, ok, "page 1 expiry should be refreshed by the page 2 write")
	require.Equal(t, "one", string(value))

	_, ok, err = store.Get(ctx, bucket)
	require.NoError(t, err)
	require.False(t, ok)

	clock.Advance(30 * time.Minute)
	_, ok, err = store.HGet(ctx, bucket, PageField(2))
	require.NoError(t, err)
	require.False(t, ok)

	require.ErrorIs(t, store.SetField(ctx, bucket, PageField(3), nil, 0), ErrInvalidTTL)
}

func TestDatabaseStoreExpiredBucketStartsFresh(t *testing.T) {
	store, clock := newTestDatabaseStore(t)
	ctx := context.Background()
	bucket := SearchBucketKey(nil, "", "", "price-inc")

	require.NoError(t, store.SetField(ctx, bucket, PageField(1), []byte("stale-page-1"), time.Hour))
	clock.Advance(2 * time.Hour)

	_, ok, err := store.HGet(ctx, bucket, PageField(1))
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.SetField(ctx, bucket, PageField(2), []byte("fresh-page-2"), time.Hour))

	_, ok, err = store.HGet(ctx, bucket, PageField(1))
	require.NoError(t, err)
	require.False(t, ok, "expired page 1 must stay gone after a new write to the bucket")

	value, ok, err := store.HGet(ctx, bucket, PageField(2))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "fresh-page-2", string(value))

	var rows int64
	require.NoError(t, store.db.Model(&models.CacheEntry{}).Where("bucket_key = ?", bucket).Count(&rows).Error)
	require.EqualValues(t, 1, rows)
}

func TestDatabaseStorePurgeExpired(t *testing.T) {
	store, clock := newTestDatabaseStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, AreasKey(), []byte("[]"), time.Minute))
	require.NoError(t, store.Set(ctx, HomeFeedKey(), []byte("[]"), 0))
	require.NoError(t, store.SetField(ctx, "houses::b", "1", []byte("one"), time.Minute))
	require.NoError(t, store.SetField(ctx, "houses::b", "2", []byte("two"), time.Minute))
	require.NoError(t, store.Set(ctx, HouseDetailKey(1), []byte("{}"), time.Hour))

	clock.Advance(2 * time.Minute)
	removed, err := store.PurgeExpired(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 3, removed)

	var remaining int64
	require.NoError(t, store.db.Model(&models.CacheEntry{}).Count(&remaining).Error)
	require.EqualValues(t, 2, remaining)
}

func TestDatabaseStoreNil(t *testing.T) {
	var store *DatabaseStore
	require.Nil(t, NewDatabaseStore(nil))

	_, _, err := store.Get(context.Background(), "k")
	require.Error(t, err)
	require.Error(t, store.Ping(context.Background()))
}

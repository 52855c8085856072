package cache

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ehomehq/ehome/internal/models"
)

var errDatabaseStoreNotInitialised = errors.New("cache: database store not initialised")

// DatabaseStore implements the cache Store interface using the primary SQL database.
// It is the fallback tier when no dedicated cache server is configured.
type DatabaseStore struct {
	db  *gorm.DB
	now func() time.Time
}

// DatabaseStoreOption customises a DatabaseStore.
type DatabaseStoreOption func(*DatabaseStore)

// WithDatabaseClock overrides the clock used for expiry decisions.
func WithDatabaseClock(now func() time.Time) DatabaseStoreOption {
	return func(s *DatabaseStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewDatabaseStore constructs a database-backed Store.
func NewDatabaseStore(db *gorm.DB, opts ...DatabaseStoreOption) *DatabaseStore {
	if db == nil {
		return nil
	}
	store := &DatabaseStore{db: db, now: time.Now}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Get retrieves a value by key, respecting expiry.
func (s *DatabaseStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.getField(ctx, key, "")
}

// Set upserts the value for a given key with expiry.
func (s *DatabaseStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if s == nil {
		return errDatabaseStoreNotInitialised
	}
	return upsertEntry(s.db.WithContext(ctx), models.CacheEntry{
		Key:       key,
		Value:     value,
		ExpiresAt: s.expiry(ttl),
	})
}

// Delete removes keys, including every field of buckets with those names.
func (s *DatabaseStore) Delete(ctx context.Context, keys ...string) error {
	if s == nil {
		return errDatabaseStoreNotInitialised
	}
	if len(keys) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Where("bucket_key IN ?", keys).Delete(&models.CacheEntry{}).Error
}

// HGet reads one field of a bucket.
func (s *DatabaseStore) HGet(ctx context.Context, bucket, field string) ([]byte, bool, error) {
	return s.getField(ctx, bucket, field)
}

// SetField upserts a bucket field and moves the expiry of every field in the
// bucket within one transaction. Fields of an already expired bucket are
// dropped first, so a write after expiry starts a fresh bucket.
func (s *DatabaseStore) SetField(ctx context.Context, bucket, field string, value []byte, ttl time.Duration) error {
	if s == nil {
		return errDatabaseStoreNotInitialised
	}
	if ttl <= 0 {
		return ErrInvalidTTL
	}
	now := s.now().UTC()
	expiry := now.Add(ttl)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("bucket_key = ? AND expires_at > ? AND expires_at <= ?", bucket, time.Time{}, now).
			Delete(&models.CacheEntry{}).Error; err != nil {
			return err
		}
		if err := upsertEntry(tx, models.CacheEntry{
			Key:       bucket,
			Field:     field,
			Value:     value,
			ExpiresAt: expiry,
		}); err != nil {
			return err
		}
		return tx.Model(&models.CacheEntry{}).
			Where("bucket_key = ?", bucket).
			Update("expires_at", expiry).Error
	})
}

// Ping checks the underlying connection.
func (s *DatabaseStore) Ping(ctx context.Context) error {
	if s == nil {
		return errDatabaseStoreNotInitialised
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// PurgeExpired deletes rows whose expiry has passed and reports how many were removed.
func (s *DatabaseStore) PurgeExpired(ctx context.Context) (int64, error) {
	if s == nil {
		return 0, errDatabaseStoreNotInitialised
	}
	result := s.db.WithContext(ctx).
		Where("expires_at > ? AND expires_at <= ?", time.Time{}, s.now().UTC()).
		Delete(&models.CacheEntry{})
	return result.RowsAffected, result.Error
}

func (s *DatabaseStore) getField(ctx context.Context, key, field string) ([]byte, bool, error) {
	if s == nil {
		return nil, false, errDatabaseStoreNotInitialised
	}

	var entry models.CacheEntry
	err := s.db.WithContext(ctx).
		Take(&entry, "bucket_key = ? AND bucket_field = ?", key, field).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	if !entry.ExpiresAt.IsZero() && !s.now().Before(entry.ExpiresAt) {
		return nil, false, nil
	}

	return entry.Value, true, nil
}

func (s *DatabaseStore) expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return s.now().UTC().Add(ttl)
}

func upsertEntry(db *gorm.DB, entry models.CacheEntry) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "bucket_key"}, {Name: "bucket_field"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
	}).Create(&entry).Error
}

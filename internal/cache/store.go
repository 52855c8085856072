package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrInvalidTTL is returned when a bucket write would leave the bucket without an expiry.
	ErrInvalidTTL = errors.New("cache: bucket writes require a positive ttl")
	// ErrBucketContention is returned when a bucket could not be updated after repeated conflicts.
	ErrBucketContention = errors.New("cache: bucket update lost to concurrent writers")
)

// Store is the cache tier shared by the listing read paths.
//
// Plain keys hold one serialized value. Buckets hold several values addressed by
// field and share one expiry. SetField writes the field and refreshes the bucket
// expiry as a single atomic operation so a bucket never outlives its ttl.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	HGet(ctx context.Context, bucket, field string) ([]byte, bool, error)
	SetField(ctx context.Context, bucket, field string, value []byte, ttl time.Duration) error
	Ping(ctx context.Context) error
}

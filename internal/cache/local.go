package cache

import (
	"context"
	"sync"
	"time"

	"github.com/karlseguin/ccache/v3"
)

const defaultLocalMaxSize = 10000

// LocalStore is an in-process Store backed by ccache. It suits single-instance
// deployments and development without a shared cache tier.
type LocalStore struct {
	values  *ccache.Cache[[]byte]
	buckets *ccache.Cache[map[string][]byte]
	// mu serialises bucket read-modify-write cycles.
	mu sync.Mutex
}

// NewLocalStore creates a LocalStore holding at most maxSize entries per kind.
func NewLocalStore(maxSize int64) *LocalStore {
	if maxSize <= 0 {
		maxSize = defaultLocalMaxSize
	}
	return &LocalStore{
		values:  ccache.New(ccache.Configure[[]byte]().MaxSize(maxSize)),
		buckets: ccache.New(ccache.Configure[map[string][]byte]().MaxSize(maxSize)),
	}
}

// Close stops the ccache background workers.
func (s *LocalStore) Close() error {
	s.values.Stop()
	s.buckets.Stop()
	return nil
}

// Get retrieves the value associated with a key.
func (s *LocalStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	item := s.values.Get(key)
	if item == nil || item.Expired() {
		return nil, false, nil
	}
	return item.Value(), true, nil
}

// Set stores a value with an expiry.
func (s *LocalStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = 100 * 365 * 24 * time.Hour
	}
	s.values.Set(key, value, ttl)
	return nil
}

// Delete removes keys and buckets with the given names.
func (s *LocalStore) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		s.values.Delete(key)
		s.buckets.Delete(key)
	}
	return nil
}

// HGet reads one field of a bucket.
func (s *LocalStore) HGet(_ context.Context, bucket, field string) ([]byte, bool, error) {
	item := s.buckets.Get(bucket)
	if item == nil || item.Expired() {
		return nil, false, nil
	}
	value, ok := item.Value()[field]
	return value, ok, nil
}

// SetField adds a field to a bucket and resets the bucket expiry. Stored maps
// are never mutated, readers always see a complete copy.
func (s *LocalStore) SetField(_ context.Context, bucket, field string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return ErrInvalidTTL
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	fields := map[string][]byte{}
	if item := s.buckets.Get(bucket); item != nil && !item.Expired() {
		for k, v := range item.Value() {
			fields[k] = v
		}
	}
	fields[field] = value
	s.buckets.Set(bucket, fields, ttl)
	return nil
}

// Ping always succeeds for the in-process store.
func (s *LocalStore) Ping(context.Context) error {
	return nil
}

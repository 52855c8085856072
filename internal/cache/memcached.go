package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
)

// MemcachedConfig captures the connection parameters of the memcached cache tier.
type MemcachedConfig struct {
	Servers      []string
	Timeout      time.Duration
	MaxIdleConns int
}

const (
	memcachedKeyPrefix   = "ehome:"
	memcachedMaxKeyLen   = 250
	memcachedCASAttempts = 5
)

// memcachedClient is the subset of *memcache.Client used by the store.
type memcachedClient interface {
	Get(key string) (*memcache.Item, error)
	Set(item *memcache.Item) error
	Add(item *memcache.Item) error
	CompareAndSwap(item *memcache.Item) error
	Delete(key string) error
	Ping() error
}

// MemcachedStore implements Store on memcached. A bucket is one item holding a
// JSON object of fields; SetField rewrites it with compare-and-swap so the field
// and the refreshed expiry land together.
type MemcachedStore struct {
	client memcachedClient
}

// NewMemcachedStore builds a client for the configured servers and pings them.
func NewMemcachedStore(cfg MemcachedConfig) (*MemcachedStore, error) {
	servers := make([]string, 0, len(cfg.Servers))
	for _, server := range cfg.Servers {
		if trimmed := strings.TrimSpace(server); trimmed != "" {
			servers = append(servers, trimmed)
		}
	}
	if len(servers) == 0 {
		return nil, errors.New("memcached: at least one server is required")
	}

	client := memcache.New(servers...)
	if cfg.Timeout > 0 {
		client.Timeout = cfg.Timeout
	}
	if cfg.MaxIdleConns > 0 {
		client.MaxIdleConns = cfg.MaxIdleConns
	}
	if err := client.Ping(); err != nil {
		return nil, err
	}
	return &MemcachedStore{client: client}, nil
}

// Get retrieves the value associated with a key.
func (s *MemcachedStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	item, err := s.client.Get(memcachedKey(key))
	if errors.Is(err, memcache.ErrCacheMiss) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return item.Value, true, nil
}

// Set stores a value with an expiry.
func (s *MemcachedStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.client.Set(&memcache.Item{
		Key:        memcachedKey(key),
		Value:      value,
		Expiration: expirationSeconds(ttl),
	})
}

// Delete removes keys, ignoring missing ones.
func (s *MemcachedStore) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.client.Delete(memcachedKey(key)); err != nil && !errors.Is(err, memcache.ErrCacheMiss) {
			return err
		}
	}
	return nil
}

// HGet reads one field of a bucket.
func (s *MemcachedStore) HGet(ctx context.Context, bucket, field string) ([]byte, bool, error) {
	raw, ok, err := s.Get(ctx, bucket)
	if err != nil || !ok {
		return nil, false, err
	}
	fields, err := decodeBucket(raw)
	if err != nil {
		return nil, false, err
	}
	value, ok := fields[field]
	return value, ok, nil
}

// SetField adds a field to a bucket and resets the bucket expiry.
func (s *MemcachedStore) SetField(ctx context.Context, bucket, field string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return ErrInvalidTTL
	}
	key := memcachedKey(bucket)

	for attempt := 0; attempt < memcachedCASAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		item, err := s.client.Get(key)
		if errors.Is(err, memcache.ErrCacheMiss) {
			encoded, encErr := json.Marshal(map[string][]byte{field: value})
			if encErr != nil {
				return encErr
			}
			err = s.client.Add(&memcache.Item{Key: key, Value: encoded, Expiration: expirationSeconds(ttl)})
			if errors.Is(err, memcache.ErrNotStored) {
				continue
			}
			return err
		}
		if err != nil {
			return err
		}

		fields, err := decodeBucket(item.Value)
		if err != nil {
			return err
		}
		fields[field] = value
		encoded, err := json.Marshal(fields)
		if err != nil {
			return err
		}
		item.Value = encoded
		item.Expiration = expirationSeconds(ttl)

		err = s.client.CompareAndSwap(item)
		if errors.Is(err, memcache.ErrCASConflict) || errors.Is(err, memcache.ErrNotStored) {
			continue
		}
		return err
	}

	return ErrBucketContention
}

// Ping checks that every server answers.
func (s *MemcachedStore) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.client.Ping()
}

func decodeBucket(raw []byte) (map[string][]byte, error) {
	fields := map[string][]byte{}
	if len(raw) == 0 {
		return fields, nil
	}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// memcachedKey prefixes the key and hashes it when it would exceed the protocol limit.
func memcachedKey(key string) string {
	prefixed := memcachedKeyPrefix + key
	if len(prefixed) <= memcachedMaxKeyLen {
		return prefixed
	}
	sum := sha256.Sum256([]byte(key))
	return memcachedKeyPrefix + "sha256:" + hex.EncodeToString(sum[:])
}

func expirationSeconds(ttl time.Duration) int32 {
	if ttl <= 0 {
		return 0
	}
	seconds := int32(ttl / time.Second)
	if seconds == 0 {
		seconds = 1
	}
	return seconds
}

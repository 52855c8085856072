// Package cacheaside implements read-through caching of listing payloads in
// front of the relational store.
//
// Cache failures are soft: a failed read is treated as a miss and a failed write
// is logged and dropped. Store failures are hard and surface as *StoreError.
package cacheaside

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ehomehq/ehome/internal/cache"
	"github.com/ehomehq/ehome/pkg/logger"
	"github.com/ehomehq/ehome/pkg/metrics"
)

// ErrEmpty is returned by loaders when a valid query matched nothing.
var ErrEmpty = errors.New("cacheaside: no data")

// Outcome describes how a cache lookup resolved.
type Outcome string

const (
	OutcomeHit         Outcome = "hit"
	OutcomeMiss        Outcome = "miss"
	OutcomeUnavailable Outcome = "unavailable"
)

// StoreError wraps a relational store failure.
type StoreError struct {
	Resource string
	Err      error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("cacheaside: load %s: %v", e.Resource, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Resource names a cached resource and its fixed time-to-live.
type Resource struct {
	Name string
	TTL  time.Duration
}

// Result is the serialized payload together with how it was obtained.
type Result struct {
	Payload json.RawMessage
	Outcome Outcome
}

// Loader reads a value from the relational store.
type Loader[T any] func(ctx context.Context) (T, error)

// Cache binds a cache tier to the read-through helpers.
type Cache struct {
	store cache.Store
	log   *zap.Logger
}

// New constructs a Cache. A nil logger uses the global module logger.
func New(store cache.Store, log *zap.Logger) (*Cache, error) {
	if store == nil {
		return nil, errors.New("cacheaside: cache store is required")
	}
	if log == nil {
		log = logger.WithModule("cacheaside")
	}
	return &Cache{store: store, log: log}, nil
}

// Fetch returns the cached payload under key, or loads, serializes and caches it.
// A cached payload is returned byte for byte.
func Fetch[T any](ctx context.Context, c *Cache, res Resource, key string, load Loader[T]) (Result, error) {
	outcome := c.lookup(ctx, res, key, func() ([]byte, bool, error) {
		return c.store.Get(ctx, key)
	})
	if outcome.hit {
		return Result{Payload: outcome.payload, Outcome: OutcomeHit}, nil
	}

	value, err := observeLoad(res, func() (T, error) { return load(ctx) })
	if err != nil {
		return Result{}, err
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return Result{}, fmt.Errorf("cacheaside: encode %s: %w", res.Name, err)
	}

	if err := c.store.Set(ctx, key, payload, res.TTL); err != nil {
		c.writeFailed(res, key, err)
	}

	return Result{Payload: payload, Outcome: outcome.kind}, nil
}

type lookupOutcome struct {
	hit     bool
	payload []byte
	kind    Outcome
}

func (c *Cache) lookup(ctx context.Context, res Resource, key string, get func() ([]byte, bool, error)) lookupOutcome {
	payload, ok, err := get()
	switch {
	case err != nil:
		metrics.CacheLookups.WithLabelValues(res.Name, string(OutcomeUnavailable)).Inc()
		c.log.Warn("cache read failed; falling back to store",
			zap.String("resource", res.Name),
			zap.String("key", key),
			zap.Error(err),
		)
		return lookupOutcome{kind: OutcomeUnavailable}
	case ok:
		metrics.CacheLookups.WithLabelValues(res.Name, string(OutcomeHit)).Inc()
		c.log.Debug("hit "+res.Name+" cache", zap.String("key", key))
		return lookupOutcome{hit: true, payload: payload, kind: OutcomeHit}
	default:
		metrics.CacheLookups.WithLabelValues(res.Name, string(OutcomeMiss)).Inc()
		return lookupOutcome{kind: OutcomeMiss}
	}
}

func (c *Cache) writeFailed(res Resource, key string, err error) {
	metrics.CacheWriteFailures.WithLabelValues(res.Name).Inc()
	c.log.Warn("cache write failed",
		zap.String("resource", res.Name),
		zap.String("key", key),
		zap.Error(err),
	)
}

// observeLoad times a store read and classifies its error.
func observeLoad[T any](res Resource, load func() (T, error)) (T, error) {
	start := time.Now()
	value, err := load()

	result := "ok"
	switch {
	case errors.Is(err, ErrEmpty):
		result = "empty"
	case err != nil:
		result = "error"
	}
	metrics.StoreLatency.WithLabelValues(res.Name, result).Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		return value, nil
	case errors.Is(err, ErrEmpty):
		var zero T
		return zero, err
	default:
		var zero T
		return zero, &StoreError{Resource: res.Name, Err: err}
	}
}

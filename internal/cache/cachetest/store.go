// Package cachetest provides a deterministic in-memory cache.Store for tests.
package cachetest

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ehomehq/ehome/internal/cache"
)

// ErrUnavailable is the default error returned by a failing Store.
var ErrUnavailable = errors.New("cachetest: cache tier unavailable")

// Op names a Store operation for failure injection and call counting.
type Op string

const (
	OpGet      Op = "get"
	OpSet      Op = "set"
	OpDelete   Op = "delete"
	OpHGet     Op = "hget"
	OpSetField Op = "set_field"
	OpPing     Op = "ping"
)

type entry struct {
	value     []byte
	fields    map[string][]byte
	expiresAt time.Time
}

// Store is an in-memory cache.Store with a manual clock.
type Store struct {
	mu       sync.Mutex
	now      time.Time
	entries  map[string]*entry
	failures map[Op]error
	calls    map[Op]int
	ttls     map[string]time.Duration
}

var _ cache.Store = (*Store)(nil)

// New returns an empty Store whose clock starts at a fixed instant.
func New() *Store {
	return &Store{
		now:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		entries:  map[string]*entry{},
		failures: map[Op]error{},
		calls:    map[Op]int{},
		ttls:     map[string]time.Duration{},
	}
}

// Advance moves the clock forward.
func (s *Store) Advance(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = s.now.Add(d)
}

// Fail makes op return err (ErrUnavailable when err is nil) until Recover is called.
func (s *Store) Fail(op Op, err error) {
	if err == nil {
		err = ErrUnavailable
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

// FailAll makes every operation fail.
func (s *Store) FailAll() {
	for _, op := range []Op{OpGet, OpSet, OpDelete, OpHGet, OpSetField, OpPing} {
		s.Fail(op, nil)
	}
}

// Recover clears every injected failure.
func (s *Store) Recover() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = map[Op]error{}
}

// Calls reports how many times op was invoked, failed calls included.
func (s *Store) Calls(op Op) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// TTL reports the ttl last applied to key, zero when absent or expired.
func (s *Store) TTL(key string) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.live(key) == nil {
		return 0
	}
	return s.ttls[key]
}

// Exists reports whether key holds a live value or bucket.
func (s *Store) Exists(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live(key) != nil
}

// Fields lists the live fields of a bucket.
func (s *Store) Fields(bucket string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.live(bucket)
	if e == nil {
		return nil
	}
	fields := make([]string, 0, len(e.fields))
	for field := range e.fields {
		fields = append(fields, field)
	}
	return fields
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record(OpGet); err != nil {
		return nil, false, err
	}
	e := s.live(key)
	if e == nil || e.fields != nil {
		return nil, false, nil
	}
	return clone(e.value), true, nil
}

func (s *Store) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record(OpSet); err != nil {
		return err
	}
	s.entries[key] = &entry{value: clone(value), expiresAt: s.expiry(ttl)}
	s.ttls[key] = ttl
	return nil
}

func (s *Store) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record(OpDelete); err != nil {
		return err
	}
	for _, key := range keys {
		delete(s.entries, key)
		delete(s.ttls, key)
	}
	return nil
}

func (s *Store) HGet(_ context.Context, bucket, field string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record(OpHGet); err != nil {
		return nil, false, err
	}
	e := s.live(bucket)
	if e == nil || e.fields == nil {
		return nil, false, nil
	}
	value, ok := e.fields[field]
	return clone(value), ok, nil
}

func (s *Store) SetField(_ context.Context, bucket, field string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record(OpSetField); err != nil {
		return err
	}
	if ttl <= 0 {
		return cache.ErrInvalidTTL
	}
	e := s.live(bucket)
	if e == nil || e.fields == nil {
		e = &entry{fields: map[string][]byte{}}
		s.entries[bucket] = e
	}
	e.fields[field] = clone(value)
	e.expiresAt = s.expiry(ttl)
	s.ttls[bucket] = ttl
	return nil
}

func (s *Store) Ping(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record(OpPing)
}

func (s *Store) record(op Op) error {
	s.calls[op]++
	return s.failures[op]
}

func (s *Store) live(key string) *entry {
	e, ok := s.entries[key]
	if !ok {
		return nil
	}
	if !e.expiresAt.IsZero() && !s.now.Before(e.expiresAt) {
		delete(s.entries, key)
		delete(s.ttls, key)
		return nil
	}
	return e
}

func (s *Store) expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return s.now.Add(ttl)
}

func clone(value []byte) []byte {
	if value == nil {
		return nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out
}

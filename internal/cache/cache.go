package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Common errors
var (
	// ErrTypeMismatch is returned when a cached value cannot be
	// asserted to the type the caller asked for. It means two call
	// sites share a key but disagree on its value type.
	ErrTypeMismatch = errors.New("cached value has unexpected type")
)

// DefaultSweepInterval is how often the expiry sweep runs unless
// overridden.
const DefaultSweepInterval = time.Minute

// DefaultTopKeyLimit bounds the top-keys section of a metrics snapshot.
const DefaultTopKeyLimit = 10

// entry is one cached value together with its resolved expiration
// behavior. Entries are owned exclusively by the Service: created on
// miss, replaced on re-fill, removed on invalidation or TTL expiry.
type entry struct {
	value     any
	policy    Policy
	ttl       time.Duration // effective TTL: override or namespace TTL
	expiresAt time.Time     // zero means the entry never expires
	factory   func(ctx context.Context) (any, error)
}

func (e *entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Service is the in-process, multi-namespace cache. It is safe for
// concurrent use by any number of goroutines.
//
// Expiration policy comes exclusively from the PolicyTable; call sites
// choose keys, not TTLs. Hit and miss counts feed both the in-process
// Metrics snapshot and, when attached, Prometheus counters.
type Service struct {
	mu      sync.RWMutex
	entries map[string]*entry

	policies  *PolicyTable
	stats     *accessStats
	prom      *PromMetrics
	group     singleflight.Group
	refresher *Refresher
	logger    *slog.Logger
	clock     func() time.Time

	topKeyLimit   int
	sweepInterval time.Duration

	sweepCtx    context.Context
	sweepCancel context.CancelFunc
	sweepWG     sync.WaitGroup
	started     bool
}

// Option customizes a Service at construction time.
type Option func(*Service)

// WithRefresher attaches a background refresher; expired refreshable
// entries are re-filled through it during sweeps.
func WithRefresher(r *Refresher) Option {
	return func(s *Service) { s.refresher = r }
}

// WithPromMetrics attaches Prometheus counters.
func WithPromMetrics(m *PromMetrics) Option {
	return func(s *Service) { s.prom = m }
}

// WithClock overrides the time source. Intended for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

// WithSweepInterval overrides how often the expiry sweep runs.
func WithSweepInterval(d time.Duration) Option {
	return func(s *Service) { s.sweepInterval = d }
}

// WithTopKeyLimit overrides the number of keys in a metrics snapshot.
func WithTopKeyLimit(n int) Option {
	return func(s *Service) { s.topKeyLimit = n }
}

// NewService creates a cache service over the given policy table. If
// logger is nil, the default logger is used.
func NewService(policies *PolicyTable, logger *slog.Logger, opts ...Option) *Service {
	if policies == nil {
		policies = DefaultPolicyTable()
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	s := &Service{
		entries:       make(map[string]*entry),
		policies:      policies,
		stats:         newAccessStats(),
		logger:        logger.With(slog.String("component", "cache_service")),
		clock:         time.Now,
		topKeyLimit:   DefaultTopKeyLimit,
		sweepInterval: DefaultSweepInterval,
		sweepCtx:      ctx,
		sweepCancel:   cancel,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start launches the periodic expiry sweep.
func (s *Service) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.sweepInterval <= 0 {
		return
	}
	s.started = true

	s.sweepWG.Add(1)
	go s.sweepLoop()
}

// Stop halts the expiry sweep. The cache itself stays usable; only the
// background expiry (and with it, background refresh) goes quiet.
func (s *Service) Stop() {
	s.sweepCancel()
	s.sweepWG.Wait()
}

// Factory produces the value for a key on a cache miss.
type Factory[T any] func(ctx context.Context) (T, error)

// GetOrUpdate returns the live value for key, filling it through
// factory on a miss. The entry is stored under its namespace policy.
//
// Concurrent misses for the same key share a single factory call
// (in-flight de-duplication); this is deliberately stronger than
// plain "each miss fills independently", and factories must still be
// idempotent reads because an entry can expire and re-fill at any
// time. A nil factory result is returned to the caller but never
// cached, so the next read retries.
func GetOrUpdate[T any](ctx context.Context, s *Service, key string, factory Factory[T]) (T, error) {
	return GetOrUpdateTTL(ctx, s, key, 0, factory)
}

// GetOrUpdateTTL is GetOrUpdate with a per-call TTL override. A zero
// ttl defers to the namespace policy.
func GetOrUpdateTTL[T any](
	ctx context.Context,
	s *Service,
	key string,
	ttl time.Duration,
	factory Factory[T],
) (T, error) {
	var zero T

	v, err := s.getOrUpdate(ctx, key, ttl, func(ctx context.Context) (any, error) {
		return factory(ctx)
	})
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}

	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: key %q holds %T", ErrTypeMismatch, key, v)
	}
	return typed, nil
}

// getOrUpdate is the untyped core of GetOrUpdate.
func (s *Service) getOrUpdate(
	ctx context.Context,
	key string,
	ttlOverride time.Duration,
	factory func(ctx context.Context) (any, error),
) (any, error) {
	now := s.clock()

	s.mu.Lock()
	if e, ok := s.entries[key]; ok {
		if !e.expired(now) {
			if e.policy.Mode == ExpirationSliding && e.ttl > 0 {
				e.expiresAt = now.Add(e.ttl)
			}
			v := e.value
			s.mu.Unlock()
			s.stats.recordHit(key)
			s.prom.recordHit()
			return v, nil
		}
		// Expired under a synchronous read: drop it and fall through
		// to a plain miss. The read path never schedules background
		// refresh; the caller is about to fill the key anyway.
		delete(s.entries, key)
	}
	s.mu.Unlock()

	s.stats.recordMiss(key)
	s.prom.recordMiss()

	v, err, _ := s.group.Do(key, func() (any, error) {
		// Another flight may have filled the key while we queued.
		if v, ok := s.peek(key); ok {
			return v, nil
		}

		v, err := factory(ctx)
		if err != nil {
			return nil, err
		}
		if isNilValue(v) {
			// Never cache an empty result: the next read must retry.
			return v, nil
		}

		s.store(key, v, ttlOverride, factory)
		return v, nil
	})
	return v, err
}

// peek returns the live value for key without touching counters or
// sliding deadlines.
func (s *Service) peek(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	if !ok || e.expired(s.clock()) {
		return nil, false
	}
	return e.value, true
}

// store inserts or replaces an entry under its namespace policy.
func (s *Service) store(
	key string,
	value any,
	ttlOverride time.Duration,
	factory func(ctx context.Context) (any, error),
) {
	policy := s.policies.PolicyFor(key)

	ttl := policy.TTL
	if ttlOverride > 0 {
		ttl = ttlOverride
	}

	e := &entry{
		value:  value,
		policy: policy,
		ttl:    ttl,
	}
	if policy.Priority != PriorityNeverEvict && ttl > 0 {
		e.expiresAt = s.clock().Add(ttl)
	}
	if policy.Refreshable {
		e.factory = factory
	}

	s.mu.Lock()
	s.entries[key] = e
	s.mu.Unlock()
}

// Invalidate removes key unconditionally. Removing an absent key is a
// no-op. Explicit invalidation is a hard drop: it never triggers a
// background refresh.
func (s *Service) Invalidate(key string) {
	s.mu.Lock()
	_, existed := s.entries[key]
	delete(s.entries, key)
	s.mu.Unlock()

	if existed {
		s.prom.recordInvalidation(1)
	}
}

// InvalidatePattern removes every currently-tracked key whose string
// contains substring and reports how many entries were dropped.
func (s *Service) InvalidatePattern(substring string) int {
	s.mu.Lock()
	var dropped int
	for key := range s.entries {
		if strings.Contains(key, substring) {
			delete(s.entries, key)
			dropped++
		}
	}
	s.mu.Unlock()

	if dropped > 0 {
		s.prom.recordInvalidation(dropped)
		s.logger.Debug("invalidated by pattern",
			"pattern", substring,
			"count", dropped)
	}
	return dropped
}

// Metrics returns a read-only effectiveness snapshot. It never fails.
func (s *Service) Metrics() Metrics {
	return s.stats.snapshot(s.topKeyLimit)
}

// Len reports the number of live entries.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// sweepLoop runs the periodic expiry sweep until Stop.
func (s *Service) sweepLoop() {
	defer s.sweepWG.Done()

	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.sweepCtx.Done():
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

// sweep drops expired entries and hands refreshable ones to the
// background refresher. This is the only path that turns a natural TTL
// expiry into a refresh; explicit invalidation never does.
func (s *Service) sweep() {
	now := s.clock()

	type expiredEntry struct {
		key string
		e   *entry
	}

	s.mu.Lock()
	var expired []expiredEntry
	for key, e := range s.entries {
		if e.expired(now) {
			expired = append(expired, expiredEntry{key, e})
			delete(s.entries, key)
		}
	}
	s.mu.Unlock()

	if len(expired) == 0 {
		return
	}

	s.logger.Debug("expiry sweep", "count", len(expired))

	if s.refresher == nil {
		return
	}
	for _, ex := range expired {
		if ex.e.factory == nil {
			continue
		}
		s.scheduleRefresh(ex.key, ex.e)
	}
}

// scheduleRefresh queues a re-fill of one expired refreshable entry,
// keeping its original factory and effective TTL.
func (s *Service) scheduleRefresh(key string, old *entry) {
	factory := old.factory
	ttl := old.ttl

	s.refresher.Schedule(key, func(ctx context.Context) error {
		v, err := factory(ctx)
		if err != nil {
			return err
		}
		if isNilValue(v) {
			// Leave the key absent; the next read degrades to a
			// synchronous miss.
			return nil
		}
		s.store(key, v, ttl, factory)
		return nil
	})
}

// isNilValue reports whether v is nil or a typed nil pointer, map,
// slice, interface, channel or function.
func isNilValue(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface,
		reflect.Chan, reflect.Func:
		return rv.IsNil()
	default:
		return false
	}
}

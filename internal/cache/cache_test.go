package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testClock is a manually advanced time source.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestService(t *testing.T, opts ...Option) (*Service, *testClock) {
	t.Helper()
	clock := newTestClock()
	opts = append([]Option{WithClock(clock.Now)}, opts...)
	return NewService(DefaultPolicyTable(), nil, opts...), clock
}

func constFactory(value string, calls *atomic.Int64) Factory[string] {
	return func(ctx context.Context) (string, error) {
		if calls != nil {
			calls.Add(1)
		}
		return value, nil
	}
}

func TestGetOrUpdateFillsOnMissAndServesHits(t *testing.T) {
	t.Parallel()
	s, _ := newTestService(t)
	ctx := context.Background()

	var calls atomic.Int64

	v, err := GetOrUpdate(ctx, s, "user_abc", constFactory("alice", &calls))
	require.NoError(t, err)
	assert.Equal(t, "alice", v)
	assert.Equal(t, int64(1), calls.Load())

	v, err = GetOrUpdate(ctx, s, "user_abc", constFactory("bob", &calls))
	require.NoError(t, err)
	assert.Equal(t, "alice", v, "hit must serve the cached value")
	assert.Equal(t, int64(1), calls.Load(), "hit must not invoke the factory")
}

func TestGetOrUpdateExpiry(t *testing.T) {
	t.Parallel()
	s, clock := newTestService(t)
	ctx := context.Background()

	var calls atomic.Int64

	_, err := GetOrUpdate(ctx, s, "user_abc", constFactory("alice", &calls))
	require.NoError(t, err)

	// user_* namespace: medium TTL (15 minutes).
	clock.Advance(16 * time.Minute)

	v, err := GetOrUpdate(ctx, s, "user_abc", constFactory("alice2", &calls))
	require.NoError(t, err)
	assert.Equal(t, "alice2", v)
	assert.Equal(t, int64(2), calls.Load(), "expired entry must re-fill")
}

func TestGetOrUpdateSlidingExpirationExtendsOnAccess(t *testing.T) {
	t.Parallel()
	s, clock := newTestService(t)
	ctx := context.Background()

	var calls atomic.Int64

	_, err := GetOrUpdate(ctx, s, "user_abc", constFactory("alice", &calls))
	require.NoError(t, err)

	// Touch the entry every 10 minutes; the sliding 15-minute TTL
	// resets each time, so it must survive well past a fixed deadline.
	for i := 0; i < 4; i++ {
		clock.Advance(10 * time.Minute)
		_, err = GetOrUpdate(ctx, s, "user_abc", constFactory("other", &calls))
		require.NoError(t, err)
	}

	assert.Equal(t, int64(1), calls.Load())
}

func TestGetOrUpdateAbsoluteExpirationIgnoresAccess(t *testing.T) {
	t.Parallel()
	s, clock := newTestService(t)
	ctx := context.Background()

	var calls atomic.Int64

	// active_tasks namespace: short TTL, absolute expiration.
	key := "active_tasks_u1"
	_, err := GetOrUpdate(ctx, s, key, constFactory("tasks", &calls))
	require.NoError(t, err)

	clock.Advance(3 * time.Minute)
	_, err = GetOrUpdate(ctx, s, key, constFactory("tasks", &calls))
	require.NoError(t, err)
	require.Equal(t, int64(1), calls.Load())

	// 3 + 3 minutes past insertion exceeds the 5-minute TTL even though
	// the entry was touched in between.
	clock.Advance(3 * time.Minute)
	_, err = GetOrUpdate(ctx, s, key, constFactory("tasks", &calls))
	require.NoError(t, err)
	assert.Equal(t, int64(2), calls.Load())
}

func TestGetOrUpdateTTLOverride(t *testing.T) {
	t.Parallel()
	s, clock := newTestService(t)
	ctx := context.Background()

	var calls atomic.Int64

	_, err := GetOrUpdateTTL(ctx, s, "user_abc", time.Minute, constFactory("alice", &calls))
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)

	_, err = GetOrUpdateTTL(ctx, s, "user_abc", time.Minute, constFactory("alice", &calls))
	require.NoError(t, err)
	assert.Equal(t, int64(2), calls.Load(), "override TTL must beat the namespace TTL")
}

func TestGetOrUpdateNeverCachesNilResults(t *testing.T) {
	t.Parallel()
	s, _ := newTestService(t)
	ctx := context.Background()

	var calls atomic.Int64
	factory := func(ctx context.Context) (*string, error) {
		calls.Add(1)
		return nil, nil
	}

	v, err := GetOrUpdate(ctx, s, "user_abc", factory)
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = GetOrUpdate(ctx, s, "user_abc", factory)
	require.NoError(t, err)
	assert.Equal(t, int64(2), calls.Load(), "nil result must not be cached")
}

func TestGetOrUpdateFactoryErrorNotCached(t *testing.T) {
	t.Parallel()
	s, _ := newTestService(t)
	ctx := context.Background()

	failing := errors.New("store down")
	var calls atomic.Int64

	_, err := GetOrUpdate(ctx, s, "user_abc", func(ctx context.Context) (string, error) {
		calls.Add(1)
		return "", failing
	})
	require.ErrorIs(t, err, failing)

	v, err := GetOrUpdate(ctx, s, "user_abc", constFactory("recovered", &calls))
	require.NoError(t, err)
	assert.Equal(t, "recovered", v)
	assert.Equal(t, int64(2), calls.Load())
}

func TestInvalidateForcesRefill(t *testing.T) {
	t.Parallel()
	s, _ := newTestService(t)
	ctx := context.Background()

	var calls atomic.Int64

	_, err := GetOrUpdate(ctx, s, "user_abc", constFactory("alice", &calls))
	require.NoError(t, err)

	s.Invalidate("user_abc")

	// No stale hit survives explicit invalidation.
	v, err := GetOrUpdate(ctx, s, "user_abc", constFactory("alice2", &calls))
	require.NoError(t, err)
	assert.Equal(t, "alice2", v)
	assert.Equal(t, int64(2), calls.Load())
}

func TestInvalidateAbsentKeyIsNoOp(t *testing.T) {
	t.Parallel()
	s, _ := newTestService(t)

	s.Invalidate("never_stored")
	assert.Zero(t, s.Len())
}

func TestInvalidatePattern(t *testing.T) {
	t.Parallel()
	s, _ := newTestService(t)
	ctx := context.Background()

	keys := []string{"members_dept_eng", "members_dept_sales", "team_x", "user_y"}
	for _, key := range keys {
		_, err := GetOrUpdate(ctx, s, key, constFactory("v", nil))
		require.NoError(t, err)
	}

	dropped := s.InvalidatePattern("members_dept_")
	assert.Equal(t, 2, dropped)
	assert.Equal(t, 2, s.Len())
}

func TestMetricsSnapshot(t *testing.T) {
	t.Parallel()
	s, _ := newTestService(t, WithTopKeyLimit(1))
	ctx := context.Background()

	_, err := GetOrUpdate(ctx, s, "user_a", constFactory("v", nil)) // miss
	require.NoError(t, err)
	_, err = GetOrUpdate(ctx, s, "user_a", constFactory("v", nil)) // hit
	require.NoError(t, err)
	_, err = GetOrUpdate(ctx, s, "user_b", constFactory("v", nil)) // miss
	require.NoError(t, err)

	m := s.Metrics()
	assert.Equal(t, int64(1), m.Hits)
	assert.Equal(t, int64(2), m.Misses)
	assert.InDelta(t, 1.0/3.0, m.HitRatio, 1e-9)
	require.Len(t, m.TopKeys, 1)
	assert.Equal(t, "user_a", m.TopKeys[0].Key)
}

func TestConcurrentMissesShareOneFactoryCall(t *testing.T) {
	t.Parallel()
	s, _ := newTestService(t)
	ctx := context.Background()

	release := make(chan struct{})
	var calls atomic.Int64

	factory := func(ctx context.Context) (string, error) {
		calls.Add(1)
		<-release
		return "shared", nil
	}

	const goroutines = 10
	var wg sync.WaitGroup
	results := make([]string, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := GetOrUpdate(ctx, s, "dashboard_stats_u", factory)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	// Give every goroutine time to reach the in-flight group, then let
	// the single factory call finish.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int64(1), calls.Load(), "concurrent misses must share one fill")
	for _, v := range results {
		assert.Equal(t, "shared", v)
	}
}

func TestGetOrUpdateTypeMismatch(t *testing.T) {
	t.Parallel()
	s, _ := newTestService(t)
	ctx := context.Background()

	_, err := GetOrUpdate(ctx, s, "user_abc", constFactory("a string", nil))
	require.NoError(t, err)

	_, err = GetOrUpdate(ctx, s, "user_abc", func(ctx context.Context) (int, error) {
		return 7, nil
	})
	require.ErrorIs(t, err, ErrTypeMismatch)
}

func TestConcurrentAccessDoesNotLoseCounts(t *testing.T) {
	t.Parallel()
	s, _ := newTestService(t)
	ctx := context.Background()

	_, err := GetOrUpdate(ctx, s, "user_hot", constFactory("v", nil))
	require.NoError(t, err)

	const goroutines = 8
	const perGoroutine = 200

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				_, err := GetOrUpdate(ctx, s, "user_hot", constFactory("v", nil))
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	m := s.Metrics()
	assert.Equal(t, int64(goroutines*perGoroutine), m.Hits)
}

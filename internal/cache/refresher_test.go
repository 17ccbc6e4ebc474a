package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefresherRunsScheduledJobs(t *testing.T) {
	t.Parallel()
	r := NewRefresher(RefresherConfig{WorkerCount: 2, QueueSize: 10}, nil)
	r.Start()
	defer r.Stop()

	var ran atomic.Int64
	ok := r.Schedule("user_a", func(ctx context.Context) error {
		ran.Add(1)
		return nil
	})
	require.True(t, ok)

	require.Eventually(t, func() bool {
		return ran.Load() == 1
	}, time.Second, 5*time.Millisecond)
}

func TestRefresherSwallowsJobFailures(t *testing.T) {
	t.Parallel()
	r := NewRefresher(RefresherConfig{WorkerCount: 1, QueueSize: 10}, nil)
	r.Start()
	defer r.Stop()

	var attempts atomic.Int64
	r.Schedule("user_a", func(ctx context.Context) error {
		attempts.Add(1)
		return errors.New("store down")
	})
	r.Schedule("user_b", func(ctx context.Context) error {
		attempts.Add(1)
		return nil
	})

	// A failed refresh must never stop the workers from taking the
	// next job.
	require.Eventually(t, func() bool {
		return attempts.Load() == 2
	}, time.Second, 5*time.Millisecond)
}

func TestRefresherDropsWhenQueueFull(t *testing.T) {
	t.Parallel()
	r := NewRefresher(RefresherConfig{WorkerCount: 1, QueueSize: 1}, nil)
	// Not started: nothing drains the queue.
	defer r.Stop()

	fill := func(ctx context.Context) error { return nil }

	assert.True(t, r.Schedule("user_a", fill))
	assert.False(t, r.Schedule("user_b", fill), "full queue must drop, not block")
}

func TestRefresherRejectsAfterStop(t *testing.T) {
	t.Parallel()
	r := NewRefresher(RefresherConfig{}, nil)
	r.Start()
	r.Stop()

	ok := r.Schedule("user_a", func(ctx context.Context) error { return nil })
	assert.False(t, ok)
}

func TestSweepSchedulesBackgroundRefresh(t *testing.T) {
	t.Parallel()

	r := NewRefresher(RefresherConfig{WorkerCount: 1, QueueSize: 10}, nil)
	r.Start()
	defer r.Stop()

	s, clock := newTestService(t, WithRefresher(r))
	ctx := context.Background()

	var calls atomic.Int64
	key := "active_tasks_u1"
	_, err := GetOrUpdate(ctx, s, key, constFactory("tasks", &calls))
	require.NoError(t, err)

	// Let the short-TTL entry lapse naturally and sweep it out.
	clock.Advance(6 * time.Minute)
	s.sweep()

	// The refresher re-fills the key with the original factory; once it
	// has, a read is a hit that invokes no factory.
	require.Eventually(t, func() bool {
		return calls.Load() == 2
	}, time.Second, 5*time.Millisecond)

	require.Eventually(t, func() bool {
		_, ok := s.peek(key)
		return ok
	}, time.Second, 5*time.Millisecond)

	var lateCalls atomic.Int64
	v, err := GetOrUpdate(ctx, s, key, constFactory("other", &lateCalls))
	require.NoError(t, err)
	assert.Equal(t, "tasks", v)
	assert.Zero(t, lateCalls.Load())
}

func TestSweepSkipsNonRefreshableNamespaces(t *testing.T) {
	t.Parallel()

	r := NewRefresher(RefresherConfig{WorkerCount: 1, QueueSize: 10}, nil)
	r.Start()
	defer r.Stop()

	s, clock := newTestService(t, WithRefresher(r))
	ctx := context.Background()

	var calls atomic.Int64
	_, err := GetOrUpdate(ctx, s, "user_u1", constFactory("profile", &calls))
	require.NoError(t, err)

	clock.Advance(20 * time.Minute)
	s.sweep()

	// user_* is not refreshable: the key stays absent after expiry.
	time.Sleep(50 * time.Millisecond)
	_, ok := s.peek("user_u1")
	assert.False(t, ok)
	assert.Equal(t, int64(1), calls.Load())
}

func TestExplicitInvalidationNeverTriggersRefresh(t *testing.T) {
	t.Parallel()

	r := NewRefresher(RefresherConfig{WorkerCount: 1, QueueSize: 10}, nil)
	r.Start()
	defer r.Stop()

	s, _ := newTestService(t, WithRefresher(r))
	ctx := context.Background()

	var calls atomic.Int64
	key := "active_tasks_u1"
	_, err := GetOrUpdate(ctx, s, key, constFactory("tasks", &calls))
	require.NoError(t, err)

	// A hard drop removes the entry before any sweep can see it expire.
	s.Invalidate(key)
	s.sweep()

	time.Sleep(50 * time.Millisecond)
	_, ok := s.peek(key)
	assert.False(t, ok)
	assert.Equal(t, int64(1), calls.Load(), "invalidation must not re-fill")
}

func TestRefreshFailureLeavesKeyAbsent(t *testing.T) {
	t.Parallel()

	r := NewRefresher(RefresherConfig{WorkerCount: 1, QueueSize: 10}, nil)
	r.Start()
	defer r.Stop()

	s, clock := newTestService(t, WithRefresher(r))
	ctx := context.Background()

	var calls atomic.Int64
	key := "active_tasks_u1"
	factory := func(ctx context.Context) (string, error) {
		if calls.Add(1) > 1 {
			return "", errors.New("store down")
		}
		return "tasks", nil
	}

	_, err := GetOrUpdate(ctx, s, key, factory)
	require.NoError(t, err)

	clock.Advance(6 * time.Minute)
	s.sweep()

	require.Eventually(t, func() bool {
		return calls.Load() == 2
	}, time.Second, 5*time.Millisecond)

	// Failed refresh: key absent, next read degrades to a synchronous
	// miss instead of seeing corrupt state.
	time.Sleep(50 * time.Millisecond)
	_, ok := s.peek(key)
	assert.False(t, ok)
}

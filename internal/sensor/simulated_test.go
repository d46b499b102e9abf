package sensor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
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

func newSim(clock *testClock, mutate ...func(*SimulatedConfig)) *Simulated {
	cfg := SimulatedConfig{
		Available:      true,
		Permission:     PermissionGranted,
		GrantOnRequest: true,
		Seed:           42,
		Now:            clock.Now,
		WatchInterval:  2 * time.Millisecond,
	}
	for _, m := range mutate {
		m(&cfg)
	}
	return NewSimulated(cfg)
}

func TestSimulatedDeterministic(t *testing.T) {
	ctx := context.Background()
	a := newSim(&testClock{now: fixedNow})
	b := newSim(&testClock{now: fixedNow})

	midnight := time.Date(2026, 3, 14, 0, 0, 0, 0, time.Local)
	na, err := a.StepCount(ctx, midnight, fixedNow)
	require.NoError(t, err)
	nb, err := b.StepCount(ctx, midnight, fixedNow)
	require.NoError(t, err)

	assert.Equal(t, na, nb)
	assert.Positive(t, na, "a seeded afternoon should have some steps")
}

func TestSimulatedWindowsAdd(t *testing.T) {
	ctx := context.Background()
	p := newSim(&testClock{now: fixedNow})
	midnight := time.Date(2026, 3, 14, 0, 0, 0, 0, time.Local)

	total, err := p.StepCount(ctx, midnight, fixedNow)
	require.NoError(t, err)

	sum := 0
	for h := midnight; h.Before(fixedNow); h = h.Add(time.Hour) {
		end := h.Add(time.Hour)
		if end.After(fixedNow) {
			end = fixedNow
		}
		n, err := p.StepCount(ctx, h, end)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 0)
		sum += n
	}
	assert.Equal(t, total, sum)
}

func TestSimulatedWindowEdges(t *testing.T) {
	ctx := context.Background()
	p := newSim(&testClock{now: fixedNow})

	n, err := p.StepCount(ctx, fixedNow, fixedNow)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = p.StepCount(ctx, fixedNow.Add(time.Hour), fixedNow.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n, "the future has no steps yet")

	yesterday := fixedNow.Add(-48 * time.Hour)
	n, err = p.StepCount(ctx, yesterday, yesterday.Add(time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSimulatedCompletedBucketsAreStable(t *testing.T) {
	ctx := context.Background()
	clock := &testClock{now: fixedNow}
	p := newSim(clock)
	midnight := time.Date(2026, 3, 14, 0, 0, 0, 0, time.Local)

	before, err := p.StepCount(ctx, midnight, fixedNow)
	require.NoError(t, err)

	clock.Advance(time.Hour)
	again, err := p.StepCount(ctx, midnight, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, before, again)

	later, err := p.StepCount(ctx, midnight, clock.Now())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, later, before)
}

func TestSimulatedPermission(t *testing.T) {
	ctx := context.Background()
	clock := &testClock{now: fixedNow}

	p := newSim(clock, func(c *SimulatedConfig) { c.Permission = PermissionUndetermined })
	_, err := p.StepCount(ctx, fixedNow.Add(-time.Hour), fixedNow)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	status, err := p.RequestPermission(ctx)
	require.NoError(t, err)
	assert.Equal(t, PermissionGranted, status)

	refuse := newSim(clock, func(c *SimulatedConfig) {
		c.Permission = PermissionUndetermined
		c.GrantOnRequest = false
	})
	status, err = refuse.RequestPermission(ctx)
	require.NoError(t, err)
	assert.Equal(t, PermissionDenied, status)

	// Once decided, asking again changes nothing.
	status, _ = refuse.RequestPermission(ctx)
	assert.Equal(t, PermissionDenied, status)
}

func TestSimulatedUnavailable(t *testing.T) {
	p := newSim(&testClock{now: fixedNow}, func(c *SimulatedConfig) { c.Available = false })

	ok, err := p.IsAvailable(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = p.Watch(func(int) {})
	assert.ErrorIs(t, err, ErrSensorUnavailable)
}

func TestSimulatedCancelledContext(t *testing.T) {
	p := newSim(&testClock{now: fixedNow})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.StepCount(ctx, fixedNow.Add(-time.Hour), fixedNow)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSimulatedWatchReportsRelativeCounts(t *testing.T) {
	clock := &testClock{now: fixedNow}
	p := newSim(clock)

	var mu sync.Mutex
	var got []int
	sub, err := p.Watch(func(n int) {
		mu.Lock()
		got = append(got, n)
		mu.Unlock()
	})
	require.NoError(t, err)
	defer sub.Cancel()

	// Two hours of afternoon walking.
	clock.Advance(2 * time.Hour)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) > 0
	}, time.Second, 2*time.Millisecond)

	since, err := p.StepCount(context.Background(), fixedNow, clock.Now())
	require.NoError(t, err)
	mu.Lock()
	assert.Equal(t, since, got[len(got)-1])
	mu.Unlock()

	sub.Cancel()
	sub.Cancel()
}

func TestSimulatedDrivesService(t *testing.T) {
	clock := &testClock{now: fixedNow}
	p := newSim(clock, func(c *SimulatedConfig) { c.Permission = PermissionUndetermined })
	rec := &recorder{}
	s := NewService(p, rec, WithClock(clock.Now), WithReconcileInterval(time.Hour))
	t.Cleanup(s.Stop)

	require.NoError(t, s.Start(context.Background()))
	midnight := time.Date(2026, 3, 14, 0, 0, 0, 0, time.Local)
	first, err := p.StepCount(context.Background(), midnight, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, []int{first}, rec.all())

	clock.Advance(2 * time.Hour)
	require.Eventually(t, func() bool {
		n, ok := rec.last()
		return ok && n > first
	}, time.Second, 2*time.Millisecond)
}

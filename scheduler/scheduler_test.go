package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEvery_Fires(t *testing.T) {
	s := New(zap.NewNop())
	defer s.Stop()

	var count int32
	s.Every("tick", 20*time.Millisecond, func() {
		atomic.AddInt32(&count, 1)
	})

	time.Sleep(120 * time.Millisecond)
	assert.GreaterOrEqual(t, atomic.LoadInt32(&count), int32(3))
}

func TestEvery_Replaces(t *testing.T) {
	s := New(zap.NewNop())
	defer s.Stop()

	var count1, count2 int32
	s.Every("task", 20*time.Millisecond, func() { atomic.AddInt32(&count1, 1) })
	time.Sleep(30 * time.Millisecond)
	s.Every("task", 20*time.Millisecond, func() { atomic.AddInt32(&count2, 1) })
	time.Sleep(80 * time.Millisecond)

	snap1 := atomic.LoadInt32(&count1)
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, snap1, atomic.LoadInt32(&count1), "old ticker must stop after replacement")
	assert.Positive(t, atomic.LoadInt32(&count2))
}

func TestAfter_FiresOnce(t *testing.T) {
	s := New(zap.NewNop())
	defer s.Stop()

	var count int32
	s.After("once", 30*time.Millisecond, func() {
		atomic.AddInt32(&count, 1)
	})

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&count))
}

func TestAfter_ReplacesCancelsOld(t *testing.T) {
	s := New(zap.NewNop())
	defer s.Stop()

	var count int32
	s.After("d", 500*time.Millisecond, func() { atomic.AddInt32(&count, 1) })
	s.After("d", 30*time.Millisecond, func() { atomic.AddInt32(&count, 10) })
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(10), atomic.LoadInt32(&count), "only the replacement may fire")
}

func TestRemove(t *testing.T) {
	s := New(zap.NewNop())
	defer s.Stop()

	var ticks, delays int32
	s.Every("task", 20*time.Millisecond, func() { atomic.AddInt32(&ticks, 1) })
	s.After("d", 100*time.Millisecond, func() { atomic.AddInt32(&delays, 1) })
	time.Sleep(50 * time.Millisecond)
	s.Remove("task")
	s.Remove("d")
	s.Remove("nope") // unknown names are a no-op

	snap := atomic.LoadInt32(&ticks)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, snap, atomic.LoadInt32(&ticks), "ticker must stop after Remove")
	assert.Equal(t, int32(0), atomic.LoadInt32(&delays))
}

func TestStop_StopsEverything(t *testing.T) {
	s := New(zap.NewNop())

	var c1, c2 int32
	s.Every("a", 20*time.Millisecond, func() { atomic.AddInt32(&c1, 1) })
	s.Every("b", 20*time.Millisecond, func() { atomic.AddInt32(&c2, 1) })
	time.Sleep(50 * time.Millisecond)
	s.Stop()
	s.Stop() // double-stop must not panic

	// Give goroutines time to observe the stop signal before snapping.
	time.Sleep(30 * time.Millisecond)
	snap1, snap2 := atomic.LoadInt32(&c1), atomic.LoadInt32(&c2)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, snap1, atomic.LoadInt32(&c1))
	assert.Equal(t, snap2, atomic.LoadInt32(&c2))
}

func TestTasks(t *testing.T) {
	s := New(zap.NewNop())
	defer s.Stop()

	require.Empty(t, s.Tasks())
	s.Every("alpha", time.Hour, func() {})
	s.Every("beta", time.Hour, func() {})
	names := s.Tasks()
	assert.Len(t, names, 2)
	assert.Contains(t, names, "alpha")
	assert.Contains(t, names, "beta")

	s.Remove("alpha")
	assert.Equal(t, []string{"beta"}, s.Tasks())
}

func TestEvery_PanicRecovery(t *testing.T) {
	s := New(zap.NewNop())
	defer s.Stop()

	var after int32
	s.Every("panic", 20*time.Millisecond, func() {
		if atomic.CompareAndSwapInt32(&after, 0, 1) {
			panic("oops")
		}
		atomic.AddInt32(&after, 1)
	})

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&after) >= 2
	}, 2*time.Second, 10*time.Millisecond, "schedule must survive a panicking run")
}

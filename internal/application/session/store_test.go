package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/bryanwahyu/contract-analyzer/internal/application"
)

type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *stepClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestCreateAndGet(t *testing.T) {
	st := NewStore(time.Hour, application.FixedClock{T: time.Unix(0, 0)}, nil)
	sess := st.Create()
	require.NotEmpty(t, sess.ID)

	got, ok := st.Get(sess.ID)
	require.True(t, ok)
	assert.Same(t, sess, got)

	_, ok = st.Get("")
	assert.False(t, ok)
	_, ok = st.Get("missing")
	assert.False(t, ok)
}

func TestGetOrCreate(t *testing.T) {
	st := NewStore(time.Hour, nil, nil)
	a, created := st.GetOrCreate("unknown")
	assert.True(t, created)
	assert.NotEqual(t, "unknown", a.ID)

	b, created := st.GetOrCreate(a.ID)
	assert.False(t, created)
	assert.Same(t, a, b)
	assert.Equal(t, 1, st.Len())

	st.Delete(a.ID)
	assert.Equal(t, 0, st.Len())
}

func TestSweepDropsIdleSessions(t *testing.T) {
	clock := &stepClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	st := NewStore(time.Hour, clock, nil)

	idle := st.Create()
	running := st.Create()
	require.NoError(t, running.Begin())

	clock.Advance(30 * time.Minute)
	active := st.Create()

	clock.Advance(45 * time.Minute)
	assert.Equal(t, 1, st.Sweep())

	_, ok := st.Get(idle.ID)
	assert.False(t, ok)
	_, ok = st.Get(running.ID)
	assert.True(t, ok)
	_, ok = st.Get(active.ID)
	assert.True(t, ok)
}

func TestSweepDisabled(t *testing.T) {
	st := NewStore(0, nil, nil)
	st.Create()
	assert.Equal(t, 0, st.Sweep())
}

func TestRunStopsOnCancel(t *testing.T) {
	st := NewStore(time.Minute, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		st.Run(ctx, time.Millisecond)
		close(done)
	}()
	time.Sleep(5 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

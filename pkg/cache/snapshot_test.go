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

func constLoader(v interface{}, calls *int32) func(context.Context) (interface{}, error) {
	return func(context.Context) (interface{}, error) {
		atomic.AddInt32(calls, 1)
		return v, nil
	}
}

func TestSnapshotCache_GetCachesUntilExpiry(t *testing.T) {
	c := NewSnapshotCache()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	var calls int32
	ctx := context.Background()

	v, err := c.Get(ctx, "metrics", time.Minute, constLoader("a", &calls))
	require.NoError(t, err)
	assert.Equal(t, "a", v)

	v, err = c.Get(ctx, "metrics", time.Minute, constLoader("b", &calls))
	require.NoError(t, err)
	assert.Equal(t, "a", v)
	assert.EqualValues(t, 1, calls)

	now = now.Add(2 * time.Minute)
	v, err = c.Get(ctx, "metrics", time.Minute, constLoader("b", &calls))
	require.NoError(t, err)
	assert.Equal(t, "b", v)
	assert.EqualValues(t, 2, calls)
}

func TestSnapshotCache_ConcurrentMissesShareOneLoad(t *testing.T) {
	c := NewSnapshotCache()

	var calls int32
	release := make(chan struct{})
	load := func(context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return "snapshot", nil
	}

	const callers = 10
	var wg sync.WaitGroup
	results := make([]interface{}, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.Get(context.Background(), "lists", time.Minute, load)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
	for _, v := range results {
		assert.Equal(t, "snapshot", v)
	}
}

func TestSnapshotCache_StaleLoadDoesNotOverwriteRefresh(t *testing.T) {
	c := NewSnapshotCache()
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})
	slow := func(context.Context) (interface{}, error) {
		close(started)
		<-release
		return "stale", nil
	}

	staleDone := make(chan interface{})
	go func() {
		v, err := c.Get(ctx, "metrics", time.Minute, slow)
		assert.NoError(t, err)
		staleDone <- v
	}()
	<-started

	v, err := c.Refresh(ctx, "metrics", time.Minute, func(context.Context) (interface{}, error) {
		return "fresh", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", v)

	close(release)
	assert.Equal(t, "stale", <-staleDone)

	var calls int32
	v, err = c.Get(ctx, "metrics", time.Minute, constLoader("unused", &calls))
	require.NoError(t, err)
	assert.Equal(t, "fresh", v)
	assert.Zero(t, calls)
}

func TestSnapshotCache_FailuresAreNotCached(t *testing.T) {
	c := NewSnapshotCache()
	ctx := context.Background()
	boom := errors.New("catalog down")

	_, err := c.Get(ctx, "metrics", time.Minute, func(context.Context) (interface{}, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, c.Len())

	var calls int32
	v, err := c.Get(ctx, "metrics", time.Minute, constLoader("ok", &calls))
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.EqualValues(t, 1, calls)
}

func TestSnapshotCache_CallerCancellationLeavesFlightRunning(t *testing.T) {
	c := NewSnapshotCache()

	release := make(chan struct{})
	done := make(chan struct{})
	load := func(ctx context.Context) (interface{}, error) {
		defer close(done)
		<-release
		return "late", ctx.Err()
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Get(ctx, "lists", time.Minute, load)
	assert.ErrorIs(t, err, context.Canceled)

	close(release)
	<-done

	assert.Eventually(t, func() bool {
		v, ok := c.lookup("lists")
		return ok && v == "late"
	}, time.Second, 10*time.Millisecond)
}

func TestSnapshotCache_InvalidateAndPrune(t *testing.T) {
	c := NewSnapshotCache()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	var calls int32
	ctx := context.Background()
	_, _ = c.Get(ctx, "a", time.Minute, constLoader(1, &calls))
	_, _ = c.Get(ctx, "b", time.Hour, constLoader(2, &calls))

	c.Invalidate("a")
	assert.Equal(t, 1, c.Len())

	_, _ = c.Get(ctx, "a", time.Minute, constLoader(1, &calls))
	now = now.Add(10 * time.Minute)
	c.prune()
	assert.Equal(t, 1, c.Len())

	c.Clear()
	assert.Zero(t, c.Len())
}

func TestSnapshotCache_InvalidateDiscardsLoadInFlight(t *testing.T) {
	c := NewSnapshotCache()
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})
	slow := func(context.Context) (interface{}, error) {
		close(started)
		<-release
		return "stale", nil
	}

	staleDone := make(chan interface{})
	go func() {
		v, err := c.Get(ctx, "collections", time.Minute, slow)
		assert.NoError(t, err)
		staleDone <- v
	}()
	<-started

	c.Invalidate("collections")

	var calls int32
	v, err := c.Get(ctx, "collections", time.Minute, constLoader("fresh", &calls))
	require.NoError(t, err)
	assert.Equal(t, "fresh", v)
	assert.EqualValues(t, 1, calls)

	close(release)
	assert.Equal(t, "stale", <-staleDone)

	v, err = c.Get(ctx, "collections", time.Minute, constLoader("unused", &calls))
	require.NoError(t, err)
	assert.Equal(t, "fresh", v)
	assert.EqualValues(t, 1, calls)
}

func TestSnapshotCache_InvalidateWithoutRacingLoadStoresNext(t *testing.T) {
	c := NewSnapshotCache()
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})
	slow := func(context.Context) (interface{}, error) {
		close(started)
		<-release
		return "stale", nil
	}

	staleDone := make(chan interface{})
	go func() {
		v, _ := c.Get(ctx, "collections", time.Minute, slow)
		staleDone <- v
	}()
	<-started
	c.Invalidate("collections")
	close(release)
	<-staleDone

	var calls int32
	v, err := c.Get(ctx, "collections", time.Minute, constLoader("fresh", &calls))
	require.NoError(t, err)
	assert.Equal(t, "fresh", v)
	assert.EqualValues(t, 1, calls)

	_, err = c.Get(ctx, "collections", time.Minute, constLoader("unused", &calls))
	require.NoError(t, err)
	assert.EqualValues(t, 1, calls)
}

func TestSnapshotCache_ClearDiscardsLoadInFlight(t *testing.T) {
	c := NewSnapshotCache()
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})
	slow := func(context.Context) (interface{}, error) {
		close(started)
		<-release
		return "stale", nil
	}

	staleDone := make(chan interface{})
	go func() {
		v, _ := c.Get(ctx, "metrics", time.Minute, slow)
		staleDone <- v
	}()
	<-started

	c.Clear()
	close(release)
	assert.Equal(t, "stale", <-staleDone)
	assert.Zero(t, c.Len())

	var calls int32
	v, err := c.Get(ctx, "metrics", time.Minute, constLoader("fresh", &calls))
	require.NoError(t, err)
	assert.Equal(t, "fresh", v)
	assert.EqualValues(t, 1, calls)
}

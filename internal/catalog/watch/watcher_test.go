package watch

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestWatcher(t *testing.T) *Watcher {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return New(rdb, nil)
}

func TestPublishReachesSubscriber(t *testing.T) {
	w := newTestWatcher(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	events, stop := w.Subscribe(ctx, "groupes", "categories")
	defer stop()

	// Give the pub/sub registration a moment to settle.
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, w.Publish(ctx, "groupes"))

	select {
	case evt := <-events:
		require.Equal(t, "groupes", evt.Collection)
		require.WithinDuration(t, time.Now(), evt.At, time.Minute)
	case <-ctx.Done():
		t.Fatal("no event received")
	}
}

func TestSubscriberScopedToCollections(t *testing.T) {
	w := newTestWatcher(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	events, stop := w.Subscribe(ctx, "categories")
	defer stop()
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, w.Publish(ctx, "groupes"))
	require.NoError(t, w.Publish(ctx, "categories"))

	select {
	case evt := <-events:
		require.Equal(t, "categories", evt.Collection)
	case <-ctx.Done():
		t.Fatal("no event received")
	}
}

func TestStopClosesChannel(t *testing.T) {
	w := newTestWatcher(t)
	ctx := context.Background()

	events, stop := w.Subscribe(ctx, "groupes")
	stop()

	select {
	case _, open := <-events:
		require.False(t, open)
	case <-time.After(2 * time.Second):
		t.Fatal("channel did not close")
	}
}

func TestStopSafeFromConcurrentCallers(t *testing.T) {
	w := newTestWatcher(t)
	ctx := context.Background()

	events, stop := w.Subscribe(ctx, "groupes")

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stop()
		}()
	}
	wg.Wait()

	select {
	case _, open := <-events:
		require.False(t, open)
	case <-time.After(2 * time.Second):
		t.Fatal("channel did not close")
	}
}

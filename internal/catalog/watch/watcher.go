// Package watch streams reference-data change notifications so admin UIs
// can refresh group and category lists without manual reload. The ledger
// never depends on it; it performs point reads inside its own transaction.
package watch

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const channelPrefix = "tsena:catalog:"

// Event signals that a catalog collection changed.
type Event struct {
	Collection string    `json:"collection"`
	At         time.Time `json:"at"`
}

// Watcher fans catalog change events out over Redis pub/sub.
type Watcher struct {
	rdb    *redis.Client
	logger *slog.Logger
}

// New constructs a Watcher.
func New(rdb *redis.Client, logger *slog.Logger) *Watcher {
	return &Watcher{rdb: rdb, logger: logger}
}

// Publish announces a change to one collection.
func (w *Watcher) Publish(ctx context.Context, collection string) error {
	return w.rdb.Publish(ctx, channelPrefix+collection, time.Now().UTC().Format(time.RFC3339Nano)).Err()
}

// Subscribe returns a channel of events for the given collections and a
// stop function releasing the subscription. The channel closes once the
// context ends or stop is called.
func (w *Watcher) Subscribe(ctx context.Context, collections ...string) (<-chan Event, func()) {
	channels := make([]string, len(collections))
	for i, c := range collections {
		channels[i] = channelPrefix + c
	}
	sub := w.rdb.Subscribe(ctx, channels...)

	events := make(chan Event, 8)
	done := make(chan struct{})
	go func() {
		defer close(events)
		src := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case msg, ok := <-src:
				if !ok {
					return
				}
				evt := Event{
					Collection: strings.TrimPrefix(msg.Channel, channelPrefix),
					At:         parseAt(msg.Payload),
				}
				select {
				case events <- evt:
				default:
					// Slow consumer; the UI refetches on the next event anyway.
					if w.logger != nil {
						w.logger.Warn("dropped catalog event", slog.String("collection", evt.Collection))
					}
				}
			}
		}
	}()

	var stopOnce sync.Once
	stop := func() {
		stopOnce.Do(func() {
			close(done)
			_ = sub.Close()
		})
	}
	return events, stop
}

func parseAt(payload string) time.Time {
	at, err := time.Parse(time.RFC3339Nano, payload)
	if err != nil {
		return time.Now().UTC()
	}
	return at
}

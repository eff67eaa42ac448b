package report

import (
	"context"
	"sync"
)

// Feed fans out report list snapshots to subscribers. Every committed
// mutation publishes a fresh snapshot; subscribers always observe the
// latest state, never an incremental diff.
//
// Channels are buffered with depth one and publishes are latest-wins, so a
// slow consumer can never block a mutator. A subscriber that lags simply
// skips intermediate snapshots.
type Feed struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan []*Report
}

// NewFeed creates an empty feed
func NewFeed() *Feed {
	return &Feed{
		subs: make(map[int]chan []*Report),
	}
}

// Subscribe registers a subscriber and returns its channel. The initial
// snapshot is delivered immediately; the subscription ends when ctx is
// cancelled.
func (f *Feed) Subscribe(ctx context.Context, initial []*Report) <-chan []*Report {
	ch := make(chan []*Report, 1)
	ch <- initial

	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.subs[id] = ch
	f.mu.Unlock()

	go func() {
		<-ctx.Done()
		f.mu.Lock()
		delete(f.subs, id)
		f.mu.Unlock()
		// The channel is intentionally left open; closing it here would race
		// with Publish. Subscribers stop on ctx.Done.
	}()

	return ch
}

// Publish delivers a snapshot to all current subscribers, replacing any
// undelivered previous snapshot.
func (f *Feed) Publish(reports []*Report) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, ch := range f.subs {
		// Drop the stale snapshot if the subscriber hasn't read it yet
		select {
		case <-ch:
		default:
		}

		select {
		case ch <- reports:
		default:
		}
	}
}

// SubscriberCount returns the number of active subscriptions
func (f *Feed) SubscriberCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

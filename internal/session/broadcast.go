// broadcast.go — multi-subscriber state push, modeled on the teacher's
// internal/streaming alert buffer (bounded capacity, evict-oldest) and the
// teacher's client_registry_test.go multi-subscriber replay idiom: all
// subscribers share one bounded history, which is returned whole on replay,
// so a client that misses the live push can still catch up.
package session

import (
	"sync"

	"github.com/brennhill/netcapture/internal/buffers"
)

// subscriberBufferCap bounds how many past states a reconnecting subscriber
// can replay from the shared history.
const subscriberBufferCap = 32

// subscriberChanCap bounds the live-push channel so one slow subscriber
// cannot block a Start/Stop call; a full channel drops the push rather than
// blocking the broadcaster (spec §9 "sinks must never block the hot path").
const subscriberChanCap = 8

type broadcaster struct {
	mu          sync.Mutex
	history     *buffers.RingBuffer[State]
	subscribers map[int]chan State
	nextID      int
}

func newBroadcaster() *broadcaster {
	return &broadcaster{
		history:     buffers.NewRingBuffer[State](subscriberBufferCap),
		subscribers: make(map[int]chan State),
	}
}

// publish appends state to the replay history and pushes it to every live
// subscriber, never blocking on a slow one.
func (b *broadcaster) publish(state State) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.history.WriteOne(state)
	for _, ch := range b.subscribers {
		select {
		case ch <- state:
		default:
		}
	}
}

// subscribe registers a new subscriber and returns its push channel plus a
// disposer that unregisters it. The channel is buffered so a burst of
// start/stop calls doesn't require the subscriber to keep up in real time.
func (b *broadcaster) subscribe() (<-chan State, func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	ch := make(chan State, subscriberChanCap)
	b.subscribers[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subscribers, id)
			b.mu.Unlock()
			close(ch)
		})
	}
}

// replay returns every state retained in the bounded history, oldest first,
// for a subscriber that wants to catch up before switching to live pushes.
func (b *broadcaster) replay() []State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.history.ReadAll()
}

// Subscribe registers for state pushes and returns the channel plus a
// disposer. Safe to call at any time, regardless of capture state.
func (c *Controller) Subscribe() (<-chan State, func()) {
	return c.broadcaster.subscribe()
}

// StateHistory returns recently broadcast states, oldest first, bounded by
// subscriberBufferCap.
func (c *Controller) StateHistory() []State {
	return c.broadcaster.replay()
}

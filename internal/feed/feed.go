package feed

import (
	"sync"

	"github.com/jpalmerr/olevel/internal/records"
)

// bufferSize is the per-subscriber channel capacity.
const bufferSize = 100

// Feed is an in-memory publish/subscribe hub for [records.Change] values.
type Feed struct {
	mu          sync.RWMutex
	last        records.Change
	seen        bool
	subscribers map[chan records.Change]struct{}
	subMu       sync.RWMutex
}

// New creates an empty feed.
func New() *Feed {
	return &Feed{
		subscribers: make(map[chan records.Change]struct{}),
	}
}

// Publish records ch as the latest change and notifies all subscribers.
// It matches the records.WithChangeHook signature.
func (f *Feed) Publish(ch records.Change) {
	f.mu.Lock()
	f.last = ch
	f.seen = true
	f.mu.Unlock()

	f.notifySubscribers(ch)
}

// Last returns the most recent change, if any.
func (f *Feed) Last() (records.Change, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.last, f.seen
}

// Subscribe returns a buffered channel receiving future changes.
// Callers must call [Feed.Unsubscribe] when done.
func (f *Feed) Subscribe() <-chan records.Change {
	ch := make(chan records.Change, bufferSize)

	f.subMu.Lock()
	f.subscribers[ch] = struct{}{}
	f.subMu.Unlock()

	return ch
}

// Unsubscribe removes a subscription and closes its channel. Safe to call
// more than once.
func (f *Feed) Unsubscribe(ch <-chan records.Change) {
	f.subMu.Lock()
	defer f.subMu.Unlock()

	for subCh := range f.subscribers {
		if subCh == ch {
			delete(f.subscribers, subCh)
			close(subCh)
			break
		}
	}
}

// Subscribers returns the number of active subscriptions.
func (f *Feed) Subscribers() int {
	f.subMu.RLock()
	defer f.subMu.RUnlock()
	return len(f.subscribers)
}

func (f *Feed) notifySubscribers(ch records.Change) {
	f.subMu.RLock()
	defer f.subMu.RUnlock()

	for sub := range f.subscribers {
		select {
		case sub <- ch:
		default:
			// slow subscriber, drop
		}
	}
}

// Package notifier broadcasts change events to SSE listeners.
package notifier

import (
	"strings"
	"sync"
)

// ResourceAll marks an event that invalidates every view.
const ResourceAll = "*"

// Event tells listeners which resource changed.
type Event struct {
	Resource string
	// Reload asks open pages to load again from scratch, e.g. after the
	// server was rebuilt from a new config.
	Reload bool
}

// Affects reports whether a view of resource should refresh for e. An event
// for "inventory" also affects "inventory/instances".
func (e Event) Affects(resource string) bool {
	return e.Resource == ResourceAll ||
		e.Resource == resource ||
		strings.HasPrefix(resource, e.Resource+"/")
}

// Notifier fans events out to every subscribed listener. Listeners that are
// behind keep only the most recent pending event.
type Notifier struct {
	mu        sync.RWMutex
	listeners map[chan Event]struct{}
}

// New creates a Notifier.
func New() *Notifier {
	return &Notifier{
		listeners: make(map[chan Event]struct{}),
	}
}

// Subscribe returns a channel that receives events.
// The caller must call Unsubscribe when done.
func (n *Notifier) Subscribe() chan Event {
	ch := make(chan Event, 1)
	n.mu.Lock()
	n.listeners[ch] = struct{}{}
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener channel and closes it.
func (n *Notifier) Unsubscribe(ch chan Event) {
	n.mu.Lock()
	delete(n.listeners, ch)
	n.mu.Unlock()
	close(ch)
}

// Broadcast sends ev to all listeners without blocking. A listener whose
// buffer is full has its pending event widened to ResourceAll.
func (n *Notifier) Broadcast(ev Event) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for ch := range n.listeners {
		select {
		case ch <- ev:
		default:
			merged := ev
			select {
			case pending := <-ch:
				if pending.Resource != ev.Resource {
					merged.Resource = ResourceAll
				}
				merged.Reload = merged.Reload || pending.Reload
			default:
			}
			select {
			case ch <- merged:
			default:
			}
		}
	}
}

// Changed is shorthand for Broadcast(Event{Resource: resource}).
func (n *Notifier) Changed(resource string) {
	n.Broadcast(Event{Resource: resource})
}

// Reload tells every listener to reload its page.
func (n *Notifier) Reload() {
	n.Broadcast(Event{Resource: ResourceAll, Reload: true})
}

// Len returns the number of subscribed listeners.
func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners)
}

// Package notify provides a process-wide publish/subscribe center for domain
// events raised while dispatching requests.
package notify

import (
	"sync"
)

// Event names a domain event
type Event string

const (
	// AccountSuspended is posted when the server rejects a request with 403
	// and a body reporting status 0.
	AccountSuspended Event = "SUSPENDACCOUNT"
)

// Observer receives a posted event
type Observer func(event Event)

type subscription struct {
	id       uint64
	observer Observer
}

// Center dispatches events to the observers subscribed to them
type Center struct {
	mutex     sync.RWMutex
	nextID    uint64
	observers map[Event][]subscription
}

// NewCenter creates an empty center
func NewCenter() *Center {
	return &Center{
		observers: make(map[Event][]subscription),
	}
}

// Subscribe registers observer for event and returns a function that removes it.
func (c *Center) Subscribe(event Event, observer Observer) (unsubscribe func()) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.nextID++
	id := c.nextID
	c.observers[event] = append(c.observers[event], subscription{id: id, observer: observer})

	var once sync.Once
	return func() {
		once.Do(func() { c.remove(event, id) })
	}
}

func (c *Center) remove(event Event, id uint64) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	subs := c.observers[event]
	for i, s := range subs {
		if s.id == id {
			c.observers[event] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(c.observers[event]) == 0 {
		delete(c.observers, event)
	}
}

// Post delivers event to every current observer on the calling goroutine.
// Observers must not block.
func (c *Center) Post(event Event) {
	c.mutex.RLock()
	subs := append([]subscription(nil), c.observers[event]...)
	c.mutex.RUnlock()

	for _, s := range subs {
		s.observer(event)
	}
}

// Observers returns how many observers are subscribed to event
func (c *Center) Observers(event Event) int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.observers[event])
}

// Default is the process-wide center
var Default = NewCenter()

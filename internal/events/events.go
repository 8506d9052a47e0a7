// Package events fans out change notifications to whoever is watching the
// shop's collections.
package events

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

type Event struct {
	Collection string    `json:"collection"`
	Action     Action    `json:"action"`
	ID         string    `json:"id,omitempty"`
	At         time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Notify publishes a change and logs instead of failing the caller; the write
// it describes has already happened.
func Notify(ctx context.Context, p Publisher, collection string, action Action, id string) {
	if p == nil {
		return
	}
	e := Event{Collection: collection, Action: action, ID: id, At: time.Now().UTC()}
	if err := p.Publish(ctx, e); err != nil {
		log.Printf("[EVENTS] [ERROR] publish %s %s %s failed: %v", collection, action, id, err)
	}
}

// Broker delivers events to in-process subscribers. Delivery never blocks the
// publisher: a subscriber whose buffer is full misses the event.
type Broker struct {
	mu     sync.RWMutex
	subs   map[string]chan Event
	buffer int
}

func NewBroker(buffer int) *Broker {
	if buffer <= 0 {
		buffer = 16
	}
	return &Broker{subs: make(map[string]chan Event), buffer: buffer}
}

// Subscribe registers a listener. The returned cancel func unregisters it and
// closes the channel; it is safe to call more than once.
func (b *Broker) Subscribe() (string, <-chan Event, func()) {
	id := uuid.NewString()
	ch := make(chan Event, b.buffer)

	b.mu.Lock()
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
	return id, ch, cancel
}

func (b *Broker) Publish(_ context.Context, e Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.subs {
		select {
		case ch <- e:
		default:
			log.Printf("[EVENTS] [WARN] subscriber %s lagging, dropped %s %s", id, e.Collection, e.Action)
		}
	}
	return nil
}

// Subscribers returns the number of registered listeners.
func (b *Broker) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

package eventbus

import (
	"log"
	"runtime/debug"
	"sync"

	"reposcout/internal/domain"
)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// Event type constants
const (
	EventResultsCached       = domain.EventResultsCached
	EventConnectivityChanged = domain.EventConnectivityChanged
	EventSearchStarted       = domain.EventSearchStarted
	EventSearchSucceeded     = domain.EventSearchSucceeded
	EventSearchFailed        = domain.EventSearchFailed
	EventError               = domain.EventError
)

// Re-export domain event types
type ResultsCachedEvent = domain.ResultsCachedEvent
type ConnectivityChangedEvent = domain.ConnectivityChangedEvent
type SearchStartedEvent = domain.SearchStartedEvent
type SearchSucceededEvent = domain.SearchSucceededEvent
type SearchFailedEvent = domain.SearchFailedEvent
type ErrorEvent = domain.ErrorEvent

// EventHandler is a function that handles domain events
type EventHandler func(DomainEvent)

// EventBus is the interface for the event bus
type EventBus interface {
	Publish(event DomainEvent)
	Subscribe(eventType EventType, handler EventHandler) func()
	Close()
}

// bus is the concrete implementation of EventBus
type bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]*subscription
	events   chan DomainEvent
	wg       sync.WaitGroup
	quit     chan struct{}
	once     sync.Once
}

type subscription struct {
	handler EventHandler
}

// New creates a new event bus
func New() EventBus {
	b := &bus{
		handlers: make(map[EventType][]*subscription),
		events:   make(chan DomainEvent, 256),
		quit:     make(chan struct{}),
	}

	b.wg.Add(1)
	go b.dispatch()

	return b
}

// Publish publishes an event to all subscribers. Events are dropped rather
// than blocking the publisher when the queue is full.
func (b *bus) Publish(event DomainEvent) {
	select {
	case b.events <- event:
	default:
		log.Printf("eventbus: queue full, dropping %s", event.Type())
	}
}

// Subscribe subscribes to events of a specific type.
// Returns an unsubscribe function.
func (b *bus) Subscribe(eventType EventType, handler EventHandler) func() {
	sub := &subscription{handler: handler}

	b.mu.Lock()
	b.handlers[eventType] = append(b.handlers[eventType], sub)
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.handlers[eventType]
		for i, s := range subs {
			if s == sub {
				b.handlers[eventType] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
	}
}

// Close stops the dispatcher. Pending events are discarded.
func (b *bus) Close() {
	b.once.Do(func() { close(b.quit) })
	b.wg.Wait()
}

// dispatch handles event distribution to subscribers. Handlers run inline on
// the dispatch goroutine so subscribers observe events in publish order.
func (b *bus) dispatch() {
	defer b.wg.Done()

	for {
		select {
		case event := <-b.events:
			b.mu.RLock()
			subs := make([]*subscription, len(b.handlers[event.Type()]))
			copy(subs, b.handlers[event.Type()])
			b.mu.RUnlock()

			for _, sub := range subs {
				b.call(sub, event)
			}

		case <-b.quit:
			return
		}
	}
}

func (b *bus) call(sub *subscription, event DomainEvent) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("eventbus: handler panic for %s: %v\n%s", event.Type(), r, debug.Stack())
		}
	}()
	sub.handler(event)
}

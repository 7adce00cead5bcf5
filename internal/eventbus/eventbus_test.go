package eventbus

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reposcout/internal/domain"
)

func TestPublishReachesSubscriber(t *testing.T) {
	bus := New()
	defer bus.Close()

	got := make(chan DomainEvent, 1)
	bus.Subscribe(EventSearchStarted, func(e DomainEvent) {
		got <- e
	})

	bus.Publish(SearchStartedEvent{Query: "android"})

	select {
	case e := <-got:
		event, ok := e.(SearchStartedEvent)
		require.True(t, ok)
		assert.Equal(t, "android", event.Query)
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}
}

func TestEventsDeliveredInPublishOrder(t *testing.T) {
	bus := New()
	defer bus.Close()

	var mu sync.Mutex
	var queries []string
	done := make(chan struct{})
	bus.Subscribe(EventSearchStarted, func(e DomainEvent) {
		event := e.(SearchStartedEvent)
		mu.Lock()
		queries = append(queries, event.Query)
		n := len(queries)
		mu.Unlock()
		if n == 3 {
			close(done)
		}
	})

	bus.Publish(SearchStartedEvent{Query: "a"})
	bus.Publish(SearchStartedEvent{Query: "b"})
	bus.Publish(SearchStartedEvent{Query: "c"})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("events not delivered")
	}
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"a", "b", "c"}, queries)
}

func TestSubscribersAreTypeScoped(t *testing.T) {
	bus := New()
	defer bus.Close()

	started := make(chan struct{}, 2)
	failed := make(chan struct{}, 2)
	bus.Subscribe(EventSearchStarted, func(DomainEvent) { started <- struct{}{} })
	bus.Subscribe(EventSearchFailed, func(DomainEvent) { failed <- struct{}{} })

	bus.Publish(SearchStartedEvent{Query: "q"})

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("started handler not called")
	}
	select {
	case <-failed:
		t.Fatal("failed handler called for a started event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := New()
	defer bus.Close()

	var mu sync.Mutex
	count := 0
	unsub := bus.Subscribe(EventSearchStarted, func(DomainEvent) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	bus.Publish(SearchStartedEvent{Query: "one"})
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return count == 1
	}, 2*time.Second, 5*time.Millisecond)

	unsub()
	bus.Publish(SearchStartedEvent{Query: "two"})
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, count)
}

func TestHandlerPanicDoesNotKillDispatcher(t *testing.T) {
	bus := New()
	defer bus.Close()

	got := make(chan struct{}, 1)
	bus.Subscribe(EventSearchStarted, func(DomainEvent) {
		panic("handler bug")
	})
	bus.Subscribe(EventSearchSucceeded, func(DomainEvent) {
		got <- struct{}{}
	})

	bus.Publish(SearchStartedEvent{Query: "boom"})
	bus.Publish(domain.SearchSucceededEvent{Query: "next", Count: 1})

	select {
	case <-got:
	case <-time.After(2 * time.Second):
		t.Fatal("dispatcher died after handler panic")
	}
}

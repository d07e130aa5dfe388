package events

import (
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

// Subscribers get this many events buffered before new ones are dropped
const subscriptionBufferSize = 64

type Event struct {
	Topic   string `json:"topic"`
	Payload any    `json:"payload,omitempty"`
}

type Subscription struct {
	ID      string
	Events  <-chan Event
	filters []string
	events  chan Event
	bus     *Bus
}

// Bus is the process wide broadcast channel. Broadcasting never blocks on a subscriber.
type Bus struct {
	subscriptions     map[string]*Subscription
	subscriptionMutex *sync.RWMutex
}

func NewBus() *Bus {
	return &Bus{
		subscriptions:     make(map[string]*Subscription),
		subscriptionMutex: &sync.RWMutex{},
	}
}

func (b *Bus) Broadcast(topic string, payload any) {
	event := Event{
		Topic:   topic,
		Payload: payload,
	}

	b.subscriptionMutex.RLock()
	defer b.subscriptionMutex.RUnlock()

	for _, subscription := range b.subscriptions {
		if !subscription.matches(topic) {
			continue
		}

		select {
		case subscription.events <- event:
		default:
			slog.Warn("Subscriber is not keeping up, dropping event", "subscription", subscription.ID, "topic", topic)
		}
	}
}

// Subscribe registers a listener for the given filters. A filter is either an exact topic or a
// prefix ending in "*". Without filters every topic is delivered.
func (b *Bus) Subscribe(filters ...string) *Subscription {
	events := make(chan Event, subscriptionBufferSize)
	subscription := &Subscription{
		ID:      uuid.NewString(),
		Events:  events,
		filters: filters,
		events:  events,
		bus:     b,
	}

	b.subscriptionMutex.Lock()
	b.subscriptions[subscription.ID] = subscription
	b.subscriptionMutex.Unlock()

	return subscription
}

// On calls handler for every event on topic until the returned func is called. Events are handled
// one at a time, in the order they were broadcast, on a goroutine of their own.
func (b *Bus) On(topic string, handler func(Event)) func() {
	subscription := b.Subscribe(topic)

	go func() {
		for event := range subscription.Events {
			handler(event)
		}
	}()

	return subscription.Unsubscribe
}

func (b *Bus) SubscriberCount() int {
	b.subscriptionMutex.RLock()
	defer b.subscriptionMutex.RUnlock()
	return len(b.subscriptions)
}

func (s *Subscription) Unsubscribe() {
	s.bus.subscriptionMutex.Lock()
	_, exists := s.bus.subscriptions[s.ID]
	delete(s.bus.subscriptions, s.ID)
	s.bus.subscriptionMutex.Unlock()

	if exists {
		close(s.events)
	}
}

func (s *Subscription) matches(topic string) bool {
	if len(s.filters) == 0 {
		return true
	}

	for _, filter := range s.filters {
		if prefix, isPrefix := strings.CutSuffix(filter, "*"); isPrefix {
			if strings.HasPrefix(topic, prefix) {
				return true
			}
			continue
		}
		if filter == topic {
			return true
		}
	}
	return false
}

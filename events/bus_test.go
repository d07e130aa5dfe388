package events

import (
	"testing"
	"time"
)

var subscriptionFilterTests = []struct {
	filters        []string
	topic          string
	expectedOutput bool
}{
	{nil, TopicCallingMopidy, true},
	{[]string{TopicCallingMopidy}, TopicCallingMopidy, true},
	{[]string{TopicCallingMopidy}, TopicCalledMopidy, false},
	{[]string{"mopidy:*"}, "mopidy:state:online", true},
	{[]string{"mopidy:*"}, TopicMopidyStarted, false},
	{[]string{"mopify:*", TopicTrackPlaybackStarted}, TopicTrackPlaybackStarted, true},
}

func TestSubscriptionMatches(t *testing.T) {
	bus := NewBus()
	for _, testCase := range subscriptionFilterTests {
		subscription := bus.Subscribe(testCase.filters...)

		result := subscription.matches(testCase.topic)
		if result != testCase.expectedOutput {
			t.Errorf("matches(%v) with filters %v failed! Wanted: %v, got: %v", testCase.topic, testCase.filters, testCase.expectedOutput, result)
		}
		subscription.Unsubscribe()
	}
}

func TestBroadcast(t *testing.T) {
	bus := NewBus()
	subscription := bus.Subscribe(TopicMopidyStarted)
	defer subscription.Unsubscribe()

	bus.Broadcast(TopicStartingMopidy, nil)
	bus.Broadcast(TopicMopidyStarted, "payload")

	select {
	case event := <-subscription.Events:
		if event.Topic != TopicMopidyStarted || event.Payload != "payload" {
			t.Errorf("Broadcast() failed! Wanted: %v, got: %v", TopicMopidyStarted, event)
		}
	case <-time.After(time.Second):
		t.Fatalf("Broadcast() failed! No event received")
	}

	select {
	case event := <-subscription.Events:
		t.Errorf("Broadcast() failed! Got unexpected event %v", event)
	default:
	}
}

func TestBroadcastDoesNotBlock(t *testing.T) {
	bus := NewBus()
	subscription := bus.Subscribe()
	defer subscription.Unsubscribe()

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriptionBufferSize*2; i++ {
			bus.Broadcast(TopicCallingMopidy, i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Broadcast() blocked on a full subscriber")
	}

	if len(subscription.Events) != subscriptionBufferSize {
		t.Errorf("Broadcast() failed! Wanted %v buffered events, got: %v", subscriptionBufferSize, len(subscription.Events))
	}
}

func TestOn(t *testing.T) {
	bus := NewBus()
	received := make(chan Event, 1)

	unsubscribe := bus.On(TopicServicesDisconnected, func(event Event) {
		received <- event
	})

	bus.Broadcast(TopicServicesDisconnected, "Spotify")

	select {
	case event := <-received:
		if event.Payload != "Spotify" {
			t.Errorf("On() failed! Wanted: %v, got: %v", "Spotify", event.Payload)
		}
	case <-time.After(time.Second):
		t.Fatalf("On() failed! Handler was not called")
	}

	unsubscribe()
	if bus.SubscriberCount() != 0 {
		t.Errorf("On() unsubscribe failed! Wanted 0 subscribers, got: %v", bus.SubscriberCount())
	}

	// A second unsubscribe must not panic on the closed channel
	unsubscribe()
}

func TestOnHandlesEventsInOrder(t *testing.T) {
	bus := NewBus()
	received := make(chan int, 10)
	running := make(chan struct{}, 1)
	overlapped := false

	unsubscribe := bus.On(TopicNotify, func(event Event) {
		select {
		case running <- struct{}{}:
		default:
			overlapped = true
		}
		time.Sleep(time.Millisecond)
		<-running
		received <- event.Payload.(int)
	})
	defer unsubscribe()

	for i := 0; i < 10; i++ {
		bus.Broadcast(TopicNotify, i)
	}

	for i := 0; i < 10; i++ {
		select {
		case payload := <-received:
			if payload != i {
				t.Errorf("On() order failed! Wanted: %v, got: %v", i, payload)
			}
		case <-time.After(time.Second):
			t.Fatalf("On() failed! Only %v events handled", i)
		}
	}
	if overlapped {
		t.Errorf("On() failed! Handler calls overlapped")
	}
}

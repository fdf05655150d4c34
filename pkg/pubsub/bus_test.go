package pubsub

import (
	"reflect"
	"testing"
)

func TestBus_PublishDeliversToTopicSubscribersInOrder(t *testing.T) {
	bus := NewBus[int]()

	var got []string
	bus.Subscribe("cart", func(topic string, msg int) { got = append(got, "first") })
	bus.Subscribe("cart", func(topic string, msg int) { got = append(got, "second") })
	bus.Subscribe("wishlist", func(topic string, msg int) { got = append(got, "wishlist") })

	bus.Publish("cart", 1)

	want := []string{"first", "second"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestBus_WildcardReceivesEveryTopic(t *testing.T) {
	bus := NewBus[string]()

	var topics []string
	bus.Subscribe(Wildcard, func(topic string, msg string) { topics = append(topics, topic) })

	bus.Publish("cart", "a")
	bus.Publish("token", "b")

	want := []string{"cart", "token"}
	if !reflect.DeepEqual(topics, want) {
		t.Errorf("expected %v, got %v", want, topics)
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus[int]()

	calls := 0
	unsubscribe := bus.Subscribe("compare", func(string, int) { calls++ })

	bus.Publish("compare", 1)
	unsubscribe()
	unsubscribe()
	bus.Publish("compare", 2)

	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
	if n := bus.Subscribers("compare"); n != 0 {
		t.Errorf("expected no subscribers left, got %d", n)
	}
}

func TestBus_HandlerMayUnsubscribeDuringPublish(t *testing.T) {
	bus := NewBus[int]()

	var unsubscribe func()
	calls := 0
	unsubscribe = bus.Subscribe("cart", func(string, int) {
		calls++
		unsubscribe()
	})

	bus.Publish("cart", 1)
	bus.Publish("cart", 2)

	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

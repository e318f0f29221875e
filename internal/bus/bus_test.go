package bus

import (
	"sync"
	"testing"
)

func TestPublishFansOutToAllSubscribers(t *testing.T) {
	b := New()

	var mu sync.Mutex
	counts := make([]int, 3)
	for i := 0; i < 3; i++ {
		i := i
		b.Subscribe(TopicCartUpdated, func(Event) {
			mu.Lock()
			counts[i]++
			mu.Unlock()
		})
	}

	b.Publish(Event{Topic: TopicCartUpdated, ProductID: "p1"})

	for i, count := range counts {
		if count != 1 {
			t.Fatalf("subscriber %d: expected exactly 1 delivery, got %d", i, count)
		}
	}
}

func TestPublishDoesNotCrossTopics(t *testing.T) {
	b := New()

	cartEvents := 0
	wishlistEvents := 0
	b.Subscribe(TopicCartUpdated, func(Event) { cartEvents++ })
	b.Subscribe(TopicWishlistUpdated, func(Event) { wishlistEvents++ })

	b.Publish(Event{Topic: TopicCartUpdated})

	if cartEvents != 1 {
		t.Fatalf("expected 1 cart event, got %d", cartEvents)
	}
	if wishlistEvents != 0 {
		t.Fatalf("expected 0 wishlist events, got %d", wishlistEvents)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := New()

	delivered := 0
	unsubscribe := b.Subscribe(TopicUserLogout, func(Event) { delivered++ })

	b.Publish(Event{Topic: TopicUserLogout})
	unsubscribe()
	b.Publish(Event{Topic: TopicUserLogout})

	if delivered != 1 {
		t.Fatalf("expected delivery to stop after unsubscribe, got %d deliveries", delivered)
	}
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	b := New()

	unsubscribe := b.Subscribe(TopicCartUpdated, func(Event) {})
	other := 0
	b.Subscribe(TopicCartUpdated, func(Event) { other++ })

	unsubscribe()
	unsubscribe()
	b.Publish(Event{Topic: TopicCartUpdated})

	if other != 1 {
		t.Fatalf("double unsubscribe must not affect other subscribers, got %d", other)
	}
}

func TestEventCarriesProductID(t *testing.T) {
	b := New()

	var got Event
	b.Subscribe(TopicWishlistUpdated, func(e Event) { got = e })
	b.Publish(Event{Topic: TopicWishlistUpdated, ProductID: "ring-7"})

	if got.ProductID != "ring-7" {
		t.Fatalf("expected product id ring-7, got %q", got.ProductID)
	}
}

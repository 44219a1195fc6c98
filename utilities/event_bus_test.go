package utilities

import (
	"testing"
	"time"
)

func TestEventBusDeliversToAllSubscribers(t *testing.T) {
	bus := NewEventBus()
	got := make(chan interface{}, 2)

	bus.Subscribe(EventAssessmentCompleted, func(data interface{}) { got <- data })
	bus.Subscribe(EventAssessmentCompleted, func(data interface{}) { got <- data })

	bus.Publish(EventAssessmentCompleted, "session-1")

	for i := 0; i < 2; i++ {
		select {
		case data := <-got:
			if data != "session-1" {
				t.Fatalf("payload = %v", data)
			}
		case <-time.After(time.Second):
			t.Fatal("handler not invoked")
		}
	}
}

func TestEventBusIgnoresUnknownEvents(t *testing.T) {
	bus := NewEventBus()
	got := make(chan interface{}, 1)
	bus.Subscribe(EventEmergencyFlag, func(data interface{}) { got <- data })

	bus.Publish(EventAssessmentBlocked, "other")

	select {
	case <-got:
		t.Fatal("handler fired for unrelated event")
	case <-time.After(50 * time.Millisecond):
	}
}

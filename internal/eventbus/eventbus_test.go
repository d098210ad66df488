package eventbus

import "testing"

func TestPublishSubscribeRoundTrip(t *testing.T) {
	bus := New()

	var got []string
	ok := bus.Subscribe(TopicDroppedPaths, func(paths []string) {
		got = append(got, paths...)
	})
	if !ok {
		t.Fatal("Subscribe returned false")
	}

	bus.Publish(TopicDroppedPaths, []string{"a.png", "b.pdf"})
	bus.Publish(TopicDroppedPaths, []string{"c.jpg"})

	want := 3
	if len(got) != want {
		t.Errorf("received %d paths, want %d: %v", len(got), want, got)
	}
	if got[0] != "a.png" || got[2] != "c.jpg" {
		t.Errorf("events delivered out of order: %v", got)
	}
}

func TestSubscribeRejectsNonFunction(t *testing.T) {
	bus := New()
	if bus.Subscribe(TopicProgress, "not a function") {
		t.Error("Subscribe accepted a non-function handler")
	}
}

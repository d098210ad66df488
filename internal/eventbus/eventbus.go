// Package eventbus provides the typed event channels that decouple external
// event sources (engine progress, drag-and-drop) from their single consumer.
// Listener registration is best-effort: a failed subscribe degrades the
// feature rather than failing the caller.
package eventbus

import (
	evbus "github.com/asaskevich/EventBus"
	"github.com/rs/zerolog/log"
)

// Topics published on the bus.
const (
	TopicProgress     = "engine.progress"
	TopicDroppedPaths = "intake.dropped"
)

// Bus wraps the underlying event bus. One Bus is created at startup and
// passed explicitly to publishers and subscribers; there is no ambient
// global instance.
type Bus struct {
	bus evbus.Bus
}

// New creates an empty event bus.
func New() *Bus {
	return &Bus{bus: evbus.New()}
}

// Publish delivers an event to the topic's subscribers synchronously, in
// emission order per source.
func (b *Bus) Publish(topic string, args ...interface{}) {
	b.bus.Publish(topic, args...)
}

// Subscribe registers a handler for a topic. Returns false (after logging)
// if registration fails; callers treat a false return as the feature being
// unavailable, not as an error.
func (b *Bus) Subscribe(topic string, fn interface{}) bool {
	if err := b.bus.Subscribe(topic, fn); err != nil {
		log.Warn().Err(err).Str("topic", topic).Msg("Event subscription failed, feature degraded")
		return false
	}
	return true
}

// Unsubscribe removes a previously registered handler.
func (b *Bus) Unsubscribe(topic string, fn interface{}) {
	if err := b.bus.Unsubscribe(topic, fn); err != nil {
		log.Debug().Err(err).Str("topic", topic).Msg("Event unsubscribe failed")
	}
}

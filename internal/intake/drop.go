package intake

import (
	"sync"

	"github.com/RepentanceHeaven/CornerBrand/internal/eventbus"
	"github.com/rs/zerolog/log"
)

// Collector accumulates the current file list from dropped-path events.
// Duplicates against files already collected are dropped silently; rejected
// paths are reported through the callback so the caller can surface them.
type Collector struct {
	mu         sync.Mutex
	files      []InputFile
	onRejected func(paths []string)
}

// NewCollector subscribes to dropped-path events on the bus. onRejected may
// be nil.
func NewCollector(bus *eventbus.Bus, onRejected func(paths []string)) *Collector {
	c := &Collector{onRejected: onRejected}
	bus.Subscribe(eventbus.TopicDroppedPaths, c.handleDrop)
	return c
}

func (c *Collector) handleDrop(paths []string) {
	c.mu.Lock()
	res := AddUnique(c.files, paths)
	c.files = res.Accepted
	c.mu.Unlock()

	if len(res.Rejected) > 0 {
		log.Warn().Strs("paths", res.Rejected).Msg("Dropped files not supported")
		if c.onRejected != nil {
			c.onRejected(res.Rejected)
		}
	}
}

// Files returns a copy of the collected list in intake order.
func (c *Collector) Files() []InputFile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]InputFile(nil), c.files...)
}

// Remove drops one path from the list by exact match.
func (c *Collector) Remove(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, f := range c.files {
		if f.Path == path {
			c.files = append(c.files[:i], c.files[i+1:]...)
			return
		}
	}
}

// Clear empties the collected list.
func (c *Collector) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.files = nil
}

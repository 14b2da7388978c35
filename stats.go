package wishlist

import (
	"sync"
	"sync/atomic"

	"github.com/agentstation/wishlist/pkg/collection"
)

// HydrationOutcome describes how the startup load ended.
type HydrationOutcome string

// Hydration outcomes.
const (
	HydrationPending     HydrationOutcome = "pending"
	HydrationLoaded      HydrationOutcome = "loaded"
	HydrationEmpty       HydrationOutcome = "empty"       // nothing stored
	HydrationCorrupt     HydrationOutcome = "corrupt"     // stored value did not decode
	HydrationUnavailable HydrationOutcome = "unavailable" // storage read failed
	HydrationDiscarded   HydrationOutcome = "discarded"   // a consumer changed the wishlist first
	HydrationSkipped     HydrationOutcome = "skipped"     // disabled by WithoutHydration
)

// Stats is a point-in-time view of store counters.
type Stats struct {
	Dispatches       map[collection.ActionType]uint64
	NoOps            uint64
	PersistSucceeded uint64
	PersistFailed    uint64
	PersistDropped   uint64
	Hydration        HydrationOutcome
	Items            int
	Subscribers      int
}

// counters are updated under the dispatch lock or from the writer
// goroutine, and read by Stats from anywhere.
type counters struct {
	add, remove, load atomic.Uint64
	noops             atomic.Uint64
	persistOK         atomic.Uint64
	persistFailed     atomic.Uint64
	persistDropped    atomic.Uint64

	mu        sync.RWMutex
	hydration HydrationOutcome
}

func (c *counters) recordDispatch(action collection.ActionType, changed bool) {
	switch action {
	case collection.ActionAdd:
		c.add.Add(1)
	case collection.ActionRemove:
		c.remove.Add(1)
	case collection.ActionLoad:
		c.load.Add(1)
	}
	if !changed {
		c.noops.Add(1)
	}
}

func (c *counters) setHydration(outcome HydrationOutcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hydration = outcome
}

func (c *counters) hydrationOutcome() HydrationOutcome {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hydration
}

func (c *counters) snapshot() Stats {
	return Stats{
		Dispatches: map[collection.ActionType]uint64{
			collection.ActionAdd:    c.add.Load(),
			collection.ActionRemove: c.remove.Load(),
			collection.ActionLoad:   c.load.Load(),
		},
		NoOps:            c.noops.Load(),
		PersistSucceeded: c.persistOK.Load(),
		PersistFailed:    c.persistFailed.Load(),
		PersistDropped:   c.persistDropped.Load(),
		Hydration:        c.hydrationOutcome(),
	}
}

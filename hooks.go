package wishlist

import (
	"sync"

	"github.com/agentstation/wishlist/pkg/collection"
	"github.com/agentstation/wishlist/pkg/items"
)

// Hook function types for wishlist events
type (
	// ItemAddedHook is called after an ADD puts a new item on the wishlist
	ItemAddedHook func(item items.Item)

	// ItemRemovedHook is called after a REMOVE takes an item off the wishlist
	ItemRemovedHook func(item items.Item)

	// LoadedHook is called after a LOAD replaced the wishlist
	LoadedHook func(state *collection.Collection)
)

// hooks manages event callbacks for wishlist changes
type hooks struct {
	mu            sync.RWMutex
	onItemAdded   []ItemAddedHook
	onItemRemoved []ItemRemovedHook
	onLoaded      []LoadedHook
}

func newHooks() *hooks {
	return &hooks{}
}

// OnItemAdded registers a callback for when items are added
func (h *hooks) OnItemAdded(fn ItemAddedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onItemAdded = append(h.onItemAdded, fn)
}

// OnItemRemoved registers a callback for when items are removed
func (h *hooks) OnItemRemoved(fn ItemRemovedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onItemRemoved = append(h.onItemRemoved, fn)
}

// OnLoaded registers a callback for when the wishlist is replaced
func (h *hooks) OnLoaded(fn LoadedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onLoaded = append(h.onLoaded, fn)
}

// trigger compares the states around a transition and calls the matching
// hooks. ADD and REMOVE are reported per item; LOAD is reported once.
func (h *hooks) trigger(action collection.ActionType, prev, next *collection.Collection) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if action == collection.ActionLoad {
		for _, hook := range h.onLoaded {
			hook(next)
		}
		return
	}

	next.Each(func(it items.Item) bool {
		if !prev.Contains(it.ID) {
			for _, hook := range h.onItemAdded {
				hook(it)
			}
		}
		return true
	})

	prev.Each(func(it items.Item) bool {
		if !next.Contains(it.ID) {
			for _, hook := range h.onItemRemoved {
				hook(it)
			}
		}
		return true
	})
}

// Package collection implements the wishlist collection and its pure
// transition function.
//
// A *Collection is immutable: every transition that changes anything
// returns a new *Collection, and a transition that changes nothing returns
// its input. Comparing pointers is therefore enough to detect a change.
package collection

import (
	"github.com/agentstation/wishlist/pkg/items"
)

// Collection is an ordered list of items, unique by id, in insertion order.
// The zero value and a nil *Collection are both empty.
type Collection struct {
	items []items.Item
	index map[string]int
}

// Empty returns a new empty collection.
func Empty() *Collection {
	return &Collection{}
}

// New builds a collection from list. Items without an id and repeated ids
// are dropped, keeping the first occurrence.
func New(list ...items.Item) *Collection {
	out := make([]items.Item, 0, len(list))
	for _, it := range list {
		if it.ID != "" {
			out = append(out, it.Clone())
		}
	}
	out, _ = items.Dedupe(out)
	return build(out)
}

// build wraps list without copying it. Callers hand over ownership.
func build(list []items.Item) *Collection {
	c := &Collection{items: list, index: make(map[string]int, len(list))}
	for i, it := range list {
		// first occurrence wins the index if a LOAD carried duplicates
		if _, ok := c.index[it.ID]; !ok {
			c.index[it.ID] = i
		}
	}
	return c
}

// Len returns the number of items.
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// IsEmpty reports whether the collection has no items.
func (c *Collection) IsEmpty() bool {
	return c.Len() == 0
}

// Items returns deep copies of the items in insertion order. The result is
// never nil so it encodes as an empty JSON array.
func (c *Collection) Items() []items.Item {
	if c == nil {
		return []items.Item{}
	}
	out := make([]items.Item, len(c.items))
	for i, it := range c.items {
		out[i] = it.Clone()
	}
	return out
}

// IDs returns the item ids in insertion order.
func (c *Collection) IDs() []string {
	ids := make([]string, 0, c.Len())
	if c == nil {
		return ids
	}
	for _, it := range c.items {
		ids = append(ids, it.ID)
	}
	return ids
}

// Get returns the item with the given id.
func (c *Collection) Get(id string) (items.Item, bool) {
	if c == nil {
		return items.Item{}, false
	}
	i, ok := c.index[id]
	if !ok {
		return items.Item{}, false
	}
	return c.items[i].Clone(), true
}

// Contains reports whether an item with the given id is present.
func (c *Collection) Contains(id string) bool {
	if c == nil {
		return false
	}
	_, ok := c.index[id]
	return ok
}

// Each calls fn for every item in order until fn returns false.
func (c *Collection) Each(fn func(items.Item) bool) {
	if c == nil {
		return
	}
	for _, it := range c.items {
		if !fn(it.Clone()) {
			return
		}
	}
}

// Equal reports whether both collections hold equal items in the same order.
func (c *Collection) Equal(other *Collection) bool {
	if c.Len() != other.Len() {
		return false
	}
	for i := 0; i < c.Len(); i++ {
		if !c.items[i].Equal(other.items[i]) {
			return false
		}
	}
	return true
}

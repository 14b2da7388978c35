package collection

import (
	"github.com/agentstation/wishlist/pkg/items"
)

// ActionType names an action for logs and metrics.
type ActionType string

// Action types.
const (
	ActionAdd    ActionType = "ADD_ITEM"
	ActionRemove ActionType = "REMOVE_ITEM"
	ActionLoad   ActionType = "LOAD_WISHLIST"
)

// String implements fmt.Stringer
func (t ActionType) String() string {
	return string(t)
}

// Action is one of Add, Remove or Load. The set is closed.
type Action interface {
	Type() ActionType
	apply(*Collection) *Collection
}

// Add appends Item unless an item with the same id is present.
type Add struct {
	Item items.Item
}

// Remove drops the item with the given id, if any.
type Remove struct {
	ID string
}

// Load replaces the whole collection with Items, verbatim.
type Load struct {
	Items []items.Item
}

// Type implements Action
func (Add) Type() ActionType { return ActionAdd }

// Type implements Action
func (Remove) Type() ActionType { return ActionRemove }

// Type implements Action
func (Load) Type() ActionType { return ActionLoad }

func (a Add) apply(c *Collection) *Collection {
	if a.Item.ID == "" || c.Contains(a.Item.ID) {
		return c
	}
	next := make([]items.Item, 0, c.Len()+1)
	if c != nil {
		next = append(next, c.items...)
	}
	return build(append(next, a.Item.Clone()))
}

func (r Remove) apply(c *Collection) *Collection {
	if r.ID == "" || !c.Contains(r.ID) {
		return c
	}
	next := make([]items.Item, 0, c.Len()-1)
	for _, it := range c.items {
		if it.ID != r.ID {
			next = append(next, it)
		}
	}
	return build(next)
}

func (l Load) apply(*Collection) *Collection {
	next := make([]items.Item, len(l.Items))
	for i, it := range l.Items {
		next[i] = it.Clone()
	}
	return build(next)
}

// Reduce applies action to state and returns the resulting state. It never
// panics: a nil action or an invalid id leaves state unchanged, and a nil
// state is treated as empty.
func Reduce(state *Collection, action Action) *Collection {
	if state == nil {
		state = Empty()
	}
	if action == nil {
		return state
	}
	return action.apply(state)
}

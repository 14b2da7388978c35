package collection

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/agentstation/wishlist/pkg/items"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(id string) items.Item {
	return items.Item{ID: id, Name: "item " + id, Type: items.TypeSale}
}

func TestAddIsIdempotent(t *testing.T) {
	x := item("x")
	once := Reduce(Empty(), Add{Item: x})
	twice := Reduce(once, Add{Item: x})

	assert.Same(t, once, twice)
	assert.Equal(t, []string{"x"}, twice.IDs())
}

func TestAddDuplicateKeepsOriginal(t *testing.T) {
	state := Reduce(nil, Add{Item: items.Item{ID: "p1", Name: "Gown"}})
	state = Reduce(state, Add{Item: items.Item{ID: "p1", Name: "Renamed"}})

	got, ok := state.Get("p1")
	require.True(t, ok)
	assert.Equal(t, "Gown", got.Name)
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	state := Reduce(Empty(), Add{Item: item("a")})
	assert.Same(t, state, Reduce(state, Remove{ID: "missing"}))
	assert.Same(t, state, Reduce(state, Remove{ID: ""}))
}

func TestInvalidInputIsNoop(t *testing.T) {
	state := Reduce(Empty(), Add{Item: item("a")})
	assert.Same(t, state, Reduce(state, Add{Item: items.Item{Name: "no id"}}))
	assert.Same(t, state, Reduce(state, nil))
	assert.NotPanics(t, func() { Reduce(nil, nil) })
}

func TestOrderPreservation(t *testing.T) {
	state := Reduce(Empty(), Add{Item: item("x")})
	state = Reduce(state, Add{Item: item("y")})
	state = Reduce(state, Remove{ID: "x"})
	assert.Equal(t, []string{"y"}, state.IDs())

	state = Reduce(state, Add{Item: item("a")})
	state = Reduce(state, Add{Item: item("b")})
	state = Reduce(state, Add{Item: item("c")})
	state = Reduce(state, Remove{ID: "a"})
	assert.Equal(t, []string{"y", "b", "c"}, state.IDs())
}

func TestTransitionsReturnNewState(t *testing.T) {
	empty := Empty()
	added := Reduce(empty, Add{Item: item("a")})
	assert.NotSame(t, empty, added)
	assert.True(t, empty.IsEmpty(), "previous state must not change")

	removed := Reduce(added, Remove{ID: "a"})
	assert.NotSame(t, added, removed)
	assert.Equal(t, 1, added.Len())
	assert.Equal(t, 0, removed.Len())
}

func TestLoadReplacesVerbatim(t *testing.T) {
	state := Reduce(Empty(), Add{Item: item("old")})
	loaded := Reduce(state, Load{Items: []items.Item{item("a"), item("b"), item("a")}})

	assert.Equal(t, []string{"a", "b", "a"}, loaded.IDs())
	assert.False(t, loaded.Contains("old"))

	empty := Reduce(loaded, Load{})
	assert.NotSame(t, loaded, empty)
	assert.True(t, empty.IsEmpty())
}

func TestLoadDoesNotAliasInput(t *testing.T) {
	list := []items.Item{item("a")}
	state := Reduce(nil, Load{Items: list})
	list[0].ID = "mutated"
	assert.Equal(t, []string{"a"}, state.IDs())
}

func TestUniquenessUnderRandomActions(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	state := Empty()
	for i := 0; i < 2000; i++ {
		id := fmt.Sprintf("id-%d", rng.Intn(20))
		if rng.Intn(3) == 0 {
			state = Reduce(state, Remove{ID: id})
		} else {
			state = Reduce(state, Add{Item: item(id)})
		}

		seen := map[string]bool{}
		for _, got := range state.IDs() {
			require.False(t, seen[got], "duplicate id %s after %d actions", got, i+1)
			seen[got] = true
		}
	}
}

func TestNewDropsInvalidAndDuplicates(t *testing.T) {
	c := New(item("a"), items.Item{Name: "no id"}, item("b"), item("a"))
	assert.Equal(t, []string{"a", "b"}, c.IDs())
}

func TestNilCollection(t *testing.T) {
	var c *Collection
	assert.Equal(t, 0, c.Len())
	assert.True(t, c.IsEmpty())
	assert.Equal(t, []items.Item{}, c.Items())
	assert.Equal(t, []string{}, c.IDs())
	assert.False(t, c.Contains("a"))
	assert.True(t, c.Equal(Empty()))
	c.Each(func(items.Item) bool { t.Fatal("unexpected item"); return false })
}

func TestItemsReturnsCopy(t *testing.T) {
	c := New(item("a"))
	got := c.Items()
	got[0].ID = "changed"
	assert.Equal(t, []string{"a"}, c.IDs())
}

func TestStateDoesNotShareItemData(t *testing.T) {
	in := items.Item{
		ID:      "p1",
		Type:    items.TypeRental,
		Tags:    []string{"red"},
		Product: &items.Product{Images: []string{"front.jpg"}},
	}
	state := Reduce(nil, Add{Item: in})
	loaded := Reduce(nil, Load{Items: []items.Item{in}})

	in.Tags[0] = "changed"
	in.Product.Images[0] = "changed"

	for _, c := range []*Collection{state, loaded} {
		got, ok := c.Get("p1")
		require.True(t, ok)
		assert.Equal(t, []string{"red"}, got.Tags)
		assert.Equal(t, []string{"front.jpg"}, got.Product.Images)

		got.Tags[0] = "changed"
		c.Items()[0].Product.Images[0] = "changed"
		again, _ := c.Get("p1")
		assert.Equal(t, []string{"red"}, again.Tags)
		assert.Equal(t, []string{"front.jpg"}, again.Product.Images)
	}
}

func TestEach(t *testing.T) {
	c := New(item("a"), item("b"), item("c"))
	var seen []string
	c.Each(func(it items.Item) bool {
		seen = append(seen, it.ID)
		return it.ID != "b"
	})
	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestEqual(t *testing.T) {
	assert.True(t, New(item("a"), item("b")).Equal(New(item("a"), item("b"))))
	assert.False(t, New(item("a"), item("b")).Equal(New(item("b"), item("a"))))
	assert.False(t, New(item("a")).Equal(New(item("a"), item("b"))))
}

func TestActionTypes(t *testing.T) {
	assert.Equal(t, ActionAdd, Add{}.Type())
	assert.Equal(t, ActionRemove, Remove{}.Type())
	assert.Equal(t, ActionLoad, Load{}.Type())
	assert.Equal(t, "LOAD_WISHLIST", ActionLoad.String())
}

package wishlist

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/wishlist/pkg/collection"
	"github.com/agentstation/wishlist/pkg/items"
	"github.com/agentstation/wishlist/pkg/logging"
	"github.com/agentstation/wishlist/pkg/storage"
	"github.com/agentstation/wishlist/pkg/storage/memory"
)

func gown() items.Item {
	return items.Item{ID: "p1", Name: "Gown"}
}

func product(id string) items.Item {
	return items.Item{ID: id, Name: "product " + id, Type: items.TypeSale, Price: "1,000 دج"}
}

func newTestStore(t *testing.T, opts ...Option) (Store, *logging.TestLogger) {
	t.Helper()
	tl := logging.NewTestLogger(t)
	s, err := New(append([]Option{WithLogger(tl.Logger)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, tl
}

func stored(t *testing.T, mem *memory.Store) string {
	t.Helper()
	v, ok, err := mem.Get(context.Background(), storage.DefaultKey)
	require.NoError(t, err)
	require.True(t, ok, "nothing stored")
	return v
}

func TestScenarioAddTwiceThenRemove(t *testing.T) {
	mem := memory.New()
	s, _ := newTestStore(t, WithStorage(mem))

	s.Add(gown())
	s.Add(gown())
	require.Equal(t, 1, s.State().Len())
	assert.True(t, s.Contains("p1"))

	s.Remove("p1")
	assert.True(t, s.State().IsEmpty())
	assert.JSONEq(t, `[]`, stored(t, mem))
}

func TestHydrationThenMutate(t *testing.T) {
	a, b := product("A"), product("B")
	data, err := items.MarshalList([]items.Item{a, b})
	require.NoError(t, err)

	mem := memory.New(memory.WithData(map[string]string{storage.DefaultKey: string(data)}))
	s, _ := newTestStore(t, WithStorage(mem))

	assert.Equal(t, []string{"A", "B"}, s.State().IDs())
	assert.Equal(t, HydrationLoaded, s.Stats().Hydration)

	s.Remove("A")
	assert.Equal(t, []string{"B"}, s.State().IDs())

	got, err := items.UnmarshalList([]byte(stored(t, mem)))
	require.NoError(t, err)
	assert.Equal(t, []items.Item{b}, got)
}

func TestPersistenceKeepsUnknownFields(t *testing.T) {
	raw := `[{"id":"svc","name":"Workshop","type":"خدمة","duration":"3 ساعات","bookingTerms":{"advance":"48h"},"legacyFlag":true}]`
	mem := memory.New(memory.WithData(map[string]string{storage.DefaultKey: raw}))
	s, _ := newTestStore(t, WithStorage(mem))

	s.Add(product("p2"))
	s.Remove("p2")

	assert.JSONEq(t, raw, stored(t, mem))
}

func TestHydrationFailsOpen(t *testing.T) {
	tests := []struct {
		name    string
		mem     *memory.Store
		outcome HydrationOutcome
		logged  string
	}{
		{
			name:    "absent",
			mem:     memory.New(),
			outcome: HydrationEmpty,
			logged:  "No stored wishlist",
		},
		{
			name:    "blank",
			mem:     memory.New(memory.WithData(map[string]string{storage.DefaultKey: "  "})),
			outcome: HydrationEmpty,
			logged:  "No stored wishlist",
		},
		{
			name:    "corrupt",
			mem:     memory.New(memory.WithData(map[string]string{storage.DefaultKey: `{"not":"a list"`})),
			outcome: HydrationCorrupt,
			logged:  "Stored wishlist is corrupt",
		},
		{
			name:    "unavailable",
			mem:     memory.New(memory.WithFailingReads(errors.New("access denied"))),
			outcome: HydrationUnavailable,
			logged:  "access denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, tl := newTestStore(t, WithStorage(tt.mem))

			assert.True(t, s.State().IsEmpty())
			assert.Equal(t, tt.outcome, s.Stats().Hydration)
			tl.AssertContains(t, tt.logged)

			s.Add(gown())
			assert.Equal(t, []string{"p1"}, s.State().IDs())
		})
	}
}

func TestHydrationSanitizesSnapshot(t *testing.T) {
	raw := `[{"id":"a","name":"first"},{"name":"no id"},"junk",{"id":"a","name":"second"},{"id":"b"}]`
	mem := memory.New(memory.WithData(map[string]string{storage.DefaultKey: raw}))
	s, tl := newTestStore(t, WithStorage(mem))

	assert.Equal(t, []string{"a", "b"}, s.State().IDs())
	first, _ := s.State().Get("a")
	assert.Equal(t, "first", first.Name)
	tl.AssertContains(t, "Skipped unreadable wishlist entries")
	tl.AssertContains(t, "Dropped duplicate wishlist entries")
}

func TestWriteFailureKeepsMemoryState(t *testing.T) {
	mem := memory.New(memory.WithFailingWrites(errors.New("quota exceeded")))
	s, tl := newTestStore(t, WithStorage(mem))

	assert.NotPanics(t, func() {
		s.Add(product("a"))
		s.Add(product("b"))
		s.Remove("a")
	})

	assert.Equal(t, []string{"b"}, s.State().IDs())
	assert.Equal(t, uint64(3), s.Stats().PersistFailed)
	assert.Zero(t, mem.Writes())
	tl.AssertContains(t, "Failed to save wishlist to storage")
	tl.AssertContains(t, "quota exceeded")

	mem.SetFailures(nil, nil)
	s.Add(product("c"))
	got, err := items.UnmarshalList([]byte(stored(t, mem)))
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestNoOpsArePersisted(t *testing.T) {
	mem := memory.New()
	s, _ := newTestStore(t, WithStorage(mem))

	s.Add(gown())
	require.Equal(t, 1, mem.Writes())

	s.Add(gown())
	s.Remove("missing")
	assert.Equal(t, 3, mem.Writes())
	assert.Equal(t, uint64(2), s.Stats().NoOps)
	assert.JSONEq(t, `[{"id":"p1","name":"Gown"}]`, stored(t, mem))
}

// gatedStorage blocks reads until release is closed.
type gatedStorage struct {
	*memory.Store
	release chan struct{}
}

func (g *gatedStorage) Get(ctx context.Context, key string) (string, bool, error) {
	select {
	case <-g.release:
	case <-ctx.Done():
		return "", false, ctx.Err()
	}
	return g.Store.Get(ctx, key)
}

func newGated(t *testing.T, list ...items.Item) *gatedStorage {
	t.Helper()
	data, err := items.MarshalList(list)
	require.NoError(t, err)
	return &gatedStorage{
		Store:   memory.New(memory.WithData(map[string]string{storage.DefaultKey: string(data)})),
		release: make(chan struct{}),
	}
}

func waitHydrated(t *testing.T, s Store) {
	t.Helper()
	select {
	case <-s.Hydrated():
	case <-time.After(5 * time.Second):
		t.Fatal("hydration did not settle")
	}
}

func TestAsyncHydrationLoadsWhenUntouched(t *testing.T) {
	gated := newGated(t, product("A"), product("B"))
	s, _ := newTestStore(t, WithStorage(gated), WithAsyncHydration())

	assert.True(t, s.State().IsEmpty())
	assert.Equal(t, HydrationPending, s.Stats().Hydration)

	close(gated.release)
	waitHydrated(t, s)
	assert.Equal(t, []string{"A", "B"}, s.State().IDs())
}

func TestAsyncHydrationDiscardedAfterConsumerChange(t *testing.T) {
	gated := newGated(t, product("A"), product("B"))
	s, tl := newTestStore(t, WithStorage(gated), WithAsyncHydration())

	s.Add(product("C"))
	close(gated.release)
	waitHydrated(t, s)

	assert.Equal(t, []string{"C"}, s.State().IDs())
	assert.Equal(t, HydrationDiscarded, s.Stats().Hydration)
	tl.AssertContains(t, "Discarded stored wishlist")

	got, err := items.UnmarshalList([]byte(stored(t, gated.Store)))
	require.NoError(t, err)
	assert.Equal(t, []string{"C"}, collection.New(got...).IDs())
}

func TestAsyncHydrationSurvivesEarlyNoOp(t *testing.T) {
	gated := newGated(t, product("A"))
	before := gated.Store.Snapshot()[storage.DefaultKey]
	s, _ := newTestStore(t, WithStorage(gated), WithAsyncHydration())

	s.Remove("not-there")
	assert.Equal(t, before, gated.Store.Snapshot()[storage.DefaultKey], "no-op must not overwrite unread data")

	close(gated.release)
	waitHydrated(t, s)
	assert.Equal(t, []string{"A"}, s.State().IDs())
}

func TestHydrateRunsOnce(t *testing.T) {
	mem := memory.New(memory.WithData(map[string]string{storage.DefaultKey: `[{"id":"A"}]`}))
	s, _ := newTestStore(t, WithStorage(mem))

	s.Remove("A")
	s.Hydrate(context.Background())
	assert.True(t, s.State().IsEmpty())
}

func TestWithoutHydration(t *testing.T) {
	mem := memory.New(memory.WithData(map[string]string{storage.DefaultKey: `[{"id":"A"}]`}))
	s, _ := newTestStore(t, WithStorage(mem), WithoutHydration())

	waitHydrated(t, s)
	assert.True(t, s.State().IsEmpty())
	assert.Equal(t, HydrationSkipped, s.Stats().Hydration)
}

func TestCallerCannotChangeStateInPlace(t *testing.T) {
	mem := memory.New()
	s, _ := newTestStore(t, WithStorage(mem))

	it := product("p1")
	it.Tags = []string{"red"}
	s.Add(it)
	before := s.State()

	it.Tags[0] = "blue"
	got, ok := s.State().Get("p1")
	require.True(t, ok)
	got.Tags[0] = "green"

	assert.Same(t, before, s.State())
	again, _ := s.State().Get("p1")
	assert.Equal(t, []string{"red"}, again.Tags)
	assert.Contains(t, stored(t, mem), `"tags":["red"]`)
}

func TestAddAndRemoveReportChanges(t *testing.T) {
	s, _ := newTestStore(t)

	assert.True(t, s.Add(gown()))
	assert.False(t, s.Add(gown()))
	assert.False(t, s.Remove("missing"))
	assert.True(t, s.Remove("p1"))
	assert.False(t, s.Remove("p1"))
}

func TestInitialItems(t *testing.T) {
	t.Run("kept when nothing is stored", func(t *testing.T) {
		mem := memory.New()
		s, _ := newTestStore(t, WithStorage(mem), WithInitialItems(product("A"), product("A"), product("B")))

		assert.Equal(t, []string{"A", "B"}, s.State().IDs())
		assert.Zero(t, mem.Writes())
	})

	t.Run("replaced by the stored wishlist", func(t *testing.T) {
		mem := memory.New(memory.WithData(map[string]string{storage.DefaultKey: `[{"id":"C"}]`}))
		s, _ := newTestStore(t, WithStorage(mem), WithInitialItems(product("A")))

		assert.Equal(t, []string{"C"}, s.State().IDs())
	})
}

func TestSubscribe(t *testing.T) {
	s, _ := newTestStore(t)

	var calls []string
	unsubscribe := s.Subscribe(func(prev, next *collection.Collection) {
		assert.NotSame(t, prev, next)
		assert.Same(t, next, s.State(), "listeners see the new snapshot")
		calls = append(calls, fmt.Sprintf("%d->%d", prev.Len(), next.Len()))
	})

	s.Add(gown())
	s.Add(gown())
	s.Remove("p1")
	s.Remove("p1")
	assert.Equal(t, []string{"0->1", "1->0"}, calls)
	assert.Equal(t, 1, s.Stats().Subscribers)

	unsubscribe()
	unsubscribe()
	s.Add(gown())
	assert.Len(t, calls, 2)
	assert.Zero(t, s.Stats().Subscribers)
}

func TestUnsubscribeDuringNotify(t *testing.T) {
	s, _ := newTestStore(t)

	var first, second int
	var unsubscribe func()
	unsubscribe = s.Subscribe(func(_, _ *collection.Collection) {
		first++
		unsubscribe()
	})
	s.Subscribe(func(_, _ *collection.Collection) { second++ })

	s.Add(product("a"))
	s.Add(product("b"))
	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
}

func TestHooks(t *testing.T) {
	mem := memory.New(memory.WithData(map[string]string{storage.DefaultKey: `[{"id":"A"}]`}))
	s, err := New(WithStorage(mem), WithAsyncHydration(), WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)
	defer s.Close()

	var added, removed []string
	var loaded int
	s.OnItemAdded(func(it items.Item) { added = append(added, it.ID) })
	s.OnItemRemoved(func(it items.Item) { removed = append(removed, it.ID) })
	s.OnLoaded(func(state *collection.Collection) { loaded = state.Len() })

	waitHydrated(t, s)
	s.Add(product("B"))
	s.Add(product("B"))
	s.Remove("A")
	s.Dispatch(collection.Load{Items: []items.Item{product("X"), product("Y")}})

	assert.Equal(t, []string{"B"}, added)
	assert.Equal(t, []string{"A"}, removed)
	assert.Equal(t, 2, loaded)
}

func TestAsyncPersistenceFlushesOnClose(t *testing.T) {
	mem := memory.New()
	s, err := New(WithStorage(mem), WithAsyncPersistence(128), WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		s.Add(product(fmt.Sprintf("p%02d", i)))
	}
	s.Remove("p00")
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	got, err := items.UnmarshalList([]byte(stored(t, mem)))
	require.NoError(t, err)
	assert.Len(t, got, 49)
	assert.Equal(t, "p01", got[0].ID)
	assert.Equal(t, uint64(51), s.Stats().PersistSucceeded)

	s.Add(product("late"))
	assert.True(t, s.Contains("late"))
	assert.Equal(t, 51, mem.Writes(), "closed store does not persist")
}

func TestConcurrentDispatch(t *testing.T) {
	mem := memory.New()
	s, _ := newTestStore(t, WithStorage(mem))

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				s.Add(product(fmt.Sprintf("p%d", i)))
				if i%5 == w%5 {
					s.Remove(fmt.Sprintf("p%d", i))
				}
				_ = s.State().Len()
			}
		}(w)
	}
	wg.Wait()

	seen := map[string]bool{}
	for _, id := range s.State().IDs() {
		require.False(t, seen[id], "duplicate %s", id)
		seen[id] = true
	}

	got, err := items.UnmarshalList([]byte(stored(t, mem)))
	require.NoError(t, err)
	assert.Equal(t, s.State().IDs(), collection.New(got...).IDs())
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"nil storage", WithStorage(nil)},
		{"empty key", WithKey("")},
		{"zero hydration timeout", WithHydrationTimeout(0)},
		{"negative persist timeout", WithPersistTimeout(-time.Second)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opt)
			assert.Error(t, err)
		})
	}
}

func TestCustomKey(t *testing.T) {
	mem := memory.New(memory.WithData(map[string]string{"favorites": `[{"id":"A"}]`}))
	s, _ := newTestStore(t, WithStorage(mem), WithKey("favorites"))

	assert.Equal(t, []string{"A"}, s.State().IDs())
	s.Add(product("B"))
	assert.Contains(t, mem.Snapshot(), "favorites")
	assert.NotContains(t, mem.Snapshot(), storage.DefaultKey)
}

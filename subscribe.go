package wishlist

import (
	"sync"

	"github.com/agentstation/wishlist/pkg/collection"
)

type subscription struct {
	id uint64
	fn Listener
}

// subscribers is an ordered listener registry. Listeners are called in
// registration order.
type subscribers struct {
	mu     sync.RWMutex
	nextID uint64
	list   []subscription
}

func newSubscribers() *subscribers {
	return &subscribers{}
}

func (s *subscribers) add(fn Listener) func() {
	if fn == nil {
		return func() {}
	}

	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.list = append(s.list, subscription{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(id) })
	}
}

func (s *subscribers) remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, sub := range s.list {
		if sub.id == id {
			s.list = append(s.list[:i:i], s.list[i+1:]...)
			return
		}
	}
}

func (s *subscribers) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.list)
}

// notify calls every listener with a copy of the registry, so listeners
// may unsubscribe while being notified.
func (s *subscribers) notify(prev, next *collection.Collection) {
	s.mu.RLock()
	list := append([]subscription(nil), s.list...)
	s.mu.RUnlock()

	for _, sub := range list {
		sub.fn(prev, next)
	}
}

package wishlist

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/wishlist/pkg/collection"
	"github.com/agentstation/wishlist/pkg/items"
	"github.com/agentstation/wishlist/pkg/storage"
)

// persister writes snapshots to storage, one attempt per snapshot. With a
// queue it writes from a single goroutine in dispatch order.
type persister struct {
	storage  storage.Storage
	key      string
	timeout  time.Duration
	logger   *zerolog.Logger
	counters *counters

	queue  chan *collection.Collection
	done   chan struct{}
	closed bool
}

func newPersister(cfg *config, logger *zerolog.Logger, c *counters) *persister {
	p := &persister{
		storage:  cfg.storage,
		key:      cfg.key,
		timeout:  cfg.persistTimeout,
		logger:   logger,
		counters: c,
	}
	if cfg.persistQueue > 0 {
		p.queue = make(chan *collection.Collection, cfg.persistQueue)
		p.done = make(chan struct{})
		go p.run()
	}
	return p
}

// save hands a snapshot to the writer. Callers hold the dispatch lock.
func (p *persister) save(state *collection.Collection) {
	if p.closed {
		p.logger.Debug().Msg("Store closed; change not persisted")
		return
	}
	if p.queue == nil {
		p.write(state)
		return
	}

	select {
	case p.queue <- state:
	default:
		p.counters.persistDropped.Add(1)
		p.logger.Warn().Int("items", state.Len()).Msg("Persistence queue full; snapshot dropped")
	}
}

func (p *persister) run() {
	defer close(p.done)
	for state := range p.queue {
		p.write(state)
	}
}

func (p *persister) write(state *collection.Collection) {
	data, err := items.MarshalList(state.Items())
	if err != nil {
		p.counters.persistFailed.Add(1)
		p.logger.Error().Err(err).Msg("Failed to encode wishlist")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	if err := p.storage.Set(ctx, p.key, string(data)); err != nil {
		p.counters.persistFailed.Add(1)
		p.logger.Error().Err(err).Int("items", state.Len()).Msg("Failed to save wishlist to storage")
		return
	}
	p.counters.persistOK.Add(1)
}

// close drains the queue and stops the writer. Callers hold the dispatch lock.
func (p *persister) close() {
	if p.closed {
		return
	}
	p.closed = true
	if p.queue != nil {
		close(p.queue)
		<-p.done
	}
}

package wishlist

import (
	"context"
	"strings"

	"github.com/agentstation/wishlist/pkg/collection"
	"github.com/agentstation/wishlist/pkg/items"
)

// Hydrate reads the stored wishlist and issues a LOAD with it. It runs at
// most once per store; later calls wait for the first to finish and do
// nothing. Every failure ends in an empty wishlist and a log line, never
// an error.
func (s *store) Hydrate(ctx context.Context) {
	s.hydrateOnce.Do(func() {
		defer close(s.hydrated)

		ctx, cancel := context.WithTimeout(ctx, s.config.hydrateTimeout)
		defer cancel()

		list, ok := s.readStored(ctx)
		if !ok {
			return
		}

		if applied, _ := s.dispatch(collection.Load{Items: list}, fromHydration); !applied {
			s.counters.setHydration(HydrationDiscarded)
			s.logger.Info().
				Int("stored_items", len(list)).
				Msg("Discarded stored wishlist; it changed before loading finished")
			return
		}

		s.counters.setHydration(HydrationLoaded)
		s.logger.Debug().Int("items", len(list)).Msg("Loaded wishlist from storage")
	})
}

// readStored fetches and decodes the stored snapshot. ok is false when
// there is nothing usable to load.
func (s *store) readStored(ctx context.Context) ([]items.Item, bool) {
	value, found, err := s.config.storage.Get(ctx, s.config.key)
	if err != nil {
		s.counters.setHydration(HydrationUnavailable)
		s.logger.Warn().Err(err).Msg("Failed to load wishlist from storage; continuing without saved items")
		return nil, false
	}
	if !found || strings.TrimSpace(value) == "" {
		s.counters.setHydration(HydrationEmpty)
		s.logger.Debug().Msg("No stored wishlist")
		return nil, false
	}

	list, report, err := items.DecodeList([]byte(value))
	if err != nil {
		s.counters.setHydration(HydrationCorrupt)
		s.logger.Warn().Err(err).Int("bytes", len(value)).Msg("Stored wishlist is corrupt; starting empty")
		return nil, false
	}
	if report.Skipped > 0 {
		s.logger.Warn().
			Int("skipped", report.Skipped).
			Int("total", report.Total).
			Msg("Skipped unreadable wishlist entries")
	}

	list, dups := items.Dedupe(list)
	if dups > 0 {
		s.logger.Warn().Int("duplicates", dups).Msg("Dropped duplicate wishlist entries")
	}
	return list, true
}

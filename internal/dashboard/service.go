package dashboard

import (
	"context"
	"encoding/json"
	"log/slog"

	errors "github.com/frahmantamala/asset-management/internal"
	"github.com/frahmantamala/asset-management/internal/core/events"
	"github.com/frahmantamala/asset-management/internal/snapshot"
)

type Service struct {
	loader snapshot.Loader
	cache  Cache
	logger *slog.Logger
}

func NewService(loader snapshot.Loader, cache Cache, logger *slog.Logger) *Service {
	if cache == nil {
		cache = NopCache{}
	}
	return &Service{
		loader: loader,
		cache:  cache,
		logger: logger,
	}
}

// Stats serves the cached dashboard when present and recomputes it otherwise.
// Cache failures are logged and never fail the request.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	generation, err := s.cache.Generation(ctx)
	cacheUsable := err == nil
	if err != nil {
		s.logger.Warn("dashboard cache generation read failed", "error", err)
	}

	if cacheUsable {
		if payload, ok, err := s.cache.Get(ctx, generation); err != nil {
			s.logger.Warn("dashboard cache read failed", "error", err)
		} else if ok {
			var cached Stats
			if err := json.Unmarshal(payload, &cached); err == nil {
				return &cached, nil
			}
			s.logger.Warn("discarding unreadable dashboard cache entry")
		}
	}

	snap, err := s.loader.Load(ctx)
	if err != nil {
		s.logger.Error("failed to load inventory snapshot", "error", err)
		return nil, errors.NewInternalError("failed to load dashboard", err)
	}
	stats := Compute(snap)

	// the generation was read before loading, so a write that invalidated
	// meanwhile leaves this result under a retired key
	if cacheUsable {
		if payload, err := json.Marshal(stats); err == nil {
			if err := s.cache.Set(ctx, generation, payload); err != nil {
				s.logger.Warn("dashboard cache write failed", "error", err)
			}
		}
	}
	return &stats, nil
}

// IntegrityDrift reads fresh data, bypassing the cache.
func (s *Service) IntegrityDrift(ctx context.Context) ([]snapshot.Equipment, error) {
	snap, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	return FindIntegrityDrift(snap), nil
}

// HandleInventoryChange drops the cached dashboard after any write.
func (s *Service) HandleInventoryChange(ctx context.Context, event events.Event) error {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", "event_type", event.EventType(), "error", err)
		return err
	}
	s.logger.Debug("dashboard cache invalidated", "event_type", event.EventType())
	return nil
}

// Subscribe registers cache invalidation for every inventory event. It runs
// inline with Publish so the write request returns only after the cache moved on.
func (s *Service) Subscribe(bus *events.EventBus) {
	bus.SubscribeSyncMany(s.HandleInventoryChange, events.InventoryEventTypes...)
}

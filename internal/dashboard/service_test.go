package dashboard_test

import (
	"context"
	stderrors "errors"
	"log/slog"
	"os"
	"time"

	"github.com/frahmantamala/asset-management/internal/core/events"
	"github.com/frahmantamala/asset-management/internal/core/inventory"
	"github.com/frahmantamala/asset-management/internal/dashboard"
	"github.com/frahmantamala/asset-management/internal/snapshot"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/redis/go-redis/v9"
)

type fakeLoader struct {
	snap  *snapshot.Snapshot
	calls int
	err   error
	// during runs once, after the snapshot was read and before Load returns
	during func()
}

func (l *fakeLoader) Load(ctx context.Context) (*snapshot.Snapshot, error) {
	l.calls++
	snap := l.snap
	if l.during != nil {
		during := l.during
		l.during = nil
		during()
	}
	return snap, l.err
}

type memoryCache struct {
	generation int64
	entries    map[int64][]byte
	failGet    bool
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[int64][]byte{}}
}

func (c *memoryCache) Generation(ctx context.Context) (int64, error) {
	return c.generation, nil
}

func (c *memoryCache) Get(ctx context.Context, generation int64) ([]byte, bool, error) {
	if c.failGet {
		return nil, false, stderrors.New("cache down")
	}
	payload, ok := c.entries[generation]
	return payload, ok, nil
}

func (c *memoryCache) Set(ctx context.Context, generation int64, payload []byte) error {
	c.entries[generation] = payload
	return nil
}

func (c *memoryCache) Invalidate(ctx context.Context) error {
	c.generation++
	return nil
}

func (c *memoryCache) current() []byte {
	return c.entries[c.generation]
}

var _ = Describe("Dashboard Service", func() {
	var (
		loader  *fakeLoader
		cache   *memoryCache
		service *dashboard.Service
		logger  *slog.Logger
		ctx     context.Context
	)

	BeforeEach(func() {
		loader = &fakeLoader{snap: &snapshot.Snapshot{
			Equipment: []snapshot.Equipment{equipment("e1", "EAC001", inventory.StatusAvailable)},
		}}
		cache = newMemoryCache()
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = dashboard.NewService(loader, cache, logger)
		ctx = context.Background()
	})

	It("serves from the cache until an inventory event invalidates it", func() {
		stats, err := service.Stats(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(stats.TotalEquipment).To(Equal(1))

		_, err = service.Stats(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(loader.calls).To(Equal(1))

		bus := events.NewEventBus(logger)
		service.Subscribe(bus)
		Expect(bus.PublishSync(ctx, events.NewEntityChangedEvent(events.EventTypeEquipmentChanged, "e1", events.ActionUpdated))).To(Succeed())
		Expect(cache.current()).To(BeNil())

		_, err = service.Stats(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(loader.calls).To(Equal(2))
	})

	It("falls back to computing when the cache is unavailable", func() {
		cache.failGet = true
		stats, err := service.Stats(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(stats.Available).To(Equal(1))
	})

	It("reports loader failures as internal errors", func() {
		loader.err = stderrors.New("db down")
		_, err := service.Stats(ctx)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("db down"))
	})

	It("reads drift without touching the cache", func() {
		loader.snap.Equipment[0].Status = inventory.StatusAssigned
		drift, err := service.IntegrityDrift(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(drift).To(HaveLen(1))
		Expect(cache.current()).To(BeNil())
	})

	It("invalidates before an asynchronous publish returns", func() {
		bus := events.NewEventBus(logger)
		service.Subscribe(bus)
		_, err := service.Stats(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(cache.current()).NotTo(BeNil())

		Expect(bus.Publish(ctx, events.NewAssignmentEvent(events.EventTypeAssignmentCreated, "a1", "e1", "u1", inventory.AssignmentActive))).To(Succeed())
		Expect(cache.current()).To(BeNil())
	})

	It("does not let a fill that raced an invalidation hide the change", func() {
		bus := events.NewEventBus(logger)
		service.Subscribe(bus)

		drifted := equipment("e1", "EAC001", inventory.StatusAssigned)
		loader.during = func() {
			loader.snap = &snapshot.Snapshot{Equipment: []snapshot.Equipment{drifted}}
			Expect(bus.PublishSync(ctx, events.NewEntityChangedEvent(events.EventTypeEquipmentChanged, "e1", events.ActionUpdated))).To(Succeed())
		}

		stale, err := service.Stats(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(stale.Assigned).To(BeZero())

		fresh, err := service.Stats(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(loader.calls).To(Equal(2))
		Expect(fresh.Assigned).To(Equal(1))
		Expect(alertTypes(*fresh)).To(ContainElement(dashboard.AlertError))
	})

	It("works without a cache", func() {
		service = dashboard.NewService(loader, nil, logger)
		_, err := service.Stats(ctx)
		Expect(err).NotTo(HaveOccurred())
	})
})

var _ = Describe("RedisCache", func() {
	It("round-trips and invalidates the dashboard entry", func() {
		addr := os.Getenv("REDIS_ADDR")
		if addr == "" {
			Skip("REDIS_ADDR not set")
		}
		ctx := context.Background()
		client := redis.NewClient(&redis.Options{Addr: addr})
		DeferCleanup(client.Close)
		cache := dashboard.NewRedisCache(client, time.Minute)

		gen, err := cache.Generation(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(cache.Set(ctx, gen, []byte(`{"total_equipos":1}`))).To(Succeed())
		payload, ok, err := cache.Get(ctx, gen)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(string(payload)).To(Equal(`{"total_equipos":1}`))

		Expect(cache.Invalidate(ctx)).To(Succeed())
		next, err := cache.Generation(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(next).To(Equal(gen + 1))
		_, ok, err = cache.Get(ctx, next)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())
	})
})

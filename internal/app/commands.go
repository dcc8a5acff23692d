package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"tourcatalog/internal/adapters/observability"
	"tourcatalog/internal/catalog"
	"tourcatalog/internal/domain"
)

type CatalogService struct {
	source   domain.FeedSource
	cache    domain.Cache // optional
	cacheTTL time.Duration
	now      func() time.Time
	loc      *time.Location
	timeout  time.Duration // bound on one shared load

	sf   singleflight.Group
	mu   sync.RWMutex
	last *Snapshot
}

type Option func(*CatalogService)

// WithClock overrides time.Now, which decides the default year and the
// calendar's opening month.
func WithClock(now func() time.Time) Option {
	return func(s *CatalogService) { s.now = now }
}

// WithLocation sets the zone feed dates are parsed in (default time.Local).
func WithLocation(loc *time.Location) Option {
	return func(s *CatalogService) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithLoadTimeout bounds a load cycle, which runs detached from the
// request that started it (default 60s).
func WithLoadTimeout(d time.Duration) Option {
	return func(s *CatalogService) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func NewCatalogService(src domain.FeedSource, c domain.Cache, ttl time.Duration, opts ...Option) *CatalogService {
	s := &CatalogService{source: src, cache: c, cacheTTL: ttl, now: time.Now, loc: time.Local, timeout: 60 * time.Second}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *CatalogService) cacheKey() string { return "snapshot:" + s.source.Name() }

// Load runs one full load cycle: fetch, map, aggregate with both strategies
// and analyze dates. Concurrent callers share a single outstanding fetch.
// On failure the returned snapshot is the degraded "no data" state and err
// carries the cause.
//
// The shared fetch does not inherit any caller's cancellation. A caller
// whose ctx ends stops waiting and gets ctx.Err(); the cycle still
// completes for the others.
func (s *CatalogService) Load(ctx context.Context) (Snapshot, error) {
	ch := s.sf.DoChan("load", func() (any, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()
		return s.load(lctx)
	})
	select {
	case res := <-ch:
		snap, _ := res.Val.(Snapshot)
		return snap, res.Err
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

func (s *CatalogService) load(ctx context.Context) (Snapshot, error) {
	name := s.source.Name()
	now := s.now().In(s.loc)
	id := uuid.NewString()
	l := log.With().Str("load_id", id).Str("source", name).Logger()

	raw, err := s.source.Load(ctx)
	if errors.Is(err, context.Canceled) {
		// abandoned, not failed: the current snapshot stays
		l.Warn().Err(err).Msg("feed load canceled")
		return Snapshot{}, err
	}
	if err != nil {
		snap := Snapshot{
			LoadID:   id,
			Source:   name,
			LoadedAt: now,
			Calendar: []domain.TourProduct{},
			Catalog:  []domain.TourProduct{},
			Years:    []int{now.Year()},
			Empty:    true,
			Error:    err.Error(),
		}
		observability.ObserveLoad(name, StatusError)
		// a stale snapshot must not outlive a failed reload
		if s.cache != nil {
			if derr := s.cache.Del(ctx, s.cacheKey()); derr != nil {
				l.Warn().Err(derr).Msg("snapshot eviction failed")
			}
		}
		s.remember(snap)
		l.Error().Err(err).Msg("feed load failed")
		return snap, err
	}

	recs, skipped := MapRecords(raw)
	for _, r := range recs {
		if _, ok := catalog.ParseDate(r.Date, s.loc); !ok {
			l.Debug().Str("tour", r.Tour).Str("date", r.Date).Msg("unparseable date, excluded from date aggregates")
		}
	}

	rng := catalog.AnalyzeDates(recs, s.loc).OrDefaultYear(now)
	snap := Snapshot{
		LoadID:   id,
		Source:   name,
		LoadedAt: now,
		Calendar: catalog.Aggregate(recs, domain.ByTitleAndDate),
		Catalog:  catalog.Aggregate(recs, domain.ByTitle),
		Years:    rng.Years,
		MinDate:  formatDate(rng.Min),
		MaxDate:  formatDate(rng.Max),
		Empty:    len(recs) == 0,
		Skipped:  skipped,
	}

	observability.ObserveLoad(name, snap.Status())
	observability.SetProducts(domain.ByTitleAndDate.String(), len(snap.Calendar))
	observability.SetProducts(domain.ByTitle.String(), len(snap.Catalog))

	if s.cache != nil {
		if err := s.cache.Set(ctx, s.cacheKey(), snap, int(s.cacheTTL.Seconds())); err != nil {
			l.Warn().Err(err).Msg("snapshot cache write failed")
		}
	}
	s.remember(snap)

	l.Info().
		Int("records", len(recs)).
		Int("skipped", skipped).
		Int("calendar", len(snap.Calendar)).
		Int("products", len(snap.Catalog)).
		Ints("years", snap.Years).
		Msg("feed loaded")
	return snap, nil
}

func (s *CatalogService) remember(snap Snapshot) {
	s.mu.Lock()
	s.last = &snap
	s.mu.Unlock()
}

func (s *CatalogService) lastSnapshot() (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return Snapshot{}, false
	}
	return *s.last, true
}

package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"tourcatalog/internal/app"
)

// Loader runs one load cycle; *app.CatalogService satisfies it.
type Loader interface {
	Load(ctx context.Context) (app.Snapshot, error)
}

type Config struct {
	CronSpec string        // e.g. "*/15 * * * *" or "@every 10m" (server local time)
	Timeout  time.Duration // per tick, 0 = no limit
}

// Scheduler refreshes the catalog on a cron schedule. A tick that is still
// running when the next one fires makes that one skip.
type Scheduler struct {
	c      *cron.Cron
	config Config
	loader Loader
}

func New(cfg Config, l Loader) (*Scheduler, error) {
	s := &Scheduler{
		c:      cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		config: cfg,
		loader: l,
	}
	if _, err := s.c.AddFunc(cfg.CronSpec, func() { s.Tick(context.Background()) }); err != nil {
		return nil, fmt.Errorf("refresh cron %q: %w", cfg.CronSpec, err)
	}
	return s, nil
}

// Tick runs one refresh and logs its outcome.
func (s *Scheduler) Tick(ctx context.Context) {
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}
	log.Info().Msg("scheduler tick: refreshing catalog")
	snap, err := s.loader.Load(ctx)
	if err != nil {
		log.Error().Err(err).Str("load_id", snap.LoadID).Msg("scheduled refresh failed")
		return
	}
	log.Info().
		Str("load_id", snap.LoadID).
		Str("status", snap.Status()).
		Int("products", len(snap.Catalog)).
		Msg("scheduled refresh done")
}

func (s *Scheduler) Start() {
	log.Info().Str("cron", s.config.CronSpec).Msg("starting scheduler")
	s.c.Start()
}

// Stop halts the schedule and waits for a running tick to finish.
func (s *Scheduler) Stop() {
	<-s.c.Stop().Done()
}

// Next is the time of the next scheduled refresh.
func (s *Scheduler) Next() time.Time {
	entries := s.c.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	if entries[0].Next.IsZero() {
		return entries[0].Schedule.Next(time.Now())
	}
	return entries[0].Next
}

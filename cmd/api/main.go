package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"tourcatalog/internal/adapters/feed"
	server "tourcatalog/internal/adapters/http_server"
	"tourcatalog/internal/adapters/observability"
	redisad "tourcatalog/internal/adapters/redis"
	"tourcatalog/internal/app"
	"tourcatalog/internal/domain"
	"tourcatalog/internal/scheduler"
	"tourcatalog/internal/shared"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	loc, _ := cfg.Location()

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// feed
	src, closeSrc, err := feed.FromConfig(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("source", cfg.FeedSource).Msg("feed source init failed")
	}
	defer closeSrc()

	// cache (optional)
	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, snapshot cache disabled")
		} else {
			cache = rc
			defer rc.Close()
		}
	}

	svc := app.NewCatalogService(src, cache, cfg.CacheTTL(),
		app.WithLocation(loc), app.WithLoadTimeout(2*cfg.FeedTimeout()))

	// first load; a failure leaves the degraded snapshot in place
	if snap, err := svc.Load(ctx); err != nil {
		log.Warn().Err(err).Str("load_id", snap.LoadID).Msg("initial feed load failed")
	}

	if cfg.RefreshCron != "" {
		sched, err := scheduler.New(scheduler.Config{CronSpec: cfg.RefreshCron, Timeout: cfg.FeedTimeout() + 5*time.Second}, svc)
		if err != nil {
			log.Fatal().Err(err).Msg("scheduler init failed")
		}
		sched.Start()
		defer sched.Stop()
	}

	// http
	srv := server.New()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Svc: svc})

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Str("source", src.Name()).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
}

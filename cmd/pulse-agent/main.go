package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/JBcollo2/pulse-sub002/internal/authflow"
	"github.com/JBcollo2/pulse-sub002/internal/broadcast"
	"github.com/JBcollo2/pulse-sub002/internal/client"
	"github.com/JBcollo2/pulse-sub002/internal/core/ports"
	"github.com/JBcollo2/pulse-sub002/internal/core/service"
	"github.com/JBcollo2/pulse-sub002/internal/infrastructure/config"
	infrahttp "github.com/JBcollo2/pulse-sub002/internal/infrastructure/http"
	"github.com/JBcollo2/pulse-sub002/pkg/logger"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})
	log.Info().Str("api_url", cfg.APIURL).Str("env", cfg.Env).Msg("starting pulse agent")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	api, err := client.New(cfg.APIURL, cfg.Timings, log)
	if err != nil {
		log.Fatal().Err(err).Msg("api client init failed")
	}

	// Without Redis the agent still works, signals just never leave the
	// process.
	var (
		bus ports.Broadcaster
		rdb *redis.Client
	)
	if cfg.Redis.Addr != "" {
		rdb, err = broadcast.Connect(ctx, broadcast.RedisConfig{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis connect failed")
		}
		defer rdb.Close()
		bus = broadcast.NewRedisChannel(rdb, cfg.Redis.Channel, log)
		log.Info().Str("channel", cfg.Redis.Channel).Msg("cross-instance signals via redis")
	} else {
		bus = broadcast.NewMemoryBus(log)
		log.Info().Msg("no REDIS_ADDR set, signals stay in-process")
	}

	session := service.NewSessionService(api, bus, cfg.Timings, log)
	if err := session.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("session service start failed")
	}
	defer session.Stop()
	session.Init(ctx)

	flow := authflow.New(api, session, cfg.Timings, log)
	flow.Start(ctx)
	defer flow.Stop()

	e := infrahttp.NewRouter(infrahttp.RouterDeps{
		API:   api,
		Flow:  flow,
		Redis: rdb,
		Log:   log,
	})

	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Msg("agent surface listening")
		if err := e.Start(cfg.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown incomplete")
	}
}

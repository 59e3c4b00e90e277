package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/sirpyerre/photogram/internal/api"
	"github.com/sirpyerre/photogram/internal/api/handler"
	"github.com/sirpyerre/photogram/internal/api/metrics"
	"github.com/sirpyerre/photogram/internal/api/middleware"
	"github.com/sirpyerre/photogram/internal/core/domain"
	"github.com/sirpyerre/photogram/internal/core/feed"
	"github.com/sirpyerre/photogram/internal/core/service"
	"github.com/sirpyerre/photogram/internal/core/session"
	"github.com/sirpyerre/photogram/internal/core/signup"
	mongostore "github.com/sirpyerre/photogram/internal/infrastructure/db/mongo"
	redisstore "github.com/sirpyerre/photogram/internal/infrastructure/db/redis"
	"github.com/sirpyerre/photogram/internal/infrastructure/queue"
	"github.com/sirpyerre/photogram/internal/pkg/config"
	"github.com/sirpyerre/photogram/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.Production(),
		Service: "photogram",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("photogram stopped")
	}
	log.Info().Msg("photogram stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	mclient, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() { _ = mclient.Disconnect(context.Background()) }()

	rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	identities := mongostore.NewIdentityRepository(db)
	profiles := mongostore.NewProfileRepository(db)
	posts := mongostore.NewPostRepository(db)
	if err := mongostore.EnsureIndexes(ctx, identities, profiles, posts); err != nil {
		return err
	}

	relay := redisstore.NewStateRelay(rdb, log.With().Str("component", "relay").Logger())
	sessions := redisstore.NewSessionStore(rdb, cfg.Session.MaxAge)
	auth := service.NewAuthService(identities, sessions, relay, log.With().Str("component", "auth").Logger())
	dispatcher := queue.NewDispatcher(cfg.Session.RelayWorkers, auth, log.With().Str("component", "dispatcher").Logger())

	manager := session.NewManager(auth, cfg.Session.IdleTTL, recordTransition, log.With().Str("component", "sessions").Logger())
	metrics.RegisterActiveClientInstances(manager.Len)

	e := api.NewRouter(api.Deps{
		Auth:      auth,
		Signup:    signup.NewService(profiles, auth, log.With().Str("component", "signup").Logger()),
		Profiles:  profiles,
		Feed:      feed.NewLoader(profiles, posts, log.With().Str("component", "feed").Logger()),
		Instances: manager,
		Client: middleware.ClientConfig{
			Secret: cfg.Session.Secret,
			MaxAge: cfg.Session.MaxAge,
			Secure: cfg.Production(),
		},
		Checks: map[string]handler.Check{
			"mongodb": func(ctx context.Context) error { return mclient.Ping(ctx, nil) },
			"redis":   func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
		Log: log,
	})

	g, gctx := errgroup.WithContext(ctx)
	dispatcher.Start(gctx)

	g.Go(func() error {
		manager.Run(gctx)
		return nil
	})
	g.Go(func() error {
		return relay.Run(gctx, dispatcher)
	})
	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func recordTransition(_ string, st domain.SessionState) {
	state := "signed_out"
	if st.SignedIn() {
		state = "signed_in"
	}
	metrics.SessionTransitionsTotal.WithLabelValues(state).Inc()
}

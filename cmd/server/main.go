// Command server runs the X DKV 3 class site.
//
// @title        X DKV 3 Class Site API
// @version      1.0
// @description  Session, account and album endpoints of the X DKV 3 class site.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	_ "github.com/dkv3/class-site/docs"
	"github.com/dkv3/class-site/internal/api"
	"github.com/dkv3/class-site/internal/api/metrics"
	"github.com/dkv3/class-site/internal/core/ports"
	"github.com/dkv3/class-site/internal/core/service"
	"github.com/dkv3/class-site/internal/infrastructure/config"
	mongostore "github.com/dkv3/class-site/internal/infrastructure/db/mongo"
	redisstore "github.com/dkv3/class-site/internal/infrastructure/db/redis"
	"github.com/dkv3/class-site/internal/infrastructure/queue"
	"github.com/dkv3/class-site/internal/infrastructure/storage"
	"github.com/dkv3/class-site/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log := logger.Get()
		log.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "dkv3-site",
	})

	if cfg.ClientSecret == "" {
		cfg.ClientSecret = uuid.NewString()
		log.Warn().Msg("CLIENT_SECRET not set, using an ephemeral secret; client cookies reset on restart")
	}

	backend, err := openBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer backend.close()

	dispatcher := queue.NewDispatcher(cfg.ActivityWorkers, backend.activity, logger.Component("activity"))
	dispatcher.Start(ctx)

	recorder := metrics.Recorder{}
	auth := service.NewAuthService(
		storage.NewUserDirectory(backend.kv, logger.Component("users")),
		storage.NewSessionStore(backend.kv, cfg.Auth.SessionTTL, cfg.Auth.RememberTTL),
		logger.Component("auth"),
		service.AuthOptions{
			BcryptCost:       cfg.Auth.BcryptCost,
			AllowAdminSignup: cfg.Auth.AllowAdminSignup,
			Metrics:          recorder,
			Activity:         dispatcher,
		},
	)
	if err := auth.SeedDefaults(ctx); err != nil {
		return fmt.Errorf("seed default users: %w", err)
	}

	album := service.NewAlbumService(
		storage.NewAlbumLinks(backend.kv, logger.Component("album")),
		logger.Component("album"),
		service.AlbumOptions{
			Dir:         cfg.Album.Dir,
			PublicPath:  cfg.Album.PublicPath,
			Description: cfg.Album.Description,
			Metrics:     recorder,
		},
	)

	e, err := api.NewRouter(api.Deps{
		Auth:            auth,
		Album:           album,
		Log:             logger.Component("http"),
		ClientSecret:    cfg.ClientSecret,
		Development:     cfg.IsDevelopment(),
		AlbumDir:        cfg.Album.Dir,
		AlbumPublicPath: cfg.Album.PublicPath,
		Health:          backend.health,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Str("store", cfg.StoreBackend).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// backend bundles the stores selected by STORE_BACKEND.
type backend struct {
	kv       ports.KeyValueStore
	activity ports.ActivityRepository
	health   map[string]ports.Pinger
	close    func()
}

func openBackend(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*backend, error) {
	switch cfg.StoreBackend {
	case config.BackendRedis:
		client, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		kv := redisstore.NewStore(client, cfg.Redis.Prefix)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")
		return &backend{
			kv:       kv,
			activity: queue.NewLogRepository(logger.Component("activity")),
			health:   map[string]ports.Pinger{"redis": kv},
			close:    func() { _ = client.Close() },
		}, nil

	case config.BackendMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			return nil, err
		}
		kv := mongostore.NewStore(db)
		if err := kv.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")
		return &backend{
			kv:       kv,
			activity: mongostore.NewActivityRepository(db),
			health:   map[string]ports.Pinger{"mongodb": kv},
			close: func() {
				ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				_ = client.Disconnect(ctx)
			},
		}, nil

	default:
		kv := storage.NewMemoryStore()
		log.Warn().Msg("using in-memory store; sessions and users are lost on restart")
		return &backend{
			kv:       kv,
			activity: queue.NewLogRepository(logger.Component("activity")),
			health:   map[string]ports.Pinger{"memory": kv},
			close:    func() {},
		}, nil
	}
}

// Package server wires configuration, storage and services into the HTTP
// API and runs it.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"jbovertime/auth"
	"jbovertime/config"
	"jbovertime/database"
	"jbovertime/overtime"
	"jbovertime/ratelimit"
	"jbovertime/store"
)

const shutdownTimeout = 10 * time.Second

// App owns the long-lived resources of a running service.
type App struct {
	cfg     *config.Config
	log     zerolog.Logger
	db      *gorm.DB
	redis   *redis.Client
	handler http.Handler
}

// New opens the database, seeds it, optionally connects to Redis and builds
// the router.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	db, err := database.Open(database.Options{
		Driver: cfg.Database.Driver,
		DSN:    cfg.Database.URL,
		Log:    log,
	})
	if err != nil {
		return nil, err
	}

	if err := database.Seed(db, database.SeedOptions{
		AdminEmail:    cfg.Admin.Email,
		AdminPassword: cfg.Admin.Password,
		HourlyRate:    cfg.HourlyRate,
	}, log); err != nil {
		_ = database.Close(db)
		return nil, err
	}

	app := &App{cfg: cfg, log: log, db: db}

	limitOpts := ratelimit.Options{MaxAttempts: cfg.Login.MaxAttempts, Window: cfg.Login.Window}
	var durable ratelimit.Store
	if cfg.Redis.Addr != "" {
		rdb, err := database.ConnectRedis(ctx, database.RedisOptions{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			_ = database.Close(db)
			return nil, err
		}
		app.redis = rdb
		durable = ratelimit.NewRedisStore(rdb, limitOpts)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("sign-in rate limit backed by redis")
	} else {
		durable = ratelimit.NewGormStore(db, limitOpts)
	}

	users := store.NewUsers(db)
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTExpiration)
	authService := auth.NewService(users, tokens, ratelimit.New(limitOpts), durable, log)

	app.handler = NewRouter(Deps{
		DB:       db,
		Redis:    app.redis,
		Auth:     authService,
		Records:  store.NewRecords(db),
		Users:    users,
		Settings: store.NewSettings(db),
		Validator: overtime.NewValidator(overtime.ValidatorOptions{
			Location:    cfg.Location(),
			SameDayOnly: !cfg.AllowOvernightShifts,
		}),
		Log:           log,
		SecureCookies: cfg.IsProduction(),
	})

	return app, nil
}

func (a *App) Handler() http.Handler {
	return a.handler
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Close releases the database and Redis connections.
func (a *App) Close() error {
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	errs = append(errs, database.Close(a.db))
	return errors.Join(errs...)
}

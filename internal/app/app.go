// Package app wires the session store, API client, services, providers and
// route tables once at startup.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"taskdeck/internal/apiclient"
	"taskdeck/internal/backend/restapi"
	"taskdeck/internal/config"
	"taskdeck/internal/provider"
	"taskdeck/internal/routes"
	"taskdeck/internal/service"
	"taskdeck/internal/session"
)

// App is the assembled client.
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Session   *session.Store
	Providers *provider.Providers
	Routes    *routes.Selector

	closers []func() error
}

// New builds an App against the configured API and session backend.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	storage, closer, err := newStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}
	store := session.NewStore(storage, config.SessionKey, logger.Named("session"))

	api := apiclient.New(apiclient.Options{
		BaseURL:     cfg.APIURL(),
		Credentials: store,
		Timeout:     cfg.Settings.RequestTimeout,
		Logger:      logger.Named("http"),
	})

	a := NewWithServices(cfg, store, restapi.New(api).Services())
	if closer != nil {
		a.closers = append(a.closers, closer)
	}
	return a, nil
}

// NewWithServices builds an App over the given services.
func NewWithServices(cfg *config.Config, store *session.Store, svc service.Services) *App {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{
		Config:    cfg,
		Logger:    logger,
		Session:   store,
		Providers: provider.New(svc, store, logger),
		Routes:    routes.NewSelector(cfg.Settings.AuthMechanism),
	}
}

func newStorage(ctx context.Context, cfg *config.Config) (session.Storage, func() error, error) {
	switch cfg.Settings.SessionBackend {
	case config.SessionBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Settings.RedisAddr,
			Password: cfg.Settings.RedisPassword,
			DB:       cfg.Settings.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("connect to redis at %s: %w", cfg.Settings.RedisAddr, err)
		}
		return session.NewRedisStorage(client, cfg.Settings.RedisPrefix), client.Close, nil
	default:
		return session.NewFileStorage(cfg.Dir), nil, nil
	}
}

// Close releases the session backend.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// IsAuthenticated reports whether a session credential is stored.
func (a *App) IsAuthenticated(ctx context.Context) bool {
	return a.Providers.Auth.IsAuthenticated(ctx)
}

// Resolve matches target against the route table for the current session.
func (a *App) Resolve(ctx context.Context, target string) routes.Match {
	return a.Routes.Resolve(a.IsAuthenticated(ctx), target)
}

// MountError means the protected shell could not load the account. The
// session has been removed.
type MountError struct {
	Err error
}

func (e *MountError) Error() string {
	return fmt.Sprintf("session ended: %v", e.Err)
}

func (e *MountError) Unwrap() error { return e.Err }

// Mount enters the protected shell: it fetches the account for the stored
// credential and, on any failure, logs out and returns a *MountError.
func (a *App) Mount(ctx context.Context) (service.Account, error) {
	cred, err := a.Session.Get(ctx)
	if err != nil {
		return service.Account{}, a.forceLogout(ctx, err)
	}

	account, err := a.Providers.Account.GetAccountDetails.Trigger(ctx, cred)
	if err != nil {
		return service.Account{}, a.forceLogout(ctx, err)
	}
	if account == nil {
		return service.Account{}, a.forceLogout(ctx, errors.New("empty account response"))
	}
	return *account, nil
}

func (a *App) forceLogout(ctx context.Context, cause error) error {
	a.Logger.Debug("account fetch failed; logging out", zap.Error(cause))
	if err := a.Providers.Auth.Logout(ctx); err != nil {
		a.Logger.Warn("logout failed", zap.Error(err))
	}
	return &MountError{Err: cause}
}

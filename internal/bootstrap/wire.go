package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/coopsoft/usermgmt/internal/application/auth"
	"github.com/coopsoft/usermgmt/internal/config"
	"github.com/coopsoft/usermgmt/internal/infrastructure/db/postgres"
	"github.com/coopsoft/usermgmt/internal/infrastructure/memory"
	"github.com/coopsoft/usermgmt/internal/infrastructure/security"
	"github.com/coopsoft/usermgmt/internal/logger"
)

// StoreKind selects the persistence backend.
type StoreKind string

const (
	StorePostgres StoreKind = "postgres"
	StoreMemory   StoreKind = "memory"
)

// demoAdminPassword backs the in-memory store when no ADMIN_PASSWORD is
// configured. Memory mode holds throwaway data only.
const demoAdminPassword = "admin123"

// App is the assembled object graph. Everything is constructed once here
// and passed down by reference; there are no package-level singletons.
type App struct {
	Cfg     *config.Config
	Service *auth.Service
	Users   auth.UserRepo
	DB      *sql.DB // nil when running on the memory store
}

// New wires config, hasher, store and service together. The returned cleanup
// releases the store handle and is safe to call exactly once.
func New(store StoreKind) (*App, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	return NewWithConfig(cfg, store)
}

func NewWithConfig(cfg *config.Config, store StoreKind) (*App, func(), error) {
	hasher, err := security.NewPBKDF2Hasher(cfg.HashSecret, cfg.HashIterations)
	if err != nil {
		return nil, nil, err
	}

	app := &App{Cfg: cfg}
	cleanup := func() {}

	switch store {
	case StorePostgres:
		if cfg.DBAddr == "" {
			return nil, nil, fmt.Errorf("missing required env var: DB_ADDR")
		}
		db, err := config.NewDB(cfg.DBAddr, cfg.DBDebug)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to store: %w", err)
		}
		app.DB = db
		app.Users = postgres.NewUserRepo(db, hasher)
		cleanup = func() {
			if err := db.Close(); err != nil {
				logger.Logger.Warn().Err(err).Msg("closing db handle")
			}
		}

	case StoreMemory:
		repo := memory.NewUserRepo(hasher)
		app.Users = repo
		password := cfg.AdminPassword
		if password == "" {
			password = demoAdminPassword
		}
		if _, err := postgres.SeedAdmin(context.Background(), repo, hasher, cfg.AdminUsername, password); err != nil {
			return nil, nil, fmt.Errorf("seed demo admin: %w", err)
		}
		logger.Logger.Info().Str("username", cfg.AdminUsername).Msg("memory store ready, demo admin seeded")

	default:
		return nil, nil, fmt.Errorf("unknown store kind %q", store)
	}

	app.Service = auth.NewService(app.Users, hasher).WithAudit(auditToLog)
	return app, cleanup, nil
}

// auditToLog forwards service audit events to the process logger.
func auditToLog(action string, fields map[string]string) {
	ev := logger.Logger.Info().Str("action", action)
	for k, v := range fields {
		ev = ev.Str(k, v)
	}
	ev.Msg("audit")
}

package bootstrap

import (
	"context"
	"testing"

	"github.com/coopsoft/usermgmt/internal/config"
	"github.com/coopsoft/usermgmt/internal/domain"
)

func memConfig() *config.Config {
	return &config.Config{
		Env:            "dev",
		HashSecret:     "wire-test-secret",
		HashIterations: 1_000,
		AdminUsername:  "root1",
		AdminPassword:  "admin123",
	}
}

func TestNewWithConfig_MemoryStore(t *testing.T) {
	app, cleanup, err := NewWithConfig(memConfig(), StoreMemory)
	if err != nil {
		t.Fatalf("wire memory store: %v", err)
	}
	defer cleanup()

	if app.DB != nil {
		t.Fatalf("memory store must not hold a db handle")
	}

	// The demo admin is usable straight away.
	u, err := app.Service.Login(context.Background(), "root1", "admin123", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("seeded admin login: %v", err)
	}
	if !u.IsAdmin() {
		t.Fatalf("expected admin, got %+v", u)
	}
}

func TestNewWithConfig_MissingHashSecret(t *testing.T) {
	cfg := memConfig()
	cfg.HashSecret = ""

	_, _, err := NewWithConfig(cfg, StoreMemory)
	if err == nil {
		t.Fatalf("expected error for missing hash secret")
	}
}

func TestNewWithConfig_PostgresRequiresDBAddr(t *testing.T) {
	cfg := memConfig()
	cfg.DBAddr = ""

	_, _, err := NewWithConfig(cfg, StorePostgres)
	if err == nil {
		t.Fatalf("expected error for missing DB_ADDR")
	}
}

func TestNewWithConfig_UnknownStore(t *testing.T) {
	_, _, err := NewWithConfig(memConfig(), StoreKind("sqlite"))
	if err == nil {
		t.Fatalf("expected error for unknown store kind")
	}
}

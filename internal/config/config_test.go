package config

import (
	"strconv"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/spf13/viper"
)

func TestLoad_Defaults(t *testing.T) {
	viper.Reset()

	cfg := Load()

	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Store.Driver != StoreDriverPostgres {
		t.Errorf("expected default store driver %q, got %q", StoreDriverPostgres, cfg.Store.Driver)
	}
	if cfg.Database.MigrationsDir != "migrations" {
		t.Errorf("expected default migrations dir, got %q", cfg.Database.MigrationsDir)
	}
	if cfg.RateLimit.Enabled {
		t.Error("rate limiting should be disabled by default")
	}
	if cfg.RateLimit.Window != time.Minute {
		t.Errorf("expected 60s window, got %s", cfg.RateLimit.Window)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	viper.Reset()
	t.Setenv("SERVER_BASE_URL", "https://api.example.com/")
	t.Setenv("STORE_DRIVER", "MEMORY")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com,")

	cfg := Load()

	if cfg.Server.BaseURL != "https://api.example.com" {
		t.Errorf("expected trailing slash trimmed, got %q", cfg.Server.BaseURL)
	}
	if cfg.Store.Driver != StoreDriverMemory {
		t.Errorf("expected memory driver, got %q", cfg.Store.Driver)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 {
		t.Errorf("expected 2 origins, got %v", cfg.CORS.AllowedOrigins)
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", Database: "catalog", Schema: "public"}

	want := "postgres://u:p@db:5432/catalog?search_path=public&sslmode=disable"
	if got := c.DSN(); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestDatabaseConfig_DSNEscapesCredentials(t *testing.T) {
	tests := []DatabaseConfig{
		{Host: "db", Port: "5432", User: "u", Password: "p@ss#word/1", Database: "catalog", Schema: "public"},
		{Host: "db", Port: "5432", User: "cat:alog", Password: "a:b?c&d=e f", Database: "catalog", Schema: "tenant one"},
		{Host: "::1", Port: "6543", User: "u", Password: "%41", Database: "catalog", Schema: "public"},
	}

	for _, c := range tests {
		parsed, err := pgx.ParseConfig(c.DSN())
		if err != nil {
			t.Fatalf("failed to parse DSN for %+v: %v", c, err)
		}

		if parsed.Host != c.Host || strconv.Itoa(int(parsed.Port)) != c.Port {
			t.Errorf("expected host %s:%s, got %s:%d", c.Host, c.Port, parsed.Host, parsed.Port)
		}
		if parsed.User != c.User || parsed.Password != c.Password {
			t.Errorf("credentials mangled: expected %q/%q, got %q/%q", c.User, c.Password, parsed.User, parsed.Password)
		}
		if parsed.Database != c.Database {
			t.Errorf("expected database %q, got %q", c.Database, parsed.Database)
		}
		if got := parsed.RuntimeParams["search_path"]; got != c.Schema {
			t.Errorf("expected search_path %q, got %q", c.Schema, got)
		}
	}
}

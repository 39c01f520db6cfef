package config

import (
	"errors"
	"testing"
)

func TestLoad_FailsWithoutSessionSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")

	_, err := Load()

	if !errors.Is(err, ErrMissingSessionSecret) {
		t.Fatalf("got err %v, want ErrMissingSessionSecret", err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-secret")

	cfg, err := Load()

	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != 3000 {
		t.Fatalf("got port %d, want 3000", cfg.Port)
	}

	if cfg.Env != "dev" {
		t.Fatalf("got env %q, want dev", cfg.Env)
	}

	if cfg.DBURL == "" {
		t.Fatalf("expected a default DB URL")
	}
}

func TestLoad_DBURLFromEnv(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-secret")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("DB_DATABASE", "members")

	cfg, err := Load()

	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := "postgres://app:pw@db.internal:5433/members?sslmode=disable"
	if cfg.DBURL != want {
		t.Fatalf("got %q, want %q", cfg.DBURL, want)
	}
}

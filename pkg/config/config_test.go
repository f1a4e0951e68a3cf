package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.DB.Host != "localhost" || cfg.DB.Port != "5432" {
		t.Errorf("db endpoint = %s:%s", cfg.DB.Host, cfg.DB.Port)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("server port = %s", cfg.Server.Port)
	}
	if cfg.JWT.ExpirationHours != 24 {
		t.Errorf("jwt expiration = %d", cfg.JWT.ExpirationHours)
	}
	if cfg.Auth.Provider != "jwt" || cfg.Auth.VerifyTimeout != 5*time.Second {
		t.Errorf("auth = %s / %v", cfg.Auth.Provider, cfg.Auth.VerifyTimeout)
	}
	if !cfg.RateLimit.Enabled || cfg.RateLimit.LoginEmailLimit != 5 {
		t.Errorf("rate limit = %+v", cfg.RateLimit)
	}
	if cfg.Audit.Auth != "all" || cfg.Audit.Admin != "all" {
		t.Errorf("audit modes = %s / %s", cfg.Audit.Auth, cfg.Audit.Admin)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("AUTH_PROVIDER", "remote")
	t.Setenv("AUTH_VERIFY_TIMEOUT", "750ms")
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("RATE_LIMIT_LOGIN_EMAIL_ATTEMPTS", "3")
	t.Setenv("AUDIT_AUTH_MODE", "log")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.DB.Host != "db.internal" {
		t.Errorf("db host = %s", cfg.DB.Host)
	}
	if cfg.Auth.Provider != "remote" || cfg.Auth.VerifyTimeout != 750*time.Millisecond {
		t.Errorf("auth = %s / %v", cfg.Auth.Provider, cfg.Auth.VerifyTimeout)
	}
	if cfg.RateLimit.Enabled {
		t.Error("rate limiting should be disabled")
	}
	if cfg.RateLimit.LoginEmailLimit != 3 {
		t.Errorf("login email attempts = %d", cfg.RateLimit.LoginEmailLimit)
	}
	if cfg.Audit.Auth != "log" {
		t.Errorf("audit auth mode = %s", cfg.Audit.Auth)
	}
}

func TestGetEnvAsIntIgnoresGarbage(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "lots")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DB.MaxOpenConns != 100 {
		t.Errorf("max open conns = %d, want default 100", cfg.DB.MaxOpenConns)
	}
}

func TestDSNShape(t *testing.T) {
	db := DBConfig{
		Host: "localhost", Port: "5432", User: "crm",
		Password: "secret", DBName: "pantry_crm", SSLMode: "disable",
	}
	want := "host=localhost port=5432 user=crm password=secret dbname=pantry_crm sslmode=disable"
	if got := db.GetDSN(); got != want {
		t.Errorf("dsn = %q", got)
	}
}

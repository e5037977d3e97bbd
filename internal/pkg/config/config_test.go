package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func load(t *testing.T, env map[string]string) (*Config, error) {
	t.Helper()
	return LoadFrom(context.Background(), envconfig.MapLookuper(env))
}

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := load(t, map[string]string{"JWT_SECRET": "s3cret"})
	if err != nil {
		t.Fatalf("LoadFrom returned error: %v", err)
	}

	if cfg.Port != "5002" {
		t.Errorf("Port = %q, want 5002", cfg.Port)
	}
	if !cfg.IsDevelopment() {
		t.Errorf("expected development by default")
	}
	if cfg.Auth.JWTSecret != "s3cret" {
		t.Errorf("JWTSecret = %q", cfg.Auth.JWTSecret)
	}
	if cfg.Auth.TokenTTL != 10*time.Minute {
		t.Errorf("TokenTTL = %s, want 10m", cfg.Auth.TokenTTL)
	}
	if cfg.Auth.ResetTokenTTL != time.Hour {
		t.Errorf("ResetTokenTTL = %s, want 1h", cfg.Auth.ResetTokenTTL)
	}
	if cfg.Auth.BcryptCost != 10 {
		t.Errorf("BcryptCost = %d, want 10", cfg.Auth.BcryptCost)
	}
	if cfg.Mongo.URI != "mongodb://localhost:27017" || cfg.Mongo.Database != "auth_api" {
		t.Errorf("unexpected mongo config: %+v", cfg.Mongo)
	}
	if cfg.Redis.Addr != "" {
		t.Errorf("expected redis disabled by default, got %q", cfg.Redis.Addr)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %s, want 10s", cfg.ShutdownTimeout)
	}
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := load(t, map[string]string{
		"JWT_SECRET":      "s3cret",
		"PORT":            "9000",
		"ENV":             "production",
		"TOKEN_TTL":       "15m",
		"RESET_TOKEN_TTL": "30m",
		"BCRYPT_COST":     "12",
		"MONGO_URI":       "mongodb://db:27017",
		"REDIS_ADDR":      "cache:6379",
		"REDIS_DB":        "2",
	})
	if err != nil {
		t.Fatalf("LoadFrom returned error: %v", err)
	}

	if cfg.Port != "9000" || cfg.IsDevelopment() {
		t.Errorf("unexpected server config: port=%q env=%q", cfg.Port, cfg.Env)
	}
	if cfg.Auth.TokenTTL != 15*time.Minute || cfg.Auth.ResetTokenTTL != 30*time.Minute {
		t.Errorf("unexpected ttls: %s / %s", cfg.Auth.TokenTTL, cfg.Auth.ResetTokenTTL)
	}
	if cfg.Auth.BcryptCost != 12 {
		t.Errorf("BcryptCost = %d, want 12", cfg.Auth.BcryptCost)
	}
	if cfg.Mongo.URI != "mongodb://db:27017" {
		t.Errorf("Mongo.URI = %q", cfg.Mongo.URI)
	}
	if cfg.Redis.Addr != "cache:6379" || cfg.Redis.DB != 2 {
		t.Errorf("unexpected redis config: %+v", cfg.Redis)
	}
}

func TestLoadFrom_MissingSecret(t *testing.T) {
	_, err := load(t, map[string]string{})
	if err == nil {
		t.Fatalf("expected error without JWT_SECRET")
	}
	if !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Fatalf("expected error to name JWT_SECRET, got %v", err)
	}
}

func TestLoadFrom_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"zero session ttl", "TOKEN_TTL", "0s"},
		{"negative reset ttl", "RESET_TOKEN_TTL", "-1m"},
		{"bcrypt cost too low", "BCRYPT_COST", "3"},
		{"bcrypt cost too high", "BCRYPT_COST", "32"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(t, map[string]string{"JWT_SECRET": "s3cret", tt.key: tt.val})
			if err == nil {
				t.Fatalf("expected %s=%s to be rejected", tt.key, tt.val)
			}
			if !strings.Contains(err.Error(), tt.key) {
				t.Fatalf("expected error to name %s, got %v", tt.key, err)
			}
		})
	}
}

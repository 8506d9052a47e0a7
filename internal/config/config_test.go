package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "STORE_BACKEND", "MONGO_URI", "CART_TTL", "DELIVERY_FEE", "ACCESS_TOKEN_TTL", "ADMIN_DEFAULT_USERNAME", "ADMIN_DEFAULT_PASSWORD"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %q", cfg.Port)
	}
	if cfg.StoreBackend != BackendMemory {
		t.Fatalf("expected memory backend without MONGO_URI, got %q", cfg.StoreBackend)
	}
	if cfg.CartTTL != 24*time.Hour {
		t.Fatalf("expected 24h cart ttl, got %v", cfg.CartTTL)
	}
	if cfg.DeliveryFee != 100 {
		t.Fatalf("expected delivery fee 100, got %v", cfg.DeliveryFee)
	}
	if cfg.AdminDefaultUsername != "admin" || cfg.AdminDefaultPassword != "admin123" {
		t.Fatalf("unexpected admin defaults %q/%q", cfg.AdminDefaultUsername, cfg.AdminDefaultPassword)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("CART_TTL", "2")
	t.Setenv("DELIVERY_FEE", "49.5")
	t.Setenv("ACCESS_TOKEN_TTL", "nope")

	cfg := FromEnv()
	if cfg.StoreBackend != BackendMongo {
		t.Fatalf("expected mongo backend when MONGO_URI is set, got %q", cfg.StoreBackend)
	}
	if cfg.CartTTL != 2*time.Hour {
		t.Fatalf("expected 2h cart ttl, got %v", cfg.CartTTL)
	}
	if cfg.DeliveryFee != 49.5 {
		t.Fatalf("expected delivery fee 49.5, got %v", cfg.DeliveryFee)
	}
	if cfg.AccessTokenTTL != 120*time.Minute {
		t.Fatalf("expected default token ttl on bad input, got %v", cfg.AccessTokenTTL)
	}
}

func TestExplicitBackendWins(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("STORE_BACKEND", "Memory")

	if got := FromEnv().StoreBackend; got != BackendMemory {
		t.Fatalf("expected explicit memory backend, got %q", got)
	}
}

package config

import (
	"testing"
	"time"
)

func TestGetEnvAsTimeDuration(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"go duration", "750ms", 750 * time.Millisecond},
		{"bare seconds", "30", 30 * time.Second},
		{"garbage", "soon", 5 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tt.value)
			if got := getEnvAsTimeDuration("TEST_DURATION", 5*time.Second); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestGetEnvAsSliceTrimsAndSkipsEmpty(t *testing.T) {
	t.Setenv("TEST_SLICE", " admin, ,editor ")
	got := getEnvAsSlice("TEST_SLICE", nil)
	if len(got) != 2 || got[0] != "admin" || got[1] != "editor" {
		t.Fatalf("unexpected slice: %#v", got)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CATALOG_STORE", "memory")
	cfg := Load()
	if cfg.Catalog.Store != "memory" {
		t.Fatalf("expected memory store, got %q", cfg.Catalog.Store)
	}
	if cfg.Catalog.DefaultPageSize != 12 || cfg.Catalog.MaxPageSize != 1000 {
		t.Fatalf("unexpected catalog paging defaults: %+v", cfg.Catalog)
	}
	if len(cfg.Auth.AdminRoles) != 1 || cfg.Auth.AdminRoles[0] != "admin" {
		t.Fatalf("unexpected admin roles: %#v", cfg.Auth.AdminRoles)
	}
}

package cli

import (
	"strings"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		t.Setenv("DATA_BACKEND", "memory")
		t.Setenv("PORT", "8081")

		cfg, err := LoadConfig()
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.DataBackend != "memory" {
			t.Errorf("DataBackend = %q, want memory", cfg.DataBackend)
		}
	})

	t.Run("invalid backend is reported", func(t *testing.T) {
		t.Setenv("DATA_BACKEND", "redis")

		_, err := LoadConfig()
		if err == nil {
			t.Fatal("expected validation error")
		}
		if !strings.Contains(err.Error(), "invalid data backend 'redis'") {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestSetupLogger(t *testing.T) {
	logger := SetupLogger("debug")
	if logger == nil {
		t.Fatal("SetupLogger returned nil")
	}
	if !logger.Enabled(t.Context(), -4) {
		t.Error("debug level should be enabled")
	}
}

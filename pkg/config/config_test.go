package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// Check defaults
	if cfg.Port != "8080" {
		t.Errorf("Expected Port to be 8080, got %s", cfg.Port)
	}

	if cfg.Env != "development" {
		t.Errorf("Expected Env to be development, got %s", cfg.Env)
	}

	if cfg.MAPeriod != 20 {
		t.Errorf("Expected MAPeriod to be 20, got %d", cfg.MAPeriod)
	}

	if cfg.UpdateIntervalHours != 1 {
		t.Errorf("Expected UpdateIntervalHours to be 1, got %d", cfg.UpdateIntervalHours)
	}

	if cfg.CryptoTopForBigBoard != 20 {
		t.Errorf("Expected CryptoTopForBigBoard to be 20, got %d", cfg.CryptoTopForBigBoard)
	}

	if cfg.RefreshTimeout != 5*time.Minute {
		t.Errorf("Expected RefreshTimeout to be 5m, got %s", cfg.RefreshTimeout)
	}

	if cfg.Redis.Enabled {
		t.Error("Expected Redis to be disabled by default")
	}
}

func TestLoadWithCustomValues(t *testing.T) {
	os.Setenv("PORT", "9000")
	os.Setenv("ENV", "production")
	os.Setenv("MA_PERIOD", "30")
	os.Setenv("FETCH_CONCURRENCY", "16")
	os.Setenv("REFRESH_TIMEOUT", "90s")

	defer func() {
		os.Unsetenv("PORT")
		os.Unsetenv("ENV")
		os.Unsetenv("MA_PERIOD")
		os.Unsetenv("FETCH_CONCURRENCY")
		os.Unsetenv("REFRESH_TIMEOUT")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "9000" {
		t.Errorf("Expected Port to be 9000, got %s", cfg.Port)
	}

	if cfg.Env != "production" {
		t.Errorf("Expected Env to be production, got %s", cfg.Env)
	}

	if cfg.MAPeriod != 30 {
		t.Errorf("Expected MAPeriod to be 30, got %d", cfg.MAPeriod)
	}

	if cfg.FetchConcurrency != 16 {
		t.Errorf("Expected FetchConcurrency to be 16, got %d", cfg.FetchConcurrency)
	}

	if cfg.RefreshTimeout != 90*time.Second {
		t.Errorf("Expected RefreshTimeout to be 90s, got %s", cfg.RefreshTimeout)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"ma period too small", "MA_PERIOD", "1"},
		{"zero update interval", "UPDATE_INTERVAL_HOURS", "0"},
		{"zero fetch concurrency", "FETCH_CONCURRENCY", "0"},
		{"unknown environment", "ENV", "sandbox"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Setenv(tt.key, tt.value)
			defer os.Unsetenv(tt.key)

			if _, err := Load(); err == nil {
				t.Errorf("Load() should fail with %s=%s", tt.key, tt.value)
			}
		})
	}
}

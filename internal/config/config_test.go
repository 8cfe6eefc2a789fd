package config_test

import (
	"testing"
	"time"

	"github.com/teigesaccord/sandy/internal/config"
)

func TestLoad_DefaultsWithAPIKey(t *testing.T) {
	t.Setenv("SANDY_GEMINI_API_KEY", "test-key")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Errorf("log defaults = %+v", cfg.Log)
	}
	if cfg.Database.Path != "sandy.db" {
		t.Errorf("database path = %q", cfg.Database.Path)
	}
	if cfg.Gemini.APIKey != "test-key" {
		t.Errorf("api key = %q", cfg.Gemini.APIKey)
	}
	if cfg.Gemini.ModelName != "gemini-2.0-flash" {
		t.Errorf("model = %q", cfg.Gemini.ModelName)
	}
	if cfg.Chat.FallbackReply == "" {
		t.Error("fallback reply default missing")
	}
	if cfg.Chat.RequestTimeout != 2*time.Minute || cfg.Chat.DBTimeout != 15*time.Second {
		t.Errorf("chat timeouts = %+v", cfg.Chat)
	}
	task, ok := cfg.Scheduler.Tasks["sql_maintenance"]
	if !ok || !task.Enabled || task.Schedule == "" {
		t.Errorf("sql_maintenance task = %+v, present=%v", task, ok)
	}
}

func TestLoad_MissingAPIKeyFailsValidation(t *testing.T) {
	t.Setenv("SANDY_GEMINI_API_KEY", "")

	if _, err := config.Load(); err == nil {
		t.Fatal("Load succeeded without an API key")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SANDY_GEMINI_API_KEY", "test-key")
	t.Setenv("SANDY_LOG_LEVEL", "debug")
	t.Setenv("SANDY_DATABASE_PATH", "/tmp/override.db")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q, want debug", cfg.Log.Level)
	}
	if cfg.Database.Path != "/tmp/override.db" {
		t.Errorf("database path = %q", cfg.Database.Path)
	}
}

func TestLoad_RejectsInvalidLogLevel(t *testing.T) {
	t.Setenv("SANDY_GEMINI_API_KEY", "test-key")
	t.Setenv("SANDY_LOG_LEVEL", "verbose")

	if _, err := config.Load(); err == nil {
		t.Fatal("Load accepted an unknown log level")
	}
}

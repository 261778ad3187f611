package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATA_FILE", "")
	t.Setenv("OUTPUT_DIR", "")
	t.Setenv("OPENAI_MODEL", "")
	t.Setenv("AI_MAX_TOKENS", "")
	t.Setenv("AI_TIMEOUT_SECONDS", "")
	t.Setenv("SERVER_PORT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Output.BaseDir != "outputs" {
		t.Errorf("Expected default output dir, got %s", cfg.Output.BaseDir)
	}
	if cfg.AI.Model != "gpt-4o-mini" {
		t.Errorf("Expected default model, got %s", cfg.AI.Model)
	}
	if cfg.AI.MaxTokens != 2000 {
		t.Errorf("Expected default max tokens, got %d", cfg.AI.MaxTokens)
	}
	if cfg.AI.Timeout != 60*time.Second {
		t.Errorf("Expected default timeout, got %v", cfg.AI.Timeout)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("Expected default port, got %s", cfg.Server.Port)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DATA_FILE", "data/q3.xlsx")
	t.Setenv("OUTPUT_DIR", "/var/runs")
	t.Setenv("AI_MAX_TOKENS", "500")
	t.Setenv("AI_TEMPERATURE", "0.7")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Data.InputFile != "data/q3.xlsx" {
		t.Errorf("Expected input override, got %s", cfg.Data.InputFile)
	}
	if cfg.Output.BaseDir != "/var/runs" {
		t.Errorf("Expected output override, got %s", cfg.Output.BaseDir)
	}
	if cfg.AI.MaxTokens != 500 || cfg.AI.Temperature != 0.7 {
		t.Errorf("Expected AI overrides, got %+v", cfg.AI)
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	t.Setenv("AI_MAX_TOKENS", "-5")

	if _, err := Load(); err == nil {
		t.Error("Expected validation error for negative token budget")
	}
}

func TestLoad_MalformedNumbersFallBack(t *testing.T) {
	t.Setenv("AI_MAX_TOKENS", "plenty")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.AI.MaxTokens != 2000 {
		t.Errorf("Expected fallback on malformed value, got %d", cfg.AI.MaxTokens)
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load empty path: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("addr = %q, want :8080", cfg.Server.Addr)
	}
	if cfg.LLM.PrimaryModel != "gemini/gemini-2.0-flash" {
		t.Errorf("primary model = %q", cfg.LLM.PrimaryModel)
	}
	if cfg.LLM.FallbackModel == "" {
		t.Error("expected default fallback model")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load("/nonexistent/council.toml")
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg.Database.Path != "data/council.db" {
		t.Errorf("db path = %q", cfg.Database.Path)
	}
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
[server]
addr = ":9090"

[llm]
gemini_api_key = "test-key"
primary_model = "anthropic/claude-haiku-4-5-20251001"

[search]
brave_api_key = "brave-key"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("addr = %q, want :9090", cfg.Server.Addr)
	}
	if cfg.LLM.GeminiAPIKey != "test-key" {
		t.Errorf("gemini key = %q", cfg.LLM.GeminiAPIKey)
	}
	if cfg.LLM.PrimaryModel != "anthropic/claude-haiku-4-5-20251001" {
		t.Errorf("primary model = %q", cfg.LLM.PrimaryModel)
	}
	if cfg.Search.BraveAPIKey != "brave-key" {
		t.Errorf("brave key = %q", cfg.Search.BraveAPIKey)
	}
	// Unset sections keep defaults
	if cfg.Database.Path != "data/council.db" {
		t.Errorf("db path = %q", cfg.Database.Path)
	}
}

func TestLoadMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(path, []byte("[server\naddr="), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

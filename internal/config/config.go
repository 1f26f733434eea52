package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	LLM      LLMConfig      `toml:"llm"`
	Search   SearchConfig   `toml:"search"`
	Instance InstanceConfig `toml:"instance"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type LLMConfig struct {
	GeminiAPIKey    string `toml:"gemini_api_key"`
	MistralAPIKey   string `toml:"mistral_api_key"`
	OpenRouterKey   string `toml:"openrouter_api_key"`
	GroqAPIKey      string `toml:"groq_api_key"`
	AnthropicAPIKey string `toml:"anthropic_api_key"`

	// PrimaryModel is the "provider/model" string debate agents speak with.
	// FallbackModel is the cheaper model an agent downgrades to once a
	// conversation has exhausted its retries.
	PrimaryModel  string `toml:"primary_model"`
	FallbackModel string `toml:"fallback_model"`
}

type SearchConfig struct {
	BraveAPIKey  string `toml:"brave_api_key"`
	SerperAPIKey string `toml:"serper_api_key"`
}

type InstanceConfig struct {
	ID   string `toml:"id"`
	Name string `toml:"name"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: ":8080",
		},
		Database: DatabaseConfig{
			Path: "data/council.db",
		},
		LLM: LLMConfig{
			PrimaryModel:  "gemini/gemini-2.0-flash",
			FallbackModel: "gemini/gemini-2.0-flash-lite",
		},
		Instance: InstanceConfig{
			ID:   "local",
			Name: "council-local",
		},
	}
}

func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

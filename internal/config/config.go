package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	SQLite struct {
		Path string `yaml:"path"`
	} `yaml:"sqlite"`
	Catalog struct {
		BaseURL  string   `yaml:"base_url"`
		APIKey   string   `yaml:"api_key"`
		Host     string   `yaml:"host"`
		CacheTTL string   `yaml:"cache_ttl"`
		MovieIDs []string `yaml:"movie_ids"`
	} `yaml:"catalog"`
	OpenRouter struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
		Model   string `yaml:"model"`
	} `yaml:"openrouter"`
	Gemini struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
		Model   string `yaml:"model"`
	} `yaml:"gemini"`
	Quiz struct {
		MaxKeywords      int    `yaml:"max_keywords"`
		EnableImages     *bool  `yaml:"enable_images"`
		SanitizeKeywords *bool  `yaml:"sanitize_keywords"`
		ImageTimeout     string `yaml:"image_timeout"`
		HistoryLimit     int    `yaml:"history_limit"`
		SessionIdleTTL   string `yaml:"session_idle_ttl"`
	} `yaml:"quiz"`
}

// Load reads YAML config from path, then applies secret overrides from the
// environment.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	cfg.applyEnv()
	return cfg, nil
}

// LoadOrDefault behaves like Load but treats a missing file as an empty
// config. ok reports whether the file existed.
func LoadOrDefault(path string) (cfg Config, ok bool, err error) {
	cfg, err = Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = Config{}
		cfg.applyEnv()
		return cfg, false, nil
	}
	return cfg, err == nil, err
}

func (c *Config) applyEnv() {
	if v := os.Getenv("RAPIDAPI_KEY"); v != "" {
		c.Catalog.APIKey = v
	}
	if v := os.Getenv("OPENROUTER_API_KEY"); v != "" {
		c.OpenRouter.APIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Gemini.APIKey = v
	}
}

// MaxKeywords defaults to 10.
func (c Config) MaxKeywords() int {
	if c.Quiz.MaxKeywords > 0 {
		return c.Quiz.MaxKeywords
	}
	return 10
}

// ImagesEnabled defaults to true; images still need a Gemini key.
func (c Config) ImagesEnabled() bool {
	return boolOr(c.Quiz.EnableImages, true)
}

// SanitizeKeywords defaults to true; sanitizing still needs an OpenRouter key.
func (c Config) SanitizeKeywords() bool {
	return boolOr(c.Quiz.SanitizeKeywords, true)
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

package config

import (
	"embed"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed sources.yaml
var sourcesYAML embed.FS

// Config is the explicit configuration passed into collaborator
// constructors at startup. Core transformation functions never read it, or
// any other global state, directly.
type Config struct {
	Server          ServerConfig `yaml:"server"`
	ContractsFinder SourceConfig `yaml:"contracts_finder"`
	FindTender      SourceConfig `yaml:"find_tender"`
	Redis           RedisConfig  `yaml:"redis"`
}

type ServerConfig struct {
	Port        string   `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins,omitempty"`
}

// SourceConfig configures one upstream client.
type SourceConfig struct {
	BaseURL        string `yaml:"base_url"`
	APIKey         string `yaml:"api_key,omitempty"`
	TimeoutSeconds int    `yaml:"timeout_seconds,omitempty"` // Default: 30
	MaxRetries     int    `yaml:"max_retries,omitempty"`     // Default: 3
	PageSize       int    `yaml:"page_size,omitempty"`       // Default: 100
	ChunkSize      int    `yaml:"chunk_size,omitempty"`      // Detail-fetch concurrency width, default: 10
}

// RedisConfig configures the optional release-package cache. An empty Addr
// disables caching entirely.
type RedisConfig struct {
	Addr       string `yaml:"addr,omitempty"`
	Password   string `yaml:"password,omitempty"`
	DB         int    `yaml:"db,omitempty"`
	TTLSeconds int    `yaml:"ttl_seconds,omitempty"` // Default: 900
}

// Load reads the embedded sources.yaml, falling back to the filesystem for
// local development, and expands ${VAR} references from the environment.
func Load(path string) (Config, error) {
	data, err := sourcesYAML.ReadFile("sources.yaml")
	if err != nil {
		data, err = os.ReadFile(path)
		if err != nil {
			return Config{}, err
		}
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, err
	}

	applyDefaults(&cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "3000"
	}
	for _, src := range []*SourceConfig{&cfg.ContractsFinder, &cfg.FindTender} {
		if src.TimeoutSeconds == 0 {
			src.TimeoutSeconds = 30
		}
		if src.MaxRetries == 0 {
			src.MaxRetries = 3
		}
		if src.PageSize == 0 {
			src.PageSize = 100
		}
	}
	if cfg.FindTender.ChunkSize == 0 {
		cfg.FindTender.ChunkSize = 10
	}
	if cfg.Redis.TTLSeconds == 0 {
		cfg.Redis.TTLSeconds = 900
	}
}

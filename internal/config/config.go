package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type LLMConfig struct {
	Backend    string `yaml:"backend"` // "", "gemini", "ollama"
	Model      string `yaml:"model"`
	OllamaHost string `yaml:"ollama_host"`
}

type Config struct {
	LogFile         string    `yaml:"log_file"`
	DBPath          string    `yaml:"db_path"`
	DataDir         string    `yaml:"data_dir"`
	HistoryLimit    int       `yaml:"history_limit"`
	FetchTimeoutSec int       `yaml:"fetch_timeout_seconds"`
	LLM             LLMConfig `yaml:"llm"`
}

func Default() *Config {
	return &Config{
		LogFile:         "assistant.log",
		DBPath:          "assistant.db",
		DataDir:         "tmp",
		HistoryLimit:    5,
		FetchTimeoutSec: 30,
	}
}

// Load reads the YAML config at path on top of defaults. A missing file is
// not an error; env vars override the LLM section afterwards.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("could not parse config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("could not read config %s: %w", path, err)
		}
	}

	if v := os.Getenv("LLM_BACKEND"); v != "" {
		cfg.LLM.Backend = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("OLLAMA_HOST"); v != "" && cfg.LLM.OllamaHost == "" {
		cfg.LLM.OllamaHost = v
	}

	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 5
	}
	if cfg.FetchTimeoutSec <= 0 {
		cfg.FetchTimeoutSec = 30
	}
	return cfg, nil
}

func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSec) * time.Second
}

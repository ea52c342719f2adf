package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type MemgraphConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

type ModelConfig struct {
	BaseRate   float64 `toml:"base_rate"`
	PriorMin   float64 `toml:"prior_min"`
	PriorMax   float64 `toml:"prior_max"`
	ParentWarn int     `toml:"parent_warn"`
}

type LLMConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
}

type ExtractionConfig struct {
	// Classifier selects the mention tagger: "rules" (default) or "llm".
	Classifier string `toml:"classifier"`
}

type KnowledgeConfig struct {
	Path string `toml:"path"`
}

type ServerConfig struct {
	Port string `toml:"port"`
}

type Config struct {
	LogLevel   string           `toml:"log_level"`
	Memgraph   MemgraphConfig   `toml:"memgraph"`
	Model      ModelConfig      `toml:"model"`
	LLM        LLMConfig        `toml:"llm"`
	Extraction ExtractionConfig `toml:"extraction"`
	Knowledge  KnowledgeConfig  `toml:"knowledge"`
	Server     ServerConfig     `toml:"server"`
}

func Default() *Config {
	return &Config{
		LogLevel: "info",
		Memgraph: MemgraphConfig{URI: "bolt://localhost:7687"},
		Model: ModelConfig{
			BaseRate:   0.8,
			PriorMin:   0.01,
			PriorMax:   0.99,
			ParentWarn: 20,
		},
		Extraction: ExtractionConfig{Classifier: "rules"},
		Knowledge:  KnowledgeConfig{Path: "knowledge.txt"},
		Server:     ServerConfig{Port: "8080"},
	}
}

func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overlays environment variables onto the config, highest
// precedence.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("MEMGRAPH_URI"); v != "" {
		c.Memgraph.URI = v
	}
	if v := os.Getenv("MEMGRAPH_USER"); v != "" {
		c.Memgraph.User = v
	}
	if v := os.Getenv("MEMGRAPH_PASSWORD"); v != "" {
		c.Memgraph.Password = v
	}
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("KNOWLEDGE_PATH"); v != "" {
		c.Knowledge.Path = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

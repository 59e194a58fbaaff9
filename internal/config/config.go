package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type LLMConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
}

type PathsConfig struct {
	Corpus     string `toml:"corpus"`
	WorldsDir  string `toml:"worlds_dir"`
	RefusalLog string `toml:"refusal_log"`
}

// ChainConfig drives the read-side registry client. CastBin is the external
// chain-query binary; its textual output is decoded best-effort.
type ChainConfig struct {
	Enabled         bool   `toml:"enabled"`
	CastBin         string `toml:"cast_bin"`
	RPCURL          string `toml:"rpc_url"`
	RegistryAddress string `toml:"registry_address"`
}

// GraphConfig enables the optional provenance graph index.
type GraphConfig struct {
	Enabled  bool   `toml:"enabled"`
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

type Config struct {
	LLM   LLMConfig   `toml:"llm"`
	Paths PathsConfig `toml:"paths"`
	Chain ChainConfig `toml:"chain"`
	Graph GraphConfig `toml:"graph"`
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider: "claude",
			Model:    "claude-sonnet-4-6",
		},
		Paths: PathsConfig{
			Corpus:     "corpus.json",
			WorldsDir:  "worlds",
			RefusalLog: "evidence/refusal-log.jsonl",
		},
		Chain: ChainConfig{
			CastBin: "cast",
			RPCURL:  "http://localhost:8545",
		},
		Graph: GraphConfig{
			URI: "bolt://localhost:7687",
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return cfg, nil
}

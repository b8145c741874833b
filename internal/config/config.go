package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/atlas-finance/atlas/internal/depreciation"
	"github.com/atlas-finance/atlas/internal/model"
)

// FileName is the config file looked up at a repo root.
const FileName = "atlas.yaml"

// Config represents the top-level atlas.yaml configuration.
type Config struct {
	Business       BusinessConfig       `yaml:"business"`
	Depreciation   DepreciationConfig   `yaml:"depreciation"`
	Classification ClassificationConfig `yaml:"classification"`
	Server         ServerConfig         `yaml:"server"`
	Log            LogConfig            `yaml:"log"`
	Git            GitConfig            `yaml:"git"`
}

// BusinessConfig identifies the business entity.
type BusinessConfig struct {
	Name     string `yaml:"name"`
	Currency string `yaml:"currency"` // ISO 4217, e.g. "XAF"
}

// DepreciationConfig holds schedule defaults applied when neither the caller
// nor the asset class sets them.
type DepreciationConfig struct {
	DefaultMethod string `yaml:"default_method,omitempty"`
	StubPolicy    string `yaml:"stub_policy"`
}

// ClassificationConfig points at the asset class table.
type ClassificationConfig struct {
	File string `yaml:"file"` // relative to the repo root
}

// ServerConfig controls atlas serve.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig controls the logger.
type LogConfig struct {
	Mode string `yaml:"mode"` // "debug" or "release"
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads an atlas.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(businessName, currency string) *Config {
	if currency == "" {
		currency = "XAF"
	}
	return &Config{
		Business: BusinessConfig{
			Name:     businessName,
			Currency: currency,
		},
		Depreciation: DepreciationConfig{
			StubPolicy: string(depreciation.StubClosingComplement),
		},
		Classification: ClassificationConfig{
			File: "accounts/asset-classes.csv",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Log: LogConfig{
			Mode: "release",
		},
		Git: GitConfig{
			AutoCommit:  false,
			AuthorName:  "Atlas",
			AuthorEmail: "atlas@localhost",
		},
	}
}

// Validate rejects unknown methods and stub policies.
func (c *Config) Validate() error {
	if c.Depreciation.DefaultMethod != "" {
		if _, err := model.ParseMethod(c.Depreciation.DefaultMethod); err != nil {
			return fmt.Errorf("config depreciation.default_method: %w", err)
		}
	}
	if _, err := depreciation.ParseStubPolicy(c.Depreciation.StubPolicy); err != nil {
		return fmt.Errorf("config depreciation.stub_policy: %w", err)
	}
	return nil
}

// DefaultMethod returns the configured fallback method, or "" when unset.
func (c *Config) DefaultMethod() model.Method {
	m, err := model.ParseMethod(c.Depreciation.DefaultMethod)
	if err != nil {
		return ""
	}
	return m
}

// StubPolicy returns the configured stub policy.
func (c *Config) StubPolicy() depreciation.StubPolicy {
	p, err := depreciation.ParseStubPolicy(c.Depreciation.StubPolicy)
	if err != nil {
		return depreciation.StubClosingComplement
	}
	return p
}

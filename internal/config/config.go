package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	configPathEnv = "ECLIPSECAST_CONFIG"
	envPrefix     = "ECLIPSECAST_"
)

// Accepted values of results.format.
const (
	// ResultsFormatCSV writes the results table as a CSV file.
	ResultsFormatCSV = "csv"
	// ResultsFormatSQLite writes the results table into a SQLite database.
	ResultsFormatSQLite = "sqlite"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging LoggingConfig `yaml:"logging" envPrefix:"LOG_"`
	Catalog CatalogConfig `yaml:"catalog" envPrefix:"CATALOG_"`
	Sampler SamplerConfig `yaml:"sampler" envPrefix:"SAMPLER_"`
	Batch   BatchConfig   `yaml:"batch" envPrefix:"BATCH_"`
	Results ResultsConfig `yaml:"results" envPrefix:"RESULTS_"`
	Chains  ChainsConfig  `yaml:"chains" envPrefix:"CHAINS_"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"`
}

// CatalogConfig points at the system catalog.
type CatalogConfig struct {
	Path string `yaml:"path" env:"PATH"`
}

// SamplerConfig selects and tunes the posterior sampler.
type SamplerConfig struct {
	Name     string `yaml:"name" env:"NAME"`
	Draws    int    `yaml:"draws" env:"DRAWS"`
	Seed     uint64 `yaml:"seed" env:"SEED"`
	Endpoint string `yaml:"endpoint" env:"ENDPOINT"`
	APIKey   string `yaml:"apiKey" env:"API_KEY"`
}

// BatchConfig defines checkpoint cadence and catalog limits.
type BatchConfig struct {
	CheckpointEvery int `yaml:"checkpointEvery" env:"CHECKPOINT_EVERY"`
	// Limit caps how many catalog systems are considered; 0 means all.
	Limit int `yaml:"limit" env:"LIMIT"`
}

// ResultsConfig describes where the summary table lives.
type ResultsConfig struct {
	Format string `yaml:"format" env:"FORMAT"`
	Path   string `yaml:"path" env:"PATH"`
}

// ChainsConfig describes the chain archive.
type ChainsConfig struct {
	Path        string `yaml:"path" env:"PATH"`
	Compression string `yaml:"compression" env:"COMPRESSION"`
}

// Load applies defaults, then the YAML file at path (or $ECLIPSECAST_CONFIG
// when path is empty), then ECLIPSECAST_* environment overrides.
func Load(path string) (Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: envPrefix}); err != nil {
		return Config{}, fmt.Errorf("config: environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the batch cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Sampler.Draws <= 0 {
		errs = append(errs, fmt.Errorf("sampler.draws must be positive, got %d", c.Sampler.Draws))
	}
	if c.Batch.CheckpointEvery <= 0 {
		errs = append(errs, fmt.Errorf("batch.checkpointEvery must be positive, got %d", c.Batch.CheckpointEvery))
	}
	if c.Batch.Limit < 0 {
		errs = append(errs, fmt.Errorf("batch.limit must not be negative, got %d", c.Batch.Limit))
	}
	switch c.Results.Format {
	case ResultsFormatCSV, ResultsFormatSQLite:
	default:
		errs = append(errs, fmt.Errorf("results.format must be %q or %q, got %q", ResultsFormatCSV, ResultsFormatSQLite, c.Results.Format))
	}
	if c.Results.Path == "" {
		errs = append(errs, errors.New("results.path is required"))
	}
	if c.Chains.Path == "" {
		errs = append(errs, errors.New("chains.path is required"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Catalog: CatalogConfig{Path: "data/catalog.csv"},
		Sampler: SamplerConfig{Name: "catalog", Draws: 10000, Seed: 1},
		Batch:   BatchConfig{CheckpointEvery: 50},
		Results: ResultsConfig{Format: ResultsFormatCSV, Path: "results/eclipse_results.csv"},
		Chains:  ChainsConfig{Path: "results/eclipse_chains.cbor.zst", Compression: "default"},
	}
}

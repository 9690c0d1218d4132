package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"fileranker/internal/scorer"
	"fileranker/internal/storage"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Scoring struct {
		Weights       scorer.Weights `yaml:"weights" toml:"weights"`
		LineTolerance int            `yaml:"line_tolerance" toml:"line_tolerance"`
		MinConfidence float64        `yaml:"min_confidence" toml:"min_confidence"`
	} `yaml:"scoring" toml:"scoring"`
	Extraction struct {
		Workers              int  `yaml:"workers" toml:"workers"`
		TolerateSyntaxErrors bool `yaml:"tolerate_syntax_errors" toml:"tolerate_syntax_errors"`
	} `yaml:"extraction" toml:"extraction"`
	Crawler struct {
		Include []string `yaml:"include" toml:"include"`
		Exclude []string `yaml:"exclude" toml:"exclude"`
	} `yaml:"crawler" toml:"crawler"`
	Cache struct {
		Driver string `yaml:"driver" toml:"driver"` // sqlite, bolt or none
		Path   string `yaml:"path" toml:"path"`
	} `yaml:"cache" toml:"cache"`
	Log struct {
		Level  string `yaml:"level" toml:"level"`
		Format string `yaml:"format" toml:"format"` // text or json
	} `yaml:"log" toml:"log"`
}

// Default returns the built-in configuration.
func Default() *Config {
	var cfg Config
	cfg.Scoring.Weights = scorer.DefaultWeights()
	cfg.Scoring.LineTolerance = 1
	cfg.Scoring.MinConfidence = 0.15
	cfg.Crawler.Include = []string{"**/*.kt"}
	cfg.Cache.Driver = storage.DriverNone
	cfg.Log.Level = "warn"
	cfg.Log.Format = "text"
	return &cfg
}

// LoadConfig layers defaults, the config file and FILERANKER_* environment variables.
// An empty path or a missing file leaves the defaults in place.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := Default()

	// 2. Load YAML or TOML config
	if path != "" {
		file, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, err
		default:
			if err := decode(path, file, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", path, err)
			}
		}
	}

	// 3. Override with Environment Variables if present
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		_, err := toml.Decode(string(data), cfg)
		return err
	default:
		return yaml.Unmarshal(data, cfg)
	}
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("FILERANKER_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("FILERANKER_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("FILERANKER_CACHE_DRIVER"); v != "" {
		cfg.Cache.Driver = v
	}
	if v := os.Getenv("FILERANKER_CACHE_PATH"); v != "" {
		cfg.Cache.Path = v
	}
	if v := os.Getenv("FILERANKER_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("FILERANKER_WORKERS: %w", err)
		}
		cfg.Extraction.Workers = n
	}
	if v := os.Getenv("FILERANKER_MIN_CONFIDENCE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("FILERANKER_MIN_CONFIDENCE: %w", err)
		}
		cfg.Scoring.MinConfidence = f
	}
	return nil
}

func (c *Config) Validate() error {
	if err := c.Scoring.Weights.Validate(); err != nil {
		return fmt.Errorf("scoring.weights: %w", err)
	}
	if c.Scoring.LineTolerance < 0 {
		return fmt.Errorf("scoring.line_tolerance must not be negative, got %d", c.Scoring.LineTolerance)
	}
	if !(c.Scoring.MinConfidence > 0 && c.Scoring.MinConfidence < 1) {
		return fmt.Errorf("scoring.min_confidence must be in (0, 1), got %v", c.Scoring.MinConfidence)
	}
	switch c.Cache.Driver {
	case storage.DriverNone, "":
	case storage.DriverSQLite, storage.DriverBolt:
		if c.Cache.Path == "" {
			return fmt.Errorf("cache.path is required for driver %q", c.Cache.Driver)
		}
	default:
		return fmt.Errorf("unknown cache.driver %q", c.Cache.Driver)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log.format %q", c.Log.Format)
	}
	return nil
}

// ScorerOptions maps the scoring section onto scorer options.
func (c *Config) ScorerOptions() scorer.Options {
	return scorer.Options{
		Weights:       c.Scoring.Weights,
		LineTolerance: c.Scoring.LineTolerance,
	}
}

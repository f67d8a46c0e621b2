package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/NatashaRy/house-price-predictor/pkg/pipeline"
)

// Config holds all heritage dashboard configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Data     DataConfig     `yaml:"data"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string `yaml:"addr"`
	ReadTimeout     string `yaml:"read_timeout"`
	WriteTimeout    string `yaml:"write_timeout"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
	Compression     bool   `yaml:"compression"` // brotli when the client accepts it
}

// DataConfig points at the input tables.
type DataConfig struct {
	Reference string   `yaml:"reference"` // historical records, CSV or XLSX
	Inherited string   `yaml:"inherited"`
	Train     string   `yaml:"train"` // optional, for the performance page
	Test      string   `yaml:"test"`
	Target    string   `yaml:"target"`
	Missing   []string `yaml:"missing"`
	// Quality features fall back to "TA" when the reference has no mode.
	QualityFeatures []string `yaml:"quality_features"`
}

// PipelineConfig locates the trained pipeline artifact.
type PipelineConfig struct {
	Root    string `yaml:"root"`
	Version string `yaml:"version"`
	Path    string `yaml:"path"` // overrides root/version when set
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// DefaultConfig returns the settings used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     "15s",
			WriteTimeout:    "30s",
			ShutdownTimeout: "10s",
			Compression:     true,
		},
		Data: DataConfig{
			Reference: filepath.Join("inputs", "datasets", "raw", "house_prices_records.csv"),
			Inherited: filepath.Join("inputs", "datasets", "raw", "inherited_houses.csv"),
			Target:    "SalePrice",
		},
		Pipeline: PipelineConfig{
			Root:    ".",
			Version: "v1",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads a YAML file over the defaults. A missing file is not an error.
// Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("HERITAGE_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("HERITAGE_PIPELINE"); v != "" {
		c.Pipeline.Path = v
	}
	if v := os.Getenv("HERITAGE_REFERENCE"); v != "" {
		c.Data.Reference = v
	}
	if v := os.Getenv("HERITAGE_INHERITED"); v != "" {
		c.Data.Inherited = v
	}
	if v := os.Getenv("HERITAGE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// PipelinePath is the artifact location.
func (c *Config) PipelinePath() string {
	if c.Pipeline.Path != "" {
		return c.Pipeline.Path
	}
	return pipeline.ArtifactPath(c.Pipeline.Root, c.Pipeline.Version)
}

// GetReadTimeout parses Server.ReadTimeout, falling back to 15s.
func (c *Config) GetReadTimeout() time.Duration {
	return parseDuration(c.Server.ReadTimeout, 15*time.Second)
}

func (c *Config) GetWriteTimeout() time.Duration {
	return parseDuration(c.Server.WriteTimeout, 30*time.Second)
}

func (c *Config) GetShutdownTimeout() time.Duration {
	return parseDuration(c.Server.ShutdownTimeout, 10*time.Second)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

var validLevels = []string{"debug", "info", "warn", "error"}

// Validate checks the settings every command needs.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Data.Reference) == "" {
		return fmt.Errorf("data.reference is required")
	}
	if strings.TrimSpace(c.Data.Target) == "" {
		return fmt.Errorf("data.target is required")
	}
	if c.Pipeline.Path == "" && c.Pipeline.Version == "" {
		return fmt.Errorf("pipeline.version or pipeline.path is required")
	}
	for _, d := range []struct{ name, value string }{
		{"server.read_timeout", c.Server.ReadTimeout},
		{"server.write_timeout", c.Server.WriteTimeout},
		{"server.shutdown_timeout", c.Server.ShutdownTimeout},
	} {
		if d.value == "" {
			continue
		}
		if _, err := time.ParseDuration(d.value); err != nil {
			return fmt.Errorf("invalid %s %q: %w", d.name, d.value, err)
		}
	}

	valid := false
	for _, l := range validLevels {
		if c.Logging.Level == l {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid logging level: %s (valid: %v)", c.Logging.Level, validLevels)
	}
	switch c.Logging.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("invalid logging format: %s", c.Logging.Format)
	}
	return nil
}

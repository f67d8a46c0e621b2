package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "SalePrice", cfg.Data.Target)
	assert.Equal(t,
		filepath.Join(".", "outputs", "ml_pipeline", "predict_price", "v1", "regression_pipeline.gob"),
		cfg.PipelinePath())
	assert.Equal(t, 15*time.Second, cfg.GetReadTimeout())
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Server, cfg.Server)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heritage.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9090"
  read_timeout: 5s
data:
  reference: ref.xlsx
  quality_features: [KitchenQual]
pipeline:
  version: v4
logging:
  level: debug
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.GetReadTimeout())
	assert.Equal(t, 30*time.Second, cfg.GetWriteTimeout(), "unset keys keep defaults")
	assert.Equal(t, "ref.xlsx", cfg.Data.Reference)
	assert.Equal(t, "SalePrice", cfg.Data.Target)
	assert.Equal(t, []string{"KitchenQual"}, cfg.Data.QualityFeatures)
	assert.Contains(t, cfg.PipelinePath(), filepath.Join("v4", "regression_pipeline.gob"))
	assert.NoError(t, cfg.Validate())
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unterminated"), 0644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("HERITAGE_ADDR", "127.0.0.1:7000")
	t.Setenv("HERITAGE_PIPELINE", "/srv/pipeline.gob")
	t.Setenv("HERITAGE_REFERENCE", "/srv/ref.csv")
	t.Setenv("HERITAGE_INHERITED", "/srv/inherited.csv")
	t.Setenv("HERITAGE_LOG_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7000", cfg.Server.Addr)
	assert.Equal(t, "/srv/pipeline.gob", cfg.PipelinePath())
	assert.Equal(t, "/srv/ref.csv", cfg.Data.Reference)
	assert.Equal(t, "/srv/inherited.csv", cfg.Data.Inherited)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no reference", func(c *Config) { c.Data.Reference = "" }},
		{"no target", func(c *Config) { c.Data.Target = " " }},
		{"no pipeline", func(c *Config) { c.Pipeline.Version = "" }},
		{"bad duration", func(c *Config) { c.Server.WriteTimeout = "soon" }},
		{"bad level", func(c *Config) { c.Logging.Level = "trace" }},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "heritage.yaml")
	cfg := DefaultConfig()
	cfg.Server.Addr = ":1234"
	require.NoError(t, cfg.Save(path))

	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":1234", back.Server.Addr)
}

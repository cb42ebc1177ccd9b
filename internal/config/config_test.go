package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "fastembed", cfg.Embeddings.Provider)
	assert.Equal(t, "sentence-transformers/all-MiniLM-L6-v2", cfg.Embeddings.Model)
	assert.Equal(t, 30*time.Second, cfg.Embeddings.Timeout)
	assert.Equal(t, 100*time.Millisecond, cfg.Embeddings.RequestInterval)
	assert.Equal(t, "data/newsmatch", cfg.Index.SnapshotPath)
	assert.Equal(t, 512, cfg.Index.ChunkBudget)
	assert.Equal(t, 2, cfg.Index.OverfetchFactor)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
embeddings:
  provider: tei
  base_url: http://tei.internal:8080
  request_interval: 250ms
index:
  chunk_budget: 256
server:
  port: 8080
logging:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "tei", cfg.Embeddings.Provider)
	assert.Equal(t, "http://tei.internal:8080", cfg.Embeddings.BaseURL)
	assert.Equal(t, 250*time.Millisecond, cfg.Embeddings.RequestInterval)
	assert.Equal(t, 256, cfg.Index.ChunkBudget)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Defaults still apply to unset fields.
	assert.Equal(t, "data/newsmatch", cfg.Index.SnapshotPath)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 8080\n"), 0o600))

	t.Setenv("NEWSMATCH_SERVER_PORT", "9999")
	t.Setenv("NEWSMATCH_INDEX_SNAPSHOT_PATH", "/tmp/idx")
	t.Setenv("NEWSMATCH_LOGGING_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "/tmp/idx", cfg.Index.SnapshotPath)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "fastembed", cfg.Embeddings.Provider)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "bad provider",
			mutate:  func(c *Config) { c.Embeddings.Provider = "openai" },
			wantErr: true,
		},
		{
			name:    "tei without base url",
			mutate:  func(c *Config) { c.Embeddings.Provider = "tei" },
			wantErr: true,
		},
		{
			name: "tei with base url",
			mutate: func(c *Config) {
				c.Embeddings.Provider = "tei"
				c.Embeddings.BaseURL = "http://localhost:8080"
			},
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: true,
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "loud" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg Config
			applyDefaults(&cfg)
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

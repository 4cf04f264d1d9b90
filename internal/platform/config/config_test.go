package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("GRANTNET_CACHE_BACKEND", "")
	t.Setenv("GRANTNET_ANALYSIS_FILE", "")
	t.Setenv("KAFKA_BROKERS", "")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, CacheMemory, cfg.Cache.Backend)
	assert.Equal(t, DefaultAnalysis(), cfg.Analysis)
	assert.Empty(t, cfg.Kafka.Brokers)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("GRANTNET_ADDR", ":9090")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("GRANTNET_WORKERS", "3")
	t.Setenv("GRANTNET_FUNDER_TIMEOUT", "2s")
	t.Setenv("GRANTNET_CACHE_BACKEND", CacheNone)
	t.Setenv("GRANTNET_ANALYSIS_FILE", "")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 3, cfg.Analysis.Workers)
	assert.Equal(t, 2*time.Second, cfg.Analysis.FunderTimeout)
}

func TestAnalysisFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analysis.yaml")
	require.NoError(t, os.WriteFile(path, []byte("funder_timeout: 750ms\noverlap_threshold: 0.5\nmax_keywords: 5\n"), 0o600))

	t.Run("file overrides analysis settings", func(t *testing.T) {
		t.Setenv("GRANTNET_CACHE_BACKEND", CacheNone)
		t.Setenv("GRANTNET_ANALYSIS_FILE", path)
		cfg, err := FromEnv()
		require.NoError(t, err)
		assert.Equal(t, 750*time.Millisecond, cfg.Analysis.FunderTimeout)
		assert.Equal(t, 0.5, cfg.Analysis.OverlapThreshold)
		assert.Equal(t, 5, cfg.Analysis.MaxKeywords)
		assert.Equal(t, 4, cfg.Analysis.MinKeywordLength)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		t.Setenv("GRANTNET_ANALYSIS_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
		_, err := FromEnv()
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	valid := Config{Cache: Cache{Backend: CacheMemory}, Analysis: DefaultAnalysis()}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown cache backend", func(c *Config) { c.Cache.Backend = "memcached" }},
		{"redis backend without url", func(c *Config) { c.Cache.Backend = CacheRedis }},
		{"postgres backend without url", func(c *Config) { c.Cache.Backend = CachePostgres }},
		{"zero workers", func(c *Config) { c.Analysis.Workers = 0 }},
		{"threshold of one", func(c *Config) { c.Analysis.OverlapThreshold = 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

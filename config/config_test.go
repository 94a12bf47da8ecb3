package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CI", "ENV", "ENV_FILE", "SERVER_PORT", "DATASET_SOURCE", "DATASET_PATH", "DB_DRIVER",
		"DB_PASSWORD", "REDIS_PASSWORD", "RATE_LIMIT", "RATE_LIMIT_WINDOW", "CACHE_TTL",
		"ANALYTICS_CONFIG", "S3_BUCKET_NAME", "S3_ENDPOINT", "S3_USE_PATH_STYLE", "CORS_ORIGINS", "DEBUG",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Setenv("SECRETS_DIR", t.TempDir())
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
}

func TestLoadConfigWithDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, SourceFile, cfg.DatasetSource)
	assert.Equal(t, "data/All_Diets.csv", cfg.DatasetPath)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, 120, cfg.RateLimit)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, 20, cfg.Analytics.DefaultPageSize)
	assert.Equal(t, 500, cfg.Analytics.ScatterSampleSize)
	assert.True(t, cfg.Analytics.Clustering.StandardizeEnabled())
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DATASET_SOURCE", "S3")
	t.Setenv("S3_BUCKET_NAME", "diets")
	t.Setenv("S3_ENDPOINT", "http://localhost:9000")
	t.Setenv("CORS_ORIGINS", "http://localhost:5173, http://frontend:5173")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, SourceS3, cfg.DatasetSource)
	assert.True(t, cfg.S3UsePathStyle)
	assert.Equal(t, []string{"http://localhost:5173", "http://frontend:5173"}, cfg.CORSOrigins)
	assert.Equal(t, 30*time.Second, cfg.RateLimitWindow)
}

func TestLoadConfigDotEnvAndSecrets(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("SERVER_PORT=7070\nDEBUG=true\n"), 0o600))
	t.Setenv("ENV_FILE", envFile)
	t.Cleanup(func() {
		os.Unsetenv("SERVER_PORT")
		os.Unsetenv("DEBUG")
	})

	secrets := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(secrets, "db_password"), []byte("s3cret\n"), 0o600))
	t.Setenv("SECRETS_DIR", secrets)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.ServerPort)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "s3cret", cfg.DBPassword)
}

func TestLoadConfigInvalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("RATE_LIMIT", "lots")
	_, err := LoadConfig()
	assert.Error(t, err)

	clearEnv(t)
	t.Setenv("DATASET_SOURCE", "ftp")
	_, err = LoadConfig()
	assert.ErrorContains(t, err, "unknown source")

	clearEnv(t)
	t.Setenv("DATASET_SOURCE", "s3")
	_, err = LoadConfig()
	assert.ErrorContains(t, err, "S3_BUCKET_NAME")
}

func TestProductionRequiresSource(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV", "production")
	_, err := LoadConfig()
	assert.ErrorContains(t, err, "DATASET_SOURCE")
}

func TestLoadAnalyticsConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analytics.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
default_page_size: 50
scatter_sample_size: 200
clustering:
  default_k: 4
  standardize: false
`), 0o600))

	cfg, err := LoadAnalyticsConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.DefaultPageSize)
	assert.Equal(t, 100, cfg.MaxPageSize)
	assert.Equal(t, 200, cfg.ScatterSampleSize)
	assert.Equal(t, 4, cfg.Clustering.DefaultK)
	assert.False(t, cfg.Clustering.StandardizeEnabled())
	assert.NoError(t, cfg.Validate())

	missing, err := LoadAnalyticsConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 20, missing.DefaultPageSize)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("default_page_size: [1"), 0o600))
	_, err = LoadAnalyticsConfig(bad)
	assert.Error(t, err)
}

func TestAnalyticsConfigValidate(t *testing.T) {
	cfg := AnalyticsConfig{DefaultPageSize: 30, MaxPageSize: 10}
	cfg.ApplyDefaults()
	assert.Error(t, cfg.Validate())

	cfg = AnalyticsConfig{Clustering: ClusteringConfig{DefaultK: 12}}
	cfg.ApplyDefaults()
	assert.Error(t, cfg.Validate())
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "s3cret")

	path := writeConfig(t, `
database:
  host: localhost
  port: 5432
  user: jobradar
  password: ${TEST_DB_PASSWORD}
  dbname: jobradar
  sslmode: disable
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Contains(t, cfg.Database.DSN(), "password=s3cret")
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  host: localhost
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "jobradar", cfg.RabbitMQ.Exchange)
	assert.Equal(t, "jobs", cfg.RabbitMQ.RoutingKey)
	assert.Equal(t, 10, cfg.Scrape.PageSize)
	assert.Equal(t, 30*time.Second, cfg.Scrape.HTTPTimeout)
	assert.Equal(t, 0.7, cfg.Pipeline.SimilarityThreshold)
	assert.Equal(t, 2, cfg.Orchestration.MaxConcurrentTasks)
	assert.Equal(t, "@every 6h", cfg.Schedule.Spec)
	assert.Equal(t, []string{"linkedin", "indeed"}, cfg.Schedule.Sites)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_ExplicitValuesSurviveDefaults(t *testing.T) {
	path := writeConfig(t, `
scrape:
  max_pages: 3
orchestration:
  max_concurrent_tasks: 5
schedule:
  search_terms:
    - "site reliability engineer"
log_level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Scrape.MaxPages)
	assert.Equal(t, 5, cfg.Orchestration.MaxConcurrentTasks)
	assert.Equal(t, []string{"site reliability engineer"}, cfg.Schedule.SearchTerms)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "database: [not a mapping")
	_, err := Load(path)
	assert.Error(t, err)
}

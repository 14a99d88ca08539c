package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseYAML = `
app:
  name: business-idea-workers
  environment: test
camunda:
  broker_address: localhost:26500
database:
  redis:
    address: localhost:6379
  elasticsearch:
    addresses:
      - http://localhost:9200
catalog:
  source: file
  path: configs/catalog.yaml
workers:
  generate-ideas:
    enabled: true
    cache_ttl: 2m
  search-ideas:
    enabled: true
    max_jobs_active: 20
notifications:
  email:
    enabled: true
    from_email: ideas@example.com
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFile(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, baseYAML))
	require.NoError(t, err)

	assert.Equal(t, "localhost:26500", cfg.Camunda.BrokerAddress)
	assert.Equal(t, CatalogSourceFile, cfg.Catalog.Source)
	assert.Equal(t, []string{"http://localhost:9200"}, cfg.Database.Elasticsearch.Addresses)

	gen := GetWorkerConfig(cfg, "generate-ideas")
	assert.True(t, gen.Enabled)
	assert.Equal(t, 2*time.Minute, gen.CacheTTL)
	assert.Equal(t, 5, gen.MaxJobsActive)

	search := GetWorkerConfig(cfg, "search-ideas")
	assert.Equal(t, 20, search.MaxJobsActive)
	assert.Equal(t, DefaultCacheTTL, search.CacheTTL)
}

func TestLoadFromFile_Defaults(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, baseYAML))
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Camunda.MaxJobsActive)
	assert.Equal(t, 30000, cfg.Camunda.Timeout)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, DefaultCatalogIdx, cfg.Catalog.Index)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadFromFile_ExpandsEnv(t *testing.T) {
	t.Setenv("TEST_REDIS_ADDR", "redis.internal:6380")

	content := `
camunda:
  broker_address: zeebe:26500
database:
  redis:
    address: ${TEST_REDIS_ADDR}
workers:
  search-ideas:
    enabled: false
`
	cfg, err := LoadFromFile(writeConfig(t, content))
	require.NoError(t, err)
	assert.Equal(t, "redis.internal:6380", cfg.Database.Redis.Address)
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing broker",
			content: "database:\n  redis:\n    address: r:6379\n",
			wantErr: "camunda.broker_address",
		},
		{
			name:    "missing redis",
			content: "camunda:\n  broker_address: z:26500\n",
			wantErr: "database.redis.address",
		},
		{
			name: "unknown catalog source",
			content: `
camunda: {broker_address: "z:26500"}
database: {redis: {address: "r:6379"}}
catalog: {source: s3}
workers: {search-ideas: {enabled: false}}
`,
			wantErr: "catalog.source",
		},
		{
			name: "postgres catalog without host",
			content: `
camunda: {broker_address: "z:26500"}
database: {redis: {address: "r:6379"}}
catalog: {source: postgres}
workers: {search-ideas: {enabled: false}}
`,
			wantErr: "catalog.source=postgres",
		},
		{
			name: "search enabled without elasticsearch",
			content: `
camunda: {broker_address: "z:26500"}
database: {redis: {address: "r:6379"}}
`,
			wantErr: "database.elasticsearch.addresses",
		},
		{
			name: "email without sender",
			content: `
camunda: {broker_address: "z:26500"}
database: {redis: {address: "r:6379"}}
workers: {search-ideas: {enabled: false}}
notifications: {email: {enabled: true}}
`,
			wantErr: "from_email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestWorkerHelpers(t *testing.T) {
	cfg := &Config{Workers: map[string]WorkerConfig{
		"refine-results": {Enabled: false},
	}}

	assert.False(t, IsWorkerEnabled(cfg, "refine-results"))
	assert.True(t, IsWorkerEnabled(cfg, "generate-ideas"))

	def := GetWorkerConfig(cfg, "generate-ideas")
	assert.True(t, def.Enabled)
	assert.Equal(t, 3, def.MaxRetries)
	assert.Equal(t, 30*time.Second, GetDuration(def.Timeout))
}

func TestPostgresDSN(t *testing.T) {
	pg := PostgresConfig{Host: "db", Port: 5432, User: "ideas", Password: "secret", Database: "ideas", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=ideas password=secret dbname=ideas sslmode=disable", pg.GetDSN())
}

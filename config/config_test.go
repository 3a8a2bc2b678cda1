package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnkhanh/grade-explorer/models"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "datasets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDatasets(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("DB_HOST", "")

	path := writeConfig(t, `
data_dir: ./public/data
refresh_interval: 5m
datasets:
  - name: sem7
    title: Semester 7
    source: semester7.json
  - name: electives
    source: https://example.org/electives.json
    field_map:
      category: [type]
    features:
      no_category_filter: true
      missing: first
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port, "environment wins over defaults")
	assert.Equal(t, "./public/data", cfg.DataDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	assert.False(t, cfg.DB.Enabled())
	assert.Equal(t, "uploads", cfg.Supabase.Bucket)
	assert.Equal(t, 5*time.Minute, cfg.RefreshInterval)

	require.Len(t, cfg.Datasets, 2)
	assert.Equal(t, "Semester 7", cfg.Datasets[0].Title)
	assert.False(t, cfg.Datasets[0].Features.NoSearch)
	assert.Equal(t, []string{"type"}, cfg.Datasets[1].FieldMap.Category)
	assert.True(t, cfg.Datasets[1].Features.NoCategoryFilter)
	assert.Equal(t, models.MissingFirst, cfg.Datasets[1].Features.Missing)
}

func TestLoadRejectsBadDatasets(t *testing.T) {
	t.Chdir(t.TempDir())

	tests := map[string]string{
		"no name":   "datasets:\n  - source: a.json\n",
		"no source": "datasets:\n  - name: a\n",
		"duplicate": "datasets:\n  - {name: a, source: a.json}\n  - {name: a, source: b.json}\n",
		"missing":   "datasets:\n  - {name: a, source: a.json, features: {missing: middle}}\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestCORSOriginsFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestDBConfig(t *testing.T) {
	c := DBConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "grades", TimeZone: "UTC"}
	assert.True(t, c.Enabled())
	assert.Equal(t, "host=db user=u password=p dbname=grades port=5432 sslmode=disable TimeZone=UTC", c.DSN())

	_, err := InitDB(DBConfig{})
	assert.ErrorIs(t, err, ErrNoDatabase)
}

func TestNewLogger(t *testing.T) {
	log, err := NewLogger("debug")
	require.NoError(t, err)
	assert.NotNil(t, log)

	_, err = NewLogger("loud")
	assert.Error(t, err)
}

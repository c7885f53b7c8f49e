package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
storage:
  backend: redis
  redis:
    addr: "redis.local:6380"
    db: 2
    prefix: "runs:"
geolocation:
  provider: static
  timeout: 2s
  static:
    lat: 39.568
    lng: 2.6835
map:
  zoom: 15
log:
  level: debug
  json: true
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644))
	return dir
}

func TestNewWithoutFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := New(dir)
	require.NoError(t, err)

	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, filepath.Join(dir, "storage"), cfg.Storage.Path)
	assert.Equal(t, ProviderIPInfo, cfg.Geolocation.Provider)
	assert.Equal(t, 5*time.Second, cfg.Geolocation.Timeout)
	assert.Equal(t, 13, cfg.Map.Zoom)
	assert.Equal(t, filepath.Join(dir, "mapty.log"), cfg.Log.File)
	assert.Equal(t, filepath.Join(dir, "journal"), cfg.Journal.Dir)
}

func TestNewRequiresDataDir(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)
}

func TestNewReadsYAML(t *testing.T) {
	dir := writeConfig(t, validYAML)
	cfg, err := New(dir)
	require.NoError(t, err)

	assert.Equal(t, BackendRedis, cfg.Storage.Backend)
	assert.Equal(t, "redis.local:6380", cfg.Storage.Redis.Addr)
	assert.Equal(t, 2, cfg.Storage.Redis.DB)
	assert.Equal(t, "runs:", cfg.Storage.Redis.Prefix)
	assert.Equal(t, ProviderStatic, cfg.Geolocation.Provider)
	assert.Equal(t, 2*time.Second, cfg.Geolocation.Timeout)
	assert.InDelta(t, 39.568, cfg.Geolocation.Static.Lat, 1e-9)
	assert.Equal(t, 15, cfg.Map.Zoom)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.JSON)
}

func TestSQLiteBackendDefaultsToDBFile(t *testing.T) {
	dir := writeConfig(t, "storage:\n  backend: sqlite\n")
	cfg, err := New(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "mapty.db"), cfg.Storage.Path)
}

func TestEnvOverride(t *testing.T) {
	dir := writeConfig(t, validYAML)
	t.Setenv("MAPTY_STORAGE_BACKEND", "sqlite")
	t.Setenv("MAPTY_GEO_LAT", "10")
	t.Setenv("MAPTY_GEO_LNG", "-20.5")
	t.Setenv("MAPTY_MAP_ZOOM", "12")
	t.Setenv("MAPTY_LOG_FILE", "-")

	cfg, err := New(dir)
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, 10.0, cfg.Geolocation.Static.Lat)
	assert.Equal(t, -20.5, cfg.Geolocation.Static.Lng)
	assert.Equal(t, 12, cfg.Map.Zoom)
	assert.Equal(t, "-", cfg.Log.File)
}

func TestValidation(t *testing.T) {
	cases := map[string]string{
		"unknown backend":  "storage:\n  backend: s3\n",
		"unknown provider": "geolocation:\n  provider: gps\n",
		"static range":     "geolocation:\n  provider: static\n  static:\n    lat: 91\n",
		"zoom range":       "map:\n  zoom: 30\n",
		"bad yaml":         "storage: [",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := New(writeConfig(t, content))
			assert.Error(t, err)
		})
	}
}

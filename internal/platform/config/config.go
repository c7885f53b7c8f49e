package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const FileName = "config.yaml"

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"

	ProviderIPInfo = "ipinfo"
	ProviderStatic = "static"
)

type Config struct {
	DataDir     string            `yaml:"-"`
	Storage     StorageConfig     `yaml:"storage"`
	Geolocation GeolocationConfig `yaml:"geolocation"`
	Map         MapConfig         `yaml:"map"`
	Log         LogConfig         `yaml:"log"`
	Journal     JournalConfig     `yaml:"journal"`
}

type StorageConfig struct {
	Backend string      `yaml:"backend"`
	Path    string      `yaml:"path"`
	Redis   RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

type GeolocationConfig struct {
	Provider    string        `yaml:"provider"`
	IPInfoToken string        `yaml:"ipinfo_token"`
	Timeout     time.Duration `yaml:"timeout"`
	Static      PointConfig   `yaml:"static"`
}

type PointConfig struct {
	Lat float64 `yaml:"lat"`
	Lng float64 `yaml:"lng"`
}

type MapConfig struct {
	Zoom int `yaml:"zoom"`
}

type LogConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

type JournalConfig struct {
	Dir string `yaml:"dir"`
}

// New builds the config for dataDir: defaults, then <dataDir>/config.yaml when
// present, then environment overrides.
// Env vars: MAPTY_STORAGE_BACKEND, MAPTY_STORAGE_PATH, MAPTY_REDIS_ADDR,
// MAPTY_REDIS_PASSWORD, MAPTY_REDIS_DB, MAPTY_REDIS_PREFIX,
// MAPTY_GEO_PROVIDER, MAPTY_IPINFO_TOKEN, MAPTY_GEO_LAT, MAPTY_GEO_LNG,
// MAPTY_MAP_ZOOM, MAPTY_LOG_FILE, MAPTY_LOG_LEVEL, MAPTY_JOURNAL_DIR
func New(dataDir string) (Config, error) {
	if dataDir == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	cfg := defaults(dataDir)

	data, err := os.ReadFile(filepath.Join(dataDir, FileName))
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	cfg.resolvePaths()

	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func defaults(dataDir string) Config {
	return Config{
		DataDir: dataDir,
		Storage: StorageConfig{
			Backend: BackendFile,
			Redis:   RedisConfig{Addr: "localhost:6379", Prefix: "mapty:"},
		},
		Geolocation: GeolocationConfig{Provider: ProviderIPInfo, Timeout: 5 * time.Second},
		Map:         MapConfig{Zoom: 13},
		Log:         LogConfig{File: "mapty.log", Level: "info"},
		Journal:     JournalConfig{Dir: "journal"},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MAPTY_STORAGE_BACKEND"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv("MAPTY_STORAGE_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("MAPTY_REDIS_ADDR"); v != "" {
		cfg.Storage.Redis.Addr = v
	}
	if v := os.Getenv("MAPTY_REDIS_PASSWORD"); v != "" {
		cfg.Storage.Redis.Password = v
	}
	if v := os.Getenv("MAPTY_REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.Storage.Redis.DB = db
		}
	}
	if v := os.Getenv("MAPTY_REDIS_PREFIX"); v != "" {
		cfg.Storage.Redis.Prefix = v
	}
	if v := os.Getenv("MAPTY_GEO_PROVIDER"); v != "" {
		cfg.Geolocation.Provider = v
	}
	if v := os.Getenv("MAPTY_IPINFO_TOKEN"); v != "" {
		cfg.Geolocation.IPInfoToken = v
	}
	if v := os.Getenv("MAPTY_GEO_LAT"); v != "" {
		if lat, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Geolocation.Static.Lat = lat
		}
	}
	if v := os.Getenv("MAPTY_GEO_LNG"); v != "" {
		if lng, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Geolocation.Static.Lng = lng
		}
	}
	if v := os.Getenv("MAPTY_MAP_ZOOM"); v != "" {
		if zoom, err := strconv.Atoi(v); err == nil {
			cfg.Map.Zoom = zoom
		}
	}
	if v := os.Getenv("MAPTY_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("MAPTY_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("MAPTY_JOURNAL_DIR"); v != "" {
		cfg.Journal.Dir = v
	}
}

// resolvePaths anchors relative paths at the data dir. "-" keeps logs on stderr.
func (c *Config) resolvePaths() {
	if c.Storage.Path == "" {
		switch c.Storage.Backend {
		case BackendSQLite:
			c.Storage.Path = "mapty.db"
		default:
			c.Storage.Path = "storage"
		}
	}
	c.Storage.Path = c.abs(c.Storage.Path)
	if c.Log.File != "-" {
		c.Log.File = c.abs(c.Log.File)
	}
	c.Journal.Dir = c.abs(c.Journal.Dir)
}

func (c *Config) abs(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.DataDir, path)
}

func (c *Config) validate() error {
	switch c.Storage.Backend {
	case BackendFile, BackendSQLite:
	case BackendRedis:
		if c.Storage.Redis.Addr == "" {
			return fmt.Errorf("storage.redis.addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("storage.backend %q is not one of file|sqlite|redis", c.Storage.Backend)
	}
	switch c.Geolocation.Provider {
	case ProviderIPInfo:
	case ProviderStatic:
		p := c.Geolocation.Static
		if p.Lat < -90 || p.Lat > 90 || p.Lng < -180 || p.Lng > 180 {
			return fmt.Errorf("geolocation.static is out of range: %v,%v", p.Lat, p.Lng)
		}
	default:
		return fmt.Errorf("geolocation.provider %q is not one of ipinfo|static", c.Geolocation.Provider)
	}
	if c.Geolocation.Timeout <= 0 {
		return fmt.Errorf("geolocation.timeout must be positive")
	}
	if c.Map.Zoom < 1 || c.Map.Zoom > 18 {
		return fmt.Errorf("map.zoom must be within 1..18, got %d", c.Map.Zoom)
	}
	return nil
}

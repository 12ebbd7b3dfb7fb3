package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Backend names accepted by STORAGE_BACKEND.
const (
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
	BackendFile     = "file"
)

type Config struct {
	Env      string
	LogLevel string
	Port     int

	StorageBackend string
	DatabaseURL    string
	DatabaseName   string
	PostgresDSN    string
	UsersFile      string
	SessionsFile   string
	EventsFile     string

	RedisURL             string
	ActivityRateLimitMin int
}

// configFile mirrors the optional YAML schema. Values here sit between the
// built-in defaults and environment overrides.
type configFile struct {
	Server struct {
		Port     int    `yaml:"port"`
		Env      string `yaml:"env"`
		LogLevel string `yaml:"log_level"`
	} `yaml:"server"`
	Storage struct {
		Backend      string `yaml:"backend"`
		DatabaseURL  string `yaml:"database_url"`
		DatabaseName string `yaml:"database_name"`
		PostgresDSN  string `yaml:"postgres_dsn"`
		UsersFile    string `yaml:"users_file"`
		SessionsFile string `yaml:"sessions_file"`
		EventsFile   string `yaml:"events_file"`
	} `yaml:"storage"`
	Redis struct {
		URL               string `yaml:"url"`
		ActivityRateLimit int    `yaml:"activity_rate_limit"`
	} `yaml:"redis"`
}

// Load resolves configuration in priority order: defaults -> config file -> env.
func Load() (*Config, error) {
	_ = loadDotEnv(".env")

	cfg := &Config{
		Env:                  "development",
		LogLevel:             "info",
		Port:                 8000,
		StorageBackend:       BackendMongo,
		DatabaseName:         "focustracker",
		UsersFile:            "data/users.json",
		SessionsFile:         "data/sessions.json",
		EventsFile:           "data/events.json",
		ActivityRateLimitMin: 30,
	}

	path := getEnv("CONFIG_FILE", "config.yaml")
	if raw, err := os.ReadFile(path); err == nil {
		var f configFile
		if err := yaml.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
		applyFile(cfg, &f)
	}

	cfg.Env = getEnv("APP_ENV", cfg.Env)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.Port = getEnvInt("PORT", cfg.Port)
	cfg.StorageBackend = getEnv("STORAGE_BACKEND", cfg.StorageBackend)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.DatabaseName = getEnv("DATABASE_NAME", cfg.DatabaseName)
	cfg.PostgresDSN = getEnv("POSTGRES_DSN", cfg.PostgresDSN)
	cfg.UsersFile = getEnv("USERS_FILE", cfg.UsersFile)
	cfg.SessionsFile = getEnv("SESSIONS_FILE", cfg.SessionsFile)
	cfg.EventsFile = getEnv("EVENTS_FILE", cfg.EventsFile)
	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)
	cfg.ActivityRateLimitMin = getEnvInt("RATE_LIMIT_PER_MINUTE", cfg.ActivityRateLimitMin)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFile(cfg *Config, f *configFile) {
	if f.Server.Port > 0 {
		cfg.Port = f.Server.Port
	}
	if f.Server.Env != "" {
		cfg.Env = f.Server.Env
	}
	if f.Server.LogLevel != "" {
		cfg.LogLevel = f.Server.LogLevel
	}
	if f.Storage.Backend != "" {
		cfg.StorageBackend = f.Storage.Backend
	}
	if f.Storage.DatabaseURL != "" {
		cfg.DatabaseURL = f.Storage.DatabaseURL
	}
	if f.Storage.DatabaseName != "" {
		cfg.DatabaseName = f.Storage.DatabaseName
	}
	if f.Storage.PostgresDSN != "" {
		cfg.PostgresDSN = f.Storage.PostgresDSN
	}
	if f.Storage.UsersFile != "" {
		cfg.UsersFile = f.Storage.UsersFile
	}
	if f.Storage.SessionsFile != "" {
		cfg.SessionsFile = f.Storage.SessionsFile
	}
	if f.Storage.EventsFile != "" {
		cfg.EventsFile = f.Storage.EventsFile
	}
	if f.Redis.URL != "" {
		cfg.RedisURL = f.Redis.URL
	}
	if f.Redis.ActivityRateLimit > 0 {
		cfg.ActivityRateLimitMin = f.Redis.ActivityRateLimit
	}
}

func (c *Config) Validate() error {
	switch c.StorageBackend {
	case BackendMongo:
		// DATABASE_URL may be absent: the service still starts and the /test
		// diagnostic reports the store as not connected.
	case BackendPostgres:
		if c.PostgresDSN == "" {
			return errors.New("POSTGRES_DSN is required when STORAGE_BACKEND=postgres")
		}
	case BackendFile:
		if c.UsersFile == "" || c.SessionsFile == "" || c.EventsFile == "" {
			return errors.New("file storage requires USERS_FILE, SESSIONS_FILE and EVENTS_FILE to be set")
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND must be one of: mongo, postgres, file (got %q)", c.StorageBackend)
	}
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return errors.New("APP_ENV must be one of: development, staging, production")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	if c.ActivityRateLimitMin < 0 {
		return errors.New("RATE_LIMIT_PER_MINUTE must not be negative")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// loadDotEnv reads KEY=VALUE pairs into the environment without overriding
// variables already set. Missing file is not an error.
func loadDotEnv(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" || os.Getenv(key) != "" {
			continue
		}
		os.Setenv(key, strings.TrimSpace(value))
	}
	return sc.Err()
}

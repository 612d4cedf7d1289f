package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const DefaultPath = "jobboard_config.json"

const (
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	Backend     string `json:"backend" mapstructure:"backend"`
	DBPath      string `json:"db_path" mapstructure:"db_path"`
	RedisURL    string `json:"redis_url" mapstructure:"redis_url"`
	PostgresURL string `json:"postgres_url" mapstructure:"postgres_url"`
	StorageKey  string `json:"storage_key" mapstructure:"storage_key"`
	ListenAddr  string `json:"listen_addr" mapstructure:"listen_addr"`
	LogLevel    string `json:"log_level" mapstructure:"log_level"`
	LogFormat   string `json:"log_format" mapstructure:"log_format"`
}

func Default() *Config {
	return &Config{
		Backend:    BackendSQLite,
		DBPath:     "jobboard.db",
		StorageKey: "jobs",
		ListenAddr: ":8080",
		LogLevel:   "info",
		LogFormat:  "text",
	}
}

// Keys lists the settable configuration keys in display order.
var Keys = []string{"backend", "db_path", "redis_url", "postgres_url", "storage_key", "listen_addr", "log_level", "log_format"}

func (c *Config) values() map[string]string {
	return map[string]string{
		"backend":      c.Backend,
		"db_path":      c.DBPath,
		"redis_url":    c.RedisURL,
		"postgres_url": c.PostgresURL,
		"storage_key":  c.StorageKey,
		"listen_addr":  c.ListenAddr,
		"log_level":    c.LogLevel,
		"log_format":   c.LogFormat,
	}
}

// Load reads path over the defaults, then applies JOBBOARD_* environment
// variables. A missing file is not an error.
func Load(path string) (*Config, error) {
	return load(path, true)
}

// LoadFile reads path over the defaults and ignores the environment. Use it
// when the result is written back with Save.
func LoadFile(path string) (*Config, error) {
	return load(path, false)
}

func load(path string, withEnv bool) (*Config, error) {
	v := viper.New()
	for k, val := range Default().values() {
		v.SetDefault(k, val)
	}
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if withEnv {
		v.SetEnvPrefix("JOBBOARD")
		v.AutomaticEnv()
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Save(path string) error {
	v := viper.New()
	v.SetConfigType("json")
	for k, val := range c.values() {
		v.Set(k, val)
	}
	return v.WriteConfigAs(path)
}

// Get returns the value of a configuration key.
func (c *Config) Get(key string) (string, error) {
	val, ok := c.values()[key]
	if !ok {
		return "", fmt.Errorf("unknown config key %q", key)
	}
	return val, nil
}

// Set assigns a configuration key from its string form and revalidates.
func (c *Config) Set(key, value string) error {
	next := *c
	switch key {
	case "backend":
		next.Backend = strings.ToLower(value)
	case "db_path", "db-path":
		next.DBPath = value
	case "redis_url", "redis-url":
		next.RedisURL = value
	case "postgres_url", "postgres-url":
		next.PostgresURL = value
	case "storage_key", "storage-key":
		next.StorageKey = value
	case "listen_addr", "listen-addr":
		next.ListenAddr = value
	case "log_level", "log-level":
		next.LogLevel = value
	case "log_format", "log-format":
		next.LogFormat = value
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

func (c *Config) Validate() error {
	switch c.Backend {
	case BackendSQLite:
		if c.DBPath == "" {
			return errors.New("db_path is required when backend is sqlite")
		}
	case BackendRedis:
		if c.RedisURL == "" {
			return errors.New("redis_url is required when backend is redis")
		}
	case BackendPostgres:
		if c.PostgresURL == "" {
			return errors.New("postgres_url is required when backend is postgres")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("backend must be one of sqlite, redis, postgres, memory; got %q", c.Backend)
	}
	if c.StorageKey == "" {
		return errors.New("storage_key is required")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("log_format must be text or json; got %q", c.LogFormat)
	}
	return nil
}

// Logger builds a logrus logger from the log settings.
func (c *Config) Logger() *logrus.Logger {
	l := logrus.New()
	if lvl, err := logrus.ParseLevel(c.LogLevel); err == nil {
		l.SetLevel(lvl)
	}
	if c.LogFormat == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return l
}

// Package config loads the application configuration from an optional YAML
// file with ${ENV} expansion, falling back to environment variables alone.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aura-studio/redq"
)

type Config struct {
	Redis  RedisConfig  `yaml:"redis"`
	Worker WorkerConfig `yaml:"worker"`
	Log    LogConfig    `yaml:"log"`
}

type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	DB       int    `yaml:"db"`
	Password string `yaml:"password"`
}

type WorkerConfig struct {
	Threads      int      `yaml:"threads"`
	PopTimeout   Duration `yaml:"pop_timeout"`
	ErrorBackoff Duration `yaml:"error_backoff"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Duration is a yaml-parseable time.Duration ("5s", "200ms").
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

// Load reads the YAML file at path, expanding ${VAR} and ${VAR:default}
// references against the environment before parsing.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := FromEnv()
	if err := yaml.Unmarshal([]byte(expandEnv(string(raw))), cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// FromEnv builds the configuration from environment variables only, using
// the same keys the original deployment reads: REDIS_HOST, REDIS_PORT,
// REDIS_DB, REDIS_PASSWORD, BLPOP_TIMEOUT (seconds), WORKER_THREADS,
// LOG_LEVEL.
func FromEnv() *Config {
	cfg := &Config{
		Redis: RedisConfig{
			Host:     getenv("REDIS_HOST", "localhost"),
			Port:     getenvInt("REDIS_PORT", 6379),
			DB:       getenvInt("REDIS_DB", 0),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		Worker: WorkerConfig{
			Threads:    getenvInt("WORKER_THREADS", 0),
			PopTimeout: Duration(time.Duration(getenvInt("BLPOP_TIMEOUT", 0)) * time.Second),
		},
		Log: LogConfig{
			Level: getenv("LOG_LEVEL", ""),
		},
	}
	cfg.applyDefaults()
	return cfg
}

// Endpoint converts the Redis section into a redq endpoint.
func (c *Config) Endpoint() redq.Endpoint {
	return redq.Endpoint{
		Host:     c.Redis.Host,
		Port:     c.Redis.Port,
		DB:       c.Redis.DB,
		Password: c.Redis.Password,
	}
}

func (c *Config) applyDefaults() {
	if c.Redis.Host == "" {
		c.Redis.Host = "localhost"
	}
	if c.Redis.Port == 0 {
		c.Redis.Port = 6379
	}
	if c.Worker.Threads <= 0 {
		c.Worker.Threads = 1
	}
	if c.Worker.PopTimeout <= 0 {
		c.Worker.PopTimeout = Duration(5 * time.Second)
	}
	if c.Worker.ErrorBackoff <= 0 {
		c.Worker.ErrorBackoff = Duration(2 * time.Second)
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::([^}]*))?\}`)

func expandEnv(s string) string {
	return envRef.ReplaceAllStringFunc(s, func(ref string) string {
		parts := envRef.FindStringSubmatch(ref)
		if val := os.Getenv(parts[1]); val != "" {
			return val
		}
		return parts[2]
	})
}

func getenv(name, def string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return def
}

func getenvInt(name string, def int) int {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

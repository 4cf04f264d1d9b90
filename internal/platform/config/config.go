// Package config loads process configuration from the environment, with an
// optional YAML file for analysis tuning.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Cache backends.
const (
	CacheNone     = "none"
	CacheMemory   = "memory"
	CacheRedis    = "redis"
	CachePostgres = "postgres"
)

// Config is the full process configuration.
type Config struct {
	Server   Server
	Log      Log
	Database Database
	Redis    RedisConfig
	Kafka    Kafka
	Cache    Cache
	Analysis Analysis
	// Fixture is a YAML grant dataset served from memory instead of Postgres.
	Fixture string
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// Log selects the slog handler.
type Log struct {
	Level  string
	Format string
}

// Database is the Postgres connection. An empty URL disables Postgres.
type Database struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	Migrate         bool
}

// RedisConfig is the Redis connection. An empty URL disables Redis.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Kafka configures completion-event publishing. No brokers disables it.
type Kafka struct {
	Brokers []string
	Topic   string
}

// Cache selects the result cache backend.
type Cache struct {
	Backend    string
	TTL        time.Duration
	MaxEntries int64
}

// Analysis holds the tunable thresholds of the analysis pipeline.
type Analysis struct {
	Workers           int           `yaml:"workers"`
	FunderTimeout     time.Duration `yaml:"funder_timeout"`
	DefaultMinFunders int           `yaml:"default_min_funders"`
	MaxHops           int           `yaml:"max_hops"`
	MinKeywordLength  int           `yaml:"min_keyword_length"`
	MaxKeywords       int           `yaml:"max_keywords"`
	OverlapThreshold  float64       `yaml:"overlap_threshold"`
}

// DefaultAnalysis returns the built-in analysis tuning.
func DefaultAnalysis() Analysis {
	return Analysis{
		Workers:           8,
		FunderTimeout:     10 * time.Second,
		DefaultMinFunders: 2,
		MaxHops:           3,
		MinKeywordLength:  4,
		MaxKeywords:       8,
		OverlapThreshold:  0.3,
	}
}

// FromEnv builds a Config from environment variables so main stays lean.
// When GRANTNET_ANALYSIS_FILE is set its values override the analysis
// defaults and environment.
func FromEnv() (Config, error) {
	cfg := Config{
		Server: Server{
			Addr:            getEnv("GRANTNET_ADDR", ":8080"),
			ShutdownTimeout: getDuration("GRANTNET_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Log: Log{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Database: Database{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    getInt("DATABASE_MAX_OPEN_CONNS", 20),
			MaxIdleConns:    getInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDuration("DATABASE_CONN_MAX_LIFETIME", 30*time.Minute),
			Migrate:         os.Getenv("DATABASE_MIGRATE") == "true",
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: Kafka{
			Brokers: splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:   getEnv("GRANTNET_ANALYSIS_TOPIC", "grantnet.analysis.completed"),
		},
		Cache: Cache{
			Backend:    getEnv("GRANTNET_CACHE_BACKEND", CacheMemory),
			TTL:        getDuration("GRANTNET_CACHE_TTL", 24*time.Hour),
			MaxEntries: int64(getInt("GRANTNET_CACHE_MAX_ENTRIES", 1000)),
		},
		Analysis: DefaultAnalysis(),
		Fixture:  os.Getenv("GRANTNET_FIXTURE"),
	}
	cfg.Analysis.Workers = getInt("GRANTNET_WORKERS", cfg.Analysis.Workers)
	cfg.Analysis.FunderTimeout = getDuration("GRANTNET_FUNDER_TIMEOUT", cfg.Analysis.FunderTimeout)

	if path := os.Getenv("GRANTNET_ANALYSIS_FILE"); path != "" {
		if err := cfg.Analysis.LoadFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile overlays the analysis settings present in a YAML file.
func (a *Analysis) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read analysis file: %w", err)
	}
	if err := yaml.Unmarshal(data, a); err != nil {
		return fmt.Errorf("parse analysis file %s: %w", path, err)
	}
	return nil
}

// Validate rejects settings the service cannot start with.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case CacheNone, CacheMemory, CacheRedis, CachePostgres:
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.Backend == CacheRedis && c.Redis.URL == "" {
		return fmt.Errorf("redis cache backend requires REDIS_URL")
	}
	if c.Cache.Backend == CachePostgres && c.Database.URL == "" {
		return fmt.Errorf("postgres cache backend requires DATABASE_URL")
	}
	return c.Analysis.Validate()
}

// Validate rejects analysis tuning the pipeline cannot run with.
func (a Analysis) Validate() error {
	if a.Workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}
	if a.FunderTimeout <= 0 {
		return fmt.Errorf("funder timeout must be positive")
	}
	if a.DefaultMinFunders < 1 {
		return fmt.Errorf("default min funders must be at least 1")
	}
	if a.OverlapThreshold < 0 || a.OverlapThreshold >= 1 {
		return fmt.Errorf("overlap threshold must be in [0, 1)")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

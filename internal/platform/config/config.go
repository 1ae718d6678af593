package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the full service configuration, read once at startup.
type Config struct {
	Server    Server
	Log       Log
	Database  Database
	Redis     RedisConfig
	Kafka     Kafka
	Screening Screening
	RateLimit RateLimit
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr              string
	AdminToken        string
	ResumeTokenSecret string
	ResumeTokenTTL    time.Duration
	ShutdownTimeout   time.Duration
}

type Log struct {
	Level  string
	Format string
}

// Database is empty when records are kept in memory.
type Database struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
	ConnMaxLife  time.Duration
}

// RedisConfig is empty when progress is kept in process.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Kafka has no brokers when notifications go to the log.
type Kafka struct {
	Brokers  []string
	Topic    string
	ClientID string
}

type Screening struct {
	ProgressTTL       time.Duration
	RuleOverridesFile string
	NotifyQueueSize   int
}

// RateLimit bounds public wizard requests per client IP. Zero requests
// disables limiting.
type RateLimit struct {
	Requests int
	Window   time.Duration
}

const devResumeSecret = "dev-resume-secret-change-in-production"

// FromEnv builds the config from environment variables so main stays lean.
func FromEnv() (Config, error) {
	r := envReader{}
	cfg := Config{
		Server: Server{
			Addr:              r.str("LEXSCREEN_ADDR", ":8080"),
			AdminToken:        r.str("ADMIN_API_TOKEN", ""),
			ResumeTokenSecret: r.str("RESUME_TOKEN_SECRET", devResumeSecret),
			ResumeTokenTTL:    r.duration("RESUME_TOKEN_TTL", 72*time.Hour),
			ShutdownTimeout:   r.duration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Log: Log{
			Level:  r.str("LOG_LEVEL", "info"),
			Format: r.str("LOG_FORMAT", "json"),
		},
		Database: Database{
			URL:          r.str("DATABASE_URL", ""),
			MaxOpenConns: r.integer("DATABASE_MAX_OPEN_CONNS", 10),
			MaxIdleConns: r.integer("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLife:  r.duration("DATABASE_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			URL:          r.str("REDIS_URL", ""),
			PoolSize:     r.integer("REDIS_POOL_SIZE", 10),
			MinIdleConns: r.integer("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  r.duration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  r.duration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: r.duration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: Kafka{
			Brokers:  r.list("KAFKA_BROKERS"),
			Topic:    r.str("KAFKA_TOPIC", "screening.records"),
			ClientID: r.str("KAFKA_CLIENT_ID", "lexscreen"),
		},
		Screening: Screening{
			ProgressTTL:       r.duration("PROGRESS_TTL", 72*time.Hour),
			RuleOverridesFile: r.str("RULE_OVERRIDES_FILE", ""),
			NotifyQueueSize:   r.integer("NOTIFY_QUEUE_SIZE", 1024),
		},
		RateLimit: RateLimit{
			Requests: r.integer("RATE_LIMIT_REQUESTS", 120),
			Window:   r.duration("RATE_LIMIT_WINDOW", time.Minute),
		},
	}
	if r.err != nil {
		return Config{}, r.err
	}
	return cfg, nil
}

// UsesDevSecret reports whether resume tokens are signed with the built-in key.
func (c Config) UsesDevSecret() bool {
	return c.Server.ResumeTokenSecret == devResumeSecret
}

// envReader keeps the first parse error so FromEnv can read every key in one
// pass.
type envReader struct {
	err error
}

func (r *envReader) str(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func (r *envReader) duration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		r.fail(fmt.Errorf("%s: invalid duration %q", key, v))
		return fallback
	}
	return d
}

func (r *envReader) integer(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		r.fail(fmt.Errorf("%s: invalid integer %q", key, v))
		return fallback
	}
	return n
}

func (r *envReader) list(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (r *envReader) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

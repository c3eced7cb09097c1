package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/vytor/lexiflash/internal/logger"
)

type Config struct {
	Addr               string
	DBPath             string
	LogLevel           string
	APIBaseURL         string
	CDNBaseURL         string
	WordsPerSession    int
	HTTPTimeout        time.Duration
	FlushWorkerCount   int
	FlushQueueSize     int
	OutboxRetryEvery   time.Duration
	SessionIdleTimeout time.Duration
	CORSOrigins        []string
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the daemon still starts when .env is absent.
	_ = godotenv.Load()

	return Config{
		Addr:               envOr("ADDR", "127.0.0.1:8090"),
		DBPath:             envOr("DB_PATH", "file:lexiflash.db"),
		LogLevel:           strings.ToUpper(envOr("LOG_LEVEL", "INFO")),
		APIBaseURL:         strings.TrimRight(envOr("API_BASE_URL", "http://localhost:3000/api"), "/"),
		CDNBaseURL:         envOr("CDN_BASE_URL", ""),
		WordsPerSession:    envIntOr("WORDS_PER_SESSION", 10),
		HTTPTimeout:        time.Duration(envIntOr("HTTP_TIMEOUT_SECONDS", 15)) * time.Second,
		FlushWorkerCount:   envIntOr("FLUSH_WORKER_COUNT", 1),
		FlushQueueSize:     envIntOr("FLUSH_QUEUE_SIZE", 16),
		OutboxRetryEvery:   time.Duration(envIntOr("OUTBOX_RETRY_SECONDS", 60)) * time.Second,
		SessionIdleTimeout: time.Duration(envIntOr("SESSION_IDLE_MINUTES", 30)) * time.Minute,
		CORSOrigins:        envListOr("CORS_ORIGINS", []string{"http://localhost:5173"}),
	}
}

// Validate checks every field and reports all problems at once.
func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("ADDR cannot be empty"))
	}
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, errors.New("DB_PATH cannot be empty"))
	}
	if !logger.ValidLevel(c.LogLevel) {
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR (got %q)", c.LogLevel))
	}
	if u, err := url.Parse(c.APIBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("API_BASE_URL must be an absolute URL (got %q)", c.APIBaseURL))
	}
	if c.CDNBaseURL != "" {
		if u, err := url.Parse(c.CDNBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("CDN_BASE_URL must be an absolute URL (got %q)", c.CDNBaseURL))
		}
	}
	if c.WordsPerSession < 1 || c.WordsPerSession > 100 {
		errs = append(errs, fmt.Errorf("WORDS_PER_SESSION must be between 1 and 100 (got %d)", c.WordsPerSession))
	}
	if c.HTTPTimeout <= 0 {
		errs = append(errs, errors.New("HTTP_TIMEOUT_SECONDS must be positive"))
	}
	if c.FlushWorkerCount < 1 {
		errs = append(errs, fmt.Errorf("FLUSH_WORKER_COUNT must be at least 1 (got %d)", c.FlushWorkerCount))
	}
	if c.FlushQueueSize < 1 {
		errs = append(errs, fmt.Errorf("FLUSH_QUEUE_SIZE must be at least 1 (got %d)", c.FlushQueueSize))
	}
	if c.OutboxRetryEvery < time.Second {
		errs = append(errs, errors.New("OUTBOX_RETRY_SECONDS must be at least 1"))
	}
	if c.SessionIdleTimeout < time.Minute {
		errs = append(errs, errors.New("SESSION_IDLE_MINUTES must be at least 1"))
	}

	return errors.Join(errs...)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envListOr(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

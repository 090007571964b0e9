package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/hqzhou/textreflow/internal/cjk"
	"github.com/hqzhou/textreflow/internal/reflow"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// Reflow defaults, overridable per request.
	Compact            bool
	AddPageHeaders     bool
	BoundaryLevel      int
	ShortHeadingMaxLen int
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("REFLOW_API_KEY"),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 104857600), // 100MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		Compact:            envBool("REFLOW_COMPACT", false),
		AddPageHeaders:     envBool("REFLOW_PAGE_HEADERS", true),
		BoundaryLevel:      envInt("REFLOW_BOUNDARY_LEVEL", cjk.BoundaryLenient),
		ShortHeadingMaxLen: envInt("SHORT_HEADING_MAX_LEN", 8),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 104857600
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.BoundaryLevel < 1 || cfg.BoundaryLevel > 3 {
		cfg.BoundaryLevel = cjk.BoundaryLenient
	}
	if cfg.ShortHeadingMaxLen <= 0 {
		cfg.ShortHeadingMaxLen = 8
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("REFLOW_API_KEY is required")
	}
	return nil
}

// ReflowDefaults builds the reflow options applied when a request
// does not override them.
func (c Config) ReflowDefaults() reflow.Options {
	opts := reflow.DefaultOptions()
	opts.Compact = c.Compact
	opts.AddPageHeaders = c.AddPageHeaders
	opts.BoundaryLevel = c.BoundaryLevel
	opts.ShortHeading.MaxLen = c.ShortHeadingMaxLen
	return opts
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

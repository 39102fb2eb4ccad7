package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dgallion1/mdchunk/internal/chunker"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Chunk store
	DBPath string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Chunking defaults
	Strategy string
	Chunk    chunker.Config

	// Job state
	JobTTL time.Duration

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("MDCHUNK_API_KEY"),

		DBPath: envOr("DB_PATH", "mdchunk.db"),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		Strategy: envOr("CHUNK_STRATEGY", chunker.StrategySize),
		Chunk: chunker.Config{
			TargetSize:        envInt("CHUNK_TARGET_SIZE", chunker.DefaultTargetSize),
			MaxSize:           envInt("CHUNK_MAX_SIZE", chunker.DefaultMaxSize),
			MinMergeSize:      envInt("CHUNK_MIN_MERGE_SIZE", chunker.DefaultMinMergeSize),
			SmallDocThreshold: envInt("CHUNK_SMALL_DOC_THRESHOLD", chunker.DefaultSmallDocThreshold),
			GroupLevel:        envInt("CHUNK_GROUP_LEVEL", chunker.DefaultGroupLevel),
		},

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

// Validate checks required settings and the chunking thresholds. Threshold
// errors wrap chunker.ErrInvalidConfig.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("MDCHUNK_API_KEY is required")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH must not be empty")
	}
	if _, err := chunker.New(c.Strategy, c.Chunk); err != nil {
		return fmt.Errorf("chunking config: %w", err)
	}
	return nil
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

package config

import (
	"os"
	"strconv"
	"time"

	"creditrisk/internal/batch"
	"creditrisk/internal/batch/store"
	"creditrisk/internal/decision"
	"creditrisk/pkg/platform/validation"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr           string
	Environment    string
	LogLevel       string
	RequestTimeout time.Duration

	RiskThreshold  float64
	BatchWorkers   int
	MaxBatchRows   int
	MaxUploadBytes int64
	ModelPath      string
	ResultTTL      time.Duration

	Redis RedisConfig
}

// RedisConfig configures the optional redis result store. An empty URL
// selects the in-memory store.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Defaults applied when the matching variable is unset or unparsable.
var (
	DefaultAddr           = ":8080"
	DefaultRequestTimeout = 30 * time.Second
)

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	return Server{
		Addr:           stringEnv("CREDITRISK_ADDR", DefaultAddr),
		Environment:    stringEnv("CREDITRISK_ENV", "dev"),
		LogLevel:       stringEnv("LOG_LEVEL", "info"),
		RequestTimeout: durationEnv("REQUEST_TIMEOUT", DefaultRequestTimeout),
		RiskThreshold:  thresholdEnv("RISK_THRESHOLD", decision.DefaultRiskThreshold),
		BatchWorkers:   positiveIntEnv("BATCH_WORKERS", batch.DefaultWorkers),
		MaxBatchRows:   positiveIntEnv("BATCH_MAX_ROWS", validation.DefaultMaxBatchRows),
		MaxUploadBytes: int64(positiveIntEnv("BATCH_MAX_UPLOAD_BYTES", validation.DefaultMaxUploadSize)),
		ModelPath:      os.Getenv("MODEL_PATH"),
		ResultTTL:      durationEnv("RESULT_TTL", store.DefaultTTL),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     positiveIntEnv("REDIS_POOL_SIZE", 10),
			MinIdleConns: positiveIntEnv("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  durationEnv("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  durationEnv("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: durationEnv("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
	}
}

func stringEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationEnv(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}

func positiveIntEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

// thresholdEnv accepts only values within [0,1].
func thresholdEnv(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 && f <= 1 {
			return f
		}
	}
	return def
}

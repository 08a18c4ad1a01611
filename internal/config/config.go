package config

import (
	"os"
	"strconv"
)

type Config struct {
	APIPort  string
	LogLevel string

	UploadDir      string
	MaxUploadBytes int64
	PreviewChars   int

	NATSURL           string
	NATSTasksSubject  string
	NATSStatusSubject string

	APIRateLimitRPS   int
	APIRateLimitBurst int
	APIMaxInFlight    int

	TaskTimeoutSeconds int
	WorkerMetricsPort  string
}

func Load() Config {
	return Config{
		APIPort:  mustEnv("API_PORT", "8080"),
		LogLevel: mustEnv("LOG_LEVEL", "info"),

		UploadDir:      mustEnv("UPLOAD_DIR", "./data/uploads"),
		MaxUploadBytes: mustEnvInt64("MAX_UPLOAD_BYTES", 5*1024*1024),
		PreviewChars:   mustEnvInt("PREVIEW_CHARS", 2000),

		NATSURL:           mustEnv("NATS_URL", "nats://localhost:4222"),
		NATSTasksSubject:  mustEnv("NATS_TASKS_SUBJECT", "files.parse.tasks"),
		NATSStatusSubject: mustEnv("NATS_STATUS_SUBJECT", "files.parse.status"),

		APIRateLimitRPS:   mustEnvInt("API_RATE_LIMIT_RPS", 50),
		APIRateLimitBurst: mustEnvInt("API_RATE_LIMIT_BURST", 100),
		APIMaxInFlight:    mustEnvInt("API_MAX_IN_FLIGHT", 256),

		TaskTimeoutSeconds: mustEnvInt("TASK_TIMEOUT_SECONDS", 120),
		WorkerMetricsPort:  mustEnv("WORKER_METRICS_PORT", "9090"),
	}
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

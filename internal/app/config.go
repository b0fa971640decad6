package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config описывает настройки запуска приложения.
type Config struct {
	HTTPAddr    string
	MetricsAddr string
	// PostgresDSN пустой — приложение работает на in-memory хранилище.
	PostgresDSN string
	// KafkaBrokers пустой — outbox worker не запускается.
	KafkaBrokers []string
	Outbox       OutboxConfig
}

// OutboxConfig — параметры фонового публикатора outbox.
type OutboxConfig struct {
	PollInterval time.Duration
	BatchSize    int
	MaxAttempts  int
}

// DefaultConfig возвращает базовые адреса и параметры outbox.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:    ":8080",
		MetricsAddr: ":9090",
		Outbox: OutboxConfig{
			PollInterval: time.Second,
			BatchSize:    100,
			MaxAttempts:  3,
		},
	}
}

// LoadConfig читает конфигурацию из переменных окружения поверх дефолтов.
// Файл .env, если он есть рядом, подхватывается автоматически.
func LoadConfig() Config {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	if v := os.Getenv("STORE_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("STORE_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("STORE_POSTGRES_DSN")); v != "" {
		cfg.PostgresDSN = v
	}
	if v := strings.TrimSpace(os.Getenv("KAFKA_BROKERS")); v != "" {
		cfg.KafkaBrokers = splitBrokers(v)
	}
	if d, err := time.ParseDuration(os.Getenv("STORE_OUTBOX_POLL_INTERVAL")); err == nil && d > 0 {
		cfg.Outbox.PollInterval = d
	}
	if n, err := strconv.Atoi(os.Getenv("STORE_OUTBOX_BATCH_SIZE")); err == nil && n > 0 {
		cfg.Outbox.BatchSize = n
	}
	if n, err := strconv.Atoi(os.Getenv("STORE_OUTBOX_MAX_ATTEMPTS")); err == nil && n > 0 {
		cfg.Outbox.MaxAttempts = n
	}

	return cfg
}

func splitBrokers(raw string) []string {
	parts := strings.Split(raw, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}

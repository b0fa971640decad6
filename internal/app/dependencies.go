package app

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	healthcheck "github.com/vladislavdragonenkov/storefront/internal/health"
	"github.com/vladislavdragonenkov/storefront/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
	"github.com/vladislavdragonenkov/storefront/internal/storage/postgres"
	"github.com/vladislavdragonenkov/storefront/internal/version"
)

// Dependencies содержит инфраструктурные зависимости приложения.
type Dependencies struct {
	Store     domain.Store
	Producer  *kafka.Producer
	Publisher domain.OutboxPublisher
	Health    *healthcheck.Handler
	Logger    *log.Entry

	closers []func() error
}

// NewDependencies собирает хранилище и брокер по конфигурации.
// Без STORE_POSTGRES_DSN используется in-memory хранилище, без
// KAFKA_BROKERS приложение работает без публикации outbox наружу.
func NewDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	deps := &Dependencies{
		Health: healthcheck.NewHandler(version.GetVersion()),
		Logger: logger,
	}

	if cfg.PostgresDSN != "" {
		pg, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		deps.Store = pg
		deps.closers = append(deps.closers, pg.Close)
		deps.Health.RegisterChecker("storage", healthcheck.NewSimpleChecker("storage", func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return pg.Ping(pingCtx)
		}))
		logger.Info("postgres store initialized")
	} else {
		deps.Store = memory.NewStore()
		deps.Health.RegisterChecker("storage", healthcheck.NewSimpleChecker("storage", func() error {
			return nil
		}))
		logger.Info("using in-memory store")
	}

	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			logger.WithError(err).Warn("failed to create kafka producer, continuing without kafka")
		} else {
			deps.Producer = producer
			deps.Publisher = kafka.NewOutboxPublisher(producer, kafka.TopicEmailRequests)
			deps.closers = append(deps.closers, producer.Close)
			deps.Health.RegisterChecker("kafka", healthcheck.NewSimpleChecker("kafka", func() error {
				return nil
			}))
			logger.WithField("brokers", cfg.KafkaBrokers).Info("kafka producer initialized")
		}
	}

	return deps, nil
}

// Close освобождает все захваченные ресурсы в обратном порядке.
func (d *Dependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			d.Logger.WithError(err).Warn("failed to close dependency")
		}
	}
}

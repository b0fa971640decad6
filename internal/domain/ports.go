package domain

import (
	"context"
	"time"
)

// OutboxMessage хранит данные события, публикуемого через transactional outbox.
type OutboxMessage struct {
	ID            string
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

// OutboxStats описывает текущее состояние backlog transactional outbox.
type OutboxStats struct {
	PendingCount    int
	OldestPendingAt time.Time
}

// OutboxRepository позволяет сохранять события для последующей публикации.
// Enqueue, вызванный внутри WithinTx, попадает в ту же транзакцию,
// что и доменные изменения.
type OutboxRepository interface {
	Enqueue(ctx context.Context, msg OutboxMessage) (OutboxMessage, error)
	PullPending(ctx context.Context, limit int) ([]OutboxMessage, error)
	Stats(ctx context.Context) (OutboxStats, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string) error
}

// OutboxPublisher публикует события из transactional outbox наружу.
// Реализация должна быть идемпотентной.
type OutboxPublisher interface {
	Publish(ctx context.Context, msg OutboxMessage) error
}

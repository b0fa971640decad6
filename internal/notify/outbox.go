package notify

import (
	"encoding/json"
	"fmt"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// EventTypeEmailRequested — тип outbox-события с запросом на отправку письма.
const EventTypeEmailRequested = "EmailRequested"

// BuildEmailMessage упаковывает письмо в outbox-событие. aggregateID —
// идентификатор пользователя-получателя.
func BuildEmailMessage(aggregateID string, email Email) (domain.OutboxMessage, error) {
	payload, err := json.Marshal(email)
	if err != nil {
		return domain.OutboxMessage{}, fmt.Errorf("marshal email payload: %w", err)
	}
	return domain.OutboxMessage{
		AggregateType: "user",
		AggregateID:   aggregateID,
		EventType:     EventTypeEmailRequested,
		Payload:       payload,
	}, nil
}

// ParseEmailMessage распаковывает письмо из payload outbox-события.
func ParseEmailMessage(payload []byte) (Email, error) {
	var email Email
	if err := json.Unmarshal(payload, &email); err != nil {
		return Email{}, fmt.Errorf("unmarshal email payload: %w", err)
	}
	return email, nil
}

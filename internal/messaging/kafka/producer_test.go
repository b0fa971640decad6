package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	log "github.com/sirupsen/logrus"
)

func TestProducer_PublishEvent(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)

	producer := &Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-producer-test"),
	}

	mockProducer.ExpectSendMessageAndSucceed()

	envelope := Envelope{
		ID:          "outbox-1",
		EventType:   "EmailRequested",
		Payload:     json.RawMessage(`{"to":"alice@example.com"}`),
		PublishedAt: time.Now().UTC(),
	}

	if err := producer.PublishEvent(TopicEmailRequests, "user-1", envelope); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestProducer_PublishEvent_Error(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)

	producer := &Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-producer-test"),
	}

	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	if err := producer.PublishEvent(TopicEmailRequests, "user-1", Envelope{ID: "x"}); err == nil {
		t.Fatal("expected error, got nil")
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestParseEnvelope(t *testing.T) {
	t.Parallel()

	raw := []byte(`{"id":"outbox-1","aggregate_type":"user","aggregate_id":"user-1","event_type":"EmailRequested","payload":{"to":"alice@example.com"},"published_at":"2026-03-01T12:00:00Z"}`)
	message := &sarama.ConsumerMessage{Value: raw}

	envelope, err := ParseEnvelope(message)
	if err != nil {
		t.Fatalf("ParseEnvelope failed: %v", err)
	}
	if envelope.ID != "outbox-1" || envelope.EventType != "EmailRequested" {
		t.Fatalf("unexpected envelope: %+v", envelope)
	}

	if _, err := ParseEnvelope(&sarama.ConsumerMessage{Value: []byte("not json")}); err == nil {
		t.Fatal("expected error for invalid payload")
	}
}

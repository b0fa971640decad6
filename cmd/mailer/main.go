package main

import (
	"context"
	"fmt"
	"net/smtp"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/IBM/sarama"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/storefront/internal/notify"
)

const defaultGroupID = "storefront-mailer"

// mailer отправляет письма из событий EmailRequested.
// Пустой SMTP-адрес включает dry-run: письмо только логируется.
type mailer struct {
	smtpAddr string
	from     string
	auth     smtp.Auth
	logger   *log.Entry
}

func newMailer(logger *log.Entry) *mailer {
	m := &mailer{
		smtpAddr: os.Getenv("SMTP_ADDR"),
		from:     os.Getenv("SMTP_FROM"),
		logger:   logger,
	}
	if m.from == "" {
		m.from = "noreply@storefront.local"
	}
	if user := os.Getenv("SMTP_USERNAME"); user != "" {
		host := m.smtpAddr
		if i := strings.IndexByte(host, ':'); i >= 0 {
			host = host[:i]
		}
		m.auth = smtp.PlainAuth("", user, os.Getenv("SMTP_PASSWORD"), host)
	}
	return m
}

func (m *mailer) send(email notify.Email) error {
	if m.smtpAddr == "" {
		m.logger.WithFields(log.Fields{
			"to":      email.To,
			"subject": email.Subject,
		}).Info("dry-run: письмо не отправлено, SMTP_ADDR не задан")
		return nil
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		m.from, email.To, email.Subject, email.Body)

	return smtp.SendMail(m.smtpAddr, m.auth, m.from, []string{email.To}, []byte(msg))
}

func (m *mailer) handleMessage(_ context.Context, message *sarama.ConsumerMessage) error {
	envelope, err := kafka.ParseEnvelope(message)
	if err != nil {
		return err
	}
	if envelope.EventType != notify.EventTypeEmailRequested {
		m.logger.WithField("event_type", envelope.EventType).Debug("skipping event")
		return nil
	}

	email, err := notify.ParseEmailMessage(envelope.Payload)
	if err != nil {
		return fmt.Errorf("parse email payload: %w", err)
	}

	if err := m.send(email); err != nil {
		return fmt.Errorf("send email to %s: %w", email.To, err)
	}

	m.logger.WithFields(log.Fields{
		"to":      email.To,
		"subject": email.Subject,
	}).Info("письмо отправлено")
	return nil
}

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.InfoLevel)
	logger := log.WithField("component", "mailer")

	_ = godotenv.Load()

	brokersRaw := strings.TrimSpace(os.Getenv("KAFKA_BROKERS"))
	if brokersRaw == "" {
		logger.Fatal("KAFKA_BROKERS is required")
	}
	brokers := strings.Split(brokersRaw, ",")
	for i := range brokers {
		brokers[i] = strings.TrimSpace(brokers[i])
	}

	groupID := os.Getenv("MAILER_GROUP_ID")
	if groupID == "" {
		groupID = defaultGroupID
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := newMailer(logger)

	// Необработанные после ретраев сообщения уходят в DLQ.
	dlqProducer, err := kafka.NewProducer(brokers)
	if err != nil {
		logger.WithError(err).Warn("failed to create dlq producer, continuing without dlq")
		dlqProducer = nil
	}

	consumer, err := kafka.NewConsumerWithDLQ(brokers, groupID, []string{kafka.TopicEmailRequests}, m.handleMessage, dlqProducer, 3)
	if err != nil {
		logger.WithError(err).Fatal("failed to create kafka consumer")
	}

	logger.WithFields(log.Fields{
		"brokers": brokers,
		"topic":   kafka.TopicEmailRequests,
		"group":   groupID,
	}).Info("mailer запущен")

	if err := consumer.Start(ctx); err != nil {
		logger.WithError(err).Fatal("consumer failed to start")
	}

	<-ctx.Done()
	logger.Info("останавливаем mailer")

	if err := consumer.Stop(); err != nil {
		logger.WithError(err).Warn("consumer stopped with error")
	}
	if dlqProducer != nil {
		if err := dlqProducer.Close(); err != nil {
			logger.WithError(err).Warn("failed to close dlq producer")
		}
	}

	logger.Info("mailer остановлен")
}

package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

type Producer interface {
	Publish(ctx context.Context, eventType, subject string, data any) error
	Close() error
}

type kafkaProducer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer falls back to a logging producer when the broker cannot be
// reached, so the workspace keeps working without kafka.
func NewProducer(brokers []string, topic string) Producer {
	if len(brokers) == 0 {
		logrus.Warn("Kafka brokers not configured, using mock producer")
		return NewMockProducer()
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := kafka.DialContext(ctx, "tcp", brokers[0])
	if err != nil {
		logrus.Warnf("Kafka connection failed: %v", err)
		logrus.Warn("Using mock producer instead")
		return NewMockProducer()
	}
	defer conn.Close()

	err = conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	})
	if err != nil {
		logrus.Infof("Could not create topic (might already exist): %v", err)
	}

	logrus.WithField("brokers", brokers).Info("Connected to Kafka")
	return &kafkaProducer{writer: writer, topic: topic}
}

// Publish writes one structured-mode CloudEvent keyed by subject, so events
// of one image stay ordered within a partition.
func (p *kafkaProducer) Publish(ctx context.Context, eventType, subject string, data any) error {
	event, err := NewEvent(eventType, subject, data)
	if err != nil {
		return err
	}
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(subject),
		Value: value,
		Time:  time.Now(),
		Headers: []kafka.Header{
			{Key: "content-type", Value: []byte(contentTypeStructured)},
			{Key: "ce_type", Value: []byte(eventType)},
		},
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		logrus.Errorf("Failed to write message to Kafka: %v", err)
		return err
	}
	return nil
}

func (p *kafkaProducer) Close() error {
	return p.writer.Close()
}

type mockProducer struct{}

func NewMockProducer() Producer {
	return &mockProducer{}
}

func (m *mockProducer) Publish(_ context.Context, eventType, subject string, data any) error {
	logrus.WithFields(logrus.Fields{
		"type":    eventType,
		"subject": subject,
	}).Debugf("MOCK: event %v", data)
	return nil
}

func (m *mockProducer) Close() error {
	return nil
}

package kafka

import (
	"context"
	"fmt"

	"github.com/IBM/sarama"

	"github.com/narwhalmedia/marquee/pkg/events"
	"github.com/narwhalmedia/marquee/pkg/interfaces"
)

// NewSyncProducer creates a producer that waits for every in-sync replica.
func NewSyncProducer(brokers []string) (sarama.SyncProducer, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("creating producer: %w", err)
	}
	return producer, nil
}

// Forwarder publishes bus events to a Kafka topic keyed by movie id
type Forwarder struct {
	producer sarama.SyncProducer
	topic    string
	logger   interfaces.Logger
}

var _ interfaces.EventHandler = (*Forwarder)(nil)

// NewForwarder creates a new Kafka event forwarder
func NewForwarder(producer sarama.SyncProducer, topic string, logger interfaces.Logger) *Forwarder {
	return &Forwarder{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

// Handle sends one event
func (f *Forwarder) Handle(ctx context.Context, event interfaces.Event) error {
	data, err := events.MarshalEnvelope(event)
	if err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: f.topic,
		Key:   sarama.StringEncoder(event.AggregateID()),
		Value: sarama.ByteEncoder(data),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(event.EventType())},
			{Key: []byte("event_id"), Value: []byte(event.EventID())},
		},
	}

	partition, offset, err := f.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("sending message: %w", err)
	}

	f.logger.Debug("Event forwarded to Kafka",
		interfaces.String("event_id", event.EventID()),
		interfaces.String("topic", f.topic),
		interfaces.Int("partition", int(partition)),
		interfaces.Any("offset", offset))

	return nil
}

// Name identifies the forwarder in logs
func (f *Forwarder) Name() string {
	return "kafka-forwarder"
}

// Close closes the producer
func (f *Forwarder) Close() error {
	return f.producer.Close()
}

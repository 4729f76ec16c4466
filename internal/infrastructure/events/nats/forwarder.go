package nats

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/narwhalmedia/marquee/pkg/events"
	"github.com/narwhalmedia/marquee/pkg/interfaces"
)

const publishTimeout = 5 * time.Second

// Publisher is the part of JetStream the forwarder needs.
type Publisher interface {
	Publish(ctx context.Context, subject string, payload []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// Forwarder publishes bus events to JetStream under <subject>.<event type>
type Forwarder struct {
	js      Publisher
	subject string
	logger  interfaces.Logger
}

var _ interfaces.EventHandler = (*Forwarder)(nil)

// NewForwarder creates a new NATS event forwarder
func NewForwarder(js Publisher, subject string, logger interfaces.Logger) *Forwarder {
	return &Forwarder{
		js:      js,
		subject: subject,
		logger:  logger,
	}
}

// Handle publishes one event. The event id doubles as the JetStream
// deduplication id.
func (f *Forwarder) Handle(ctx context.Context, event interfaces.Event) error {
	data, err := events.MarshalEnvelope(event)
	if err != nil {
		return err
	}

	subject := f.subject + "." + event.EventType()

	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	ack, err := f.js.Publish(pubCtx, subject, data, jetstream.WithMsgID(event.EventID()))
	if err != nil {
		return fmt.Errorf("failed to publish event to %s: %w", subject, err)
	}

	f.logger.Debug("Event forwarded to NATS",
		interfaces.String("event_id", event.EventID()),
		interfaces.String("subject", subject),
		interfaces.Any("sequence", ack.Sequence))

	return nil
}

// Name identifies the forwarder in logs
func (f *Forwarder) Name() string {
	return "nats-forwarder"
}

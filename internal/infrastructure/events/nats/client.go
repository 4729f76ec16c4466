package nats

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/narwhalmedia/marquee/pkg/interfaces"
)

// StreamName is the JetStream stream that retains forwarded events.
const StreamName = "MARQUEE_EVENTS"

// Connect dials NATS, opens JetStream and ensures the event stream exists
// for subject and everything below it.
func Connect(ctx context.Context, url, subject string, logger interfaces.Logger) (jetstream.JetStream, func(), error) {
	opts := []nats.Option{
		nats.Name("marquee"),
		nats.MaxReconnects(10),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", interfaces.Error(err))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", interfaces.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	stream := jetstream.StreamConfig{
		Name:        StreamName,
		Description: "Own-movie change events",
		Subjects:    []string{subject + ".>"},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      7 * 24 * time.Hour,
		Storage:     jetstream.FileStorage,
		Discard:     jetstream.DiscardOld,
		Replicas:    1,
	}
	if _, err := js.CreateOrUpdateStream(ctx, stream); err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("failed to create event stream: %w", err)
	}

	cleanup := func() {
		if err := nc.Drain(); err != nil {
			logger.Error("Failed to drain NATS connection", interfaces.Error(err))
		}
	}

	logger.Info("NATS client initialized",
		interfaces.String("url", url),
		interfaces.String("stream", StreamName))

	return js, cleanup, nil
}

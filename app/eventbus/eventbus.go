package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmnats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/go-chi/chi/v5/middleware"
	nc "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/nats-io/nkeys"
)

// StreamName is the JetStream stream holding every lifecycle subject.
const StreamName = "MINT"

// Publisher publishes lifecycle notifications.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) error
}

// Config holds the NATS connection settings.
type Config struct {
	URL      string
	NKeySeed string
}

// EventBus wraps a watermill publisher and, for the in-process transport,
// a subscriber.
type EventBus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	natsConn   *nc.Conn
	logger     *slog.Logger
}

var _ Publisher = (*EventBus)(nil)

// NewNATSEventBus connects to NATS, ensures the lifecycle stream exists and
// returns a JetStream-backed publisher.
func NewNATSEventBus(ctx context.Context, cfg Config, logger *slog.Logger) (*EventBus, error) {
	options := []nc.Option{
		nc.Name("mint-backend"),
		nc.RetryOnFailedConnect(true),
		nc.Timeout(30 * time.Second),
		nc.ReconnectWait(1 * time.Second),
	}
	if cfg.NKeySeed != "" {
		opt, err := nkeyOption(cfg.NKeySeed)
		if err != nil {
			return nil, err
		}
		options = append(options, opt)
	}

	natsConn, err := nc.Connect(cfg.URL, options...)
	if err != nil {
		logger.Error("Failed to connect to NATS", slog.Any("error", err))
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(natsConn)
	if err != nil {
		natsConn.Close()
		return nil, fmt.Errorf("failed to initialize JetStream: %w", err)
	}
	if err := ensureStream(ctx, js, logger); err != nil {
		natsConn.Close()
		return nil, err
	}

	publisher, err := wmnats.NewPublisher(
		wmnats.PublisherConfig{
			URL:         cfg.URL,
			NatsOptions: options,
			Marshaler:   &wmnats.NATSMarshaler{},
			JetStream: wmnats.JetStreamConfig{
				Disabled:      false,
				AutoProvision: false,
				TrackMsgId:    true,
			},
			SubjectCalculator: wmnats.DefaultSubjectCalculator,
		},
		watermill.NewSlogLogger(logger),
	)
	if err != nil {
		natsConn.Close()
		logger.Error("Failed to create Watermill publisher", slog.Any("error", err))
		return nil, fmt.Errorf("failed to create Watermill publisher: %w", err)
	}

	logger.InfoContext(ctx, "Event bus connected to NATS", slog.String("stream", StreamName))

	return &EventBus{
		publisher: publisher,
		natsConn:  natsConn,
		logger:    logger,
	}, nil
}

// NewInMemoryEventBus returns an event bus that delivers messages to
// in-process subscribers only. Messages without subscribers are dropped.
func NewInMemoryEventBus(logger *slog.Logger) *EventBus {
	pubSub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 64,
	}, watermill.NewSlogLogger(logger))

	return &EventBus{
		publisher:  pubSub,
		subscriber: pubSub,
		logger:     logger,
	}
}

func nkeyOption(seed string) (nc.Option, error) {
	kp, err := nkeys.FromSeed([]byte(seed))
	if err != nil {
		return nil, fmt.Errorf("failed to parse NATS nkey seed: %w", err)
	}
	pub, err := kp.PublicKey()
	if err != nil {
		return nil, fmt.Errorf("failed to derive NATS public key: %w", err)
	}
	return nc.Nkey(pub, kp.Sign), nil
}

// ensureStream creates the lifecycle stream on first start.
func ensureStream(ctx context.Context, js jetstream.JetStream, logger *slog.Logger) error {
	_, err := js.Stream(ctx, StreamName)
	if err == nil {
		return nil
	}
	if !errors.Is(err, jetstream.ErrStreamNotFound) {
		return fmt.Errorf("failed to check stream: %w", err)
	}

	_, err = js.CreateStream(ctx, jetstream.StreamConfig{
		Name:     StreamName,
		Subjects: []string{"mint.>"},
		MaxAge:   7 * 24 * time.Hour,
	})
	if err != nil {
		logger.Error("Failed to create JetStream stream", slog.String("stream", StreamName), slog.Any("error", err))
		return fmt.Errorf("failed to create stream: %w", err)
	}
	logger.Info("Created JetStream stream", slog.String("stream", StreamName))
	return nil
}

// Publish marshals payload as JSON and publishes it on topic.
func (eb *EventBus) Publish(ctx context.Context, topic string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", topic, err)
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set("topic", topic)
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		msg.Metadata.Set("correlation_id", reqID)
	}
	msg.SetContext(ctx)

	if err := eb.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", topic, err)
	}

	eb.logger.DebugContext(ctx, "Message published",
		slog.String("topic", topic),
		slog.String("message_id", msg.UUID),
	)
	return nil
}

// Subscribe returns a channel of messages for topic. Only the in-process
// transport supports subscriptions.
func (eb *EventBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	if eb.subscriber == nil {
		return nil, errors.New("event bus has no subscriber")
	}
	return eb.subscriber.Subscribe(ctx, topic)
}

// Close releases the publisher and the NATS connection.
func (eb *EventBus) Close() error {
	var errs []error
	if err := eb.publisher.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close publisher: %w", err))
	}
	if eb.natsConn != nil {
		eb.natsConn.Close()
	}
	return errors.Join(errs...)
}

package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"storeapi/internal/api/events"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// NATSBridge publishes change events on <prefix>.<resource>.<action> and
// relays every event seen on <prefix>.> into the Hub, so that clients of
// every instance receive them.
type NATSBridge struct {
	conn   *nats.Conn
	hub    *Hub
	prefix string
	logger zerolog.Logger
}

func NewNATSBridge(natsURL, prefix string, hub *Hub, logger zerolog.Logger) (*NATSBridge, error) {
	nc, err := nats.Connect(natsURL, nats.Name("storeapi"))
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return &NATSBridge{conn: nc, hub: hub, prefix: prefix, logger: logger}, nil
}

func (b *NATSBridge) Publish(_ context.Context, event events.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error().Err(err).Msg("nats: marshal event")
		return
	}
	if err := b.conn.Publish(Subject(b.prefix, event), data); err != nil {
		b.logger.Error().Err(err).Str("resource", event.Resource).Msg("nats: publish event")
	}
}

// Subscribe relays <prefix>.> into the hub.
func (b *NATSBridge) Subscribe(ctx context.Context) error {
	subject := b.prefix + ".>"
	_, err := b.conn.Subscribe(subject, func(msg *nats.Msg) {
		resource, err := ResourceFromSubject(b.prefix, msg.Subject)
		if err != nil {
			b.logger.Warn().Err(err).Str("subject", msg.Subject).Msg("nats: bad subject")
			return
		}
		b.hub.Relay(ctx, resource, msg.Data)
	})
	if err != nil {
		return fmt.Errorf("nats subscribe %q: %w", subject, err)
	}

	b.logger.Info().Str("subject", subject).Msg("NATS bridge subscribed")
	return nil
}

// Close drains the NATS connection.
func (b *NATSBridge) Close() {
	if err := b.conn.Drain(); err != nil {
		b.logger.Warn().Err(err).Msg("nats drain")
	}
}

func Subject(prefix string, event events.Event) string {
	return fmt.Sprintf("%s.%s.%s", prefix, event.Resource, event.Action)
}

// ResourceFromSubject extracts the resource from "<prefix>.<resource>.<action>".
func ResourceFromSubject(prefix, subject string) (string, error) {
	rest, ok := strings.CutPrefix(subject, prefix+".")
	if !ok {
		return "", fmt.Errorf("subject %q outside prefix %q", subject, prefix)
	}
	parts := strings.Split(rest, ".")
	if len(parts) != 2 || parts[0] == "" {
		return "", fmt.Errorf("expected <resource>.<action>, got %q", rest)
	}
	return parts[0], nil
}

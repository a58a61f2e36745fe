package sync

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/nats-io/nats.go"
)

// NATSNotifier distributes invalidation events over a NATS subject.
type NATSNotifier struct {
	conn    *nats.Conn
	subject string
	logger  *slog.Logger
}

func NewNATSNotifier(url string, subject string, logger *slog.Logger) (*NATSNotifier, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, err
	}

	logger.Info("NATS notifier initialized", "url", url, "subject", subject)

	return &NATSNotifier{
		conn:    nc,
		subject: subject,
		logger:  logger,
	}, nil
}

func (n *NATSNotifier) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		n.logger.Error("failed to marshal event", "error", err)
		return err
	}

	if err := n.conn.Publish(n.subject, data); err != nil {
		n.logger.Error("failed to publish event to NATS", "error", err)
		return err
	}

	n.logger.Info("event published to NATS", "subject", n.subject, "kind", event.Kind)
	return nil
}

func (n *NATSNotifier) Subscribe(handler func(Event)) (func(), error) {
	sub, err := n.conn.Subscribe(n.subject, func(msg *nats.Msg) {
		var event Event
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			n.logger.Error("failed to unmarshal event", "error", err)
			return
		}
		handler(event)
	})
	if err != nil {
		return nil, err
	}

	n.logger.Info("NATS notifier subscribed", "subject", n.subject)

	return func() {
		sub.Unsubscribe()
	}, nil
}

func (n *NATSNotifier) Close() error {
	n.conn.Close()
	return nil
}

// HealthCheck verifies the NATS connection is healthy
func (n *NATSNotifier) HealthCheck() error {
	if n.conn == nil {
		return nats.ErrConnectionClosed
	}

	if !n.conn.IsConnected() {
		return nats.ErrDisconnected
	}

	return nil
}

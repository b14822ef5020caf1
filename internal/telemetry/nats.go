package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	natsgo "github.com/nats-io/nats.go"

	"onemax/internal/model"
)

const DefaultSubject = "onemax.generation"

// Publisher is the subset of *nats.Conn used to stream stats.
type Publisher interface {
	Publish(subject string, data []byte) error
}

type NATSPublisher struct {
	conn    Publisher
	subject string
}

func NewNATSPublisher(conn Publisher, subject string) (*NATSPublisher, error) {
	if conn == nil {
		return nil, fmt.Errorf("nats connection is required")
	}
	if nc, ok := conn.(*natsgo.Conn); ok && nc == nil {
		return nil, fmt.Errorf("nats connection is required")
	}
	if subject == "" {
		subject = DefaultSubject
	}
	return &NATSPublisher{conn: conn, subject: subject}, nil
}

func (p *NATSPublisher) Subject() string {
	return p.subject
}

func (p *NATSPublisher) Publish(ctx context.Context, stats model.GenerationStats) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	if err := p.conn.Publish(p.subject, payload); err != nil {
		return fmt.Errorf("publish %s: %w", p.subject, err)
	}
	return nil
}

// ConnectNATS dials url with reconnects enabled and logs connection changes.
func ConnectNATS(url, name string, logger *slog.Logger) (*natsgo.Conn, error) {
	if logger == nil {
		logger = slog.Default()
	}
	nc, err := natsgo.Connect(url,
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(2*time.Second),
		natsgo.Name(name),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			logger.Warn("nats disconnected", "error", err)
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("nats reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats %s: %w", url, err)
	}
	logger.Info("nats connected", "url", nc.ConnectedUrl())
	return nc, nil
}

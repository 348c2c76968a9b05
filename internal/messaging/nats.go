package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"blogapi/internal/domain"
	"blogapi/pkg/logger"
	"blogapi/pkg/metrics"
)

// NATSPublisher publishes domain events on "blogapi.<entity>.<action>".
type NATSPublisher struct {
	conn   *nats.Conn
	logger logger.Logger
}

func NewNATSPublisher(url string, log logger.Logger) (domain.EventPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("blogapi"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn("NATS disconnected", logger.Fields{"error": err.Error()})
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info("NATS reconnected", logger.Fields{"url": c.ConnectedUrl()})
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	log.Info("Connected to NATS", logger.Fields{"url": conn.ConnectedUrl()})
	return &NATSPublisher{conn: conn, logger: log}, nil
}

func (p *NATSPublisher) Publish(ctx context.Context, event *domain.Event) error {
	subject := event.Subject()

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", subject, err)
	}

	err = p.conn.Publish(subject, data)
	metrics.RecordEventPublished(subject, err)
	if err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}

	p.logger.WithContext(ctx).Debug("Event published", logger.Fields{"subject": subject, "entity_id": event.EntityID.Hex()})
	return nil
}

// Close flushes pending messages before closing the connection.
func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}

// NopPublisher drops every event. It is used when NATS_URL is empty.
type NopPublisher struct{}

func NewNopPublisher() domain.EventPublisher {
	return NopPublisher{}
}

func (NopPublisher) Publish(context.Context, *domain.Event) error { return nil }

func (NopPublisher) Close() error { return nil }

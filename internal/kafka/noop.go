package kafka

import (
	"context"
	"log/slog"

	"github.com/avendano/comanda/internal/orders/ports"
)

// NoopPublisher logs notifications without sending them to Kafka. Used when
// no brokers are configured.
type NoopPublisher struct{}

// NewNoopPublisher returns a new no-op notification publisher.
func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

func (n *NoopPublisher) PublishOrderNotification(_ context.Context, notification ports.OrderNotification) error {
	slog.Debug("event::order_notification",
		"order_id", notification.OrderID,
		"total", notification.Total.String(),
		"currency", notification.Currency,
	)
	return nil
}

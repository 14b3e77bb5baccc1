package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// OrderNotification is the payload published to the order_notification topic
// after an order commits.
type OrderNotification struct {
	OrderID  string          `json:"order_id"`
	Address  string          `json:"order_address"`
	Total    decimal.Decimal `json:"order_total"`
	Currency string          `json:"order_currency"`
	Message  string          `json:"message"`
}

// EventPublisher defines the contract for announcing new orders to downstream
// consumers. Publishing is fire-and-forget relative to the caller: failures
// are logged by the application layer and never fail the request.
type EventPublisher interface {
	PublishOrderNotification(ctx context.Context, notification OrderNotification) error
}

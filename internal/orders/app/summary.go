package app

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/avendano/comanda/internal/orders/domain"
)

// LineItemSummary is the read-only projection of one order line.
type LineItemSummary struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// OrderSummary is the read-only projection returned by every order operation.
type OrderSummary struct {
	ID        string            `json:"id"`
	Address   string            `json:"address"`
	Currency  string            `json:"currency"`
	Total     decimal.Decimal   `json:"total"`
	Status    string            `json:"status"`
	Lines     []LineItemSummary `json:"lines"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// NewOrderSummary projects an aggregate for API consumers. names may be nil
// or partial; unknown products keep an empty display name.
func NewOrderSummary(order *domain.Order, names map[domain.ProductID]string) *OrderSummary {
	lines := order.Lines()
	summaries := make([]LineItemSummary, 0, len(lines))
	for _, line := range lines {
		summaries = append(summaries, LineItemSummary{
			ProductID:   line.ProductID.String(),
			ProductName: names[line.ProductID],
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice.Decimal(),
			LineTotal:   line.LineTotal.Decimal(),
		})
	}

	return &OrderSummary{
		ID:        order.ID().String(),
		Address:   order.Address().String(),
		Currency:  order.Currency().String(),
		Total:     order.Total().Decimal(),
		Status:    string(order.Status()),
		Lines:     summaries,
		CreatedAt: order.CreatedAt(),
		UpdatedAt: order.UpdatedAt(),
	}
}

package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/avendano/comanda/internal/orders/domain"
)

// PaymentMethod is the slice of the externally owned payment-method entity
// the ordering workflow needs.
type PaymentMethod struct {
	ID     domain.PaymentMethodID
	Name   string
	Active bool
}

// Product is the catalog projection used to price and describe line items.
// UnitPrice is the price at lookup time; the workflow captures it on the
// order so later catalog changes do not alter historical orders.
type Product struct {
	ID        domain.ProductID
	Name      string
	UnitPrice decimal.Decimal
	Currency  string
}

// PaymentMethodLookup resolves payment-method references. A missing id is
// reported as domain.NotFoundError.
type PaymentMethodLookup interface {
	FindByID(ctx context.Context, id domain.PaymentMethodID) (*PaymentMethod, error)
}

// ProductLookup resolves catalog products for order creation and display.
type ProductLookup interface {
	// FindMany resolves every id in one batch. If any id is unresolved the
	// whole call fails with domain.NotFoundError listing the missing ids.
	FindMany(ctx context.Context, ids []domain.ProductID) ([]Product, error)
	// DisplayNames is the tolerant variant used for read projections: ids of
	// since-deleted products are simply absent from the result.
	DisplayNames(ctx context.Context, ids []domain.ProductID) (map[domain.ProductID]string, error)
}

package ports

import (
	"context"

	"github.com/avendano/comanda/internal/orders/domain"
)

// OrderRepository exposes persistence operations required by the application
// layer. Save must persist the order header and its line items atomically.
// UpdateStatus is a compare-and-swap on the status column: it fails with
// domain.ConflictError when the stored status no longer matches from.
type OrderRepository interface {
	Save(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id domain.OrderID) (*domain.Order, error)
	List(ctx context.Context, filter ListFilter) ([]*domain.Order, error)
	UpdateFields(ctx context.Context, order *domain.Order) error
	UpdateStatus(ctx context.Context, id domain.OrderID, from, to domain.OrderStatus) error
	Remove(ctx context.Context, id domain.OrderID) error
}

// ListFilter narrows list queries by status and pagination. Pagination is
// 1-based.
type ListFilter struct {
	Status   *domain.OrderStatus
	Page     int
	PageSize int
}

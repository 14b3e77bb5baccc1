package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/avendano/comanda/internal/orders/domain"
	"github.com/avendano/comanda/internal/orders/ports"
)

// record is the stored snapshot of one order. Keeping raw fields instead of
// the aggregate itself means reads always hand back a fresh aggregate and
// writers cannot mutate stored state behind the repository's back.
type record struct {
	id              string
	address         string
	currency        string
	total           decimal.Decimal
	paymentMethodID string
	userID          string
	status          domain.OrderStatus
	lines           []domain.OrderLine
	createdAt       time.Time
	updatedAt       time.Time
}

// Repository provides an in-memory store useful for local development and tests.
type Repository struct {
	mu     sync.RWMutex
	orders map[string]record
}

// NewRepository constructs a new in-memory repository.
func NewRepository() *Repository {
	return &Repository{orders: make(map[string]record)}
}

// Save stores the order header and lines as one unit.
func (r *Repository) Save(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID().String()] = snapshot(order)
	return nil
}

// GetByID rebuilds a single order by identifier.
func (r *Repository) GetByID(_ context.Context, id domain.OrderID) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.orders[id.String()]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "order", IDs: []string{id.String()}}
	}
	return rehydrate(rec)
}

// List returns orders respecting the provided filter, newest first.
// Pagination is 1-based.
func (r *Repository) List(_ context.Context, filter ports.ListFilter) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []record
	for _, rec := range r.orders {
		if filter.Status != nil && rec.status != *filter.Status {
			continue
		}
		matched = append(matched, rec)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].createdAt.After(matched[j].createdAt)
	})

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	start := (page - 1) * pageSize
	if start >= len(matched) {
		return []*domain.Order{}, nil
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}

	orders := make([]*domain.Order, 0, end-start)
	for _, rec := range matched[start:end] {
		order, err := rehydrate(rec)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	return orders, nil
}

// UpdateFields overwrites the editable header fields.
func (r *Repository) UpdateFields(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.orders[order.ID().String()]
	if !ok {
		return &domain.NotFoundError{Entity: "order", IDs: []string{order.ID().String()}}
	}

	rec.address = order.Address().String()
	rec.currency = order.Currency().String()
	rec.paymentMethodID = order.PaymentMethodID().String()
	rec.updatedAt = order.UpdatedAt()
	r.orders[order.ID().String()] = rec
	return nil
}

// UpdateStatus applies the transition only if the stored status still equals
// from, mirroring the compare-and-swap the SQL adapter performs.
func (r *Repository) UpdateStatus(_ context.Context, id domain.OrderID, from, to domain.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.orders[id.String()]
	if !ok {
		return &domain.NotFoundError{Entity: "order", IDs: []string{id.String()}}
	}
	if rec.status != from {
		return &domain.ConflictError{OrderID: id.String(), Expected: from}
	}

	rec.status = to
	rec.updatedAt = time.Now().UTC()
	r.orders[id.String()] = rec
	return nil
}

// Remove hard-deletes the order and its lines.
func (r *Repository) Remove(_ context.Context, id domain.OrderID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[id.String()]; !ok {
		return &domain.NotFoundError{Entity: "order", IDs: []string{id.String()}}
	}
	delete(r.orders, id.String())
	return nil
}

func snapshot(order *domain.Order) record {
	return record{
		id:              order.ID().String(),
		address:         order.Address().String(),
		currency:        order.Currency().String(),
		total:           order.Total().Decimal(),
		paymentMethodID: order.PaymentMethodID().String(),
		userID:          order.UserID().String(),
		status:          order.Status(),
		lines:           order.Lines(),
		createdAt:       order.CreatedAt(),
		updatedAt:       order.UpdatedAt(),
	}
}

func rehydrate(rec record) (*domain.Order, error) {
	lines := make([]domain.OrderLine, len(rec.lines))
	copy(lines, rec.lines)
	return domain.Reconstitute(
		rec.id, rec.address, rec.currency,
		rec.total,
		rec.paymentMethodID, rec.userID, string(rec.status),
		lines,
		rec.createdAt, rec.updatedAt,
	)
}

package queries

import (
	"context"

	"github.com/avendano/comanda/internal/orders/domain"
	"github.com/avendano/comanda/internal/orders/ports"
)

// ListOrdersQuery pages through orders, optionally filtered by status.
type ListOrdersQuery struct {
	Status   string
	Page     int
	PageSize int
}

func (q ListOrdersQuery) Validate() error {
	if q.Status != "" {
		if _, err := domain.ParseStatus(q.Status); err != nil {
			return err
		}
	}
	if q.Page < 0 {
		return &domain.ValidationError{Field: "page", Reason: "must not be negative"}
	}
	if q.PageSize < 0 {
		return &domain.ValidationError{Field: "page_size", Reason: "must not be negative"}
	}
	return nil
}

// ListOrdersQueryHandler executes ListOrdersQuery against the repository.
type ListOrdersQueryHandler struct {
	repo ports.OrderRepository
}

func NewListOrdersQueryHandler(repo ports.OrderRepository) *ListOrdersQueryHandler {
	return &ListOrdersQueryHandler{repo: repo}
}

func (h *ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]*domain.Order, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	filter := ports.ListFilter{
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	if query.Status != "" {
		status, err := domain.ParseStatus(query.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = &status
	}

	return h.repo.List(ctx, filter)
}

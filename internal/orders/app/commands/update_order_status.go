package commands

import (
	"context"

	"github.com/avendano/comanda/internal/orders/domain"
	"github.com/avendano/comanda/internal/orders/metrics"
	"github.com/avendano/comanda/internal/orders/ports"
)

type UpdateOrderStatusCommand struct {
	OrderID string
	Status  string
}

func (c UpdateOrderStatusCommand) Validate() error {
	if _, err := domain.ParseOrderID(c.OrderID); err != nil {
		return err
	}
	if _, err := domain.ParseStatus(c.Status); err != nil {
		return err
	}
	return nil
}

type UpdateOrderStatusCommandHandler struct {
	repo    ports.OrderRepository
	metrics *metrics.Metrics
}

func NewUpdateOrderStatusCommandHandler(repo ports.OrderRepository, metrics *metrics.Metrics) *UpdateOrderStatusCommandHandler {
	return &UpdateOrderStatusCommandHandler{repo: repo, metrics: metrics}
}

// Handle loads the aggregate, walks the state machine in memory, then
// persists the transition with a compare-and-swap on the loaded status.
// A concurrent transition that commits first surfaces as domain.ConflictError.
func (h *UpdateOrderStatusCommandHandler) Handle(ctx context.Context, cmd UpdateOrderStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	orderID, err := domain.ParseOrderID(cmd.OrderID)
	if err != nil {
		return err
	}
	next, err := domain.ParseStatus(cmd.Status)
	if err != nil {
		return err
	}

	order, err := h.repo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}

	from := order.Status()
	if err := order.TransitionTo(next); err != nil {
		return err
	}

	if err := h.repo.UpdateStatus(ctx, orderID, from, next); err != nil {
		return err
	}

	if h.metrics != nil {
		h.metrics.RecordStatusTransition(ctx, string(from), string(next))
	}

	order.ClearEvents()

	return nil
}

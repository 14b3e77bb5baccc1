package commands

import (
	"context"

	"github.com/avendano/comanda/internal/orders/domain"
	"github.com/avendano/comanda/internal/orders/ports"
)

type DeleteOrderCommand struct {
	OrderID string
}

func (c DeleteOrderCommand) Validate() error {
	_, err := domain.ParseOrderID(c.OrderID)
	return err
}

type DeleteOrderCommandHandler struct {
	repo ports.OrderRepository
}

func NewDeleteOrderCommandHandler(repo ports.OrderRepository) *DeleteOrderCommandHandler {
	return &DeleteOrderCommandHandler{repo: repo}
}

// Handle removes the order and its lines. Deletion is hard: there is no
// tombstone to resurrect from.
func (h *DeleteOrderCommandHandler) Handle(ctx context.Context, cmd DeleteOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	orderID, err := domain.ParseOrderID(cmd.OrderID)
	if err != nil {
		return err
	}

	return h.repo.Remove(ctx, orderID)
}

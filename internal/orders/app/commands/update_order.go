package commands

import (
	"context"
	"fmt"

	"github.com/avendano/comanda/internal/orders/domain"
	"github.com/avendano/comanda/internal/orders/ports"
)

// UpdateOrderCommand carries a partial edit of a CREATED order. Nil fields
// are left untouched.
type UpdateOrderCommand struct {
	OrderID         string
	Address         *string
	Currency        *string
	PaymentMethodID *string
}

func (c UpdateOrderCommand) Validate() error {
	if _, err := domain.ParseOrderID(c.OrderID); err != nil {
		return err
	}
	if c.Address == nil && c.Currency == nil && c.PaymentMethodID == nil {
		return &domain.ValidationError{Field: "body", Reason: "must contain at least one updatable field"}
	}
	return nil
}

type UpdateOrderCommandHandler struct {
	repo ports.OrderRepository
}

func NewUpdateOrderCommandHandler(repo ports.OrderRepository) *UpdateOrderCommandHandler {
	return &UpdateOrderCommandHandler{repo: repo}
}

// Handle loads the aggregate, applies each requested field update through its
// own method, and persists the header. The aggregate enforces that edits are
// CREATED-only; its errors propagate unmodified.
func (h *UpdateOrderCommandHandler) Handle(ctx context.Context, cmd UpdateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	orderID, err := domain.ParseOrderID(cmd.OrderID)
	if err != nil {
		return err
	}

	order, err := h.repo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}

	if cmd.Address != nil {
		if err := order.UpdateAddress(*cmd.Address); err != nil {
			return err
		}
	}
	if cmd.Currency != nil {
		if err := order.UpdateCurrency(*cmd.Currency); err != nil {
			return err
		}
	}
	if cmd.PaymentMethodID != nil {
		if err := order.UpdatePaymentMethod(*cmd.PaymentMethodID); err != nil {
			return err
		}
	}

	if err := h.repo.UpdateFields(ctx, order); err != nil {
		return fmt.Errorf("update order: %w", err)
	}

	return nil
}

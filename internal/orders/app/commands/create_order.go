package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/avendano/comanda/internal/orders/domain"
	"github.com/avendano/comanda/internal/orders/ports"
)

// orderConfirmationMessage is the static text carried by every
// order_notification event.
const orderConfirmationMessage = "Your order is ready to be served"

type CreateOrderLine struct {
	ProductID string
	Quantity  int
}

type CreateOrderCommand struct {
	Address         string
	Currency        string
	PaymentMethodID string
	UserID          string
	Lines           []CreateOrderLine
}

// Validate rejects malformed commands at the boundary, before any
// collaborator is consulted.
func (c CreateOrderCommand) Validate() error {
	if _, err := domain.NewAddress(c.Address); err != nil {
		return err
	}
	if _, err := domain.NewCurrency(c.Currency); err != nil {
		return err
	}
	if _, err := domain.ParsePaymentMethodID(c.PaymentMethodID); err != nil {
		return err
	}
	if _, err := domain.ParseUserID(c.UserID); err != nil {
		return err
	}
	if len(c.Lines) == 0 {
		return &domain.ValidationError{Field: "lines", Reason: "must not be empty"}
	}
	for _, line := range c.Lines {
		if _, err := domain.ParseProductID(line.ProductID); err != nil {
			return err
		}
		if line.Quantity <= 0 {
			return &domain.ValidationError{Field: "quantity", Reason: "must be greater than zero"}
		}
	}
	return nil
}

type CommandHandler interface {
	Handle(ctx context.Context, cmd CreateOrderCommand) (*domain.Order, error)
}

type CreateOrderCommandHandler struct {
	repo     ports.OrderRepository
	payments ports.PaymentMethodLookup
	products ports.ProductLookup
	events   ports.EventPublisher
	logger   *slog.Logger
}

func NewCreateOrderCommandHandler(
	repo ports.OrderRepository,
	payments ports.PaymentMethodLookup,
	products ports.ProductLookup,
	events ports.EventPublisher,
	logger *slog.Logger,
) *CreateOrderCommandHandler {
	return &CreateOrderCommandHandler{
		repo:     repo,
		payments: payments,
		products: products,
		events:   events,
		logger:   logger,
	}
}

// Handle runs the creation workflow: resolve the payment method, resolve all
// products in one batch, build the aggregate with prices captured at order
// time, persist atomically, then publish the notification. Any failure before
// the save leaves no trace; a publish failure is logged and swallowed.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*domain.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	paymentMethodID, err := domain.ParsePaymentMethodID(cmd.PaymentMethodID)
	if err != nil {
		return nil, err
	}
	if _, err := h.payments.FindByID(ctx, paymentMethodID); err != nil {
		return nil, err
	}

	productIDs := make([]domain.ProductID, 0, len(cmd.Lines))
	for _, line := range cmd.Lines {
		productID, err := domain.ParseProductID(line.ProductID)
		if err != nil {
			return nil, err
		}
		productIDs = append(productIDs, productID)
	}

	resolved, err := h.products.FindMany(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	productsByID := make(map[domain.ProductID]ports.Product, len(resolved))
	for _, product := range resolved {
		productsByID[product.ID] = product
	}

	order, err := domain.NewOrder(cmd.Address, cmd.Currency, cmd.PaymentMethodID, cmd.UserID)
	if err != nil {
		return nil, err
	}

	for _, line := range cmd.Lines {
		product := productsByID[domain.ProductID(line.ProductID)]
		if err := order.AddLine(line.ProductID, line.Quantity, product.UnitPrice); err != nil {
			return nil, err
		}
	}

	if err := h.repo.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("save order: %w", err)
	}

	notification := ports.OrderNotification{
		OrderID:  order.ID().String(),
		Address:  order.Address().String(),
		Total:    order.Total().Decimal(),
		Currency: order.Currency().String(),
		Message:  orderConfirmationMessage,
	}
	if err := h.events.PublishOrderNotification(ctx, notification); err != nil {
		h.logger.WarnContext(ctx, "order notification publish failed",
			"order_id", order.ID().String(),
			"error", err,
		)
	}

	order.ClearEvents()

	return order, nil
}

package app

import (
	"context"
	"log/slog"

	"github.com/avendano/comanda/internal/orders/app/commands"
	"github.com/avendano/comanda/internal/orders/app/queries"
	"github.com/avendano/comanda/internal/orders/domain"
	"github.com/avendano/comanda/internal/orders/metrics"
	"github.com/avendano/comanda/internal/orders/ports"
)

// Service bundles use cases for handling orders via the API.
type Service struct {
	products  ports.ProductLookup
	idemStore ports.IdempotencyStore
	logger    *slog.Logger

	createOrderHandler  commands.CommandHandler
	updateOrderHandler  *commands.UpdateOrderCommandHandler
	updateStatusHandler *commands.UpdateOrderStatusCommandHandler
	deleteOrderHandler  *commands.DeleteOrderCommandHandler
	getOrderHandler     *queries.GetOrderQueryHandler
	listOrdersHandler   *queries.ListOrdersQueryHandler
}

// NewService wires required dependencies.
func NewService(
	repo ports.OrderRepository,
	payments ports.PaymentMethodLookup,
	products ports.ProductLookup,
	events ports.EventPublisher,
	idem ports.IdempotencyStore,
	logger *slog.Logger,
	metrics *metrics.Metrics,
) *Service {
	coreHandler := commands.NewCreateOrderCommandHandler(repo, payments, products, events, logger)
	observableHandler := commands.NewObservableCommandHandler(coreHandler, logger, metrics)

	return &Service{
		products:            products,
		idemStore:           idem,
		logger:              logger,
		createOrderHandler:  observableHandler,
		updateOrderHandler:  commands.NewUpdateOrderCommandHandler(repo),
		updateStatusHandler: commands.NewUpdateOrderStatusCommandHandler(repo, metrics),
		deleteOrderHandler:  commands.NewDeleteOrderCommandHandler(repo),
		getOrderHandler:     queries.NewGetOrderQueryHandler(repo),
		listOrdersHandler:   queries.NewListOrdersQueryHandler(repo),
	}
}

// CreateOrderLineInput is one product/quantity selection from the cart.
type CreateOrderLineInput struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CreateOrderInput captures payload for creating an order.
type CreateOrderInput struct {
	Address         string                 `json:"address"`
	Currency        string                 `json:"currency"`
	PaymentMethodID string                 `json:"payment_method_id"`
	UserID          string                 `json:"user_id"`
	Lines           []CreateOrderLineInput `json:"lines"`
}

// UpdateOrderInput is a partial edit of a CREATED order.
type UpdateOrderInput struct {
	Address         *string `json:"address"`
	Currency        *string `json:"currency"`
	PaymentMethodID *string `json:"payment_method_id"`
}

// CreateOrder orchestrates order creation and notification publishing.
func (s *Service) CreateOrder(ctx context.Context, input CreateOrderInput) (*OrderSummary, error) {
	cmd := commands.CreateOrderCommand{
		Address:         input.Address,
		Currency:        input.Currency,
		PaymentMethodID: input.PaymentMethodID,
		UserID:          input.UserID,
	}
	for _, line := range input.Lines {
		cmd.Lines = append(cmd.Lines, commands.CreateOrderLine{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		})
	}

	order, err := s.createOrderHandler.Handle(ctx, cmd)
	if err != nil {
		return nil, err
	}

	return s.summarize(ctx, order), nil
}

// GetOrder retrieves an order by ID.
func (s *Service) GetOrder(ctx context.Context, id string) (*OrderSummary, error) {
	order, err := s.getOrderHandler.Handle(ctx, queries.GetOrderQuery{OrderID: id})
	if err != nil {
		return nil, err
	}
	return s.summarize(ctx, order), nil
}

// ListOrders returns order summaries using a filter.
func (s *Service) ListOrders(ctx context.Context, query queries.ListOrdersQuery) ([]OrderSummary, error) {
	orders, err := s.listOrdersHandler.Handle(ctx, query)
	if err != nil {
		return nil, err
	}

	summaries := make([]OrderSummary, 0, len(orders))
	for _, order := range orders {
		summaries = append(summaries, *s.summarize(ctx, order))
	}
	return summaries, nil
}

// UpdateOrder applies a partial field update to a CREATED order.
func (s *Service) UpdateOrder(ctx context.Context, id string, input UpdateOrderInput) error {
	return s.updateOrderHandler.Handle(ctx, commands.UpdateOrderCommand{
		OrderID:         id,
		Address:         input.Address,
		Currency:        input.Currency,
		PaymentMethodID: input.PaymentMethodID,
	})
}

// UpdateOrderStatus transitions an order along the status state machine.
func (s *Service) UpdateOrderStatus(ctx context.Context, id, status string) error {
	return s.updateStatusHandler.Handle(ctx, commands.UpdateOrderStatusCommand{
		OrderID: id,
		Status:  status,
	})
}

// DeleteOrder removes an order and its line items.
func (s *Service) DeleteOrder(ctx context.Context, id string) error {
	return s.deleteOrderHandler.Handle(ctx, commands.DeleteOrderCommand{OrderID: id})
}

// SaveIdempotentResponse writes response details for a key.
func (s *Service) SaveIdempotentResponse(ctx context.Context, key string, response ports.StoredResponse) error {
	return s.idemStore.Save(ctx, key, response)
}

// GetIdempotentResponse retrieves previously stored response data.
func (s *Service) GetIdempotentResponse(ctx context.Context, key string) (*ports.StoredResponse, error) {
	return s.idemStore.Get(ctx, key)
}

// summarize builds the read-only projection, decorating line items with
// catalog display names when available. Name resolution is best-effort:
// an order must stay readable after its products leave the catalog.
func (s *Service) summarize(ctx context.Context, order *domain.Order) *OrderSummary {
	lines := order.Lines()
	ids := make([]domain.ProductID, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}

	names, err := s.products.DisplayNames(ctx, ids)
	if err != nil {
		s.logger.DebugContext(ctx, "product display names unavailable",
			"order_id", order.ID().String(),
			"error", err,
		)
		names = nil
	}

	return NewOrderSummary(order, names)
}

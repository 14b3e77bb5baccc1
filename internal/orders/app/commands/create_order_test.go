package commands_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/avendano/comanda/internal/orders/app/commands"
	"github.com/avendano/comanda/internal/orders/domain"
	"github.com/avendano/comanda/internal/orders/ports"
)

const (
	testPaymentMethodID = "3f0a6f2a-6f0e-4f2e-9a3c-1d2e3f4a5b6c"
	testUserID          = "7c9e6679-7425-40de-944b-e07fc1f90ae7"
	testProductID       = "b5f8c3d2-1a2b-4c3d-8e9f-0a1b2c3d4e5f"
	testProductID2      = "d4c3b2a1-5e6f-4a3b-9c8d-7e6f5a4b3c2d"
)

type mockRepository struct {
	saveFn         func(ctx context.Context, order *domain.Order) error
	getByIDFn      func(ctx context.Context, id domain.OrderID) (*domain.Order, error)
	updateFieldsFn func(ctx context.Context, order *domain.Order) error
	updateStatusFn func(ctx context.Context, id domain.OrderID, from, to domain.OrderStatus) error
	removeFn       func(ctx context.Context, id domain.OrderID) error
}

func (m *mockRepository) Save(ctx context.Context, order *domain.Order) error {
	if m.saveFn != nil {
		return m.saveFn(ctx, order)
	}
	return nil
}

func (m *mockRepository) GetByID(ctx context.Context, id domain.OrderID) (*domain.Order, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, &domain.NotFoundError{Entity: "order", IDs: []string{id.String()}}
}

func (m *mockRepository) List(ctx context.Context, filter ports.ListFilter) ([]*domain.Order, error) {
	return nil, nil
}

func (m *mockRepository) UpdateFields(ctx context.Context, order *domain.Order) error {
	if m.updateFieldsFn != nil {
		return m.updateFieldsFn(ctx, order)
	}
	return nil
}

func (m *mockRepository) UpdateStatus(ctx context.Context, id domain.OrderID, from, to domain.OrderStatus) error {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, from, to)
	}
	return nil
}

func (m *mockRepository) Remove(ctx context.Context, id domain.OrderID) error {
	if m.removeFn != nil {
		return m.removeFn(ctx, id)
	}
	return nil
}

type mockPaymentMethodLookup struct {
	findByIDFn func(ctx context.Context, id domain.PaymentMethodID) (*ports.PaymentMethod, error)
}

func (m *mockPaymentMethodLookup) FindByID(ctx context.Context, id domain.PaymentMethodID) (*ports.PaymentMethod, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return &ports.PaymentMethod{ID: id, Name: "card", Active: true}, nil
}

type mockProductLookup struct {
	findManyFn func(ctx context.Context, ids []domain.ProductID) ([]ports.Product, error)
}

func (m *mockProductLookup) FindMany(ctx context.Context, ids []domain.ProductID) ([]ports.Product, error) {
	if m.findManyFn != nil {
		return m.findManyFn(ctx, ids)
	}
	products := make([]ports.Product, 0, len(ids))
	for _, id := range ids {
		products = append(products, ports.Product{ID: id, Name: "item", UnitPrice: decimal.RequireFromString("5.00")})
	}
	return products, nil
}

func (m *mockProductLookup) DisplayNames(ctx context.Context, ids []domain.ProductID) (map[domain.ProductID]string, error) {
	names := make(map[domain.ProductID]string, len(ids))
	for _, id := range ids {
		names[id] = "item"
	}
	return names, nil
}

type mockEventPublisher struct {
	publishFn func(ctx context.Context, notification ports.OrderNotification) error
	published []ports.OrderNotification
}

func (m *mockEventPublisher) PublishOrderNotification(ctx context.Context, notification ports.OrderNotification) error {
	m.published = append(m.published, notification)
	if m.publishFn != nil {
		return m.publishFn(ctx, notification)
	}
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validCreateOrderCommand() commands.CreateOrderCommand {
	return commands.CreateOrderCommand{
		Address:         "123 Main St",
		Currency:        "USD",
		PaymentMethodID: testPaymentMethodID,
		UserID:          testUserID,
		Lines: []commands.CreateOrderLine{
			{ProductID: testProductID, Quantity: 2},
			{ProductID: testProductID2, Quantity: 1},
		},
	}
}

func TestCreateOrder(t *testing.T) {
	t.Run("creates order with prices captured from the catalog", func(t *testing.T) {
		repo := &mockRepository{}
		products := &mockProductLookup{
			findManyFn: func(ctx context.Context, ids []domain.ProductID) ([]ports.Product, error) {
				return []ports.Product{
					{ID: domain.ProductID(testProductID), Name: "empanada", UnitPrice: decimal.RequireFromString("5.00")},
					{ID: domain.ProductID(testProductID2), Name: "arepa", UnitPrice: decimal.RequireFromString("10.00")},
				}, nil
			},
		}
		events := &mockEventPublisher{}
		handler := commands.NewCreateOrderCommandHandler(repo, &mockPaymentMethodLookup{}, products, events, discardLogger())

		order, err := handler.Handle(context.Background(), validCreateOrderCommand())
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}

		if order.Status() != domain.StatusCreated {
			t.Errorf("expected status %s, got %s", domain.StatusCreated, order.Status())
		}
		if got := order.Total().String(); got != "20.00" {
			t.Errorf("expected total 20.00, got %s", got)
		}
		if len(order.Lines()) != 2 {
			t.Fatalf("expected 2 lines, got %d", len(order.Lines()))
		}
		if got := order.Lines()[0].UnitPrice.String(); got != "5.00" {
			t.Errorf("expected first line unit price 5.00, got %s", got)
		}
		if len(order.Events()) != 0 {
			t.Error("expected domain events to be drained after the workflow")
		}
	})

	t.Run("publishes the confirmation notification after persisting", func(t *testing.T) {
		var saved *domain.Order
		repo := &mockRepository{
			saveFn: func(ctx context.Context, order *domain.Order) error {
				saved = order
				return nil
			},
		}
		events := &mockEventPublisher{}
		handler := commands.NewCreateOrderCommandHandler(repo, &mockPaymentMethodLookup{}, &mockProductLookup{}, events, discardLogger())

		order, err := handler.Handle(context.Background(), validCreateOrderCommand())
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}

		if saved == nil {
			t.Fatal("expected order to be saved")
		}
		if len(events.published) != 1 {
			t.Fatalf("expected 1 notification, got %d", len(events.published))
		}
		notification := events.published[0]
		if notification.OrderID != order.ID().String() {
			t.Errorf("expected notification order id %s, got %s", order.ID(), notification.OrderID)
		}
		if notification.Message != "Your order is ready to be served" {
			t.Errorf("unexpected notification message: %q", notification.Message)
		}
		if !notification.Total.Equal(order.Total().Decimal()) {
			t.Errorf("expected notification total %s, got %s", order.Total(), notification.Total)
		}
	})

	t.Run("fails when the payment method does not exist", func(t *testing.T) {
		saveCalled := false
		repo := &mockRepository{
			saveFn: func(ctx context.Context, order *domain.Order) error {
				saveCalled = true
				return nil
			},
		}
		payments := &mockPaymentMethodLookup{
			findByIDFn: func(ctx context.Context, id domain.PaymentMethodID) (*ports.PaymentMethod, error) {
				return nil, &domain.NotFoundError{Entity: "payment method", IDs: []string{id.String()}}
			},
		}
		handler := commands.NewCreateOrderCommandHandler(repo, payments, &mockProductLookup{}, &mockEventPublisher{}, discardLogger())

		order, err := handler.Handle(context.Background(), validCreateOrderCommand())

		var notFoundErr *domain.NotFoundError
		if !errors.As(err, &notFoundErr) {
			t.Fatalf("expected *domain.NotFoundError, got %v", err)
		}
		if order != nil {
			t.Errorf("expected nil order, got %+v", order)
		}
		if saveCalled {
			t.Error("expected save not to be called")
		}
	})

	t.Run("fails listing every missing product", func(t *testing.T) {
		saveCalled := false
		repo := &mockRepository{
			saveFn: func(ctx context.Context, order *domain.Order) error {
				saveCalled = true
				return nil
			},
		}
		products := &mockProductLookup{
			findManyFn: func(ctx context.Context, ids []domain.ProductID) ([]ports.Product, error) {
				return nil, &domain.NotFoundError{Entity: "product", IDs: []string{testProductID, testProductID2}}
			},
		}
		handler := commands.NewCreateOrderCommandHandler(repo, &mockPaymentMethodLookup{}, products, &mockEventPublisher{}, discardLogger())

		_, err := handler.Handle(context.Background(), validCreateOrderCommand())

		var notFoundErr *domain.NotFoundError
		if !errors.As(err, &notFoundErr) {
			t.Fatalf("expected *domain.NotFoundError, got %v", err)
		}
		if len(notFoundErr.IDs) != 2 {
			t.Errorf("expected 2 missing ids, got %v", notFoundErr.IDs)
		}
		if saveCalled {
			t.Error("expected save not to be called")
		}
	})

	t.Run("returns validation errors before touching collaborators", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(cmd *commands.CreateOrderCommand)
		}{
			{"empty address", func(cmd *commands.CreateOrderCommand) { cmd.Address = "" }},
			{"unsupported currency", func(cmd *commands.CreateOrderCommand) { cmd.Currency = "JPY" }},
			{"malformed payment method id", func(cmd *commands.CreateOrderCommand) { cmd.PaymentMethodID = "nope" }},
			{"malformed user id", func(cmd *commands.CreateOrderCommand) { cmd.UserID = "nope" }},
			{"no lines", func(cmd *commands.CreateOrderCommand) { cmd.Lines = nil }},
			{"zero quantity", func(cmd *commands.CreateOrderCommand) { cmd.Lines[0].Quantity = 0 }},
			{"malformed product id", func(cmd *commands.CreateOrderCommand) { cmd.Lines[0].ProductID = "nope" }},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				lookupCalled := false
				payments := &mockPaymentMethodLookup{
					findByIDFn: func(ctx context.Context, id domain.PaymentMethodID) (*ports.PaymentMethod, error) {
						lookupCalled = true
						return &ports.PaymentMethod{ID: id}, nil
					},
				}
				handler := commands.NewCreateOrderCommandHandler(&mockRepository{}, payments, &mockProductLookup{}, &mockEventPublisher{}, discardLogger())

				cmd := validCreateOrderCommand()
				tt.mutate(&cmd)

				_, err := handler.Handle(context.Background(), cmd)

				var validationErr *domain.ValidationError
				if !errors.As(err, &validationErr) {
					t.Fatalf("expected *domain.ValidationError, got %v", err)
				}
				if lookupCalled {
					t.Error("expected payment lookup not to be called")
				}
			})
		}
	})

	t.Run("returns error when persistence fails", func(t *testing.T) {
		repoErr := errors.New("connection reset")
		repo := &mockRepository{
			saveFn: func(ctx context.Context, order *domain.Order) error {
				return repoErr
			},
		}
		events := &mockEventPublisher{}
		handler := commands.NewCreateOrderCommandHandler(repo, &mockPaymentMethodLookup{}, &mockProductLookup{}, events, discardLogger())

		order, err := handler.Handle(context.Background(), validCreateOrderCommand())

		if !errors.Is(err, repoErr) {
			t.Fatalf("expected error to wrap repository error, got: %v", err)
		}
		if order != nil {
			t.Errorf("expected nil order, got %+v", order)
		}
		if len(events.published) != 0 {
			t.Error("expected no notification when the save fails")
		}
	})

	t.Run("succeeds even when notification publishing fails", func(t *testing.T) {
		events := &mockEventPublisher{
			publishFn: func(ctx context.Context, notification ports.OrderNotification) error {
				return errors.New("broker unavailable")
			},
		}
		handler := commands.NewCreateOrderCommandHandler(&mockRepository{}, &mockPaymentMethodLookup{}, &mockProductLookup{}, events, discardLogger())

		order, err := handler.Handle(context.Background(), validCreateOrderCommand())
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if order == nil {
			t.Fatal("expected order to be returned despite publish failure")
		}
	})
}

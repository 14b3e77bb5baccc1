package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/avendano/comanda/internal/orders/domain"
	"github.com/avendano/comanda/internal/orders/metrics"
	"github.com/avendano/comanda/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

type ObservableCommandHandler struct {
	handler CommandHandler
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewObservableCommandHandler(handler CommandHandler, logger *slog.Logger, metrics *metrics.Metrics) *ObservableCommandHandler {
	return &ObservableCommandHandler{
		handler: handler,
		logger:  logger,
		metrics: metrics,
	}
}

func (o *ObservableCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, "CreateOrderCommand.Handle")
	defer span.End()

	start := time.Now()
	var success bool
	defer func() {
		duration := time.Since(start).Seconds()
		o.metrics.RecordOrderCreationDuration(ctx, duration)
		o.metrics.RecordOrderCreated(ctx, success)
	}()

	o.logger.InfoContext(ctx, "creating order",
		"user_id", cmd.UserID,
		"currency", cmd.Currency,
		"line_count", len(cmd.Lines),
	)

	order, err := o.handler.Handle(ctx, cmd)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		o.logger.ErrorContext(ctx, "failed to create order",
			"error", err,
			"user_id", cmd.UserID,
		)
		return nil, err
	}

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", order.ID().String()),
		attribute.String("order.currency", order.Currency().String()),
		attribute.String("order.total", order.Total().String()),
		attribute.String("order.status", string(order.Status())),
		attribute.Int("order.line_count", len(order.Lines())),
	)

	o.logger.InfoContext(ctx, "order created successfully",
		"order_id", order.ID().String(),
		"total", order.Total().String(),
	)

	success = true
	telemetry.SetSpanSuccess(span)

	return order, nil
}

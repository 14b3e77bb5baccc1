package adapters

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/avendano/comanda/internal/kafka"
	"github.com/avendano/comanda/internal/orders/ports"
	"github.com/avendano/comanda/internal/telemetry"
)

type ObservableEventPublisher struct {
	publisher ports.EventPublisher
	metrics   *kafka.Metrics
}

func NewObservableEventPublisher(publisher ports.EventPublisher, metrics *kafka.Metrics) *ObservableEventPublisher {
	return &ObservableEventPublisher{
		publisher: publisher,
		metrics:   metrics,
	}
}

func (e *ObservableEventPublisher) PublishOrderNotification(ctx context.Context, notification ports.OrderNotification) error {
	ctx, span := telemetry.StartSpan(ctx, "EventPublisher.PublishOrderNotification")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", notification.OrderID),
		attribute.String("event.type", "order_notification"),
		attribute.String("topic", kafka.OrderNotificationTopic),
	)

	start := time.Now()
	err := e.publisher.PublishOrderNotification(ctx, notification)
	duration := time.Since(start).Seconds()

	e.metrics.RecordPublish(ctx, kafka.OrderNotificationTopic, duration, err == nil)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return err
	}

	telemetry.SetSpanSuccess(span)
	return nil
}

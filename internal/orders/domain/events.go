package domain

import "time"

// Event is a domain event queued on the aggregate. Events are collected by
// the application layer after a successful commit and never fired from
// constructors.
type Event interface {
	EventName() string
}

// OrderCreated is queued when a new order aggregate is constructed.
type OrderCreated struct {
	OrderID    OrderID
	OccurredAt time.Time
}

func (OrderCreated) EventName() string { return "order.created" }

// OrderStatusChanged is queued on every successful status transition.
type OrderStatusChanged struct {
	OrderID    OrderID
	From       OrderStatus
	To         OrderStatus
	OccurredAt time.Time
}

func (OrderStatusChanged) EventName() string { return "order.status_changed" }

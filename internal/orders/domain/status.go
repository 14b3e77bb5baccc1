package domain

// OrderStatus captures the lifecycle of an order in the system.
type OrderStatus string

const (
	StatusCreated   OrderStatus = "CREATED"
	StatusPaid      OrderStatus = "PAID"
	StatusPreparing OrderStatus = "PREPARING"
	StatusReady     OrderStatus = "READY"
	StatusDelivered OrderStatus = "DELIVERED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// allowedTransitions is the full edge set of the order state machine.
// DELIVERED and CANCELLED are terminal.
var allowedTransitions = map[OrderStatus][]OrderStatus{
	StatusCreated:   {StatusPaid, StatusCancelled},
	StatusPaid:      {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusReady, StatusCancelled},
	StatusReady:     {StatusDelivered},
}

func ParseStatus(value string) (OrderStatus, error) {
	switch OrderStatus(value) {
	case StatusCreated, StatusPaid, StatusPreparing, StatusReady, StatusDelivered, StatusCancelled:
		return OrderStatus(value), nil
	default:
		return "", &ValidationError{Field: "status", Reason: "is not a known order status"}
	}
}

// CanTransitionTo reports whether the edge from s to next is allowed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal indicates whether the status admits no further transitions.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

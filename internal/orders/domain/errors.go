package domain

import (
	"fmt"
	"strings"
)

// ValidationError reports a malformed or out-of-range field value.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// NotFoundError reports that a referenced entity does not exist.
type NotFoundError struct {
	Entity string
	IDs    []string
}

func (e *NotFoundError) Error() string {
	if len(e.IDs) == 0 {
		return fmt.Sprintf("%s not found", e.Entity)
	}
	return fmt.Sprintf("%s not found: %s", e.Entity, strings.Join(e.IDs, ", "))
}

// InvalidStateError reports a mutation attempted outside the status that allows it.
type InvalidStateError struct {
	Operation string
	Status    OrderStatus
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s in status %s", e.Operation, e.Status)
}

// InvalidTransitionError reports a status edge outside the allowed set.
type InvalidTransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition %s -> %s", e.From, e.To)
}

// ConflictError reports a concurrent status write that lost the race.
type ConflictError struct {
	OrderID  string
	Expected OrderStatus
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("order %s no longer in status %s", e.OrderID, e.Expected)
}

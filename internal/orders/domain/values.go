package domain

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Address is the delivery address for an order.
type Address string

func NewAddress(value string) (Address, error) {
	if strings.TrimSpace(value) == "" {
		return "", &ValidationError{Field: "address", Reason: "must not be empty"}
	}
	return Address(value), nil
}

func (a Address) String() string { return string(a) }

// Currency is an ISO-4217 code from the supported set.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyMXN Currency = "MXN"
	CurrencyCOP Currency = "COP"
)

var supportedCurrencies = map[Currency]struct{}{
	CurrencyUSD: {},
	CurrencyEUR: {},
	CurrencyGBP: {},
	CurrencyMXN: {},
	CurrencyCOP: {},
}

func NewCurrency(code string) (Currency, error) {
	currency := Currency(strings.ToUpper(strings.TrimSpace(code)))
	if _, ok := supportedCurrencies[currency]; !ok {
		return "", &ValidationError{Field: "currency", Reason: "is not a supported code"}
	}
	return currency, nil
}

func (c Currency) String() string { return string(c) }

// Money is a non-negative amount with at most two decimal places.
type Money struct {
	amount decimal.Decimal
}

func NewMoney(amount decimal.Decimal) (Money, error) {
	if amount.IsNegative() {
		return Money{}, &ValidationError{Field: "amount", Reason: "must not be negative"}
	}
	if amount.Exponent() < -2 {
		return Money{}, &ValidationError{Field: "amount", Reason: "must have at most two decimal places"}
	}
	return Money{amount: amount}, nil
}

func ZeroMoney() Money {
	return Money{amount: decimal.Zero}
}

func (m Money) Decimal() decimal.Decimal { return m.amount }

func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// MulQuantity scales the amount by a line quantity. The result keeps
// two-decimal precision because the multiplier is an integer.
func (m Money) MulQuantity(quantity int) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(quantity)))}
}

func (m Money) Equal(other Money) bool { return m.amount.Equal(other.amount) }

func (m Money) String() string { return m.amount.StringFixed(2) }

// OrderID identifies an order. Generated once at creation.
type OrderID string

func NewOrderID() OrderID { return OrderID(uuid.NewString()) }

func ParseOrderID(value string) (OrderID, error) {
	if _, err := uuid.Parse(value); err != nil {
		return "", &ValidationError{Field: "order_id", Reason: "must be a valid UUID"}
	}
	return OrderID(value), nil
}

func (id OrderID) String() string { return string(id) }

// ProductID references a catalog product.
type ProductID string

func ParseProductID(value string) (ProductID, error) {
	if _, err := uuid.Parse(value); err != nil {
		return "", &ValidationError{Field: "product_id", Reason: "must be a valid UUID"}
	}
	return ProductID(value), nil
}

func (id ProductID) String() string { return string(id) }

// PaymentMethodID references an externally owned payment method.
type PaymentMethodID string

func ParsePaymentMethodID(value string) (PaymentMethodID, error) {
	if _, err := uuid.Parse(value); err != nil {
		return "", &ValidationError{Field: "payment_method_id", Reason: "must be a valid UUID"}
	}
	return PaymentMethodID(value), nil
}

func (id PaymentMethodID) String() string { return string(id) }

// UserID references the ordering user.
type UserID string

func ParseUserID(value string) (UserID, error) {
	if _, err := uuid.Parse(value); err != nil {
		return "", &ValidationError{Field: "user_id", Reason: "must be a valid UUID"}
	}
	return UserID(value), nil
}

func (id UserID) String() string { return string(id) }

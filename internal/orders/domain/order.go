package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLine is a single product entry owned by exactly one order.
type OrderLine struct {
	ProductID ProductID
	Quantity  int
	UnitPrice Money
	LineTotal Money
}

// NewOrderLine validates and builds a line item. LineTotal is always
// quantity times unit price.
func NewOrderLine(productID string, quantity int, unitPrice decimal.Decimal) (OrderLine, error) {
	pid, err := ParseProductID(productID)
	if err != nil {
		return OrderLine{}, err
	}
	if quantity <= 0 {
		return OrderLine{}, &ValidationError{Field: "quantity", Reason: "must be greater than zero"}
	}
	price, err := NewMoney(unitPrice)
	if err != nil {
		return OrderLine{}, err
	}
	return OrderLine{
		ProductID: pid,
		Quantity:  quantity,
		UnitPrice: price,
		LineTotal: price.MulQuantity(quantity),
	}, nil
}

// Order is the aggregate root for the ordering workflow. All mutation goes
// through its methods; the total is the running sum of line totals while the
// order is still in CREATED and frozen afterwards.
type Order struct {
	id              OrderID
	address         Address
	currency        Currency
	total           Money
	paymentMethodID PaymentMethodID
	userID          UserID
	status          OrderStatus
	lines           []OrderLine
	createdAt       time.Time
	updatedAt       time.Time

	events []Event
}

// NewOrder builds an order in CREATED status with no lines and a zero total.
func NewOrder(address, currency, paymentMethodID, userID string) (*Order, error) {
	addr, err := NewAddress(address)
	if err != nil {
		return nil, err
	}
	curr, err := NewCurrency(currency)
	if err != nil {
		return nil, err
	}
	pmID, err := ParsePaymentMethodID(paymentMethodID)
	if err != nil {
		return nil, err
	}
	uID, err := ParseUserID(userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	order := &Order{
		id:              NewOrderID(),
		address:         addr,
		currency:        curr,
		total:           ZeroMoney(),
		paymentMethodID: pmID,
		userID:          uID,
		status:          StatusCreated,
		createdAt:       now,
		updatedAt:       now,
	}
	order.record(OrderCreated{OrderID: order.id, OccurredAt: now})

	return order, nil
}

// Reconstitute rebuilds an aggregate from persisted state. No events are
// queued; the stored total is kept as-is because it was frozen at commit.
func Reconstitute(
	id, address, currency string,
	total decimal.Decimal,
	paymentMethodID, userID, status string,
	lines []OrderLine,
	createdAt, updatedAt time.Time,
) (*Order, error) {
	orderID, err := ParseOrderID(id)
	if err != nil {
		return nil, err
	}
	addr, err := NewAddress(address)
	if err != nil {
		return nil, err
	}
	curr, err := NewCurrency(currency)
	if err != nil {
		return nil, err
	}
	storedTotal, err := NewMoney(total)
	if err != nil {
		return nil, err
	}
	pmID, err := ParsePaymentMethodID(paymentMethodID)
	if err != nil {
		return nil, err
	}
	uID, err := ParseUserID(userID)
	if err != nil {
		return nil, err
	}
	orderStatus, err := ParseStatus(status)
	if err != nil {
		return nil, err
	}

	return &Order{
		id:              orderID,
		address:         addr,
		currency:        curr,
		total:           storedTotal,
		paymentMethodID: pmID,
		userID:          uID,
		status:          orderStatus,
		lines:           lines,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}, nil
}

func (o *Order) ID() OrderID                      { return o.id }
func (o *Order) Address() Address                 { return o.address }
func (o *Order) Currency() Currency               { return o.currency }
func (o *Order) Total() Money                     { return o.total }
func (o *Order) PaymentMethodID() PaymentMethodID { return o.paymentMethodID }
func (o *Order) UserID() UserID                   { return o.userID }
func (o *Order) Status() OrderStatus              { return o.status }
func (o *Order) CreatedAt() time.Time             { return o.createdAt }
func (o *Order) UpdatedAt() time.Time             { return o.updatedAt }

// Lines returns the line items in insertion order.
func (o *Order) Lines() []OrderLine {
	lines := make([]OrderLine, len(o.lines))
	copy(lines, o.lines)
	return lines
}

// AddLine appends a line item and recomputes the running total. Only allowed
// while the order is still in CREATED.
func (o *Order) AddLine(productID string, quantity int, unitPrice decimal.Decimal) error {
	if o.status != StatusCreated {
		return &InvalidStateError{Operation: "add line item", Status: o.status}
	}
	line, err := NewOrderLine(productID, quantity, unitPrice)
	if err != nil {
		return err
	}
	o.lines = append(o.lines, line)
	o.total = o.total.Add(line.LineTotal)
	o.touch()
	return nil
}

// UpdateAddress replaces the delivery address. CREATED-only.
func (o *Order) UpdateAddress(address string) error {
	if o.status != StatusCreated {
		return &InvalidStateError{Operation: "update address", Status: o.status}
	}
	addr, err := NewAddress(address)
	if err != nil {
		return err
	}
	o.address = addr
	o.touch()
	return nil
}

// UpdateCurrency replaces the currency. CREATED-only.
func (o *Order) UpdateCurrency(currency string) error {
	if o.status != StatusCreated {
		return &InvalidStateError{Operation: "update currency", Status: o.status}
	}
	curr, err := NewCurrency(currency)
	if err != nil {
		return err
	}
	o.currency = curr
	o.touch()
	return nil
}

// UpdatePaymentMethod replaces the payment method reference. CREATED-only.
func (o *Order) UpdatePaymentMethod(paymentMethodID string) error {
	if o.status != StatusCreated {
		return &InvalidStateError{Operation: "update payment method", Status: o.status}
	}
	pmID, err := ParsePaymentMethodID(paymentMethodID)
	if err != nil {
		return err
	}
	o.paymentMethodID = pmID
	o.touch()
	return nil
}

// TransitionTo moves the order along an allowed status edge and queues an
// OrderStatusChanged event.
func (o *Order) TransitionTo(next OrderStatus) error {
	if !o.status.CanTransitionTo(next) {
		return &InvalidTransitionError{From: o.status, To: next}
	}
	from := o.status
	o.status = next
	o.touch()
	o.record(OrderStatusChanged{OrderID: o.id, From: from, To: next, OccurredAt: o.updatedAt})
	return nil
}

// Events returns the queued domain events without draining them.
func (o *Order) Events() []Event {
	events := make([]Event, len(o.events))
	copy(events, o.events)
	return events
}

// ClearEvents drains the event queue. Called by the application layer after
// a successful commit.
func (o *Order) ClearEvents() {
	o.events = nil
}

func (o *Order) record(event Event) {
	o.events = append(o.events, event)
}

func (o *Order) touch() {
	o.updatedAt = time.Now().UTC()
}

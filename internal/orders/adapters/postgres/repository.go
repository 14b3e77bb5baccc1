package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/avendano/comanda/internal/orders/domain"
	"github.com/avendano/comanda/internal/orders/ports"
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Save inserts the order header and its lines in one transaction. Either
// both commit or neither does.
func (r *Repository) Save(ctx context.Context, order *domain.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	headerQuery := `
		INSERT INTO orders (id, address, currency, total, payment_method_id, user_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4::numeric, $5, $6, $7, $8, $9)
	`

	_, err = tx.Exec(ctx, headerQuery,
		order.ID().String(),
		order.Address().String(),
		order.Currency().String(),
		order.Total().String(),
		order.PaymentMethodID().String(),
		order.UserID().String(),
		string(order.Status()),
		order.CreatedAt(),
		order.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	lineQuery := `
		INSERT INTO order_lines (order_id, position, product_id, quantity, unit_price, line_total)
		VALUES ($1, $2, $3, $4, $5::numeric, $6::numeric)
	`

	for position, line := range order.Lines() {
		_, err = tx.Exec(ctx, lineQuery,
			order.ID().String(),
			position,
			line.ProductID.String(),
			line.Quantity,
			line.UnitPrice.String(),
			line.LineTotal.String(),
		)
		if err != nil {
			return fmt.Errorf("insert order line %d: %w", position, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit order: %w", err)
	}

	return nil
}

func (r *Repository) GetByID(ctx context.Context, id domain.OrderID) (*domain.Order, error) {
	query := `
		SELECT id, address, currency, total::text, payment_method_id, user_id, status, created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	var (
		orderID, address, currency, total   string
		paymentMethodID, userID, status     string
		createdAt, updatedAt                time.Time
	)
	err := r.pool.QueryRow(ctx, query, id.String()).Scan(
		&orderID, &address, &currency, &total,
		&paymentMethodID, &userID, &status,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "order", IDs: []string{id.String()}}
		}
		return nil, fmt.Errorf("select order: %w", err)
	}

	lines, err := r.loadLines(ctx, []string{orderID})
	if err != nil {
		return nil, err
	}

	return reconstitute(orderID, address, currency, total, paymentMethodID, userID, status, lines[orderID], createdAt, updatedAt)
}

func (r *Repository) List(ctx context.Context, filter ports.ListFilter) ([]*domain.Order, error) {
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	query := `
		SELECT id, address, currency, total::text, payment_method_id, user_id, status, created_at, updated_at
		FROM orders
		WHERE ($1::text IS NULL OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	var statusFilter *string
	if filter.Status != nil {
		s := string(*filter.Status)
		statusFilter = &s
	}

	offset := (page - 1) * pageSize

	rows, err := r.pool.Query(ctx, query, statusFilter, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	type header struct {
		id, address, currency, total    string
		paymentMethodID, userID, status string
		createdAt, updatedAt            time.Time
	}

	var headers []header
	ids := make([]string, 0)
	for rows.Next() {
		var h header
		if err := rows.Scan(
			&h.id, &h.address, &h.currency, &h.total,
			&h.paymentMethodID, &h.userID, &h.status,
			&h.createdAt, &h.updatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		headers = append(headers, h)
		ids = append(ids, h.id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}

	lines, err := r.loadLines(ctx, ids)
	if err != nil {
		return nil, err
	}

	orders := make([]*domain.Order, 0, len(headers))
	for _, h := range headers {
		order, err := reconstitute(h.id, h.address, h.currency, h.total, h.paymentMethodID, h.userID, h.status, lines[h.id], h.createdAt, h.updatedAt)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	return orders, nil
}

// UpdateFields persists the CREATED-only header edits. Line items never
// change after creation, so only the header row is written.
func (r *Repository) UpdateFields(ctx context.Context, order *domain.Order) error {
	query := `
		UPDATE orders
		SET address = $1, currency = $2, payment_method_id = $3, updated_at = $4
		WHERE id = $5
	`

	result, err := r.pool.Exec(ctx, query,
		order.Address().String(),
		order.Currency().String(),
		order.PaymentMethodID().String(),
		order.UpdatedAt(),
		order.ID().String(),
	)
	if err != nil {
		return fmt.Errorf("update order fields: %w", err)
	}

	if result.RowsAffected() == 0 {
		return &domain.NotFoundError{Entity: "order", IDs: []string{order.ID().String()}}
	}

	return nil
}

// UpdateStatus performs a compare-and-swap on the status column. Zero rows
// affected means either the order vanished or a concurrent transition won;
// a follow-up existence check tells the two apart.
func (r *Repository) UpdateStatus(ctx context.Context, id domain.OrderID, from, to domain.OrderStatus) error {
	query := `
		UPDATE orders
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
	`

	result, err := r.pool.Exec(ctx, query, string(to), time.Now().UTC(), id.String(), string(from))
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	if result.RowsAffected() == 0 {
		var exists bool
		err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, id.String()).Scan(&exists)
		if err != nil {
			return fmt.Errorf("check order existence: %w", err)
		}
		if !exists {
			return &domain.NotFoundError{Entity: "order", IDs: []string{id.String()}}
		}
		return &domain.ConflictError{OrderID: id.String(), Expected: from}
	}

	return nil
}

// Remove hard-deletes the order. Lines go with it via the FK cascade.
func (r *Repository) Remove(ctx context.Context, id domain.OrderID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}

	if result.RowsAffected() == 0 {
		return &domain.NotFoundError{Entity: "order", IDs: []string{id.String()}}
	}

	return nil
}

func (r *Repository) loadLines(ctx context.Context, orderIDs []string) (map[string][]domain.OrderLine, error) {
	result := make(map[string][]domain.OrderLine, len(orderIDs))
	if len(orderIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT order_id, product_id, quantity, unit_price::text
		FROM order_lines
		WHERE order_id = ANY($1)
		ORDER BY order_id, position
	`

	rows, err := r.pool.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("query order lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID, productID, unitPrice string
			quantity                      int
		)
		if err := rows.Scan(&orderID, &productID, &quantity, &unitPrice); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}

		price, err := decimal.NewFromString(unitPrice)
		if err != nil {
			return nil, fmt.Errorf("parse unit price: %w", err)
		}
		line, err := domain.NewOrderLine(productID, quantity, price)
		if err != nil {
			return nil, fmt.Errorf("rebuild order line: %w", err)
		}
		result[orderID] = append(result[orderID], line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order lines: %w", err)
	}

	return result, nil
}

func reconstitute(
	id, address, currency, total, paymentMethodID, userID, status string,
	lines []domain.OrderLine,
	createdAt, updatedAt time.Time,
) (*domain.Order, error) {
	totalDecimal, err := decimal.NewFromString(total)
	if err != nil {
		return nil, fmt.Errorf("parse order total: %w", err)
	}

	order, err := domain.Reconstitute(id, address, currency, totalDecimal, paymentMethodID, userID, status, lines, createdAt, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("rebuild order %s: %w", id, err)
	}

	return order, nil
}

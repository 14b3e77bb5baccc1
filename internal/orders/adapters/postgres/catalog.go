package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/avendano/comanda/internal/orders/domain"
	"github.com/avendano/comanda/internal/orders/ports"
)

// PaymentMethodStore resolves payment methods from the catalog tables owned
// by the payments module.
type PaymentMethodStore struct {
	pool *pgxpool.Pool
}

func NewPaymentMethodStore(pool *pgxpool.Pool) *PaymentMethodStore {
	return &PaymentMethodStore{pool: pool}
}

func (s *PaymentMethodStore) FindByID(ctx context.Context, id domain.PaymentMethodID) (*ports.PaymentMethod, error) {
	query := `
		SELECT id, name, active
		FROM payment_methods
		WHERE id = $1
	`

	var (
		methodID, name string
		active         bool
	)
	err := s.pool.QueryRow(ctx, query, id.String()).Scan(&methodID, &name, &active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "payment method", IDs: []string{id.String()}}
		}
		return nil, fmt.Errorf("select payment method: %w", err)
	}

	parsedID, err := domain.ParsePaymentMethodID(methodID)
	if err != nil {
		return nil, err
	}

	return &ports.PaymentMethod{ID: parsedID, Name: name, Active: active}, nil
}

// ProductStore resolves catalog products for pricing and display.
type ProductStore struct {
	pool *pgxpool.Pool
}

func NewProductStore(pool *pgxpool.Pool) *ProductStore {
	return &ProductStore{pool: pool}
}

// FindMany batch-resolves product ids. Any unresolved id fails the whole
// call so the workflow never builds a partially priced order.
func (s *ProductStore) FindMany(ctx context.Context, ids []domain.ProductID) ([]ports.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, name, unit_price::text, currency
		FROM products
		WHERE id = ANY($1)
	`

	rows, err := s.pool.Query(ctx, query, productIDStrings(ids))
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	found := make(map[domain.ProductID]ports.Product, len(ids))
	for rows.Next() {
		var productID, name, unitPrice, currency string
		if err := rows.Scan(&productID, &name, &unitPrice, &currency); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}

		price, err := decimal.NewFromString(unitPrice)
		if err != nil {
			return nil, fmt.Errorf("parse product price: %w", err)
		}
		parsedID, err := domain.ParseProductID(productID)
		if err != nil {
			return nil, err
		}
		found[parsedID] = ports.Product{ID: parsedID, Name: name, UnitPrice: price, Currency: currency}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	var missing []string
	products := make([]ports.Product, 0, len(ids))
	for _, id := range ids {
		product, ok := found[id]
		if !ok {
			missing = append(missing, id.String())
			continue
		}
		products = append(products, product)
	}
	if len(missing) > 0 {
		return nil, &domain.NotFoundError{Entity: "product", IDs: missing}
	}

	return products, nil
}

// DisplayNames returns names for the ids that still exist. Missing ids are
// omitted, not errors.
func (s *ProductStore) DisplayNames(ctx context.Context, ids []domain.ProductID) (map[domain.ProductID]string, error) {
	names := make(map[domain.ProductID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	rows, err := s.pool.Query(ctx, `SELECT id, name FROM products WHERE id = ANY($1)`, productIDStrings(ids))
	if err != nil {
		return nil, fmt.Errorf("query product names: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var productID, name string
		if err := rows.Scan(&productID, &name); err != nil {
			return nil, fmt.Errorf("scan product name: %w", err)
		}
		names[domain.ProductID(productID)] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product names: %w", err)
	}

	return names, nil
}

func productIDStrings(ids []domain.ProductID) []string {
	values := make([]string, 0, len(ids))
	for _, id := range ids {
		values = append(values, id.String())
	}
	return values
}

package memory

import (
	"context"
	"sync"

	"github.com/avendano/comanda/internal/orders/domain"
	"github.com/avendano/comanda/internal/orders/ports"
)

// PaymentMethodStore is an in-memory payment-method lookup for tests and
// local development.
type PaymentMethodStore struct {
	mu      sync.RWMutex
	methods map[domain.PaymentMethodID]ports.PaymentMethod
}

func NewPaymentMethodStore() *PaymentMethodStore {
	return &PaymentMethodStore{methods: make(map[domain.PaymentMethodID]ports.PaymentMethod)}
}

// Add seeds a payment method.
func (s *PaymentMethodStore) Add(method ports.PaymentMethod) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.methods[method.ID] = method
}

func (s *PaymentMethodStore) FindByID(_ context.Context, id domain.PaymentMethodID) (*ports.PaymentMethod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	method, ok := s.methods[id]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "payment method", IDs: []string{id.String()}}
	}
	found := method
	return &found, nil
}

// ProductStore is an in-memory catalog lookup.
type ProductStore struct {
	mu       sync.RWMutex
	products map[domain.ProductID]ports.Product
}

func NewProductStore() *ProductStore {
	return &ProductStore{products: make(map[domain.ProductID]ports.Product)}
}

// Add seeds a product.
func (s *ProductStore) Add(product ports.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[product.ID] = product
}

func (s *ProductStore) FindMany(_ context.Context, ids []domain.ProductID) ([]ports.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var missing []string
	products := make([]ports.Product, 0, len(ids))
	for _, id := range ids {
		product, ok := s.products[id]
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

func (s *ProductStore) DisplayNames(_ context.Context, ids []domain.ProductID) (map[domain.ProductID]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make(map[domain.ProductID]string, len(ids))
	for _, id := range ids {
		if product, ok := s.products[id]; ok {
			names[id] = product.Name
		}
	}
	return names, nil
}

package memory

import (
	"context"
	"sync"

	"tnu/pricetracker/internal/domain"
	"tnu/pricetracker/internal/storage"
)

// ProductStore is an in-memory implementation of storage.ProductStore.
type ProductStore struct {
	mu       sync.RWMutex
	products map[string]domain.Product
}

// NewProductStore creates a new in-memory product store.
func NewProductStore() *ProductStore {
	return &ProductStore{products: make(map[string]domain.Product)}
}

var _ storage.ProductStore = (*ProductStore)(nil)

// Upsert inserts the product or refreshes its label, keeping the original
// first_seen.
func (s *ProductStore) Upsert(_ context.Context, product *domain.Product) error {
	if product == nil || product.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.products[product.ID]; ok {
		existing.Label = product.Label
		s.products[product.ID] = existing
		return nil
	}
	s.products[product.ID] = *product
	return nil
}

// Get returns a stored product, if present.
func (s *ProductStore) Get(id string) (domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	return p, ok
}

package postgres

import (
	"context"
	"fmt"

	"tnu/pricetracker/internal/domain"
	"tnu/pricetracker/internal/storage"
)

// ProductStore implements storage.ProductStore using PostgreSQL.
type ProductStore struct {
	pool *Pool
}

// NewProductStore creates a new ProductStore.
func NewProductStore(pool *Pool) *ProductStore {
	return &ProductStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ProductStore = (*ProductStore)(nil)

// Upsert inserts the product or refreshes its label. first_seen is kept from
// the original insert.
func (s *ProductStore) Upsert(ctx context.Context, product *domain.Product) error {
	if product == nil || product.ID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO products (product_id, label, first_seen)
		VALUES ($1, $2, $3)
		ON CONFLICT (product_id) DO UPDATE SET label = EXCLUDED.label
	`

	_, err := s.pool.Exec(ctx, query, product.ID, product.Label, product.FirstSeen)
	if err != nil {
		return fmt.Errorf("upsert product: %w", err)
	}
	return nil
}

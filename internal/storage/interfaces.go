package storage

import (
	"context"

	"github.com/shopspring/decimal"

	"tnu/pricetracker/internal/domain"
)

// CheckStore provides access to the append-only price_checks records.
// Rows are never updated or deleted; corrections arrive as new rows.
type CheckStore interface {
	// Insert appends one check row.
	Insert(ctx context.Context, check *domain.PriceCheck) error

	// DailyMinima returns the minimum successful resolved amount per day for
	// a product over the most recent limitDays distinct days, ordered
	// descending by day. Days without a successful check are absent.
	// A limitDays of zero or less means no day limit.
	DailyMinima(ctx context.Context, productID string, limitDays int) ([]domain.DailyMin, error)

	// PriorDayMin returns the minimum successful resolved amount on the most
	// recent day strictly before day. Invalid when no such day exists.
	PriorDayMin(ctx context.Context, productID, day string) (decimal.NullDecimal, error)
}

// ProductStore provides access to the mutable products table.
type ProductStore interface {
	// Upsert inserts the product or refreshes its label. The id is stable.
	Upsert(ctx context.Context, product *domain.Product) error
}

package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"tnu/pricetracker/internal/domain"
	"tnu/pricetracker/internal/storage"
)

// CheckStore implements storage.CheckStore using PostgreSQL.
type CheckStore struct {
	pool *Pool
}

// NewCheckStore creates a new CheckStore.
func NewCheckStore(pool *Pool) *CheckStore {
	return &CheckStore{pool: pool}
}

// Compile-time interface check.
var _ storage.CheckStore = (*CheckStore)(nil)

// Insert appends one check row. Each insert is its own transaction, so a
// crash mid-run loses at most the in-flight product.
func (s *CheckStore) Insert(ctx context.Context, check *domain.PriceCheck) error {
	if check == nil || check.ProductID == "" || check.RunID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO price_checks (
			run_id, ts, day, product_id, label, title, url,
			resolved_raw, resolved_amount, resolved_source,
			buybox_raw, buybox_amount, lowest_new_raw, lowest_new_amount,
			success, error
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := s.pool.Exec(ctx, query,
		check.RunID,
		check.Timestamp,
		check.Day,
		check.ProductID,
		check.Label,
		nullable(check.Title),
		nullable(check.URL),
		nullable(check.ResolvedRaw),
		check.ResolvedAmount,
		string(check.ResolvedSource),
		nullable(check.BuyboxRaw),
		check.BuyboxAmount,
		nullable(check.LowestNewRaw),
		check.LowestNewAmount,
		check.Success,
		nullable(check.Error),
	)
	if err != nil {
		return fmt.Errorf("insert price check: %w", err)
	}
	return nil
}

// DailyMinima aggregates the minimum successful amount per day bucket.
func (s *CheckStore) DailyMinima(ctx context.Context, productID string, limitDays int) ([]domain.DailyMin, error) {
	query := `
		SELECT day, MIN(resolved_amount)
		FROM price_checks
		WHERE product_id = $1 AND success AND resolved_amount IS NOT NULL
		GROUP BY day
		ORDER BY day DESC
		LIMIT $2
	`

	// LIMIT NULL means no limit in Postgres, matching the memory store.
	var limit any
	if limitDays > 0 {
		limit = limitDays
	}

	rows, err := s.pool.Query(ctx, query, productID, limit)
	if err != nil {
		return nil, fmt.Errorf("query daily minima: %w", err)
	}
	defer rows.Close()

	var minima []domain.DailyMin
	for rows.Next() {
		var m domain.DailyMin
		if err := rows.Scan(&m.Day, &m.Amount); err != nil {
			return nil, fmt.Errorf("scan daily min row: %w", err)
		}
		minima = append(minima, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily min rows: %w", err)
	}

	return minima, nil
}

// PriorDayMin returns the minimum on the most recent day strictly before day.
func (s *CheckStore) PriorDayMin(ctx context.Context, productID, day string) (decimal.NullDecimal, error) {
	query := `
		SELECT MIN(resolved_amount)
		FROM price_checks
		WHERE product_id = $1 AND success AND resolved_amount IS NOT NULL AND day < $2
		GROUP BY day
		ORDER BY day DESC
		LIMIT 1
	`

	var min decimal.Decimal
	err := s.pool.QueryRow(ctx, query, productID, day).Scan(&min)
	if err != nil {
		if isNotFoundError(err) {
			return decimal.NullDecimal{}, nil
		}
		return decimal.NullDecimal{}, fmt.Errorf("query prior-day min: %w", err)
	}

	return decimal.NullDecimal{Decimal: min, Valid: true}, nil
}

// nullable maps empty strings to SQL NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"tnu/pricetracker/internal/domain"
	"tnu/pricetracker/internal/storage"
)

// CheckStore is an in-memory implementation of storage.CheckStore.
type CheckStore struct {
	mu     sync.RWMutex
	checks []domain.PriceCheck
}

// NewCheckStore creates a new in-memory check store.
func NewCheckStore() *CheckStore {
	return &CheckStore{}
}

var _ storage.CheckStore = (*CheckStore)(nil)

// Insert appends one check row.
func (s *CheckStore) Insert(_ context.Context, check *domain.PriceCheck) error {
	if check == nil || check.ProductID == "" || check.RunID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.checks = append(s.checks, *check)
	return nil
}

// All returns a copy of every stored row, in insertion order.
func (s *CheckStore) All() []domain.PriceCheck {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.PriceCheck, len(s.checks))
	copy(out, s.checks)
	return out
}

// DailyMinima aggregates the minimum successful amount per day bucket.
func (s *CheckStore) DailyMinima(_ context.Context, productID string, limitDays int) ([]domain.DailyMin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byDay := make(map[string]decimal.Decimal)
	for _, check := range s.checks {
		if check.ProductID != productID || !check.Success || !check.ResolvedAmount.Valid {
			continue
		}
		current, ok := byDay[check.Day]
		if !ok || check.ResolvedAmount.Decimal.LessThan(current) {
			byDay[check.Day] = check.ResolvedAmount.Decimal
		}
	}

	minima := make([]domain.DailyMin, 0, len(byDay))
	for day, amount := range byDay {
		minima = append(minima, domain.DailyMin{Day: day, Amount: amount})
	}
	sort.Slice(minima, func(i, j int) bool {
		return minima[i].Day > minima[j].Day
	})

	if limitDays > 0 && len(minima) > limitDays {
		minima = minima[:limitDays]
	}
	return minima, nil
}

// PriorDayMin returns the minimum on the most recent day strictly before day.
func (s *CheckStore) PriorDayMin(ctx context.Context, productID, day string) (decimal.NullDecimal, error) {
	minima, err := s.DailyMinima(ctx, productID, 0)
	if err != nil {
		return decimal.NullDecimal{}, err
	}

	// minima is ordered descending by day.
	for _, m := range minima {
		if m.Day < day {
			return decimal.NullDecimal{Decimal: m.Amount, Valid: true}, nil
		}
	}
	return decimal.NullDecimal{}, nil
}

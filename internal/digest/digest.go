// Package digest composes the human-readable run summary.
package digest

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"tnu/pricetracker/internal/domain"
)

// Up to this many priced items appear in the current-prices block.
const maxListedItems = 10

// HistoryReader is the slice of the check store the digest needs.
type HistoryReader interface {
	DailyMinima(ctx context.Context, productID string, limitDays int) ([]domain.DailyMin, error)
	PriorDayMin(ctx context.Context, productID, day string) (decimal.NullDecimal, error)
}

// Builder ranks a run's results and composes the digest text.
type Builder struct {
	history     HistoryReader
	historyDays int

	// Currency prefixes every formatted amount.
	Currency string
	// StoreLabel, when set, is named in the digest footer.
	StoreLabel string
}

// NewBuilder creates a digest builder over the given history reader.
func NewBuilder(history HistoryReader, historyDays int) *Builder {
	return &Builder{
		history:     history,
		historyDays: historyDays,
		Currency:    "£",
	}
}

// Build composes the digest for one run. Zero successfully priced products
// produce an explicit error line instead of a best-deal line; silence on
// total failure would be indistinguishable from "nothing changed".
func (b *Builder) Build(ctx context.Context, runLabel, day string, results []domain.RunResult) (string, error) {
	priced := make([]domain.RunResult, 0, len(results))
	for _, r := range results {
		if r.Amount.Valid {
			priced = append(priced, r)
		}
	}
	sort.SliceStable(priced, func(i, j int) bool {
		return priced[i].Amount.Decimal.LessThan(priced[j].Amount.Decimal)
	})

	var lines []string
	lines = append(lines, fmt.Sprintf("%s — %s", runLabel, day))

	if len(priced) > 0 {
		best := priced[0]
		lines = append(lines, fmt.Sprintf("Best right now (lowest new offer): %s — %s",
			best.Item.Label, b.money(best.Amount)))
		if best.URL != "" {
			lines = append(lines, best.URL)
		}
		if best.CrossRefURL != "" {
			lines = append(lines, best.CrossRefURL)
		}
	} else {
		lines = append(lines, "ERROR: No prices found (possible captcha / layout change).")
	}

	lines = append(lines, "", "Current prices:")
	for i, r := range priced {
		if i >= maxListedItems {
			break
		}
		lines = append(lines, b.priceLine(ctx, day, r))
	}

	lines = append(lines, "", fmt.Sprintf("History (daily min, last %d days):", b.historyDays))
	for _, r := range results {
		lines = append(lines, b.historyLine(ctx, r))
	}

	if b.StoreLabel != "" {
		lines = append(lines, "", fmt.Sprintf("DB: %s", b.StoreLabel))
	}

	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

// priceLine renders one priced item, with a day-over-day delta when a prior
// day exists.
func (b *Builder) priceLine(ctx context.Context, day string, r domain.RunResult) string {
	line := fmt.Sprintf("- %s: %s", r.Item.Label, b.money(r.Amount))

	prior, err := b.history.PriorDayMin(ctx, r.Item.ID, day)
	if err != nil || !prior.Valid {
		return line
	}

	delta := r.Amount.Decimal.Sub(prior.Decimal)
	sign := ""
	if delta.IsPositive() {
		sign = "+"
	}
	return fmt.Sprintf("%s (prev day %s, %s%s)", line,
		b.money(prior), sign, delta.StringFixed(2))
}

// historyLine renders a product's daily minimums oldest to newest.
func (b *Builder) historyLine(ctx context.Context, r domain.RunResult) string {
	minima, err := b.history.DailyMinima(ctx, r.Item.ID, b.historyDays)
	if err != nil || len(minima) == 0 {
		return fmt.Sprintf("- %s: (no history yet)", r.Item.Label)
	}

	parts := make([]string, 0, len(minima))
	for i := len(minima) - 1; i >= 0; i-- {
		m := minima[i]
		parts = append(parts, fmt.Sprintf("%s %s%s", m.Day, b.Currency, m.Amount.StringFixed(2)))
	}
	return fmt.Sprintf("- %s: %s", r.Item.Label, strings.Join(parts, ", "))
}

func (b *Builder) money(d decimal.NullDecimal) string {
	if !d.Valid {
		return "—"
	}
	return b.Currency + d.Decimal.StringFixed(2)
}

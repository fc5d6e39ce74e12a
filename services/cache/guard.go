package cache

import (
	"strconv"
	"time"
)

const guardKeyPrefix = "pricecheck:"

// Guard rate-limits repeat checks of the same product. A product checked
// within the TTL is skipped on the next run, keeping request volume toward
// the target site down when runs overlap or restart.
type Guard struct {
	svc CacheService
	ttl time.Duration
}

// NewGuard creates a guard. A nil service or non-positive TTL disables it.
func NewGuard(svc CacheService, ttl time.Duration) *Guard {
	return &Guard{svc: svc, ttl: ttl}
}

// Blocked reports whether the product was checked within the TTL.
func (g *Guard) Blocked(productID string) bool {
	if g == nil || g.svc == nil || g.ttl <= 0 {
		return false
	}
	_, err := g.svc.Get(guardKeyPrefix + productID)
	return err == nil
}

// Mark records that the product was just checked.
func (g *Guard) Mark(productID string) {
	if g == nil || g.svc == nil || g.ttl <= 0 {
		return
	}
	value := strconv.FormatInt(time.Now().Unix(), 10)
	_ = g.svc.Set(guardKeyPrefix+productID, []byte(value), g.ttl)
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceSource identifies which page region the resolved price came from.
type PriceSource string

const (
	// SourceLowestNewOffer means the price came from the all-offers listing.
	SourceLowestNewOffer PriceSource = "lowest_new_offer"
	// SourceBuybox means the price came from the featured buy-box.
	SourceBuybox PriceSource = "buybox"
	// SourceNone means the page loaded but no price was found.
	SourceNone PriceSource = "none"
	// SourceError means the check itself failed before any price was seen.
	SourceError PriceSource = "error"
)

// WatchItem is a single tracked product from the watchlist.
type WatchItem struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Product is the mutable per-product row. ID is the stable key; the label
// may be refreshed on every run.
type Product struct {
	ID        string
	Label     string
	FirstSeen int64
}

// PriceCheck is one immutable record of a single product check within a run.
// Rows are append-only; corrections arrive as new rows in later runs.
type PriceCheck struct {
	RunID           string
	Timestamp       int64
	Day             string
	ProductID       string
	Label           string
	Title           string
	URL             string
	ResolvedRaw     string
	ResolvedAmount  decimal.NullDecimal
	ResolvedSource  PriceSource
	BuyboxRaw       string
	BuyboxAmount    decimal.NullDecimal
	LowestNewRaw    string
	LowestNewAmount decimal.NullDecimal
	Success         bool
	Error           string
}

// RunResult is one product's outcome within a run, as the digest sees it.
type RunResult struct {
	Item        WatchItem
	Title       string
	URL         string
	CrossRefURL string
	Raw         string
	Amount      decimal.NullDecimal
	Source      PriceSource
	Err         string
}

// DailyMin is the minimum successful price for a product on one day bucket.
type DailyMin struct {
	Day    string
	Amount decimal.Decimal
}

// DayOf buckets a unix timestamp into a calendar date in the given zone.
// Write path only; the stored string is the aggregation key on reads.
func DayOf(ts int64, loc *time.Location) string {
	return time.Unix(ts, 0).In(loc).Format("2006-01-02")
}

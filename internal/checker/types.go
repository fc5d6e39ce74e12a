package checker

import (
	"github.com/shopspring/decimal"

	"tnu/pricetracker/internal/domain"
)

// ExtractionResult is the typed payload of the product-page evaluation.
type ExtractionResult struct {
	Title       string `json:"title"`
	BuyboxPrice string `json:"buyboxPrice"`
	OffersURL   string `json:"offersUrl"`
	URL         string `json:"url"`
}

// ScrollResult reports one incremental-scroll step on the offers view.
type ScrollResult struct {
	Before       float64 `json:"before"`
	After        float64 `json:"after"`
	AtEnd        bool    `json:"atEnd"`
	ScrollHeight float64 `json:"scrollHeight"`
}

// Offer is one entry of the all-offers listing as currently rendered.
type Offer struct {
	Condition string
	PriceRaw  string
}

// OfferScanResult is the outcome of a bounded scan over the offers view.
// LowestAmount is invalid when no offer matching the target condition was
// ever seen with a parseable price.
type OfferScanResult struct {
	LowestAmount   decimal.NullDecimal
	LowestRaw      string
	LoadedOffers   int
	MatchingOffers int
}

// CheckOutcome is everything a single product check produced. OfferScanErr
// records a degraded offers path; it never fails the check itself.
type CheckOutcome struct {
	Title           string
	URL             string
	BuyboxRaw       string
	BuyboxAmount    decimal.NullDecimal
	LowestNewRaw    string
	LowestNewAmount decimal.NullDecimal
	ResolvedRaw     string
	ResolvedAmount  decimal.NullDecimal
	Source          domain.PriceSource
	OfferScan       OfferScanResult
	OfferScanErr    error
}

// Package checker resolves one authoritative price per tracked product from
// a rendered product page and its all-offers listing.
package checker

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"tnu/pricetracker/helpers"
	"tnu/pricetracker/internal/browser"
	"tnu/pricetracker/internal/domain"
	"tnu/pricetracker/logger"
	"tnu/pricetracker/pkg/errors"
)

// Checker performs a full product check: open the page, extract the buy-box,
// scan the offers view when a link to it exists, and resolve a single price.
type Checker struct {
	client             browser.Client
	scanner            *OfferScanner
	jitter             *helpers.Jitter
	productURLTemplate string
	condition          string
	log                *logger.Logger
}

// NewChecker wires a checker. productURLTemplate receives the product id.
func NewChecker(client browser.Client, jitter *helpers.Jitter, productURLTemplate, condition string) *Checker {
	return &Checker{
		client:             client,
		scanner:            NewOfferScanner(condition, jitter),
		jitter:             jitter,
		productURLTemplate: productURLTemplate,
		condition:          condition,
		log:                logger.ForComponent("checker"),
	}
}

// ProductURL returns the canonical page URL for a product id.
func (c *Checker) ProductURL(id string) string {
	return fmt.Sprintf(c.productURLTemplate, id)
}

// Check runs one product check in its own tab. The tab is closed on every
// exit path. An error return means the page itself could not be read; a
// degraded offers scan is reported inside the outcome instead.
func (c *Checker) Check(ctx context.Context, item domain.WatchItem) (CheckOutcome, error) {
	pageURL := c.ProductURL(item.ID)

	target, err := c.client.Open(ctx, pageURL)
	if err != nil {
		return CheckOutcome{}, errors.NewAutomation(item.ID, "open product page", err)
	}
	defer c.client.Close(ctx, target)

	page := NewPage(c.client, target)
	c.jitter.Pause()

	data, err := page.ExtractProduct(ctx)
	if err != nil {
		return CheckOutcome{}, errors.NewAutomation(item.ID, "evaluate product page", err)
	}
	c.jitter.Pause()

	outcome := CheckOutcome{
		Title: strings.TrimSpace(data.Title),
		URL:   data.URL,
	}
	if outcome.URL == "" {
		outcome.URL = pageURL
	}

	outcome.BuyboxRaw = data.BuyboxPrice
	outcome.BuyboxAmount = ParsePrice(data.BuyboxPrice)

	if data.OffersURL != "" {
		scan, err := c.scanOffers(ctx, page, data.OffersURL)
		if err != nil {
			// Offer-scan failure is never fatal: a usable buy-box price may
			// still exist. The degradation stays observable on the outcome.
			outcome.OfferScanErr = err
			c.log.Debug().
				Str("product", item.ID).
				Err(err).
				Msg("offer scan degraded to buybox")
		} else {
			outcome.OfferScan = scan
			outcome.LowestNewAmount = scan.LowestAmount
			outcome.LowestNewRaw = scan.LowestRaw
		}
	}

	outcome.ResolvedRaw, outcome.ResolvedAmount, outcome.Source = Resolve(
		outcome.LowestNewRaw, outcome.LowestNewAmount,
		outcome.BuyboxRaw, outcome.BuyboxAmount,
	)

	return outcome, nil
}

// scanOffers navigates the tab to the condition-filtered offers view and
// runs the bounded scan.
func (c *Checker) scanOffers(ctx context.Context, page *Page, offersURL string) (OfferScanResult, error) {
	if err := page.Navigate(ctx, forceCondition(offersURL, c.condition)); err != nil {
		return OfferScanResult{}, err
	}
	c.jitter.Pause()

	return c.scanner.Scan(ctx, page)
}

// Resolve applies the fixed priority policy: a matching offer beats the
// buy-box, which beats nothing. The offers listing, when filterable by
// condition, is the more faithful cheapest-buyable signal than the single
// featured offer.
func Resolve(offerRaw string, offer decimal.NullDecimal, buyboxRaw string, buybox decimal.NullDecimal) (string, decimal.NullDecimal, domain.PriceSource) {
	switch {
	case offer.Valid:
		return offerRaw, offer, domain.SourceLowestNewOffer
	case buybox.Valid:
		return buyboxRaw, buybox, domain.SourceBuybox
	default:
		return "", decimal.NullDecimal{}, domain.SourceNone
	}
}

// forceCondition rewrites the offers URL so the view is pre-filtered to the
// target condition.
func forceCondition(offersURL, condition string) string {
	value := strings.ToUpper(condition)
	switch {
	case strings.Contains(offersURL, "condition=ALL"):
		return strings.Replace(offersURL, "condition=ALL", "condition="+value, 1)
	case strings.Contains(offersURL, "condition="):
		return offersURL
	case strings.Contains(offersURL, "?"):
		return offersURL + "&condition=" + value
	default:
		return offersURL + "?condition=" + value
	}
}

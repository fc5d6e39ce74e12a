package checker

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"tnu/pricetracker/helpers"
)

const (
	// The offers view lazy-loads as the page scrolls. Four iterations bound
	// worst-case latency while covering the usual case where the cheapest
	// matching offer shows up within the first few pages.
	maxScanIterations = 4

	scrollIncrementPx = 1800
)

// OfferScanner finds the lowest-priced offer matching a target condition on
// the virtualized all-offers view, triggering lazy loads between snapshots.
type OfferScanner struct {
	condition string
	jitter    *helpers.Jitter
}

// NewOfferScanner creates a scanner for the given condition label ("New").
func NewOfferScanner(condition string, jitter *helpers.Jitter) *OfferScanner {
	return &OfferScanner{condition: condition, jitter: jitter}
}

// Scan runs up to maxScanIterations snapshot-then-scroll rounds and returns
// the running minimum across all of them. Earlier-loaded offers may hold the
// true minimum, so a lower amount is never discarded when later snapshots no
// longer contain it. On error the partial result is returned alongside it;
// callers are expected to degrade to the buy-box path.
func (s *OfferScanner) Scan(ctx context.Context, page *Page) (OfferScanResult, error) {
	var result OfferScanResult

	for i := 0; i < maxScanIterations; i++ {
		html, err := page.OffersHTML(ctx)
		if err != nil {
			return result, err
		}

		offers, err := ExtractOffers(html)
		if err != nil {
			return result, err
		}

		// Lazy loading only ever adds entries, so the deepest snapshot wins.
		if len(offers) > result.LoadedOffers {
			result.LoadedOffers = len(offers)
		}
		matching := 0
		for _, offer := range offers {
			if !strings.EqualFold(offer.Condition, s.condition) {
				continue
			}
			matching++

			amount := ParsePrice(offer.PriceRaw)
			if !amount.Valid {
				continue
			}
			if !result.LowestAmount.Valid || amount.Decimal.LessThan(result.LowestAmount.Decimal) {
				result.LowestAmount = amount
				result.LowestRaw = offer.PriceRaw
			}
		}
		if matching > result.MatchingOffers {
			result.MatchingOffers = matching
		}

		scroll, err := page.ScrollMore(ctx, scrollIncrementPx)
		if err != nil {
			return result, err
		}
		s.jitter.Pause()

		if scroll.AtEnd {
			break
		}
	}

	return result, nil
}

// ExtractOffers parses a rendered offer-list snapshot into offer entries.
// The condition is the first text line of each entry; the price lives in a
// dedicated price span.
func ExtractOffers(html string) ([]Offer, error) {
	if strings.TrimSpace(html) == "" {
		return nil, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var offers []Offer
	doc.Find("#aod-offer").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		condition := strings.TrimSpace(strings.SplitN(text, "\n", 2)[0])

		priceRaw := strings.TrimSpace(sel.Find(`span[id^='aod-price']`).First().Text())

		offers = append(offers, Offer{
			Condition: condition,
			PriceRaw:  priceRaw,
		})
	})

	return offers, nil
}

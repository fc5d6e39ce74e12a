package checker

import (
	"context"
	"encoding/json"
	"fmt"

	"tnu/pricetracker/internal/browser"
)

// productEvalFn extracts the title, the buy-box price and a best-effort link
// to the all-offers view. The offers link selector varies a lot between page
// layouts, so several patterns are tried.
const productEvalFn = `() => {
  const buyboxPrice = document.querySelector("#corePriceDisplay_desktop_feature_div .a-price .a-offscreen")?.innerText
    || document.querySelector("#corePriceDisplay_desktop_feature_div .a-offscreen")?.innerText
    || document.querySelector(".a-price .a-offscreen")?.innerText
    || null;

  const offersHref = (
    document.querySelector('#buybox-see-all-buying-choices a')?.href
    || document.querySelector("a[href*='/gp/offer-listing/']")?.href
    || document.querySelector("a[href*='offer-listing']")?.href
    || null
  );

  return {
    title: (document.getElementById("productTitle")?.innerText||"").trim(),
    buyboxPrice,
    offersUrl: offersHref,
    url: location.href
  };
}`

// offersHTMLFn snapshots the currently rendered offer list. Parsing happens
// on our side so the in-page script stays trivial.
const offersHTMLFn = `() => {
  const list = document.querySelector('#aod-offer-list');
  return { html: list ? list.outerHTML : "" };
}`

// Page wraps one browser tab with the typed extraction steps the pipeline
// needs.
type Page struct {
	client browser.Client
	target string
}

// NewPage binds a tab handle to its client.
func NewPage(client browser.Client, target string) *Page {
	return &Page{client: client, target: target}
}

// Target returns the tab handle.
func (p *Page) Target() string {
	return p.target
}

// Navigate points the tab at url.
func (p *Page) Navigate(ctx context.Context, url string) error {
	return p.client.Navigate(ctx, p.target, url)
}

// ExtractProduct evaluates the product-page extraction script.
func (p *Page) ExtractProduct(ctx context.Context) (ExtractionResult, error) {
	raw, err := p.client.Evaluate(ctx, p.target, productEvalFn)
	if err != nil {
		return ExtractionResult{}, err
	}

	var result ExtractionResult
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &result); err != nil {
			return ExtractionResult{}, fmt.Errorf("decode product extraction: %w", err)
		}
	}
	return result, nil
}

// OffersHTML evaluates the offer-list snapshot script.
func (p *Page) OffersHTML(ctx context.Context) (string, error) {
	raw, err := p.client.Evaluate(ctx, p.target, offersHTMLFn)
	if err != nil {
		return "", err
	}

	var result struct {
		HTML string `json:"html"`
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &result); err != nil {
			return "", fmt.Errorf("decode offers snapshot: %w", err)
		}
	}
	return result.HTML, nil
}

// ScrollMore scrolls the tab down by px pixels and reports whether the
// scroll position already reached the end of content.
func (p *Page) ScrollMore(ctx context.Context, px int) (ScrollResult, error) {
	fn := fmt.Sprintf(`() => { const before = window.scrollY; window.scrollBy(0, %d); const after = window.scrollY; const atEnd = (window.innerHeight + window.scrollY) >= (document.body.scrollHeight - 5); return {before, after, atEnd, scrollHeight: document.body.scrollHeight}; }`, px)

	raw, err := p.client.Evaluate(ctx, p.target, fn)
	if err != nil {
		return ScrollResult{}, err
	}

	var result ScrollResult
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &result); err != nil {
			return ScrollResult{}, fmt.Errorf("decode scroll result: %w", err)
		}
	}
	return result, nil
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tnu/pricetracker/helpers"
	"tnu/pricetracker/internal/browser"
	"tnu/pricetracker/internal/checker"
	"tnu/pricetracker/internal/digest"
	"tnu/pricetracker/internal/domain"
	"tnu/pricetracker/internal/storage/memory"
	"tnu/pricetracker/services/messenger"
	"tnu/pricetracker/services/worker"
)

// Offer-list HTML the scripted browser serves for the one tracked product.
const testOffersHTML = `
<div id="aod-offer-list">
  <div id="aod-offer">New
    <span id="aod-price-1">£44.10</span>
  </div>
  <div id="aod-offer">Used - Like New
    <span id="aod-price-2">£31.99</span>
  </div>
</div>`

// scriptedRunner implements browser.Runner by pattern-matching the CLI
// invocations the pipeline makes and answering with canned tool output.
type scriptedRunner struct {
	t        *testing.T
	messages []string
	calls    []string
}

var _ browser.Runner = (*scriptedRunner)(nil)

func (r *scriptedRunner) Run(_ context.Context, _ time.Duration, args ...string) ([]byte, error) {
	joined := strings.Join(args, " ")
	r.calls = append(r.calls, joined)

	switch {
	case strings.HasPrefix(joined, "browser start"):
		return []byte("{}"), nil

	case strings.HasPrefix(joined, "browser open"):
		return []byte(`{"targetId":"tab-7"}`), nil

	case strings.HasPrefix(joined, "browser navigate"):
		return []byte("{}"), nil

	case strings.HasPrefix(joined, "browser close"):
		return []byte("{}"), nil

	case strings.HasPrefix(joined, "browser evaluate"):
		fn := args[len(args)-1]
		return r.evaluate(fn)

	case strings.HasPrefix(joined, "message send"):
		r.messages = append(r.messages, args[len(args)-1])
		return []byte("{}"), nil
	}

	r.t.Fatalf("unexpected tool invocation: %s", joined)
	return nil, nil
}

func (r *scriptedRunner) evaluate(fn string) ([]byte, error) {
	switch {
	case strings.Contains(fn, "productTitle"):
		result := map[string]string{
			"title":       "Mechanical Keyboard",
			"buyboxPrice": "£49.99",
			"offersUrl":   "https://shop.test/gp/offer-listing/B001",
			"url":         "https://shop.test/dp/B001?ref=rendered",
		}
		payload, _ := json.Marshal(map[string]interface{}{"result": result})
		return payload, nil

	case strings.Contains(fn, "aod-offer-list"):
		payload, _ := json.Marshal(map[string]interface{}{
			"result": map[string]string{"html": testOffersHTML},
		})
		return payload, nil

	case strings.Contains(fn, "scrollBy"):
		return []byte(`{"result":{"before":0,"after":1800,"atEnd":true,"scrollHeight":1800}}`), nil
	}

	return nil, fmt.Errorf("unexpected evaluate fn: %s", fn)
}

// TestPipelineEndToEnd drives a full run through the real client, checker,
// worker, stores and digest, with only the CLI subprocess scripted.
func TestPipelineEndToEnd(t *testing.T) {
	runner := &scriptedRunner{t: t}
	client := browser.NewOpenClaw(runner, 10*time.Second)
	jitter := helpers.NewFakeJitter(func(time.Duration) {})

	checks := memory.NewCheckStore()
	products := memory.NewProductStore()

	w := worker.NewWorker(
		worker.Deps{
			Client:    client,
			Checker:   checker.NewChecker(client, jitter, "https://shop.test/dp/%s", "New"),
			Products:  products,
			Checks:    checks,
			Digest:    digest.NewBuilder(checks, 5),
			Messenger: messenger.NewOpenClaw(runner, 10*time.Second),
		},
		[]domain.WatchItem{{ID: "B001", Label: "Keyboard"}},
		worker.Options{
			RunLabel:            "My gear",
			Location:            time.UTC,
			CrossRefURLTemplate: "https://ref.test/product/%s",
			MessageChannel:      "telegram",
			MessageTarget:       "@me",
		},
	)

	text, err := w.RunOnce(context.Background())
	require.NoError(t, err)

	// The NEW offer wins over the cheaper used one and over the buy-box.
	rows := checks.All()
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Success)
	assert.Equal(t, "Mechanical Keyboard", rows[0].Title)
	assert.Equal(t, domain.SourceLowestNewOffer, rows[0].ResolvedSource)
	assert.Equal(t, "44.1", rows[0].ResolvedAmount.Decimal.String())
	assert.Equal(t, "49.99", rows[0].BuyboxAmount.Decimal.String())
	assert.Equal(t, "https://shop.test/dp/B001?ref=rendered", rows[0].URL)

	_, ok := products.Get("B001")
	assert.True(t, ok)

	// The digest went out through the messaging CLI.
	require.Len(t, runner.messages, 1)
	assert.Equal(t, text, runner.messages[0])
	assert.Contains(t, text, "My gear —")
	assert.Contains(t, text, "Best right now (lowest new offer): Keyboard — £44.10")
	assert.Contains(t, text, "https://ref.test/product/B001")

	// The offers view was opened with the condition filter forced on.
	var navigated string
	for _, call := range runner.calls {
		if strings.HasPrefix(call, "browser navigate") {
			navigated = call
		}
	}
	assert.Contains(t, navigated, "condition=NEW")

	// The tab was closed after the check.
	assert.Contains(t, runner.calls, "browser close tab-7")
}

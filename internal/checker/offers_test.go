package checker

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tnu/pricetracker/helpers"
)

func offerListHTML(offers ...[2]string) string {
	html := `<div id="aod-offer-list">`
	for i, o := range offers {
		html += fmt.Sprintf(`
			<div id="aod-offer">
				%s
				<div class="seller">Sold by someone</div>
				<span id="aod-price-%d">%s</span>
			</div>`, o[0], i, o[1])
	}
	return html + `</div>`
}

func noSleep() *helpers.Jitter {
	return helpers.NewFakeJitter(func(_ time.Duration) {})
}

func TestExtractOffers(t *testing.T) {
	html := offerListHTML(
		[2]string{"New", "£12.99"},
		[2]string{"Used - Like New", "£8.50"},
	)

	offers, err := ExtractOffers(html)
	require.NoError(t, err)
	require.Len(t, offers, 2)
	assert.Equal(t, "New", offers[0].Condition)
	assert.Equal(t, "£12.99", offers[0].PriceRaw)
	assert.Equal(t, "Used - Like New", offers[1].Condition)
	assert.Equal(t, "£8.50", offers[1].PriceRaw)
}

func TestExtractOffersEmpty(t *testing.T) {
	offers, err := ExtractOffers("")
	require.NoError(t, err)
	assert.Empty(t, offers)
}

func TestScanRunningMinimumIsMonotone(t *testing.T) {
	// The £9.50 offer from the first snapshot disappears from later ones;
	// the running minimum must not revert to a higher value.
	client := &fakeClient{
		offers: []scripted{
			offersSnapshot(offerListHTML([2]string{"New", "£9.50"}, [2]string{"Used", "£5.00"})),
			offersSnapshot(offerListHTML([2]string{"New", "£12.00"})),
			offersSnapshot(offerListHTML()),
			offersSnapshot(offerListHTML()),
		},
		scrolls: []scripted{scrollStep(false), scrollStep(false), scrollStep(false), scrollStep(false)},
	}

	scanner := NewOfferScanner("New", noSleep())
	result, err := scanner.Scan(context.Background(), NewPage(client, "tab-1"))
	require.NoError(t, err)
	require.True(t, result.LowestAmount.Valid)
	assert.Equal(t, "9.5", result.LowestAmount.Decimal.String())
	assert.Equal(t, "£9.50", result.LowestRaw)
	assert.Equal(t, 2, result.LoadedOffers)
	assert.Equal(t, 1, result.MatchingOffers)
}

func TestScanStopsAtEndOfContent(t *testing.T) {
	client := &fakeClient{
		offers: []scripted{
			offersSnapshot(offerListHTML([2]string{"New", "£20.00"})),
			offersSnapshot(offerListHTML([2]string{"New", "£20.00"}, [2]string{"New", "£18.00"})),
			offersSnapshot(offerListHTML([2]string{"New", "£1.00"})), // never reached
		},
		scrolls: []scripted{scrollStep(false), scrollStep(true)},
	}

	scanner := NewOfferScanner("New", noSleep())
	result, err := scanner.Scan(context.Background(), NewPage(client, "tab-1"))
	require.NoError(t, err)
	require.True(t, result.LowestAmount.Valid)
	assert.Equal(t, "18", result.LowestAmount.Decimal.String())
	// One snapshot remains queued: the scan stopped on the end-of-content signal.
	assert.Len(t, client.offers, 1)
}

func TestScanCapsIterations(t *testing.T) {
	var snapshots []scripted
	var scrolls []scripted
	for i := 0; i < 10; i++ {
		snapshots = append(snapshots, offersSnapshot(offerListHTML([2]string{"New", "£20.00"})))
		scrolls = append(scrolls, scrollStep(false))
	}
	client := &fakeClient{offers: snapshots, scrolls: scrolls}

	scanner := NewOfferScanner("New", noSleep())
	_, err := scanner.Scan(context.Background(), NewPage(client, "tab-1"))
	require.NoError(t, err)
	assert.Len(t, client.offers, 6, "scan must stop after 4 iterations")
}

func TestScanConditionMatchIsExactAndCaseInsensitive(t *testing.T) {
	client := &fakeClient{
		offers: []scripted{
			offersSnapshot(offerListHTML(
				[2]string{"NEW", "£10.00"},
				[2]string{"Used - Like New", "£2.00"},
				[2]string{"Renewed", "£1.00"},
			)),
		},
		scrolls: []scripted{scrollStep(true)},
	}

	scanner := NewOfferScanner("New", noSleep())
	result, err := scanner.Scan(context.Background(), NewPage(client, "tab-1"))
	require.NoError(t, err)
	assert.Equal(t, 1, result.MatchingOffers)
	assert.Equal(t, "£10.00", result.LowestRaw)
}

func TestScanReturnsNullsWhenNothingMatches(t *testing.T) {
	client := &fakeClient{
		offers:  []scripted{offersSnapshot(offerListHTML([2]string{"Used", "£2.00"}))},
		scrolls: []scripted{scrollStep(true)},
	}

	scanner := NewOfferScanner("New", noSleep())
	result, err := scanner.Scan(context.Background(), NewPage(client, "tab-1"))
	require.NoError(t, err)
	assert.False(t, result.LowestAmount.Valid)
	assert.Empty(t, result.LowestRaw)
	assert.Equal(t, 1, result.LoadedOffers)
	assert.Equal(t, 0, result.MatchingOffers)
}

func TestScanPropagatesEvaluateError(t *testing.T) {
	client := &fakeClient{
		offers: []scripted{{err: errors.New("evaluate timed out")}},
	}

	scanner := NewOfferScanner("New", noSleep())
	_, err := scanner.Scan(context.Background(), NewPage(client, "tab-1"))
	assert.Error(t, err)
}

package checker

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"tnu/pricetracker/internal/browser"
)

// scripted is one queued evaluation response.
type scripted struct {
	raw json.RawMessage
	err error
}

// fakeClient scripts browser evaluations by inspecting the submitted script,
// so the pipeline runs against canned JSON instead of a real browser.
type fakeClient struct {
	mu sync.Mutex

	openTarget string
	openErr    error
	openCalls  []string

	navErr   error
	navCalls []string

	product []scripted
	offers  []scripted
	scrolls []scripted

	closeCalls []string
}

var _ browser.Client = (*fakeClient)(nil)

func (f *fakeClient) Start(context.Context) error { return nil }

func (f *fakeClient) Open(_ context.Context, url string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.openCalls = append(f.openCalls, url)
	if f.openErr != nil {
		return "", f.openErr
	}
	if f.openTarget == "" {
		return "tab-1", nil
	}
	return f.openTarget, nil
}

func (f *fakeClient) Navigate(_ context.Context, _, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.navCalls = append(f.navCalls, url)
	return f.navErr
}

func (f *fakeClient) Evaluate(_ context.Context, _, fn string) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var queue *[]scripted
	switch {
	case strings.Contains(fn, "productTitle"):
		queue = &f.product
	case strings.Contains(fn, "aod-offer-list"):
		queue = &f.offers
	case strings.Contains(fn, "scrollBy"):
		queue = &f.scrolls
	default:
		return nil, nil
	}

	if len(*queue) == 0 {
		return nil, nil
	}
	next := (*queue)[0]
	*queue = (*queue)[1:]
	return next.raw, next.err
}

func (f *fakeClient) Close(_ context.Context, target string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closeCalls = append(f.closeCalls, target)
}

func offersSnapshot(html string) scripted {
	payload, _ := json.Marshal(map[string]string{"html": html})
	return scripted{raw: payload}
}

func scrollStep(atEnd bool) scripted {
	payload, _ := json.Marshal(map[string]any{"before": 0, "after": 1800, "atEnd": atEnd, "scrollHeight": 9000})
	return scripted{raw: payload}
}

func productPayload(title, buybox, offersURL, url string) scripted {
	payload, _ := json.Marshal(map[string]any{
		"title":       title,
		"buyboxPrice": buybox,
		"offersUrl":   offersURL,
		"url":         url,
	})
	return scripted{raw: payload}
}

// Package browser wraps the external browser-automation tool behind a small
// client interface so the extraction pipeline can run against fakes in tests.
package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// The in-page evaluate timeout passed to the tool, in milliseconds. The
// subprocess itself gets a longer outer timeout from the client.
const evalTimeoutMs = "60000"

// Client is the browser-automation surface the pipeline consumes. Every call
// may fail with a timeout or a non-zero tool exit; callers treat those as
// recoverable at per-product granularity.
type Client interface {
	// Start ensures the shared browser session is running.
	Start(ctx context.Context) error

	// Open opens a new tab at url and returns its target handle.
	Open(ctx context.Context, url string) (string, error)

	// Navigate points an existing tab at url.
	Navigate(ctx context.Context, target, url string) error

	// Evaluate runs a JS function in the tab and returns the raw JSON result.
	Evaluate(ctx context.Context, target, fn string) (json.RawMessage, error)

	// Close closes the tab. Best-effort; errors are swallowed.
	Close(ctx context.Context, target string)
}

// OpenClaw drives the openclaw CLI through a Runner.
type OpenClaw struct {
	runner  Runner
	timeout time.Duration
}

var _ Client = (*OpenClaw)(nil)

// NewOpenClaw creates a client with the given per-call subprocess timeout.
func NewOpenClaw(runner Runner, timeout time.Duration) *OpenClaw {
	return &OpenClaw{runner: runner, timeout: timeout}
}

// Start ensures the browser process is up.
func (c *OpenClaw) Start(ctx context.Context) error {
	_, err := c.runner.Run(ctx, 60*time.Second, "browser", "start")
	if err != nil {
		return fmt.Errorf("browser start: %w", err)
	}
	return nil
}

// Open opens a tab and returns the reported target id.
func (c *OpenClaw) Open(ctx context.Context, url string) (string, error) {
	out, err := c.runner.Run(ctx, c.timeout,
		"browser", "open", "--json", "--expect-final", "--timeout", evalTimeoutMs, url)
	if err != nil {
		return "", fmt.Errorf("browser open: %w", err)
	}

	var resp struct {
		TargetID string `json:"targetId"`
	}
	if err := json.Unmarshal(out, &resp); err != nil {
		return "", fmt.Errorf("browser open: decode response: %w", err)
	}
	if resp.TargetID == "" {
		return "", fmt.Errorf("browser open: no targetId in response")
	}
	return resp.TargetID, nil
}

// Navigate loads url in an existing tab.
func (c *OpenClaw) Navigate(ctx context.Context, target, url string) error {
	_, err := c.runner.Run(ctx, c.timeout,
		"browser", "navigate", "--target-id", target, url)
	if err != nil {
		return fmt.Errorf("browser navigate: %w", err)
	}
	return nil
}

// Evaluate runs fn in the tab and returns the result payload.
func (c *OpenClaw) Evaluate(ctx context.Context, target, fn string) (json.RawMessage, error) {
	out, err := c.runner.Run(ctx, c.timeout,
		"browser", "evaluate", "--json", "--expect-final", "--timeout", evalTimeoutMs,
		"--target-id", target, "--fn", fn)
	if err != nil {
		return nil, fmt.Errorf("browser evaluate: %w", err)
	}

	var resp struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(out, &resp); err != nil {
		return nil, fmt.Errorf("browser evaluate: decode response: %w", err)
	}
	return resp.Result, nil
}

// Close closes the tab. The tab is gone either way, so failures are dropped.
func (c *OpenClaw) Close(ctx context.Context, target string) {
	_, _ = c.runner.Run(ctx, 30*time.Second, "browser", "close", target)
}

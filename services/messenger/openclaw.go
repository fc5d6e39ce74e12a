package messenger

import (
	"context"
	"fmt"
	"time"

	"github.com/codeGROOVE-dev/retry-go"

	"tnu/pricetracker/internal/browser"
)

// OpenClaw sends messages through the openclaw messaging CLI, reusing the
// same subprocess runner the browser client uses.
type OpenClaw struct {
	runner  browser.Runner
	timeout time.Duration
}

var _ Messenger = (*OpenClaw)(nil)

// NewOpenClaw creates a messenger with the given per-call timeout.
func NewOpenClaw(runner browser.Runner, timeout time.Duration) *OpenClaw {
	return &OpenClaw{runner: runner, timeout: timeout}
}

// Send delivers text to the target on the channel, with a few quick retries
// for transient tool failures.
func (m *OpenClaw) Send(ctx context.Context, channel, target, text string) error {
	err := retry.Do(
		func() error {
			_, err := m.runner.Run(ctx, m.timeout,
				"message", "send",
				"--channel", channel,
				"--target", target,
				"--message", text)
			return err
		},
		retry.Attempts(3),
		retry.Delay(2*time.Second),
		retry.Context(ctx),
	)
	if err != nil {
		return fmt.Errorf("send digest: %w", err)
	}
	return nil
}

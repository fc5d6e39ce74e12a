package browser

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Runner executes one automation-tool invocation and returns its stdout.
// A non-zero exit or a timeout is returned as an error.
type Runner interface {
	Run(ctx context.Context, timeout time.Duration, args ...string) ([]byte, error)
}

// ExecRunner runs the automation tool as a subprocess.
type ExecRunner struct {
	Bin string
}

var _ Runner = (*ExecRunner)(nil)

// NewExecRunner creates a runner for the given binary.
func NewExecRunner(bin string) *ExecRunner {
	return &ExecRunner{Bin: bin}
}

// Run invokes the tool with a hard upper-bound timeout.
func (r *ExecRunner) Run(ctx context.Context, timeout time.Duration, args ...string) ([]byte, error) {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, r.Bin, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if runCtx.Err() != nil {
			return nil, fmt.Errorf("command timed out: %s %s", r.Bin, strings.Join(args, " "))
		}
		return nil, fmt.Errorf("command failed: %s %s: %w: %s",
			r.Bin, strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}

	return stdout.Bytes(), nil
}

package vpn

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/yllada/wg-manager/common"
)

// DefaultWaitDelay bounds how long Run waits for output after a kill.
const DefaultWaitDelay = time.Second

// ExecRunner runs commands as child processes.
type ExecRunner struct {
	// WaitDelay bounds the wait for a killed process's output pipes to close.
	// Grandchildren that inherited them would otherwise block Run.
	WaitDelay time.Duration
}

// NewExecRunner returns an ExecRunner with default settings.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{WaitDelay: DefaultWaitDelay}
}

// Run starts cmd and waits up to timeout for it to exit. A process still
// running at the deadline is killed and reaped, and whatever it wrote is
// returned with Code -1. The error is non-nil only if the process could
// not be started.
func (r *ExecRunner) Run(ctx context.Context, cmd common.Command, timeout time.Duration) (common.Result, error) {
	if timeout <= 0 {
		return common.Result{Code: -1}, fmt.Errorf("run %s: timeout must be positive, got %v", cmd.Name, timeout)
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	if cmd.Stdin != "" {
		c.Stdin = strings.NewReader(cmd.Stdin)
	}
	var outBuf, errBuf bytes.Buffer
	c.Stdout = &outBuf
	c.Stderr = &errBuf
	c.WaitDelay = r.WaitDelay
	if c.WaitDelay <= 0 {
		c.WaitDelay = DefaultWaitDelay
	}

	common.LogDebug("Running %s (timeout %v)", cmd, timeout)
	err := c.Run()

	res := common.Result{
		Stdout:   outBuf.String(),
		Stderr:   errBuf.String(),
		TimedOut: errors.Is(ctx.Err(), context.DeadlineExceeded),
	}

	if err != nil {
		var ee *exec.ExitError
		switch {
		case errors.As(err, &ee):
			res.Code = ee.ExitCode()
		case c.ProcessState != nil:
			res.Code = c.ProcessState.ExitCode()
		default:
			res.Code = -1
			common.LogError("Cmd: %s could not be started: %v", cmd, err)
			return res, fmt.Errorf("start %s: %w", cmd.Name, err)
		}
	}
	if res.TimedOut && res.Code == 0 {
		res.Code = -1
	}

	switch {
	case res.TimedOut:
		common.LogError("Cmd: %s timed out after %v and was killed. Output:\n%s", cmd, timeout, res.Combined())
	case res.Code != 0:
		common.LogError("Cmd: %s failed with status code %d. Output:\n%s", cmd, res.Code, res.Combined())
	default:
		common.LogDebug("Cmd: %s succeeded. Output:\n%s", cmd, res.Combined())
	}

	return res, nil
}

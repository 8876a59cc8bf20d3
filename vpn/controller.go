package vpn

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yllada/wg-manager/common"
	"github.com/yllada/wg-manager/wgconf"
)

// Controller queries and drives tunnel activation through wg(8) and
// wg-quick(8). Calls block until the external tool exits or its timeout
// expires. Toggling the same tunnel from two goroutines is not supported.
type Controller struct {
	Runner        common.Runner
	Links         LinkInspector
	WgBinary      string
	WgQuickBinary string
	ShowTimeout   time.Duration
	ToggleTimeout time.Duration
}

// NewController returns a Controller with the default tools and timeouts.
func NewController(runner common.Runner, links LinkInspector) *Controller {
	return &Controller{
		Runner:        runner,
		Links:         links,
		WgBinary:      common.DefaultWgBinary,
		WgQuickBinary: common.DefaultWgQuickBinary,
		ShowTimeout:   common.ShowTimeout,
		ToggleTimeout: common.ToggleTimeout,
	}
}

// State classifies the tunnel called name. A failed or empty "wg show" is
// WgQuickDown; otherwise the link flags decide between WgQuickUp and
// IplinkDown.
func (c *Controller) State(ctx context.Context, name string) NetState {
	cmd := common.Command{Name: c.WgBinary, Args: []string{"show", name}}
	res, err := c.Runner.Run(ctx, cmd, c.ShowTimeout)
	if err != nil || !res.Success() || strings.TrimSpace(res.Stdout) == "" {
		return WgQuickDown
	}

	up, err := c.Links.IsUpAndRunning(name)
	if err != nil {
		common.LogWarn("Could not read link flags of %s: %v", name, err)
		return IplinkDown
	}
	if !up {
		return IplinkDown
	}
	return WgQuickUp
}

// Toggle brings the tunnel down if it is active and up otherwise. Before
// bringing it up, peer endpoints and required fields of cfg are checked
// and nothing runs if they are invalid. A tunnel whose link is down is
// reset with "down" before "up", and a failed reset is returned without
// running "up".
func (c *Controller) Toggle(ctx context.Context, name string, cfg *wgconf.Config, configPath string) error {
	state := c.State(ctx, name)
	common.LogDebug("Tunnel %s is %s", name, state)
	return c.transition(ctx, name, state, cfg, configPath)
}

func (c *Controller) transition(ctx context.Context, name string, state NetState, cfg *wgconf.Config, configPath string) error {
	if state != WgQuickUp {
		if err := cfg.ValidateEndpoints(); err != nil {
			return err
		}
		if err := cfg.ValidateForActivation(); err != nil {
			return err
		}
	}

	target := configPath
	if target == "" {
		target = name
	}

	switch state {
	case IplinkDown:
		if err := c.quick(ctx, name, "down", target); err != nil {
			return err
		}
		return c.quick(ctx, name, "up", target)
	case WgQuickUp:
		return c.quick(ctx, name, "down", target)
	case WgQuickDown:
		return c.quick(ctx, name, "up", target)
	default:
		return &common.ActivationError{Tunnel: name, Reason: "unknown interface state", Err: common.ErrUnknownState}
	}
}

func (c *Controller) quick(ctx context.Context, name, action, target string) error {
	cmd := common.Command{Name: c.WgQuickBinary, Args: []string{action, target}}
	res, err := c.Runner.Run(ctx, cmd, c.ToggleTimeout)
	if err != nil {
		return &common.ActivationError{Tunnel: name, Reason: fmt.Sprintf("%s %s failed", c.WgQuickBinary, action), Err: err}
	}
	if res.TimedOut {
		return &common.ActivationError{
			Tunnel: name,
			Reason: fmt.Sprintf("%s %s did not finish within %v", c.WgQuickBinary, action, c.ToggleTimeout),
			Output: res.Combined(),
		}
	}
	if !res.Success() {
		return &common.ActivationError{
			Tunnel: name,
			Reason: fmt.Sprintf("%s %s exited with code %d", c.WgQuickBinary, action, res.Code),
			Output: res.Combined(),
		}
	}
	common.LogInfo("Tunnel %s: %s %s done", name, c.WgQuickBinary, action)
	return nil
}

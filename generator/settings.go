// Package generator creates a host tunnel config and a set of matching
// client configs with fresh keys.
package generator

import (
	"errors"
	"fmt"
	"net/netip"
	"path/filepath"

	"github.com/yllada/wg-manager/common"
	"github.com/yllada/wg-manager/wgconf"
)

// MaxPeers is the largest number of clients generated in one run.
const MaxPeers = 255

// Settings describes a host and its clients.
type Settings struct {
	// InterfaceName names the host config. Clients are named after it.
	InterfaceName string
	// Address is the host address; its prefix is the pool clients draw from.
	Address netip.Prefix
	// ListenPort is used by the host and every client.
	ListenPort uint16
	// NumberOfPeers is how many client configs to create.
	NumberOfPeers int
	// ClientAllowedIPs are routed through the host on every client.
	ClientAllowedIPs []netip.Prefix
	// Endpoint is where clients reach the host, if set.
	Endpoint string
	// PostUp and PostDown are written to the host config as-is.
	PostUp   string
	PostDown string
}

// DefaultSettings returns settings for a single client on 10.0.0.0/24 that
// routes all IPv4 traffic through the host.
func DefaultSettings() Settings {
	return Settings{
		InterfaceName:    "wg0",
		Address:          netip.MustParsePrefix("10.0.0.1/24"),
		ListenPort:       common.DefaultListenPort,
		NumberOfPeers:    1,
		ClientAllowedIPs: []netip.Prefix{netip.MustParsePrefix("0.0.0.0/0")},
	}
}

// Validate reports every problem with s.
func (s Settings) Validate() error {
	var errs []error

	switch {
	case s.InterfaceName == "":
		errs = append(errs, errors.New("interface name is required"))
	case filepath.Base(s.InterfaceName) != s.InterfaceName || s.InterfaceName == "." || s.InterfaceName == "..":
		errs = append(errs, fmt.Errorf("invalid interface name %q", s.InterfaceName))
	}
	if !s.Address.IsValid() {
		errs = append(errs, errors.New("address is required"))
	}
	if s.ListenPort == 0 {
		errs = append(errs, errors.New("listen port must be between 1 and 65535"))
	}
	if s.NumberOfPeers < 1 || s.NumberOfPeers > MaxPeers {
		errs = append(errs, fmt.Errorf("number of peers must be between 1 and %d, got %d", MaxPeers, s.NumberOfPeers))
	}
	if len(s.ClientAllowedIPs) == 0 {
		errs = append(errs, errors.New("at least one client allowed IP is required"))
	}
	for _, p := range s.ClientAllowedIPs {
		if !p.IsValid() {
			errs = append(errs, fmt.Errorf("invalid client allowed IP %v", p))
		}
	}
	if s.Endpoint != "" {
		if err := wgconf.ValidateEndpoint(s.Endpoint); err != nil {
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	return nil
}

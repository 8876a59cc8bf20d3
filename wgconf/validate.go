package wgconf

import (
	"fmt"
	"net"
	"net/netip"
	"strconv"
	"strings"

	"github.com/miekg/dns"

	"github.com/yllada/wg-manager/common"
)

// ValidateForActivation checks the fields the activation tool needs.
func (c *Config) ValidateForActivation() error {
	iface := c.Interface
	var missing []string
	if iface.PublicKey == "" {
		missing = append(missing, "PublicKey")
	}
	if iface.ListenPort == "" {
		missing = append(missing, "ListenPort")
	}
	if iface.Address == "" {
		missing = append(missing, "Address")
	}
	if iface.HasScriptBindIface && iface.BindingIface == "" {
		missing = append(missing, "BindIface")
	}
	if len(missing) > 0 {
		return c.activationError(fmt.Sprintf("missing required fields: %s", strings.Join(missing, ", ")))
	}

	if len(c.Peers) == 0 {
		return c.activationError("no peers configured")
	}
	for i, peer := range c.Peers {
		if peer.PublicKey == "" {
			return c.activationError(fmt.Sprintf("peer %s has no public key", peerLabel(i, peer)))
		}
	}
	return nil
}

// ValidateEndpoints checks every peer endpoint that is set.
func (c *Config) ValidateEndpoints() error {
	for i, peer := range c.Peers {
		if peer.Endpoint == "" {
			continue
		}
		if err := ValidateEndpoint(peer.Endpoint); err != nil {
			return c.activationError(fmt.Sprintf("peer %s: %v", peerLabel(i, peer), err))
		}
	}
	return nil
}

func (c *Config) activationError(reason string) error {
	return &common.ActivationError{Tunnel: c.Name(), Reason: reason, Err: common.ErrInvalidConfig}
}

func peerLabel(i int, peer Peer) string {
	if peer.Name != "" {
		return strconv.Quote(peer.Name)
	}
	return fmt.Sprintf("#%d", i+1)
}

// ValidateEndpoint checks host:port syntax. The host may be an IP literal
// (IPv6 in brackets) or, unlike a strict socket address check, a DNS name
// that wg-quick resolves when the tunnel comes up. The port must be 1-65535.
func ValidateEndpoint(endpoint string) error {
	host, port, err := net.SplitHostPort(strings.TrimSpace(endpoint))
	if err != nil {
		return fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}

	p, err := strconv.ParseUint(port, 10, 16)
	if err != nil || p == 0 {
		return fmt.Errorf("invalid endpoint %q: bad port %q", endpoint, port)
	}

	if _, err := netip.ParseAddr(host); err == nil {
		return nil
	}
	if !isHostName(host) {
		return fmt.Errorf("invalid endpoint %q: bad host %q", endpoint, host)
	}
	return nil
}

func isHostName(host string) bool {
	if host == "" || strings.ContainsAny(host, " \t\\/@") {
		return false
	}
	if _, ok := dns.IsDomainName(host); !ok {
		return false
	}
	// A numeric last label is a mistyped IP, not a name.
	labels := dns.SplitDomainName(host)
	if len(labels) == 0 {
		return false
	}
	_, err := strconv.Atoi(labels[len(labels)-1])
	return err != nil
}

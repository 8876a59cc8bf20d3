package wgconf

import (
	"fmt"
	"net/netip"
	"strings"

	"github.com/yllada/wg-manager/common"
)

// Comment keys that carry metadata.
const (
	commentName              = "Name"
	commentBindIface         = "BindIface"
	commentRoutingScriptName = "RoutingScriptName"
)

type section int

const (
	sectionNone section = iota
	sectionInterface
	sectionPeer
)

// parser holds the state of one Parse call.
type parser struct {
	keys    KeyDeriver
	cfg     *Config
	section section
	peer    *Peer
	// peerFresh is true until the open peer sees its first line.
	peerFresh bool
}

// Parse reads a tunnel config, deriving public keys in-process.
func Parse(text string) (*Config, error) {
	return ParseWith(text, WgtypesKeys{})
}

// ParseWith reads a tunnel config using keys to derive the interface
// public key. Errors are *common.FormatError values carrying the 1-based
// line number and the offending line.
func ParseWith(text string, keys KeyDeriver) (*Config, error) {
	p := &parser{keys: keys, cfg: &Config{}}

	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if err := p.line(i+1, line); err != nil {
			return nil, err
		}
	}
	p.closePeer()

	return p.cfg, nil
}

func (p *parser) line(n int, line string) error {
	switch {
	case strings.HasPrefix(line, "#"):
		p.comment(strings.TrimSpace(strings.TrimPrefix(line, "#")))
		return nil

	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		name := strings.TrimSpace(line[1 : len(line)-1])
		switch name {
		case "Interface":
			p.closePeer()
			p.section = sectionInterface
		case "Peer":
			p.closePeer()
			p.section = sectionPeer
			p.peer = &Peer{}
			p.peerFresh = true
		default:
			return &common.FormatError{Line: n, Text: line, Reason: fmt.Sprintf("unexpected section %q", name)}
		}
		return nil
	}

	key, value, ok := strings.Cut(line, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return &common.FormatError{Line: n, Text: line, Reason: "couldn't parse line"}
	}
	value = strings.TrimSpace(value)

	switch p.section {
	case sectionInterface:
		return p.interfaceAttr(n, line, key, value)
	case sectionPeer:
		p.peerFresh = false
		return p.peerAttr(n, line, key, value)
	default:
		return &common.FormatError{Line: n, Text: line, Reason: fmt.Sprintf("attribute %s outside of a section", key)}
	}
}

// comment handles a line starting with '#'; body has the '#' removed.
func (p *parser) comment(body string) {
	key, value, ok := strings.Cut(body, "=")
	if !ok {
		p.standaloneComment(body)
		return
	}
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)

	switch p.section {
	case sectionInterface:
		switch key {
		case commentName:
			p.cfg.Interface.Name = value
		case commentBindIface:
			p.cfg.Interface.BindingIface = value
			p.cfg.Interface.HasScriptBindIface = true
		case commentRoutingScriptName:
			p.cfg.Interface.RoutingScriptName = value
		}
	case sectionPeer:
		p.peerFresh = false
		if key == commentName {
			p.peer.Name = value
		}
	}
}

func (p *parser) interfaceAttr(n int, line, key, value string) error {
	iface := &p.cfg.Interface
	switch key {
	case "Address":
		if value != "" {
			if err := validateAddress(value); err != nil {
				return &common.FormatError{Line: n, Text: line, Reason: err.Error()}
			}
		}
		iface.Address = value
	case "ListenPort":
		iface.ListenPort = value
	case "PrivateKey":
		if err := iface.SetPrivateKey(value, p.keys); err != nil {
			return &common.FormatError{Line: n, Text: line, Reason: fmt.Sprintf("generating public key: %v", err)}
		}
	case "DNS":
		iface.DNS = value
	case "Table":
		iface.Table = value
	case "MTU":
		iface.MTU = value
	case "PreUp":
		iface.PreUp = value
	case "PostUp":
		iface.PostUp = value
	case "PreDown":
		iface.PreDown = value
	case "PostDown":
		iface.PostDown = value
	case "FwMark":
		iface.FwMark = value
	default:
		return &common.FormatError{Line: n, Text: line, Reason: fmt.Sprintf("unexpected Interface configuration key %s", key)}
	}
	return nil
}

func (p *parser) peerAttr(n int, line, key, value string) error {
	switch key {
	case "AllowedIPs":
		p.peer.AllowedIPs = value
	case "Endpoint":
		p.peer.Endpoint = value
	case "PublicKey":
		p.peer.PublicKey = value
	case "PersistentKeepalive":
		p.peer.PersistentKeepalive = value
	case "PresharedKey":
		p.peer.PresharedKey = value
	default:
		return &common.FormatError{Line: n, Text: line, Reason: fmt.Sprintf("unexpected Peer configuration key %s", key)}
	}
	return nil
}

func (p *parser) closePeer() {
	if p.peer == nil {
		return
	}
	p.cfg.Peers = append(p.cfg.Peers, *p.peer)
	p.peer = nil
	p.peerFresh = false
}

// validateAddress accepts a comma separated list of IPs or CIDR prefixes.
func validateAddress(value string) error {
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return fmt.Errorf("invalid IP address %q", value)
		}
		if strings.Contains(part, "/") {
			if _, err := netip.ParsePrefix(part); err != nil {
				return fmt.Errorf("invalid IP address %q", part)
			}
			continue
		}
		if _, err := netip.ParseAddr(part); err != nil {
			return fmt.Errorf("invalid IP address %q", part)
		}
	}
	return nil
}

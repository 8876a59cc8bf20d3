package generator

import (
	"fmt"
	"net/netip"
	"strconv"
	"strings"

	"github.com/yllada/wg-manager/common"
	"github.com/yllada/wg-manager/wgconf"
)

// Result holds the generated configs.
type Result struct {
	Host    *wgconf.Config
	Clients []*wgconf.Config
}

// Configs returns the host config followed by the clients.
func (r *Result) Configs() []*wgconf.Config {
	return append([]*wgconf.Config{r.Host}, r.Clients...)
}

type keyPair struct {
	private, public string
}

func newKeyPair(keys wgconf.KeyGenerator) (keyPair, error) {
	priv, err := keys.GeneratePrivateKey()
	if err != nil {
		return keyPair{}, err
	}
	pub, err := keys.PublicKey(priv)
	if err != nil {
		return keyPair{}, err
	}
	return keyPair{private: priv, public: pub}, nil
}

// Generate creates a host config at s.Address and s.NumberOfPeers client
// configs at the following addresses inside the same prefix. Every address
// is written as a single-host prefix. The host lists each client as a peer
// and each client lists the host.
func Generate(s Settings, keys wgconf.KeyGenerator) (*Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	addrs, err := allocate(s.Address, s.NumberOfPeers+1)
	if err != nil {
		return nil, err
	}

	hostKeys, err := newKeyPair(keys)
	if err != nil {
		return nil, fmt.Errorf("host keys: %w", err)
	}

	port := strconv.Itoa(int(s.ListenPort))
	host := &wgconf.Config{Interface: wgconf.Interface{
		Name:       s.InterfaceName,
		Address:    hostPrefix(addrs[0]).String(),
		ListenPort: port,
		PrivateKey: hostKeys.private,
		PublicKey:  hostKeys.public,
		PostUp:     s.PostUp,
		PostDown:   s.PostDown,
	}}

	allowed := make([]string, len(s.ClientAllowedIPs))
	for i, p := range s.ClientAllowedIPs {
		allowed[i] = p.String()
	}

	result := &Result{Host: host}
	for i, addr := range addrs[1:] {
		clientKeys, err := newKeyPair(keys)
		if err != nil {
			return nil, fmt.Errorf("client %d keys: %w", i+1, err)
		}
		name := fmt.Sprintf("%s-client%d", s.InterfaceName, i+1)
		address := hostPrefix(addr).String()

		result.Clients = append(result.Clients, &wgconf.Config{
			Interface: wgconf.Interface{
				Name:       name,
				Address:    address,
				ListenPort: port,
				PrivateKey: clientKeys.private,
				PublicKey:  clientKeys.public,
			},
			Peers: []wgconf.Peer{{
				Name:       s.InterfaceName,
				AllowedIPs: strings.Join(allowed, ", "),
				Endpoint:   s.Endpoint,
				PublicKey:  hostKeys.public,
			}},
		})
		host.Peers = append(host.Peers, wgconf.Peer{
			Name:       name,
			AllowedIPs: address,
			PublicKey:  clientKeys.public,
		})
	}

	common.LogInfo("Generated %s with %d clients in %s", s.InterfaceName, len(result.Clients), s.Address.Masked())
	return result, nil
}

// allocate returns n consecutive addresses starting at prefix's address,
// all inside the prefix.
func allocate(prefix netip.Prefix, n int) ([]netip.Addr, error) {
	network := prefix.Masked()
	addr := prefix.Addr()

	addrs := make([]netip.Addr, 0, n)
	for len(addrs) < n {
		if !addr.IsValid() || !network.Contains(addr) {
			return nil, fmt.Errorf("%w: %s has room for %d of %d addresses starting at %s",
				common.ErrInvalidConfig, network, len(addrs), n, prefix.Addr())
		}
		addrs = append(addrs, addr)
		addr = addr.Next()
	}
	return addrs, nil
}

func hostPrefix(addr netip.Addr) netip.Prefix {
	return netip.PrefixFrom(addr, addr.BitLen())
}

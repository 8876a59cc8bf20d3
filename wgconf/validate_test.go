package wgconf

import (
	"errors"
	"strings"
	"testing"

	"github.com/yllada/wg-manager/common"
)

func activatable() *Config {
	return &Config{
		Interface: Interface{
			Name:       "wg0",
			Address:    "10.0.0.2/32",
			ListenPort: "51820",
			PrivateKey: alicePrivate,
			PublicKey:  alicePublic,
		},
		Peers: []Peer{{PublicKey: bobPublic, Endpoint: "198.51.100.1:51820"}},
	}
}

func TestValidateForActivation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing public key", func(c *Config) { c.Interface.PublicKey = "" }, "PublicKey"},
		{"missing listen port", func(c *Config) { c.Interface.ListenPort = "" }, "ListenPort"},
		{"missing address", func(c *Config) { c.Interface.Address = "" }, "Address"},
		{"no peers", func(c *Config) { c.Peers = nil }, "no peers"},
		{"peer without key", func(c *Config) {
			c.Peers = append(c.Peers, Peer{Name: "second"})
		}, `peer "second"`},
		{"bind iface required", func(c *Config) { c.Interface.HasScriptBindIface = true }, "BindIface"},
		{"bind iface present", func(c *Config) {
			c.Interface.HasScriptBindIface = true
			c.Interface.BindingIface = "eth0"
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := activatable()
			tt.mutate(cfg)

			err := cfg.ValidateForActivation()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("ValidateForActivation() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("ValidateForActivation() error = %v, want containing %q", err, tt.wantErr)
			}
			var ae *common.ActivationError
			if !errors.As(err, &ae) || ae.Tunnel != "wg0" {
				t.Errorf("ValidateForActivation() error = %#v, want ActivationError for wg0", err)
			}
		})
	}
}

func TestValidateEndpoint(t *testing.T) {
	tests := []struct {
		endpoint string
		valid    bool
	}{
		{"198.51.100.1:51820", true},
		{"[2001:db8::1]:51820", true},
		{"vpn.example.com:51820", true},
		{"localhost:1", true},
		{"host:65535", true},
		{"198.51.100.1", false},
		{"2001:db8::1:51820", false},
		{"vpn.example.com:0", false},
		{"vpn.example.com:65536", false},
		{"vpn.example.com:port", false},
		{"300.1.1.1:51820", false},
		{"bad host:51820", false},
		{":51820", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.endpoint, func(t *testing.T) {
			err := ValidateEndpoint(tt.endpoint)
			if (err == nil) != tt.valid {
				t.Errorf("ValidateEndpoint(%q) error = %v, want valid %v", tt.endpoint, err, tt.valid)
			}
		})
	}
}

func TestValidateEndpoints(t *testing.T) {
	cfg := activatable()
	cfg.Peers = append(cfg.Peers, Peer{Name: "no endpoint"})
	if err := cfg.ValidateEndpoints(); err != nil {
		t.Errorf("ValidateEndpoints() error = %v", err)
	}

	cfg.Peers = append(cfg.Peers, Peer{Name: "broken", Endpoint: "example.com"})
	err := cfg.ValidateEndpoints()
	if err == nil || !strings.Contains(err.Error(), "broken") {
		t.Errorf("ValidateEndpoints() error = %v, want error naming the peer", err)
	}
}

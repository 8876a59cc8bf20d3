package wgconf

import "strings"

// Interface is the [Interface] section of a tunnel config.
// Every field is optional; the empty string means absent.
type Interface struct {
	Name       string
	Address    string
	ListenPort string
	PrivateKey string
	// PublicKey is derived from PrivateKey. Use SetPrivateKey to change both.
	PublicKey string
	DNS       string
	Table     string
	MTU       string

	// Routing hooks. Either all empty or copied from a routing script.
	PreUp    string
	PostUp   string
	PreDown  string
	PostDown string
	FwMark   string

	BindingIface       string
	RoutingScriptName  string
	HasScriptBindIface bool
}

// Peer is one [Peer] section of a tunnel config.
type Peer struct {
	Name                string
	AllowedIPs          string
	Endpoint            string
	PublicKey           string
	PersistentKeepalive string
	PresharedKey        string
}

// Config is a complete tunnel definition. Its identity is Interface.Name.
type Config struct {
	Interface Interface
	Peers     []Peer
}

// Name returns the tunnel name.
func (c *Config) Name() string {
	return c.Interface.Name
}

// Clone returns a deep copy of the config.
func (c *Config) Clone() *Config {
	out := &Config{Interface: c.Interface}
	if c.Peers != nil {
		out.Peers = make([]Peer, len(c.Peers))
		copy(out.Peers, c.Peers)
	}
	return out
}

// SetPrivateKey stores key and recomputes the public key from it.
// An empty key clears both.
func (i *Interface) SetPrivateKey(key string, keys KeyDeriver) error {
	key = strings.TrimSpace(key)
	if key == "" {
		i.PrivateKey = ""
		i.PublicKey = ""
		return nil
	}
	pub, err := keys.PublicKey(key)
	if err != nil {
		return err
	}
	i.PrivateKey = key
	i.PublicKey = pub
	return nil
}

// HasHooks reports whether any routing hook field is populated.
func (i *Interface) HasHooks() bool {
	return i.PreUp != "" || i.PostUp != "" || i.PreDown != "" || i.PostDown != "" || i.FwMark != ""
}

package wgconf

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/yllada/wg-manager/common"
)

// RFC 7748 section 6.1 key pairs.
const (
	alicePrivate = "dwdtCnMYpX08FsFyUbJmRd9ML4frwJkqsXf7pR25LCo="
	alicePublic  = "hSDwCYkwp1R0i33ctD73Wg2/Og0mOBr066SpjqqbTmo="
	bobPrivate   = "XasIfmJKikt54X+Lg4AO5m87sSkmGLb9HC+LJ/+I4Os="
	bobPublic    = "3p7bfXt9wbTTW2HC7OQ1Nz+DQ8hbeGdNrfx+FG+IK08="
)

type fakeKeys struct {
	err error
}

func (f fakeKeys) PublicKey(privateKey string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "pub-" + privateKey, nil
}

func TestParse(t *testing.T) {
	text := `[Interface]
# Name = office
# BindIface = eth0
# RoutingScriptName = split
Address = 10.8.0.2/32, fd00::2/128
ListenPort = 51820
PrivateKey = ` + alicePrivate + `
DNS = 1.1.1.1
MTU = 1420
PreUp = iptables -A FORWARD -o eth0 -j ACCEPT
FwMark = 0xca6c

[Peer]
# Name = gateway
AllowedIPs = 0.0.0.0/0
Endpoint = vpn.example.com:51820
PublicKey = ` + bobPublic + `
PersistentKeepalive = 25

[Peer]
PublicKey = abc=
`

	cfg, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := &Config{
		Interface: Interface{
			Name:               "office",
			Address:            "10.8.0.2/32, fd00::2/128",
			ListenPort:         "51820",
			PrivateKey:         alicePrivate,
			PublicKey:          alicePublic,
			DNS:                "1.1.1.1",
			MTU:                "1420",
			PreUp:              "iptables -A FORWARD -o eth0 -j ACCEPT",
			FwMark:             "0xca6c",
			BindingIface:       "eth0",
			RoutingScriptName:  "split",
			HasScriptBindIface: true,
		},
		Peers: []Peer{
			{
				Name:                "gateway",
				AllowedIPs:          "0.0.0.0/0",
				Endpoint:            "vpn.example.com:51820",
				PublicKey:           bobPublic,
				PersistentKeepalive: "25",
			},
			{PublicKey: "abc="},
		},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Whitespace(t *testing.T) {
	text := "\r\n  [ Interface ]  \r\nAddress=10.0.0.1/24\r\n\r\n[Peer]\r\nPublicKey=abc=\r\n"

	cfg, err := ParseWith(text, fakeKeys{})
	if err != nil {
		t.Fatalf("ParseWith() error = %v", err)
	}
	if cfg.Interface.Address != "10.0.0.1/24" {
		t.Errorf("Address = %q, want 10.0.0.1/24", cfg.Interface.Address)
	}
	if len(cfg.Peers) != 1 || cfg.Peers[0].PublicKey != "abc=" {
		t.Errorf("Peers = %+v, want one peer with key abc=", cfg.Peers)
	}
}

func TestParse_EmptyPeerSectionsClose(t *testing.T) {
	cfg, err := ParseWith("[Interface]\n[Peer]\n[Peer]\n# Name = b\n", fakeKeys{})
	if err != nil {
		t.Fatalf("ParseWith() error = %v", err)
	}
	if len(cfg.Peers) != 2 {
		t.Fatalf("len(Peers) = %d, want 2", len(cfg.Peers))
	}
	if cfg.Peers[1].Name != "b" {
		t.Errorf("Peers[1].Name = %q, want b", cfg.Peers[1].Name)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantLine int
		wantText string
		wantMsg  string
	}{
		{
			name:     "unknown section",
			text:     "[Interface]\n[Server]\n",
			wantLine: 2,
			wantText: "[Server]",
			wantMsg:  "Server",
		},
		{
			name:     "unknown interface key",
			text:     "[Interface]\n\nBogus = 1\n",
			wantLine: 3,
			wantText: "Bogus = 1",
			wantMsg:  "Bogus",
		},
		{
			name:     "unknown peer key",
			text:     "[Interface]\n[Peer]\nListenPort = 1\n",
			wantLine: 3,
			wantText: "ListenPort = 1",
			wantMsg:  "ListenPort",
		},
		{
			name:     "not an assignment",
			text:     "[Interface]\nAddress 10.0.0.1\n",
			wantLine: 2,
			wantText: "Address 10.0.0.1",
			wantMsg:  "couldn't parse",
		},
		{
			name:     "bad address",
			text:     "[Interface]\nAddress = 10.0.0.300/24\n",
			wantLine: 2,
			wantText: "Address = 10.0.0.300/24",
			wantMsg:  "invalid IP",
		},
		{
			name:     "bad address in list",
			text:     "[Interface]\nAddress = 10.0.0.1/24, nope\n",
			wantLine: 2,
			wantMsg:  "nope",
		},
		{
			name:     "attribute before section",
			text:     "Address = 10.0.0.1/24\n",
			wantLine: 1,
			wantMsg:  "outside of a section",
		},
		{
			name:     "bad private key",
			text:     "[Interface]\nPrivateKey = not-base64\n",
			wantLine: 2,
			wantMsg:  "generating public key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			if err == nil {
				t.Fatal("Parse() error = nil, want error")
			}

			var fe *common.FormatError
			if !errors.As(err, &fe) {
				t.Fatalf("Parse() error = %T, want *common.FormatError", err)
			}
			if fe.Line != tt.wantLine {
				t.Errorf("Line = %d, want %d", fe.Line, tt.wantLine)
			}
			if tt.wantText != "" && fe.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", fe.Text, tt.wantText)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantMsg)
			}
			if !errors.Is(err, common.ErrInvalidConfig) {
				t.Error("format errors should match ErrInvalidConfig")
			}
		})
	}
}

func TestParse_PrivateKeyDerivationFailure(t *testing.T) {
	_, err := ParseWith("[Interface]\nPrivateKey = x\n", fakeKeys{err: errors.New("wg not installed")})
	if err == nil || !strings.Contains(err.Error(), "wg not installed") {
		t.Errorf("ParseWith() error = %v, want the derivation cause", err)
	}
}

func TestParse_CommentsIgnored(t *testing.T) {
	text := `# exported by some tool
[Interface]
# Bouncing = 3
# just a note
Address = 10.0.0.1/32
[Peer]
PublicKey = abc=
# trailing note
`
	cfg, err := ParseWith(text, fakeKeys{})
	if err != nil {
		t.Fatalf("ParseWith() error = %v", err)
	}
	if cfg.Interface.Name != "" {
		t.Errorf("Interface.Name = %q, want empty", cfg.Interface.Name)
	}
	if cfg.Peers[0].Name != "" {
		t.Errorf("Peers[0].Name = %q, want empty: the comment did not directly follow [Peer]", cfg.Peers[0].Name)
	}
}

func TestSetPrivateKey(t *testing.T) {
	var iface Interface
	if err := iface.SetPrivateKey(" "+bobPrivate+"\n", WgtypesKeys{}); err != nil {
		t.Fatalf("SetPrivateKey() error = %v", err)
	}
	if iface.PrivateKey != bobPrivate || iface.PublicKey != bobPublic {
		t.Errorf("SetPrivateKey() = (%q, %q), want (%q, %q)", iface.PrivateKey, iface.PublicKey, bobPrivate, bobPublic)
	}

	if err := iface.SetPrivateKey("", WgtypesKeys{}); err != nil {
		t.Fatalf("SetPrivateKey(\"\") error = %v", err)
	}
	if iface.PrivateKey != "" || iface.PublicKey != "" {
		t.Error("SetPrivateKey(\"\") should clear both keys")
	}

	iface.PrivateKey, iface.PublicKey = "keep", "keep-pub"
	if err := iface.SetPrivateKey("garbage", WgtypesKeys{}); err == nil {
		t.Error("SetPrivateKey(garbage) error = nil, want error")
	}
	if iface.PrivateKey != "keep" || iface.PublicKey != "keep-pub" {
		t.Error("failed SetPrivateKey must not change the keys")
	}
}

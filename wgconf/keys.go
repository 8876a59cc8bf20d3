package wgconf

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.zx2c4.com/wireguard/wgctrl/wgtypes"

	"github.com/yllada/wg-manager/common"
)

// KeyDeriver computes a public key from a base64 private key.
type KeyDeriver interface {
	PublicKey(privateKey string) (string, error)
}

// KeyGenerator creates new key pairs.
type KeyGenerator interface {
	KeyDeriver
	GeneratePrivateKey() (string, error)
}

// WgtypesKeys derives and generates Curve25519 keys in-process.
type WgtypesKeys struct{}

// PublicKey implements KeyDeriver.
func (WgtypesKeys) PublicKey(privateKey string) (string, error) {
	key, err := wgtypes.ParseKey(strings.TrimSpace(privateKey))
	if err != nil {
		return "", err
	}
	return key.PublicKey().String(), nil
}

// GeneratePrivateKey implements KeyGenerator.
func (WgtypesKeys) GeneratePrivateKey() (string, error) {
	key, err := wgtypes.GeneratePrivateKey()
	if err != nil {
		return "", fmt.Errorf("generate private key: %w", err)
	}
	return key.String(), nil
}

// ToolKeys runs "wg genkey" and "wg pubkey" through a bounded runner.
type ToolKeys struct {
	Runner  common.Runner
	Binary  string
	Timeout time.Duration
}

// PublicKey implements KeyDeriver.
func (k ToolKeys) PublicKey(privateKey string) (string, error) {
	return k.run(common.Command{
		Name:  k.binary(),
		Args:  []string{"pubkey"},
		Stdin: strings.TrimSpace(privateKey),
	})
}

// GeneratePrivateKey implements KeyGenerator.
func (k ToolKeys) GeneratePrivateKey() (string, error) {
	return k.run(common.Command{Name: k.binary(), Args: []string{"genkey"}})
}

func (k ToolKeys) run(cmd common.Command) (string, error) {
	timeout := k.Timeout
	if timeout <= 0 {
		timeout = common.KeyToolTimeout
	}

	res, err := k.Runner.Run(context.Background(), cmd, timeout)
	if err != nil {
		return "", fmt.Errorf("%s: %w", cmd, err)
	}
	if !res.Success() {
		return "", fmt.Errorf("%s exited with code %d: %s", cmd, res.Code, res.Combined())
	}
	out := strings.TrimSpace(res.Stdout)
	if out == "" {
		return "", errors.New(cmd.String() + " produced no output")
	}
	return out, nil
}

func (k ToolKeys) binary() string {
	if k.Binary == "" {
		return common.DefaultWgBinary
	}
	return k.Binary
}

package routing

import (
	"errors"
	"net"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vishvananda/netlink"
)

type fakeLister struct {
	links []netlink.Link
	err   error
}

func (f fakeLister) LinkList() ([]netlink.Link, error) {
	return f.links, f.err
}

func TestBindingInterfaces(t *testing.T) {
	lister := fakeLister{links: []netlink.Link{
		&netlink.Device{LinkAttrs: netlink.LinkAttrs{Name: "lo", Flags: net.FlagLoopback | net.FlagUp, EncapType: "loopback"}},
		&netlink.Device{LinkAttrs: netlink.LinkAttrs{Name: "wlp2s0", EncapType: "ether"}},
		&netlink.Device{LinkAttrs: netlink.LinkAttrs{Name: "enp3s0", Flags: net.FlagUp, EncapType: "ether"}},
		&netlink.Bridge{LinkAttrs: netlink.LinkAttrs{Name: "docker0", EncapType: "ether"}},
		&netlink.Veth{LinkAttrs: netlink.LinkAttrs{Name: "veth1", EncapType: "ether"}},
		&netlink.Wireguard{LinkAttrs: netlink.LinkAttrs{Name: "wg0", EncapType: "none"}},
		&netlink.Device{LinkAttrs: netlink.LinkAttrs{Name: "wwan0", EncapType: "none"}},
	}}

	got, err := BindingInterfaces(lister)
	if err != nil {
		t.Fatalf("BindingInterfaces() error = %v", err)
	}
	if diff := cmp.Diff([]string{"enp3s0", "wlp2s0"}, got); diff != "" {
		t.Errorf("BindingInterfaces() mismatch (-want +got):\n%s", diff)
	}
}

func TestBindingInterfaces_Error(t *testing.T) {
	if _, err := BindingInterfaces(fakeLister{err: errors.New("permission denied")}); err == nil {
		t.Error("BindingInterfaces() error = nil, want error")
	}
}

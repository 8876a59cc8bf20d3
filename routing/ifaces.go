package routing

import (
	"fmt"
	"net"
	"sort"

	"github.com/vishvananda/netlink"
)

// LinkLister lists the host's network links.
type LinkLister interface {
	LinkList() ([]netlink.Link, error)
}

// NetlinkLister reads links from the kernel.
type NetlinkLister struct{}

// LinkList implements LinkLister.
func (NetlinkLister) LinkList() ([]netlink.Link, error) {
	return netlink.LinkList()
}

// BindingInterfaces returns the names of physical Ethernet and Wi-Fi links,
// sorted. Both report an "ether" link layer; virtual links (bridges,
// tunnels, veth pairs) and loopback are left out.
func BindingInterfaces(lister LinkLister) ([]string, error) {
	links, err := lister.LinkList()
	if err != nil {
		return nil, fmt.Errorf("list network interfaces: %w", err)
	}

	var names []string
	for _, link := range links {
		attrs := link.Attrs()
		if attrs == nil || attrs.Flags&net.FlagLoopback != 0 {
			continue
		}
		if link.Type() != "device" || attrs.EncapType != "ether" {
			continue
		}
		names = append(names, attrs.Name)
	}
	sort.Strings(names)
	return names, nil
}

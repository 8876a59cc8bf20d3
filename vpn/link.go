package vpn

import (
	"errors"
	"net"

	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"
)

// LinkInspector reads the state of a network link.
type LinkInspector interface {
	// IsUpAndRunning reports whether the link is administratively up and
	// has carrier. A missing link is not an error.
	IsUpAndRunning(name string) (bool, error)
}

// NetlinkInspector reads link flags from the kernel over netlink.
type NetlinkInspector struct{}

// IsUpAndRunning implements LinkInspector.
func (NetlinkInspector) IsUpAndRunning(name string) (bool, error) {
	link, err := netlink.LinkByName(name)
	if err != nil {
		var notFound netlink.LinkNotFoundError
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, err
	}
	return linkUpAndRunning(link.Attrs()), nil
}

func linkUpAndRunning(attrs *netlink.LinkAttrs) bool {
	if attrs == nil {
		return false
	}
	return attrs.Flags&net.FlagUp != 0 && attrs.RawFlags&unix.IFF_RUNNING != 0
}

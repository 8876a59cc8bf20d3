package vpn

// NetState classifies the live state of a tunnel. It is recomputed on
// every query and never stored.
type NetState int

const (
	// IplinkUp means the link is up and running regardless of the tunnel
	// tool. State never reports it.
	IplinkUp NetState = iota
	// IplinkDown means the tunnel tool knows the interface but the link is
	// not up and running.
	IplinkDown
	// WgQuickUp means the tunnel is active.
	WgQuickUp
	// WgQuickDown means the tunnel tool reports nothing for the interface.
	WgQuickDown
)

// String returns a human-readable representation of the state.
func (s NetState) String() string {
	switch s {
	case IplinkUp:
		return "Link up"
	case IplinkDown:
		return "Link down"
	case WgQuickUp:
		return "Active"
	case WgQuickDown:
		return "Inactive"
	default:
		return "Unknown"
	}
}

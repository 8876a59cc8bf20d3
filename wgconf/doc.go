// Package wgconf models WireGuard tunnel configurations and converts them
// to and from the on-disk text format.
//
// The format is line oriented. Sections open with [Interface] or [Peer],
// attributes are "Key = value" pairs, and lines starting with '#' are
// comments. A small set of comment keys carries metadata the tunnel tool
// itself ignores:
//
//	[Interface]
//	# Name = office
//	# BindIface = eth0
//	# RoutingScriptName = split-tunnel
//	Address = 10.8.0.2/32
//	...
//
// Serialize always writes this explicit form, and Parse(Serialize(c))
// reproduces the same text.
//
// Configs exported by commercial VPN providers name things in free-form
// comments instead. Parse recognises two of those conventions on a
// best-effort basis (see vendor.go); they are lossy and never written back.
//
// Public keys are derived from private keys when parsing. The default
// deriver works in-process through wgtypes; ToolKeys shells out to wg(8)
// instead.
package wgconf

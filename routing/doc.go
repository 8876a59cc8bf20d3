// Package routing loads routing script templates and keeps tunnel configs
// consistent with them.
//
// A routing script is a small file of directives:
//
//	# split tunnel through the uplink
//	PostUp = iptables -t nat -A POSTROUTING -o {BINDING_IFACE} -j MASQUERADE; ip rule add fwmark 0xca6c table 1000
//	PostDown = iptables -t nat -D POSTROUTING -o {BINDING_IFACE} -j MASQUERADE
//	FwMark = 0xca6c
//
// Attaching a script copies its directives into the tunnel's hook fields,
// replacing {BINDING_IFACE} with the interface the user picked. On load,
// ValidateAssignRoutingScript checks that the hooks still match the script
// so hand-edited or stale configs are caught before activation.
package routing

package wgconf

import "strings"

type field struct {
	key   string
	value string
}

// Serialize renders cfg in the on-disk format. Absent fields are skipped,
// and the bind interface is only written when the attached routing script
// uses it.
func Serialize(cfg *Config) string {
	var b strings.Builder

	iface := cfg.Interface
	bindIface := ""
	if iface.HasScriptBindIface {
		bindIface = iface.BindingIface
	}

	b.WriteString("[Interface]\n")
	writeFields(&b, []field{
		{"# " + commentName, iface.Name},
		{"# " + commentBindIface, bindIface},
		{"# " + commentRoutingScriptName, iface.RoutingScriptName},
		{"Address", iface.Address},
		{"ListenPort", iface.ListenPort},
		{"PrivateKey", iface.PrivateKey},
		{"DNS", iface.DNS},
		{"Table", iface.Table},
		{"MTU", iface.MTU},
		{"PreUp", iface.PreUp},
		{"PostUp", iface.PostUp},
		{"PreDown", iface.PreDown},
		{"PostDown", iface.PostDown},
		{"FwMark", iface.FwMark},
	})
	b.WriteByte('\n')

	for _, peer := range cfg.Peers {
		b.WriteString("[Peer]\n")
		writeFields(&b, []field{
			{"# " + commentName, peer.Name},
			{"AllowedIPs", peer.AllowedIPs},
			{"Endpoint", peer.Endpoint},
			{"PublicKey", peer.PublicKey},
			{"PersistentKeepalive", peer.PersistentKeepalive},
			{"PresharedKey", peer.PresharedKey},
		})
		b.WriteByte('\n')
	}

	return b.String()
}

// writeFields trims values the way the parser does, so a blank value is
// absent.
func writeFields(b *strings.Builder, fields []field) {
	for _, f := range fields {
		value := strings.TrimSpace(f.value)
		if value == "" {
			continue
		}
		b.WriteString(f.key)
		b.WriteString(" = ")
		b.WriteString(value)
		b.WriteByte('\n')
	}
}

package wgconf

import "strings"

// Best-effort handling of free-form comments found in provider exports.
// Neither rule is reflected by Serialize, so configs relying on them do not
// round-trip. A provider that writes an unrelated comment right after
// [Peer] will get that comment as the peer name.

const vendorKeyForPrefix = "Key for "

// standaloneComment applies the provider heuristics to a comment without '='.
func (p *parser) standaloneComment(body string) {
	switch p.section {
	case sectionNone, sectionInterface:
		if p.cfg.Interface.Name != "" {
			return
		}
		if name, ok := strings.CutPrefix(body, vendorKeyForPrefix); ok {
			p.cfg.Interface.Name = strings.TrimSpace(name)
		}
	case sectionPeer:
		fresh := p.peerFresh
		p.peerFresh = false
		if fresh && p.peer.Name == "" && body != "" {
			p.peer.Name = body
		}
	}
}

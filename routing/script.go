package routing

import (
	"fmt"
	"strings"

	"github.com/yllada/wg-manager/common"
)

// BindIfacePlaceholder stands for the binding interface inside directives.
const BindIfacePlaceholder = "{BINDING_IFACE}"

// Directive keywords.
const (
	KeyPreUp    = "PreUp"
	KeyPostUp   = "PostUp"
	KeyPreDown  = "PreDown"
	KeyPostDown = "PostDown"
	KeyFwMark   = "FwMark"
)

var allowedPrefixes = []string{"iptables", "ip6tables", "ip "}

// Script is a parsed routing script template. Name is the file name and
// identifies the template.
type Script struct {
	Path    string
	Name    string
	Content string

	PreUp    string
	PostUp   string
	PreDown  string
	PostDown string
	FwMark   string

	// HasBindInterface is true when any directive uses BindIfacePlaceholder.
	HasBindInterface bool
}

// hooks returns the up/down directives with their keywords, in file order.
func (s *Script) hooks() []hook {
	return []hook{
		{KeyPreUp, s.PreUp},
		{KeyPostUp, s.PostUp},
		{KeyPreDown, s.PreDown},
		{KeyPostDown, s.PostDown},
	}
}

type hook struct {
	key   string
	value string
}

func (s *Script) set(key, value string) {
	switch key {
	case KeyPreUp:
		s.PreUp = value
	case KeyPostUp:
		s.PostUp = value
	case KeyPreDown:
		s.PreDown = value
	case KeyPostDown:
		s.PostDown = value
	case KeyFwMark:
		s.FwMark = value
	}
}

// ParseScript parses the directives in content. Blank lines and lines
// starting with '#' are skipped. Commands in a directive are separated by
// ';' and stored joined by "; ".
func ParseScript(name, content string) (*Script, error) {
	s := &Script{Name: name, Content: content}
	fail := func(format string, args ...interface{}) error {
		return &common.ScriptError{Script: name, Reason: fmt.Sprintf(format, args...)}
	}

	seen := make(map[string]bool)
	for i, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fail("line %d: expected `Keyword = commands`, got %q", i+1, line)
		}
		key = strings.TrimSpace(key)

		switch key {
		case KeyPreUp, KeyPostUp, KeyPreDown, KeyPostDown, KeyFwMark:
		default:
			return nil, fail("line %d: unknown directive %q", i+1, key)
		}
		if seen[key] {
			return nil, fail("line %d: duplicate directive %s", i+1, key)
		}
		seen[key] = true

		var cmds []string
		for _, cmd := range strings.Split(value, ";") {
			if cmd = strings.TrimSpace(cmd); cmd != "" {
				cmds = append(cmds, cmd)
			}
		}
		if len(cmds) == 0 {
			return nil, fail("%s has no commands", key)
		}

		for _, cmd := range cmds {
			if key != KeyFwMark && !allowedCommand(cmd) {
				return nil, fail("%s: command %q is not allowed, commands must start with iptables, ip6tables or `ip `", key, cmd)
			}
			if strings.Contains(cmd, BindIfacePlaceholder) {
				s.HasBindInterface = true
			}
		}

		s.set(key, strings.Join(cmds, "; "))
	}

	if s.PreUp == "" && s.PostUp == "" && s.PreDown == "" && s.PostDown == "" {
		return nil, fail("no PreUp, PostUp, PreDown or PostDown directive")
	}
	return s, nil
}

func allowedCommand(cmd string) bool {
	for _, prefix := range allowedPrefixes {
		if strings.HasPrefix(cmd, prefix) {
			return true
		}
	}
	return false
}

package routing

import (
	"fmt"
	"strings"

	"github.com/yllada/wg-manager/common"
	"github.com/yllada/wg-manager/wgconf"
)

// Find returns the script called name.
func Find(scripts []Script, name string) (Script, bool) {
	for _, s := range scripts {
		if s.Name == name {
			return s, true
		}
	}
	return Script{}, false
}

// ValidateAssignRoutingScript checks that the hooks stored in cfg match the
// routing script it names. The script's hooks are expanded with the
// configured binding interface before comparing, so the interface name may
// also appear literally in the script. FwMark is compared as-is.
// On success HasScriptBindIface is set from the script.
func ValidateAssignRoutingScript(scripts []Script, cfg *wgconf.Config) error {
	iface := &cfg.Interface
	if iface.RoutingScriptName == "" {
		return nil
	}

	script, ok := Find(scripts, iface.RoutingScriptName)
	if !ok {
		return &common.ReconciliationError{
			Script: iface.RoutingScriptName,
			Field:  "RoutingScriptName",
			Reason: "script not found, please select the routing script again",
			Err:    common.ErrScriptNotFound,
		}
	}

	got := []hook{
		{KeyPreUp, iface.PreUp},
		{KeyPostUp, iface.PostUp},
		{KeyPreDown, iface.PreDown},
		{KeyPostDown, iface.PostDown},
	}
	for i, want := range script.hooks() {
		expected := want.value
		if script.HasBindInterface && iface.BindingIface != "" {
			expected = strings.ReplaceAll(expected, BindIfacePlaceholder, iface.BindingIface)
		}
		if got[i].value != expected {
			return &common.ReconciliationError{
				Script: script.Name,
				Field:  want.key,
				Reason: fmt.Sprintf("%q does not match the routing script", got[i].value),
			}
		}
	}

	if iface.FwMark != script.FwMark {
		return &common.ReconciliationError{
			Script: script.Name,
			Field:  KeyFwMark,
			Reason: fmt.Sprintf("%q does not match the routing script", iface.FwMark),
		}
	}

	iface.HasScriptBindIface = script.HasBindInterface
	return nil
}

// ValidateBindingIface checks that the binding interface set on cfg, if
// any, is one of known.
func ValidateBindingIface(known []string, cfg *wgconf.Config) error {
	name := cfg.Interface.BindingIface
	if name == "" || common.StringInSlice(name, known) {
		return nil
	}
	return &common.ReconciliationError{
		Script: cfg.Interface.RoutingScriptName,
		Field:  "BindIface",
		Reason: fmt.Sprintf("binding interface %q is not available", name),
	}
}

// ApplyScript attaches script to cfg, replacing any hooks it carried.
// bindIface must be one of known when the script uses the placeholder and
// is ignored otherwise.
func ApplyScript(cfg *wgconf.Config, script Script, bindIface string, known []string) error {
	if script.HasBindInterface {
		if bindIface == "" {
			return &common.ReconciliationError{
				Script: script.Name,
				Field:  "BindIface",
				Reason: "script needs a binding interface",
			}
		}
		if !common.StringInSlice(bindIface, known) {
			return &common.ReconciliationError{
				Script: script.Name,
				Field:  "BindIface",
				Reason: fmt.Sprintf("binding interface %q is not available", bindIface),
			}
		}
	} else {
		bindIface = ""
	}

	substitute := func(s string) string {
		if bindIface == "" {
			return s
		}
		return strings.ReplaceAll(s, BindIfacePlaceholder, bindIface)
	}

	iface := &cfg.Interface
	iface.PreUp = substitute(script.PreUp)
	iface.PostUp = substitute(script.PostUp)
	iface.PreDown = substitute(script.PreDown)
	iface.PostDown = substitute(script.PostDown)
	iface.FwMark = script.FwMark
	iface.RoutingScriptName = script.Name
	iface.BindingIface = bindIface
	iface.HasScriptBindIface = script.HasBindInterface
	return nil
}

// ResetHooks detaches any routing script from cfg. The rest of the config
// is left alone.
func ResetHooks(cfg *wgconf.Config) {
	iface := &cfg.Interface
	iface.PreUp = ""
	iface.PostUp = ""
	iface.PreDown = ""
	iface.PostDown = ""
	iface.FwMark = ""
	iface.RoutingScriptName = ""
	iface.BindingIface = ""
	iface.HasScriptBindIface = false
}

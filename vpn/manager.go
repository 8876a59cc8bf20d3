// Package vpn provides tunnel management functionality.
// This file contains the Manager type which keeps the tunnel list in sync
// with the config files on disk and with the kernel.
package vpn

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/yllada/wg-manager/common"
	"github.com/yllada/wg-manager/routing"
	"github.com/yllada/wg-manager/wgconf"
)

// Tunnel is a managed tunnel config.
type Tunnel struct {
	// Config is the parsed config file.
	Config *wgconf.Config
	// Path is the config file on disk.
	Path string
	// Active is the last known activation state.
	Active bool
}

// Name returns the tunnel name.
func (t *Tunnel) Name() string {
	return t.Config.Name()
}

func (t *Tunnel) clone() *Tunnel {
	return &Tunnel{Config: t.Config.Clone(), Path: t.Path, Active: t.Active}
}

// Options configures a Manager.
type Options struct {
	// ConfigsDir holds one .conf file per tunnel.
	ConfigsDir string
	// ScriptsDir holds routing script templates.
	ScriptsDir string
	// ExportRoot is the directory exports must be placed under.
	ExportRoot string
	// Write controls mode and ownership of written config files.
	Write wgconf.WriteOptions
}

// Manager orchestrates tunnels.
// It maintains the list of known tunnels, the routing scripts and binding
// interfaces available to them, and their activation state.
type Manager struct {
	opts       Options
	controller *Controller
	links      routing.LinkLister

	mu      sync.RWMutex
	tunnels []*Tunnel
	scripts []routing.Script
	ifaces  []string
}

// NewManager creates a new tunnel manager. Call Load before use.
func NewManager(opts Options, controller *Controller, links routing.LinkLister) *Manager {
	return &Manager{
		opts:       opts,
		controller: controller,
		links:      links,
	}
}

// Load scans routing scripts and binding interfaces, then reads every
// tunnel config. A config whose binding interface or routing hooks fail
// validation has its routing settings reset and is written back.
// Problems with individual files are returned as one joined error; the
// tunnels that loaded are available either way.
func (m *Manager) Load(ctx context.Context) error {
	var errs []error

	scripts, err := routing.ExtractScriptsMetadata(m.opts.ScriptsDir)
	if err != nil {
		errs = append(errs, err)
	}

	ifaces, err := routing.BindingInterfaces(m.links)
	if err != nil {
		errs = append(errs, err)
	}

	if err := common.EnsureDir(m.opts.ConfigsDir); err != nil {
		return fmt.Errorf("create configs directory: %w", err)
	}
	loaded, err := wgconf.LoadDir(m.opts.ConfigsDir)
	if err != nil {
		errs = append(errs, err)
	}

	var tunnels []*Tunnel
	seen := make(map[string]bool)
	for _, l := range loaded {
		cfg := l.Config
		name := cfg.Name()
		if seen[name] {
			errs = append(errs, fmt.Errorf("%s: %w: %s", l.Path, common.ErrDuplicateName, name))
			continue
		}
		seen[name] = true

		if err := validateRouting(scripts, ifaces, cfg); err != nil {
			common.LogWarn("Resetting routing settings of %s: %v", name, err)
			errs = append(errs, fmt.Errorf("%s: %w; routing settings were reset", name, err))
			routing.ResetHooks(cfg)
			if err := wgconf.WriteFile(cfg, l.Path, m.opts.Write); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
			}
		}

		tunnels = append(tunnels, &Tunnel{
			Config: cfg,
			Path:   l.Path,
			Active: m.controller.State(ctx, name) == WgQuickUp,
		})
	}

	m.mu.Lock()
	m.scripts = scripts
	m.ifaces = ifaces
	m.tunnels = tunnels
	m.sortLocked()
	m.mu.Unlock()

	common.LogInfo("Loaded %d tunnels, %d routing scripts, %d binding interfaces", len(tunnels), len(scripts), len(ifaces))
	return errors.Join(errs...)
}

func validateRouting(scripts []routing.Script, ifaces []string, cfg *wgconf.Config) error {
	if err := routing.ValidateBindingIface(ifaces, cfg); err != nil {
		return err
	}
	return routing.ValidateAssignRoutingScript(scripts, cfg)
}

// RefreshScripts rescans the routing scripts directory.
func (m *Manager) RefreshScripts() error {
	scripts, err := routing.ExtractScriptsMetadata(m.opts.ScriptsDir)
	m.mu.Lock()
	m.scripts = scripts
	m.mu.Unlock()
	return err
}

// Tunnels returns a snapshot of all tunnels, sorted by name.
func (m *Manager) Tunnels() []*Tunnel {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*Tunnel, 0, len(m.tunnels))
	for _, t := range m.tunnels {
		result = append(result, t.clone())
	}
	return result
}

// Get returns a snapshot of the tunnel called name.
func (m *Manager) Get(name string) (*Tunnel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, _ := m.findLocked(name)
	if t == nil {
		return nil, fmt.Errorf("%w: %s", common.ErrTunnelNotFound, name)
	}
	return t.clone(), nil
}

// Scripts returns the routing scripts found by the last scan.
func (m *Manager) Scripts() []routing.Script {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]routing.Script(nil), m.scripts...)
}

// BindingInterfaces returns the interfaces a routing script may bind to.
func (m *Manager) BindingInterfaces() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.ifaces...)
}

// ConfigPath returns where a new tunnel called name is stored.
func (m *Manager) ConfigPath(name string) string {
	return filepath.Join(m.opts.ConfigsDir, name+common.ConfigExtension)
}

// State queries the live state of the tunnel called name.
func (m *Manager) State(ctx context.Context, name string) (NetState, error) {
	if _, err := m.Get(name); err != nil {
		return WgQuickDown, err
	}
	return m.controller.State(ctx, name), nil
}

// Toggle activates or deactivates the tunnel called name and returns its
// new activation flag. On failure the flag is left unchanged.
func (m *Manager) Toggle(ctx context.Context, name string) (bool, error) {
	t, err := m.Get(name)
	if err != nil {
		return false, err
	}

	if err := m.controller.Toggle(ctx, name, t.Config, t.Path); err != nil {
		return t.Active, err
	}

	active := !t.Active
	m.setActive(name, active)
	return active, nil
}

// setActive records the activation flag of a tunnel.
func (m *Manager) setActive(name string, active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, _ := m.findLocked(name); t != nil {
		t.Active = active
	}
}

// Import copies the config at path into the configs directory. The tunnel
// is named after the file, and any routing settings it carried are dropped.
func (m *Manager) Import(path string) (*Tunnel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", path, err)
	}
	cfg, err := wgconf.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", path, err)
	}

	routing.ResetHooks(cfg)
	cfg.Interface.Name = common.FileStem(path)

	t, err := m.Add(cfg)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", path, err)
	}
	common.LogInfo("Imported %s as %s", path, t.Name())
	return t, nil
}

// Add stores a new tunnel. The name must be unique and no file may exist
// at its config path.
func (m *Manager) Add(cfg *wgconf.Config) (*Tunnel, error) {
	name := cfg.Name()
	if name == "" {
		return nil, fmt.Errorf("%w: tunnel has no name", common.ErrInvalidConfig)
	}
	if filepath.Base(name) != name || name == "." || name == ".." {
		return nil, fmt.Errorf("%w: invalid tunnel name %q", common.ErrInvalidConfig, name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	path := m.ConfigPath(name)
	if t, _ := m.findLocked(name); t != nil || common.FileExists(path) {
		return nil, fmt.Errorf("%w: %s", common.ErrDuplicateName, name)
	}

	if err := common.EnsureDir(m.opts.ConfigsDir); err != nil {
		return nil, fmt.Errorf("create configs directory: %w", err)
	}
	if err := wgconf.WriteFile(cfg, path, m.opts.Write); err != nil {
		return nil, err
	}

	t := &Tunnel{Config: cfg.Clone(), Path: path}
	m.tunnels = append(m.tunnels, t)
	m.sortLocked()
	return t.clone(), nil
}

// Save replaces the stored config of an existing tunnel. Active tunnels
// cannot be edited. Routing settings are validated before writing.
func (m *Manager) Save(cfg *wgconf.Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := cfg.Name()
	t, _ := m.findLocked(name)
	if t == nil {
		return fmt.Errorf("%w: %s", common.ErrTunnelNotFound, name)
	}
	if t.Active {
		return fmt.Errorf("%w: deactivate %s before editing it", common.ErrTunnelActive, name)
	}

	next := cfg.Clone()
	if err := validateRouting(m.scripts, m.ifaces, next); err != nil {
		return err
	}
	return m.replaceLocked(t, next)
}

// Remove deletes an inactive tunnel and its config file.
func (m *Manager) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, i := m.findLocked(name)
	if t == nil {
		return fmt.Errorf("%w: %s", common.ErrTunnelNotFound, name)
	}
	if t.Active {
		return fmt.Errorf("%w: deactivate %s before removing it", common.ErrTunnelActive, name)
	}

	if err := os.Remove(t.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", t.Path, err)
	}
	m.tunnels = append(m.tunnels[:i], m.tunnels[i+1:]...)
	common.LogInfo("Removed tunnel %s", name)
	return nil
}

// AttachScript applies the routing script called script to the tunnel,
// binding it to iface when the script needs an interface.
func (m *Manager) AttachScript(name, script, iface string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.editableLocked(name)
	if err != nil {
		return err
	}
	s, ok := routing.Find(m.scripts, script)
	if !ok {
		return fmt.Errorf("%w: %s", common.ErrScriptNotFound, script)
	}

	next := t.Config.Clone()
	if err := routing.ApplyScript(next, s, iface, m.ifaces); err != nil {
		return err
	}
	return m.replaceLocked(t, next)
}

// DetachScript removes any routing script from the tunnel.
func (m *Manager) DetachScript(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.editableLocked(name)
	if err != nil {
		return err
	}
	next := t.Config.Clone()
	routing.ResetHooks(next)
	return m.replaceLocked(t, next)
}

// Export writes the tunnel config to path, which must be inside the
// export root.
func (m *Manager) Export(name, path string) error {
	t, err := m.Get(name)
	if err != nil {
		return err
	}
	if err := wgconf.Export(t.Config, path, m.opts.ExportRoot); err != nil {
		return err
	}
	common.LogInfo("Exported %s to %s", name, path)
	return nil
}

func (m *Manager) editableLocked(name string) (*Tunnel, error) {
	t, _ := m.findLocked(name)
	if t == nil {
		return nil, fmt.Errorf("%w: %s", common.ErrTunnelNotFound, name)
	}
	if t.Active {
		return nil, fmt.Errorf("%w: deactivate %s before editing it", common.ErrTunnelActive, name)
	}
	return t, nil
}

// replaceLocked writes next to the tunnel's file and swaps it in only
// after the write succeeded.
func (m *Manager) replaceLocked(t *Tunnel, next *wgconf.Config) error {
	if err := wgconf.WriteFile(next, t.Path, m.opts.Write); err != nil {
		return err
	}
	t.Config = next
	return nil
}

func (m *Manager) findLocked(name string) (*Tunnel, int) {
	for i, t := range m.tunnels {
		if t.Name() == name {
			return t, i
		}
	}
	return nil, -1
}

func (m *Manager) sortLocked() {
	sort.Slice(m.tunnels, func(i, j int) bool {
		return m.tunnels[i].Name() < m.tunnels[j].Name()
	})
}

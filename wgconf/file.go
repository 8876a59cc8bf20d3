package wgconf

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/yllada/wg-manager/common"
)

// WriteOptions controls how config files are written.
// An empty Owner or Group leaves that id unchanged.
type WriteOptions struct {
	Mode  os.FileMode
	Owner string
	Group string
}

// Loaded is a config read from disk together with its path.
type Loaded struct {
	Path   string
	Config *Config
}

// WriteFile serializes cfg to path.
func WriteFile(cfg *Config, path string, opts WriteOptions) error {
	return writeFile(path, []byte(Serialize(cfg)), opts)
}

// writeFile creates or truncates path, writes data, syncs it, and only then
// changes ownership. The file is removed if any step fails.
func writeFile(path string, data []byte, opts WriteOptions) (err error) {
	mode := opts.Mode
	if mode == 0 {
		mode = 0600
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			f.Close()
			if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
				common.LogError("Failed to remove partial file %s: %v", path, rmErr)
			}
		}
	}()

	// O_CREATE only applies mode to new files.
	if err = f.Chmod(mode); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if _, err = f.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err = f.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", path, err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}

	if opts.Owner != "" || opts.Group != "" {
		uid, gid, lookupErr := lookupIDs(opts.Owner, opts.Group)
		if lookupErr != nil {
			err = lookupErr
			return err
		}
		if err = os.Chown(path, uid, gid); err != nil {
			return fmt.Errorf("chown %s: %w", path, err)
		}
		common.LogDebug("Set owner of %s to %d:%d", path, uid, gid)
	}

	common.LogDebug("Wrote %s (%d bytes)", path, len(data))
	return nil
}

func lookupIDs(owner, group string) (int, int, error) {
	uid, gid := -1, -1
	if owner != "" {
		u, err := user.Lookup(owner)
		if err != nil {
			return 0, 0, fmt.Errorf("resolve user %q: %w", owner, err)
		}
		if uid, err = strconv.Atoi(u.Uid); err != nil {
			return 0, 0, fmt.Errorf("resolve user %q: %w", owner, err)
		}
	}
	if group != "" {
		g, err := user.LookupGroup(group)
		if err != nil {
			return 0, 0, fmt.Errorf("resolve group %q: %w", group, err)
		}
		if gid, err = strconv.Atoi(g.Gid); err != nil {
			return 0, 0, fmt.Errorf("resolve group %q: %w", group, err)
		}
	}
	return uid, gid, nil
}

// ReadFile parses the config at path. A config without a name is named
// after the file.
func ReadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read file %s: %w", path, err)
	}
	cfg, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("could not parse file %s: %w", path, err)
	}
	if cfg.Interface.Name == "" {
		cfg.Interface.Name = common.FileStem(path)
	}
	return cfg, nil
}

// LoadDir reads every regular *.conf file in dir, sorted by file name.
// Files that fail to load are skipped and reported together in the
// returned error; the configs that did load are always returned.
func LoadDir(dir string) ([]*Loaded, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read configs directory: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var loaded []*Loaded
	var errs []error
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !strings.HasSuffix(entry.Name(), common.ConfigExtension) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		cfg, err := ReadFile(path)
		if err != nil {
			common.LogError("%v", err)
			errs = append(errs, err)
			continue
		}
		loaded = append(loaded, &Loaded{Path: path, Config: cfg})
	}

	return loaded, errors.Join(errs...)
}

package wgconf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yllada/wg-manager/common"
)

// ValidateExportPath checks that path is a safe place to write an export:
// absolute, naming a file, inside an existing directory below root, and
// not an existing symlink. Symlinks in the parent are resolved first.
func ValidateExportPath(path, root string) error {
	invalid := func(reason string) error {
		return fmt.Errorf("%w: %s: %s", common.ErrInvalidExportPath, path, reason)
	}

	if !filepath.IsAbs(path) {
		return invalid("must be absolute")
	}
	if strings.HasSuffix(path, string(filepath.Separator)) {
		return invalid("missing file name")
	}
	clean := filepath.Clean(path)
	base := filepath.Base(clean)
	if base == "" || base == "." || base == string(filepath.Separator) || base == ".." {
		return invalid("missing file name")
	}

	parent, err := filepath.EvalSymlinks(filepath.Dir(clean))
	if err != nil {
		return invalid("parent directory does not exist")
	}
	info, err := os.Stat(parent)
	if err != nil || !info.IsDir() {
		return invalid("parent is not a directory")
	}

	realRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return invalid(fmt.Sprintf("export root %s unavailable", root))
	}
	rel, err := filepath.Rel(realRoot, parent)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return invalid(fmt.Sprintf("must be inside %s", root))
	}

	if fi, err := os.Lstat(clean); err == nil && fi.Mode()&os.ModeSymlink != 0 {
		return invalid("target is a symlink")
	}
	return nil
}

// Export writes cfg to path after ValidateExportPath. Ownership is left to
// the calling user.
func Export(cfg *Config, path, root string) error {
	if err := ValidateExportPath(path, root); err != nil {
		return err
	}
	return writeFile(filepath.Clean(path), []byte(Serialize(cfg)), WriteOptions{Mode: 0600})
}

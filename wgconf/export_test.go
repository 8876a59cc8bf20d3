package wgconf

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/yllada/wg-manager/common"
)

func TestValidateExportPath(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()

	user := filepath.Join(root, "alice")
	if err := os.Mkdir(user, 0700); err != nil {
		t.Fatal(err)
	}
	// A link inside root that points outside of it.
	escape := filepath.Join(root, "escape")
	if err := os.Symlink(outside, escape); err != nil {
		t.Fatal(err)
	}
	linkTarget := filepath.Join(user, "link.conf")
	if err := os.Symlink(filepath.Join(outside, "x"), linkTarget); err != nil {
		t.Fatal(err)
	}
	notDir := filepath.Join(user, "file")
	if err := os.WriteFile(notDir, nil, 0600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		path  string
		valid bool
	}{
		{"inside root", filepath.Join(user, "wg0.conf"), true},
		{"directly in root", filepath.Join(root, "wg0.conf"), true},
		{"relative", "alice/wg0.conf", false},
		{"trailing slash", user + "/", false},
		{"missing parent", filepath.Join(user, "nope", "wg0.conf"), false},
		{"parent is a file", filepath.Join(notDir, "wg0.conf"), false},
		{"outside root", filepath.Join(outside, "wg0.conf"), false},
		{"dot-dot escape", filepath.Join(user, "..", "..", filepath.Base(outside), "wg0.conf"), false},
		{"symlinked parent", filepath.Join(escape, "wg0.conf"), false},
		{"symlink target", linkTarget, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateExportPath(tt.path, root)
			if (err == nil) != tt.valid {
				t.Errorf("ValidateExportPath(%q) error = %v, want valid %v", tt.path, err, tt.valid)
			}
			if err != nil && !errors.Is(err, common.ErrInvalidExportPath) {
				t.Errorf("ValidateExportPath() error = %v, want ErrInvalidExportPath", err)
			}
		})
	}
}

func TestExport(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "office.conf")

	if err := Export(fullConfig(), path, root); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != Serialize(fullConfig()) {
		t.Error("Export() wrote unexpected content")
	}

	if err := Export(fullConfig(), "relative.conf", root); err == nil {
		t.Error("Export() to a relative path should fail")
	}
}

package wgconf

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yllada/wg-manager/common"
)

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "office.conf")
	cfg := fullConfig()

	if err := WriteFile(cfg, path, WriteOptions{Mode: 0600}); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != Serialize(cfg) {
		t.Errorf("file content = %q, want serialized config", data)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("file mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestWriteFile_TruncatesAndFixesMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wg0.conf")
	if err := os.WriteFile(path, []byte(strings.Repeat("stale\n", 100)), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := &Config{Interface: Interface{Name: "wg0"}}
	if err := WriteFile(cfg, path, WriteOptions{}); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "[Interface]\n# Name = wg0\n\n" {
		t.Errorf("file content = %q, old content not truncated", data)
	}
	info, _ := os.Stat(path)
	if info.Mode().Perm() != 0600 {
		t.Errorf("file mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestWriteFile_FailureRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wg0.conf")

	err := WriteFile(&Config{}, path, WriteOptions{Owner: "no-such-user-wg-manager-test"})
	if err == nil {
		t.Fatal("WriteFile() error = nil, want ownership lookup failure")
	}
	if common.FileExists(path) {
		t.Error("WriteFile() left a partial file behind")
	}
}

func TestReadFile_NameFallback(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "home-vpn.conf")
	if err := os.WriteFile(path, []byte("[Interface]\nAddress = 10.0.0.1/32\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if cfg.Name() != "home-vpn" {
		t.Errorf("Name() = %q, want home-vpn", cfg.Name())
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"b.conf":      "[Interface]\n# Name = bravo\n",
		"a.conf":      "[Interface]\nAddress = 10.0.0.1/32\n",
		"broken.conf": "[Interface]\nNope = 1\n",
		"bad.conf":    "[Wat]\n",
		"notes.txt":   "not a config",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0600); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "dir.conf"), 0700); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadDir(dir)

	if len(loaded) != 2 {
		t.Fatalf("len(loaded) = %d, want 2", len(loaded))
	}
	if loaded[0].Config.Name() != "a" || loaded[1].Config.Name() != "bravo" {
		t.Errorf("loaded names = %q, %q, want a, bravo", loaded[0].Config.Name(), loaded[1].Config.Name())
	}
	if loaded[0].Path != filepath.Join(dir, "a.conf") {
		t.Errorf("loaded[0].Path = %q", loaded[0].Path)
	}

	if err == nil {
		t.Fatal("LoadDir() error = nil, want joined report")
	}
	for _, want := range []string{"broken.conf", "bad.conf"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("LoadDir() error %q does not mention %s", err.Error(), want)
		}
	}
	if !errors.Is(err, common.ErrInvalidConfig) {
		t.Error("LoadDir() error should wrap the format errors")
	}
}

func TestLoadDir_Missing(t *testing.T) {
	if _, err := LoadDir(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("LoadDir() on a missing directory should fail")
	}
}

package routing

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yllada/wg-manager/common"
)

// ExtractScriptsMetadata parses every regular file in dir, creating dir if
// it does not exist. Scripts that fail are skipped and reported together;
// the scripts that parsed are always returned, sorted by name.
func ExtractScriptsMetadata(dir string) ([]Script, error) {
	if err := common.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("create scripts directory: %w", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read scripts directory: %w", err)
	}

	var scripts []Script
	var errs []error
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		script, err := loadScript(filepath.Join(dir, entry.Name()))
		if err != nil {
			common.LogWarn("Skipping routing script: %v", err)
			errs = append(errs, err)
			continue
		}
		scripts = append(scripts, *script)
	}

	common.LogDebug("Loaded %d routing scripts from %s", len(scripts), dir)
	return scripts, errors.Join(errs...)
}

func loadScript(path string) (*Script, error) {
	name := filepath.Base(path)

	info, err := os.Stat(path)
	if err != nil {
		return nil, &common.ScriptError{Script: name, Reason: err.Error()}
	}
	if info.Size() > common.MaxScriptSize {
		return nil, &common.ScriptError{
			Script: name,
			Reason: fmt.Sprintf("file is %d bytes, the limit is %d", info.Size(), common.MaxScriptSize),
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &common.ScriptError{Script: name, Reason: err.Error()}
	}

	script, err := ParseScript(name, string(data))
	if err != nil {
		return nil, err
	}
	script.Path = path
	return script, nil
}

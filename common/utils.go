// Package common provides shared constants, types, and utilities
// used across the WireGuard Manager application.
package common

import (
	"os"
	"path/filepath"
	"strings"
)

// ConfigDir returns ~/.config/wg-manager, where the settings file and
// logs live. It is not created here.
func ConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", WrapError(err, "failed to get home directory")
	}
	return filepath.Join(homeDir, ".config", ConfigDirName), nil
}

// FileExists checks if a file exists at the given path.
func FileExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// EnsureDir ensures a directory exists, creating it owner-only if necessary.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0700)
}

// FileStem returns the base name of path without its extension.
func FileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// StringInSlice checks if a string is in a slice.
func StringInSlice(s string, slice []string) bool {
	for _, item := range slice {
		if item == s {
			return true
		}
	}
	return false
}

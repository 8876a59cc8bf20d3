// Package config provides configuration management for WireGuard Manager.
// It handles loading, saving, and managing application settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yllada/wg-manager/common"
	"github.com/yllada/wg-manager/wgconf"
)

// Config represents the application configuration.
// All settings are persisted to a YAML file in the user's config directory.
type Config struct {
	// AppDir holds the configs/ and scripts/ directories.
	AppDir string `yaml:"app_dir"`
	// ConfigOwner is the user that owns written tunnel configs.
	ConfigOwner string `yaml:"config_owner"`
	// ConfigOwnerGroup is the group that owns written tunnel configs.
	ConfigOwnerGroup string `yaml:"config_owner_group"`
	// ChownConfigs applies ConfigOwner/ConfigOwnerGroup after each write.
	ChownConfigs bool `yaml:"chown_configs"`
	// LogLevel is one of "debug", "info", "warn" or "error".
	LogLevel string `yaml:"log_level"`
	// LogOutput is one of "stdout", "syslog" or "file".
	LogOutput string `yaml:"log_output"`
	// ShowTimeout bounds the tunnel status query.
	ShowTimeout time.Duration `yaml:"show_timeout"`
	// ToggleTimeout bounds each up/down invocation.
	ToggleTimeout time.Duration `yaml:"toggle_timeout"`
	// ExportRoot is the directory exported configs must be placed under.
	ExportRoot string `yaml:"export_root"`
	// WgBinary is the tunnel status and key tool.
	WgBinary string `yaml:"wg_binary"`
	// WgQuickBinary is the tunnel activation tool.
	WgQuickBinary string `yaml:"wg_quick_binary"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		AppDir:           common.DefaultAppDir,
		ConfigOwner:      common.DefaultConfigOwner,
		ConfigOwnerGroup: common.DefaultConfigOwnerGroup,
		ChownConfigs:     true,
		LogLevel:         "info",
		LogOutput:        common.LogOutputStdout,
		ShowTimeout:      common.ShowTimeout,
		ToggleTimeout:    common.ToggleTimeout,
		ExportRoot:       common.DefaultExportRoot,
		WgBinary:         common.DefaultWgBinary,
		WgQuickBinary:    common.DefaultWgQuickBinary,
	}
}

// Load loads the configuration from the default config file.
// If the file doesn't exist, it creates one with default values.
func Load() (*Config, error) {
	configPath, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from path.
// A missing file yields the defaults and is written out for the user to edit.
func LoadFrom(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := cfg.SaveTo(configPath); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("%w: error opening configuration: %v", common.ErrConfigLoad, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true) // Strict validation: reject unknown fields

	// Start from the defaults so keys left out of the file keep their values.
	config := DefaultConfig()
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("%w: error parsing configuration: %v", common.ErrConfigLoad, err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("%w: invalid configuration: %v", common.ErrConfigLoad, err)
	}

	return config, nil
}

// validate verifies that configuration values are valid.
// Soft problems fall back to defaults; only an unusable app_dir is an error.
func (c *Config) validate() error {
	defaults := DefaultConfig()

	if c.AppDir == "" {
		c.AppDir = defaults.AppDir
	}
	if !filepath.IsAbs(c.AppDir) {
		return fmt.Errorf("app_dir must be an absolute path, got %q", c.AppDir)
	}

	if _, err := common.ParseLogLevel(c.LogLevel); err != nil {
		c.LogLevel = defaults.LogLevel
	}

	validOutputs := []string{common.LogOutputStdout, common.LogOutputSyslog, common.LogOutputFile}
	if !common.StringInSlice(c.LogOutput, validOutputs) {
		c.LogOutput = defaults.LogOutput
	}

	if c.ShowTimeout <= 0 {
		c.ShowTimeout = defaults.ShowTimeout
	}
	if c.ToggleTimeout <= 0 {
		c.ToggleTimeout = defaults.ToggleTimeout
	}
	if c.ExportRoot == "" {
		c.ExportRoot = defaults.ExportRoot
	}
	if c.WgBinary == "" {
		c.WgBinary = defaults.WgBinary
	}
	if c.WgQuickBinary == "" {
		c.WgQuickBinary = defaults.WgQuickBinary
	}
	return nil
}

// Validate applies the same checks as Load to a config built in code,
// for example after command-line overrides.
func (c *Config) Validate() error {
	return c.validate()
}

// Save saves the configuration to the default file.
func (c *Config) Save() error {
	configPath, err := DefaultPath()
	if err != nil {
		return err
	}
	return c.SaveTo(configPath)
}

// SaveTo saves the configuration to configPath.
func (c *Config) SaveTo(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0700); err != nil {
		return fmt.Errorf("%w: error creating config directory: %v", common.ErrConfigSave, err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("%w: error serializing configuration: %v", common.ErrConfigSave, err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("%w: error saving configuration: %v", common.ErrConfigSave, err)
	}

	return nil
}

// ConfigsDir is where tunnel configs live.
func (c *Config) ConfigsDir() string {
	return filepath.Join(c.AppDir, common.ConfigsDirName)
}

// ScriptsDir is where routing script templates live.
func (c *Config) ScriptsDir() string {
	return filepath.Join(c.AppDir, common.ScriptsDirName)
}

// Level returns the parsed log level.
func (c *Config) Level() common.LogLevel {
	level, _ := common.ParseLogLevel(c.LogLevel)
	return level
}

// WriteOptions returns the immutable settings handed to the config writer.
func (c *Config) WriteOptions() wgconf.WriteOptions {
	opts := wgconf.WriteOptions{Mode: 0600}
	if c.ChownConfigs {
		opts.Owner = c.ConfigOwner
		opts.Group = c.ConfigOwnerGroup
	}
	return opts
}

// DefaultPath returns ~/.config/wg-manager/config.yaml.
func DefaultPath() (string, error) {
	dir, err := common.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, common.SettingsFileName), nil
}

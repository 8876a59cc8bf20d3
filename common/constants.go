// Package common provides shared constants, types, and utilities
// used across the WireGuard Manager application.
package common

import "time"

// Application metadata.
const (
	// AppName is the display name of the application.
	AppName = "WireGuard Manager"
	// BinaryName is the name of the command line executable.
	BinaryName = "wg-manager"
	// ConfigDirName is the name of the per-user configuration directory.
	ConfigDirName = "wg-manager"
)

// File and directory names used by the application.
const (
	SettingsFileName = "config.yaml"
	LogFileName      = "wg-manager.log"
	ConfigsDirName   = "configs"
	ScriptsDirName   = "scripts"
	ConfigExtension  = ".conf"
)

// Default locations and ownership.
const (
	// DefaultAppDir holds the configs/ and scripts/ directories.
	DefaultAppDir = "/etc/wireguard"
	// DefaultConfigOwner is the owner applied to written tunnel configs.
	DefaultConfigOwner = "root"
	// DefaultConfigOwnerGroup is the group applied to written tunnel configs.
	DefaultConfigOwnerGroup = "root"
	// DefaultExportRoot is the directory exports must be placed under.
	DefaultExportRoot = "/home"
)

// External tools.
const (
	DefaultWgBinary      = "wg"
	DefaultWgQuickBinary = "wg-quick"
)

// Default timeouts and intervals.
const (
	// ShowTimeout bounds the tunnel status query.
	ShowTimeout = 5 * time.Second
	// ToggleTimeout bounds each up/down invocation of the activation tool.
	ToggleTimeout = 3 * time.Second
	// KeyToolTimeout bounds genkey/pubkey invocations.
	KeyToolTimeout = 3 * time.Second
	// MonitorInterval is how often the monitor re-reads tunnel state.
	MonitorInterval = 2 * time.Second
)

// Limits.
const (
	// MaxScriptSize is the largest routing script accepted, in bytes.
	MaxScriptSize = 4096
	// DefaultListenPort is the WireGuard port used by the generator.
	DefaultListenPort = 51820
)

// Log outputs.
const (
	LogOutputStdout = "stdout"
	LogOutputSyslog = "syslog"
	LogOutputFile   = "file"
)

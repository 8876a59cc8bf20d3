// Package cli provides the command-line interface for WireGuard Manager.
// Every operation on tunnels, routing scripts and generated configs is a
// subcommand of the root command returned by NewRootCmd.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yllada/wg-manager/common"
	"github.com/yllada/wg-manager/config"
	"github.com/yllada/wg-manager/routing"
	"github.com/yllada/wg-manager/vpn"
)

// BuildInfo is injected at build time via ldflags.
type BuildInfo struct {
	Version   string
	BuildTime string
	Commit    string
}

type rootOptions struct {
	configPath string
	appDir     string
	logLevel   string
	logOutput  string
	verbose    bool
}

// app holds what subcommands share: the settings and the tunnel manager.
type app struct {
	info BuildInfo
	opts rootOptions

	cfg     *config.Config
	manager *vpn.Manager

	// newManager builds the manager from settings. Tests swap it out.
	newManager func(cfg *config.Config) *vpn.Manager
	// stdin and isTerminal back the remove confirmation prompt.
	stdin      io.Reader
	isTerminal func() bool
}

func newApp(info BuildInfo) *app {
	return &app{
		info:       info,
		newManager: defaultManager,
		stdin:      os.Stdin,
		isTerminal: func() bool { return term.IsTerminal(int(os.Stdin.Fd())) },
	}
}

// defaultManager wires the manager to real processes and netlink.
func defaultManager(cfg *config.Config) *vpn.Manager {
	controller := vpn.NewController(vpn.NewExecRunner(), vpn.NetlinkInspector{})
	controller.WgBinary = cfg.WgBinary
	controller.WgQuickBinary = cfg.WgQuickBinary
	controller.ShowTimeout = cfg.ShowTimeout
	controller.ToggleTimeout = cfg.ToggleTimeout

	return vpn.NewManager(vpn.Options{
		ConfigsDir: cfg.ConfigsDir(),
		ScriptsDir: cfg.ScriptsDir(),
		ExportRoot: cfg.ExportRoot,
		Write:      cfg.WriteOptions(),
	}, controller, routing.NetlinkLister{})
}

// NewRootCmd returns the root command for the WireGuard Manager CLI.
func NewRootCmd(info BuildInfo) *cobra.Command {
	return newRootCmd(newApp(info))
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           common.BinaryName,
		Short:         "Manage WireGuard tunnels and their routing scripts",
		Long:          common.AppName + " - import, edit, activate and monitor WireGuard tunnels from the terminal.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			common.CloseLogger()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.opts.configPath, "config", "", "settings file (default is $HOME/.config/wg-manager/config.yaml)")
	flags.StringVar(&a.opts.appDir, "app-dir", "", "directory holding configs/ and scripts/ (overrides app_dir)")
	flags.StringVar(&a.opts.logLevel, "log-level", "", "log level: debug|info|warn|error (overrides log_level)")
	flags.StringVar(&a.opts.logOutput, "log-output", "", "log output: stdout|syslog|file (overrides log_output)")
	flags.BoolVarP(&a.opts.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(newListCmd(a))
	rootCmd.AddCommand(newShowCmd(a))
	rootCmd.AddCommand(newToggleCmd(a))
	rootCmd.AddCommand(newImportCmd(a))
	rootCmd.AddCommand(newRemoveCmd(a))
	rootCmd.AddCommand(newExportCmd(a))
	rootCmd.AddCommand(newGenerateCmd(a))
	rootCmd.AddCommand(newScriptsCmd(a))
	rootCmd.AddCommand(newIfacesCmd(a))
	rootCmd.AddCommand(newAttachCmd(a))
	rootCmd.AddCommand(newDetachCmd(a))
	rootCmd.AddCommand(newWatchCmd(a))
	rootCmd.AddCommand(newVersionCmd(a))

	return rootCmd
}

// setup loads settings, applies flag overrides and starts logging.
func (a *app) setup(cmd *cobra.Command) error {
	path := a.opts.configPath
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return err
		}
	}

	cfg, err := config.LoadFrom(path)
	if err != nil {
		return err
	}
	if a.opts.appDir != "" {
		cfg.AppDir = a.opts.appDir
	}
	if a.opts.logLevel != "" {
		if _, err := common.ParseLogLevel(a.opts.logLevel); err != nil {
			return err
		}
		cfg.LogLevel = a.opts.logLevel
	}
	if a.opts.logOutput != "" {
		cfg.LogOutput = a.opts.logOutput
	}
	if a.opts.verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	// Keep stdout for command output.
	if cfg.LogOutput == common.LogOutputStdout {
		common.GetLogger().SetOutput(cmd.ErrOrStderr())
	}
	if err := common.InitLogger(common.LogConfig{Level: cfg.Level(), Output: cfg.LogOutput}); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not initialize %s logging: %v\n", cfg.LogOutput, err)
	}
	common.LogDebug("Using settings from %s, app dir %s", path, cfg.AppDir)
	return nil
}

// loadManager builds the manager and loads every tunnel. Problems with
// individual files are printed as warnings and do not stop the command.
func (a *app) loadManager(cmd *cobra.Command) (*vpn.Manager, error) {
	if a.manager != nil {
		return a.manager, nil
	}
	if a.cfg == nil {
		return nil, fmt.Errorf("%w: settings not loaded", common.ErrConfigLoad)
	}

	m := a.newManager(a.cfg)
	if err := m.Load(cmd.Context()); err != nil {
		printWarnings(cmd.ErrOrStderr(), err)
	}
	a.manager = m
	return m, nil
}

// Execute runs the CLI and returns the process exit code.
func Execute(info BuildInfo) int {
	rootCmd := NewRootCmd(info)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

package cli

import (
	"bufio"
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yllada/wg-manager/common"
	"github.com/yllada/wg-manager/wgconf"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all tunnels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.loadManager(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			tunnels := m.Tunnels()
			if len(tunnels) == 0 {
				fmt.Fprintln(out, "No tunnels configured.")
				fmt.Fprintf(out, "Import one with: %s import FILE\n", common.BinaryName)
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tADDRESS\tPEERS\tSCRIPT\tSTATE")
			fmt.Fprintln(w, "----\t-------\t-----\t------\t-----")
			for _, t := range tunnels {
				iface := t.Config.Interface
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
					t.Name(), orDash(iface.Address), len(t.Config.Peers), orDash(iface.RoutingScriptName), activeLabel(t.Active))
			}
			return w.Flush()
		},
	}
}

func newShowCmd(a *app) *cobra.Command {
	var showKeys bool

	cmd := &cobra.Command{
		Use:   "show NAME",
		Short: "Show a tunnel's config and live state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.loadManager(cmd)
			if err != nil {
				return err
			}
			t, err := m.Get(args[0])
			if err != nil {
				return err
			}
			state, err := m.State(cmd.Context(), t.Name())
			if err != nil {
				return err
			}

			cfg := t.Config
			if !showKeys {
				if cfg.Interface.PrivateKey != "" {
					cfg.Interface.PrivateKey = "(hidden)"
				}
				for i := range cfg.Peers {
					if cfg.Peers[i].PresharedKey != "" {
						cfg.Peers[i].PresharedKey = "(hidden)"
					}
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", headerStyle.Render(t.Name()), stateLabel(state))
			fmt.Fprintf(out, "File: %s\n\n", t.Path)
			fmt.Fprint(out, wgconf.Serialize(cfg))
			return nil
		},
	}

	cmd.Flags().BoolVar(&showKeys, "show-keys", false, "print private and preshared keys")
	return cmd
}

func newToggleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle NAME",
		Short: "Bring a tunnel up if it is down, or down if it is up",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.loadManager(cmd)
			if err != nil {
				return err
			}
			active, err := m.Toggle(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s is now %s\n", okMark, args[0], activeLabel(active))
			return nil
		},
	}
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Copy a tunnel config into the configs directory",
		Long:  "Copy a tunnel config into the configs directory. The tunnel is named after the file and any routing hooks it carries are dropped.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.loadManager(cmd)
			if err != nil {
				return err
			}
			t, err := m.Import(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Imported %s as %s\n", okMark, args[0], t.Name())
			return nil
		},
	}
}

func newRemoveCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "remove NAME",
		Short: "Delete an inactive tunnel and its config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.loadManager(cmd)
			if err != nil {
				return err
			}
			name := args[0]
			t, err := m.Get(name)
			if err != nil {
				return err
			}

			if !yes {
				if !a.isTerminal() {
					return fmt.Errorf("refusing to remove %s without --yes", name)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Remove tunnel %s and delete %s? [y/N] ", name, t.Path)
				answer, _ := bufio.NewReader(a.stdin).ReadString('\n')
				answer = strings.ToLower(strings.TrimSpace(answer))
				if answer != "y" && answer != "yes" {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}

			if err := m.Remove(name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Removed %s\n", okMark, name)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export NAME PATH",
		Short: "Write a copy of a tunnel config below the export root",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.loadManager(cmd)
			if err != nil {
				return err
			}
			path, err := filepath.Abs(args[1])
			if err != nil {
				return err
			}
			if strings.HasSuffix(args[1], string(filepath.Separator)) {
				// Abs drops the trailing slash that marks a directory.
				path += string(filepath.Separator)
			}
			if err := m.Export(args[0], path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Exported %s to %s\n", okMark, args[0], path)
			return nil
		},
	}
}

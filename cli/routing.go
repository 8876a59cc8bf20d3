package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yllada/wg-manager/routing"
)

func newScriptsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "scripts",
		Short: "List routing scripts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.loadManager(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			scripts := m.Scripts()
			if len(scripts) == 0 {
				fmt.Fprintf(out, "No routing scripts in %s.\n", a.cfg.ScriptsDir())
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tBIND-IFACE\tHOOKS")
			fmt.Fprintln(w, "----\t----------\t-----")
			for _, s := range scripts {
				bind := "No"
				if s.HasBindInterface {
					bind = "Yes"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", s.Name, bind, scriptHooks(s))
			}
			return w.Flush()
		},
	}
}

func scriptHooks(s routing.Script) string {
	var keys []string
	for _, h := range []struct {
		key, value string
	}{
		{routing.KeyPreUp, s.PreUp},
		{routing.KeyPostUp, s.PostUp},
		{routing.KeyPreDown, s.PreDown},
		{routing.KeyPostDown, s.PostDown},
		{routing.KeyFwMark, s.FwMark},
	} {
		if h.value != "" {
			keys = append(keys, h.key)
		}
	}
	return strings.Join(keys, ",")
}

func newIfacesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ifaces",
		Short: "List interfaces a routing script can bind to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.loadManager(cmd)
			if err != nil {
				return err
			}
			ifaces := m.BindingInterfaces()
			if len(ifaces) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No Ethernet or Wi-Fi interfaces found.")
				return nil
			}
			for _, name := range ifaces {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newAttachCmd(a *app) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "attach NAME SCRIPT",
		Short: "Apply a routing script to an inactive tunnel",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.loadManager(cmd)
			if err != nil {
				return err
			}
			if err := m.AttachScript(args[0], args[1], bind); err != nil {
				return err
			}
			msg := fmt.Sprintf("%s Attached %s to %s", okMark, args[1], args[0])
			if t, err := m.Get(args[0]); err == nil && t.Config.Interface.BindingIface != "" {
				msg += " via " + t.Config.Interface.BindingIface
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "interface substituted for "+routing.BindIfacePlaceholder)
	return cmd
}

func newDetachCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "detach NAME",
		Short: "Remove the routing script from an inactive tunnel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.loadManager(cmd)
			if err != nil {
				return err
			}
			if err := m.DetachScript(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Detached routing script from %s\n", okMark, args[0])
			return nil
		},
	}
}

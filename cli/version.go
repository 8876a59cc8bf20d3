package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yllada/wg-manager/common"
)

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version info",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s v%s\n", common.AppName, a.info.Version)
			if a.info.BuildTime != "" && a.info.BuildTime != "unknown" {
				fmt.Fprintf(out, "  Build:  %s\n", a.info.BuildTime)
				fmt.Fprintf(out, "  Commit: %s\n", a.info.Commit)
			}
			return nil
		},
	}
}

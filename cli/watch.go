package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yllada/wg-manager/notify"
	"github.com/yllada/wg-manager/vpn"
)

func newWatchCmd(a *app) *cobra.Command {
	interval := vpn.DefaultMonitorConfig().Interval
	var desktop bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print tunnel state changes until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.loadManager(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var notifier notify.Notifier
			if desktop {
				d, err := notify.NewDBusNotifier()
				if err != nil {
					return err
				}
				defer d.Close()
				notifier = d
			}
			return watch(ctx, cmd, m, interval, notifier)
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", interval, "time between state checks")
	cmd.Flags().BoolVar(&desktop, "notify", false, "also show desktop notifications")
	return cmd
}

func watch(ctx context.Context, cmd *cobra.Command, m *vpn.Manager, interval time.Duration, notifier notify.Notifier) error {
	out := cmd.OutOrStdout()

	var desktop func(name string, from, to vpn.NetState)
	if notifier != nil {
		desktop = notify.Func(notifier)
	}

	mon := vpn.NewMonitor(m, vpn.MonitorConfig{Interval: interval})
	mon.SetOnStateChange(func(name string, oldState, newState vpn.NetState) {
		fmt.Fprintf(out, "%s %s: %s -> %s\n", time.Now().Format("15:04:05"), name, stateLabel(oldState), stateLabel(newState))
		if desktop != nil {
			desktop(name, oldState, newState)
		}
	})

	// First pass prints where every tunnel starts.
	mon.CheckNow(ctx)
	for _, t := range m.Tunnels() {
		state, _ := mon.GetState(t.Name())
		fmt.Fprintf(out, "%s %s\n", t.Name(), stateLabel(state))
	}
	fmt.Fprintf(out, "Watching %d tunnels every %v, press Ctrl+C to stop.\n", len(m.Tunnels()), interval)

	mon.Start(ctx)
	<-ctx.Done()
	mon.Stop()
	return nil
}

package cli

import (
	"fmt"
	"net/netip"

	"github.com/spf13/cobra"

	"github.com/yllada/wg-manager/common"
	"github.com/yllada/wg-manager/generator"
	"github.com/yllada/wg-manager/vpn"
	"github.com/yllada/wg-manager/wgconf"
)

type generateOptions struct {
	name       string
	address    string
	port       uint16
	peers      int
	allowedIPs []string
	endpoint   string
	postUp     string
	postDown   string
	keys       string
}

func newGenerateCmd(a *app) *cobra.Command {
	defaults := generator.DefaultSettings()
	opts := generateOptions{
		port:  defaults.ListenPort,
		peers: defaults.NumberOfPeers,
		keys:  "builtin",
	}
	for _, p := range defaults.ClientAllowedIPs {
		opts.allowedIPs = append(opts.allowedIPs, p.String())
	}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Create a host tunnel and matching client tunnels",
		Long: "Create a host tunnel at --address and --peers client tunnels at the following addresses " +
			"in the same network, each with a fresh key pair. All configs are added to the configs directory.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := opts.settings()
			if err != nil {
				return err
			}
			keys, err := a.keyGenerator(opts.keys)
			if err != nil {
				return err
			}

			res, err := generator.Generate(settings, keys)
			if err != nil {
				return err
			}

			m, err := a.loadManager(cmd)
			if err != nil {
				return err
			}
			for _, cfg := range res.Configs() {
				t, err := m.Add(cfg)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s Created %s (%s) at %s\n", okMark, t.Name(), cfg.Interface.Address, t.Path)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.name, "name", "", "host tunnel name; clients are named NAME-clientN")
	flags.StringVar(&opts.address, "address", "", "host address with prefix, e.g. 10.0.0.1/24")
	flags.Uint16Var(&opts.port, "port", opts.port, "listen port")
	flags.IntVar(&opts.peers, "peers", opts.peers, "number of client tunnels")
	flags.StringSliceVar(&opts.allowedIPs, "allowed-ips", opts.allowedIPs, "networks clients route through the host")
	flags.StringVar(&opts.endpoint, "endpoint", "", "host:port clients connect to")
	flags.StringVar(&opts.postUp, "post-up", "", "PostUp command for the host")
	flags.StringVar(&opts.postDown, "post-down", "", "PostDown command for the host")
	flags.StringVar(&opts.keys, "keys", opts.keys, "key source: builtin|wg")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("address")

	return cmd
}

func (o generateOptions) settings() (generator.Settings, error) {
	address, err := netip.ParsePrefix(o.address)
	if err != nil {
		return generator.Settings{}, fmt.Errorf("%w: address: %v", common.ErrInvalidConfig, err)
	}

	allowed := make([]netip.Prefix, 0, len(o.allowedIPs))
	for _, s := range o.allowedIPs {
		p, err := netip.ParsePrefix(s)
		if err != nil {
			return generator.Settings{}, fmt.Errorf("%w: allowed IPs: %v", common.ErrInvalidConfig, err)
		}
		allowed = append(allowed, p)
	}

	return generator.Settings{
		InterfaceName:    o.name,
		Address:          address,
		ListenPort:       o.port,
		NumberOfPeers:    o.peers,
		ClientAllowedIPs: allowed,
		Endpoint:         o.endpoint,
		PostUp:           o.postUp,
		PostDown:         o.postDown,
	}, nil
}

// keyGenerator returns the in-process generator or one that runs the wg tool.
func (a *app) keyGenerator(source string) (wgconf.KeyGenerator, error) {
	switch source {
	case "builtin", "":
		return wgconf.WgtypesKeys{}, nil
	case "wg":
		return wgconf.ToolKeys{Runner: vpn.NewExecRunner(), Binary: a.cfg.WgBinary, Timeout: common.KeyToolTimeout}, nil
	default:
		return nil, fmt.Errorf("unknown key source %q, want builtin or wg", source)
	}
}

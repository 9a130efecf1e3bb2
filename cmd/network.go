package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/near/near-cli-go/cmd/common"
	"github.com/near/near-cli-go/config"
	"github.com/near/near-cli-go/logging"
	"github.com/near/near-cli-go/network"
	"github.com/near/near-cli-go/table"
)

var (
	networkCmd = &cobra.Command{
		Use:   "network",
		Short: "Manage network endpoints",
	}

	networkListCmd = &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List networks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Global()
			table := table.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Name", "RPC", "Explorer", "Wallet"})

			for _, name := range config.WellKnownNetworks() {
				net, err := cfg.Networks.Get(name)
				if err != nil {
					return err
				}
				table.Append([]string{name, net.RPC, net.Explorer, net.Wallet})
			}

			table.Render()
			return nil
		},
	}

	networkShowCmd = &cobra.Command{
		Use:   "show <name>",
		Short: "Show the configuration of the given network",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			net, err := config.Global().Networks.Get(args[0])
			if err != nil {
				return err
			}

			formatted, err := common.PrettyJSONMarshal(net)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(formatted))
			return nil
		},
	}

	networkSetRPCCmd = &cobra.Command{
		Use:   "set-rpc <name> <rpc-endpoint>",
		Short: "Sets the RPC endpoint of the given network",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Global()
			name, rpc := args[0], args[1]

			if err := cfg.Networks.SetRPC(name, rpc); err != nil {
				return err
			}
			return cfg.Save()
		},
	}

	networkResetCmd = &cobra.Command{
		Use:   "reset <name>",
		Short: "Restores the default endpoints of the given network",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Global()

			if err := cfg.Networks.Reset(args[0]); err != nil {
				return err
			}
			return cfg.Save()
		},
	}

	networkStatusCmd = &cobra.Command{
		Use:   "status <name>",
		Short: "Show the status of the node serving the given network",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Global()
			name := args[0]

			if _, err := cfg.Networks.Get(name); err != nil {
				return err
			}

			dialer := network.NewDialer(&cfg.Networks, logging.NewNop())
			client, err := dialer.Connect(cmd.Context(), network.WellKnown(name))
			if err != nil {
				return err
			}
			defer client.Close()

			status, err := client.Status(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to query node status: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Chain ID:            %s\n", status.ChainID)
			fmt.Fprintf(out, "Node version:        %s (%s)\n", status.Version.Version, status.Version.Build)
			fmt.Fprintf(out, "Latest block height: %d\n", status.SyncInfo.LatestBlockHeight)
			fmt.Fprintf(out, "Latest block hash:   %s\n", status.SyncInfo.LatestBlockHash)
			fmt.Fprintf(out, "Latest block time:   %s\n", status.SyncInfo.LatestBlockTime)
			fmt.Fprintf(out, "Syncing:             %t\n", status.SyncInfo.Syncing)
			return nil
		},
	}
)

func init() {
	networkCmd.AddCommand(networkListCmd)
	networkCmd.AddCommand(networkShowCmd)
	networkCmd.AddCommand(networkSetRPCCmd)
	networkCmd.AddCommand(networkResetCmd)
	networkCmd.AddCommand(networkStatusCmd)
}

package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"

	"github.com/near/near-cli-go/cmd/common"
	"github.com/near/near-cli-go/config"
	"github.com/near/near-cli-go/table"
	"github.com/near/near-cli-go/types"
	"github.com/near/near-cli-go/wallet"
	walletFile "github.com/near/near-cli-go/wallet/file"
)

var (
	walletKind        string
	walletDescription string

	walletCmd = &cobra.Command{
		Use:   "wallet",
		Short: "Manage wallets holding account keys",
	}

	walletListCmd = &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List configured wallets",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.Global()
			table := table.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Name", "Kind", "Account ID", "Public Key"})

			var output [][]string
			for name, wcfg := range cfg.Wallets.All {
				kind := wcfg.Kind
				if wf, err := wcfg.LoadFactory(); err == nil {
					kind = wf.PrettyKind(wcfg.Config)
				}

				displayName := name
				if cfg.Wallets.Default == name {
					displayName += defaultMarker
				}

				output = append(output, []string{
					displayName,
					kind,
					wcfg.AccountID,
					wcfg.PublicKey,
				})
			}

			// Sort output by name.
			sort.Slice(output, func(i, j int) bool {
				return output[i][0] < output[j][0]
			})

			table.AppendBulk(output)
			table.Render()
		},
	}

	walletCreateCmd = &cobra.Command{
		Use:   "create <name> <account-id>",
		Short: "Create a new wallet holding a fresh key of the given account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Global()
			name, accountID := args[0], args[1]

			wf, err := wallet.Load(walletKind)
			if err != nil {
				return err
			}

			walletCfg := &config.Wallet{
				Description: walletDescription,
				Kind:        walletKind,
				AccountID:   accountID,
			}
			if err = walletCfg.SetConfigFromFlags(); err != nil {
				return err
			}

			// Ask for passphrase to encrypt the wallet with.
			var passphrase string
			if wf.RequiresPassphrase() {
				if passphrase, err = common.AskNewPassphrase(prompter); err != nil {
					return err
				}
			}

			if err = cfg.Wallets.Create(name, passphrase, walletCfg); err != nil {
				return err
			}
			if err = cfg.Save(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wallet '%s' created.\n", name)
			fmt.Fprintf(out, "Add the public key %s as an access key of %s before signing with it.\n", walletCfg.PublicKey, accountID)
			return nil
		},
	}

	walletShowCmd = &cobra.Command{
		Use:   "show <name>",
		Short: "Show public wallet information",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Global()
			name := args[0]

			wl, err := common.LoadWallet(prompter, cmd.OutOrStdout(), cfg, name)
			if err != nil {
				return err
			}
			showPublicWalletInfo(cmd.OutOrStdout(), cfg.Wallets.All[name], wl)
			return nil
		},
	}

	walletRmCmd = &cobra.Command{
		Use:     "rm <name>",
		Aliases: []string{"remove"},
		Short:   "Remove an existing wallet",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Global()
			name := args[0]

			// Early check for whether the wallet exists so that we don't ask for confirmation first.
			if _, exists := cfg.Wallets.All[name]; !exists {
				return fmt.Errorf("wallet '%s' does not exist", name)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "WARNING: Removing the wallet will ERASE secret key material!\n")
			fmt.Fprintf(out, "WARNING: THIS ACTION IS IRREVERSIBLE!\n")

			if err := common.ConfirmText(prompter, fmt.Sprintf("I really want to remove wallet %s", name)); err != nil {
				return err
			}

			if err := cfg.Wallets.Remove(name); err != nil {
				return err
			}
			return cfg.Save()
		},
	}

	walletRenameCmd = &cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename an existing wallet",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Global()
			oldName, newName := args[0], args[1]

			if err := cfg.Wallets.Rename(oldName, newName); err != nil {
				return err
			}
			return cfg.Save()
		},
	}

	walletSetDefaultCmd = &cobra.Command{
		Use:   "set-default <name>",
		Short: "Sets the given wallet as the default wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Global()

			if err := cfg.Wallets.SetDefault(args[0]); err != nil {
				return err
			}
			return cfg.Save()
		},
	}

	walletImportCmd = &cobra.Command{
		Use:   "import <name> <account-id>",
		Short: "Import an existing key of the given account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Global()
			name, accountID := args[0], args[1]

			if _, exists := cfg.Wallets.All[name]; exists {
				return fmt.Errorf("wallet '%s' already exists", name)
			}
			if _, err := types.ParseAccountID(accountID); err != nil {
				return err
			}

			// NOTE: We only support importing into the file-based wallet for now.
			wf, err := wallet.Load(walletFile.Kind)
			if err != nil {
				return err
			}

			// Ask for import kind.
			supportedKinds := wf.SupportedImportKinds()
			options := make([]string, 0, len(supportedKinds))
			for _, kind := range supportedKinds {
				options = append(options, string(kind))
			}
			idx, err := prompter.Select("Import kind:", options)
			if err != nil {
				return err
			}
			kind := supportedKinds[idx]

			// Ask for wallet configuration.
			wfCfg, err := wf.GetConfigFromSurvey(&kind)
			if err != nil {
				return err
			}

			// Ask for import data.
			var data string
			err = survey.AskOne(wf.DataPrompt(kind, wfCfg), &data, survey.WithValidator(wf.DataValidator(kind, wfCfg)))
			if err != nil {
				return err
			}

			// Ask for passphrase.
			passphrase, err := common.AskNewPassphrase(prompter)
			if err != nil {
				return err
			}

			walletCfg := &config.Wallet{
				Description: walletDescription,
				Kind:        wf.Kind(),
				AccountID:   accountID,
				Config:      wfCfg,
			}
			src := &wallet.ImportSource{
				Kind: kind,
				Data: data,
			}

			if err = cfg.Wallets.Import(name, passphrase, walletCfg, src); err != nil {
				return err
			}
			return cfg.Save()
		},
	}

	walletExportCmd = &cobra.Command{
		Use:   "export <name>",
		Short: "Export secret wallet information",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Global()
			name := args[0]
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "WARNING: Exporting the wallet will expose secret key material!\n")
			wl, err := common.LoadWallet(prompter, out, cfg, name)
			if err != nil {
				return err
			}

			showPublicWalletInfo(out, cfg.Wallets.All[name], wl)

			fmt.Fprintf(out, "Export:\n")
			fmt.Fprintln(out, wl.UnsafeExport())
			return nil
		},
	}
)

func showPublicWalletInfo(out io.Writer, wcfg *config.Wallet, wl wallet.Wallet) {
	fmt.Fprintf(out, "Account ID: %s\n", wcfg.AccountID)
	fmt.Fprintf(out, "Public Key: %s\n", wl.PublicKey())
	if wcfg.Description != "" {
		fmt.Fprintf(out, "Description: %s\n", wcfg.Description)
	}
}

func init() {
	walletCmd.AddCommand(walletListCmd)

	walletFlags := flag.NewFlagSet("", flag.ContinueOnError)
	walletFlags.StringVar(&walletKind, "kind", walletFile.Kind, "wallet kind")
	walletFlags.StringVar(&walletDescription, "description", "", "wallet description")

	for _, wf := range wallet.AvailableKinds() {
		walletFlags.AddFlagSet(wf.Flags())
	}

	walletCreateCmd.Flags().AddFlagSet(walletFlags)
	walletImportCmd.Flags().StringVar(&walletDescription, "description", "", "wallet description")

	walletCmd.AddCommand(walletCreateCmd)
	walletCmd.AddCommand(walletShowCmd)
	walletCmd.AddCommand(walletRmCmd)
	walletCmd.AddCommand(walletRenameCmd)
	walletCmd.AddCommand(walletSetDefaultCmd)
	walletCmd.AddCommand(walletImportCmd)
	walletCmd.AddCommand(walletExportCmd)
}

package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/near/near-cli-go/config"
	"github.com/near/near-cli-go/table"
)

var (
	addressBookCmd = &cobra.Command{
		Use:   "addressbook",
		Short: "Manage account IDs in the local address book",
	}

	abListCmd = &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List account IDs stored in the address book",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.Global()
			table := table.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Name", "Account ID", "Description"})

			var output [][]string
			for name, entry := range cfg.AddressBook.All {
				output = append(output, []string{
					name,
					entry.AccountID,
					entry.Description,
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

	abAddCmd = &cobra.Command{
		Use:   "add <name> <account-id>",
		Short: "Add an account ID to the address book",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Global()
			name, accountID := args[0], args[1]

			if err := cfg.AddressBook.Add(name, accountID); err != nil {
				return err
			}
			return cfg.Save()
		},
	}

	abShowCmd = &cobra.Command{
		Use:   "show <name>",
		Short: "Show address book entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			entry, ok := config.Global().AddressBook.All[name]
			if !ok {
				return fmt.Errorf("entry named '%s' does not exist in the address book", name)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Name:        %s\n", name)
			fmt.Fprintf(out, "Account ID:  %s\n", entry.GetAccountID())
			if entry.Description != "" {
				fmt.Fprintf(out, "Description: %s\n", entry.Description)
			}
			return nil
		},
	}

	abRmCmd = &cobra.Command{
		Use:     "rm <name>",
		Aliases: []string{"remove"},
		Short:   "Remove an entry from the address book",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Global()

			if err := cfg.AddressBook.Remove(args[0]); err != nil {
				return err
			}
			return cfg.Save()
		},
	}

	abRenameCmd = &cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename an address book entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Global()
			oldName, newName := args[0], args[1]

			if err := cfg.AddressBook.Rename(oldName, newName); err != nil {
				return err
			}
			return cfg.Save()
		},
	}
)

func init() {
	addressBookCmd.AddCommand(abListCmd)
	addressBookCmd.AddCommand(abAddCmd)
	addressBookCmd.AddCommand(abShowCmd)
	addressBookCmd.AddCommand(abRmCmd)
	addressBookCmd.AddCommand(abRenameCmd)
}

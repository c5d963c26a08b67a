package cmd

import (
	"github.com/ardanlabs/blockseal/app/tooling/ledger/commands"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a new key pair for the account",
	RunE: func(cmd *cobra.Command, args []string) error {
		return dispatch(commands.KeyGen, commands.Args{})
	},
}

var hashCmd = &cobra.Command{
	Use:   "hash [message]",
	Short: "Print the SHA-256 digest of a message",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var msg string
		if len(args) == 1 {
			msg = args[0]
		}
		return dispatch(commands.Hash, commands.Args{Message: msg})
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(hashCmd)
}

package cmd

import (
	"github.com/ardanlabs/blockseal/app/tooling/ledger/commands"
	"github.com/spf13/cobra"
)

var sig string

var signCmd = &cobra.Command{
	Use:   "sign message",
	Short: "Sign a message with the account's private key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return dispatch(commands.Sign, commands.Args{Message: args[0]})
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify message",
	Short: "Verify a message signature with the account's public key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return dispatch(commands.Verify, commands.Args{Message: args[0], Signature: sig})
	},
}

func init() {
	rootCmd.AddCommand(signCmd)
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().StringVarP(&sig, "signature", "s", "", "Hex signature to verify.")
}

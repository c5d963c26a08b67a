package cmd

import (
	"github.com/ardanlabs/blockseal/app/tooling/ledger/commands"
	"github.com/spf13/cobra"
)

var url string

var sendCmd = &cobra.Command{
	Use:   "send file...",
	Short: "Broadcast transaction files through a relay hub",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return dispatch(commands.Send, commands.Args{URL: url, TxFiles: args})
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&url, "url", "u", "ws://localhost:3080/v1/relay", "Websocket url of the relay hub.")
}

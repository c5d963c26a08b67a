package cmd

import (
	"github.com/ardanlabs/blockseal/app/tooling/ledger/commands"
	"github.com/spf13/cobra"
)

var (
	to     string
	amount float64
	uid    uint64
)

var txCmd = &cobra.Command{
	Use:   "tx",
	Short: "Build a transaction signed by the account",
	RunE: func(cmd *cobra.Command, args []string) error {
		return dispatch(commands.NewTx, commands.Args{To: to, Amount: amount, UID: uid})
	},
}

var txVerifyCmd = &cobra.Command{
	Use:   "txverify file...",
	Short: "Verify the signatures of transaction files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return dispatch(commands.VerifyTx, commands.Args{TxFiles: args})
	},
}

func init() {
	rootCmd.AddCommand(txCmd)
	rootCmd.AddCommand(txVerifyCmd)
	txCmd.Flags().StringVarP(&to, "to", "t", "", "Account receiving the value.")
	txCmd.Flags().Float64VarP(&amount, "amount", "m", 0, "Value to send.")
	txCmd.Flags().Uint64VarP(&uid, "uid", "u", 0, "Unique id for the transaction.")
}

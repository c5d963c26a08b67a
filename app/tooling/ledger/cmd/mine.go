package cmd

import (
	"github.com/ardanlabs/blockseal/app/tooling/ledger/commands"
	"github.com/spf13/cobra"
)

var (
	workers    int
	difficulty uint
)

var mineCmd = &cobra.Command{
	Use:   "mine [file...]",
	Short: "Seal the transaction files into a block mined by the account",
	RunE: func(cmd *cobra.Command, args []string) error {
		return dispatch(commands.Mine, commands.Args{TxFiles: args, Workers: workers, Difficulty: difficulty})
	},
}

func init() {
	rootCmd.AddCommand(mineCmd)
	mineCmd.Flags().IntVarP(&workers, "workers", "w", 0, "Mining goroutines, 0 for one per CPU.")
	mineCmd.Flags().UintVarP(&difficulty, "difficulty", "d", 0, "Leading zero bytes required, 0 for the default of 4.")
}

// Package cmd contains the ledger command line front end. Flags are parsed
// here and handed to the commands package.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ardanlabs/blockseal/app/tooling/ledger/commands"
	"github.com/ardanlabs/blockseal/foundation/logger"
	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

var (
	keyPath string
	account string
	out     string
	verbose bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&keyPath, "key-path", "p", "zblock/accounts/", "Path to the directory with the account keys.")
	rootCmd.PersistentFlags().StringVarP(&account, "account", "a", "", "Name of the account to act as.")
	rootCmd.PersistentFlags().StringVarP(&out, "out", "o", "", "File to write the result to.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log events to stderr.")
}

var rootCmd = &cobra.Command{
	Use:           "ledger",
	Short:         "Sign, verify and seal ledger transactions",
	Version:       build,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command selected by the process arguments.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		pterm.Error.WithWriter(os.Stderr).Println(err)
		os.Exit(1)
	}
}

// dispatch runs the command with the arguments collected from the flags.
func dispatch(cmd commands.Command, args commands.Args) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	args.KeyPath = keyPath
	args.Account = account
	args.Out = out

	if verbose {
		log, err := logger.New("LEDGER", "stderr")
		if err != nil {
			return err
		}
		defer log.Sync()

		log.Infow("dispatch", "command", cmd, "version", build)
		args.EvHandler = logger.EvHandler(log, uuid.NewString())
		defer log.Infow("dispatch", "command", cmd, "status", "completed")
	}

	if err := commands.Dispatch(ctx, cmd, args, os.Stdout); err != nil {
		return err
	}

	if out != "" {
		pterm.Success.WithWriter(os.Stderr).Printfln("%s: written to %s", cmd, out)
	}

	return nil
}

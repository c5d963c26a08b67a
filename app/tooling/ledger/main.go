// This program generates keys, signs and verifies messages, builds signed
// transactions, mines blocks and sends transactions to a relay hub.
package main

import "github.com/ardanlabs/blockseal/app/tooling/ledger/cmd"

func main() {
	cmd.Execute()
}

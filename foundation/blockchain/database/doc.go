// Package database handles the transaction and block data for the ledger:
// signed transactions, the canonical encoding that gets signed and hashed,
// and the proof of work search that seals a block.
package database

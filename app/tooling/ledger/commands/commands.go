// Package commands contains the functionality for the ledger tool. The
// commands are selected by value and never look at the process arguments,
// so any front end can drive them.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
)

// ErrUnknownCommand is returned when a command is not recognized.
var ErrUnknownCommand = errors.New("unknown command")

// Command identifies one of the ledger tool commands.
type Command int

// Set of commands supported by Dispatch.
const (
	Unknown Command = iota
	KeyGen
	Sign
	Verify
	NewTx
	VerifyTx
	Mine
	Hash
	Send
)

var names = map[Command]string{
	KeyGen:   "keygen",
	Sign:     "sign",
	Verify:   "verify",
	NewTx:    "tx",
	VerifyTx: "txverify",
	Mine:     "mine",
	Hash:     "hash",
	Send:     "send",
}

// String implements the fmt.Stringer interface.
func (c Command) String() string {
	name, exists := names[c]
	if !exists {
		return "unknown"
	}
	return name
}

// Parse returns the command for the specified name.
func Parse(name string) (Command, error) {
	for cmd, n := range names {
		if strings.EqualFold(n, name) {
			return cmd, nil
		}
	}

	return Unknown, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
}

// Names returns the names of every command in sorted order.
func Names() []string {
	list := make([]string, 0, len(names))
	for _, n := range names {
		list = append(list, n)
	}
	sort.Strings(list)
	return list
}

// =============================================================================

// Args is the set of inputs a command can use. Each command only looks at
// the fields it needs and validates them.
type Args struct {
	KeyPath    string   // Directory holding the account key files.
	Account    string   // Account acting as signer, sender or miner.
	To         string   // Account receiving a transaction.
	Message    string   // Message to sign, verify or hash.
	Signature  string   // 0x prefixed hex signature to verify.
	Amount     float64  // Transaction amount.
	UID        uint64   // Transaction uid.
	TxFiles    []string // Files holding json encoded transactions.
	Out        string   // Output file. Empty means the writer.
	Workers    int      // Mining goroutines. Zero means one per CPU.
	Difficulty uint     // Mining difficulty in bytes. Zero means the default.
	URL        string   // Websocket url of a relay hub.
	EvHandler  func(v string, args ...any)
}

// Dispatch executes the command with the specified arguments, writing the
// results to w.
func Dispatch(ctx context.Context, cmd Command, args Args, w io.Writer) error {
	if args.EvHandler == nil {
		args.EvHandler = func(v string, args ...any) {}
	}

	switch cmd {
	case KeyGen:
		return keyGen(args, w)
	case Sign:
		return sign(args, w)
	case Verify:
		return verify(args, w)
	case NewTx:
		return newTx(args, w)
	case VerifyTx:
		return verifyTx(args, w)
	case Mine:
		return mine(ctx, args, w)
	case Hash:
		return hash(args, w)
	case Send:
		return send(ctx, args, w)
	}

	return fmt.Errorf("%w: %d", ErrUnknownCommand, cmd)
}

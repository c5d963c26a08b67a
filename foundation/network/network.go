// Package network defines the capability the ledger needs to share
// transactions with other nodes, along with an in process implementation
// and a websocket implementation. Transports move transactions, they don't
// verify them; receivers are expected to call Tx.Verify.
package network

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ardanlabs/blockseal/foundation/blockchain/database"
	"github.com/google/uuid"
)

// ErrClosed is returned when a broadcast or receive is attempted on a
// closed connection.
var ErrClosed = errors.New("network connection closed")

// Broadcaster sends a transaction to every other member of the network.
type Broadcaster interface {
	Broadcast(ctx context.Context, tx database.Tx) error
}

// Receiver returns the next transaction sent by another member of the
// network.
type Receiver interface {
	Receive(ctx context.Context) (database.Tx, error)
}

// Network is a connection that can both broadcast and receive.
type Network interface {
	Broadcaster
	Receiver
	Close() error
}

// =============================================================================

// Envelope is the wire form of a message.
type Envelope struct {
	ID uuid.UUID   `json:"id"`
	Tx database.Tx `json:"tx"`
}

// encode wraps the transaction in a new envelope and marshals it.
func encode(tx database.Tx) ([]byte, error) {
	env := Envelope{
		ID: uuid.New(),
		Tx: tx,
	}

	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encoding envelope: %w", err)
	}

	return data, nil
}

// decode unmarshals an envelope.
func decode(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("decoding envelope: %w", err)
	}

	return env, nil
}

package database

import (
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ardanlabs/blockseal/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ErrKeyMismatch is returned when the private key provided to sign a
// transaction does not belong to the sender.
var ErrKeyMismatch = errors.New("private key does not match sender")

// =============================================================================

// Tx is a signed transfer of value between two parties. The signature covers
// the sender, receiver, amount and uid; changing any of them after the
// transaction is constructed makes Verify fail.
type Tx struct {
	Sender    *rsa.PublicKey      // Account sending the value, also the signing identity.
	Receiver  *rsa.PublicKey      // Account receiving the value.
	Amount    float64             // Value transferred. Not checked for sign or balance.
	UID       uint64              // Caller supplied id. Not checked for uniqueness.
	Signature signature.Signature // Sender's signature over the canonical form.
}

// NewTx constructs a transaction and signs it with the sender's private key.
// The private key is only used for signing and is not kept.
func NewTx(sender *rsa.PublicKey, senderKey *rsa.PrivateKey, receiver *rsa.PublicKey, amount float64, uid uint64) (Tx, error) {
	if sender == nil || senderKey == nil || receiver == nil {
		return Tx{}, fmt.Errorf("%w: missing key", ErrKeyMismatch)
	}

	if !senderKey.PublicKey.Equal(sender) {
		return Tx{}, ErrKeyMismatch
	}

	data, err := encodeTx(sender, receiver, amount, uid)
	if err != nil {
		return Tx{}, fmt.Errorf("encoding tx: %w", err)
	}

	sig, err := signature.Sign(data, senderKey)
	if err != nil {
		return Tx{}, err
	}

	tx := Tx{
		Sender:    sender,
		Receiver:  receiver,
		Amount:    amount,
		UID:       uid,
		Signature: sig,
	}

	return tx, nil
}

// Verify rebuilds the canonical form from the current field values and checks
// the signature against the sender's public key.
func (tx Tx) Verify() bool {
	data, err := encodeTx(tx.Sender, tx.Receiver, tx.Amount, tx.UID)
	if err != nil {
		return false
	}

	return signature.Verify(data, tx.Signature, tx.Sender)
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s:%d", signature.Address(tx.Sender), tx.UID)
}

// =============================================================================

// txJSON is the form of a transaction when sent across a network or
// written to a file.
type txJSON struct {
	Sender    hexutil.Bytes       `json:"sender"`
	Receiver  hexutil.Bytes       `json:"receiver"`
	Amount    float64             `json:"amount"`
	UID       uint64              `json:"uid"`
	Signature signature.Signature `json:"signature"`
}

// MarshalJSON implements the json.Marshaler interface. Keys are written as
// hex encoded PKIX DER.
func (tx Tx) MarshalJSON() ([]byte, error) {
	sender, err := signature.EncodePublicKey(tx.Sender)
	if err != nil {
		return nil, fmt.Errorf("sender: %w", err)
	}

	receiver, err := signature.EncodePublicKey(tx.Receiver)
	if err != nil {
		return nil, fmt.Errorf("receiver: %w", err)
	}

	return json.Marshal(txJSON{
		Sender:    sender,
		Receiver:  receiver,
		Amount:    tx.Amount,
		UID:       tx.UID,
		Signature: tx.Signature,
	})
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (tx *Tx) UnmarshalJSON(data []byte) error {
	var tj txJSON
	if err := json.Unmarshal(data, &tj); err != nil {
		return err
	}

	sender, err := signature.DecodePublicKey(tj.Sender)
	if err != nil {
		return fmt.Errorf("sender: %w", err)
	}

	receiver, err := signature.DecodePublicKey(tj.Receiver)
	if err != nil {
		return fmt.Errorf("receiver: %w", err)
	}

	*tx = Tx{
		Sender:    sender,
		Receiver:  receiver,
		Amount:    tj.Amount,
		UID:       tj.UID,
		Signature: tj.Signature,
	}

	return nil
}

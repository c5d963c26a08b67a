package database

import (
	"crypto/rsa"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/ardanlabs/blockseal/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/rlp"
)

// encodingVersion is the first element of every canonical payload. It has
// to change whenever the layout of a payload changes.
const encodingVersion = 1

// nonceSize is the width of the nonce in the block payload. A fixed width
// keeps the length of the payload independent of the nonce value.
const nonceSize = 8

// txPayload is the canonical form of a transaction that gets signed.
type txPayload struct {
	Version  uint
	Sender   []byte
	Receiver []byte
	Amount   uint64
	UID      uint64
}

// blockTx is the canonical form of a transaction inside a block. The
// signature is included so two blocks with different signatures never
// share a hash.
type blockTx struct {
	Sender    []byte
	Receiver  []byte
	Amount    uint64
	UID       uint64
	Signature []byte
}

// blockPayload is the canonical form of a block that gets hashed. The nonce
// must remain the last field.
type blockPayload struct {
	Version uint
	Trans   []blockTx
	Miner   []byte
	Nonce   [nonceSize]byte
}

// encodeTx returns the canonical bytes of the signed fields of a transaction.
func encodeTx(sender *rsa.PublicKey, receiver *rsa.PublicKey, amount float64, uid uint64) ([]byte, error) {
	senderDER, err := signature.EncodePublicKey(sender)
	if err != nil {
		return nil, fmt.Errorf("sender: %w", err)
	}

	receiverDER, err := signature.EncodePublicKey(receiver)
	if err != nil {
		return nil, fmt.Errorf("receiver: %w", err)
	}

	p := txPayload{
		Version:  encodingVersion,
		Sender:   senderDER,
		Receiver: receiverDER,
		Amount:   math.Float64bits(amount),
		UID:      uid,
	}

	return rlp.EncodeToBytes(p)
}

// encodeBlock returns the canonical bytes of a block for the given nonce.
func encodeBlock(trans []Tx, miner *rsa.PublicKey, nonce uint64) ([]byte, error) {
	p := blockPayload{
		Version: encodingVersion,
		Trans:   make([]blockTx, len(trans)),
	}

	for i, tx := range trans {
		senderDER, err := signature.EncodePublicKey(tx.Sender)
		if err != nil {
			return nil, fmt.Errorf("tx[%d]: sender: %w", i, err)
		}

		receiverDER, err := signature.EncodePublicKey(tx.Receiver)
		if err != nil {
			return nil, fmt.Errorf("tx[%d]: receiver: %w", i, err)
		}

		p.Trans[i] = blockTx{
			Sender:    senderDER,
			Receiver:  receiverDER,
			Amount:    math.Float64bits(tx.Amount),
			UID:       tx.UID,
			Signature: tx.Signature,
		}
	}

	minerDER, err := signature.EncodePublicKey(miner)
	if err != nil {
		return nil, fmt.Errorf("miner: %w", err)
	}
	p.Miner = minerDER

	binary.BigEndian.PutUint64(p.Nonce[:], nonce)

	return rlp.EncodeToBytes(p)
}

// putNonce overwrites the nonce at the end of an encoded block.
func putNonce(data []byte, nonce uint64) {
	binary.BigEndian.PutUint64(data[len(data)-nonceSize:], nonce)
}

package database

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ardanlabs/blockseal/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Difficulty is the number of leading zero bytes a block hash needs to seal
// a block. Four bytes is 32 leading zero bits.
const Difficulty uint = 4

// Set of errors returned by the block functions.
var (
	ErrNonceExhausted = errors.New("nonce space exhausted without a solution")
	ErrInvalidSeal    = errors.New("block hash does not solve the puzzle")
	ErrInvalidTx      = errors.New("block contains a transaction with an invalid signature")
)

// progressInterval is how many attempts are made between progress events and
// context checks.
const progressInterval = 1_000_000

// =============================================================================

// Block represents a group of transactions sealed by a miner. Blocks are not
// linked to a parent block.
type Block struct {
	Trans []Tx
	Miner *rsa.PublicKey
	Nonce uint64
	Hash  signature.Hash
}

// CheckBlock hashes the canonical form of the transactions, miner and nonce
// and reports whether the hash solves the puzzle at the fixed Difficulty. A
// block that can't be encoded, such as one with a missing key, is reported
// as invalid with a zero hash.
func CheckBlock(trans []Tx, miner *rsa.PublicKey, nonce uint64) (bool, signature.Hash) {
	return checkBlock(Difficulty, trans, miner, nonce)
}

// MineBlock searches nonces from 0 upwards until CheckBlock reports a valid
// block and returns that block's hash. The search can't be cancelled; use
// POW for that.
func MineBlock(trans []Tx, miner *rsa.PublicKey) (signature.Hash, error) {
	cfg := PowConfig{
		Difficulty: Difficulty,
		Start:      0,
		Step:       1,
	}

	b, err := POW(context.Background(), cfg, trans, miner, nil)
	if err != nil {
		return signature.ZeroHash, err
	}

	return b.Hash, nil
}

// =============================================================================

// PowConfig controls a proof of work search. Start and Step let a caller
// split the nonce space between several searches.
type PowConfig struct {
	Difficulty uint   // Number of leading zero bytes required.
	Start      uint64 // First nonce to try.
	Step       uint64 // Distance between nonces tried. Zero means 1.
}

// POW constructs a new Block and performs the work to find a nonce that
// solves the cryptographic POW puzzle.
func POW(ctx context.Context, cfg PowConfig, trans []Tx, miner *rsa.PublicKey, evHandler func(v string, args ...any)) (Block, error) {
	if evHandler == nil {
		evHandler = func(v string, args ...any) {}
	}

	if cfg.Difficulty > signature.HashLength {
		return Block{}, fmt.Errorf("difficulty %d is larger than the hash", cfg.Difficulty)
	}

	if err := ctx.Err(); err != nil {
		return Block{}, err
	}

	step := cfg.Step
	if step == 0 {
		step = 1
	}

	// Encode the block once. Only the nonce at the end of the payload
	// changes between attempts.
	data, err := encodeBlock(trans, miner, cfg.Start)
	if err != nil {
		return Block{}, fmt.Errorf("encoding block: %w", err)
	}

	evHandler("database: POW: MINING: started: trans[%d] difficulty[%d] start[%d] step[%d]", len(trans), cfg.Difficulty, cfg.Start, step)
	defer evHandler("database: POW: MINING: completed")

	nonce := cfg.Start
	var attempts uint64
	for {
		attempts++
		if attempts%progressInterval == 0 {
			evHandler("database: POW: MINING: attempts[%d]", attempts)

			if ctx.Err() != nil {
				evHandler("database: POW: MINING: CANCELLED")
				return Block{}, ctx.Err()
			}
		}

		putNonce(data, nonce)
		hash := signature.Sum(data)

		if isHashSolved(cfg.Difficulty, hash) {
			evHandler("database: POW: MINING: SOLVED: nonce[%d] hash[%s] attempts[%d]", nonce, hash, attempts)

			b := Block{
				Trans: trans,
				Miner: miner,
				Nonce: nonce,
				Hash:  hash,
			}
			return b, nil
		}

		next := nonce + step
		if next < nonce {
			evHandler("database: POW: MINING: EXHAUSTED: attempts[%d]", attempts)
			return Block{}, ErrNonceExhausted
		}
		nonce = next
	}
}

// Validate checks the block hash matches its content, solves the puzzle at
// the given difficulty and that every transaction is properly signed.
func (b Block) Validate(difficulty uint) error {
	solved, hash := checkBlock(difficulty, b.Trans, b.Miner, b.Nonce)
	if hash != b.Hash {
		return fmt.Errorf("%w: hash mismatch, got %s, exp %s", ErrInvalidSeal, hash, b.Hash)
	}

	if !solved {
		return fmt.Errorf("%w: %s", ErrInvalidSeal, hash)
	}

	for i, tx := range b.Trans {
		if !tx.Verify() {
			return fmt.Errorf("%w: tx[%d] %s", ErrInvalidTx, i, tx)
		}
	}

	return nil
}

// =============================================================================

// checkBlock is CheckBlock with a configurable difficulty.
func checkBlock(difficulty uint, trans []Tx, miner *rsa.PublicKey, nonce uint64) (bool, signature.Hash) {
	data, err := encodeBlock(trans, miner, nonce)
	if err != nil {
		return false, signature.ZeroHash
	}

	hash := signature.Sum(data)
	return isHashSolved(difficulty, hash), hash
}

// isHashSolved checks the hash to make sure it complies with the POW rules.
// We need to match a difficulty number of leading zero bytes.
func isHashSolved(difficulty uint, hash signature.Hash) bool {
	for _, b := range hash[:difficulty] {
		if b != 0 {
			return false
		}
	}
	return true
}

// =============================================================================

// blockJSON is the form of a block when sent across a network or written
// to a file.
type blockJSON struct {
	Trans []Tx           `json:"trans"`
	Miner hexutil.Bytes  `json:"miner"`
	Nonce uint64         `json:"nonce"`
	Hash  signature.Hash `json:"hash"`
}

// MarshalJSON implements the json.Marshaler interface.
func (b Block) MarshalJSON() ([]byte, error) {
	miner, err := signature.EncodePublicKey(b.Miner)
	if err != nil {
		return nil, fmt.Errorf("miner: %w", err)
	}

	trans := b.Trans
	if trans == nil {
		trans = []Tx{}
	}

	return json.Marshal(blockJSON{
		Trans: trans,
		Miner: miner,
		Nonce: b.Nonce,
		Hash:  b.Hash,
	})
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (b *Block) UnmarshalJSON(data []byte) error {
	var bj blockJSON
	if err := json.Unmarshal(data, &bj); err != nil {
		return err
	}

	miner, err := signature.DecodePublicKey(bj.Miner)
	if err != nil {
		return fmt.Errorf("miner: %w", err)
	}

	*b = Block{
		Trans: bj.Trans,
		Miner: miner,
		Nonce: bj.Nonce,
		Hash:  bj.Hash,
	}

	return nil
}

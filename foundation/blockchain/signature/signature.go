// Package signature provides helper functions for handling the blockchain
// signature needs.
package signature

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ErrSigning is returned when the signing primitive rejects the key or the
// padding. This should never happen for a key produced by GenerateKeyPair.
var ErrSigning = errors.New("unable to sign message")

// =============================================================================

// HashLength is the size of a digest in bytes.
const HashLength = sha256.Size

// Hash represents a 32 byte SHA-256 digest. Two hashes are equal only when
// every byte matches, so the array can be compared with ==.
type Hash [HashLength]byte

// ZeroHash represents a hash code of zeros.
var ZeroHash Hash

// Sum returns the SHA-256 digest for the specified data.
func Sum(data []byte) Hash {
	return sha256.Sum256(data)
}

// String returns the hash as a 0x prefixed hex string.
func (h Hash) String() string {
	return hexutil.Encode(h[:])
}

// Bytes returns a copy of the hash as a slice.
func (h Hash) Bytes() []byte {
	b := make([]byte, HashLength)
	copy(b, h[:])
	return b
}

// LeadingZeros returns the number of leading zero bytes in the hash.
func (h Hash) LeadingZeros() int {
	for i, b := range h {
		if b != 0 {
			return i
		}
	}
	return HashLength
}

// MarshalText implements the encoding.TextMarshaler interface.
func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (h *Hash) UnmarshalText(data []byte) error {
	b, err := hexutil.Decode(string(data))
	if err != nil {
		return fmt.Errorf("decoding hash: %w", err)
	}

	if len(b) != HashLength {
		return fmt.Errorf("invalid hash length, got %d, exp %d", len(b), HashLength)
	}

	copy(h[:], b)
	return nil
}

// =============================================================================

// Signature is the PKCS #1 v1.5 signature over the SHA-256 digest of a
// message. Its length matches the size of the signing key's modulus.
type Signature []byte

// String returns the signature as a 0x prefixed hex string.
func (s Signature) String() string {
	return hexutil.Encode(s)
}

// MarshalText implements the encoding.TextMarshaler interface.
func (s Signature) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (s *Signature) UnmarshalText(data []byte) error {
	b, err := hexutil.Decode(string(data))
	if err != nil {
		return fmt.Errorf("decoding signature: %w", err)
	}

	*s = b
	return nil
}

// =============================================================================

// Sign uses the specified private key to sign the message.
func Sign(message []byte, privateKey *rsa.PrivateKey) (Signature, error) {
	if privateKey == nil {
		return nil, fmt.Errorf("%w: missing private key", ErrSigning)
	}

	// Hash the message into a 32 byte digest. This is what gets signed.
	digest := sha256.Sum256(message)

	sig, err := rsa.SignPKCS1v15(rand.Reader, privateKey, crypto.SHA256, digest[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSigning, err)
	}

	return sig, nil
}

// Verify reports whether the signature was produced by the private key
// matching publicKey over this exact message. Any failure, including a
// malformed signature or a missing key, is reported as false.
func Verify(message []byte, sig Signature, publicKey *rsa.PublicKey) bool {
	if publicKey == nil || len(sig) == 0 {
		return false
	}

	digest := sha256.Sum256(message)

	return rsa.VerifyPKCS1v15(publicKey, crypto.SHA256, digest[:], sig) == nil
}

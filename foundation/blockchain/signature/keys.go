package signature

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"

	"github.com/btcsuite/btcutil/base58"
)

// KeyBits is the size of the RSA modulus for generated keys.
const KeyBits = 2048

// ErrKeyGeneration is returned when the random source or the key generation
// routine can't produce a valid key. It is not a retryable condition.
var ErrKeyGeneration = errors.New("unable to generate key pair")

// GenerateKeyPair produces a new RSA key pair using the system's secure
// random source.
func GenerateKeyPair() (*rsa.PrivateKey, *rsa.PublicKey, error) {
	privateKey, err := rsa.GenerateKey(rand.Reader, KeyBits)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrKeyGeneration, err)
	}

	if err := privateKey.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrKeyGeneration, err)
	}

	return privateKey, &privateKey.PublicKey, nil
}

// =============================================================================

// EncodePublicKey returns the PKIX DER form of the public key. This is the
// form used whenever a public key is part of a signed or hashed payload.
func EncodePublicKey(publicKey *rsa.PublicKey) ([]byte, error) {
	if publicKey == nil {
		return nil, errors.New("missing public key")
	}

	return x509.MarshalPKIXPublicKey(publicKey)
}

// DecodePublicKey parses a PKIX DER encoded RSA public key.
func DecodePublicKey(der []byte) (*rsa.PublicKey, error) {
	key, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("parsing public key: %w", err)
	}

	publicKey, ok := key.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("public key is %T, not RSA", key)
	}

	return publicKey, nil
}

// Address returns a short, human readable identity for the public key. It
// is the base58 form of the first 20 bytes of the SHA-256 of the DER key
// and is only meant for display.
func Address(publicKey *rsa.PublicKey) string {
	der, err := EncodePublicKey(publicKey)
	if err != nil {
		return "unknown"
	}

	sum := sha256.Sum256(der)
	return base58.Encode(sum[:20])
}

// =============================================================================

const (
	privateKeyType = "RSA PRIVATE KEY"
	publicKeyType  = "PUBLIC KEY"
)

// SavePrivateKey writes the private key to the file in PKCS #1 PEM form.
func SavePrivateKey(path string, privateKey *rsa.PrivateKey) error {
	block := pem.Block{
		Type:  privateKeyType,
		Bytes: x509.MarshalPKCS1PrivateKey(privateKey),
	}

	return os.WriteFile(path, pem.EncodeToMemory(&block), 0600)
}

// LoadPrivateKey reads a PKCS #1 PEM private key from the file.
func LoadPrivateKey(path string) (*rsa.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	block, _ := pem.Decode(data)
	if block == nil || block.Type != privateKeyType {
		return nil, fmt.Errorf("%s: no %s block found", path, privateKeyType)
	}

	privateKey, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return privateKey, nil
}

// SavePublicKey writes the public key to the file in PKIX PEM form.
func SavePublicKey(path string, publicKey *rsa.PublicKey) error {
	der, err := EncodePublicKey(publicKey)
	if err != nil {
		return err
	}

	block := pem.Block{
		Type:  publicKeyType,
		Bytes: der,
	}

	return os.WriteFile(path, pem.EncodeToMemory(&block), 0644)
}

// LoadPublicKey reads a PKIX PEM public key from the file.
func LoadPublicKey(path string) (*rsa.PublicKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	block, _ := pem.Decode(data)
	if block == nil || block.Type != publicKeyType {
		return nil, fmt.Errorf("%s: no %s block found", path, publicKeyType)
	}

	return DecodePublicKey(block.Bytes)
}

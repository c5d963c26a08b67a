package commands

import (
	"crypto/rsa"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ardanlabs/blockseal/foundation/blockchain/signature"
	"github.com/ardanlabs/blockseal/foundation/nameservice"
	"github.com/ardanlabs/blockseal/foundation/validate"
)

const (
	privateKeyExtension = ".pem"
	publicKeyExtension  = nameservice.PublicKeyExtension
)

func privateKeyPath(dir string, account string) string {
	return filepath.Join(dir, account+privateKeyExtension)
}

func publicKeyPath(dir string, account string) string {
	return filepath.Join(dir, account+publicKeyExtension)
}

func loadPrivateKey(dir string, account string) (*rsa.PrivateKey, error) {
	privateKey, err := signature.LoadPrivateKey(privateKeyPath(dir, account))
	if err != nil {
		return nil, fmt.Errorf("loading private key for %s: %w", account, err)
	}
	return privateKey, nil
}

func loadPublicKey(dir string, account string) (*rsa.PublicKey, error) {
	publicKey, err := signature.LoadPublicKey(publicKeyPath(dir, account))
	if err != nil {
		return nil, fmt.Errorf("loading public key for %s: %w", account, err)
	}
	return publicKey, nil
}

// =============================================================================

type keyGenRequest struct {
	KeyPath string `json:"key_path" validate:"required"`
	Account string `json:"account" validate:"required,excludesall=/\\"`
}

// keyGen generates a key pair for the account and writes both halves to
// the key path.
func keyGen(args Args, w io.Writer) error {
	req := keyGenRequest{
		KeyPath: args.KeyPath,
		Account: args.Account,
	}

	if err := validate.Check(req); err != nil {
		return err
	}

	pkPath := privateKeyPath(req.KeyPath, req.Account)
	if _, err := os.Stat(pkPath); err == nil {
		return fmt.Errorf("account %s already exists at %s", req.Account, pkPath)
	}

	if err := os.MkdirAll(req.KeyPath, 0755); err != nil {
		return fmt.Errorf("creating key path: %w", err)
	}

	privateKey, publicKey, err := signature.GenerateKeyPair()
	if err != nil {
		return err
	}

	if err := signature.SavePrivateKey(pkPath, privateKey); err != nil {
		return fmt.Errorf("saving private key: %w", err)
	}

	if err := signature.SavePublicKey(publicKeyPath(req.KeyPath, req.Account), publicKey); err != nil {
		return fmt.Errorf("saving public key: %w", err)
	}

	args.EvHandler("commands: keygen: account[%s] address[%s]", req.Account, signature.Address(publicKey))

	fmt.Fprintf(w, "%s %s\n", req.Account, signature.Address(publicKey))
	return nil
}

// =============================================================================

type signRequest struct {
	KeyPath string `json:"key_path" validate:"required"`
	Account string `json:"account" validate:"required"`
}

// sign signs the message with the account's private key.
func sign(args Args, w io.Writer) error {
	req := signRequest{
		KeyPath: args.KeyPath,
		Account: args.Account,
	}

	if err := validate.Check(req); err != nil {
		return err
	}

	privateKey, err := loadPrivateKey(req.KeyPath, req.Account)
	if err != nil {
		return err
	}

	sig, err := signature.Sign([]byte(args.Message), privateKey)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, sig)
	return nil
}

// =============================================================================

type verifyRequest struct {
	KeyPath   string `json:"key_path" validate:"required"`
	Account   string `json:"account" validate:"required"`
	Signature string `json:"signature" validate:"required,startswith=0x,hexadecimal"`
}

// verify checks the signature of the message against the account's public
// key. A signature that doesn't match is a result, not an error.
func verify(args Args, w io.Writer) error {
	req := verifyRequest{
		KeyPath:   args.KeyPath,
		Account:   args.Account,
		Signature: args.Signature,
	}

	if err := validate.Check(req); err != nil {
		return err
	}

	publicKey, err := loadPublicKey(req.KeyPath, req.Account)
	if err != nil {
		return err
	}

	var sig signature.Signature
	if err := sig.UnmarshalText([]byte(req.Signature)); err != nil {
		return err
	}

	fmt.Fprintln(w, signature.Verify([]byte(args.Message), sig, publicKey))
	return nil
}

// =============================================================================

// hash writes the SHA-256 digest of the message.
func hash(args Args, w io.Writer) error {
	msg := args.Message
	if msg == "" {
		msg = "hello"
	}

	fmt.Fprintln(w, signature.Sum([]byte(msg)))
	return nil
}

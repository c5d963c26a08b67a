// Package nameservice reads the account key folder and creates a name
// service lookup for the ledger accounts.
package nameservice

import (
	"crypto/rsa"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/ardanlabs/blockseal/foundation/blockchain/signature"
)

// PublicKeyExtension is the file extension of an account's public key.
const PublicKeyExtension = ".pub.pem"

// NameService maintains a map of account addresses for name lookup.
type NameService struct {
	accounts map[string]string
}

// New constructs a name service with the accounts from the key folder. An
// account's name is its public key file name without the extension.
func New(root string) (*NameService, error) {
	ns := NameService{
		accounts: make(map[string]string),
	}

	fn := func(fileName string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walkdir failure: %w", err)
		}

		if d.IsDir() || !strings.HasSuffix(fileName, PublicKeyExtension) {
			return nil
		}

		publicKey, err := signature.LoadPublicKey(fileName)
		if err != nil {
			return err
		}

		ns.accounts[signature.Address(publicKey)] = strings.TrimSuffix(filepath.Base(fileName), PublicKeyExtension)

		return nil
	}

	if err := filepath.WalkDir(root, fn); err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	return &ns, nil
}

// Lookup returns the name for the specified public key, or its address
// when the account is not known.
func (ns *NameService) Lookup(publicKey *rsa.PublicKey) string {
	address := signature.Address(publicKey)

	name, exists := ns.accounts[address]
	if !exists {
		return address
	}
	return name
}

// Copy returns a copy of the map of addresses and names.
func (ns *NameService) Copy() map[string]string {
	cpy := make(map[string]string, len(ns.accounts))
	for address, name := range ns.accounts {
		cpy[address] = name
	}
	return cpy
}

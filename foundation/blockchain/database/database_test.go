package database_test

import (
	"crypto/rsa"
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/ardanlabs/blockseal/foundation/blockchain/database"
	"github.com/ardanlabs/blockseal/foundation/blockchain/signature"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// =============================================================================

type account struct {
	pk  *rsa.PrivateKey
	pub *rsa.PublicKey
}

func newAccount(t *testing.T) account {
	t.Helper()

	pk, pub, err := signature.GenerateKeyPair()
	if err != nil {
		t.Fatalf("\t%s\tShould be able to generate a key pair: %v", failed, err)
	}

	return account{pk: pk, pub: pub}
}

// =============================================================================

func Test_Transactions(t *testing.T) {
	bill := newAccount(t)
	jill := newAccount(t)
	ceasar := newAccount(t)

	type table struct {
		name   string
		amount float64
		uid    uint64
		tamper func(tx *database.Tx)
		exp    bool
	}

	tt := []table{
		{name: "valid", amount: 10.0, uid: 1, tamper: func(tx *database.Tx) {}, exp: true},
		{name: "zero", amount: 0, uid: 1, tamper: func(tx *database.Tx) {}, exp: true},
		{name: "negative", amount: -10.0, uid: 1, tamper: func(tx *database.Tx) {}, exp: true},
		{name: "amount", amount: 10.0, uid: 1, tamper: func(tx *database.Tx) { tx.Amount = 100.0 }, exp: false},
		{name: "negzero", amount: 0, uid: 1, tamper: func(tx *database.Tx) { tx.Amount = math.Copysign(0, -1) }, exp: false},
		{name: "receiver", amount: 10.0, uid: 1, tamper: func(tx *database.Tx) { tx.Receiver = ceasar.pub }, exp: false},
		{name: "uid", amount: 10.0, uid: 1, tamper: func(tx *database.Tx) { tx.UID = 2 }, exp: false},
		{name: "sender", amount: 10.0, uid: 1, tamper: func(tx *database.Tx) { tx.Sender = jill.pub }, exp: false},
		{name: "nosender", amount: 10.0, uid: 1, tamper: func(tx *database.Tx) { tx.Sender = nil }, exp: false},
		{name: "signature", amount: 10.0, uid: 1, tamper: func(tx *database.Tx) { tx.Signature = tx.Signature[1:] }, exp: false},
	}

	t.Log("Given the need to detect tampered transactions.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling a %s transaction.", testID, tst.name)
			{
				f := func(t *testing.T) {
					tx, err := database.NewTx(bill.pub, bill.pk, jill.pub, tst.amount, tst.uid)
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to construct a transaction: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to construct a transaction.", success, testID)

					if !tx.Verify() {
						t.Fatalf("\t%s\tTest %d:\tShould verify right after construction.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould verify right after construction.", success, testID)

					tst.tamper(&tx)

					if got := tx.Verify(); got != tst.exp {
						t.Logf("\t%s\tTest %d:\tgot: %v", failed, testID, got)
						t.Logf("\t%s\tTest %d:\texp: %v", failed, testID, tst.exp)
						t.Fatalf("\t%s\tTest %d:\tShould get the right verification result.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould get the right verification result.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func Test_TamperScenario(t *testing.T) {
	a := newAccount(t)
	b := newAccount(t)
	c := newAccount(t)

	tx, err := database.NewTx(a.pub, a.pk, b.pub, 10.0, 1)
	if err != nil {
		t.Fatalf("Should be able to construct a transaction: %v", err)
	}

	if !tx.Verify() {
		t.Fatal("Should verify a fresh transaction.")
	}

	tx.Amount = 100.0
	if tx.Verify() {
		t.Fatal("Should not verify after changing the amount.")
	}

	tx, err = database.NewTx(a.pub, a.pk, b.pub, 10.0, 1)
	if err != nil {
		t.Fatalf("Should be able to construct a transaction: %v", err)
	}

	tx.Receiver = c.pub
	if tx.Verify() {
		t.Fatal("Should not verify after changing the receiver.")
	}

	tx.UID = 2
	if tx.Verify() {
		t.Fatal("Should not verify after changing the uid.")
	}
}

func Test_KeyMismatch(t *testing.T) {
	bill := newAccount(t)
	jill := newAccount(t)

	if _, err := database.NewTx(bill.pub, jill.pk, jill.pub, 10.0, 1); !errors.Is(err, database.ErrKeyMismatch) {
		t.Logf("got: %v", err)
		t.Logf("exp: %v", database.ErrKeyMismatch)
		t.Fatal("Should not sign with another account's key.")
	}

	if _, err := database.NewTx(bill.pub, bill.pk, nil, 10.0, 1); !errors.Is(err, database.ErrKeyMismatch) {
		t.Logf("got: %v", err)
		t.Fatal("Should not construct a transaction without a receiver.")
	}
}

func Test_TxJSON(t *testing.T) {
	bill := newAccount(t)
	jill := newAccount(t)

	tx, err := database.NewTx(bill.pub, bill.pk, jill.pub, 42.5, 7)
	if err != nil {
		t.Fatalf("Should be able to construct a transaction: %v", err)
	}

	data, err := json.Marshal(tx)
	if err != nil {
		t.Fatalf("Should be able to marshal a transaction: %v", err)
	}

	var got database.Tx
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Should be able to unmarshal a transaction: %v", err)
	}

	if !got.Verify() {
		t.Fatal("Should verify a transaction read back from json.")
	}

	if got.String() != tx.String() {
		t.Logf("got: %s", got)
		t.Logf("exp: %s", tx)
		t.Fatal("Should get the same identity back.")
	}

	if err := json.Unmarshal([]byte(`{"sender":"0x00"}`), &got); err == nil {
		t.Fatal("Should not accept a malformed sender key.")
	}
}

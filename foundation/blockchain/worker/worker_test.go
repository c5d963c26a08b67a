package worker_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ardanlabs/blockseal/foundation/blockchain/database"
	"github.com/ardanlabs/blockseal/foundation/blockchain/signature"
	"github.com/ardanlabs/blockseal/foundation/blockchain/worker"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Mine(t *testing.T) {
	pk, pub, err := signature.GenerateKeyPair()
	if err != nil {
		t.Fatalf("Should be able to generate a key pair: %s", err)
	}

	_, receiver, err := signature.GenerateKeyPair()
	if err != nil {
		t.Fatalf("Should be able to generate a key pair: %s", err)
	}

	tx, err := database.NewTx(pub, pk, receiver, 10, 1)
	if err != nil {
		t.Fatalf("Should be able to construct a transaction: %s", err)
	}
	trans := []database.Tx{tx}

	type table struct {
		name       string
		workers    int
		difficulty uint
	}

	tt := []table{
		{name: "single", workers: 1, difficulty: 2},
		{name: "four", workers: 4, difficulty: 2},
		{name: "default", workers: 0, difficulty: 1},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			cfg := worker.Config{
				Workers:    tst.workers,
				Difficulty: tst.difficulty,
				EvHandler:  t.Logf,
			}

			b, err := worker.Mine(ctx, cfg, trans, receiver)
			if err != nil {
				t.Fatalf("\t%s\tTest %s:\tShould be able to mine a block: %s", failed, tst.name, err)
			}
			t.Logf("\t%s\tTest %s:\tShould be able to mine a block.", success, tst.name)

			if err := b.Validate(tst.difficulty); err != nil {
				t.Fatalf("\t%s\tTest %s:\tShould be able to validate the block: %s", failed, tst.name, err)
			}
			t.Logf("\t%s\tTest %s:\tShould be able to validate the block.", success, tst.name)

			if tst.workers != 1 {
				return
			}

			// A single worker walks the nonces in order, so it must land on
			// the same nonce as a sequential search.
			exp, err := database.POW(ctx, database.PowConfig{Difficulty: tst.difficulty}, trans, receiver, nil)
			if err != nil {
				t.Fatalf("\t%s\tTest %s:\tShould be able to mine a block: %s", failed, tst.name, err)
			}

			if b.Nonce != exp.Nonce || b.Hash != exp.Hash {
				t.Logf("\t%s\tTest %s:\tgot: %d %s", failed, tst.name, b.Nonce, b.Hash)
				t.Logf("\t%s\tTest %s:\texp: %d %s", failed, tst.name, exp.Nonce, exp.Hash)
				t.Fatalf("\t%s\tTest %s:\tShould find the first solving nonce.", failed, tst.name)
			}
			t.Logf("\t%s\tTest %s:\tShould find the first solving nonce.", success, tst.name)
		}

		t.Run(tst.name, f)
	}
}

func Test_MineCancel(t *testing.T) {
	_, pub, err := signature.GenerateKeyPair()
	if err != nil {
		t.Fatalf("Should be able to generate a key pair: %s", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := worker.Config{
		Workers:    2,
		Difficulty: signature.HashLength,
	}

	if _, err := worker.Mine(ctx, cfg, nil, pub); !errors.Is(err, context.Canceled) {
		t.Logf("got: %v", err)
		t.Fatal("Should stop mining when the context is cancelled.")
	}
}

// Package worker splits a proof of work search across a set of goroutines.
// The core mining functions are single threaded and can't be interrupted;
// this package wraps them with cancellation and parallel nonce search.
package worker

import (
	"context"
	"crypto/rsa"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ardanlabs/blockseal/foundation/blockchain/database"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// EventHandler defines a function that is called when events occur in the
// processing of mining.
type EventHandler func(v string, args ...any)

// Config controls a parallel mining run.
type Config struct {
	Workers    int          // Number of goroutines. Zero means runtime.NumCPU.
	Difficulty uint         // Leading zero bytes. Zero means database.Difficulty.
	EvHandler  EventHandler // Optional.
}

// Mine searches for a nonce that seals the block using cfg.Workers
// goroutines. Goroutine i tries nonces i, i+n, i+2n and so on. The first
// solution found wins and the remaining goroutines are cancelled, so the
// winning nonce is not necessarily the smallest one that solves the block.
func Mine(ctx context.Context, cfg Config, trans []database.Tx, miner *rsa.PublicKey) (database.Block, error) {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	difficulty := cfg.Difficulty
	if difficulty == 0 {
		difficulty = database.Difficulty
	}

	ev := cfg.EvHandler
	if ev == nil {
		ev = func(v string, args ...any) {}
	}

	runID := uuid.NewString()
	start := time.Now()

	ev("worker: Mine: run[%s]: started: workers[%d] difficulty[%d] trans[%d]", runID, workers, difficulty, len(trans))
	defer func() {
		ev("worker: Mine: run[%s]: completed: duration[%v]", runID, time.Since(start))
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		once   sync.Once
		solved atomic.Bool
		block  database.Block
	)

	g, gctx := errgroup.WithContext(ctx)

	for i := 0; i < workers; i++ {
		i := i
		g.Go(func() error {
			gev := func(v string, args ...any) {
				ev("worker: Mine: run[%s]: g[%d]: "+v, append([]any{runID, i}, args...)...)
			}

			cfg := database.PowConfig{
				Difficulty: difficulty,
				Start:      uint64(i),
				Step:       uint64(workers),
			}

			b, err := database.POW(gctx, cfg, trans, miner, gev)
			if err != nil {

				// Losing the race to another goroutine is not an error.
				if solved.Load() && errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			}

			once.Do(func() {
				block = b
				solved.Store(true)
				cancel()
			})

			return nil
		})
	}

	if err := g.Wait(); err != nil && !solved.Load() {
		return database.Block{}, err
	}

	if !solved.Load() {
		return database.Block{}, database.ErrNonceExhausted
	}

	ev("worker: Mine: run[%s]: SOLVED: nonce[%d] hash[%s]", runID, block.Nonce, block.Hash)

	return block, nil
}

package network

import (
	"context"
	"sync"

	"github.com/ardanlabs/blockseal/foundation/blockchain/database"
	"github.com/google/uuid"
)

// Member is a connection to an in process bus. It implements Network.
type Member struct {
	id   string
	bus  *Bus
	ch   chan []byte
	once sync.Once
	done chan struct{}
}

// Join registers a new member with the bus.
func (b *Bus) Join() *Member {
	id := uuid.NewString()

	return &Member{
		id:   id,
		bus:  b,
		ch:   b.Acquire(id),
		done: make(chan struct{}),
	}
}

// ID returns the member's unique id on the bus.
func (m *Member) ID() string {
	return m.id
}

// Broadcast sends the transaction to every other member of the bus.
func (m *Member) Broadcast(ctx context.Context, tx database.Tx) error {
	select {
	case <-m.done:
		return ErrClosed
	default:
	}

	data, err := encode(tx)
	if err != nil {
		return err
	}

	m.bus.Send(m.id, data)
	return nil
}

// Receive blocks until another member broadcasts a transaction, the
// context is cancelled or the member is closed.
func (m *Member) Receive(ctx context.Context) (database.Tx, error) {
	select {
	case <-ctx.Done():
		return database.Tx{}, ctx.Err()

	case <-m.done:
		return database.Tx{}, ErrClosed

	case data, ok := <-m.ch:
		if !ok {
			return database.Tx{}, ErrClosed
		}

		env, err := decode(data)
		if err != nil {
			return database.Tx{}, err
		}

		return env.Tx, nil
	}
}

// Close removes the member from the bus.
func (m *Member) Close() error {
	var err error
	m.once.Do(func() {
		close(m.done)
		err = m.bus.Release(m.id)
	})

	return err
}

package network

import (
	"fmt"
	"sync"
)

// messageBuffer is the number of messages a member can fall behind before
// new messages for it are dropped.
const messageBuffer = 100

// Bus maintains a mapping of member ids and channels so goroutines can
// register and receive each other's messages.
type Bus struct {
	m  map[string]chan []byte
	mu sync.RWMutex
}

// NewBus constructs a bus for registering and receiving messages.
func NewBus() *Bus {
	return &Bus{
		m: make(map[string]chan []byte),
	}
}

// Shutdown closes and removes all channels that were provided by
// the call to Acquire.
func (b *Bus) Shutdown() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, ch := range b.m {
		delete(b.m, id)
		close(ch)
	}
}

// Acquire takes a unique id and returns a channel that can be used
// to receive messages.
func (b *Bus) Acquire(id string) chan []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch, exists := b.m[id]
	if exists {
		return ch
	}

	b.m[id] = make(chan []byte, messageBuffer)
	return b.m[id]
}

// Release closes and removes the channel that was provided by
// the call to Acquire.
func (b *Bus) Release(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch, exists := b.m[id]
	if !exists {
		return fmt.Errorf("id %q does not exist", id)
	}

	delete(b.m, id)
	close(ch)
	return nil
}

// Send delivers the message to every registered channel except the one
// belonging to the sender. Send will not block waiting for a receiver on
// any given channel.
func (b *Bus) Send(from string, msg []byte) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.m {
		if id == from {
			continue
		}

		select {
		case ch <- msg:
		default:
		}
	}
}

// Len returns the number of registered members.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.m)
}

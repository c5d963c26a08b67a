package network

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/ardanlabs/blockseal/foundation/blockchain/database"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// pingInterval is how often the hub pings a connection to keep it open.
const pingInterval = time.Second

// Hub relays every message received on a websocket connection to all the
// other connections. It implements http.Handler.
type Hub struct {
	bus       *Bus
	ws        websocket.Upgrader
	evHandler func(v string, args ...any)
}

// NewHub constructs a hub for relaying messages between connections.
func NewHub(evHandler func(v string, args ...any)) *Hub {
	if evHandler == nil {
		evHandler = func(v string, args ...any) {}
	}

	h := Hub{
		bus:       NewBus(),
		evHandler: evHandler,
	}
	h.ws.CheckOrigin = func(r *http.Request) bool { return true }

	return &h
}

// ServeHTTP upgrades the request to a websocket and relays messages until
// the connection fails or the hub is shut down.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.Serve(w, r); err != nil {
		h.evHandler("network: hub: ERROR: %s", err)
	}
}

// Serve is ServeHTTP returning the reason the connection ended.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request) error {
	c, err := h.ws.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("upgrade: %w", err)
	}
	defer c.Close()

	id := uuid.NewString()
	ch := h.bus.Acquire(id)
	defer h.bus.Release(id)

	h.evHandler("network: hub: conn[%s]: joined: remote[%s]", id, r.RemoteAddr)
	defer h.evHandler("network: hub: conn[%s]: left", id)

	// Only this goroutine writes to the connection. The reader hands
	// incoming messages to the bus.
	readErr := make(chan error, 1)
	go func() {
		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				readErr <- err
				return
			}

			env, err := decode(msg)
			if err != nil {
				h.evHandler("network: hub: conn[%s]: dropping message: %s", id, err)
				continue
			}

			h.evHandler("network: hub: conn[%s]: relay: msg[%s] tx[%s]", id, env.ID, env.Tx)
			h.bus.Send(id, msg)
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}

		case err := <-readErr:
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return err
		}
	}
}

// Len returns the number of open connections.
func (h *Hub) Len() int {
	return h.bus.Len()
}

// Shutdown releases every open connection.
func (h *Hub) Shutdown() {
	h.bus.Shutdown()
}

// =============================================================================

// Client is a websocket connection to a hub. It implements Network.
type Client struct {
	conn     *websocket.Conn
	mu       sync.Mutex
	incoming chan []byte
	readErr  error
	done     chan struct{}
	once     sync.Once
}

// Dial opens a websocket connection to the hub at the url.
func Dial(ctx context.Context, url string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	c := Client{
		conn:     conn,
		incoming: make(chan []byte, messageBuffer),
		done:     make(chan struct{}),
	}

	go c.readLoop()

	return &c, nil
}

// readLoop receives messages until the connection fails.
func (c *Client) readLoop() {
	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			c.readErr = err
			close(c.incoming)
			return
		}

		select {
		case c.incoming <- msg:
		case <-c.done:
			c.readErr = ErrClosed
			close(c.incoming)
			return
		}
	}
}

// Broadcast sends the transaction to the hub which relays it to every
// other connection.
func (c *Client) Broadcast(ctx context.Context, tx database.Tx) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}

	data, err := encode(tx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	deadline, _ := ctx.Deadline()
	if err := c.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}

	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Receive blocks until another connection broadcasts a transaction, the
// context is cancelled or the connection fails.
func (c *Client) Receive(ctx context.Context) (database.Tx, error) {
	select {
	case <-ctx.Done():
		return database.Tx{}, ctx.Err()

	case msg, ok := <-c.incoming:
		if !ok {
			return database.Tx{}, fmt.Errorf("%w: %w", ErrClosed, c.readErr)
		}

		env, err := decode(msg)
		if err != nil {
			return database.Tx{}, err
		}

		return env.Tx, nil
	}
}

// Close sends a close message to the hub and closes the connection.
func (c *Client) Close() error {
	var err error
	c.once.Do(func() {
		close(c.done)

		c.mu.Lock()
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		c.mu.Unlock()

		err = c.conn.Close()
	})

	return err
}

package notifications

import (
	"context"
	"time"

	"github.com/anjiri1684/parkspace/logger"
	"github.com/google/uuid"
)

const (
	TypeSuccess = "success"
	TypeError   = "error"
	TypeInfo    = "info"
	TypeWarning = "warning"
)

// Notification is an in-app toast pushed to a connected user.
type Notification struct {
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	BookingID string    `json:"booking_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Conn is the subset of a websocket connection the hub writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

type Client struct {
	UserID uuid.UUID
	Conn   Conn
}

type delivery struct {
	userID       uuid.UUID
	notification Notification
}

// clientBuffer is how many toasts may queue for one connection before it is
// treated as stalled and dropped.
const clientBuffer = 16

// peer is a registered connection with its own writer goroutine.
type peer struct {
	conn Conn
	send chan Notification
	done chan struct{}
}

func newPeer(conn Conn) *peer {
	p := &peer{conn: conn, send: make(chan Notification, clientBuffer), done: make(chan struct{})}
	go p.writeLoop()
	return p
}

// writeLoop runs until the hub closes send. After a failed write the
// connection is closed and remaining toasts are discarded.
func (p *peer) writeLoop() {
	defer close(p.done)
	failed := false
	for n := range p.send {
		if failed {
			continue
		}
		if err := p.conn.WriteJSON(n); err != nil {
			logger.Log.Warn().Err(err).Msg("sending notification failed")
			_ = p.conn.Close()
			failed = true
		}
	}
}

// stop closes the connection and waits for the writer to exit, so the
// caller may release the connection afterwards.
func (p *peer) stop() {
	close(p.send)
	_ = p.conn.Close()
	<-p.done
}

type unregistration struct {
	client *Client
	done   chan struct{}
}

// Hub owns the user-to-connection map. Only Run touches it, and Run never
// writes to a socket itself.
type Hub struct {
	clients    map[uuid.UUID]*peer
	register   chan *Client
	unregister chan unregistration
	outbox     chan delivery
	stopped    chan struct{}
}

func NewHub(buffer int) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]*peer),
		register:   make(chan *Client),
		unregister: make(chan unregistration),
		outbox:     make(chan delivery, buffer),
		stopped:    make(chan struct{}),
	}
}

// Default is the process-wide hub served on /api/v1/ws.
var Default = NewHub(256)

// Register hands c to the hub. Once Run has returned it closes c.Conn instead.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.stopped:
		_ = c.Conn.Close()
	}
}

// Unregister returns once the hub no longer writes to c.Conn.
func (h *Hub) Unregister(c *Client) {
	req := unregistration{client: c, done: make(chan struct{})}
	select {
	case h.unregister <- req:
		<-req.done
	case <-h.stopped:
	}
}

// Notify queues n for userID without blocking. Toasts for users who are
// offline, or that overflow the buffer, are dropped.
func (h *Hub) Notify(userID uuid.UUID, n Notification) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	select {
	case h.outbox <- delivery{userID: userID, notification: n}:
	default:
		logger.Log.Warn().Str("user_id", userID.String()).Str("title", n.Title).Msg("notification buffer full, dropping toast")
	}
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.stopped)
	for {
		select {
		case <-ctx.Done():
			for id, p := range h.clients {
				p.stop()
				delete(h.clients, id)
			}
			return
		case client := <-h.register:
			logger.Log.Debug().Str("user_id", client.UserID.String()).Msg("websocket client registered")
			if old, ok := h.clients[client.UserID]; ok {
				if old.conn == client.Conn {
					continue
				}
				old.stop()
			}
			h.clients[client.UserID] = newPeer(client.Conn)
		case req := <-h.unregister:
			client := req.client
			logger.Log.Debug().Str("user_id", client.UserID.String()).Msg("websocket client unregistered")
			if p, ok := h.clients[client.UserID]; ok && p.conn == client.Conn {
				p.stop()
				delete(h.clients, client.UserID)
			}
			close(req.done)
		case d := <-h.outbox:
			p, ok := h.clients[d.userID]
			if !ok {
				continue
			}
			select {
			case p.send <- d.notification:
			default:
				logger.Log.Warn().Str("user_id", d.userID.String()).Msg("websocket client stalled, disconnecting")
				p.stop()
				delete(h.clients, d.userID)
			}
		}
	}
}

// Notify queues a toast on the default hub.
func Notify(userID uuid.UUID, n Notification) {
	Default.Notify(userID, n)
}

package feed

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/efreitasn/auctionengine/internal/domain"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// CORS is enforced by the router.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type message struct {
	symbol string
	data   []byte
}

type reply struct {
	client *Client
	data   []byte
}

// Hub fans engine events out to websocket clients subscribed to the
// event's symbol. It is an engine.Observer. Publishing never blocks the
// caller: events are dropped when the hub is backed up, and clients whose
// send buffer is full are disconnected.
type Hub struct {
	logger *slog.Logger

	mu      sync.Mutex
	clients map[*Client]bool

	broadcast  chan message
	replies    chan reply
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
}

// NewHub creates a hub. Run must be started for it to deliver anything.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:     logger,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan message, sendBufferSize),
		replies:    make(chan reply),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run is the hub's main loop. It returns when ctx is cancelled, closing
// every client connection.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			n := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug("feed client connected", slog.String("client", c.id), slog.Int("total", n))

		case c := <-h.unregister:
			h.mu.Lock()
			if h.clients[c] {
				delete(h.clients, c)
				close(c.send)
				h.logger.Debug("feed client disconnected", slog.String("client", c.id), slog.Int("total", len(h.clients)))
			}
			h.mu.Unlock()

		case r := <-h.replies:
			h.mu.Lock()
			if h.clients[r.client] {
				select {
				case r.client.send <- r.data:
				default:
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				if !c.isSubscribed(msg.symbol) {
					continue
				}
				select {
				case c.send <- msg.data:
				default:
					delete(h.clients, c)
					close(c.send)
					h.logger.Warn("feed client too slow, disconnecting", slog.String("client", c.id))
				}
			}
			h.mu.Unlock()
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// OrderAdded publishes an order_added event.
func (h *Hub) OrderAdded(order domain.Order) {
	h.publish(orderAddedEvent(order))
}

// Matched publishes a fill event.
func (h *Hub) Matched(fill domain.Fill) {
	h.publish(fillEvent(fill))
}

func (h *Hub) publish(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("feed marshal failed", slog.String("error", err.Error()))
		return
	}

	select {
	case h.broadcast <- message{symbol: ev.Symbol, data: data}:
	default:
		h.logger.Warn("feed backlog full, dropping event",
			slog.String("type", ev.Type),
			slog.String("symbol", ev.Symbol),
		)
	}
}

// ServeHTTP upgrades the request to a websocket and attaches the client.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("feed upgrade failed", slog.String("error", err.Error()))
		return
	}

	c := &Client{
		hub:           h,
		conn:          conn,
		send:          make(chan []byte, sendBufferSize),
		id:            conn.RemoteAddr().String(),
		subscriptions: make(map[string]bool),
	}

	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

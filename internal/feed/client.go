package feed

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Client is one websocket connection and its symbol subscriptions.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	id   string

	mu            sync.RWMutex
	subscriptions map[string]bool
}

func (c *Client) isSubscribed(symbol string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.subscriptions[AllSymbols] || c.subscriptions[symbol]
}

func (c *Client) subscribe(symbols []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range symbols {
		c.subscriptions[s] = true
	}
}

func (c *Client) unsubscribe(symbols []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range symbols {
		delete(c.subscriptions, s)
	}
}

func (c *Client) current() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.subscriptions))
	for s := range c.subscriptions {
		out = append(out, s)
	}
	return out
}

// readPump applies subscribe/unsubscribe requests until the connection
// closes. Each applied request is acknowledged with a subscribed event
// listing the client's symbols.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("feed read failed", slog.String("client", c.id), slog.String("error", err.Error()))
			}
			return
		}

		var req Request
		if err := json.Unmarshal(data, &req); err != nil {
			c.hub.logger.Debug("feed invalid request", slog.String("client", c.id), slog.String("error", err.Error()))
			continue
		}

		switch req.Op {
		case "subscribe":
			c.subscribe(req.Symbols)
		case "unsubscribe":
			c.unsubscribe(req.Symbols)
		default:
			c.hub.logger.Debug("feed unknown op", slog.String("client", c.id), slog.String("op", req.Op))
			continue
		}

		ack, _ := json.Marshal(Event{Type: EventSubscribed, Symbols: c.current()})
		select {
		case c.hub.replies <- reply{client: c, data: ack}:
		case <-c.hub.done:
			return
		}
	}
}

// writePump writes queued events, one per frame, and keeps the
// connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

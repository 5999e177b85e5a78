// Package ws pushes order progress to browsers watching the tracking page.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"foodfleet/storefront-svc/internal/domain"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 16

	MessageProgress = "progress"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Message struct {
	Type      string          `json:"type"`
	OrderID   string          `json:"order_id"`
	Data      domain.Progress `json:"data"`
	Timestamp string          `json:"timestamp"`
}

type Client struct {
	conn    *websocket.Conn
	send    chan Message
	hub     *Hub
	orderID string
	logger  *logrus.Logger
}

// Hub fans progress updates out to the clients subscribed to each order.
// Clients only observe; closing a socket never stops an order's tracker.
type Hub struct {
	clients    map[string]map[*Client]bool
	broadcast  chan Message
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mutex      sync.RWMutex
	logger     *logrus.Logger
}

func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		broadcast:  make(chan Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run dispatches until ctx is cancelled, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for orderID, subs := range h.clients {
				for client := range subs {
					close(client.send)
				}
				delete(h.clients, orderID)
			}
			h.mutex.Unlock()
			return

		case client := <-h.register:
			h.mutex.Lock()
			subs, ok := h.clients[client.orderID]
			if !ok {
				subs = make(map[*Client]bool)
				h.clients[client.orderID] = subs
			}
			subs[client] = true
			h.mutex.Unlock()
			h.logger.WithFields(logrus.Fields{
				"order_id":     client.orderID,
				"client_count": len(subs),
			}).Info("Client connected")

		case client := <-h.unregister:
			h.remove(client)
			h.logger.WithField("order_id", client.orderID).Info("Client disconnected")

		case message := <-h.broadcast:
			h.mutex.Lock()
			for client := range h.clients[message.OrderID] {
				select {
				case client.send <- message:
				default:
					h.dropLocked(client)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// Notify queues p for every client watching orderID.
func (h *Hub) Notify(orderID string, p domain.Progress) {
	message := newMessage(orderID, p)
	select {
	case h.broadcast <- message:
	default:
		h.logger.WithField("order_id", orderID).Warn("Broadcast channel full, dropping message")
	}
}

// Serve upgrades the request and subscribes it to orderID, sending current
// first so a late viewer sees the present stage straight away.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, orderID string, current domain.Progress) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Error("Failed to upgrade to WebSocket")
		return
	}

	client := &Client{
		conn:    conn,
		send:    make(chan Message, sendBuffer),
		hub:     h,
		orderID: orderID,
		logger:  h.logger,
	}
	client.send <- newMessage(orderID, current)

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

func (h *Hub) ClientCount(orderID string) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients[orderID])
}

func (h *Hub) remove(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.dropLocked(client)
}

func (h *Hub) dropLocked(client *Client) {
	subs, ok := h.clients[client.orderID]
	if !ok || !subs[client] {
		return
	}
	delete(subs, client)
	close(client.send)
	if len(subs) == 0 {
		delete(h.clients, client.orderID)
	}
}

func newMessage(orderID string, p domain.Progress) Message {
	return Message{
		Type:      MessageProgress,
		OrderID:   orderID,
		Data:      p,
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.WithError(err).Error("WebSocket error")
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := json.Marshal(message)
			if err != nil {
				c.logger.WithError(err).Error("Failed to marshal WebSocket message")
				continue
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

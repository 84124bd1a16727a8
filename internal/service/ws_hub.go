package service

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"alphagex/dashboard/internal/model"
	"alphagex/dashboard/pkg/logger"

	redisHelper "alphagex/dashboard/pkg/redis"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// WSClient represents a connected dashboard over WebSocket
type WSClient struct {
	Hub  *WSHub
	Conn *websocket.Conn
	Send chan []byte
}

// WSHub handles WebSocket connections and broadcasts derived bot state to
// every connected dashboard. There is no per-connection routing: all
// dashboards watch the same fleet.
type WSHub struct {
	clients    map[*WSClient]bool
	register   chan *WSClient
	unregister chan *WSClient
	broadcast  chan []byte
	mu         sync.RWMutex

	redisClient *redisHelper.Client
	instanceID  string
	log         *logger.Logger
}

func NewWSHub(redisClient *redisHelper.Client) *WSHub {
	return &WSHub{
		clients:     make(map[*WSClient]bool),
		register:    make(chan *WSClient),
		unregister:  make(chan *WSClient),
		broadcast:   make(chan []byte),
		redisClient: redisClient,
		instanceID:  uuid.New().String(),
		log:         logger.GetLogger(),
	}
}

func (h *WSHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.log.Infof("WS client connected (%d total)", h.clientCount())

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()
			h.log.Infof("WS client disconnected (%d total)", h.clientCount())

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					// Slow consumer, drop it
					close(client.Send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *WSHub) clientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends a message to all connected dashboards and fans it out to
// peer instances over pub/sub.
func (h *WSHub) Broadcast(msg model.WSMessage) {
	msg.Origin = h.instanceID
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Errorf("Failed to marshal WS broadcast message: %v", err)
		return
	}
	h.broadcast <- data

	if h.redisClient != nil {
		if err := h.redisClient.Publish(context.Background(), redisHelper.ChannelBotStateUpdate, data); err != nil {
			h.log.Warnf("Failed to publish WS message to peers: %v", err)
		}
	}
}

// ReadPump handles messages from the client (control messages only)
func (c *WSClient) ReadPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(512)
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, _, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.log.Errorf("WS error: %v", err)
			}
			break
		}
	}
}

// WritePump handles outgoing messages to the client
func (c *WSClient) WritePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// Hub closed the channel
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Flush any queued messages into the same frame
			n := len(c.Send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.Send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// StartPubSubListener bridges envelopes published on Redis by peer instances
// to this instance's WebSocket clients. Peer messages go straight to the
// local broadcast channel; they are never re-published.
func (h *WSHub) StartPubSubListener(ctx context.Context) {
	pubsub := h.redisClient.Subscribe(ctx, redisHelper.ChannelBotStateUpdate)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		data, ok := h.acceptPeerMessage([]byte(msg.Payload))
		if !ok {
			continue
		}
		h.broadcast <- data
	}
}

// acceptPeerMessage filters out envelopes this instance published itself so
// its own updates are not delivered twice.
func (h *WSHub) acceptPeerMessage(payload []byte) ([]byte, bool) {
	var msg model.WSMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return nil, false
	}
	if msg.Origin == h.instanceID {
		return nil, false
	}
	return payload, true
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // In production, check origin
	},
}

// ServeWS handles WebSocket upgrade requests
func (h *WSHub) ServeWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Errorf("Failed to upgrade websocket: %v", err)
		return
	}

	client := &WSClient{
		Hub:  h,
		Conn: conn,
		Send: make(chan []byte, 256),
	}

	h.register <- client

	go client.WritePump()
	go client.ReadPump()
}

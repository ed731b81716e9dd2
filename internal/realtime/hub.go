// Package realtime implements the websocket layer: cookie-authenticated
// connections, room membership, and in-room message fan-out.
package realtime

import (
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/wavegram/backend/internal/middleware"
	"github.com/wavegram/backend/internal/models"
	"github.com/wavegram/backend/internal/services"
	"github.com/wavegram/backend/pkg/logger"
)

// Hub owns all live clients and fans chat messages out to room members.
type Hub struct {
	mu       sync.RWMutex
	clients  map[string]*Client
	registry Registry
	chats    *services.ChatService
	secret   string
	upgrader websocket.Upgrader
}

func NewHub(chats *services.ChatService, registry Registry, secret string) *Hub {
	return &Hub{
		clients:  make(map[string]*Client),
		registry: registry,
		chats:    chats,
		secret:   secret,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser origin enforcement is handled by the CORS layer.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeWS authenticates the handshake with the same signed session token the
// HTTP layer uses and upgrades the connection. Verification failure refuses
// the connection before any event handling is attached.
func (h *Hub) ServeWS(c echo.Context) error {
	tokenString, err := middleware.TokenFromRequest(c.Request())
	if err != nil {
		return err
	}
	claims, err := middleware.ParseToken(tokenString, h.secret)
	if err != nil {
		return err
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := &Client{
		id:     uuid.NewString(),
		userID: claims.UserID,
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
	}
	h.register(client)

	go client.writePump()
	go client.readPump()
	return nil
}

func (h *Hub) register(client *Client) {
	h.mu.Lock()
	h.clients[client.id] = client
	h.mu.Unlock()

	h.registry.Connect(client.userID, client.id)
	logger.Debug("realtime client connected", "conn_id", client.id, "user_id", client.userID)
}

func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	_, known := h.clients[client.id]
	if known {
		delete(h.clients, client.id)
	}
	h.mu.Unlock()
	if !known {
		return
	}

	h.registry.Disconnect(client.userID, client.id)
	// Closing the connection stops both pumps; the send channel is never
	// closed so concurrent broadcasters cannot race a close.
	_ = client.conn.Close()
	logger.Debug("realtime client disconnected", "conn_id", client.id, "user_id", client.userID)
}

// BroadcastMessage delivers a rich message to every connection currently
// joined to the chat's room, including the sender's other connections.
// Members not connected receive nothing; history comes from the HTTP API.
func (h *Hub) BroadcastMessage(msg *models.RichMessage) {
	frame, err := encodeReceiveMessage(msg)
	if err != nil {
		logger.Error("encoding broadcast frame", "chat_id", msg.ChatID, "error", err)
		return
	}

	for _, connID := range h.registry.RoomMembers(msg.ChatID) {
		h.mu.RLock()
		client, ok := h.clients[connID]
		h.mu.RUnlock()
		if ok {
			client.enqueue(frame)
		}
	}
}

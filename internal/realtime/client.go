package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wavegram/backend/internal/apperrors"
	"github.com/wavegram/backend/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
	sendBuffer     = 64
	handlerTimeout = 10 * time.Second
)

// Client is one websocket connection owned by an authenticated user. A user
// may hold several clients at once (tabs, devices).
type Client struct {
	id     string
	userID uint
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
}

// enqueue hands a frame to the write pump. A client that cannot keep up has
// its connection dropped rather than blocking the sender.
func (c *Client) enqueue(frame []byte) {
	select {
	case c.send <- frame:
	default:
		logger.Warn("closing slow realtime client", "conn_id", c.id, "user_id", c.userID)
		c.hub.unregister(c)
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("realtime read error", "conn_id", c.id, "error", err)
			}
			return
		}
		c.handleEvent(raw)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleEvent dispatches one inbound frame. Failures are reported on the
// acknowledgement and never retried; resubmission is the client's job.
func (c *Client) handleEvent(raw []byte) {
	var event Event
	if err := json.Unmarshal(raw, &event); err != nil {
		c.enqueue(encodeAck(0, AckStatusError, "malformed event"))
		return
	}

	switch event.Event {
	case EventJoinChat:
		c.handleJoinChat(event)
	case EventSendMessage:
		c.handleSendMessage(event)
	default:
		c.enqueue(encodeAck(event.AckID, AckStatusError, "unknown event: "+event.Event))
	}
}

func (c *Client) handleJoinChat(event Event) {
	var payload JoinChatPayload
	if err := json.Unmarshal(event.Data, &payload); err != nil || payload.ChatID <= 0 {
		c.enqueue(encodeAck(event.AckID, AckStatusError, "chat id must be a positive integer"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	chatID := uint(payload.ChatID)
	if _, err := c.hub.chats.AuthorizeParticipant(ctx, chatID, c.userID); err != nil {
		c.enqueue(encodeAck(event.AckID, AckStatusError, apperrors.From(err).Message))
		return
	}

	c.hub.registry.Join(c.userID, c.id, chatID)
	c.enqueue(encodeAck(event.AckID, AckStatusOK, "joined"))
}

func (c *Client) handleSendMessage(event Event) {
	var payload SendMessagePayload
	if err := json.Unmarshal(event.Data, &payload); err != nil || payload.ChatID <= 0 {
		c.enqueue(encodeAck(event.AckID, AckStatusError, "chat id must be a positive integer"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	msg, err := c.hub.chats.SendMessage(ctx, uint(payload.ChatID), c.userID, payload.Content)
	if err != nil {
		c.enqueue(encodeAck(event.AckID, AckStatusError, apperrors.From(err).Message))
		return
	}

	c.hub.BroadcastMessage(msg)
	c.enqueue(encodeAck(event.AckID, AckStatusOK, "sent"))
}

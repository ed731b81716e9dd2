package realtime

import (
	"encoding/json"

	"github.com/wavegram/backend/internal/models"
)

// Wire events. Client to server: joinChat, sendMessage. Server to client:
// ack, receiveMessage.
const (
	EventJoinChat       = "joinChat"
	EventSendMessage    = "sendMessage"
	EventAck            = "ack"
	EventReceiveMessage = "receiveMessage"
)

const (
	AckStatusOK    = "ok"
	AckStatusError = "error"
)

// Event is the envelope for every frame in both directions.
type Event struct {
	Event string          `json:"event"`
	AckID int64           `json:"ack_id,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type JoinChatPayload struct {
	ChatID int64 `json:"chat_id"`
}

type SendMessagePayload struct {
	ChatID  int64  `json:"chat_id"`
	Content string `json:"content"`
}

// AckPayload reports the outcome of a client request. Errors surface here
// and are never retried server-side.
type AckPayload struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func encodeAck(ackID int64, status, message string) []byte {
	data, _ := json.Marshal(AckPayload{Status: status, Message: message})
	frame, _ := json.Marshal(Event{Event: EventAck, AckID: ackID, Data: data})
	return frame
}

func encodeReceiveMessage(msg *models.RichMessage) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Event{Event: EventReceiveMessage, Data: data})
}

package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types - Client → Server
const (
	EventTypeSendMessage = "send-message"
	EventTypeTyping      = "typing"
	EventTypeStopTyping  = "stop-typing"
	EventTypeJoinRoom    = "joinRoom"
	EventTypePing        = "ping"
)

// Event types - Server → Client
const (
	EventTypeReceiveMessage = "receive-message"
	EventTypeSendAck        = "send-ack"
	EventTypeOnlineUsers    = "update-online-users"
	EventTypeUserTyping     = "user-typing"
	EventTypeUserStopTyping = "user-stop-typing"
	EventTypePong           = "pong"
	EventTypeError          = "error"
)

// Event is the base envelope for all WebSocket messages.
type Event struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"ts,omitempty"`
}

// --- Client → Server payloads ---

type SendMessagePayload struct {
	SenderID   uuid.UUID  `json:"senderId"`
	ReceiverID uuid.UUID  `json:"receiverId"`
	Content    string     `json:"content"`
	ProductID  *uuid.UUID `json:"productId,omitempty"`
}

type TypingPayload struct {
	SenderID   uuid.UUID `json:"senderId"`
	ReceiverID uuid.UUID `json:"receiverId"`
}

type JoinRoomPayload struct {
	RoomID string `json:"roomId"`
}

// --- Server → Client payloads ---

// ReceiveMessagePayload carries the translated content as the display
// content and keeps the sender's original text alongside it.
type ReceiveMessagePayload struct {
	ID              uuid.UUID  `json:"id"`
	SenderID        uuid.UUID  `json:"senderId"`
	ReceiverID      uuid.UUID  `json:"receiverId"`
	Content         string     `json:"content"`
	OriginalContent string     `json:"originalContent"`
	ProductID       *uuid.UUID `json:"productId,omitempty"`
	Timestamp       time.Time  `json:"timestamp"`
}

type SendAckPayload struct {
	OK        bool       `json:"ok"`
	Code      string     `json:"code,omitempty"`
	MessageID *uuid.UUID `json:"messageId,omitempty"`
}

type UserTypingPayload struct {
	SenderID uuid.UUID `json:"senderId"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewEvent creates a server→client event with the current timestamp.
func NewEvent(eventType string, payload any) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Event{
		Type:      eventType,
		Payload:   data,
		Timestamp: time.Now().Unix(),
	}, nil
}

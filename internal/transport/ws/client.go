package ws

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"marketchat/internal/domain"
	"marketchat/internal/service"
)

const (
	writeWait    = 10 * time.Second
	pingInterval = 30 * time.Second
	sendBufSize  = 256
)

// Relay is the inbound side of the message relay, satisfied by
// *service.RelayService.
type Relay interface {
	HandleSend(ctx context.Context, req service.SendRequest) (*domain.Message, error)
	HandleTyping(senderID, receiverID uuid.UUID, isTyping bool)
}

// Client represents a single WebSocket connection for one user.
type Client struct {
	hub    *Hub
	relay  Relay
	conn   *websocket.Conn
	userID uuid.UUID
	logger *zap.Logger

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func NewClient(hub *Hub, relay Relay, conn *websocket.Conn, userID uuid.UUID, logger *zap.Logger) *Client {
	return &Client{
		hub:    hub,
		relay:  relay,
		conn:   conn,
		userID: userID,
		logger: logger,
		send:   make(chan []byte, sendBufSize),
		done:   make(chan struct{}),
	}
}

// UserID returns the user this connection belongs to.
func (c *Client) UserID() uuid.UUID {
	return c.userID
}

// trySend queues data without blocking. A full buffer means a slow
// consumer; the write is dropped rather than stalling the hub.
func (c *Client) trySend(data []byte) {
	select {
	case <-c.done:
	case c.send <- data:
	default:
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// ReadPump reads events from the WebSocket and dispatches them. The
// deferred Unregister runs on every exit path, network errors included,
// so a dropped connection never leaks a presence entry.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		var event Event
		err := wsjson.Read(context.Background(), c.conn, &event)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				c.logger.Debug("ws: client disconnected", zap.String("user_id", c.userID.String()))
			} else {
				c.logger.Debug("ws: read error", zap.String("user_id", c.userID.String()), zap.Error(err))
			}
			return
		}

		c.handleEvent(&event)
	}
}

// WritePump writes queued events to the WebSocket and keeps the
// connection alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message := <-c.send:
			ctx, cancel := context.WithTimeout(context.Background(), writeWait)
			err := c.conn.Write(ctx, websocket.MessageText, message)
			cancel()
			if err != nil {
				c.logger.Debug("ws: write error", zap.String("user_id", c.userID.String()), zap.Error(err))
				return
			}

		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), writeWait)
			err := c.conn.Ping(ctx)
			cancel()
			if err != nil {
				return
			}

		case <-c.done:
			return
		}
	}
}

// handleEvent routes one inbound client event.
func (c *Client) handleEvent(event *Event) {
	switch event.Type {
	case EventTypeSendMessage:
		var p SendMessagePayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			c.sendError("INVALID_PAYLOAD", "invalid send-message payload")
			return
		}
		c.handleSendMessage(p)

	case EventTypeTyping, EventTypeStopTyping:
		var p TypingPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			c.sendError("INVALID_PAYLOAD", "invalid typing payload")
			return
		}
		c.relay.HandleTyping(p.SenderID, p.ReceiverID, event.Type == EventTypeTyping)

	case EventTypeJoinRoom:
		var p JoinRoomPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil || p.RoomID == "" {
			c.sendError("INVALID_PAYLOAD", "invalid joinRoom payload")
			return
		}
		c.hub.JoinRoom(p.RoomID, c)

	case EventTypePing:
		c.sendPong()

	default:
		c.sendError("UNKNOWN_EVENT", "unknown event type: "+event.Type)
	}
}

func (c *Client) handleSendMessage(p SendMessagePayload) {
	msg, err := c.relay.HandleSend(context.Background(), service.SendRequest{
		SenderID:   p.SenderID,
		ReceiverID: p.ReceiverID,
		Content:    p.Content,
		ProductID:  p.ProductID,
	})

	// The ack goes back only on the connection that issued the send.
	ack := SendAckPayload{OK: err == nil}
	switch {
	case err == nil:
		ack.MessageID = &msg.ID
	case errors.Is(err, domain.ErrValidation):
		ack.Code = "VALIDATION_ERROR"
	case errors.Is(err, domain.ErrRecipientUnknown):
		ack.Code = "RECIPIENT_UNKNOWN"
	case errors.Is(err, domain.ErrStorage):
		ack.Code = "STORAGE_ERROR"
	default:
		ack.Code = "INTERNAL"
	}

	evt, merr := NewEvent(EventTypeSendAck, ack)
	if merr != nil {
		return
	}
	data, merr := json.Marshal(evt)
	if merr != nil {
		return
	}
	c.trySend(data)
}

func (c *Client) sendPong() {
	data, _ := json.Marshal(Event{Type: EventTypePong, Timestamp: time.Now().Unix()})
	c.trySend(data)
}

func (c *Client) sendError(code, message string) {
	evt, err := NewEvent(EventTypeError, ErrorPayload{Code: code, Message: message})
	if err != nil {
		return
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return
	}
	c.trySend(data)
}

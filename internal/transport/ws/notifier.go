package ws

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"marketchat/internal/domain"
)

// HubNotifier implements service.Notifier using the WebSocket Hub.
type HubNotifier struct {
	hub    *Hub
	logger *zap.Logger
}

func NewHubNotifier(hub *Hub, logger *zap.Logger) *HubNotifier {
	return &HubNotifier{hub: hub, logger: logger}
}

// DeliverMessage pushes a stored message to every connection the receiver
// has open. Best effort: delivery to a dead or slow connection is dropped,
// the message is already durable and will be picked up via history.
func (n *HubNotifier) DeliverMessage(receiverID uuid.UUID, msg *domain.Message) {
	evt, err := NewEvent(EventTypeReceiveMessage, ReceiveMessagePayload{
		ID:              msg.ID,
		SenderID:        msg.SenderID,
		ReceiverID:      msg.ReceiverID,
		Content:         msg.TranslatedContent,
		OriginalContent: msg.Content,
		ProductID:       msg.ProductID,
		Timestamp:       msg.CreatedAt,
	})
	if err != nil {
		n.logger.Error("ws notifier: marshal error", zap.Error(err))
		return
	}
	n.hub.SendToUser(receiverID, evt)
}

// NotifyTyping relays a typing signal to the receiver's connections.
// No-ops when the receiver is offline.
func (n *HubNotifier) NotifyTyping(receiverID, senderID uuid.UUID, isTyping bool) {
	eventType := EventTypeUserTyping
	if !isTyping {
		eventType = EventTypeUserStopTyping
	}
	evt, err := NewEvent(eventType, UserTypingPayload{SenderID: senderID})
	if err != nil {
		n.logger.Error("ws notifier: marshal error", zap.Error(err))
		return
	}
	n.hub.SendToUser(receiverID, evt)
}

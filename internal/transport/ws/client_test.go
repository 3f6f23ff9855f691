package ws

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"marketchat/internal/domain"
	"marketchat/internal/service"
)

type fakeRelay struct {
	sends   []service.SendRequest
	typings []bool
	msg     *domain.Message
	err     error
}

func (r *fakeRelay) HandleSend(_ context.Context, req service.SendRequest) (*domain.Message, error) {
	r.sends = append(r.sends, req)
	return r.msg, r.err
}

func (r *fakeRelay) HandleTyping(_, _ uuid.UUID, isTyping bool) {
	r.typings = append(r.typings, isTyping)
}

func mustEvent(t *testing.T, eventType string, payload any) *Event {
	t.Helper()
	evt, err := NewEvent(eventType, payload)
	require.NoError(t, err)
	return evt
}

func TestSendMessageDispatchAndAck(t *testing.T) {
	req := require.New(t)
	hub := NewHub(zap.NewNop())
	msgID := uuid.New()
	relay := &fakeRelay{msg: &domain.Message{ID: msgID}}

	c := NewClient(hub, relay, nil, uuid.New(), zap.NewNop())
	senderID, receiverID := uuid.New(), uuid.New()

	c.handleEvent(mustEvent(t, EventTypeSendMessage, SendMessagePayload{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    "Hello",
	}))

	req.Len(relay.sends, 1)
	req.Equal(senderID, relay.sends[0].SenderID)
	req.Equal("Hello", relay.sends[0].Content)

	evt := recvEvent(t, c)
	req.Equal(EventTypeSendAck, evt.Type)

	var ack SendAckPayload
	req.NoError(json.Unmarshal(evt.Payload, &ack))
	req.True(ack.OK)
	req.Equal(msgID, *ack.MessageID)
}

func TestSendMessageAckCarriesErrorCode(t *testing.T) {
	req := require.New(t)
	hub := NewHub(zap.NewNop())

	cases := []struct {
		err  error
		code string
	}{
		{domain.ErrValidation, "VALIDATION_ERROR"},
		{domain.ErrRecipientUnknown, "RECIPIENT_UNKNOWN"},
		{domain.ErrStorage, "STORAGE_ERROR"},
	}

	for _, tc := range cases {
		relay := &fakeRelay{err: tc.err}
		c := NewClient(hub, relay, nil, uuid.New(), zap.NewNop())

		c.handleEvent(mustEvent(t, EventTypeSendMessage, SendMessagePayload{
			SenderID:   uuid.New(),
			ReceiverID: uuid.New(),
			Content:    "Hello",
		}))

		evt := recvEvent(t, c)
		req.Equal(EventTypeSendAck, evt.Type)

		var ack SendAckPayload
		req.NoError(json.Unmarshal(evt.Payload, &ack))
		req.False(ack.OK)
		req.Equal(tc.code, ack.Code)
		req.Nil(ack.MessageID)
	}
}

func TestTypingDispatch(t *testing.T) {
	req := require.New(t)
	hub := NewHub(zap.NewNop())
	relay := &fakeRelay{}
	c := NewClient(hub, relay, nil, uuid.New(), zap.NewNop())

	p := TypingPayload{SenderID: uuid.New(), ReceiverID: uuid.New()}
	c.handleEvent(mustEvent(t, EventTypeTyping, p))
	c.handleEvent(mustEvent(t, EventTypeStopTyping, p))

	req.Equal([]bool{true, false}, relay.typings)
}

func TestJoinRoomDispatch(t *testing.T) {
	req := require.New(t)
	hub := NewHub(zap.NewNop())
	c := NewClient(hub, &fakeRelay{}, nil, uuid.New(), zap.NewNop())
	hub.Register(c)
	drain(c)

	c.handleEvent(mustEvent(t, EventTypeJoinRoom, JoinRoomPayload{RoomID: "product-7"}))

	evt, err := NewEvent(EventTypeUserTyping, UserTypingPayload{SenderID: uuid.New()})
	req.NoError(err)
	hub.BroadcastToRoom("product-7", evt)
	req.Equal(EventTypeUserTyping, recvEvent(t, c).Type)
}

func TestUnknownEventGetsErrorResponse(t *testing.T) {
	req := require.New(t)
	hub := NewHub(zap.NewNop())
	c := NewClient(hub, &fakeRelay{}, nil, uuid.New(), zap.NewNop())

	c.handleEvent(&Event{Type: "teleport"})

	evt := recvEvent(t, c)
	req.Equal(EventTypeError, evt.Type)

	var p ErrorPayload
	req.NoError(json.Unmarshal(evt.Payload, &p))
	req.Equal("UNKNOWN_EVENT", p.Code)
}

func TestPingPong(t *testing.T) {
	req := require.New(t)
	hub := NewHub(zap.NewNop())
	c := NewClient(hub, &fakeRelay{}, nil, uuid.New(), zap.NewNop())

	c.handleEvent(&Event{Type: EventTypePing})
	req.Equal(EventTypePong, recvEvent(t, c).Type)
}

package ws

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(hub *Hub, userID uuid.UUID) *Client {
	// No conn and no relay: pumps are never started in these tests, the
	// send channel stands in for the wire.
	return NewClient(hub, nil, nil, userID, zap.NewNop())
}

func recvEvent(t *testing.T, c *Client) *Event {
	t.Helper()
	select {
	case data := <-c.send:
		var evt Event
		require.NoError(t, json.Unmarshal(data, &evt))
		return &evt
	default:
		t.Fatal("expected an event on the send channel")
		return nil
	}
}

func drain(c *Client) {
	for {
		select {
		case <-c.send:
		default:
			return
		}
	}
}

func TestPresenceSurvivesUntilLastConnectionCloses(t *testing.T) {
	req := require.New(t)
	hub := NewHub(zap.NewNop())
	userID := uuid.New()

	c1 := newTestClient(hub, userID)
	c2 := newTestClient(hub, userID)

	hub.Register(c1)
	hub.Register(c2)
	req.Contains(hub.OnlineUserIDs(), userID)
	req.Len(hub.ClientsFor(userID), 2)

	hub.Unregister(c1)
	req.Contains(hub.OnlineUserIDs(), userID, "user stays online while a tab remains")
	req.Len(hub.ClientsFor(userID), 1)

	hub.Unregister(c2)
	req.NotContains(hub.OnlineUserIDs(), userID)
	req.Empty(hub.ClientsFor(userID))
}

func TestUnregisterIsIdempotent(t *testing.T) {
	req := require.New(t)
	hub := NewHub(zap.NewNop())
	c := newTestClient(hub, uuid.New())

	hub.Register(c)
	hub.Unregister(c)
	hub.Unregister(c)

	req.Empty(hub.OnlineUserIDs())
}

func TestSendToUserReachesEveryTab(t *testing.T) {
	req := require.New(t)
	hub := NewHub(zap.NewNop())
	userID := uuid.New()

	c1 := newTestClient(hub, userID)
	c2 := newTestClient(hub, userID)
	hub.Register(c1)
	hub.Register(c2)
	drain(c1)
	drain(c2)

	evt, err := NewEvent(EventTypeUserTyping, UserTypingPayload{SenderID: uuid.New()})
	req.NoError(err)
	hub.SendToUser(userID, evt)

	req.Equal(EventTypeUserTyping, recvEvent(t, c1).Type)
	req.Equal(EventTypeUserTyping, recvEvent(t, c2).Type)
}

func TestPresenceChangeBroadcastsSnapshot(t *testing.T) {
	req := require.New(t)
	hub := NewHub(zap.NewNop())

	alice := newTestClient(hub, uuid.New())
	hub.Register(alice)
	drain(alice)

	bob := newTestClient(hub, uuid.New())
	hub.Register(bob)

	evt := recvEvent(t, alice)
	req.Equal(EventTypeOnlineUsers, evt.Type)

	var online []uuid.UUID
	req.NoError(json.Unmarshal(evt.Payload, &online))
	req.ElementsMatch([]uuid.UUID{alice.UserID(), bob.UserID()}, online)

	drain(alice)
	hub.Unregister(bob)

	evt = recvEvent(t, alice)
	req.Equal(EventTypeOnlineUsers, evt.Type)
	req.NoError(json.Unmarshal(evt.Payload, &online))
	req.ElementsMatch([]uuid.UUID{alice.UserID()}, online)
}

func TestRoomBroadcast(t *testing.T) {
	req := require.New(t)
	hub := NewHub(zap.NewNop())

	member := newTestClient(hub, uuid.New())
	bystander := newTestClient(hub, uuid.New())
	hub.Register(member)
	hub.Register(bystander)
	hub.JoinRoom("product-42", member)
	drain(member)
	drain(bystander)

	evt, err := NewEvent(EventTypeUserTyping, UserTypingPayload{SenderID: uuid.New()})
	req.NoError(err)
	hub.BroadcastToRoom("product-42", evt)

	req.Equal(EventTypeUserTyping, recvEvent(t, member).Type)
	select {
	case <-bystander.send:
		t.Fatal("bystander must not receive room traffic")
	default:
	}
}

func TestUnregisterLeavesRooms(t *testing.T) {
	req := require.New(t)
	hub := NewHub(zap.NewNop())

	c := newTestClient(hub, uuid.New())
	hub.Register(c)
	hub.JoinRoom("product-42", c)
	hub.Unregister(c)

	hub.mu.RLock()
	defer hub.mu.RUnlock()
	req.Empty(hub.rooms, "room membership dies with the connection")
}

func TestOnlineUserIDsSorted(t *testing.T) {
	req := require.New(t)
	hub := NewHub(zap.NewNop())

	for i := 0; i < 5; i++ {
		hub.Register(newTestClient(hub, uuid.New()))
	}

	ids := hub.OnlineUserIDs()
	req.Len(ids, 5)
	for i := 1; i < len(ids); i++ {
		req.Less(ids[i-1].String(), ids[i].String())
	}
}

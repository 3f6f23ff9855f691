package ws

import (
	"encoding/json"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Hub is the presence registry: it owns the user→connections map and the
// ad-hoc room memberships. All mutation goes through the single mutex; the
// raw maps are never handed out.
type Hub struct {
	mu sync.RWMutex

	// clients maps userID → live connections. A user with two tabs has
	// two entries in the inner set; the user counts as online until the
	// last one closes.
	clients map[uuid.UUID]map[*Client]struct{}

	// rooms maps a room key to its subscribed connections.
	rooms map[string]map[*Client]struct{}

	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[uuid.UUID]map[*Client]struct{}),
		rooms:   make(map[string]map[*Client]struct{}),
		logger:  logger,
	}
}

// Register marks a connection online. Idempotent per client. Every call
// that changes the online set broadcasts the new snapshot to everyone.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	conns, ok := h.clients[c.userID]
	if !ok {
		conns = make(map[*Client]struct{})
		h.clients[c.userID] = conns
	}
	conns[c] = struct{}{}
	total := len(conns)
	h.mu.Unlock()

	h.logger.Info("ws hub: user connected",
		zap.String("user_id", c.userID.String()),
		zap.Int("connections", total))

	h.broadcastOnlineUsers()
}

// Unregister removes exactly this connection; the user leaves the online
// set only when it was their last one. Safe to call twice for the same
// client (disconnect paths can race).
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	conns, ok := h.clients[c.userID]
	if ok {
		if _, present := conns[c]; !present {
			ok = false
		} else {
			delete(conns, c)
			if len(conns) == 0 {
				delete(h.clients, c.userID)
			}
		}
	}
	for room, members := range h.rooms {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	h.mu.Unlock()

	if !ok {
		return
	}

	c.close()
	h.logger.Info("ws hub: user disconnected", zap.String("user_id", c.userID.String()))
	h.broadcastOnlineUsers()
}

// ClientsFor returns a snapshot of the user's live connections.
func (h *Hub) ClientsFor(userID uuid.UUID) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return lo.Keys(h.clients[userID])
}

// OnlineUserIDs returns a sorted snapshot of every online user.
func (h *Hub) OnlineUserIDs() []uuid.UUID {
	h.mu.RLock()
	ids := lo.Keys(h.clients)
	h.mu.RUnlock()

	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

// SendToUser pushes an event to every connection of a user. A full send
// buffer on one tab never blocks the others; that message is dropped for
// the slow tab only.
func (h *Hub) SendToUser(userID uuid.UUID, event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("ws hub: marshal error", zap.Error(err))
		return
	}
	for _, c := range h.ClientsFor(userID) {
		c.trySend(data)
	}
}

// BroadcastAll pushes an event to every live connection.
func (h *Hub) BroadcastAll(event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("ws hub: marshal error", zap.Error(err))
		return
	}
	h.mu.RLock()
	clients := lo.Flatten(lo.Map(lo.Values(h.clients), func(conns map[*Client]struct{}, _ int) []*Client {
		return lo.Keys(conns)
	}))
	h.mu.RUnlock()

	for _, c := range clients {
		c.trySend(data)
	}
}

// JoinRoom subscribes a connection to an ad-hoc broadcast room (used for
// product-scoped rooms). Membership dies with the connection.
func (h *Hub) JoinRoom(roomID string, c *Client) {
	h.mu.Lock()
	members, ok := h.rooms[roomID]
	if !ok {
		members = make(map[*Client]struct{})
		h.rooms[roomID] = members
	}
	members[c] = struct{}{}
	h.mu.Unlock()

	h.logger.Debug("ws hub: joined room",
		zap.String("user_id", c.userID.String()),
		zap.String("room", roomID))
}

// BroadcastToRoom pushes an event to every member of a room.
func (h *Hub) BroadcastToRoom(roomID string, event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("ws hub: marshal error", zap.Error(err))
		return
	}
	h.mu.RLock()
	members := lo.Keys(h.rooms[roomID])
	h.mu.RUnlock()

	for _, c := range members {
		c.trySend(data)
	}
}

func (h *Hub) broadcastOnlineUsers() {
	evt, err := NewEvent(EventTypeOnlineUsers, h.OnlineUserIDs())
	if err != nil {
		return
	}
	h.BroadcastAll(evt)
}

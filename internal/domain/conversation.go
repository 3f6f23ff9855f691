package domain

import (
	"time"

	"github.com/google/uuid"
)

// Conversation is the durable log of messages between exactly two users.
// Identity is the unordered participant pair: UserLo/UserHi hold the two
// ids in sorted order so lookups are direction-independent. ProductID is
// context recorded on first contact, not part of identity.
type Conversation struct {
	ID        uuid.UUID  `json:"id"`
	UserLo    uuid.UUID  `json:"user_lo"`
	UserHi    uuid.UUID  `json:"user_hi"`
	ProductID *uuid.UUID `json:"product_id,omitempty"`
	LastSeq   int64      `json:"-"`
	CreatedAt time.Time  `json:"created_at"`
}

// Message is immutable once appended. TranslatedContent is what the
// receiver sees; it equals Content when no translation happened or the
// translator failed.
type Message struct {
	ID                uuid.UUID  `json:"id"`
	ConversationID    uuid.UUID  `json:"conversation_id"`
	SenderID          uuid.UUID  `json:"sender_id"`
	ReceiverID        uuid.UUID  `json:"receiver_id"`
	Content           string     `json:"content"`
	TranslatedContent string     `json:"translated_content"`
	ProductID         *uuid.UUID `json:"product_id,omitempty"`
	Seq               int64      `json:"seq"`
	CreatedAt         time.Time  `json:"created_at"`
}

// ChatPartner is a read-model row for the partner list: the other side of
// each conversation a user participates in.
type ChatPartner struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	Language    string    `json:"language"`
}

// CanonicalPair returns the two ids in sorted order, the canonical
// conversation key. Both directions of a pair map to the same key.
func CanonicalPair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if a.String() > b.String() {
		return b, a
	}
	return a, b
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is owned by the account system; the relay only ever reads it.
type User struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	Language    string    `json:"language"` // ISO 639-1, e.g. "en", "fr"
	Role        string    `json:"role"`     // "buyer" | "seller"
	CreatedAt   time.Time `json:"created_at"`
}

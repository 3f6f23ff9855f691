package repository

import (
	"context"

	"github.com/google/uuid"

	"marketchat/internal/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type ConversationRepository interface {
	// FindOrCreate returns the conversation for the unordered {a, b} pair,
	// creating it if absent. Safe under concurrent first-sends from both
	// ends: exactly one conversation ever exists per pair.
	FindOrCreate(ctx context.Context, a, b uuid.UUID, productID *uuid.UUID) (*domain.Conversation, error)

	// AppendMessage durably appends msg to its conversation, assigning a
	// monotonic per-conversation seq (and id/timestamp if unset) before
	// returning.
	AppendMessage(ctx context.Context, msg *domain.Message) error

	// ListMessages returns the full history for the pair in seq order.
	// An empty slice, not an error, when the pair never talked.
	ListMessages(ctx context.Context, a, b uuid.UUID) ([]domain.Message, error)

	// ListPartners returns the distinct counterparties of userID's
	// conversations, newest conversation first.
	ListPartners(ctx context.Context, userID uuid.UUID) ([]domain.ChatPartner, error)
}

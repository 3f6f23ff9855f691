package service

import (
	"context"

	"github.com/google/uuid"

	"marketchat/internal/domain"
	"marketchat/internal/repository"
)

// ConversationService is the read-only projection of the conversation
// store: full history for a pair and the partner list for one user.
type ConversationService struct {
	conversationRepo repository.ConversationRepository
}

func NewConversationService(conversationRepo repository.ConversationRepository) *ConversationService {
	return &ConversationService{conversationRepo: conversationRepo}
}

// History returns every message between the two users in seq order. A pair
// that never talked gets an empty slice, not an error.
func (s *ConversationService) History(ctx context.Context, userID, partnerID uuid.UUID) ([]domain.Message, error) {
	messages, err := s.conversationRepo.ListMessages(ctx, userID, partnerID)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	return messages, nil
}

// Partners returns the distinct users userID has a conversation with.
func (s *ConversationService) Partners(ctx context.Context, userID uuid.UUID) ([]domain.ChatPartner, error) {
	partners, err := s.conversationRepo.ListPartners(ctx, userID)
	if err != nil {
		return nil, err
	}
	if partners == nil {
		partners = []domain.ChatPartner{}
	}
	return partners, nil
}

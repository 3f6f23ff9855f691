package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"marketchat/internal/domain"
	"marketchat/internal/repository"
	"marketchat/internal/translate"
)

// Notifier pushes relay output to live connections.
type Notifier interface {
	DeliverMessage(receiverID uuid.UUID, msg *domain.Message)
	NotifyTyping(receiverID, senderID uuid.UUID, isTyping bool)
}

// RelayService orchestrates a send: validate, resolve languages, translate
// best-effort, persist, then deliver. Persistence is the commit point;
// delivery after it never fails the send.
type RelayService struct {
	userRepo         repository.UserRepository
	conversationRepo repository.ConversationRepository
	translator       translate.Translator
	notifier         Notifier
	translateTimeout time.Duration
	logger           *zap.Logger
}

func NewRelayService(
	userRepo repository.UserRepository,
	conversationRepo repository.ConversationRepository,
	translator translate.Translator,
	translateTimeout time.Duration,
	logger *zap.Logger,
) *RelayService {
	if translateTimeout <= 0 {
		translateTimeout = 5 * time.Second
	}
	return &RelayService{
		userRepo:         userRepo,
		conversationRepo: conversationRepo,
		translator:       translator,
		translateTimeout: translateTimeout,
		logger:           logger,
	}
}

// SetNotifier sets the real-time notifier (optional dependency).
func (s *RelayService) SetNotifier(n Notifier) {
	s.notifier = n
}

type SendRequest struct {
	SenderID   uuid.UUID
	ReceiverID uuid.UUID
	Content    string
	ProductID  *uuid.UUID
}

// HandleSend runs the full send pipeline. The returned message is the
// stored one, seq and timestamp assigned. Errors are the domain taxonomy:
// ErrValidation, ErrRecipientUnknown, ErrStorage. Translation failures are
// absorbed here and never surface as a send failure.
func (s *RelayService) HandleSend(ctx context.Context, req SendRequest) (*domain.Message, error) {
	content := strings.TrimSpace(req.Content)
	if req.SenderID == uuid.Nil || req.ReceiverID == uuid.Nil || content == "" {
		s.logger.Debug("relay: dropping invalid send",
			zap.String("sender_id", req.SenderID.String()),
			zap.String("receiver_id", req.ReceiverID.String()))
		return nil, domain.ErrValidation
	}

	sender, err := s.userRepo.GetByID(ctx, req.SenderID)
	if err != nil {
		return nil, fmt.Errorf("%w: resolving sender: %v", domain.ErrStorage, err)
	}
	receiver, err := s.userRepo.GetByID(ctx, req.ReceiverID)
	if err != nil {
		return nil, fmt.Errorf("%w: resolving receiver: %v", domain.ErrStorage, err)
	}
	if sender == nil || receiver == nil {
		return nil, domain.ErrRecipientUnknown
	}

	translated := s.translateContent(ctx, content, sender, receiver)

	conv, err := s.conversationRepo.FindOrCreate(ctx, req.SenderID, req.ReceiverID, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}

	msg := &domain.Message{
		ID:                uuid.New(),
		ConversationID:    conv.ID,
		SenderID:          req.SenderID,
		ReceiverID:        req.ReceiverID,
		Content:           content,
		TranslatedContent: translated,
		ProductID:         req.ProductID,
		CreatedAt:         time.Now(),
	}

	if err := s.conversationRepo.AppendMessage(ctx, msg); err != nil {
		// Not stored, so nothing is delivered.
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}

	// Stored. Delivery from here on is best effort; an offline receiver
	// pulls the message from history on reconnect.
	if s.notifier != nil {
		s.notifier.DeliverMessage(req.ReceiverID, msg)
	}

	return msg, nil
}

// HandleTyping relays a typing signal straight through, no storage.
func (s *RelayService) HandleTyping(senderID, receiverID uuid.UUID, isTyping bool) {
	if senderID == uuid.Nil || receiverID == uuid.Nil {
		return
	}
	if s.notifier != nil {
		s.notifier.NotifyTyping(receiverID, senderID, isTyping)
	}
}

// translateContent returns the text to show the receiver. Same language
// means no translator call at all; any translator failure or timeout falls
// back to the original content. The result is never empty for non-empty
// input.
func (s *RelayService) translateContent(ctx context.Context, content string, sender, receiver *domain.User) string {
	srcLang := translate.NormalizeLang(sender.Language)
	dstLang := translate.NormalizeLang(receiver.Language)
	if srcLang == dstLang || dstLang == "" {
		return content
	}

	tctx, cancel := context.WithTimeout(ctx, s.translateTimeout)
	defer cancel()

	translated, err := s.translator.Translate(tctx, content, srcLang, dstLang)
	if err != nil || translated == "" {
		if !errors.Is(err, context.Canceled) {
			s.logger.Warn("relay: translation failed, falling back to original",
				zap.String("source", srcLang),
				zap.String("target", dstLang),
				zap.Error(err))
		}
		return content
	}
	return translated
}

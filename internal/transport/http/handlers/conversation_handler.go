package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"marketchat/internal/service"
)

type ConversationHandler struct {
	conversationService *service.ConversationService
	logger              *zap.Logger
}

func NewConversationHandler(conversationService *service.ConversationService, logger *zap.Logger) *ConversationHandler {
	return &ConversationHandler{conversationService: conversationService, logger: logger}
}

// History serves GET /conversation/{userId}/{chatPartnerId}: the ordered
// message log between the two users, empty array when they never talked.
func (h *ConversationHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.PathValue("userId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_USER_ID", "userId must be a valid UUID")
		return
	}
	partnerID, err := uuid.Parse(r.PathValue("chatPartnerId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_USER_ID", "chatPartnerId must be a valid UUID")
		return
	}

	messages, err := h.conversationService.History(r.Context(), userID, partnerID)
	if err != nil {
		h.logger.Error("fetching history", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, messages)
}

// Partners serves GET /conversation/chats/{userId}: the distinct users the
// given user has a conversation with, for the partner list.
func (h *ConversationHandler) Partners(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.PathValue("userId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_USER_ID", "userId must be a valid UUID")
		return
	}

	partners, err := h.conversationService.Partners(r.Context(), userID)
	if err != nil {
		h.logger.Error("fetching chat partners", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, partners)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

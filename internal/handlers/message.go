package handlers

import (
	"encoding/json"
	"net/http"

	"crush-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// MessageHandler handles message-related HTTP requests
type MessageHandler struct {
	messageService *services.MessageService
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(messageService *services.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// SendMessage handles POST /api/messages
func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req services.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	msg, err := h.messageService.Send(r.Context(), req)
	if err != nil {
		log.Error().
			Err(err).
			Str("sender", req.Sender).
			Str("recipient", req.Recipient).
			Msg("Failed to send message")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("message_id", msg.ID).
		Str("sender", msg.Sender).
		Str("recipient", msg.Recipient).
		Msg("Message sent")

	respondJSON(w, http.StatusCreated, msg)
}

// GetThread handles GET /api/messages/{userId}/{otherUserId}.
// Fetching the thread marks the other participant's unread messages as
// read.
func (h *MessageHandler) GetThread(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	otherUserID := chi.URLParam(r, "otherUserId")

	msgs, err := h.messageService.Thread(r.Context(), userID, otherUserID)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("other_user_id", otherUserID).
			Msg("Failed to fetch thread")
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, msgs)
}

// ListConversations handles GET /api/messages/conversations/{userId}
func (h *MessageHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	conversations, err := h.messageService.Conversations(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list conversations")
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, conversations)
}

package handlers

import (
	"encoding/json"
	"net/http"

	"crush-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userService      *services.UserService
	swipeService     *services.SwipeService
	recommendService *services.RecommendService
}

// NewUserHandler creates a new user handler
func NewUserHandler(
	userService *services.UserService,
	swipeService *services.SwipeService,
	recommendService *services.RecommendService,
) *UserHandler {
	return &UserHandler{
		userService:      userService,
		swipeService:     swipeService,
		recommendService: recommendService,
	}
}

// CreateUser handles POST /api/users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req services.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.userService.CreateUser(r.Context(), req)
	if err != nil {
		log.Error().Err(err).Str("email", req.Email).Msg("Failed to create user")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", user.ID).
		Str("email", user.Email).
		Msg("User created")

	respondJSON(w, http.StatusCreated, user)
}

// ListUsers handles GET /api/users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListUsers(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list users")
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, users)
}

// GetUser handles GET /api/users/{userId}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	user, err := h.userService.GetUser(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// UpdateUser handles PUT /api/users/{userId}
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	var patch map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), userID, patch)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to update profile")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Bool("profile_completed", user.ProfileCompleted).
		Msg("Profile updated")

	respondJSON(w, http.StatusOK, user)
}

// SwipeRequest represents the request body for a swipe
type SwipeRequest struct {
	TargetID string `json:"targetId"`
	Action   string `json:"action"`
}

// Swipe handles POST /api/users/{userId}/swipe
func (h *UserHandler) Swipe(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	var req SwipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.TargetID == "" {
		respondError(w, "targetId is required", http.StatusBadRequest)
		return
	}

	result, err := h.swipeService.Swipe(r.Context(), userID, req.TargetID, req.Action)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("target_id", req.TargetID).
			Str("action", req.Action).
			Msg("Swipe failed")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("target_id", req.TargetID).
		Str("action", req.Action).
		Bool("match", result.Match).
		Msg("Swipe recorded")

	respondJSON(w, http.StatusOK, result)
}

// Matches handles GET /api/users/{userId}/matches
func (h *UserHandler) Matches(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	matches, err := h.userService.Matches(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, matches)
}

// Recommendations handles GET /api/users/{userId}/recommendations
func (h *UserHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	recs, err := h.recommendService.Recommend(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to build recommendations")
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, recs)
}

// MarkSecondChanceShown handles PATCH /api/users/{userId}/secondChance/{targetId}
func (h *UserHandler) MarkSecondChanceShown(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	targetID := chi.URLParam(r, "targetId")

	if err := h.recommendService.MarkSecondChanceShown(r.Context(), userID, targetID); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Second chance recorded"})
}

package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nanobio/backend/internal/auth"
	"github.com/nanobio/backend/internal/services"
	"go.uber.org/zap"
)

// FlashcardService is the interface that wraps methods for flashcard session operations
type FlashcardService interface {
	// Start opens a flashcard session over key terms, replacing any prior one.
	Start(ctx context.Context, userID, moduleID string) (*services.FlashcardState, error)
	// State returns the current session view.
	State(userID string) (*services.FlashcardState, error)
	// Flip toggles the current card between term and definition.
	Flip(userID string) (*services.FlashcardState, error)
	// Grade records a self-assessment and advances the deck.
	Grade(ctx context.Context, userID, grade string) (*services.FlashcardState, error)
}

// StartFlashcardsRequest is the request body for opening a flashcard session
type StartFlashcardsRequest struct {
	ModuleID string `json:"moduleId,omitempty"`
}

// GradeRequest is the request body for grading the current flashcard
type GradeRequest struct {
	Grade string `json:"grade"`
}

// FlashcardHandler handles HTTP requests for flashcard session operations
type FlashcardHandler struct {
	BaseHandler
	service FlashcardService
}

// NewFlashcardHandler creates a new flashcard handler
func NewFlashcardHandler(svc FlashcardService, logger *zap.Logger) *FlashcardHandler {
	return &FlashcardHandler{
		service:     svc,
		BaseHandler: BaseHandler{Logger: logger},
	}
}

// RegisterRoutes registers all flashcard handler routes
func (h *FlashcardHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/flashcards", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/", h.Start)
		r.Get("/", h.State)
		r.Post("/flip", h.Flip)
		r.Post("/grade", h.Grade)
	})
}

// Start handles POST /flashcards
// @Summary Start a flashcard session
// @Description Open a flashcard session over all key terms, or one module's terms when moduleId is set
// @Tags flashcards
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body StartFlashcardsRequest false "Optional module filter"
// @Success 200 {object} services.FlashcardState "Session state"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /flashcards [post]
func (h *FlashcardHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}

	var req StartFlashcardsRequest
	if r.ContentLength > 0 {
		if err := h.DecodeJSON(r, &req); err != nil {
			h.RespondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	state, err := h.service.Start(r.Context(), userID, req.ModuleID)
	if err != nil {
		h.respondFlashcardError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, state)
}

// State handles GET /flashcards
// @Summary Get flashcard session state
// @Description Get the current state of the caller's flashcard session
// @Tags flashcards
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} services.FlashcardState "Session state"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "No session"
// @Router /flashcards [get]
func (h *FlashcardHandler) State(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}

	state, err := h.service.State(userID)
	if err != nil {
		h.respondFlashcardError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, state)
}

// Flip handles POST /flashcards/flip
// @Summary Flip the current flashcard
// @Description Toggle the current card between its term and definition side
// @Tags flashcards
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} services.FlashcardState "Session state"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "No session"
// @Failure 409 {object} map[string]string "Deck already finished"
// @Router /flashcards/flip [post]
func (h *FlashcardHandler) Flip(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}

	state, err := h.service.Flip(userID)
	if err != nil {
		h.respondFlashcardError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, state)
}

// Grade handles POST /flashcards/grade
// @Summary Grade the current flashcard
// @Description Record a self-assessment for the current card and advance the deck
// @Tags flashcards
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body GradeRequest true "Grade ('mastered' or 'review')"
// @Success 200 {object} services.FlashcardState "Session state"
// @Failure 400 {object} map[string]string "Invalid grade"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "No session"
// @Failure 409 {object} map[string]string "Deck already finished"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /flashcards/grade [post]
func (h *FlashcardHandler) Grade(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}

	var req GradeRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	state, err := h.service.Grade(r.Context(), userID, req.Grade)
	if err != nil {
		h.respondFlashcardError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, state)
}

// respondFlashcardError maps flashcard session errors to HTTP statuses
func (h *FlashcardHandler) respondFlashcardError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrNoFlashcardSession):
		h.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrInvalidGrade):
		h.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrDeckFinished):
		h.RespondError(w, http.StatusConflict, err.Error())
	default:
		h.Logger.Error("flashcard session operation failed", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "flashcard session operation failed")
	}
}

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

// QuizService is the interface that wraps methods for quiz session operations
type QuizService interface {
	// Start opens or resumes a quiz session over a module's questions.
	Start(ctx context.Context, userID, slug string) (*services.QuizState, error)
	// State returns the current session view.
	State(ctx context.Context, userID, slug string) (*services.QuizState, error)
	// Select records an option choice for the current question.
	Select(ctx context.Context, userID, slug, option string) (*services.QuizState, error)
	// Verify checks the current selection and reveals the answer.
	Verify(ctx context.Context, userID, slug string) (*services.QuizState, error)
	// Advance records the attempt and moves to the next question or finishes.
	Advance(ctx context.Context, userID, slug string) (*services.QuizState, error)
}

// SelectRequest is the request body for answering a quiz question
type SelectRequest struct {
	Option string `json:"option"`
}

// QuizHandler handles HTTP requests for quiz session operations
type QuizHandler struct {
	BaseHandler
	service QuizService
}

// NewQuizHandler creates a new quiz handler
func NewQuizHandler(svc QuizService, logger *zap.Logger) *QuizHandler {
	return &QuizHandler{
		service:     svc,
		BaseHandler: BaseHandler{Logger: logger},
	}
}

// RegisterRoutes registers all quiz handler routes
func (h *QuizHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/modules/{slug}/quiz", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/", h.Start)
		r.Get("/", h.State)
		r.Post("/select", h.Select)
		r.Post("/verify", h.Verify)
		r.Post("/advance", h.Advance)
	})
}

// Start handles POST /modules/{slug}/quiz
// @Summary Start a quiz session
// @Description Open a quiz session over the module's questions, resuming an unfinished one
// @Tags quiz
// @Produce json
// @Security ApiKeyAuth
// @Param slug path string true "Module slug"
// @Success 200 {object} services.QuizState "Session state"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Module not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /modules/{slug}/quiz [post]
func (h *QuizHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, func(ctx context.Context, userID, slug string) (*services.QuizState, error) {
		return h.service.Start(ctx, userID, slug)
	})
}

// State handles GET /modules/{slug}/quiz
// @Summary Get quiz session state
// @Description Get the current state of the caller's quiz session for this module
// @Tags quiz
// @Produce json
// @Security ApiKeyAuth
// @Param slug path string true "Module slug"
// @Success 200 {object} services.QuizState "Session state"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "No session"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /modules/{slug}/quiz [get]
func (h *QuizHandler) State(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.service.State)
}

// Select handles POST /modules/{slug}/quiz/select
// @Summary Select an answer option
// @Description Record an option choice for the current question; may be changed until verified
// @Tags quiz
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param slug path string true "Module slug"
// @Param request body SelectRequest true "Option label (a-d)"
// @Success 200 {object} services.QuizState "Session state"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "No session"
// @Failure 409 {object} map[string]string "Conflict with session state"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /modules/{slug}/quiz/select [post]
func (h *QuizHandler) Select(w http.ResponseWriter, r *http.Request) {
	var req SelectRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.run(w, r, func(ctx context.Context, userID, slug string) (*services.QuizState, error) {
		return h.service.Select(ctx, userID, slug, req.Option)
	})
}

// Verify handles POST /modules/{slug}/quiz/verify
// @Summary Verify the selected answer
// @Description Check the current selection against the correct answer and reveal it
// @Tags quiz
// @Produce json
// @Security ApiKeyAuth
// @Param slug path string true "Module slug"
// @Success 200 {object} services.QuizState "Session state"
// @Failure 400 {object} map[string]string "No option selected"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "No session"
// @Failure 409 {object} map[string]string "Conflict with session state"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /modules/{slug}/quiz/verify [post]
func (h *QuizHandler) Verify(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.service.Verify)
}

// Advance handles POST /modules/{slug}/quiz/advance
// @Summary Advance the quiz session
// @Description Record the attempt for the verified question and move on, or finish the session
// @Tags quiz
// @Produce json
// @Security ApiKeyAuth
// @Param slug path string true "Module slug"
// @Success 200 {object} services.QuizState "Session state"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "No session"
// @Failure 409 {object} map[string]string "Conflict with session state"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /modules/{slug}/quiz/advance [post]
func (h *QuizHandler) Advance(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.service.Advance)
}

// run executes one session operation and maps its errors to HTTP statuses
func (h *QuizHandler) run(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, userID, slug string) (*services.QuizState, error)) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}

	state, err := op(r.Context(), userID, chi.URLParam(r, "slug"))
	if err != nil {
		h.respondQuizError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, state)
}

// respondQuizError maps quiz session errors to HTTP statuses
func (h *QuizHandler) respondQuizError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrModuleNotFound), errors.Is(err, services.ErrSessionNotFound):
		h.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrInvalidOption), errors.Is(err, services.ErrNoSelection):
		h.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrAlreadyRevealed), errors.Is(err, services.ErrNotRevealed), errors.Is(err, services.ErrSessionFinished):
		h.RespondError(w, http.StatusConflict, err.Error())
	default:
		h.Logger.Error("quiz session operation failed", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "quiz session operation failed")
	}
}

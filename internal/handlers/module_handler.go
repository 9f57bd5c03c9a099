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

// ModuleService is the interface that wraps methods for catalog and lecture operations
type ModuleService interface {
	// Catalog returns every module annotated with the user's progress.
	Catalog(ctx context.Context, userID string) ([]services.CatalogEntry, error)
	// OpenLecture loads a module's content and key terms and records the open.
	OpenLecture(ctx context.Context, userID, slug string) (*services.Lecture, error)
	// MarkComplete marks a module complete outside the quiz flow.
	MarkComplete(ctx context.Context, userID, slug string) error
}

// ModuleHandler handles HTTP requests for catalog and lecture operations
type ModuleHandler struct {
	BaseHandler
	service ModuleService
}

// NewModuleHandler creates a new module handler
func NewModuleHandler(svc ModuleService, logger *zap.Logger) *ModuleHandler {
	return &ModuleHandler{
		service:     svc,
		BaseHandler: BaseHandler{Logger: logger},
	}
}

// RegisterRoutes registers all module handler routes
func (h *ModuleHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/modules", h.GetCatalog)
		r.Get("/modules/{slug}", h.OpenLecture)
		r.Post("/modules/{slug}/complete", h.MarkComplete)
	})
}

// GetCatalog handles GET /modules
// @Summary Get module catalog
// @Description Get every module with the caller's completion state and last score
// @Tags modules
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} services.CatalogEntry "Catalog"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /modules [get]
func (h *ModuleHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}

	entries, err := h.service.Catalog(r.Context(), userID)
	if err != nil {
		h.Logger.Error("failed to load catalog", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "failed to load catalog")
		return
	}

	h.RespondJSON(w, http.StatusOK, entries)
}

// OpenLecture handles GET /modules/{slug}
// @Summary Open a lecture
// @Description Get one module's full content with key terms; records the open for the caller
// @Tags modules
// @Produce json
// @Security ApiKeyAuth
// @Param slug path string true "Module slug"
// @Success 200 {object} services.Lecture "Lecture"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Module not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /modules/{slug} [get]
func (h *ModuleHandler) OpenLecture(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}

	lecture, err := h.service.OpenLecture(r.Context(), userID, chi.URLParam(r, "slug"))
	if err != nil {
		if errors.Is(err, services.ErrModuleNotFound) {
			h.RespondError(w, http.StatusNotFound, err.Error())
			return
		}
		h.Logger.Error("failed to open lecture", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "failed to open lecture")
		return
	}

	h.RespondJSON(w, http.StatusOK, lecture)
}

// MarkComplete handles POST /modules/{slug}/complete
// @Summary Mark a module complete
// @Description Mark a module complete for the caller outside the quiz flow
// @Tags modules
// @Produce json
// @Security ApiKeyAuth
// @Param slug path string true "Module slug"
// @Success 204 "Marked complete"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Module not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /modules/{slug}/complete [post]
func (h *ModuleHandler) MarkComplete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}

	if err := h.service.MarkComplete(r.Context(), userID, chi.URLParam(r, "slug")); err != nil {
		if errors.Is(err, services.ErrModuleNotFound) {
			h.RespondError(w, http.StatusNotFound, err.Error())
			return
		}
		h.Logger.Error("failed to mark module complete", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "failed to mark module complete")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nanobio/backend/internal/auth"
	"github.com/nanobio/backend/internal/models"
	"github.com/nanobio/backend/internal/services"
	"go.uber.org/zap"
)

// AnalyticsService is the interface that wraps methods for progress analytics
type AnalyticsService interface {
	// DomainStats aggregates per-domain completion statistics for the user.
	DomainStats(ctx context.Context, userID string) ([]models.DomainStat, error)
	// DashboardSummary builds the dashboard headline numbers for the user.
	DashboardSummary(ctx context.Context, userID string) (*services.Summary, error)
}

// ProgressionService is the interface that wraps the profile-facing progression methods
type ProgressionService interface {
	// Profile retrieves the user's progression profile.
	Profile(ctx context.Context, userID string) (*models.Profile, error)
	// Accuracy computes the user's lifetime answer accuracy percentage.
	Accuracy(ctx context.Context, userID string) (int, error)
}

// ProfileResponse is the response body for the profile endpoint
type ProfileResponse struct {
	models.Profile
	Accuracy int `json:"accuracy"`
}

// AnalyticsHandler handles HTTP requests for progress analytics and profile reads
type AnalyticsHandler struct {
	BaseHandler
	analytics   AnalyticsService
	progression ProgressionService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analytics AnalyticsService, progression ProgressionService, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analytics:   analytics,
		progression: progression,
		BaseHandler: BaseHandler{Logger: logger},
	}
}

// RegisterRoutes registers all analytics handler routes
func (h *AnalyticsHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/analytics", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/domains", h.DomainStats)
		r.Get("/summary", h.DashboardSummary)
	})
	r.With(authMiddleware).Get("/profile", h.Profile)
}

// DomainStats handles GET /analytics/domains
// @Summary Get per-domain statistics
// @Description Get the user's completion statistics grouped by knowledge domain
// @Tags analytics
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} models.DomainStat "Domain statistics"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /analytics/domains [get]
func (h *AnalyticsHandler) DomainStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}

	stats, err := h.analytics.DomainStats(r.Context(), userID)
	if err != nil {
		h.Logger.Error("failed to aggregate domain statistics", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "failed to aggregate domain statistics")
		return
	}

	h.RespondJSON(w, http.StatusOK, stats)
}

// DashboardSummary handles GET /analytics/summary
// @Summary Get dashboard summary
// @Description Get the user's headline progress numbers for the dashboard
// @Tags analytics
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} services.Summary "Dashboard summary"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Profile not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /analytics/summary [get]
func (h *AnalyticsHandler) DashboardSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}

	summary, err := h.analytics.DashboardSummary(r.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			h.RespondError(w, http.StatusNotFound, err.Error())
			return
		}
		h.Logger.Error("failed to build dashboard summary", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "failed to build dashboard summary")
		return
	}

	h.RespondJSON(w, http.StatusOK, summary)
}

// Profile handles GET /profile
// @Summary Get the current user's profile
// @Description Get the user's progression profile with lifetime answer accuracy
// @Tags profile
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} ProfileResponse "Profile"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Profile not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /profile [get]
func (h *AnalyticsHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}

	profile, err := h.progression.Profile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			h.RespondError(w, http.StatusNotFound, err.Error())
			return
		}
		h.Logger.Error("failed to load profile", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}

	accuracy, err := h.progression.Accuracy(r.Context(), userID)
	if err != nil {
		h.Logger.Warn("failed to compute accuracy", zap.Error(err))
		accuracy = 0
	}

	h.RespondJSON(w, http.StatusOK, ProfileResponse{Profile: *profile, Accuracy: accuracy})
}

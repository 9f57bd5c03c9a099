package services

import (
	"context"
	"fmt"

	"github.com/nanobio/backend/internal/models"
	"go.uber.org/zap"
)

// AnalyticsModuleRepository is the interface for catalog counts needed by the
// analytics service
type AnalyticsModuleRepository interface {
	GetAll(ctx context.Context) ([]models.Module, error)
	CountAll(ctx context.Context) (int, error)
}

// AnalyticsProgressRepository is the interface for progress reads needed by
// the analytics service
type AnalyticsProgressRepository interface {
	GetCompletedModuleIDs(ctx context.Context, userID string) (map[string]bool, error)
	CountCompletedByUser(ctx context.Context, userID string) (int, error)
	GetMostRecent(ctx context.Context, userID string) (*models.RecentModule, error)
}

// AnalyticsProfileSource is the ledger read contract for the dashboard summary
type AnalyticsProfileSource interface {
	Profile(ctx context.Context, userID string) (*models.Profile, error)
	Accuracy(ctx context.Context, userID string) (int, error)
}

// Summary is the dashboard headline view for one user
type Summary struct {
	XP               int                  `json:"xp"`
	Level            int                  `json:"level"`
	Streak           int                  `json:"streak"`
	Accuracy         int                  `json:"accuracy"`
	ModulesTotal     int                  `json:"modulesTotal"`
	ModulesCompleted int                  `json:"modulesCompleted"`
	RecentModule     *models.RecentModule `json:"recentModule,omitempty"`
}

// analyticsService aggregates per-domain and dashboard statistics
type analyticsService struct {
	moduleRepo   AnalyticsModuleRepository
	progressRepo AnalyticsProgressRepository
	profiles     AnalyticsProfileSource
	logger       *zap.Logger
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(moduleRepo AnalyticsModuleRepository, progressRepo AnalyticsProgressRepository, profiles AnalyticsProfileSource, logger *zap.Logger) *analyticsService {
	return &analyticsService{
		moduleRepo:   moduleRepo,
		progressRepo: progressRepo,
		profiles:     profiles,
		logger:       logger,
	}
}

// DomainStats groups the catalog by domain and reports per-domain completion
// for the user, sorted by completion percentage descending
func (s *analyticsService) DomainStats(ctx context.Context, userID string) ([]models.DomainStat, error) {
	catalog, err := s.moduleRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	completed, err := s.progressRepo.GetCompletedModuleIDs(ctx, userID)
	if err != nil {
		// Completion state is an overlay; the domain breakdown still renders.
		s.logger.Warn("failed to load completed modules",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		completed = map[string]bool{}
	}

	return ComputeDomainStats(catalog, completed), nil
}

// DashboardSummary builds the headline numbers for the user's dashboard.
// The profile read is the primary entity; the auxiliary counts and the
// recent-module card degrade to zero values when their reads fail.
func (s *analyticsService) DashboardSummary(ctx context.Context, userID string) (*Summary, error) {
	profile, err := s.profiles.Profile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	summary := &Summary{
		XP:     profile.XP,
		Level:  profile.Level,
		Streak: profile.Streak,
	}

	if accuracy, err := s.profiles.Accuracy(ctx, userID); err != nil {
		s.logger.Warn("failed to compute accuracy", zap.String("user_id", userID), zap.Error(err))
	} else {
		summary.Accuracy = accuracy
	}

	if total, err := s.moduleRepo.CountAll(ctx); err != nil {
		s.logger.Warn("failed to count modules", zap.Error(err))
	} else {
		summary.ModulesTotal = total
	}

	if done, err := s.progressRepo.CountCompletedByUser(ctx, userID); err != nil {
		s.logger.Warn("failed to count completed modules", zap.String("user_id", userID), zap.Error(err))
	} else {
		summary.ModulesCompleted = done
	}

	if recent, err := s.progressRepo.GetMostRecent(ctx, userID); err != nil {
		s.logger.Warn("failed to load recent module", zap.String("user_id", userID), zap.Error(err))
	} else {
		summary.RecentModule = recent
	}

	return summary, nil
}

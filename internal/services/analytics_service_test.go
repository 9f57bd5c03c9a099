package services

import (
	"context"
	"errors"
	"testing"

	"github.com/nanobio/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockAnalyticsModuleRepository is a mock implementation of AnalyticsModuleRepository
type mockAnalyticsModuleRepository struct {
	modules  []models.Module
	count    int
	err      error
	countErr error
}

func (m *mockAnalyticsModuleRepository) GetAll(ctx context.Context) ([]models.Module, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.modules, nil
}

func (m *mockAnalyticsModuleRepository) CountAll(ctx context.Context) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	return m.count, nil
}

// mockAnalyticsProgressRepository is a mock implementation of AnalyticsProgressRepository
type mockAnalyticsProgressRepository struct {
	completedIDs map[string]bool
	completed    int
	recent       *models.RecentModule
	idsErr       error
	countErr     error
	recentErr    error
}

func (m *mockAnalyticsProgressRepository) GetCompletedModuleIDs(ctx context.Context, userID string) (map[string]bool, error) {
	if m.idsErr != nil {
		return nil, m.idsErr
	}
	return m.completedIDs, nil
}

func (m *mockAnalyticsProgressRepository) CountCompletedByUser(ctx context.Context, userID string) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	return m.completed, nil
}

func (m *mockAnalyticsProgressRepository) GetMostRecent(ctx context.Context, userID string) (*models.RecentModule, error) {
	if m.recentErr != nil {
		return nil, m.recentErr
	}
	return m.recent, nil
}

// mockAnalyticsProfileSource is a mock implementation of AnalyticsProfileSource
type mockAnalyticsProfileSource struct {
	profile     *models.Profile
	accuracy    int
	err         error
	accuracyErr error
}

func (m *mockAnalyticsProfileSource) Profile(ctx context.Context, userID string) (*models.Profile, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.profile, nil
}

func (m *mockAnalyticsProfileSource) Accuracy(ctx context.Context, userID string) (int, error) {
	if m.accuracyErr != nil {
		return 0, m.accuracyErr
	}
	return m.accuracy, nil
}

func analyticsCatalog() []models.Module {
	return []models.Module{
		{ID: "mod-1", Title: "Quantum Dots", Domain: "Nanoscience"},
		{ID: "mod-2", Title: "Nanowires", Domain: "Nanoscience"},
		{ID: "mod-3", Title: "CRISPR Basics", Domain: "Biotechnology"},
	}
}

func TestNewAnalyticsService(t *testing.T) {
	moduleRepo := &mockAnalyticsModuleRepository{}
	progressRepo := &mockAnalyticsProgressRepository{}
	profiles := &mockAnalyticsProfileSource{}

	svc := NewAnalyticsService(moduleRepo, progressRepo, profiles, zap.NewNop())

	assert.NotNil(t, svc)
	assert.Equal(t, moduleRepo, svc.moduleRepo)
	assert.Equal(t, progressRepo, svc.progressRepo)
	assert.Equal(t, profiles, svc.profiles)
}

func TestAnalyticsService_DomainStats(t *testing.T) {
	tests := []struct {
		name          string
		moduleRepo    *mockAnalyticsModuleRepository
		progressRepo  *mockAnalyticsProgressRepository
		expectedError bool
		expected      []models.DomainStat
	}{
		{
			name:       "grouped and sorted by completion",
			moduleRepo: &mockAnalyticsModuleRepository{modules: analyticsCatalog()},
			progressRepo: &mockAnalyticsProgressRepository{
				completedIDs: map[string]bool{"mod-3": true, "mod-1": true},
			},
			expected: []models.DomainStat{
				{DomainName: "Biotechnology", Completed: 1, Total: 1, Percentage: 100},
				{DomainName: "Nanoscience", Completed: 1, Total: 2, Percentage: 50},
			},
		},
		{
			name:         "completion read failure degrades to zero completion",
			moduleRepo:   &mockAnalyticsModuleRepository{modules: analyticsCatalog()},
			progressRepo: &mockAnalyticsProgressRepository{idsErr: errors.New("db error")},
			expected: []models.DomainStat{
				{DomainName: "Nanoscience", Completed: 0, Total: 2, Percentage: 0},
				{DomainName: "Biotechnology", Completed: 0, Total: 1, Percentage: 0},
			},
		},
		{
			name:          "catalog read failure",
			moduleRepo:    &mockAnalyticsModuleRepository{err: errors.New("db error")},
			progressRepo:  &mockAnalyticsProgressRepository{},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewAnalyticsService(tt.moduleRepo, tt.progressRepo, &mockAnalyticsProfileSource{}, zap.NewNop())

			stats, err := svc.DomainStats(context.Background(), "user-1")

			if tt.expectedError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, stats)
		})
	}
}

func TestAnalyticsService_DashboardSummary(t *testing.T) {
	profile := &models.Profile{ID: "user-1", XP: 750, Level: 2, Streak: 5}
	recent := &models.RecentModule{Title: "Quantum Dots", Slug: "quantum-dots", Progress: 40}

	t.Run("full summary", func(t *testing.T) {
		svc := NewAnalyticsService(
			&mockAnalyticsModuleRepository{count: 12},
			&mockAnalyticsProgressRepository{completed: 4, recent: recent},
			&mockAnalyticsProfileSource{profile: profile, accuracy: 75},
			zap.NewNop(),
		)

		summary, err := svc.DashboardSummary(context.Background(), "user-1")

		require.NoError(t, err)
		assert.Equal(t, 750, summary.XP)
		assert.Equal(t, 2, summary.Level)
		assert.Equal(t, 5, summary.Streak)
		assert.Equal(t, 75, summary.Accuracy)
		assert.Equal(t, 12, summary.ModulesTotal)
		assert.Equal(t, 4, summary.ModulesCompleted)
		assert.Equal(t, recent, summary.RecentModule)
	})

	t.Run("profile read failure is fatal", func(t *testing.T) {
		svc := NewAnalyticsService(
			&mockAnalyticsModuleRepository{},
			&mockAnalyticsProgressRepository{},
			&mockAnalyticsProfileSource{err: errors.New("db error")},
			zap.NewNop(),
		)

		_, err := svc.DashboardSummary(context.Background(), "user-1")

		assert.ErrorContains(t, err, "failed to load profile")
	})

	t.Run("auxiliary failures degrade to zero values", func(t *testing.T) {
		svc := NewAnalyticsService(
			&mockAnalyticsModuleRepository{countErr: errors.New("db error")},
			&mockAnalyticsProgressRepository{countErr: errors.New("db error"), recentErr: errors.New("db error")},
			&mockAnalyticsProfileSource{profile: profile, accuracyErr: errors.New("db error")},
			zap.NewNop(),
		)

		summary, err := svc.DashboardSummary(context.Background(), "user-1")

		require.NoError(t, err)
		assert.Equal(t, 750, summary.XP)
		assert.Equal(t, 0, summary.Accuracy)
		assert.Equal(t, 0, summary.ModulesTotal)
		assert.Equal(t, 0, summary.ModulesCompleted)
		assert.Nil(t, summary.RecentModule)
	})

	t.Run("no recent module yet", func(t *testing.T) {
		svc := NewAnalyticsService(
			&mockAnalyticsModuleRepository{count: 12},
			&mockAnalyticsProgressRepository{},
			&mockAnalyticsProfileSource{profile: profile},
			zap.NewNop(),
		)

		summary, err := svc.DashboardSummary(context.Background(), "user-1")

		require.NoError(t, err)
		assert.Nil(t, summary.RecentModule)
	})
}

package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nanobio/backend/internal/models"
	"go.uber.org/zap"
)

// Common progression errors
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrNegativeAward   = errors.New("award amount must be non-negative")
)

// ProgressionProfileRepository is the interface that wraps methods for Profile table data access
type ProgressionProfileRepository interface {
	// GetByID retrieves a profile by user ID.
	//
	// "userID" parameter is used to identify the user.
	// If no profile exists, "nil" will be returned without an error.
	// If some error occurs during data retrieval, the error will be returned.
	GetByID(ctx context.Context, userID string) (*models.Profile, error)
	// UpdateProgression writes the progression state (xp, level, streak, last activity).
	//
	// If some error occurs during the update, the error will be returned.
	UpdateProgression(ctx context.Context, userID string, xp, level, streak int, lastActivity time.Time) error
}

// ProgressionAttemptRepository is the interface for quiz attempt history access
// needed by the accuracy metric
type ProgressionAttemptRepository interface {
	// Counts returns the total and correct attempt counts for a user.
	//
	// If some error occurs during data retrieval, the error will be returned.
	Counts(ctx context.Context, userID string) (total int, correct int, err error)
}

// ProfileFeed is the change-notification channel profiles are published on
// after each ledger write
type ProfileFeed interface {
	// Publish broadcasts a post-write profile snapshot.
	//
	// If some error occurs during publishing, the error will be returned.
	Publish(ctx context.Context, profile *models.Profile) error
}

// progressionService owns the experience/level/streak ledger.
// It keeps an in-memory view of each profile that is refreshed by local awards
// and replaced unconditionally by remote change notifications.
type progressionService struct {
	profileRepo ProgressionProfileRepository
	attemptRepo ProgressionAttemptRepository
	feed        ProfileFeed
	logger      *zap.Logger

	mu    sync.RWMutex
	cache map[string]models.Profile

	now func() time.Time
}

// NewProgressionService creates a new progression ledger service.
// The feed is optional; a nil feed disables change publishing.
func NewProgressionService(profileRepo ProgressionProfileRepository, attemptRepo ProgressionAttemptRepository, feed ProfileFeed, logger *zap.Logger) *progressionService {
	return &progressionService{
		profileRepo: profileRepo,
		attemptRepo: attemptRepo,
		feed:        feed,
		logger:      logger,
		cache:       make(map[string]models.Profile),
		now:         time.Now,
	}
}

// AwardExperience adds a non-negative amount of experience to a user's ledger.
// Level is recomputed from the new total and can never decrease; the streak
// counts consecutive qualifying days (same day keeps it, the next day extends
// it, a gap restarts it at 1). The updated profile is returned, cached, and
// published on the change feed.
func (s *progressionService) AwardExperience(ctx context.Context, userID string, amount int) (*models.Profile, error) {
	if amount < 0 {
		return nil, ErrNegativeAward
	}

	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}

	now := s.now().UTC()
	today := now.Truncate(24 * time.Hour)

	profile.XP += amount
	if level := LevelForXP(profile.XP); level > profile.Level {
		profile.Level = level
	}
	profile.Streak = nextStreak(profile.Streak, profile.LastActivity, today)
	profile.LastActivity = &today

	if err := s.profileRepo.UpdateProgression(ctx, userID, profile.XP, profile.Level, profile.Streak, today); err != nil {
		return nil, fmt.Errorf("failed to store progression: %w", err)
	}

	s.mu.Lock()
	s.cache[userID] = *profile
	s.mu.Unlock()

	if s.feed != nil {
		if err := s.feed.Publish(ctx, profile); err != nil {
			// The store is already updated; a lost notification only delays
			// convergence of other views, so the award still succeeds.
			s.logger.Warn("failed to publish profile change", zap.String("user_id", userID), zap.Error(err))
		}
	}

	return profile, nil
}

// Profile retrieves the user's profile. The in-memory view is served when one
// is held, so reads observe local awards and remote change notifications
// without a store round trip; a miss falls back to the store and primes the
// view.
func (s *progressionService) Profile(ctx context.Context, userID string) (*models.Profile, error) {
	if cached, ok := s.CachedProfile(userID); ok {
		return cached, nil
	}

	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}

	s.mu.Lock()
	s.cache[userID] = *profile
	s.mu.Unlock()

	return profile, nil
}

// CachedProfile returns the in-memory view of a profile, if one is held
func (s *progressionService) CachedProfile(userID string) (*models.Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile, ok := s.cache[userID]
	if !ok {
		return nil, false
	}
	return &profile, true
}

// Invalidate drops the in-memory view of a profile. The next read falls back
// to the store. Used after writes that bypass the ledger, such as identity
// updates.
func (s *progressionService) Invalidate(userID string) {
	s.mu.Lock()
	delete(s.cache, userID)
	s.mu.Unlock()
}

// ApplyRemote replaces the in-memory view with a notified profile state.
// The authoritative store already holds this state, so last write wins and
// no field-level merging is attempted.
func (s *progressionService) ApplyRemote(profile *models.Profile) {
	if profile == nil || profile.ID == "" {
		return
	}

	s.mu.Lock()
	s.cache[profile.ID] = *profile
	s.mu.Unlock()
}

// Accuracy computes round-half-up percentage of correct attempts over the
// user's full quiz history, 0 when no attempts exist
func (s *progressionService) Accuracy(ctx context.Context, userID string) (int, error) {
	total, correct, err := s.attemptRepo.Counts(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to load attempt counts: %w", err)
	}

	return Percent(correct, total), nil
}

// nextStreak applies the consecutive-day rule to a streak counter
func nextStreak(current int, lastActivity *time.Time, today time.Time) int {
	if lastActivity == nil {
		return 1
	}

	last := lastActivity.UTC().Truncate(24 * time.Hour)
	switch {
	case last.Equal(today):
		if current == 0 {
			return 1
		}
		return current
	case last.Equal(today.AddDate(0, 0, -1)):
		return current + 1
	default:
		return 1
	}
}

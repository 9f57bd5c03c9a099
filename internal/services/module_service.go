package services

import (
	"context"
	"fmt"

	"github.com/nanobio/backend/internal/models"
	"go.uber.org/zap"
)

// CatalogModuleRepository is the interface for catalog data access needed by
// the module service
type CatalogModuleRepository interface {
	// GetAll retrieves the full module catalog without lecture content.
	//
	// If some error occurs during data retrieval, the error will be returned.
	GetAll(ctx context.Context) ([]models.Module, error)
	// GetBySlug retrieves one module with its lecture content, returning
	// nil when no module matches the slug.
	//
	// Please reference GetAll method for more information about error values.
	GetBySlug(ctx context.Context, slug string) (*models.Module, error)
}

// CatalogProgressRepository is the interface for progress data access needed
// by the module service
type CatalogProgressRepository interface {
	GetByUserID(ctx context.Context, userID string) ([]models.ModuleProgress, error)
	TouchLastOpened(ctx context.Context, userID, moduleID string) error
	MarkCompleted(ctx context.Context, userID, moduleID string) error
}

// LectureTermRepository is the interface for key term lookups on a lecture page
type LectureTermRepository interface {
	GetByModuleID(ctx context.Context, moduleID string) ([]models.KeyTerm, error)
}

// CatalogEntry is one module paired with the requesting user's progress
type CatalogEntry struct {
	models.Module
	Completed bool `json:"completed"`
	Progress  int  `json:"progress"`
	LastScore *int `json:"lastScore,omitempty"`
}

// Lecture is a single module's full content plus its key terms and the
// requesting user's progress
type Lecture struct {
	models.Module
	KeyTerms  []models.KeyTerm `json:"keyTerms"`
	Completed bool             `json:"completed"`
	Progress  int              `json:"progress"`
}

// moduleService serves the catalog and lecture views
type moduleService struct {
	moduleRepo   CatalogModuleRepository
	progressRepo CatalogProgressRepository
	termRepo     LectureTermRepository
	logger       *zap.Logger
}

// NewModuleService creates a new module service
func NewModuleService(moduleRepo CatalogModuleRepository, progressRepo CatalogProgressRepository, termRepo LectureTermRepository, logger *zap.Logger) *moduleService {
	return &moduleService{
		moduleRepo:   moduleRepo,
		progressRepo: progressRepo,
		termRepo:     termRepo,
		logger:       logger,
	}
}

// Catalog returns every module annotated with the user's progress. A failed
// progress read degrades to an unannotated catalog rather than an error.
func (s *moduleService) Catalog(ctx context.Context, userID string) ([]CatalogEntry, error) {
	modules, err := s.moduleRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	progressByModule := s.progressMap(ctx, userID)

	entries := make([]CatalogEntry, 0, len(modules))
	for _, mod := range modules {
		entry := CatalogEntry{Module: mod}
		if p, ok := progressByModule[mod.ID]; ok {
			entry.Completed = p.Completed
			entry.Progress = p.Progress
			entry.LastScore = p.LastScore
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// OpenLecture loads a module's full content and key terms and records the
// open in the user's progress. The last-opened write is part of the
// operation's contract, so its failure is surfaced.
func (s *moduleService) OpenLecture(ctx context.Context, userID, slug string) (*Lecture, error) {
	mod, err := s.moduleRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to load module: %w", err)
	}
	if mod == nil {
		return nil, ErrModuleNotFound
	}

	if err := s.progressRepo.TouchLastOpened(ctx, userID, mod.ID); err != nil {
		return nil, fmt.Errorf("failed to record module open: %w", err)
	}

	lecture := &Lecture{Module: *mod}

	terms, err := s.termRepo.GetByModuleID(ctx, mod.ID)
	if err != nil {
		// Key terms are supplementary on the lecture page.
		s.logger.Warn("failed to load key terms for lecture",
			zap.String("module_id", mod.ID),
			zap.Error(err),
		)
		terms = nil
	}
	lecture.KeyTerms = terms

	if p, ok := s.progressMap(ctx, userID)[mod.ID]; ok {
		lecture.Completed = p.Completed
		lecture.Progress = p.Progress
	}

	return lecture, nil
}

// MarkComplete marks a module complete outside the quiz flow
func (s *moduleService) MarkComplete(ctx context.Context, userID, slug string) error {
	mod, err := s.moduleRepo.GetBySlug(ctx, slug)
	if err != nil {
		return fmt.Errorf("failed to load module: %w", err)
	}
	if mod == nil {
		return ErrModuleNotFound
	}

	if err := s.progressRepo.MarkCompleted(ctx, userID, mod.ID); err != nil {
		return fmt.Errorf("failed to mark module complete: %w", err)
	}

	return nil
}

// progressMap loads the user's progress keyed by module ID, degrading to an
// empty map on failure
func (s *moduleService) progressMap(ctx context.Context, userID string) map[string]models.ModuleProgress {
	progress, err := s.progressRepo.GetByUserID(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to load module progress",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return map[string]models.ModuleProgress{}
	}

	byModule := make(map[string]models.ModuleProgress, len(progress))
	for _, p := range progress {
		byModule[p.ModuleID] = p
	}

	return byModule
}

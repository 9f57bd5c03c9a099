package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nanobio/backend/internal/models"
	"go.uber.org/zap"
)

// Self-grade results for a flashcard
const (
	GradeMastered = "mastered"
	GradeReview   = "review"
)

// Common flashcard session errors
var (
	ErrNoFlashcardSession = errors.New("no active flashcard session")
	ErrDeckFinished       = errors.New("flashcard deck already finished")
	ErrInvalidGrade       = errors.New("grade must be 'mastered' or 'review'")
)

// FlashcardTermRepository is the interface for key term access needed by flashcard sessions
type FlashcardTermRepository interface {
	// GetAll retrieves every key term in the system.
	//
	// If no terms exist, an empty slice will be returned.
	// If some error occurs during data retrieval, the error will be returned.
	GetAll(ctx context.Context) ([]models.KeyTerm, error)
	// GetByModuleID retrieves the key terms linked to one module.
	//
	// Please reference GetAll method for more information about error values.
	GetByModuleID(ctx context.Context, moduleID string) ([]models.KeyTerm, error)
}

// ExperienceLedger is the award contract the flashcard engine calls when a
// deck is exhausted
type ExperienceLedger interface {
	// AwardExperience adds a non-negative amount of experience to a user's ledger.
	//
	// If some error occurs during the award, the error will be returned and
	// no state is changed.
	AwardExperience(ctx context.Context, userID string, amount int) (*models.Profile, error)
}

// FlashcardState is the client-facing view of one flashcard session
type FlashcardState struct {
	DeckSize  int             `json:"deckSize"`
	Index     int             `json:"index"`
	Card      *models.KeyTerm `json:"card,omitempty"`
	Flipped   bool            `json:"flipped"`
	Mastered  int             `json:"mastered"`
	Reviewing int             `json:"reviewing"`
	Remaining int             `json:"remaining"`
	Finished  bool            `json:"finished"`
	NoContent bool            `json:"noContent"`
	AwardedXP int             `json:"awardedXp"`
}

// flashcardSession holds the per-user deck traversal state. Each session
// carries its own lock so one user's in-flight award never blocks another
// user's session.
type flashcardSession struct {
	mu sync.Mutex

	userID string
	deck   []models.KeyTerm

	index     int
	flipped   bool
	mastered  int
	reviewing int
	awarded   bool
}

// flashcardService implements the flashcard session engine. One session per
// user; completing a deck triggers a single experience award.
type flashcardService struct {
	termRepo FlashcardTermRepository
	ledger   ExperienceLedger
	logger   *zap.Logger

	mu       sync.Mutex // guards the sessions map only
	sessions map[string]*flashcardSession
}

// NewFlashcardService creates a new flashcard session service
func NewFlashcardService(termRepo FlashcardTermRepository, ledger ExperienceLedger, logger *zap.Logger) *flashcardService {
	return &flashcardService{
		termRepo: termRepo,
		ledger:   ledger,
		logger:   logger,
		sessions: make(map[string]*flashcardSession),
	}
}

// Start opens a new session over the full deck, or over one module's terms
// when moduleID is non-empty. An empty deck yields an immediate no-content
// terminal state and no award. Starting always replaces any prior session.
func (s *flashcardService) Start(ctx context.Context, userID, moduleID string) (*FlashcardState, error) {
	var deck []models.KeyTerm
	var err error
	if moduleID != "" {
		deck, err = s.termRepo.GetByModuleID(ctx, moduleID)
	} else {
		deck, err = s.termRepo.GetAll(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load key terms: %w", err)
	}

	session := &flashcardSession{
		userID: userID,
		deck:   deck,
	}

	s.mu.Lock()
	s.sessions[userID] = session
	s.mu.Unlock()

	session.mu.Lock()
	defer session.mu.Unlock()
	return s.cardSnapshot(session), nil
}

// State returns the current session view
func (s *flashcardService) State(userID string) (*FlashcardState, error) {
	session, err := s.lookupSession(userID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	return s.cardSnapshot(session), nil
}

// Flip toggles the current card between term and definition
func (s *flashcardService) Flip(userID string) (*FlashcardState, error) {
	session, err := s.lookupSession(userID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.exhausted() {
		return nil, ErrDeckFinished
	}

	session.flipped = !session.flipped
	return s.cardSnapshot(session), nil
}

// Grade records a self-assessment for the current card and advances the
// cursor; the flip state resets for the next card. Grading the last card
// exhausts the deck and triggers the one-time completion award. If that award
// fails, the grade still counts and a repeated Grade call retries only the
// award, so the deck can never be awarded twice nor a grade counted twice.
func (s *flashcardService) Grade(ctx context.Context, userID, grade string) (*FlashcardState, error) {
	if grade != GradeMastered && grade != GradeReview {
		return nil, ErrInvalidGrade
	}

	session, err := s.lookupSession(userID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.exhausted() {
		if len(session.deck) > 0 && !session.awarded {
			// Retry path for a previously failed award.
			if err := s.award(ctx, session); err != nil {
				return nil, err
			}
			return s.cardSnapshot(session), nil
		}
		return nil, ErrDeckFinished
	}

	if grade == GradeMastered {
		session.mastered++
	} else {
		session.reviewing++
	}
	session.index++
	session.flipped = false

	if session.exhausted() && !session.awarded {
		if err := s.award(ctx, session); err != nil {
			return nil, err
		}
	}

	return s.cardSnapshot(session), nil
}

// lookupSession finds the session for a user
func (s *flashcardService) lookupSession(userID string) (*flashcardSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[userID]
	if !ok {
		return nil, ErrNoFlashcardSession
	}
	return session, nil
}

// award performs the one-time deck completion award; callers must hold the
// session lock
func (s *flashcardService) award(ctx context.Context, session *flashcardSession) error {
	if _, err := s.ledger.AwardExperience(ctx, session.userID, DeckCompletionXP); err != nil {
		return fmt.Errorf("failed to award deck completion: %w", err)
	}
	session.awarded = true

	s.logger.Info("flashcard deck completed",
		zap.String("user_id", session.userID),
		zap.Int("deck_size", len(session.deck)),
		zap.Int("mastered", session.mastered),
		zap.Int("reviewing", session.reviewing),
	)

	return nil
}

// exhausted reports whether the cursor has passed the last card
func (f *flashcardSession) exhausted() bool {
	return f.index >= len(f.deck)
}

// cardSnapshot builds the client view of a session; callers must hold the
// session lock
func (s *flashcardService) cardSnapshot(session *flashcardSession) *FlashcardState {
	state := &FlashcardState{
		DeckSize:  len(session.deck),
		Index:     session.index,
		Flipped:   session.flipped,
		Mastered:  session.mastered,
		Reviewing: session.reviewing,
		Remaining: len(session.deck) - session.index,
		Finished:  session.exhausted(),
		NoContent: len(session.deck) == 0,
	}

	if session.awarded {
		state.AwardedXP = DeckCompletionXP
	}
	if !session.exhausted() {
		card := session.deck[session.index]
		state.Card = &card
	}

	return state
}

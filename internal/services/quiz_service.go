package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nanobio/backend/internal/models"
	"go.uber.org/zap"
)

// Common quiz session errors
var (
	ErrModuleNotFound  = errors.New("module not found")
	ErrSessionNotFound = errors.New("no active quiz session")
	ErrNoSelection     = errors.New("no option selected")
	ErrInvalidOption   = errors.New("invalid option label")
	ErrNotRevealed     = errors.New("answer has not been verified")
	ErrAlreadyRevealed = errors.New("answer already verified")
	ErrSessionFinished = errors.New("quiz session already finished")
)

// QuizModuleRepository is the interface for module catalog access needed by quiz sessions
type QuizModuleRepository interface {
	// GetBySlug retrieves one module by slug, "nil" when no module matches.
	//
	// If some error occurs during data retrieval, the error will be returned.
	GetBySlug(ctx context.Context, slug string) (*models.Module, error)
}

// QuizQuestionRepository is the interface for question access needed by quiz sessions
type QuizQuestionRepository interface {
	// GetByTopic retrieves all questions for a topic in ascending difficulty order.
	//
	// If no questions exist, an empty slice will be returned.
	// If some error occurs during data retrieval, the error will be returned.
	GetByTopic(ctx context.Context, topic string) ([]models.Question, error)
}

// QuizAttemptWriter is the interface for appending attempt records
type QuizAttemptWriter interface {
	// Create appends an immutable attempt record.
	//
	// If some error occurs during data insert, the error will be returned.
	Create(ctx context.Context, attempt *models.QuizAttempt) error
}

// QuizProgressRepository is the interface for module progress writes
// performed when a session finishes
type QuizProgressRepository interface {
	// UpsertQuizResult stores a finished session's outcome idempotently.
	//
	// If some error occurs during data upsert, the error will be returned.
	UpsertQuizResult(ctx context.Context, userID, moduleID string, lastScore int, completed bool) error
}

// QuizState is the client-facing view of one quiz session. The correct answer
// and explanation are only populated once the current question is revealed.
type QuizState struct {
	ModuleID      string           `json:"moduleId"`
	ModuleTitle   string           `json:"moduleTitle"`
	Slug          string           `json:"slug"`
	QuestionCount int              `json:"questionCount"`
	Index         int              `json:"index"`
	Question      *models.Question `json:"question,omitempty"`
	Selected      string           `json:"selected,omitempty"`
	Revealed      bool             `json:"revealed"`
	Correct       bool             `json:"correct"`
	CorrectAnswer string           `json:"correctAnswer,omitempty"`
	Explanation   string           `json:"explanation,omitempty"`
	Score         int              `json:"score"`
	Finished      bool             `json:"finished"`
	FinalPercent  int              `json:"finalPercent"`
	Completed     bool             `json:"completed"`
}

// quizSession holds the per-(user, module) state machine. Each session
// carries its own lock so one user's in-flight write never blocks another
// user's session.
type quizSession struct {
	mu sync.Mutex

	userID    string
	module    *models.Module
	questions []models.Question

	index        int
	selected     string
	revealed     bool
	correct      bool
	logged       bool // attempt for the current question already written
	score        int
	finished     bool
	finalPercent int
	completed    bool
}

// quizService implements the quiz session engine. Sessions live in memory,
// one per (user, module); every attempt write completes before the cursor
// advances so the attempt order always matches the question order.
type quizService struct {
	moduleRepo   QuizModuleRepository
	questionRepo QuizQuestionRepository
	attemptRepo  QuizAttemptWriter
	progressRepo QuizProgressRepository
	logger       *zap.Logger

	mu       sync.Mutex // guards the sessions map only
	sessions map[string]*quizSession
}

// NewQuizService creates a new quiz session service
func NewQuizService(
	moduleRepo QuizModuleRepository,
	questionRepo QuizQuestionRepository,
	attemptRepo QuizAttemptWriter,
	progressRepo QuizProgressRepository,
	logger *zap.Logger,
) *quizService {
	return &quizService{
		moduleRepo:   moduleRepo,
		questionRepo: questionRepo,
		attemptRepo:  attemptRepo,
		progressRepo: progressRepo,
		logger:       logger,
		sessions:     make(map[string]*quizSession),
	}
}

// Start loads the module and its questions and opens a session for the user.
// An unfinished session for the same module is resumed instead of restarted.
// A topic with zero questions yields an immediately finished session with a
// zero score; nothing is written for it.
func (s *quizService) Start(ctx context.Context, userID, slug string) (*QuizState, error) {
	module, err := s.moduleRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to load module: %w", err)
	}
	if module == nil {
		return nil, ErrModuleNotFound
	}

	questions, err := s.questionRepo.GetByTopic(ctx, module.Title)
	if err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}

	key := sessionKey(userID, module.ID)

	s.mu.Lock()
	existing, ok := s.sessions[key]
	s.mu.Unlock()

	if ok {
		existing.mu.Lock()
		if !existing.finished {
			defer existing.mu.Unlock()
			return snapshot(existing), nil
		}
		existing.mu.Unlock()
	}

	session := &quizSession{
		userID:    userID,
		module:    module,
		questions: questions,
	}
	if len(questions) == 0 {
		session.finished = true
	}

	s.mu.Lock()
	s.sessions[key] = session
	s.mu.Unlock()

	session.mu.Lock()
	defer session.mu.Unlock()
	return snapshot(session), nil
}

// State returns the current session view
func (s *quizService) State(ctx context.Context, userID, slug string) (*QuizState, error) {
	session, err := s.lookup(ctx, userID, slug)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	return snapshot(session), nil
}

// Select records an option choice for the current question. Re-selecting
// before verification overwrites the prior choice with no side effects.
func (s *quizService) Select(ctx context.Context, userID, slug, option string) (*QuizState, error) {
	if !models.ValidOption(option) {
		return nil, ErrInvalidOption
	}

	session, err := s.lookup(ctx, userID, slug)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.finished {
		return nil, ErrSessionFinished
	}
	if session.revealed {
		return nil, ErrAlreadyRevealed
	}

	session.selected = option
	return snapshot(session), nil
}

// Verify checks the current selection against the correct answer and moves
// the session into the revealed state. The score increments by exactly one
// on a match. Verifying without a selection is rejected locally.
func (s *quizService) Verify(ctx context.Context, userID, slug string) (*QuizState, error) {
	session, err := s.lookup(ctx, userID, slug)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.finished {
		return nil, ErrSessionFinished
	}
	if session.revealed {
		return nil, ErrAlreadyRevealed
	}
	if session.selected == "" {
		return nil, ErrNoSelection
	}

	question := session.questions[session.index]
	session.revealed = true
	session.correct = session.selected == question.CorrectAnswer
	if session.correct {
		session.score++
	}

	return snapshot(session), nil
}

// Advance appends the attempt record for the verified question and moves to
// the next one, or finishes the session after the last question. The cursor
// never moves when a write fails, so a retry repeats the same step; a write
// that already succeeded is not repeated.
func (s *quizService) Advance(ctx context.Context, userID, slug string) (*QuizState, error) {
	session, err := s.lookup(ctx, userID, slug)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.finished {
		// Idempotent replay: the stored result does not change.
		return snapshot(session), nil
	}
	if !session.revealed {
		return nil, ErrNotRevealed
	}

	question := session.questions[session.index]
	if !session.logged {
		attempt := &models.QuizAttempt{
			UserID:         session.userID,
			QuestionID:     question.ID,
			SelectedOption: session.selected,
			IsCorrect:      session.correct,
		}
		if err := s.attemptRepo.Create(ctx, attempt); err != nil {
			return nil, fmt.Errorf("failed to record attempt: %w", err)
		}
		session.logged = true
	}

	if session.index < len(session.questions)-1 {
		session.index++
		session.selected = ""
		session.revealed = false
		session.correct = false
		session.logged = false
		return snapshot(session), nil
	}

	// Last question answered: compute the result and store it before the
	// session is allowed to finish.
	finalPercent := Percent(session.score, len(session.questions))
	completed := finalPercent >= PassThreshold
	if err := s.progressRepo.UpsertQuizResult(ctx, session.userID, session.module.ID, finalPercent, completed); err != nil {
		return nil, fmt.Errorf("failed to store quiz result: %w", err)
	}

	session.finished = true
	session.finalPercent = finalPercent
	session.completed = completed

	s.logger.Info("quiz session finished",
		zap.String("user_id", session.userID),
		zap.String("module_id", session.module.ID),
		zap.Int("score", session.score),
		zap.Int("percent", finalPercent),
		zap.Bool("completed", completed),
	)

	return snapshot(session), nil
}

// lookup finds the session for a user and module slug
func (s *quizService) lookup(ctx context.Context, userID, slug string) (*quizSession, error) {
	module, err := s.moduleRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to load module: %w", err)
	}
	if module == nil {
		return nil, ErrModuleNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionKey(userID, module.ID)]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// sessionKey builds the map key for one (user, module) session
func sessionKey(userID, moduleID string) string {
	return userID + "|" + moduleID
}

// snapshot builds the client view of a session; callers must hold the
// session lock
func snapshot(session *quizSession) *QuizState {
	state := &QuizState{
		ModuleID:      session.module.ID,
		ModuleTitle:   session.module.Title,
		Slug:          session.module.Slug,
		QuestionCount: len(session.questions),
		Index:         session.index,
		Selected:      session.selected,
		Revealed:      session.revealed,
		Correct:       session.revealed && session.correct,
		Score:         session.score,
		Finished:      session.finished,
		FinalPercent:  session.finalPercent,
		Completed:     session.completed,
	}

	if !session.finished && session.index < len(session.questions) {
		question := session.questions[session.index]
		state.Question = &question
		if session.revealed {
			state.CorrectAnswer = question.CorrectAnswer
			state.Explanation = question.Explanation
		}
	}

	return state
}

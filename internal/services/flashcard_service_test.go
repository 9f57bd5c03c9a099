package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nanobio/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockFlashcardTermRepository is a mock implementation of FlashcardTermRepository
type mockFlashcardTermRepository struct {
	terms       []models.KeyTerm
	moduleTerms []models.KeyTerm
	err         error
}

func (m *mockFlashcardTermRepository) GetAll(ctx context.Context) ([]models.KeyTerm, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.terms, nil
}

func (m *mockFlashcardTermRepository) GetByModuleID(ctx context.Context, moduleID string) ([]models.KeyTerm, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.moduleTerms, nil
}

// mockExperienceLedger is a mock implementation of ExperienceLedger
type mockExperienceLedger struct {
	awards []int
	err    error
}

func (m *mockExperienceLedger) AwardExperience(ctx context.Context, userID string, amount int) (*models.Profile, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.awards = append(m.awards, amount)
	return &models.Profile{ID: userID, XP: amount}, nil
}

func testDeck() []models.KeyTerm {
	return []models.KeyTerm{
		{ID: "t1", Term: "Quantum dot", Definition: "Semiconductor nanocrystal"},
		{ID: "t2", Term: "Liposome", Definition: "Spherical lipid vesicle"},
	}
}

func TestNewFlashcardService(t *testing.T) {
	termRepo := &mockFlashcardTermRepository{}
	ledger := &mockExperienceLedger{}

	svc := NewFlashcardService(termRepo, ledger, zap.NewNop())

	assert.NotNil(t, svc)
	assert.Equal(t, termRepo, svc.termRepo)
	assert.Equal(t, ledger, svc.ledger)
}

func TestFlashcardService_Start(t *testing.T) {
	tests := []struct {
		name          string
		moduleID      string
		termRepo      *mockFlashcardTermRepository
		expectedError bool
		expectedSize  int
		expectedNone  bool
	}{
		{
			name:         "full deck",
			termRepo:     &mockFlashcardTermRepository{terms: testDeck()},
			expectedSize: 2,
		},
		{
			name:         "module deck",
			moduleID:     "mod-1",
			termRepo:     &mockFlashcardTermRepository{moduleTerms: testDeck()[:1]},
			expectedSize: 1,
		},
		{
			name:         "empty deck is terminal",
			termRepo:     &mockFlashcardTermRepository{},
			expectedNone: true,
		},
		{
			name:          "repository error",
			termRepo:      &mockFlashcardTermRepository{err: errors.New("db error")},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := &mockExperienceLedger{}
			svc := NewFlashcardService(tt.termRepo, ledger, zap.NewNop())

			state, err := svc.Start(context.Background(), "user-1", tt.moduleID)

			if tt.expectedError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedSize, state.DeckSize)
			assert.Equal(t, tt.expectedNone, state.NoContent)
			assert.Equal(t, tt.expectedNone, state.Finished)
			assert.Empty(t, ledger.awards)
		})
	}
}

func TestFlashcardService_FlipResetsOnAdvance(t *testing.T) {
	svc := NewFlashcardService(&mockFlashcardTermRepository{terms: testDeck()}, &mockExperienceLedger{}, zap.NewNop())
	_, err := svc.Start(context.Background(), "user-1", "")
	require.NoError(t, err)

	state, err := svc.Flip("user-1")
	require.NoError(t, err)
	assert.True(t, state.Flipped)

	state, err = svc.Flip("user-1")
	require.NoError(t, err)
	assert.False(t, state.Flipped)

	_, err = svc.Flip("user-1")
	require.NoError(t, err)
	state, err = svc.Grade(context.Background(), "user-1", GradeMastered)
	require.NoError(t, err)

	assert.Equal(t, 1, state.Index)
	assert.False(t, state.Flipped)
}

func TestFlashcardService_Grade(t *testing.T) {
	ledger := &mockExperienceLedger{}
	svc := NewFlashcardService(&mockFlashcardTermRepository{terms: testDeck()}, ledger, zap.NewNop())
	_, err := svc.Start(context.Background(), "user-1", "")
	require.NoError(t, err)

	_, err = svc.Grade(context.Background(), "user-1", "perfect")
	assert.ErrorIs(t, err, ErrInvalidGrade)

	_, err = svc.Grade(context.Background(), "user-2", GradeMastered)
	assert.ErrorIs(t, err, ErrNoFlashcardSession)

	state, err := svc.Grade(context.Background(), "user-1", GradeMastered)
	require.NoError(t, err)
	assert.Equal(t, 1, state.Mastered)
	assert.Equal(t, 0, state.Reviewing)
	assert.Equal(t, 1, state.Remaining)
	assert.False(t, state.Finished)
	assert.Empty(t, ledger.awards)

	state, err = svc.Grade(context.Background(), "user-1", GradeReview)
	require.NoError(t, err)
	assert.Equal(t, 1, state.Mastered)
	assert.Equal(t, 1, state.Reviewing)
	assert.Equal(t, 0, state.Remaining)
	assert.True(t, state.Finished)
	assert.Equal(t, DeckCompletionXP, state.AwardedXP)
	assert.Equal(t, []int{DeckCompletionXP}, ledger.awards)

	_, err = svc.Grade(context.Background(), "user-1", GradeMastered)
	assert.ErrorIs(t, err, ErrDeckFinished)
	assert.Equal(t, []int{DeckCompletionXP}, ledger.awards)
}

func TestFlashcardService_AwardFailureIsRetried(t *testing.T) {
	ledger := &mockExperienceLedger{err: errors.New("store down")}
	svc := NewFlashcardService(&mockFlashcardTermRepository{terms: testDeck()[:1]}, ledger, zap.NewNop())
	_, err := svc.Start(context.Background(), "user-1", "")
	require.NoError(t, err)

	_, err = svc.Grade(context.Background(), "user-1", GradeMastered)
	assert.ErrorContains(t, err, "failed to award deck completion")

	// The grade was counted; only the award is outstanding.
	state, err := svc.State("user-1")
	require.NoError(t, err)
	assert.True(t, state.Finished)
	assert.Equal(t, 1, state.Mastered)
	assert.Equal(t, 0, state.AwardedXP)

	ledger.err = nil
	state, err = svc.Grade(context.Background(), "user-1", GradeMastered)
	require.NoError(t, err)
	assert.Equal(t, 1, state.Mastered)
	assert.Equal(t, DeckCompletionXP, state.AwardedXP)
	assert.Equal(t, []int{DeckCompletionXP}, ledger.awards)
}

func TestFlashcardService_EmptyDeckNeverAwards(t *testing.T) {
	ledger := &mockExperienceLedger{}
	svc := NewFlashcardService(&mockFlashcardTermRepository{}, ledger, zap.NewNop())
	_, err := svc.Start(context.Background(), "user-1", "")
	require.NoError(t, err)

	_, err = svc.Grade(context.Background(), "user-1", GradeMastered)
	assert.ErrorIs(t, err, ErrDeckFinished)

	_, err = svc.Flip("user-1")
	assert.ErrorIs(t, err, ErrDeckFinished)
	assert.Empty(t, ledger.awards)
}

func TestFlashcardService_StartReplacesSession(t *testing.T) {
	svc := NewFlashcardService(&mockFlashcardTermRepository{terms: testDeck()}, &mockExperienceLedger{}, zap.NewNop())
	_, err := svc.Start(context.Background(), "user-1", "")
	require.NoError(t, err)
	_, err = svc.Grade(context.Background(), "user-1", GradeMastered)
	require.NoError(t, err)

	state, err := svc.Start(context.Background(), "user-1", "")

	require.NoError(t, err)
	assert.Equal(t, 0, state.Index)
	assert.Equal(t, 0, state.Mastered)
}

// stallingExperienceLedger blocks AwardExperience for one user until released
type stallingExperienceLedger struct {
	stallUser string
	entered   chan struct{}
	release   chan struct{}

	mu     sync.Mutex
	awards []int
}

func (m *stallingExperienceLedger) AwardExperience(ctx context.Context, userID string, amount int) (*models.Profile, error) {
	if userID == m.stallUser {
		m.entered <- struct{}{}
		<-m.release
	}
	m.mu.Lock()
	m.awards = append(m.awards, amount)
	m.mu.Unlock()
	return &models.Profile{ID: userID, XP: amount}, nil
}

func TestFlashcardService_SlowAwardDoesNotBlockOtherUsers(t *testing.T) {
	ledger := &stallingExperienceLedger{
		stallUser: "user-a",
		entered:   make(chan struct{}),
		release:   make(chan struct{}),
	}
	svc := NewFlashcardService(&mockFlashcardTermRepository{terms: testDeck()[:1]}, ledger, zap.NewNop())

	for _, user := range []string{"user-a", "user-b"} {
		_, err := svc.Start(context.Background(), user, "")
		require.NoError(t, err)
	}

	aDone := make(chan error, 1)
	go func() {
		_, err := svc.Grade(context.Background(), "user-a", GradeMastered)
		aDone <- err
	}()
	<-ledger.entered

	// user-a's award is still in flight; user-b's session keeps moving
	type gradeResult struct {
		state *FlashcardState
		err   error
	}
	bDone := make(chan gradeResult, 1)
	go func() {
		state, err := svc.Grade(context.Background(), "user-b", GradeReview)
		bDone <- gradeResult{state, err}
	}()

	select {
	case result := <-bDone:
		require.NoError(t, result.err)
		assert.Equal(t, 1, result.state.Reviewing)
	case <-time.After(2 * time.Second):
		t.Fatal("second user's grade blocked behind first user's award")
	}

	close(ledger.release)
	require.NoError(t, <-aDone)
}

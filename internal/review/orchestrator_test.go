package review_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/LeDat98/Drip/internal/flashcard"
	mock_flashcard "github.com/LeDat98/Drip/internal/mocks/flashcard"
	mock_review "github.com/LeDat98/Drip/internal/mocks/review"
	"github.com/LeDat98/Drip/internal/review"
)

func fixedNow() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func newTestOrchestrator(t *testing.T) (*review.Orchestrator, *mock_flashcard.MockRepository, *mock_review.MockPresenter) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := mock_flashcard.NewMockRepository(ctrl)
	presenter := mock_review.NewMockPresenter(ctrl)

	orchestrator := review.NewOrchestrator(repo, presenter, review.DefaultConfig())
	orchestrator.SetNowFunc(fixedNow)
	return orchestrator, repo, presenter
}

func dueCard(id int64, stage int) flashcard.Flashcard {
	now := fixedNow()
	return flashcard.Flashcard{
		ID:         id,
		Term:       fmt.Sprintf("term-%d", id),
		Definition: fmt.Sprintf("definition-%d", id),
		Stage:      stage,
		CreatedAt:  now.Add(-48 * time.Hour),
		NextDueAt:  sql.NullTime{Time: now.Add(-time.Hour), Valid: true},
	}
}

func TestOrchestrator_RunSession_EmptyDueSet(t *testing.T) {
	orchestrator, repo, _ := newTestOrchestrator(t)
	now := fixedNow()
	upcoming := now.Add(25 * time.Minute)

	repo.EXPECT().FindDue(gomock.Any(), 5, now).Return(nil, nil)
	repo.EXPECT().CountDue(gomock.Any(), now).Return(0, nil)
	repo.EXPECT().EarliestUpcoming(gomock.Any(), now).Return(&upcoming, nil)
	// The presenter mock has no expectations: any call would fail the test.

	result, err := orchestrator.RunSession(context.Background())
	require.NoError(t, err)
	assert.False(t, result.HadDueCards)
	assert.Equal(t, 25, result.NextCheckMinutes)
	assert.Zero(t, result.Reviewed)
}

func TestOrchestrator_RunSession_FullPass(t *testing.T) {
	orchestrator, repo, presenter := newTestOrchestrator(t)
	now := fixedNow()
	cards := []flashcard.Flashcard{dueCard(1, 1), dueCard(2, 2), dueCard(3, 3)}

	repo.EXPECT().FindDue(gomock.Any(), 5, now).Return(cards, nil)
	repo.EXPECT().ContextualDefinitions(gomock.Any(), int64(2), 5).
		Return([]string{"definition-a", "definition-b"}, nil)
	repo.EXPECT().ContextualTerms(gomock.Any(), int64(3), 5).
		Return([]string{"term-a", "term-b"}, nil)
	presenter.EXPECT().
		PresentBatch(gomock.Any(), cards, gomock.Any(), []string{"term-a", "term-b"}, []string{"definition-a", "definition-b"}).
		Return(map[int64]flashcard.Outcome{
			1: flashcard.OutcomeCorrect,
			2: flashcard.OutcomeIncorrect,
			3: flashcard.OutcomeTimeout,
		}, nil)

	var applied []flashcard.Flashcard
	repo.EXPECT().ApplyReview(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, card flashcard.Flashcard) error {
			applied = append(applied, card)
			return nil
		}).
		Times(3)
	repo.EXPECT().CountDue(gomock.Any(), now).Return(2, nil)

	result, err := orchestrator.RunSession(context.Background())
	require.NoError(t, err)

	assert.True(t, result.HadDueCards)
	assert.Equal(t, 3, result.Reviewed)
	assert.Equal(t, 1, result.Correct)
	assert.Equal(t, 1, result.Wrong)
	assert.Equal(t, 1, result.Timeouts)
	assert.Equal(t, 5, result.NextCheckMinutes)

	require.Len(t, applied, 3)
	// Correct at stage 1 advances and reschedules one hour out.
	assert.Equal(t, 2, applied[0].Stage)
	assert.Equal(t, now.Add(time.Hour), applied[0].NextDueAt.Time)
	// Incorrect keeps the stage and halves the base interval.
	assert.Equal(t, 2, applied[1].Stage)
	assert.Equal(t, now.Add(time.Hour), applied[1].NextDueAt.Time)
	// Timeout leaves the due time exactly as it was.
	assert.Equal(t, 3, applied[2].Stage)
	assert.Equal(t, cards[2].NextDueAt, applied[2].NextDueAt)
}

func TestOrchestrator_RunSession_PartialAbandonment(t *testing.T) {
	orchestrator, repo, presenter := newTestOrchestrator(t)
	now := fixedNow()
	cards := []flashcard.Flashcard{
		dueCard(1, 1), dueCard(2, 1), dueCard(3, 1), dueCard(4, 1), dueCard(5, 1),
	}

	repo.EXPECT().FindDue(gomock.Any(), 5, now).Return(cards, nil)
	presenter.EXPECT().
		PresentBatch(gomock.Any(), cards, gomock.Any(), gomock.Nil(), gomock.Nil()).
		Return(map[int64]flashcard.Outcome{
			1: flashcard.OutcomeCorrect,
			2: flashcard.OutcomeIncorrect,
		}, nil)

	applied := make(map[int64]flashcard.Flashcard)
	repo.EXPECT().ApplyReview(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, card flashcard.Flashcard) error {
			applied[card.ID] = card
			return nil
		}).
		Times(5)
	repo.EXPECT().CountDue(gomock.Any(), now).Return(3, nil)

	result, err := orchestrator.RunSession(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, result.Timeouts)
	for _, id := range []int64{3, 4, 5} {
		card := applied[id]
		// Abandoned cards keep their prior due time and stage.
		assert.Equal(t, cards[0].NextDueAt, card.NextDueAt, "card %d", id)
		assert.Equal(t, 1, card.Stage, "card %d", id)
		assert.Equal(t, 1, card.ReviewCount, "card %d", id)
	}
}

func TestOrchestrator_RunSession_SecondSessionDeferred(t *testing.T) {
	orchestrator, repo, presenter := newTestOrchestrator(t)
	now := fixedNow()
	cards := []flashcard.Flashcard{dueCard(1, 1)}

	presenterEntered := make(chan struct{})
	releasePresenter := make(chan struct{})

	repo.EXPECT().FindDue(gomock.Any(), 5, now).Return(cards, nil)
	presenter.EXPECT().
		PresentBatch(gomock.Any(), cards, gomock.Any(), gomock.Nil(), gomock.Nil()).
		DoAndReturn(func(context.Context, []flashcard.Flashcard, review.StageTimeouts, []string, []string) (map[int64]flashcard.Outcome, error) {
			close(presenterEntered)
			<-releasePresenter
			return map[int64]flashcard.Outcome{1: flashcard.OutcomeCorrect}, nil
		})
	repo.EXPECT().ApplyReview(gomock.Any(), gomock.Any()).Return(nil)
	repo.EXPECT().CountDue(gomock.Any(), now).Return(1, nil)

	firstDone := make(chan error, 1)
	go func() {
		_, err := orchestrator.RunSession(context.Background())
		firstDone <- err
	}()

	<-presenterEntered
	assert.True(t, orchestrator.InProgress())

	_, err := orchestrator.RunSession(context.Background())
	assert.ErrorIs(t, err, review.ErrSessionInProgress)

	close(releasePresenter)
	require.NoError(t, <-firstDone)
	assert.False(t, orchestrator.InProgress())
}

func TestOrchestrator_RunSession_StorageFailureSkipsCard(t *testing.T) {
	orchestrator, repo, presenter := newTestOrchestrator(t)
	now := fixedNow()
	cards := []flashcard.Flashcard{dueCard(1, 1), dueCard(2, 1)}

	repo.EXPECT().FindDue(gomock.Any(), 5, now).Return(cards, nil)
	presenter.EXPECT().
		PresentBatch(gomock.Any(), cards, gomock.Any(), gomock.Nil(), gomock.Nil()).
		Return(map[int64]flashcard.Outcome{
			1: flashcard.OutcomeCorrect,
			2: flashcard.OutcomeCorrect,
		}, nil)

	// The first card fails twice (initial attempt plus one retry) and is
	// skipped; the second card must still be processed.
	gomock.InOrder(
		repo.EXPECT().ApplyReview(gomock.Any(), gomock.Any()).
			Return(fmt.Errorf("db.ExecContext(update flashcard) > disk I/O error")).
			Times(2),
		repo.EXPECT().ApplyReview(gomock.Any(), gomock.Any()).Return(nil),
	)
	repo.EXPECT().CountDue(gomock.Any(), now).Return(0, nil)
	repo.EXPECT().EarliestUpcoming(gomock.Any(), now).Return(nil, nil)

	result, err := orchestrator.RunSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Reviewed)
	assert.Equal(t, 5, result.NextCheckMinutes)
}

func TestOrchestrator_RunSession_VanishedCardNotRetried(t *testing.T) {
	orchestrator, repo, presenter := newTestOrchestrator(t)
	now := fixedNow()
	cards := []flashcard.Flashcard{dueCard(1, 1)}

	repo.EXPECT().FindDue(gomock.Any(), 5, now).Return(cards, nil)
	presenter.EXPECT().
		PresentBatch(gomock.Any(), cards, gomock.Any(), gomock.Nil(), gomock.Nil()).
		Return(map[int64]flashcard.Outcome{1: flashcard.OutcomeCorrect}, nil)
	repo.EXPECT().ApplyReview(gomock.Any(), gomock.Any()).
		Return(fmt.Errorf("flashcard 1: %w", flashcard.ErrNotFound))
	repo.EXPECT().CountDue(gomock.Any(), now).Return(0, nil)
	repo.EXPECT().EarliestUpcoming(gomock.Any(), now).Return(nil, nil)

	result, err := orchestrator.RunSession(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.Reviewed)
}

func TestOrchestrator_RunSession_PresenterFailure(t *testing.T) {
	orchestrator, repo, presenter := newTestOrchestrator(t)
	now := fixedNow()
	cards := []flashcard.Flashcard{dueCard(1, 1)}

	repo.EXPECT().FindDue(gomock.Any(), 5, now).Return(cards, nil)
	presenter.EXPECT().
		PresentBatch(gomock.Any(), cards, gomock.Any(), gomock.Nil(), gomock.Nil()).
		Return(nil, fmt.Errorf("display unavailable"))

	_, err := orchestrator.RunSession(context.Background())
	assert.Error(t, err)
}

func TestOrchestrator_PostponeSession(t *testing.T) {
	orchestrator, repo, _ := newTestOrchestrator(t)
	now := fixedNow()
	cards := []flashcard.Flashcard{dueCard(1, 2), dueCard(2, 3)}

	repo.EXPECT().FindDue(gomock.Any(), 5, now).Return(cards, nil)

	applied := make(map[int64]flashcard.Flashcard)
	repo.EXPECT().ApplyReview(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, card flashcard.Flashcard) error {
			applied[card.ID] = card
			return nil
		}).
		Times(2)
	repo.EXPECT().CountDue(gomock.Any(), now).Return(2, nil)

	result, err := orchestrator.PostponeSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Cancelled)

	for id, card := range applied {
		assert.Equal(t, 1, card.ReviewCount, "card %d", id)
		assert.Equal(t, cards[0].NextDueAt, card.NextDueAt, "card %d due time must not move", id)
	}
}

func TestOrchestrator_ForceSession(t *testing.T) {
	orchestrator, repo, presenter := newTestOrchestrator(t)
	now := fixedNow()
	cards := []flashcard.Flashcard{dueCard(1, 4)}

	repo.EXPECT().FindTopPriority(gomock.Any(), 5, now).Return(cards, nil)
	presenter.EXPECT().
		PresentBatch(gomock.Any(), cards, gomock.Any(), gomock.Nil(), gomock.Nil()).
		Return(map[int64]flashcard.Outcome{1: flashcard.OutcomeCorrect}, nil)
	repo.EXPECT().ApplyReview(gomock.Any(), gomock.Any()).Return(nil)
	repo.EXPECT().CountDue(gomock.Any(), now).Return(0, nil)
	repo.EXPECT().EarliestUpcoming(gomock.Any(), now).Return(nil, nil)

	result, err := orchestrator.ForceSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Correct)
}

func TestStageTimeouts_Set(t *testing.T) {
	tests := []struct {
		name    string
		stage   int
		timeout time.Duration
		wantErr error
	}{
		{name: "valid update", stage: 2, timeout: 45 * time.Second},
		{name: "stage too low", stage: 0, timeout: 30 * time.Second, wantErr: review.ErrInvalidStage},
		{name: "stage too high", stage: 5, timeout: 30 * time.Second, wantErr: review.ErrInvalidStage},
		{name: "timeout too short", stage: 1, timeout: 500 * time.Millisecond, wantErr: review.ErrInvalidTimeout},
		{name: "timeout too long", stage: 1, timeout: time.Hour, wantErr: review.ErrInvalidTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			timeouts := review.DefaultStageTimeouts()
			previous := timeouts.For(tt.stage)

			err := timeouts.Set(tt.stage, tt.timeout)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				// Rejected updates keep the previous configuration.
				assert.Equal(t, previous, timeouts.For(tt.stage))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.timeout, timeouts.For(tt.stage))
		})
	}
}

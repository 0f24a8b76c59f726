package record

import (
	"context"
	"time"

	"github.com/studyloop/studyloop/internal/spacedrep"
)

//go:generate mockgen -source=repository.go -destination=../mocks/record/mock_repository.go -package=mock_record Repository

// Repository reads historical records and persists review state. All queries
// are scoped to a single learner; courseID 0 means all courses.
type Repository interface {
	FindQuizAttempts(ctx context.Context, learnerID, courseID int64, since time.Time) ([]QuizAttempt, error)
	FindStudySessions(ctx context.Context, learnerID, courseID int64, since time.Time) ([]SessionRecord, error)
	FindFlashcardReviews(ctx context.Context, learnerID, courseID int64, since time.Time) ([]ReviewEvent, error)
	FindLearningProgress(ctx context.Context, learnerID, courseID int64) ([]TopicProgress, error)

	// FindReviewState returns the spaced-repetition state for a card, or
	// (nil, nil) when the card has never been reviewed.
	FindReviewState(ctx context.Context, learnerID, cardID int64) (*spacedrep.ReviewState, error)

	// FindReviewStates returns all review states of the learner ordered by
	// due time.
	FindReviewStates(ctx context.Context, learnerID int64) ([]spacedrep.ReviewState, error)

	// SaveReviewState upserts the state as a single atomic write.
	SaveReviewState(ctx context.Context, learnerID int64, state spacedrep.ReviewState) error
}

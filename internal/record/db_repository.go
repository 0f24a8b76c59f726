package record

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/studyloop/studyloop/internal/spacedrep"
)

// DBRepository implements Repository using MySQL.
type DBRepository struct {
	db *sqlx.DB
}

// NewDBRepository creates a new DBRepository.
func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

// FindQuizAttempts returns quiz attempts for a learner since the given time.
func (r *DBRepository) FindQuizAttempts(ctx context.Context, learnerID, courseID int64, since time.Time) ([]QuizAttempt, error) {
	query := "SELECT * FROM quiz_attempts WHERE learner_id = ? AND started_at >= ?"
	args := []any{learnerID, since}
	if courseID != 0 {
		query += " AND course_id = ?"
		args = append(args, courseID)
	}
	query += " ORDER BY started_at"

	var attempts []QuizAttempt
	if err := r.db.SelectContext(ctx, &attempts, query, args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext(quiz_attempts) > %w", err)
	}
	return attempts, nil
}

// FindStudySessions returns study sessions for a learner since the given time.
func (r *DBRepository) FindStudySessions(ctx context.Context, learnerID, courseID int64, since time.Time) ([]SessionRecord, error) {
	query := "SELECT * FROM study_sessions WHERE learner_id = ? AND scheduled_start >= ?"
	args := []any{learnerID, since}
	if courseID != 0 {
		query += " AND course_id = ?"
		args = append(args, courseID)
	}
	query += " ORDER BY scheduled_start"

	var sessions []SessionRecord
	if err := r.db.SelectContext(ctx, &sessions, query, args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext(study_sessions) > %w", err)
	}
	return sessions, nil
}

// FindFlashcardReviews returns flashcard reviews for a learner since the given time.
func (r *DBRepository) FindFlashcardReviews(ctx context.Context, learnerID, courseID int64, since time.Time) ([]ReviewEvent, error) {
	query := "SELECT * FROM flashcard_reviews WHERE learner_id = ? AND created_at >= ?"
	args := []any{learnerID, since}
	if courseID != 0 {
		query += " AND course_id = ?"
		args = append(args, courseID)
	}
	query += " ORDER BY created_at"

	var reviews []ReviewEvent
	if err := r.db.SelectContext(ctx, &reviews, query, args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext(flashcard_reviews) > %w", err)
	}
	return reviews, nil
}

// FindLearningProgress returns per-topic progress for a learner and course.
func (r *DBRepository) FindLearningProgress(ctx context.Context, learnerID, courseID int64) ([]TopicProgress, error) {
	query := "SELECT * FROM topic_progress WHERE learner_id = ?"
	args := []any{learnerID}
	if courseID != 0 {
		query += " AND course_id = ?"
		args = append(args, courseID)
	}
	query += " ORDER BY topic"

	var progress []TopicProgress
	if err := r.db.SelectContext(ctx, &progress, query, args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext(topic_progress) > %w", err)
	}
	return progress, nil
}

// FindReviewState returns the review state for a card, or nil if the card has
// never been reviewed.
func (r *DBRepository) FindReviewState(ctx context.Context, learnerID, cardID int64) (*spacedrep.ReviewState, error) {
	var state spacedrep.ReviewState
	err := r.db.GetContext(ctx, &state,
		"SELECT card_id, ease_factor, interval_days, repetition_count, next_due_at, last_reviewed_at FROM review_states WHERE learner_id = ? AND card_id = ?",
		learnerID, cardID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(review_states) > %w", err)
	}
	return &state, nil
}

// FindReviewStates returns all review states of a learner, most overdue first.
func (r *DBRepository) FindReviewStates(ctx context.Context, learnerID int64) ([]spacedrep.ReviewState, error) {
	var states []spacedrep.ReviewState
	err := r.db.SelectContext(ctx, &states,
		"SELECT card_id, ease_factor, interval_days, repetition_count, next_due_at, last_reviewed_at FROM review_states WHERE learner_id = ? ORDER BY next_due_at",
		learnerID)
	if err != nil {
		return nil, fmt.Errorf("db.SelectContext(review_states) > %w", err)
	}
	return states, nil
}

// SaveReviewState upserts the review state for a card in one statement.
func (r *DBRepository) SaveReviewState(ctx context.Context, learnerID int64, state spacedrep.ReviewState) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO review_states (learner_id, card_id, ease_factor, interval_days, repetition_count, next_due_at, last_reviewed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			ease_factor = VALUES(ease_factor),
			interval_days = VALUES(interval_days),
			repetition_count = VALUES(repetition_count),
			next_due_at = VALUES(next_due_at),
			last_reviewed_at = VALUES(last_reviewed_at)`,
		learnerID, state.CardID, state.EaseFactor, state.IntervalDays,
		state.RepetitionCount, state.NextDueAt, state.LastReviewedAt)
	if err != nil {
		return fmt.Errorf("db.ExecContext(upsert review_state) > %w", err)
	}
	return nil
}

// Package record provides the historical performance records shared by the
// analytics components, and the repository interface they are read through.
package record

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a referenced learner, course, or card does not
// exist. Absence of history is not an error; absence of the entity is.
var ErrNotFound = errors.New("record not found")

// Study session statuses.
const (
	SessionStatusScheduled = "scheduled"
	SessionStatusCompleted = "completed"
	SessionStatusSkipped   = "skipped"
)

// MasteredLevel is the mastery level at which a topic counts toward learning
// velocity.
const MasteredLevel = 4

// QuizAttempt is one graded quiz result.
type QuizAttempt struct {
	ID         int64     `db:"id"`
	LearnerID  int64     `db:"learner_id"`
	CourseID   int64     `db:"course_id"`
	Score      float64   `db:"score"` // 0..100
	Difficulty string    `db:"difficulty"`
	StartedAt  time.Time `db:"started_at"`
}

// SessionRecord is one study session, scheduled and possibly completed.
type SessionRecord struct {
	ID                 int64      `db:"id"`
	LearnerID          int64      `db:"learner_id"`
	CourseID           int64      `db:"course_id"`
	ScheduledStart     time.Time  `db:"scheduled_start"`
	ScheduledEnd       time.Time  `db:"scheduled_end"`
	ActualStart        *time.Time `db:"actual_start"`
	ActualEnd          *time.Time `db:"actual_end"`
	Status             string     `db:"status"`
	ProductivityRating int        `db:"productivity_rating"` // 1..5, 0 when unrated
}

// ActualMinutes returns the minutes actually studied, or 0 if the session
// never ran.
func (s SessionRecord) ActualMinutes() float64 {
	if s.ActualStart == nil || s.ActualEnd == nil {
		return 0
	}
	return s.ActualEnd.Sub(*s.ActualStart).Minutes()
}

// ReviewEvent is one graded flashcard review.
type ReviewEvent struct {
	ID             int64     `db:"id"`
	LearnerID      int64     `db:"learner_id"`
	CourseID       int64     `db:"course_id"`
	CardID         int64     `db:"card_id"`
	Quality        int       `db:"quality"` // 0..5
	ResponseTimeMs int       `db:"response_time_ms"`
	CreatedAt      time.Time `db:"created_at"`
}

// TopicProgress is the learner's current standing on one course topic.
type TopicProgress struct {
	ID                   int64     `db:"id"`
	LearnerID            int64     `db:"learner_id"`
	CourseID             int64     `db:"course_id"`
	Topic                string    `db:"topic"`
	MasteryLevel         int       `db:"mastery_level"`         // 1..5
	CompletionPercentage float64   `db:"completion_percentage"` // 0..100
	UpdatedAt            time.Time `db:"updated_at"`
}

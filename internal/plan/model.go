// Package plan provides the study plan domain model and its repository.
package plan

import (
	"errors"
	"time"
)

// ErrNotFound is returned when the referenced plan does not exist.
var ErrNotFound = errors.New("plan not found")

// ErrConflict is returned when a conditional write loses a version race.
var ErrConflict = errors.New("plan version conflict")

// Plan statuses. One learner owns exactly one active plan per course;
// generating a new plan demotes the previous active one to paused.
const (
	StatusActive    = "active"
	StatusPaused    = "paused"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Session statuses. Sessions are superseded, never mutated in place, so the
// adaptation history stays auditable.
const (
	SessionScheduled  = "scheduled"
	SessionCompleted  = "completed"
	SessionSkipped    = "skipped"
	SessionSuperseded = "superseded"
)

// Task types and difficulties, which drive the cognitive load estimate.
const (
	TaskReading  = "reading"
	TaskPractice = "practice"
	TaskQuiz     = "quiz"
	TaskProject  = "project"
	TaskReview   = "review"
)

// Override types. An override wins over the next automatic adaptation pass
// for the fields it touches.
const (
	OverrideSchedule        = "schedule"
	OverrideDifficulty      = "difficulty"
	OverrideReviewFrequency = "review_frequency"
)

// Adaptation triggers.
const (
	TriggerScoreDrop     = "score_drop"
	TriggerScoreRise     = "score_rise"
	TriggerLowCompletion = "low_completion"
	TriggerLowVelocity   = "low_velocity"
)

// Task is one unit of work assigned to a session.
type Task struct {
	Topic      string  `json:"topic"`
	Type       string  `json:"type"`
	Difficulty string  `json:"difficulty"`
	Hours      float64 `json:"hours"`
	Optional   bool    `json:"optional,omitempty"`
}

// Session is one scheduled block of study time.
type Session struct {
	ID              int64
	PlanID          int64
	Date            time.Time
	StartHour       int
	DurationMinutes int
	Tasks           []Task
	CognitiveLoad   float64 // 0-100, always derived from Tasks
	Overloaded      bool    // flagged when the load exceeds the daily ceiling
	Status          string
}

// Adaptation is one applied automatic plan change, append-only.
type Adaptation struct {
	ID          int64
	PlanID      int64
	Trigger     string
	Description string

	// Snapshot values the trigger fired on; re-running with the same values
	// must not append a second entry.
	SnapshotScore  float64
	CompletionRate float64
	Velocity       float64

	CreatedAt time.Time
}

// Override is a manual, reason-carrying plan change.
type Override struct {
	ID        int64
	PlanID    int64
	Type      string
	Data      string // JSON payload, shape depends on Type
	Reason    string
	CreatedAt time.Time
}

// StudyPlan is the ordered session schedule plus plan-level parameters.
type StudyPlan struct {
	ID        int64
	LearnerID int64
	CourseID  int64
	Type      string
	Status    string

	DailyHours     float64
	SessionMinutes int
	SessionsPerDay int
	TotalWeeks     int

	// ScoreAtGeneration anchors adaptation triggers; it is advanced to the
	// fresh score whenever an adaptation applies.
	ScoreAtGeneration float64

	// Version guards conditional writes (compare-and-swap).
	Version int64

	CreatedAt time.Time
	UpdatedAt time.Time

	Sessions    []Session
	Adaptations []Adaptation
	Overrides   []Override
}

// ActiveSessions returns the sessions that have not been superseded.
func (p *StudyPlan) ActiveSessions() []Session {
	var active []Session
	for _, s := range p.Sessions {
		if s.Status != SessionSuperseded {
			active = append(active, s)
		}
	}
	return active
}

// LatestAdaptation returns the most recent adaptation entry, or nil.
func (p *StudyPlan) LatestAdaptation() *Adaptation {
	if len(p.Adaptations) == 0 {
		return nil
	}
	return &p.Adaptations[len(p.Adaptations)-1]
}

// OverridesSince returns overrides created after the given time.
func (p *StudyPlan) OverridesSince(t time.Time) []Override {
	var out []Override
	for _, o := range p.Overrides {
		if o.CreatedAt.After(t) {
			out = append(out, o)
		}
	}
	return out
}

// HasOverride reports whether any override of the given type exists.
func (p *StudyPlan) HasOverride(overrideType string) bool {
	for _, o := range p.Overrides {
		if o.Type == overrideType {
			return true
		}
	}
	return false
}

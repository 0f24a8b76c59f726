package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyloop/studyloop/internal/metrics"
	"github.com/studyloop/studyloop/internal/plan"
)

func adaptablePlan() *plan.StudyPlan {
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	sessions := make([]plan.Session, 4)
	for i := range sessions {
		sessions[i] = plan.Session{
			ID:              int64(101 + i),
			PlanID:          11,
			Date:            day.AddDate(0, 0, i),
			StartHour:       9,
			DurationMinutes: 60,
			Tasks: []plan.Task{
				{Topic: "concurrency", Type: plan.TaskPractice, Difficulty: "hard", Hours: 1},
			},
			Status: plan.SessionScheduled,
		}
	}

	return &plan.StudyPlan{
		ID:                11,
		LearnerID:         3,
		CourseID:          7,
		Type:              "balanced",
		Status:            plan.StatusActive,
		DailyHours:        2,
		SessionMinutes:    60,
		SessionsPerDay:    2,
		TotalWeeks:        2,
		ScoreAtGeneration: 75,
		Version:           1,
		CreatedAt:         time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Sessions:          sessions,
	}
}

func healthySnapshot() metrics.PerformanceSnapshot {
	return metrics.PerformanceSnapshot{CompletionRate: 90, LearningVelocity: 2}
}

func TestGenerator_Adapt_ScoreDrop(t *testing.T) {
	g := newTestGenerator()
	p := adaptablePlan()

	applied := g.Adapt(p, 55, healthySnapshot())

	require.Len(t, applied, 1)
	assert.Equal(t, plan.TriggerScoreDrop, applied[0].Trigger)
	assert.Equal(t, 55.0, applied[0].SnapshotScore)
	assert.Equal(t, 90.0, applied[0].CompletionRate)
	assert.Equal(t, 2.0, applied[0].Velocity, "stamped velocity mirrors the snapshot's learning velocity")
	assert.Equal(t, 55.0, p.ScoreAtGeneration)
	assert.Equal(t, 45, p.SessionMinutes)

	active := p.ActiveSessions()
	require.Len(t, active, 4)
	for _, s := range active {
		assert.Zero(t, s.ID, "replacement sessions are new rows")
		assert.Equal(t, 45, s.DurationMinutes)
		require.Len(t, s.Tasks, 1)
		assert.True(t, s.Tasks[0].Optional, "hard tasks become optional")
	}

	var superseded int
	for _, s := range p.Sessions {
		if s.Status == plan.SessionSuperseded {
			superseded++
		}
	}
	assert.Equal(t, 4, superseded)
}

func TestGenerator_Adapt_ScoreRise(t *testing.T) {
	g := newTestGenerator()
	p := adaptablePlan()

	applied := g.Adapt(p, 95, healthySnapshot())

	require.Len(t, applied, 1)
	assert.Equal(t, plan.TriggerScoreRise, applied[0].Trigger)
	assert.Equal(t, 75, p.SessionMinutes)

	active := p.ActiveSessions()
	require.Len(t, active, 4)
	last := active[len(active)-1]
	require.Len(t, last.Tasks, 2)
	assert.Equal(t, "hard", last.Tasks[1].Difficulty)
	assert.True(t, last.Tasks[1].Optional)
}

func TestGenerator_Adapt_LowCompletion(t *testing.T) {
	g := newTestGenerator()
	p := adaptablePlan()
	p.Sessions[0].DurationMinutes = 20 // shrinking hits the floor

	snapshot := healthySnapshot()
	snapshot.CompletionRate = 50

	applied := g.Adapt(p, 75, snapshot)

	require.Len(t, applied, 1)
	assert.Equal(t, plan.TriggerLowCompletion, applied[0].Trigger)

	active := p.ActiveSessions()
	require.Len(t, active, 4)
	assert.Equal(t, 15, active[0].DurationMinutes, "floored at 15 minutes")
	for _, s := range active[1:] {
		assert.Equal(t, 42, s.DurationMinutes)
	}
}

func TestGenerator_Adapt_LowVelocity(t *testing.T) {
	g := newTestGenerator()
	p := adaptablePlan()

	snapshot := healthySnapshot()
	snapshot.LearningVelocity = 0.2

	applied := g.Adapt(p, 75, snapshot)

	require.Len(t, applied, 1)
	assert.Equal(t, plan.TriggerLowVelocity, applied[0].Trigger)

	active := p.ActiveSessions()
	require.Len(t, active, 5, "one review injected after the third session")
	review := active[3]
	require.Len(t, review.Tasks, 1)
	assert.Equal(t, plan.TaskReview, review.Tasks[0].Type)
	assert.Equal(t, active[2].Date, review.Date)
}

func TestGenerator_Adapt_Idempotent(t *testing.T) {
	g := newTestGenerator()
	p := adaptablePlan()

	snapshot := healthySnapshot()
	snapshot.CompletionRate = 50

	first := g.Adapt(p, 75, snapshot)
	require.Len(t, first, 1)
	sessionsAfterFirst := len(p.Sessions)

	second := g.Adapt(p, 75, snapshot)
	assert.Empty(t, second, "same snapshot must not re-trigger")
	assert.Len(t, p.Adaptations, 1)
	assert.Len(t, p.Sessions, sessionsAfterFirst)
}

func TestGenerator_Adapt_OverrideWins(t *testing.T) {
	g := newTestGenerator()
	p := adaptablePlan()
	p.Overrides = []plan.Override{{
		ID:        301,
		PlanID:    11,
		Type:      plan.OverrideDifficulty,
		Data:      `{"delta":-1}`,
		Reason:    "exam week",
		CreatedAt: p.CreatedAt.Add(time.Hour),
	}}

	applied := g.Adapt(p, 55, healthySnapshot())

	assert.Empty(t, applied, "difficulty override blocks the score trigger")
	assert.Equal(t, 60, p.SessionMinutes)
	assert.Equal(t, 75.0, p.ScoreAtGeneration)
}

func TestGenerator_Adapt_HealthyPlanUntouched(t *testing.T) {
	g := newTestGenerator()
	p := adaptablePlan()

	applied := g.Adapt(p, 80, healthySnapshot())

	assert.Empty(t, applied)
	assert.Empty(t, p.Adaptations)
	assert.Len(t, p.ActiveSessions(), 4)
}

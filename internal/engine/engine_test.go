package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mock_plan "github.com/studyloop/studyloop/internal/mocks/plan"
	mock_planner "github.com/studyloop/studyloop/internal/mocks/planner"
	mock_record "github.com/studyloop/studyloop/internal/mocks/record"
	"github.com/studyloop/studyloop/internal/plan"
	"github.com/studyloop/studyloop/internal/planner"
	"github.com/studyloop/studyloop/internal/record"
	"github.com/studyloop/studyloop/internal/spacedrep"
)

var engineNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

type testEngine struct {
	engine  *Engine
	records *mock_record.MockRepository
	plans   *mock_plan.MockRepository
	catalog *mock_planner.MockCatalog
}

func newTestEngine(t *testing.T) testEngine {
	t.Helper()

	ctrl := gomock.NewController(t)
	records := mock_record.NewMockRepository(ctrl)
	plans := mock_plan.NewMockRepository(ctrl)
	catalog := mock_planner.NewMockCatalog(ctrl)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	e := New(records, plans, catalog, logger, Config{})
	e.Now = func() time.Time { return engineNow }
	e.generator.Now = e.Now
	e.predictor.Now = e.Now

	return testEngine{engine: e, records: records, plans: plans, catalog: catalog}
}

// expectEmptyHistory satisfies every aggregator fetch with empty data.
func (te testEngine) expectEmptyHistory() {
	te.records.EXPECT().FindQuizAttempts(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	te.records.EXPECT().FindStudySessions(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	te.records.EXPECT().FindFlashcardReviews(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	te.records.EXPECT().FindLearningProgress(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
}

func engineCourse() planner.Course {
	return planner.Course{
		ID:    7,
		Title: "Go fundamentals",
		Topics: []planner.Topic{
			{Name: "syntax", Type: plan.TaskReading, Difficulty: "easy", Hours: 5},
			{Name: "concurrency", Type: plan.TaskPractice, Difficulty: "hard", Hours: 5},
		},
	}
}

func enginePlan() *plan.StudyPlan {
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
		CreatedAt:         engineNow.AddDate(0, 0, -7),
		Sessions: []plan.Session{
			{
				ID:              101,
				PlanID:          11,
				Date:            engineNow.AddDate(0, 0, 1),
				StartHour:       9,
				DurationMinutes: 60,
				Tasks:           []plan.Task{{Topic: "concurrency", Type: plan.TaskPractice, Difficulty: "hard", Hours: 1}},
				Status:          plan.SessionScheduled,
			},
		},
	}
}

func TestEngine_GeneratePlan(t *testing.T) {
	te := newTestEngine(t)
	te.expectEmptyHistory()

	te.catalog.EXPECT().FindCourse(gomock.Any(), int64(7)).Return(engineCourse(), nil)
	te.plans.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p *plan.StudyPlan) error {
			p.ID = 11
			p.Version = 1
			return nil
		})

	got, err := te.engine.GeneratePlan(context.Background(), 3, 7, "balanced", nil, planner.Preferences{})
	require.NoError(t, err)

	assert.Equal(t, int64(11), got.Plan.ID)
	assert.Equal(t, plan.StatusActive, got.Plan.Status)
	assert.NotEmpty(t, got.Plan.Sessions)
	// Empty history scores zero: struggling parameters and high-priority advice.
	assert.Equal(t, 3, got.Plan.SessionsPerDay)
	assert.NotEmpty(t, got.Recommendations)
}

func TestEngine_GeneratePlan_UnknownCourse(t *testing.T) {
	te := newTestEngine(t)

	te.catalog.EXPECT().FindCourse(gomock.Any(), int64(99)).Return(planner.Course{}, record.ErrNotFound)

	_, err := te.engine.GeneratePlan(context.Background(), 3, 99, "balanced", nil, planner.Preferences{})
	assert.True(t, errors.Is(err, record.ErrNotFound))
}

func TestEngine_AdaptPlan(t *testing.T) {
	t.Run("conflict is retried once with fresh data", func(t *testing.T) {
		te := newTestEngine(t)
		te.expectEmptyHistory()

		// Empty history means a zero snapshot: score collapse, zero
		// completion, and zero velocity all trigger.
		te.plans.EXPECT().Find(gomock.Any(), int64(11)).
			DoAndReturn(func(context.Context, int64) (*plan.StudyPlan, error) {
				return enginePlan(), nil
			}).Times(2)
		gomock.InOrder(
			te.plans.EXPECT().Save(gomock.Any(), gomock.Any()).Return(plan.ErrConflict),
			te.plans.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil),
		)

		got, err := te.engine.AdaptPlan(context.Background(), 11)
		require.NoError(t, err)
		assert.NotEmpty(t, got.Applied)
		assert.NotEmpty(t, got.Plan.Adaptations)
	})

	t.Run("second conflict surfaces to the caller", func(t *testing.T) {
		te := newTestEngine(t)
		te.expectEmptyHistory()

		te.plans.EXPECT().Find(gomock.Any(), int64(11)).
			DoAndReturn(func(context.Context, int64) (*plan.StudyPlan, error) {
				return enginePlan(), nil
			}).Times(2)
		te.plans.EXPECT().Save(gomock.Any(), gomock.Any()).Return(plan.ErrConflict).Times(2)

		_, err := te.engine.AdaptPlan(context.Background(), 11)
		assert.True(t, errors.Is(err, plan.ErrConflict))
	})

	t.Run("nothing to adapt skips the write", func(t *testing.T) {
		te := newTestEngine(t)
		te.expectEmptyHistory()

		p := enginePlan()
		p.ScoreAtGeneration = 0
		p.Adaptations = []plan.Adaptation{{
			Trigger:        plan.TriggerLowCompletion,
			SnapshotScore:  0,
			CompletionRate: 0,
			Velocity:       0,
		}}
		te.plans.EXPECT().Find(gomock.Any(), int64(11)).Return(p, nil)

		got, err := te.engine.AdaptPlan(context.Background(), 11)
		require.NoError(t, err)
		assert.Empty(t, got.Applied)
	})
}

func TestEngine_ApplyOverride(t *testing.T) {
	t.Run("appends a reason-carrying override", func(t *testing.T) {
		te := newTestEngine(t)

		te.plans.EXPECT().Find(gomock.Any(), int64(11)).Return(enginePlan(), nil)
		te.plans.EXPECT().Save(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p *plan.StudyPlan) error {
				require.Len(t, p.Overrides, 1)
				assert.Equal(t, plan.OverrideSchedule, p.Overrides[0].Type)
				assert.Equal(t, "moving to mornings", p.Overrides[0].Reason)
				return nil
			})

		accepted, err := te.engine.ApplyOverride(context.Background(), 11, plan.OverrideSchedule, `{"hour":7}`, "moving to mornings")
		require.NoError(t, err)
		assert.True(t, accepted)
	})

	t.Run("unknown override type is rejected without touching the store", func(t *testing.T) {
		te := newTestEngine(t)

		accepted, err := te.engine.ApplyOverride(context.Background(), 11, "bribery", `{}`, "please")
		require.NoError(t, err)
		assert.False(t, accepted)
	})
}

func TestEngine_AnalyzePerformance_TimeoutFallback(t *testing.T) {
	te := newTestEngine(t)

	// Warm the cache with a successful pass.
	te.records.EXPECT().FindQuizAttempts(gomock.Any(), int64(3), int64(7), gomock.Any()).Return(nil, nil)
	te.records.EXPECT().FindStudySessions(gomock.Any(), int64(3), int64(7), gomock.Any()).Return(nil, nil)
	te.records.EXPECT().FindFlashcardReviews(gomock.Any(), int64(3), int64(7), gomock.Any()).Return(nil, nil)
	te.records.EXPECT().FindLearningProgress(gomock.Any(), int64(3), int64(7)).Return(nil, nil)

	first, err := te.engine.AnalyzePerformance(context.Background(), 3, 7, 30)
	require.NoError(t, err)

	// A timed-out recomputation serves the cached analysis.
	te.records.EXPECT().FindQuizAttempts(gomock.Any(), int64(3), int64(7), gomock.Any()).
		Return(nil, context.DeadlineExceeded)

	second, err := te.engine.AnalyzePerformance(context.Background(), 3, 7, 30)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// Without a cached analysis the timeout propagates.
	te.records.EXPECT().FindQuizAttempts(gomock.Any(), int64(4), int64(7), gomock.Any()).
		Return(nil, context.DeadlineExceeded)

	_, err = te.engine.AnalyzePerformance(context.Background(), 4, 7, 30)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestEngine_PredictCompletion(t *testing.T) {
	te := newTestEngine(t)
	te.expectEmptyHistory()

	te.catalog.EXPECT().FindCourse(gomock.Any(), int64(7)).Return(engineCourse(), nil)

	got, err := te.engine.PredictCompletion(context.Background(), 3, 7, 0)
	require.NoError(t, err)

	// No history: default-anchored prediction with capped confidence.
	assert.Less(t, got.Confidence, 0.3)
	assert.NotNil(t, got.EstimatedCompletion)
}

func TestEngine_ReviewItem(t *testing.T) {
	t.Run("first review starts from the fresh state", func(t *testing.T) {
		te := newTestEngine(t)

		te.records.EXPECT().FindReviewState(gomock.Any(), int64(3), int64(42)).Return(nil, nil)
		te.records.EXPECT().SaveReviewState(gomock.Any(), int64(3), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ int64, state spacedrep.ReviewState) error {
				assert.Equal(t, 1, state.RepetitionCount)
				assert.Equal(t, 1, state.IntervalDays)
				return nil
			})

		got, err := te.engine.ReviewItem(context.Background(), 3, 42, 4)
		require.NoError(t, err)
		assert.Equal(t, int64(42), got.CardID)
		assert.Equal(t, engineNow.AddDate(0, 0, 1), got.NextDueAt)
	})

	t.Run("failed recall resets the interval", func(t *testing.T) {
		te := newTestEngine(t)

		state := spacedrep.ReviewState{
			CardID:          42,
			EaseFactor:      2.5,
			IntervalDays:    6,
			RepetitionCount: 2,
		}
		te.records.EXPECT().FindReviewState(gomock.Any(), int64(3), int64(42)).Return(&state, nil)
		te.records.EXPECT().SaveReviewState(gomock.Any(), int64(3), gomock.Any()).Return(nil)

		got, err := te.engine.ReviewItem(context.Background(), 3, 42, 1)
		require.NoError(t, err)
		assert.Zero(t, got.RepetitionCount)
		assert.Equal(t, 1, got.IntervalDays)
		assert.InDelta(t, 2.3, got.EaseFactor, 0.0001)
	})
}

func TestEngine_DueReviews(t *testing.T) {
	te := newTestEngine(t)

	overdue := spacedrep.ReviewState{CardID: 42, EaseFactor: 2.5, IntervalDays: 6, NextDueAt: engineNow.AddDate(0, 0, -3)}
	dueToday := spacedrep.ReviewState{CardID: 43, EaseFactor: 2.5, IntervalDays: 1, NextDueAt: engineNow.Add(-time.Hour)}
	notDue := spacedrep.ReviewState{CardID: 44, EaseFactor: 2.5, IntervalDays: 6, NextDueAt: engineNow.AddDate(0, 0, 4)}

	te.records.EXPECT().FindReviewStates(gomock.Any(), int64(3)).
		Return([]spacedrep.ReviewState{overdue, dueToday, notDue}, nil)
	te.records.EXPECT().FindFlashcardReviews(gomock.Any(), int64(3), int64(0), gomock.Any()).
		Return([]record.ReviewEvent{
			{CardID: 42, Quality: 5},
			{CardID: 42, Quality: 4},
			{CardID: 43, Quality: 2},
		}, nil)

	got, err := te.engine.DueReviews(context.Background(), 3)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, int64(42), got[0].CardID, "most overdue first")
	assert.Equal(t, int64(43), got[1].CardID)
	assert.InDelta(t, 1.0, got[0].SuccessRate, 0.0001)
	assert.Zero(t, got[1].SuccessRate)
}

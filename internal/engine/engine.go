// Package engine is the facade over the scheduling and analytics pipeline:
// plan generation and adaptation, manual overrides, performance analysis,
// completion prediction, and spaced-repetition reviews.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/avast/retry-go"

	"github.com/studyloop/studyloop/internal/analyzer"
	"github.com/studyloop/studyloop/internal/metrics"
	"github.com/studyloop/studyloop/internal/plan"
	"github.com/studyloop/studyloop/internal/planner"
	"github.com/studyloop/studyloop/internal/predictor"
	"github.com/studyloop/studyloop/internal/record"
	"github.com/studyloop/studyloop/internal/spacedrep"
	"github.com/studyloop/studyloop/internal/timeslot"
)

const (
	DefaultWindowDays    = 30
	DefaultQueryTimeout  = 10 * time.Second
	DefaultTargetMastery = record.MasteredLevel

	// A lost plan write is retried once with fresh data; a second conflict
	// surfaces plan.ErrConflict to the caller.
	planWriteAttempts = 2
)

// Config tunes the engine. Zero values fall back to defaults.
type Config struct {
	WindowDays   int
	QueryTimeout time.Duration
	Tuning       planner.Tuning
	Weights      analyzer.Weights
}

func (c Config) withDefaults() Config {
	if c.WindowDays <= 0 {
		c.WindowDays = DefaultWindowDays
	}
	if c.QueryTimeout <= 0 {
		c.QueryTimeout = DefaultQueryTimeout
	}
	if c.Tuning == (planner.Tuning{}) {
		c.Tuning = planner.DefaultTuning()
	}
	if c.Weights == (analyzer.Weights{}) {
		c.Weights = analyzer.DefaultWeights()
	}
	return c
}

type analysisKey struct {
	learnerID int64
	courseID  int64
}

// Engine wires the pipeline components together. Construct one per process;
// it holds no per-learner state beyond the analysis fallback cache.
type Engine struct {
	records    record.Repository
	plans      plan.Repository
	catalog    planner.Catalog
	aggregator *metrics.Aggregator
	analyzer   *analyzer.Analyzer
	generator  *planner.Generator
	predictor  *predictor.Predictor
	logger     *slog.Logger

	windowDays   int
	queryTimeout time.Duration

	// cached holds the last analysis per learner and course, served when a
	// fresh computation times out.
	mu     sync.Mutex
	cached map[analysisKey]analyzer.AnalysisResult

	// Now is replaceable in tests.
	Now func() time.Time
}

// New creates an Engine.
func New(
	records record.Repository,
	plans plan.Repository,
	catalog planner.Catalog,
	logger *slog.Logger,
	config Config,
) *Engine {
	config = config.withDefaults()

	return &Engine{
		records:      records,
		plans:        plans,
		catalog:      catalog,
		aggregator:   metrics.NewAggregator(records),
		analyzer:     analyzer.New(config.Weights),
		generator:    planner.NewGenerator(timeslot.New(), config.Tuning),
		predictor:    predictor.New(),
		logger:       logger,
		windowDays:   config.WindowDays,
		queryTimeout: config.QueryTimeout,
		cached:       make(map[analysisKey]analyzer.AnalysisResult),
		Now:          time.Now,
	}
}

// GeneratedPlan is the result of GeneratePlan.
type GeneratedPlan struct {
	Plan            *plan.StudyPlan
	Recommendations []analyzer.Recommendation
}

// GeneratePlan analyzes the learner's recent performance, builds a plan over
// the course content, and persists it as the new active plan.
func (e *Engine) GeneratePlan(
	ctx context.Context,
	learnerID, courseID int64,
	planType string,
	targetDate *time.Time,
	prefs planner.Preferences,
) (*GeneratedPlan, error) {
	course, err := e.catalog.FindCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("catalog.FindCourse() > %w", err)
	}

	analysis, err := e.AnalyzePerformance(ctx, learnerID, courseID, e.windowDays)
	if err != nil {
		return nil, err
	}

	history, err := e.records.FindStudySessions(ctx, learnerID, courseID, e.Now().AddDate(0, 0, -e.windowDays))
	if err != nil {
		return nil, fmt.Errorf("records.FindStudySessions() > %w", err)
	}

	p := e.generator.Generate(learnerID, course, planType, targetDate, prefs, analysis.OverallScore, history)
	if err := e.plans.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("plans.Create() > %w", err)
	}

	e.logger.InfoContext(ctx, "study plan generated",
		slog.Int64("plan_id", p.ID),
		slog.Int64("learner_id", learnerID),
		slog.Int64("course_id", courseID),
		slog.Int("sessions", len(p.Sessions)),
		slog.Int("weeks", p.TotalWeeks),
	)

	return &GeneratedPlan{Plan: p, Recommendations: analysis.Recommendations}, nil
}

// AdaptedPlan is the result of AdaptPlan.
type AdaptedPlan struct {
	Plan    *plan.StudyPlan
	Applied []plan.Adaptation
}

// AdaptPlan recomputes the learner's snapshot and applies any triggered plan
// changes. The conditional write is retried once with fresh data on a version
// conflict.
func (e *Engine) AdaptPlan(ctx context.Context, planID int64) (*AdaptedPlan, error) {
	var adapted *AdaptedPlan

	err := retry.Do(
		func() error {
			p, err := e.plans.Find(ctx, planID)
			if err != nil {
				return retry.Unrecoverable(fmt.Errorf("plans.Find() > %w", err))
			}

			snapshot, err := e.aggregator.Aggregate(ctx, p.LearnerID, p.CourseID, e.windowDays)
			if err != nil {
				return retry.Unrecoverable(fmt.Errorf("aggregator.Aggregate() > %w", err))
			}
			analysis, err := e.AnalyzePerformance(ctx, p.LearnerID, p.CourseID, e.windowDays)
			if err != nil {
				return retry.Unrecoverable(err)
			}

			applied := e.generator.Adapt(p, analysis.OverallScore, snapshot)
			if len(applied) == 0 {
				adapted = &AdaptedPlan{Plan: p}
				return nil
			}

			if err := e.plans.Save(ctx, p); err != nil {
				if errors.Is(err, plan.ErrConflict) {
					return err
				}
				return retry.Unrecoverable(fmt.Errorf("plans.Save() > %w", err))
			}

			e.logger.InfoContext(ctx, "study plan adapted",
				slog.Int64("plan_id", p.ID),
				slog.Int("adaptations", len(applied)),
			)
			adapted = &AdaptedPlan{Plan: p, Applied: applied}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(planWriteAttempts),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, err
	}
	return adapted, nil
}

// ApplyOverride records a manual, reason-carrying plan change. An unknown
// override type is rejected, not an error. Overrides win over the next
// automatic adaptation pass for the fields they touch.
func (e *Engine) ApplyOverride(ctx context.Context, planID int64, overrideType, data, reason string) (bool, error) {
	switch overrideType {
	case plan.OverrideSchedule, plan.OverrideDifficulty, plan.OverrideReviewFrequency:
	default:
		e.logger.WarnContext(ctx, "override rejected",
			slog.Int64("plan_id", planID),
			slog.String("override_type", overrideType),
		)
		return false, nil
	}

	err := retry.Do(
		func() error {
			p, err := e.plans.Find(ctx, planID)
			if err != nil {
				return retry.Unrecoverable(fmt.Errorf("plans.Find() > %w", err))
			}

			p.Overrides = append(p.Overrides, plan.Override{
				PlanID: p.ID,
				Type:   overrideType,
				Data:   data,
				Reason: reason,
			})

			if err := e.plans.Save(ctx, p); err != nil {
				if errors.Is(err, plan.ErrConflict) {
					return err
				}
				return retry.Unrecoverable(fmt.Errorf("plans.Save() > %w", err))
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(planWriteAttempts),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return false, err
	}
	return true, nil
}

// AnalyzePerformance aggregates the learner's weekly snapshots and scores
// them. Slow historical queries run under a timeout; on expiry the last
// computed analysis for the same learner and course is served instead when
// one exists.
func (e *Engine) AnalyzePerformance(ctx context.Context, learnerID, courseID int64, windowDays int) (analyzer.AnalysisResult, error) {
	if windowDays <= 0 {
		windowDays = e.windowDays
	}
	weeks := windowDays / 7
	if weeks < 1 {
		weeks = 1
	}

	queryCtx, cancel := context.WithTimeout(ctx, e.queryTimeout)
	defer cancel()

	key := analysisKey{learnerID: learnerID, courseID: courseID}

	series, err := e.aggregator.WeeklySeries(queryCtx, learnerID, courseID, weeks)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			e.mu.Lock()
			cached, ok := e.cached[key]
			e.mu.Unlock()
			if ok {
				e.logger.WarnContext(ctx, "analysis timed out, serving previous snapshot",
					slog.Int64("learner_id", learnerID),
					slog.Int64("course_id", courseID),
				)
				return cached, nil
			}
		}
		return analyzer.AnalysisResult{}, fmt.Errorf("aggregator.WeeklySeries() > %w", err)
	}

	result := e.analyzer.Analyze(series)

	e.mu.Lock()
	e.cached[key] = result
	e.mu.Unlock()

	return result, nil
}

// Snapshot aggregates the learner's records over one window. A non-positive
// window falls back to the configured default.
func (e *Engine) Snapshot(ctx context.Context, learnerID, courseID int64, windowDays int) (metrics.PerformanceSnapshot, error) {
	if windowDays <= 0 {
		windowDays = e.windowDays
	}
	snapshot, err := e.aggregator.Aggregate(ctx, learnerID, courseID, windowDays)
	if err != nil {
		return metrics.PerformanceSnapshot{}, fmt.Errorf("aggregator.Aggregate() > %w", err)
	}
	return snapshot, nil
}

// PredictCompletion estimates when the learner reaches the target mastery
// level on every course topic. A non-positive target falls back to the
// mastered level.
func (e *Engine) PredictCompletion(ctx context.Context, learnerID, courseID int64, targetMastery int) (predictor.Prediction, error) {
	if targetMastery <= 0 {
		targetMastery = DefaultTargetMastery
	}

	course, err := e.catalog.FindCourse(ctx, courseID)
	if err != nil {
		return predictor.Prediction{}, fmt.Errorf("catalog.FindCourse() > %w", err)
	}

	progress, err := e.records.FindLearningProgress(ctx, learnerID, courseID)
	if err != nil {
		return predictor.Prediction{}, fmt.Errorf("records.FindLearningProgress() > %w", err)
	}

	snapshot, err := e.aggregator.Aggregate(ctx, learnerID, courseID, e.windowDays)
	if err != nil {
		return predictor.Prediction{}, fmt.Errorf("aggregator.Aggregate() > %w", err)
	}

	analysis, err := e.AnalyzePerformance(ctx, learnerID, courseID, e.windowDays)
	if err != nil {
		return predictor.Prediction{}, err
	}

	return e.predictor.PredictCompletion(progress, len(course.Topics), targetMastery, snapshot, analysis.Trend), nil
}

// ReviewItem advances a card's spaced-repetition state from a review quality
// grade and persists the result. Unknown cards start from the fresh state;
// out-of-range qualities are clamped, not rejected.
func (e *Engine) ReviewItem(ctx context.Context, learnerID, cardID int64, quality int) (spacedrep.ReviewState, error) {
	state, err := e.records.FindReviewState(ctx, learnerID, cardID)
	if err != nil {
		return spacedrep.ReviewState{}, fmt.Errorf("records.FindReviewState() > %w", err)
	}
	if state == nil {
		fresh := spacedrep.NewReviewState(cardID)
		state = &fresh
	}

	next := spacedrep.Advance(*state, quality, e.Now())
	if err := e.records.SaveReviewState(ctx, learnerID, next); err != nil {
		return spacedrep.ReviewState{}, fmt.Errorf("records.SaveReviewState() > %w", err)
	}
	return next, nil
}

// DueReviews lists the learner's due cards, most urgent first. Success rates
// come from the recent review history; cards without recent reviews get a
// neutral rate.
func (e *Engine) DueReviews(ctx context.Context, learnerID int64) ([]spacedrep.Item, error) {
	now := e.Now()

	states, err := e.records.FindReviewStates(ctx, learnerID)
	if err != nil {
		return nil, fmt.Errorf("records.FindReviewStates() > %w", err)
	}

	reviews, err := e.records.FindFlashcardReviews(ctx, learnerID, 0, now.AddDate(0, 0, -e.windowDays))
	if err != nil {
		return nil, fmt.Errorf("records.FindFlashcardReviews() > %w", err)
	}
	rates := successRates(reviews)

	var due []spacedrep.Item
	for _, state := range states {
		if !spacedrep.IsDue(state, now) {
			continue
		}
		rate, ok := rates[state.CardID]
		if !ok {
			rate = 0.5
		}
		due = append(due, spacedrep.Item{
			CardID:      state.CardID,
			State:       state,
			SuccessRate: rate,
			Difficulty:  spacedrep.DifficultyMedium,
		})
	}
	return spacedrep.Prioritize(due, now), nil
}

func successRates(reviews []record.ReviewEvent) map[int64]float64 {
	type tally struct {
		passed int
		total  int
	}
	byCard := make(map[int64]*tally)
	for _, r := range reviews {
		t, ok := byCard[r.CardID]
		if !ok {
			t = &tally{}
			byCard[r.CardID] = t
		}
		t.total++
		if r.Quality >= spacedrep.PassingQuality {
			t.passed++
		}
	}

	rates := make(map[int64]float64, len(byCard))
	for cardID, t := range byCard {
		rates[cardID] = float64(t.passed) / float64(t.total)
	}
	return rates
}

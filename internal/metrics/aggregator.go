// Package metrics reduces raw historical records into the normalized
// performance signals consumed by the analyzer, planner, and predictor.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/studyloop/studyloop/internal/record"
	"github.com/studyloop/studyloop/internal/spacedrep"
)

// PerformanceSnapshot holds the aggregated signals for one learner, course,
// and time window. It is a derived value object and is never persisted.
//
// Rates and scores are normalized to 0-100; LearningVelocity is topics
// mastered per week.
type PerformanceSnapshot struct {
	LearnerID   int64
	CourseID    int64
	WindowDays  int
	PeriodStart time.Time
	PeriodEnd   time.Time

	AvgQuizScore     float64
	CompletionRate   float64
	RetentionRate    float64
	LearningVelocity float64
	ConsistencyScore float64
	EngagementScore  float64
	AvgMastery       float64 // 0..5

	QuizCount      int
	SessionCount   int
	ReviewCount    int
	TopicsStarted  int
	TopicsMastered int
	TotalTopics    int
}

// Aggregator computes performance snapshots from the record repository.
type Aggregator struct {
	repo record.Repository

	// Now is swappable for tests.
	Now func() time.Time
}

// NewAggregator creates an Aggregator reading through the given repository.
func NewAggregator(repo record.Repository) *Aggregator {
	return &Aggregator{repo: repo, Now: time.Now}
}

// Aggregate reduces the learner's records in the window into a snapshot.
// CourseID 0 aggregates across all courses. A learner with no history gets a
// fully zero-valued snapshot, never an error.
func (a *Aggregator) Aggregate(ctx context.Context, learnerID, courseID int64, windowDays int) (PerformanceSnapshot, error) {
	now := a.Now()
	since := now.AddDate(0, 0, -windowDays)

	attempts, sessions, reviews, progress, err := a.fetch(ctx, learnerID, courseID, since)
	if err != nil {
		return PerformanceSnapshot{}, err
	}

	snap := reduce(attempts, sessions, reviews, progress, since, now)
	snap.LearnerID = learnerID
	snap.CourseID = courseID
	snap.WindowDays = windowDays
	return snap, nil
}

// WeeklySeries reduces the learner's records into one snapshot per week over
// the given number of trailing weeks, oldest first. It fetches the records
// once and partitions them, so a long series costs a single set of queries.
func (a *Aggregator) WeeklySeries(ctx context.Context, learnerID, courseID int64, weeks int) ([]PerformanceSnapshot, error) {
	if weeks < 1 {
		weeks = 1
	}
	now := a.Now()
	since := now.AddDate(0, 0, -7*weeks)

	attempts, sessions, reviews, progress, err := a.fetch(ctx, learnerID, courseID, since)
	if err != nil {
		return nil, err
	}

	series := make([]PerformanceSnapshot, 0, weeks)
	for i := 0; i < weeks; i++ {
		start := since.AddDate(0, 0, 7*i)
		end := start.AddDate(0, 0, 7)

		snap := reduce(
			filterAttempts(attempts, start, end),
			filterSessions(sessions, start, end),
			filterReviews(reviews, start, end),
			progress,
			start, end,
		)
		snap.LearnerID = learnerID
		snap.CourseID = courseID
		snap.WindowDays = 7
		series = append(series, snap)
	}
	return series, nil
}

func (a *Aggregator) fetch(ctx context.Context, learnerID, courseID int64, since time.Time) (
	[]record.QuizAttempt, []record.SessionRecord, []record.ReviewEvent, []record.TopicProgress, error,
) {
	attempts, err := a.repo.FindQuizAttempts(ctx, learnerID, courseID, since)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("repo.FindQuizAttempts() > %w", err)
	}
	sessions, err := a.repo.FindStudySessions(ctx, learnerID, courseID, since)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("repo.FindStudySessions() > %w", err)
	}
	reviews, err := a.repo.FindFlashcardReviews(ctx, learnerID, courseID, since)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("repo.FindFlashcardReviews() > %w", err)
	}
	progress, err := a.repo.FindLearningProgress(ctx, learnerID, courseID)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("repo.FindLearningProgress() > %w", err)
	}
	return attempts, sessions, reviews, progress, nil
}

// reduce computes every snapshot signal over already-filtered records.
func reduce(
	attempts []record.QuizAttempt,
	sessions []record.SessionRecord,
	reviews []record.ReviewEvent,
	progress []record.TopicProgress,
	start, end time.Time,
) PerformanceSnapshot {
	snap := PerformanceSnapshot{
		PeriodStart:  start,
		PeriodEnd:    end,
		QuizCount:    len(attempts),
		SessionCount: len(sessions),
		ReviewCount:  len(reviews),
	}

	if len(attempts) > 0 {
		scores := make([]float64, len(attempts))
		for i, attempt := range attempts {
			scores[i] = attempt.Score
		}
		snap.AvgQuizScore = Mean(scores)
	}

	if len(sessions) > 0 {
		var completed int
		for _, s := range sessions {
			if s.Status == record.SessionStatusCompleted {
				completed++
			}
		}
		snap.CompletionRate = 100 * float64(completed) / float64(len(sessions))
	}

	if len(reviews) > 0 {
		converted := make([]spacedrep.Review, len(reviews))
		for i, r := range reviews {
			converted[i] = spacedrep.Review{Quality: r.Quality, ReviewedAt: r.CreatedAt}
		}
		windowDays := int(end.Sub(start).Hours() / 24)
		snap.RetentionRate = 100 * spacedrep.RetentionRate(converted, windowDays, end)
	}

	snap.ConsistencyScore = ConsistencyScore(dailyMinutes(sessions))
	snap.EngagementScore = engagement(sessions, start, end)

	var masterySum float64
	for _, p := range progress {
		snap.TotalTopics++
		if p.MasteryLevel > 0 || p.CompletionPercentage > 0 {
			snap.TopicsStarted++
		}
		if p.MasteryLevel >= record.MasteredLevel {
			snap.TopicsMastered++
			if !p.UpdatedAt.Before(start) && !p.UpdatedAt.After(end) {
				snap.LearningVelocity++
			}
		}
		masterySum += float64(p.MasteryLevel)
	}
	if snap.TotalTopics > 0 {
		snap.AvgMastery = masterySum / float64(snap.TotalTopics)
	}
	if days := end.Sub(start).Hours() / 24; days > 0 {
		snap.LearningVelocity = snap.LearningVelocity * 7 / days
	}

	return snap
}

// dailyMinutes builds the minutes-studied-per-day series used for the
// consistency score. Days without any session are not part of the series;
// scheduled sessions the learner skipped contribute zero minutes.
func dailyMinutes(sessions []record.SessionRecord) []float64 {
	byDay := make(map[string]float64)
	for _, s := range sessions {
		day := s.ScheduledStart.Format(time.DateOnly)
		byDay[day] += s.ActualMinutes()
	}

	series := make([]float64, 0, len(byDay))
	for _, minutes := range byDay {
		series = append(series, minutes)
	}
	return series
}

// engagement scores how many days in the window saw completed study,
// relative to the window length.
func engagement(sessions []record.SessionRecord, start, end time.Time) float64 {
	activeDays := make(map[string]struct{})
	for _, s := range sessions {
		if s.Status == record.SessionStatusCompleted {
			activeDays[s.ScheduledStart.Format(time.DateOnly)] = struct{}{}
		}
	}

	days := end.Sub(start).Hours() / 24
	if days <= 0 || len(activeDays) == 0 {
		return 0
	}
	score := 100 * float64(len(activeDays)) / days
	if score > 100 {
		return 100
	}
	return score
}

func filterAttempts(attempts []record.QuizAttempt, start, end time.Time) []record.QuizAttempt {
	var out []record.QuizAttempt
	for _, a := range attempts {
		if !a.StartedAt.Before(start) && a.StartedAt.Before(end) {
			out = append(out, a)
		}
	}
	return out
}

func filterSessions(sessions []record.SessionRecord, start, end time.Time) []record.SessionRecord {
	var out []record.SessionRecord
	for _, s := range sessions {
		if !s.ScheduledStart.Before(start) && s.ScheduledStart.Before(end) {
			out = append(out, s)
		}
	}
	return out
}

func filterReviews(reviews []record.ReviewEvent, start, end time.Time) []record.ReviewEvent {
	var out []record.ReviewEvent
	for _, r := range reviews {
		if !r.CreatedAt.Before(start) && r.CreatedAt.Before(end) {
			out = append(out, r)
		}
	}
	return out
}

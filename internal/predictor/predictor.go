// Package predictor estimates course completion dates and the risk of
// falling behind, from learning velocity and topic progress.
package predictor

import (
	"math"
	"time"

	"github.com/studyloop/studyloop/internal/analyzer"
	"github.com/studyloop/studyloop/internal/metrics"
	"github.com/studyloop/studyloop/internal/record"
)

// Defaults used when the learner has no history at all. Predictions built on
// them are reported, not refused, but their confidence is capped.
const (
	DefaultTopicsRemaining = 10
	DefaultVelocity        = 1.0 // topics per week

	noHistoryConfidenceCap = 0.25

	// Probability decays from 1.0 at zero weeks toward this floor at the
	// horizon.
	probabilityFloor = 0.3
	horizonWeeks     = 52
)

// Milestone is a checkpoint on the road to completion.
type Milestone struct {
	PercentComplete int
	TopicsDone      int
	EstimatedDate   time.Time
	Confidence      float64
}

// Prediction is the completion outlook for one learner and course.
type Prediction struct {
	TopicsRemaining     int
	WeeksRemaining      float64    // +Inf when velocity is zero or negative
	EstimatedCompletion *time.Time // nil when completion is unreachable
	Probability         float64    // 0..1
	Confidence          float64    // 0..1
	Milestones          []Milestone
}

// Predictor computes completion predictions. Stateless apart from the clock.
type Predictor struct {
	// Now is replaceable in tests.
	Now func() time.Time
}

// New creates a Predictor.
func New() *Predictor {
	return &Predictor{Now: time.Now}
}

// PredictCompletion estimates when the learner reaches the target mastery
// level on every topic. totalTopics is the course's content size; topics the
// learner has not started yet count as remaining.
func (p *Predictor) PredictCompletion(
	progress []record.TopicProgress,
	totalTopics int,
	targetMastery int,
	snapshot metrics.PerformanceSnapshot,
	trend analyzer.Trend,
) Prediction {
	now := p.Now()

	if len(progress) == 0 {
		return p.defaultPrediction(totalTopics, snapshot, now)
	}

	if totalTopics < len(progress) {
		totalTopics = len(progress)
	}

	done := 0
	for _, tp := range progress {
		if tp.MasteryLevel >= targetMastery {
			done++
		}
	}
	remaining := totalTopics - done

	velocity := snapshot.LearningVelocity
	confidence := p.confidence(snapshot, trend)

	if remaining == 0 {
		completed := now
		return Prediction{
			WeeksRemaining:      0,
			EstimatedCompletion: &completed,
			Probability:         1,
			Confidence:          confidence,
		}
	}

	if velocity <= 0 {
		return Prediction{
			TopicsRemaining: remaining,
			WeeksRemaining:  math.Inf(1),
			Probability:     0,
			Confidence:      confidence,
		}
	}

	weeks := float64(remaining) / velocity
	completion := now.Add(weeksToDuration(weeks))

	return Prediction{
		TopicsRemaining:     remaining,
		WeeksRemaining:      weeks,
		EstimatedCompletion: &completion,
		Probability:         p.probability(weeks, snapshot.ConsistencyScore),
		Confidence:          confidence,
		Milestones:          p.milestones(done, remaining, weeks, confidence, now),
	}
}

func (p *Predictor) defaultPrediction(totalTopics int, snapshot metrics.PerformanceSnapshot, now time.Time) Prediction {
	remaining := totalTopics
	if remaining <= 0 {
		remaining = DefaultTopicsRemaining
	}

	weeks := float64(remaining) / DefaultVelocity
	completion := now.Add(weeksToDuration(weeks))

	confidence := p.confidence(snapshot, analyzer.TrendInsufficientData)
	if confidence > noHistoryConfidenceCap {
		confidence = noHistoryConfidenceCap
	}

	return Prediction{
		TopicsRemaining:     remaining,
		WeeksRemaining:      weeks,
		EstimatedCompletion: &completion,
		Probability:         p.probability(weeks, snapshot.ConsistencyScore),
		Confidence:          confidence,
		Milestones:          p.milestones(0, remaining, weeks, confidence, now),
	}
}

// probability decays with distance to completion and is blended equally with
// the learner's consistency: steady habits offset a long road.
func (p *Predictor) probability(weeks, consistency float64) float64 {
	capped := math.Min(weeks, horizonWeeks)
	decayed := 1 - (1-probabilityFloor)*capped/horizonWeeks
	return 0.5*decayed + 0.5*consistency/100
}

// confidence blends data volume, consistency, and trend stability equally.
func (p *Predictor) confidence(snapshot metrics.PerformanceSnapshot, trend analyzer.Trend) float64 {
	volume := math.Min(1, float64(snapshot.TopicsStarted)/10)

	stability := 0.3
	switch trend {
	case analyzer.TrendImproving:
		stability = 0.8
	case analyzer.TrendStable:
		stability = 0.9
	case analyzer.TrendDeclining:
		stability = 0.6
	}

	return (volume + snapshot.ConsistencyScore/100 + stability) / 3
}

// milestones marks 25/50/75/100% of the remaining work. Confidence decreases
// linearly the further out a milestone sits.
func (p *Predictor) milestones(done, remaining int, weeks, confidence float64, now time.Time) []Milestone {
	fractions := []float64{0.25, 0.5, 0.75, 1.0}
	milestones := make([]Milestone, 0, len(fractions))

	for _, f := range fractions {
		milestones = append(milestones, Milestone{
			PercentComplete: int(f * 100),
			TopicsDone:      done + int(math.Ceil(f*float64(remaining))),
			EstimatedDate:   now.Add(weeksToDuration(weeks * f)),
			Confidence:      confidence * (1 - 0.4*f),
		})
	}
	return milestones
}

func weeksToDuration(weeks float64) time.Duration {
	return time.Duration(weeks * 7 * 24 * float64(time.Hour))
}

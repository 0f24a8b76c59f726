// Package analyzer turns aggregated performance snapshots into trend,
// score, and recommendation output.
package analyzer

import (
	"github.com/studyloop/studyloop/internal/metrics"
)

// Performance categories, checked in descending score order.
const (
	CategoryExcellent        = "Excellent"
	CategoryGood             = "Good"
	CategoryAverage          = "Average"
	CategoryNeedsImprovement = "Needs Improvement"
	CategoryPoor             = "Poor"
)

// Weights are the relative contributions of each component to the overall
// score. The defaults are heuristic and kept for behavioral compatibility;
// they are deliberately tunable rather than constants.
type Weights struct {
	Quiz       float64
	Progress   float64
	Retention  float64
	Completion float64
	Engagement float64
}

// DefaultWeights returns the standard 30/25/20/15/10 component split.
func DefaultWeights() Weights {
	return Weights{
		Quiz:       0.30,
		Progress:   0.25,
		Retention:  0.20,
		Completion: 0.15,
		Engagement: 0.10,
	}
}

// ComponentScores are the 0-100 normalized component inputs to the overall
// score.
type ComponentScores struct {
	Quiz       float64
	Progress   float64
	Retention  float64
	Completion float64
	Engagement float64
}

// AnalysisResult is the full output of one analysis pass.
type AnalysisResult struct {
	OverallScore    float64
	Category        string
	Trend           Trend
	Components      ComponentScores
	Strengths       []string
	Weaknesses      []string
	Recommendations []Recommendation
}

// Analyzer computes analysis results from snapshot series.
type Analyzer struct {
	weights Weights
}

// New creates an Analyzer with the given component weights.
func New(weights Weights) *Analyzer {
	return &Analyzer{weights: weights}
}

// Analyze reduces an ordered snapshot series (oldest first) into an analysis
// result. Component scores come from the most recent snapshot; the trend
// comes from the quiz-score series. An empty series produces the zero-score
// "Poor" result with an insufficient-data trend, never an error.
func (a *Analyzer) Analyze(series []metrics.PerformanceSnapshot) AnalysisResult {
	if len(series) == 0 {
		return AnalysisResult{
			Category: CategoryPoor,
			Trend:    TrendInsufficientData,
		}
	}

	latest := series[len(series)-1]
	components := ComponentScores{
		Quiz:       clampScore(latest.AvgQuizScore),
		Progress:   clampScore(latest.AvgMastery / 5 * 100),
		Retention:  clampScore(latest.RetentionRate),
		Completion: clampScore(latest.CompletionRate),
		Engagement: clampScore(latest.EngagementScore),
	}

	overall := clampScore(
		components.Quiz*a.weights.Quiz +
			components.Progress*a.weights.Progress +
			components.Retention*a.weights.Retention +
			components.Completion*a.weights.Completion +
			components.Engagement*a.weights.Engagement,
	)

	result := AnalysisResult{
		OverallScore: overall,
		Category:     categorize(overall),
		Trend:        ClassifyTrend(quizSeries(series)),
		Components:   components,
	}
	result.Strengths, result.Weaknesses = assess(components)
	result.Recommendations = recommend(overall, latest, components)

	return result
}

// quizSeries extracts the trend input, skipping windows without any quiz
// activity so empty weeks do not register as score collapses.
func quizSeries(series []metrics.PerformanceSnapshot) []float64 {
	var values []float64
	for _, snap := range series {
		if snap.QuizCount == 0 {
			continue
		}
		values = append(values, snap.AvgQuizScore)
	}
	return values
}

func categorize(score float64) string {
	switch {
	case score >= 90:
		return CategoryExcellent
	case score >= 80:
		return CategoryGood
	case score >= 70:
		return CategoryAverage
	case score >= 50:
		return CategoryNeedsImprovement
	default:
		return CategoryPoor
	}
}

// assess applies the per-component threshold rules: a component at or above
// 80 is a strength, below 60 a weakness.
func assess(c ComponentScores) (strengths, weaknesses []string) {
	rules := []struct {
		score    float64
		strength string
		weakness string
	}{
		{c.Quiz, "Strong quiz performance", "Quiz scores need attention"},
		{c.Progress, "Steady topic mastery", "Topic mastery is lagging"},
		{c.Retention, "Reliable flashcard retention", "Flashcard retention is weak"},
		{c.Completion, "Consistent session completion", "Many study sessions go unfinished"},
		{c.Engagement, "Regular study habit", "Irregular study activity"},
	}

	for _, rule := range rules {
		switch {
		case rule.score >= 80:
			strengths = append(strengths, rule.strength)
		case rule.score < 60:
			weaknesses = append(weaknesses, rule.weakness)
		}
	}
	return strengths, weaknesses
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

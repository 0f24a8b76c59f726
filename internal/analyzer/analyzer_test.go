package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyloop/studyloop/internal/metrics"
)

func snapshotWithQuiz(score float64) metrics.PerformanceSnapshot {
	return metrics.PerformanceSnapshot{AvgQuizScore: score, QuizCount: 1}
}

func TestClassifyTrend(t *testing.T) {
	tests := []struct {
		name   string
		series []float64
		want   Trend
	}{
		{name: "strictly increasing", series: []float64{60, 70, 80, 90}, want: TrendImproving},
		{name: "strictly decreasing", series: []float64{90, 80, 70, 60}, want: TrendDeclining},
		{name: "constant", series: []float64{75, 75, 75}, want: TrendStable},
		{name: "noisy flat", series: []float64{70, 72, 69, 71, 70}, want: TrendStable},
		{name: "two points", series: []float64{60, 90}, want: TrendInsufficientData},
		{name: "empty", series: nil, want: TrendInsufficientData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyTrend(tt.series))
		})
	}
}

func TestPearsonAgainstIndex(t *testing.T) {
	assert.InDelta(t, 1.0, PearsonAgainstIndex([]float64{1, 2, 3, 4}), 0.001)
	assert.InDelta(t, -1.0, PearsonAgainstIndex([]float64{4, 3, 2, 1}), 0.001)
	assert.InDelta(t, 0.0, PearsonAgainstIndex([]float64{5, 5, 5}), 0.001)
}

func TestAnalyzer_Analyze(t *testing.T) {
	a := New(DefaultWeights())

	t.Run("empty series produces poor zero result", func(t *testing.T) {
		got := a.Analyze(nil)

		assert.Zero(t, got.OverallScore)
		assert.Equal(t, CategoryPoor, got.Category)
		assert.Equal(t, TrendInsufficientData, got.Trend)
		assert.Empty(t, got.Recommendations)
	})

	t.Run("weighted overall score", func(t *testing.T) {
		latest := metrics.PerformanceSnapshot{
			AvgQuizScore:    90,
			AvgMastery:      4.0, // progress component 80
			RetentionRate:   70,
			CompletionRate:  60,
			EngagementScore: 50,
			QuizCount:       3,
		}
		got := a.Analyze([]metrics.PerformanceSnapshot{latest})

		// 90*0.30 + 80*0.25 + 70*0.20 + 60*0.15 + 50*0.10 = 75
		assert.InDelta(t, 75.0, got.OverallScore, 0.001)
		assert.Equal(t, CategoryAverage, got.Category)
	})

	t.Run("out of range components are clamped", func(t *testing.T) {
		latest := metrics.PerformanceSnapshot{
			AvgQuizScore:    250,
			AvgMastery:      9,
			RetentionRate:   180,
			CompletionRate:  150,
			EngagementScore: -40,
			QuizCount:       1,
		}
		got := a.Analyze([]metrics.PerformanceSnapshot{latest})

		assert.GreaterOrEqual(t, got.OverallScore, 0.0)
		assert.LessOrEqual(t, got.OverallScore, 100.0)
		assert.LessOrEqual(t, got.Components.Quiz, 100.0)
		assert.GreaterOrEqual(t, got.Components.Engagement, 0.0)
	})

	t.Run("trend comes from quiz series", func(t *testing.T) {
		series := []metrics.PerformanceSnapshot{
			snapshotWithQuiz(60),
			snapshotWithQuiz(70),
			{QuizCount: 0}, // idle week is skipped, not a collapse to zero
			snapshotWithQuiz(80),
		}
		got := a.Analyze(series)
		assert.Equal(t, TrendImproving, got.Trend)
	})

	t.Run("categories", func(t *testing.T) {
		tests := []struct {
			quiz float64
			want string
		}{
			{quiz: 95, want: CategoryExcellent},
			{quiz: 85, want: CategoryGood},
			{quiz: 72, want: CategoryAverage},
			{quiz: 55, want: CategoryNeedsImprovement},
			{quiz: 20, want: CategoryPoor},
		}
		for _, tt := range tests {
			// All components equal so the overall score equals the input.
			snap := metrics.PerformanceSnapshot{
				AvgQuizScore:    tt.quiz,
				AvgMastery:      tt.quiz / 20,
				RetentionRate:   tt.quiz,
				CompletionRate:  tt.quiz,
				EngagementScore: tt.quiz,
				QuizCount:       1,
			}
			got := a.Analyze([]metrics.PerformanceSnapshot{snap})
			assert.Equal(t, tt.want, got.Category, "quiz score %v", tt.quiz)
		}
	})
}

func TestAnalyzer_StrengthsAndWeaknesses(t *testing.T) {
	a := New(DefaultWeights())

	snap := metrics.PerformanceSnapshot{
		AvgQuizScore:    92, // strength
		AvgMastery:      2,  // progress 40, weakness
		RetentionRate:   85, // strength
		CompletionRate:  50, // weakness
		EngagementScore: 70, // neither
		QuizCount:       1,
	}
	got := a.Analyze([]metrics.PerformanceSnapshot{snap})

	assert.Contains(t, got.Strengths, "Strong quiz performance")
	assert.Contains(t, got.Strengths, "Reliable flashcard retention")
	assert.Contains(t, got.Weaknesses, "Topic mastery is lagging")
	assert.Contains(t, got.Weaknesses, "Many study sessions go unfinished")
	assert.NotContains(t, got.Strengths, "Regular study habit")
}

func TestAnalyzer_Recommendations(t *testing.T) {
	a := New(DefaultWeights())

	t.Run("low overall score yields high priority workload advice", func(t *testing.T) {
		snap := metrics.PerformanceSnapshot{
			AvgQuizScore: 40, AvgMastery: 1.5, RetentionRate: 40,
			CompletionRate: 50, EngagementScore: 30, QuizCount: 1,
		}
		got := a.Analyze([]metrics.PerformanceSnapshot{snap})

		require.NotEmpty(t, got.Recommendations)
		first := got.Recommendations[0]
		assert.Equal(t, RecommendationWorkload, first.Type)
		assert.Equal(t, PriorityHigh, first.Priority)
		assert.NotEmpty(t, first.ActionItems)
	})

	t.Run("high performer is nudged toward harder material", func(t *testing.T) {
		snap := metrics.PerformanceSnapshot{
			AvgQuizScore: 95, AvgMastery: 4.6, RetentionRate: 92,
			CompletionRate: 90, EngagementScore: 88, ConsistencyScore: 90,
			QuizCount: 1, SessionCount: 10,
		}
		got := a.Analyze([]metrics.PerformanceSnapshot{snap})

		require.Len(t, got.Recommendations, 1)
		assert.Equal(t, RecommendationChallenge, got.Recommendations[0].Type)
		assert.Equal(t, PriorityMedium, got.Recommendations[0].Priority)
	})
}

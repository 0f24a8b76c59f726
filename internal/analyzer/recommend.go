package analyzer

import "github.com/studyloop/studyloop/internal/metrics"

// Recommendation priorities.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Recommendation types.
const (
	RecommendationWorkload  = "workload"
	RecommendationChallenge = "challenge"
	RecommendationReview    = "review"
	RecommendationSchedule  = "schedule"
	RecommendationHabit     = "habit"
)

// Recommendation is one actionable suggestion produced by an analysis pass.
type Recommendation struct {
	Type        string
	Priority    string
	Title       string
	Description string
	ActionItems []string
}

// recommend applies the threshold rules over the overall score and each
// component. Rules are ordered by priority so the list reads most urgent
// first.
func recommend(overall float64, latest metrics.PerformanceSnapshot, c ComponentScores) []Recommendation {
	var recs []Recommendation

	if overall < 60 {
		recs = append(recs, Recommendation{
			Type:        RecommendationWorkload,
			Priority:    PriorityHigh,
			Title:       "Lighten each session, study more often",
			Description: "Overall performance is below target. Shorter, more frequent sessions rebuild momentum faster than long ones.",
			ActionItems: []string{
				"Reduce session length by about 20%",
				"Add one extra short session per day",
				"Start each session with a five-minute review of the previous one",
			},
		})
	}

	if c.Retention < 60 {
		recs = append(recs, Recommendation{
			Type:        RecommendationReview,
			Priority:    PriorityHigh,
			Title:       "Increase flashcard review frequency",
			Description: "Flashcard retention is weak; overdue cards are compounding.",
			ActionItems: []string{
				"Clear the overdue review queue daily",
				"Cap new cards until retention recovers above 70%",
			},
		})
	}

	if c.Completion < 70 {
		recs = append(recs, Recommendation{
			Type:        RecommendationSchedule,
			Priority:    PriorityMedium,
			Title:       "Shorten scheduled sessions",
			Description: "A large share of scheduled sessions are skipped or abandoned, which usually means they are too long for the available slots.",
			ActionItems: []string{
				"Shrink planned sessions by 30%",
				"Move sessions to historically productive hours",
			},
		})
	}

	if latest.ConsistencyScore < 50 && latest.SessionCount > 0 {
		recs = append(recs, Recommendation{
			Type:        RecommendationHabit,
			Priority:    PriorityMedium,
			Title:       "Even out daily study time",
			Description: "Study time swings heavily between days; steadier daily amounts improve retention.",
			ActionItems: []string{
				"Set a fixed daily minimum",
				"Avoid doubling up after missed days",
			},
		})
	}

	if overall > 85 {
		recs = append(recs, Recommendation{
			Type:        RecommendationChallenge,
			Priority:    PriorityMedium,
			Title:       "Increase the challenge level",
			Description: "Performance is consistently high; harder material will keep progress efficient.",
			ActionItems: []string{
				"Add one hard task per session",
				"Raise the target mastery level for upcoming topics",
			},
		})
	}

	return recs
}

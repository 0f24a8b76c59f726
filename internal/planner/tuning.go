// Package planner builds and adapts multi-week study plans from performance
// analysis, time-slot rankings, and course content volume.
package planner

import "github.com/studyloop/studyloop/internal/plan"

// Multipliers feeding the cognitive load estimate. The normalization anchor
// (3 hours of plain work ≈ 100) is a tunable heuristic, not a fixed law.
var difficultyMultipliers = map[string]float64{
	"easy":   0.8,
	"medium": 1.0,
	"hard":   1.3,
}

var typeMultipliers = map[string]float64{
	plan.TaskReading:  0.9,
	plan.TaskPractice: 1.1,
	plan.TaskQuiz:     1.2,
	plan.TaskProject:  1.4,
}

// Tuning collects every scheduling heuristic in one place so deployments can
// adjust them without touching the generator.
type Tuning struct {
	// Cognitive load normalization: this many task hours maps to a load of
	// 100. A day whose summed load exceeds DailyLoadCeiling gets its
	// sessions flagged for re-balancing.
	LoadNormalizationHours float64
	DailyLoadCeiling       float64

	// Parameter derivation thresholds and multipliers. Below StruggleScore
	// the plan shifts to more, shorter sessions; above AdvancedScore to
	// fewer, longer ones.
	StruggleScore            float64
	AdvancedScore            float64
	StruggleHoursMultiplier  float64
	StruggleLengthMultiplier float64
	AdvancedHoursMultiplier  float64
	AdvancedLengthMultiplier float64

	// Hard bounds on derived parameters.
	MinDailyHours     float64
	MaxDailyHours     float64
	MinSessionMinutes int
	MaxSessionMinutes int

	// Adaptation triggers.
	ScoreDelta        float64 // score moved this many points since generation
	MinCompletionRate float64 // percent
	MinVelocity       float64 // topics per week
}

// DefaultTuning returns the stock heuristics.
func DefaultTuning() Tuning {
	return Tuning{
		LoadNormalizationHours:   3.0,
		DailyLoadCeiling:         85,
		StruggleScore:            60,
		AdvancedScore:            85,
		StruggleHoursMultiplier:  1.3,
		StruggleLengthMultiplier: 0.8,
		AdvancedHoursMultiplier:  0.9,
		AdvancedLengthMultiplier: 1.2,
		MinDailyHours:            0.5,
		MaxDailyHours:            6.0,
		MinSessionMinutes:        15,
		MaxSessionMinutes:        120,
		ScoreDelta:               15,
		MinCompletionRate:        70,
		MinVelocity:              0.5,
	}
}

// EstimateLoad computes the 0-100 cognitive load of a task set. Unknown
// difficulties and types count as 1.0.
func (t Tuning) EstimateLoad(tasks []plan.Task) float64 {
	var weighted float64
	for _, task := range tasks {
		dm, ok := difficultyMultipliers[task.Difficulty]
		if !ok {
			dm = 1.0
		}
		tm, ok := typeMultipliers[task.Type]
		if !ok {
			tm = 1.0
		}
		weighted += task.Hours * dm * tm
	}

	load := weighted / t.LoadNormalizationHours * 100
	if load > 100 {
		return 100
	}
	return load
}

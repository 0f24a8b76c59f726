package spacedrep

import (
	"sort"
	"time"
)

// Card difficulty buckets as stored on the card itself, independent from the
// SM-2 ease factor.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Item is a reviewable card with the statistics needed for prioritization.
type Item struct {
	CardID      int64
	State       ReviewState
	SuccessRate float64 // fraction of past reviews with passing quality, 0..1
	Difficulty  string
	Starred     bool
}

// PriorityScore computes how urgently an item should be reviewed.
// Overdue items dominate, then low success rate, then card difficulty,
// starred cards, and finally cards whose ease factor has degraded.
func PriorityScore(item Item, now time.Time) float64 {
	score := OverdueDays(item.State, now) * 10
	score += (1 - item.SuccessRate) * 20

	switch item.Difficulty {
	case DifficultyHard:
		score += 5
	case DifficultyMedium:
		score += 2
	}

	if item.Starred {
		score += 15
	}

	if item.State.EaseFactor > 0 && item.State.EaseFactor < DefaultEaseFactor {
		score += (DefaultEaseFactor - item.State.EaseFactor) * 4
	}

	return score
}

// Prioritize returns the items ordered by descending priority score.
// The sort is stable so equally scored items keep their input order.
func Prioritize(items []Item, now time.Time) []Item {
	ordered := make([]Item, len(items))
	copy(ordered, items)

	sort.SliceStable(ordered, func(i, j int) bool {
		return PriorityScore(ordered[i], now) > PriorityScore(ordered[j], now)
	})
	return ordered
}

// OverdueDays returns how many days past due the state is, or 0 if it is not
// yet due. A zero NextDueAt (never reviewed) counts as due now.
func OverdueDays(state ReviewState, now time.Time) float64 {
	if state.NextDueAt.IsZero() {
		return 0
	}
	overdue := now.Sub(state.NextDueAt).Hours() / 24
	if overdue < 0 {
		return 0
	}
	return overdue
}

// IsDue reports whether the card should be reviewed at the given time.
func IsDue(state ReviewState, now time.Time) bool {
	if state.NextDueAt.IsZero() {
		return true
	}
	return !state.NextDueAt.After(now)
}

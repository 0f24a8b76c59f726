// Package spacedrep implements the SM-2 spaced-repetition state machine
// and review prioritization used by the scheduling engine.
package spacedrep

import (
	"math"
	"time"
)

const (
	DefaultEaseFactor = 2.5
	MinEaseFactor     = 1.3
	MaxEaseFactor     = 5.0

	MinQuality = 0
	MaxQuality = 5

	// PassingQuality is the lowest quality grade counted as successful recall.
	PassingQuality = 3
)

// ReviewState holds the spaced-repetition memory state for one card.
type ReviewState struct {
	CardID          int64     `db:"card_id"`
	EaseFactor      float64   `db:"ease_factor"`
	IntervalDays    int       `db:"interval_days"`
	RepetitionCount int       `db:"repetition_count"`
	NextDueAt       time.Time `db:"next_due_at"`
	LastReviewedAt  time.Time `db:"last_reviewed_at"`
}

// NewReviewState returns the initial state for a card that has never been reviewed.
func NewReviewState(cardID int64) ReviewState {
	return ReviewState{
		CardID:       cardID,
		EaseFactor:   DefaultEaseFactor,
		IntervalDays: 1,
	}
}

// Advance applies a single review outcome to the given state and returns the
// next state. It is a pure function: identical inputs yield identical
// outputs, which the replay tests rely on.
//
// Quality grades outside [0, 5] are clamped rather than rejected.
func Advance(state ReviewState, quality int, now time.Time) ReviewState {
	quality = clampQuality(quality)

	next := state
	if next.EaseFactor == 0 {
		next.EaseFactor = DefaultEaseFactor
	}

	if quality >= PassingQuality {
		next.RepetitionCount++
		switch next.RepetitionCount {
		case 1:
			next.IntervalDays = 1
		case 2:
			next.IntervalDays = 6
		default:
			next.IntervalDays = int(math.Round(float64(next.IntervalDays) * next.EaseFactor))
		}

		q := float64(quality)
		next.EaseFactor += 0.1 - (5-q)*(0.08+(5-q)*0.02)
	} else {
		next.RepetitionCount = 0
		next.IntervalDays = 1
		next.EaseFactor -= 0.2
	}

	if next.IntervalDays < 1 {
		next.IntervalDays = 1
	}
	next.EaseFactor = clampEaseFactor(next.EaseFactor)
	next.LastReviewedAt = now
	next.NextDueAt = now.AddDate(0, 0, next.IntervalDays)

	return next
}

// Review is a single graded review outcome, used for retention calculations.
type Review struct {
	Quality    int
	ReviewedAt time.Time
}

// RetentionRate returns the fraction of reviews inside the window with a
// passing quality grade. It returns 0 when the window contains no reviews.
func RetentionRate(reviews []Review, windowDays int, now time.Time) float64 {
	since := now.AddDate(0, 0, -windowDays)

	var total, passed int
	for _, r := range reviews {
		if r.ReviewedAt.Before(since) || r.ReviewedAt.After(now) {
			continue
		}
		total++
		if r.Quality >= PassingQuality {
			passed++
		}
	}

	if total == 0 {
		return 0
	}
	return float64(passed) / float64(total)
}

func clampQuality(quality int) int {
	if quality < MinQuality {
		return MinQuality
	}
	if quality > MaxQuality {
		return MaxQuality
	}
	return quality
}

func clampEaseFactor(ef float64) float64 {
	return math.Min(math.Max(ef, MinEaseFactor), MaxEaseFactor)
}

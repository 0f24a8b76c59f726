// Package timeslot ranks candidate study time slots from historical
// per-hour productivity ratings.
package timeslot

import (
	"math"
	"sort"
	"time"

	"github.com/studyloop/studyloop/internal/record"
)

// Defaults used when the learner has no productivity history.
const (
	DefaultHour            = 9
	DefaultSessionMinutes  = 45
	ShortSessionMinutes    = 25
	LongSessionMinutes     = 90
	shortBucketMaxMinutes  = 30
	mediumBucketMaxMinutes = 60
)

// Slot is one recommended study slot.
type Slot struct {
	Day             time.Weekday
	Hour            int
	DurationMinutes int
	Score           float64 // mean productivity of the hour, 0 without history
}

// Optimizer ranks study slots. It is stateless and pure over its inputs.
type Optimizer struct{}

// New creates an Optimizer.
func New() *Optimizer {
	return &Optimizer{}
}

// OptimalSlots converts the needed hours into sessions of the learner's most
// productive length and distributes them round-robin across the available
// days, assigning each session the next-best-ranked hour.
func (o *Optimizer) OptimalSlots(sessions []record.SessionRecord, hoursNeeded float64, daysAvailable []time.Weekday) []Slot {
	return o.SlotsForLength(sessions, hoursNeeded, daysAvailable, o.BestSessionMinutes(sessions))
}

// SlotsForLength is OptimalSlots with a caller-chosen session length, for
// schedules whose length is derived from performance rather than history.
func (o *Optimizer) SlotsForLength(sessions []record.SessionRecord, hoursNeeded float64, daysAvailable []time.Weekday, lengthMinutes int) []Slot {
	if hoursNeeded <= 0 || len(daysAvailable) == 0 || lengthMinutes <= 0 {
		return nil
	}

	hours := rankHours(sessions)
	length := lengthMinutes

	count := int(math.Ceil(hoursNeeded * 60 / float64(length)))
	slots := make([]Slot, 0, count)

	for i := 0; i < count; i++ {
		slot := Slot{
			Day:             daysAvailable[i%len(daysAvailable)],
			Hour:            DefaultHour,
			DurationMinutes: length,
		}
		if len(hours) > 0 {
			ranked := hours[i%len(hours)]
			slot.Hour = ranked.hour
			slot.Score = ranked.mean
		}
		slots = append(slots, slot)
	}
	return slots
}

// BestSessionMinutes picks the session length bucket with the highest mean
// productivity: short (<=30min), medium (<=60min), or long. Without rated
// history it defaults to medium.
func (o *Optimizer) BestSessionMinutes(sessions []record.SessionRecord) int {
	type bucket struct {
		sum   float64
		count int
	}
	var short, medium, long bucket

	for _, s := range sessions {
		minutes := s.ActualMinutes()
		if minutes == 0 || s.ProductivityRating == 0 {
			continue
		}
		rating := float64(s.ProductivityRating)
		switch {
		case minutes <= shortBucketMaxMinutes:
			short.sum += rating
			short.count++
		case minutes <= mediumBucketMaxMinutes:
			medium.sum += rating
			medium.count++
		default:
			long.sum += rating
			long.count++
		}
	}

	mean := func(b bucket) float64 {
		if b.count == 0 {
			return 0
		}
		return b.sum / float64(b.count)
	}

	best, bestMean := DefaultSessionMinutes, mean(medium)
	if m := mean(short); m > bestMean {
		best, bestMean = ShortSessionMinutes, m
	}
	if m := mean(long); m > bestMean {
		best = LongSessionMinutes
	}
	return best
}

type rankedHour struct {
	hour int
	mean float64
}

// rankHours groups productivity ratings by hour of day and orders the hours
// by descending mean rating. Unrated sessions are ignored.
func rankHours(sessions []record.SessionRecord) []rankedHour {
	type agg struct {
		sum   float64
		count int
	}
	byHour := make(map[int]*agg)

	for _, s := range sessions {
		if s.ProductivityRating == 0 || s.ActualStart == nil {
			continue
		}
		hour := s.ActualStart.Hour()
		if byHour[hour] == nil {
			byHour[hour] = &agg{}
		}
		byHour[hour].sum += float64(s.ProductivityRating)
		byHour[hour].count++
	}

	ranked := make([]rankedHour, 0, len(byHour))
	for hour, a := range byHour {
		ranked = append(ranked, rankedHour{hour: hour, mean: a.sum / float64(a.count)})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].mean != ranked[j].mean {
			return ranked[i].mean > ranked[j].mean
		}
		return ranked[i].hour < ranked[j].hour
	})
	return ranked
}

package planner

import (
	"math"
	"time"

	"github.com/studyloop/studyloop/internal/plan"
	"github.com/studyloop/studyloop/internal/record"
	"github.com/studyloop/studyloop/internal/timeslot"
)

// DefaultDailyHours is assumed when preferences carry no daily hours.
const DefaultDailyHours = 2.0

// Topic is one unit of course content to be scheduled.
type Topic struct {
	Name       string
	Type       string // plan task type; defaults to reading
	Difficulty string // easy, medium, hard; defaults to medium
	Hours      float64
}

// Course is the content volume a plan has to cover.
type Course struct {
	ID     int64
	Title  string
	Topics []Topic
}

// TotalHours sums the hours of all topics.
func (c Course) TotalHours() float64 {
	var total float64
	for _, t := range c.Topics {
		total += t.Hours
	}
	return total
}

// Preferences are learner-supplied scheduling constraints. Invalid or missing
// values are corrected to defaults rather than rejected.
type Preferences struct {
	DailyHours    float64
	DaysAvailable []time.Weekday
	TotalWeeks    int
}

func (p Preferences) withDefaults() Preferences {
	if p.DailyHours <= 0 {
		p.DailyHours = DefaultDailyHours
	}
	if len(p.DaysAvailable) == 0 {
		p.DaysAvailable = []time.Weekday{
			time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
		}
	}
	if p.TotalWeeks < 0 {
		p.TotalWeeks = 0
	}
	return p
}

// Generator builds study plans. It is pure over its inputs; persistence is
// the caller's concern.
type Generator struct {
	optimizer *timeslot.Optimizer
	tuning    Tuning

	// Now is replaceable in tests.
	Now func() time.Time
}

// NewGenerator creates a Generator.
func NewGenerator(optimizer *timeslot.Optimizer, tuning Tuning) *Generator {
	return &Generator{
		optimizer: optimizer,
		tuning:    tuning,
		Now:       time.Now,
	}
}

// Generate derives plan parameters from the learner's performance score,
// partitions the course content evenly across the plan's weeks, and schedules
// each week's work into the learner's most productive slots.
func (g *Generator) Generate(
	learnerID int64,
	course Course,
	planType string,
	targetDate *time.Time,
	prefs Preferences,
	score float64,
	history []record.SessionRecord,
) *plan.StudyPlan {
	prefs = prefs.withDefaults()
	if planType == "" {
		planType = "balanced"
	}

	hours := prefs.DailyHours
	length := g.optimizer.BestSessionMinutes(history)
	sessionsPerDay := 2
	switch {
	case score < g.tuning.StruggleScore:
		hours *= g.tuning.StruggleHoursMultiplier
		length = int(math.Round(float64(length) * g.tuning.StruggleLengthMultiplier))
		sessionsPerDay = 3
	case score > g.tuning.AdvancedScore:
		hours *= g.tuning.AdvancedHoursMultiplier
		length = int(math.Round(float64(length) * g.tuning.AdvancedLengthMultiplier))
		sessionsPerDay = 1
	}
	hours = clampFloat(hours, g.tuning.MinDailyHours, g.tuning.MaxDailyHours)
	length = clampInt(length, g.tuning.MinSessionMinutes, g.tuning.MaxSessionMinutes)

	now := g.Now()
	weeks := g.totalWeeks(course, targetDate, prefs, hours, now)

	p := &plan.StudyPlan{
		LearnerID:         learnerID,
		CourseID:          course.ID,
		Type:              planType,
		Status:            plan.StatusActive,
		DailyHours:        hours,
		SessionMinutes:    length,
		SessionsPerDay:    sessionsPerDay,
		TotalWeeks:        weeks,
		ScoreAtGeneration: score,
	}

	start := startOfNextDay(now)
	for w, topics := range partitionTopics(course.Topics, weeks) {
		weekHours := topicHours(topics)
		slots := g.optimizer.SlotsForLength(history, weekHours, prefs.DaysAvailable, length)
		weekStart := start.AddDate(0, 0, 7*w)
		p.Sessions = append(p.Sessions, g.buildSessions(topics, slots, weekStart)...)
	}
	g.flagOverload(p.Sessions)

	return p
}

func (g *Generator) totalWeeks(course Course, targetDate *time.Time, prefs Preferences, dailyHours float64, now time.Time) int {
	if targetDate != nil && targetDate.After(now) {
		return atLeastOne(int(math.Ceil(targetDate.Sub(now).Hours() / (24 * 7))))
	}
	if prefs.TotalWeeks > 0 {
		return prefs.TotalWeeks
	}

	weeklyHours := dailyHours * float64(len(prefs.DaysAvailable))
	if weeklyHours <= 0 {
		return 1
	}
	return atLeastOne(int(math.Ceil(course.TotalHours() / weeklyHours)))
}

// buildSessions fills each slot's hour capacity from the week's task queue,
// splitting tasks across session boundaries. Whatever is left after the last
// slot lands in the last session so no content is dropped.
func (g *Generator) buildSessions(topics []Topic, slots []timeslot.Slot, weekStart time.Time) []plan.Session {
	queue := tasksFromTopics(topics)
	sessions := make([]plan.Session, 0, len(slots))

	for i, slot := range slots {
		s := plan.Session{
			Date:            dateFor(weekStart, slot.Day),
			StartHour:       slot.Hour,
			DurationMinutes: slot.DurationMinutes,
			Status:          plan.SessionScheduled,
		}

		capacity := float64(slot.DurationMinutes) / 60
		if i == len(slots)-1 {
			capacity = math.Inf(1)
		}
		s.Tasks, queue = takeTasks(queue, capacity)
		s.CognitiveLoad = g.tuning.EstimateLoad(s.Tasks)

		sessions = append(sessions, s)
	}
	return sessions
}

// flagOverload marks every live session on a day whose summed load exceeds
// the ceiling, so a re-balancing pass can spread the work out. Superseded
// sessions do not count against the day.
func (g *Generator) flagOverload(sessions []plan.Session) {
	byDay := make(map[time.Time]float64)
	for _, s := range sessions {
		if s.Status == plan.SessionSuperseded {
			continue
		}
		byDay[s.Date] += s.CognitiveLoad
	}
	for i := range sessions {
		if sessions[i].Status == plan.SessionSuperseded {
			continue
		}
		sessions[i].Overloaded = byDay[sessions[i].Date] > g.tuning.DailyLoadCeiling
	}
}

// partitionTopics splits the topics into week buckets of roughly equal hours,
// preserving course order.
func partitionTopics(topics []Topic, weeks int) [][]Topic {
	out := make([][]Topic, weeks)
	if len(topics) == 0 || weeks == 0 {
		return out
	}

	var total float64
	for _, t := range topics {
		total += t.Hours
	}
	target := total / float64(weeks)

	week := 0
	var acc float64
	for _, t := range topics {
		if week < weeks-1 && acc > 0 && acc >= target {
			week++
			acc = 0
		}
		out[week] = append(out[week], t)
		acc += t.Hours
	}
	return out
}

func tasksFromTopics(topics []Topic) []plan.Task {
	tasks := make([]plan.Task, 0, len(topics))
	for _, t := range topics {
		task := plan.Task{
			Topic:      t.Name,
			Type:       t.Type,
			Difficulty: t.Difficulty,
			Hours:      t.Hours,
		}
		if task.Type == "" {
			task.Type = plan.TaskReading
		}
		if task.Difficulty == "" {
			task.Difficulty = "medium"
		}
		tasks = append(tasks, task)
	}
	return tasks
}

// takeTasks pops tasks from the queue until the capacity (in hours) is
// spent, splitting the task at the boundary when it does not fit whole.
func takeTasks(queue []plan.Task, capacity float64) (taken, rest []plan.Task) {
	const epsilon = 1e-9

	for len(queue) > 0 && capacity > epsilon {
		t := queue[0]
		if t.Hours <= capacity+epsilon {
			taken = append(taken, t)
			capacity -= t.Hours
			queue = queue[1:]
			continue
		}

		part := t
		part.Hours = capacity
		taken = append(taken, part)
		queue[0].Hours -= capacity
		capacity = 0
	}
	return taken, queue
}

func topicHours(topics []Topic) float64 {
	var total float64
	for _, t := range topics {
		total += t.Hours
	}
	return total
}

// dateFor returns the first date on or after weekStart falling on the day.
func dateFor(weekStart time.Time, day time.Weekday) time.Time {
	offset := (int(day) - int(weekStart.Weekday()) + 7) % 7
	return weekStart.AddDate(0, 0, offset)
}

func startOfNextDay(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func atLeastOne(v int) int {
	if v < 1 {
		return 1
	}
	return v
}

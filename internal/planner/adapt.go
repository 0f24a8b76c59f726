package planner

import (
	"fmt"
	"math"

	"github.com/studyloop/studyloop/internal/metrics"
	"github.com/studyloop/studyloop/internal/plan"
	"github.com/studyloop/studyloop/internal/timeslot"
)

// Adapt compares the plan's score at generation time against the fresh
// snapshot and rewrites the remaining schedule when a trigger fires. Changed
// sessions are superseded and replaced, never mutated in place, and every
// applied change is appended to the plan's adaptation history. The returned
// slice holds the adaptations applied by this pass; an empty result means the
// plan was left untouched.
//
// Calling Adapt again with the same snapshot values is a no-op: each
// adaptation records the values it fired on, and a pass whose inputs match
// the latest entry is skipped.
func (g *Generator) Adapt(p *plan.StudyPlan, score float64, snapshot metrics.PerformanceSnapshot) []plan.Adaptation {
	if last := p.LatestAdaptation(); last != nil &&
		last.SnapshotScore == score &&
		last.CompletionRate == snapshot.CompletionRate &&
		last.Velocity == snapshot.LearningVelocity {
		return nil
	}

	// Overrides placed since the previous adaptation win over this pass for
	// the fields they touch.
	since := p.CreatedAt
	if last := p.LatestAdaptation(); last != nil {
		since = last.CreatedAt
	}
	blocked := make(map[string]bool)
	for _, o := range p.OverridesSince(since) {
		blocked[o.Type] = true
	}

	working := cloneScheduled(p)
	var adaptations []plan.Adaptation

	delta := score - p.ScoreAtGeneration
	switch {
	case delta < -g.tuning.ScoreDelta && !blocked[plan.OverrideDifficulty]:
		g.scaleDurations(working, 0.75)
		markHardOptional(working)
		p.SessionMinutes = g.scaledLength(p.SessionMinutes, 0.75)
		adaptations = append(adaptations, plan.Adaptation{
			Trigger:     plan.TriggerScoreDrop,
			Description: fmt.Sprintf("score fell %.0f points: session length reduced 25%% and hard tasks made optional", -delta),
		})
	case delta > g.tuning.ScoreDelta && !blocked[plan.OverrideDifficulty]:
		g.scaleDurations(working, 1.25)
		appendChallengeTask(working)
		p.SessionMinutes = g.scaledLength(p.SessionMinutes, 1.25)
		adaptations = append(adaptations, plan.Adaptation{
			Trigger:     plan.TriggerScoreRise,
			Description: fmt.Sprintf("score rose %.0f points: session length grown 25%% and an optional hard task added", delta),
		})
	}

	if snapshot.CompletionRate < g.tuning.MinCompletionRate && !blocked[plan.OverrideSchedule] {
		g.scaleDurations(working, 0.7)
		p.SessionMinutes = g.scaledLength(p.SessionMinutes, 0.7)
		adaptations = append(adaptations, plan.Adaptation{
			Trigger:     plan.TriggerLowCompletion,
			Description: fmt.Sprintf("completion rate %.0f%%: all session durations shrunk 30%%", snapshot.CompletionRate),
		})
	}

	if snapshot.LearningVelocity < g.tuning.MinVelocity && !blocked[plan.OverrideReviewFrequency] {
		working = injectReviews(working)
		adaptations = append(adaptations, plan.Adaptation{
			Trigger:     plan.TriggerLowVelocity,
			Description: fmt.Sprintf("velocity %.2f topics/week: review session injected after every third session", snapshot.LearningVelocity),
		})
	}

	if len(adaptations) == 0 {
		return nil
	}

	for i := range adaptations {
		adaptations[i].SnapshotScore = score
		adaptations[i].CompletionRate = snapshot.CompletionRate
		adaptations[i].Velocity = snapshot.LearningVelocity
	}

	for i := range p.Sessions {
		if p.Sessions[i].Status == plan.SessionScheduled {
			p.Sessions[i].Status = plan.SessionSuperseded
		}
	}
	for i := range working {
		working[i].ID = 0
		working[i].PlanID = p.ID
		working[i].CognitiveLoad = g.tuning.EstimateLoad(working[i].Tasks)
		p.Sessions = append(p.Sessions, working[i])
	}
	g.flagOverload(p.Sessions)

	p.ScoreAtGeneration = score
	p.Adaptations = append(p.Adaptations, adaptations...)

	return adaptations
}

// cloneScheduled deep-copies the plan's scheduled sessions so the adaptation
// pass can rewrite them while the originals become the superseded record.
func cloneScheduled(p *plan.StudyPlan) []plan.Session {
	var out []plan.Session
	for _, s := range p.Sessions {
		if s.Status != plan.SessionScheduled {
			continue
		}
		c := s
		c.Tasks = append([]plan.Task(nil), s.Tasks...)
		out = append(out, c)
	}
	return out
}

func (g *Generator) scaleDurations(sessions []plan.Session, factor float64) {
	for i := range sessions {
		sessions[i].DurationMinutes = g.scaledLength(sessions[i].DurationMinutes, factor)
	}
}

func (g *Generator) scaledLength(minutes int, factor float64) int {
	return clampInt(
		int(math.Round(float64(minutes)*factor)),
		g.tuning.MinSessionMinutes,
		g.tuning.MaxSessionMinutes,
	)
}

func markHardOptional(sessions []plan.Session) {
	for i := range sessions {
		for j := range sessions[i].Tasks {
			if sessions[i].Tasks[j].Difficulty == "hard" {
				sessions[i].Tasks[j].Optional = true
			}
		}
	}
}

func appendChallengeTask(sessions []plan.Session) {
	if len(sessions) == 0 {
		return
	}
	last := &sessions[len(sessions)-1]
	last.Tasks = append(last.Tasks, plan.Task{
		Topic:      "challenge exercise",
		Type:       plan.TaskPractice,
		Difficulty: "hard",
		Hours:      0.5,
		Optional:   true,
	})
}

// injectReviews places a short spaced-review session after every third
// scheduled session, on the same day right after the session it follows.
func injectReviews(sessions []plan.Session) []plan.Session {
	out := make([]plan.Session, 0, len(sessions)+len(sessions)/3)
	for i, s := range sessions {
		out = append(out, s)
		if (i+1)%3 != 0 {
			continue
		}
		out = append(out, plan.Session{
			Date:            s.Date,
			StartHour:       s.StartHour + (s.DurationMinutes+59)/60,
			DurationMinutes: timeslot.ShortSessionMinutes,
			Tasks: []plan.Task{{
				Topic:      "spaced review",
				Type:       plan.TaskReview,
				Difficulty: "medium",
				Hours:      float64(timeslot.ShortSessionMinutes) / 60,
			}},
			Status: plan.SessionScheduled,
		})
	}
	return out
}

package plan

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/studyloop/studyloop/internal/database"
)

// DBRepository implements Repository using MySQL.
type DBRepository struct {
	db *sqlx.DB
}

// NewDBRepository creates a new DBRepository.
func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

// planRow mirrors the study_plans table.
type planRow struct {
	ID                int64        `db:"id"`
	LearnerID         int64        `db:"learner_id"`
	CourseID          int64        `db:"course_id"`
	Type              string       `db:"plan_type"`
	Status            string       `db:"status"`
	DailyHours        float64      `db:"daily_hours"`
	SessionMinutes    int          `db:"session_minutes"`
	SessionsPerDay    int          `db:"sessions_per_day"`
	TotalWeeks        int          `db:"total_weeks"`
	ScoreAtGeneration float64      `db:"score_at_generation"`
	Version           int64        `db:"version"`
	CreatedAt         sql.NullTime `db:"created_at"`
	UpdatedAt         sql.NullTime `db:"updated_at"`
}

type sessionRow struct {
	ID              int64        `db:"id"`
	PlanID          int64        `db:"plan_id"`
	Date            sql.NullTime `db:"session_date"`
	StartHour       int          `db:"start_hour"`
	DurationMinutes int          `db:"duration_minutes"`
	Tasks           []byte       `db:"tasks"`
	CognitiveLoad   float64      `db:"cognitive_load"`
	Overloaded      bool         `db:"overloaded"`
	Status          string       `db:"status"`
}

type adaptationRow struct {
	ID             int64        `db:"id"`
	PlanID         int64        `db:"plan_id"`
	Trigger        string       `db:"trigger_kind"`
	Description    string       `db:"description"`
	SnapshotScore  float64      `db:"snapshot_score"`
	CompletionRate float64      `db:"completion_rate"`
	Velocity       float64      `db:"velocity"`
	CreatedAt      sql.NullTime `db:"created_at"`
}

type overrideRow struct {
	ID        int64        `db:"id"`
	PlanID    int64        `db:"plan_id"`
	Type      string       `db:"override_type"`
	Data      string       `db:"data"`
	Reason    string       `db:"reason"`
	CreatedAt sql.NullTime `db:"created_at"`
}

// Create inserts a new plan with its sessions, demoting the learner's
// current active plan for the course to paused in the same transaction.
func (r *DBRepository) Create(ctx context.Context, p *StudyPlan) error {
	return database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"UPDATE study_plans SET status = ? WHERE learner_id = ? AND course_id = ? AND status = ?",
			StatusPaused, p.LearnerID, p.CourseID, StatusActive); err != nil {
			return fmt.Errorf("tx.ExecContext(demote active plan) > %w", err)
		}

		result, err := tx.ExecContext(ctx,
			`INSERT INTO study_plans (learner_id, course_id, plan_type, status, daily_hours, session_minutes, sessions_per_day, total_weeks, score_at_generation, version)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 1)`,
			p.LearnerID, p.CourseID, p.Type, p.Status, p.DailyHours,
			p.SessionMinutes, p.SessionsPerDay, p.TotalWeeks, p.ScoreAtGeneration)
		if err != nil {
			return fmt.Errorf("tx.ExecContext(insert study_plan) > %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("result.LastInsertId() > %w", err)
		}
		p.ID = id
		p.Version = 1

		for i := range p.Sessions {
			p.Sessions[i].PlanID = id
			if err := insertSession(ctx, tx, &p.Sessions[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// Find loads a plan with its sessions, adaptations, and overrides.
func (r *DBRepository) Find(ctx context.Context, id int64) (*StudyPlan, error) {
	var row planRow
	err := r.db.GetContext(ctx, &row, "SELECT * FROM study_plans WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(study_plan) > %w", err)
	}
	return r.load(ctx, row)
}

// FindActive loads the learner's active plan for a course.
func (r *DBRepository) FindActive(ctx context.Context, learnerID, courseID int64) (*StudyPlan, error) {
	var row planRow
	err := r.db.GetContext(ctx, &row,
		"SELECT * FROM study_plans WHERE learner_id = ? AND course_id = ? AND status = ?",
		learnerID, courseID, StatusActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(active study_plan) > %w", err)
	}
	return r.load(ctx, row)
}

// ActivePlanIDs lists the IDs of every active plan.
func (r *DBRepository) ActivePlanIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := r.db.SelectContext(ctx, &ids,
		"SELECT id FROM study_plans WHERE status = ? ORDER BY id", StatusActive); err != nil {
		return nil, fmt.Errorf("db.SelectContext(active plan ids) > %w", err)
	}
	return ids, nil
}

// Save conditionally writes the plan: the update only applies when the
// stored version still matches, otherwise ErrConflict is returned. New
// sessions, adaptations, and overrides (zero IDs) are inserted; existing
// sessions have their status written back so supersede marks persist.
func (r *DBRepository) Save(ctx context.Context, p *StudyPlan) error {
	err := database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE study_plans
			SET status = ?, daily_hours = ?, session_minutes = ?, sessions_per_day = ?, total_weeks = ?, score_at_generation = ?, version = version + 1
			WHERE id = ? AND version = ?`,
			p.Status, p.DailyHours, p.SessionMinutes, p.SessionsPerDay,
			p.TotalWeeks, p.ScoreAtGeneration, p.ID, p.Version)
		if err != nil {
			return fmt.Errorf("tx.ExecContext(update study_plan) > %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("result.RowsAffected() > %w", err)
		}
		if affected == 0 {
			return ErrConflict
		}

		for i := range p.Sessions {
			s := &p.Sessions[i]
			if s.ID == 0 {
				s.PlanID = p.ID
				if err := insertSession(ctx, tx, s); err != nil {
					return err
				}
				continue
			}
			if _, err := tx.ExecContext(ctx,
				"UPDATE plan_sessions SET status = ? WHERE id = ?", s.Status, s.ID); err != nil {
				return fmt.Errorf("tx.ExecContext(update plan_session) > %w", err)
			}
		}

		for i := range p.Adaptations {
			a := &p.Adaptations[i]
			if a.ID != 0 {
				continue
			}
			a.PlanID = p.ID
			result, err := tx.ExecContext(ctx,
				`INSERT INTO plan_adaptations (plan_id, trigger_kind, description, snapshot_score, completion_rate, velocity)
				VALUES (?, ?, ?, ?, ?, ?)`,
				a.PlanID, a.Trigger, a.Description, a.SnapshotScore, a.CompletionRate, a.Velocity)
			if err != nil {
				return fmt.Errorf("tx.ExecContext(insert plan_adaptation) > %w", err)
			}
			if a.ID, err = result.LastInsertId(); err != nil {
				return fmt.Errorf("result.LastInsertId() > %w", err)
			}
		}

		for i := range p.Overrides {
			o := &p.Overrides[i]
			if o.ID != 0 {
				continue
			}
			o.PlanID = p.ID
			result, err := tx.ExecContext(ctx,
				"INSERT INTO plan_overrides (plan_id, override_type, data, reason) VALUES (?, ?, ?, ?)",
				o.PlanID, o.Type, o.Data, o.Reason)
			if err != nil {
				return fmt.Errorf("tx.ExecContext(insert plan_override) > %w", err)
			}
			if o.ID, err = result.LastInsertId(); err != nil {
				return fmt.Errorf("result.LastInsertId() > %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	p.Version++
	return nil
}

func insertSession(ctx context.Context, tx *sqlx.Tx, s *Session) error {
	tasks, err := json.Marshal(s.Tasks)
	if err != nil {
		return fmt.Errorf("json.Marshal(tasks) > %w", err)
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO plan_sessions (plan_id, session_date, start_hour, duration_minutes, tasks, cognitive_load, overloaded, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.PlanID, s.Date, s.StartHour, s.DurationMinutes, tasks, s.CognitiveLoad, s.Overloaded, s.Status)
	if err != nil {
		return fmt.Errorf("tx.ExecContext(insert plan_session) > %w", err)
	}
	if s.ID, err = result.LastInsertId(); err != nil {
		return fmt.Errorf("result.LastInsertId() > %w", err)
	}
	return nil
}

func (r *DBRepository) load(ctx context.Context, row planRow) (*StudyPlan, error) {
	p := fromPlanRow(row)

	var sessionRows []sessionRow
	if err := r.db.SelectContext(ctx, &sessionRows,
		"SELECT * FROM plan_sessions WHERE plan_id = ? ORDER BY session_date, start_hour, id", p.ID); err != nil {
		return nil, fmt.Errorf("db.SelectContext(plan_sessions) > %w", err)
	}
	for _, sr := range sessionRows {
		session, err := fromSessionRow(sr)
		if err != nil {
			return nil, err
		}
		p.Sessions = append(p.Sessions, session)
	}

	var adaptationRows []adaptationRow
	if err := r.db.SelectContext(ctx, &adaptationRows,
		"SELECT * FROM plan_adaptations WHERE plan_id = ? ORDER BY id", p.ID); err != nil {
		return nil, fmt.Errorf("db.SelectContext(plan_adaptations) > %w", err)
	}
	for _, ar := range adaptationRows {
		p.Adaptations = append(p.Adaptations, Adaptation{
			ID:             ar.ID,
			PlanID:         ar.PlanID,
			Trigger:        ar.Trigger,
			Description:    ar.Description,
			SnapshotScore:  ar.SnapshotScore,
			CompletionRate: ar.CompletionRate,
			Velocity:       ar.Velocity,
			CreatedAt:      ar.CreatedAt.Time,
		})
	}

	var overrideRows []overrideRow
	if err := r.db.SelectContext(ctx, &overrideRows,
		"SELECT * FROM plan_overrides WHERE plan_id = ? ORDER BY id", p.ID); err != nil {
		return nil, fmt.Errorf("db.SelectContext(plan_overrides) > %w", err)
	}
	for _, or := range overrideRows {
		p.Overrides = append(p.Overrides, Override{
			ID:        or.ID,
			PlanID:    or.PlanID,
			Type:      or.Type,
			Data:      or.Data,
			Reason:    or.Reason,
			CreatedAt: or.CreatedAt.Time,
		})
	}

	return p, nil
}

func fromPlanRow(row planRow) *StudyPlan {
	return &StudyPlan{
		ID:                row.ID,
		LearnerID:         row.LearnerID,
		CourseID:          row.CourseID,
		Type:              row.Type,
		Status:            row.Status,
		DailyHours:        row.DailyHours,
		SessionMinutes:    row.SessionMinutes,
		SessionsPerDay:    row.SessionsPerDay,
		TotalWeeks:        row.TotalWeeks,
		ScoreAtGeneration: row.ScoreAtGeneration,
		Version:           row.Version,
		CreatedAt:         row.CreatedAt.Time,
		UpdatedAt:         row.UpdatedAt.Time,
	}
}

func fromSessionRow(row sessionRow) (Session, error) {
	session := Session{
		ID:              row.ID,
		PlanID:          row.PlanID,
		Date:            row.Date.Time,
		StartHour:       row.StartHour,
		DurationMinutes: row.DurationMinutes,
		CognitiveLoad:   row.CognitiveLoad,
		Overloaded:      row.Overloaded,
		Status:          row.Status,
	}
	if len(row.Tasks) > 0 {
		if err := json.Unmarshal(row.Tasks, &session.Tasks); err != nil {
			return Session{}, fmt.Errorf("json.Unmarshal(tasks) > %w", err)
		}
	}
	return session, nil
}

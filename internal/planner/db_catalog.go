package planner

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/studyloop/studyloop/internal/record"
)

// DBCatalog implements Catalog using MySQL.
type DBCatalog struct {
	db *sqlx.DB
}

// NewDBCatalog creates a new DBCatalog.
func NewDBCatalog(db *sqlx.DB) *DBCatalog {
	return &DBCatalog{db: db}
}

type courseRow struct {
	ID    int64  `db:"id"`
	Title string `db:"title"`
}

type courseTopicRow struct {
	ID         int64   `db:"id"`
	CourseID   int64   `db:"course_id"`
	Topic      string  `db:"topic"`
	TaskType   string  `db:"task_type"`
	Difficulty string  `db:"difficulty"`
	Hours      float64 `db:"hours"`
	Position   int     `db:"position"`
}

// FindCourse loads a course and its topics in course order.
func (c *DBCatalog) FindCourse(ctx context.Context, id int64) (Course, error) {
	var row courseRow
	err := c.db.GetContext(ctx, &row, "SELECT * FROM courses WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return Course{}, record.ErrNotFound
	}
	if err != nil {
		return Course{}, fmt.Errorf("db.GetContext(course) > %w", err)
	}

	var topicRows []courseTopicRow
	if err := c.db.SelectContext(ctx, &topicRows,
		"SELECT * FROM course_topics WHERE course_id = ? ORDER BY position, id", id); err != nil {
		return Course{}, fmt.Errorf("db.SelectContext(course_topics) > %w", err)
	}

	course := Course{ID: row.ID, Title: row.Title}
	for _, tr := range topicRows {
		course.Topics = append(course.Topics, Topic{
			Name:       tr.Topic,
			Type:       tr.TaskType,
			Difficulty: tr.Difficulty,
			Hours:      tr.Hours,
		})
	}
	return course, nil
}

package planner

import "context"

//go:generate mockgen -source=catalog.go -destination=../mocks/planner/mock_catalog.go -package=mock_planner Catalog

// Catalog resolves course content volume for plan generation.
type Catalog interface {
	// FindCourse loads a course with its ordered topics. Returns
	// record.ErrNotFound for an unknown id.
	FindCourse(ctx context.Context, id int64) (Course, error)
}

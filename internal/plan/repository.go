package plan

import "context"

//go:generate mockgen -source=repository.go -destination=../mocks/plan/mock_repository.go -package=mock_plan Repository

// Repository persists study plans. Create and Save are the only mutating
// entry points in the engine besides review-state writes, and both are
// atomic: Create demotes the prior active plan in the same transaction, and
// Save is a compare-and-swap on the plan version.
type Repository interface {
	// Create inserts the plan and its sessions, demoting any currently
	// active plan for the same learner and course to paused.
	Create(ctx context.Context, p *StudyPlan) error

	// Find loads a plan with its sessions, adaptations, and overrides.
	// Returns ErrNotFound for an unknown id.
	Find(ctx context.Context, id int64) (*StudyPlan, error)

	// FindActive loads the learner's active plan for a course, or
	// ErrNotFound when none exists.
	FindActive(ctx context.Context, learnerID, courseID int64) (*StudyPlan, error)

	// ActivePlanIDs lists the IDs of every active plan, for batch
	// re-adaptation runs.
	ActivePlanIDs(ctx context.Context) ([]int64, error)

	// Save writes the plan conditionally on its version. On success the
	// in-memory version is advanced; a lost race returns ErrConflict and
	// leaves the database untouched.
	Save(ctx context.Context, p *StudyPlan) error
}

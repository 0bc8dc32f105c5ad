package repository

import (
	"context"
	"time"

	"nutrix/workout-engine/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// ExerciseFilter narrows a catalog query. Zero-value fields are ignored.
type ExerciseFilter struct {
	EquipmentIn []string // Match any of these equipment values
	BodyPart    string   // Exact body part, optional
	LevelIn     []string // Match any of these difficulty levels
	ExcludeIDs  []string // Exercise IDs to exclude
	ActiveOnly  bool
}

// ExerciseCatalog is the read-only exercise store contract used by the
// generation engine. No result ordering is guaranteed; callers bound cost
// through the limit.
type ExerciseCatalog interface {
	Query(ctx context.Context, filter ExerciseFilter, limit int64) ([]domain.ExerciseRecord, error)
	// BulkUpsert is used by ingestion only, never by the engine.
	BulkUpsert(ctx context.Context, records []domain.ExerciseRecord) (int, error)
}

// UsageRepository tracks per-user exercise usage history.
type UsageRepository interface {
	// RecentUsage returns entries whose LastUsed falls within the window,
	// ordered most-recent-first.
	RecentUsage(ctx context.Context, userID string, windowDays int) ([]domain.ExerciseUsageEntry, error)
	UpsertUsage(ctx context.Context, userID, exerciseID string, now time.Time) error
}

// PlanRepository stores generated weekly plans, keyed by (userId, weekStart).
type PlanRepository interface {
	// UpsertPlan overwrites the whole document for the plan's key.
	UpsertPlan(ctx context.Context, plan *domain.WeeklyPlan) error
	GetByUserAndWeek(ctx context.Context, userID, weekStart string) (*domain.WeeklyPlan, error)
	// RecentPlans returns up to limit plans ordered by generation time,
	// newest first.
	RecentPlans(ctx context.Context, userID string, limit int64) ([]domain.WeeklyPlan, error)
}

// UserRepository defines the interface for interacting with user profiles.
type UserRepository interface {
	Create(ctx context.Context, user *domain.UserProfile) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.UserProfile, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.UserProfile, error)
	Update(ctx context.Context, user *domain.UserProfile) error
	// Deactivate marks the profile inactive; profiles are never deleted.
	Deactivate(ctx context.Context, id primitive.ObjectID) error
}
